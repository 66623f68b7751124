package export

import (
	"testing"

	"github.com/davomat-uz/davomat-server/internal/models"
)

func TestStudentsWorkbook(t *testing.T) {
	results := []models.ScoreResult{
		{
			StudentID: "s1", Name: "Алиев Вали", GroupName: "7A", RankPosition: 1,
			TotalClasses: 3, PresentCount: 1, LateCount: 1, AbsentCount: 1,
			AttendancePercentage: 67, MukofotPoints: 3, JarimaPoints: 1,
			BahoAverage: 4.5, TotalScore: 3.5,
		},
		{StudentID: "s2", Name: "Бекова Лола", GroupName: "7A", RankPosition: 2},
	}

	f, err := StudentsWorkbook(results, "")
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	if got, _ := f.GetCellValue("Davomat", "B2"); got != "Алиев Вали" {
		t.Fatalf("B2 = %q", got)
	}
	if got, _ := f.GetCellValue("Davomat", "L2"); got != "3.5" {
		t.Fatalf("итоговый балл L2 = %q", got)
	}
	if got, _ := f.GetCellValue("Davomat", "A1"); got != "Ўрин" {
		t.Fatalf("заголовок A1 = %q", got)
	}
	// вторая строка данных на месте
	if got, _ := f.GetCellValue("Davomat", "B3"); got != "Бекова Лола" {
		t.Fatalf("B3 = %q", got)
	}
}

func TestColName(t *testing.T) {
	cases := map[int]string{1: "A", 26: "Z", 27: "AA", 52: "AZ"}
	for n, want := range cases {
		if got := colName(n); got != want {
			t.Fatalf("colName(%d) = %q, ожидали %q", n, got, want)
		}
	}
}
