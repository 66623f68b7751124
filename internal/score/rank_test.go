package score

import (
	"testing"

	"github.com/davomat-uz/davomat-server/internal/models"
)

func sampleResults() []models.ScoreResult {
	return []models.ScoreResult{
		{StudentID: "s1", Name: "Алиев", GroupName: "7A", AttendancePercentage: 65, TotalScore: 10, TotalClasses: 20},
		{StudentID: "s2", Name: "Бекова", GroupName: "7A", AttendancePercentage: 95, TotalScore: 25, TotalClasses: 20},
		{StudentID: "s3", Name: "Ваҳобов", GroupName: "8B", AttendancePercentage: 70, TotalScore: -3, TotalClasses: 20},
		{StudentID: "s4", Name: "Ғаниев", GroupName: "8B", AttendancePercentage: 0, TotalScore: 0, TotalClasses: 0},
	}
}

func TestSortState_TriState(t *testing.T) {
	var s SortState
	s = s.Next(SortByScore)
	if s.Key != SortByScore || s.Dir != Asc {
		t.Fatalf("первый клик: %+v", s)
	}
	s = s.Next(SortByScore)
	if s.Dir != Desc {
		t.Fatalf("второй клик: %+v", s)
	}
	s = s.Next(SortByScore)
	if s != (SortState{}) {
		t.Fatalf("третий клик должен сбросить: %+v", s)
	}
	// клик по другому столбцу начинает заново с asc
	s = s.Next(SortByName)
	s = s.Next(SortByScore)
	if s.Key != SortByScore || s.Dir != Asc {
		t.Fatalf("смена столбца: %+v", s)
	}
}

func TestSort_DefaultIsNameAscending(t *testing.T) {
	out := Sort(sampleResults(), SortState{})
	want := []string{"Алиев", "Бекова", "Ваҳобов", "Ғаниев"}
	for i, w := range want {
		if out[i].Name != w {
			t.Fatalf("позиция %d: %q, ожидали %q", i, out[i].Name, w)
		}
	}
}

func TestSort_ByScoreDesc(t *testing.T) {
	out := Sort(sampleResults(), SortState{Key: SortByScore, Dir: Desc})
	if out[0].StudentID != "s2" || out[len(out)-1].StudentID != "s3" {
		t.Fatalf("порядок по баллу: %v ... %v", out[0].StudentID, out[len(out)-1].StudentID)
	}
}

func TestAssignRanks_StableTies(t *testing.T) {
	results := []models.ScoreResult{
		{StudentID: "a", TotalScore: 5},
		{StudentID: "b", TotalScore: 5}, // ничья — исходный порядок решает
		{StudentID: "c", TotalScore: 7},
	}
	AssignRanks(results)

	if results[2].RankPosition != 1 {
		t.Fatalf("c должен быть первым, rank=%d", results[2].RankPosition)
	}
	if results[0].RankPosition != 2 || results[1].RankPosition != 3 {
		t.Fatalf("ничья разрешена нестабильно: %d/%d", results[0].RankPosition, results[1].RankPosition)
	}
	// порядок среза не меняется
	if results[0].StudentID != "a" || results[1].StudentID != "b" || results[2].StudentID != "c" {
		t.Fatal("AssignRanks не должен переставлять элементы")
	}
}

func TestFilter_QuickRiskBoundary(t *testing.T) {
	out := Filter{Quick: QuickRisk}.Apply(sampleResults())
	// 65 — в зоне риска, 70 — уже нет
	ids := map[string]bool{}
	for _, r := range out {
		ids[r.StudentID] = true
	}
	if !ids["s1"] || ids["s3"] {
		t.Fatalf("risk-фильтр: %v", ids)
	}
}

func TestFilter_Quick(t *testing.T) {
	rs := sampleResults()

	if out := (Filter{Quick: QuickTop}).Apply(rs); len(out) != 1 || out[0].StudentID != "s2" {
		t.Fatalf("top: %+v", out)
	}
	if out := (Filter{Quick: QuickNegative}).Apply(rs); len(out) != 1 || out[0].StudentID != "s3" {
		t.Fatalf("negative: %+v", out)
	}
	if out := (Filter{Quick: QuickNoAttendance}).Apply(rs); len(out) != 1 || out[0].StudentID != "s4" {
		t.Fatalf("no-attendance: %+v", out)
	}
}

func TestFilter_ComposeAND(t *testing.T) {
	pctMin := 60
	out := Filter{Group: "7A", Query: "али", PctMin: &pctMin}.Apply(sampleResults())
	if len(out) != 1 || out[0].StudentID != "s1" {
		t.Fatalf("композиция фильтров: %+v", out)
	}
}

func TestFilter_QueryMatchesID(t *testing.T) {
	out := Filter{Query: "S3"}.Apply(sampleResults())
	if len(out) != 1 || out[0].StudentID != "s3" {
		t.Fatalf("поиск по id без учёта регистра: %+v", out)
	}
}

func TestFilter_ScoreRange(t *testing.T) {
	min, max := 0.0, 15.0
	out := Filter{ScoreMin: &min, ScoreMax: &max}.Apply(sampleResults())
	ids := map[string]bool{}
	for _, r := range out {
		ids[r.StudentID] = true
	}
	if !ids["s1"] || !ids["s4"] || ids["s2"] || ids["s3"] {
		t.Fatalf("диапазон балла: %v", ids)
	}
}
