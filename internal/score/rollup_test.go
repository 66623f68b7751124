package score

import (
	"testing"
	"time"

	"github.com/davomat-uz/davomat-server/internal/models"
)

var rollupNow = time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

func TestRollup_AllPeriod(t *testing.T) {
	ids := []string{"s1", "s2", "s3"}
	att := []models.AttendanceRecord{
		{StudentID: "s1", Date: "2024-03-01", Status: models.StatusPresent},
		{StudentID: "s2", Date: "2024-03-01", Status: models.StatusLate},
		{StudentID: "s1", Date: "2024-03-04", Status: models.StatusPresent},
		{StudentID: "s2", Date: "2024-03-04", Status: models.StatusAbsentUnexcused},
		// s3 без единой записи — не должен раздувать знаменатель
	}
	rewards := []models.RewardEvent{
		{StudentID: "s1", Date: "2024-03-02", Type: models.EventReward, Points: 4},
		{StudentID: "s2", Date: "2024-03-03", Type: models.EventPenalty, Points: 2},
		{StudentID: "s1", Date: "2024-03-03", Type: models.EventGrade, Points: 5},
		{StudentID: "s2", Date: "2024-03-05", Type: models.EventGrade, Points: 4},
	}

	st := Rollup(ids, att, rewards, PeriodAll, rollupNow)

	if st.TotalLessons != 2 {
		t.Fatalf("TotalLessons = %d, ожидали 2", st.TotalLessons)
	}
	if st.TotalRewards != 4 || st.TotalPenalties != 2 {
		t.Fatalf("rewards/penalties = %v/%v", st.TotalRewards, st.TotalPenalties)
	}
	if st.AverageGrade != 4.5 {
		t.Fatalf("AverageGrade = %v, ожидали 4.5", st.AverageGrade)
	}
	// present=2, late=1, занятий 2, учеников с посещаемостью 2:
	// round(100*3/4) = 75
	if st.AttendancePercentage != 75 {
		t.Fatalf("AttendancePercentage = %d, ожидали 75", st.AttendancePercentage)
	}
	// s1: 2*1 + 4 = 6; s2: 0.5 - 2 = -1.5
	if st.TopStudent == nil || st.TopStudent.StudentID != "s1" || st.TopStudent.TotalScore != 6 {
		t.Fatalf("TopStudent = %+v", st.TopStudent)
	}
}

func TestRollup_WindowClipsEvents(t *testing.T) {
	ids := []string{"s1"}
	att := []models.AttendanceRecord{
		{StudentID: "s1", Date: "2024-01-10", Status: models.StatusPresent}, // за окном недели
		{StudentID: "s1", Date: "2024-03-14", Status: models.StatusPresent},
	}
	rewards := []models.RewardEvent{
		{StudentID: "s1", Date: "2024-01-10", Type: models.EventReward, Points: 100},
		{StudentID: "s1", Date: "2024-03-14", Type: models.EventReward, Points: 1},
	}

	st := Rollup(ids, att, rewards, "1w", rollupNow)

	if st.TotalLessons != 1 {
		t.Fatalf("TotalLessons = %d, январь должен отсечься", st.TotalLessons)
	}
	if st.TotalRewards != 1 {
		t.Fatalf("TotalRewards = %v, январские баллы не в окне", st.TotalRewards)
	}
}

func TestRollup_EmptyWindow(t *testing.T) {
	st := Rollup([]string{"s1"}, nil, nil, "1d", rollupNow)

	if st.TopStudent != nil {
		t.Fatalf("без событий TopStudent должен быть nil: %+v", st.TopStudent)
	}
	if st.TotalLessons != 0 || st.AttendancePercentage != 0 || st.AverageGrade != 0 {
		t.Fatalf("пустое окно должно давать нули: %+v", st)
	}
}

func TestRollup_IgnoresNonMembers(t *testing.T) {
	att := []models.AttendanceRecord{
		{StudentID: "outsider", Date: "2024-03-14", Status: models.StatusPresent},
	}
	st := Rollup([]string{"s1"}, att, nil, PeriodAll, rollupNow)
	if st.TotalLessons != 0 {
		t.Fatalf("чужие записи не должны создавать занятия: %d", st.TotalLessons)
	}
}

func TestPeriod_Cutoff(t *testing.T) {
	cases := []struct {
		p       Period
		want    string
		bounded bool
	}{
		{PeriodAll, "", false},
		{"", "", false},
		{"1d", "2024-03-14", true},
		{"1w", "2024-03-08", true},
		{"1m", "2024-02-15", true},
		{"10m", "2023-05-15", true},
		{"11m", "", false}, // вне диапазона 1..10
		{"junk", "", false},
	}
	for _, tc := range cases {
		got, bounded := tc.p.CutoffFrom(rollupNow)
		if bounded != tc.bounded || got != tc.want {
			t.Fatalf("%q: (%q,%v), ожидали (%q,%v)", tc.p, got, bounded, tc.want, tc.bounded)
		}
	}
}
