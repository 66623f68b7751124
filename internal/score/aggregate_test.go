package score

import (
	"reflect"
	"testing"
	"time"

	"github.com/davomat-uz/davomat-server/internal/models"
)

func calFor(group string, dates ...string) Calendar {
	set := make(map[string]struct{}, len(dates))
	for _, d := range dates {
		set[d] = struct{}{}
	}
	return Calendar{group: set}
}

func TestAggregate_JoinDateBoundsCalendar(t *testing.T) {
	// ученик пришёл 10 января: занятие 5 января не считается
	st := models.Student{ID: "s1", Name: "Алиев Вали", GroupName: "7A", JoinDate: "2024-01-10"}
	cal := calFor("7A", "2024-01-05", "2024-01-10", "2024-01-15", "2024-01-20")
	att := []models.AttendanceRecord{
		{StudentID: "s1", Date: "2024-01-10", Status: models.StatusPresent},
		{StudentID: "s1", Date: "2024-01-15", Status: models.StatusLate},
	}

	res := Aggregate(st, cal, att, nil)

	if res.TotalClasses != 3 {
		t.Fatalf("TotalClasses = %d, ожидали 3", res.TotalClasses)
	}
	if res.PresentCount != 1 || res.LateCount != 1 || res.AbsentCount != 1 {
		t.Fatalf("present/late/absent = %d/%d/%d, ожидали 1/1/1", res.PresentCount, res.LateCount, res.AbsentCount)
	}
	if res.AttendancePercentage != 67 {
		t.Fatalf("AttendancePercentage = %d, ожидали 67", res.AttendancePercentage)
	}
	if res.AttendancePoints != 1.5 {
		t.Fatalf("AttendancePoints = %v, ожидали 1.5", res.AttendancePoints)
	}
}

func TestAggregate_ZeroEverything(t *testing.T) {
	st := models.Student{ID: "s1", Name: "Новенький", GroupName: "7A", JoinDate: "2024-01-01"}

	res := Aggregate(st, Calendar{}, nil, nil)

	if res.TotalClasses != 0 || res.AbsentCount != 0 || res.AttendancePercentage != 0 || res.TotalScore != 0 {
		t.Fatalf("ожидали нулевую проекцию, получили %+v", res)
	}
}

func TestAggregate_RewardPenaltyNet(t *testing.T) {
	st := models.Student{ID: "s1", GroupName: "7A", JoinDate: "2024-01-01"}
	rewards := []models.RewardEvent{
		{StudentID: "s1", Date: "2024-01-05", Type: models.EventReward, Points: 3},
		{StudentID: "s1", Date: "2024-01-06", Type: models.EventPenalty, Points: 1},
	}

	res := Aggregate(st, Calendar{}, nil, rewards)

	if res.RewardPenaltyPoints != 2 {
		t.Fatalf("RewardPenaltyPoints = %v, ожидали 2", res.RewardPenaltyPoints)
	}
	if res.TotalScore != 2 {
		t.Fatalf("TotalScore = %v, ожидали 2", res.TotalScore)
	}
}

func TestAggregate_GradesStayOutOfTotalScore(t *testing.T) {
	st := models.Student{ID: "s1", GroupName: "7A", JoinDate: "2024-01-01"}
	rewards := []models.RewardEvent{
		{StudentID: "s1", Date: "2024-01-05", Type: models.EventGrade, Points: 5},
		{StudentID: "s1", Date: "2024-01-06", Type: models.EventGrade, Points: 4},
		{StudentID: "s1", Date: "2024-01-07", Type: models.EventReward, Points: 1},
	}

	res := Aggregate(st, Calendar{}, nil, rewards)

	if res.BahoCount != 2 || res.BahoAverage != 4.5 {
		t.Fatalf("baho = %d/%v, ожидали 2/4.5", res.BahoCount, res.BahoAverage)
	}
	if res.TotalScore != 1 {
		t.Fatalf("оценки не должны входить в TotalScore: %v", res.TotalScore)
	}
}

func TestAggregate_ConservationAndClamp(t *testing.T) {
	// записи посещаемости вне календаря: present больше, чем занятий —
	// absent не уходит в минус
	st := models.Student{ID: "s1", GroupName: "7A", JoinDate: "2024-01-01"}
	cal := calFor("7A", "2024-01-10")
	att := []models.AttendanceRecord{
		{StudentID: "s1", Date: "2024-01-10", Status: models.StatusPresent},
		{StudentID: "s1", Date: "2024-01-11", Status: models.StatusPresent},
	}

	res := Aggregate(st, cal, att, nil)

	if res.AbsentCount != 0 {
		t.Fatalf("AbsentCount = %d, clamp не сработал", res.AbsentCount)
	}
	if res.PresentCount+res.LateCount+res.AbsentCount < res.TotalClasses {
		t.Fatalf("инвариант суммы нарушен: %+v", res)
	}
}

func TestAggregate_JoinDateFromCreatedAt(t *testing.T) {
	// явной даты нет — берём день создания записи (в Ташкенте)
	st := models.Student{
		ID:        "s1",
		GroupName: "7A",
		CreatedAt: time.Date(2024, 1, 9, 23, 0, 0, 0, time.UTC), // 10-е по Ташкенту
	}
	cal := calFor("7A", "2024-01-05", "2024-01-10")

	res := Aggregate(st, cal, nil, nil)

	if res.JoinDate != "2024-01-10" {
		t.Fatalf("JoinDate = %q, ожидали 2024-01-10", res.JoinDate)
	}
	if res.TotalClasses != 1 {
		t.Fatalf("TotalClasses = %d, ожидали 1", res.TotalClasses)
	}
}

func TestAggregate_Idempotent(t *testing.T) {
	st := models.Student{ID: "s1", Name: "Алиев", GroupName: "7A", JoinDate: "2024-01-01"}
	cal := calFor("7A", "2024-01-10", "2024-01-15")
	att := []models.AttendanceRecord{{StudentID: "s1", Date: "2024-01-10", Status: models.StatusPresent}}
	rewards := []models.RewardEvent{{StudentID: "s1", Date: "2024-01-10", Type: models.EventReward, Points: 2}}

	a := Aggregate(st, cal, att, rewards)
	b := Aggregate(st, cal, att, rewards)
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("повторный вызов дал другой результат:\n%+v\n%+v", a, b)
	}
}

func TestAggregate_IgnoresOtherStudents(t *testing.T) {
	st := models.Student{ID: "s1", GroupName: "7A", JoinDate: "2024-01-01"}
	att := []models.AttendanceRecord{{StudentID: "s2", Date: "2024-01-10", Status: models.StatusPresent}}
	rewards := []models.RewardEvent{{StudentID: "s2", Date: "2024-01-10", Type: models.EventReward, Points: 5}}

	res := Aggregate(st, calFor("7A", "2024-01-10"), att, rewards)

	if res.PresentCount != 0 || res.TotalScore != 0 {
		t.Fatalf("чужие события просочились: %+v", res)
	}
}
