package score

import (
	"math"
	"time"

	"github.com/davomat-uz/davomat-server/internal/daycal"
	"github.com/davomat-uz/davomat-server/internal/models"
)

// Period — относительное окно сводки: день, неделя, 1..10 месяцев или всё
// время.
type Period string

const PeriodAll Period = "all"

// CutoffFrom — нижняя граница окна (ISO-день) относительно now.
// Для "all" и нераспознанных значений окно не ограничено.
func (p Period) CutoffFrom(now time.Time) (string, bool) {
	local := now.In(daycal.Tashkent)
	switch p {
	case "", PeriodAll:
		return "", false
	case "1d":
		return local.AddDate(0, 0, -1).Format(daycal.Layout), true
	case "1w":
		return local.AddDate(0, 0, -7).Format(daycal.Layout), true
	}
	// "1m".."10m"
	if n := len(p); n >= 2 && p[n-1] == 'm' {
		months := 0
		for _, c := range p[:n-1] {
			if c < '0' || c > '9' {
				return "", false
			}
			months = months*10 + int(c-'0')
		}
		if months >= 1 && months <= 10 {
			return local.AddDate(0, -months, 0).Format(daycal.Layout), true
		}
	}
	return "", false
}

// Rollup — сводка по группе за окно. Обе ленты событий обрезаются до
// date >= now-period, дальше счёт идёт теми же весами, что и в Aggregate.
func Rollup(studentIDs []string, attendance []models.AttendanceRecord, rewards []models.RewardEvent, p Period, now time.Time) models.GroupStatistics {
	member := make(map[string]struct{}, len(studentIDs))
	for _, id := range studentIDs {
		member[id] = struct{}{}
	}

	cutoff, bounded := p.CutoffFrom(now)

	var stats models.GroupStatistics

	type acc struct {
		present, late int
		attRows       int
		mukofot       float64
		jarima        float64
	}
	perStudent := make(map[string]*acc)
	get := func(id string) *acc {
		a, ok := perStudent[id]
		if !ok {
			a = &acc{}
			perStudent[id] = a
		}
		return a
	}

	lessonDays := make(map[string]struct{})
	for _, rec := range attendance {
		if _, ok := member[rec.StudentID]; !ok {
			continue
		}
		if !daycal.Valid(rec.Date) {
			continue
		}
		if bounded && rec.Date < cutoff {
			continue
		}
		lessonDays[rec.Date] = struct{}{}
		a := get(rec.StudentID)
		a.attRows++
		switch rec.Status {
		case models.StatusPresent:
			a.present++
			stats.TotalPresent++
		case models.StatusLate:
			a.late++
			stats.TotalLate++
		}
	}
	stats.TotalLessons = len(lessonDays)

	var bahoSum float64
	var bahoCount int
	for _, ev := range rewards {
		if _, ok := member[ev.StudentID]; !ok {
			continue
		}
		if bounded && ev.Date < cutoff {
			continue
		}
		a := get(ev.StudentID)
		switch ev.Type {
		case models.EventReward:
			a.mukofot += ev.Points
			stats.TotalRewards += ev.Points
		case models.EventPenalty:
			a.jarima += ev.Points
			stats.TotalPenalties += ev.Points
		case models.EventGrade:
			bahoSum += ev.Points
			bahoCount++
		}
	}
	if bahoCount > 0 {
		stats.AverageGrade = bahoSum / float64(bahoCount)
	}

	// знаменатель — только ученики, у которых была хоть одна запись
	// посещаемости: иначе ученики без единого занятия раздувают его
	withAttendance := 0
	for _, a := range perStudent {
		if a.attRows > 0 {
			withAttendance++
		}
	}
	if stats.TotalLessons > 0 && withAttendance > 0 {
		den := float64(stats.TotalLessons * withAttendance)
		stats.AttendancePercentage = int(math.Round(100 * float64(stats.TotalPresent+stats.TotalLate) / den))
	}

	// лучший ученик окна — по итоговому баллу на тех же весах; при
	// равенстве — меньший id, чтобы результат не зависел от порядка
	// обхода map
	var top *models.TopStudent
	for id, a := range perStudent {
		total := float64(a.present)*PresentPoints + float64(a.late)*LatePoints + a.mukofot - a.jarima
		if top == nil || total > top.TotalScore || (total == top.TotalScore && id < top.StudentID) {
			top = &models.TopStudent{StudentID: id, TotalScore: total}
		}
	}
	stats.TopStudent = top
	return stats
}
