package score

import (
	"math"

	"github.com/davomat-uz/davomat-server/internal/daycal"
	"github.com/davomat-uz/davomat-server/internal/models"
)

// JoinDate — с какого дня ученик участвует в подсчёте. Явная дата
// приоритетна; иначе берём день создания записи. Обе формы проходят через
// одну и ту же нормализацию daycal.
func JoinDate(st models.Student) string {
	if daycal.Valid(st.JoinDate) {
		return st.JoinDate
	}
	if d, ok := daycal.FromAny(st.CreatedAt); ok {
		return d
	}
	// совсем без даты — считаем с начала времён, пустая строка меньше
	// любого ISO-дня
	return ""
}

// Aggregate считает полную проекцию по одному ученику. Ошибок не бывает:
// отсутствие данных — валидное нулевое состояние. Функция чистая, повторный
// вызов с теми же аргументами даёт бит-в-бит тот же результат.
func Aggregate(st models.Student, cal Calendar, attendance []models.AttendanceRecord, rewards []models.RewardEvent) models.ScoreResult {
	join := JoinDate(st)

	res := models.ScoreResult{
		StudentID: st.ID,
		Name:      st.Name,
		GroupName: st.GroupName,
		JoinDate:  join,
	}

	res.TotalClasses = cal.CountFrom(st.GroupName, join)

	for _, rec := range attendance {
		if rec.StudentID != st.ID || rec.Date < join {
			continue
		}
		switch rec.Status {
		case models.StatusPresent:
			res.PresentCount++
		case models.StatusLate:
			res.LateCount++
		}
	}

	// absent — остаток, не хранится; clamp к нулю на случай записей вне
	// распознанного календаря
	res.AbsentCount = res.TotalClasses - res.PresentCount - res.LateCount
	if res.AbsentCount < 0 {
		res.AbsentCount = 0
	}

	res.AttendancePoints = float64(res.PresentCount)*PresentPoints + float64(res.LateCount)*LatePoints
	if res.TotalClasses > 0 {
		res.AttendancePercentage = int(math.Round(100 * float64(res.PresentCount+res.LateCount) / float64(res.TotalClasses)))
	}

	for _, ev := range rewards {
		if ev.StudentID != st.ID || ev.Date < join {
			continue
		}
		switch ev.Type {
		case models.EventReward:
			res.MukofotPoints += ev.Points
		case models.EventPenalty:
			res.JarimaPoints += ev.Points
		case models.EventGrade:
			res.BahoSum += ev.Points
			res.BahoCount++
		}
	}

	res.RewardPenaltyPoints = res.MukofotPoints - res.JarimaPoints
	if res.BahoCount > 0 {
		res.BahoAverage = res.BahoSum / float64(res.BahoCount)
	}

	// баҳо в итоговый балл не входит — только посещаемость и
	// мукофот/жарима
	res.TotalScore = res.RewardPenaltyPoints + res.AttendancePoints
	return res
}

// AggregateAll — проекции по списку учеников над общим календарём, с
// проставленными позициями рейтинга.
func AggregateAll(students []models.Student, cal Calendar, attendance []models.AttendanceRecord, rewards []models.RewardEvent) []models.ScoreResult {
	results := make([]models.ScoreResult, 0, len(students))
	for _, st := range students {
		results = append(results, Aggregate(st, cal, attendance, rewards))
	}
	AssignRanks(results)
	return results
}
