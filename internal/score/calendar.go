package score

import (
	"github.com/davomat-uz/davomat-server/internal/daycal"
	"github.com/davomat-uz/davomat-server/internal/models"
)

// Calendar — по каждой группе множество дней, когда хоть у одного ученика
// группы есть запись посещаемости. Это и есть рабочее определение
// «занятие состоялось».
type Calendar map[string]map[string]struct{}

// Dates возвращает дни группы начиная с from (включительно).
func (c Calendar) Dates(group, from string) []string {
	set := c[group]
	if len(set) == 0 {
		return nil
	}
	out := make([]string, 0, len(set))
	for d := range set {
		if d >= from {
			out = append(out, d)
		}
	}
	return out
}

// CountFrom — сколько занятий было в группе с даты from включительно.
func (c Calendar) CountFrom(group, from string) int {
	n := 0
	for d := range c[group] {
		if d >= from {
			n++
		}
	}
	return n
}

// DateRange — включительное окно [From, To] в ISO-днях. Пустая граница не
// ограничивает. Сравнение строковое: даты всегда zero-padded ISO, так что
// лексикографический порядок совпадает с хронологическим.
type DateRange struct {
	From string
	To   string
}

func (r *DateRange) contains(d string) bool {
	if r == nil {
		return true
	}
	if r.From != "" && d < r.From {
		return false
	}
	if r.To != "" && d > r.To {
		return false
	}
	return true
}

// BuildCalendar собирает календарь занятий из плоского списка записей
// посещаемости. groupOf резолвит ученика в группу; записи без группы
// (архивные/удалённые ученики) молча пропускаются — это не ошибка.
// Невалидные даты тоже выпадают из календаря.
func BuildCalendar(records []models.AttendanceRecord, groupOf func(studentID string) (string, bool), rng *DateRange) Calendar {
	cal := make(Calendar)
	for _, rec := range records {
		group, ok := groupOf(rec.StudentID)
		if !ok {
			continue
		}
		if !daycal.Valid(rec.Date) {
			continue
		}
		if !rng.contains(rec.Date) {
			continue
		}
		set, ok := cal[group]
		if !ok {
			set = make(map[string]struct{})
			cal[group] = set
		}
		set[rec.Date] = struct{}{}
	}
	return cal
}
