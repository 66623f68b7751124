package score

import (
	"sort"
	"strings"

	"github.com/davomat-uz/davomat-server/internal/models"
)

type SortKey string

const (
	SortByName       SortKey = "name"
	SortByGroup      SortKey = "groupName"
	SortByPercentage SortKey = "attendancePercentage"
	SortByScore      SortKey = "totalScore"
)

type Direction int

const (
	Unsorted Direction = iota
	Asc
	Desc
)

// SortState — текущий выбор сортировки в таблице. Нулевое значение —
// «без сортировки», то есть дефолтный порядок по имени.
type SortState struct {
	Key SortKey
	Dir Direction
}

// Next — трёхпозиционный переключатель: повторный клик по тому же столбцу
// asc → desc → сброс; клик по другому столбцу начинает с asc.
func (s SortState) Next(clicked SortKey) SortState {
	if s.Key != clicked || s.Dir == Unsorted {
		return SortState{Key: clicked, Dir: Asc}
	}
	if s.Dir == Asc {
		return SortState{Key: clicked, Dir: Desc}
	}
	return SortState{}
}

// AssignRanks проставляет RankPosition (1-based) по убыванию итогового
// балла, не меняя порядок самого среза. Равные баллы сохраняют исходный
// относительный порядок — стабильная сортировка и есть правило разрешения
// ничьих.
func AssignRanks(results []models.ScoreResult) {
	idx := make([]int, len(results))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return results[idx[a]].TotalScore > results[idx[b]].TotalScore
	})
	for pos, i := range idx {
		results[i].RankPosition = pos + 1
	}
}

// Sort возвращает отсортированную копию. Unsorted (и неизвестный ключ) —
// дефолтный порядок: имя по возрастанию без учёта регистра.
func Sort(results []models.ScoreResult, state SortState) []models.ScoreResult {
	out := make([]models.ScoreResult, len(results))
	copy(out, results)

	if state.Dir == Unsorted {
		sort.SliceStable(out, func(a, b int) bool {
			return lessFold(out[a].Name, out[b].Name)
		})
		return out
	}

	less := func(a, b models.ScoreResult) bool {
		switch state.Key {
		case SortByName:
			return lessFold(a.Name, b.Name)
		case SortByGroup:
			return lessFold(a.GroupName, b.GroupName)
		case SortByPercentage:
			return a.AttendancePercentage < b.AttendancePercentage
		case SortByScore:
			return a.TotalScore < b.TotalScore
		default:
			return lessFold(a.Name, b.Name)
		}
	}
	sort.SliceStable(out, func(a, b int) bool {
		if state.Dir == Desc {
			return less(out[b], out[a])
		}
		return less(out[a], out[b])
	})
	return out
}

func lessFold(a, b string) bool {
	return strings.ToLower(a) < strings.ToLower(b)
}

type QuickFilter string

const (
	QuickNone         QuickFilter = ""
	QuickRisk         QuickFilter = "risk"          // посещаемость < 70%
	QuickTop          QuickFilter = "top"           // ≥90% и балл не в минусе
	QuickNegative     QuickFilter = "negative"      // итоговый балл < 0
	QuickNoAttendance QuickFilter = "no-attendance" // занятий не было
)

// Filter — набор независимых условий, все активные объединяются по AND.
// Применяется до сортировки.
type Filter struct {
	Group    string
	Query    string // подстрока в имени или id, без учёта регистра
	PctMin   *int
	PctMax   *int
	ScoreMin *float64
	ScoreMax *float64
	Quick    QuickFilter
}

func (f Filter) match(r models.ScoreResult) bool {
	if f.Group != "" && r.GroupName != f.Group {
		return false
	}
	if f.Query != "" {
		q := strings.ToLower(f.Query)
		if !strings.Contains(strings.ToLower(r.Name), q) && !strings.Contains(strings.ToLower(r.StudentID), q) {
			return false
		}
	}
	if f.PctMin != nil && r.AttendancePercentage < *f.PctMin {
		return false
	}
	if f.PctMax != nil && r.AttendancePercentage > *f.PctMax {
		return false
	}
	if f.ScoreMin != nil && r.TotalScore < *f.ScoreMin {
		return false
	}
	if f.ScoreMax != nil && r.TotalScore > *f.ScoreMax {
		return false
	}
	switch f.Quick {
	case QuickRisk:
		return r.AttendancePercentage < 70
	case QuickTop:
		return r.AttendancePercentage >= 90 && r.TotalScore >= 0
	case QuickNegative:
		return r.TotalScore < 0
	case QuickNoAttendance:
		return r.TotalClasses == 0
	}
	return true
}

// Apply возвращает подходящие под фильтр результаты (новый срез).
func (f Filter) Apply(results []models.ScoreResult) []models.ScoreResult {
	out := make([]models.ScoreResult, 0, len(results))
	for _, r := range results {
		if f.match(r) {
			out = append(out, r)
		}
	}
	return out
}
