// Package export — выгрузка готовых проекций в Excel. Пакет потребляет
// []ScoreResult как плоскую таблицу и ничего не пересчитывает.
package export

import (
	"fmt"
	"strconv"

	"github.com/davomat-uz/davomat-server/internal/models"
	"github.com/xuri/excelize/v2"
)

var studentHeaders = []string{
	"Ўрин", "Ф.И.О.", "Гуруҳ", "Занятий", "Присутствий", "Опозданий", "Пропусков",
	"Посещаемость, %", "Мукофот", "Жарима", "Баҳо (ср.)", "Итоговый балл",
}

// StudentsWorkbook собирает книгу с одной таблицей по ученикам.
func StudentsWorkbook(results []models.ScoreResult, sheet string) (*excelize.File, error) {
	if sheet == "" {
		sheet = "Davomat"
	}
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	for i, h := range studentHeaders {
		cell := colName(i+1) + "1"
		if err := f.SetCellStr(sheet, cell, h); err != nil {
			return nil, fmt.Errorf("set header %s: %w", cell, err)
		}
	}

	for r, res := range results {
		row := r + 2
		values := []string{
			strconv.Itoa(res.RankPosition),
			res.Name,
			res.GroupName,
			strconv.Itoa(res.TotalClasses),
			strconv.Itoa(res.PresentCount),
			strconv.Itoa(res.LateCount),
			strconv.Itoa(res.AbsentCount),
			strconv.Itoa(res.AttendancePercentage),
			formatPoints(res.MukofotPoints),
			formatPoints(res.JarimaPoints),
			formatPoints(res.BahoAverage),
			formatPoints(res.TotalScore),
		}
		for c, v := range values {
			cell := fmt.Sprintf("%s%d", colName(c+1), row)
			if err := f.SetCellStr(sheet, cell, v); err != nil {
				return nil, fmt.Errorf("set cell %s: %w", cell, err)
			}
		}
	}

	if err := ApplyDefaultExcelFormatting(f, sheet); err != nil {
		return nil, err
	}
	return f, nil
}

func formatPoints(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// helpers
func colName(n int) string {
	s := ""
	for n > 0 {
		n--
		s = string(rune('A'+(n%26))) + s
		n /= 26
	}
	return s
}
