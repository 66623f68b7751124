// Package score — чистое ядро расчёта: календарь занятий, агрегация по
// ученику, рейтинг и сводка по группе. Никаких обращений к хранилищу,
// никаких побочных эффектов: одинаковый вход — одинаковый выход.
package score

// Веса посещаемости. Единственное место, где живут эти константы:
// любое повторение литералов 1/0.5 в других пакетах — ошибка.
const (
	PresentPoints = 1.0
	LatePoints    = 0.5
)
