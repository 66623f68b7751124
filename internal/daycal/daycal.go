// Package daycal нормализует любые входные формы даты к календарному дню
// в фиксированном поясе UTC+5 (Asia/Tashkent). Вся доменная модель работает
// с днями, не с метками времени.
package daycal

import (
	"encoding/json"
	"time"
)

const Layout = "2006-01-02"

// Ташкент — фиксированный UTC+5, без переходов. LoadLocation не нужен.
var Tashkent = time.FixedZone("Asia/Tashkent", 5*60*60)

// Timestamp — форма {seconds, nanos}, приходящая из старого бэкенда.
type Timestamp struct {
	Seconds int64 `json:"seconds"`
	Nanos   int64 `json:"nanoseconds"`
}

// FromAny приводит значение к ISO-дню. Поддерживаются: time.Time, ISO-строка
// (день или RFC3339), Timestamp и его JSON-вид (map с seconds/_seconds).
// Непригодный вход — ok=false, никаких паник: такие даты просто выпадают
// из календаря.
func FromAny(v any) (string, bool) {
	switch x := v.(type) {
	case nil:
		return "", false
	case time.Time:
		if x.IsZero() {
			return "", false
		}
		return x.In(Tashkent).Format(Layout), true
	case *time.Time:
		if x == nil {
			return "", false
		}
		return FromAny(*x)
	case string:
		return fromString(x)
	case Timestamp:
		return fromSeconds(x.Seconds)
	case *Timestamp:
		if x == nil {
			return "", false
		}
		return fromSeconds(x.Seconds)
	case map[string]any:
		for _, key := range []string{"seconds", "_seconds"} {
			if s, ok := x[key]; ok {
				return FromAny(s)
			}
		}
		return "", false
	case json.Number:
		n, err := x.Int64()
		if err != nil {
			return "", false
		}
		return fromSeconds(n)
	case float64:
		return fromSeconds(int64(x))
	case int64:
		return fromSeconds(x)
	case int:
		return fromSeconds(int64(x))
	}
	return "", false
}

func fromString(s string) (string, bool) {
	if s == "" {
		return "", false
	}
	if t, err := time.Parse(Layout, s); err == nil {
		// уже календарный день, пояс не трогаем
		return t.Format(Layout), true
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.In(Tashkent).Format(Layout), true
	}
	return "", false
}

func fromSeconds(sec int64) (string, bool) {
	if sec == 0 {
		return "", false
	}
	return time.Unix(sec, 0).In(Tashkent).Format(Layout), true
}

// Today — текущий календарный день в Ташкенте.
func Today() string {
	return time.Now().In(Tashkent).Format(Layout)
}

// Valid — строка является корректным ISO-днём с ведущими нулями.
func Valid(s string) bool {
	_, ok := fromString(s)
	return ok && len(s) == len(Layout)
}
