package daycal

import (
	"testing"
	"time"
)

func TestFromAny_Shapes(t *testing.T) {
	// 2024-01-10 23:30 UTC — в Ташкенте уже 11-е
	utc := time.Date(2024, 1, 10, 23, 30, 0, 0, time.UTC)

	cases := []struct {
		name string
		in   any
		want string
		ok   bool
	}{
		{"iso day", "2024-01-10", "2024-01-10", true},
		{"rfc3339 crosses midnight", "2024-01-10T23:30:00Z", "2024-01-11", true},
		{"time.Time", utc, "2024-01-11", true},
		{"timestamp struct", Timestamp{Seconds: utc.Unix()}, "2024-01-11", true},
		{"json map seconds", map[string]any{"seconds": float64(utc.Unix())}, "2024-01-11", true},
		{"json map _seconds", map[string]any{"_seconds": float64(utc.Unix())}, "2024-01-11", true},
		{"garbage string", "10.01.2024", "", false},
		{"empty string", "", "", false},
		{"nil", nil, "", false},
		{"zero time", time.Time{}, "", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := FromAny(tc.in)
			if ok != tc.ok || got != tc.want {
				t.Fatalf("FromAny(%v) = (%q,%v), ожидали (%q,%v)", tc.in, got, ok, tc.want, tc.ok)
			}
		})
	}
}

func TestValid(t *testing.T) {
	if !Valid("2024-02-29") {
		t.Fatal("високосная дата должна быть валидной")
	}
	if Valid("2024-2-9") {
		t.Fatal("дата без ведущих нулей не валидна")
	}
	if Valid("2024-13-01") {
		t.Fatal("несуществующий месяц")
	}
}
