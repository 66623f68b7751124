// Package store — контракт хранилища для ядра расчёта. Ядро никогда не
// импортирует конкретный бэкенд: любой, кто умеет эти четыре выборки,
// подходит (Postgres, кэширующая обёртка, in-memory для тестов).
package store

import (
	"context"

	"github.com/davomat-uz/davomat-server/internal/models"
)

// BatchLimit — максимум id в одной порции выборки. У одного из бэкендов
// ограничение на размер IN-списка — 30 элементов; адаптер режет список
// прозрачно, ядро считает его неограниченным.
const BatchLimit = 30

// Reader — выборки, отфильтрованные по владельцу-аккаунту. Пустой
// studentIDs означает «все ученики владельца».
type Reader interface {
	FetchStudents(ctx context.Context, ownerID, groupID string) ([]models.Student, error)
	FetchGroups(ctx context.Context, ownerID string) ([]models.Group, error)
	FetchAttendance(ctx context.Context, ownerID string, studentIDs []string) ([]models.AttendanceRecord, error)
	FetchRewardEvents(ctx context.Context, ownerID string, studentIDs []string) ([]models.RewardEvent, error)
}

// Writer — запись событий. Посещаемость — upsert на пару (ученик, дата),
// журнал баллов — только append.
type Writer interface {
	UpsertAttendance(ctx context.Context, rec models.AttendanceRecord) error
	AppendRewardEvent(ctx context.Context, ev models.RewardEvent) error
}

type Store interface {
	Reader
	Writer
}

// Chunk режет список id на порции по BatchLimit.
func Chunk(ids []string) [][]string {
	if len(ids) == 0 {
		return nil
	}
	out := make([][]string, 0, (len(ids)+BatchLimit-1)/BatchLimit)
	for len(ids) > BatchLimit {
		out = append(out, ids[:BatchLimit])
		ids = ids[BatchLimit:]
	}
	return append(out, ids)
}
