package service

import (
	"context"
	"fmt"

	"github.com/davomat-uz/davomat-server/internal/models"
	"github.com/davomat-uz/davomat-server/internal/score"
	"go.uber.org/zap"
)

// ProjectionSink — куда складывать денормализованную копию итогов.
// Копия нужна дашборду для быстрых списков; источником истины остаётся
// пересчёт на чтении.
type ProjectionSink interface {
	ListOwners(ctx context.Context) ([]string, error)
	SaveProjection(ctx context.Context, ownerID string, results []models.ScoreResult) error
}

// RefreshProjections пересчитывает и перезаписывает проекции всех
// владельцев. Вызывается фоновым джобом; ошибки по отдельным владельцам
// не прерывают обход.
func (s *Stats) RefreshProjections(ctx context.Context, sink ProjectionSink) error {
	owners, err := sink.ListOwners(ctx)
	if err != nil {
		return fmt.Errorf("list owners: %w", err)
	}

	var firstErr error
	for _, owner := range owners {
		b, err := s.fetchAll(ctx, owner, "")
		if err != nil {
			s.log.Base.Warn("projection fetch failed", zap.String("owner", owner), zap.Error(err))
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		groupOf := make(map[string]string, len(b.students))
		for _, st := range b.students {
			groupOf[st.ID] = st.GroupName
		}
		cal := score.BuildCalendar(b.attendance, func(id string) (string, bool) {
			g, ok := groupOf[id]
			return g, ok
		}, nil)
		results := score.AggregateAll(b.students, cal, b.attendance, b.rewards)

		if err := sink.SaveProjection(ctx, owner, results); err != nil {
			s.log.Base.Warn("projection save failed", zap.String("owner", owner), zap.Error(err))
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}
