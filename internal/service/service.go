// Package service связывает хранилище и чистое ядро расчёта: параллельная
// загрузка трёх лент событий, «победа свежего» при гонке запросов, вызовы
// score поверх уже загруженных данных.
package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/davomat-uz/davomat-server/internal/logging"
	"github.com/davomat-uz/davomat-server/internal/metrics"
	"github.com/davomat-uz/davomat-server/internal/models"
	"github.com/davomat-uz/davomat-server/internal/score"
	"github.com/davomat-uz/davomat-server/internal/store"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ErrSuperseded — расчёт устарел: за время загрузки пришёл более свежий
// запрос той же выборки. Результат выброшен, клиенту стоит дождаться
// свежего ответа.
var ErrSuperseded = errors.New("stats: superseded by a newer request")

type Stats struct {
	store store.Store
	log   *logging.Log
	now   func() time.Time

	// счётчики поколений по ключу (владелец, вид выборки): начали расчёт
	// с токеном N — отдаём результат, только если N всё ещё последний
	gens sync.Map // string -> *atomic.Uint64
}

func NewStats(st store.Store, log *logging.Log) *Stats {
	return &Stats{store: st, log: log, now: time.Now}
}

func (s *Stats) gen(key string) *atomic.Uint64 {
	v, _ := s.gens.LoadOrStore(key, new(atomic.Uint64))
	return v.(*atomic.Uint64)
}

// bundle — три ленты, загруженные параллельно. Агрегация не начинается,
// пока не доехали все: частичные данные молча занижают итоги, это хуже
// ошибки.
type bundle struct {
	students   []models.Student
	attendance []models.AttendanceRecord
	rewards    []models.RewardEvent
}

func (s *Stats) fetchAll(ctx context.Context, ownerID, groupID string) (*bundle, error) {
	var b bundle
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		b.students, err = s.store.FetchStudents(ctx, ownerID, groupID)
		return err
	})
	g.Go(func() error {
		var err error
		b.attendance, err = s.store.FetchAttendance(ctx, ownerID, nil)
		return err
	})
	g.Go(func() error {
		var err error
		b.rewards, err = s.store.FetchRewardEvents(ctx, ownerID, nil)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &b, nil
}

// StudentStats — отфильтрованные и отсортированные проекции по ученикам
// владельца. rng сужает календарь занятий (меняет totalClasses для всей
// группы), фильтры и сортировка — поверх готовых проекций.
func (s *Stats) StudentStats(ctx context.Context, ownerID, groupID string, filter score.Filter, sortState score.SortState, rng *score.DateRange) ([]models.ScoreResult, error) {
	genKey := "students:" + ownerID + ":" + groupID
	token := s.gen(genKey).Add(1)
	started := s.now()

	b, err := s.fetchAll(ctx, ownerID, groupID)
	if err != nil {
		return nil, err
	}

	groupOf := make(map[string]string, len(b.students))
	for _, st := range b.students {
		groupOf[st.ID] = st.GroupName
	}
	cal := score.BuildCalendar(b.attendance, func(id string) (string, bool) {
		g, ok := groupOf[id]
		return g, ok
	}, rng)

	results := score.AggregateAll(b.students, cal, b.attendance, b.rewards)
	results = filter.Apply(results)
	results = score.Sort(results, sortState)

	// пока считали, мог стартовать более свежий расчёт той же выборки —
	// тогда наш результат никому не нужен
	if s.gen(genKey).Load() != token {
		metrics.StaleResultsDropped.Inc()
		s.log.For(ctx).Debug("stale stats dropped", zap.String("key", genKey))
		return nil, ErrSuperseded
	}
	metrics.ObserveAggregate(s.now().Sub(started))
	return results, nil
}

// GroupStats — сводка по группе за относительное окно.
func (s *Stats) GroupStats(ctx context.Context, ownerID, groupID string, period score.Period) (models.GroupStatistics, error) {
	genKey := "group:" + ownerID + ":" + groupID
	token := s.gen(genKey).Add(1)
	started := s.now()

	b, err := s.fetchAll(ctx, ownerID, groupID)
	if err != nil {
		return models.GroupStatistics{}, err
	}

	ids := make([]string, 0, len(b.students))
	names := make(map[string]string, len(b.students))
	for _, st := range b.students {
		ids = append(ids, st.ID)
		names[st.ID] = st.Name
	}

	stats := score.Rollup(ids, b.attendance, b.rewards, period, s.now())
	if stats.TopStudent != nil {
		stats.TopStudent.Name = names[stats.TopStudent.StudentID]
	}

	if s.gen(genKey).Load() != token {
		metrics.StaleResultsDropped.Inc()
		return models.GroupStatistics{}, ErrSuperseded
	}
	metrics.ObserveAggregate(s.now().Sub(started))
	return stats, nil
}

// Groups — список групп владельца (для фильтров дашборда).
func (s *Stats) Groups(ctx context.Context, ownerID string) ([]models.Group, error) {
	return s.store.FetchGroups(ctx, ownerID)
}

// MarkAttendance — upsert отметки за день. Дата должна быть ISO-днём,
// это проверяет HTTP-слой.
func (s *Stats) MarkAttendance(ctx context.Context, rec models.AttendanceRecord) error {
	return s.store.UpsertAttendance(ctx, rec)
}

// AddRewardEvent — запись в журнал баллов.
func (s *Stats) AddRewardEvent(ctx context.Context, ev models.RewardEvent) error {
	return s.store.AppendRewardEvent(ctx, ev)
}
