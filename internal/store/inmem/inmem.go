// Package inmem — хранилище в памяти. Второй вариант бэкенда: тесты,
// локальные демо и песочница работают без Postgres.
package inmem

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/davomat-uz/davomat-server/internal/models"
	"github.com/google/uuid"
)

type Store struct {
	mu         sync.RWMutex
	students   []models.Student
	groups     []models.Group
	attendance []models.AttendanceRecord
	rewards    []models.RewardEvent
}

func New() *Store { return &Store{} }

// Seed наполняет хранилище начальными данными (для тестов).
func (s *Store) Seed(students []models.Student, groups []models.Group, attendance []models.AttendanceRecord, rewards []models.RewardEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.students = append(s.students, students...)
	s.groups = append(s.groups, groups...)
	s.attendance = append(s.attendance, attendance...)
	s.rewards = append(s.rewards, rewards...)
}

func (s *Store) FetchStudents(_ context.Context, ownerID, groupID string) ([]models.Student, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Student
	for _, st := range s.students {
		if st.OwnerID != ownerID {
			continue
		}
		if groupID != "" && st.GroupID != groupID {
			continue
		}
		out = append(out, st)
	}
	sort.Slice(out, func(i, j int) bool {
		return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
	})
	return out, nil
}

func (s *Store) FetchGroups(_ context.Context, ownerID string) ([]models.Group, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Group
	for _, g := range s.groups {
		if g.OwnerID == ownerID {
			out = append(out, g)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *Store) FetchAttendance(_ context.Context, ownerID string, studentIDs []string) ([]models.AttendanceRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	want := idSet(studentIDs)
	var out []models.AttendanceRecord
	for _, r := range s.attendance {
		if r.OwnerID != ownerID {
			continue
		}
		if want != nil {
			if _, ok := want[r.StudentID]; !ok {
				continue
			}
		}
		out = append(out, r)
	}
	return out, nil
}

func (s *Store) FetchRewardEvents(_ context.Context, ownerID string, studentIDs []string) ([]models.RewardEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	want := idSet(studentIDs)
	var out []models.RewardEvent
	for _, ev := range s.rewards {
		if ev.OwnerID != ownerID {
			continue
		}
		if want != nil {
			if _, ok := want[ev.StudentID]; !ok {
				continue
			}
		}
		out = append(out, ev)
	}
	return out, nil
}

func (s *Store) UpsertAttendance(_ context.Context, rec models.AttendanceRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	for i, old := range s.attendance {
		if old.StudentID == rec.StudentID && old.Date == rec.Date {
			rec.ID = old.ID
			s.attendance[i] = rec
			return nil
		}
	}
	s.attendance = append(s.attendance, rec)
	return nil
}

func (s *Store) AppendRewardEvent(_ context.Context, ev models.RewardEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ev.ID == "" {
		ev.ID = uuid.NewString()
	}
	s.rewards = append(s.rewards, ev)
	return nil
}

func idSet(ids []string) map[string]struct{} {
	if len(ids) == 0 {
		return nil
	}
	m := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		m[id] = struct{}{}
	}
	return m
}
