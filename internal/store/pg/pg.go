// Package pg — Postgres-реализация контракта store поверх database/sql
// (драйвер pgx).
package pg

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/davomat-uz/davomat-server/internal/ctxutil"
	"github.com/davomat-uz/davomat-server/internal/models"
	"github.com/davomat-uz/davomat-server/internal/store"
	"github.com/google/uuid"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store { return &Store{db: db} }

func (s *Store) FetchStudents(ctx context.Context, ownerID, groupID string) ([]models.Student, error) {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()

	q := `
SELECT s.id, s.owner_id, s.name, s.group_id, COALESCE(g.name, ''), COALESCE(s.join_date, ''), s.is_active, s.created_at
FROM students s
LEFT JOIN groups g ON g.id = s.group_id
WHERE s.owner_id = $1`
	args := []any{ownerID}
	if groupID != "" {
		q += ` AND s.group_id = $2`
		args = append(args, groupID)
	}
	q += ` ORDER BY s.name`

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("fetch students: %w", err)
	}
	defer rows.Close()

	var out []models.Student
	for rows.Next() {
		var st models.Student
		if err := rows.Scan(&st.ID, &st.OwnerID, &st.Name, &st.GroupID, &st.GroupName, &st.JoinDate, &st.Active, &st.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan student: %w", err)
		}
		out = append(out, st)
	}
	return out, rows.Err()
}

func (s *Store) FetchGroups(ctx context.Context, ownerID string) ([]models.Group, error) {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()

	rows, err := s.db.QueryContext(ctx, `
SELECT id, owner_id, name, is_active
FROM groups
WHERE owner_id = $1
ORDER BY name`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("fetch groups: %w", err)
	}
	defer rows.Close()

	var out []models.Group
	for rows.Next() {
		var g models.Group
		if err := rows.Scan(&g.ID, &g.OwnerID, &g.Name, &g.Active); err != nil {
			return nil, fmt.Errorf("scan group: %w", err)
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

func (s *Store) FetchAttendance(ctx context.Context, ownerID string, studentIDs []string) ([]models.AttendanceRecord, error) {
	var out []models.AttendanceRecord
	err := s.fetchBatched(ctx, ownerID, studentIDs, `
SELECT id, owner_id, student_id, to_char(date, 'YYYY-MM-DD'), status, reason, created_at
FROM attendance
WHERE owner_id = $1`, func(rows *sql.Rows) error {
		var r models.AttendanceRecord
		if err := rows.Scan(&r.ID, &r.OwnerID, &r.StudentID, &r.Date, &r.Status, &r.Reason, &r.CreatedAt); err != nil {
			return err
		}
		out = append(out, r)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("fetch attendance: %w", err)
	}
	return out, nil
}

func (s *Store) FetchRewardEvents(ctx context.Context, ownerID string, studentIDs []string) ([]models.RewardEvent, error) {
	var out []models.RewardEvent
	err := s.fetchBatched(ctx, ownerID, studentIDs, `
SELECT id, owner_id, student_id, to_char(date, 'YYYY-MM-DD'), type, points, reason, created_at
FROM reward_events
WHERE owner_id = $1`, func(rows *sql.Rows) error {
		var ev models.RewardEvent
		if err := rows.Scan(&ev.ID, &ev.OwnerID, &ev.StudentID, &ev.Date, &ev.Type, &ev.Points, &ev.Reason, &ev.CreatedAt); err != nil {
			return err
		}
		out = append(out, ev)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("fetch reward events: %w", err)
	}
	return out, nil
}

// fetchBatched гоняет базовый запрос либо целиком по владельцу, либо
// порциями по списку учеников (store.BatchLimit id за раз).
func (s *Store) fetchBatched(ctx context.Context, ownerID string, studentIDs []string, baseQuery string, scan func(*sql.Rows) error) error {
	run := func(q string, args ...any) error {
		ctx, cancel := ctxutil.WithDBTimeout(ctx)
		defer cancel()
		rows, err := s.db.QueryContext(ctx, q, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			if err := scan(rows); err != nil {
				return err
			}
		}
		return rows.Err()
	}

	if len(studentIDs) == 0 {
		return run(baseQuery, ownerID)
	}
	for _, batch := range store.Chunk(studentIDs) {
		ph := make([]string, len(batch))
		args := make([]any, 0, len(batch)+1)
		args = append(args, ownerID)
		for i, id := range batch {
			ph[i] = fmt.Sprintf("$%d", i+2)
			args = append(args, id)
		}
		q := baseQuery + ` AND student_id IN (` + strings.Join(ph, ",") + `)`
		if err := run(q, args...); err != nil {
			return err
		}
	}
	return nil
}

// UpsertAttendance — одна запись на пару (ученик, дата): повторная отметка
// за тот же день перезаписывает статус и причину.
func (s *Store) UpsertAttendance(ctx context.Context, rec models.AttendanceRecord) error {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()

	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	_, err := s.db.ExecContext(ctx, `
INSERT INTO attendance (id, owner_id, student_id, date, status, reason)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (student_id, date) DO UPDATE SET status = EXCLUDED.status, reason = EXCLUDED.reason`,
		rec.ID, rec.OwnerID, rec.StudentID, rec.Date, rec.Status, rec.Reason)
	if err != nil {
		return fmt.Errorf("upsert attendance: %w", err)
	}
	return nil
}

// AppendRewardEvent — журнал только пополняется, никаких UPDATE.
func (s *Store) AppendRewardEvent(ctx context.Context, ev models.RewardEvent) error {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()

	if ev.ID == "" {
		ev.ID = uuid.NewString()
	}
	_, err := s.db.ExecContext(ctx, `
INSERT INTO reward_events (id, owner_id, student_id, date, type, points, reason)
VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		ev.ID, ev.OwnerID, ev.StudentID, ev.Date, ev.Type, ev.Points, ev.Reason)
	if err != nil {
		return fmt.Errorf("append reward event: %w", err)
	}
	return nil
}
