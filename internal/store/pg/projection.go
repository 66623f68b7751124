package pg

import (
	"context"
	"fmt"

	"github.com/davomat-uz/davomat-server/internal/ctxutil"
	"github.com/davomat-uz/davomat-server/internal/models"
)

func (s *Store) ListOwners(ctx context.Context) ([]string, error) {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()

	rows, err := s.db.QueryContext(ctx, `SELECT DISTINCT owner_id FROM students`)
	if err != nil {
		return nil, fmt.Errorf("list owners: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

// SaveProjection целиком перезаписывает денормализованную копию итогов
// владельца. В одной транзакции: дашборд не должен видеть смесь старых и
// новых строк.
func (s *Store) SaveProjection(ctx context.Context, ownerID string, results []models.ScoreResult) error {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin projection tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM score_projection WHERE owner_id = $1`, ownerID); err != nil {
		return fmt.Errorf("clear projection: %w", err)
	}
	for _, r := range results {
		_, err := tx.ExecContext(ctx, `
INSERT INTO score_projection (student_id, owner_id, total_classes, present_count, late_count, attendance_pct, total_score, refreshed_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, now())`,
			r.StudentID, ownerID, r.TotalClasses, r.PresentCount, r.LateCount, r.AttendancePercentage, r.TotalScore)
		if err != nil {
			return fmt.Errorf("insert projection %s: %w", r.StudentID, err)
		}
	}
	return tx.Commit()
}
