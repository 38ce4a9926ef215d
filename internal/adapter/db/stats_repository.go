package db

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"taskmanager/internal/core/domain"
	"taskmanager/internal/core/ports"
)

const countRecordsQuery = `
SELECT
	(SELECT COUNT(*) FROM users) AS users,
	(SELECT COUNT(*) FROM tasks) AS tasks,
	(SELECT COUNT(*) FROM comments) AS comments;
`

const countTasksByStatusQuery = `
SELECT status, COUNT(*) AS total
FROM tasks
GROUP BY status;
`

type StatsRepository struct {
	db *sqlx.DB
}

var _ ports.StatsRepository = (*StatsRepository)(nil)

func NewStatsRepository(db *sqlx.DB) *StatsRepository {
	return &StatsRepository{db: db}
}

// Stats fails when any table is missing, which the health report treats as
// an unmigrated schema.
func (r *StatsRepository) Stats(ctx context.Context) (domain.StoreStats, error) {
	var counts struct {
		Users    int64 `db:"users"`
		Tasks    int64 `db:"tasks"`
		Comments int64 `db:"comments"`
	}
	if err := r.db.GetContext(ctx, &counts, countRecordsQuery); err != nil {
		return domain.StoreStats{}, fmt.Errorf("count records: %w", err)
	}

	var rows []struct {
		Status string `db:"status"`
		Total  int64  `db:"total"`
	}
	if err := r.db.SelectContext(ctx, &rows, countTasksByStatusQuery); err != nil {
		return domain.StoreStats{}, fmt.Errorf("count tasks by status: %w", err)
	}

	stats := domain.StoreStats{
		Users:    counts.Users,
		Tasks:    counts.Tasks,
		Comments: counts.Comments,
		TasksByStatus: map[domain.TaskStatus]int64{
			domain.TaskStatusPending:    0,
			domain.TaskStatusInProgress: 0,
			domain.TaskStatusDone:       0,
		},
	}
	for _, row := range rows {
		stats.TasksByStatus[domain.TaskStatus(row.Status)] = row.Total
	}
	return stats, nil
}
