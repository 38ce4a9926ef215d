package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"taskmanager/internal/core/domain"
	"taskmanager/internal/core/ports"
)

const taskColumns = `
  t.id,
  t.title,
  t.description,
  t.status,
  t.priority,
  t.due_date,
  t.assigned_to,
  t.created_by,
  t.created_at,
  t.updated_at`

const listCommentsForTasksQuery = `
SELECT id, task_id, user_id, comment, created_at
FROM comments
WHERE task_id IN (?)
ORDER BY created_at ASC, id ASC;
`

// commentBatchSize keeps each IN list below the SQLite bind-variable limit.
const commentBatchSize = 500

type TaskRepository struct {
	db             *sqlx.DB
	commentBatches int
}

type taskRow struct {
	ID          uint64        `db:"id"`
	Title       string        `db:"title"`
	Description string        `db:"description"`
	Status      string        `db:"status"`
	Priority    string        `db:"priority"`
	DueDate     nullDate      `db:"due_date"`
	AssignedTo  sql.NullInt64 `db:"assigned_to"`
	CreatedBy   uint64        `db:"created_by"`
	CreatedAt   time.Time     `db:"created_at"`
	UpdatedAt   time.Time     `db:"updated_at"`
}

type commentRow struct {
	ID        uint64    `db:"id"`
	TaskID    uint64    `db:"task_id"`
	UserID    uint64    `db:"user_id"`
	Comment   string    `db:"comment"`
	CreatedAt time.Time `db:"created_at"`
}

var _ ports.TaskRepository = (*TaskRepository)(nil)

func NewTaskRepository(db *sqlx.DB) *TaskRepository {
	return &TaskRepository{db: db, commentBatches: commentBatchSize}
}

func (r *TaskRepository) ListTasks(ctx context.Context, filter domain.TaskFilter) ([]domain.Task, error) {
	where, args := buildTaskFilter(filter)
	query := `SELECT` + taskColumns + ` FROM tasks t` + where + ` ORDER BY t.id`

	var rows []taskRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, err
	}

	tasks := make([]domain.Task, 0, len(rows))
	for _, row := range rows {
		tasks = append(tasks, mapTaskRowToDomainTask(row))
	}

	if err := r.attachComments(ctx, tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

func (r *TaskRepository) GetTaskByID(ctx context.Context, id uint64) (domain.Task, error) {
	var row taskRow
	err := r.db.GetContext(ctx, &row, `SELECT`+taskColumns+` FROM tasks t WHERE t.id = ?`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Task{}, domain.ErrTaskNotFound
		}
		return domain.Task{}, err
	}

	tasks := []domain.Task{mapTaskRowToDomainTask(row)}
	if err := r.attachComments(ctx, tasks); err != nil {
		return domain.Task{}, err
	}
	return tasks[0], nil
}

func (r *TaskRepository) CreateTask(ctx context.Context, input domain.CreateTaskInput) (domain.Task, error) {
	now := time.Now().UTC()

	var id int64
	err := r.withTx(ctx, func(tx *sqlx.Tx) error {
		result, err := tx.ExecContext(
			ctx,
			`INSERT INTO tasks (title, description, status, priority, due_date, assigned_to, created_by, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			input.Title,
			input.Description,
			string(input.Status),
			string(input.Priority),
			dateParam(input.DueDate),
			nullableID(input.AssignedTo),
			input.CreatedBy,
			now,
			now,
		)
		if err != nil {
			return fmt.Errorf("insert task: %w", err)
		}

		id, err = result.LastInsertId()
		return err
	})
	if err != nil {
		return domain.Task{}, err
	}

	return r.GetTaskByID(ctx, uint64(id))
}

func (r *TaskRepository) UpdateTask(ctx context.Context, id uint64, input domain.UpdateTaskInput) (domain.Task, error) {
	err := r.withTx(ctx, func(tx *sqlx.Tx) error {
		if err := ensureTaskExists(ctx, tx, id); err != nil {
			return err
		}

		sets := []string{"updated_at = ?"}
		args := []any{time.Now().UTC()}

		if input.Title != nil {
			sets = append(sets, "title = ?")
			args = append(args, *input.Title)
		}
		if input.Description != nil {
			sets = append(sets, "description = ?")
			args = append(args, *input.Description)
		}
		if input.Status != nil {
			sets = append(sets, "status = ?")
			args = append(args, string(*input.Status))
		}
		if input.Priority != nil {
			sets = append(sets, "priority = ?")
			args = append(args, string(*input.Priority))
		}
		if input.DueDateSet {
			sets = append(sets, "due_date = ?")
			args = append(args, dateParam(input.DueDate))
		}
		if input.AssignedToSet {
			sets = append(sets, "assigned_to = ?")
			args = append(args, nullableID(input.AssignedTo))
		}

		args = append(args, id)
		query := `UPDATE tasks SET ` + strings.Join(sets, ", ") + ` WHERE id = ?`
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("update task %d: %w", id, err)
		}
		return nil
	})
	if err != nil {
		return domain.Task{}, err
	}

	return r.GetTaskByID(ctx, id)
}

func (r *TaskRepository) DeleteTask(ctx context.Context, id uint64) error {
	return r.withTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM comments WHERE task_id = ?`, id); err != nil {
			return fmt.Errorf("delete comments of task %d: %w", id, err)
		}

		result, err := tx.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
		if err != nil {
			return fmt.Errorf("delete task %d: %w", id, err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return err
		}
		if affected == 0 {
			return domain.ErrTaskNotFound
		}
		return nil
	})
}

func (r *TaskRepository) CreateComment(ctx context.Context, input domain.CreateCommentInput) (domain.Comment, error) {
	var id int64
	err := r.withTx(ctx, func(tx *sqlx.Tx) error {
		if err := ensureTaskExists(ctx, tx, input.TaskID); err != nil {
			return err
		}

		result, err := tx.ExecContext(
			ctx,
			`INSERT INTO comments (task_id, user_id, comment, created_at) VALUES (?, ?, ?, ?)`,
			input.TaskID,
			input.UserID,
			input.Body,
			input.CreatedAt.UTC(),
		)
		if err != nil {
			return fmt.Errorf("insert comment: %w", err)
		}

		id, err = result.LastInsertId()
		return err
	})
	if err != nil {
		return domain.Comment{}, err
	}

	var row commentRow
	err = r.db.GetContext(ctx, &row, `SELECT id, task_id, user_id, comment, created_at FROM comments WHERE id = ?`, id)
	if err != nil {
		return domain.Comment{}, err
	}
	return mapCommentRowToDomainComment(row), nil
}

// attachComments loads the comments of every task in one query.
func (r *TaskRepository) attachComments(ctx context.Context, tasks []domain.Task) error {
	if len(tasks) == 0 {
		return nil
	}

	ids := make([]uint64, 0, len(tasks))
	index := make(map[uint64]int, len(tasks))
	for i, task := range tasks {
		ids = append(ids, task.ID)
		index[task.ID] = i
		tasks[i].Comments = []domain.Comment{}
	}

	for start := 0; start < len(ids); start += r.commentBatches {
		end := min(start+r.commentBatches, len(ids))

		query, args, err := sqlx.In(listCommentsForTasksQuery, ids[start:end])
		if err != nil {
			return err
		}

		var rows []commentRow
		if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(query), args...); err != nil {
			return fmt.Errorf("list comments: %w", err)
		}

		// Every task appears in exactly one batch, so per-task order holds.
		for _, row := range rows {
			i, ok := index[row.TaskID]
			if !ok {
				continue
			}
			tasks[i].Comments = append(tasks[i].Comments, mapCommentRowToDomainComment(row))
		}
	}
	return nil
}

func (r *TaskRepository) withTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	if err := fn(tx); err != nil {
		if rollbackErr := tx.Rollback(); rollbackErr != nil {
			zap.L().Warn("failed to rollback transaction", zap.Error(rollbackErr))
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func ensureTaskExists(ctx context.Context, tx *sqlx.Tx, id uint64) error {
	var found uint64
	err := tx.GetContext(ctx, &found, `SELECT id FROM tasks WHERE id = ?`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrTaskNotFound
		}
		return err
	}
	return nil
}

func buildTaskFilter(filter domain.TaskFilter) (string, []any) {
	var clauses []string
	var args []any

	if filter.Status != nil {
		clauses = append(clauses, "t.status = ?")
		args = append(args, string(*filter.Status))
	}
	if filter.Priority != nil {
		clauses = append(clauses, "t.priority = ?")
		args = append(args, string(*filter.Priority))
	}
	if filter.DueDate != nil {
		clauses = append(clauses, "t.due_date = ?")
		args = append(args, dateParam(filter.DueDate))
	}
	if filter.AssignedTo != nil {
		clauses = append(clauses, "t.assigned_to = ?")
		args = append(args, *filter.AssignedTo)
	}

	if len(clauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

func nullableID(id *uint64) sql.NullInt64 {
	if id == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*id), Valid: true}
}

func mapTaskRowToDomainTask(row taskRow) domain.Task {
	task := domain.Task{
		ID:          row.ID,
		Title:       row.Title,
		Description: row.Description,
		Status:      domain.TaskStatus(row.Status),
		Priority:    domain.TaskPriority(row.Priority),
		DueDate:     row.DueDate.ptr(),
		CreatedBy:   row.CreatedBy,
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.UpdatedAt,
	}

	if row.AssignedTo.Valid {
		value := uint64(row.AssignedTo.Int64)
		task.AssignedTo = &value
	}

	return task
}

func mapCommentRowToDomainComment(row commentRow) domain.Comment {
	return domain.Comment{
		ID:        row.ID,
		TaskID:    row.TaskID,
		UserID:    row.UserID,
		Body:      row.Comment,
		CreatedAt: row.CreatedAt,
	}
}
