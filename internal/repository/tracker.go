package repository

import (
	"context"

	"dailyTracker/internal/models/ledger"
	"dailyTracker/internal/models/task"

	"github.com/google/uuid"
)

// TrackerRepository - контракт хранилища: задачи с напоминаниями
// и журнал исходов по дням. Все операции асинхронные относительно вызывающего
// и могут вернуть ошибку хранилища.
type TrackerRepository interface {
	HealthCheck(ctx context.Context) error

	CreateTask(ctx context.Context, t *task.Task) error
	UpdateTask(ctx context.Context, t *task.Task) error
	GetTaskByID(ctx context.Context, id uuid.UUID) (*task.Task, error)
	GetAllTasks(ctx context.Context) ([]*task.Task, error)
	DeleteTask(ctx context.Context, id uuid.UUID) error

	// UpsertEntry перезаписывает запись при совпадении (task_id, day)
	UpsertEntry(ctx context.Context, e *ledger.Entry) error
	// GetEntriesByTask возвращает записи по возрастанию дня
	GetEntriesByTask(ctx context.Context, taskID uuid.UUID) ([]*ledger.Entry, error)
	GetAllEntries(ctx context.Context) ([]*ledger.Entry, error)
	DeleteEntriesByTask(ctx context.Context, taskID uuid.UUID) error
}
