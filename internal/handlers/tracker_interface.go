package handlers

import (
	"context"
	"time"

	"dailyTracker/internal/models/ledger"
	"dailyTracker/internal/models/task"
	"dailyTracker/internal/service"
	"dailyTracker/internal/stats"

	"github.com/google/uuid"
)

type TrackerService interface {
	HealthCheck(ctx context.Context) error

	CreateTask(ctx context.Context, title string, category task.Category) (*task.Task, error)
	GetTasks(ctx context.Context) ([]*task.Task, error)
	GetTaskByID(ctx context.Context, id uuid.UUID) (*task.Task, error)
	UpdateTask(ctx context.Context, id uuid.UUID, options ...service.TaskOption) (*task.Task, error)
	DeleteTask(ctx context.Context, id uuid.UUID) error

	SetReminder(ctx context.Context, id uuid.UUID, hour, minute int, meridiem task.Meridiem, note string) (*task.Task, error)
	ClearReminder(ctx context.Context, id uuid.UUID) error

	RecordOutcome(ctx context.Context, id uuid.UUID, day ledger.Day, status ledger.Status) error
	TaskHistory(ctx context.Context, id uuid.UUID) (*stats.TaskHistory, error)

	Summary(ctx context.Context, today ledger.Day) (*stats.Summary, error)
	Heatmap(ctx context.Context, today ledger.Day, weeks int) ([]stats.HeatmapCell, error)
	MonthCalendar(ctx context.Context, id uuid.UUID, year int, month time.Month) ([]stats.CalendarDay, error)
}
