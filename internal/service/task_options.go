package service

import (
	"dailyTracker/internal/models/task"
)

// TaskOption уточняет, какие поля задачи обновить
type TaskOption func(*task.Task)

func WithTitle(title string) TaskOption {
	return func(t *task.Task) {
		t.Title = title
	}
}

func WithCategory(category task.Category) TaskOption {
	return func(t *task.Task) {
		t.Category = category
	}
}
