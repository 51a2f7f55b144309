package dto

import (
	"time"

	"dailyTracker/internal/models/task"

	"github.com/google/uuid"
)

type CreateTaskRequest struct {
	Title    string `json:"title"`
	Category string `json:"category"`
}

type UpdateTaskRequest struct {
	Title    *string `json:"title,omitempty"`
	Category *string `json:"category,omitempty"`
}

type ReminderRequest struct {
	Hour     int    `json:"hour"`
	Minute   int    `json:"minute"`
	Meridiem string `json:"meridiem"`
	Note     string `json:"note"`
}

type StatusRequest struct {
	Status string `json:"status"`
	Day    string `json:"day,omitempty"`
}

type ReminderResponse struct {
	Hour         int    `json:"hour"`
	Minute       int    `json:"minute"`
	Meridiem     string `json:"meridiem"`
	Note         string `json:"note,omitempty"`
	Acknowledged bool   `json:"acknowledged"`
}

type TaskResponse struct {
	UUID      uuid.UUID         `json:"id"`
	Title     string            `json:"title"`
	Category  string            `json:"category"`
	Reminder  *ReminderResponse `json:"reminder,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt *time.Time        `json:"updated_at,omitempty"`
}

func FromTask(t *task.Task) TaskResponse {
	res := TaskResponse{
		UUID:      t.UUID,
		Title:     t.Title,
		Category:  string(t.Category),
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
	if t.Reminder != nil {
		res.Reminder = &ReminderResponse{
			Hour:         t.Reminder.Hour,
			Minute:       t.Reminder.Minute,
			Meridiem:     string(t.Reminder.Meridiem),
			Note:         t.Reminder.Note,
			Acknowledged: t.Reminder.Acknowledged,
		}
	}
	return res
}

func FromTaskList(tasks []*task.Task) []TaskResponse {
	result := make([]TaskResponse, len(tasks))
	for i, t := range tasks {
		result[i] = FromTask(t)
	}
	return result
}
