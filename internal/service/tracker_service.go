package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"dailyTracker/internal/logger"
	"dailyTracker/internal/models/ledger"
	"dailyTracker/internal/models/task"
	"dailyTracker/internal/repository"
	"dailyTracker/internal/stats"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// здесь происходит проверка бизнес-правил: валидация ввода,
// каскадное удаление журнала и единственное напоминание на задачу

type TrackerService struct {
	repo repository.TrackerRepository
}

func NewTrackerService(repo repository.TrackerRepository) TrackerService {
	return TrackerService{
		repo: repo,
	}
}

func (s *TrackerService) HealthCheck(ctx context.Context) error {
	if err := s.repo.HealthCheck(ctx); err != nil {
		return fmt.Errorf("проверка здоровья сервиса: %w", err)
	}
	return nil
}

func (s *TrackerService) CreateTask(ctx context.Context, title string, category task.Category) (*task.Task, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, NewValidationError("title", "название не может быть пустым")
	}

	if category == "" {
		// категория по умолчанию, как в исходном трекере
		category = task.CategoryPersonal
	}
	if !task.ValidCategory(category) {
		return nil, NewValidationError("category", "неизвестная категория")
	}

	newTask := &task.Task{
		UUID:      uuid.New(),
		Title:     title,
		Category:  category,
		CreatedAt: time.Now(),
	}

	if err := s.repo.CreateTask(ctx, newTask); err != nil {
		return nil, NewStorageError("create_task", err)
	}
	return newTask, nil
}

func (s *TrackerService) GetTasks(ctx context.Context) ([]*task.Task, error) {
	tasks, err := s.repo.GetAllTasks(ctx)
	if err != nil {
		return nil, fmt.Errorf("получение задач: %w", err)
	}
	return tasks, nil
}

func (s *TrackerService) GetTaskByID(ctx context.Context, id uuid.UUID) (*task.Task, error) {
	taskToGet, err := s.repo.GetTaskByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			logger.Info("Service: Задача не найдена", zap.String("target_id", id.String()))
			return nil, NewNotFound("задача", id.String())
		}
		return nil, fmt.Errorf("получение задачи: %w", err)
	}
	return taskToGet, nil
}

func (s *TrackerService) UpdateTask(ctx context.Context, id uuid.UUID, options ...TaskOption) (*task.Task, error) {
	taskToUpdate, err := s.GetTaskByID(ctx, id)
	if err != nil {
		return nil, err
	}

	for _, opt := range options {
		if opt != nil {
			opt(taskToUpdate)
		}
	}

	if strings.TrimSpace(taskToUpdate.Title) == "" {
		return nil, NewValidationError("title", "название не может быть пустым")
	}
	if !task.ValidCategory(taskToUpdate.Category) {
		return nil, NewValidationError("category", "неизвестная категория")
	}

	if err := s.repo.UpdateTask(ctx, taskToUpdate); err != nil {
		return nil, NewStorageError("update_task", err)
	}
	return taskToUpdate, nil
}

// DeleteTask удаляет задачу каскадно: сначала журнал, затем саму задачу,
// чтобы записи не пережили задачу. Удаление несуществующего id - no-op.
func (s *TrackerService) DeleteTask(ctx context.Context, id uuid.UUID) error {
	_, err := s.repo.GetTaskByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			logger.Info("Service: Удаление несуществующей задачи пропущено", zap.String("target_id", id.String()))
			return nil
		}
		return fmt.Errorf("получение задачи: %w", err)
	}

	if err := s.repo.DeleteEntriesByTask(ctx, id); err != nil {
		return NewStorageError("purge_history", err)
	}

	// напоминание хранится в самой задаче и уходит вместе с ней
	if err := s.repo.DeleteTask(ctx, id); err != nil {
		return NewStorageError("delete_task", err)
	}
	return nil
}

func (s *TrackerService) SetReminder(ctx context.Context, id uuid.UUID, hour, minute int, meridiem task.Meridiem, note string) (*task.Task, error) {
	if hour < 1 || hour > 12 {
		return nil, NewValidationError("hour", "час должен быть в диапазоне 1..12")
	}
	if minute < 0 || minute > 59 {
		return nil, NewValidationError("minute", "минуты должны быть в диапазоне 0..59")
	}
	if meridiem != task.MeridiemAM && meridiem != task.MeridiemPM {
		return nil, NewValidationError("meridiem", "ожидается AM или PM")
	}

	taskToUpdate, err := s.GetTaskByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// редактирование перезаряжает напоминание
	taskToUpdate.Reminder = &task.Reminder{
		Hour:         hour,
		Minute:       minute,
		Meridiem:     meridiem,
		Note:         strings.TrimSpace(note),
		Acknowledged: false,
	}

	if err := s.repo.UpdateTask(ctx, taskToUpdate); err != nil {
		return nil, NewStorageError("set_reminder", err)
	}
	return taskToUpdate, nil
}

func (s *TrackerService) ClearReminder(ctx context.Context, id uuid.UUID) error {
	taskToUpdate, err := s.GetTaskByID(ctx, id)
	if err != nil {
		return err
	}

	if taskToUpdate.Reminder == nil {
		return nil
	}

	taskToUpdate.Reminder = nil
	if err := s.repo.UpdateTask(ctx, taskToUpdate); err != nil {
		return NewStorageError("clear_reminder", err)
	}
	return nil
}

// RecordOutcome фиксирует исход задачи за день. Повторная запись за тот же
// день перезаписывает статус, а не добавляет вторую запись.
func (s *TrackerService) RecordOutcome(ctx context.Context, id uuid.UUID, day ledger.Day, status ledger.Status) error {
	if !ledger.Recordable(status) {
		return NewValidationError("status", "допустимы только completed и failed")
	}
	if day == "" {
		return NewValidationError("day", "день должен быть задан")
	}

	if _, err := s.GetTaskByID(ctx, id); err != nil {
		return err
	}

	entry := &ledger.Entry{
		TaskID: id,
		Day:    day,
		Status: status,
	}
	if err := s.repo.UpsertEntry(ctx, entry); err != nil {
		return NewStorageError("record_outcome", err)
	}
	return nil
}

// StatusOn возвращает pending, если исход за день не зафиксирован
func (s *TrackerService) StatusOn(ctx context.Context, id uuid.UUID, day ledger.Day) (ledger.Status, error) {
	entries, err := s.repo.GetEntriesByTask(ctx, id)
	if err != nil {
		return "", fmt.Errorf("получение журнала: %w", err)
	}

	for _, entry := range entries {
		if entry.Day == day {
			return entry.Status, nil
		}
	}
	return ledger.StatusPending, nil
}

func (s *TrackerService) EntriesFor(ctx context.Context, id uuid.UUID) ([]*ledger.Entry, error) {
	entries, err := s.repo.GetEntriesByTask(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("получение журнала: %w", err)
	}
	return entries, nil
}

func (s *TrackerService) TaskHistory(ctx context.Context, id uuid.UUID) (*stats.TaskHistory, error) {
	if _, err := s.GetTaskByID(ctx, id); err != nil {
		return nil, err
	}

	entries, err := s.EntriesFor(ctx, id)
	if err != nil {
		return nil, err
	}

	history := stats.History(entries)
	return &history, nil
}

// Summary собирает дневную сводку по снимку состояния, ничего не кэшируя
func (s *TrackerService) Summary(ctx context.Context, today ledger.Day) (*stats.Summary, error) {
	tasks, err := s.GetTasks(ctx)
	if err != nil {
		return nil, err
	}

	entries, err := s.repo.GetAllEntries(ctx)
	if err != nil {
		return nil, fmt.Errorf("получение журнала: %w", err)
	}

	completed, total := stats.TodayCompletion(tasks, entries, today)
	return &stats.Summary{
		CompletedToday: completed,
		TotalTasks:     total,
		Streak:         stats.CurrentStreak(tasks, entries, today),
		DaysTracked:    stats.DaysTracked(entries),
	}, nil
}

// maxHeatmapWeeks ограничивает окно тепловой карты годом,
// чтобы один запрос не раздувал ответ на миллионы ячеек
const maxHeatmapWeeks = 52

func (s *TrackerService) Heatmap(ctx context.Context, today ledger.Day, weeks int) ([]stats.HeatmapCell, error) {
	if weeks < 1 {
		return nil, NewValidationError("weeks", "окно должно быть не меньше одной недели")
	}
	if weeks > maxHeatmapWeeks {
		return nil, NewValidationError("weeks", "окно не может превышать 52 недели")
	}

	entries, err := s.repo.GetAllEntries(ctx)
	if err != nil {
		return nil, fmt.Errorf("получение журнала: %w", err)
	}
	return stats.Heatmap(entries, today, weeks), nil
}

func (s *TrackerService) MonthCalendar(ctx context.Context, id uuid.UUID, year int, month time.Month) ([]stats.CalendarDay, error) {
	if month < time.January || month > time.December {
		return nil, NewValidationError("month", "месяц должен быть в диапазоне 1..12")
	}

	if _, err := s.GetTaskByID(ctx, id); err != nil {
		return nil, err
	}

	entries, err := s.EntriesFor(ctx, id)
	if err != nil {
		return nil, err
	}
	return stats.MonthCalendar(entries, year, month), nil
}

// AcknowledgeReminder помечает напоминание сработавшим до конца дня
func (s *TrackerService) AcknowledgeReminder(ctx context.Context, id uuid.UUID) error {
	taskToUpdate, err := s.GetTaskByID(ctx, id)
	if err != nil {
		return err
	}

	if taskToUpdate.Reminder == nil || taskToUpdate.Reminder.Acknowledged {
		return nil
	}

	taskToUpdate.Reminder.Acknowledged = true
	if err := s.repo.UpdateTask(ctx, taskToUpdate); err != nil {
		return NewStorageError("acknowledge_reminder", err)
	}
	return nil
}

// RearmReminders сбрасывает флаги срабатывания в начале нового календарного дня
func (s *TrackerService) RearmReminders(ctx context.Context) error {
	tasks, err := s.GetTasks(ctx)
	if err != nil {
		return err
	}

	for _, t := range tasks {
		if t.Reminder == nil || !t.Reminder.Acknowledged {
			continue
		}

		t.Reminder.Acknowledged = false
		if err := s.repo.UpdateTask(ctx, t); err != nil {
			// продолжаем с остальными задачами, ошибка только в лог
			logger.Warn("Service: Не удалось перезарядить напоминание",
				zap.String("task_id", t.UUID.String()),
				zap.Error(err))
		}
	}
	return nil
}
