package worker

import (
	"context"
	"time"

	"dailyTracker/internal/logger"
	"dailyTracker/internal/models/ledger"
	"dailyTracker/internal/models/task"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type TrackerService interface {
	GetTasks(ctx context.Context) ([]*task.Task, error)
	AcknowledgeReminder(ctx context.Context, id uuid.UUID) error
	RearmReminders(ctx context.Context) error
}

// Notification - событие срабатывания напоминания, отдаётся наружу,
// воркер сам ничего не показывает
type Notification struct {
	TaskID  uuid.UUID `json:"task_id"`
	Title   string    `json:"title"`
	Note    string    `json:"note"`
	FiredAt time.Time `json:"fired_at"`
}

type NotificationSink func(Notification)

type ReminderWorker struct {
	service  TrackerService
	interval time.Duration
	sink     NotificationSink
	lastDay  ledger.Day
}

func NewReminderWorker(service TrackerService, interval *time.Duration, sink NotificationSink) *ReminderWorker {
	var intervalToSet time.Duration
	if interval == nil {
		intervalToSet = 30 * time.Second
	} else {
		intervalToSet = *interval
	}

	return &ReminderWorker{
		service:  service,
		interval: intervalToSet,
		sink:     sink,
	}
}

// Start крутит один цикл тиков: проверки не перекрываются,
// очередной тик ждёт завершения предыдущего
func (w *ReminderWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.Check(ctx, time.Now())
		case <-ctx.Done():
			logger.Info("Worker: Проверка напоминаний останавливается")
			return
		}
	}
}

// Check - один тик: перезарядка при смене календарного дня и срабатывание
// неподтверждённых напоминаний, чьё время суток уже наступило.
// Каждое напоминание срабатывает не чаще раза в день.
func (w *ReminderWorker) Check(ctx context.Context, now time.Time) {
	start := time.Now()
	day := ledger.DayOf(now)

	if w.lastDay == "" {
		w.lastDay = day
	} else if day != w.lastDay {
		logger.Info("Worker: Новый календарный день, перезарядка напоминаний",
			zap.String("day", string(day)))
		if err := w.service.RearmReminders(ctx); err != nil {
			logger.Warn("Worker: Ошибка перезарядки напоминаний", zap.Error(err))
			return
		}
		w.lastDay = day
	}

	tasks, err := w.service.GetTasks(ctx)
	if err != nil {
		logger.Warn("Worker: Ошибка получения задач", zap.Error(err))
		return
	}

	fired := 0
	minutesNow := now.Hour()*60 + now.Minute()

	for _, t := range tasks {
		reminder := t.Reminder
		if reminder == nil || reminder.Acknowledged {
			continue
		}

		if minutesNow < reminder.Hour24()*60+reminder.Minute {
			continue
		}

		// срабатываем даже если подтверждение не сохранилось:
		// пользователь важнее повторного уведомления
		if w.sink != nil {
			w.sink(Notification{
				TaskID:  t.UUID,
				Title:   t.Title,
				Note:    reminder.Note,
				FiredAt: now,
			})
		}
		fired++

		if err := w.service.AcknowledgeReminder(ctx, t.UUID); err != nil {
			logger.Warn("Worker: Не удалось подтвердить напоминание",
				zap.String("task_id", t.UUID.String()),
				zap.Error(err))
		}
	}

	if fired > 0 {
		logger.Info("Worker: Завершение проверки напоминаний",
			zap.Duration("ms", time.Since(start)),
			zap.Int("checked", len(tasks)),
			zap.Int("fired", fired))
	}
}
