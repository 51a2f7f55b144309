package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"dailyTracker/internal/logger"
	"dailyTracker/internal/models/ledger"
	"dailyTracker/internal/models/task"
	repo "dailyTracker/internal/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type Storage struct {
	pool *pgxpool.Pool
}

// PoolSettings - настройки пула из конфига, нулевые значения заменяются умолчаниями
type PoolSettings struct {
	MaxConnections int
	MinConnections int
	IdleTimeout    time.Duration
}

func New(ctx context.Context, connString string, settings PoolSettings) (*Storage, error) {
	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		logger.Error("Repository: Ошибка загрузки конфига", err)
		return nil, fmt.Errorf("загрузка конфига: %w", err)
	}

	if settings.MaxConnections <= 0 {
		settings.MaxConnections = 10
	}
	if settings.MinConnections <= 0 {
		settings.MinConnections = 2
	}
	if settings.IdleTimeout <= 0 {
		settings.IdleTimeout = time.Minute * 5
	}

	config.MaxConns = int32(settings.MaxConnections)
	config.MinConns = int32(settings.MinConnections)
	config.MaxConnIdleTime = settings.IdleTimeout

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		logger.Error("Repository: Ошибка создания пула", err)
		return nil, fmt.Errorf("создание пула: %w", err)
	}

	err = pool.Ping(ctx)
	if err != nil {
		logger.Error("Repository: Неудачная проверка ping", err)
		return nil, fmt.Errorf("проверка соединения ping: %w", err)
	}

	logger.Info("Repository: Успешное создание подключения к PostgreSQL")
	return &Storage{pool: pool}, nil
}

func (s *Storage) Close() {
	s.pool.Close()
	logger.Info("Repository: Закрытие всех соединений PostgreSQL")
}

func (s *Storage) HealthCheck(ctx context.Context) error {
	err := s.pool.Ping(ctx)
	if err != nil {
		logger.Error("Repository: Неудачная проверка ping", err)
		return fmt.Errorf("проверка соединения ping: %w", err)
	}
	return nil
}

// поля напоминания хранятся колонками в tasks, nil - напоминания нет
func reminderArgs(t *task.Task) (hour, minute *int, meridiem, note *string, acknowledged bool) {
	if t.Reminder == nil {
		return nil, nil, nil, nil, false
	}
	m := string(t.Reminder.Meridiem)
	return &t.Reminder.Hour, &t.Reminder.Minute, &m, &t.Reminder.Note, t.Reminder.Acknowledged
}

func buildReminder(hour, minute *int, meridiem, note *string, acknowledged bool) *task.Reminder {
	if hour == nil || minute == nil || meridiem == nil {
		return nil
	}
	r := &task.Reminder{
		Hour:         *hour,
		Minute:       *minute,
		Meridiem:     task.Meridiem(*meridiem),
		Acknowledged: acknowledged,
	}
	if note != nil {
		r.Note = *note
	}
	return r
}

func (s *Storage) CreateTask(ctx context.Context, taskToCreate *task.Task) error {
	start := time.Now()

	query := `INSERT INTO tasks
				(uuid, title, category, reminder_hour, reminder_minute, reminder_meridiem, reminder_note, reminder_acknowledged, created_at)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())
				RETURNING created_at`

	hour, minute, meridiem, note, acknowledged := reminderArgs(taskToCreate)
	err := s.pool.QueryRow(ctx, query,
		taskToCreate.UUID,
		taskToCreate.Title,
		taskToCreate.Category,
		hour, minute, meridiem, note, acknowledged,
	).Scan(&taskToCreate.CreatedAt)

	if err != nil {
		logger.Error("Repository: Не удалось создать задачу", err, zap.Duration("ms", time.Since(start)))
		return fmt.Errorf("создание задачи: %w", err)
	}

	if time.Since(start) > time.Millisecond*100 {
		logger.Warn("Repository: Медленная операция", zap.Duration("ms", time.Since(start)))
	}
	return nil
}

func (s *Storage) UpdateTask(ctx context.Context, taskToUpdate *task.Task) error {
	start := time.Now()

	query := `UPDATE tasks
			SET title = $1,
				category = $2,
				reminder_hour = $3,
				reminder_minute = $4,
				reminder_meridiem = $5,
				reminder_note = $6,
				reminder_acknowledged = $7,
				updated_at = NOW()
			WHERE uuid = $8
			RETURNING updated_at`

	hour, minute, meridiem, note, acknowledged := reminderArgs(taskToUpdate)
	err := s.pool.QueryRow(ctx, query,
		taskToUpdate.Title,
		taskToUpdate.Category,
		hour, minute, meridiem, note, acknowledged,
		taskToUpdate.UUID,
	).Scan(&taskToUpdate.UpdatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return repo.ErrNotFound
		}
		logger.Error("Repository: Не удалось обновить задачу", err)
		return fmt.Errorf("обновление задачи: %w", err)
	}

	if time.Since(start) > time.Millisecond*100 {
		logger.Warn("Repository: Медленная операция", zap.Duration("ms", time.Since(start)))
	}
	return nil
}

const taskColumns = `uuid, title, category, reminder_hour, reminder_minute, reminder_meridiem, reminder_note, reminder_acknowledged, created_at, updated_at`

func scanTask(row pgx.Row) (*task.Task, error) {
	var (
		t            task.Task
		hour         *int
		minute       *int
		meridiem     *string
		note         *string
		acknowledged bool
	)

	err := row.Scan(&t.UUID, &t.Title, &t.Category, &hour, &minute, &meridiem, &note, &acknowledged, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}

	t.Reminder = buildReminder(hour, minute, meridiem, note, acknowledged)
	return &t, nil
}

func (s *Storage) GetTaskByID(ctx context.Context, id uuid.UUID) (*task.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE uuid = $1`

	taskToGet, err := scanTask(s.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repo.ErrNotFound
		}
		logger.Error("Repository: Не удалось получить задачу", err)
		return nil, fmt.Errorf("получение задачи: %w", err)
	}
	return taskToGet, nil
}

func (s *Storage) GetAllTasks(ctx context.Context) ([]*task.Task, error) {
	start := time.Now()

	query := `SELECT ` + taskColumns + ` FROM tasks ORDER BY created_at`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		logger.Error("Repository: Не удалось получить задачи", err)
		return nil, fmt.Errorf("получение задач: %w", err)
	}
	defer rows.Close()

	res := []*task.Task{}
	for rows.Next() {
		taskToGet, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("чтение строки задачи: %w", err)
		}
		res = append(res, taskToGet)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("обход задач: %w", err)
	}

	if time.Since(start) > time.Millisecond*100 {
		logger.Warn("Repository: Медленная операция", zap.Duration("ms", time.Since(start)))
	}
	return res, nil
}

func (s *Storage) DeleteTask(ctx context.Context, id uuid.UUID) error {
	start := time.Now()

	query := `DELETE FROM tasks WHERE uuid = $1`

	_, err := s.pool.Exec(ctx, query, id)
	if err != nil {
		logger.Error("Repository: Не удалось удалить задачу", err, zap.Duration("ms", time.Since(start)))
		return fmt.Errorf("удаление задачи: %w", err)
	}
	return nil
}

func (s *Storage) UpsertEntry(ctx context.Context, entry *ledger.Entry) error {
	start := time.Now()

	query := `INSERT INTO history (task_id, day, status, recorded_at)
				VALUES ($1, $2, $3, NOW())
			ON CONFLICT (task_id, day)
				DO UPDATE SET status = EXCLUDED.status, recorded_at = NOW()
			RETURNING recorded_at`

	err := s.pool.QueryRow(ctx, query, entry.TaskID, string(entry.Day), entry.Status).Scan(&entry.RecordedAt)
	if err != nil {
		logger.Error("Repository: Не удалось записать исход дня", err,
			zap.String("task_id", entry.TaskID.String()),
			zap.String("day", string(entry.Day)))
		return fmt.Errorf("запись исхода: %w", err)
	}

	if time.Since(start) > time.Millisecond*100 {
		logger.Warn("Repository: Медленная операция", zap.Duration("ms", time.Since(start)))
	}
	return nil
}

func (s *Storage) GetEntriesByTask(ctx context.Context, taskID uuid.UUID) ([]*ledger.Entry, error) {
	query := `SELECT task_id, day::text, status, recorded_at
				FROM history
				WHERE task_id = $1
				ORDER BY day`

	rows, err := s.pool.Query(ctx, query, taskID)
	if err != nil {
		logger.Error("Repository: Не удалось получить журнал задачи", err)
		return nil, fmt.Errorf("получение журнала: %w", err)
	}
	defer rows.Close()

	return scanEntries(rows)
}

func (s *Storage) GetAllEntries(ctx context.Context) ([]*ledger.Entry, error) {
	query := `SELECT task_id, day::text, status, recorded_at
				FROM history
				ORDER BY day, task_id`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		logger.Error("Repository: Не удалось получить журнал", err)
		return nil, fmt.Errorf("получение журнала: %w", err)
	}
	defer rows.Close()

	return scanEntries(rows)
}

func scanEntries(rows pgx.Rows) ([]*ledger.Entry, error) {
	res := []*ledger.Entry{}
	for rows.Next() {
		var (
			entry ledger.Entry
			day   string
		)
		if err := rows.Scan(&entry.TaskID, &day, &entry.Status, &entry.RecordedAt); err != nil {
			return nil, fmt.Errorf("чтение строки журнала: %w", err)
		}
		entry.Day = ledger.Day(day)
		res = append(res, &entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("обход журнала: %w", err)
	}
	return res, nil
}

func (s *Storage) DeleteEntriesByTask(ctx context.Context, taskID uuid.UUID) error {
	query := `DELETE FROM history WHERE task_id = $1`

	_, err := s.pool.Exec(ctx, query, taskID)
	if err != nil {
		logger.Error("Repository: Не удалось очистить журнал задачи", err,
			zap.String("task_id", taskID.String()))
		return fmt.Errorf("очистка журнала: %w", err)
	}
	return nil
}
