package inmemory

import (
	"context"
	"sort"
	"sync"
	"time"

	"dailyTracker/internal/logger"
	"dailyTracker/internal/models/ledger"
	"dailyTracker/internal/models/task"
	repo "dailyTracker/internal/repository"

	"github.com/google/uuid"
)

// Storage - хранилище в памяти: карты вместо объектных хранилищ IndexedDB.
// Наружу отдаются только копии: сервис и воркер правят свои экземпляры,
// состояние store меняется строго под его блокировкой.
type Storage struct {
	tasks   map[uuid.UUID]*task.Task
	entries map[uuid.UUID]map[ledger.Day]*ledger.Entry
	mtx     *sync.RWMutex
	ids     []uuid.UUID
}

func cloneTask(t *task.Task) *task.Task {
	copied := *t
	if t.Reminder != nil {
		reminder := *t.Reminder
		copied.Reminder = &reminder
	}
	if t.UpdatedAt != nil {
		updatedAt := *t.UpdatedAt
		copied.UpdatedAt = &updatedAt
	}
	return &copied
}

func cloneEntry(e *ledger.Entry) *ledger.Entry {
	copied := *e
	return &copied
}

func NewStorage() *Storage {
	return &Storage{
		tasks:   make(map[uuid.UUID]*task.Task),
		entries: make(map[uuid.UUID]map[ledger.Day]*ledger.Entry),
		mtx:     &sync.RWMutex{},
		ids:     []uuid.UUID{},
	}
}

func (s *Storage) HealthCheck(ctx context.Context) error {
	logger.Info("Repository: Соединение стабильно")
	return nil
}

func (s *Storage) CreateTask(ctx context.Context, taskToCreate *task.Task) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if taskToCreate.CreatedAt.IsZero() {
		taskToCreate.CreatedAt = time.Now()
	}

	s.tasks[taskToCreate.UUID] = cloneTask(taskToCreate)
	s.ids = append(s.ids, taskToCreate.UUID)
	return nil
}

func (s *Storage) UpdateTask(ctx context.Context, taskToUpdate *task.Task) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if _, ok := s.tasks[taskToUpdate.UUID]; !ok {
		return repo.ErrNotFound
	}

	now := time.Now()
	taskToUpdate.UpdatedAt = &now
	s.tasks[taskToUpdate.UUID] = cloneTask(taskToUpdate)
	return nil
}

func (s *Storage) GetTaskByID(ctx context.Context, id uuid.UUID) (*task.Task, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	taskToGet, ok := s.tasks[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	return cloneTask(taskToGet), nil
}

// GetAllTasks возвращает задачи в порядке создания
func (s *Storage) GetAllTasks(ctx context.Context) ([]*task.Task, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	res := make([]*task.Task, 0, len(s.ids))
	for _, id := range s.ids {
		res = append(res, cloneTask(s.tasks[id]))
	}
	return res, nil
}

func (s *Storage) DeleteTask(ctx context.Context, id uuid.UUID) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	delete(s.tasks, id)
	for ind, val := range s.ids {
		if val == id {
			s.ids = append(s.ids[:ind], s.ids[ind+1:]...)
			break
		}
	}
	return nil
}

// UpsertEntry перезаписывает исход дня, если он уже был зафиксирован
func (s *Storage) UpsertEntry(ctx context.Context, entry *ledger.Entry) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	byDay, ok := s.entries[entry.TaskID]
	if !ok {
		byDay = make(map[ledger.Day]*ledger.Entry)
		s.entries[entry.TaskID] = byDay
	}

	if entry.RecordedAt.IsZero() {
		entry.RecordedAt = time.Now()
	}
	byDay[entry.Day] = cloneEntry(entry)
	return nil
}

func (s *Storage) GetEntriesByTask(ctx context.Context, taskID uuid.UUID) ([]*ledger.Entry, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	res := make([]*ledger.Entry, 0, len(s.entries[taskID]))
	for _, entry := range s.entries[taskID] {
		res = append(res, cloneEntry(entry))
	}

	// ключ дня сортируется лексикографически
	sort.Slice(res, func(i, j int) bool {
		return res[i].Day < res[j].Day
	})
	return res, nil
}

func (s *Storage) GetAllEntries(ctx context.Context) ([]*ledger.Entry, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	res := []*ledger.Entry{}
	for _, byDay := range s.entries {
		for _, entry := range byDay {
			res = append(res, cloneEntry(entry))
		}
	}

	sort.Slice(res, func(i, j int) bool {
		if res[i].Day != res[j].Day {
			return res[i].Day < res[j].Day
		}
		return res[i].TaskID.String() < res[j].TaskID.String()
	})
	return res, nil
}

func (s *Storage) DeleteEntriesByTask(ctx context.Context, taskID uuid.UUID) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	delete(s.entries, taskID)
	return nil
}
