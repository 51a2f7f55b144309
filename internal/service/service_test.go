package service_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"dailyTracker/internal/logger"
	"dailyTracker/internal/models/ledger"
	"dailyTracker/internal/models/task"
	"dailyTracker/internal/repository"
	"dailyTracker/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	logger.Init(true)
	os.Exit(m.Run())
}

// MockTrackerRepository - мок хранилища
type MockTrackerRepository struct {
	mock.Mock
}

func (m *MockTrackerRepository) HealthCheck(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockTrackerRepository) CreateTask(ctx context.Context, t *task.Task) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *MockTrackerRepository) UpdateTask(ctx context.Context, t *task.Task) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *MockTrackerRepository) GetTaskByID(ctx context.Context, id uuid.UUID) (*task.Task, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*task.Task), args.Error(1)
}

func (m *MockTrackerRepository) GetAllTasks(ctx context.Context) ([]*task.Task, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*task.Task), args.Error(1)
}

func (m *MockTrackerRepository) DeleteTask(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockTrackerRepository) UpsertEntry(ctx context.Context, e *ledger.Entry) error {
	args := m.Called(ctx, e)
	return args.Error(0)
}

func (m *MockTrackerRepository) GetEntriesByTask(ctx context.Context, taskID uuid.UUID) ([]*ledger.Entry, error) {
	args := m.Called(ctx, taskID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*ledger.Entry), args.Error(1)
}

func (m *MockTrackerRepository) GetAllEntries(ctx context.Context) ([]*ledger.Entry, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*ledger.Entry), args.Error(1)
}

func (m *MockTrackerRepository) DeleteEntriesByTask(ctx context.Context, taskID uuid.UUID) error {
	args := m.Called(ctx, taskID)
	return args.Error(0)
}

var _ repository.TrackerRepository = (*MockTrackerRepository)(nil)

func assertBusinessCode(t *testing.T, err error, code string) {
	t.Helper()
	var businessErr *service.BusinessError
	require.ErrorAs(t, err, &businessErr)
	assert.Equal(t, code, businessErr.Code)
}

// TestTrackerService_CreateTask тестирует создание задачи
func TestTrackerService_CreateTask(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name      string
		title     string
		category  task.Category
		setupMock func(*MockTrackerRepository)
		errCode   string
		check     func(*testing.T, *task.Task)
	}{
		{
			name:     "success - category defaults to personal",
			title:    "  Зарядка  ",
			category: "",
			setupMock: func(m *MockTrackerRepository) {
				m.On("CreateTask", mock.Anything, mock.AnythingOfType("*task.Task")).Return(nil)
			},
			check: func(t *testing.T, created *task.Task) {
				assert.Equal(t, "Зарядка", created.Title)
				assert.Equal(t, task.CategoryPersonal, created.Category)
				assert.NotEqual(t, uuid.Nil, created.UUID)
				assert.Nil(t, created.Reminder)
			},
		},
		{
			name:      "error - empty title after trimming",
			title:     "   ",
			category:  task.CategoryWork,
			setupMock: func(m *MockTrackerRepository) {},
			errCode:   "VALIDATION_ERROR",
		},
		{
			name:      "error - unknown category",
			title:     "Зарядка",
			category:  task.Category("fitness"),
			setupMock: func(m *MockTrackerRepository) {},
			errCode:   "VALIDATION_ERROR",
		},
		{
			name:     "error - storage failure surfaces",
			title:    "Зарядка",
			category: task.CategoryHealth,
			setupMock: func(m *MockTrackerRepository) {
				m.On("CreateTask", mock.Anything, mock.AnythingOfType("*task.Task")).Return(errors.New("disk full"))
			},
			errCode: "STORAGE_ERROR",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockTrackerRepository)
			tt.setupMock(mockRepo)

			svc := service.NewTrackerService(mockRepo)
			created, err := svc.CreateTask(ctx, tt.title, tt.category)

			if tt.errCode != "" {
				assertBusinessCode(t, err, tt.errCode)
			} else {
				require.NoError(t, err)
				tt.check(t, created)
			}

			mockRepo.AssertExpectations(t)
		})
	}
}

// TestTrackerService_DeleteTask тестирует каскадное удаление журнала вместе с задачей
func TestTrackerService_DeleteTask(t *testing.T) {
	ctx := context.Background()
	taskID := uuid.New()

	mockRepo := new(MockTrackerRepository)
	mockRepo.On("GetTaskByID", mock.Anything, taskID).Return(&task.Task{UUID: taskID, Title: "Зарядка"}, nil)
	mockRepo.On("DeleteEntriesByTask", mock.Anything, taskID).Return(nil)
	mockRepo.On("DeleteTask", mock.Anything, taskID).Return(nil)

	svc := service.NewTrackerService(mockRepo)
	require.NoError(t, svc.DeleteTask(ctx, taskID))

	mockRepo.AssertExpectations(t)
	mockRepo.AssertCalled(t, "DeleteEntriesByTask", mock.Anything, taskID)
}

// TestTrackerService_DeleteTask_Missing тестирует, что удаление
// несуществующей задачи - no-op, а не ошибка
func TestTrackerService_DeleteTask_Missing(t *testing.T) {
	ctx := context.Background()
	taskID := uuid.New()

	mockRepo := new(MockTrackerRepository)
	mockRepo.On("GetTaskByID", mock.Anything, taskID).Return(nil, repository.ErrNotFound)

	svc := service.NewTrackerService(mockRepo)
	require.NoError(t, svc.DeleteTask(ctx, taskID))

	mockRepo.AssertNotCalled(t, "DeleteTask", mock.Anything, taskID)
	mockRepo.AssertNotCalled(t, "DeleteEntriesByTask", mock.Anything, taskID)
}

// TestTrackerService_SetReminder тестирует валидацию и перезарядку напоминания
func TestTrackerService_SetReminder(t *testing.T) {
	ctx := context.Background()
	taskID := uuid.New()

	tests := []struct {
		name     string
		hour     int
		minute   int
		meridiem task.Meridiem
		errCode  string
	}{
		{name: "success", hour: 7, minute: 30, meridiem: task.MeridiemAM},
		{name: "error - hour 0", hour: 0, minute: 30, meridiem: task.MeridiemAM, errCode: "VALIDATION_ERROR"},
		{name: "error - hour 13", hour: 13, minute: 0, meridiem: task.MeridiemPM, errCode: "VALIDATION_ERROR"},
		{name: "error - minute 60", hour: 7, minute: 60, meridiem: task.MeridiemAM, errCode: "VALIDATION_ERROR"},
		{name: "error - bad meridiem", hour: 7, minute: 0, meridiem: task.Meridiem("am"), errCode: "VALIDATION_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockTrackerRepository)
			if tt.errCode == "" {
				// существующее напоминание уже сработало, установка нового перезаряжает
				existing := &task.Task{
					UUID:     taskID,
					Title:    "Зарядка",
					Category: task.CategoryHealth,
					Reminder: &task.Reminder{Hour: 6, Minute: 0, Meridiem: task.MeridiemAM, Acknowledged: true},
				}
				mockRepo.On("GetTaskByID", mock.Anything, taskID).Return(existing, nil)
				mockRepo.On("UpdateTask", mock.Anything, existing).Return(nil)
			}

			svc := service.NewTrackerService(mockRepo)
			updated, err := svc.SetReminder(ctx, taskID, tt.hour, tt.minute, tt.meridiem, "не забудь")

			if tt.errCode != "" {
				assertBusinessCode(t, err, tt.errCode)
			} else {
				require.NoError(t, err)
				require.NotNil(t, updated.Reminder)
				assert.Equal(t, tt.hour, updated.Reminder.Hour)
				assert.Equal(t, tt.minute, updated.Reminder.Minute)
				assert.False(t, updated.Reminder.Acknowledged)
			}

			mockRepo.AssertExpectations(t)
		})
	}
}

// TestTrackerService_SetReminder_NotFound тестирует напоминание для чужого id
func TestTrackerService_SetReminder_NotFound(t *testing.T) {
	ctx := context.Background()
	taskID := uuid.New()

	mockRepo := new(MockTrackerRepository)
	mockRepo.On("GetTaskByID", mock.Anything, taskID).Return(nil, repository.ErrNotFound)

	svc := service.NewTrackerService(mockRepo)
	_, err := svc.SetReminder(ctx, taskID, 7, 0, task.MeridiemAM, "")
	assertBusinessCode(t, err, "NOT_FOUND")
}

// TestTrackerService_ClearReminder тестирует снятие напоминания
func TestTrackerService_ClearReminder(t *testing.T) {
	ctx := context.Background()
	taskID := uuid.New()

	existing := &task.Task{
		UUID:     taskID,
		Title:    "Зарядка",
		Reminder: &task.Reminder{Hour: 6, Minute: 0, Meridiem: task.MeridiemAM},
	}

	mockRepo := new(MockTrackerRepository)
	mockRepo.On("GetTaskByID", mock.Anything, taskID).Return(existing, nil)
	mockRepo.On("UpdateTask", mock.Anything, existing).Return(nil)

	svc := service.NewTrackerService(mockRepo)
	require.NoError(t, svc.ClearReminder(ctx, taskID))
	assert.Nil(t, existing.Reminder)
}

// TestTrackerService_RecordOutcome тестирует запись исхода дня
func TestTrackerService_RecordOutcome(t *testing.T) {
	ctx := context.Background()
	taskID := uuid.New()
	day := ledger.Day("2025-06-15")

	tests := []struct {
		name      string
		status    ledger.Status
		setupMock func(*MockTrackerRepository)
		errCode   string
	}{
		{
			name:   "success - completed",
			status: ledger.StatusCompleted,
			setupMock: func(m *MockTrackerRepository) {
				m.On("GetTaskByID", mock.Anything, taskID).Return(&task.Task{UUID: taskID}, nil)
				m.On("UpsertEntry", mock.Anything, mock.MatchedBy(func(e *ledger.Entry) bool {
					return e.TaskID == taskID && e.Day == day && e.Status == ledger.StatusCompleted
				})).Return(nil)
			},
		},
		{
			name:      "error - pending is not recordable",
			status:    ledger.StatusPending,
			setupMock: func(m *MockTrackerRepository) {},
			errCode:   "VALIDATION_ERROR",
		},
		{
			name:   "error - unknown task",
			status: ledger.StatusFailed,
			setupMock: func(m *MockTrackerRepository) {
				m.On("GetTaskByID", mock.Anything, taskID).Return(nil, repository.ErrNotFound)
			},
			errCode: "NOT_FOUND",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockTrackerRepository)
			tt.setupMock(mockRepo)

			svc := service.NewTrackerService(mockRepo)
			err := svc.RecordOutcome(ctx, taskID, day, tt.status)

			if tt.errCode != "" {
				assertBusinessCode(t, err, tt.errCode)
			} else {
				require.NoError(t, err)
			}

			mockRepo.AssertExpectations(t)
		})
	}
}

// TestTrackerService_StatusOn тестирует, что день без записи даёт pending
func TestTrackerService_StatusOn(t *testing.T) {
	ctx := context.Background()
	taskID := uuid.New()

	mockRepo := new(MockTrackerRepository)
	mockRepo.On("GetEntriesByTask", mock.Anything, taskID).Return([]*ledger.Entry{
		{TaskID: taskID, Day: "2025-06-14", Status: ledger.StatusCompleted},
	}, nil)

	svc := service.NewTrackerService(mockRepo)

	status, err := svc.StatusOn(ctx, taskID, "2025-06-14")
	require.NoError(t, err)
	assert.Equal(t, ledger.StatusCompleted, status)

	status, err = svc.StatusOn(ctx, taskID, "2025-06-15")
	require.NoError(t, err)
	assert.Equal(t, ledger.StatusPending, status)
}

// TestTrackerService_Summary тестирует сводку по снимку состояния
func TestTrackerService_Summary(t *testing.T) {
	ctx := context.Background()
	today := ledger.Day("2025-06-15")
	task1 := &task.Task{UUID: uuid.New(), Title: "Зарядка"}
	task2 := &task.Task{UUID: uuid.New(), Title: "Чтение"}

	mockRepo := new(MockTrackerRepository)
	mockRepo.On("GetAllTasks", mock.Anything).Return([]*task.Task{task1, task2}, nil)
	mockRepo.On("GetAllEntries", mock.Anything).Return([]*ledger.Entry{
		{TaskID: task1.UUID, Day: today, Status: ledger.StatusCompleted},
		{TaskID: task2.UUID, Day: today, Status: ledger.StatusCompleted},
		{TaskID: task1.UUID, Day: today.AddDays(-1), Status: ledger.StatusCompleted},
		{TaskID: task2.UUID, Day: today.AddDays(-1), Status: ledger.StatusFailed},
	}, nil)

	svc := service.NewTrackerService(mockRepo)
	summary, err := svc.Summary(ctx, today)
	require.NoError(t, err)

	assert.Equal(t, 2, summary.CompletedToday)
	assert.Equal(t, 2, summary.TotalTasks)
	assert.Equal(t, 1, summary.Streak) // вчера вторая задача провалена
	assert.Equal(t, 2, summary.DaysTracked)
}

// TestTrackerService_Heatmap_Validation тестирует границы окна тепловой карты
func TestTrackerService_Heatmap_Validation(t *testing.T) {
	ctx := context.Background()
	today := ledger.Day("2025-06-15")

	tests := []struct {
		name    string
		weeks   int
		errCode string
	}{
		{
			name:    "zero weeks",
			weeks:   0,
			errCode: "VALIDATION_ERROR",
		},
		{
			name:    "huge window rejected",
			weeks:   1000000000,
			errCode: "VALIDATION_ERROR",
		},
		{
			name:  "year-long window allowed",
			weeks: 52,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockTrackerRepository)
			if tt.errCode == "" {
				mockRepo.On("GetAllEntries", mock.Anything).Return([]*ledger.Entry{}, nil)
			}

			svc := service.NewTrackerService(mockRepo)
			cells, err := svc.Heatmap(ctx, today, tt.weeks)

			if tt.errCode != "" {
				assertBusinessCode(t, err, tt.errCode)
			} else {
				require.NoError(t, err)
				assert.Len(t, cells, tt.weeks*7)
			}

			// за валидацией к хранилищу не ходим
			mockRepo.AssertExpectations(t)
		})
	}
}

// TestTrackerService_RearmReminders тестирует сброс флагов при новом дне
func TestTrackerService_RearmReminders(t *testing.T) {
	ctx := context.Background()

	acked := &task.Task{
		UUID:     uuid.New(),
		Title:    "Зарядка",
		Reminder: &task.Reminder{Hour: 7, Minute: 0, Meridiem: task.MeridiemAM, Acknowledged: true},
	}
	fresh := &task.Task{
		UUID:     uuid.New(),
		Title:    "Чтение",
		Reminder: &task.Reminder{Hour: 9, Minute: 0, Meridiem: task.MeridiemPM, Acknowledged: false},
	}
	plain := &task.Task{UUID: uuid.New(), Title: "Прогулка"}

	mockRepo := new(MockTrackerRepository)
	mockRepo.On("GetAllTasks", mock.Anything).Return([]*task.Task{acked, fresh, plain}, nil)
	mockRepo.On("UpdateTask", mock.Anything, acked).Return(nil)

	svc := service.NewTrackerService(mockRepo)
	require.NoError(t, svc.RearmReminders(ctx))

	assert.False(t, acked.Reminder.Acknowledged)
	mockRepo.AssertNumberOfCalls(t, "UpdateTask", 1)
}

// TestTrackerService_HealthCheck тестирует проброс ошибки хранилища
func TestTrackerService_HealthCheck(t *testing.T) {
	ctx := context.Background()

	mockRepo := new(MockTrackerRepository)
	mockRepo.On("HealthCheck", mock.Anything).Return(errors.New("db connection failed"))

	svc := service.NewTrackerService(mockRepo)
	err := svc.HealthCheck(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "проверка здоровья сервиса")
}
