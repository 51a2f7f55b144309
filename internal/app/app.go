package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"dailyTracker/internal/config"
	"dailyTracker/internal/handlers"
	"dailyTracker/internal/logger"
	"dailyTracker/internal/middleware"
	"dailyTracker/internal/repository"
	"dailyTracker/internal/repository/inmemory"
	"dailyTracker/internal/repository/postgres"
	"dailyTracker/internal/service"
	"dailyTracker/internal/worker"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
)

type App struct {
	config     *config.Config
	server     *http.Server
	router     *chi.Mux
	repository repository.TrackerRepository
	service    service.TrackerService
	worker     *worker.ReminderWorker
	shutdowns  []func() // функции для graceful shutdown
}

func New(cfg *config.Config) *App {
	return &App{
		config:    cfg,
		shutdowns: make([]func(), 0),
	}
}

func (a *App) Init(ctx context.Context) error {
	if err := logger.Init(a.config.Logging.Development); err != nil {
		return fmt.Errorf("инициализация логгера: %w", err)
	}

	a.shutdowns = append(a.shutdowns, func() {
		logger.Info("Завершение работы логгирования...")
		logger.Sync()
	})

	switch a.config.Repository.Type {
	case "postgres":
		if err := postgres.Migrate(a.config.Database.URL); err != nil {
			return fmt.Errorf("миграции: %w", err)
		}

		storage, err := postgres.New(ctx, a.config.Database.URL, postgres.PoolSettings{
			MaxConnections: a.config.Database.MaxConnections,
			MinConnections: a.config.Database.MinConnections,
			IdleTimeout:    a.config.Database.IdleTimeout.Std(),
		})
		if err != nil {
			return fmt.Errorf("подключение к PostgreSQL: %w", err)
		}
		a.shutdowns = append(a.shutdowns, storage.Close)
		a.repository = storage
	case "inmemory", "":
		a.repository = inmemory.NewStorage()
	default:
		return fmt.Errorf("неизвестный тип репозитория: %s", a.config.Repository.Type)
	}

	a.service = service.NewTrackerService(a.repository)

	notifications := worker.NewBuffer(50)
	reminderInterval := a.config.Worker.ReminderInterval.Std()
	a.worker = worker.NewReminderWorker(&a.service, &reminderInterval, notifications.Add)

	trackerHandler := handlers.NewTrackerHandler(&a.service, notifications)
	a.router = newRouter(&trackerHandler)

	a.server = &http.Server{
		Addr:    a.config.GetServerAddr(),
		Handler: a.router,
	}
	return nil
}

func newRouter(h *handlers.TrackerHandler) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Logging)
	r.Use(middleware.RateLimit(100))
	// трекером пользуется браузерная страница
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
	}))

	r.Route("/tasks", func(r chi.Router) {
		r.Get("/", h.GetTasks)  // GET /tasks
		r.Post("/", h.PostTask) // POST /tasks

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.GetTaskByID)       // GET /tasks/{id}
			r.Put("/", h.UpdateTaskByID)    // PUT /tasks/{id}
			r.Delete("/", h.DeleteTaskByID) // DELETE /tasks/{id}

			r.Put("/reminder", h.PutReminder)       // PUT /tasks/{id}/reminder
			r.Delete("/reminder", h.DeleteReminder) // DELETE /tasks/{id}/reminder

			r.Post("/status", h.PostStatus)         // POST /tasks/{id}/status
			r.Get("/history", h.GetTaskHistory)     // GET /tasks/{id}/history
			r.Get("/calendar", h.GetTaskCalendar)   // GET /tasks/{id}/calendar
		})
	})

	r.Get("/stats", h.GetStats)                   // GET /stats
	r.Get("/stats/heatmap", h.GetHeatmap)         // GET /stats/heatmap
	r.Get("/notifications", h.GetNotifications)   // GET /notifications
	r.Get("/health", h.HealthCheck)

	return r
}

// Run блокируется до отмены контекста, после чего гасит сервер и воркер
func (a *App) Run(ctx context.Context) error {
	workerCtx, cancelWorker := context.WithCancel(ctx)
	defer cancelWorker()
	go a.worker.Start(workerCtx)

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Сервер запущен на " + a.config.GetServerAddr())
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("запуск сервера: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Ошибка остановки сервера", err)
	}

	for i := len(a.shutdowns) - 1; i >= 0; i-- {
		a.shutdowns[i]()
	}
	return nil
}
