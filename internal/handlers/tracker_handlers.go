package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"dailyTracker/internal/handlers/dto"
	"dailyTracker/internal/logger"
	"dailyTracker/internal/models/ledger"
	"dailyTracker/internal/models/task"
	"dailyTracker/internal/service"
	"dailyTracker/internal/worker"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type TrackerHandler struct {
	TrackerService TrackerService
	Notifications  *worker.Buffer
}

func NewTrackerHandler(trackerService TrackerService, notifications *worker.Buffer) TrackerHandler {
	return TrackerHandler{
		TrackerService: trackerService,
		Notifications:  notifications,
	}
}

func (h *TrackerHandler) parseTaskID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	idParam := chi.URLParam(r, "id")
	id, err := uuid.Parse(idParam)
	if err != nil {
		logger.Warn("HTTP: Не удалось получить id",
			zap.Error(err),
			zap.String("client_ip", r.RemoteAddr))

		responseWithError(w, http.StatusBadRequest, "не удалось получить id: "+err.Error())
		return uuid.Nil, false
	}

	if id == uuid.Nil {
		logger.Warn("HTTP: Неверное значение id",
			zap.String("error", "nil id"),
			zap.String("client_ip", r.RemoteAddr))

		responseWithError(w, http.StatusBadRequest, "id не может быть пустым")
		return uuid.Nil, false
	}
	return id, true
}

func (h *TrackerHandler) PostTask(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	if !checkContentType(r, "application/json") {
		logger.Warn("HTTP: Неверный тип контента",
			zap.String("expected", "application/json"),
			zap.String("received", r.Header.Get("Content-Type")),
			zap.String("client_ip", r.RemoteAddr))

		responseWithError(w, http.StatusUnsupportedMediaType, "Content-Type должен быть application/json")
		return
	}

	var request dto.CreateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		logger.Warn("HTTP: Ошибка чтения JSON",
			zap.Error(err),
			zap.String("client_ip", r.RemoteAddr))

		responseWithError(w, http.StatusBadRequest, "неверное тело запроса: "+err.Error())
		return
	}

	createdTask, err := h.TrackerService.CreateTask(r.Context(), request.Title, task.Category(request.Category))
	if err != nil {
		if handleBusinessError(w, err) {
			return
		}
		logger.Error("HTTP: Ошибка Service", err,
			zap.String("operation", "create_task"),
			zap.String("client_ip", r.RemoteAddr))

		responseWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	logger.Info("HTTP_OUT: Задача создана",
		zap.String("task_id", createdTask.UUID.String()),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusCreated))

	responseWithJSON(w, http.StatusCreated, toPayload("task", dto.FromTask(createdTask)))
}

func (h *TrackerHandler) GetTasks(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	tasks, err := h.TrackerService.GetTasks(r.Context())
	if err != nil {
		logger.Error("HTTP: Ошибка Service", err)
		responseWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	logger.Info("HTTP_OUT: Задачи получены",
		zap.Int("count", len(tasks)),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithJSON(w, http.StatusOK, toPayload("tasks", dto.FromTaskList(tasks)))
}

func (h *TrackerHandler) GetTaskByID(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	id, ok := h.parseTaskID(w, r)
	if !ok {
		return
	}

	taskToGet, err := h.TrackerService.GetTaskByID(r.Context(), id)
	if err != nil {
		if handleBusinessError(w, err) {
			return
		}
		logger.Error("HTTP: Ошибка Service", err,
			zap.String("operation", "get_task"),
			zap.String("client_ip", r.RemoteAddr))

		responseWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	logger.Info("HTTP_OUT: Задача получена",
		zap.String("task_id", taskToGet.UUID.String()),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithJSON(w, http.StatusOK, toPayload("task", dto.FromTask(taskToGet)))
}

func (h *TrackerHandler) UpdateTaskByID(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	id, ok := h.parseTaskID(w, r)
	if !ok {
		return
	}

	var request dto.UpdateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		logger.Warn("HTTP: Ошибка чтения JSON",
			zap.Error(err),
			zap.String("client_ip", r.RemoteAddr))

		responseWithError(w, http.StatusBadRequest, "неверно переданы параметры обновления: "+err.Error())
		return
	}

	options := []service.TaskOption{}
	if request.Title != nil {
		options = append(options, service.WithTitle(*request.Title))
	}
	if request.Category != nil {
		options = append(options, service.WithCategory(task.Category(*request.Category)))
	}

	updatedTask, err := h.TrackerService.UpdateTask(r.Context(), id, options...)
	if err != nil {
		if handleBusinessError(w, err) {
			return
		}
		logger.Error("HTTP: Ошибка Service", err,
			zap.String("operation", "update_task"),
			zap.String("client_ip", r.RemoteAddr))

		responseWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	logger.Info("HTTP_OUT: Задача обновлена",
		zap.String("task_id", id.String()),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithJSON(w, http.StatusOK, toPayload("task", dto.FromTask(updatedTask)))
}

func (h *TrackerHandler) DeleteTaskByID(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	id, ok := h.parseTaskID(w, r)
	if !ok {
		return
	}

	err := h.TrackerService.DeleteTask(r.Context(), id)
	if err != nil {
		if handleBusinessError(w, err) {
			return
		}
		logger.Error("HTTP: Ошибка Service", err,
			zap.String("operation", "delete_task"),
			zap.String("client_ip", r.RemoteAddr))

		responseWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	logger.Info("HTTP_OUT: Задача удалена вместе с журналом",
		zap.String("task_id", id.String()),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusNoContent))

	w.WriteHeader(http.StatusNoContent)
}

func (h *TrackerHandler) PutReminder(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	id, ok := h.parseTaskID(w, r)
	if !ok {
		return
	}

	var request dto.ReminderRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		logger.Warn("HTTP: Ошибка чтения JSON",
			zap.Error(err),
			zap.String("client_ip", r.RemoteAddr))

		responseWithError(w, http.StatusBadRequest, "неверное тело запроса: "+err.Error())
		return
	}

	updatedTask, err := h.TrackerService.SetReminder(r.Context(), id,
		request.Hour, request.Minute, task.Meridiem(request.Meridiem), request.Note)
	if err != nil {
		if handleBusinessError(w, err) {
			return
		}
		logger.Error("HTTP: Ошибка Service", err,
			zap.String("operation", "set_reminder"),
			zap.String("client_ip", r.RemoteAddr))

		responseWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	logger.Info("HTTP_OUT: Напоминание установлено",
		zap.String("task_id", id.String()),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithJSON(w, http.StatusOK, toPayload("task", dto.FromTask(updatedTask)))
}

func (h *TrackerHandler) DeleteReminder(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	id, ok := h.parseTaskID(w, r)
	if !ok {
		return
	}

	err := h.TrackerService.ClearReminder(r.Context(), id)
	if err != nil {
		if handleBusinessError(w, err) {
			return
		}
		logger.Error("HTTP: Ошибка Service", err,
			zap.String("operation", "clear_reminder"),
			zap.String("client_ip", r.RemoteAddr))

		responseWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	logger.Info("HTTP_OUT: Напоминание снято",
		zap.String("task_id", id.String()),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusNoContent))

	w.WriteHeader(http.StatusNoContent)
}

func (h *TrackerHandler) PostStatus(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	id, ok := h.parseTaskID(w, r)
	if !ok {
		return
	}

	var request dto.StatusRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		logger.Warn("HTTP: Ошибка чтения JSON",
			zap.Error(err),
			zap.String("client_ip", r.RemoteAddr))

		responseWithError(w, http.StatusBadRequest, "неверное тело запроса: "+err.Error())
		return
	}

	// без явной даты исход записывается за сегодня
	day := ledger.Today()
	if request.Day != "" {
		parsed, err := ledger.ParseDay(request.Day)
		if err != nil {
			logger.Warn("HTTP: Ошибка валидации",
				zap.String("field", "day"),
				zap.Error(err),
				zap.String("client_ip", r.RemoteAddr))

			responseWithError(w, http.StatusBadRequest, "дата должна быть в формате YYYY-MM-DD")
			return
		}
		day = parsed
	}

	err := h.TrackerService.RecordOutcome(r.Context(), id, day, ledger.Status(request.Status))
	if err != nil {
		if handleBusinessError(w, err) {
			return
		}
		logger.Error("HTTP: Ошибка Service", err,
			zap.String("operation", "record_outcome"),
			zap.String("client_ip", r.RemoteAddr))

		responseWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	logger.Info("HTTP_OUT: Исход дня записан",
		zap.String("task_id", id.String()),
		zap.String("day", string(day)),
		zap.String("status", request.Status),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithJSON(w, http.StatusOK,
		toPayload("task_id", id),
		toPayload("day", day),
		toPayload("status", request.Status))
}

func (h *TrackerHandler) GetTaskHistory(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	id, ok := h.parseTaskID(w, r)
	if !ok {
		return
	}

	history, err := h.TrackerService.TaskHistory(r.Context(), id)
	if err != nil {
		if handleBusinessError(w, err) {
			return
		}
		logger.Error("HTTP: Ошибка Service", err,
			zap.String("operation", "task_history"),
			zap.String("client_ip", r.RemoteAddr))

		responseWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	logger.Info("HTTP_OUT: Журнал задачи получен",
		zap.String("task_id", id.String()),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithJSON(w, http.StatusOK, toPayload("history", history))
}

func (h *TrackerHandler) GetTaskCalendar(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	id, ok := h.parseTaskID(w, r)
	if !ok {
		return
	}

	now := time.Now()
	year := now.Year()
	month := now.Month()

	if yearParam := r.URL.Query().Get("year"); yearParam != "" {
		parsed, err := strconv.Atoi(yearParam)
		if err != nil {
			responseWithError(w, http.StatusBadRequest, "неверное значение year")
			return
		}
		year = parsed
	}
	if monthParam := r.URL.Query().Get("month"); monthParam != "" {
		parsed, err := strconv.Atoi(monthParam)
		if err != nil {
			responseWithError(w, http.StatusBadRequest, "неверное значение month")
			return
		}
		month = time.Month(parsed)
	}

	calendar, err := h.TrackerService.MonthCalendar(r.Context(), id, year, month)
	if err != nil {
		if handleBusinessError(w, err) {
			return
		}
		logger.Error("HTTP: Ошибка Service", err,
			zap.String("operation", "month_calendar"),
			zap.String("client_ip", r.RemoteAddr))

		responseWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	logger.Info("HTTP_OUT: Календарь получен",
		zap.String("task_id", id.String()),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithJSON(w, http.StatusOK,
		toPayload("year", year),
		toPayload("month", int(month)),
		toPayload("days", calendar))
}

func (h *TrackerHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	summary, err := h.TrackerService.Summary(r.Context(), ledger.Today())
	if err != nil {
		logger.Error("HTTP: Ошибка Service", err,
			zap.String("operation", "summary"),
			zap.String("client_ip", r.RemoteAddr))

		responseWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	logger.Info("HTTP_OUT: Сводка получена",
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithJSON(w, http.StatusOK, toPayload("stats", summary))
}

func (h *TrackerHandler) GetHeatmap(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	weeks := 12
	if weeksParam := r.URL.Query().Get("weeks"); weeksParam != "" {
		parsed, err := strconv.Atoi(weeksParam)
		if err != nil {
			logger.Warn("HTTP: Ошибка получения параметра",
				zap.Error(err),
				zap.String("client_ip", r.RemoteAddr))

			responseWithError(w, http.StatusBadRequest, "не удалось получить значение weeks: "+err.Error())
			return
		}
		weeks = parsed
	}

	cells, err := h.TrackerService.Heatmap(r.Context(), ledger.Today(), weeks)
	if err != nil {
		if handleBusinessError(w, err) {
			return
		}
		logger.Error("HTTP: Ошибка Service", err,
			zap.String("operation", "heatmap"),
			zap.String("client_ip", r.RemoteAddr))

		responseWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	logger.Info("HTTP_OUT: Тепловая карта получена",
		zap.Int("weeks", weeks),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithJSON(w, http.StatusOK, toPayload("heatmap", cells))
}

func (h *TrackerHandler) GetNotifications(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP_IN:")

	res := []worker.Notification{}
	if h.Notifications != nil {
		res = h.Notifications.Recent()
	}

	responseWithJSON(w, http.StatusOK, toPayload("notifications", res))
}

func (h *TrackerHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP: Health check")

	if err := h.TrackerService.HealthCheck(r.Context()); err != nil {
		responseWithError(w, http.StatusServiceUnavailable, err.Error())
		return
	}
	responseWithJSON(w, http.StatusOK, toPayload("status", "ok"))
}
