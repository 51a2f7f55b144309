// Package stats считает производные представления трекера: дневную сводку,
// серию дней, тепловую карту активности и календарь месяца. Все функции чистые,
// работают по срезам состояния и ничего не сохраняют.
package stats

import (
	"math"
	"time"

	"dailyTracker/internal/models/ledger"
	"dailyTracker/internal/models/task"

	"github.com/google/uuid"
)

// защита от бесконечного прохода назад по дням
const maxStreakDays = 1000

type Summary struct {
	CompletedToday int `json:"completed_today"`
	TotalTasks     int `json:"total_tasks"`
	Streak         int `json:"streak"`
	DaysTracked    int `json:"days_tracked"`
}

type HeatmapCell struct {
	Day       ledger.Day `json:"day"`
	Completed int        `json:"completed"`
	Level     int        `json:"level"`
}

type CalendarDay struct {
	Day    int           `json:"day"`
	Status ledger.Status `json:"status"`
}

type TaskHistory struct {
	Entries   []*ledger.Entry `json:"entries"`
	Completed int             `json:"completed"`
	Failed    int             `json:"failed"`
	Rate      int             `json:"rate"`
}

type statusIndex map[uuid.UUID]map[ledger.Day]ledger.Status

func indexEntries(entries []*ledger.Entry) statusIndex {
	index := make(statusIndex)
	for _, e := range entries {
		byDay, ok := index[e.TaskID]
		if !ok {
			byDay = make(map[ledger.Day]ledger.Status)
			index[e.TaskID] = byDay
		}
		byDay[e.Day] = e.Status
	}
	return index
}

func (idx statusIndex) statusOn(taskID uuid.UUID, day ledger.Day) ledger.Status {
	if status, ok := idx[taskID][day]; ok {
		return status
	}
	return ledger.StatusPending
}

// TodayCompletion возвращает (выполнено сегодня, всего задач)
func TodayCompletion(tasks []*task.Task, entries []*ledger.Entry, today ledger.Day) (int, int) {
	index := indexEntries(entries)

	completed := 0
	for _, t := range tasks {
		if index.statusOn(t.UUID, today) == ledger.StatusCompleted {
			completed++
		}
	}
	return completed, len(tasks)
}

// CurrentStreak - число подряд идущих дней, заканчивая сегодняшним,
// когда каждая задача из текущего набора была выполнена. Серия считается
// по текущему набору задач: добавление или удаление задачи меняет её задним числом.
func CurrentStreak(tasks []*task.Task, entries []*ledger.Entry, today ledger.Day) int {
	if len(tasks) == 0 {
		return 0
	}

	index := indexEntries(entries)

	streak := 0
	day := today
	for streak < maxStreakDays {
		allCompleted := true
		for _, t := range tasks {
			if index.statusOn(t.UUID, day) != ledger.StatusCompleted {
				allCompleted = false
				break
			}
		}
		if !allCompleted {
			break
		}

		streak++
		day = day.AddDays(-1)
	}
	return streak
}

// SuccessRate - процент выполненных записей, округлённый до целого.
// Без записей возвращает 0.
func SuccessRate(entries []*ledger.Entry) int {
	if len(entries) == 0 {
		return 0
	}

	completed := 0
	for _, e := range entries {
		if e.Status == ledger.StatusCompleted {
			completed++
		}
	}
	return int(math.Round(100 * float64(completed) / float64(len(entries))))
}

// DaysTracked - число различных дней, встречающихся в журнале
func DaysTracked(entries []*ledger.Entry) int {
	days := make(map[ledger.Day]struct{})
	for _, e := range entries {
		days[e.Day] = struct{}{}
	}
	return len(days)
}

// History собирает сводку журнала одной задачи
func History(entries []*ledger.Entry) TaskHistory {
	h := TaskHistory{Entries: entries}
	for _, e := range entries {
		switch e.Status {
		case ledger.StatusCompleted:
			h.Completed++
		case ledger.StatusFailed:
			h.Failed++
		}
	}
	h.Rate = SuccessRate(entries)
	return h
}

// Heatmap строит скользящее окно weeks*7 дней, заканчивая сегодняшним.
// Уровень ячейки - квартильная корзина числа выполнений относительно
// максимума в окне: 0 при нуле, иначе наименьший L из 1..4, при котором
// count/max <= 0.25*L.
func Heatmap(entries []*ledger.Entry, today ledger.Day, weeks int) []HeatmapCell {
	windowDays := weeks * 7
	if windowDays <= 0 {
		return []HeatmapCell{}
	}

	counts := make(map[ledger.Day]int)
	for _, e := range entries {
		if e.Status == ledger.StatusCompleted {
			counts[e.Day]++
		}
	}

	cells := make([]HeatmapCell, 0, windowDays)
	max := 0
	day := today.AddDays(-(windowDays - 1))
	for i := 0; i < windowDays; i++ {
		count := counts[day]
		if count > max {
			max = count
		}
		cells = append(cells, HeatmapCell{Day: day, Completed: count})
		day = day.AddDays(1)
	}

	for i := range cells {
		cells[i].Level = heatLevel(cells[i].Completed, max)
	}
	return cells
}

func heatLevel(count, max int) int {
	if count == 0 || max == 0 {
		return 0
	}
	ratio := float64(count) / float64(max)
	for level := 1; level <= 4; level++ {
		if ratio <= 0.25*float64(level) {
			return level
		}
	}
	return 4
}

// MonthCalendar - статус каждого дня месяца для журнала одной задачи
func MonthCalendar(entries []*ledger.Entry, year int, month time.Month) []CalendarDay {
	byDay := make(map[ledger.Day]ledger.Status)
	for _, e := range entries {
		byDay[e.Day] = e.Status
	}

	// нулевой день следующего месяца - последний день текущего
	totalDays := time.Date(year, month+1, 0, 0, 0, 0, 0, time.Local).Day()

	res := make([]CalendarDay, 0, totalDays)
	for dayNum := 1; dayNum <= totalDays; dayNum++ {
		key := ledger.DayOf(time.Date(year, month, dayNum, 0, 0, 0, 0, time.Local))
		status, ok := byDay[key]
		if !ok {
			status = ledger.StatusPending
		}
		res = append(res, CalendarDay{Day: dayNum, Status: status})
	}
	return res
}
