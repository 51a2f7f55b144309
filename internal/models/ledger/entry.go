package ledger

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Entry - зафиксированный исход задачи за один календарный день.
// На пару (TaskID, Day) существует не больше одной записи.
type Entry struct {
	TaskID     uuid.UUID `json:"task_id" db:"task_id"`
	Day        Day       `json:"day" db:"day"`
	Status     Status    `json:"status" db:"status"`
	RecordedAt time.Time `json:"recorded_at" db:"recorded_at"`
}

type Status string

const StatusPending Status = "pending"
const StatusCompleted Status = "completed"
const StatusFailed Status = "failed"

// Recordable проверяет, что статус можно сохранить в журнале.
// pending - это отсутствие записи, а не хранимое значение.
func Recordable(s Status) bool {
	return s == StatusCompleted || s == StatusFailed
}

// Day - ключ календарного дня в формате YYYY-MM-DD по локальному времени.
// Лексикографический порядок строк совпадает с хронологическим.
type Day string

const dayLayout = "2006-01-02"

func DayOf(t time.Time) Day {
	return Day(t.Format(dayLayout))
}

func Today() Day {
	return DayOf(time.Now())
}

func ParseDay(s string) (Day, error) {
	t, err := time.ParseInLocation(dayLayout, s, time.Local)
	if err != nil {
		return "", fmt.Errorf("разбор даты %q: %w", s, err)
	}
	return DayOf(t), nil
}

// Time возвращает локальную полночь этого дня
func (d Day) Time() time.Time {
	t, err := time.ParseInLocation(dayLayout, string(d), time.Local)
	if err != nil {
		return time.Time{}
	}
	return t
}

func (d Day) AddDays(n int) Day {
	return DayOf(d.Time().AddDate(0, 0, n))
}
