package task

import (
	"time"

	"github.com/google/uuid"
)

type Task struct {
	UUID      uuid.UUID  `json:"uuid" db:"uuid"`
	Title     string     `json:"title" db:"title"`
	Category  Category   `json:"category" db:"category"`
	Reminder  *Reminder  `json:"reminder,omitempty" db:"reminder"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty" db:"updated_at,omitempty"`
}

type Category string
type Meridiem string

const CategoryWork Category = "work"
const CategoryPersonal Category = "personal"
const CategoryHealth Category = "health"
const CategoryLearning Category = "learning"
const CategoryNone Category = "none"

const MeridiemAM Meridiem = "AM"
const MeridiemPM Meridiem = "PM"

// Reminder - ежедневное напоминание по настенным часам.
// Acknowledged сбрасывается при редактировании напоминания и при смене календарного дня.
type Reminder struct {
	Hour         int      `json:"hour" db:"reminder_hour"`
	Minute       int      `json:"minute" db:"reminder_minute"`
	Meridiem     Meridiem `json:"meridiem" db:"reminder_meridiem"`
	Note         string   `json:"note" db:"reminder_note"`
	Acknowledged bool     `json:"acknowledged" db:"reminder_acknowledged"`
}

// Hour24 переводит 12-часовой формат времени в 24-часовой
func (r *Reminder) Hour24() int {
	hour := r.Hour
	if r.Meridiem == MeridiemPM && hour != 12 {
		hour += 12
	}
	if r.Meridiem == MeridiemAM && hour == 12 {
		hour = 0
	}
	return hour
}

// ValidCategory проверяет, что категория из допустимого набора
func ValidCategory(c Category) bool {
	switch c {
	case CategoryWork, CategoryPersonal, CategoryHealth, CategoryLearning, CategoryNone:
		return true
	}
	return false
}
