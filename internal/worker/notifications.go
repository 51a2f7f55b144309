package worker

import "sync"

// Buffer хранит последние сработавшие напоминания для выдачи презентеру
type Buffer struct {
	mtx   sync.Mutex
	items []Notification
	limit int
}

func NewBuffer(limit int) *Buffer {
	if limit <= 0 {
		limit = 50
	}
	return &Buffer{
		items: []Notification{},
		limit: limit,
	}
}

func (b *Buffer) Add(n Notification) {
	b.mtx.Lock()
	defer b.mtx.Unlock()

	b.items = append(b.items, n)
	if len(b.items) > b.limit {
		b.items = b.items[len(b.items)-b.limit:]
	}
}

// Recent возвращает уведомления от новых к старым
func (b *Buffer) Recent() []Notification {
	b.mtx.Lock()
	defer b.mtx.Unlock()

	res := make([]Notification, 0, len(b.items))
	for i := len(b.items) - 1; i >= 0; i-- {
		res = append(res, b.items[i])
	}
	return res
}
