package task

type TaskOption func(*Task)

func WithTitle(title string) TaskOption {
	if title == "" {
		return nil
	}
	return func(task *Task) {
		task.Title = title
	}
}

func WithCategory(category Category) TaskOption {
	if !ValidCategory(category) {
		return nil
	}
	return func(task *Task) {
		task.Category = category
	}
}
