package views

import (
	"context"

	"taskman/internal/service"
)

// TaskList is the list of the user's tasks.
type TaskList struct {
	*Scope
	svc   service.Service
	tasks []service.Task
}

// NewTaskList creates a task list view.
func NewTaskList(ctx context.Context, svc service.Service) *TaskList {
	return &TaskList{Scope: NewScope(ctx), svc: svc}
}

// Load fetches the tasks, replacing the view's list.
func (v *TaskList) Load() error {
	tasks, err := v.svc.ListTasks(v.Context())
	if err != nil {
		if v.Closed() {
			return ErrViewClosed
		}
		return err
	}
	return v.apply(func() { v.tasks = tasks })
}

// Tasks returns a copy of the list.
func (v *TaskList) Tasks() []service.Task {
	v.mu.Lock()
	defer v.mu.Unlock()
	out := make([]service.Task, len(v.tasks))
	copy(out, v.tasks)
	return out
}

// Find returns the task with id from the loaded list.
func (v *TaskList) Find(id int) (service.Task, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	for _, t := range v.tasks {
		if t.ID == id {
			return t, true
		}
	}
	return service.Task{}, false
}

// Delete deletes a task through the API and, on success, drops it from the
// list. On failure the list is unchanged.
func (v *TaskList) Delete(id int) error {
	if err := v.svc.DeleteTask(v.Context(), id); err != nil {
		if v.Closed() {
			return ErrViewClosed
		}
		return err
	}
	return v.apply(func() {
		kept := v.tasks[:0:0]
		for _, t := range v.tasks {
			if t.ID != id {
				kept = append(kept, t)
			}
		}
		v.tasks = kept
	})
}
