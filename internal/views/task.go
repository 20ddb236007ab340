package views

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"taskman/internal/service"
)

// ErrTitleRequired is returned when a task is submitted without a title.
var ErrTitleRequired = errors.New("title required")

// TaskDetail shows a single task.
type TaskDetail struct {
	*Scope
	svc  service.Service
	task *service.Task
}

// NewTaskDetail creates a task detail view.
func NewTaskDetail(ctx context.Context, svc service.Service) *TaskDetail {
	return &TaskDetail{Scope: NewScope(ctx), svc: svc}
}

// Load fetches the task.
func (v *TaskDetail) Load(id int) (service.Task, error) {
	task, err := v.svc.GetTask(v.Context(), id)
	if err != nil {
		if v.Closed() {
			return service.Task{}, ErrViewClosed
		}
		return service.Task{}, err
	}
	if err := v.apply(func() { v.task = &task }); err != nil {
		return service.Task{}, err
	}
	return task, nil
}

// Task returns the loaded task.
func (v *TaskDetail) Task() (service.Task, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.task == nil {
		return service.Task{}, false
	}
	return *v.task, true
}

// TaskForm creates new tasks.
type TaskForm struct {
	*Scope
	svc service.Service
}

// NewTaskForm creates a new-task form view.
func NewTaskForm(ctx context.Context, svc service.Service) *TaskForm {
	return &TaskForm{Scope: NewScope(ctx), svc: svc}
}

// Submit creates a task with the given title and description.
func (v *TaskForm) Submit(title, description string) (service.Task, error) {
	if strings.TrimSpace(title) == "" {
		return service.Task{}, ErrTitleRequired
	}
	task, err := v.svc.CreateTask(v.Context(), service.TaskInput{Title: title, Description: description})
	if err != nil {
		if v.Closed() {
			return service.Task{}, ErrViewClosed
		}
		return service.Task{}, err
	}
	if v.Closed() {
		return service.Task{}, ErrViewClosed
	}
	return task, nil
}

// TaskChanges lists the fields an edit changes. Nil fields keep their value.
type TaskChanges struct {
	Title       *string
	Description *string
	Completed   *bool
}

// Empty reports whether no field is changed.
func (c TaskChanges) Empty() bool {
	return c.Title == nil && c.Description == nil && c.Completed == nil
}

// TaskEdit loads a task and saves changes to it.
type TaskEdit struct {
	*Scope
	svc  service.Service
	task *service.Task
}

// NewTaskEdit creates a task edit view.
func NewTaskEdit(ctx context.Context, svc service.Service) *TaskEdit {
	return &TaskEdit{Scope: NewScope(ctx), svc: svc}
}

// Load fetches the task being edited.
func (v *TaskEdit) Load(id int) (service.Task, error) {
	task, err := v.svc.GetTask(v.Context(), id)
	if err != nil {
		if v.Closed() {
			return service.Task{}, ErrViewClosed
		}
		return service.Task{}, err
	}
	if err := v.apply(func() { v.task = &task }); err != nil {
		return service.Task{}, err
	}
	return task, nil
}

// Save applies changes on top of the loaded task and submits all three
// fields. Load must have succeeded first.
func (v *TaskEdit) Save(changes TaskChanges) (service.Task, error) {
	v.mu.Lock()
	if v.task == nil {
		v.mu.Unlock()
		return service.Task{}, fmt.Errorf("%w: task not loaded", service.ErrSubmit)
	}
	current := *v.task
	v.mu.Unlock()

	if changes.Title != nil {
		current.Title = *changes.Title
	}
	if changes.Description != nil {
		current.Description = *changes.Description
	}
	if changes.Completed != nil {
		current.Completed = *changes.Completed
	}
	if strings.TrimSpace(current.Title) == "" {
		return service.Task{}, ErrTitleRequired
	}

	completed := current.Completed
	updated, err := v.svc.UpdateTask(v.Context(), current.ID, service.TaskInput{
		Title:       current.Title,
		Description: current.Description,
		Completed:   &completed,
	})
	if err != nil {
		if v.Closed() {
			return service.Task{}, ErrViewClosed
		}
		return service.Task{}, err
	}
	if err := v.apply(func() { v.task = &updated }); err != nil {
		return service.Task{}, err
	}
	return updated, nil
}
