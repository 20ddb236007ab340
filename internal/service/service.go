// Package service defines the backend-agnostic interface for task operations.
package service

import "context"

// Service defines the interface for task backend operations.
// All remote API task calls go through this interface.
// Commands and views never build HTTP requests directly.
type Service interface {
	// ListTasks returns all tasks in API order.
	ListTasks(ctx context.Context) ([]Task, error)

	// GetTask returns a single task by ID.
	GetTask(ctx context.Context, id int) (Task, error)

	// CreateTask creates a new task and returns it as stored by the API.
	CreateTask(ctx context.Context, in TaskInput) (Task, error)

	// UpdateTask replaces title, description and completed of a task.
	// in.Completed must be set.
	UpdateTask(ctx context.Context, id int, in TaskInput) (Task, error)

	// DeleteTask deletes a task.
	DeleteTask(ctx context.Context, id int) error
}

// Accounts defines account operations that do not need a session.
type Accounts interface {
	// Register creates a new account.
	Register(ctx context.Context, reg Registration) error
}
