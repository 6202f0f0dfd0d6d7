// package services defines interface TaskService for the remote task CRUD API
package services

import (
	"context"

	"github.com/desertthunder/taskly/internal/models"
)

// TaskService is the narrow boundary to the remote task service.
//
// Each method is a single request/response round trip. Any failure is reported as an error;
// callers treat it as opaque beyond "it failed" (see [NetworkError] for the available detail).
type TaskService interface {
	// FetchAll returns every task in server order.
	FetchAll(ctx context.Context) ([]models.Task, error)

	// Create stores a new, uncompleted task and returns its assigned ID.
	Create(ctx context.Context, text string) (models.TaskID, error)

	// UpdateText replaces the text of the task with the given ID.
	UpdateText(ctx context.Context, id models.TaskID, text string) error

	// Delete removes the task with the given ID.
	Delete(ctx context.Context, id models.TaskID) error
}
