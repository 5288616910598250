package repo

import (
	"context"

	"github.com/kushalkp88/whatsapp-scheduler/internal/model"
)

// AttemptRepository stores attempt outcome records for later inspection.
type AttemptRepository interface {
	Insert(ctx context.Context, att model.Attempt) error
	List(ctx context.Context, status model.Status, limit, offset int) ([]model.Attempt, error)
	Close() error
}
