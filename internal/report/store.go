package report

import (
	"context"

	"github.com/kushalkp88/whatsapp-scheduler/internal/model"
	"github.com/kushalkp88/whatsapp-scheduler/internal/repo"
)

// StoreReporter persists records through an AttemptRepository so outcomes
// survive the process and can be listed later.
type StoreReporter struct {
	repo repo.AttemptRepository
}

func NewStoreReporter(r repo.AttemptRepository) *StoreReporter {
	return &StoreReporter{repo: r}
}

func (s *StoreReporter) Record(ctx context.Context, att model.Attempt) error {
	return s.repo.Insert(ctx, att)
}
