// Package report records attempt outcomes. Reporting is best-effort: a
// failed write never blocks or aborts scheduling.
package report

import (
	"context"
	"errors"

	"github.com/kushalkp88/whatsapp-scheduler/internal/model"
)

// Reporter persists one record per attempt status of interest (admission
// skips and terminal sent/failed at minimum). Implementations must be safe
// for concurrent use.
type Reporter interface {
	Record(ctx context.Context, att model.Attempt) error
}

// Multi fans a record out to every reporter, joining their errors. One
// sink failing does not keep the others from recording.
type Multi []Reporter

func (m Multi) Record(ctx context.Context, att model.Attempt) error {
	var errs []error
	for _, r := range m {
		if err := r.Record(ctx, att); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
