// Package batch reads a schedule file into Jobs. Parsing is a pure
// deserialization boundary: no scheduling or delivery happens here.
package batch

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"

	"github.com/kushalkp88/whatsapp-scheduler/internal/model"
)

// Column names required in the schedule header, in any order.
const (
	ColPhone   = "Phone"
	ColMessage = "Message"
	ColImage   = "Image"
	ColTime    = "Scheduled Time"
)

var requiredColumns = []string{ColPhone, ColMessage, ColImage, ColTime}

// MalformedRow records one skipped row: its 1-based line number in the
// source file and the reason it could not become a Job.
type MalformedRow struct {
	Line int
	Err  error
}

// Result holds the loaded batch. Jobs preserves source order; Malformed
// lists rows that were skipped rather than loaded.
type Result struct {
	Jobs      []model.Job
	Malformed []MalformedRow
}

// Load reads the CSV schedule at path. A missing required column is a
// *model.SchemaError and aborts the whole load; a row that fails Job
// construction is collected in Result.Malformed and the load continues.
// Loading the same unchanged file twice yields structurally equal Jobs.
func Load(path string) (*Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open schedule: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read schedule: %w", err)
	}
	if len(records) == 0 {
		return nil, &model.SchemaError{Missing: requiredColumns}
	}

	idx, err := columnIndex(records[0])
	if err != nil {
		return nil, err
	}

	res := &Result{}
	for i, rec := range records[1:] {
		line := i + 2

		job, err := model.NewJob(
			field(rec, idx[ColPhone]),
			field(rec, idx[ColMessage]),
			field(rec, idx[ColImage]),
			field(rec, idx[ColTime]),
		)
		if err != nil {
			slog.Warn("skipping malformed schedule row", "line", line, "error", err)
			res.Malformed = append(res.Malformed, MalformedRow{Line: line, Err: err})
			continue
		}

		if !model.ValidPhone(job.Recipient) {
			// Admission stays permissive; the transport decides addressability.
			slog.Warn("recipient does not look like an international phone number",
				"line", line, "recipient", job.Recipient)
		}

		res.Jobs = append(res.Jobs, job)
	}

	return res, nil
}

func columnIndex(header []string) (map[string]int, error) {
	idx := make(map[string]int, len(header))
	for i, name := range header {
		idx[name] = i
	}

	var missing []string
	for _, name := range requiredColumns {
		if _, ok := idx[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, &model.SchemaError{Missing: missing}
	}
	return idx, nil
}

func field(rec []string, i int) string {
	if i < 0 || i >= len(rec) {
		return ""
	}
	return rec[i]
}
