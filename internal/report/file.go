package report

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/kushalkp88/whatsapp-scheduler/internal/model"
)

// FileReporter appends one pipe-delimited line per record to a per-day log
// file (<dir>/YYYY-MM-DD_log.txt). Appends are mutex-serialized; concurrent
// attempts only contend for the duration of a single write.
type FileReporter struct {
	dir string
	mu  sync.Mutex
}

func NewFileReporter(dir string) (*FileReporter, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	return &FileReporter{dir: dir}, nil
}

func (r *FileReporter) Record(ctx context.Context, att model.Attempt) error {
	line := FormatLine(att)

	r.mu.Lock()
	defer r.mu.Unlock()

	path := filepath.Join(r.dir, time.Now().Format("2006-01-02")+"_log.txt")
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteString(line + "\n"); err != nil {
		return fmt.Errorf("append log line: %w", err)
	}
	return nil
}

// FormatLine renders one record: timestamp, status, recipient, scheduled
// time, message, attachment and, when present, the error detail.
func FormatLine(att model.Attempt) string {
	var b strings.Builder

	b.WriteString(att.UpdatedAt.Format(time.RFC3339))
	b.WriteString(" | STATUS: ")
	b.WriteString(string(att.Status))
	b.WriteString(" | PHONE: ")
	b.WriteString(att.Job.Recipient)
	b.WriteString(" | TIME: ")
	b.WriteString(att.Job.TargetTime.Format(time.RFC3339))
	b.WriteString(" | MESSAGE: ")
	b.WriteString(att.Job.Body)
	b.WriteString(" | IMAGE: ")
	b.WriteString(att.Job.Attachment)
	if att.Error != "" {
		b.WriteString(" | ERROR: ")
		b.WriteString(att.Error)
	}

	return b.String()
}
