package model

import (
	"strings"
	"time"
)

// DefaultBody is substituted when a job's message body is blank.
const DefaultBody = "hi"

// Status tracks one attempt through its lifecycle. Terminal states are
// sent, failed and skipped; there is no transition out of them.
type Status string

const (
	Scheduled Status = "scheduled"
	Waiting   Status = "waiting"
	Sent      Status = "sent"
	Failed    Status = "failed"
	Skipped   Status = "skipped"
)

// Job describes one outbound notification. Immutable after construction;
// Attachment == "" means no attachment.
type Job struct {
	Recipient  string
	Body       string
	Attachment string
	TargetTime time.Time
}

// timeLayouts are tried in order when parsing a target time.
var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"02/01/2006 15:04:05",
	"02/01/2006 15:04",
}

// NewJob builds a Job from raw field values. The attachment is normalized
// (blank, whitespace-only and "nan" values become absent), a blank body is
// replaced with DefaultBody, and the target time must parse with one of the
// supported layouts. Recipient must be present but is not checked against
// ValidPhone here; callers wanting strict admission use the predicate.
func NewJob(recipient, body, attachment, targetTime string) (Job, error) {
	recipient = strings.TrimSpace(recipient)
	if recipient == "" {
		return Job{}, &MalformedJobError{Field: "recipient", Value: recipient, Reason: "must not be empty"}
	}

	body = strings.TrimSpace(body)
	if body == "" {
		body = DefaultBody
	}

	ts, err := ParseTargetTime(targetTime)
	if err != nil {
		return Job{}, err
	}

	return Job{
		Recipient:  recipient,
		Body:       body,
		Attachment: NormalizeAttachment(attachment),
		TargetTime: ts,
	}, nil
}

// ParseTargetTime parses a raw target time string in the local timezone.
func ParseTargetTime(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, &MalformedJobError{Field: "target_time", Value: raw, Reason: "must not be empty"}
	}
	for _, layout := range timeLayouts {
		if ts, err := time.ParseInLocation(layout, raw, time.Local); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, &MalformedJobError{Field: "target_time", Value: raw, Reason: "unrecognized time format"}
}

// NormalizeAttachment maps blank, whitespace-only and "nan"-equivalent
// values (the usual spreadsheet empty-cell sentinels) to "".
func NormalizeAttachment(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" || strings.EqualFold(trimmed, "nan") {
		return ""
	}
	return trimmed
}

// ValidPhone reports whether s looks like an international phone number:
// a leading "+" followed by digits only, 9 to 15 characters in total.
func ValidPhone(s string) bool {
	if len(s) < 9 || len(s) > 15 {
		return false
	}
	if s[0] != '+' {
		return false
	}
	for _, r := range s[1:] {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
