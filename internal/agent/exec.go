package agent

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// ExecAgent delivers by running an external command (for example a Node
// script driving a WhatsApp session). The recipient, body and, when present,
// attachment are appended to the configured argv. Exit 0 is success; any
// other exit is a failure carrying the command's stderr.
type ExecAgent struct {
	name    string
	args    []string
	timeout time.Duration
}

func NewExecAgent(name string, args ...string) *ExecAgent {
	return &ExecAgent{
		name:    name,
		args:    args,
		timeout: 2 * time.Minute,
	}
}

func (a *ExecAgent) Deliver(ctx context.Context, recipient, body, attachment string) (Ack, error) {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	argv := append(append([]string{}, a.args...), recipient, body)
	if attachment != "" {
		argv = append(argv, attachment)
	}

	cmd := exec.CommandContext(ctx, a.name, argv...)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		detail := strings.TrimSpace(stderr.String())
		if detail == "" {
			detail = err.Error()
		}
		return Ack{}, fmt.Errorf("send command failed: %s", detail)
	}

	return Ack{}, nil
}
