package config

import (
	"errors"
	"os"
	"strings"
	"sync"
	"testing"
	"time"
)

var envMu sync.Mutex

func TestLoadAll_HappyPath_NoRedis(t *testing.T) {
	envMu.Lock()
	defer envMu.Unlock()

	clearTestEnv(t)

	t.Setenv("WEBHOOK_URL", "https://example.com/webhook")

	cfg, err := LoadAll()
	if err != nil {
		t.Fatalf("LoadAll() error: %v", err)
	}

	if cfg.Delivery.WebhookURL != "https://example.com/webhook" {
		t.Fatalf("unexpected WebhookURL: %q", cfg.Delivery.WebhookURL)
	}
	if cfg.Server.Address != ":8080" {
		t.Fatalf("unexpected Server.Address default: %q", cfg.Server.Address)
	}
	if cfg.Delay.Min != 15 || cfg.Delay.Max != 45 {
		t.Fatalf("unexpected delay window defaults: %+v", cfg.Delay)
	}
	if cfg.Report.LogDir != "logs" {
		t.Fatalf("unexpected LogDir default: %q", cfg.Report.LogDir)
	}
	if cfg.Report.SQLitePath != "data/attempts.db" {
		t.Fatalf("unexpected SQLitePath default: %q", cfg.Report.SQLitePath)
	}
	if cfg.Redis.Enabled {
		t.Fatalf("expected Redis disabled when REDIS_ADDR not set")
	}
}

func TestLoadAll_HappyPath_WithRedis(t *testing.T) {
	envMu.Lock()
	defer envMu.Unlock()

	clearTestEnv(t)

	t.Setenv("WEBHOOK_URL", "https://example.com/webhook")

	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("REDIS_PASSWORD", "secret")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("REDIS_TTL_SECONDS", "42")

	cfg, err := LoadAll()
	if err != nil {
		t.Fatalf("LoadAll() error: %v", err)
	}

	if !cfg.Redis.Enabled {
		t.Fatalf("expected Redis enabled")
	}
	if cfg.Redis.Address != "localhost:6379" {
		t.Fatalf("unexpected Redis.Address: %q", cfg.Redis.Address)
	}
	if cfg.Redis.Password != "secret" {
		t.Fatalf("unexpected Redis.Password: %q", cfg.Redis.Password)
	}
	if cfg.Redis.DB != 3 {
		t.Fatalf("unexpected Redis.DB: %d", cfg.Redis.DB)
	}
	if cfg.Redis.TTL != 42*time.Second {
		t.Fatalf("unexpected Redis.TTL: %v", cfg.Redis.TTL)
	}
}

func TestLoadAll_ExecDelivery(t *testing.T) {
	envMu.Lock()
	defer envMu.Unlock()

	clearTestEnv(t)

	t.Setenv("SEND_COMMAND", "node node_whatsapp/send_message.cjs")
	t.Setenv("DELAY_MIN_SECONDS", "0")
	t.Setenv("DELAY_MAX_SECONDS", "5")

	cfg, err := LoadAll()
	if err != nil {
		t.Fatalf("LoadAll() error: %v", err)
	}

	if cfg.Delivery.SendCommand != "node node_whatsapp/send_message.cjs" {
		t.Fatalf("unexpected SendCommand: %q", cfg.Delivery.SendCommand)
	}
	if cfg.Delay.Min != 0 || cfg.Delay.Max != 5 {
		t.Fatalf("unexpected delay window: %+v", cfg.Delay)
	}
}

func TestLoadAll_ValidationFailures(t *testing.T) {
	envMu.Lock()
	defer envMu.Unlock()

	cases := []struct {
		name string
		set  func(t *testing.T)
		want string
	}{
		{
			name: "no delivery target",
			set:  func(t *testing.T) {},
			want: "WEBHOOK_URL or SEND_COMMAND",
		},
		{
			name: "both delivery targets",
			set: func(t *testing.T) {
				t.Setenv("WEBHOOK_URL", "https://example.com/webhook")
				t.Setenv("SEND_COMMAND", "node send.cjs")
			},
			want: "only one of",
		},
		{
			name: "delay max below min",
			set: func(t *testing.T) {
				t.Setenv("WEBHOOK_URL", "https://example.com/webhook")
				t.Setenv("DELAY_MIN_SECONDS", "30")
				t.Setenv("DELAY_MAX_SECONDS", "10")
			},
			want: "DELAY_MIN_SECONDS/DELAY_MAX_SECONDS",
		},
		{
			name: "negative delay min",
			set: func(t *testing.T) {
				t.Setenv("WEBHOOK_URL", "https://example.com/webhook")
				t.Setenv("DELAY_MIN_SECONDS", "-1")
			},
			want: "DELAY_MIN_SECONDS",
		},
		{
			name: "non-integer delay",
			set: func(t *testing.T) {
				t.Setenv("WEBHOOK_URL", "https://example.com/webhook")
				t.Setenv("DELAY_MAX_SECONDS", "soon")
			},
			want: "DELAY_MAX_SECONDS",
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			clearTestEnv(t)
			tc.set(t)

			_, err := LoadAll()
			if err == nil {
				t.Fatalf("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected error mentioning %s, got: %v", tc.want, err)
			}
		})
	}
}

func TestGetEnv(t *testing.T) {
	envMu.Lock()
	defer envMu.Unlock()

	clearTestEnv(t)

	if got := getEnv("NOPE", "default"); got != "default" {
		t.Fatalf("expected default, got %q", got)
	}

	t.Setenv("A", "x")
	if got := getEnv("A", "default"); got != "x" {
		t.Fatalf("expected x, got %q", got)
	}
}

func TestGetEnvInt(t *testing.T) {
	envMu.Lock()
	defer envMu.Unlock()

	clearTestEnv(t)

	got, err := getEnvInt("MISSING", 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 7 {
		t.Fatalf("expected default 7, got %d", got)
	}

	t.Setenv("N", "123")
	got, err = getEnvInt("N", 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 123 {
		t.Fatalf("expected 123, got %d", got)
	}

	t.Setenv("BAD", "abc")
	_, err = getEnvInt("BAD", 7)
	if err == nil {
		t.Fatalf("expected error, got nil")
	}
	if !strings.Contains(err.Error(), "BAD") {
		t.Fatalf("expected error mentioning BAD, got: %v", err)
	}
}

func TestJoinErrors(t *testing.T) {
	if err := joinErrors(nil); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}

	e1 := errors.New("one")
	e2 := errors.New("two")
	err := joinErrors([]error{e1, e2})
	if err == nil {
		t.Fatalf("expected error, got nil")
	}

	if !errors.Is(err, e1) {
		t.Fatalf("expected errors.Is(err, e1) to be true")
	}
	if !errors.Is(err, e2) {
		t.Fatalf("expected errors.Is(err, e2) to be true")
	}
}

func clearTestEnv(t *testing.T) {
	t.Helper()
	keys := []string{
		"WEBHOOK_URL",
		"SEND_COMMAND",
		"DELAY_MIN_SECONDS",
		"DELAY_MAX_SECONDS",
		"LOG_DIR",
		"SQLITE_PATH",
		"SERVER_ADDRESS",
		"REDIS_ADDR",
		"REDIS_PASSWORD",
		"REDIS_DB",
		"REDIS_TTL_SECONDS",
		"A",
		"N",
		"BAD",
	}
	for _, k := range keys {
		_ = os.Unsetenv(k)
	}
}
