package report

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/kushalkp88/whatsapp-scheduler/internal/model"
)

func TestRedisReporter_Record_Success(t *testing.T) {
	t.Parallel()

	mr := miniredis.RunT(t)
	defer mr.Close()

	rdb := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})

	r := NewRedisReporter(rdb, 10*time.Second)

	att := testAttempt(model.Failed, "gateway timeout")
	if err := r.Record(context.Background(), att); err != nil {
		t.Fatalf("Record() error: %v", err)
	}

	key := "attempt:att-1"
	if !mr.Exists(key) {
		t.Fatalf("expected key %q to exist", key)
	}
	if ttl := mr.TTL(key); ttl <= 0 {
		t.Fatalf("expected TTL to be set, got %v", ttl)
	}

	raw, err := mr.Get(key)
	if err != nil {
		t.Fatalf("failed to get key %q: %v", key, err)
	}

	var got outcomeValue
	if err := json.Unmarshal([]byte(raw), &got); err != nil {
		t.Fatalf("failed to unmarshal value: %v", err)
	}
	if got.Status != string(model.Failed) {
		t.Fatalf("expected status %q, got %q", model.Failed, got.Status)
	}
	if got.Error != "gateway timeout" {
		t.Fatalf("expected error detail, got %q", got.Error)
	}
	if got.Recipient != "+361234567" {
		t.Fatalf("expected recipient, got %q", got.Recipient)
	}
}

func TestRedisReporter_Record_OverwritesWithLatestStatus(t *testing.T) {
	t.Parallel()

	mr := miniredis.RunT(t)
	defer mr.Close()

	rdb := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})

	r := NewRedisReporter(rdb, time.Minute)
	ctx := context.Background()

	if err := r.Record(ctx, testAttempt(model.Waiting, "")); err != nil {
		t.Fatalf("first Record() error: %v", err)
	}
	if err := r.Record(ctx, testAttempt(model.Sent, "")); err != nil {
		t.Fatalf("second Record() error: %v", err)
	}

	raw, err := mr.Get("attempt:att-1")
	if err != nil {
		t.Fatalf("failed to get key: %v", err)
	}

	var got outcomeValue
	if err := json.Unmarshal([]byte(raw), &got); err != nil {
		t.Fatalf("failed to unmarshal value: %v", err)
	}
	if got.Status != string(model.Sent) {
		t.Fatalf("expected latest status %q, got %q", model.Sent, got.Status)
	}
}

func TestRedisReporter_Record_ContextCanceled(t *testing.T) {
	t.Parallel()

	mr := miniredis.RunT(t)
	defer mr.Close()

	rdb := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})

	r := NewRedisReporter(rdb, time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := r.Record(ctx, testAttempt(model.Sent, "")); err == nil {
		t.Fatalf("expected error due to canceled context, got nil")
	}
}
