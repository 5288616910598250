package report

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/kushalkp88/whatsapp-scheduler/internal/model"
)

// RedisReporter keeps the latest outcome per attempt in Redis so operators
// can inspect recent runs without touching the log files.
type RedisReporter struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisReporter(rdb *redis.Client, ttl time.Duration) *RedisReporter {
	return &RedisReporter{rdb: rdb, ttl: ttl}
}

type outcomeValue struct {
	Recipient  string    `json:"recipient"`
	Status     string    `json:"status"`
	Error      string    `json:"error,omitempty"`
	TargetTime time.Time `json:"targetTime"`
	RecordedAt time.Time `json:"recordedAt"`
}

func (r *RedisReporter) Record(ctx context.Context, att model.Attempt) error {
	key := fmt.Sprintf("attempt:%s", att.ID)
	val := outcomeValue{
		Recipient:  att.Job.Recipient,
		Status:     string(att.Status),
		Error:      att.Error,
		TargetTime: att.Job.TargetTime.UTC(),
		RecordedAt: att.UpdatedAt.UTC(),
	}

	b, err := json.Marshal(val)
	if err != nil {
		return err
	}

	return r.rdb.Set(ctx, key, b, r.ttl).Err()
}
