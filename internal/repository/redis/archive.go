package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Rrens/ai-debate/internal/domain"
	"github.com/redis/go-redis/v9"
)

const (
	archivePrefix     = "ai-debate:record:"
	archiveIndexKey   = "ai-debate:records"
	defaultArchiveTTL = 24 * time.Hour
)

// Archive keeps finished debates in Redis for a limited time. A sorted set
// scored by finish time indexes the records for Recent.
type Archive struct {
	client *Client
	ttl    time.Duration
}

// NewArchive creates a new debate archive
func NewArchive(client *Client, ttl time.Duration) *Archive {
	if ttl <= 0 {
		ttl = defaultArchiveTTL
	}
	return &Archive{client: client, ttl: ttl}
}

// Save stores a finished debate
func (a *Archive) Save(ctx context.Context, record *domain.DebateRecord) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal debate record: %w", err)
	}

	score := float64(record.FinishedAt.UnixMilli())
	expired := fmt.Sprintf("(%d", time.Now().Add(-a.ttl).UnixMilli())

	pipe := a.client.rdb.TxPipeline()
	pipe.Set(ctx, archivePrefix+record.SessionID, data, a.ttl)
	pipe.ZAdd(ctx, archiveIndexKey, redis.Z{Score: score, Member: record.SessionID})
	pipe.ZRemRangeByScore(ctx, archiveIndexKey, "-inf", expired)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save debate record: %w", err)
	}
	return nil
}

// Get retrieves a finished debate
func (a *Archive) Get(ctx context.Context, sessionID string) (*domain.DebateRecord, error) {
	data, err := a.client.rdb.Get(ctx, archivePrefix+sessionID).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get debate record: %w", err)
	}

	var record domain.DebateRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("failed to unmarshal debate record: %w", err)
	}
	return &record, nil
}

// Recent returns the latest finished debates, newest first. Index entries
// whose record already expired are skipped.
func (a *Archive) Recent(ctx context.Context, limit int) ([]*domain.DebateRecord, error) {
	records := []*domain.DebateRecord{}
	if limit <= 0 {
		return records, nil
	}

	ids, err := a.client.rdb.ZRevRange(ctx, archiveIndexKey, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list debate records: %w", err)
	}
	if len(ids) == 0 {
		return records, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = archivePrefix + id
	}
	values, err := a.client.rdb.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to load debate records: %w", err)
	}

	for _, v := range values {
		data, ok := v.(string)
		if !ok {
			continue
		}
		var record domain.DebateRecord
		if err := json.Unmarshal([]byte(data), &record); err != nil {
			return nil, fmt.Errorf("failed to unmarshal debate record: %w", err)
		}
		records = append(records, &record)
	}
	return records, nil
}
