package cache

import (
	"context"
	"crypto/md5"
	"encoding/json"
	"fmt"
	"time"
)

// summaryTTL bounds how long a generated narrative stays valid; sales data for
// a past day rarely changes, but crawl runs can shift the picture.
const summaryTTL = 6 * time.Hour

// SummaryCache caches generated AI report summaries so identical report
// payloads do not trigger repeated generative calls. Nil-safe: with no Redis
// every lookup is a miss and every store is a no-op.
type SummaryCache struct {
	redis *RedisClient
}

// NewSummaryCache creates a new summary cache instance
func NewSummaryCache(redis *RedisClient) *SummaryCache {
	return &SummaryCache{redis: redis}
}

// Get retrieves a cached summary for a report payload hash.
func (c *SummaryCache) Get(ctx context.Context, date, storeID, dataHash string) (string, bool) {
	if c == nil || c.redis == nil {
		return "", false
	}

	var summary string
	if err := c.redis.Get(ctx, summaryKey(date, storeID, dataHash), &summary); err != nil {
		return "", false
	}
	return summary, summary != ""
}

// Set caches a generated summary. Errors are the caller's to ignore; a cache
// store failure never blocks serving the report.
func (c *SummaryCache) Set(ctx context.Context, date, storeID, dataHash, summary string) error {
	if c == nil || c.redis == nil {
		return fmt.Errorf("redis client not available")
	}
	return c.redis.Set(ctx, summaryKey(date, storeID, dataHash), summary, summaryTTL)
}

func summaryKey(date, storeID, dataHash string) string {
	return fmt.Sprintf("report:summary:%s:%s:%s", date, storeID, dataHash)
}

// DataHash fingerprints a report payload to detect whether the underlying
// numbers changed since the last summary was generated.
func DataHash(data interface{}) string {
	jsonData, _ := json.Marshal(data)
	hash := md5.Sum(jsonData)
	return fmt.Sprintf("%x", hash[:8])
}
