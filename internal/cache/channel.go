package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"learnhub-backend/internal/models"
)

const channelSnapshotKey = "youtube:channel_snapshot"

// Entry is the cached result of the last channel fetch. A single slot is
// kept; a request for a different channel is treated as a miss.
type Entry struct {
	ChannelID string                `json:"channel_id"`
	Channel   models.YouTubeChannel `json:"channel"`
	Videos    []models.YouTubeVideo `json:"videos"`
	Timestamp time.Time             `json:"timestamp"`
}

// ChannelCache stores the most recent channel fetch so repeated dashboard
// loads don't burn API quota. Stale or mismatched entries are ignored, not
// deleted; they stay until overwritten or explicitly cleared.
type ChannelCache struct {
	store Store
	ttl   time.Duration
	now   func() time.Time
}

func NewChannelCache(store Store, ttl time.Duration) *ChannelCache {
	return &ChannelCache{store: store, ttl: ttl, now: time.Now}
}

// WithClock overrides the time source. Tests use this to simulate expiry.
func (c *ChannelCache) WithClock(now func() time.Time) *ChannelCache {
	c.now = now
	return c
}

// Get returns the cached entry for channelID, or nil when there is no
// entry, the entry belongs to another channel, or it has aged past the TTL.
func (c *ChannelCache) Get(ctx context.Context, channelID string) *Entry {
	raw, err := c.store.Get(ctx, channelSnapshotKey)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			log.Printf("Channel cache read failed: %v", err)
		}
		return nil
	}

	var entry Entry
	if err := json.Unmarshal([]byte(raw), &entry); err != nil {
		log.Printf("Channel cache entry corrupt, ignoring: %v", err)
		return nil
	}

	if entry.ChannelID != channelID {
		return nil
	}
	if c.now().Sub(entry.Timestamp) >= c.ttl {
		return nil
	}

	return &entry
}

// Set overwrites the slot. Failures are logged and swallowed; caching is
// best-effort and must never fail the fetch path.
func (c *ChannelCache) Set(ctx context.Context, channelID string, channel models.YouTubeChannel, videos []models.YouTubeVideo) {
	entry := Entry{
		ChannelID: channelID,
		Channel:   channel,
		Videos:    videos,
		Timestamp: c.now(),
	}

	data, err := json.Marshal(entry)
	if err != nil {
		log.Printf("Channel cache marshal failed: %v", err)
		return
	}

	if err := c.store.Set(ctx, channelSnapshotKey, string(data), 0); err != nil {
		log.Printf("Channel cache write failed: %v", err)
	}
}

func (c *ChannelCache) Clear(ctx context.Context) {
	if err := c.store.Del(ctx, channelSnapshotKey); err != nil {
		log.Printf("Channel cache clear failed: %v", err)
	}
}
