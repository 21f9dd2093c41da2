package cache

import (
	"context"
	"testing"
	"time"

	"learnhub-backend/internal/models"
)

func testChannel() models.YouTubeChannel {
	return models.YouTubeChannel{
		ID:    "UC123",
		Title: "Test Channel",
	}
}

func testVideos() []models.YouTubeVideo {
	return []models.YouTubeVideo{
		{ID: "vid1", Title: "First", ViewCount: 100},
		{ID: "vid2", Title: "Second", ViewCount: 200},
	}
}

func TestChannelCache_RoundTrip(t *testing.T) {
	ctx := context.Background()
	c := NewChannelCache(NewMemoryStore(), 24*time.Hour)

	c.Set(ctx, "UC123", testChannel(), testVideos())

	entry := c.Get(ctx, "UC123")
	if entry == nil {
		t.Fatal("Expected cache hit, got nil")
	}
	if entry.Channel.Title != "Test Channel" {
		t.Errorf("Expected channel title 'Test Channel', got %q", entry.Channel.Title)
	}
	if len(entry.Videos) != 2 {
		t.Fatalf("Expected 2 videos, got %d", len(entry.Videos))
	}
	if entry.Videos[0].ID != "vid1" || entry.Videos[1].ID != "vid2" {
		t.Errorf("Video order not preserved: %v, %v", entry.Videos[0].ID, entry.Videos[1].ID)
	}
}

func TestChannelCache_ChannelMismatch(t *testing.T) {
	ctx := context.Background()
	c := NewChannelCache(NewMemoryStore(), 24*time.Hour)

	c.Set(ctx, "UC123", testChannel(), testVideos())

	if entry := c.Get(ctx, "UCother"); entry != nil {
		t.Errorf("Expected miss for different channel, got entry for %q", entry.ChannelID)
	}
}

func TestChannelCache_Expiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }

	c := NewChannelCache(NewMemoryStore(), 24*time.Hour).WithClock(clock)
	c.Set(ctx, "UC123", testChannel(), testVideos())

	// Just inside the TTL window
	now = now.Add(24*time.Hour - time.Minute)
	if c.Get(ctx, "UC123") == nil {
		t.Error("Expected hit just before TTL expiry")
	}

	// Past the TTL window
	now = now.Add(2 * time.Minute)
	if c.Get(ctx, "UC123") != nil {
		t.Error("Expected miss after TTL expiry")
	}
}

func TestChannelCache_EmptyAndCleared(t *testing.T) {
	ctx := context.Background()
	c := NewChannelCache(NewMemoryStore(), 24*time.Hour)

	if c.Get(ctx, "UC123") != nil {
		t.Error("Expected miss on empty cache")
	}

	c.Set(ctx, "UC123", testChannel(), testVideos())
	c.Clear(ctx)

	if c.Get(ctx, "UC123") != nil {
		t.Error("Expected miss after Clear")
	}
}

func TestChannelCache_OverwriteReplacesSlot(t *testing.T) {
	ctx := context.Background()
	c := NewChannelCache(NewMemoryStore(), 24*time.Hour)

	c.Set(ctx, "UC123", testChannel(), testVideos())
	c.Set(ctx, "UC456", models.YouTubeChannel{ID: "UC456", Title: "Other"}, nil)

	if c.Get(ctx, "UC123") != nil {
		t.Error("Expected old channel to be evicted by overwrite")
	}
	entry := c.Get(ctx, "UC456")
	if entry == nil || entry.Channel.Title != "Other" {
		t.Error("Expected new channel entry after overwrite")
	}
}
