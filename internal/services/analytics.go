package services

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"learnhub-backend/internal/models"
)

var isoDurationRegex = regexp.MustCompile(`PT(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?`)

// FormatDuration converts an ISO-8601 duration ("PT1H2M3S") to "H:MM:SS",
// or "M:SS" when there is no hour component. Missing components are zero.
func FormatDuration(isoDuration string) string {
	match := isoDurationRegex.FindStringSubmatch(isoDuration)
	if match == nil {
		return "0:00"
	}

	hours := atoiOrZero(match[1])
	minutes := atoiOrZero(match[2])
	seconds := atoiOrZero(match[3])

	if hours > 0 {
		return fmt.Sprintf("%d:%02d:%02d", hours, minutes, seconds)
	}
	return fmt.Sprintf("%d:%02d", minutes, seconds)
}

// DurationToSeconds decodes a formatted duration ("H:MM:SS" or "M:SS")
// back into seconds for sorting and aggregation.
func DurationToSeconds(duration string) int {
	parts := strings.Split(duration, ":")
	switch len(parts) {
	case 3:
		return atoiOrZero(parts[0])*3600 + atoiOrZero(parts[1])*60 + atoiOrZero(parts[2])
	case 2:
		return atoiOrZero(parts[0])*60 + atoiOrZero(parts[1])
	default:
		return atoiOrZero(parts[0])
	}
}

// FormatViewCount renders a count as "1.2M" / "3.4K" / "999".
func FormatViewCount(count int64) string {
	if count >= 1000000 {
		return fmt.Sprintf("%.1fM", float64(count)/1000000)
	}
	if count >= 1000 {
		return fmt.Sprintf("%.1fK", float64(count)/1000)
	}
	return strconv.FormatInt(count, 10)
}

// TimeAgo renders the elapsed time since t as a coarse human label,
// "3 months ago" style. Future or just-now timestamps come back as
// "just now".
func TimeAgo(t, now time.Time) string {
	elapsed := now.Sub(t)
	if elapsed < time.Minute {
		return "just now"
	}

	steps := []struct {
		unit time.Duration
		name string
	}{
		{365 * 24 * time.Hour, "year"},
		{30 * 24 * time.Hour, "month"},
		{7 * 24 * time.Hour, "week"},
		{24 * time.Hour, "day"},
		{time.Hour, "hour"},
		{time.Minute, "minute"},
	}

	for _, step := range steps {
		if elapsed >= step.unit {
			n := int(elapsed / step.unit)
			if n == 1 {
				return fmt.Sprintf("1 %s ago", step.name)
			}
			return fmt.Sprintf("%d %ss ago", n, step.name)
		}
	}
	return "just now"
}

func atoiOrZero(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}

// SortOption names a sort key and direction for a video list.
type SortOption string

const (
	SortDateDesc     SortOption = "date-desc"
	SortDateAsc      SortOption = "date-asc"
	SortViewsDesc    SortOption = "views-desc"
	SortViewsAsc     SortOption = "views-asc"
	SortLikesDesc    SortOption = "likes-desc"
	SortLikesAsc     SortOption = "likes-asc"
	SortCommentsDesc SortOption = "comments-desc"
	SortCommentsAsc  SortOption = "comments-asc"
	SortDurationDesc SortOption = "duration-desc"
	SortDurationAsc  SortOption = "duration-asc"
	SortTitleAsc     SortOption = "title-asc"
	SortTitleDesc    SortOption = "title-desc"
)

// SortVideos returns a sorted copy of videos. The sort is stable and the
// input slice is not modified. Duration compares by decoded seconds, not
// by the display string. Unknown sort keys return the copy unchanged.
func SortVideos(videos []models.YouTubeVideo, sortBy SortOption) []models.YouTubeVideo {
	sorted := make([]models.YouTubeVideo, len(videos))
	copy(sorted, videos)

	var less func(a, b models.YouTubeVideo) bool

	switch sortBy {
	case SortDateDesc:
		less = func(a, b models.YouTubeVideo) bool { return a.PublishedAt.After(b.PublishedAt) }
	case SortDateAsc:
		less = func(a, b models.YouTubeVideo) bool { return a.PublishedAt.Before(b.PublishedAt) }
	case SortViewsDesc:
		less = func(a, b models.YouTubeVideo) bool { return a.ViewCount > b.ViewCount }
	case SortViewsAsc:
		less = func(a, b models.YouTubeVideo) bool { return a.ViewCount < b.ViewCount }
	case SortLikesDesc:
		less = func(a, b models.YouTubeVideo) bool { return a.LikeCount > b.LikeCount }
	case SortLikesAsc:
		less = func(a, b models.YouTubeVideo) bool { return a.LikeCount < b.LikeCount }
	case SortCommentsDesc:
		less = func(a, b models.YouTubeVideo) bool { return a.CommentCount > b.CommentCount }
	case SortCommentsAsc:
		less = func(a, b models.YouTubeVideo) bool { return a.CommentCount < b.CommentCount }
	case SortDurationDesc:
		less = func(a, b models.YouTubeVideo) bool { return DurationToSeconds(a.Duration) > DurationToSeconds(b.Duration) }
	case SortDurationAsc:
		less = func(a, b models.YouTubeVideo) bool { return DurationToSeconds(a.Duration) < DurationToSeconds(b.Duration) }
	case SortTitleAsc:
		less = func(a, b models.YouTubeVideo) bool { return strings.ToLower(a.Title) < strings.ToLower(b.Title) }
	case SortTitleDesc:
		less = func(a, b models.YouTubeVideo) bool { return strings.ToLower(a.Title) > strings.ToLower(b.Title) }
	default:
		return sorted
	}

	sort.SliceStable(sorted, func(i, j int) bool { return less(sorted[i], sorted[j]) })
	return sorted
}

// VideoFilters are conjunctive: a video must satisfy every set field.
// Nil fields impose no constraint. Bounds are inclusive.
type VideoFilters struct {
	SearchQuery        string
	MinViews           *int64
	MaxViews           *int64
	MinDurationSeconds *int
	MaxDurationSeconds *int
	PublishedAfter     *time.Time
	PublishedBefore    *time.Time
}

// FilterVideos returns the videos matching all active filters, in their
// original order. Free-text search matches title, description or any tag,
// case-insensitively.
func FilterVideos(videos []models.YouTubeVideo, filters VideoFilters) []models.YouTubeVideo {
	result := make([]models.YouTubeVideo, 0, len(videos))

	query := strings.ToLower(filters.SearchQuery)

	for _, video := range videos {
		if query != "" && !matchesQuery(video, query) {
			continue
		}
		if filters.MinViews != nil && video.ViewCount < *filters.MinViews {
			continue
		}
		if filters.MaxViews != nil && video.ViewCount > *filters.MaxViews {
			continue
		}
		if filters.MinDurationSeconds != nil || filters.MaxDurationSeconds != nil {
			seconds := DurationToSeconds(video.Duration)
			if filters.MinDurationSeconds != nil && seconds < *filters.MinDurationSeconds {
				continue
			}
			if filters.MaxDurationSeconds != nil && seconds > *filters.MaxDurationSeconds {
				continue
			}
		}
		if filters.PublishedAfter != nil && video.PublishedAt.Before(*filters.PublishedAfter) {
			continue
		}
		if filters.PublishedBefore != nil && video.PublishedAt.After(*filters.PublishedBefore) {
			continue
		}

		result = append(result, video)
	}

	return result
}

func matchesQuery(video models.YouTubeVideo, query string) bool {
	if strings.Contains(strings.ToLower(video.Title), query) {
		return true
	}
	if strings.Contains(strings.ToLower(video.Description), query) {
		return true
	}
	for _, tag := range video.Tags {
		if strings.Contains(strings.ToLower(tag), query) {
			return true
		}
	}
	return false
}

// CalculateVideoStats reduces a video list to totals and rounded averages.
// TopVideo is the first video achieving the maximum view count; it is nil
// for empty input.
func CalculateVideoStats(videos []models.YouTubeVideo) models.VideoStats {
	if len(videos) == 0 {
		return models.VideoStats{}
	}

	var stats models.VideoStats
	stats.TotalVideos = len(videos)

	top := 0
	for i, v := range videos {
		stats.TotalViews += v.ViewCount
		stats.TotalLikes += v.LikeCount
		stats.TotalComments += v.CommentCount
		if v.ViewCount > videos[top].ViewCount {
			top = i
		}
	}

	n := int64(len(videos))
	stats.AvgViews = roundedDiv(stats.TotalViews, n)
	stats.AvgLikes = roundedDiv(stats.TotalLikes, n)
	stats.AvgComments = roundedDiv(stats.TotalComments, n)

	topVideo := videos[top]
	stats.TopVideo = &topVideo

	return stats
}

func roundedDiv(total, n int64) int64 {
	return (total + n/2) / n
}

var (
	positiveKeywords = []string{"great", "awesome", "amazing", "love", "excellent", "best", "perfect", "helpful", "thank", "thanks", "good", "nice", "wonderful", "fantastic", "brilliant", "incredible"}
	negativeKeywords = []string{"bad", "terrible", "awful", "hate", "worst", "boring", "waste", "poor", "disappointed", "disappointing", "useless", "horrible", "sucks"}
	questionKeywords = []string{"how", "what", "where", "when", "why", "can you", "could you", "please", "?"}
)

// AnalyzeCommentSentiment buckets threads by keyword matches and returns
// the top 10 threads by like count. A thread can land in several buckets.
func AnalyzeCommentSentiment(threads []models.YouTubeCommentThread) models.CommentSentiment {
	if len(threads) == 0 {
		return models.CommentSentiment{TopComments: []models.YouTubeCommentThread{}}
	}

	var result models.CommentSentiment
	result.TotalComments = len(threads)

	for _, thread := range threads {
		text := strings.ToLower(thread.TopLevelComment.Text)
		result.TotalLikes += thread.TopLevelComment.LikeCount

		if containsAny(text, positiveKeywords) {
			result.Positive++
		}
		if containsAny(text, negativeKeywords) {
			result.Negative++
		}
		if containsAny(text, questionKeywords) {
			result.Questions++
		}
	}

	total := int64(len(threads))
	result.Neutral = int(total) - result.Positive - result.Negative
	result.PositivePercent = int((int64(result.Positive)*100 + total/2) / total)
	result.NegativePercent = int((int64(result.Negative)*100 + total/2) / total)
	result.QuestionPercent = int((int64(result.Questions)*100 + total/2) / total)
	result.AvgLikesPerComment = roundedDiv(result.TotalLikes, total)

	top := make([]models.YouTubeCommentThread, len(threads))
	copy(top, threads)
	sort.SliceStable(top, func(i, j int) bool {
		return top[i].TopLevelComment.LikeCount > top[j].TopLevelComment.LikeCount
	})
	if len(top) > 10 {
		top = top[:10]
	}
	result.TopComments = top

	return result
}

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}
