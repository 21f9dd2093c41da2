package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"

	"learnhub-backend/internal/models"
)

const (
	videoPageSize   = 50
	statsBatchSize  = 50
	commentPageSize = 100
)

// ProgressFunc receives (loaded, estimatedTotal) after each fetched page.
// The estimate only grows; it settles on the exact count on the last page.
type ProgressFunc func(loaded, estimatedTotal int)

// YouTubeService wraps the YouTube Data API v3 for channel, video and
// comment retrieval.
type YouTubeService struct {
	api *youtube.Service
}

func NewYouTubeService(ctx context.Context, apiKey string) (*YouTubeService, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("youtube api key is not configured")
	}

	api, err := youtube.NewService(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create youtube client: %w", err)
	}

	return &YouTubeService{api: api}, nil
}

// GetChannelInfo fetches the channel snippet and statistics.
func (s *YouTubeService) GetChannelInfo(ctx context.Context, channelID string) (models.YouTubeChannel, error) {
	resp, err := s.api.Channels.List([]string{"snippet", "statistics"}).
		Id(channelID).
		Context(ctx).
		Do()
	if err != nil {
		return models.YouTubeChannel{}, fmt.Errorf("failed to fetch channel info: %w", err)
	}
	if len(resp.Items) == 0 {
		return models.YouTubeChannel{}, fmt.Errorf("channel %s not found", channelID)
	}

	ch := resp.Items[0]
	info := models.YouTubeChannel{
		ID:    ch.Id,
		Title: ch.Snippet.Title,
	}
	info.Description = ch.Snippet.Description
	if ch.Snippet.Thumbnails != nil && ch.Snippet.Thumbnails.Medium != nil {
		info.Thumbnail = ch.Snippet.Thumbnails.Medium.Url
	}
	if ch.Statistics != nil {
		info.SubscriberCount = int64(ch.Statistics.SubscriberCount)
		info.VideoCount = int64(ch.Statistics.VideoCount)
		info.ViewCount = int64(ch.Statistics.ViewCount)
	}

	return info, nil
}

// GetAllChannelVideos pages through the channel's uploads playlist and
// returns every video in upload order, newest first. Each page's statistics
// and durations are merged in from a videos.list batch before the next page
// is requested, so progress keeps moving while details load; a failed batch
// leaves zero counts on its videos rather than failing the whole fetch.
func (s *YouTubeService) GetAllChannelVideos(ctx context.Context, channelID string, onProgress ProgressFunc) ([]models.YouTubeVideo, error) {
	playlistID, err := s.uploadsPlaylistID(ctx, channelID)
	if err != nil {
		return nil, err
	}

	var videos []models.YouTubeVideo

	pageToken := ""
	for {
		call := s.api.PlaylistItems.List([]string{"snippet", "contentDetails"}).
			PlaylistId(playlistID).
			MaxResults(videoPageSize).
			Context(ctx)
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}

		resp, err := call.Do()
		if err != nil {
			return nil, fmt.Errorf("failed to list channel uploads: %w", err)
		}

		ids := make([]string, 0, len(resp.Items))
		for _, item := range resp.Items {
			if item.ContentDetails == nil || item.ContentDetails.VideoId == "" {
				continue
			}
			ids = append(ids, item.ContentDetails.VideoId)
		}
		details := s.videoDetails(ctx, ids)

		for _, item := range resp.Items {
			if item.ContentDetails == nil || item.ContentDetails.VideoId == "" {
				continue
			}
			id := item.ContentDetails.VideoId
			videos = append(videos, buildVideo(id, item.Snippet, details[id]))
		}

		if onProgress != nil {
			loaded, estimate := progressEstimate(len(videos), videoPageSize, resp.NextPageToken != "")
			onProgress(loaded, estimate)
		}

		if resp.NextPageToken == "" {
			break
		}
		pageToken = resp.NextPageToken
	}

	return videos, nil
}

// SearchChannelVideos runs a relevance-ordered search restricted to one
// channel and returns the matches with full statistics.
func (s *YouTubeService) SearchChannelVideos(ctx context.Context, channelID, query string, maxResults int64) ([]models.YouTubeVideo, error) {
	if maxResults <= 0 || maxResults > videoPageSize {
		maxResults = videoPageSize
	}

	resp, err := s.api.Search.List([]string{"snippet"}).
		ChannelId(channelID).
		Q(query).
		Type("video").
		Order("relevance").
		MaxResults(maxResults).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to search channel videos: %w", err)
	}

	var ids []string
	for _, item := range resp.Items {
		if item.Id != nil && item.Id.VideoId != "" {
			ids = append(ids, item.Id.VideoId)
		}
	}
	details := s.videoDetails(ctx, ids)

	videos := make([]models.YouTubeVideo, 0, len(ids))
	for _, item := range resp.Items {
		if item.Id == nil || item.Id.VideoId == "" {
			continue
		}
		detail := details[item.Id.VideoId]
		if detail == nil {
			continue
		}
		videos = append(videos, buildVideoFromDetail(detail))
	}

	return videos, nil
}

// GetAllVideoComments pages through a video's comment threads including
// replies, up to maxComments threads, in the requested order ("time" or
// "relevance", defaulting to relevance). A video with comments disabled
// yields an empty result, not an error.
func (s *YouTubeService) GetAllVideoComments(ctx context.Context, videoID string, maxComments int, order string, onProgress ProgressFunc) ([]models.YouTubeCommentThread, error) {
	var threads []models.YouTubeCommentThread

	pageToken := ""
	for {
		call := s.api.CommentThreads.List([]string{"snippet", "replies"}).
			VideoId(videoID).
			MaxResults(commentPageSize).
			Order(commentOrder(order)).
			TextFormat("plainText").
			Context(ctx)
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}

		resp, err := call.Do()
		if err != nil {
			if isCommentsDisabled(err) {
				log.Printf("Comments disabled for video %s, returning empty set", videoID)
				return []models.YouTubeCommentThread{}, nil
			}
			return nil, fmt.Errorf("failed to fetch comments for video %s: %w", videoID, err)
		}

		for _, item := range resp.Items {
			threads = append(threads, buildCommentThread(videoID, item))
		}

		if onProgress != nil {
			more := resp.NextPageToken != "" && len(threads) < maxComments
			loaded, estimate := progressEstimate(len(threads), commentPageSize, more)
			if estimate > maxComments {
				estimate = maxComments
			}
			onProgress(loaded, estimate)
		}

		if len(threads) >= maxComments {
			threads = threads[:maxComments]
			break
		}
		if resp.NextPageToken == "" {
			break
		}
		pageToken = resp.NextPageToken
	}

	return threads, nil
}

func (s *YouTubeService) uploadsPlaylistID(ctx context.Context, channelID string) (string, error) {
	resp, err := s.api.Channels.List([]string{"contentDetails"}).
		Id(channelID).
		Context(ctx).
		Do()
	if err != nil {
		return "", fmt.Errorf("failed to resolve uploads playlist: %w", err)
	}
	if len(resp.Items) == 0 || resp.Items[0].ContentDetails == nil {
		return "", fmt.Errorf("channel %s not found", channelID)
	}

	playlistID := resp.Items[0].ContentDetails.RelatedPlaylists.Uploads
	if playlistID == "" {
		return "", fmt.Errorf("channel %s has no uploads playlist", channelID)
	}
	return playlistID, nil
}

// videoDetails batch-fetches snippet, statistics and duration for the given
// ids. Chunks that fail are logged and skipped; their videos keep defaults.
func (s *YouTubeService) videoDetails(ctx context.Context, ids []string) map[string]*youtube.Video {
	details := make(map[string]*youtube.Video, len(ids))

	for _, chunk := range chunkIDs(ids, statsBatchSize) {
		resp, err := s.api.Videos.List([]string{"snippet", "statistics", "contentDetails"}).
			Id(chunk...).
			Context(ctx).
			Do()
		if err != nil {
			log.Printf("Failed to fetch details for batch of %d videos: %v", len(chunk), err)
			continue
		}
		for _, v := range resp.Items {
			details[v.Id] = v
		}
	}

	return details
}

// commentOrder clamps the requested thread ordering to the two values the
// API accepts. Relevance is the default.
func commentOrder(order string) string {
	if order == "time" {
		return "time"
	}
	return "relevance"
}

func chunkIDs(ids []string, size int) [][]string {
	var chunks [][]string
	for start := 0; start < len(ids); start += size {
		end := start + size
		if end > len(ids) {
			end = len(ids)
		}
		chunks = append(chunks, ids[start:end])
	}
	return chunks
}

// progressEstimate keeps the reported total one page ahead of the loaded
// count until the final page, where it snaps to the exact total.
func progressEstimate(loaded, pageSize int, more bool) (int, int) {
	if more {
		return loaded, loaded + pageSize
	}
	return loaded, loaded
}

func buildVideo(id string, snippet *youtube.PlaylistItemSnippet, detail *youtube.Video) models.YouTubeVideo {
	video := models.YouTubeVideo{
		ID:       id,
		Duration: "0:00",
	}

	if snippet != nil {
		video.Title = snippet.Title
		video.Description = snippet.Description
		video.ChannelTitle = snippet.ChannelTitle
		video.PublishedAt = parseAPITime(snippet.PublishedAt)
		video.Thumbnail, video.ThumbnailHigh = pickThumbnails(snippet.Thumbnails)
	}

	mergeVideoDetail(&video, detail)
	return video
}

func buildVideoFromDetail(detail *youtube.Video) models.YouTubeVideo {
	video := models.YouTubeVideo{
		ID:       detail.Id,
		Duration: "0:00",
	}

	if detail.Snippet != nil {
		video.Title = detail.Snippet.Title
		video.Description = detail.Snippet.Description
		video.ChannelTitle = detail.Snippet.ChannelTitle
		video.PublishedAt = parseAPITime(detail.Snippet.PublishedAt)
		video.Thumbnail, video.ThumbnailHigh = pickThumbnails(detail.Snippet.Thumbnails)
	}

	mergeVideoDetail(&video, detail)
	return video
}

func mergeVideoDetail(video *models.YouTubeVideo, detail *youtube.Video) {
	if detail == nil {
		return
	}
	if detail.ContentDetails != nil && detail.ContentDetails.Duration != "" {
		video.Duration = FormatDuration(detail.ContentDetails.Duration)
	}
	if detail.Statistics != nil {
		video.ViewCount = int64(detail.Statistics.ViewCount)
		video.LikeCount = int64(detail.Statistics.LikeCount)
		video.CommentCount = int64(detail.Statistics.CommentCount)
	}
	if detail.Snippet != nil {
		video.Tags = detail.Snippet.Tags
		video.CategoryID = detail.Snippet.CategoryId
	}
}

func pickThumbnails(thumbs *youtube.ThumbnailDetails) (medium, high string) {
	if thumbs == nil {
		return "", ""
	}
	if thumbs.Default != nil {
		medium = thumbs.Default.Url
	}
	if thumbs.Medium != nil {
		medium = thumbs.Medium.Url
	}
	high = medium
	if thumbs.High != nil {
		high = thumbs.High.Url
	}
	return medium, high
}

func buildCommentThread(videoID string, item *youtube.CommentThread) models.YouTubeCommentThread {
	thread := models.YouTubeCommentThread{
		ID:      item.Id,
		VideoID: videoID,
	}

	if item.Snippet != nil {
		thread.TotalReplyCount = item.Snippet.TotalReplyCount
		if item.Snippet.TopLevelComment != nil {
			thread.TopLevelComment = buildComment(videoID, item.Snippet.TopLevelComment)
			thread.TopLevelComment.ReplyCount = item.Snippet.TotalReplyCount
		}
	}
	if item.Replies != nil {
		for _, reply := range item.Replies.Comments {
			thread.Replies = append(thread.Replies, buildComment(videoID, reply))
		}
	}

	return thread
}

func buildComment(videoID string, c *youtube.Comment) models.YouTubeComment {
	comment := models.YouTubeComment{
		ID:      c.Id,
		VideoID: videoID,
	}

	sn := c.Snippet
	if sn == nil {
		return comment
	}

	comment.AuthorName = sn.AuthorDisplayName
	comment.AuthorProfileImage = sn.AuthorProfileImageUrl
	if sn.AuthorChannelId != nil {
		comment.AuthorChannelID = sn.AuthorChannelId.Value
	}
	comment.Text = sn.TextOriginal
	comment.TextDisplay = sn.TextDisplay
	comment.LikeCount = sn.LikeCount
	comment.PublishedAt = parseAPITime(sn.PublishedAt)
	if sn.UpdatedAt != "" && sn.UpdatedAt != sn.PublishedAt {
		updated := parseAPITime(sn.UpdatedAt)
		comment.UpdatedAt = &updated
	}

	return comment
}

func parseAPITime(value string) time.Time {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}
	}
	return t
}

// isCommentsDisabled detects the 403 the API returns when a video's
// comment section is turned off.
func isCommentsDisabled(err error) bool {
	var apiErr *googleapi.Error
	if !errors.As(err, &apiErr) || apiErr.Code != 403 {
		return false
	}
	for _, e := range apiErr.Errors {
		if e.Reason == "commentsDisabled" {
			return true
		}
	}
	return false
}
