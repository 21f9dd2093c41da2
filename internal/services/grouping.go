package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"learnhub-backend/internal/models"
)

const groupingModel = "gemini-1.5-flash"

// GroupingService asks Gemini to cluster channel videos into course
// suggestions. Suggestions are advisory; nothing is persisted until the
// operator imports a course.
type GroupingService struct {
	client    *genai.Client
	model     *genai.GenerativeModel
	maxVideos int
}

func NewGroupingService(ctx context.Context, apiKey string, maxVideos int) (*GroupingService, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key is not configured")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := client.GenerativeModel(groupingModel)
	model.SetTemperature(0.7)
	model.SetMaxOutputTokens(8000)
	model.ResponseMIMEType = "application/json"

	return &GroupingService{
		client:    client,
		model:     model,
		maxVideos: maxVideos,
	}, nil
}

func (s *GroupingService) Close() {
	s.client.Close()
}

// aiGroupingResponse mirrors the JSON shape the prompt demands.
type aiGroupingResponse struct {
	Courses []struct {
		Title       string                  `json:"title"`
		Description string                  `json:"description"`
		Category    string                  `json:"category"`
		Level       string                  `json:"level"`
		Videos      []models.SuggestedVideo `json:"videos"`
		Confidence  int                     `json:"confidence"`
	} `json:"courses"`
	UngroupedVideos []string `json:"ungroupedVideos"`
	Summary         string   `json:"summary"`
}

// AnalyzeAndGroupVideos sends the video list to Gemini and parses the
// suggested course structure. Input beyond the configured ceiling is
// truncated and flagged via WasLimited.
func (s *GroupingService) AnalyzeAndGroupVideos(ctx context.Context, videos []models.YouTubeVideo) (*models.AIGroupingResult, error) {
	wasLimited := len(videos) > s.maxVideos
	analyzed := videos
	if wasLimited {
		analyzed = videos[:s.maxVideos]
	}

	prompt := buildGroupingPrompt(analyzed)

	resp, err := s.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return nil, fmt.Errorf("AI analysis failed: %w", err)
	}

	text := extractResponseText(resp)
	if text == "" {
		return nil, fmt.Errorf("AI analysis failed: empty response from model")
	}

	var parsed aiGroupingResponse
	if err := json.Unmarshal([]byte(stripCodeFence(text)), &parsed); err != nil {
		return nil, fmt.Errorf("AI analysis failed: invalid JSON in model response: %w", err)
	}

	result := &models.AIGroupingResult{
		Summary:             parsed.Summary,
		UngroupedVideos:     parsed.UngroupedVideos,
		TotalVideosAnalyzed: len(analyzed),
		WasLimited:          wasLimited,
	}
	if result.Summary == "" {
		result.Summary = "Videos grouped by topic similarity"
	}

	for _, c := range parsed.Courses {
		course := models.SuggestedCourse{
			Title:       c.Title,
			Description: c.Description,
			Category:    c.Category,
			Level:       c.Level,
			Videos:      c.Videos,
			Confidence:  c.Confidence,
		}
		for _, v := range c.Videos {
			course.VideoIDs = append(course.VideoIDs, v.ID)
		}
		result.Courses = append(result.Courses, course)
	}

	reconcileGrouping(result, analyzed)
	return result, nil
}

func buildGroupingPrompt(videos []models.YouTubeVideo) string {
	var lines strings.Builder
	for _, v := range videos {
		fmt.Fprintf(&lines, "- %s: %q | %s... | %s | %d views\n",
			v.ID, v.Title, truncate(v.Description, 100), v.Duration, v.ViewCount)
	}

	return fmt.Sprintf(`You are an expert educational content curator. Analyze video content and create logical course structures. Always respond with valid JSON only.

Analyze %d YouTube videos and group them into courses.

Videos (id, title, description excerpt, duration, views):
%s
Group by topic similarity, themes, and learning progression.

Return ONLY valid JSON:
{"courses":[{"title":"Course Title","description":"2-3 sentence description","category":"Category","level":"Beginner|Intermediate|Advanced","videos":[{"id":"video_id","title":"Title","reason":"Why it fits"}],"confidence":85}],"ungroupedVideos":["id1"],"summary":"How grouped"}

Rules:
- Each video in ONE course only
- 2-10 videos per course
- Use SAME LANGUAGE as videos
- Categories: Personal Development, Psychology, Business, Leadership, Finance, Health & Wellness, Technology`,
		len(videos), lines.String())
}

// truncate cuts s to at most max runes so a cut never splits a multi-byte
// character.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}

// reconcileGrouping enforces the partition the prompt asks for but the
// model cannot be trusted to deliver: every analyzed id ends up in exactly
// one course or in ungroupedVideos, ids the model invented are dropped,
// and duplicates keep only their first placement.
func reconcileGrouping(result *models.AIGroupingResult, analyzed []models.YouTubeVideo) {
	known := make(map[string]bool, len(analyzed))
	for _, v := range analyzed {
		known[v.ID] = true
	}

	seen := make(map[string]bool, len(analyzed))
	courses := result.Courses[:0]
	for _, course := range result.Courses {
		var ids []string
		var vids []models.SuggestedVideo
		for i, id := range course.VideoIDs {
			if !known[id] || seen[id] {
				continue
			}
			seen[id] = true
			ids = append(ids, id)
			if i < len(course.Videos) {
				vids = append(vids, course.Videos[i])
			}
		}
		if len(ids) == 0 {
			continue
		}
		course.VideoIDs = ids
		course.Videos = vids
		courses = append(courses, course)
	}
	result.Courses = courses

	var ungrouped []string
	for _, id := range result.UngroupedVideos {
		if !known[id] || seen[id] {
			continue
		}
		seen[id] = true
		ungrouped = append(ungrouped, id)
	}
	for _, v := range analyzed {
		if !seen[v.ID] {
			ungrouped = append(ungrouped, v.ID)
		}
	}
	result.UngroupedVideos = ungrouped
}

func extractResponseText(resp *genai.GenerateContentResponse) string {
	var sb strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if text, ok := part.(genai.Text); ok {
				sb.WriteString(string(text))
			}
		}
	}
	return strings.TrimSpace(sb.String())
}

// stripCodeFence removes a surrounding markdown code block, which the
// model sometimes emits despite the JSON response mime type.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```json") {
		s = strings.TrimPrefix(s, "```json")
	} else if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```")
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
