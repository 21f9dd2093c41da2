package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"learnhub-backend/internal/cache"
	"learnhub-backend/internal/models"
	"learnhub-backend/internal/repository"
	"learnhub-backend/internal/services"
)

const (
	QueueChannelFetch  = "queue:channel-fetch"
	QueueCommentImport = "queue:comment-import"
	QueueCourseImport  = "queue:course-import"
)

// Pool runs YouTube import jobs off redis queues. Progress and results are
// published to user_updates:<id> for the websocket hub to deliver.
type Pool struct {
	redis           *redis.Client
	pubsub          *redis.Client
	youtube         *services.YouTubeService
	importer        *services.ImportService
	email           *services.EmailService
	channelCache    *cache.ChannelCache
	userRepo        *repository.UserRepo
	jobRepo         *repository.JobRepo
	commentFetchMax int
	workerCount     int
	stopChan        chan struct{}
}

func NewPool(
	redisClient *redis.Client,
	pubsubClient *redis.Client,
	youtube *services.YouTubeService,
	importer *services.ImportService,
	email *services.EmailService,
	channelCache *cache.ChannelCache,
	userRepo *repository.UserRepo,
	jobRepo *repository.JobRepo,
	commentFetchMax int,
	workerCount int,
) *Pool {
	return &Pool{
		redis:           redisClient,
		pubsub:          pubsubClient,
		youtube:         youtube,
		importer:        importer,
		email:           email,
		channelCache:    channelCache,
		userRepo:        userRepo,
		jobRepo:         jobRepo,
		commentFetchMax: commentFetchMax,
		workerCount:     workerCount,
		stopChan:        make(chan struct{}),
	}
}

func (p *Pool) Start() {
	queues := []string{
		QueueChannelFetch,
		QueueCommentImport,
		QueueCourseImport,
	}

	for i := 0; i < p.workerCount; i++ {
		go p.worker(i, queues)
	}

	log.Printf("Started %d worker goroutines", p.workerCount)
}

func (p *Pool) Stop() {
	close(p.stopChan)
}

// Enqueue persists the job row and pushes it onto its queue.
func (p *Pool) Enqueue(ctx context.Context, job *models.Job) error {
	if err := p.jobRepo.Create(ctx, job); err != nil {
		return fmt.Errorf("failed to create job: %w", err)
	}

	jobBytes, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("failed to marshal job: %w", err)
	}

	if err := p.redis.LPush(ctx, "queue:"+job.Type, string(jobBytes)).Err(); err != nil {
		return fmt.Errorf("failed to enqueue job: %w", err)
	}
	return nil
}

func (p *Pool) worker(id int, queues []string) {
	for {
		select {
		case <-p.stopChan:
			log.Printf("Worker %d shutting down", id)
			return
		default:
		}

		ctx := context.Background()

		// BLPOP with 30s timeout
		result, err := p.redis.BLPop(ctx, 30*time.Second, queues...).Result()
		if err != nil {
			continue // Timeout or error, retry
		}

		if len(result) < 2 {
			continue
		}

		// Parse job
		var job models.Job
		if err := json.Unmarshal([]byte(result[1]), &job); err != nil {
			log.Printf("Worker %d: failed to parse job: %v", id, err)
			continue
		}

		// Try to acquire lock
		lockKey := fmt.Sprintf("job_lock:%s", job.ID.String())
		locked, err := p.redis.SetNX(ctx, lockKey, "1", 10*time.Minute).Result()
		if err != nil || !locked {
			continue // Another worker has this job
		}

		log.Printf("Worker %d: processing job %s (type: %s)", id, job.ID, job.Type)

		p.jobRepo.UpdateStatus(ctx, job.ID, "processing")

		var resultJSON json.RawMessage
		var processErr error
		switch job.Type {
		case "channel-fetch":
			resultJSON, processErr = p.processChannelFetch(ctx, &job)
		case "comment-import":
			resultJSON, processErr = p.processCommentImport(ctx, &job)
		case "course-import":
			resultJSON, processErr = p.processCourseImport(ctx, &job)
		default:
			processErr = fmt.Errorf("unknown job type: %s", job.Type)
		}

		if processErr != nil {
			p.handleFailure(ctx, &job, processErr)
		} else {
			p.handleSuccess(ctx, &job, resultJSON)
		}

		// Release lock
		p.redis.Del(ctx, lockKey)
	}
}

// processChannelFetch pulls the full channel video list and caches it as
// the current snapshot. A fresh cached snapshot short-circuits the fetch
// unless the job demands a refresh.
func (p *Pool) processChannelFetch(ctx context.Context, job *models.Job) (json.RawMessage, error) {
	var payload models.ChannelFetchPayload
	if err := json.Unmarshal(job.PayloadJSON, &payload); err != nil {
		return nil, fmt.Errorf("invalid channel-fetch payload: %w", err)
	}
	if payload.ChannelID == "" {
		return nil, fmt.Errorf("channel-fetch payload has no channel id")
	}

	if !payload.ForceRefresh {
		if entry := p.channelCache.Get(ctx, payload.ChannelID); entry != nil {
			log.Printf("Channel %s served from cache (%d videos)", payload.ChannelID, len(entry.Videos))
			return json.Marshal(map[string]interface{}{
				"channel_id":  payload.ChannelID,
				"video_count": len(entry.Videos),
				"from_cache":  true,
			})
		}
	}

	channel, err := p.youtube.GetChannelInfo(ctx, payload.ChannelID)
	if err != nil {
		return nil, err
	}

	videos, err := p.youtube.GetAllChannelVideos(ctx, payload.ChannelID, func(loaded, estimated int) {
		p.publishUpdate(ctx, job.UserID, models.WSMessage{
			Type: "fetch_progress",
			Payload: models.FetchProgress{
				JobID:          job.ID,
				Loaded:         loaded,
				EstimatedTotal: estimated,
			},
		})
	})
	if err != nil {
		return nil, err
	}

	p.channelCache.Set(ctx, payload.ChannelID, channel, videos)

	return json.Marshal(map[string]interface{}{
		"channel_id":  payload.ChannelID,
		"video_count": len(videos),
		"from_cache":  false,
	})
}

func (p *Pool) processCommentImport(ctx context.Context, job *models.Job) (json.RawMessage, error) {
	var payload models.CommentImportPayload
	if err := json.Unmarshal(job.PayloadJSON, &payload); err != nil {
		return nil, fmt.Errorf("invalid comment-import payload: %w", err)
	}
	if payload.VideoID == "" {
		return nil, fmt.Errorf("comment-import payload has no video id")
	}

	maxComments := payload.MaxComments
	if maxComments <= 0 || maxComments > p.commentFetchMax {
		maxComments = p.commentFetchMax
	}

	threads, err := p.youtube.GetAllVideoComments(ctx, payload.VideoID, maxComments, payload.Order, func(loaded, estimated int) {
		p.publishUpdate(ctx, job.UserID, models.WSMessage{
			Type: "fetch_progress",
			Payload: models.FetchProgress{
				JobID:          job.ID,
				Loaded:         loaded,
				EstimatedTotal: estimated,
			},
		})
	})
	if err != nil {
		return nil, err
	}

	imported, err := p.importer.ImportVideoComments(ctx, payload.VideoID, threads)
	if err != nil {
		return nil, err
	}

	return json.Marshal(map[string]interface{}{
		"video_id":          payload.VideoID,
		"threads_fetched":   len(threads),
		"comments_imported": imported,
	})
}

// processCourseImport runs the same assembly as the synchronous admin
// endpoint, sourcing videos from the channel snapshot.
func (p *Pool) processCourseImport(ctx context.Context, job *models.Job) (json.RawMessage, error) {
	var payload models.CourseImportPayload
	if err := json.Unmarshal(job.PayloadJSON, &payload); err != nil {
		return nil, fmt.Errorf("invalid course-import payload: %w", err)
	}

	entry := p.channelCache.Get(ctx, payload.ChannelID)
	if entry == nil {
		return nil, fmt.Errorf("no channel snapshot for %s; run a channel fetch first", payload.ChannelID)
	}

	result, err := p.importer.CreateCourseFromVideos(ctx, payload.Request, entry.Videos)
	if err != nil {
		return nil, err
	}

	go p.sendImportCompletedEmail(context.Background(), job.UserID, payload.Request.Title, result)

	return json.Marshal(result)
}

func (p *Pool) sendImportCompletedEmail(ctx context.Context, userID uuid.UUID, title string, result *models.CourseImportResult) {
	if p.email == nil || p.userRepo == nil {
		return
	}

	user, err := p.userRepo.GetByID(ctx, userID)
	if err != nil {
		log.Printf("failed to load user %s for import email: %v", userID, err)
		return
	}

	if err := p.email.SendImportCompleted(user.Email, title, result.CourseSlug, result.LessonsCreated); err != nil {
		log.Printf("failed to send import-complete email to %s: %v", user.Email, err)
	}
}

func (p *Pool) handleSuccess(ctx context.Context, job *models.Job, result json.RawMessage) {
	p.jobRepo.Complete(ctx, job.ID, result)

	p.publishUpdate(ctx, job.UserID, models.WSMessage{
		Type: "completed",
		Payload: models.CompletedEvent{
			JobID:  job.ID,
			Result: result,
		},
	})

	log.Printf("Job %s completed successfully", job.ID)
}

func (p *Pool) handleFailure(ctx context.Context, job *models.Job, err error) {
	errMsg := err.Error()
	log.Printf("Job %s failed: %s", job.ID, errMsg)

	p.jobRepo.Fail(ctx, job.ID, errMsg)

	p.publishUpdate(ctx, job.UserID, models.WSMessage{
		Type: "error",
		Payload: models.ErrorEvent{
			JobID:        job.ID,
			ErrorCode:    "JOB_FAILED",
			ErrorMessage: errMsg,
		},
	})
}

func (p *Pool) publishUpdate(ctx context.Context, userID uuid.UUID, msg models.WSMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		return
	}
	p.pubsub.Publish(ctx, "user_updates:"+userID.String(), string(data))
}
