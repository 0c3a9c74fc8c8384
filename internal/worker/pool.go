package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"voltamax-backend/internal/models"
	"voltamax-backend/internal/repository"
	"voltamax-backend/internal/services"
)

const maxRetries = 3

var queues = []string{
	"queue:email-notifications",
	"queue:chat-log",
}

// Pool drains notification and logging jobs from redis. Jobs carry their
// retry count in the payload; permanent failures are logged and dropped.
type Pool struct {
	redis        *redis.Client
	email        *services.EmailService
	quoteRepo    *repository.QuoteRepo
	warrantyRepo *repository.WarrantyRepo
	chatLogRepo  *repository.ChatLogRepo
	workerCount  int
	stopChan     chan struct{}
}

func NewPool(
	redisClient *redis.Client,
	email *services.EmailService,
	quoteRepo *repository.QuoteRepo,
	warrantyRepo *repository.WarrantyRepo,
	chatLogRepo *repository.ChatLogRepo,
	workerCount int,
) *Pool {
	return &Pool{
		redis:        redisClient,
		email:        email,
		quoteRepo:    quoteRepo,
		warrantyRepo: warrantyRepo,
		chatLogRepo:  chatLogRepo,
		workerCount:  workerCount,
		stopChan:     make(chan struct{}),
	}
}

func (p *Pool) Start() {
	for i := 0; i < p.workerCount; i++ {
		go p.worker(i)
	}

	log.Printf("Started %d worker goroutines", p.workerCount)
}

func (p *Pool) Stop() {
	close(p.stopChan)
}

func (p *Pool) worker(id int) {
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

		var processErr error
		switch job.Type {
		case "quote-email":
			processErr = p.processQuoteEmail(ctx, &job)
		case "warranty-email":
			processErr = p.processWarrantyEmail(ctx, &job)
		case "chat-log":
			processErr = p.processChatLog(ctx, &job)
		default:
			processErr = fmt.Errorf("unknown job type: %s", job.Type)
		}

		if processErr != nil {
			p.handleFailure(&job, processErr)
		}

		p.redis.Del(ctx, lockKey)
	}
}

func (p *Pool) processQuoteEmail(ctx context.Context, job *models.Job) error {
	var payload models.QuoteEmailPayload
	if err := json.Unmarshal(job.PayloadJSON, &payload); err != nil {
		return fmt.Errorf("invalid quote-email payload: %w", err)
	}

	quote, err := p.quoteRepo.GetByID(ctx, payload.QuoteID)
	if err != nil {
		return fmt.Errorf("failed to load quote %s: %w", payload.QuoteID, err)
	}

	return p.email.SendQuoteNotification(quote)
}

func (p *Pool) processWarrantyEmail(ctx context.Context, job *models.Job) error {
	var payload models.WarrantyEmailPayload
	if err := json.Unmarshal(job.PayloadJSON, &payload); err != nil {
		return fmt.Errorf("invalid warranty-email payload: %w", err)
	}

	reg, err := p.warrantyRepo.GetBySerial(ctx, payload.Serial)
	if err != nil {
		return fmt.Errorf("failed to load warranty registration %s: %w", payload.Serial, err)
	}

	return p.email.SendWarrantyConfirmation(reg)
}

func (p *Pool) processChatLog(ctx context.Context, job *models.Job) error {
	var payload models.ChatLogPayload
	if err := json.Unmarshal(job.PayloadJSON, &payload); err != nil {
		return fmt.Errorf("invalid chat-log payload: %w", err)
	}

	return p.chatLogRepo.Create(ctx, payload.ClientID, payload.MessageCount, time.Unix(payload.CreatedAt, 0))
}

func (p *Pool) handleFailure(job *models.Job, err error) {
	job.RetryCount++

	if job.RetryCount < maxRetries {
		log.Printf("Job %s failed (attempt %d): %v, retrying", job.ID, job.RetryCount, err)

		// Re-queue after backoff
		jobBytes, _ := json.Marshal(job)
		backoff := time.Duration(1<<uint(job.RetryCount)) * time.Second
		time.AfterFunc(backoff, func() {
			p.redis.LPush(context.Background(), jobQueueName(job.Type), string(jobBytes))
		})
		return
	}

	log.Printf("Job %s failed permanently: %v", job.ID, err)
}

func jobQueueName(jobType string) string {
	switch jobType {
	case "chat-log":
		return "queue:chat-log"
	default:
		return "queue:email-notifications"
	}
}
