package scheduler

import (
	"context"
	"fmt"

	"tejwal_backend/internal/adapters/storage"
	"tejwal_backend/internal/delivery"
	quotesvc "tejwal_backend/internal/quotes/service"
	"tejwal_backend/internal/quotes/transport"
	"tejwal_backend/platform/config"
	"tejwal_backend/platform/logger"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

// QuoteDelivery is the slice of the quotes service the worker uses: read the
// delivery view, report the outcome.
type QuoteDelivery interface {
	DeliveryInfo(ctx context.Context, id uuid.UUID) (*quotesvc.DeliveryInfo, error)
	RecordSendAttempt(ctx context.Context, quoteID uuid.UUID, attempt quotesvc.SendAttempt) error
}

// DocumentPresigner turns a stored document key into a downloadable URL.
type DocumentPresigner interface {
	PresignDocument(ctx context.Context, fileKey string) (*storage.PresignedURL, error)
}

type Worker struct {
	server    *asynq.Server
	mux       *asynq.ServeMux
	quotes    QuoteDelivery
	sender    *delivery.Sender
	presigner DocumentPresigner
	log       *logger.Logger
}

func NewWorker(cfg config.SchedulerConfig, quotes QuoteDelivery, sender *delivery.Sender, presigner DocumentPresigner, log *logger.Logger) (*Worker, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL, cfg.GetRedisTLSInsecure())
	if err != nil {
		return nil, err
	}

	queue := cfg.GetAsynqQueueName()
	if queue == "" {
		queue = "default"
	}

	concurrency := cfg.GetAsynqConcurrency()
	if concurrency < 1 {
		concurrency = 10
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			queue: 1,
		},
	})

	mux := asynq.NewServeMux()
	w := &Worker{
		server:    server,
		mux:       mux,
		quotes:    quotes,
		sender:    sender,
		presigner: presigner,
		log:       log,
	}

	mux.HandleFunc(TaskQuoteDeliver, w.handleQuoteDeliver)

	return w, nil
}

func (w *Worker) handleQuoteDeliver(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseQuoteDeliverPayload(task)
	if err != nil {
		return err
	}

	quoteID, err := uuid.Parse(payload.QuoteID)
	if err != nil {
		return err
	}

	info, err := w.quotes.DeliveryInfo(ctx, quoteID)
	if err != nil {
		return err
	}
	if info.Status == string(transport.QuoteStatusCancelled) {
		w.log.Info("skipping delivery for cancelled quote", "quote_id", quoteID)
		return nil
	}

	p := delivery.Payload{
		Phone:   payload.SentTo,
		Message: composeQuoteMessage(info),
	}
	if info.DocumentKey != nil && w.presigner != nil {
		presigned, err := w.presigner.PresignDocument(ctx, *info.DocumentKey)
		if err != nil {
			w.log.Warn("failed to presign quote document, sending text only",
				"quote_id", quoteID, "error", err)
		} else {
			p.DocumentURL = presigned.URL
			p.FileName = fmt.Sprintf("%s.pdf", info.QuoteNumber)
		}
	}

	outcome := w.sender.Deliver(ctx, p)
	w.log.DeliveryAttempt(quoteID.String(), payload.SentTo, outcome.Channel, outcome.Success, outcome.Error)

	return w.quotes.RecordSendAttempt(ctx, quoteID, quotesvc.SendAttempt{
		SentTo:  payload.SentTo,
		Success: outcome.Success,
		Error:   outcome.Error,
	})
}

func composeQuoteMessage(info *quotesvc.DeliveryInfo) string {
	return fmt.Sprintf(
		"Dear %s,\n\nYour travel quote %s for %s is ready.\nTotal: SAR %.2f\n\nReply here with any questions.",
		info.CustomerName, info.QuoteNumber, info.Destination, float64(info.GrandTotalCents)/100,
	)
}

func (w *Worker) Run(ctx context.Context) {
	if w == nil || w.server == nil {
		return
	}

	go func() {
		<-ctx.Done()
		w.server.Shutdown()
	}()

	if err := w.server.Run(w.mux); err != nil {
		w.log.Error("scheduler worker stopped", "error", err)
	}
}
