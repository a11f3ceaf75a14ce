package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// Task type definitions
const (
	TypeInvoiceEmail = "invoice:email"
)

// InvoiceEmailPayload defines the payload for invoice email tasks
type InvoiceEmailPayload struct {
	OrderID uuid.UUID `json:"order_id"`
}

// NewInvoiceEmailTask creates a new invoice email task
func NewInvoiceEmailTask(orderID uuid.UUID) (*asynq.Task, error) {
	data, err := json.Marshal(InvoiceEmailPayload{OrderID: orderID})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeInvoiceEmail, data), nil
}

// TaskEnqueuer is satisfied by *asynq.Client.
type TaskEnqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// EmailQueue enqueues invoice emails. Emails are sent at most once.
type EmailQueue struct {
	client  TaskEnqueuer
	queue   string
	timeout time.Duration
}

func NewEmailQueue(client TaskEnqueuer, queue string) *EmailQueue {
	if queue == "" {
		queue = "default"
	}
	return &EmailQueue{client: client, queue: queue, timeout: 2 * time.Minute}
}

func (q *EmailQueue) EnqueueInvoiceEmail(ctx context.Context, orderID uuid.UUID) error {
	task, err := NewInvoiceEmailTask(orderID)
	if err != nil {
		return errors.Wrap(err, "build invoice email task")
	}

	info, err := q.client.EnqueueContext(ctx, task,
		asynq.MaxRetry(0),
		asynq.Queue(q.queue),
		asynq.Timeout(q.timeout),
	)
	if err != nil {
		return errors.Wrap(err, "enqueue invoice email")
	}

	log.Debug().Str("task_id", info.ID).Str("order_id", orderID.String()).Msg("Invoice email enqueued")
	return nil
}

// InvoiceEmailSender delivers the invoice PDF for an order.
type InvoiceEmailSender interface {
	SendInvoiceEmail(ctx context.Context, orderID uuid.UUID) error
}

// InvoiceEmailHandler handles invoice email tasks
type InvoiceEmailHandler struct {
	sender InvoiceEmailSender
}

func NewInvoiceEmailHandler(sender InvoiceEmailSender) *InvoiceEmailHandler {
	return &InvoiceEmailHandler{sender: sender}
}

func (h *InvoiceEmailHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var payload InvoiceEmailPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal invoice email payload: %v: %w", err, asynq.SkipRetry)
	}

	log.Info().Str("order_id", payload.OrderID.String()).Msg("Sending invoice email")

	if err := h.sender.SendInvoiceEmail(ctx, payload.OrderID); err != nil {
		log.Error().Err(err).Str("order_id", payload.OrderID.String()).Msg("Invoice email failed")
		return err
	}
	return nil
}

// NewServeMux routes every task type this service processes.
func NewServeMux(emails *InvoiceEmailHandler) *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.Handle(TypeInvoiceEmail, emails)
	return mux
}
