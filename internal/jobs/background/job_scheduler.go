package background

import (
	"context"
	"sync"
	"time"

	"gstinvoice/internal/models"

	"github.com/go-co-op/gocron/v2"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// PDFAuditor reports invoices created in [from, to) whose PDF is missing from storage.
type PDFAuditor interface {
	AuditPDFs(ctx context.Context, from, to time.Time) ([]*models.Invoice, error)
}

// JobScheduler runs periodic maintenance jobs in the worker process
type JobScheduler struct {
	scheduler gocron.Scheduler
	auditor   PDFAuditor
	interval  time.Duration
	window    time.Duration
	now       func() time.Time
	jobs      map[string]gocron.Job
	mu        sync.RWMutex
}

// NewJobScheduler creates a scheduler that audits the last window of invoices every interval.
func NewJobScheduler(auditor PDFAuditor, interval, window time.Duration) (*JobScheduler, error) {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, errors.Wrap(err, "create scheduler")
	}

	if window <= 0 {
		window = interval
	}
	js := &JobScheduler{
		scheduler: scheduler,
		auditor:   auditor,
		interval:  interval,
		window:    window,
		now:       time.Now,
		jobs:      make(map[string]gocron.Job),
	}

	if err := js.registerJobs(); err != nil {
		_ = scheduler.Shutdown()
		return nil, err
	}
	return js, nil
}

func (js *JobScheduler) Start() {
	log.Info().Int("jobs", len(js.jobs)).Msg("Starting background job scheduler")
	js.scheduler.Start()
}

func (js *JobScheduler) Stop() error {
	log.Info().Msg("Stopping background job scheduler")
	return js.scheduler.Shutdown()
}

// JobNames lists the registered jobs.
func (js *JobScheduler) JobNames() []string {
	js.mu.RLock()
	defer js.mu.RUnlock()
	names := make([]string, 0, len(js.jobs))
	for name := range js.jobs {
		names = append(names, name)
	}
	return names
}

func (js *JobScheduler) registerJobs() error {
	js.mu.Lock()
	defer js.mu.Unlock()

	auditJob, err := js.scheduler.NewJob(
		gocron.DurationJob(js.interval),
		gocron.NewTask(js.auditPDFs, context.Background()),
		gocron.WithName("pdf-audit"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return errors.Wrap(err, "create pdf audit job")
	}
	js.jobs["pdf-audit"] = auditJob
	return nil
}

// auditPDFs logs every recent invoice whose PDF object has gone missing.
func (js *JobScheduler) auditPDFs(ctx context.Context) error {
	to := js.now()
	from := to.Add(-js.window)

	missing, err := js.auditor.AuditPDFs(ctx, from, to)
	if err != nil {
		log.Error().Err(err).Msg("PDF audit failed")
		return err
	}

	for _, inv := range missing {
		log.Warn().
			Str("invoice_no", inv.InvoiceNo).
			Str("order_id", inv.OrderID.String()).
			Str("object", inv.PDFPath).
			Msg("Invoice pdf missing from storage")
	}
	log.Info().Int("missing", len(missing)).Time("from", from).Time("to", to).Msg("PDF audit completed")
	return nil
}
