// Package worker runs the delayed overdue checks that flip an unpaid invoice
// to overdue once its due date passes.
package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/fekuna/omnipos-billing-service/internal/invoice"
	"github.com/fekuna/omnipos-billing-service/pkg/logger"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

const TypeOverdueCheck = "invoice:overdue_check"

type OverduePayload struct {
	PropertyID string `json:"property_id"`
	InvoiceID  string `json:"invoice_id"`
}

// NewOverdueTask builds the task and the options that delay it until at.
// The task id is derived from the invoice so a folio is only queued once.
func NewOverdueTask(payload OverduePayload, at time.Time) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeOverdueCheck, b)
	opts := []asynq.Option{
		asynq.ProcessAt(at),
		asynq.TaskID(fmt.Sprintf("%s:%s", TypeOverdueCheck, payload.InvoiceID)),
		asynq.MaxRetry(5),
	}
	return task, opts, nil
}

type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// Scheduler implements invoice.Scheduler on an asynq client.
type Scheduler struct {
	client Enqueuer
	logger logger.ZapLogger
}

func NewScheduler(client Enqueuer, logger logger.ZapLogger) *Scheduler {
	return &Scheduler{client: client, logger: logger}
}

func (s *Scheduler) ScheduleOverdueCheck(ctx context.Context, propertyID, invoiceID string, at time.Time) error {
	task, opts, err := NewOverdueTask(OverduePayload{PropertyID: propertyID, InvoiceID: invoiceID}, at)
	if err != nil {
		return err
	}
	info, err := s.client.EnqueueContext(ctx, task, opts...)
	if err != nil {
		if errors.Is(err, asynq.ErrTaskIDConflict) {
			return nil
		}
		return err
	}
	s.logger.Debug("overdue check scheduled",
		zap.String("invoice_id", invoiceID),
		zap.String("task_id", info.ID),
		zap.Time("process_at", info.NextProcessAt),
	)
	return nil
}

// HandleOverdueCheck refreshes the invoice named by the task. Invoices that
// no longer exist are dropped instead of retried.
func HandleOverdueCheck(uc invoice.UseCase, log logger.ZapLogger) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p OverduePayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			log.Error("invalid overdue check payload", zap.Error(err))
			return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
		}

		inv, err := uc.RefreshStatus(ctx, p.PropertyID, p.InvoiceID, time.Now())
		if err != nil {
			if errors.Is(err, invoice.ErrNotFound) {
				log.Warn("overdue check for missing invoice", zap.String("invoice_id", p.InvoiceID))
				return nil
			}
			return err
		}
		log.Info("overdue check done",
			zap.String("invoice_id", inv.ID),
			zap.String("status", string(inv.Status)),
		)
		return nil
	}
}

func NewServeMux(uc invoice.UseCase, log logger.ZapLogger) *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeOverdueCheck, HandleOverdueCheck(uc, log))
	return mux
}

type ServerConfig struct {
	Addr        string
	Password    string
	DB          int
	Concurrency int
}

func RedisOpt(cfg ServerConfig) asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	}
}

func NewServer(cfg ServerConfig) *asynq.Server {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 5
	}
	return asynq.NewServer(RedisOpt(cfg), asynq.Config{
		Concurrency: cfg.Concurrency,
		Queues: map[string]int{
			"default": 1,
		},
	})
}
