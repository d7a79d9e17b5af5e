package listener

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/fekuna/omnipos-billing-service/internal/invoice"
	"github.com/fekuna/omnipos-billing-service/internal/invoice/dto"
	"github.com/fekuna/omnipos-billing-service/internal/model"
	"github.com/fekuna/omnipos-billing-service/internal/order"
	"github.com/fekuna/omnipos-billing-service/internal/validation"
	"github.com/fekuna/omnipos-billing-service/pkg/logger"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// MessageReader is satisfied by *broker.KafkaConsumer.
type MessageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
}

// FolioListener posts room charge orders onto their guest folio.
type FolioListener struct {
	consumer MessageReader
	invoices invoice.UseCase
	orders   order.UseCase
	logger   logger.ZapLogger
	backoff  time.Duration
}

func NewFolioListener(consumer MessageReader, invoices invoice.UseCase, orders order.UseCase, logger logger.ZapLogger) *FolioListener {
	return &FolioListener{
		consumer: consumer,
		invoices: invoices,
		orders:   orders,
		logger:   logger,
		backoff:  time.Second,
	}
}

// Start consumes until ctx is done. A message is committed once it has been
// handled or has failed for good; transient failures retry the same message.
func (l *FolioListener) Start(ctx context.Context) {
	l.logger.Info("Starting folio posting listener")
	for {
		select {
		case <-ctx.Done():
			l.logger.Info("Stopping folio posting listener")
			return
		default:
			msg, err := l.consumer.FetchMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				l.logger.Error("Failed to read kafka message", zap.Error(err))
				time.Sleep(l.backoff)
				continue
			}
			if !l.handle(ctx, msg) {
				return
			}
			if err := l.consumer.CommitMessages(ctx, msg); err != nil && ctx.Err() == nil {
				l.logger.Error("Failed to commit kafka message",
					zap.Int64("offset", msg.Offset),
					zap.Error(err),
				)
			}
		}
	}
}

// handle retries msg until it is processed. It returns false when ctx ends
// first, leaving the message uncommitted for redelivery.
func (l *FolioListener) handle(ctx context.Context, msg kafka.Message) bool {
	for attempt := 1; ; attempt++ {
		err := l.processMessage(ctx, msg.Value)
		if err == nil {
			return true
		}
		l.logger.Warn("Folio posting failed, retrying",
			zap.Int64("offset", msg.Offset),
			zap.Int("attempt", attempt),
			zap.Error(err),
		)
		select {
		case <-ctx.Done():
			return false
		case <-time.After(l.backoff):
		}
	}
}

// processMessage returns an error only when a retry may succeed.
func (l *FolioListener) processMessage(ctx context.Context, value []byte) error {
	var event order.OrderCreatedEvent
	if err := json.Unmarshal(value, &event); err != nil {
		l.logger.Error("Failed to unmarshal event", zap.Error(err))
		return nil
	}
	if event.EventType != order.EventOrderCreated || !event.Payload.ChargesFolio() {
		return nil
	}

	p := event.Payload
	log := l.logger.With(zap.String("order_id", p.ID), zap.String("invoice_id", *p.FolioInvoiceID))
	log.Info("Posting room charge to folio")

	// a redelivered event may arrive after the order was voided or posted
	current, err := l.orders.GetOrder(ctx, p.PropertyID, p.ID)
	if err != nil {
		if errors.Is(err, order.ErrNotFound) {
			log.Warn("Order not found, skipping")
			return nil
		}
		return err
	}
	if current.Status != model.OrderOpen {
		log.Info("Order no longer open, skipping", zap.String("status", string(current.Status)))
		return nil
	}

	_, err = l.invoices.PostOrder(ctx, &dto.PostOrderInput{
		PropertyID: p.PropertyID,
		InvoiceID:  *p.FolioInvoiceID,
		OrderID:    p.ID,
		Currency:   p.Currency,
		Items:      p.Items,
	})
	if err != nil {
		var v validation.Violations
		switch {
		case errors.Is(err, invoice.ErrClosed), errors.Is(err, invoice.ErrNotFound):
			log.Warn("Folio cannot take the charge", zap.Error(err))
			return nil
		case errors.As(err, &v):
			log.Error("Order lines rejected by folio", zap.Error(err))
			return nil
		}
		return err
	}

	// PostOrder is idempotent per order, so a retry after this point is safe
	if _, err := l.orders.MarkPosted(ctx, p.PropertyID, p.ID); err != nil {
		if errors.Is(err, order.ErrNotOpen) {
			log.Warn("Order changed state before it was marked posted", zap.Error(err))
			return nil
		}
		return err
	}
	return nil
}
