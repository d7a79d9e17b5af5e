package app

import (
	"testing"
	"time"

	"github.com/fekuna/omnipos-billing-service/config"
	invWorker "github.com/fekuna/omnipos-billing-service/internal/invoice/worker"
	"github.com/fekuna/omnipos-billing-service/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestInvoiceOptions(t *testing.T) {
	cfg := &config.Config{Billing: config.BillingConfig{
		AllowOverpayment: true,
		DefaultCurrency:  "usd",
		PaymentTermDays:  14,
		LockTTL:          3 * time.Second,
	}}

	opts := InvoiceOptions(cfg)
	assert.True(t, opts.AllowOverpayment)
	assert.Equal(t, model.CurrencyUSD, opts.DefaultCurrency)
	assert.Equal(t, 14*24*time.Hour, opts.PaymentTerm)
	assert.Equal(t, 3*time.Second, opts.LockTTL)

	assert.Equal(t, model.CurrencyINR, InvoiceOptions(&config.Config{}).DefaultCurrency)
}

func TestQueueConfigUsesQueueDB(t *testing.T) {
	cfg := &config.Config{
		Redis:   config.RedisConfig{Addr: "redis:6379", DB: 0, QueueDB: 2},
		Billing: config.BillingConfig{WorkerConcurrency: 8},
	}
	q := QueueConfig(cfg)
	assert.Equal(t, 2, q.DB)
	assert.Equal(t, 8, q.Concurrency)
	assert.Equal(t, "redis:6379", invWorker.RedisOpt(q).Addr)
}

func TestPostgresConfig(t *testing.T) {
	cfg := &config.Config{Postgres: config.PostgresConfig{
		Host: "db", Port: "5432", User: "u", Password: "p", DBName: "billing", SSLMode: "disable",
		ConnMaxLifetime: 300,
	}}
	pg := PostgresConfig(cfg)
	assert.Equal(t, 5*time.Minute, pg.ConnMaxLifetime)
	assert.Equal(t, "pgx5://u:p@db:5432/billing?sslmode=disable", pg.URL("pgx5"))
}
