package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Logger   LoggerConfig
	Postgres PostgresConfig
	Redis    RedisConfig
	Kafka    KafkaConfig
	Elastic  ElasticsearchConfig
	Billing  BillingConfig
}

type ServerConfig struct {
	AppEnv          string
	GRPCPort        string
	HTTPPort        string
	ShutdownTimeout time.Duration
}

type LoggerConfig struct {
	Level             string
	Encoding          string
	DisableCaller     bool
	DisableStacktrace bool
}

type PostgresConfig struct {
	Host            string
	Port            string
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime int
	ConnMaxIdleTime int
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	// QueueDB is the database asynq keeps its task queues in.
	QueueDB int
}

type KafkaConfig struct {
	Brokers []string
	Topic   string
	GroupID string
}

type ElasticsearchConfig struct {
	Addresses []string
	Username  string
	Password  string
}

type BillingConfig struct {
	AllowOverpayment  bool
	DefaultCurrency   string
	PaymentTermDays   int
	LockTTL           time.Duration
	WorkerConcurrency int
}

func (c *Config) IsDevelopment() bool {
	return c.Server.AppEnv == "development" || c.Server.AppEnv == "dev"
}

// LoadEnv reads configuration from the environment. Call godotenv.Load first
// when a .env file should be honoured.
func LoadEnv() *Config {
	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	return &Config{
		Server: ServerConfig{
			AppEnv:          v.GetString("APP_ENV"),
			GRPCPort:        v.GetString("GRPC_PORT"),
			HTTPPort:        v.GetString("HTTP_PORT"),
			ShutdownTimeout: v.GetDuration("SHUTDOWN_TIMEOUT"),
		},
		Logger: LoggerConfig{
			Level:             v.GetString("LOGGER_LEVEL"),
			Encoding:          v.GetString("LOGGER_ENCODING"),
			DisableCaller:     v.GetBool("LOGGER_DISABLE_CALLER"),
			DisableStacktrace: v.GetBool("LOGGER_DISABLE_STACKTRACE"),
		},
		Postgres: PostgresConfig{
			Host:            v.GetString("POSTGRES_HOST"),
			Port:            v.GetString("POSTGRES_PORT"),
			User:            v.GetString("POSTGRES_USER"),
			Password:        v.GetString("POSTGRES_PASSWORD"),
			DBName:          v.GetString("POSTGRES_DB"),
			SSLMode:         v.GetString("POSTGRES_SSLMODE"),
			MaxOpenConns:    v.GetInt("POSTGRES_MAX_OPEN_CONNS"),
			MaxIdleConns:    v.GetInt("POSTGRES_MAX_IDLE_CONNS"),
			ConnMaxLifetime: v.GetInt("POSTGRES_CONN_MAX_LIFETIME"),
			ConnMaxIdleTime: v.GetInt("POSTGRES_CONN_MAX_IDLE_TIME"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("REDIS_ADDR"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
			QueueDB:  v.GetInt("REDIS_QUEUE_DB"),
		},
		Kafka: KafkaConfig{
			Brokers: splitList(v.GetString("KAFKA_BROKERS")),
			Topic:   v.GetString("KAFKA_TOPIC_ORDERS"),
			GroupID: v.GetString("KAFKA_GROUP_BILLING"),
		},
		Elastic: ElasticsearchConfig{
			Addresses: splitList(v.GetString("ELASTICSEARCH_ADDRESSES")),
			Username:  v.GetString("ELASTICSEARCH_USERNAME"),
			Password:  v.GetString("ELASTICSEARCH_PASSWORD"),
		},
		Billing: BillingConfig{
			AllowOverpayment:  v.GetBool("BILLING_ALLOW_OVERPAYMENT"),
			DefaultCurrency:   strings.ToUpper(v.GetString("BILLING_DEFAULT_CURRENCY")),
			PaymentTermDays:   v.GetInt("BILLING_PAYMENT_TERM_DAYS"),
			LockTTL:           v.GetDuration("BILLING_LOCK_TTL"),
			WorkerConcurrency: v.GetInt("BILLING_WORKER_CONCURRENCY"),
		},
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_ENV", "dev")
	v.SetDefault("GRPC_PORT", ":8083")
	v.SetDefault("HTTP_PORT", ":8084")
	v.SetDefault("SHUTDOWN_TIMEOUT", "10s")

	v.SetDefault("LOGGER_LEVEL", "debug")
	v.SetDefault("LOGGER_ENCODING", "console")
	v.SetDefault("LOGGER_DISABLE_CALLER", false)
	v.SetDefault("LOGGER_DISABLE_STACKTRACE", true)

	v.SetDefault("POSTGRES_HOST", "localhost")
	v.SetDefault("POSTGRES_PORT", "5433")
	v.SetDefault("POSTGRES_USER", "omnipos")
	v.SetDefault("POSTGRES_PASSWORD", "omnipos")
	v.SetDefault("POSTGRES_DB", "omnipos_billing")
	v.SetDefault("POSTGRES_SSLMODE", "disable")
	v.SetDefault("POSTGRES_MAX_OPEN_CONNS", 10)
	v.SetDefault("POSTGRES_MAX_IDLE_CONNS", 5)
	v.SetDefault("POSTGRES_CONN_MAX_LIFETIME", 300)
	v.SetDefault("POSTGRES_CONN_MAX_IDLE_TIME", 60)

	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("REDIS_QUEUE_DB", 1)

	v.SetDefault("KAFKA_BROKERS", "localhost:9092")
	v.SetDefault("KAFKA_TOPIC_ORDERS", "orders.events")
	v.SetDefault("KAFKA_GROUP_BILLING", "billing")

	v.SetDefault("ELASTICSEARCH_ADDRESSES", "http://localhost:9200")
	v.SetDefault("ELASTICSEARCH_USERNAME", "")
	v.SetDefault("ELASTICSEARCH_PASSWORD", "")

	v.SetDefault("BILLING_ALLOW_OVERPAYMENT", false)
	v.SetDefault("BILLING_DEFAULT_CURRENCY", "INR")
	v.SetDefault("BILLING_PAYMENT_TERM_DAYS", 0)
	v.SetDefault("BILLING_LOCK_TTL", "5s")
	v.SetDefault("BILLING_WORKER_CONCURRENCY", 5)
}

// viper's GetStringSlice splits on whitespace; env lists here are comma
// separated.
func splitList(raw string) []string {
	var out []string
	for _, s := range strings.Split(raw, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
