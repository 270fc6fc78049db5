package configs

import (
	"strings"
	"time"
)

// Config holds all configuration for the application.
type Config struct {
	Server        ServerConfig        `mapstructure:"server" validate:"required"`
	Log           LogConfig           `mapstructure:"log" validate:"required"`
	Elasticsearch ElasticsearchConfig `mapstructure:"elasticsearch" validate:"required"`
	Pipeline      PipelineConfig      `mapstructure:"pipeline" validate:"required"`
	DeadLetter    DeadLetterConfig    `mapstructure:"dead_letter"`
}

// ServerConfig holds ops HTTP server configuration.
type ServerConfig struct {
	Port              int `mapstructure:"port" validate:"required,min=1,max=65535"`
	ReadHeaderTimeout int `mapstructure:"read_header_timeout" validate:"required,min=1"` // seconds
	ReadTimeout       int `mapstructure:"read_timeout" validate:"required,min=1"`        // seconds (headers+body)
	WriteTimeout      int `mapstructure:"write_timeout" validate:"required,min=1"`       // seconds (response)
	IdleTimeout       int `mapstructure:"idle_timeout" validate:"required,min=1"`        // seconds (keep-alive)
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level string `mapstructure:"level" validate:"required"`
}

// ElasticsearchConfig holds the bulk backend connection.
type ElasticsearchConfig struct {
	URI              string `mapstructure:"uri" validate:"required"` // comma-separated for several nodes
	Index            string `mapstructure:"index" validate:"required,lowercase,excludesall=0x2C*?<>0x7C# /"`
	Username         string `mapstructure:"username"`
	Password         string `mapstructure:"password"`
	CompressRequests bool   `mapstructure:"compress_requests"`
	RequestTimeout   int    `mapstructure:"request_timeout" validate:"required,min=1"` // seconds
}

// Addresses splits URI into node addresses.
func (c ElasticsearchConfig) Addresses() []string {
	var addrs []string
	for _, a := range strings.Split(c.URI, ",") {
		if a = strings.TrimSpace(a); a != "" {
			addrs = append(addrs, a)
		}
	}
	return addrs
}

// PipelineConfig holds batching and flush configuration.
type PipelineConfig struct {
	MaxBatchSize    int `mapstructure:"max_batch_size" validate:"required,min=1"`
	FlushInterval   int `mapstructure:"flush_interval" validate:"required,min=1"` // seconds
	QueueCapacity   int `mapstructure:"queue_capacity" validate:"required,min=1"`
	PollTimeoutMs   int `mapstructure:"poll_timeout_ms" validate:"required,min=1"`
	ErrorBackoffMs  int `mapstructure:"error_backoff_ms" validate:"min=0"`
	ShutdownTimeout int `mapstructure:"shutdown_timeout" validate:"required,min=1"` // seconds
}

func (c PipelineConfig) FlushIntervalDuration() time.Duration {
	return time.Duration(c.FlushInterval) * time.Second
}

func (c PipelineConfig) PollTimeout() time.Duration {
	return time.Duration(c.PollTimeoutMs) * time.Millisecond
}

func (c PipelineConfig) ErrorBackoff() time.Duration {
	return time.Duration(c.ErrorBackoffMs) * time.Millisecond
}

func (c PipelineConfig) ShutdownTimeoutDuration() time.Duration {
	return time.Duration(c.ShutdownTimeout) * time.Second
}

// DeadLetterConfig holds the optional archive for undelivered records.
type DeadLetterConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Driver   string `mapstructure:"driver" validate:"omitempty,oneof=file s3"`
	RootDir  string `mapstructure:"root_dir" validate:"required_if=Driver file"`
	S3Bucket string `mapstructure:"s3_bucket" validate:"required_if=Driver s3"`
	S3Region string `mapstructure:"s3_region" validate:"required_if=Driver s3"`
	S3Prefix string `mapstructure:"s3_prefix"`
}
