package configs

import (
	"errors"
	"fmt"
	"strings"

	"metrics-sink/internal/shared/validators"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment overrides, e.g. METRICS_SINK_ELASTICSEARCH_URI.
const EnvPrefix = "METRICS_SINK"

var defaults = map[string]any{
	"server.port":                8080,
	"server.read_header_timeout": 5,
	"server.read_timeout":        10,
	"server.write_timeout":       10,
	"server.idle_timeout":        60,

	"log.level": "info",

	"elasticsearch.uri":               "",
	"elasticsearch.index":             "logs-default",
	"elasticsearch.username":          "",
	"elasticsearch.password":          "",
	"elasticsearch.compress_requests": false,
	"elasticsearch.request_timeout":   30,

	"pipeline.max_batch_size":   1000,
	"pipeline.flush_interval":   5,
	"pipeline.queue_capacity":   10000,
	"pipeline.poll_timeout_ms":  100,
	"pipeline.error_backoff_ms": 1000,
	"pipeline.shutdown_timeout": 10,

	"dead_letter.enabled":   false,
	"dead_letter.driver":    "",
	"dead_letter.root_dir":  "",
	"dead_letter.s3_bucket": "",
	"dead_letter.s3_region": "",
	"dead_letter.s3_prefix": "",
}

// LoadConfig reads configuration from file, applies defaults and environment overrides, and validates it.
var LoadConfig = func(configPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read from file
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %q: %w", configPath, err)
	}

	// Unmarshal into Config
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func validate(cfg *Config) error {
	var validationErrors []string

	validate := validators.New()
	if err := validate.Struct(cfg); err != nil {
		var ve validators.ValidationErrors
		if !errors.As(err, &ve) {
			return fmt.Errorf("config validation failed: %w", err)
		}
		for _, e := range ve {
			validationErrors = append(validationErrors, formatValidationError(e))
		}
	}

	if cfg.DeadLetter.Enabled && cfg.DeadLetter.Driver == "" {
		validationErrors = append(validationErrors, "deadletter.driver (required)")
	}

	if len(validationErrors) > 0 {
		return fmt.Errorf("config validation failed: %s", strings.Join(validationErrors, ", "))
	}
	return nil
}

// formatValidationError formats a single validation error into a readable string.
func formatValidationError(e validators.FieldError) string {
	field := e.Field()
	tag := e.Tag()

	// Build field path (e.g., "server.port")
	if e.StructNamespace() != "" {
		// Extract nested field path (e.g., "Config.Server.Port" -> "server.port")
		parts := strings.Split(e.StructNamespace(), ".")
		if len(parts) >= 2 {
			field = strings.ToLower(strings.Join(parts[1:], "."))
		}
	}

	switch tag {
	case "required", "required_if":
		return fmt.Sprintf("%s (required)", field)
	case "min", "max", "oneof", "excludesall":
		return fmt.Sprintf("%s (%s=%s)", field, tag, e.Param())
	default:
		return fmt.Sprintf("%s (%s)", field, tag)
	}
}
