package config

import (
	"errors"
	"fmt"
	"io/fs"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/custodia-labs/campus-assist/internal/core/domain"
)

// EnvPrefix marks environment variables that map onto config paths:
// ASSIST_RETRIEVAL_TOP_K -> retrieval.top_k
const EnvPrefix = "ASSIST_"

// legacyEnv maps the deployment's established variable names to config paths.
// Prefixed variables take precedence over these.
var legacyEnv = map[string]string{
	"OPENAI_API_KEY":      "llm.api_key",
	"BACKEND_API_URL":     "backend.url",
	"FRONTEND_BASE_URL":   "frontend.base_url",
	"API_REQUEST_TIMEOUT": "backend.timeout",
	"DATABASE_URL":        "database.url",
	"REDIS_URL":           "redis.url",
	"JWT_SECRET":          "auth.jwt_secret",
	"PORT":                "server.port",
	"LOG_LEVEL":           "log.level",
	"FAQ_PATH":            "faq.path",
}

// Load reads defaults, then envFile (if it exists), then the environment.
// Variables already set in the environment win over the file.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: failed to read %s: %v", domain.ErrInvalidConfig, envFile, err)
		}
	}

	k := koanf.New(".")

	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if err := k.Load(env.Provider(".", env.Opt{
		TransformFunc: func(key, value string) (string, any) {
			return legacyEnv[key], value
		},
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := k.Load(env.Provider(".", env.Opt{
		Prefix: EnvPrefix,
		TransformFunc: func(key, value string) (string, any) {
			return transformEnvKey(strings.TrimPrefix(key, EnvPrefix)), value
		},
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			WeaklyTypedInput: true,
			Result:           &cfg,
			TagName:          "koanf",
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				secondsDurationHook,
				mapstructure.StringToTimeDurationHookFunc(),
				mapstructure.StringToSliceHookFunc(","),
			),
		},
	}); err != nil {
		return nil, fmt.Errorf("%w: failed to unmarshal configuration: %v", domain.ErrInvalidConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks struct tags and cross-field rules
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidConfig, err)
	}
	if err := c.Pipeline().Validate(); err != nil {
		return err
	}
	if c.Reranker.Enabled && c.Reranker.URL == "" {
		return fmt.Errorf("%w: reranker url is required when reranking is enabled", domain.ErrInvalidConfig)
	}
	return nil
}

// transformEnvKey converts RETRIEVAL_TOP_K to retrieval.top_k.
// The first segment names the section; the rest is the field.
func transformEnvKey(s string) string {
	parts := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return r == '_'
	})
	switch len(parts) {
	case 0:
		return ""
	case 1:
		return parts[0]
	default:
		return parts[0] + "." + strings.Join(parts[1:], "_")
	}
}

// secondsDurationHook reads bare numbers as seconds, so API_REQUEST_TIMEOUT=5
// means five seconds. Strings with units fall through to the duration hook.
func secondsDurationHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	if to != reflect.TypeOf(time.Duration(0)) || from.Kind() != reflect.String {
		return data, nil
	}
	s := strings.TrimSpace(data.(string))
	secs, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return data, nil
	}
	return time.Duration(secs * float64(time.Second)), nil
}
