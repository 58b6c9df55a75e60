package main

import (
	"fmt"
	"strings"
	"sync"

	"github.com/spacesedan/commentflow/config"
	"github.com/spacesedan/commentflow/internal/logging"
	"github.com/spacesedan/commentflow/internal/sentiment"
)

type commandFlags struct {
	env      string
	apiKey   string
	backend  string
	policy   string
	logLevel string
}

type commandContext struct {
	flags *commandFlags

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(flags *commandFlags) *commandContext {
	return &commandContext{flags: flags}
}

// ensureConfig loads the env file, reads the environment and applies flag
// overrides once per process.
func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		env := strings.TrimSpace(c.flags.env)
		if env == "" {
			env = config.AppEnv()
		}
		config.LoadEnv(env)

		cfg := config.Load()
		cfg.Env = env
		if v := strings.TrimSpace(c.flags.backend); v != "" {
			cfg.Classifier.Backend = v
		}
		if v := strings.TrimSpace(c.flags.policy); v != "" {
			cfg.SummaryPolicy = v
		}
		if v := strings.TrimSpace(c.flags.logLevel); v != "" {
			cfg.LogLevel = v
		}
		logging.InitLogger(cfg.LogLevel)

		if err := validateConfig(&cfg); err != nil {
			c.configErr = err
			return
		}
		c.config = &cfg
	})
	return c.config, c.configErr
}

// validateConfig rejects an unknown backend or summary policy before any
// client is built.
func validateConfig(cfg *config.Config) error {
	if _, err := sentiment.ParseSummaryPolicy(cfg.SummaryPolicy); err != nil {
		return err
	}
	switch strings.ToLower(cfg.Classifier.Backend) {
	case BACKEND_VADER, BACKEND_HUGOT, BACKEND_HUGGINGFACE, BACKEND_OPENAI:
		return nil
	default:
		return fmt.Errorf("%w: %q", errUnknownBackend, cfg.Classifier.Backend)
	}
}
