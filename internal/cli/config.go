package cli

import (
	"fmt"
	"strings"

	"github.com/tessro/prdchat/internal/config"
	"github.com/tessro/prdchat/internal/transport"
)

// envFile is read from the working directory before environment overrides
// are applied.
const envFile = ".env"

// loadConfig resolves the effective configuration. Precedence, highest
// first: flags, environment (including .env), config file, defaults.
func loadConfig(path, baseURLFlag, logLevelFlag string) (*config.GlobalConfig, error) {
	if err := config.LoadEnvFile(envFile); err != nil {
		return nil, fmt.Errorf("load %s: %w", envFile, err)
	}

	var (
		fileCfg *config.GlobalConfig
		err     error
	)
	if path != "" {
		fileCfg, err = config.LoadGlobalConfigFromPath(path)
	} else {
		fileCfg, err = config.LoadGlobalConfig()
	}
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	c, err := fileCfg.WithEnv()
	if err != nil {
		return nil, err
	}
	if v := strings.TrimSpace(baseURLFlag); v != "" {
		c.Server.BaseURL = v
	}
	if v := strings.TrimSpace(logLevelFlag); v != "" {
		c.LogLevel = v
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// newClient creates a backend client for c.
func newClient(c *config.GlobalConfig) *transport.Client {
	return transport.New(c.GetBaseURL(), transport.WithTimeout(c.GetRequestTimeout()))
}

// resolveRepo picks the repository from the flag or the config.
func resolveRepo(flag string, c *config.GlobalConfig) (string, error) {
	repo := strings.TrimSpace(flag)
	if repo == "" {
		repo = c.GetRepo()
	}
	if err := config.ValidateRepo(repo); err != nil {
		return "", fmt.Errorf("%w (use --repo or set %s)", err, config.EnvRepo)
	}
	return repo, nil
}
