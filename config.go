package session

import (
	"context"

	"github.com/sethvargo/go-envconfig"
)

// EnvConfig is the environment-driven Config implementation. Hosts that
// already carry their own configuration layer can implement Config directly
// instead.
type EnvConfig struct {
	LoginPath        string `env:"SESSION_LOGIN_PATH,       default=/login"`
	PublicLanding    string `env:"SESSION_PUBLIC_LANDING,   default=/"`
	RejectedRouteKey string `env:"SESSION_REJECTED_ROUTE,   default=rejected_route"`
	StorageNamespace string `env:"SESSION_STORAGE_NS,       default=session"`
	LoginTimeout     int    `env:"SESSION_LOGIN_TIMEOUT,    default=30"`
}

// LoadConfig reads configuration from environment variables.
func LoadConfig(ctx context.Context) (*EnvConfig, error) {
	var cfg EnvConfig
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *EnvConfig) GetLoginPath() string {
	return c.LoginPath
}

func (c *EnvConfig) GetPublicLanding() string {
	return c.PublicLanding
}

func (c *EnvConfig) GetRejectedRouteKey() string {
	return c.RejectedRouteKey
}

func (c *EnvConfig) GetStorageNamespace() string {
	return c.StorageNamespace
}

// GetLoginTimeout returns the per-attempt deadline in seconds.
func (c *EnvConfig) GetLoginTimeout() int {
	return c.LoginTimeout
}

var _ Config = (*EnvConfig)(nil)
