package notify

import (
	"errors"
	"time"

	"github.com/DjordjeVuckovic/news-digest/pkg/config/env"
)

const defaultTimeout = 10 * time.Second

type Config struct {
	Provider Provider
	// FCMEndpoint overrides the send URL derived from the credentials' project.
	FCMEndpoint string
	// FCMCredentialsFile is a Google service-account key with FCM access.
	FCMCredentialsFile string
	Timeout            time.Duration
}

func LoadConfig() (*Config, error) {
	timeout, err := env.Duration("NOTIFY_TIMEOUT", defaultTimeout)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Provider:           Provider(env.String("NOTIFY_PROVIDER", string(ProviderLog))),
		FCMEndpoint:        env.String("FCM_ENDPOINT", ""),
		FCMCredentialsFile: env.String("FCM_CREDENTIALS_FILE", ""),
		Timeout:            timeout,
	}
	if cfg.Provider == ProviderFCM && cfg.FCMCredentialsFile == "" {
		return nil, errors.New("FCM_CREDENTIALS_FILE is required for the fcm provider")
	}
	return cfg, nil
}
