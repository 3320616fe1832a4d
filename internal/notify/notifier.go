package notify

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
)

// Message is one push notification addressed to a device token.
type Message struct {
	Token string
	Title string
	Body  string
	Data  map[string]string
}

type Notifier interface {
	Notify(ctx context.Context, msg Message) error
}

type Provider string

const (
	ProviderLog Provider = "log"
	ProviderFCM Provider = "fcm"
)

// LogNotifier only records what would have been sent.
type LogNotifier struct{}

func (LogNotifier) Notify(_ context.Context, msg Message) error {
	slog.Info("Would send push notification", "title", msg.Title, "body", msg.Body)
	return nil
}

func New(cfg Config) (Notifier, error) {
	switch cfg.Provider {
	case ProviderLog, "":
		return LogNotifier{}, nil
	case ProviderFCM:
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		return NewFCMClientFromCredentials(cfg.FCMCredentialsFile, cfg.FCMEndpoint, &http.Client{Timeout: timeout})
	default:
		return nil, fmt.Errorf("unsupported notify provider: %s", cfg.Provider)
	}
}
