package server

import (
	"context"
	"log/slog"
)

type HealthChecker interface {
	Healthy(ctx context.Context) bool
}

type OkHealthChecker struct {
}

func NewOkHealthChecker() *OkHealthChecker {
	return &OkHealthChecker{}
}

func (hc *OkHealthChecker) Healthy(ctx context.Context) bool {
	return true
}

// PingHealthChecker is healthy while ping succeeds.
type PingHealthChecker struct {
	name string
	ping func(ctx context.Context) error
}

func NewPingHealthChecker(name string, ping func(ctx context.Context) error) *PingHealthChecker {
	return &PingHealthChecker{name: name, ping: ping}
}

func (hc *PingHealthChecker) Healthy(ctx context.Context) bool {
	if err := hc.ping(ctx); err != nil {
		slog.Warn("health check failed", "check", hc.name, "error", err)
		return false
	}
	return true
}
