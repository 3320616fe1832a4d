package testing

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/elasticsearch"
	"github.com/testcontainers/testcontainers-go/wait"
)

const defaultESImage = "docker.elastic.co/elasticsearch/elasticsearch:8.12.0"

type ESContainer struct {
	Container testcontainers.Container
	// Address is the plain http endpoint of the single node.
	Address string
}

type ESConfig struct {
	Image          string
	StartupTimeout time.Duration
}

// NewESContainer starts a single-node Elasticsearch with security disabled.
func NewESContainer(ctx context.Context, cfg ESConfig) (*ESContainer, error) {
	if cfg.Image == "" {
		cfg.Image = defaultESImage
	}
	if cfg.StartupTimeout <= 0 {
		cfg.StartupTimeout = 90 * time.Second
	}

	esContainer, err := elasticsearch.Run(ctx,
		cfg.Image,
		elasticsearch.WithPassword(""),
		testcontainers.WithEnv(map[string]string{
			"xpack.security.enabled": "false",
			"ES_JAVA_OPTS":           "-Xms512m -Xmx512m",
		}),
		testcontainers.WithWaitStrategy(
			wait.ForHTTP("/_cluster/health").
				WithPort("9200").
				WithStartupTimeout(cfg.StartupTimeout),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to start elasticsearch container: %w", err)
	}

	host, err := esContainer.Host(ctx)
	if err != nil {
		_ = testcontainers.TerminateContainer(esContainer)
		return nil, fmt.Errorf("failed to get elasticsearch host: %w", err)
	}
	port, err := esContainer.MappedPort(ctx, "9200")
	if err != nil {
		_ = testcontainers.TerminateContainer(esContainer)
		return nil, fmt.Errorf("failed to get elasticsearch port: %w", err)
	}

	return &ESContainer{
		Container: esContainer,
		Address:   fmt.Sprintf("http://%s:%s", host, port.Port()),
	}, nil
}

func NewESContainerWithCleanup(ctx context.Context, tb testing.TB) *ESContainer {
	tb.Helper()

	container, err := NewESContainer(ctx, ESConfig{})
	if err != nil {
		tb.Fatalf("failed to create elasticsearch container: %v", err)
	}

	tb.Cleanup(func() {
		if err := testcontainers.TerminateContainer(container.Container); err != nil {
			tb.Logf("failed to terminate elasticsearch container: %v", err)
		}
	})

	return container
}
