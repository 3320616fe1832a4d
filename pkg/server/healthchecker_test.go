package server

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPingHealthChecker(t *testing.T) {
	ok := NewPingHealthChecker("storage", func(context.Context) error { return nil })
	assert.True(t, ok.Healthy(context.Background()))

	down := NewPingHealthChecker("storage", func(context.Context) error { return errors.New("refused") })
	assert.False(t, down.Healthy(context.Background()))

	assert.True(t, NewOkHealthChecker().Healthy(context.Background()))
}
