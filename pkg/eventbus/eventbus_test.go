package eventbus

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type pingEvent struct{}

func (pingEvent) Name() string { return "ping" }

func TestBus_PublishReachesAllListeners(t *testing.T) {
	bus := New(zap.NewNop())
	var calls atomic.Int32

	bus.Subscribe("ping", func(ctx context.Context, e Event) error {
		calls.Add(1)
		return nil
	})
	bus.Subscribe("ping", func(ctx context.Context, e Event) error {
		calls.Add(1)
		return errors.New("обработчик упал")
	})
	bus.Subscribe("other", func(ctx context.Context, e Event) error {
		calls.Add(100)
		return nil
	})

	bus.Publish(pingEvent{})
	bus.Wait()

	assert.Equal(t, int32(2), calls.Load())
}
