package workers

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type funcWorker struct {
	name string
	fn   func(ctx context.Context) error
}

func (f funcWorker) Name() string                    { return f.name }
func (f funcWorker) Start(ctx context.Context) error { return f.fn(ctx) }

func blockUntilDone(ctx context.Context) error {
	<-ctx.Done()
	return nil
}

func TestGroupStopsOnContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	g := Group{
		funcWorker{name: "a", fn: blockUntilDone},
		funcWorker{name: "b", fn: blockUntilDone},
	}

	done := make(chan error, 1)
	go func() { done <- g.Start(ctx) }()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("group did not stop")
	}
}

func TestGroupCancelsOthersOnFailure(t *testing.T) {
	boom := errors.New("boom")
	stopped := make(chan struct{})

	g := Group{
		funcWorker{name: "failing", fn: func(context.Context) error { return boom }},
		funcWorker{name: "waiting", fn: func(ctx context.Context) error {
			<-ctx.Done()
			close(stopped)
			return nil
		}},
	}

	err := g.Start(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "failing: boom")

	select {
	case <-stopped:
	default:
		t.Fatal("waiting worker was not stopped")
	}
}
