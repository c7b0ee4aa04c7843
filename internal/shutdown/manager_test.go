package shutdown

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type recorder struct {
	mu    sync.Mutex
	order []string
}

func (r *recorder) closer(name string, err error) closerFunc {
	return func() error {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.order = append(r.order, name)
		return err
	}
}

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

func TestShutdownReverseOrder(t *testing.T) {
	rec := &recorder{}
	m := NewManager(context.Background(), nil)
	m.Register("camera", rec.closer("camera", nil))
	m.Register("serial", rec.closer("serial", errors.New("port busy")))

	m.Shutdown()
	m.Shutdown()

	assert.Equal(t, []string{"serial", "camera"}, rec.order)
	assert.ErrorIs(t, m.Context().Err(), context.Canceled)

	select {
	case <-m.Done():
	default:
		t.Fatal("done channel not closed")
	}
}

func TestShutdownTimeout(t *testing.T) {
	block := make(chan struct{})
	defer close(block)

	m := NewManager(context.Background(), nil)
	m.SetTimeout(20 * time.Millisecond)
	m.Register("stuck", closerFunc(func() error {
		<-block
		return nil
	}))

	start := time.Now()
	m.Shutdown()
	assert.Less(t, time.Since(start), time.Second)
}

func TestParentCancellation(t *testing.T) {
	parent, cancel := context.WithCancel(context.Background())
	m := NewManager(parent, nil)
	cancel()
	assert.ErrorIs(t, m.Context().Err(), context.Canceled)
}

func TestListenStop(t *testing.T) {
	m := NewManager(context.Background(), nil)
	stop := m.Listen()
	stop()
	stop()
	assert.NoError(t, m.Context().Err())
}
