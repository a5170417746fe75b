package shutdown

import (
	"sync"
	"testing"
	"time"

	"companion-shell/internal/logger"

	"github.com/stretchr/testify/assert"
)

type recorder struct {
	mu    sync.Mutex
	order []string
}

func (r *recorder) add(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.order = append(r.order, name)
}

type component struct {
	name  string
	rec   *recorder
	block chan struct{}
}

func (c *component) Shutdown() {
	c.rec.add(c.name)
	if c.block != nil {
		<-c.block
	}
}

func TestShutdownRunsInReverseOrderOnce(t *testing.T) {
	rec := &recorder{}
	m := NewManager(logger.Nop())
	m.Register(&component{name: "supervisor", rec: rec})
	m.Register(&component{name: "lifecycle", rec: rec})

	m.Shutdown()
	m.Shutdown()

	assert.Equal(t, []string{"lifecycle", "supervisor"}, rec.order)

	select {
	case <-m.Done():
	default:
		t.Fatal("done channel not closed")
	}
}

func TestShutdownSkipsStuckComponent(t *testing.T) {
	rec := &recorder{}
	m := NewManager(logger.Nop())
	m.timeout = 20 * time.Millisecond

	block := make(chan struct{})
	defer close(block)
	m.Register(&component{name: "fast", rec: rec})
	m.Register(&component{name: "stuck", rec: rec, block: block})

	finished := make(chan struct{})
	go func() {
		m.Shutdown()
		close(finished)
	}()

	select {
	case <-finished:
	case <-time.After(2 * time.Second):
		t.Fatal("shutdown blocked on a stuck component")
	}
	assert.Eventually(t, func() bool {
		rec.mu.Lock()
		defer rec.mu.Unlock()
		return len(rec.order) == 2
	}, time.Second, 5*time.Millisecond)
}

func TestListenIsIdempotent(t *testing.T) {
	m := NewManager(logger.Nop())
	m.Listen()
	m.Listen()
	m.Shutdown()
}
