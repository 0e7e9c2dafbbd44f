package session

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/olafkfreund/cosmic-ext-web-apps/internal/logging"
)

type recordingPersister struct {
	mu      sync.Mutex
	gate    chan struct{}
	appIDs  []string
	urls    []string
	blocked bool
}

func (p *recordingPersister) PersistLastURL(appID, url string) {
	if p.blocked {
		<-p.gate
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.appIDs = append(p.appIDs, appID)
	p.urls = append(p.urls, url)
}

func (p *recordingPersister) recorded() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.urls))
	copy(out, p.urls)
	return out
}

func TestSaverPersistsInOrder(t *testing.T) {
	p := &recordingPersister{}
	s := NewSaver(p, "Mail1234", logging.NewNop())

	s.SaveURL("https://x/1")
	s.SaveURL("https://x/2")
	s.SaveURL("https://x/2")
	s.Close()

	assert.Equal(t, []string{"https://x/1", "https://x/2", "https://x/2"}, p.recorded())
	assert.Equal(t, "Mail1234", p.appIDs[0])
}

func TestSaverDropsWhenQueueFull(t *testing.T) {
	p := &recordingPersister{gate: make(chan struct{}), blocked: true}
	s := NewSaver(p, "Mail1234", logging.NewNop())

	// One write stalls in the worker; the rest overflow the queue.
	for i := 0; i < queueDepth*4; i++ {
		s.SaveURL("https://x/spam")
	}

	close(p.gate)
	s.Close()

	got := p.recorded()
	assert.NotEmpty(t, got)
	assert.LessOrEqual(t, len(got), queueDepth+1, "overflow must drop, not block")
}

func TestSaverIgnoresSaveAfterClose(t *testing.T) {
	p := &recordingPersister{}
	s := NewSaver(p, "Mail1234", logging.NewNop())

	s.SaveURL("https://x/1")
	s.Close()

	assert.NotPanics(t, func() {
		s.SaveURL("https://x/late")
	})
	assert.Equal(t, []string{"https://x/1"}, p.recorded())
}

func TestSaverCloseIsIdempotent(t *testing.T) {
	p := &recordingPersister{}
	s := NewSaver(p, "Mail1234", logging.NewNop())

	s.SaveURL("https://x/1")
	s.Close()
	s.Close()

	assert.Equal(t, []string{"https://x/1"}, p.recorded())
}
