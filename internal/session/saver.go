// Package session hands session-restore URL writes off the UI thread.
//
// The IPC callback runs on the engine's UI thread, so disk writes are
// queued to a worker goroutine and treated as fire-and-forget. Under
// pressure newer URLs supersede dropped ones anyway; last-writer-wins.
package session

import (
	"sync"

	"go.uber.org/zap"

	"github.com/olafkfreund/cosmic-ext-web-apps/internal/logging"
)

const queueDepth = 16

// URLPersister writes the last-visited URL for an app.
type URLPersister interface {
	PersistLastURL(appID, url string)
}

// Saver serializes best-effort URL persists onto one worker goroutine.
type Saver struct {
	persister URLPersister
	appID     string
	queue     chan string
	log       *logging.Logger

	closeOnce sync.Once
	stop      chan struct{}
	done      chan struct{}
}

// NewSaver starts the worker.
func NewSaver(persister URLPersister, appID string, log *logging.Logger) *Saver {
	if log == nil {
		log = logging.NewNop()
	}
	s := &Saver{
		persister: persister,
		appID:     appID,
		queue:     make(chan string, queueDepth),
		log:       log,
		stop:      make(chan struct{}),
		done:      make(chan struct{}),
	}
	go s.run()
	return s
}

// SaveURL queues a persist without blocking. A full queue drops the URL;
// the next report will carry a fresher one. Calls after Close are no-ops.
func (s *Saver) SaveURL(url string) {
	select {
	case <-s.stop:
		return
	default:
	}
	select {
	case s.queue <- url:
	default:
		s.log.Debug("Session save queue full, dropping URL", zap.String("url", url))
	}
}

// Close drains pending writes and stops the worker.
func (s *Saver) Close() {
	s.closeOnce.Do(func() {
		close(s.stop)
	})
	<-s.done
}

func (s *Saver) run() {
	defer close(s.done)
	for {
		select {
		case url := <-s.queue:
			s.persister.PersistLastURL(s.appID, url)
		case <-s.stop:
			for {
				select {
				case url := <-s.queue:
					s.persister.PersistLastURL(s.appID, url)
				default:
					return
				}
			}
		}
	}
}
