package ipc

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

type recordedNote struct {
	summary string
	body    string
}

type fakeNotifier struct {
	notes []recordedNote
	err   error
}

func (f *fakeNotifier) Notify(summary, body string) error {
	f.notes = append(f.notes, recordedNote{summary, body})
	return f.err
}

type fakeSaver struct {
	urls []string
}

func (f *fakeSaver) SaveURL(url string) {
	f.urls = append(f.urls, url)
}

func newTestGateway(cfg Config) (*Gateway, *fakeNotifier, *fakeSaver) {
	n := &fakeNotifier{}
	s := &fakeSaver{}
	return NewGateway(cfg, n, s, nil), n, s
}

func TestNotificationForwarded(t *testing.T) {
	g, n, _ := newTestGateway(Config{AppTitle: "Mail", ForwardNotifications: true})

	g.Handle(`{"type":"notification","title":"New message","body":"hello"}`)

	assert.Len(t, n.notes, 1)
	assert.Equal(t, "Mail — New message", n.notes[0].summary)
	assert.Equal(t, "hello", n.notes[0].body)
}

func TestNotificationDefaultTitle(t *testing.T) {
	g, n, _ := newTestGateway(Config{AppTitle: "Mail", ForwardNotifications: true})

	g.Handle(`{"type":"notification","body":"hello"}`)

	assert.Len(t, n.notes, 1)
	assert.Equal(t, "Mail — Notification", n.notes[0].summary)
}

func TestNotificationEmptyTitleKept(t *testing.T) {
	g, n, _ := newTestGateway(Config{AppTitle: "Mail", ForwardNotifications: true})

	// An explicit empty title is not the same as a missing one.
	g.Handle(`{"type":"notification","title":"","body":"b"}`)

	assert.Len(t, n.notes, 1)
	assert.Equal(t, "Mail — ", n.notes[0].summary)
}

func TestNotificationWrongTypedFieldsFallBack(t *testing.T) {
	g, n, _ := newTestGateway(Config{AppTitle: "Mail", ForwardNotifications: true})

	// A non-string title degrades to the default; the rest of the message
	// still goes through.
	g.Handle(`{"type":"notification","title":123,"body":"B"}`)
	g.Handle(`{"type":"notification","title":"T","body":{"nested":true}}`)
	g.Handle(`{"type":"notification","title":null,"body":null}`)

	assert.Len(t, n.notes, 3)
	assert.Equal(t, "Mail — Notification", n.notes[0].summary)
	assert.Equal(t, "B", n.notes[0].body)
	assert.Equal(t, "Mail — T", n.notes[1].summary)
	assert.Equal(t, "", n.notes[1].body)
	assert.Equal(t, "Mail — Notification", n.notes[2].summary)
}

func TestNotificationGated(t *testing.T) {
	g, n, _ := newTestGateway(Config{AppTitle: "Mail", ForwardNotifications: false})

	g.Handle(`{"type":"notification","title":"T","body":"B"}`)

	assert.Empty(t, n.notes)
}

func TestNotificationErrorSwallowed(t *testing.T) {
	n := &fakeNotifier{err: errors.New("bus gone")}
	g := NewGateway(Config{AppTitle: "Mail", ForwardNotifications: true}, n, nil, nil)

	assert.NotPanics(t, func() {
		g.Handle(`{"type":"notification","title":"T"}`)
	})
	assert.Len(t, n.notes, 1)
}

func TestRepeatedNotificationsAreDistinct(t *testing.T) {
	g, n, _ := newTestGateway(Config{AppTitle: "Mail", ForwardNotifications: true})

	g.Handle(`{"type":"notification","title":"T","body":"B"}`)
	g.Handle(`{"type":"notification","title":"T","body":"B"}`)

	assert.Len(t, n.notes, 2)
}

func TestSaveURLForwarded(t *testing.T) {
	g, _, s := newTestGateway(Config{RestoreSession: true})

	g.Handle(`{"type":"save_url","url":"https://example.com/a"}`)
	g.Handle(`{"type":"save_url","url":"https://example.com/b"}`)

	assert.Equal(t, []string{"https://example.com/a", "https://example.com/b"}, s.urls)
}

func TestSaveURLGated(t *testing.T) {
	g, _, s := newTestGateway(Config{RestoreSession: false})

	g.Handle(`{"type":"save_url","url":"https://example.com"}`)

	assert.Empty(t, s.urls)
}

func TestSaveURLEmptyIgnored(t *testing.T) {
	g, _, s := newTestGateway(Config{RestoreSession: true})

	g.Handle(`{"type":"save_url","url":""}`)
	g.Handle(`{"type":"save_url"}`)
	g.Handle(`{"type":"save_url","url":42}`)

	assert.Empty(t, s.urls)
}

func TestMediaAndBadgeHaveNoSideEffects(t *testing.T) {
	g, n, s := newTestGateway(Config{ForwardNotifications: true, RestoreSession: true})

	g.Handle(`{"type":"media","state":"playing"}`)
	g.Handle(`{"type":"badge","count":7}`)

	assert.Empty(t, n.notes)
	assert.Empty(t, s.urls)
}

func TestGarbageDropped(t *testing.T) {
	g, n, s := newTestGateway(Config{ForwardNotifications: true, RestoreSession: true})

	for _, raw := range []string{
		"not json",
		"",
		"42",
		`{"type":"unknown","url":"https://example.com"}`,
		`{"title":"no type"}`,
		`{"type":"badge","count":"NaN"}`,
	} {
		assert.NotPanics(t, func() { g.Handle(raw) }, "payload %q", raw)
	}

	assert.Empty(t, n.notes)
	assert.Empty(t, s.urls)
}

func TestNilCollaborators(t *testing.T) {
	g := NewGateway(Config{ForwardNotifications: true, RestoreSession: true}, nil, nil, nil)

	assert.NotPanics(t, func() {
		g.Handle(`{"type":"notification","title":"T"}`)
		g.Handle(`{"type":"save_url","url":"https://example.com"}`)
	})
}
