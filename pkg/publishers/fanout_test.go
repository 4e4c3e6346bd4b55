package publishers

import (
	"context"
	"errors"
	"testing"

	"github.com/samvad-hq/samvad-post-curator/internal/domain"
	"github.com/samvad-hq/samvad-post-curator/internal/logger"
)

type stubPublisher struct {
	id     string
	typ    string
	err    error
	calls  int
	closed bool
}

func (s *stubPublisher) ID() string   { return s.id }
func (s *stubPublisher) Type() string { return s.typ }
func (s *stubPublisher) Publish(context.Context, Event) error {
	s.calls++
	return s.err
}
func (s *stubPublisher) Close() error {
	s.closed = true
	return nil
}

func TestFanoutPublishAggregatesErrors(t *testing.T) {
	fanout := NewFanout([]Publisher{
		&stubPublisher{id: "ok", typ: "http"},
		&stubPublisher{id: "bad", typ: "http", err: errors.New("failed")},
	})

	res, err := fanout.Publish(context.Background(), testEvent())
	if res.Routed != 2 || res.Delivered != 1 {
		t.Fatalf("unexpected result %+v", res)
	}
	if res.OK() {
		t.Fatalf("partial delivery must not be OK")
	}
	if err == nil {
		t.Fatalf("expected aggregated error")
	}
}

func TestFanoutRoutesByPlatform(t *testing.T) {
	twitterOnly := &stubPublisher{id: "tw", typ: "http"}
	linkedinOnly := &stubPublisher{id: "li", typ: "http"}
	reg := NewRegistry(map[string]Builder{
		"stub": func(_ context.Context, cfg PublisherConfig, _ logger.Logger) (Publisher, error) {
			if cfg.ID == "tw" {
				return twitterOnly, nil
			}
			return linkedinOnly, nil
		},
	})
	pubs, err := BuildAll(context.Background(), reg, []PublisherConfig{
		{ID: "tw", Type: "stub", Platforms: []string{"twitter"}},
		{ID: "li", Type: "stub", Platforms: []string{"linkedin"}},
	}, nil)
	if err != nil {
		t.Fatalf("BuildAll: %v", err)
	}
	fanout := NewFanout(pubs)

	res, err := fanout.Publish(context.Background(), testEvent())
	if err != nil || !res.OK() || res.Routed != 1 {
		t.Fatalf("twitter event: res=%+v err=%v", res, err)
	}
	if twitterOnly.calls != 1 || linkedinOnly.calls != 0 {
		t.Fatalf("routing calls tw=%d li=%d", twitterOnly.calls, linkedinOnly.calls)
	}

	evt := testEvent()
	evt.Post.Platform = domain.PlatformFacebook
	res, err = fanout.Publish(context.Background(), evt)
	if err != nil || res.Routed != 0 || res.OK() {
		t.Fatalf("unrouted event: res=%+v err=%v", res, err)
	}

	if err := fanout.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if !twitterOnly.closed || !linkedinOnly.closed {
		t.Fatalf("routed publishers were not closed")
	}
}

func TestBuildAllWithDefaultRegistry(t *testing.T) {
	reg := DefaultRegistry()
	pubs, err := BuildAll(context.Background(), reg, []PublisherConfig{
		sanitizePublisherConfig(PublisherConfig{ID: "http", Type: TypeHTTP, HTTP: &HTTPPublisherConfig{URL: "https://example.com"}}),
	}, nil)
	if err != nil {
		t.Fatalf("BuildAll: %v", err)
	}
	if len(pubs) != 1 {
		t.Fatalf("expected 1 publisher, got %d", len(pubs))
	}
}

func TestBuildAllUnknownType(t *testing.T) {
	if _, err := BuildAll(context.Background(), DefaultRegistry(), []PublisherConfig{{ID: "x", Type: "carrier-pigeon"}}, nil); err == nil {
		t.Fatalf("expected error for unknown type")
	}
}
