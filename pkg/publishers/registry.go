package publishers

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/samvad-hq/samvad-post-curator/internal/domain"
	"github.com/samvad-hq/samvad-post-curator/internal/logger"
)

// Builder creates a Publisher from a config entry.
type Builder func(ctx context.Context, cfg PublisherConfig, log logger.Logger) (Publisher, error)

// Registry maps publisher types to builders.
type Registry interface {
	Register(typ string, builder Builder)
	PublisherFor(ctx context.Context, cfg PublisherConfig, log logger.Logger) (Publisher, error)
}

type registry struct {
	mu       sync.RWMutex
	builders map[string]Builder
}

// NewRegistry returns a registry with optional pre-registered builders.
func NewRegistry(builders map[string]Builder) Registry {
	r := &registry{builders: make(map[string]Builder)}
	for typ, b := range builders {
		r.Register(typ, b)
	}
	return r
}

// Register associates a builder with a publisher type.
func (r *registry) Register(typ string, builder Builder) {
	if typ = strings.TrimSpace(strings.ToLower(typ)); typ == "" || builder == nil {
		return
	}

	r.mu.Lock()
	r.builders[typ] = builder
	r.mu.Unlock()
}

// PublisherFor builds the publisher for cfg, restricted to cfg.Platforms when set.
func (r *registry) PublisherFor(ctx context.Context, cfg PublisherConfig, log logger.Logger) (Publisher, error) {
	if cfg.Type == "" {
		return nil, fmt.Errorf("publisher %q has no type configured", cfg.ID)
	}

	r.mu.RLock()
	builder := r.builders[strings.ToLower(cfg.Type)]
	r.mu.RUnlock()

	if builder == nil {
		return nil, fmt.Errorf("no publisher registered for type %q", cfg.Type)
	}
	pub, err := builder(ctx, cfg, logger.Ensure(log))
	if err != nil {
		return nil, err
	}
	if len(cfg.Platforms) == 0 {
		return pub, nil
	}

	rp := &routedPublisher{Publisher: pub, platforms: make(map[domain.Platform]struct{}, len(cfg.Platforms))}
	for _, name := range cfg.Platforms {
		p, err := domain.ParsePlatform(name)
		if err != nil {
			return nil, fmt.Errorf("publisher %q: %w", cfg.ID, err)
		}
		rp.platforms[p] = struct{}{}
	}
	return rp, nil
}

// DefaultRegistry wires up known publishers.
func DefaultRegistry() Registry {
	return NewRegistry(map[string]Builder{
		TypeHTTP:      newHTTPPublisher,
		TypeSQS:       newSQSPublisher,
		TypeSNS:       newSNSPublisher,
		TypeGCPPubSub: newPubSubPublisher,
	})
}

// BuildAll instantiates publishers for configs using the registry.
func BuildAll(ctx context.Context, reg Registry, cfgs []PublisherConfig, log logger.Logger) ([]Publisher, error) {
	if reg == nil || len(cfgs) == 0 {
		return nil, nil
	}

	pubs := make([]Publisher, 0, len(cfgs))
	for _, cfg := range cfgs {
		pub, err := reg.PublisherFor(ctx, cfg, log)
		if err != nil {
			for _, built := range pubs {
				if c, ok := built.(io.Closer); ok {
					_ = c.Close()
				}
			}
			return nil, err
		}
		pubs = append(pubs, pub)
	}
	return pubs, nil
}

type routedPublisher struct {
	Publisher
	platforms map[domain.Platform]struct{}
}

func (r *routedPublisher) Accepts(p domain.Platform) bool {
	_, ok := r.platforms[p]
	return ok
}

func (r *routedPublisher) Close() error {
	if c, ok := r.Publisher.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
