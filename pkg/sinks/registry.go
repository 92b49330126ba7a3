package sinks

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// Builder creates a Sink from a config entry.
type Builder func(ctx context.Context, cfg SinkConfig, log Logger) (Sink, error)

// Registry maps sink types to builders.
type Registry interface {
	Register(typ string, builder Builder)
	SinkFor(ctx context.Context, cfg SinkConfig, log Logger) (Sink, error)
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

// Register associates a builder with a sink type.
func (r *registry) Register(typ string, builder Builder) {
	if typ = strings.TrimSpace(strings.ToLower(typ)); typ == "" || builder == nil {
		return
	}

	r.mu.Lock()
	r.builders[typ] = builder
	r.mu.Unlock()
}

// SinkFor builds the sink for the provided config.
func (r *registry) SinkFor(ctx context.Context, cfg SinkConfig, log Logger) (Sink, error) {
	if cfg.Type == "" {
		return nil, fmt.Errorf("sink %q has no type configured", cfg.ID)
	}

	r.mu.RLock()
	builder := r.builders[strings.ToLower(cfg.Type)]
	r.mu.RUnlock()

	if builder == nil {
		return nil, fmt.Errorf("no sink registered for type %q", cfg.Type)
	}
	return builder(ctx, cfg, ensureLogger(log))
}

// DefaultRegistry wires up the built-in sink types.
func DefaultRegistry() Registry {
	return NewRegistry(map[string]Builder{
		TypeHTTP:   newHTTPSink,
		TypeSQS:    newSQSSink,
		TypeSNS:    newSNSSink,
		TypePubSub: newPubSubSink,
	})
}

// BuildAll instantiates sinks for cfgs. Sinks already built are closed when a later one fails.
func BuildAll(ctx context.Context, reg Registry, cfgs []SinkConfig, log Logger) ([]Sink, error) {
	if reg == nil || len(cfgs) == 0 {
		return nil, nil
	}

	built := make([]Sink, 0, len(cfgs))
	for _, cfg := range cfgs {
		s, err := reg.SinkFor(ctx, cfg, log)
		if err != nil {
			_ = NewFanout(built).Close()
			return nil, fmt.Errorf("build sink %q: %w", cfg.ID, err)
		}
		built = append(built, s)
	}
	return built, nil
}
