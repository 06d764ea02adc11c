package admin

import (
	"context"
	"sync"

	"github.com/pkg/errors"

	"quizownik/internal/backend"
)

type GenerateFunc func(ctx context.Context, request backend.GenerateRequest) error

// Generator runs one quiz generation at a time. There is no retry.
type Generator struct {
	generate GenerateFunc

	mu      sync.Mutex
	loading bool
	err     error
}

func NewGenerator(generate GenerateFunc) *Generator {
	return &Generator{generate: generate}
}

// Start launches a generation in the background. The returned channel is
// closed when it has finished.
func (g *Generator) Start(ctx context.Context, request backend.GenerateRequest) (<-chan struct{}, error) {
	g.mu.Lock()
	if g.loading {
		g.mu.Unlock()
		return nil, ErrGenerateRunning
	}
	g.loading = true
	g.err = nil
	g.mu.Unlock()

	done := make(chan struct{})
	go func() {
		defer close(done)
		err := g.generate(ctx, request)
		if err != nil {
			err = errors.Wrapf(err, "generate %q", request.Name)
			logger.WithError(err).Warn("quiz generation failed")
		}

		g.mu.Lock()
		g.loading = false
		g.err = err
		g.mu.Unlock()
	}()
	return done, nil
}

func (g *Generator) Loading() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.loading
}

func (g *Generator) Err() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.err
}
