package bots

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
)

// configured is the optional probe both platform clients expose; a
// messenger without a token is registered but never polled.
type configured interface {
	Configured() bool
}

// Runner drives one polling loop per registered messenger and lets one
// integration be restarted without touching the others.
type Runner struct {
	mu         sync.Mutex
	messengers map[string]Messenger
	cancels    map[string]context.CancelFunc
	handler    Handler
	logger     *zap.Logger
	wg         sync.WaitGroup
}

func NewRunner(handler Handler, logger *zap.Logger, messengers []Messenger) *Runner {
	r := &Runner{
		messengers: map[string]Messenger{},
		cancels:    map[string]context.CancelFunc{},
		handler:    handler,
		logger:     logger,
	}
	for _, m := range messengers {
		r.messengers[m.Name()] = m
	}
	return r
}

// Start launches every configured poll loop.
func (r *Runner) Start() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for name := range r.messengers {
		r.startLocked(name)
	}
}

// Stop cancels all loops and waits for them to drain.
func (r *Runner) Stop() {
	r.mu.Lock()
	for name, cancel := range r.cancels {
		cancel()
		delete(r.cancels, name)
	}
	r.mu.Unlock()
	r.wg.Wait()
}

// Restart reinitializes one messaging integration.
func (r *Runner) Restart(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.messengers[name]; !ok {
		return errors.New("unknown platform: " + name)
	}
	if cancel, ok := r.cancels[name]; ok {
		cancel()
		delete(r.cancels, name)
	}
	return r.startLocked(name)
}

func (r *Runner) startLocked(name string) error {
	m := r.messengers[name]
	if probe, ok := m.(configured); ok && !probe.Configured() {
		r.logger.Info("bot not configured, skipping", zap.String("platform", name))
		return nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	r.cancels[name] = cancel

	r.wg.Add(1)
	go r.poll(ctx, m)

	r.logger.Info("bot polling started", zap.String("platform", name))
	return nil
}

func (r *Runner) poll(ctx context.Context, m Messenger) {
	defer r.wg.Done()

	offset := 0
	for {
		if ctx.Err() != nil {
			return
		}

		updates, next, err := m.Poll(ctx, offset)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			r.logger.Warn("bot poll failed",
				zap.String("platform", m.Name()), zap.Error(err))
			select {
			case <-time.After(5 * time.Second):
			case <-ctx.Done():
				return
			}
			continue
		}
		offset = next

		for _, u := range updates {
			r.handler.HandleUpdate(ctx, m, u)
		}
	}
}
