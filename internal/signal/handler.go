// Package signal cancels a command's context on SIGINT or SIGTERM.
//
// It imports only the standard library so any package can use it.
package signal

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
)

// Handler cancels its context when the process is interrupted and runs the
// registered callbacks once, in registration order.
type Handler struct {
	ctx         context.Context //nolint:containedctx // the handler owns the context lifecycle
	cancel      context.CancelFunc
	interrupted chan struct{}
	done        chan struct{}
	sigChan     chan os.Signal

	mu        sync.Mutex
	callbacks []func()
	once      sync.Once
	stopOnce  sync.Once
}

// NewHandler starts listening for SIGINT and SIGTERM.
//
//	h := signal.NewHandler(ctx)
//	defer h.Stop()
//	h.OnInterrupt(saveConversation)
//	runServer(h.Context())
func NewHandler(parent context.Context) *Handler {
	ctx, cancel := context.WithCancel(parent)
	h := &Handler{
		ctx:         ctx,
		cancel:      cancel,
		interrupted: make(chan struct{}),
		done:        make(chan struct{}),
		sigChan:     make(chan os.Signal, 1),
	}

	signal.Notify(h.sigChan, syscall.SIGINT, syscall.SIGTERM)
	go h.listen()

	return h
}

// Context is canceled on interrupt, on Stop, or with its parent.
func (h *Handler) Context() context.Context {
	return h.ctx
}

// Interrupted closes when a signal has been received.
func (h *Handler) Interrupted() <-chan struct{} {
	return h.interrupted
}

// OnInterrupt registers fn to run after the context is canceled by a signal.
// Callbacks registered after the interrupt never run.
func (h *Handler) OnInterrupt(fn func()) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.callbacks = append(h.callbacks, fn)
}

// Stop stops listening and cancels the context. It is safe to call more
// than once.
func (h *Handler) Stop() {
	h.stopOnce.Do(func() {
		signal.Stop(h.sigChan)
		close(h.done)
		h.cancel()
	})
}

func (h *Handler) handleSignal() {
	h.once.Do(func() {
		h.cancel()
		close(h.interrupted)

		h.mu.Lock()
		callbacks := h.callbacks
		h.callbacks = nil
		h.mu.Unlock()
		for _, fn := range callbacks {
			fn()
		}
	})
}

// listen handles signals until Stop or parent cancellation. Only the first
// signal has an effect; later ones are drained so delivery never blocks.
func (h *Handler) listen() {
	for {
		select {
		case <-h.ctx.Done():
			return
		case <-h.done:
			return
		case <-h.sigChan:
			h.handleSignal()
		}
	}
}
