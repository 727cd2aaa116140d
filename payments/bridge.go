package payments

import (
	"context"
	"fmt"
	"sync"
)

// InlineBridge connects the orchestrator to a widget that actually runs
// in the customer's page. Open parks the checkout as pending; the HTTP
// layer serves the parked parameters to the page and later delivers the
// outcome through Complete or Close.
type InlineBridge struct {
	mu      sync.Mutex
	pending map[string]*parked
}

type parked struct {
	checkout Checkout
	done     chan outcome
}

type outcome struct {
	result Result
	err    error
}

func NewInlineBridge() *InlineBridge {
	return &InlineBridge{pending: make(map[string]*parked)}
}

// Open implements Widget. It blocks until the page reports back or ctx
// expires; expiry abandons the attempt without marking it failed.
func (b *InlineBridge) Open(ctx context.Context, co Checkout) (Result, error) {
	p := &parked{checkout: co, done: make(chan outcome, 1)}

	b.mu.Lock()
	b.pending[co.Reference] = p
	b.mu.Unlock()

	defer func() {
		b.mu.Lock()
		delete(b.pending, co.Reference)
		b.mu.Unlock()
	}()

	select {
	case <-ctx.Done():
		return Result{}, ctx.Err()
	case out := <-p.done:
		return out.result, out.err
	}
}

// Pending returns the checkouts currently waiting on the page.
func (b *InlineBridge) Pending() []Checkout {
	b.mu.Lock()
	defer b.mu.Unlock()
	checkouts := make([]Checkout, 0, len(b.pending))
	for _, p := range b.pending {
		checkouts = append(checkouts, p.checkout)
	}
	return checkouts
}

// Lookup returns the parked checkout for reference.
func (b *InlineBridge) Lookup(reference string) (Checkout, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	p, ok := b.pending[reference]
	if !ok {
		return Checkout{}, false
	}
	return p.checkout, true
}

// Complete delivers the widget's success callback for reference.
func (b *InlineBridge) Complete(reference string) error {
	return b.deliver(reference, outcome{result: Result{Reference: reference}})
}

// Close delivers the customer's close action for reference.
func (b *InlineBridge) Close(reference string) error {
	return b.deliver(reference, outcome{err: ErrWindowClosed})
}

func (b *InlineBridge) deliver(reference string, out outcome) error {
	b.mu.Lock()
	p, ok := b.pending[reference]
	if ok {
		delete(b.pending, reference)
	}
	b.mu.Unlock()

	if !ok {
		return fmt.Errorf("no pending payment with reference %s", reference)
	}
	p.done <- out
	return nil
}
