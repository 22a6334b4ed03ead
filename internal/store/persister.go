package store

import (
	"context"
	"sync"

	"github.com/angelmondragon/luxe-storefront/internal/cart"
	pkgerrors "github.com/angelmondragon/luxe-storefront/pkg/errors"
	"github.com/angelmondragon/luxe-storefront/pkg/logger"
)

// persister writes cart changes on one goroutine. Only the latest pending
// change is kept, so a burst of mutations costs one write.
type persister struct {
	ctx   context.Context
	slot  Slot
	codec Codec
	logg  *logger.Logger

	mu      sync.Mutex
	pending *cart.Change

	wake      chan struct{}
	flushReq  chan chan struct{}
	quit      chan struct{}
	done      chan struct{}
	closeOnce sync.Once
}

func newPersister(ctx context.Context, slot Slot, codec Codec, logg *logger.Logger) *persister {
	p := &persister{
		ctx:      ctx,
		slot:     slot,
		codec:    codec,
		logg:     logg,
		wake:     make(chan struct{}, 1),
		flushReq: make(chan chan struct{}),
		quit:     make(chan struct{}),
		done:     make(chan struct{}),
	}
	go p.run()
	return p
}

// submit never blocks.
func (p *persister) submit(change cart.Change) {
	p.mu.Lock()
	p.pending = &change
	p.mu.Unlock()

	select {
	case p.wake <- struct{}{}:
	default:
	}
}

func (p *persister) run() {
	defer close(p.done)
	for {
		select {
		case <-p.wake:
			p.drain()
		case ack := <-p.flushReq:
			p.drain()
			close(ack)
		case <-p.quit:
			p.drain()
			return
		}
	}
}

func (p *persister) drain() {
	for {
		p.mu.Lock()
		change := p.pending
		p.pending = nil
		p.mu.Unlock()

		if change == nil {
			return
		}
		p.apply(*change)
	}
}

func (p *persister) apply(change cart.Change) {
	if change.Op == cart.ChangeClear {
		p.slot.Clear(p.ctx)
		return
	}
	blob, err := p.codec.Encode(change.Lines)
	if err != nil {
		if p.logg != nil {
			wrapped := pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode cart")
			p.logg.Error(p.logg.WithFields(p.ctx, pkgerrors.Dump(wrapped).Fields()), "cart.encode_failed", err)
		}
		return
	}
	p.slot.Save(p.ctx, blob)
}

// flush waits until every change submitted before the call is written.
func (p *persister) flush(ctx context.Context) error {
	ack := make(chan struct{})
	select {
	case p.flushReq <- ack:
	case <-p.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case <-ack:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// close drains pending work and stops the goroutine.
func (p *persister) close() {
	p.closeOnce.Do(func() { close(p.quit) })
	<-p.done
}
