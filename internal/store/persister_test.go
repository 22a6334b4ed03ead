package store

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/angelmondragon/luxe-storefront/internal/cart"
	"github.com/shopspring/decimal"
)

type countingSlot struct {
	mu     sync.Mutex
	blob   string
	saves  int
	clears int
	gate   chan struct{}
}

func (s *countingSlot) Load(context.Context) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.blob, s.blob != ""
}

func (s *countingSlot) Save(_ context.Context, blob string) {
	if s.gate != nil {
		<-s.gate
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.blob = blob
	s.saves++
}

func (s *countingSlot) Clear(context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.blob = ""
	s.clears++
}

type plainCodec struct{}

func (plainCodec) Encode(lines cart.Cart) (string, error) {
	return decimal.NewFromInt(int64(lines.ItemsCount())).String(), nil
}

func (plainCodec) Decode(string) (cart.Cart, error) {
	return cart.Cart{}, nil
}

func lineOf(qty int) cart.Cart {
	return cart.Cart{{SKU: "A", PrecioUnitario: decimal.NewFromInt(1), Cantidad: qty}}
}

func TestPersisterWritesLatestChange(t *testing.T) {
	slot := &countingSlot{gate: make(chan struct{})}
	p := newPersister(context.Background(), slot, plainCodec{}, nil)
	defer p.close()

	p.submit(cart.Change{Op: cart.ChangeSave, Lines: lineOf(1)})
	// First write is blocked in Save; the next two collapse into one.
	time.Sleep(20 * time.Millisecond)
	p.submit(cart.Change{Op: cart.ChangeSave, Lines: lineOf(2)})
	p.submit(cart.Change{Op: cart.ChangeSave, Lines: lineOf(3)})
	close(slot.gate)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := p.flush(ctx); err != nil {
		t.Fatalf("flush: %v", err)
	}

	slot.mu.Lock()
	defer slot.mu.Unlock()
	if slot.blob != "3" {
		t.Fatalf("expected latest cart persisted, got %q", slot.blob)
	}
	if slot.saves > 2 {
		t.Fatalf("expected coalesced writes, got %d saves", slot.saves)
	}
}

func TestPersisterClear(t *testing.T) {
	slot := &countingSlot{}
	p := newPersister(context.Background(), slot, plainCodec{}, nil)

	p.submit(cart.Change{Op: cart.ChangeSave, Lines: lineOf(2)})
	p.submit(cart.Change{Op: cart.ChangeClear})
	p.close()

	slot.mu.Lock()
	defer slot.mu.Unlock()
	if slot.blob != "" {
		t.Fatalf("expected cleared slot, got %q", slot.blob)
	}
	if slot.clears == 0 {
		t.Fatalf("expected clear to reach the slot")
	}
}

func TestPersisterFlushAfterClose(t *testing.T) {
	p := newPersister(context.Background(), &countingSlot{}, plainCodec{}, nil)
	p.close()
	p.close()
	if err := p.flush(context.Background()); err != nil {
		t.Fatalf("flush after close should be a no-op, got %v", err)
	}
}
