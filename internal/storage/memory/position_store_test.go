package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"rugscreen/internal/domain"
	"rugscreen/internal/storage"
)

func testPosition(id string, openedAt int64) *domain.Position {
	return &domain.Position{
		PositionID:    id,
		TokenAddress:  "0xabc",
		ChainID:       "bsc",
		EntryPriceUSD: decimal.NewFromFloat(0.5),
		Quantity:      decimal.NewFromInt(100),
		CostUSD:       decimal.NewFromInt(50),
		Status:        domain.PositionOpen,
		OpenedAt:      openedAt,
	}
}

func TestPositionStore_InsertAndGetOpen(t *testing.T) {
	ctx := context.Background()
	store := NewPositionStore()

	store.Insert(ctx, testPosition("p2", 200))
	store.Insert(ctx, testPosition("p1", 100))

	open, err := store.GetOpen(ctx)
	if err != nil {
		t.Fatalf("GetOpen: %v", err)
	}
	if len(open) != 2 || open[0].PositionID != "p1" {
		t.Errorf("GetOpen: got %+v", open)
	}
}

func TestPositionStore_Close(t *testing.T) {
	ctx := context.Background()
	store := NewPositionStore()
	store.Insert(ctx, testPosition("p1", 100))

	fill := storage.PositionClose{
		ExitPriceUSD: decimal.NewFromFloat(1.0),
		PnLUSD:       decimal.NewFromInt(50),
		Reason:       domain.ExitTakeProfit,
		ClosedAt:     900,
	}
	if err := store.Close(ctx, "p1", fill); err != nil {
		t.Fatalf("Close: %v", err)
	}

	got, _ := store.GetByID(ctx, "p1")
	if got.Status != domain.PositionClosed || got.ExitReason != domain.ExitTakeProfit {
		t.Errorf("close not applied: %+v", got)
	}
	if got.PnLUSD == nil || !got.PnLUSD.Equal(decimal.NewFromInt(50)) {
		t.Errorf("PnLUSD: got %v, want 50", got.PnLUSD)
	}
	if got.ClosedAt == nil || *got.ClosedAt != 900 {
		t.Errorf("ClosedAt: got %v, want 900", got.ClosedAt)
	}

	// Closed positions drop out of GetOpen.
	open, _ := store.GetOpen(ctx)
	if len(open) != 0 {
		t.Errorf("GetOpen after close: got %d, want 0", len(open))
	}

	// Double close is rejected.
	if err := store.Close(ctx, "p1", fill); !errors.Is(err, storage.ErrInvalidInput) {
		t.Errorf("double close: got %v, want ErrInvalidInput", err)
	}
}

func TestPositionStore_CloseNotFound(t *testing.T) {
	store := NewPositionStore()
	err := store.Close(context.Background(), "missing", storage.PositionClose{})
	if !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}
}

func TestPositionStore_GetByToken(t *testing.T) {
	ctx := context.Background()
	store := NewPositionStore()

	p := testPosition("p1", 100)
	store.Insert(ctx, p)
	other := testPosition("p2", 200)
	other.TokenAddress = "0xother"
	store.Insert(ctx, other)

	got, err := store.GetByToken(ctx, "0xabc")
	if err != nil {
		t.Fatalf("GetByToken: %v", err)
	}
	if len(got) != 1 || got[0].PositionID != "p1" {
		t.Errorf("GetByToken: got %+v", got)
	}
}
