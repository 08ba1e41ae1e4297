package catalog

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestTicketTier_OnSaleAt(t *testing.T) {
	now := time.Now()

	t.Run("active tier with open window is on sale", func(t *testing.T) {
		tier := TicketTier{
			IsActive:  true,
			SaleStart: now.Add(-time.Hour),
			SaleEnd:   now.Add(time.Hour),
		}
		assert.True(t, tier.OnSaleAt(now))
	})

	t.Run("inactive tier is never on sale", func(t *testing.T) {
		tier := TicketTier{
			IsActive:  false,
			SaleStart: now.Add(-time.Hour),
			SaleEnd:   now.Add(time.Hour),
		}
		assert.False(t, tier.OnSaleAt(now))
	})

	t.Run("before sale start", func(t *testing.T) {
		tier := TicketTier{IsActive: true, SaleStart: now.Add(time.Hour)}
		assert.False(t, tier.OnSaleAt(now))
	})

	t.Run("after sale end", func(t *testing.T) {
		tier := TicketTier{IsActive: true, SaleEnd: now.Add(-time.Hour)}
		assert.False(t, tier.OnSaleAt(now))
	})

	t.Run("zero window means always on sale while active", func(t *testing.T) {
		tier := TicketTier{IsActive: true}
		assert.True(t, tier.OnSaleAt(now))
	})
}

func TestTicketTier_IsFree(t *testing.T) {
	assert.True(t, (&TicketTier{Price: decimal.Zero}).IsFree())
	assert.False(t, (&TicketTier{Price: decimal.NewFromInt(499)}).IsFree())
}

func TestEventStatus_IsBookable(t *testing.T) {
	assert.True(t, EventStatusPublished.IsBookable())
	assert.False(t, EventStatusDraft.IsBookable())
	assert.False(t, EventStatusCancelled.IsBookable())
	assert.False(t, EventStatusCompleted.IsBookable())
}
