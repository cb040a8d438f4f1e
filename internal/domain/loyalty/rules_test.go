package loyalty

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func at(hour, minute int) time.Time {
	return time.Date(2026, 6, 15, hour, minute, 0, 0, time.UTC)
}

func TestParseRuleSet(t *testing.T) {
	t.Run("empty document is always applicable", func(t *testing.T) {
		rs := ParseRuleSet("{}")

		assert.Nil(t, rs.MinAmount)
		assert.False(t, rs.FirstPurchaseOnly)
		assert.Nil(t, rs.Window)
		assert.True(t, rs.Applicable(decimal.NewFromInt(1), CustomerState{}, at(12, 0)))
	})

	t.Run("unparsable document yields empty rule set", func(t *testing.T) {
		rs := ParseRuleSet("not json at all")

		assert.True(t, rs.Applicable(decimal.Zero, CustomerState{HasTransactions: true}, at(3, 0)))
	})

	t.Run("min_amount as number", func(t *testing.T) {
		rs := ParseRuleSet(`{"min_amount": 50}`)

		require.NotNil(t, rs.MinAmount)
		assert.True(t, rs.MinAmount.Equal(decimal.NewFromInt(50)))
	})

	t.Run("min_amount as string", func(t *testing.T) {
		rs := ParseRuleSet(`{"min_amount": "49.99"}`)

		require.NotNil(t, rs.MinAmount)
		assert.True(t, rs.MinAmount.Equal(decimal.RequireFromString("49.99")))
	})

	t.Run("malformed min_amount is dropped", func(t *testing.T) {
		rs := ParseRuleSet(`{"min_amount": "lots"}`)

		assert.Nil(t, rs.MinAmount)
	})

	t.Run("unknown keys are ignored", func(t *testing.T) {
		rs := ParseRuleSet(`{"min_amount": 10, "frequent_flyer_tier": "gold"}`)

		require.NotNil(t, rs.MinAmount)
	})

	t.Run("time window", func(t *testing.T) {
		rs := ParseRuleSet(`{"start_time": "09:00", "end_time": "17:00"}`)

		require.NotNil(t, rs.Window)
	})

	t.Run("malformed time window is dropped but other rules survive", func(t *testing.T) {
		rs := ParseRuleSet(`{"start_time": "nine-ish", "end_time": "17:00", "min_amount": 25}`)

		assert.Nil(t, rs.Window)
		require.NotNil(t, rs.MinAmount)
	})

	t.Run("window requires both ends", func(t *testing.T) {
		rs := ParseRuleSet(`{"start_time": "09:00"}`)

		assert.Nil(t, rs.Window)
	})
}

func TestRuleSet_Applicable(t *testing.T) {
	t.Run("min_amount boundary is inclusive", func(t *testing.T) {
		rs := ParseRuleSet(`{"min_amount": 50}`)

		assert.True(t, rs.Applicable(decimal.NewFromInt(50), CustomerState{}, at(12, 0)))
		assert.False(t, rs.Applicable(decimal.RequireFromString("49.99"), CustomerState{}, at(12, 0)))
	})

	t.Run("first purchase only", func(t *testing.T) {
		rs := ParseRuleSet(`{"is_first_purchase": true}`)

		assert.True(t, rs.Applicable(decimal.NewFromInt(10), CustomerState{HasTransactions: false}, at(12, 0)))
		assert.False(t, rs.Applicable(decimal.NewFromInt(10), CustomerState{HasTransactions: true}, at(12, 0)))
	})

	t.Run("is_first_purchase false is no restriction", func(t *testing.T) {
		rs := ParseRuleSet(`{"is_first_purchase": false}`)

		assert.True(t, rs.Applicable(decimal.NewFromInt(10), CustomerState{HasTransactions: true}, at(12, 0)))
	})

	t.Run("time window boundaries are inclusive", func(t *testing.T) {
		rs := ParseRuleSet(`{"start_time": "09:00", "end_time": "17:00"}`)

		assert.True(t, rs.Applicable(decimal.NewFromInt(10), CustomerState{}, at(9, 0)))
		assert.True(t, rs.Applicable(decimal.NewFromInt(10), CustomerState{}, at(17, 0)))
		assert.False(t, rs.Applicable(decimal.NewFromInt(10), CustomerState{}, at(8, 59)))
		assert.False(t, rs.Applicable(decimal.NewFromInt(10), CustomerState{}, at(17, 1)))
	})

	t.Run("all rules must pass", func(t *testing.T) {
		rs := ParseRuleSet(`{"min_amount": 100, "is_first_purchase": true, "start_time": "09:00", "end_time": "17:00"}`)

		assert.True(t, rs.Applicable(decimal.NewFromInt(100), CustomerState{}, at(12, 0)))
		assert.False(t, rs.Applicable(decimal.NewFromInt(99), CustomerState{}, at(12, 0)))
		assert.False(t, rs.Applicable(decimal.NewFromInt(100), CustomerState{HasTransactions: true}, at(12, 0)))
		assert.False(t, rs.Applicable(decimal.NewFromInt(100), CustomerState{}, at(20, 0)))
	})
}
