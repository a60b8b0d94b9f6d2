package session

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hermes/internal/domain/portfolio"
)

func TestStripCommonSuffixes(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"Tesla Inc", "tesla"},
		{"Microsoft Corporation", "microsoft"},
		{"Johnson & Johnson", "johnson & johnson"},
		{"Acme Holdings Co.", "acme holdings"},
		{"plc", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, StripCommonSuffixes(tt.name), tt.name)
	}
}

func TestBuildSymbolNameMap(t *testing.T) {
	holdings := []portfolio.Holding{
		{Symbol: "TSLA", SecurityName: "Tesla Inc",
			Quantity: decimal.NewFromInt(1), PurchasePrice: decimal.NewFromInt(100)},
		{Symbol: "", SecurityName: "Orphan Co"},
		{Symbol: "NONM", SecurityName: ""},
	}

	m := BuildSymbolNameMap(holdings)

	require.Len(t, m, 1)
	assert.Equal(t, []string{"tesla inc", "tesla"}, m["TSLA"])
}

func TestReverseSymbolMapFirstWriterWins(t *testing.T) {
	m := map[string][]string{
		"TSLA": {"tesla inc", "tesla"},
		"MSFT": {"microsoft corp", "microsoft"},
	}

	reverse := ReverseSymbolMap(m)

	assert.Equal(t, "TSLA", reverse["tesla"])
	assert.Equal(t, "MSFT", reverse["microsoft corp"])
	assert.Len(t, reverse, 4)
}
