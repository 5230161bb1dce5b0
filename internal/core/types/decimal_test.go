package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLineTotal(t *testing.T) {
	tests := []struct {
		qty   int64
		price string
		want  string
	}{
		{qty: 20, price: "5", want: "100"},
		{qty: 3, price: "19.99", want: "59.97"},
		{qty: 0, price: "10", want: "0"},
	}

	for _, tt := range tests {
		got := LineTotal(tt.qty, MustMoney(tt.price))
		assert.True(t, got.Equal(MustMoney(tt.want)), "%d x %s: got %s", tt.qty, tt.price, got)
	}
}

func TestNewMoneyFromString_Rounds(t *testing.T) {
	m, err := NewMoneyFromString("10.005")
	require.NoError(t, err)
	assert.Equal(t, "10.01", m.StringFixed(MoneyPlaces))

	_, err = NewMoneyFromString("abc")
	assert.Error(t, err)
}
