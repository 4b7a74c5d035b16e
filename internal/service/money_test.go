package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoundMoney(t *testing.T) {
	assert.Equal(t, 2.68, RoundMoney(2.675))
	assert.Equal(t, -2.68, RoundMoney(-2.675))
	assert.Equal(t, 100.0, RoundMoney(100))
	assert.Equal(t, 0.0, RoundMoney(0))
}

func TestLineTotal(t *testing.T) {
	assert.Equal(t, 59.97, LineTotal(19.99, 3))
	assert.Equal(t, 0.0, LineTotal(0, 5))
	// 0.1*3 is not representable in binary floats; the decimal path must
	// still produce an exact result
	assert.Equal(t, 0.3, LineTotal(0.1, 3))
}

func TestMarginPercent(t *testing.T) {
	assert.Equal(t, 25.0, MarginPercent(50, 200))
	assert.Equal(t, -10.0, MarginPercent(-20, 200))
	assert.Equal(t, 33.33, MarginPercent(100, 300))
	assert.Equal(t, 0.0, MarginPercent(100, 0), "zero cost basis yields zero margin")
}

func TestSumMoney(t *testing.T) {
	assert.Equal(t, 0.3, SumMoney(0.1, 0.2))
	assert.Equal(t, 0.0, SumMoney())
	assert.Equal(t, 500.0, SumMoney(1500, -1000))
}
