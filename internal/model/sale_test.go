package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSaleNumberPrefix(t *testing.T) {
	assert.Equal(t, "V202508", SaleNumberPrefix(time.Date(2025, time.August, 15, 10, 0, 0, 0, time.UTC)))
	assert.Equal(t, "V202601", SaleNumberPrefix(time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)))
}

func TestFormatSaleNumber(t *testing.T) {
	assert.Equal(t, "V202508000001", FormatSaleNumber("V202508", 1))
	assert.Equal(t, "V202508000042", FormatSaleNumber("V202508", 42))
	assert.Equal(t, "V202508123456", FormatSaleNumber("V202508", 123456))
}

func TestParseSaleNumberSeq(t *testing.T) {
	assert.Equal(t, 1, ParseSaleNumberSeq("V202508000001"))
	assert.Equal(t, 42, ParseSaleNumberSeq("V202508000042"))

	// Malformed numbers degrade to zero so callers restart the sequence.
	assert.Equal(t, 0, ParseSaleNumberSeq(""))
	assert.Equal(t, 0, ParseSaleNumberSeq("V2"))
	assert.Equal(t, 0, ParseSaleNumberSeq("V20250800000X"))

	for seq := 1; seq < 5; seq++ {
		assert.Equal(t, seq, ParseSaleNumberSeq(FormatSaleNumber("V202509", seq)))
	}
}
