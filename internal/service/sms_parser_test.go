package service

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSMS_Valid(t *testing.T) {
	req := ParseSMS("5|9|100.0")
	require.NotNil(t, req)
	assert.Equal(t, int64(5), req.SenderID)
	assert.Equal(t, int64(9), req.ReceiverID)
	assert.True(t, req.Amount.Equal(decimal.RequireFromString("100.0")))
}

func TestParseSMS_TrimsWhitespace(t *testing.T) {
	req := ParseSMS("  5 | 9 |  42.50 ")
	require.NotNil(t, req)
	assert.Equal(t, int64(5), req.SenderID)
	assert.Equal(t, int64(9), req.ReceiverID)
	assert.True(t, req.Amount.Equal(decimal.RequireFromString("42.5")))
}

func TestParseSMS_Invalid(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"negative amount", "5|9|-1"},
		{"zero amount", "5|9|0"},
		{"missing field", "5|9"},
		{"extra field", "5|9|10|extra"},
		{"non-numeric amount", "5|9|abc"},
		{"empty sender", "|9|5"},
		{"empty receiver", "5||5"},
		{"non-integer sender", "abc|9|10"},
		{"non-integer receiver", "5|x|10"},
		{"empty string", ""},
		{"whitespace only", "   "},
		{"amount only whitespace", "5|9|   "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Nil(t, ParseSMS(tt.raw))
		})
	}
}
