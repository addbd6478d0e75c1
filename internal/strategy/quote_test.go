package strategy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/set-predictor/internal/models"
)

func TestParseQuote(t *testing.T) {
	q, err := ParseQuote("3.50")
	require.NoError(t, err)
	assert.Equal(t, 3.5, q)

	q, err = ParseQuote(" 2,75 ")
	require.NoError(t, err)
	assert.Equal(t, 2.75, q)

	for _, in := range []string{"1.00", "0.5", "1001", "abc", ""} {
		_, err := ParseQuote(in)
		assert.ErrorIs(t, err, models.ErrInvalidQuote, in)
	}
}

func TestFormatting(t *testing.T) {
	assert.Equal(t, "6.67", FormatOdds(1/0.15))
	assert.Equal(t, "4.00", FormatOdds(4))
	assert.Equal(t, "-12.5%", FormatPercent(-0.125))
	assert.Equal(t, "20.0%", FormatPercent(0.2))
}
