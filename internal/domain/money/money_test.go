package money

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCurrency(t *testing.T) {
	tests := []struct {
		in      string
		want    Currency
		wantErr bool
	}{
		{in: "usd", want: USD},
		{in: "USD", want: USD},
		{in: "eur", want: EUR},
		{in: "EuR", want: EUR},
		{in: "gbp", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		got, err := ParseCurrency(tt.in)
		if tt.wantErr {
			require.ErrorIs(t, err, ErrUnknownCurrency, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestCurrencyValid(t *testing.T) {
	assert.True(t, USD.Valid())
	assert.True(t, EUR.Valid())
	assert.False(t, Currency("gbp").Valid())
	assert.False(t, Currency("").Valid())
}

func TestFormatMinor(t *testing.T) {
	assert.Equal(t, "24.75", FormatMinor(2475))
	assert.Equal(t, "0.00", FormatMinor(0))
	assert.Equal(t, "0.05", FormatMinor(5))
	assert.Equal(t, "1299.00", FormatMinor(129900))
	assert.Equal(t, "-1.50", FormatMinor(-150))
}
