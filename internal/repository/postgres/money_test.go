package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNumericStringToCents(t *testing.T) {
	tests := []struct {
		in      string
		want    int64
		wantErr bool
	}{
		{in: "19.99", want: 1999},
		{in: "0.05", want: 5},
		{in: "100", want: 10000},
		{in: "-3.50", want: -350},
		{in: " 12.34 ", want: 1234},
		{in: "", wantErr: true},
		{in: "abc", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := numericStringToCents(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCentsToNumericString(t *testing.T) {
	assert.Equal(t, "19.99", centsToNumericString(1999))
	assert.Equal(t, "0.05", centsToNumericString(5))
	assert.Equal(t, "100.00", centsToNumericString(10000))
	assert.Equal(t, "-3.50", centsToNumericString(-350))
	assert.Equal(t, "0.00", centsToNumericString(0))
}

func TestMoneyRoundTrip(t *testing.T) {
	for _, cents := range []int64{0, 1, 99, 100, 1999, 123456789, -1999} {
		got, err := numericStringToCents(centsToNumericString(cents))
		require.NoError(t, err)
		assert.Equal(t, cents, got)
	}
}
