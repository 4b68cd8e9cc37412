package quote

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCustomerKey(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"Sorachi Logistics Co., Ltd", "SORACHI"},
		{"acme", "ACME"},
		{"  A.B.C. Trading  ", "ABC"},
		{"3M Company", "3M"},
		{"", "CUST"},
		{"---", "CUST"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CustomerKey(tt.name), "name %q", tt.name)
	}
}

func TestDateCode(t *testing.T) {
	assert.Equal(t, "27NOV", DateCode(time.Date(2025, 11, 27, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "03JAN", DateCode(time.Date(2026, 1, 3, 0, 0, 0, 0, time.UTC)))
}

func TestBuildRefSequencesPerDay(t *testing.T) {
	seqs := &fakeSeqs{}
	today := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)

	ref1, err := BuildRef(context.Background(), seqs, "Sorachi Logistics", today)
	require.NoError(t, err)
	ref2, err := BuildRef(context.Background(), seqs, "Sorachi Logistics", today)
	require.NoError(t, err)

	assert.Equal(t, "SORACHI-10JUN-1", ref1)
	assert.Equal(t, "SORACHI-10JUN-2", ref2)
}
