package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ratedesk/pkg/contracts/domain"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestNextSequenceIncrementsPerPair(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	seq, err := store.NextSequence(ctx, "SORACHI", "10JUN")
	require.NoError(t, err)
	assert.Equal(t, 1, seq)

	seq, err = store.NextSequence(ctx, "SORACHI", "10JUN")
	require.NoError(t, err)
	assert.Equal(t, 2, seq)

	// A different day restarts at 1.
	seq, err = store.NextSequence(ctx, "SORACHI", "11JUN")
	require.NoError(t, err)
	assert.Equal(t, 1, seq)

	// As does a different customer.
	seq, err = store.NextSequence(ctx, "ACME", "10JUN")
	require.NoError(t, err)
	assert.Equal(t, 1, seq)
}

func TestNewRequiresPath(t *testing.T) {
	_, err := New("")
	assert.Error(t, err)
}

func TestLogQuote(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	result := domain.QuoteResult{
		QuoteRefNo: "SORACHI-10JUN-1",
		QuoteDate:  "2025-06-10",
		Summary: domain.QuoteSummary{
			CustomerName:      "Sorachi Logistics",
			Route:             "HCM → LOS ANGELES",
			ContainersSummary: "1 x 40HQ",
			CommodityType:     "FAK",
			Currency:          "USD",
		},
		Options: []domain.QuoteOption{
			{Index: 1, IsRecommended: true, Carrier: "HPL", POD: "USLAX", PlaceOfDelivery: "LOS ANGELES, CA", TotalOceanAmount: 2300},
			{Index: 2, Carrier: "EMC", POD: "USLAX", PlaceOfDelivery: "LOS ANGELES, CA", TotalOceanAmount: 2550},
		},
	}
	require.NoError(t, store.LogQuote(ctx, result))

	var quotes, options int
	require.NoError(t, store.db.QueryRow(`SELECT COUNT(*) FROM quote_log`).Scan(&quotes))
	require.NoError(t, store.db.QueryRow(`SELECT COUNT(*) FROM quote_log_options`).Scan(&options))
	assert.Equal(t, 1, quotes)
	assert.Equal(t, 2, options)

	var carrier string
	var recommended bool
	require.NoError(t, store.db.QueryRow(
		`SELECT carrier, is_recommended FROM quote_log_options WHERE option_index = 1`,
	).Scan(&carrier, &recommended))
	assert.Equal(t, "HPL", carrier)
	assert.True(t, recommended)
}
