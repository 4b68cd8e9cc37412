package quote

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// SequenceSource issues strictly increasing counters scoped to one
// (customer key, date code) pair. Backed by the sqlite store in
// production.
type SequenceSource interface {
	NextSequence(ctx context.Context, customerKey, dateCode string) (int, error)
}

// CustomerKey reduces a customer name to the reference key: the first
// whitespace-delimited token, alphanumeric characters only, uppercased.
// "Sorachi Logistics Co., Ltd" becomes "SORACHI".
func CustomerKey(name string) string {
	fields := strings.Fields(strings.ToUpper(name))
	if len(fields) == 0 {
		return "CUST"
	}
	var b strings.Builder
	for _, r := range fields[0] {
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return "CUST"
	}
	return b.String()
}

// DateCode renders a date as the uppercased day+month token used in
// reference codes, e.g. 27NOV.
func DateCode(t time.Time) string {
	return strings.ToUpper(t.Format("02Jan"))
}

// BuildRef issues the next reference code for a customer and day:
// "<CUSTOMERKEY>-<DDMON>-<SEQ>". Sequences are per customer per day and
// never reused; a new day starts again at 1.
func BuildRef(ctx context.Context, seqs SequenceSource, customerName string, today time.Time) (string, error) {
	key := CustomerKey(customerName)
	code := DateCode(today)

	seq, err := seqs.NextSequence(ctx, key, code)
	if err != nil {
		return "", fmt.Errorf("issue quote reference for %s: %w", key, err)
	}
	return fmt.Sprintf("%s-%s-%d", key, code, seq), nil
}
