// Package reconcile merges parsed rate records across all source files
// into the wide, versioned Master table with period-over-period deltas.
package reconcile

import (
	"log/slog"
	"sort"
	"time"

	"ratedesk/pkg/contracts/domain"
)

// Result holds the two reconciled views: Current feeds the Master sheet
// and the quote engine; Historical is the full long-to-wide history
// kept for audit ("Old_Rate"), with no delta computation.
type Result struct {
	Current    []domain.MasterRow
	Historical []domain.MasterRow
}

// sequenced is one long record with its chronological position inside
// its reconciliation group and the amount of the preceding position.
type sequenced struct {
	rec  domain.RateRecord
	prev *float64
}

// Reconcile concatenates the full parsed history, orders each
// reconciliation group chronologically, computes previous amounts,
// filters current rows by the cutoff date and pivots long to wide.
// A zero cutoff defaults to today. includeExpired disables the
// expiration filter and returns the full history as current. Empty
// input yields empty tables, not an error.
func Reconcile(records []domain.RateRecord, cutoff time.Time, includeExpired bool, logger *slog.Logger) Result {
	if logger == nil {
		logger = slog.Default()
	}
	if len(records) == 0 {
		return Result{}
	}
	if cutoff.IsZero() {
		cutoff = time.Now()
	}
	cutoff = truncateDay(cutoff)

	ordered := make([]domain.RateRecord, len(records))
	copy(ordered, records)
	sort.SliceStable(ordered, func(i, j int) bool {
		return recordLess(ordered[i], ordered[j])
	})

	// Sequence positions and previous amounts per group. ordered is
	// already sorted by group then chronology, so groups are contiguous.
	seq := make([]sequenced, 0, len(ordered))
	for i, rec := range ordered {
		s := sequenced{rec: rec}
		if i > 0 && ordered[i-1].Group() == rec.Group() {
			prev := ordered[i-1].Amount
			s.prev = &prev
		}
		seq = append(seq, s)
	}

	current := make([]sequenced, 0, len(seq))
	for _, s := range seq {
		if includeExpired || isCurrent(s.rec, cutoff) {
			current = append(current, s)
		}
	}

	return Result{
		Current:    pivot(current, true, logger),
		Historical: pivot(seq, false, logger),
	}
}

func isCurrent(r domain.RateRecord, cutoff time.Time) bool {
	if r.ExpirationDate == nil {
		return true
	}
	return !truncateDay(*r.ExpirationDate).Before(cutoff)
}

// pivot folds long records into one wide row per unique key tuple, one
// amount per container type. Duplicate amounts for the same key and
// container type keep the first value; the collision is logged because
// it usually means two contracts collapsed onto one key (see DESIGN.md).
func pivot(seq []sequenced, withDeltas bool, logger *slog.Logger) []domain.MasterRow {
	if len(seq) == 0 {
		return nil
	}

	index := make(map[domain.RowKey]int)
	rows := make([]domain.MasterRow, 0)

	for _, s := range seq {
		rec := s.rec
		key := rowKey(rec)

		i, ok := index[key]
		if !ok {
			i = len(rows)
			index[key] = i
			rows = append(rows, domain.MasterRow{
				POL:                rec.POL,
				POD:                rec.POD,
				PlaceOfDelivery:    rec.PlaceOfDelivery,
				RoutingNote:        rec.RoutingNote,
				Carrier:            rec.Carrier,
				EffectiveDate:      rec.EffectiveDate,
				ExpirationDate:     rec.ExpirationDate,
				ContractIdentifier: rec.ContractIdentifier,
				CommodityType:      rec.CommodityType,
				RateType:           rec.RateType,
				Rates:              make(map[domain.ContainerType]float64),
			})
		}

		row := &rows[i]
		if existing, dup := row.Rates[rec.ContainerType]; dup {
			logger.Warn("pivot collision, keeping first amount",
				slog.String("pol", rec.POL),
				slog.String("place_of_delivery", rec.PlaceOfDelivery),
				slog.String("carrier", rec.Carrier),
				slog.String("container_type", string(rec.ContainerType)),
				slog.Float64("kept", existing),
				slog.Float64("dropped", rec.Amount))
			continue
		}
		row.Rates[rec.ContainerType] = rec.Amount

		if withDeltas && s.prev != nil {
			if row.Deltas == nil {
				row.Deltas = make(map[domain.ContainerType]domain.RateDelta)
			}
			row.Deltas[rec.ContainerType] = Classify(rec.Amount, *s.prev)
		}
	}
	return rows
}

func rowKey(r domain.RateRecord) domain.RowKey {
	return domain.RowKey{
		POL:                r.POL,
		POD:                r.POD,
		PlaceOfDelivery:    r.PlaceOfDelivery,
		RoutingNote:        r.RoutingNote,
		Carrier:            r.Carrier,
		ContractIdentifier: r.ContractIdentifier,
		CommodityType:      r.CommodityType,
		RateType:           r.RateType,
		EffectiveDate:      fmtDate(r.EffectiveDate),
		ExpirationDate:     fmtDate(r.ExpirationDate),
	}
}

// recordLess orders records by group key fields, then chronologically
// by effective then expiration date (missing dates sort earliest), then
// by container type so pivot output is deterministic.
func recordLess(a, b domain.RateRecord) bool {
	ka, kb := a.Group(), b.Group()
	if ka.POL != kb.POL {
		return ka.POL < kb.POL
	}
	if ka.POD != kb.POD {
		return ka.POD < kb.POD
	}
	if ka.PlaceOfDelivery != kb.PlaceOfDelivery {
		return ka.PlaceOfDelivery < kb.PlaceOfDelivery
	}
	if ka.RoutingNote != kb.RoutingNote {
		return ka.RoutingNote < kb.RoutingNote
	}
	if ka.Carrier != kb.Carrier {
		return ka.Carrier < kb.Carrier
	}
	if ka.ContractIdentifier != kb.ContractIdentifier {
		return ka.ContractIdentifier < kb.ContractIdentifier
	}
	if ka.CommodityType != kb.CommodityType {
		return ka.CommodityType < kb.CommodityType
	}
	if ka.RateType != kb.RateType {
		return ka.RateType < kb.RateType
	}
	if ka.ContainerType != kb.ContainerType {
		return ka.ContainerType < kb.ContainerType
	}
	if !dateEqual(a.EffectiveDate, b.EffectiveDate) {
		return dateBefore(a.EffectiveDate, b.EffectiveDate)
	}
	return dateBefore(a.ExpirationDate, b.ExpirationDate)
}

func dateOrZero(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}

func dateBefore(a, b *time.Time) bool {
	return dateOrZero(a).Before(dateOrZero(b))
}

func dateEqual(a, b *time.Time) bool {
	return dateOrZero(a).Equal(dateOrZero(b))
}

func fmtDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02")
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
