// Package sqlite persists the quote reference counters and the quote
// audit log in an embedded database. Both tables assume at most one
// writer process; the counter increment itself is a single atomic
// upsert, so concurrent quote handlers inside that process are safe.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"ratedesk/pkg/contracts/domain"
)

// Store wraps the embedded database.
type Store struct {
	db *sql.DB
}

// New opens (creating if needed) the store at path and runs migrations.
func New(path string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("sqlite: path is required")
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close releases the underlying database.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// NextSequence atomically increments and returns the reference counter
// for one (customer key, date code) pair. The first call for a pair
// returns 1; sequences are never reused within the same pair.
func (s *Store) NextSequence(ctx context.Context, customerKey, dateCode string) (int, error) {
	var seq int
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO quote_counters (customer_key, date_code, counter)
		VALUES (?, ?, 1)
		ON CONFLICT(customer_key, date_code)
		DO UPDATE SET counter = counter + 1
		RETURNING counter
	`, customerKey, dateCode).Scan(&seq)
	if err != nil {
		return 0, fmt.Errorf("sqlite: next sequence for %s/%s: %w", customerKey, dateCode, err)
	}
	return seq, nil
}

// LogQuote appends one successful quote result to the audit log:
// a summary row plus one row per returned option.
func (s *Store) LogQuote(ctx context.Context, result domain.QuoteResult) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	quoteID := uuid.New().String()
	_, err = tx.ExecContext(ctx, `
		INSERT INTO quote_log (
			id, quote_ref, quote_date, customer, route, containers,
			commodity, currency, option_count, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		quoteID,
		result.QuoteRefNo,
		result.QuoteDate,
		result.Summary.CustomerName,
		result.Summary.Route,
		result.Summary.ContainersSummary,
		result.Summary.CommodityType,
		result.Summary.Currency,
		len(result.Options),
		time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("sqlite: log quote %s: %w", result.QuoteRefNo, err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO quote_log_options (
			id, quote_id, option_index, is_recommended, carrier, rate_type,
			pod, place_of_delivery, total_amount, vessel, etd
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, opt := range result.Options {
		var vessel, etd string
		if opt.Schedule != nil && !opt.Schedule.IsZero() {
			vessel = opt.Schedule.Vessel
			etd = opt.Schedule.ETD.Format("2006-01-02")
		}
		_, err = stmt.ExecContext(ctx,
			uuid.New().String(),
			quoteID,
			opt.Index,
			opt.IsRecommended,
			opt.Carrier,
			string(opt.RateType),
			opt.POD,
			opt.PlaceOfDelivery,
			opt.TotalOceanAmount,
			vessel,
			etd,
		)
		if err != nil {
			return fmt.Errorf("sqlite: log quote option %d: %w", opt.Index, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return err
	}
	return nil
}

func (s *Store) migrate() error {
	statements := []string{
		`PRAGMA foreign_keys = ON;`,
		`CREATE TABLE IF NOT EXISTS quote_counters (
			customer_key TEXT NOT NULL,
			date_code TEXT NOT NULL,
			counter INTEGER NOT NULL,
			PRIMARY KEY (customer_key, date_code)
		);`,
		`CREATE TABLE IF NOT EXISTS quote_log (
			id TEXT PRIMARY KEY,
			quote_ref TEXT NOT NULL,
			quote_date TEXT NOT NULL,
			customer TEXT NOT NULL,
			route TEXT NOT NULL,
			containers TEXT NOT NULL,
			commodity TEXT,
			currency TEXT,
			option_count INTEGER NOT NULL,
			created_at TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS quote_log_options (
			id TEXT PRIMARY KEY,
			quote_id TEXT NOT NULL REFERENCES quote_log(id),
			option_index INTEGER NOT NULL,
			is_recommended INTEGER NOT NULL,
			carrier TEXT NOT NULL,
			rate_type TEXT,
			pod TEXT,
			place_of_delivery TEXT,
			total_amount REAL NOT NULL,
			vessel TEXT,
			etd TEXT
		);`,
	}

	for _, statement := range statements {
		if _, err := s.db.Exec(statement); err != nil {
			return err
		}
	}
	return nil
}
