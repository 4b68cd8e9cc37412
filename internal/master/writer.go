// Package master persists and reloads the wide reconciled rate table as
// an Excel workbook: a Master sheet with current rows and delta columns,
// an Old_Rate sheet with the full history, and a version stamp sheet
// named after the newest FAK source file.
package master

import (
	"fmt"
	"log/slog"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"ratedesk/pkg/contracts/domain"
)

const (
	// SheetMaster holds current rows with deltas; quote serving reads it.
	SheetMaster = "Master"
	// SheetHistory holds the full wide history for audit.
	SheetHistory = "Old_Rate"

	deltaDisplaySuffix = " CHANGE"
	deltaRawPrefix     = "DELTA_"
)

// keyHeaders is the fixed leading column set, in sheet order. Container
// rate columns, delta display columns and hidden raw delta columns
// follow, all in domain.ContainerColumnOrder.
var keyHeaders = []string{
	"POL",
	"POD",
	"PLACE OF DELIVERY",
	"ROUTING NOTE",
	"CARRIER NAME",
	"EFFECTIVE DATE",
	"EXPIRATION DATE",
	"CONTRACT NO.",
	"COMMODITY TYPE",
	"RATE TYPE",
}

// versionRe extracts the version stamp from a FAK filename, e.g.
// "FAK RATE 10DECNO.2.xlsx" -> "10DECNO2".
var versionRe = regexp.MustCompile(`(\d{1,2}[A-Z]{3})\s*NO\.?\s*(\d+)`)

// Writer persists reconciled tables to a Master workbook.
type Writer struct {
	logger *slog.Logger
}

// NewWriter returns a Writer. A nil logger falls back to slog.Default().
func NewWriter(logger *slog.Logger) *Writer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Writer{logger: logger}
}

// Write builds the Master workbook at path. sourceFiles are the raw
// filenames the run ingested; they name the version sheet and fill its
// rows. Empty input still produces a valid workbook with headers only.
func (w *Writer) Write(path string, current, historical []domain.MasterRow, sourceFiles []string) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := w.writeSheet(f, SheetMaster, current, true); err != nil {
		return fmt.Errorf("write %s sheet: %w", SheetMaster, err)
	}
	if err := w.writeSheet(f, SheetHistory, historical, false); err != nil {
		return fmt.Errorf("write %s sheet: %w", SheetHistory, err)
	}
	if err := w.writeVersionSheet(f, sourceFiles); err != nil {
		return fmt.Errorf("write version sheet: %w", err)
	}

	// Drop the default sheet excelize creates.
	if idx, err := f.GetSheetIndex(SheetMaster); err == nil {
		f.SetActiveSheet(idx)
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("delete default sheet: %w", err)
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save master workbook %s: %w", path, err)
	}
	w.logger.Info("master workbook written",
		slog.String("path", path),
		slog.Int("current_rows", len(current)),
		slog.Int("history_rows", len(historical)))
	return nil
}

func (w *Writer) writeSheet(f *excelize.File, sheet string, rows []domain.MasterRow, withDeltas bool) error {
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	headers := sheetHeaders(withDeltas)
	for col, h := range headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return err
		}
	}

	for i, row := range rows {
		values := rowValues(row, withDeltas)
		for col, v := range values {
			if v == nil {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return err
			}
		}
	}

	if withDeltas {
		if err := hideRawDeltaColumns(f, sheet, headers); err != nil {
			return err
		}
	}
	return nil
}

func sheetHeaders(withDeltas bool) []string {
	headers := make([]string, 0, len(keyHeaders)+3*len(domain.ContainerColumnOrder))
	headers = append(headers, keyHeaders...)
	for _, ct := range domain.ContainerColumnOrder {
		headers = append(headers, string(ct))
	}
	if withDeltas {
		for _, ct := range domain.ContainerColumnOrder {
			headers = append(headers, string(ct)+deltaDisplaySuffix)
		}
		for _, ct := range domain.ContainerColumnOrder {
			headers = append(headers, deltaRawPrefix+string(ct))
		}
	}
	return headers
}

func rowValues(row domain.MasterRow, withDeltas bool) []any {
	values := []any{
		row.POL,
		row.POD,
		row.PlaceOfDelivery,
		row.RoutingNote,
		row.Carrier,
		isoDate(row.EffectiveDate),
		isoDate(row.ExpirationDate),
		row.ContractIdentifier,
		row.CommodityType,
		string(row.RateType),
	}
	for _, ct := range domain.ContainerColumnOrder {
		if v, ok := row.Rates[ct]; ok {
			values = append(values, v)
		} else {
			values = append(values, nil)
		}
	}
	if withDeltas {
		for _, ct := range domain.ContainerColumnOrder {
			if d, ok := row.Deltas[ct]; ok {
				values = append(values, d.Display)
			} else {
				values = append(values, nil)
			}
		}
		for _, ct := range domain.ContainerColumnOrder {
			if d, ok := row.Deltas[ct]; ok {
				values = append(values, d.Raw)
			} else {
				values = append(values, nil)
			}
		}
	}
	return values
}

// hideRawDeltaColumns hides the numeric DELTA_ columns so the sheet
// stays readable while filters and tests keep the raw values.
func hideRawDeltaColumns(f *excelize.File, sheet string, headers []string) error {
	for i, h := range headers {
		if !strings.HasPrefix(h, deltaRawPrefix) {
			continue
		}
		name, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := f.SetColVisible(sheet, name, false); err != nil {
			return err
		}
	}
	return nil
}

func (w *Writer) writeVersionSheet(f *excelize.File, sourceFiles []string) error {
	name := VersionStamp(sourceFiles, time.Now())
	if _, err := f.NewSheet(name); err != nil {
		return err
	}
	if err := f.SetCellValue(name, "A1", "SOURCE FILES"); err != nil {
		return err
	}
	sorted := make([]string, len(sourceFiles))
	copy(sorted, sourceFiles)
	sort.Strings(sorted)
	for i, file := range sorted {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(name, cell, file); err != nil {
			return err
		}
	}
	return nil
}

// VersionStamp derives the version sheet name from the ingested
// filenames: the date+number stamp of the first file matching the FAK
// naming pattern (callers pass files newest first), else today's DDMON
// with ".NOX" marking the version as unknown.
func VersionStamp(sourceFiles []string, today time.Time) string {
	for _, file := range sourceFiles {
		if m := versionRe.FindStringSubmatch(strings.ToUpper(file)); m != nil {
			return m[1] + "NO" + m[2]
		}
	}
	return strings.ToUpper(today.Format("02Jan")) + ".NOX"
}

func isoDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02")
}
