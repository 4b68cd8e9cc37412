package schedule

import (
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Entry is one indexed sailing: a (carrier, service, POL tag, weekday,
// POD code, week number, vessel) tuple built once from the schedule
// workbook.
type Entry struct {
	Carrier   string
	Service   string
	POLTag    string
	Weekday   string
	PODCode   string
	WeekNo    int
	WeekLabel string
	Vessel    string
}

// Index is the build-once sailing index the estimator matches against.
type Index struct {
	entries []Entry
}

// Len reports the number of indexed sailings.
func (idx *Index) Len() int {
	return len(idx.entries)
}

var weekColRe = regexp.MustCompile(`^W(\d+)`)

// LoadIndex reads the schedule workbook (first sheet) and flattens it.
// Expected headers: CARRIER NAME (or CARRIER), SERVICE, POD, then one
// column per week labelled like "W49 (07 DEC - 13 DEC)" whose cell
// value is the vessel name. Cells that are blank or start with "BLANK"
// (blanked sailings) are skipped. Carriers are slash-separated, POD
// codes semicolon-separated; the index carries one entry per
// combination.
func LoadIndex(path string, logger *slog.Logger) (*Index, error) {
	if logger == nil {
		logger = slog.Default()
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open schedule %s: %w", path, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("schedule %s has no sheets", path)
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read schedule %s: %w", path, err)
	}
	if len(rows) == 0 {
		return &Index{}, nil
	}

	idx := buildIndex(rows)
	logger.Info("schedule index built",
		slog.String("file", path),
		slog.Int("entries", idx.Len()))
	return idx, nil
}

// buildIndex flattens header + data rows into index entries.
func buildIndex(rows [][]string) *Index {
	header := rows[0]
	carrierCol, serviceCol, podCol := -1, -1, -1
	type weekCol struct {
		col    int
		weekNo int
		label  string
	}
	var weekCols []weekCol

	for i, h := range header {
		name := strings.ToUpper(strings.TrimSpace(h))
		switch {
		case name == "CARRIER NAME" || (name == "CARRIER" && carrierCol < 0):
			carrierCol = i
		case name == "SERVICE":
			serviceCol = i
		case name == "POD":
			podCol = i
		default:
			if m := weekColRe.FindStringSubmatch(name); m != nil {
				n, err := strconv.Atoi(m[1])
				if err == nil {
					weekCols = append(weekCols, weekCol{col: i, weekNo: n, label: strings.TrimSpace(h)})
				}
			}
		}
	}
	if carrierCol < 0 || serviceCol < 0 || podCol < 0 {
		return &Index{}
	}

	idx := &Index{}
	for _, row := range rows[1:] {
		carriersRaw := strings.TrimSpace(cellAt(row, carrierCol))
		serviceRaw := strings.TrimSpace(cellAt(row, serviceCol))
		podRaw := strings.TrimSpace(cellAt(row, podCol))
		if carriersRaw == "" || serviceRaw == "" || podRaw == "" {
			continue
		}

		info := ParseServiceString(serviceRaw)
		carriers := splitAndUpper(carriersRaw, "/")
		podCodes := splitAndUpper(podRaw, ";")

		for _, wc := range weekCols {
			vessel := strings.TrimSpace(cellAt(row, wc.col))
			if vessel == "" || strings.HasPrefix(strings.ToUpper(vessel), "BLANK") {
				continue
			}
			for _, carrier := range carriers {
				for _, pod := range podCodes {
					idx.entries = append(idx.entries, Entry{
						Carrier:   carrier,
						Service:   info.Name,
						POLTag:    info.POLTag,
						Weekday:   info.Weekday,
						PODCode:   pod,
						WeekNo:    wc.weekNo,
						WeekLabel: wc.label,
						Vessel:    vessel,
					})
				}
			}
		}
	}
	return idx
}

func splitAndUpper(s, sep string) []string {
	var out []string
	for _, part := range strings.Split(s, sep) {
		p := strings.ToUpper(strings.TrimSpace(part))
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func cellAt(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}
