package normalize

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"ratedesk/pkg/contracts/domain"
)

// PortMap rewrites free-text POD names to port codes. Keys are
// uppercased port names.
type PortMap map[string]string

// LoadPortMap reads the port name to port code mapping workbook. The
// first sheet must carry PORTNAME and PORTCODE header columns. A
// missing file is the caller's concern; rows missing either value are
// skipped.
func LoadPortMap(path string) (PortMap, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open port mapping %s: %w", path, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("port mapping %s has no sheets", path)
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read port mapping %s: %w", path, err)
	}
	if len(rows) == 0 {
		return PortMap{}, nil
	}

	nameCol, codeCol := -1, -1
	for i, h := range rows[0] {
		switch strings.ToUpper(strings.TrimSpace(h)) {
		case "PORTNAME":
			nameCol = i
		case "PORTCODE":
			codeCol = i
		}
	}
	if nameCol < 0 || codeCol < 0 {
		return nil, fmt.Errorf("port mapping %s missing PORTNAME/PORTCODE columns", path)
	}

	m := make(PortMap)
	for _, row := range rows[1:] {
		if nameCol >= len(row) || codeCol >= len(row) {
			continue
		}
		name := strings.ToUpper(strings.TrimSpace(row[nameCol]))
		code := strings.TrimSpace(row[codeCol])
		if name == "" || code == "" {
			continue
		}
		m[name] = code
	}
	return m, nil
}

// NormalizePODs rewrites POD names through the port map; names with no
// mapping keep their trimmed original value. Pure.
func NormalizePODs(records []domain.RateRecord, ports PortMap) []domain.RateRecord {
	out := make([]domain.RateRecord, len(records))
	copy(out, records)
	for i := range out {
		trimmed := strings.TrimSpace(out[i].POD)
		if code, ok := ports[strings.ToUpper(trimmed)]; ok {
			out[i].POD = code
		} else {
			out[i].POD = trimmed
		}
	}
	return out
}

// NormalizePlaces uppercases and trims PlaceOfDelivery so downstream
// containment filters compare like with like. Pure.
func NormalizePlaces(records []domain.RateRecord) []domain.RateRecord {
	out := make([]domain.RateRecord, len(records))
	copy(out, records)
	for i := range out {
		out[i].PlaceOfDelivery = strings.ToUpper(strings.TrimSpace(out[i].PlaceOfDelivery))
	}
	return out
}
