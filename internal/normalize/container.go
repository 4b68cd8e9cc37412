package normalize

import (
	"strings"

	"ratedesk/pkg/contracts/domain"
)

var containerAliases = map[string]domain.ContainerType{
	"20":     domain.Container20GP,
	"20FT":   domain.Container20GP,
	"20DC":   domain.Container20GP,
	"20DV":   domain.Container20GP,
	"20GP":   domain.Container20GP,
	"40":     domain.Container40GP,
	"40FT":   domain.Container40GP,
	"40DC":   domain.Container40GP,
	"40DV":   domain.Container40GP,
	"40GP":   domain.Container40GP,
	"40HC":   domain.Container40HQ,
	"40HQ":   domain.Container40HQ,
	"40HCFT": domain.Container40HQ,
	"40HQFT": domain.Container40HQ,
}

// CanonicalContainer maps the equipment spellings seen across carrier
// sheets (20DC, 40HC, 40'HQ, ...) onto the canonical container types.
// Unknown spellings pass through unchanged.
func CanonicalContainer(raw string) domain.ContainerType {
	s := strings.ToUpper(strings.TrimSpace(raw))
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, "'", "")
	if ct, ok := containerAliases[s]; ok {
		return ct
	}
	return domain.ContainerType(s)
}

// ContainerSizeClass groups container types into the 20-foot and
// 40-foot charge classes used by the port-use-charge table. The second
// return is false for types outside both classes (45-foot equipment is
// explicitly excluded from PUC adjustment).
func ContainerSizeClass(ct domain.ContainerType) (string, bool) {
	switch CanonicalContainer(string(ct)) {
	case domain.Container20GP:
		return "20", true
	case domain.Container40GP, domain.Container40HQ:
		return "40", true
	default:
		return "", false
	}
}
