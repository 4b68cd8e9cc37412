package parsing

import (
	"strings"

	"ratedesk/pkg/contracts/domain"
)

// DetectRateType infers the rate-type family from a raw file name.
// SCFI is tested before FAK because SCFI file names routinely contain
// "FAK" in their commodity annotations. Returns false for files that
// match no known family; callers skip those with a warning.
func DetectRateType(filename string) (domain.RateType, bool) {
	name := strings.ToUpper(filename)

	if strings.Contains(name, "SCFI") {
		return domain.RateTypeSCFI, true
	}
	if strings.Contains(name, "FAK") {
		return domain.RateTypeFAK, true
	}

	switch {
	case strings.Contains(name, "ONE_SPECIAL RATE"),
		strings.Contains(name, "ONE_SPECIAL") && strings.Contains(name, "RATE"),
		strings.Contains(name, "ONE_FIX"),
		strings.Contains(name, "ONE FIX"),
		strings.Contains(name, "ONE-FIX"),
		strings.Contains(name, "FIX") && strings.Contains(name, "ONE"),
		strings.Contains(name, "FIX"):
		return domain.RateTypeONESpec, true
	}

	return "", false
}
