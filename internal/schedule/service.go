package schedule

import (
	"regexp"
	"strings"
)

// POLTagAny marks a service serving any load port.
const POLTagAny = "ANY"

// defaultWeekday is assumed when a service string carries no weekday tag.
const defaultWeekday = "SUN"

var weekdayIndex = map[string]int{
	"MON": 0,
	"TUE": 1,
	"WED": 2,
	"THU": 3,
	"FRI": 4,
	"SAT": 5,
	"SUN": 6,
}

// polTags are the load-port qualifiers that appear in service strings.
var polTags = map[string]struct{}{
	"HCM": {},
	"HPH": {},
}

// ServiceInfo is a parsed service string of the shape
// "NAME [(POL-tag)] (WEEKDAY)", e.g. "PS3 (HCM) (SAT)" or "GS2 (SUN)".
type ServiceInfo struct {
	Name    string
	POLTag  string
	Weekday string
}

var parenRe = regexp.MustCompile(`\(([^)]+)\)`)

// ParseServiceString extracts the service name, optional POL tag and
// sailing weekday. The POL tag defaults to ANY and the weekday to SUN.
func ParseServiceString(raw string) ServiceInfo {
	name := strings.ToUpper(strings.TrimSpace(strings.SplitN(raw, "(", 2)[0]))

	info := ServiceInfo{Name: name, POLTag: POLTagAny, Weekday: defaultWeekday}
	for _, m := range parenRe.FindAllStringSubmatch(raw, -1) {
		token := strings.ToUpper(strings.TrimSpace(m[1]))
		if _, ok := polTags[token]; ok {
			info.POLTag = token
			continue
		}
		if len(token) >= 3 {
			if _, ok := weekdayIndex[token[:3]]; ok {
				info.Weekday = token[:3]
			}
		}
	}
	return info
}
