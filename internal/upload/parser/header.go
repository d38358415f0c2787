package parser

import "strings"

// Column alias lists for the naming schemes seen in meter-operator exports.
// Matching is case-insensitive; the first alias present in the header wins.
var (
	timestampAliases = []string{"timestamp", "tijdstip", "van (datum)", "van (tijdstip)"}
	dateAliases      = []string{"datum", "van (datum)"}
	timeAliases      = []string{"tijd", "uur", "van (tijdstip)"}
	valueAliases     = []string{"afname_kwh", "waarde", "value", "kwh", "verbruik", "afname", "volume"}
)

// registerColumn filters non-consumption registers when present.
const (
	registerColumn      = "Register"
	consumptionRegister = "Afname"
)

// columns holds the resolved 0-based header positions of the logical fields,
// -1 when a field is absent.
type columns struct {
	timestamp int
	date      int
	clock     int
	value     int
	register  int
}

// resolveColumns maps a trimmed header row onto the logical fields.
func resolveColumns(header []string) columns {
	return columns{
		timestamp: findColumn(header, timestampAliases),
		date:      findColumn(header, dateAliases),
		clock:     findColumn(header, timeAliases),
		value:     findColumn(header, valueAliases),
		register:  findExact(header, registerColumn),
	}
}

// parseable reports whether the header carries enough columns for parsing:
// a value column plus either a single timestamp column or a date/time pair.
func (c columns) parseable() bool {
	return c.value >= 0 && (c.timestamp >= 0 || (c.date >= 0 && c.clock >= 0))
}

// splitTimestamp reports whether the timestamp must be assembled from a
// separate date and time column.
func (c columns) splitTimestamp() bool {
	return !(c.timestamp >= 0 && !(c.date >= 0 && c.clock >= 0))
}

func findColumn(header []string, candidates []string) int {
	for _, candidate := range candidates {
		for i, name := range header {
			if strings.EqualFold(strings.TrimSpace(name), candidate) {
				return i
			}
		}
	}
	return -1
}

func findExact(header []string, name string) int {
	for i, col := range header {
		if strings.TrimSpace(col) == name {
			return i
		}
	}
	return -1
}
