package bracket

import (
	"fmt"
	"strings"
)

// Format is the tournament format a schedule is generated for. It is fixed
// at generation time.
type Format string

const (
	SingleElimination Format = "single"
	DoubleElimination Format = "double"
	RoundRobin        Format = "round_robin"
)

// ParseFormat accepts the canonical values as well as the display names
// ("Single Elimination", "Double Elimination", "Round Robin").
func ParseFormat(s string) (Format, error) {
	normalized := strings.ToLower(strings.TrimSpace(s))
	normalized = strings.NewReplacer("-", " ", "_", " ").Replace(normalized)

	switch normalized {
	case "single", "single elimination":
		return SingleElimination, nil
	case "double", "double elimination":
		return DoubleElimination, nil
	case "round robin", "roundrobin":
		return RoundRobin, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
}

func (f Format) Valid() bool {
	switch f {
	case SingleElimination, DoubleElimination, RoundRobin:
		return true
	}
	return false
}

func (f Format) String() string {
	return string(f)
}

// UnmarshalText lets request bodies name a format by any spelling
// ParseFormat accepts.
func (f *Format) UnmarshalText(text []byte) error {
	parsed, err := ParseFormat(string(text))
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}
