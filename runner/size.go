package runner

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Size stores number of byte for the object. E.g. Memory.
// Maximum size is bounded by 64-bit limit
type Size uint64

// String stringer interface for print
func (s Size) String() string {
	t := uint64(s)
	switch {
	case t < 1<<10:
		return fmt.Sprintf("%d B", t)
	case t < 1<<20:
		return fmt.Sprintf("%.1f KiB", float64(t)/float64(1<<10))
	case t < 1<<30:
		return fmt.Sprintf("%.1f MiB", float64(t)/float64(1<<20))
	default:
		return fmt.Sprintf("%.1f GiB", float64(t)/float64(1<<30))
	}
}

// Set parses the size value from string.
// Accepted forms are plain bytes ("1024") and a number followed by
// k, m, g with optional "i" and "b" ("64k", "128M", "512MiB", "1GB").
func (s *Size) Set(str string) error {
	str = strings.TrimSpace(str)
	if str == "" {
		return fmt.Errorf("size: empty value")
	}
	num := strings.TrimRight(str, "bB")
	num = strings.TrimRight(num, "i")

	factor := 0
	if num != "" {
		switch num[len(num)-1] {
		case 'k', 'K':
			factor = 10
		case 'm', 'M':
			factor = 20
		case 'g', 'G':
			factor = 30
		}
		if factor > 0 {
			num = num[:len(num)-1]
		}
	}
	if factor == 0 && num != strings.TrimRight(str, "bB") {
		// a bare "i" without unit
		return fmt.Errorf("size: invalid value %q", str)
	}

	t, err := strconv.ParseUint(strings.TrimSpace(num), 10, 64)
	if err != nil {
		return fmt.Errorf("size: invalid value %q: %w", str, err)
	}
	if t > uint64(math.MaxUint64)>>factor {
		return fmt.Errorf("size: value %q overflows", str)
	}
	*s = Size(t << factor)
	return nil
}

// Type implements pflag.Value
func (s *Size) Type() string {
	return "size"
}

// UnmarshalYAML accepts the same forms as Set
func (s *Size) UnmarshalYAML(value *yaml.Node) error {
	return s.Set(value.Value)
}
