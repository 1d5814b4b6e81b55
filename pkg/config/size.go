package config

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ParseSize parses a chunk capacity.
//
// In token mode a trailing K multiplies by 1000 ("128K" is 128000 tokens).
// In byte mode KB, MB and GB are binary multiples ("1KB" is 1024 bytes);
// a bare number is a byte count.
func ParseSize(input string, tokens bool) (int, error) {
	s := strings.TrimSpace(input)
	if tokens {
		if strings.HasSuffix(strings.ToLower(s), "k") {
			n, err := strconv.Atoi(strings.TrimSpace(s[:len(s)-1]))
			if err != nil {
				return 0, fmt.Errorf("invalid token size %q: %w", input, err)
			}
			return scale(input, n, 1000)
		}
		n, err := strconv.Atoi(s)
		if err != nil {
			return 0, fmt.Errorf("invalid token size %q: %w", input, err)
		}
		return n, nil
	}

	upper := strings.ToUpper(s)
	for _, unit := range []struct {
		suffix string
		mult   int
	}{
		{"KB", 1 << 10},
		{"MB", 1 << 20},
		{"GB", 1 << 30},
	} {
		if strings.HasSuffix(upper, unit.suffix) {
			n, err := strconv.Atoi(strings.TrimSpace(upper[:len(upper)-len(unit.suffix)]))
			if err != nil {
				return 0, fmt.Errorf("invalid size %q: %w", input, err)
			}
			return scale(input, n, unit.mult)
		}
	}
	n, err := strconv.Atoi(upper)
	if err != nil {
		return 0, fmt.Errorf("invalid size string %q", input)
	}
	return n, nil
}

// scale multiplies n by mult, rejecting results that do not fit in an int.
func scale(input string, n, mult int) (int, error) {
	if n > math.MaxInt/mult || n < math.MinInt/mult {
		return 0, fmt.Errorf("size %q is too large", input)
	}
	return n * mult, nil
}
