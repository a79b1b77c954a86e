package telemetry

import (
	"fmt"
	"strconv"
	"strings"
)

// NMEACoordinateToDecimal converts a ddmm.mmmm (or dddmm.mmmm) coordinate to
// decimal degrees. The two digits before the decimal point and everything
// after it are minutes; whatever precedes them is whole degrees. S and W
// give negative values.
func NMEACoordinateToDecimal(coordinate, direction string) (float64, error) {
	divider := strings.IndexByte(coordinate, '.') - 2
	if divider < 0 {
		return 0, fmt.Errorf("%w: %q", ErrMalformedCoordinate, coordinate)
	}

	var degrees int
	if divider > 0 {
		d, err := strconv.Atoi(coordinate[:divider])
		if err != nil {
			return 0, fmt.Errorf("%w: degrees %q: %v", ErrMalformedCoordinate, coordinate, err)
		}
		degrees = d
	}

	minutes, err := strconv.ParseFloat(coordinate[divider:], 64)
	if err != nil {
		return 0, fmt.Errorf("%w: minutes %q: %v", ErrMalformedCoordinate, coordinate, err)
	}

	result := float64(degrees) + minutes/60.0
	if direction == "S" || direction == "W" {
		result = -result
	}
	return result, nil
}
