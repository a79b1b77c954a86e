package telemetry

import (
	"fmt"
	"strconv"
	"strings"
)

// GGA field indexes. The PMCU firmware sends the sentence body without the
// "$GPGGA" address field, so field 0 is the UTC time of the fix.
const (
	ggaLatitude         = 1
	ggaLatitudeDir      = 2
	ggaLongitude        = 3
	ggaLongitudeDir     = 4
	ggaFixQuality       = 5
	ggaSatellites       = 6
	ggaHorizontalDOP    = 7
	ggaAltitude         = 8
	ggaHeightOfSeaLevel = 10

	ggaMinFields = ggaHeightOfSeaLevel + 1
)

// DecodeGGA decodes a GGA fix sentence. It returns nil without error when the
// sentence is empty or reports fix quality 0.
func DecodeGGA(sentence string) (*GPSLocation, error) {
	if sentence == "" {
		return nil, nil
	}

	fields := strings.Split(sentence, ",")
	if len(fields) <= ggaFixQuality {
		return nil, fmt.Errorf("%w: gga has %d fields", ErrMalformedSentence, len(fields))
	}

	fix, err := strconv.Atoi(fields[ggaFixQuality])
	if err != nil {
		return nil, fmt.Errorf("%w: gga fix quality %q", ErrMalformedSentence, fields[ggaFixQuality])
	}
	if fix == 0 {
		return nil, nil
	}
	if len(fields) < ggaMinFields {
		return nil, fmt.Errorf("%w: gga has %d fields, want at least %d", ErrMalformedSentence, len(fields), ggaMinFields)
	}

	lat, err := NMEACoordinateToDecimal(fields[ggaLatitude], fields[ggaLatitudeDir])
	if err != nil {
		return nil, fmt.Errorf("gga latitude: %w", err)
	}
	lon, err := NMEACoordinateToDecimal(fields[ggaLongitude], fields[ggaLongitudeDir])
	if err != nil {
		return nil, fmt.Errorf("gga longitude: %w", err)
	}

	satellites, err := strconv.Atoi(fields[ggaSatellites])
	if err != nil {
		return nil, fmt.Errorf("%w: gga satellites %q", ErrMalformedSentence, fields[ggaSatellites])
	}
	hdop, err := parseGGAFloat(fields, ggaHorizontalDOP, "horizontal dop")
	if err != nil {
		return nil, err
	}
	altitude, err := parseGGAFloat(fields, ggaAltitude, "altitude")
	if err != nil {
		return nil, err
	}
	seaLevel, err := parseGGAFloat(fields, ggaHeightOfSeaLevel, "height of sea level")
	if err != nil {
		return nil, err
	}

	return &GPSLocation{
		Latitude:         lat,
		Longitude:        lon,
		Satellites:       satellites,
		HorizontalDOP:    hdop,
		Altitude:         altitude,
		HeightOfSeaLevel: seaLevel,
	}, nil
}

func parseGGAFloat(fields []string, idx int, name string) (float64, error) {
	v, err := strconv.ParseFloat(fields[idx], 64)
	if err != nil {
		return 0, fmt.Errorf("%w: gga %s %q", ErrMalformedSentence, name, fields[idx])
	}
	return v, nil
}
