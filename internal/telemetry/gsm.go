package telemetry

import "strings"

const (
	gsmLocationMarker = "+CIPGSMLOC: "
	gsmLocationFields = 5
)

// DecodeGSMLocation decodes a "+CIPGSMLOC: <code>,<lon>,<lat>,<date>,<time>"
// response. Anything that does not start with the marker or does not have
// exactly five fields yields nil.
func DecodeGSMLocation(sentence string) *GSMLocation {
	rest, ok := strings.CutPrefix(sentence, gsmLocationMarker)
	if !ok {
		return nil
	}

	fields := strings.Split(rest, ",")
	if len(fields) != gsmLocationFields {
		return nil
	}

	// fields[0] is the modem's status code.
	return &GSMLocation{
		Longitude: fields[1],
		Latitude:  fields[2],
		Date:      fields[3],
		Time:      fields[4],
	}
}
