package telemetry

import "fmt"

// Decode turns the topic a PMCU published on and its payload into a
// Measurement. The GPS fix wins over the cellular position; the cellular
// response is only consulted when the GGA sentence has no fix.
func Decode(deviceID string, payload []byte) (Measurement, error) {
	if len(deviceID) < len(DeviceTopicPrefix) {
		return Measurement{}, fmt.Errorf("%w: %q", ErrInvalidDeviceID, deviceID)
	}

	frame, err := ParseFrame(payload)
	if err != nil {
		return Measurement{}, err
	}

	m := Measurement{
		ID:               deviceID,
		IMEI:             deviceID[len(DeviceTopicPrefix):],
		RelativeHumidity: float64(frame.Humidity) / 10,
		Temperature:      float64(frame.Temperature) / 10,
		PM:               frame.PM,
	}

	gps, err := DecodeGGA(frame.GGA)
	if err != nil {
		return Measurement{}, err
	}
	if gps != nil {
		m.Location = gps
	} else if gsm := DecodeGSMLocation(frame.GSMLocation); gsm != nil {
		m.Location = gsm
	}

	return m, nil
}
