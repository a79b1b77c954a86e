package telemetry

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"strings"
)

// Frame layout (big-endian):
//
//	offset  size  field
//	0       2     relative humidity x10
//	2       2     temperature x10
//	4       var   GGA sentence, NUL terminated
//	var     var   CIPGSMLOC response, NUL terminated
//	var     40    particulate matter block
const frameHeaderLen = 4

// Frame is the raw content of a PMCU payload before interpretation.
type Frame struct {
	// Humidity and Temperature are in tenths.
	Humidity    uint16
	Temperature uint16
	GGA         string
	GSMLocation string
	PM          ParticulateMatter
}

// frameReader walks a payload front to back.
type frameReader struct {
	buf []byte
	off int
}

func (r *frameReader) uint16() (uint16, error) {
	if len(r.buf)-r.off < 2 {
		return 0, fmt.Errorf("%w: need 2 bytes at offset %d, have %d", ErrTruncated, r.off, len(r.buf)-r.off)
	}
	v := binary.BigEndian.Uint16(r.buf[r.off:])
	r.off += 2
	return v, nil
}

// cstring reads up to and including the next NUL byte and returns the bytes
// before it, one character per byte.
func (r *frameReader) cstring() (string, error) {
	rest := r.buf[r.off:]
	n := bytes.IndexByte(rest, 0)
	if n < 0 {
		return "", fmt.Errorf("%w: unterminated sentence at offset %d", ErrTruncated, r.off)
	}
	r.off += n + 1

	var sb strings.Builder
	sb.Grow(n)
	for _, c := range rest[:n] {
		sb.WriteRune(rune(c))
	}
	return sb.String(), nil
}

func (r *frameReader) remaining() []byte {
	return r.buf[r.off:]
}

// ParseFrame splits a payload into its fields. The particulate block must
// start right after the second NUL and fill the rest of the payload exactly.
func ParseFrame(payload []byte) (Frame, error) {
	r := &frameReader{buf: payload}

	var (
		f   Frame
		err error
	)
	if f.Humidity, err = r.uint16(); err != nil {
		return Frame{}, fmt.Errorf("humidity: %w", err)
	}
	if f.Temperature, err = r.uint16(); err != nil {
		return Frame{}, fmt.Errorf("temperature: %w", err)
	}
	if f.GGA, err = r.cstring(); err != nil {
		return Frame{}, fmt.Errorf("gga sentence: %w", err)
	}
	if f.GSMLocation, err = r.cstring(); err != nil {
		return Frame{}, fmt.Errorf("gsm location: %w", err)
	}

	block := r.remaining()
	if len(block) > PMBlockLen {
		return Frame{}, fmt.Errorf("%w: %d extra bytes", ErrTrailingBytes, len(block)-PMBlockLen)
	}
	if f.PM, err = DecodePM(block); err != nil {
		return Frame{}, err
	}
	return f, nil
}

// MarshalBinary encodes f in the PMCU wire format.
func (f Frame) MarshalBinary() ([]byte, error) {
	gga, err := sentenceBytes(f.GGA)
	if err != nil {
		return nil, fmt.Errorf("gga sentence: %w", err)
	}
	gsm, err := sentenceBytes(f.GSMLocation)
	if err != nil {
		return nil, fmt.Errorf("gsm location: %w", err)
	}

	b := make([]byte, 0, frameHeaderLen+len(gga)+len(gsm)+2+PMBlockLen)
	b = binary.BigEndian.AppendUint16(b, f.Humidity)
	b = binary.BigEndian.AppendUint16(b, f.Temperature)
	b = append(append(b, gga...), 0)
	b = append(append(b, gsm...), 0)
	b = AppendPM(b, f.PM)
	return b, nil
}

// sentenceBytes is the inverse of frameReader.cstring.
func sentenceBytes(s string) ([]byte, error) {
	out := make([]byte, 0, len(s))
	for _, c := range s {
		switch {
		case c == 0:
			return nil, ErrEmbeddedNUL
		case c > 0xff:
			return nil, fmt.Errorf("%w: %q does not fit in one byte", ErrMalformedSentence, c)
		}
		out = append(out, byte(c))
	}
	return out, nil
}
