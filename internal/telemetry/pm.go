package telemetry

import (
	"encoding/binary"
	"fmt"
	"math"
)

// PMBlockLen is the size of the particulate matter block: ten big-endian float32.
const PMBlockLen = 10 * 4

// DecodePM decodes the particulate matter block.
func DecodePM(block []byte) (ParticulateMatter, error) {
	if len(block) < PMBlockLen {
		return ParticulateMatter{}, fmt.Errorf("%w: particulate block is %d bytes, want %d", ErrTruncated, len(block), PMBlockLen)
	}

	f := func(i int) float32 {
		return math.Float32frombits(binary.BigEndian.Uint32(block[i*4 : i*4+4]))
	}
	return ParticulateMatter{
		MassPM1_0:   f(0),
		MassPM2_5:   f(1),
		MassPM4_0:   f(2),
		MassPM10:    f(3),
		NumberPM0_5: f(4),
		NumberPM1_0: f(5),
		NumberPM2_5: f(6),
		NumberPM4_0: f(7),
		NumberPM10:  f(8),
		TypicalSize: f(9),
	}, nil
}

// AppendPM appends the wire form of pm to b.
func AppendPM(b []byte, pm ParticulateMatter) []byte {
	for _, v := range pm.values() {
		b = binary.BigEndian.AppendUint32(b, math.Float32bits(v))
	}
	return b
}

func (pm ParticulateMatter) values() [10]float32 {
	return [10]float32{
		pm.MassPM1_0, pm.MassPM2_5, pm.MassPM4_0, pm.MassPM10,
		pm.NumberPM0_5, pm.NumberPM1_0, pm.NumberPM2_5, pm.NumberPM4_0, pm.NumberPM10,
		pm.TypicalSize,
	}
}
