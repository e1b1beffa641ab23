package pkg

// length unit of trajectory files
type LengthUnit uint8

const (
	UNKNOWN_UNIT LengthUnit = iota
	METER
	CENTIMETER
)

const (
	DEFAULT_FRAME_STEP  = 10
	CENTIMETER_TO_METER = 0.01
)
