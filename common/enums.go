package common

//go:generate go run github.com/dmarkham/enumer -json -text -type ProcessingLevel
//go:generate go run github.com/dmarkham/enumer -json -text -transform upper -type TemporalFrequency

// Satellite identifies a supported satellite constellation.
type Satellite string

const (
	Sentinel1  Satellite = "SENTINEL1"
	Sentinel2  Satellite = "SENTINEL2"
	Sentinel3  Satellite = "SENTINEL3"
	ModisTerra Satellite = "MODIS_TERRA"
	ModisAqua  Satellite = "MODIS_AQUA"
	VIIRS      Satellite = "VIIRS"
	SwissImage Satellite = "SWISSIMAGE"
)

// Satellites lists every known constellation, in registry order.
var Satellites = []Satellite{
	Sentinel1, Sentinel2, Sentinel3, ModisTerra, ModisAqua, VIIRS, SwissImage,
}

// String returns the underlying string value.
func (s Satellite) String() string {
	return string(s)
}

// SatelliteString retrieves a Satellite from its string name
func SatelliteString(s string) (Satellite, bool) {
	for _, sat := range Satellites {
		if string(sat) == s {
			return sat, true
		}
	}
	return "", false
}

// ProcessingLevel defines the processing level of a product.
// Resolution tiers (CM10, CM200) reuse the same enum for satellites
// that are distributed by ground resolution rather than level.
type ProcessingLevel int

const (
	L0 ProcessingLevel = iota
	L1
	L1A
	L1B
	L1C
	L2
	L2A
	L2B
	L3
	L3A
	L4
	CM10
	CM200
)

// TemporalFrequency is the calendar frequency used by the interval selector.
type TemporalFrequency int

const (
	Daily TemporalFrequency = iota
	Weekly
	Monthly
	Yearly
)

// Sensor identifies the acquiring instrument.
type Sensor string

const (
	SensorMSI        Sensor = "MSI"
	SensorCSAR       Sensor = "C-SAR"
	SensorOLCI       Sensor = "OLCI"
	SensorSLSTR      Sensor = "SLSTR"
	SensorSRAL       Sensor = "SRAL"
	SensorMODIS      Sensor = "MODIS"
	SensorVIIRS      Sensor = "VIIRS"
	SensorSwissImage Sensor = "SWISSIMAGE"
)

// String returns the underlying string value.
func (s Sensor) String() string {
	return string(s)
}
