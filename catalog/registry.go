package catalog

import (
	"fmt"
	"strings"

	"github.com/eceo-epfl/earth-extractor/common"
	"github.com/eceo-epfl/earth-extractor/interface/provider"
)

// Entry describes one satellite constellation: which levels it is distributed
// at, which provider answers queries and which one serves downloads.
// Entries are built once at startup and never mutated.
type Entry struct {
	Satellite          common.Satellite
	Description        string
	ProcessingLevels   []common.ProcessingLevel
	Sensors            []common.Sensor
	SupportsCloudCover bool
	Query              provider.SearchProvider
	Download           provider.DownloadProvider
}

// SupportsLevel returns whether the satellite is distributed at this level.
func (e *Entry) SupportsLevel(level common.ProcessingLevel) bool {
	for _, l := range e.ProcessingLevels {
		if l == level {
			return true
		}
	}
	return false
}

// Providers holds the provider implementations injected into the registry.
type Providers struct {
	Copernicus provider.SearchProvider
	ASF        provider.DownloadProvider
	NASA       interface {
		provider.SearchProvider
		provider.DownloadProvider
	}
	Sinergise provider.DownloadProvider
	SwissTopo interface {
		provider.SearchProvider
		provider.DownloadProvider
	}
}

// Registry maps satellites to their providers and capabilities.
type Registry struct {
	entries map[common.Satellite]*Entry
	order   []common.Satellite
}

// NewRegistry builds the static satellite registry around the given providers.
func NewRegistry(p Providers) *Registry {
	r := &Registry{entries: map[common.Satellite]*Entry{}}
	for _, entry := range []*Entry{
		{
			Satellite:        common.Sentinel1,
			Description:      "Sentinel 1",
			ProcessingLevels: []common.ProcessingLevel{common.L1, common.L2},
			Sensors:          []common.Sensor{common.SensorCSAR},
			Query:            p.Copernicus,
			Download:         p.ASF,
		},
		{
			Satellite:          common.Sentinel2,
			Description:        "Sentinel 2",
			ProcessingLevels:   []common.ProcessingLevel{common.L1C, common.L2A},
			Sensors:            []common.Sensor{common.SensorMSI},
			SupportsCloudCover: true,
			Query:              p.Copernicus,
			Download:           p.Sinergise,
		},
		{
			Satellite:          common.Sentinel3,
			Description:        "Sentinel 3",
			ProcessingLevels:   []common.ProcessingLevel{common.L1, common.L2},
			Sensors:            []common.Sensor{common.SensorOLCI, common.SensorSLSTR, common.SensorSRAL},
			SupportsCloudCover: true,
			Query:              p.NASA,
			Download:           p.NASA,
		},
		{
			Satellite:          common.ModisTerra,
			Description:        "MODIS Terra",
			ProcessingLevels:   []common.ProcessingLevel{common.L1B},
			Sensors:            []common.Sensor{common.SensorMODIS},
			SupportsCloudCover: true,
			Query:              p.NASA,
			Download:           p.NASA,
		},
		{
			Satellite:          common.ModisAqua,
			Description:        "MODIS Aqua",
			ProcessingLevels:   []common.ProcessingLevel{common.L1B},
			Sensors:            []common.Sensor{common.SensorMODIS},
			SupportsCloudCover: true,
			Query:              p.NASA,
			Download:           p.NASA,
		},
		{
			Satellite:          common.VIIRS,
			Description:        "VIIRS",
			ProcessingLevels:   []common.ProcessingLevel{common.L1},
			Sensors:            []common.Sensor{common.SensorVIIRS},
			SupportsCloudCover: true,
			Query:              p.NASA,
			Download:           p.NASA,
		},
		{
			Satellite:        common.SwissImage,
			Description:      "SwissImage orthophoto",
			ProcessingLevels: []common.ProcessingLevel{common.CM10, common.CM200},
			Sensors:          []common.Sensor{common.SensorSwissImage},
			Query:            p.SwissTopo,
			Download:         p.SwissTopo,
		},
	} {
		r.entries[entry.Satellite] = entry
		r.order = append(r.order, entry.Satellite)
	}
	return r
}

// Entry returns the registry entry for a satellite.
func (r *Registry) Entry(sat common.Satellite) (*Entry, bool) {
	entry, ok := r.entries[sat]
	return entry, ok
}

// Satellites lists the registered satellites in registry order.
func (r *Registry) Satellites() []common.Satellite {
	return r.order
}

// ErrInvalidSelector is returned when a SATELLITE:LEVEL selector cannot be
// resolved against the registry.
type ErrInvalidSelector struct {
	Selector string
	Reason   string
}

func (e ErrInvalidSelector) Error() string {
	return fmt.Sprintf("invalid selector %q: %s", e.Selector, e.Reason)
}

// ResolveSelector resolves a "SATELLITE:LEVEL" selector string into a
// registry entry and processing level.
func (r *Registry) ResolveSelector(selector string) (*Entry, common.ProcessingLevel, error) {
	parts := strings.Split(selector, ":")
	if len(parts) != 2 {
		return nil, 0, ErrInvalidSelector{Selector: selector, Reason: "expected SATELLITE:LEVEL"}
	}
	sat, ok := common.SatelliteString(parts[0])
	if !ok {
		return nil, 0, ErrInvalidSelector{Selector: selector, Reason: fmt.Sprintf("unknown satellite %q (valid: %v)", parts[0], common.Satellites)}
	}
	level, err := common.ProcessingLevelString(parts[1])
	if err != nil {
		return nil, 0, ErrInvalidSelector{Selector: selector, Reason: fmt.Sprintf("unknown processing level %q", parts[1])}
	}
	entry := r.entries[sat]
	if !entry.SupportsLevel(level) {
		return nil, 0, ErrInvalidSelector{Selector: selector, Reason: fmt.Sprintf("%s is not distributed at level %s (available: %v)", sat, level, entry.ProcessingLevels)}
	}
	return entry, level, nil
}
