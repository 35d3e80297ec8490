package geometry

import (
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/go-spatial/geom"
	"github.com/go-spatial/geom/encoding/geojson"
	geomwkt "github.com/go-spatial/geom/encoding/wkt"
	"github.com/paulsmith/gogeos/geos"
)

// ROI is a region of interest in WGS84 lon/lat.
type ROI struct {
	g   *geos.Geometry
	wkt string
}

// ParseROI interprets spec as one of:
//   - "lonmin,latmin,lonmax,latmax": a bounding box
//   - "lon,lat": a point (bufferMeters must be > 0)
//   - a path to a GeoJSON file (Feature, FeatureCollection or bare geometry)
//
// bufferMeters, when positive, widens the region by that distance.
func ParseROI(spec string, bufferMeters float64) (*ROI, error) {
	var g *geos.Geometry
	var err error

	if _, serr := os.Stat(spec); serr == nil {
		if g, err = fromGeoJSONFile(spec); err != nil {
			return nil, fmt.Errorf("ParseROI.%w", err)
		}
	} else {
		parts := strings.Split(spec, ",")
		coords := make([]float64, len(parts))
		for i, p := range parts {
			if coords[i], err = strconv.ParseFloat(strings.TrimSpace(p), 64); err != nil {
				return nil, fmt.Errorf("ParseROI: invalid coordinate %q in %q", p, spec)
			}
		}
		switch len(coords) {
		case 4:
			if g, err = bboxGeometry(coords[0], coords[1], coords[2], coords[3]); err != nil {
				return nil, fmt.Errorf("ParseROI.%w", err)
			}
		case 2:
			if bufferMeters <= 0 {
				return nil, fmt.Errorf("ParseROI: a point region requires a buffer distance in meters")
			}
			if g, err = geos.NewPoint(geos.NewCoord(coords[0], coords[1])); err != nil {
				return nil, fmt.Errorf("ParseROI.NewPoint: %w", err)
			}
		default:
			return nil, fmt.Errorf("ParseROI: %q is neither a bounding box, a point nor a readable GeoJSON file", spec)
		}
	}

	if bufferMeters > 0 {
		if g, err = BufferMeters(g, bufferMeters); err != nil {
			return nil, fmt.Errorf("ParseROI.%w", err)
		}
	}

	wkt, err := g.ToWKT()
	if err != nil {
		return nil, fmt.Errorf("ParseROI.ToWKT: %w", err)
	}
	return &ROI{g: g, wkt: wkt}, nil
}

// WKT returns the region as a WKT string.
func (r *ROI) WKT() string { return r.wkt }

// Geometry returns the region as a geom.Geometry.
func (r *ROI) Geometry() (geom.Geometry, error) {
	g, err := geomwkt.DecodeString(r.wkt)
	if err != nil {
		return nil, fmt.Errorf("Geometry.DecodeString: %w", err)
	}
	return g, nil
}

// Bounds returns the lonmin,latmin,lonmax,latmax envelope of the region.
func (r *ROI) Bounds() ([4]float64, error) {
	g, err := r.Geometry()
	if err != nil {
		return [4]float64{}, fmt.Errorf("Bounds.%w", err)
	}
	ext, err := geom.NewExtentFromGeometry(g)
	if err != nil {
		return [4]float64{}, fmt.Errorf("Bounds.NewExtentFromGeometry: %w", err)
	}
	return [4]float64{ext.MinX(), ext.MinY(), ext.MaxX(), ext.MaxY()}, nil
}

// Intersects returns whether the region intersects the geometry given as WKT.
// An unparsable WKT counts as an intersection so that results with degraded
// footprints are never silently dropped.
func (r *ROI) Intersects(wkt string) bool {
	g, err := geos.FromWKT(wkt)
	if err != nil {
		return true
	}
	inter, err := r.g.Intersects(g)
	if err != nil {
		return true
	}
	return inter
}

func bboxGeometry(lonmin, latmin, lonmax, latmax float64) (*geos.Geometry, error) {
	if lonmin >= lonmax || latmin >= latmax {
		return nil, fmt.Errorf("bboxGeometry: empty bounding box (%g,%g,%g,%g)", lonmin, latmin, lonmax, latmax)
	}
	shell := []geos.Coord{
		geos.NewCoord(lonmin, latmin),
		geos.NewCoord(lonmax, latmin),
		geos.NewCoord(lonmax, latmax),
		geos.NewCoord(lonmin, latmax),
		geos.NewCoord(lonmin, latmin),
	}
	g, err := geos.NewPolygon(shell)
	if err != nil {
		return nil, fmt.Errorf("bboxGeometry.NewPolygon: %w", err)
	}
	return g, nil
}

func fromGeoJSONFile(path string) (*geos.Geometry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("fromGeoJSONFile.ReadFile: %w", err)
	}
	g, err := UnmarshalGeometry(data)
	if err != nil {
		return nil, fmt.Errorf("fromGeoJSONFile.%w", err)
	}
	wkt, err := geomwkt.EncodeString(g)
	if err != nil {
		return nil, fmt.Errorf("fromGeoJSONFile.EncodeString: %w", err)
	}
	geo, err := geos.FromWKT(wkt)
	if err != nil {
		return nil, fmt.Errorf("fromGeoJSONFile.FromWKT: %w", err)
	}
	return geo, nil
}

// UnmarshalGeometry, merging featureCollections and geometryCollections into a multipolygon
func UnmarshalGeometry(data []byte) (_ geom.Geometry, err error) {
	var g geojson.Geometry
	if err := g.UnmarshalJSON(data); err != nil {
		return g.Geometry, fmt.Errorf("UnmarshalGeometry: %w", err)
	}
	switch geo := g.Geometry.(type) {
	case geojson.FeatureCollection:
		var mp geom.MultiPolygon
		for _, f := range geo.Features {
			if err := mergeMultiPolygons(f.Geometry.Geometry, &mp); err != nil {
				return nil, err
			}
		}
		return mp, nil
	case geojson.Feature:
		return geo.Geometry.Geometry, nil
	default:
		return g.Geometry, nil
	}
}

func mergeMultiPolygons(g geom.Geometry, mp *geom.MultiPolygon) error {
	switch g := g.(type) {
	case geom.MultiPolygon:
		*mp = append(*mp, g.Polygons()...)
	case geom.Polygon:
		*mp = append(*mp, g.LinearRings())
	case geom.Collection:
		for _, g := range g.Geometries() {
			if err := mergeMultiPolygons(g, mp); err != nil {
				return err
			}
		}
	}
	return nil
}

const earthRadius = 6378137.0

// BufferMeters widens a WGS84 geometry by a distance in meters. The geometry
// is projected to spherical Mercator, buffered there and projected back, so
// the distance is only approximate away from the equator-scale latitude of
// the geometry itself.
func BufferMeters(g *geos.Geometry, meters float64) (*geos.Geometry, error) {
	proj, err := reproject(g, mercatorForward)
	if err != nil {
		return nil, fmt.Errorf("BufferMeters.%w", err)
	}
	centroid, err := g.Centroid()
	if err != nil {
		return nil, fmt.Errorf("BufferMeters.Centroid: %w", err)
	}
	lat, err := centroid.Y()
	if err != nil {
		return nil, fmt.Errorf("BufferMeters.Y: %w", err)
	}
	// Mercator stretches distances by 1/cos(lat)
	buffered, err := proj.Buffer(meters / math.Cos(lat*math.Pi/180))
	if err != nil {
		return nil, fmt.Errorf("BufferMeters.Buffer: %w", err)
	}
	back, err := reproject(buffered, mercatorInverse)
	if err != nil {
		return nil, fmt.Errorf("BufferMeters.%w", err)
	}
	return back, nil
}

func mercatorForward(lon, lat float64) (float64, float64) {
	x := earthRadius * lon * math.Pi / 180
	y := earthRadius * math.Log(math.Tan(math.Pi/4+lat*math.Pi/360))
	return x, y
}

func mercatorInverse(x, y float64) (float64, float64) {
	lon := x / earthRadius * 180 / math.Pi
	lat := (2*math.Atan(math.Exp(y/earthRadius)) - math.Pi/2) * 180 / math.Pi
	return lon, lat
}

func reproject(g *geos.Geometry, transform func(x, y float64) (float64, float64)) (*geos.Geometry, error) {
	wkt, err := g.ToWKT()
	if err != nil {
		return nil, fmt.Errorf("reproject.ToWKT: %w", err)
	}
	geometry, err := geomwkt.DecodeString(wkt)
	if err != nil {
		return nil, fmt.Errorf("reproject.DecodeString: %w", err)
	}
	projected, err := transformGeometry(geometry, transform)
	if err != nil {
		return nil, fmt.Errorf("reproject.%w", err)
	}
	projectedWKT, err := geomwkt.EncodeString(projected)
	if err != nil {
		return nil, fmt.Errorf("reproject.EncodeString: %w", err)
	}
	out, err := geos.FromWKT(projectedWKT)
	if err != nil {
		return nil, fmt.Errorf("reproject.FromWKT: %w", err)
	}
	return out, nil
}

func transformGeometry(g geom.Geometry, transform func(x, y float64) (float64, float64)) (geom.Geometry, error) {
	transformPoints := func(pts [][2]float64) [][2]float64 {
		out := make([][2]float64, len(pts))
		for i, pt := range pts {
			out[i][0], out[i][1] = transform(pt[0], pt[1])
		}
		return out
	}
	switch g := g.(type) {
	case geom.Point:
		x, y := transform(g.X(), g.Y())
		return geom.Point{x, y}, nil
	case geom.Polygon:
		poly := make(geom.Polygon, len(g))
		for i, ring := range g.LinearRings() {
			poly[i] = transformPoints(ring)
		}
		return poly, nil
	case geom.MultiPolygon:
		mp := make(geom.MultiPolygon, len(g))
		for i, rings := range g.Polygons() {
			poly := make([][][2]float64, len(rings))
			for j, ring := range rings {
				poly[j] = transformPoints(ring)
			}
			mp[i] = poly
		}
		return mp, nil
	}
	return nil, fmt.Errorf("transformGeometry: unsupported geometry type %T", g)
}

// WGS84ToLV95 converts WGS84 lon/lat to Swiss LV95 east/north using the
// swisstopo approximation formulas (accurate to ~1m over Switzerland).
func WGS84ToLV95(lon, lat float64) (east, north float64) {
	p := (lat*3600 - 169028.66) / 10000
	l := (lon*3600 - 26782.5) / 10000
	east = 2600072.37 + 211455.93*l - 10938.51*l*p - 0.36*l*p*p - 44.54*l*l*l
	north = 1200147.07 + 308807.95*p + 3745.25*l*l + 76.63*p*p - 194.56*l*l*p + 119.79*p*p*p
	return east, north
}
