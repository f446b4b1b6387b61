package nws

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// coordinatePrecision is the number of decimals the points endpoint accepts
// without redirecting.
const coordinatePrecision = 4

// Coordinates is a decimal-degree position.
type Coordinates struct {
	Latitude  float64
	Longitude float64
}

// ParseCoordinates parses "<lat>,<long>" in decimal degrees.
func ParseCoordinates(s string) (Coordinates, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return Coordinates{}, fmt.Errorf("%w: %q: expected <lat>,<long>", ErrInvalidCoordinates, s)
	}

	lat, err := parseDegrees(parts[0], 90)
	if err != nil {
		return Coordinates{}, fmt.Errorf("%w: latitude %w", ErrInvalidCoordinates, err)
	}
	lon, err := parseDegrees(parts[1], 180)
	if err != nil {
		return Coordinates{}, fmt.Errorf("%w: longitude %w", ErrInvalidCoordinates, err)
	}
	return Coordinates{Latitude: lat, Longitude: lon}, nil
}

func parseDegrees(s string, limit float64) (float64, error) {
	s = strings.TrimSpace(s)
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%q is not a decimal number", s)
	}
	if v < -limit || v > limit {
		return 0, fmt.Errorf("%q is outside [-%g, %g]", s, limit, limit)
	}
	return v, nil
}

// String renders the pair the way the points endpoint expects it.
func (c Coordinates) String() string {
	return formatDegrees(c.Latitude) + "," + formatDegrees(c.Longitude)
}

func formatDegrees(v float64) string {
	scale := math.Pow(10, coordinatePrecision)
	r := math.Round(v*scale) / scale
	if r == 0 {
		r = 0 // drop negative zero
	}
	return strconv.FormatFloat(r, 'f', -1, 64)
}

// PointURL addresses the metadata for a position.
func PointURL(base string, c Coordinates) string {
	return strings.TrimRight(base, "/") + "/points/" + c.String()
}

// StationsURL lists observation stations for a forecast grid cell, nearest first.
func StationsURL(base, office string, gridX, gridY int) string {
	return fmt.Sprintf("%s/gridpoints/%s/%d,%d/stations", strings.TrimRight(base, "/"), office, gridX, gridY)
}

// ObservationsURL lists a station's observations, newest first.
func ObservationsURL(stationURL string) string {
	return strings.TrimRight(stationURL, "/") + "/observations"
}
