package forecast

import (
	"fmt"
	"strings"
	"time"

	"github.com/rshade/weathr/internal/nws"
)

// ObservationScanWindow is how many of the newest observations are examined
// for a temperature before giving up.
const ObservationScanWindow = 10

// observationTimeLayout gives "3:04pm"; the hour is space padded separately.
const observationTimeLayout = "3:04pm"

// Conditions is the current-weather line, ready to print.
type Conditions struct {
	StationID   string
	StationName string
	Time        string // local clock time, " 3:04pm"; empty when unparseable
	Temperature string // whole degrees, or MissingValue
	Unit        string
	Index       int // position in the observation list that supplied it
}

// String renders the observation line.
func (c Conditions) String() string {
	return fmt.Sprintf("Most recent observation from %s(%s) at %s: %s°%s",
		c.StationName, c.StationID, c.Time, c.Temperature, c.Unit)
}

// FirstWithTemperature returns the index of the newest observation carrying a
// temperature, looking no further than ObservationScanWindow entries.
func FirstWithTemperature(obs []nws.Observation) (int, bool) {
	for i := 0; i < len(obs) && i < ObservationScanWindow; i++ {
		if obs[i].Temperature.Present {
			return i, true
		}
	}
	return -1, false
}

// NewConditions builds the printable line for obs, expressed in unit and
// with the time shown in loc.
func NewConditions(obs nws.Observation, unit string, loc *time.Location) Conditions {
	temp, shown := FormatReading(obs.Temperature, unit)
	return Conditions{
		StationID:   obs.StationID,
		StationName: obs.StationName,
		Time:        FormatObservationTime(obs.Timestamp, loc),
		Temperature: temp,
		Unit:        shown,
	}
}

// FormatReading renders r in whole degrees of unit and returns it with the
// unit it is expressed in. A reading whose unit code is not a degree scale is
// passed through as sent, labelled with that code. A value that is not a
// number, or a degree scale that cannot be converted, is MissingValue.
func FormatReading(r nws.Reading, unit string) (string, string) {
	if r.Present && !r.IsDegrees() {
		return strings.TrimSpace(r.Raw), r.UnitCode
	}
	v, ok := r.Number()
	if !ok {
		return MissingValue, unit
	}
	from, err := NormalizeUnit(r.Unit())
	if err != nil {
		return MissingValue, unit
	}
	converted, err := ConvertTemperature(v, from, unit)
	if err != nil {
		return MissingValue, unit
	}
	return formatWhole(converted), unit
}

// FormatObservationTime renders an ISO-8601 timestamp as a 12-hour clock
// time in loc, with the hour padded to two cells. It returns "" when the
// timestamp does not parse.
func FormatObservationTime(ts string, loc *time.Location) string {
	t, err := time.Parse(time.RFC3339, strings.TrimSpace(ts))
	if err != nil {
		return ""
	}
	if loc == nil {
		loc = time.Local
	}
	s := t.In(loc).Format(observationTimeLayout)
	if len(s) < len("12:04pm") {
		s = " " + s
	}
	return s
}
