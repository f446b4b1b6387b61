package nws

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// LocationProperties is the subset of point metadata weathr uses.
// It doubles as the on-disk location snapshot format.
type LocationProperties struct {
	GridID      string `json:"gridId"`
	GridX       int    `json:"gridX"`
	GridY       int    `json:"gridY"`
	ForecastURL string `json:"forecast"`
	City        string `json:"city"`
	State       string `json:"state"`
}

// Period is one half-day forecast entry.
type Period struct {
	Name            string
	IsDaytime       bool
	ShortForecast   string
	Temperature     float64
	TemperatureUnit string
	WindSpeed       string
	WindDirection   string
}

// Station is an observation site.
type Station struct {
	ID   string // stationIdentifier, e.g. "KTOP"
	Name string
	URL  string // the station resource, base for its observations
}

// Observation is one station report. Only the temperature is decoded.
type Observation struct {
	StationID   string
	StationName string
	Timestamp   string
	Temperature Reading
}

// Reading is a measured value as the API sent it. Raw keeps the textual form
// so a value that does not parse as a number can still be told apart from a
// value that was never reported.
type Reading struct {
	Raw      string
	UnitCode string
	Present  bool
}

// Number parses Raw. It returns false for absent or unparseable values.
func (r Reading) Number() (float64, bool) {
	if !r.Present {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(r.Raw), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// IsDegrees reports whether the unit code names a temperature scale, as in
// "wmoUnit:degC".
func (r Reading) IsDegrees() bool {
	return strings.Contains(r.UnitCode, ":deg")
}

// Unit returns the temperature scale letter from a WMO unit code such as
// "wmoUnit:degC". It returns the code unchanged when it has no ":deg" part.
func (r Reading) Unit() string {
	if _, unit, ok := strings.Cut(r.UnitCode, ":deg"); ok {
		return unit
	}
	return r.UnitCode
}

type pointDoc struct {
	Properties Field[struct {
		GridID           Field[string] `json:"gridId"`
		GridX            Field[int]    `json:"gridX"`
		GridY            Field[int]    `json:"gridY"`
		Forecast         Field[string] `json:"forecast"`
		RelativeLocation Field[struct {
			Properties Field[struct {
				City  Field[string] `json:"city"`
				State Field[string] `json:"state"`
			}] `json:"properties"`
		}] `json:"relativeLocation"`
	}] `json:"properties"`
}

// DecodePoint parses a /points response.
func DecodePoint(body string) (LocationProperties, error) {
	var doc pointDoc
	if err := decode([]byte(body), &doc); err != nil {
		return LocationProperties{}, fmt.Errorf("point: %w", err)
	}

	props, err := doc.Properties.Require("properties")
	if err != nil {
		return LocationProperties{}, fmt.Errorf("point: %w", err)
	}

	var loc LocationProperties
	if loc.GridID, err = props.GridID.Require("properties.gridId"); err != nil {
		return LocationProperties{}, fmt.Errorf("point: %w", err)
	}
	if loc.GridX, err = props.GridX.Require("properties.gridX"); err != nil {
		return LocationProperties{}, fmt.Errorf("point: %w", err)
	}
	if loc.GridY, err = props.GridY.Require("properties.gridY"); err != nil {
		return LocationProperties{}, fmt.Errorf("point: %w", err)
	}
	if loc.ForecastURL, err = props.Forecast.Require("properties.forecast"); err != nil {
		return LocationProperties{}, fmt.Errorf("point: %w", err)
	}

	if rel, ok := props.RelativeLocation.Get(); ok {
		if place, ok := rel.Properties.Get(); ok {
			loc.City = place.City.Or("")
			loc.State = place.State.Or("")
		}
	}
	return loc, nil
}

type periodDoc struct {
	Name            Field[string]  `json:"name"`
	IsDaytime       Field[bool]    `json:"isDaytime"`
	ShortForecast   Field[string]  `json:"shortForecast"`
	Temperature     Field[float64] `json:"temperature"`
	TemperatureUnit Field[string]  `json:"temperatureUnit"`
	WindSpeed       Field[string]  `json:"windSpeed"`
	WindDirection   Field[string]  `json:"windDirection"`
}

type forecastDoc struct {
	Properties Field[struct {
		Periods Field[[]periodDoc] `json:"periods"`
	}] `json:"properties"`
}

// DecodeForecast parses a gridpoint forecast into chronological periods.
func DecodeForecast(body string) ([]Period, error) {
	var doc forecastDoc
	if err := decode([]byte(body), &doc); err != nil {
		return nil, fmt.Errorf("forecast: %w", err)
	}

	props, err := doc.Properties.Require("properties")
	if err != nil {
		return nil, fmt.Errorf("forecast: %w", err)
	}
	raw, err := props.Periods.Require("properties.periods")
	if err != nil {
		return nil, fmt.Errorf("forecast: %w", err)
	}

	periods := make([]Period, 0, len(raw))
	for i, p := range raw {
		period, pErr := p.toPeriod(fmt.Sprintf("properties.periods[%d]", i))
		if pErr != nil {
			return nil, fmt.Errorf("forecast: %w", pErr)
		}
		periods = append(periods, period)
	}
	return periods, nil
}

func (p periodDoc) toPeriod(path string) (Period, error) {
	var out Period
	var err error
	if out.Name, err = p.Name.Require(path + ".name"); err != nil {
		return Period{}, err
	}
	if out.IsDaytime, err = p.IsDaytime.Require(path + ".isDaytime"); err != nil {
		return Period{}, err
	}
	if out.Temperature, err = p.Temperature.Require(path + ".temperature"); err != nil {
		return Period{}, err
	}
	if out.TemperatureUnit, err = p.TemperatureUnit.Require(path + ".temperatureUnit"); err != nil {
		return Period{}, err
	}
	out.ShortForecast = p.ShortForecast.Or("")
	out.WindSpeed = p.WindSpeed.Or("")
	out.WindDirection = p.WindDirection.Or("")
	return out, nil
}

type stationsDoc struct {
	Features Field[[]struct {
		ID         Field[string] `json:"id"`
		Properties Field[struct {
			StationIdentifier Field[string] `json:"stationIdentifier"`
			Name              Field[string] `json:"name"`
		}] `json:"properties"`
	}] `json:"features"`
}

// DecodeNearestStation returns the first station listed, or nil when the
// list is empty. An empty list is a normal answer for some locations.
func DecodeNearestStation(body string) (*Station, error) {
	var doc stationsDoc
	if err := decode([]byte(body), &doc); err != nil {
		return nil, fmt.Errorf("stations: %w", err)
	}

	features, err := doc.Features.Require("features")
	if err != nil {
		return nil, fmt.Errorf("stations: %w", err)
	}
	if len(features) == 0 {
		return nil, nil //nolint:nilnil // no station is not an error
	}

	first := features[0]
	var st Station
	if st.URL, err = first.ID.Require("features[0].id"); err != nil {
		return nil, fmt.Errorf("stations: %w", err)
	}
	props, err := first.Properties.Require("features[0].properties")
	if err != nil {
		return nil, fmt.Errorf("stations: %w", err)
	}
	if st.ID, err = props.StationIdentifier.Require("features[0].properties.stationIdentifier"); err != nil {
		return nil, fmt.Errorf("stations: %w", err)
	}
	st.Name = props.Name.Or("")
	return &st, nil
}

type observationsDoc struct {
	Features Field[[]struct {
		Properties Field[struct {
			Timestamp   Field[string] `json:"timestamp"`
			Temperature Field[struct {
				Value    Field[json.RawMessage] `json:"value"`
				UnitCode Field[string]          `json:"unitCode"`
			}] `json:"temperature"`
		}] `json:"properties"`
	}] `json:"features"`
}

// DecodeObservations parses a station observation list, newest first.
// Entries without a temperature keep Temperature.Present == false.
func DecodeObservations(body string) ([]Observation, error) {
	var doc observationsDoc
	if err := decode([]byte(body), &doc); err != nil {
		return nil, fmt.Errorf("observations: %w", err)
	}

	features, err := doc.Features.Require("features")
	if err != nil {
		return nil, fmt.Errorf("observations: %w", err)
	}

	out := make([]Observation, 0, len(features))
	for _, f := range features {
		var obs Observation
		if props, ok := f.Properties.Get(); ok {
			obs.Timestamp = props.Timestamp.Or("")
			if temp, ok := props.Temperature.Get(); ok {
				obs.Temperature.UnitCode = temp.UnitCode.Or("")
				if raw, ok := temp.Value.Get(); ok {
					obs.Temperature.Present = true
					obs.Temperature.Raw = rawText(raw)
				}
			}
		}
		out = append(out, obs)
	}
	return out, nil
}

// rawText renders a JSON scalar as plain text, unquoting strings.
func rawText(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}
