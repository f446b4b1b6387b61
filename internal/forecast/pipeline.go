// Package forecast drives one weathr run: it resolves the location, then
// fetches the forecast, the nearest station and its recent observations.
//
// Every stage depends on the one before it, so the stages run in order and
// the first fatal error stops the run.
package forecast

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rshade/weathr/internal/logging"
	"github.com/rshade/weathr/internal/nws"
)

// Fetcher returns the text body for a URL. *nws.Gateway implements it.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// Snapshots persists the resolved location between runs.
type Snapshots interface {
	Load() (nws.LocationProperties, error)
	Save(loc nws.LocationProperties) error
}

// Options tunes a Pipeline.
type Options struct {
	BaseURL  string         // API root; nws.DefaultBaseURL when empty
	Unit     string         // output temperature scale; Fahrenheit when empty
	Location *time.Location // zone for observation times; time.Local when nil
}

// Pipeline runs the stages of a weathr report.
type Pipeline struct {
	fetcher   Fetcher
	snapshots Snapshots
	opts      Options
}

// Report is everything one run prints.
type Report struct {
	Location nws.LocationProperties
	Periods  []nws.Period
	Current  *Conditions // nil when no recent observation has a temperature
}

// New returns a Pipeline. It fails only on an unusable output unit.
func New(fetcher Fetcher, snapshots Snapshots, opts Options) (*Pipeline, error) {
	if opts.BaseURL == "" {
		opts.BaseURL = nws.DefaultBaseURL
	}
	if opts.Unit == "" {
		opts.Unit = Fahrenheit
	}
	unit, err := NormalizeUnit(opts.Unit)
	if err != nil {
		return nil, err
	}
	if unit == Kelvin {
		return nil, fmt.Errorf("%w: output must be F or C", ErrUnknownUnit)
	}
	opts.Unit = unit
	if opts.Location == nil {
		opts.Location = time.Local
	}
	return &Pipeline{fetcher: fetcher, snapshots: snapshots, opts: opts}, nil
}

// Unit returns the output temperature scale.
func (p *Pipeline) Unit() string {
	return p.opts.Unit
}

// Run executes every stage and assembles the report. With coords nil the
// saved location is used.
func (p *Pipeline) Run(ctx context.Context, coords *nws.Coordinates) (*Report, error) {
	log := logging.FromContext(ctx)

	loc, err := p.ResolveLocation(ctx, coords)
	if err != nil {
		return nil, fmt.Errorf("resolving location: %w", err)
	}
	log.Debug().
		Str("grid_id", loc.GridID).
		Int("grid_x", loc.GridX).
		Int("grid_y", loc.GridY).
		Str("city", loc.City).
		Msg("location resolved")

	periods, err := p.Forecast(ctx, loc)
	if err != nil {
		return nil, fmt.Errorf("loading forecast: %w", err)
	}

	current, err := p.CurrentConditions(ctx, loc)
	if err != nil {
		return nil, err
	}

	return &Report{Location: loc, Periods: periods, Current: current}, nil
}

// ResolveLocation fetches point metadata for coords and saves it, or loads
// the saved location when coords is nil. Failing to save is logged and does
// not fail the run.
func (p *Pipeline) ResolveLocation(ctx context.Context, coords *nws.Coordinates) (nws.LocationProperties, error) {
	log := logging.FromContext(ctx)

	if coords == nil {
		loc, err := p.snapshots.Load()
		if err != nil {
			return nws.LocationProperties{}, err
		}
		log.Debug().Msg("using saved location")
		return loc, nil
	}

	body, err := p.fetcher.Fetch(ctx, nws.PointURL(p.opts.BaseURL, *coords))
	if err != nil {
		return nws.LocationProperties{}, err
	}
	loc, err := nws.DecodePoint(body)
	if err != nil {
		return nws.LocationProperties{}, err
	}

	if saveErr := p.snapshots.Save(loc); saveErr != nil {
		log.Warn().Err(saveErr).Msg("could not save location")
	}
	return loc, nil
}

// Forecast returns the forecast periods for loc in chronological order.
func (p *Pipeline) Forecast(ctx context.Context, loc nws.LocationProperties) ([]nws.Period, error) {
	body, err := p.fetcher.Fetch(ctx, loc.ForecastURL)
	if err != nil {
		return nil, err
	}
	return nws.DecodeForecast(body)
}

// NearestStation returns the closest observation station to loc's grid
// cell, or nil when the API lists none.
func (p *Pipeline) NearestStation(ctx context.Context, loc nws.LocationProperties) (*nws.Station, error) {
	body, err := p.fetcher.Fetch(ctx, nws.StationsURL(p.opts.BaseURL, loc.GridID, loc.GridX, loc.GridY))
	if err != nil {
		return nil, err
	}
	return nws.DecodeNearestStation(body)
}

// LatestObservation returns the newest of st's observations that has a
// temperature, scanning at most ObservationScanWindow entries. The second
// result is its index; a nil observation means none qualified.
func (p *Pipeline) LatestObservation(ctx context.Context, st nws.Station) (*nws.Observation, int, error) {
	body, err := p.fetcher.Fetch(ctx, nws.ObservationsURL(st.URL))
	if err != nil {
		return nil, -1, err
	}
	all, err := nws.DecodeObservations(body)
	if err != nil {
		return nil, -1, err
	}

	i, ok := FirstWithTemperature(all)
	if !ok {
		return nil, -1, nil
	}
	obs := all[i]
	obs.StationID = st.ID
	obs.StationName = st.Name
	return &obs, i, nil
}

// CurrentConditions finds the nearest station's latest temperature for loc.
// It returns nil without error when there is no station or no usable
// observation.
func (p *Pipeline) CurrentConditions(ctx context.Context, loc nws.LocationProperties) (*Conditions, error) {
	log := logging.FromContext(ctx)

	st, err := p.NearestStation(ctx, loc)
	if err != nil {
		return nil, fmt.Errorf("finding nearest station: %w", err)
	}
	if st == nil {
		log.Debug().Msg("no observation stations listed")
		return nil, nil //nolint:nilnil // no station is a normal outcome
	}

	obs, idx, err := p.LatestObservation(ctx, *st)
	if err != nil {
		return nil, fmt.Errorf("loading observations for %s: %w", st.ID, err)
	}
	if obs == nil {
		log.Debug().Str("station", st.ID).Msg("no recent observation with a temperature")
		return nil, nil //nolint:nilnil // no observation is a normal outcome
	}

	c := NewConditions(*obs, p.opts.Unit, p.opts.Location)
	c.Index = idx
	log.Debug().Str("station", st.ID).Int("index", c.Index).Msg("observation selected")
	if c.Temperature == MissingValue {
		log.Debug().Str("raw", obs.Temperature.Raw).Str("unit_code", obs.Temperature.UnitCode).
			Msg("temperature not numeric")
	}
	return &c, nil
}

// IsFirstRun reports whether err means no location has been saved yet.
func IsFirstRun(err error) bool {
	return errors.Is(err, ErrNoSnapshot)
}
