package forecast

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/weathr/internal/fsys"
	"github.com/rshade/weathr/internal/nws"
)

// fakeNWS serves a minimal API rooted at its own URL.
type fakeNWS struct {
	*httptest.Server

	mu           sync.Mutex
	hits         map[string]int
	stations     string // features array for the stations list
	observations string // features array for the observations list
	pointStatus  int
}

func newFakeNWS(t *testing.T) *fakeNWS {
	t.Helper()
	f := &fakeNWS{hits: map[string]int{}, pointStatus: http.StatusOK}
	f.observations = `[{"properties":{"timestamp":"2026-10-19T18:53:00+00:00",` +
		`"temperature":{"unitCode":"wmoUnit:degC","value":12.2}}}]`

	r := mux.NewRouter()
	r.Use(f.count)
	r.HandleFunc("/points/{coords}", f.point).Methods(http.MethodGet)
	r.HandleFunc("/gridpoints/{office}/{grid}/forecast", f.gridForecast).Methods(http.MethodGet)
	r.HandleFunc("/gridpoints/{office}/{grid}/stations", f.gridStations).Methods(http.MethodGet)
	r.HandleFunc("/stations/{station}/observations", f.stationObservations).Methods(http.MethodGet)

	f.Server = httptest.NewServer(r)
	f.stations = fmt.Sprintf(`[{"id":"%s/stations/KTOP","properties":{"stationIdentifier":"KTOP",`+
		`"name":"Topeka, Philip Billard Municipal Airport"}}]`, f.URL)
	t.Cleanup(f.Close)
	return f
}

func (f *fakeNWS) count(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.hits[r.URL.Path]++
		f.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

func (f *fakeNWS) point(w http.ResponseWriter, _ *http.Request) {
	f.mu.Lock()
	status := f.pointStatus
	f.mu.Unlock()

	if status != http.StatusOK {
		w.WriteHeader(status)
		_, _ = w.Write([]byte(`{"title":"Not Found","detail":"Unable to provide data for requested point"}`))
		return
	}
	fmt.Fprintf(w, `{"properties":{"gridId":"TOP","gridX":31,"gridY":80,"forecast":"%s/gridpoints/TOP/31,80/forecast",`+
		`"relativeLocation":{"properties":{"city":"Topeka","state":"KS"}}}}`, f.URL)
}

func (f *fakeNWS) knownGrid(w http.ResponseWriter, r *http.Request) bool {
	vars := mux.Vars(r)
	if vars["office"] != "TOP" || vars["grid"] != "31,80" {
		http.NotFound(w, r)
		return false
	}
	return true
}

func (f *fakeNWS) gridForecast(w http.ResponseWriter, r *http.Request) {
	if !f.knownGrid(w, r) {
		return
	}
	_, _ = w.Write([]byte(`{"properties":{"periods":[` +
		`{"name":"Tonight","isDaytime":false,"temperature":45,"temperatureUnit":"F",` +
		`"windSpeed":"5 mph","windDirection":"S","shortForecast":"Clear"},` +
		`{"name":"Monday","isDaytime":true,"temperature":71,"temperatureUnit":"F",` +
		`"windSpeed":"10 mph","windDirection":"SW","shortForecast":"Sunny"}]}}`))
}

func (f *fakeNWS) gridStations(w http.ResponseWriter, r *http.Request) {
	if !f.knownGrid(w, r) {
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	fmt.Fprintf(w, `{"features":%s}`, f.stations)
}

func (f *fakeNWS) stationObservations(w http.ResponseWriter, r *http.Request) {
	if mux.Vars(r)["station"] != "KTOP" {
		http.NotFound(w, r)
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	fmt.Fprintf(w, `{"features":%s}`, f.observations)
}

func (f *fakeNWS) hitCount(path string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.hits[path]
}

func newTestPipeline(t *testing.T, f *fakeNWS, unit string) (*Pipeline, *SnapshotStore) {
	t.Helper()
	snaps := NewSnapshotStore(filepath.Join(t.TempDir(), "properties.json"), fsys.OS{})
	p, err := New(nws.NewGateway(nil, "weathr/test"), snaps, Options{
		BaseURL:  f.URL,
		Unit:     unit,
		Location: time.UTC,
	})
	require.NoError(t, err)
	return p, snaps
}

var topeka = &nws.Coordinates{Latitude: 39.0473, Longitude: -95.6752}

func TestRunWithCoordinates(t *testing.T) {
	f := newFakeNWS(t)
	p, snaps := newTestPipeline(t, f, "F")

	report, err := p.Run(context.Background(), topeka)
	require.NoError(t, err)

	assert.Equal(t, "Topeka", report.Location.City)
	assert.Equal(t, "KS", report.Location.State)
	require.Len(t, report.Periods, 2)
	assert.Equal(t, "Tonight", report.Periods[0].Name)

	require.NotNil(t, report.Current)
	assert.Equal(t, "54", report.Current.Temperature)
	assert.Equal(t, "KTOP", report.Current.StationID)
	assert.Equal(t, " 6:53pm", report.Current.Time)
	assert.Equal(t,
		"Most recent observation from Topeka, Philip Billard Municipal Airport(KTOP) at  6:53pm: 54°F",
		report.Current.String())

	saved, err := snaps.Load()
	require.NoError(t, err)
	assert.Equal(t, report.Location, saved)
	assert.Equal(t, 1, f.hitCount("/points/39.0473,-95.6752"))
}

func TestRunFromSnapshot(t *testing.T) {
	f := newFakeNWS(t)
	p, _ := newTestPipeline(t, f, "C")

	_, err := p.Run(context.Background(), topeka)
	require.NoError(t, err)

	report, err := p.Run(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, "TOP", report.Location.GridID)
	assert.Equal(t, 1, f.hitCount("/points/39.0473,-95.6752"), "the saved location avoids a second lookup")
	require.NotNil(t, report.Current)
	assert.Equal(t, "12", report.Current.Temperature)
	assert.Equal(t, "C", report.Current.Unit)
}

func TestRunFirstRunWithoutCoordinates(t *testing.T) {
	f := newFakeNWS(t)
	p, _ := newTestPipeline(t, f, "F")

	_, err := p.Run(context.Background(), nil)
	require.Error(t, err)
	assert.True(t, IsFirstRun(err))
	assert.Contains(t, err.Error(), "--latlong")
	assert.Empty(t, f.hits, "no request is made without a location")
}

func TestRunPointLookupFails(t *testing.T) {
	f := newFakeNWS(t)
	f.pointStatus = http.StatusNotFound
	p, snaps := newTestPipeline(t, f, "F")

	_, err := p.Run(context.Background(), topeka)
	require.ErrorIs(t, err, nws.ErrNetwork)
	assert.Contains(t, err.Error(), "Unable to provide data")

	_, loadErr := snaps.Load()
	assert.ErrorIs(t, loadErr, ErrNoSnapshot, "a failed lookup leaves no snapshot")
}

func TestRunNoStations(t *testing.T) {
	f := newFakeNWS(t)
	f.stations = `[]`
	p, _ := newTestPipeline(t, f, "F")

	report, err := p.Run(context.Background(), topeka)
	require.NoError(t, err)
	assert.Nil(t, report.Current)
	assert.Len(t, report.Periods, 2)
	assert.Zero(t, f.hitCount("/stations/KTOP/observations"))
}

func TestRunStationMissingIdentifier(t *testing.T) {
	f := newFakeNWS(t)
	f.stations = fmt.Sprintf(`[{"id":"%s/stations/KTOP","properties":{"name":"Topeka"}}]`, f.URL)
	p, _ := newTestPipeline(t, f, "F")

	_, err := p.Run(context.Background(), topeka)
	assert.ErrorIs(t, err, nws.ErrMissingField)
}

func observationList(temps map[int]string, n int) string {
	entries := make([]string, 0, n)
	for i := range n {
		value := "null"
		if v, ok := temps[i]; ok {
			value = v
		}
		entries = append(entries, fmt.Sprintf(
			`{"properties":{"timestamp":"2026-10-19T%02d:00:00+00:00","temperature":{"unitCode":"wmoUnit:degC","value":%s}}}`,
			20-i, value))
	}
	return "[" + strings.Join(entries, ",") + "]"
}

func TestLatestObservationScan(t *testing.T) {
	tests := []struct {
		name      string
		list      string
		wantIndex int
		wantTemp  string
		wantNone  bool
	}{
		{
			name:      "newest has a value",
			list:      observationList(map[int]string{0: "20"}, 3),
			wantIndex: 0,
			wantTemp:  "68",
		},
		{
			name:      "seventh entry is the first with a value",
			list:      observationList(map[int]string{7: "0", 8: "30"}, 10),
			wantIndex: 7,
			wantTemp:  "32",
		},
		{
			name:     "ten absent values and a later one",
			list:     observationList(map[int]string{10: "25"}, 12),
			wantNone: true,
		},
		{
			name:     "empty list",
			list:     `[]`,
			wantNone: true,
		},
		{
			name:      "non-numeric value",
			list:      observationList(map[int]string{1: `"warm"`}, 3),
			wantIndex: 1,
			wantTemp:  MissingValue,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFakeNWS(t)
			f.observations = tt.list
			p, _ := newTestPipeline(t, f, "F")

			report, err := p.Run(context.Background(), topeka)
			require.NoError(t, err)
			if tt.wantNone {
				assert.Nil(t, report.Current)
				return
			}
			require.NotNil(t, report.Current)
			assert.Equal(t, tt.wantIndex, report.Current.Index)
			assert.Equal(t, tt.wantTemp, report.Current.Temperature)
		})
	}
}

func TestRunMalformedForecast(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/points/") {
			_, _ = w.Write([]byte(`{"properties":{"gridId":"TOP","gridX":31,"gridY":80,` +
				`"forecast":"` + "http://" + r.Host + `/forecast"}}`))
			return
		}
		_, _ = w.Write([]byte(`{"properties":{"periods":[`))
	}))
	defer srv.Close()

	snaps := NewSnapshotStore(filepath.Join(t.TempDir(), "properties.json"), fsys.OS{})
	p, err := New(nws.NewGateway(nil, "weathr/test"), snaps, Options{BaseURL: srv.URL})
	require.NoError(t, err)

	_, err = p.Run(context.Background(), topeka)
	assert.ErrorIs(t, err, nws.ErrMalformedJSON)
}

type failingSnapshots struct{}

func (failingSnapshots) Load() (nws.LocationProperties, error) {
	return nws.LocationProperties{}, ErrNoSnapshotPath
}

func (failingSnapshots) Save(nws.LocationProperties) error {
	return errors.New("disk full")
}

func TestResolveLocationSaveFailureIsNotFatal(t *testing.T) {
	f := newFakeNWS(t)
	p, err := New(nws.NewGateway(nil, "weathr/test"), failingSnapshots{}, Options{BaseURL: f.URL})
	require.NoError(t, err)

	loc, err := p.ResolveLocation(context.Background(), topeka)
	require.NoError(t, err)
	assert.Equal(t, "TOP", loc.GridID)

	_, err = p.ResolveLocation(context.Background(), nil)
	assert.ErrorIs(t, err, ErrNoSnapshotPath)
}

func TestNewRejectsUnit(t *testing.T) {
	_, err := New(nil, nil, Options{Unit: "K"})
	require.ErrorIs(t, err, ErrUnknownUnit)

	_, err = New(nil, nil, Options{Unit: "x"})
	require.ErrorIs(t, err, ErrUnknownUnit)

	p, err := New(nil, nil, Options{Unit: "c"})
	require.NoError(t, err)
	assert.Equal(t, Celsius, p.Unit())
}
