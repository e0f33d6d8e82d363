package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"OilLens/internal/collector"
	"OilLens/internal/dashboard"
	"OilLens/internal/export"
	"OilLens/internal/model"
)

func daily(from, to string) model.Series {
	start, end := model.MustDate(from), model.MustDate(to)
	var pts []model.PricePoint
	for d, i := start, 0; !d.After(end); d, i = d.AddDate(0, 0, 1), i+1 {
		pts = append(pts, model.PricePoint{Date: d, Price: 70 + float64(i%9)})
	}
	return model.Series{Name: "brent", Points: pts}
}

func newTestApp(t *testing.T, publish bool) (*dashboard.Service, func(method, target string) *http.Response) {
	t.Helper()
	svc := dashboard.New(dashboard.Options{SourcePath: "missing.csv"},
		&collector.MockQuoteFetcher{Price: 79.1},
		&collector.MockNewsClient{Err: errors.New("upstream down")},
		nil)
	t.Cleanup(svc.Close)
	if publish {
		svc.Publish(daily("2019-01-01", "2021-12-31"), daily("2022-01-01", "2022-01-31"), model.LoadReport{Kept: 1096})
	}
	app := NewApp(svc, Options{Quiet: true})
	do := func(method, target string) *http.Response {
		resp, err := app.Test(httptest.NewRequest(method, target, nil), -1)
		require.NoError(t, err)
		return resp
	}
	return svc, do
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func TestHealth(t *testing.T) {
	_, do := newTestApp(t, false)
	assert.Equal(t, http.StatusOK, do("GET", "/health").StatusCode)
	assert.Equal(t, http.StatusServiceUnavailable, do("GET", "/health/ready").StatusCode)

	_, do = newTestApp(t, true)
	body := decode[map[string]any](t, do("GET", "/health/ready"))
	assert.Equal(t, "ready", body["status"])
	assert.EqualValues(t, 1096, body["points"])
}

func TestView_Window(t *testing.T) {
	_, do := newTestApp(t, true)
	resp := do("GET", "/v1/views/window?start=2020-01-01&end=2020-12-31")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	v := decode[struct {
		Command string `json:"command"`
		Series  struct {
			Points []map[string]any `json:"points"`
		} `json:"series"`
	}](t, resp)
	assert.Equal(t, "window", v.Command)
	require.Len(t, v.Series.Points, 366)
	assert.Equal(t, "2020-01-01", v.Series.Points[0]["date"])
}

func TestView_Trend(t *testing.T) {
	_, do := newTestApp(t, true)
	resp := do("GET", "/v1/views/trend?start=2020-06-01&end=2020-06-30&windows=7,30")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	v := decode[struct {
		Stats []struct {
			Name string `json:"name"`
		} `json:"stats"`
	}](t, resp)
	require.GreaterOrEqual(t, len(v.Stats), 2)
	assert.Equal(t, "ma7", v.Stats[0].Name)
	assert.Equal(t, "ma30", v.Stats[1].Name)
}

func TestView_Errors(t *testing.T) {
	_, do := newTestApp(t, true)
	tests := []struct {
		target string
		code   int
	}{
		{"/v1/views/window?start=2021-01-01&end=2020-01-01", http.StatusBadRequest},
		{"/v1/views/window?start=yesterday", http.StatusBadRequest},
		{"/v1/views/window?start=2030-01-01", http.StatusBadRequest},
		{"/v1/views/geo?table=importers", http.StatusBadRequest},
		{"/v1/views/events?category=sideways", http.StatusBadRequest},
		{"/v1/export/geo?format=parquet", http.StatusBadRequest},
		{"/v1/views/trend?windows=0", http.StatusBadRequest},
		{"/v1/views/volatility?vol_window=x", http.StatusBadRequest},
		{"/v1/views/volatility?vol_window=1", http.StatusBadRequest},
		{"/v1/views/menu", http.StatusNotFound},
		{"/v1/export/pandemic?format=parquet", http.StatusBadRequest},
		{"/v1/export/raw?format=xlsx", http.StatusBadRequest},
		{"/v1/news", http.StatusBadGateway},
		{"/v1/nothing", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			resp := do("GET", tt.target)
			assert.Equal(t, tt.code, resp.StatusCode)
			body := decode[ErrorResponse](t, resp)
			assert.Equal(t, tt.code, body.Code)
			assert.NotEmpty(t, body.Message)
		})
	}
}

func TestView_NotLoaded(t *testing.T) {
	_, do := newTestApp(t, false)
	assert.Equal(t, http.StatusServiceUnavailable, do("GET", "/v1/views/raw").StatusCode)
	assert.Equal(t, http.StatusServiceUnavailable, do("POST", "/v1/admin/reload").StatusCode)
}

func TestExport_CSVRoundTrip(t *testing.T) {
	_, do := newTestApp(t, true)
	resp := do("GET", "/v1/export/window?start=2020-02-01&end=2020-02-29")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "window.csv")
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(raw), "date,price\n"))
	assert.Equal(t, 29+1, strings.Count(string(raw), "\n"))
}

func TestExport_Parquet(t *testing.T) {
	_, do := newTestApp(t, true)
	resp := do("GET", "/v1/export/covid?format=parquet")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	s, err := export.ReadParquet(bytes.NewReader(raw), "covid")
	require.NoError(t, err)
	assert.Equal(t, 1096, s.Len())
}

func TestQuoteAndCommands(t *testing.T) {
	_, do := newTestApp(t, true)

	q := decode[model.Quote](t, do("GET", "/v1/quote"))
	assert.Equal(t, 79.1, q.Price)

	hist := do("GET", "/v1/quote/history?limit=5")
	assert.Equal(t, http.StatusOK, hist.StatusCode)
	assert.Equal(t, http.StatusBadRequest, do("GET", "/v1/quote/history?limit=0").StatusCode)

	cmds := decode[[]map[string]string](t, do("GET", "/v1/commands"))
	assert.Len(t, cmds, len(dashboard.Commands()))
}

func TestView_CachedViewsKeepTheirCommand(t *testing.T) {
	svc, do := newTestApp(t, true)
	require.Equal(t, http.StatusOK, do("GET", "/v1/views/covid").StatusCode)
	require.Equal(t, http.StatusOK, do("GET", "/v1/views/events").StatusCode)

	for i := 0; i < 50; i++ {
		do("GET", "/v1/views/xxxxx").Body.Close()
		do("GET", "/v1/views/tarp?start=2007-06-01").Body.Close()
		do("GET", "/v1/export/window?start=2020-01-01&end=2020-01-05").Body.Close()
	}

	v, err := svc.Run(dashboard.Request{Command: dashboard.CmdCovid})
	require.NoError(t, err)
	assert.Equal(t, dashboard.CmdCovid, v.Command)

	ev, err := svc.Run(dashboard.Request{Command: dashboard.CmdEvents})
	require.NoError(t, err)
	assert.Equal(t, dashboard.CmdEvents, ev.Command)
	var buf bytes.Buffer
	require.NoError(t, ev.WriteCSV(&buf))
	assert.True(t, strings.HasPrefix(buf.String(), "date,label,category,color\n"))
}

func TestView_GeoAndCategory(t *testing.T) {
	_, do := newTestApp(t, true)

	v := decode[struct {
		Geo struct {
			Name string `json:"name"`
			Year int    `json:"year"`
			Rows []struct {
				Code string `json:"code"`
			} `json:"rows"`
		} `json:"geo"`
	}](t, do("GET", "/v1/views/geo?table=Exporters"))
	assert.Equal(t, "exporters", v.Geo.Name)
	assert.Equal(t, 2018, v.Geo.Year)
	require.Len(t, v.Geo.Rows, 10)
	assert.Equal(t, "SAU", v.Geo.Rows[0].Code)

	resp := do("GET", "/v1/export/geo")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(raw), "rank,country,code,value\n1,United States,USA,11.307\n"))

	events := decode[struct {
		Events []model.Event `json:"events"`
	}](t, do("GET", "/v1/views/events?category=decline"))
	require.Len(t, events.Events, 3)
	for _, e := range events.Events {
		assert.Equal(t, model.CategoryDecline, e.Category)
	}
}
