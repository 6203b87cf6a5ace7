package handler

import (
	"astrodash/pkg/metrics"
	srvc "astrodash/pkg/service"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

type fakeAstro struct {
	body   json.RawMessage
	err    error
	params map[string]string
	start  string
	end    string
}

func (f *fakeAstro) Apod(_ context.Context, params map[string]string) (json.RawMessage, error) {
	f.params = params
	return f.body, f.err
}

func (f *fakeAstro) NeoFeed(_ context.Context, start, end string) (json.RawMessage, error) {
	f.start, f.end = start, end
	return f.body, f.err
}

func newTestHandler(astro srvc.Astro) http.Handler {
	h := NewHandler(&srvc.Service{Astro: astro}, nil, nil)
	h.now = func() time.Time { return time.Date(2024, 1, 1, 15, 0, 0, 0, time.Local) }
	return h.InitRoutes()
}

func serve(h http.Handler, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
	return w
}

func TestGetStringParam(t *testing.T) {

	tests := []struct {
		name     string
		payload  string
		param    string
		nilReq   bool
		expected string
	}{
		{
			name:     "Get valid value",
			payload:  "https://hehe.org/hehe?date=2013-09-30",
			param:    "date",
			expected: "2013-09-30",
		}, {
			name:     "Get empty string",
			payload:  "https://hehe.org/hehe?date=",
			param:    "date",
			expected: "",
		}, {
			name:     "Nil req",
			payload:  "https://hehe.org/hehe?date=2013-09-30",
			param:    "date",
			nilReq:   true,
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {

			req, err := http.NewRequest(http.MethodGet, tt.payload, nil)
			require.NoError(t, err)

			if tt.nilReq {
				req = nil
			}

			actual := getStringParam(req, tt.param)
			require.Equal(t, tt.expected, actual)
		})
	}
}

func TestFeedRange(t *testing.T) {
	now := time.Date(2024, 2, 26, 23, 30, 0, 0, time.Local)

	tests := []struct {
		name          string
		start, end    string
		expectedStart string
		expectedEnd   string
	}{
		{name: "both absent", expectedStart: "2024-02-26", expectedEnd: "2024-03-04"},
		{name: "start only", start: "2023-12-28", expectedStart: "2023-12-28", expectedEnd: "2024-01-04"},
		{name: "both given", start: "2024-01-01", end: "2024-01-03", expectedStart: "2024-01-01", expectedEnd: "2024-01-03"},
		{name: "end only", end: "2024-03-01", expectedStart: "2024-02-26", expectedEnd: "2024-03-01"},
		{name: "malformed start passed through", start: "01/01/2024", expectedStart: "01/01/2024", expectedEnd: ""},
		{name: "malformed end passed through", start: "2024-01-01", end: "soon", expectedStart: "2024-01-01", expectedEnd: "soon"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end := feedRange(tt.start, tt.end, now)
			require.Equal(t, tt.expectedStart, start)
			require.Equal(t, tt.expectedEnd, end)
		})
	}
}

func TestApodRelay(t *testing.T) {
	body := `{"date":"2024-01-01", "title":"Moonrise"}`
	astro := &fakeAstro{body: json.RawMessage(body)}

	w := serve(newTestHandler(astro), "/api/apod")

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "application/json", w.Header().Get("Content-Type"))
	require.Equal(t, body, w.Body.String())
	require.Empty(t, astro.params)
}

func TestApodForwardsOptionalParams(t *testing.T) {
	astro := &fakeAstro{body: json.RawMessage(`[]`)}

	w := serve(newTestHandler(astro), "/api/apod?count=3&thumbs=true&api_key=theirs")

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, map[string]string{"count": "3", "thumbs": "true"}, astro.params)
}

func TestNeoFeedDefaults(t *testing.T) {
	astro := &fakeAstro{body: json.RawMessage(`{"element_count":0,"near_earth_objects":{}}`)}

	w := serve(newTestHandler(astro), "/api/neofeed")

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "2024-01-01", astro.start)
	require.Equal(t, "2024-01-08", astro.end)
	require.Equal(t, `{"element_count":0,"near_earth_objects":{}}`, w.Body.String())
}

func TestNeoFeedExplicitRange(t *testing.T) {
	astro := &fakeAstro{body: json.RawMessage(`{}`)}

	serve(newTestHandler(astro), "/api/neofeed?start_date=2023-06-01&end_date=2023-06-02")

	require.Equal(t, "2023-06-01", astro.start)
	require.Equal(t, "2023-06-02", astro.end)
}

func TestProxyErrors(t *testing.T) {

	tests := []struct {
		name     string
		target   string
		err      error
		expected string
	}{
		{
			name:     "apod upstream error",
			target:   "/api/apod",
			err:      &srvc.UpstreamError{Status: http.StatusForbidden, Message: "failed to fetch data from https://api.nasa.gov/planetary/apod?api_key=REDACTED"},
			expected: `{"error":"failed to fetch data from https://api.nasa.gov/planetary/apod?api_key=REDACTED"}` + "\n",
		}, {
			name:     "feed transport error",
			target:   "/api/neofeed",
			err:      errors.New("connection refused"),
			expected: `{"error":"connection refused"}` + "\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(newTestHandler(&fakeAstro{err: tt.err}), tt.target)

			body, err := io.ReadAll(w.Result().Body)
			require.NoError(t, err)

			require.Equal(t, http.StatusInternalServerError, w.Code)
			require.Equal(t, "application/json", w.Header().Get("Content-Type"))
			require.Equal(t, tt.expected, string(body))
		})
	}
}

// end to end through the real client against a fake NASA API
func TestNeoFeedUpstreamErrorMessage(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "bad-date", r.URL.Query().Get("start_date"))
		require.Empty(t, r.URL.Query().Get("end_date"))
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"code":400,"http_error":"BAD_REQUEST","error_message":"Date Format Exception - Expected format (yyyy-mm-dd) - bad-date"}`))
	}))
	defer upstream.Close()

	services := srvc.NewService(srvc.NewClient(upstream.Client(), "KEY"), upstream.URL+"/planetary/apod", upstream.URL+"/neo/rest/v1/feed")
	h := NewHandler(services, nil, nil).InitRoutes()

	w := serve(h, "/api/neofeed?start_date=bad-date")

	require.Equal(t, http.StatusInternalServerError, w.Code)
	require.Equal(t, `{"error":"Date Format Exception - Expected format (yyyy-mm-dd) - bad-date"}`+"\n", w.Body.String())
}

func TestMethodNotAllowed(t *testing.T) {
	h := newTestHandler(&fakeAstro{})

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/apod", strings.NewReader("{}")))

	require.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestCORS(t *testing.T) {
	h := newTestHandler(&fakeAstro{body: json.RawMessage(`{}`)})

	req := httptest.NewRequest(http.MethodGet, "/api/apod", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	require.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestHealthAndMetrics(t *testing.T) {
	h := newTestHandler(&fakeAstro{})

	w := serve(h, "/healthz")
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, `{"status":"ok"}`+"\n", w.Body.String())

	w = serve(h, "/metrics")
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "astrodash_http_requests_total")
}

func TestRecovery(t *testing.T) {
	h := withRecovery(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	w := serve(h, "/")

	require.Equal(t, http.StatusInternalServerError, w.Code)
	require.Equal(t, `{"error":"internal"}`+"\n", w.Body.String())
}

func TestRequestsCounted(t *testing.T) {
	tests := []struct {
		name   string
		method string
		target string
		route  string
		status string
	}{
		{name: "matched route", method: http.MethodGet, target: "/healthz", route: "/healthz", status: "200"},
		{name: "unknown path", method: http.MethodGet, target: "/nope", route: routeUnmatched, status: "404"},
		{name: "wrong method", method: http.MethodPost, target: "/api/apod", route: routeUnmatched, status: "405"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestHandler(&fakeAstro{})
			counter := metrics.HTTPRequests.WithLabelValues(tt.route, tt.status)
			before := testutil.ToFloat64(counter)

			w := httptest.NewRecorder()
			h.ServeHTTP(w, httptest.NewRequest(tt.method, tt.target, nil))

			require.Equal(t, before+1, testutil.ToFloat64(counter))
		})
	}
}

func TestRecoveredPanicCounted(t *testing.T) {
	router := mux.NewRouter()
	router.HandleFunc("/boom", func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})
	h := logRequests(router, withRecovery(router))

	counter := metrics.HTTPRequests.WithLabelValues("/boom", "500")
	before := testutil.ToFloat64(counter)

	w := serve(h, "/boom")

	require.Equal(t, http.StatusInternalServerError, w.Code)
	require.Equal(t, before+1, testutil.ToFloat64(counter))
}
