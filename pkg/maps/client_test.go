package maps

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWalkingTime_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/distancematrix/json", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "37.7749,-122.4194", q.Get("origins"))
		assert.Equal(t, "37.78,-122.41", q.Get("destinations"))
		assert.Equal(t, "walking", q.Get("mode"))
		assert.Equal(t, "test-key", q.Get("key"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{
			"status": "OK",
			"rows": [{"elements": [{
				"status": "OK",
				"duration": {"value": 780, "text": "13 mins"},
				"distance": {"value": 1100, "text": "1.1 km"}
			}]}]
		}`)
	}))
	defer srv.Close()

	client := NewClient("test-key", WithBaseURL(srv.URL))
	tt, err := client.WalkingTime(context.Background(), 37.7749, -122.4194, 37.78, -122.41)

	require.NoError(t, err)
	assert.Equal(t, 13*time.Minute, tt.Duration)
	assert.Equal(t, "13 mins", tt.Text)
	assert.Equal(t, 1100, tt.DistanceMeters)
}

func TestDrivingTime_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "driving", q.Get("mode"))
		assert.Equal(t, "1 Technology Way, Norwood, MA", q.Get("destinations"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{
			"status": "OK",
			"rows": [{"elements": [{
				"status": "OK",
				"duration": {"value": 1500, "text": "25 mins"},
				"distance": {"value": 20000}
			}]}]
		}`)
	}))
	defer srv.Close()

	client := NewClient("test-key", WithBaseURL(srv.URL))
	tt, err := client.DrivingTime(context.Background(), 42.36, -71.06, "1 Technology Way, Norwood, MA")

	require.NoError(t, err)
	assert.Equal(t, "25 mins", tt.Text)
	assert.Equal(t, 25*time.Minute, tt.Duration)
}

func TestDrivingTime_EmptyDestination(t *testing.T) {
	client := NewClient("test-key", WithBaseURL("http://127.0.0.1:0"))
	_, err := client.DrivingTime(context.Background(), 1, 2, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty")
}

func TestTravelTime_ElementNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"status": "OK", "rows": [{"elements": [{"status": "ZERO_RESULTS"}]}]}`)
	}))
	defer srv.Close()

	client := NewClient("test-key", WithBaseURL(srv.URL))
	_, err := client.WalkingTime(context.Background(), 0, 0, 1, 1)

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoResult))
	assert.Contains(t, err.Error(), "ZERO_RESULTS")
}

func TestTravelTime_RequestDenied(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"status": "REQUEST_DENIED", "error_message": "The provided API key is invalid."}`)
	}))
	defer srv.Close()

	client := NewClient("bad-key", WithBaseURL(srv.URL))
	_, err := client.WalkingTime(context.Background(), 0, 0, 1, 1)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "REQUEST_DENIED")
}

func TestTravelTime_NoRows(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"status": "OK", "rows": []}`)
	}))
	defer srv.Close()

	client := NewClient("test-key", WithBaseURL(srv.URL))
	_, err := client.WalkingTime(context.Background(), 0, 0, 1, 1)

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoResult))
}

func TestTravelTime_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = io.WriteString(w, "upstream down")
	}))
	defer srv.Close()

	client := NewClient("test-key", WithBaseURL(srv.URL))
	_, err := client.DrivingTime(context.Background(), 0, 0, "office")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 503")
}

func TestTravelTime_MalformedJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `{not json`)
	}))
	defer srv.Close()

	client := NewClient("test-key", WithBaseURL(srv.URL))
	_, err := client.WalkingTime(context.Background(), 0, 0, 1, 1)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unmarshal")
}

func TestReverseGeocode_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/geocode/json", r.URL.Path)
		assert.Equal(t, "37.7749,-122.4194", r.URL.Query().Get("latlng"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{
			"status": "OK",
			"results": [
				{"formatted_address": "1 Dr Carlton B Goodlett Pl, San Francisco, CA 94102, USA"},
				{"formatted_address": "San Francisco, CA, USA"}
			]
		}`)
	}))
	defer srv.Close()

	client := NewClient("test-key", WithBaseURL(srv.URL))
	addr, err := client.ReverseGeocode(context.Background(), 37.7749, -122.4194)

	require.NoError(t, err)
	assert.Equal(t, "1 Dr Carlton B Goodlett Pl, San Francisco, CA 94102, USA", addr)
}

func TestReverseGeocode_ZeroResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"status": "ZERO_RESULTS", "results": []}`)
	}))
	defer srv.Close()

	client := NewClient("test-key", WithBaseURL(srv.URL))
	_, err := client.ReverseGeocode(context.Background(), 0, 0)

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoResult))
}

func TestClient_ContextCanceled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := NewClient("test-key", WithBaseURL(srv.URL), WithHTTPClient(srv.Client()))
	_, err := client.ReverseGeocode(ctx, 0, 0)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "send request")
}
