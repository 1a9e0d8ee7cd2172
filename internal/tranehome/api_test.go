package tranehome

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeTestServer(t *testing.T) (*httptest.Server, *API) {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		if req.Header.Get("X-MobileId") != "mobile-1" || req.Header.Get("X-ApiKey") != "key-1" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		switch req.URL.Path {
		case "/houses/42/status":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(houseJSON))
		case "/xxl_zones/10/zone_mode":
			var payload map[string]any
			if err := json.NewDecoder(req.Body).Decode(&payload); err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			if payload["value"] != "HEAT" {
				http.Error(w, "unexpected payload", http.StatusUnprocessableEntity)
				return
			}
			w.WriteHeader(http.StatusNoContent)
		default:
			http.Error(w, "not found", http.StatusNotFound)
		}
	}))
	t.Cleanup(server.Close)

	api := NewAPI(42, "mobile-1", "key-1", nil)
	api.baseURL = server.URL
	return server, api
}

func TestAPI_GetHouseStatus(t *testing.T) {
	_, api := makeTestServer(t)

	house, err := api.GetHouseStatus(context.Background())
	require.NoError(t, err)

	thermostats, err := house.Thermostats()
	require.NoError(t, err)
	assert.Len(t, thermostats, 2)
}

func TestAPI_GetHouseStatus_Unauthorized(t *testing.T) {
	_, api := makeTestServer(t)
	api.apiKey = "wrong"

	_, err := api.GetHouseStatus(context.Background())
	var httpErr *HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusUnauthorized, httpErr.StatusCode)
}

func TestAPI_GetHouseStatus_BadDocument(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("not json"))
	}))
	t.Cleanup(server.Close)

	api := NewAPI(42, "mobile-1", "key-1", nil)
	api.baseURL = server.URL

	_, err := api.GetHouseStatus(context.Background())
	var malformed *MalformedDocumentError
	require.ErrorAs(t, err, &malformed)
}

func TestAPI_Post(t *testing.T) {
	server, api := makeTestServer(t)

	err := api.Post(context.Background(), server.URL+"/xxl_zones/10/zone_mode", map[string]any{"value": "HEAT"})
	require.NoError(t, err)

	err = api.Post(context.Background(), server.URL+"/missing", map[string]any{})
	var httpErr *HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusNotFound, httpErr.StatusCode)
}
