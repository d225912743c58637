package controllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gogo-api/config"
	"gogo-api/services"
)

func geocodingTestRouter(upstream string) *gin.Engine {
	gin.SetMode(gin.TestMode)

	svc := services.NewGeocodingService(config.GeocodingConfig{
		BaseURL:        upstream,
		UserAgent:      "test-agent",
		AcceptLanguage: "vi,en",
		Timeout:        2 * time.Second,
		CacheTTL:       2 * time.Minute,
		CacheCapacity:  10,
		MinInterval:    0,
		BlockDuration:  time.Hour,
	})
	ctrl := NewGeocodingController(svc)

	r := gin.New()
	r.GET("/api/location/address", ctrl.GetAddress)
	r.GET("/api/location/full-address", ctrl.GetFullAddress)
	return r
}

func TestGetAddressEndpoint(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"display_name": "Somewhere",
			"address":      map[string]string{"town": "Bến Tre"},
		})
	}))
	defer upstream.Close()

	router := geocodingTestRouter(upstream.URL)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet,
		"/api/location/address?latitude=10.1234&longitude=106.5678", nil))

	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "Bến Tre", body["address"])
}

func TestGetAddressEndpointAcceptsShortParamNames(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"display_name": "Somewhere",
			"address":      map[string]string{"town": "Bến Tre"},
		})
	}))
	defer upstream.Close()

	router := geocodingTestRouter(upstream.URL)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet,
		"/api/location/address?lat=10.1234&lng=106.5678", nil))

	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Bến Tre", body["address"])
}

func TestGetAddressEndpointRejectsNonNumericCoordinates(t *testing.T) {
	router := geocodingTestRouter("http://127.0.0.1:0")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet,
		"/api/location/address?latitude=abc&longitude=106.5678", nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetAddressEndpointRejectsOutOfRange(t *testing.T) {
	router := geocodingTestRouter("http://127.0.0.1:0")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet,
		"/api/location/address?latitude=91&longitude=106.5678", nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetAddressEndpointDegradesToNull(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer upstream.Close()

	router := geocodingTestRouter(upstream.URL)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet,
		"/api/location/address?latitude=10.1234&longitude=106.5678", nil))

	// Upstream failure is not a client-facing error
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, true, body["success"])
	assert.Nil(t, body["address"])
}

func TestGetFullAddressEndpoint(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"display_name": "1 Road, Town",
			"name":         "Cafe X",
			"address":      map[string]string{"village": "Tân Thạch"},
		})
	}))
	defer upstream.Close()

	router := geocodingTestRouter(upstream.URL)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet,
		"/api/location/full-address?latitude=10.1234&longitude=106.5678", nil))

	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Xã Tân Thạch", body["area"])
	assert.Equal(t, "1 Road, Town", body["address"])
	assert.Equal(t, "Cafe X", body["name"])
}
