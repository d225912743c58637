package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gogo-api/config"
)

func testGeocodingConfig(baseURL string) config.GeocodingConfig {
	return config.GeocodingConfig{
		BaseURL:        baseURL,
		UserAgent:      "test-agent",
		Referer:        "http://test.local",
		AcceptLanguage: "vi,en",
		Timeout:        2 * time.Second,
		CacheTTL:       2 * time.Minute,
		CacheCapacity:  100,
		MinInterval:    0, // no throttling in tests
		BlockDuration:  time.Hour,
	}
}

func nominatimStub(calls *int64, address map[string]string) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(calls, 1)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"display_name": "123 Test Street, Somewhere",
			"name":         "Test Cafe",
			"address":      address,
		})
	}))
}

func TestGetAddressExtractsAndStripsTown(t *testing.T) {
	var calls int64
	server := nominatimStub(&calls, map[string]string{"suburb": "Xã Tân Phú", "city": "Hồ Chí Minh"})
	defer server.Close()

	svc := NewGeocodingService(testGeocodingConfig(server.URL))

	town := svc.GetAddress(context.Background(), 10.1234, 106.5678)
	require.NotNil(t, town)
	assert.Equal(t, "Tân Phú", *town)
}

func TestGetAddressCachesRoundedCoordinates(t *testing.T) {
	var calls int64
	server := nominatimStub(&calls, map[string]string{"town": "Ben Tre"})
	defer server.Close()

	svc := NewGeocodingService(testGeocodingConfig(server.URL))

	first := svc.GetAddress(context.Background(), 10.12341, 106.56782)
	require.NotNil(t, first)

	// Differs only past the fourth decimal: same cache key, no new call
	second := svc.GetAddress(context.Background(), 10.12339, 106.56778)
	require.NotNil(t, second)
	assert.Equal(t, *first, *second)
	assert.EqualValues(t, 1, atomic.LoadInt64(&calls))

	// A genuinely different coordinate goes upstream
	svc.GetAddress(context.Background(), 11.0000, 106.0000)
	assert.EqualValues(t, 2, atomic.LoadInt64(&calls))
}

func TestCacheEntriesExpire(t *testing.T) {
	var calls int64
	server := nominatimStub(&calls, map[string]string{"town": "Ben Tre"})
	defer server.Close()

	cfg := testGeocodingConfig(server.URL)
	svc := NewGeocodingService(cfg)

	current := time.Now()
	svc.now = func() time.Time { return current }

	svc.GetAddress(context.Background(), 10.1234, 106.5678)
	assert.EqualValues(t, 1, atomic.LoadInt64(&calls))

	// Just before the TTL the cache still answers
	current = current.Add(cfg.CacheTTL - time.Second)
	svc.GetAddress(context.Background(), 10.1234, 106.5678)
	assert.EqualValues(t, 1, atomic.LoadInt64(&calls))

	// At the TTL the entry is stale
	current = current.Add(2 * time.Second)
	svc.GetAddress(context.Background(), 10.1234, 106.5678)
	assert.EqualValues(t, 2, atomic.LoadInt64(&calls))
}

func TestCacheEvictionIsFIFO(t *testing.T) {
	var calls int64
	server := nominatimStub(&calls, map[string]string{"town": "Ben Tre"})
	defer server.Close()

	cfg := testGeocodingConfig(server.URL)
	cfg.CacheCapacity = 2
	svc := NewGeocodingService(cfg)

	ctx := context.Background()
	svc.GetAddress(ctx, 10.0001, 106.0001)
	svc.GetAddress(ctx, 10.0002, 106.0002)
	assert.EqualValues(t, 2, atomic.LoadInt64(&calls))

	// Refresh the first entry; FIFO ignores access recency, so the
	// first-inserted key is still the one evicted next.
	svc.GetAddress(ctx, 10.0001, 106.0001)
	assert.EqualValues(t, 2, atomic.LoadInt64(&calls))

	svc.GetAddress(ctx, 10.0003, 106.0003)
	assert.EqualValues(t, 3, atomic.LoadInt64(&calls))

	svc.GetAddress(ctx, 10.0001, 106.0001)
	assert.EqualValues(t, 4, atomic.LoadInt64(&calls), "first-inserted entry should have been evicted")

	svc.GetAddress(ctx, 10.0002, 106.0002)
	assert.EqualValues(t, 5, atomic.LoadInt64(&calls), "second entry was evicted when the first came back")
}

func TestForbiddenOpensBreaker(t *testing.T) {
	var calls int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&calls, 1)
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	cfg := testGeocodingConfig(server.URL)
	cfg.BlockDuration = 50 * time.Millisecond
	svc := NewGeocodingService(cfg)

	ctx := context.Background()
	assert.Nil(t, svc.GetAddress(ctx, 10.1234, 106.5678))
	assert.EqualValues(t, 1, atomic.LoadInt64(&calls))

	// While blocked no upstream attempts happen at all
	assert.Nil(t, svc.GetAddress(ctx, 11.0000, 107.0000))
	assert.Nil(t, svc.GetAddress(ctx, 12.0000, 108.0000))
	assert.EqualValues(t, 1, atomic.LoadInt64(&calls))

	// After the cool-down one probe goes through again
	time.Sleep(2 * cfg.BlockDuration)
	assert.Nil(t, svc.GetAddress(ctx, 13.0000, 109.0000))
	assert.EqualValues(t, 2, atomic.LoadInt64(&calls))
}

func TestServerErrorsDoNotTripBreaker(t *testing.T) {
	var calls int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	svc := NewGeocodingService(testGeocodingConfig(server.URL))

	ctx := context.Background()
	assert.Nil(t, svc.GetAddress(ctx, 10.1234, 106.5678))
	assert.Nil(t, svc.GetAddress(ctx, 11.0000, 107.0000))
	assert.EqualValues(t, 2, atomic.LoadInt64(&calls), "non-403 failures must keep the breaker closed")
}

func TestGetFullAddress(t *testing.T) {
	var calls int64
	server := nominatimStub(&calls, map[string]string{
		"village": "Tân Thạch",
		"county":  "Châu Thành",
		"state":   "Bến Tre",
	})
	defer server.Close()

	svc := NewGeocodingService(testGeocodingConfig(server.URL))

	full := svc.GetFullAddress(context.Background(), 10.1234, 106.5678)
	assert.Equal(t, "Xã Tân Thạch", full.Area)
	assert.Equal(t, "123 Test Street, Somewhere", full.Address)
	assert.Equal(t, "Test Cafe", full.Name)

	// Cached under its own key family
	svc.GetFullAddress(context.Background(), 10.1234, 106.5678)
	assert.EqualValues(t, 1, atomic.LoadInt64(&calls))
}

func TestGetFullAddressFailureIsZeroValue(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	svc := NewGeocodingService(testGeocodingConfig(server.URL))

	full := svc.GetFullAddress(context.Background(), 10.1234, 106.5678)
	assert.Equal(t, FullAddress{}, full)
}

func TestExtractTownPriority(t *testing.T) {
	town := extractTown(map[string]string{
		"city":   "Hồ Chí Minh",
		"suburb": "Phường Bến Nghé",
	})
	assert.Equal(t, "Bến Nghé", town)

	assert.Equal(t, "", extractTown(map[string]string{"road": "Nguyễn Huệ"}))
}
