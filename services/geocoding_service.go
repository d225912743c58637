package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"sync"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"gogo-api/config"
	"gogo-api/logger"
)

// errUpstreamForbidden is the only upstream failure that opens the
// breaker; everything else just degrades to an empty result.
var errUpstreamForbidden = errors.New("nominatim: forbidden")

type nominatimResponse struct {
	DisplayName string            `json:"display_name"`
	Name        string            `json:"name"`
	Address     map[string]string `json:"address"`
}

// FullAddress is the structured result of a full reverse lookup.
// All fields may be empty.
type FullAddress struct {
	Area    string `json:"area"`
	Address string `json:"address"`
	Name    string `json:"name"`
}

type geocodeCacheEntry struct {
	value    interface{}
	storedAt time.Time
}

// GeocodingService wraps the Nominatim reverse-geocoding API with a
// TTL cache, a courtesy rate limiter and a circuit breaker. It never
// returns errors to callers: every failure mode degrades to a nil or
// zero-value result so clients can render "unknown location".
type GeocodingService struct {
	cfg     config.GeocodingConfig
	client  *http.Client
	limiter *rate.Limiter
	breaker *gobreaker.CircuitBreaker[*nominatimResponse]
	now     func() time.Time

	mu    sync.Mutex
	cache map[string]geocodeCacheEntry
	// insertion order of cache keys; eviction is FIFO, not LRU
	order []string
}

func NewGeocodingService(cfg config.GeocodingConfig) *GeocodingService {
	s := &GeocodingService{
		cfg:     cfg,
		client:  &http.Client{Timeout: cfg.Timeout},
		limiter: rate.NewLimiter(rate.Every(cfg.MinInterval), 1),
		now:     time.Now,
		cache:   make(map[string]geocodeCacheEntry),
	}

	s.breaker = gobreaker.NewCircuitBreaker[*nominatimResponse](gobreaker.Settings{
		Name:        "nominatim",
		MaxRequests: 1,
		Timeout:     cfg.BlockDuration,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			// A single forbidden response blocks all upstream calls
			// for the full cool-down.
			return counts.TotalFailures >= 1
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("Nominatim breaker state change",
				"from", from.String(), "to", to.String())
		},
	})

	return s
}

// GetAddress resolves a coordinate to a short town/area name, or nil
// when nothing could be resolved.
func (s *GeocodingService) GetAddress(ctx context.Context, lat, lng float64) *string {
	key := fmt.Sprintf("address_%.4f_%.4f", lat, lng)
	if cached, ok := s.cacheGet(key); ok {
		town := cached.(string)
		logger.Info("Returning cached address", "key", key)
		return &town
	}

	resp := s.lookup(ctx, lat, lng, false)
	if resp == nil || resp.Address == nil {
		return nil
	}

	town := extractTown(resp.Address)
	if town == "" {
		logger.Warn("No town found in address", "lat", lat, "lng", lng)
		return nil
	}

	s.cacheSet(key, town)
	return &town
}

// GetFullAddress resolves a coordinate to area + full address + POI
// name. All fields are empty when the lookup fails.
func (s *GeocodingService) GetFullAddress(ctx context.Context, lat, lng float64) FullAddress {
	key := fmt.Sprintf("full_%.4f_%.4f", lat, lng)
	if cached, ok := s.cacheGet(key); ok {
		logger.Info("Returning cached full address", "key", key)
		return cached.(FullAddress)
	}

	resp := s.lookup(ctx, lat, lng, true)
	if resp == nil || resp.Address == nil {
		return FullAddress{}
	}

	result := buildFullAddress(resp)
	s.cacheSet(key, result)
	return result
}

// lookup performs one upstream call behind the limiter and breaker.
// Returns nil on every failure mode.
func (s *GeocodingService) lookup(ctx context.Context, lat, lng float64, nameDetails bool) *nominatimResponse {
	// While the breaker is open calls short-circuit without waiting on
	// the rate limiter.
	if s.breaker.State() == gobreaker.StateOpen {
		logger.Warn("Nominatim API is blocked, skipping call")
		return nil
	}

	if err := s.limiter.Wait(ctx); err != nil {
		logger.Warn("Rate limit wait aborted", "error", err)
		return nil
	}

	resp, err := s.breaker.Execute(func() (*nominatimResponse, error) {
		return s.reverse(ctx, lat, lng, nameDetails)
	})
	if err != nil {
		if errors.Is(err, errUpstreamForbidden) {
			logger.Error("Nominatim API blocked (403), opening breaker",
				"cooldown", s.cfg.BlockDuration)
		} else {
			logger.Warn("Nominatim call rejected", "error", err)
		}
		return nil
	}
	return resp
}

func (s *GeocodingService) reverse(ctx context.Context, lat, lng float64, nameDetails bool) (*nominatimResponse, error) {
	params := url.Values{}
	params.Set("lat", fmt.Sprintf("%v", lat))
	params.Set("lon", fmt.Sprintf("%v", lng))
	params.Set("format", "json")
	params.Set("addressdetails", "1")
	if nameDetails {
		params.Set("namedetails", "1")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		s.cfg.BaseURL+"/reverse?"+params.Encode(), nil)
	if err != nil {
		logger.Error("Failed to build Nominatim request", "error", err)
		return nil, nil
	}
	req.Header.Set("User-Agent", s.cfg.UserAgent)
	req.Header.Set("Accept-Language", s.cfg.AcceptLanguage)
	req.Header.Set("Referer", s.cfg.Referer)

	resp, err := s.client.Do(req)
	if err != nil {
		// Network failures degrade without tripping the breaker.
		logger.Error("Nominatim API call failed", "error", err)
		return nil, nil
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusForbidden {
		return nil, errUpstreamForbidden
	}
	if resp.StatusCode != http.StatusOK {
		logger.Error("Nominatim API returned error", "status", resp.StatusCode)
		return nil, nil
	}

	var result nominatimResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		logger.Error("Failed to decode Nominatim response", "error", err)
		return nil, nil
	}
	return &result, nil
}

func (s *GeocodingService) cacheGet(key string) (interface{}, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.cache[key]
	if !ok {
		return nil, false
	}
	if s.now().Sub(entry.storedAt) >= s.cfg.CacheTTL {
		return nil, false
	}
	return entry.value, true
}

func (s *GeocodingService) cacheSet(key string, value interface{}) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.cache[key]; !exists {
		s.order = append(s.order, key)
	}
	s.cache[key] = geocodeCacheEntry{value: value, storedAt: s.now()}

	// FIFO eviction once over capacity: drop the oldest-inserted entry.
	for len(s.order) > s.cfg.CacheCapacity {
		oldest := s.order[0]
		s.order = s.order[1:]
		delete(s.cache, oldest)
	}
}

// townFields is the priority order of address components tried when
// extracting a short area name.
var townFields = []string{
	"suburb", "village", "town", "municipality", "city_district",
	"neighbourhood", "quarter", "hamlet", "city", "county", "district",
}

// areaFields is the slightly different priority used for full lookups.
var areaFields = []string{
	"village", "suburb", "city_district", "city", "town", "municipality",
	"neighbourhood", "quarter", "hamlet", "county", "district",
}

var adminPrefixes = []*regexp.Regexp{
	regexp.MustCompile(`(?i)Xã\s*`),
	regexp.MustCompile(`(?i)Commune\s*`),
	regexp.MustCompile(`(?i)Phường\s*`),
	regexp.MustCompile(`(?i)Huyện\s*`),
	regexp.MustCompile(`(?i)Tỉnh\s*`),
	regexp.MustCompile(`(?i)Thành phố\s*`),
}

func extractTown(address map[string]string) string {
	var town string
	for _, field := range townFields {
		if v := address[field]; v != "" {
			town = v
			break
		}
	}
	if town == "" {
		return ""
	}

	for _, prefix := range adminPrefixes {
		town = prefix.ReplaceAllString(town, "")
	}
	return strings.TrimSpace(town)
}

func buildFullAddress(resp *nominatimResponse) FullAddress {
	address := resp.Address

	var area string
	for _, field := range areaFields {
		if v := address[field]; v != "" {
			area = v
			break
		}
	}

	if area != "" {
		areaLower := strings.ToLower(area)
		hasPrefix := strings.Contains(areaLower, "xã") ||
			strings.Contains(areaLower, "phường") ||
			strings.Contains(areaLower, "thị trấn") ||
			strings.Contains(areaLower, "ward")
		if !hasPrefix {
			switch {
			case address["village"] != "":
				area = "Xã " + area
			case address["suburb"] != "" || address["city_district"] != "" || address["city"] != "":
				// city usually maps to a ward in Vietnamese addresses
				area = "Phường " + area
			case address["town"] != "":
				area = "Thị trấn " + area
			}
		} else {
			area = strings.TrimSpace(area)
		}
	}

	fullAddress := resp.DisplayName
	if fullAddress == "" {
		fullAddress = resp.Name
	}
	if fullAddress == "" {
		var parts []string
		for _, field := range []string{"house_number", "road"} {
			if v := address[field]; v != "" {
				parts = append(parts, v)
			}
		}
		if area != "" {
			parts = append(parts, area)
		}
		if v := address["county"]; v != "" {
			parts = append(parts, v)
		} else if v := address["district"]; v != "" {
			parts = append(parts, v)
		}
		if v := address["state"]; v != "" {
			parts = append(parts, v)
		} else if v := address["region"]; v != "" {
			parts = append(parts, v)
		}
		fullAddress = strings.Join(parts, ", ")
	}

	placeName := resp.Name
	for _, field := range []string{"amenity", "shop", "restaurant", "cafe"} {
		if placeName != "" {
			break
		}
		placeName = address[field]
	}

	return FullAddress{
		Area:    area,
		Address: fullAddress,
		Name:    placeName,
	}
}
