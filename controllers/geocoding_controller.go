package controllers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"gogo-api/services"
	"gogo-api/utils"
)

// GeocodingController exposes the reverse-geocoding gateway. Lookup
// failures are not errors: they come back as null/empty fields.
type GeocodingController struct {
	geocodingService *services.GeocodingService
}

func NewGeocodingController(geocodingService *services.GeocodingService) *GeocodingController {
	return &GeocodingController{geocodingService: geocodingService}
}

// coordQuery reads a coordinate under its short name, falling back to
// the long form. Mobile clients send lat/lng.
func coordQuery(c *gin.Context, short, long string) string {
	if v := c.Query(short); v != "" {
		return v
	}
	return c.Query(long)
}

func parseCoordinates(c *gin.Context) (lat, lng float64, ok bool) {
	lat, latErr := strconv.ParseFloat(coordQuery(c, "lat", "latitude"), 64)
	lng, lngErr := strconv.ParseFloat(coordQuery(c, "lng", "longitude"), 64)
	if latErr != nil || lngErr != nil {
		utils.BadRequest(c, "lat and lng must be numbers")
		return 0, 0, false
	}
	if !utils.IsValidLatitude(lat) || !utils.IsValidLongitude(lng) {
		utils.BadRequest(c, "Coordinates out of range")
		return 0, 0, false
	}
	return lat, lng, true
}

// GetAddress resolves coordinates to a short area name.
func (gc *GeocodingController) GetAddress(c *gin.Context) {
	lat, lng, ok := parseCoordinates(c)
	if !ok {
		return
	}

	address := gc.geocodingService.GetAddress(c.Request.Context(), lat, lng)
	utils.OK(c, "", gin.H{"address": address})
}

// GetFullAddress resolves coordinates to area, full address and place name.
func (gc *GeocodingController) GetFullAddress(c *gin.Context) {
	lat, lng, ok := parseCoordinates(c)
	if !ok {
		return
	}

	full := gc.geocodingService.GetFullAddress(c.Request.Context(), lat, lng)
	utils.OK(c, "", gin.H{
		"area":    full.Area,
		"address": full.Address,
		"name":    full.Name,
	})
}
