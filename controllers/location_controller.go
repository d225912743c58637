package controllers

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"gogo-api/middleware"
	"gogo-api/models"
	"gogo-api/realtime"
	"gogo-api/repositories"
	"gogo-api/services"
	"gogo-api/utils"
)

// LocationController manages friend-scoped points of interest. Listings
// always cover the caller plus their accepted friends, never strangers.
type LocationController struct {
	locations        *repositories.LocationRepository
	friendService    *services.FriendService
	geocodingService *services.GeocodingService
	imageService     *services.ImageService
	hub              *realtime.Hub
}

func NewLocationController(locations *repositories.LocationRepository, friendService *services.FriendService, geocodingService *services.GeocodingService, imageService *services.ImageService, hub *realtime.Hub) *LocationController {
	return &LocationController{
		locations:        locations,
		friendService:    friendService,
		geocodingService: geocodingService,
		imageService:     imageService,
		hub:              hub,
	}
}

// visibleOwnerIDs is the caller plus all accepted friends.
func (lc *LocationController) visibleOwnerIDs(userID string) ([]string, error) {
	friends, err := lc.friendService.ListFriends(userID)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(friends)+1)
	ids = append(ids, userID)
	for _, f := range friends {
		ids = append(ids, f.ID)
	}
	return ids, nil
}

// List returns locations of the caller and their friends, optionally
// filtered by area and type.
func (lc *LocationController) List(c *gin.Context) {
	ownerIDs, err := lc.visibleOwnerIDs(middleware.UserID(c))
	if err != nil {
		utils.Error(c, err)
		return
	}

	locationType := c.Query("type")
	if locationType != "" && !models.LocationTypes[locationType] {
		utils.BadRequest(c, "Invalid location type")
		return
	}

	locations, err := lc.locations.ListByOwners(ownerIDs, c.Query("area"), locationType)
	if err != nil {
		utils.Error(c, err)
		return
	}

	out := make([]models.LocationResponse, 0, len(locations))
	for i := range locations {
		out = append(out, locations[i].ToResponse())
	}

	utils.OK(c, "", gin.H{"data": out, "count": len(out)})
}

// ListMine returns only the caller's own locations.
func (lc *LocationController) ListMine(c *gin.Context) {
	locations, err := lc.locations.ListByUser(middleware.UserID(c))
	if err != nil {
		utils.Error(c, err)
		return
	}

	out := make([]models.LocationResponse, 0, len(locations))
	for i := range locations {
		out = append(out, locations[i].ToResponse())
	}

	utils.OK(c, "", gin.H{"data": out, "count": len(out)})
}

// Get returns one location if the caller owns it or is friends with the
// owner.
func (lc *LocationController) Get(c *gin.Context) {
	userID := middleware.UserID(c)

	location, err := lc.locations.FindByID(c.Param("id"))
	if err != nil {
		utils.Error(c, err)
		return
	}
	if location == nil {
		utils.NotFound(c, "Location not found")
		return
	}

	if location.UserID != userID {
		ok, err := lc.friendService.AreFriends(userID, location.UserID)
		if err != nil {
			utils.Error(c, err)
			return
		}
		if !ok {
			utils.Forbidden(c, "Not authorized to view this location")
			return
		}
	}

	utils.OK(c, "", gin.H{"data": location.ToResponse()})
}

type LocationRequest struct {
	Name      string   `json:"name" binding:"required"`
	Types     []string `json:"types" binding:"required,min=1"`
	ImageURLs []string `json:"image_urls"`
	Latitude  float64  `json:"latitude" binding:"required"`
	Longitude float64  `json:"longitude" binding:"required"`
	Address   string   `json:"address"`
	Area      string   `json:"area"`
}

func (r *LocationRequest) validate() string {
	for _, t := range r.Types {
		if !models.LocationTypes[t] {
			return "Invalid location type: " + t
		}
	}
	if !utils.IsValidLatitude(r.Latitude) || !utils.IsValidLongitude(r.Longitude) {
		return "Invalid coordinates"
	}
	return ""
}

// Create stores a new location. Missing address or area fields are
// backfilled from reverse geocoding when possible.
func (lc *LocationController) Create(c *gin.Context) {
	var req LocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Name, types and coordinates are required")
		return
	}
	if msg := req.validate(); msg != "" {
		utils.BadRequest(c, msg)
		return
	}

	if req.Address == "" || req.Area == "" {
		resolved := lc.geocodingService.GetFullAddress(c.Request.Context(), req.Latitude, req.Longitude)
		if req.Address == "" {
			req.Address = resolved.Address
		}
		if req.Area == "" {
			req.Area = resolved.Area
		}
	}

	location := &models.Location{
		ID:        uuid.New().String(),
		Name:      req.Name,
		Types:     req.Types,
		ImageURLs: req.ImageURLs,
		LatLng:    models.LatLng{Latitude: req.Latitude, Longitude: req.Longitude},
		Address:   req.Address,
		Area:      req.Area,
		UserID:    middleware.UserID(c),
	}
	if err := lc.locations.Create(location); err != nil {
		utils.Error(c, err)
		return
	}

	full, err := lc.locations.FindByID(location.ID)
	if err != nil {
		utils.Error(c, err)
		return
	}

	go lc.hub.Emit(realtime.RoomLocations, realtime.EventLocationCreated, full.ToResponse())

	utils.Created(c, "Location created", gin.H{"data": full.ToResponse()})
}

type UpdateLocationRequest struct {
	Name      *string   `json:"name"`
	Types     *[]string `json:"types"`
	ImageURLs *[]string `json:"image_urls"`
	Latitude  *float64  `json:"latitude"`
	Longitude *float64  `json:"longitude"`
	Address   *string   `json:"address"`
	Area      *string   `json:"area"`
}

// Update patches an owned location. Images removed from the list are
// deleted from storage in the background.
func (lc *LocationController) Update(c *gin.Context) {
	var req UpdateLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid location data")
		return
	}

	location, err := lc.locations.FindByID(c.Param("id"))
	if err != nil {
		utils.Error(c, err)
		return
	}
	if location == nil {
		utils.NotFound(c, "Location not found")
		return
	}
	if location.UserID != middleware.UserID(c) {
		utils.Forbidden(c, "Not authorized to update this location")
		return
	}

	var removedImages []string
	if req.ImageURLs != nil {
		removedImages = diffRemoved(location.ImageURLs, *req.ImageURLs)
		location.ImageURLs = *req.ImageURLs
	}
	if req.Name != nil {
		if *req.Name == "" {
			utils.BadRequest(c, "Name cannot be empty")
			return
		}
		location.Name = *req.Name
	}
	if req.Types != nil {
		if len(*req.Types) == 0 {
			utils.BadRequest(c, "At least one type is required")
			return
		}
		for _, t := range *req.Types {
			if !models.LocationTypes[t] {
				utils.BadRequest(c, "Invalid location type: "+t)
				return
			}
		}
		location.Types = *req.Types
	}
	if req.Latitude != nil {
		if !utils.IsValidLatitude(*req.Latitude) {
			utils.BadRequest(c, "Invalid latitude")
			return
		}
		location.LatLng.Latitude = *req.Latitude
	}
	if req.Longitude != nil {
		if !utils.IsValidLongitude(*req.Longitude) {
			utils.BadRequest(c, "Invalid longitude")
			return
		}
		location.LatLng.Longitude = *req.Longitude
	}
	if req.Address != nil {
		location.Address = *req.Address
	}
	if req.Area != nil {
		location.Area = *req.Area
	}

	if err := lc.locations.Save(location); err != nil {
		utils.Error(c, err)
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if len(removedImages) > 0 {
			lc.imageService.DeleteMany(ctx, removedImages)
		}
		lc.hub.Emit(realtime.RoomLocations, realtime.EventLocationUpdated, location.ToResponse())
	}()

	utils.OK(c, "Location updated", gin.H{"data": location.ToResponse()})
}

// Delete removes an owned location together with its stored images.
func (lc *LocationController) Delete(c *gin.Context) {
	location, err := lc.locations.FindByID(c.Param("id"))
	if err != nil {
		utils.Error(c, err)
		return
	}
	if location == nil {
		utils.NotFound(c, "Location not found")
		return
	}
	if location.UserID != middleware.UserID(c) {
		utils.Forbidden(c, "Not authorized to delete this location")
		return
	}

	if err := lc.locations.Delete(location); err != nil {
		utils.Error(c, err)
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		lc.imageService.DeleteFolder(ctx, "locations/"+location.ID)
		lc.imageService.DeleteMany(ctx, location.ImageURLs)
		lc.hub.Emit(realtime.RoomLocations, realtime.EventLocationDeleted, map[string]interface{}{
			"id": location.ID,
		})
	}()

	utils.OK(c, "Location deleted", nil)
}

// Areas lists the distinct areas among visible locations.
func (lc *LocationController) Areas(c *gin.Context) {
	ownerIDs, err := lc.visibleOwnerIDs(middleware.UserID(c))
	if err != nil {
		utils.Error(c, err)
		return
	}

	areas, err := lc.locations.DistinctAreas(ownerIDs)
	if err != nil {
		utils.Error(c, err)
		return
	}

	utils.OK(c, "", gin.H{"data": areas})
}

// diffRemoved returns the entries of old missing from updated.
func diffRemoved(old, updated []string) []string {
	keep := make(map[string]bool, len(updated))
	for _, u := range updated {
		keep[u] = true
	}

	var removed []string
	for _, o := range old {
		if !keep[o] {
			removed = append(removed, o)
		}
	}
	return removed
}
