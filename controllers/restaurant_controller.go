package controllers

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"gogo-api/models"
	"gogo-api/repositories"
	"gogo-api/services"
	"gogo-api/utils"
)

// RestaurantController manages the public restaurant catalog. Unlike
// locations, restaurants are visible to every authenticated user.
type RestaurantController struct {
	restaurants  *repositories.RestaurantRepository
	imageService *services.ImageService
}

func NewRestaurantController(restaurants *repositories.RestaurantRepository, imageService *services.ImageService) *RestaurantController {
	return &RestaurantController{restaurants: restaurants, imageService: imageService}
}

func (rc *RestaurantController) List(c *gin.Context) {
	restaurants, err := rc.restaurants.List(c.Query("area"), c.Query("type"))
	if err != nil {
		utils.Error(c, err)
		return
	}

	utils.OK(c, "", gin.H{"data": restaurants, "count": len(restaurants)})
}

func (rc *RestaurantController) Get(c *gin.Context) {
	restaurant, err := rc.restaurants.FindByID(c.Param("id"))
	if err != nil {
		utils.Error(c, err)
		return
	}
	if restaurant == nil {
		utils.NotFound(c, "Restaurant not found")
		return
	}

	utils.OK(c, "", gin.H{"data": restaurant})
}

type RestaurantRequest struct {
	Name      string   `json:"name" binding:"required"`
	Types     []string `json:"types" binding:"required,min=1"`
	ImageURLs []string `json:"image_urls"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	Address   *string  `json:"address"`
	Area      *string  `json:"area"`
}

func (rc *RestaurantController) Create(c *gin.Context) {
	var req RestaurantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Name and types are required")
		return
	}

	if req.Latitude != nil && !utils.IsValidLatitude(*req.Latitude) {
		utils.BadRequest(c, "Invalid latitude")
		return
	}
	if req.Longitude != nil && !utils.IsValidLongitude(*req.Longitude) {
		utils.BadRequest(c, "Invalid longitude")
		return
	}

	restaurant := &models.Restaurant{
		ID:        uuid.New().String(),
		Name:      req.Name,
		Types:     req.Types,
		ImageURLs: req.ImageURLs,
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
		Address:   req.Address,
		Area:      req.Area,
	}
	if err := rc.restaurants.Create(restaurant); err != nil {
		utils.Error(c, err)
		return
	}

	utils.Created(c, "Restaurant created", gin.H{"data": restaurant})
}

type UpdateRestaurantRequest struct {
	Name      *string   `json:"name"`
	Types     *[]string `json:"types"`
	ImageURLs *[]string `json:"image_urls"`
	Latitude  *float64  `json:"latitude"`
	Longitude *float64  `json:"longitude"`
	Address   *string   `json:"address"`
	Area      *string   `json:"area"`
}

func (rc *RestaurantController) Update(c *gin.Context) {
	var req UpdateRestaurantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid restaurant data")
		return
	}

	restaurant, err := rc.restaurants.FindByID(c.Param("id"))
	if err != nil {
		utils.Error(c, err)
		return
	}
	if restaurant == nil {
		utils.NotFound(c, "Restaurant not found")
		return
	}

	var removedImages []string
	if req.ImageURLs != nil {
		removedImages = diffRemoved(restaurant.ImageURLs, *req.ImageURLs)
		restaurant.ImageURLs = *req.ImageURLs
	}
	if req.Name != nil {
		if *req.Name == "" {
			utils.BadRequest(c, "Name cannot be empty")
			return
		}
		restaurant.Name = *req.Name
	}
	if req.Types != nil {
		if len(*req.Types) == 0 {
			utils.BadRequest(c, "At least one type is required")
			return
		}
		restaurant.Types = *req.Types
	}
	if req.Latitude != nil {
		if !utils.IsValidLatitude(*req.Latitude) {
			utils.BadRequest(c, "Invalid latitude")
			return
		}
		restaurant.Latitude = req.Latitude
	}
	if req.Longitude != nil {
		if !utils.IsValidLongitude(*req.Longitude) {
			utils.BadRequest(c, "Invalid longitude")
			return
		}
		restaurant.Longitude = req.Longitude
	}
	if req.Address != nil {
		restaurant.Address = req.Address
	}
	if req.Area != nil {
		restaurant.Area = req.Area
	}

	if err := rc.restaurants.Save(restaurant); err != nil {
		utils.Error(c, err)
		return
	}

	if len(removedImages) > 0 {
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			rc.imageService.DeleteMany(ctx, removedImages)
		}()
	}

	utils.OK(c, "Restaurant updated", gin.H{"data": restaurant})
}

func (rc *RestaurantController) Delete(c *gin.Context) {
	restaurant, err := rc.restaurants.FindByID(c.Param("id"))
	if err != nil {
		utils.Error(c, err)
		return
	}
	if restaurant == nil {
		utils.NotFound(c, "Restaurant not found")
		return
	}

	if err := rc.restaurants.Delete(restaurant); err != nil {
		utils.Error(c, err)
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		rc.imageService.DeleteFolder(ctx, "restaurants/"+restaurant.ID)
		rc.imageService.DeleteMany(ctx, restaurant.ImageURLs)
	}()

	utils.OK(c, "Restaurant deleted", nil)
}
