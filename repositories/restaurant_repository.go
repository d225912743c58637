package repositories

import (
	"errors"

	"gorm.io/gorm"

	"gogo-api/models"
)

type RestaurantRepository struct {
	db *gorm.DB
}

func NewRestaurantRepository(db *gorm.DB) *RestaurantRepository {
	return &RestaurantRepository{db: db}
}

func (r *RestaurantRepository) FindByID(id string) (*models.Restaurant, error) {
	var restaurant models.Restaurant
	err := r.db.First(&restaurant, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &restaurant, nil
}

func (r *RestaurantRepository) Create(restaurant *models.Restaurant) error {
	return r.db.Create(restaurant).Error
}

func (r *RestaurantRepository) Save(restaurant *models.Restaurant) error {
	return r.db.Save(restaurant).Error
}

func (r *RestaurantRepository) Delete(restaurant *models.Restaurant) error {
	return r.db.Delete(restaurant).Error
}

// List returns restaurants, optionally narrowed by area and type,
// newest first.
func (r *RestaurantRepository) List(area, restaurantType string) ([]models.Restaurant, error) {
	query := r.db.Model(&models.Restaurant{})
	if area != "" {
		query = query.Where("area = ?", area)
	}
	if restaurantType != "" {
		query = query.Where("JSON_CONTAINS(types, JSON_QUOTE(?))", restaurantType)
	}

	var restaurants []models.Restaurant
	err := query.Order("created_at DESC").Find(&restaurants).Error
	return restaurants, err
}
