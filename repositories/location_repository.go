package repositories

import (
	"errors"

	"gorm.io/gorm"

	"gogo-api/models"
)

type LocationRepository struct {
	db *gorm.DB
}

func NewLocationRepository(db *gorm.DB) *LocationRepository {
	return &LocationRepository{db: db}
}

func (r *LocationRepository) FindByID(id string) (*models.Location, error) {
	var location models.Location
	err := r.db.Preload("User").First(&location, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &location, nil
}

func (r *LocationRepository) Create(location *models.Location) error {
	return r.db.Create(location).Error
}

func (r *LocationRepository) Save(location *models.Location) error {
	return r.db.Save(location).Error
}

func (r *LocationRepository) Delete(location *models.Location) error {
	return r.db.Delete(location).Error
}

// ListByOwners returns locations created by any of ownerIDs, optionally
// narrowed by area and type, newest first.
func (r *LocationRepository) ListByOwners(ownerIDs []string, area, locationType string) ([]models.Location, error) {
	query := r.db.Preload("User").Where("user_id IN ?", ownerIDs)
	if area != "" {
		query = query.Where("area = ?", area)
	}
	if locationType != "" {
		query = query.Where("JSON_CONTAINS(types, JSON_QUOTE(?))", locationType)
	}

	var locations []models.Location
	err := query.Order("created_at DESC").Find(&locations).Error
	return locations, err
}

// ListByUser returns a single user's locations, newest first.
func (r *LocationRepository) ListByUser(userID string) ([]models.Location, error) {
	var locations []models.Location
	err := r.db.Preload("User").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&locations).Error
	return locations, err
}

// DistinctAreas lists the distinct areas among the given owners'
// locations, alphabetically.
func (r *LocationRepository) DistinctAreas(ownerIDs []string) ([]string, error) {
	var areas []string
	err := r.db.Model(&models.Location{}).
		Where("user_id IN ?", ownerIDs).
		Distinct("area").
		Order("area ASC").
		Pluck("area", &areas).Error
	return areas, err
}
