package repositories

import (
	"errors"

	"gorm.io/gorm"

	"gogo-api/models"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) FindByID(id string) (*models.User, error) {
	var user models.User
	err := r.db.First(&user, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) FindByEmail(email string) (*models.User, error) {
	var user models.User
	err := r.db.First(&user, "email = ?", email).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// List returns every user except excludeID, ordered by name. Used for
// the find-friends screen.
func (r *UserRepository) List(excludeID string) ([]models.User, error) {
	var users []models.User
	err := r.db.Where("id <> ?", excludeID).Order("name ASC").Find(&users).Error
	return users, err
}

func (r *UserRepository) Create(user *models.User) error {
	return r.db.Create(user).Error
}

func (r *UserRepository) Save(user *models.User) error {
	return r.db.Save(user).Error
}

// SetFCMToken stores (or clears, with nil) a user's push token.
func (r *UserRepository) SetFCMToken(userID string, token *string) error {
	return r.db.Model(&models.User{}).Where("id = ?", userID).
		Update("fcm_token", token).Error
}
