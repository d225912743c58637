package models

import "time"

// Location is a point of interest owned by a user, visible to the
// owner and their accepted friends only.
type Location struct {
	ID        string      `json:"id" gorm:"primaryKey;size:191"`
	Name      string      `json:"name" gorm:"not null;size:255"`
	Types     StringSlice `json:"types" gorm:"not null"`
	ImageURLs StringSlice `json:"image_urls" gorm:"column:image_urls"`
	LatLng    LatLng      `json:"lat_lng" gorm:"embedded"`
	Address   string      `json:"address" gorm:"not null;size:500"`
	Area      string      `json:"area" gorm:"not null;size:255;index"`
	UserID    string      `json:"user_id" gorm:"not null;size:191;index"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`

	User User `json:"-" gorm:"foreignKey:UserID"`
}

// LocationTypes is the fixed enumeration a location's types are drawn from.
var LocationTypes = map[string]bool{
	"food":   true,
	"coffee": true,
}

// LocationResponse carries a location with its creator populated.
type LocationResponse struct {
	Location
	CreatedBy *PublicProfile `json:"created_by"`
}

func (l *Location) ToResponse() LocationResponse {
	resp := LocationResponse{Location: *l}
	if l.User.ID != "" {
		profile := l.User.Public()
		resp.CreatedBy = &profile
	}
	return resp
}
