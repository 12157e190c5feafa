package models

import "time"

type Product struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:191;uniqueIndex;not null" json:"name"`
	Category    string    `gorm:"size:191;index" json:"category"`
	PhotoURL    string    `json:"photoUrl"`
	Quantity    float64   `json:"quantity"`
	Description string    `gorm:"type:text" json:"description"`
	Price       float64   `json:"price"`
	Discount    float64   `json:"discount"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
