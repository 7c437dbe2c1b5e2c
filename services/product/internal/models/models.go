package models

// Product photo travels base64-encoded over JSON, which encoding/json
// gives us for free on []byte.
type Product struct {
	ID          uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	IDUser      uint    `gorm:"index;not null"           json:"iduser"`
	Name        string  `gorm:"not null"                 json:"name"`
	Description string  `gorm:"size:500"                 json:"description"`
	Price       float64 `gorm:"not null"                 json:"price"`
	Stock       int     `gorm:"not null"                 json:"stock"`
	Photo       []byte  `json:"photo,omitempty"`
}

func (Product) TableName() string { return "productos" }
