package models

// One cart per user, created lazily on first access.
type Cart struct {
	ID     uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID uint       `gorm:"uniqueIndex;not null"     json:"userId"`
	Items  []CartItem `gorm:"foreignKey:CartID"        json:"items"`
}

func (Cart) TableName() string { return "carritos" }

type CartItem struct {
	ID        uint `gorm:"primaryKey;autoIncrement" json:"id"`
	CartID    uint `gorm:"index;not null"           json:"cartId"`
	ProductID uint `gorm:"index"                    json:"productId"`
	Quantity  int  `gorm:"not null"                 json:"quantity"`
}

func (CartItem) TableName() string { return "carrito_items" }
