package models

import "time"

type Rol struct {
	ID     uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Nombre string `gorm:"unique;not null"          json:"nombre"`
}

func (Rol) TableName() string { return "roles" }

type User struct {
	ID           uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Username     string `gorm:"unique;not null"          json:"username"`
	PasswordHash string `gorm:"not null"                 json:"-"`
	Correo       string `gorm:"unique;not null"          json:"correo"`
	RolID        uint   `gorm:"not null"                 json:"-"`
	Rol          *Rol   `gorm:"foreignKey:RolID"         json:"rol,omitempty"`
}

func (User) TableName() string { return "usuarios" }

type PasswordReset struct {
	ID           uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Email        string    `gorm:"index;not null"           json:"email"`
	CreatedAt    time.Time `json:"created_at"`
	ExpiresAt    time.Time `json:"expires_at"`
	RecoveryCode string    `gorm:"not null"                 json:"-"`
}

func (PasswordReset) TableName() string { return "recuperacion_contrasena" }
