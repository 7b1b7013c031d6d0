package store

import (
	"time"

	"foodlog/pkg/domain"
)

// GORM models used for persistence. Column names follow the relational
// schema (`users`, `food_records` with a `user_id` foreign key); the domain
// types carry the normalized public names.
type UserModel struct {
	ID           int64     `gorm:"primaryKey;autoIncrement"`
	Username     string    `gorm:"uniqueIndex;not null"`
	PasswordHash string    `gorm:"not null"`
	CreatedAt    time.Time `gorm:"not null"`
}

func (UserModel) TableName() string { return "users" }

type FoodRecordModel struct {
	ID          int64     `gorm:"primaryKey;autoIncrement"`
	OwnerID     int64     `gorm:"column:user_id;not null;index"`
	ShopName    string    `gorm:"not null"`
	Address     string    `gorm:"not null"`
	DishName    string    `gorm:"type:text;not null"`
	CuisineTags string
	RegionTags  string
	CreatedAt   time.Time `gorm:"not null;index"`

	Owner UserModel `gorm:"foreignKey:OwnerID;references:ID;constraint:OnDelete:CASCADE"`
}

func (FoodRecordModel) TableName() string { return "food_records" }

func userFromModel(m UserModel) domain.User {
	return domain.User{
		ID:           m.ID,
		Username:     m.Username,
		PasswordHash: m.PasswordHash,
		CreatedAt:    m.CreatedAt,
	}
}

func recordFromModel(m FoodRecordModel) domain.FoodRecord {
	return domain.FoodRecord{
		ID:          m.ID,
		OwnerID:     m.OwnerID,
		ShopName:    m.ShopName,
		Address:     m.Address,
		DishName:    m.DishName,
		CuisineTags: m.CuisineTags,
		RegionTags:  m.RegionTags,
		CreatedAt:   m.CreatedAt,
	}
}
