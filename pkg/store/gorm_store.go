package store

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"foodlog/pkg/domain"
)

// Connection pool bounds. Each request holds one pooled connection for the
// duration of a store call; acquisition beyond the bound waits in database/sql.
const (
	maxOpenConns = 20
	connIdleTime = 30 * time.Second
)

// GormStore implements Store using GORM + Postgres.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore opens the DB, configures the pool, and runs auto-migrations.
func NewGormStore(dsn string) (*GormStore, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("access pool: %w", err)
	}
	sqlDB.SetMaxOpenConns(maxOpenConns)
	sqlDB.SetConnMaxIdleTime(connIdleTime)
	sqlDB.SetConnMaxLifetime(0)
	if err := db.AutoMigrate(&UserModel{}, &FoodRecordModel{}); err != nil {
		return nil, fmt.Errorf("auto migrate: %w", err)
	}
	return &GormStore{db: db}, nil
}

// CreateUser registers a user, assigning the next id. Uniqueness is checked
// and the row inserted inside one transaction.
func (s *GormStore) CreateUser(username, passwordHash string) (domain.User, error) {
	model := UserModel{
		Username:     username,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	}
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&UserModel{}).Where("username = ?", username).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrDuplicateUsername
		}
		return tx.Create(&model).Error
	})
	if err != nil {
		return domain.User{}, err
	}
	return userFromModel(model), nil
}

// GetUserByUsername looks up a user by exact username.
func (s *GormStore) GetUserByUsername(username string) (domain.User, bool, error) {
	var model UserModel
	if err := s.db.Where("username = ?", username).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.User{}, false, nil
		}
		return domain.User{}, false, err
	}
	return userFromModel(model), true, nil
}

// GetUserByID returns a user by id.
func (s *GormStore) GetUserByID(id int64) (domain.User, bool, error) {
	var model UserModel
	if err := s.db.First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.User{}, false, nil
		}
		return domain.User{}, false, err
	}
	return userFromModel(model), true, nil
}

// ListRecordsByOwner returns the owner's records, most recent first. Rows
// sharing a timestamp come back in insertion order.
func (s *GormStore) ListRecordsByOwner(ownerID int64) ([]domain.FoodRecord, error) {
	var models []FoodRecordModel
	if err := s.db.Where("user_id = ?", ownerID).Order("created_at DESC, id ASC").Find(&models).Error; err != nil {
		return nil, err
	}
	res := make([]domain.FoodRecord, 0, len(models))
	for _, m := range models {
		res = append(res, recordFromModel(m))
	}
	return res, nil
}

// GetRecordByIDAndOwner retrieves a record only when both id and owner match.
func (s *GormStore) GetRecordByIDAndOwner(id, ownerID int64) (domain.FoodRecord, bool, error) {
	var model FoodRecordModel
	if err := s.db.First(&model, "id = ? AND user_id = ?", id, ownerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.FoodRecord{}, false, nil
		}
		return domain.FoodRecord{}, false, err
	}
	return recordFromModel(model), true, nil
}

// CreateRecord persists a record for the owner and returns the stored shape.
func (s *GormStore) CreateRecord(ownerID int64, fields domain.RecordFields) (domain.FoodRecord, error) {
	model := FoodRecordModel{
		OwnerID:     ownerID,
		ShopName:    fields.ShopName,
		Address:     fields.Address,
		DishName:    fields.DishName,
		CuisineTags: fields.CuisineTags,
		RegionTags:  fields.RegionTags,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.db.Omit("Owner").Create(&model).Error; err != nil {
		return domain.FoodRecord{}, err
	}
	return recordFromModel(model), nil
}

// UpdateRecordByIDAndOwner replaces the mutable fields of a matching owned
// record. ID, owner and creation time are never touched.
func (s *GormStore) UpdateRecordByIDAndOwner(id, ownerID int64, fields domain.RecordFields) (domain.FoodRecord, bool, error) {
	res := s.db.Model(&FoodRecordModel{}).
		Where("id = ? AND user_id = ?", id, ownerID).
		Updates(map[string]any{
			"shop_name":    fields.ShopName,
			"address":      fields.Address,
			"dish_name":    fields.DishName,
			"cuisine_tags": fields.CuisineTags,
			"region_tags":  fields.RegionTags,
		})
	if res.Error != nil {
		return domain.FoodRecord{}, false, res.Error
	}
	if res.RowsAffected == 0 {
		return domain.FoodRecord{}, false, nil
	}
	return s.GetRecordByIDAndOwner(id, ownerID)
}

// DeleteRecordByIDAndOwner removes a matching owned record and reports
// whether a row was actually deleted.
func (s *GormStore) DeleteRecordByIDAndOwner(id, ownerID int64) (bool, error) {
	res := s.db.Delete(&FoodRecordModel{}, "id = ? AND user_id = ?", id, ownerID)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// Close releases the underlying connection pool.
func (s *GormStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
