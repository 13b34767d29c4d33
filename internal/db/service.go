package db

import (
	"errors"

	"gorm.io/gorm"
)

// ErrUserServiceLimit is returned by CreateService when the owning
// user already has the maximum number of service records.
var ErrUserServiceLimit = errors.New("user service limit reached")

// ListServices returns every service record in storage order.
func ListServices(db *gorm.DB) ([]Service, error) {
	var services []Service
	if err := db.Find(&services).Error; err != nil {
		return nil, err
	}
	return services, nil
}

// GetService looks up a single record by id. Returns
// gorm.ErrRecordNotFound if no such record exists.
func GetService(db *gorm.DB, id uint) (*Service, error) {
	var svc Service
	if err := db.First(&svc, id).Error; err != nil {
		return nil, err
	}
	return &svc, nil
}

// CreateService persists a new service record, enforcing the per-user
// limit. The count and the insert run in one transaction so a burst of
// concurrent creations for the same user cannot overshoot the limit
// past the database's isolation guarantees.
func CreateService(db *gorm.DB, svc *Service, limit int) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&Service{}).Where(`"user" = ?`, svc.User).Count(&count).Error; err != nil {
			return err
		}
		if count >= int64(limit) {
			return ErrUserServiceLimit
		}
		return tx.Create(svc).Error
	})
}

// SetServiceStatus overwrites the status column of the record with the
// given id and returns the updated record. The update is a single
// conditional statement; zero affected rows maps to
// gorm.ErrRecordNotFound.
func SetServiceStatus(db *gorm.DB, id uint, status Status) (*Service, error) {
	res := db.Model(&Service{}).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return GetService(db, id)
}

// SetServiceCache overwrites the cache column of the record with the
// given id and returns the updated record. Same contract as
// SetServiceStatus.
func SetServiceCache(db *gorm.DB, id uint, cache CachePrivilege) (*Service, error) {
	res := db.Model(&Service{}).Where("id = ?", id).Update("cache", cache)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return GetService(db, id)
}

// DeleteService removes the record with the given id permanently and
// returns it as it existed just before removal. Load and delete run in
// one transaction so the returned snapshot matches the deleted row.
func DeleteService(db *gorm.DB, id uint) (*Service, error) {
	var svc Service
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&svc, id).Error; err != nil {
			return err
		}
		return tx.Delete(&svc).Error
	})
	if err != nil {
		return nil, err
	}
	return &svc, nil
}
