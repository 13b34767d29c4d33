package db

import (
	"time"
)

// Status is the lifecycle state of a registered service.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusBlocked  Status = "blocked"
)

// ParseStatus validates s against the known status literals.
func ParseStatus(s string) (Status, bool) {
	switch Status(s) {
	case StatusPending, StatusApproved, StatusBlocked:
		return Status(s), true
	}
	return "", false
}

// CachePrivilege classifies how a service's content should be cached
// by the external caching layer.
type CachePrivilege string

const (
	CacheOriginal CachePrivilege = "original"
	CacheBuffer   CachePrivilege = "buffer"
	CacheNone     CachePrivilege = "no_cache"
)

// ParseCachePrivilege validates s against the known cache tier literals.
func ParseCachePrivilege(s string) (CachePrivilege, bool) {
	switch CachePrivilege(s) {
	case CacheOriginal, CacheBuffer, CacheNone:
		return CachePrivilege(s), true
	}
	return "", false
}

// Service is a registered client service. It is the only entity this
// API manages: one row per token, owned by an external user id.
type Service struct {
	ID uint `gorm:"primaryKey"`

	// Token identifies the service to its consumers and must be
	// unique across all records.
	Token string `gorm:"uniqueIndex;size:128;not null"`

	// Username is informational only.
	Username string `gorm:"size:64;not null;default:''"`

	// User is the owning user's external identifier.
	User int64 `gorm:"column:user;not null;index"`

	Status Status         `gorm:"size:12;not null;default:pending"`
	Cache  CachePrivilege `gorm:"size:12;not null;default:no_cache"`

	// CreatedTime is set once when the record is persisted and never
	// changes afterwards.
	CreatedTime time.Time `gorm:"autoCreateTime"`
}

func (Service) TableName() string { return "services" }
