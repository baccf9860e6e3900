package repo

import (
	"errors"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

var ErrDuplicate = errors.New("duplicate record")

type GormRepo struct {
	DB *gorm.DB
}

func New(db *gorm.DB) *GormRepo {
	return &GormRepo{DB: db}
}

// isUniqueViolation recognizes a unique-constraint conflict from either the
// postgres driver (23505) or gorm's translated error.
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return true
	}
	return false
}
