package gormrepo

import (
	"gorm.io/gorm"

	"playmatch/lobbies/internal/repository"
)

// paginate counts the rows matched by db and loads one page of them. The
// scopes (ordering, preloads) only apply to the page query.
func paginate[T any](db *gorm.DB, opts repository.ListOptions, scopes ...func(*gorm.DB) *gorm.DB) ([]T, int64, error) {
	var totalItems int64
	if err := db.Session(&gorm.Session{}).Model(new(T)).Count(&totalItems).Error; err != nil {
		return nil, 0, err
	}

	var results []T
	if err := db.Scopes(scopes...).Offset(opts.Offset()).Limit(opts.Limit).Find(&results).Error; err != nil {
		return nil, 0, err
	}
	return results, totalItems, nil
}
