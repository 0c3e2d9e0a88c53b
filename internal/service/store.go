package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/robotshop/shipping/internal/db"
)

// ErrNotFound is returned when a lookup matches no row
var ErrNotFound = errors.New("not found")

// Store reads shipping reference data
type Store interface {
	CountCities(ctx context.Context) (int64, error)
	Codes(ctx context.Context) ([]db.Code, error)
	CitiesByCode(ctx context.Context, code string) ([]db.City, error)
	MatchCities(ctx context.Context, code, prefix string, limit int) ([]db.City, error)
	CityByUUID(ctx context.Context, uuid uint) (*db.City, error)
}

// GormStore implements Store on top of gorm
type GormStore struct {
	db *gorm.DB
}

// NewGormStore creates a store bound to dbConn
func NewGormStore(dbConn *gorm.DB) *GormStore {
	return &GormStore{db: dbConn}
}

// CountCities returns the number of known cities
func (s *GormStore) CountCities(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&db.City{}).Count(&count).Error
	return count, err
}

// Codes returns all country codes ordered by name
func (s *GormStore) Codes(ctx context.Context) ([]db.Code, error) {
	var codes []db.Code
	err := s.db.WithContext(ctx).Order("name ASC").Find(&codes).Error
	return codes, err
}

// CitiesByCode returns the cities of a country
func (s *GormStore) CitiesByCode(ctx context.Context, code string) ([]db.City, error) {
	var cities []db.City
	err := s.db.WithContext(ctx).Where("country_code = ?", code).Order("name ASC").Find(&cities).Error
	return cities, err
}

// MatchCities returns up to limit cities of a country whose name starts with prefix
func (s *GormStore) MatchCities(ctx context.Context, code, prefix string, limit int) ([]db.City, error) {
	var cities []db.City
	err := s.db.WithContext(ctx).
		Where("country_code = ? AND name LIKE ?", code, escapeLike(prefix)+"%").
		Order("name ASC").
		Limit(limit).
		Find(&cities).Error
	return cities, err
}

// CityByUUID retrieves a single city
func (s *GormStore) CityByUUID(ctx context.Context, uuid uint) (*db.City, error) {
	var city db.City
	err := s.db.WithContext(ctx).First(&city, uuid).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &city, nil
}

// UpsertCodes inserts codes, updating names of existing ones
func (s *GormStore) UpsertCodes(ctx context.Context, codes []db.Code) error {
	if len(codes) == 0 {
		return nil
	}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "code"}},
		DoUpdates: clause.AssignmentColumns([]string{"name"}),
	}).CreateInBatches(codes, 500).Error
}

// UpsertCities inserts cities, updating rows whose uuid already exists
func (s *GormStore) UpsertCities(ctx context.Context, cities []db.City) error {
	if len(cities) == 0 {
		return nil
	}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		UpdateAll: true,
	}).CreateInBatches(cities, 500).Error
}

// Truncate removes all reference data
func (s *GormStore) Truncate(ctx context.Context) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, model := range []interface{}{&db.City{}, &db.Code{}} {
			if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(model).Error; err != nil {
				return fmt.Errorf("truncate: %w", err)
			}
		}
		return nil
	})
}

func escapeLike(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		if r == '%' || r == '_' || r == '\\' {
			out = append(out, '\\')
		}
		out = append(out, r)
	}
	return string(out)
}
