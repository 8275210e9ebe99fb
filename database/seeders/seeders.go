// Package seeders populates a fresh database with demo data for local
// development: bookhive seed.
package seeders

import "gorm.io/gorm"

// Seeder is one idempotent seeding step.
type Seeder interface {
	Seed(db *gorm.DB) error
}

var registry []Seeder

func register(s Seeder) {
	registry = append(registry, s)
}

// Run executes every registered seeder in registration order.
func Run(db *gorm.DB) error {
	for _, s := range registry {
		if err := s.Seed(db); err != nil {
			return err
		}
	}
	return nil
}
