package config

import (
	"log"
	"time"

	"github.com/emureccima/corporate-sub000/internal/adapters/persistence/models"
	"github.com/emureccima/corporate-sub000/internal/pkg/password"

	"gorm.io/gorm"
)

// Seeder handles database seeding
type Seeder struct {
	db *gorm.DB
}

// NewSeeder creates a new seeder instance
func NewSeeder(db *gorm.DB) *Seeder {
	return &Seeder{db: db}
}

// Run executes all seeders
func (s *Seeder) Run() error {
	log.Println("Running database seeders...")

	if err := s.seedAdmin(); err != nil {
		log.Printf("Warning: admin seeder skipped: %v", err)
	}

	log.Println("Database seeding completed")
	return nil
}

// seedAdmin seeds the default admin account.
// Development convenience only; production admins are created through
// a secure process and the default credentials must be rotated.
func (s *Seeder) seedAdmin() error {
	var count int64
	s.db.Model(&models.Member{}).Where("role = ?", "ADMIN").Count(&count)
	if count > 0 {
		return nil // Admin already exists
	}

	hashedPassword, err := password.Hash(getEnv("ADMIN_PASSWORD", "admin123456"))
	if err != nil {
		return err
	}

	now := time.Now()
	admin := &models.Member{
		MemberNo:    "MBR-000001",
		FullName:    "System Administrator",
		Email:       getEnv("ADMIN_EMAIL", "admin@emureccima.org"),
		Password:    hashedPassword,
		Role:        "ADMIN",
		Status:      "ACTIVE",
		ActivatedAt: &now,
	}

	return s.db.Create(admin).Error
}
