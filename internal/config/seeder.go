package config

import (
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"prestanet/internal/adapters/persistence/models"
)

// Seeder handles database seeding
type Seeder struct {
	db *gorm.DB
}

// NewSeeder creates a new seeder instance
func NewSeeder(db *gorm.DB) *Seeder {
	return &Seeder{db: db}
}

// Run executes all seeders. Development only; production data comes in
// through the API.
func (s *Seeder) Run() error {
	log.Println("🌱 Running database seeders...")

	if err := s.seedDemoPortfolio(); err != nil {
		log.Printf("⚠️ Demo seeder skipped: %v", err)
	}

	log.Println("✅ Database seeding completed")
	return nil
}

// seedDemoPortfolio seeds a couple of clients with loans so the
// dashboard and schedule views have something to show
func (s *Seeder) seedDemoPortfolio() error {
	var count int64
	s.db.Model(&models.Client{}).Count(&count)
	if count > 0 {
		return nil // Already seeded
	}

	code1, code2 := "CLI-0001", "CLI-0002"
	clients := []*models.Client{
		{
			ID:         uuid.NewString(),
			Name:       "Maria Lopez",
			DPI:        "2547890120101",
			ClientCode: &code1,
			Phone:      "5555-1234",
			Address:    "Zona 1, Guatemala",
		},
		{
			ID:         uuid.NewString(),
			Name:       "Carlos Ramirez",
			DPI:        "1988776540101",
			ClientCode: &code2,
			Phone:      "5555-5678",
			Address:    "Zona 10, Guatemala",
		},
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		for _, c := range clients {
			if err := tx.Create(c).Error; err != nil {
				return err
			}
		}

		loans := []*models.Loan{
			{
				ID:            uuid.NewString(),
				ClientID:      clients[0].ID,
				Principal:     decimal.NewFromInt(5000),
				InterestRate:  decimal.NewFromInt(10),
				InterestBasis: "flat",
				TermMonths:    12,
				Frequency:     "monthly",
				StartDate:     time.Now().UTC().AddDate(0, -2, 0),
				LateFeeRate:   decimal.NewFromInt(5),
				LateFeeBasis:  "monthly",
				Status:        "pending",
			},
			{
				ID:            uuid.NewString(),
				ClientID:      clients[1].ID,
				Principal:     decimal.NewFromInt(2000),
				InterestRate:  decimal.NewFromInt(12),
				InterestBasis: "declining_balance",
				TermMonths:    6,
				Frequency:     "biweekly",
				StartDate:     time.Now().UTC(),
				LateFeeRate:   decimal.NewFromInt(5),
				LateFeeBasis:  "monthly",
				Status:        "pending",
			},
		}
		for _, l := range loans {
			if err := tx.Create(l).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
