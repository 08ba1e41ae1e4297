package main

import (
	"log"
	"time"

	"eventhive/internal/catalog"
	"eventhive/internal/shared/config"
	"eventhive/internal/shared/database"
	"eventhive/internal/users"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := config.Load()

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	if err := seed(db); err != nil {
		log.Fatalf("Failed to seed database: %v", err)
	}

	log.Println("Database seeded successfully")
}

func seed(db *gorm.DB) error {
	if err := seedUsers(db); err != nil {
		return err
	}
	return seedEvents(db)
}

func seedUsers(db *gorm.DB) error {
	seedAccounts := []struct {
		name     string
		email    string
		phone    string
		password string
		role     users.Role
	}{
		{"Admin", "admin@eventhive.com", "+919900000001", "admin123", users.RoleAdmin},
		{"Asha Rao", "asha@example.com", "+919900000002", "password123", users.RoleUser},
		{"Vikram Shetty", "vikram@example.com", "+919900000003", "password123", users.RoleUser},
	}

	for _, account := range seedAccounts {
		var existing users.User
		err := db.Where("email = ?", account.email).First(&existing).Error
		if err == nil {
			continue
		}
		if err != gorm.ErrRecordNotFound {
			return err
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(account.password), bcrypt.DefaultCost)
		if err != nil {
			return err
		}

		user := users.User{
			Name:         account.name,
			Email:        account.email,
			Phone:        account.phone,
			PasswordHash: string(hash),
			Role:         account.role,
		}
		if err := db.Create(&user).Error; err != nil {
			return err
		}
		log.Printf("Created user %s (%s)", user.Email, user.Role)
	}

	return nil
}

func seedEvents(db *gorm.DB) error {
	var admin users.User
	if err := db.Where("role = ?", users.RoleAdmin).First(&admin).Error; err != nil {
		return err
	}

	var count int64
	if err := db.Model(&catalog.Event{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		log.Println("Events already present, skipping event seed")
		return nil
	}

	now := time.Now()
	seedEvents := []catalog.Event{
		{
			Title:       "Bangalore Indie Music Night",
			Description: "An evening of live indie performances across two stages.",
			Venue:       "Phoenix Arena, Bangalore",
			StartDate:   now.AddDate(0, 1, 0),
			EndDate:     now.AddDate(0, 1, 0).Add(5 * time.Hour),
			Status:      catalog.EventStatusPublished,
			CreatedBy:   admin.ID,
			TicketTiers: []catalog.TicketTier{
				{
					Name:              "General",
					Price:             decimal.NewFromInt(499),
					Currency:          "INR",
					TotalQuantity:     500,
					RemainingQuantity: 500,
					MaxPerUser:        6,
					IsActive:          true,
					SaleStart:         now,
					SaleEnd:           now.AddDate(0, 1, 0),
				},
				{
					Name:              "VIP",
					Price:             decimal.NewFromInt(1499),
					Currency:          "INR",
					TotalQuantity:     100,
					RemainingQuantity: 100,
					MaxPerUser:        4,
					IsActive:          true,
					SaleStart:         now,
					SaleEnd:           now.AddDate(0, 1, 0),
				},
			},
		},
		{
			Title:       "Open Source Saturday",
			Description: "A free community meetup for open source contributors.",
			Venue:       "Tech Park Auditorium, Pune",
			StartDate:   now.AddDate(0, 0, 14),
			EndDate:     now.AddDate(0, 0, 14).Add(4 * time.Hour),
			Status:      catalog.EventStatusPublished,
			CreatedBy:   admin.ID,
			TicketTiers: []catalog.TicketTier{
				{
					Name:              "Community Pass",
					Price:             decimal.Zero,
					Currency:          "INR",
					TotalQuantity:     200,
					RemainingQuantity: 200,
					MaxPerUser:        2,
					IsActive:          true,
					SaleStart:         now,
					SaleEnd:           now.AddDate(0, 0, 14),
				},
			},
		},
	}

	for i := range seedEvents {
		if err := db.Create(&seedEvents[i]).Error; err != nil {
			return err
		}
		log.Printf("Created event %q with %d tiers", seedEvents[i].Title, len(seedEvents[i].TicketTiers))
	}

	return nil
}
