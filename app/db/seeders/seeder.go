package seeders

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/Rakhulsr/e-agri/app/db/fakers"
	"github.com/Rakhulsr/e-agri/app/models"
	"github.com/Rakhulsr/e-agri/app/repositories"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"golang.org/x/crypto/bcrypt"
)

type categorySeed struct {
	Name        string
	Type        string
	Description string
}

var defaultCategories = []categorySeed{
	{"Seeds", models.CategorySeeds, "Certified and hybrid seeds"},
	{"Fertilizers", models.CategoryFertilizer, "Chemical and organic fertilizers"},
	{"Pesticides", models.CategoryPesticide, "Crop protection chemicals and bio-pesticides"},
	{"Farm Equipment", models.CategoryEquipment, "Tools, sprayers and irrigation equipment"},
	{"Other Supplies", models.CategoryOther, "Everything else a farm needs"},
}

type Seeder struct {
	users      repositories.UserRepositoryImpl
	profiles   repositories.ProfileRepositoryImpl
	categories repositories.CategoryRepositoryImpl
	products   repositories.ProductRepositoryImpl
}

func NewSeeder(users repositories.UserRepositoryImpl, profiles repositories.ProfileRepositoryImpl, categories repositories.CategoryRepositoryImpl, products repositories.ProductRepositoryImpl) *Seeder {
	return &Seeder{users: users, profiles: profiles, categories: categories, products: products}
}

// SeedCategories inserts the default categories; existing slugs are left alone.
func (s *Seeder) SeedCategories(ctx context.Context) ([]models.Category, error) {
	seeded := make([]models.Category, 0, len(defaultCategories))
	for _, seed := range defaultCategories {
		category := models.Category{
			ID:          uuid.New().String(),
			Name:        seed.Name,
			Slug:        slug.Make(seed.Name),
			Type:        seed.Type,
			Description: seed.Description,
			IsActive:    true,
		}
		if err := s.categories.FirstOrCreate(ctx, &category); err != nil {
			return nil, err
		}
		seeded = append(seeded, category)
	}
	log.Printf("SeedCategories: %d categories ready", len(seeded))
	return seeded, nil
}

// SeedDemo creates a verified demo dealer with perCategory listings in every category.
func (s *Seeder) SeedDemo(ctx context.Context, email, password string, perCategory int) error {
	categories, err := s.SeedCategories(ctx)
	if err != nil {
		return err
	}

	user, dealer := fakers.DealerFaker(email)
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash demo password: %w", err)
	}
	user.PasswordHash = string(hash)

	if err := s.users.CreateDealer(ctx, user, dealer); err != nil {
		if errors.Is(err, repositories.ErrDuplicateEmail) {
			return fmt.Errorf("demo dealer %s already exists", email)
		}
		return err
	}
	if err := s.profiles.SetDealerVerification(ctx, dealer.ID, models.VerificationVerified); err != nil {
		return err
	}

	count := 0
	for i := range categories {
		for j := 0; j < perCategory; j++ {
			if err := s.products.Create(ctx, fakers.ProductFaker(dealer.ID, &categories[i])); err != nil {
				return err
			}
			count++
		}
	}

	log.Printf("SeedDemo: dealer %s verified with %d products", email, count)
	return nil
}
