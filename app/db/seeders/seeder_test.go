package seeders

import (
	"context"
	"testing"

	"github.com/Rakhulsr/e-agri/app/models"
	"github.com/Rakhulsr/e-agri/app/repositories"
	"github.com/Rakhulsr/e-agri/app/repositories/repotest"
)

func newTestSeeder(store *repotest.Store) *Seeder {
	return NewSeeder(store.UserRepo(), store.ProfileRepo(), store.CategoryRepo(), store.ProductRepo())
}

func TestSeeder_SeedCategoriesIsIdempotent(t *testing.T) {
	store := repotest.NewStore()
	seeder := newTestSeeder(store)

	first, err := seeder.SeedCategories(context.Background())
	if err != nil {
		t.Fatalf("SeedCategories() error = %v", err)
	}
	second, err := seeder.SeedCategories(context.Background())
	if err != nil {
		t.Fatalf("SeedCategories() error = %v", err)
	}

	for i := range first {
		if first[i].ID != second[i].ID {
			t.Fatalf("category %s seeded twice", first[i].Slug)
		}
	}
	if first[3].Slug != "farm-equipment" {
		t.Fatalf("slug = %q", first[3].Slug)
	}

	active, _ := store.CategoryRepo().ListActive(context.Background())
	if len(active) != len(defaultCategories) {
		t.Fatalf("categories = %d, want %d", len(active), len(defaultCategories))
	}
}

func TestSeeder_SeedDemo(t *testing.T) {
	store := repotest.NewStore()
	seeder := newTestSeeder(store)

	if err := seeder.SeedDemo(context.Background(), "demo@example.com", "Password1", 2); err != nil {
		t.Fatalf("SeedDemo() error = %v", err)
	}

	user := store.User("demo@example.com")
	if user == nil || user.Role != models.RoleDealer {
		t.Fatalf("demo user = %+v", user)
	}
	if dealer := store.Dealer(user.ID); dealer == nil || !dealer.IsVerified() {
		t.Fatalf("demo dealer = %+v", dealer)
	}

	rows, err := store.ProductRepo().ListAvailable(context.Background(), repositories.ProductFilter{})
	if err != nil {
		t.Fatalf("ListAvailable() error = %v", err)
	}
	if len(rows) != 2*len(defaultCategories) {
		t.Fatalf("products = %d, want %d", len(rows), 2*len(defaultCategories))
	}
	for _, row := range rows {
		if !row.Price.IsPositive() || row.CategoryName == "" {
			t.Fatalf("bad seeded row %+v", row)
		}
	}

	if err := seeder.SeedDemo(context.Background(), "demo@example.com", "Password1", 1); err == nil {
		t.Fatal("expected error for an existing demo dealer")
	}
}
