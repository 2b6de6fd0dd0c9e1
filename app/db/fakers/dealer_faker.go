package fakers

import (
	"fmt"
	"math/rand"

	"github.com/Rakhulsr/e-agri/app/models"
	"github.com/go-faker/faker/v4"
)

var districts = [][2]string{
	{"Bengaluru Rural", "Karnataka"},
	{"Mysuru", "Karnataka"},
	{"Nashik", "Maharashtra"},
	{"Guntur", "Andhra Pradesh"},
	{"Coimbatore", "Tamil Nadu"},
}

// DealerFaker returns a demo dealer account and profile. The caller hashes the password and persists both.
func DealerFaker(email string) (*models.User, *models.Dealer) {
	place := districts[rand.Intn(len(districts))]
	name := faker.Name()

	user := &models.User{
		Email:             email,
		FullName:          name,
		Phone:             fmt.Sprintf("9%09d", rand.Intn(1_000_000_000)),
		Role:              models.RoleDealer,
		PreferredLanguage: models.DefaultLanguage,
		IsActive:          true,
	}
	dealer := &models.Dealer{
		BusinessName:    name + " Agro Traders",
		BusinessLicense: fmt.Sprintf("LIC-%06d", rand.Intn(1_000_000)),
		BusinessAddress: faker.Sentence(),
		District:        place[0],
		State:           place[1],
	}
	return user, dealer
}
