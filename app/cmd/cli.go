package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/Rakhulsr/e-agri/app/configs"
	"github.com/Rakhulsr/e-agri/app/db/seeders"
	"github.com/Rakhulsr/e-agri/app/models"
	"github.com/Rakhulsr/e-agri/app/models/migrations"
	"github.com/Rakhulsr/e-agri/app/repositories"
	"github.com/Rakhulsr/e-agri/app/services"
	"github.com/urfave/cli/v3"
	"gorm.io/gorm"
)

func RunCli() {
	env := configs.LoadEnv()

	cmd := &cli.Command{
		Name:  "e-agri",
		Usage: "E-AGRI marketplace API",
		Action: func(ctx context.Context, c *cli.Command) error {
			return Serve(ctx, env)
		},
		Commands: []*cli.Command{
			{
				Name:  "serve",
				Usage: "Run the HTTP API server",
				Action: func(ctx context.Context, c *cli.Command) error {
					return Serve(ctx, env)
				},
			},
			{
				Name:  "migrate",
				Usage: "Run database migration",
				Action: func(ctx context.Context, c *cli.Command) error {
					db, err := configs.OpenConnection(env)
					if err != nil {
						return err
					}
					if err := migrations.AutoMigrate(db); err != nil {
						return err
					}
					log.Println("✅ Migration complete")
					return nil
				},
			},
			{
				Name:  "seed",
				Usage: "Seed product categories, optionally with a verified demo dealer",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "demo", Usage: "also create a verified demo dealer with listings"},
					&cli.StringFlag{Name: "email", Value: "demo.dealer@eagri.local", Usage: "demo dealer email"},
					&cli.StringFlag{Name: "password", Value: "Demo@1234", Usage: "demo dealer password"},
					&cli.IntFlag{Name: "per-category", Value: 3, Usage: "demo products per category"},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					db, err := configs.OpenConnection(env)
					if err != nil {
						return err
					}
					seeder := seeders.NewSeeder(
						repositories.NewUserRepository(db),
						repositories.NewProfileRepository(db),
						repositories.NewCategoryRepository(db),
						repositories.NewProductRepository(db),
					)
					if c.Bool("demo") {
						err = seeder.SeedDemo(ctx, c.String("email"), c.String("password"), int(c.Int("per-category")))
					} else {
						_, err = seeder.SeedCategories(ctx)
					}
					if err != nil {
						return err
					}
					log.Println("✅ Seeding complete")
					return nil
				},
			},
			{
				Name:  "generate-keys",
				Usage: "Generate new session authentication and encryption keys for .env",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "out", Value: ".env.new_keys", Usage: "file to write the keys to"},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					path, err := configs.GenerateSessionKeys(c.String("out"))
					if err != nil {
						return err
					}
					fmt.Printf("Keys have been written to '%s'.\n", path)
					fmt.Println("Copy them into your .env file. Regenerating keys invalidates every existing session.")
					return nil
				},
			},
			{
				Name:  "verify-dealer",
				Usage: "Set a dealer's verification status",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "email", Required: true},
					&cli.StringFlag{Name: "status", Value: models.VerificationVerified, Usage: "pending, verified or rejected"},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					return withAdmin(env, func(admin *services.AdminService) error {
						dealer, err := admin.VerifyDealer(ctx, c.String("email"), c.String("status"))
						if err != nil {
							return err
						}
						fmt.Printf("Dealer %s is now %s\n", dealer.ID, dealer.VerificationStatus)
						return nil
					})
				},
			},
			{
				Name:  "set-active",
				Usage: "Activate or deactivate a user account",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "email", Required: true},
					&cli.BoolFlag{Name: "active", Value: true},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					return withAdmin(env, func(admin *services.AdminService) error {
						return admin.SetActive(ctx, c.String("email"), c.Bool("active"))
					})
				},
			},
			{
				Name:  "create-admin",
				Usage: "Create an administrator account",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "email", Required: true},
					&cli.StringFlag{Name: "password", Required: true},
					&cli.StringFlag{Name: "name", Value: "Administrator"},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					return withAdmin(env, func(admin *services.AdminService) error {
						user, err := admin.CreateAdmin(ctx, c.String("email"), c.String("password"), c.String("name"))
						if err != nil {
							return err
						}
						fmt.Printf("Admin %s created with id %s\n", user.Email, user.ID)
						return nil
					})
				},
			},
			{
				Name:  "purge-login-attempts",
				Usage: "Delete login attempts older than the given age",
				Flags: []cli.Flag{
					&cli.DurationFlag{Name: "older-than", Value: 30 * 24 * time.Hour},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					db, err := configs.OpenConnection(env)
					if err != nil {
						return err
					}
					limiter := services.NewRateLimiter(repositories.NewLoginAttemptRepository(db), env.LoginRateWindow, env.LoginRateMaxAttempts)
					removed, err := limiter.Purge(ctx, c.Duration("older-than"))
					if err != nil {
						return err
					}
					fmt.Printf("Removed %d login attempts\n", removed)
					return nil
				},
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

func withAdmin(env configs.ENV, fn func(admin *services.AdminService) error) error {
	db, err := configs.OpenConnection(env)
	if err != nil {
		return err
	}
	return fn(newAdminService(db))
}

func newAdminService(db *gorm.DB) *services.AdminService {
	return services.NewAdminService(repositories.NewUserRepository(db), repositories.NewProfileRepository(db))
}
