package main

import (
	"context"
	"errors"
	"log"
	"os"

	"gorm.io/gorm"

	"blogapi/internal/auth"
	"blogapi/internal/config"
	"blogapi/internal/db"
	"blogapi/internal/model"
	"blogapi/internal/repository"
	"blogapi/internal/slug"
)

var starterCategories = []string{"General", "Engineering", "Announcements"}

func main() {
	log.Println("Starting seed script...")

	cfg := config.Load()

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.Category{},
		&model.Tag{},
		&model.Post{},
	); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	ctx := context.Background()
	userRepo := repository.NewUserRepository(gormDB)
	categoryRepo := repository.NewCategoryRepository(gormDB)

	if err := seedAdmin(ctx, userRepo); err != nil {
		log.Fatalf("Failed to seed admin user: %v", err)
	}

	created := 0
	for _, name := range starterCategories {
		ok, err := seedCategory(ctx, categoryRepo, name)
		if err != nil {
			log.Fatalf("Failed to seed category %q: %v", name, err)
		}
		if ok {
			created++
		}
	}

	log.Printf("Seed completed: %d new categories", created)
}

// seedAdmin creates the admin user from environment credentials if it does
// not exist yet. ADMIN_PASSWORD must be set; the rest has defaults.
func seedAdmin(ctx context.Context, repo repository.UserRepository) error {
	username := getEnv("ADMIN_USERNAME", "admin")

	if _, err := repo.FindByUsername(ctx, username); err == nil {
		log.Printf("Admin user %q already exists, skipping", username)
		return nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		return errors.New("ADMIN_PASSWORD is required to create the admin user")
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}

	admin := &model.User{
		Username:     username,
		FullName:     getEnv("ADMIN_FULL_NAME", "Administrator"),
		Email:        getEnv("ADMIN_EMAIL", "admin@localhost"),
		PasswordHash: hash,
	}
	if err := repo.Create(ctx, admin); err != nil {
		return err
	}

	log.Printf("Created admin user %q", username)
	return nil
}

// seedCategory inserts a starter category unless its name or slug is taken.
func seedCategory(ctx context.Context, repo repository.CategoryRepository, name string) (bool, error) {
	slugValue := slug.Make(name)
	taken, err := repo.NameOrSlugTaken(ctx, name, slugValue, 0)
	if err != nil {
		return false, err
	}
	if taken {
		return false, nil
	}
	if err := repo.Create(ctx, &model.Category{Name: name, Slug: slugValue}); err != nil {
		return false, err
	}
	return true, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
