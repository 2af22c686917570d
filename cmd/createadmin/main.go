// Command createadmin creates a back-office admin account directly in the database.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog/log"

	"stock_backend/internal/config"
	"stock_backend/internal/database"
	"stock_backend/internal/repositories"
	"stock_backend/internal/services"
	"stock_backend/pkg/utils"
)

func main() {
	username := flag.String("username", "", "admin username (required)")
	name := flag.String("name", "", "display name (required)")
	email := flag.String("email", "", "email address (required)")
	password := flag.String("password", os.Getenv("ADMIN_PASSWORD"), "password, at least 8 characters (defaults to $ADMIN_PASSWORD)")
	role := flag.String("role", services.RoleAdmin, "role stored in the token")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		utils.InitLogger("info", "console")
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	utils.InitLogger(cfg.Log.Level, cfg.Log.Format)

	if *username == "" || *name == "" || *email == "" || len(*password) < 8 {
		flag.Usage()
		os.Exit(2)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := database.Open(ctx, cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	if cfg.Database.RunMigrations {
		if err := database.Migrate(ctx, db); err != nil {
			log.Fatal().Err(err).Msg("Failed to apply migrations")
		}
	}

	svc := services.NewAdminAuthService(repositories.NewAdminUserRepository(db), []byte(cfg.Auth.JWTSecret), cfg.Auth.TokenTTL)
	admin, err := svc.CreateAdmin(ctx, services.CreateAdminRequest{
		Username: *username,
		Name:     *name,
		Password: *password,
		Email:    *email,
		Role:     *role,
	})
	if err != nil {
		if errors.Is(err, services.ErrUsernameExists) {
			fmt.Fprintf(os.Stderr, "admin %q already exists\n", *username)
			os.Exit(1)
		}
		log.Fatal().Err(err).Msg("Failed to create admin user")
	}

	utils.LogInfo("Admin user created", map[string]interface{}{"id": admin.ID, "username": admin.Username})
}
