// Command createadmin bootstraps a staff account for the admin API.
package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/stanstork/gpl-website-api/internal/config"
	"github.com/stanstork/gpl-website-api/internal/migration"
	"github.com/stanstork/gpl-website-api/internal/models"
	"github.com/stanstork/gpl-website-api/internal/repository"

	_ "github.com/lib/pq" // PostgreSQL driver
)

func main() {
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).With().Timestamp().Logger()

	name := flag.String("name", "Administrator", "display name")
	email := flag.String("email", "", "login email (required)")
	password := flag.String("password", "", "initial password, at least 8 characters (required)")
	role := flag.String("role", string(models.RoleAdmin), "admin or super_admin")
	flag.Parse()

	if strings.TrimSpace(*email) == "" || len(*password) < 8 {
		flag.Usage()
		os.Exit(2)
	}
	userRole := models.UserRole(*role)
	if !models.HasAtLeast(userRole, models.RoleAdmin) {
		logger.Fatal().Str("role", *role).Msg("role must be admin or super_admin")
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		logger.Warn().Err(err).Msg("Failed to read .env file")
	}
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("Invalid configuration")
	}

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to the database")
	}
	defer db.Close()

	if err := migration.Run(db, logger); err != nil {
		logger.Fatal().Err(err).Msg("Failed to run migrations")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	user, err := repository.NewUserRepository(db).CreateUser(ctx, *name, *email, *password, userRole)
	if err != nil {
		if repository.IsUniqueViolation(err) {
			logger.Fatal().Str("email", *email).Msg("a user with this email already exists")
		}
		logger.Fatal().Err(err).Msg("Failed to create user")
	}
	logger.Info().Str("id", user.ID).Str("email", user.Email).Str("role", string(user.Role)).Msg("Admin user created")
}
