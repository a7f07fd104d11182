package helper

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"simaru/config"
	"simaru/infras/postgres"
	"simaru/shared/constant"
	"simaru/shared/password"
	"simaru/shared/timezone"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const seedActor = "seeder"

const seedAdminQuery = `INSERT INTO users (id, name, email, role, password, created_at, modified_at, created_by, modified_by)
VALUES (:id, :name, :email, :role, :password, :now, :now, :actor, :actor)
ON CONFLICT (email) DO NOTHING`

var ErrInvalidSeed = errors.New("invalid admin seed")

// ValidateSeed checks the configured admin account before anything is written.
func ValidateSeed(config *config.Config) (email string, err error) {
	email = strings.ToLower(strings.TrimSpace(config.Seed.AdminEmail))

	if _, err := mail.ParseAddress(email); err != nil {
		return "", fmt.Errorf("%w: SEED_ADMIN_EMAIL %q is not an email address", ErrInvalidSeed, config.Seed.AdminEmail)
	}

	if len(config.Seed.AdminPassword) < password.MinLength {
		return "", fmt.Errorf("%w: SEED_ADMIN_PASSWORD must be at least %d characters", ErrInvalidSeed, password.MinLength)
	}

	return email, nil
}

// SeedAdmin creates the first administrator unless a user with the same email exists.
func SeedAdmin(ctx context.Context, config *config.Config) error {
	email, err := ValidateSeed(config)
	if err != nil {
		return err
	}

	hashed, err := password.Hash(config.Seed.AdminPassword)
	if err != nil {
		return fmt.Errorf("error hashing admin password: %w", err)
	}

	db := postgres.CreatePostgresWriteConn(*config)
	if db == nil {
		return errors.New("error connecting to database")
	}

	defer db.Close()

	result, err := db.NamedExecContext(ctx, seedAdminQuery, map[string]any{
		"id":       uuid.NewString(),
		"name":     config.Seed.AdminName,
		"email":    email,
		"role":     constant.RoleAdmin,
		"password": hashed,
		"now":      timezone.Now(),
		"actor":    seedActor,
	})
	if err != nil {
		return fmt.Errorf("error seeding admin: %w", err)
	}

	if rows, _ := result.RowsAffected(); rows == 0 {
		log.Info().Str("email", email).Msg("Admin already exists, nothing seeded")

		return nil
	}

	log.Info().Str("email", email).Msg("Admin seeded")

	return nil
}
