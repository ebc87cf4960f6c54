package seed

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	appModels "github.com/emre/lmsphere/internal/app/models"
	appRepos "github.com/emre/lmsphere/internal/app/repositories"
)

// CreateDefaultData creates demo teacher and student accounts if they don't
// exist. Intended for development mode so a fresh database is immediately
// usable.
func CreateDefaultData(ctx context.Context, dbPool *pgxpool.Pool, lgr zerolog.Logger) error {
	userRepo := appRepos.NewUserRepository(dbPool)

	lgr.Info().Msg("Checking/Creating default accounts...")
	var finalErr error

	accounts := []struct {
		name     string
		email    string
		password string
		role     appModels.Role
	}{
		{"Demo Teacher", "teacher@lmsphere.app", "Teacher123!", appModels.RoleTeacher},
		{"Demo Student", "student@lmsphere.app", "Student123!", appModels.RoleStudent},
	}

	for _, account := range accounts {
		exists, err := userRepo.EmailExists(ctx, account.email)
		if err != nil {
			lgr.Error().Err(err).Str("email", account.email).Msg("Error checking if default account exists")
			finalErr = errors.Join(finalErr, err)
			continue
		}
		if exists {
			lgr.Debug().Str("email", account.email).Msg("Default account already exists, skipping")
			continue
		}

		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(account.password), bcrypt.DefaultCost)
		if err != nil {
			lgr.Error().Err(err).Str("email", account.email).Msg("Error hashing default account password")
			finalErr = errors.Join(finalErr, err)
			continue
		}

		user := &appModels.User{
			Name:      account.name,
			Email:     account.email,
			Password:  string(hashedPassword),
			Role:      account.role,
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		}

		userID, err := userRepo.CreateUser(ctx, user)
		if err != nil {
			lgr.Error().Err(err).Str("email", account.email).Msg("Error creating default account")
			finalErr = errors.Join(finalErr, err)
			continue
		}
		lgr.Info().Int64("userID", userID).Str("email", account.email).Msg("Default account created")
	}

	lgr.Info().Msg("Default data check/creation finished.")
	return finalErr
}
