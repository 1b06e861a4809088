// Package services contains server-side business logic. UserService is the
// credential manager: registration, password verification and change, and
// user lookups.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/visitkeeper/internal/common"
	"github.com/dmitrijs2005/visitkeeper/internal/dbx"
	"github.com/dmitrijs2005/visitkeeper/internal/server/auth"
	"github.com/dmitrijs2005/visitkeeper/internal/server/config"
	"github.com/dmitrijs2005/visitkeeper/internal/server/models"
	"github.com/dmitrijs2005/visitkeeper/internal/server/repositories/repomanager"
)

type UserService struct {
	db                *sql.DB
	repomanager       repomanager.RepositoryManager
	bcryptCost        int
	minPasswordLength int
	// dummyHash is compared against on unknown emails so that a miss costs
	// one bcrypt verification like a wrong password does.
	dummyHash string
}

func NewUserService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *UserService {
	dummy, _ := auth.HashPassword("visitkeeper-no-such-user", cfg.BcryptCost)
	return &UserService{
		db:                db,
		repomanager:       m,
		bcryptCost:        cfg.BcryptCost,
		minPasswordLength: cfg.MinPasswordLength,
		dummyHash:         dummy,
	}
}

// Register creates a user. Either the username or the email already being
// taken yields common.ErrConflict.
func (s *UserService) Register(ctx context.Context, username, email, password, description string) (*models.User, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)

	switch {
	case username == "":
		return nil, fmt.Errorf("%w: username is required", common.ErrValidation)
	case email == "":
		return nil, fmt.Errorf("%w: email is required", common.ErrValidation)
	case password == "":
		return nil, fmt.Errorf("%w: password is required", common.ErrValidation)
	}
	if err := s.checkPasswordPolicy(password); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	var user *models.User
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Users(tx)

		if _, err := repo.GetByUserName(ctx, username); !errors.Is(err, common.ErrNotFound) {
			if err == nil {
				return fmt.Errorf("%w: username %q is taken", common.ErrConflict, username)
			}
			return err
		}
		if _, err := repo.GetByEmail(ctx, email); !errors.Is(err, common.ErrNotFound) {
			if err == nil {
				return fmt.Errorf("%w: email %q is taken", common.ErrConflict, email)
			}
			return err
		}

		var err error
		user, err = repo.Create(ctx, &models.User{
			UserName:     username,
			Email:        email,
			PasswordHash: hash,
			Description:  description,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// Authenticate returns the user iff email is known and password verifies.
// Unknown email and wrong password are indistinguishable: both are
// (nil, false, nil). Only storage failures produce an error.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*models.User, bool, error) {
	user, found, err := s.FindByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		return nil, false, err
	}

	hash := s.dummyHash
	if found {
		hash = user.PasswordHash
	}

	ok, err := auth.CheckPassword(hash, password)
	if err != nil {
		return nil, false, err
	}
	if !found || !ok {
		return nil, false, nil
	}
	return user, true, nil
}

// ChangePassword replaces the stored hash after verifying oldPassword.
func (s *UserService) ChangePassword(ctx context.Context, userID int64, oldPassword, newPassword, confirmPassword string) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Users(tx)

		user, err := repo.GetByID(ctx, userID)
		if err != nil {
			if errors.Is(err, common.ErrNotFound) {
				return fmt.Errorf("%w: user %d", common.ErrNotFound, userID)
			}
			return err
		}

		ok, err := auth.CheckPassword(user.PasswordHash, oldPassword)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: current password is incorrect", common.ErrAuthorization)
		}

		if newPassword != confirmPassword {
			return fmt.Errorf("%w: new password and confirmation differ", common.ErrValidation)
		}
		if err := s.checkPasswordPolicy(newPassword); err != nil {
			return err
		}

		hash, err := auth.HashPassword(newPassword, s.bcryptCost)
		if err != nil {
			return err
		}
		return repo.UpdatePasswordHash(ctx, userID, hash)
	})
}

func (s *UserService) FindByID(ctx context.Context, id int64) (*models.User, bool, error) {
	return optional(s.repomanager.Users(s.db).GetByID(ctx, id))
}

func (s *UserService) FindByEmail(ctx context.Context, email string) (*models.User, bool, error) {
	return optional(s.repomanager.Users(s.db).GetByEmail(ctx, email))
}

func (s *UserService) FindByUsername(ctx context.Context, username string) (*models.User, bool, error) {
	return optional(s.repomanager.Users(s.db).GetByUserName(ctx, username))
}

func (s *UserService) ListUsers(ctx context.Context) ([]*models.User, error) {
	return s.repomanager.Users(s.db).List(ctx)
}

// DeleteUser removes the user; visits and sessions go with it.
func (s *UserService) DeleteUser(ctx context.Context, id int64) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repomanager.Users(tx).Delete(ctx, id); err != nil {
			return notFoundf(err, "user %d", id)
		}
		return nil
	})
}

func (s *UserService) UpdateDescription(ctx context.Context, id int64, description string) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repomanager.Users(tx).UpdateDescription(ctx, id, description); err != nil {
			return notFoundf(err, "user %d", id)
		}
		return nil
	})
}

func (s *UserService) checkPasswordPolicy(password string) error {
	if len(password) < s.minPasswordLength {
		return fmt.Errorf("%w: password must be at least %d characters", common.ErrValidation, s.minPasswordLength)
	}
	return nil
}

// optional turns a repository miss into an empty result.
func optional[T any](v *T, err error) (*T, bool, error) {
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return v, true, nil
}

// notFoundf adds context to a repository miss and passes other errors through.
func notFoundf(err error, format string, args ...any) error {
	if errors.Is(err, common.ErrNotFound) {
		return fmt.Errorf("%w: %s", common.ErrNotFound, fmt.Sprintf(format, args...))
	}
	return err
}
