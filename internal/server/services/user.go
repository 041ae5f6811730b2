// Package services contains server-side business logic. This file implements
// UserService: registration with the fixed validator chain and login with
// last_login bookkeeping and audit logging.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/smartlearn/internal/common"
	"github.com/dmitrijs2005/smartlearn/internal/cryptox"
	"github.com/dmitrijs2005/smartlearn/internal/dbx"
	"github.com/dmitrijs2005/smartlearn/internal/protocol"
	"github.com/dmitrijs2005/smartlearn/internal/server/config"
	"github.com/dmitrijs2005/smartlearn/internal/server/models"
	"github.com/dmitrijs2005/smartlearn/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/smartlearn/internal/validate"
)

// RegisterParams carries the parsed registration request fields.
type RegisterParams struct {
	Username string
	Password string
	Email    string
	Phone    string
	Grade    string
	Major    string
	Role     string
}

// RegisterResult reports the outcome of a registration attempt. Code is
// RegisterSuccess exactly when UserID is set.
type RegisterResult struct {
	Code   protocol.RegisterCode
	UserID int64
}

// UserService provides authentication-related operations backed by the store.
type UserService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	policy      validate.PasswordPolicy
	salt        string
}

// NewUserService constructs a UserService using repositories and server config.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *UserService {
	return &UserService{
		db:          db,
		repomanager: m,
		policy:      validate.PolicyByName(cfg.PasswordPolicy),
		salt:        cfg.PasswordSalt,
	}
}

// Register runs the validator chain in its fixed order (username format,
// password strength, email format, phone format, username uniqueness, email
// uniqueness); the first failing check determines the returned code. On
// success the user row and the audit entry are written in one transaction.
// A non-nil error means the store failed; the caller should report a
// database error.
func (s *UserService) Register(ctx context.Context, p RegisterParams, ip string) (*RegisterResult, error) {
	if !validate.Username(p.Username) {
		return &RegisterResult{Code: protocol.CodeInvalidUsername}, nil
	}
	if !validate.Password(p.Password, s.policy) {
		return &RegisterResult{Code: protocol.CodeInvalidPassword}, nil
	}
	if p.Email != "" && !validate.Email(p.Email) {
		return &RegisterResult{Code: protocol.CodeInvalidEmail}, nil
	}
	if p.Phone != "" && !validate.Phone(p.Phone) {
		return &RegisterResult{Code: protocol.CodeInvalidPhone}, nil
	}

	userRepo := s.repomanager.Users(s.db)

	exists, err := userRepo.UsernameExists(ctx, p.Username)
	if err != nil {
		return nil, fmt.Errorf("checking username: %w", err)
	}
	if exists {
		return &RegisterResult{Code: protocol.CodeUsernameExists}, nil
	}

	exists, err = userRepo.EmailExists(ctx, p.Email)
	if err != nil {
		return nil, fmt.Errorf("checking email: %w", err)
	}
	if exists {
		return &RegisterResult{Code: protocol.CodeEmailExists}, nil
	}

	user := &models.User{
		Username:     p.Username,
		PasswordHash: cryptox.HashPassword(p.Password, s.salt),
		Email:        nullString(p.Email),
		Phone:        nullString(p.Phone),
		Grade:        nullString(p.Grade),
		Major:        nullString(p.Major),
		Role:         models.NormalizeRole(p.Role),
		Status:       models.StatusActive,
	}

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		created, err := s.repomanager.Users(tx).Create(ctx, user)
		if err != nil {
			return err
		}
		details := "User registered successfully: " + created.Username
		return s.repomanager.ActionLogs(tx).Append(ctx, created.ID, models.ActionRegister, ip, details)
	})
	if err != nil {
		return nil, fmt.Errorf("creating user: %w", err)
	}

	return &RegisterResult{Code: protocol.RegisterSuccess, UserID: user.ID}, nil
}

// Login verifies the credentials and, on success, updates last_login and
// appends the audit entry in one transaction. It returns false for unknown
// usernames, disabled accounts, and wrong passwords alike; a non-nil error
// means the store failed.
func (s *UserService) Login(ctx context.Context, username, password, ip string) (bool, error) {
	user, err := s.repomanager.Users(s.db).GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("loading user: %w", err)
	}
	if user.Status != models.StatusActive {
		return false, nil
	}
	if !cryptox.VerifyPassword(password, s.salt, user.PasswordHash) {
		return false, nil
	}

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repomanager.Users(tx).UpdateLastLogin(ctx, user.ID); err != nil {
			return err
		}
		return s.repomanager.ActionLogs(tx).Append(ctx, user.ID, models.ActionLogin, ip, "")
	})
	if err != nil {
		return false, fmt.Errorf("recording login: %w", err)
	}

	return true, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
