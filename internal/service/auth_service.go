package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"critichub/internal/apperrors"
	"critichub/internal/mailer"
	"critichub/internal/models"
	"critichub/internal/repository"
	"critichub/internal/token"
)

const (
	confirmationCodeBytes = 20

	confirmationSubject = "critichub - confirmation code"
	confirmationBody    = "Hello. To finish your registration, exchange the confirmation code below for an access token.\nConfirmation code: %s"
)

// Usernames follow the ASCII rule of the account system: letters, digits
// and @ . + - _ only.
var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9@.+\-_]+$`)

type AuthService interface {
	// Signup registers a user (or re-issues a code for an existing
	// username/email pair) and emails the confirmation code.
	Signup(ctx context.Context, username, email string) (*models.User, error)

	// ExchangeToken trades a confirmation code for a signed access token.
	ExchangeToken(ctx context.Context, username, code string) (string, error)
}

type authService struct {
	userRepo    repository.UserRepository
	issuer      token.Issuer
	sender      mailer.Sender
	logger      *slog.Logger
	mailTimeout time.Duration
}

func NewAuthService(
	userRepo repository.UserRepository,
	issuer token.Issuer,
	sender mailer.Sender,
	logger *slog.Logger,
	mailTimeout time.Duration,
) AuthService {
	return &authService{
		userRepo:    userRepo,
		issuer:      issuer,
		sender:      sender,
		logger:      logger,
		mailTimeout: mailTimeout,
	}
}

func (s *authService) Signup(ctx context.Context, username, email string) (*models.User, error) {
	if err := validateUsername(username); err != nil {
		return nil, err
	}

	existing, err := s.userRepo.FindByUsername(ctx, username)
	switch {
	case err == nil:
		// Repeat signup with the same pair re-issues the code so a lost
		// mail is recoverable; a different email is a real collision.
		if existing.Email != email {
			return nil, apperrors.ErrDuplicateUsername
		}
		code, hash, err := newConfirmationCode()
		if err != nil {
			return nil, err
		}
		existing.ConfirmationHash = hash
		if err := s.userRepo.Update(ctx, existing); err != nil {
			return nil, err
		}
		s.dispatchCode(ctx, existing.Email, code)
		return existing, nil
	case !errors.Is(err, apperrors.ErrNotFound):
		return nil, err
	}

	if _, err := s.userRepo.FindByEmail(ctx, email); err == nil {
		return nil, apperrors.ErrDuplicateEmail
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	// The bcrypt hash is the expensive step; rejected signups never reach it.
	code, hash, err := newConfirmationCode()
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username:         username,
		Email:            email,
		Role:             models.RoleUser,
		ConfirmationHash: hash,
	}
	// A concurrent signup for the same username/email loses here and gets
	// the matching duplicate error from the unique constraint.
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.dispatchCode(ctx, user.Email, code)
	return user, nil
}

func (s *authService) ExchangeToken(ctx context.Context, username, code string) (string, error) {
	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		return "", err
	}

	if user.ConfirmationHash == "" {
		return "", apperrors.ErrInvalidConfirmationCode
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.ConfirmationHash), []byte(code)); err != nil {
		return "", apperrors.ErrInvalidConfirmationCode
	}

	accessToken, err := s.issuer.Issue(user)
	if err != nil {
		return "", err
	}

	if !user.Verified {
		user.Verified = true
		if err := s.userRepo.Update(ctx, user); err != nil {
			// The token is already issued; losing the flag only delays the
			// transition to the next exchange.
			s.logger.Warn("failed to record verification", "username", username, "error", err)
		}
	}

	return accessToken, nil
}

// dispatchCode sends the confirmation mail with a bounded timeout.
// Delivery failure is logged, never returned: signup has already
// succeeded by the time we get here.
func (s *authService) dispatchCode(ctx context.Context, email, code string) {
	sendCtx, cancel := context.WithTimeout(ctx, s.mailTimeout)
	defer cancel()

	body := fmt.Sprintf(confirmationBody, code)
	if err := s.sender.Send(sendCtx, email, confirmationSubject, body); err != nil {
		s.logger.Warn("confirmation mail not delivered", "email", email, "error", err)
	}
}

func validateUsername(username string) error {
	if strings.EqualFold(username, "me") {
		return apperrors.ErrUsernameReserved
	}
	if !usernamePattern.MatchString(username) {
		return apperrors.ErrUsernameInvalid
	}
	return nil
}

func newConfirmationCode() (code, hash string, err error) {
	buf := make([]byte, confirmationCodeBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", "", err
	}
	code = hex.EncodeToString(buf)

	hashed, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return "", "", err
	}
	return code, string(hashed), nil
}
