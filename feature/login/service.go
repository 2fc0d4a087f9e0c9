package login

import (
	"context"
	"errors"

	"pos-backend/core/middleware/auth"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// ErrInvalidCredentials is returned when the email or password is wrong.
// The two cases are deliberately indistinguishable to the caller.
var ErrInvalidCredentials = errors.New("email or password is incorrect")

// Service handles credential verification and token issuance.
type Service struct {
	db      *gorm.DB
	logger  *zap.Logger
	authCfg auth.Config
}

// NewService creates a new login service.
func NewService(db *gorm.DB, logger *zap.Logger, authCfg auth.Config) *Service {
	return &Service{db: db, logger: logger, authCfg: authCfg}
}

// Login verifies the credentials and returns a signed bearer token.
func (s *Service) Login(ctx context.Context, email, password string) (string, error) {
	var user User
	err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", ErrInvalidCredentials
	}
	if err != nil {
		return "", err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return "", ErrInvalidCredentials
	}

	token, err := auth.GenerateToken(user.ID, user.Email, s.authCfg)
	if err != nil {
		return "", err
	}

	s.logger.Info("User logged in", zap.String("email", user.Email))
	return token, nil
}

// HashPassword hashes a plaintext password for storage. Used by account
// provisioning (seed tooling), never by the login path itself.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(hash), err
}
