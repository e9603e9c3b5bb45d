package services

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/sbilibin2017/gw-book-catalog/internal/jwt"
	"github.com/sbilibin2017/gw-book-catalog/internal/models"
	"github.com/sbilibin2017/gw-book-catalog/internal/repositories"
)

// Error variables
var (
	ErrUserAlreadyExists  = errors.New("username or email already exists")
	ErrUserDoesNotExist   = errors.New("username does not exist")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUnauthorized       = errors.New("missing, invalid or expired credentials")
	ErrForbidden          = errors.New("operation requires a different role")
)

// UserReader defines read-only operations for users.
type UserReader interface {
	GetByUsernameOrEmail(ctx context.Context, username *string, email *string) (*models.UserDB, error)
	GetByID(ctx context.Context, userID int64) (*models.UserDB, error)
}

// UserWriter defines write operations for users.
type UserWriter interface {
	Save(ctx context.Context, username, email, passwordHash string, genre models.Genre, role models.Role) (*models.UserDB, error)
}

// TokenProvider defines an interface for issuing and verifying session tokens.
type TokenProvider interface {
	Generate(ctx context.Context, userID int64, username string) (string, error)
	GetClaims(ctx context.Context, tokenString string) (*jwt.Claims, error)
}

// AuthService handles registration, login and request identity resolution.
type AuthService struct {
	reader UserReader
	writer UserWriter
	jwt    TokenProvider
	log    *zap.SugaredLogger
}

// NewAuthService creates a new AuthService instance.
func NewAuthService(reader UserReader, writer UserWriter, jwt TokenProvider, log *zap.SugaredLogger) *AuthService {
	return &AuthService{
		reader: reader,
		writer: writer,
		jwt:    jwt,
		log:    log,
	}
}

// Register registers a new user with the user role. The secret is
// bcrypt-hashed before it reaches storage and is never logged.
func (svc *AuthService) Register(ctx context.Context, username, password, email string, genre models.Genre) (*models.UserDB, error) {
	existing, err := svc.reader.GetByUsernameOrEmail(ctx, &username, &email)
	if err != nil {
		svc.log.Errorw("failed to check user exists", "err", err)
		return nil, err
	}
	if existing != nil {
		svc.log.Infow("user already exists", "username", username, "email", email)
		return nil, ErrUserAlreadyExists
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		svc.log.Errorw("failed to hash password", "err", err)
		return nil, err
	}

	user, err := svc.writer.Save(ctx, username, email, string(hashedPassword), genre, models.RoleUser)
	if err != nil {
		// The unique constraint backstops a race between the check
		// above and the insert.
		if errors.Is(err, repositories.ErrAlreadyExists) {
			return nil, ErrUserAlreadyExists
		}
		svc.log.Errorw("failed to save user", "err", err)
		return nil, err
	}

	return user, nil
}

// Login authenticates a user and returns a signed session token.
func (svc *AuthService) Login(ctx context.Context, username, password string) (string, error) {
	user, err := svc.reader.GetByUsernameOrEmail(ctx, &username, nil)
	if err != nil {
		svc.log.Errorw("failed to get user", "err", err)
		return "", err
	}
	if user == nil {
		svc.log.Infow("user does not exist", "username", username)
		return "", ErrUserDoesNotExist
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		svc.log.Infow("invalid credentials", "username", username)
		return "", ErrInvalidCredentials
	}

	token, err := svc.jwt.Generate(ctx, user.UserID, user.Username)
	if err != nil {
		svc.log.Errorw("failed to generate token", "err", err)
		return "", err
	}

	return token, nil
}

// ResolveUser verifies a token and loads the user it claims. The user
// lookup is live: a token whose subject was deleted after issuance
// resolves to ErrUnauthorized, not to the stale token payload.
func (svc *AuthService) ResolveUser(ctx context.Context, tokenString string) (*models.UserDB, error) {
	claims, err := svc.jwt.GetClaims(ctx, tokenString)
	if err != nil {
		return nil, ErrUnauthorized
	}

	user, err := svc.reader.GetByID(ctx, claims.UserID)
	if err != nil {
		svc.log.Errorw("failed to load token subject", "err", err)
		return nil, err
	}
	if user == nil {
		svc.log.Infow("token subject no longer exists", "user_id", claims.UserID)
		return nil, ErrUnauthorized
	}

	return user, nil
}

// RequireRole fails with ErrForbidden when the user's role does not
// match. Callers must resolve identity first so that an invalid token
// yields ErrUnauthorized, never ErrForbidden.
func (svc *AuthService) RequireRole(user *models.UserDB, role models.Role) error {
	if user == nil {
		return ErrUnauthorized
	}
	if user.Role != role {
		return ErrForbidden
	}
	return nil
}
