package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/sbilibin2017/gw-book-catalog/internal/jwt"
	"github.com/sbilibin2017/gw-book-catalog/internal/models"
	"github.com/sbilibin2017/gw-book-catalog/internal/repositories"
	"github.com/sbilibin2017/gw-book-catalog/internal/services"
)

func TestAuthService_Register(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockReader := services.NewMockUserReader(ctrl)
	mockWriter := services.NewMockUserWriter(ctrl)
	mockJWT := services.NewMockTokenProvider(ctrl)

	svc := services.NewAuthService(mockReader, mockWriter, mockJWT, zap.NewNop().Sugar())

	tests := []struct {
		name         string
		username     string
		email        string
		existingUser *models.UserDB
		readerErr    error
		writerErr    error
		wantErr      error
	}{
		{
			name:     "successful registration",
			username: "alice",
			email:    "alice@example.com",
		},
		{
			name:         "user already exists",
			username:     "bob",
			email:        "bob@example.com",
			existingUser: &models.UserDB{UserID: 2},
			wantErr:      services.ErrUserAlreadyExists,
		},
		{
			name:      "reader error",
			username:  "eve",
			email:     "eve@example.com",
			readerErr: errors.New("db error"),
			wantErr:   errors.New("db error"),
		},
		{
			name:      "writer error",
			username:  "carol",
			email:     "carol@example.com",
			writerErr: errors.New("save error"),
			wantErr:   errors.New("save error"),
		},
		{
			name:     "constraint catches concurrent duplicate",
			username: "dave",
			email:    "dave@example.com",
			// The pre-check saw nothing, but the insert lost the race.
			writerErr: repositories.ErrAlreadyExists,
			wantErr:   services.ErrUserAlreadyExists,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockReader.EXPECT().
				GetByUsernameOrEmail(gomock.Any(), &tt.username, &tt.email).
				Return(tt.existingUser, tt.readerErr)

			if tt.existingUser == nil && tt.readerErr == nil {
				mockWriter.EXPECT().
					Save(gomock.Any(), tt.username, tt.email, gomock.Any(), models.GenreHistory, models.RoleUser).
					DoAndReturn(func(_ context.Context, username, email, hash string, genre models.Genre, role models.Role) (*models.UserDB, error) {
						if tt.writerErr != nil {
							return nil, tt.writerErr
						}
						assert.NotEqual(t, "pass123", hash, "secret must be hashed before storage")
						return &models.UserDB{UserID: 1, Username: username, Email: email, Genre: genre, Role: role}, nil
					})
			}

			user, err := svc.Register(context.Background(), tt.username, "pass123", tt.email, models.GenreHistory)
			if tt.wantErr != nil {
				assert.EqualError(t, err, tt.wantErr.Error())
				assert.Nil(t, user)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.username, user.Username)
				assert.Equal(t, models.RoleUser, user.Role)
			}
		})
	}
}

func TestAuthService_Login(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockReader := services.NewMockUserReader(ctrl)
	mockWriter := services.NewMockUserWriter(ctrl)
	mockJWT := services.NewMockTokenProvider(ctrl)

	svc := services.NewAuthService(mockReader, mockWriter, mockJWT, zap.NewNop().Sugar())

	password := "secret"
	hashed, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)

	tests := []struct {
		name      string
		username  string
		loginPass string
		user      *models.UserDB
		readerErr error
		jwtToken  string
		jwtErr    error
		wantErr   error
		wantToken string
	}{
		{
			name:      "successful login",
			username:  "alice",
			loginPass: password,
			user:      &models.UserDB{UserID: 1, Username: "alice", PasswordHash: string(hashed)},
			jwtToken:  "token123",
			wantToken: "token123",
		},
		{
			name:      "user does not exist",
			username:  "ghost",
			loginPass: password,
			wantErr:   services.ErrUserDoesNotExist,
		},
		{
			name:      "wrong password",
			username:  "alice",
			loginPass: "wrong",
			user:      &models.UserDB{UserID: 1, Username: "alice", PasswordHash: string(hashed)},
			wantErr:   services.ErrInvalidCredentials,
		},
		{
			name:      "reader error",
			username:  "alice",
			loginPass: password,
			readerErr: errors.New("db error"),
			wantErr:   errors.New("db error"),
		},
		{
			name:      "token generation error",
			username:  "alice",
			loginPass: password,
			user:      &models.UserDB{UserID: 1, Username: "alice", PasswordHash: string(hashed)},
			jwtErr:    errors.New("sign error"),
			wantErr:   errors.New("sign error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockReader.EXPECT().
				GetByUsernameOrEmail(gomock.Any(), &tt.username, nil).
				Return(tt.user, tt.readerErr)

			if tt.user != nil && tt.loginPass == password {
				mockJWT.EXPECT().
					Generate(gomock.Any(), tt.user.UserID, tt.user.Username).
					Return(tt.jwtToken, tt.jwtErr)
			}

			token, err := svc.Login(context.Background(), tt.username, tt.loginPass)
			if tt.wantErr != nil {
				assert.EqualError(t, err, tt.wantErr.Error())
				assert.Empty(t, token)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.wantToken, token)
			}
		})
	}
}

func TestAuthService_ResolveUser(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockReader := services.NewMockUserReader(ctrl)
	mockWriter := services.NewMockUserWriter(ctrl)
	mockJWT := services.NewMockTokenProvider(ctrl)

	svc := services.NewAuthService(mockReader, mockWriter, mockJWT, zap.NewNop().Sugar())
	ctx := context.Background()

	t.Run("valid token with live user", func(t *testing.T) {
		claims := &jwt.Claims{UserID: 7}
		user := &models.UserDB{UserID: 7, Username: "alice"}

		mockJWT.EXPECT().GetClaims(gomock.Any(), "good-token").Return(claims, nil)
		mockReader.EXPECT().GetByID(gomock.Any(), int64(7)).Return(user, nil)

		got, err := svc.ResolveUser(ctx, "good-token")
		assert.NoError(t, err)
		assert.Equal(t, user, got)
	})

	t.Run("invalid token", func(t *testing.T) {
		mockJWT.EXPECT().GetClaims(gomock.Any(), "bad-token").Return(nil, jwt.ErrInvalidToken)

		got, err := svc.ResolveUser(ctx, "bad-token")
		assert.ErrorIs(t, err, services.ErrUnauthorized)
		assert.Nil(t, got)
	})

	t.Run("token subject deleted after issuance", func(t *testing.T) {
		claims := &jwt.Claims{UserID: 9}

		mockJWT.EXPECT().GetClaims(gomock.Any(), "stale-token").Return(claims, nil)
		mockReader.EXPECT().GetByID(gomock.Any(), int64(9)).Return(nil, nil)

		got, err := svc.ResolveUser(ctx, "stale-token")
		assert.ErrorIs(t, err, services.ErrUnauthorized)
		assert.Nil(t, got)
	})

	t.Run("lookup error propagates", func(t *testing.T) {
		claims := &jwt.Claims{UserID: 9}

		mockJWT.EXPECT().GetClaims(gomock.Any(), "token").Return(claims, nil)
		mockReader.EXPECT().GetByID(gomock.Any(), int64(9)).Return(nil, errors.New("db error"))

		got, err := svc.ResolveUser(ctx, "token")
		assert.EqualError(t, err, "db error")
		assert.Nil(t, got)
	})
}

func TestAuthService_RequireRole(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc := services.NewAuthService(
		services.NewMockUserReader(ctrl),
		services.NewMockUserWriter(ctrl),
		services.NewMockTokenProvider(ctrl),
		zap.NewNop().Sugar(),
	)

	admin := &models.UserDB{UserID: 1, Role: models.RoleAdmin}
	regular := &models.UserDB{UserID: 2, Role: models.RoleUser}

	assert.NoError(t, svc.RequireRole(admin, models.RoleAdmin))
	assert.ErrorIs(t, svc.RequireRole(regular, models.RoleAdmin), services.ErrForbidden)
	// An unresolved identity must never read as a role mismatch.
	assert.ErrorIs(t, svc.RequireRole(nil, models.RoleAdmin), services.ErrUnauthorized)
}

func TestAuthService_CheckOrdering(t *testing.T) {
	// An invalid token on an admin-gated operation must surface as
	// Unauthorized, not Forbidden: identity resolution happens first.
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockReader := services.NewMockUserReader(ctrl)
	mockJWT := services.NewMockTokenProvider(ctrl)

	svc := services.NewAuthService(mockReader, services.NewMockUserWriter(ctrl), mockJWT, zap.NewNop().Sugar())

	mockJWT.EXPECT().GetClaims(gomock.Any(), "bad-token").Return(nil, jwt.ErrInvalidToken)

	user, err := svc.ResolveUser(context.Background(), "bad-token")
	assert.ErrorIs(t, err, services.ErrUnauthorized)
	assert.NotErrorIs(t, err, services.ErrForbidden)
	assert.Nil(t, user)
}
