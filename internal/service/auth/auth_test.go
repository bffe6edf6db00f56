package auth_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"golang.org/x/crypto/bcrypt"

	domainuser "github.com/alanyang/leadroute/internal/domain/user"
	"github.com/alanyang/leadroute/internal/mocks"
	portuser "github.com/alanyang/leadroute/internal/port/user"
	authsvc "github.com/alanyang/leadroute/internal/service/auth"
)

var testSecret = []byte("test-secret")

func newAuthSvc(t *testing.T) (*authsvc.Service, *mocks.MockUserRepository) {
	t.Helper()
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockUserRepository(ctrl)
	return authsvc.NewService(repo, testSecret), repo
}

func hashOf(t *testing.T, password string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(h)
}

// ── Register ──────────────────────────────────────────────────────────────────

func TestRegister(t *testing.T) {
	tests := []struct {
		name     string
		password string
		setup    func(repo *mocks.MockUserRepository)
		wantErr  error
	}{
		{
			name:     "success stores bcrypt hash",
			password: "hunter22",
			setup: func(repo *mocks.MockUserRepository) {
				repo.EXPECT().GetByEmail(gomock.Any(), "o@example.com").
					Return(domainuser.User{}, portuser.ErrNotFound)
				repo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
					func(_ context.Context, u domainuser.User) (domainuser.User, error) {
						assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("hunter22")))
						return u, nil
					},
				)
			},
		},
		{
			name:     "short password rejected",
			password: "abc",
			setup:    func(*mocks.MockUserRepository) {},
			wantErr:  authsvc.ErrWeakPassword,
		},
		{
			name:     "duplicate email rejected",
			password: "hunter22",
			setup: func(repo *mocks.MockUserRepository) {
				repo.EXPECT().GetByEmail(gomock.Any(), "o@example.com").
					Return(domainuser.User{ID: uuid.New()}, nil)
			},
			wantErr: authsvc.ErrEmailTaken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo := newAuthSvc(t)
			tt.setup(repo)

			got, err := svc.Register(context.Background(), "Owner", "o@example.com", tt.password)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "o@example.com", got.Email)
		})
	}
}

// ── Login / VerifyToken ───────────────────────────────────────────────────────

func TestLogin_RoundTripsThroughVerifyToken(t *testing.T) {
	svc, repo := newAuthSvc(t)
	u := domainuser.User{ID: uuid.New(), Email: "o@example.com", PasswordHash: hashOf(t, "hunter22")}

	repo.EXPECT().GetByEmail(gomock.Any(), "o@example.com").Return(u, nil)

	token, got, err := svc.Login(context.Background(), "o@example.com", "hunter22")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
	require.NotEmpty(t, token)

	ownerID, err := svc.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, ownerID)
}

func TestLogin_WrongPassword(t *testing.T) {
	svc, repo := newAuthSvc(t)
	u := domainuser.User{ID: uuid.New(), PasswordHash: hashOf(t, "hunter22")}

	repo.EXPECT().GetByEmail(gomock.Any(), "o@example.com").Return(u, nil)

	_, _, err := svc.Login(context.Background(), "o@example.com", "wrong")
	require.Error(t, err)
	assert.True(t, errors.Is(err, authsvc.ErrInvalidCredentials))
}

func TestLogin_UnknownEmail(t *testing.T) {
	// Unknown email and wrong password return the same error, so login
	// failures do not reveal which accounts exist.
	svc, repo := newAuthSvc(t)

	repo.EXPECT().GetByEmail(gomock.Any(), "ghost@example.com").
		Return(domainuser.User{}, portuser.ErrNotFound)

	_, _, err := svc.Login(context.Background(), "ghost@example.com", "whatever")
	require.Error(t, err)
	assert.True(t, errors.Is(err, authsvc.ErrInvalidCredentials))
}

func TestVerifyToken_Garbage(t *testing.T) {
	svc, _ := newAuthSvc(t)

	for _, token := range []string{"", "not-a-jwt", "a.b.c"} {
		_, err := svc.VerifyToken(token)
		require.Error(t, err, "token %q", token)
		assert.True(t, errors.Is(err, authsvc.ErrInvalidToken))
	}
}

func TestVerifyToken_WrongSecret(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockUserRepository(ctrl)
	issuer := authsvc.NewService(repo, []byte("issuer-secret"))
	verifier := authsvc.NewService(repo, []byte("other-secret"))

	u := domainuser.User{ID: uuid.New(), PasswordHash: hashOf(t, "hunter22")}
	repo.EXPECT().GetByEmail(gomock.Any(), gomock.Any()).Return(u, nil)

	token, _, err := issuer.Login(context.Background(), "o@example.com", "hunter22")
	require.NoError(t, err)

	_, err = verifier.VerifyToken(token)
	require.Error(t, err)
	assert.True(t, errors.Is(err, authsvc.ErrInvalidToken))
}
