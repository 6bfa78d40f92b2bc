package controllers_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/katara/mono-repo/backend/services/account-service/internal/config"
	"github.com/katara/mono-repo/backend/services/account-service/internal/controllers"
	"github.com/katara/mono-repo/backend/services/account-service/internal/dtos"
	"github.com/katara/mono-repo/backend/services/account-service/internal/routes"
	"github.com/katara/mono-repo/backend/services/account-service/internal/services"
	shared_dtos "github.com/katara/mono-repo/backend/shared/go-dtos"
	"github.com/katara/mono-repo/backend/shared/go-middleware"
	"github.com/katara/mono-repo/backend/shared/go-models"
	"github.com/katara/mono-repo/backend/shared/go-testhelpers"
	"github.com/katara/mono-repo/backend/shared/go-utils"
)

type stubPinger struct{ err error }

func (p stubPinger) Ping(context.Context) error { return p.err }

type server struct {
	cfg      *config.Config
	router   *mux.Router
	users    *testhelpers.MemoryUserRepo
	tokens   *testhelpers.MemoryTokenRepo
	contacts *testhelpers.MemoryContactRepo
}

func newServer(t *testing.T, ping error) *server {
	t.Helper()
	cfg := &config.Config{
		AppUrl:           "http://localhost:6767",
		JWTSecret:        testhelpers.TestJWTSecret,
		JWTIssuer:        middleware.DefaultTokenIssuer,
		PasswordPepper:   "pepper",
		BcryptCost:       bcrypt.MinCost,
		EmailSendTimeout: time.Second,
		ContactEmail:     "hola@katara.test",
		WhatsAppLink:     "https://wa.me/000",
	}
	s := &server{
		cfg:      cfg,
		users:    testhelpers.NewMemoryUserRepo(),
		tokens:   testhelpers.NewMemoryTokenRepo(),
		contacts: &testhelpers.MemoryContactRepo{},
	}
	accountSvc := services.NewAccountService(cfg, s.users, s.tokens)
	contactSvc := services.NewContactService(cfg, s.contacts, &testhelpers.CapturingMailer{})

	s.router = routes.NewRouter(cfg, routes.Controllers{
		Account: controllers.NewAccountController(accountSvc, cfg.AppUrl),
		Contact: controllers.NewContactController(contactSvc, cfg.WhatsAppLink),
		Legal:   controllers.NewLegalController(),
		Health:  controllers.NewHealthController(stubPinger{err: ping}),
	})
	return s
}

func (s *server) addUser(t *testing.T, username string) (*models.User, string) {
	t.Helper()
	hash, err := utils.NewPasswordHasher(s.cfg.PasswordPepper, s.cfg.BcryptCost).Hash("password123")
	require.NoError(t, err)
	avatar := "/var/data/avatars/" + username + ".png"
	u := &models.User{
		Email:        username + "@example.com",
		Username:     username,
		PasswordHash: hash,
		Bio:          "hola",
		AvatarPath:   &avatar,
	}
	require.NoError(t, s.users.Create(context.Background(), u))
	return u, testhelpers.CreateAccessToken(t, s.cfg.JWTSecret, s.cfg.JWTIssuer, u.ID)
}

func TestMe(t *testing.T) {
	s := newServer(t, nil)
	alice, token := s.addUser(t, "alice")
	s.addUser(t, "bob")

	t.Run("RequiresAuth", func(t *testing.T) {
		rec := testhelpers.Serve(s.router, testhelpers.BuildRequest(t, http.MethodGet, routes.Me, "", nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("Get", func(t *testing.T) {
		rec := testhelpers.Serve(s.router, testhelpers.BuildRequest(t, http.MethodGet, routes.Me, token, nil))
		require.Equal(t, http.StatusOK, rec.Code)
		me := testhelpers.DecodeJSON[dtos.MeResponse](t, rec)
		assert.Equal(t, alice.ID, me.ID)
		assert.Equal(t, "alice@example.com", me.Email)
		require.NotNil(t, me.AvatarURL)
		assert.Equal(t, "http://localhost:6767/uploads/avatars/alice.png", *me.AvatarURL)
		assert.False(t, me.IsVerified)
	})

	t.Run("PatchConflict", func(t *testing.T) {
		rec := testhelpers.Serve(s.router, testhelpers.BuildRequest(t, http.MethodPatch, routes.Me, token,
			map[string]any{"username": "Bob"}))
		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, utils.ErrCodeConflict, testhelpers.DecodeJSON[utils.ErrorResponse](t, rec).Code)
	})

	t.Run("PatchValidation", func(t *testing.T) {
		rec := testhelpers.Serve(s.router, testhelpers.BuildRequest(t, http.MethodPatch, routes.Me, token,
			map[string]any{"username": "ab"}))
		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, utils.ErrCodeValidation, testhelpers.DecodeJSON[utils.ErrorResponse](t, rec).Code)
	})

	t.Run("Patch", func(t *testing.T) {
		rec := testhelpers.Serve(s.router, testhelpers.BuildRequest(t, http.MethodPatch, routes.Me, token,
			map[string]any{"username": "alicia", "bio": "nueva bio"}))
		require.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, testhelpers.DecodeJSON[shared_dtos.OKResponse](t, rec).OK)

		rec = testhelpers.Serve(s.router, testhelpers.BuildRequest(t, http.MethodGet, routes.Me, token, nil))
		me := testhelpers.DecodeJSON[dtos.MeResponse](t, rec)
		assert.Equal(t, "alicia", me.Username)
		assert.Equal(t, "nueva bio", me.Bio)
	})

	t.Run("DeletedUser", func(t *testing.T) {
		ghost := testhelpers.CreateAccessToken(t, s.cfg.JWTSecret, s.cfg.JWTIssuer, uuid.New())
		rec := testhelpers.Serve(s.router, testhelpers.BuildRequest(t, http.MethodGet, routes.Me, ghost, nil))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestChangePassword(t *testing.T) {
	s := newServer(t, nil)
	alice, token := s.addUser(t, "alice")
	require.NoError(t, s.tokens.Store(context.Background(), "refresh", alice.ID, time.Now().Add(time.Hour)))

	rec := testhelpers.Serve(s.router, testhelpers.BuildRequest(t, http.MethodPost, routes.MeChangePassword, token,
		dtos.ChangePasswordRequest{CurrentPassword: "wrong", NewPassword: "newpassword1"}))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, utils.ErrCodeInvalidCredentials, testhelpers.DecodeJSON[utils.ErrorResponse](t, rec).Code)

	rec = testhelpers.Serve(s.router, testhelpers.BuildRequest(t, http.MethodPost, routes.MeChangePassword, token,
		dtos.ChangePasswordRequest{CurrentPassword: "password123", NewPassword: "short"}))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = testhelpers.Serve(s.router, testhelpers.BuildRequest(t, http.MethodPost, routes.MeChangePassword, token,
		dtos.ChangePasswordRequest{CurrentPassword: "password123", NewPassword: "newpassword1"}))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Zero(t, s.tokens.Len())
}

func TestContactAndLegal(t *testing.T) {
	s := newServer(t, nil)

	rec := testhelpers.Serve(s.router, testhelpers.BuildRequest(t, http.MethodPost, routes.Contact, "",
		map[string]any{"message": "hola equipo"}))
	require.Equal(t, http.StatusOK, rec.Code)
	resp := testhelpers.DecodeJSON[dtos.ContactResponse](t, rec)
	assert.True(t, resp.OK)
	assert.Equal(t, "https://wa.me/000", resp.WhatsApp)
	assert.Len(t, s.contacts.Messages, 1)

	rec = testhelpers.Serve(s.router, testhelpers.BuildRequest(t, http.MethodPost, routes.Contact, "",
		map[string]any{"email": "not-an-email", "message": "hola"}))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = testhelpers.Serve(s.router, testhelpers.BuildRequest(t, http.MethodPost, routes.Contact, "", map[string]any{}))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	for path, title := range map[string]string{
		routes.LegalTerms:   "Términos y Condiciones",
		routes.LegalPrivacy: "Política de Privacidad",
	} {
		rec := testhelpers.Serve(s.router, testhelpers.BuildRequest(t, http.MethodGet, path, "", nil))
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, title, testhelpers.DecodeJSON[dtos.LegalDocument](t, rec).Title)
	}
}

func TestHealth(t *testing.T) {
	rec := testhelpers.Serve(newServer(t, nil).router, testhelpers.BuildRequest(t, http.MethodGet, routes.Health, "", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = testhelpers.Serve(newServer(t, errors.New("down")).router, testhelpers.BuildRequest(t, http.MethodGet, routes.Health, "", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
