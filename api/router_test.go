package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"contactsapp/auth-api/internal"
	"contactsapp/auth-api/internal/model"
	"contactsapp/auth-api/internal/service"
	"contactsapp/auth-api/internal/store"
	"contactsapp/auth-api/pkg/security"

	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type testAPI struct {
	*API
	Store store.AccountStore
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()

	gin.SetMode(gin.TestMode)
	viper.Set("upload.max_avatar_size", int64(5<<20))
	viper.Set("turnstile.enabled", false)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.User{}))

	accounts := store.NewGormStore(db)

	issuer, err := security.NewTokenIssuer("test-secret", time.Hour)
	require.NoError(t, err)

	a, err := NewRouter(&internal.Deps{
		DB:       db,
		Store:    accounts,
		Sessions: service.NewSessionService(accounts, security.NewArgonHash(), issuer, service.NoopMailer{}),
	})
	require.NoError(t, err)

	return &testAPI{API: a, Store: accounts}
}

func (a *testAPI) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	a.Router.ServeHTTP(rec, req)
	return rec
}

func (a *testAPI) signupAndVerify(t *testing.T, email, password string) {
	t.Helper()

	rec := a.do(t, http.MethodPost, "/api/users/signup", "", gin.H{"email": email, "password": password})
	require.Equal(t, http.StatusCreated, rec.Code)

	user, err := a.Store.FindByEmail(context.Background(), email)
	require.NoError(t, err)

	rec = a.do(t, http.MethodGet, "/api/users/verify/"+user.VerificationToken, "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
}

func (a *testAPI) login(t *testing.T, email, password string) string {
	t.Helper()

	rec := a.do(t, http.MethodPost, "/api/users/login", "", gin.H{"email": email, "password": password})
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.NotEmpty(t, body.Token)

	return body.Token
}

func TestHeartbeat(t *testing.T) {
	a := newTestAPI(t)

	rec := a.do(t, http.MethodHead, "/api/heartbeat", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestSignup(t *testing.T) {
	a := newTestAPI(t)

	rec := a.do(t, http.MethodPost, "/api/users/signup", "", gin.H{"email": "a@x.com", "password": "secret1"})
	require.Equal(t, http.StatusCreated, rec.Code)

	var body struct {
		User struct {
			Email        string `json:"email"`
			Subscription string `json:"subscription"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "a@x.com", body.User.Email)
	assert.Equal(t, "starter", body.User.Subscription)

	// The response must not leak credentials or tokens
	assert.NotContains(t, rec.Body.String(), "password")
	assert.NotContains(t, rec.Body.String(), "token")
}

func TestSignup_DuplicateEmail(t *testing.T) {
	a := newTestAPI(t)

	rec := a.do(t, http.MethodPost, "/api/users/signup", "", gin.H{"email": "a@x.com", "password": "secret1"})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = a.do(t, http.MethodPost, "/api/users/signup", "", gin.H{"email": "a@x.com", "password": "other-pass"})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "Email in use")
}

func TestSignup_Validation(t *testing.T) {
	a := newTestAPI(t)

	cases := []struct {
		name string
		body gin.H
	}{
		{"bad email", gin.H{"email": "not-an-email", "password": "secret1"}},
		{"missing email", gin.H{"password": "secret1"}},
		{"short password", gin.H{"email": "a@x.com", "password": "123"}},
		{"missing password", gin.H{"email": "a@x.com"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := a.do(t, http.MethodPost, "/api/users/signup", "", tc.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestLogin_Validation(t *testing.T) {
	a := newTestAPI(t)

	cases := []struct {
		name string
		body gin.H
	}{
		{"bad email", gin.H{"email": "not-an-email", "password": "secret1"}},
		{"missing email", gin.H{"password": "secret1"}},
		{"short password", gin.H{"email": "a@x.com", "password": "123"}},
		{"missing password", gin.H{"email": "a@x.com"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := a.do(t, http.MethodPost, "/api/users/login", "", tc.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestLogin_RequiresVerification(t *testing.T) {
	a := newTestAPI(t)

	rec := a.do(t, http.MethodPost, "/api/users/signup", "", gin.H{"email": "a@x.com", "password": "secret1"})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = a.do(t, http.MethodPost, "/api/users/login", "", gin.H{"email": "a@x.com", "password": "secret1"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLogin_GenericFailure(t *testing.T) {
	a := newTestAPI(t)
	a.signupAndVerify(t, "a@x.com", "secret1")

	unknown := a.do(t, http.MethodPost, "/api/users/login", "", gin.H{"email": "unknown@x.com", "password": "secret1"})
	wrongPass := a.do(t, http.MethodPost, "/api/users/login", "", gin.H{"email": "a@x.com", "password": "wrong-pass"})

	assert.Equal(t, http.StatusUnauthorized, unknown.Code)
	assert.Equal(t, http.StatusUnauthorized, wrongPass.Code)

	// Same error for both, no way to probe which emails exist
	var unknownBody, wrongPassBody struct {
		Error string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(unknown.Body.Bytes(), &unknownBody))
	require.NoError(t, json.Unmarshal(wrongPass.Body.Bytes(), &wrongPassBody))
	assert.Equal(t, unknownBody.Error, wrongPassBody.Error)
}

func TestVerify_SingleUse(t *testing.T) {
	a := newTestAPI(t)

	rec := a.do(t, http.MethodPost, "/api/users/signup", "", gin.H{"email": "a@x.com", "password": "secret1"})
	require.Equal(t, http.StatusCreated, rec.Code)

	user, err := a.Store.FindByEmail(context.Background(), "a@x.com")
	require.NoError(t, err)
	token := user.VerificationToken

	rec = a.do(t, http.MethodGet, "/api/users/verify/"+token, "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Verification successful")

	rec = a.do(t, http.MethodGet, "/api/users/verify/"+token, "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestVerify_UnknownToken(t *testing.T) {
	a := newTestAPI(t)

	rec := a.do(t, http.MethodGet, "/api/users/verify/nonsense", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestResendVerification(t *testing.T) {
	a := newTestAPI(t)

	rec := a.do(t, http.MethodPost, "/api/users/verify", "", gin.H{"email": "nobody@x.com"})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = a.do(t, http.MethodPost, "/api/users/signup", "", gin.H{"email": "a@x.com", "password": "secret1"})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = a.do(t, http.MethodPost, "/api/users/verify", "", gin.H{"email": "a@x.com"})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Verification email sent")

	user, err := a.Store.FindByEmail(context.Background(), "a@x.com")
	require.NoError(t, err)

	rec = a.do(t, http.MethodGet, "/api/users/verify/"+user.VerificationToken, "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = a.do(t, http.MethodPost, "/api/users/verify", "", gin.H{"email": "a@x.com"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Verification has already been passed")
}

func TestCurrent(t *testing.T) {
	a := newTestAPI(t)
	a.signupAndVerify(t, "a@x.com", "secret1")
	token := a.login(t, "a@x.com", "secret1")

	rec := a.do(t, http.MethodGet, "/api/users/current", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Email        string `json:"email"`
		Subscription string `json:"subscription"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "a@x.com", body.Email)
	assert.Equal(t, "starter", body.Subscription)
}

func TestCurrent_Unauthorized(t *testing.T) {
	a := newTestAPI(t)

	rec := a.do(t, http.MethodGet, "/api/users/current", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = a.do(t, http.MethodGet, "/api/users/current", "garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestValidate(t *testing.T) {
	a := newTestAPI(t)
	a.signupAndVerify(t, "a@x.com", "secret1")
	token := a.login(t, "a@x.com", "secret1")

	rec := a.do(t, http.MethodHead, "/api/validate", token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = a.do(t, http.MethodHead, "/api/validate", "garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLogout_KillsToken(t *testing.T) {
	a := newTestAPI(t)
	a.signupAndVerify(t, "a@x.com", "secret1")
	token := a.login(t, "a@x.com", "secret1")

	rec := a.do(t, http.MethodGet, "/api/users/logout", token, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	// The just-cleared token no longer authenticates anything
	rec = a.do(t, http.MethodGet, "/api/users/current", token, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLogout_VanishedAccount(t *testing.T) {
	a := newTestAPI(t)

	// Simulate an account deleted after the auth middleware resolved it
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/users/logout", nil)
	c.Set("requestID", "test")
	c.Set("userID", "never-existed")

	a.UserLogout(c)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRelogin_InvalidatesOldToken(t *testing.T) {
	a := newTestAPI(t)
	a.signupAndVerify(t, "a@x.com", "secret1")

	tokenA := a.login(t, "a@x.com", "secret1")

	// No delay between logins, a brand-new token must come back anyway
	tokenB := a.login(t, "a@x.com", "secret1")
	require.NotEqual(t, tokenA, tokenB)

	rec := a.do(t, http.MethodGet, "/api/users/current", tokenA, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = a.do(t, http.MethodGet, "/api/users/current", tokenB, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAvatar_StorageNotConfigured(t *testing.T) {
	a := newTestAPI(t)
	a.signupAndVerify(t, "a@x.com", "secret1")
	token := a.login(t, "a@x.com", "secret1")

	rec := a.do(t, http.MethodPatch, "/api/users/avatars", token, nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
