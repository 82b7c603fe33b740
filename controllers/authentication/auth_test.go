package authentication

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"edu2job-backend/models"
)

var testSecret = []byte("test-secret")

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	// one connection, so every statement sees the same in-memory database
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Profile{}, &models.Prediction{}))
	return db
}

func postJSON(t *testing.T, handler http.HandlerFunc, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	r := httptest.NewRequest("POST", path, bytes.NewReader(data))
	r.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	handler(w, r)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestRegisterThenLogin(t *testing.T) {
	t.Parallel()

	h := NewAuthHandler(newTestDB(t), testSecret)

	w := postJSON(t, h.Register, "/register", map[string]string{
		"username": "alice",
		"password": "pw1",
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Registered successfully", decodeBody(t, w)["message"])

	w = postJSON(t, h.Login, "/login", map[string]string{
		"username": "alice",
		"password": "pw1",
	})
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	require.NotEmpty(t, body["token"])

	claims, err := ParseToken(body["token"], testSecret)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Username)
	assert.NotZero(t, claims.UserID)
}

func TestRegister_DuplicateUsername(t *testing.T) {
	t.Parallel()

	h := NewAuthHandler(newTestDB(t), testSecret)

	creds := map[string]string{"username": "alice", "password": "pw1"}
	w := postJSON(t, h.Register, "/register", creds)
	require.Equal(t, http.StatusOK, w.Code)

	w = postJSON(t, h.Register, "/register", creds)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "User already exists", decodeBody(t, w)["message"])
}

func TestRegister_MissingFields(t *testing.T) {
	t.Parallel()

	h := NewAuthHandler(newTestDB(t), testSecret)

	w := postJSON(t, h.Register, "/register", map[string]string{"username": "alice"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRegister_NeverStoresRawSecret(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	h := NewAuthHandler(db, testSecret)

	w := postJSON(t, h.Register, "/register", map[string]string{
		"username": "alice",
		"password": "pw1",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var user models.User
	require.NoError(t, db.Where("username = ?", "alice").First(&user).Error)
	assert.NotEqual(t, "pw1", user.Password)
	assert.NotEmpty(t, user.Password)
}

func TestLogin_UnknownUser(t *testing.T) {
	t.Parallel()

	h := NewAuthHandler(newTestDB(t), testSecret)

	w := postJSON(t, h.Login, "/login", map[string]string{
		"username": "ghost",
		"password": "pw1",
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "User not found", decodeBody(t, w)["message"])
}

func TestLogin_WrongPassword(t *testing.T) {
	t.Parallel()

	h := NewAuthHandler(newTestDB(t), testSecret)

	w := postJSON(t, h.Register, "/register", map[string]string{
		"username": "alice",
		"password": "pw1",
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = postJSON(t, h.Login, "/login", map[string]string{
		"username": "alice",
		"password": "wrong",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid password", decodeBody(t, w)["message"])
}

func TestResetPassword(t *testing.T) {
	t.Parallel()

	h := NewAuthHandler(newTestDB(t), testSecret)

	w := postJSON(t, h.Register, "/register", map[string]string{
		"username": "alice",
		"password": "old-pw",
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = postJSON(t, h.ResetPassword, "/reset-password", map[string]string{
		"username":    "alice",
		"newPassword": "new-pw",
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Password reset successfully", decodeBody(t, w)["message"])

	// old secret rejected, new one accepted
	w = postJSON(t, h.Login, "/login", map[string]string{
		"username": "alice",
		"password": "old-pw",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = postJSON(t, h.Login, "/login", map[string]string{
		"username": "alice",
		"password": "new-pw",
	})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestResetPassword_UnknownUser(t *testing.T) {
	t.Parallel()

	h := NewAuthHandler(newTestDB(t), testSecret)

	w := postJSON(t, h.ResetPassword, "/reset-password", map[string]string{
		"username":    "ghost",
		"newPassword": "pw",
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
}
