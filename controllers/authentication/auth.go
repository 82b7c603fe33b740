package authentication

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"edu2job-backend/models"
)

// AuthHandler serves registration, login and password reset.
type AuthHandler struct {
	DB       *gorm.DB
	Secret   []byte
	validate *validator.Validate
}

func NewAuthHandler(db *gorm.DB, secret []byte) *AuthHandler {
	return &AuthHandler{DB: db, Secret: secret, validate: validator.New()}
}

type credentialsRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type resetPasswordRequest struct {
	Username    string `json:"username" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required"`
}

// Register creates a user with a bcrypt digest of the secret. Duplicate
// usernames are rejected.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Missing fields"})
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Missing fields"})
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"message": "Internal server error"})
		return
	}

	user := models.User{Username: req.Username, Password: string(hashed)}
	if err := h.DB.Create(&user).Error; err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "User already exists"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Registered successfully"})
}

// Login verifies the credentials and returns a bearer token.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Missing fields"})
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Missing fields"})
		return
	}

	var user models.User
	if err := h.DB.Where("username = ?", req.Username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"message": "User not found"})
			return
		}
		log.Printf("login lookup failed: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"message": "Database error"})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Invalid password"})
		return
	}

	tokenString, err := GenerateToken(user.ID, user.Username, h.Secret)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"message": "Error generating token"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"message": "Login successful",
		"token":   tokenString,
	})
}

// ResetPassword replaces the stored digest. No knowledge of the old secret
// is required; previously issued tokens stay valid until they expire.
func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req resetPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Missing fields"})
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Missing fields"})
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"message": "Internal server error"})
		return
	}

	result := h.DB.Model(&models.User{}).Where("username = ?", req.Username).Update("password", string(hashed))
	if result.Error != nil {
		log.Printf("password reset failed: %v", result.Error)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"message": "Internal server error"})
		return
	}
	if result.RowsAffected == 0 {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "User not found"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Password reset successfully"})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeAuthError maps the token sentinels to the caller-visible statuses:
// a missing token is 401, an invalid or expired one is 403.
func writeAuthError(w http.ResponseWriter, err error) {
	if errors.Is(err, ErrMissingToken) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Not logged in"})
		return
	}
	writeJSON(w, http.StatusForbidden, map[string]string{"message": "Invalid token"})
}
