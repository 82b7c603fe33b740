package authentication

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"edu2job-backend/models"
)

// ProfileHandler serves the single per-user profile row.
type ProfileHandler struct {
	DB     *gorm.DB
	Secret []byte
}

func NewProfileHandler(db *gorm.DB, secret []byte) *ProfileHandler {
	return &ProfileHandler{DB: db, Secret: secret}
}

// GetProfile returns the stored profile, or one with every field empty when
// no row exists yet. An empty profile is not an error.
func (h *ProfileHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	claims, err := ValidateToken(r, h.Secret)
	if err != nil {
		writeAuthError(w, err)
		return
	}

	var profile models.Profile
	if err := h.DB.Where("user_id = ?", claims.UserID).First(&profile).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("profile fetch failed: %v", err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Database error"})
			return
		}
		profile = models.Profile{}
	}

	writeJSON(w, http.StatusOK, profile)
}

// SaveProfile upserts the profile: insert on first save, full replace of
// every column after that. There is no partial-update path.
func (h *ProfileHandler) SaveProfile(w http.ResponseWriter, r *http.Request) {
	claims, err := ValidateToken(r, h.Secret)
	if err != nil {
		writeAuthError(w, err)
		return
	}

	var profile models.Profile
	if err := json.NewDecoder(r.Body).Decode(&profile); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
		return
	}
	profile.ID = 0
	profile.UserID = claims.UserID

	if err := h.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		UpdateAll: true,
	}).Create(&profile).Error; err != nil {
		log.Printf("profile save failed: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Database error"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Profile saved successfully"})
}
