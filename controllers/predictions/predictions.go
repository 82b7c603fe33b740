package predictions

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"

	"edu2job-backend/controllers/authentication"
	"edu2job-backend/models"
	"edu2job-backend/services"
)

// maxCandidates caps how many ranked candidates one predict call records.
const maxCandidates = 3

// Handler serves the prediction ledger: predict, list, history, delete.
type Handler struct {
	DB       *gorm.DB
	ML       services.Predictor
	Secret   []byte
	validate *validator.Validate

	// Now is the write timestamp source; tests pin it.
	Now func() time.Time
}

func NewHandler(db *gorm.DB, ml services.Predictor, secret []byte) *Handler {
	return &Handler{
		DB:       db,
		ML:       ml,
		Secret:   secret,
		validate: validator.New(),
		Now:      time.Now,
	}
}

// StringList accepts either a JSON array of strings or a single comma-joined
// string, since clients submit skills in both shapes.
type StringList []string

func (s *StringList) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*s = nil
		return nil
	}
	if len(data) > 0 && data[0] == '[' {
		var items []string
		if err := json.Unmarshal(data, &items); err != nil {
			return err
		}
		*s = items
		return nil
	}
	var joined string
	if err := json.Unmarshal(data, &joined); err != nil {
		return err
	}
	if strings.TrimSpace(joined) == "" {
		*s = nil
		return nil
	}
	parts := strings.Split(joined, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	*s = parts
	return nil
}

// Join renders the list as the comma-joined form stored in the ledger.
func (s StringList) Join() string {
	return strings.Join(s, ",")
}

type predictRequest struct {
	Degree         string      `json:"degree" validate:"required"`
	Major          string      `json:"major" validate:"required"`
	Cgpa           json.Number `json:"cgpa" validate:"required"`
	Skills         StringList  `json:"skills"`
	Certifications StringList  `json:"certifications"`
	Industry       string      `json:"industry"`
	Experience     json.Number `json:"experience"`
	Employed       string      `json:"employed"`
}

type predictResponse struct {
	ID             uint            `json:"id"`
	Degree         string          `json:"degree"`
	Major          string          `json:"major"`
	Cgpa           json.Number     `json:"cgpa"`
	Skills         string          `json:"skills"`
	Certifications string          `json:"certifications"`
	Industry       string          `json:"industry,omitempty"`
	Experience     json.Number     `json:"experience"`
	Employed       string          `json:"employed,omitempty"`
	TopJobs        []models.TopJob `json:"top_jobs"`
	Role           string          `json:"role"`
	Date           time.Time       `json:"date"`
}

// predictionView is a ledger row with its candidate inflated for the caller.
type predictionView struct {
	models.Prediction
	TopJobs []models.TopJob `json:"top_jobs"`
}

// Predict forwards the attributes to the prediction service and, on success,
// records one ledger row per ranked candidate. The external call happens
// first; a failed call writes nothing.
func (h *Handler) Predict(w http.ResponseWriter, r *http.Request) {
	claims, err := authentication.ValidateToken(r, h.Secret)
	if err != nil {
		writeAuthError(w, err)
		return
	}

	var req predictRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Missing required fields"})
		return
	}
	if cgpa, err := req.Cgpa.Float64(); err != nil || cgpa < 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid CGPA"})
		return
	}
	if req.Experience == "" {
		req.Experience = "0"
	}

	jobs, err := h.ML.Predict(r.Context(), services.PredictionInput{
		Degree:         req.Degree,
		Major:          req.Major,
		Cgpa:           req.Cgpa,
		Skills:         req.Skills,
		Certifications: req.Certifications,
		Industry:       req.Industry,
		Experience:     req.Experience,
		Employed:       req.Employed,
	})
	if err != nil {
		log.Printf("prediction service call failed: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Prediction failed"})
		return
	}
	if len(jobs) > maxCandidates {
		jobs = jobs[:maxCandidates]
	}

	now := h.Now().UTC()
	rows := buildRows(claims.UserID, &req, jobs, now)

	// Delete-then-insert for the same (user, timestamp) runs as one
	// transaction; the unique index on (user_id, date, rank) backstops
	// concurrent writers.
	if err := h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ? AND date = ?", claims.UserID, now).
			Delete(&models.Prediction{}).Error; err != nil {
			return err
		}
		return tx.Create(&rows).Error
	}); err != nil {
		log.Printf("prediction save failed: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Database error"})
		return
	}

	writeJSON(w, http.StatusOK, predictResponse{
		ID:             rows[0].ID,
		Degree:         req.Degree,
		Major:          req.Major,
		Cgpa:           req.Cgpa,
		Skills:         req.Skills.Join(),
		Certifications: req.Certifications.Join(),
		Industry:       req.Industry,
		Experience:     req.Experience,
		Employed:       req.Employed,
		TopJobs:        jobs,
		Role:           rows[0].Role,
		Date:           now,
	})
}

// buildRows turns the ranked candidates into ledger rows sharing one
// timestamp. Each row keeps only its own candidate in top_jobs. An empty
// candidate list still yields a single "N/A" row so a failed scoring run
// remains visible in the raw ledger; history filters it out.
func buildRows(userID uint, req *predictRequest, jobs []models.TopJob, now time.Time) []models.Prediction {
	base := models.Prediction{
		UserID: userID,
		Cgpa:   req.Cgpa.String(),
		Degree: req.Degree,
		Major:  req.Major,
		Skills: req.Skills.Join(),
		Date:   now,
	}

	if len(jobs) == 0 {
		row := base
		row.Role = "N/A"
		row.Rank = 1
		row.TopJobs = models.EncodeTopJobs(nil)
		return []models.Prediction{row}
	}

	rows := make([]models.Prediction, 0, len(jobs))
	for i, job := range jobs {
		row := base
		row.Role = job.Job
		row.Rank = i + 1
		row.TopJobs = models.EncodeTopJobs([]models.TopJob{job})
		rows = append(rows, row)
	}
	return rows
}

// List returns every ledger row for the user, newest first, with candidates
// inflated.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	claims, err := authentication.ValidateToken(r, h.Secret)
	if err != nil {
		writeAuthError(w, err)
		return
	}

	records, err := h.fetchRecords(claims.UserID)
	if err != nil {
		log.Printf("prediction list failed: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Database error"})
		return
	}

	views := make([]predictionView, 0, len(records))
	for i := range records {
		views = append(views, predictionView{
			Prediction: records[i],
			TopJobs:    records[i].TopJobList(),
		})
	}

	writeJSON(w, http.StatusOK, views)
}

// History rebuilds the deduplicated history and analytics views from the
// full ledger on every read.
func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	claims, err := authentication.ValidateToken(r, h.Secret)
	if err != nil {
		writeAuthError(w, err)
		return
	}

	records, err := h.fetchRecords(claims.UserID)
	if err != nil {
		log.Printf("prediction history failed: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Database error"})
		return
	}

	filtered := FilterValid(records)
	latest := LatestPerFingerprint(filtered)

	views := make([]predictionView, 0, len(latest))
	for i := range latest {
		views = append(views, predictionView{
			Prediction: latest[i],
			TopJobs:    latest[i].TopJobList(),
		})
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"history":           views,
		"role_distribution": RoleDistribution(filtered),
		"skill_frequency":   SkillFrequency(latest),
	})
}

// Delete removes one row by id, scoped to the owning user. A foreign or
// nonexistent id reports the same failure.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	claims, err := authentication.ValidateToken(r, h.Secret)
	if err != nil {
		writeAuthError(w, err)
		return
	}

	id, err := strconv.ParseUint(r.PathValue("id"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid prediction id"})
		return
	}

	result := h.DB.Where("id = ? AND user_id = ?", id, claims.UserID).Delete(&models.Prediction{})
	if result.Error != nil {
		log.Printf("prediction delete failed: %v", result.Error)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Database error"})
		return
	}
	if result.RowsAffected == 0 {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "Prediction not found"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Prediction deleted"})
}

func (h *Handler) fetchRecords(userID uint) ([]models.Prediction, error) {
	var records []models.Prediction
	err := h.DB.Where("user_id = ?", userID).
		Order("date DESC, id DESC").
		Find(&records).Error
	return records, err
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeAuthError(w http.ResponseWriter, err error) {
	if errors.Is(err, authentication.ErrMissingToken) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Not logged in"})
		return
	}
	writeJSON(w, http.StatusForbidden, map[string]string{"message": "Invalid token"})
}
