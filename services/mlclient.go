package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"edu2job-backend/models"
)

// PredictionInput is the attribute payload forwarded to the prediction
// service. Skills and certifications are sent as plain lists.
type PredictionInput struct {
	Degree         string      `json:"degree"`
	Major          string      `json:"major"`
	Cgpa           json.Number `json:"cgpa"`
	Skills         []string    `json:"skills"`
	Certifications []string    `json:"certifications"`
	Industry       string      `json:"industry,omitempty"`
	Experience     json.Number `json:"experience"`
	Employed       string      `json:"employed,omitempty"`
}

// Predictor is the external scoring capability. Handlers depend on this
// interface so tests can substitute a stub.
type Predictor interface {
	Predict(ctx context.Context, input PredictionInput) ([]models.TopJob, error)
}

// MLClient calls the prediction service over HTTP with a bounded timeout.
type MLClient struct {
	BaseURL string
	client  *http.Client
}

func NewMLClient(baseURL string, timeout time.Duration) *MLClient {
	return &MLClient{
		BaseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

type predictionResponse struct {
	TopJobs []models.TopJob `json:"top_jobs"`
}

// Predict posts the attributes and returns the ranked candidates. Any
// transport or non-200 outcome surfaces as an error; there are no retries.
func (c *MLClient) Predict(ctx context.Context, input PredictionInput) ([]models.TopJob, error) {
	jsonData, err := json.Marshal(input)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/predict", bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("prediction service returned status %d: %s", resp.StatusCode, string(body))
	}

	var predResp predictionResponse
	if err := json.Unmarshal(body, &predResp); err != nil {
		return nil, fmt.Errorf("failed to decode prediction response: %w", err)
	}

	return predResp.TopJobs, nil
}
