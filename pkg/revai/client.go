package revai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"
)

const (
	defaultBaseURL = "https://api.rev.ai/speechtotext/v1"

	// MaxMediaBytes is the provider's upload ceiling, 2 GB.
	MaxMediaBytes = int64(2) << 30

	uploadTimeout = 60 * time.Minute
)

// Client talks to the transcription provider: submit media, poll for
// the finished transcript.
type Client struct {
	httpClient *http.Client
	apiKey     string
	baseURL    string
}

func NewClient(apiKey string, baseURL string) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		httpClient: &http.Client{Timeout: uploadTimeout},
		apiKey:     apiKey,
		baseURL:    baseURL,
	}
}

type submitJobResponse struct {
	ID string `json:"id"`
}

// SubmitJob uploads the media and returns the provider's job id. The
// transcript is fetched later, transcription runs for longer than any
// one sync run.
func (c *Client) SubmitJob(ctx context.Context, media []byte) (string, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("media", "media.mp4")
	if err != nil {
		return "", err
	}
	if _, err := part.Write(media); err != nil {
		return "", err
	}
	if err := writer.Close(); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/jobs", &body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("submitting transcription job: status %d: %s", resp.StatusCode, string(respBody))
	}

	var job submitJobResponse
	if err := json.NewDecoder(resp.Body).Decode(&job); err != nil {
		return "", err
	}

	return job.ID, nil
}

// TranscriptText fetches the plain-text transcript for a job. A job
// that is still in progress is reported as not ready, not as an error.
func (c *Client) TranscriptText(ctx context.Context, jobID string) (string, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/jobs/"+jobID+"/transcript", nil)
	if err != nil {
		return "", false, err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "text/plain")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", false, err
	}
	defer resp.Body.Close()

	// The provider answers 409 while the job is still transcribing.
	if resp.StatusCode == http.StatusConflict {
		return "", false, nil
	}
	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", false, fmt.Errorf("fetching transcript %s: status %d: %s", jobID, resp.StatusCode, string(respBody))
	}

	text, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", false, err
	}

	return string(text), true, nil
}
