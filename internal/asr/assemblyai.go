// Package asr invokes external speech-to-text providers and maps their
// responses to the engine's utterance shape.
package asr

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/snarg/minutes-engine/internal/transcript"
)

const defaultAssemblyAIBaseURL = "https://api.assemblyai.com"

// AssemblyAIClient calls the AssemblyAI transcription API: upload the audio,
// create a transcript job with speaker labels, then poll until it settles.
type AssemblyAIClient struct {
	baseURL      string
	apiKey       string
	pollInterval time.Duration
	client       *http.Client
}

// NewAssemblyAIClient creates an AssemblyAI client. An empty baseURL uses the
// public API. timeout bounds each individual HTTP request; overall job time
// is bounded by the caller's context.
func NewAssemblyAIClient(baseURL, apiKey string, pollInterval, timeout time.Duration) *AssemblyAIClient {
	if baseURL == "" {
		baseURL = defaultAssemblyAIBaseURL
	}
	if pollInterval <= 0 {
		pollInterval = 3 * time.Second
	}
	return &AssemblyAIClient{
		baseURL:      baseURL,
		apiKey:       apiKey,
		pollInterval: pollInterval,
		client:       &http.Client{Timeout: timeout},
	}
}

// Name returns the provider name.
func (c *AssemblyAIClient) Name() string { return "assemblyai" }

type transcriptJob struct {
	ID             string  `json:"id"`
	Status         string  `json:"status"` // queued, processing, completed, error
	Error          string  `json:"error"`
	LanguageCode   string  `json:"language_code"`
	AudioDuration  float64 `json:"audio_duration"` // seconds
	Utterances     []struct {
		Speaker string `json:"speaker"`
		Text    string `json:"text"`
		Start   int64  `json:"start"` // ms
		End     int64  `json:"end"`   // ms
	} `json:"utterances"`
}

// Transcribe uploads the audio file and runs a diarized transcription job,
// polling until completion or context cancellation.
func (c *AssemblyAIClient) Transcribe(ctx context.Context, audioPath string) (*Result, error) {
	uploadURL, err := c.upload(ctx, audioPath)
	if err != nil {
		return nil, err
	}

	jobID, err := c.createJob(ctx, uploadURL)
	if err != nil {
		return nil, err
	}

	job, err := c.poll(ctx, jobID)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Language:   job.LanguageCode,
		DurationMS: int64(job.AudioDuration * 1000),
	}
	for _, u := range job.Utterances {
		result.Utterances = append(result.Utterances, transcript.Utterance{
			Speaker: "Speaker " + u.Speaker,
			Text:    u.Text,
			StartMS: u.Start,
			EndMS:   u.End,
		})
	}
	return result, nil
}

// upload streams the audio bytes to the upload endpoint and returns the
// temporary URL AssemblyAI assigns.
func (c *AssemblyAIClient) upload(ctx context.Context, audioPath string) (string, error) {
	f, err := os.Open(audioPath)
	if err != nil {
		return "", fmt.Errorf("open audio file: %w", err)
	}
	defer f.Close()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v2/upload", f)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", c.apiKey)
	req.Header.Set("Content-Type", "application/octet-stream")

	var out struct {
		UploadURL string `json:"upload_url"`
	}
	if err := c.do(req, &out); err != nil {
		return "", err
	}
	if out.UploadURL == "" {
		return "", &ProviderError{Provider: c.Name(), Message: "upload returned no URL"}
	}
	return out.UploadURL, nil
}

func (c *AssemblyAIClient) createJob(ctx context.Context, audioURL string) (string, error) {
	payload, _ := json.Marshal(map[string]any{
		"audio_url":          audioURL,
		"speaker_labels":     true,
		"language_detection": true,
	})

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v2/transcript", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	var job transcriptJob
	if err := c.do(req, &job); err != nil {
		return "", err
	}
	if job.ID == "" {
		return "", &ProviderError{Provider: c.Name(), Message: "job creation returned no id"}
	}
	return job.ID, nil
}

func (c *AssemblyAIClient) poll(ctx context.Context, jobID string) (*transcriptJob, error) {
	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()

	for {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v2/transcript/"+jobID, nil)
		if err != nil {
			return nil, fmt.Errorf("create request: %w", err)
		}
		req.Header.Set("Authorization", c.apiKey)

		var job transcriptJob
		if err := c.do(req, &job); err != nil {
			return nil, err
		}

		switch job.Status {
		case "completed":
			return &job, nil
		case "error":
			return nil, &ProviderError{Provider: c.Name(), Message: "transcription failed: " + job.Error}
		}

		select {
		case <-ctx.Done():
			return nil, &ProviderError{Provider: c.Name(), Message: "cancelled while polling", Err: ctx.Err()}
		case <-ticker.C:
		}
	}
}

func (c *AssemblyAIClient) do(req *http.Request, out any) error {
	resp, err := c.client.Do(req)
	if err != nil {
		return &ProviderError{Provider: c.Name(), Message: err.Error(), Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &ProviderError{Provider: c.Name(), Message: "read response: " + err.Error(), Err: err}
	}
	if resp.StatusCode != http.StatusOK {
		return &ProviderError{Provider: c.Name(), Status: resp.StatusCode, Message: string(body)}
	}
	if err := json.Unmarshal(body, out); err != nil {
		return &ProviderError{Provider: c.Name(), Status: resp.StatusCode, Message: "decode response: " + err.Error(), Err: err}
	}
	return nil
}
