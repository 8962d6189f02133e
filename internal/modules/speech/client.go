// Package speech bridges speech-to-text and text-to-speech around the
// question-answering pipeline.
package speech

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/clausewise/core/internal/config"
)

const clientTimeout = 30 * time.Second

// Client talks to an ElevenLabs-compatible speech API. It caches no
// session handle; every call authenticates freshly, which is fine at
// voice-request rates.
type Client struct {
	apiKey     string
	baseURL    string
	voiceID    string
	sttModel   string
	httpClient *http.Client
}

func NewClient(cfg config.SpeechConfig) *Client {
	return &Client{
		apiKey:     strings.TrimSpace(cfg.APIKey),
		baseURL:    strings.TrimRight(strings.TrimSpace(cfg.Endpoint), "/"),
		voiceID:    strings.TrimSpace(cfg.VoiceID),
		sttModel:   strings.TrimSpace(cfg.STTModel),
		httpClient: &http.Client{Timeout: clientTimeout},
	}
}

type transcribeResponse struct {
	Text       string `json:"text"`
	Transcript string `json:"transcript"`
}

// Transcribe sends encoded audio and a language hint to the
// speech-to-text endpoint and returns the transcript, or empty text
// when the service recognized nothing.
func (c *Client) Transcribe(ctx context.Context, audio []byte, languageCode string) (string, error) {
	if c.apiKey == "" {
		return "", fmt.Errorf("speech api key is not configured")
	}
	if len(audio) == 0 {
		return "", fmt.Errorf("transcription input is empty")
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", "audio.wav")
	if err != nil {
		return "", fmt.Errorf("build stt request body: %w", err)
	}
	if _, err := part.Write(audio); err != nil {
		return "", fmt.Errorf("write stt input: %w", err)
	}
	if err := writer.WriteField("model_id", c.sttModel); err != nil {
		return "", fmt.Errorf("set stt model: %w", err)
	}
	if lang := strings.TrimSpace(languageCode); lang != "" {
		if err := writer.WriteField("language_code", lang); err != nil {
			return "", fmt.Errorf("set stt language: %w", err)
		}
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("finalize stt request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/speech-to-text", bytes.NewReader(body.Bytes()))
	if err != nil {
		return "", fmt.Errorf("build stt request: %w", err)
	}
	req.Header.Set("xi-api-key", c.apiKey)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("stt request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read stt response: %w", err)
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return "", fmt.Errorf("stt returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	var parsed transcribeResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", fmt.Errorf("decode stt response: %w", err)
	}
	text := strings.TrimSpace(parsed.Text)
	if text == "" {
		text = strings.TrimSpace(parsed.Transcript)
	}
	return text, nil
}

type synthesizeRequest struct {
	Text string `json:"text"`
}

// Synthesize turns text into encoded audio bytes.
func (c *Client) Synthesize(ctx context.Context, text, languageCode string) ([]byte, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("speech api key is not configured")
	}
	if c.voiceID == "" {
		return nil, fmt.Errorf("speech voice_id is not configured")
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("synthesis text is empty")
	}

	payload, err := json.Marshal(synthesizeRequest{Text: text})
	if err != nil {
		return nil, fmt.Errorf("marshal tts request: %w", err)
	}

	reqURL := c.baseURL + "/v1/text-to-speech/" + url.PathEscape(c.voiceID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build tts request: %w", err)
	}
	req.Header.Set("xi-api-key", c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tts request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read tts response: %w", err)
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("tts returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}
	return raw, nil
}
