package speech

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clausewise/core/internal/config"
)

func testSpeechConfig(endpoint string) config.SpeechConfig {
	return config.SpeechConfig{
		APIKey:   "test-key",
		Endpoint: endpoint,
		VoiceID:  "voice-1",
		STTModel: "scribe_v1",
	}
}

func TestTranscribe(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/speech-to-text", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("xi-api-key"))

		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "scribe_v1", r.FormValue("model_id"))
		assert.Equal(t, "en", r.FormValue("language_code"))

		file, _, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		data, err := io.ReadAll(file)
		require.NoError(t, err)
		assert.Equal(t, []byte("fake-audio"), data)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"text":"what is the late fee"}`))
	}))
	defer server.Close()

	c := NewClient(testSpeechConfig(server.URL))
	text, err := c.Transcribe(context.Background(), []byte("fake-audio"), "en")
	require.NoError(t, err)
	assert.Equal(t, "what is the late fee", text)
}

func TestTranscribeTranscriptFallback(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"transcript":"fallback text"}`))
	}))
	defer server.Close()

	c := NewClient(testSpeechConfig(server.URL))
	text, err := c.Transcribe(context.Background(), []byte("a"), "")
	require.NoError(t, err)
	assert.Equal(t, "fallback text", text)
}

func TestTranscribeEmptyResult(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	c := NewClient(testSpeechConfig(server.URL))
	text, err := c.Transcribe(context.Background(), []byte("a"), "en")
	require.NoError(t, err)
	assert.Equal(t, "", text)
}

func TestTranscribeErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad key", http.StatusUnauthorized)
	}))
	defer server.Close()

	c := NewClient(testSpeechConfig(server.URL))
	_, err := c.Transcribe(context.Background(), []byte("a"), "en")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}

func TestTranscribeValidation(t *testing.T) {
	c := NewClient(config.SpeechConfig{Endpoint: "http://unused"})
	_, err := c.Transcribe(context.Background(), []byte("a"), "en")
	assert.Error(t, err, "missing api key")

	c = NewClient(testSpeechConfig("http://unused"))
	_, err = c.Transcribe(context.Background(), nil, "en")
	assert.Error(t, err, "empty audio")
}

func TestSynthesize(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/text-to-speech/voice-1", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("xi-api-key"))

		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		assert.JSONEq(t, `{"text":"hello there"}`, string(body))

		_, _ = w.Write([]byte("binary-audio"))
	}))
	defer server.Close()

	c := NewClient(testSpeechConfig(server.URL))
	audio, err := c.Synthesize(context.Background(), "hello there", "en")
	require.NoError(t, err)
	assert.Equal(t, []byte("binary-audio"), audio)
}

func TestSynthesizeValidation(t *testing.T) {
	c := NewClient(testSpeechConfig("http://unused"))
	_, err := c.Synthesize(context.Background(), "  ", "en")
	assert.Error(t, err)

	noVoice := testSpeechConfig("http://unused")
	noVoice.VoiceID = ""
	c = NewClient(noVoice)
	_, err = c.Synthesize(context.Background(), "hi", "en")
	assert.Error(t, err)
}
