package speech

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/clausewise/core/internal/database"
	"github.com/clausewise/core/internal/modules/analysis"
	"github.com/clausewise/core/internal/modules/document"
	"github.com/clausewise/core/internal/pkg/blob"
)

type recordingBridge struct {
	transcribeCalls int
	synthesizeCalls int
	transcript      string
}

func (b *recordingBridge) Transcribe(ctx context.Context, audio []byte, languageCode string) (string, error) {
	b.transcribeCalls++
	return b.transcript, nil
}

func (b *recordingBridge) Synthesize(ctx context.Context, text, languageCode string) ([]byte, error) {
	b.synthesizeCalls++
	return []byte("synthesized-audio"), nil
}

func newVoiceTestRouter(t *testing.T, bridge Bridge) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	docs := document.NewService(db, blob.NewMemoryStore("docs"))
	analysisSvc := analysis.NewService(db, docs, analysis.NewStandinBackend(), "en", zap.NewNop())

	r := gin.New()
	api := r.Group("/api/v1")
	NewHandler(bridge, analysisSvc, zap.NewNop()).RegisterRoutes(api, func(c *gin.Context) { c.Next() })
	return r
}

func postVoiceQnA(r *gin.Engine, payload string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/voice/qna", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestVoiceQnAWithAudioTranscribesFirst(t *testing.T) {
	bridge := &recordingBridge{transcript: "What is the security deposit?"}
	r := newVoiceTestRouter(t, bridge)

	audio := base64.StdEncoding.EncodeToString([]byte("fake-audio"))
	w := postVoiceQnA(r, `{"audio":"`+audio+`","language":"en"}`)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, bridge.transcribeCalls)
	assert.Equal(t, 1, bridge.synthesizeCalls)

	var body struct {
		Data VoiceQnAResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "What is the security deposit?", body.Data.Question)
	assert.NotEmpty(t, body.Data.Answer)
	assert.Equal(t, base64.StdEncoding.EncodeToString([]byte("synthesized-audio")), body.Data.AnswerAudio)
}

func TestVoiceQnAWithQuestionSkipsTranscription(t *testing.T) {
	bridge := &recordingBridge{transcript: "unused"}
	r := newVoiceTestRouter(t, bridge)

	w := postVoiceQnA(r, `{"question":"What is a lien?"}`)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 0, bridge.transcribeCalls)
}

func TestVoiceQnABothEmptyIsValidationError(t *testing.T) {
	bridge := &recordingBridge{}
	r := newVoiceTestRouter(t, bridge)

	w := postVoiceQnA(r, `{"language":"en"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, 0, bridge.transcribeCalls, "no backend call on validation failure")
	assert.Equal(t, 0, bridge.synthesizeCalls)
}

func TestVoiceQnARejectsBadBase64(t *testing.T) {
	bridge := &recordingBridge{}
	r := newVoiceTestRouter(t, bridge)

	w := postVoiceQnA(r, `{"audio":"not-valid-base64!!!"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestVoiceQnAStandinBridge(t *testing.T) {
	r := newVoiceTestRouter(t, NewStandinBridge())

	audio := base64.StdEncoding.EncodeToString([]byte("fake-audio"))
	w := postVoiceQnA(r, `{"audio":"`+audio+`"}`)

	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Data VoiceQnAResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "What are the key obligations in this document?", body.Data.Question)
	assert.NotEmpty(t, body.Data.Answer)
	assert.Empty(t, body.Data.AnswerAudio)
}
