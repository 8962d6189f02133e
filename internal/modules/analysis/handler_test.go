package analysis

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/clausewise/core/internal/modules/document"
	"github.com/clausewise/core/internal/pkg/blob"
)

func newAnalysisTestRouter(t *testing.T) (*gin.Engine, *document.Service) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := newAnalysisTestDB(t)
	docs := document.NewService(db, blob.NewMemoryStore("docs"))
	svc := NewService(db, docs, NewStandinBackend(), "en", zap.NewNop())

	r := gin.New()
	api := r.Group("/api/v1")
	NewHandler(svc).RegisterRoutes(api, func(c *gin.Context) { c.Next() })
	return r, docs
}

func TestAnalyzeEndpoint(t *testing.T) {
	r, docs := newAnalysisTestRouter(t)
	doc := seedTextDocument(t, docs, "None")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/documents/"+doc.ID+"/analyze", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		OK   int           `json:"ok"`
		Data AnalyzeResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 1, body.OK)
	assert.Equal(t, doc.ID, body.Data.DocumentID)
	assert.NotEmpty(t, body.Data.Summary)
	assert.NotEmpty(t, body.Data.Risks)
	assert.NotEmpty(t, body.Data.Glossary)
}

func TestAnalyzeEndpointUnknownDocument(t *testing.T) {
	r, _ := newAnalysisTestRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/documents/nope/analyze", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.NotContains(t, w.Body.String(), "summary")
}

func TestChatEndpoint(t *testing.T) {
	r, _ := newAnalysisTestRouter(t)

	payload := `{"messages":[{"role":"user","content":"What is a deposit?"}]}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/chat", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "reply")
}

func TestChatEndpointValidation(t *testing.T) {
	r, _ := newAnalysisTestRouter(t)

	cases := []string{
		`{}`,
		`{"messages":[]}`,
		`{"messages":[{"role":"system","content":"x"}]}`,
		`not json`,
	}
	for _, payload := range cases {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/chat", strings.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code, "payload %q", payload)
	}
}

func TestChatEndpointSingleMessageFallback(t *testing.T) {
	r, _ := newAnalysisTestRouter(t)

	payload := `{"message":"What is a security deposit?"}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/chat", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "reply")
}
