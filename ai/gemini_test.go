package ai

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Vibella/core"
)

func testGemini(t *testing.T, handler http.HandlerFunc) (*Gemini, *httptest.Server) {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	conf := &core.Config{
		Model:        "gemini-2.5-flash",
		GeminiApiKey: "test-key",
	}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	g := NewGemini(conf, log)
	g.endpoint = srv.URL
	return g, srv
}

func TestGenerateResponseText(t *testing.T) {
	var gotPath, gotKey string
	var gotRequest GenerateRequest

	g, _ := testGemini(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("x-goog-api-key")
		_ = json.NewDecoder(r.Body).Decode(&gotRequest)

		resp := GenerateResponse{
			Candidates: []Candidate{{
				Content: Content{Parts: []Part{
					{Text: "Caption: Chasing horizons\n"},
					{Text: "Hashtags: #sunset"},
				}},
			}},
		}
		json.NewEncoder(w).Encode(resp)
	})

	response := g.GenerateResponse("sunset beach photo", "")

	assert.Equal(t, "Caption: Chasing horizons\nHashtags: #sunset", response)
	assert.Equal(t, "/models/gemini-2.5-flash:generateContent", gotPath)
	assert.Equal(t, "test-key", gotKey)
	require.Len(t, gotRequest.Contents, 1)
	assert.Contains(t, gotRequest.Contents[0].Parts[0].Text, "User: sunset beach photo")
}

func TestGenerateResponseWithImage(t *testing.T) {
	var gotRequest GenerateRequest

	g, _ := testGemini(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&gotRequest)
		resp := GenerateResponse{
			Candidates: []Candidate{{
				Content: Content{Parts: []Part{{Text: "Caption: Golden hour"}}},
			}},
		}
		json.NewEncoder(w).Encode(resp)
	})

	response := g.GenerateResponse("caption this", "data:image/png;base64,QUJD")

	assert.Equal(t, "Caption: Golden hour", response)
	require.Len(t, gotRequest.Contents, 1)
	require.Len(t, gotRequest.Contents[0].Parts, 2)
	require.NotNil(t, gotRequest.Contents[0].Parts[1].InlineData)
	assert.Equal(t, "image/png", gotRequest.Contents[0].Parts[1].InlineData.MimeType)
	assert.Equal(t, "QUJD", gotRequest.Contents[0].Parts[1].InlineData.Data)
}

func TestGenerateResponseModelError(t *testing.T) {
	g, _ := testGemini(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		json.NewEncoder(w).Encode(GenerateResponse{
			Error: &APIError{Code: 429, Message: "quota exceeded", Status: "RESOURCE_EXHAUSTED"},
		})
	})

	response := g.GenerateResponse("hello", "")

	assert.True(t, strings.HasPrefix(response, ErrorPrefix))
	assert.Contains(t, response, "quota exceeded")
}

func TestGenerateResponseNetworkError(t *testing.T) {
	g, srv := testGemini(t, func(w http.ResponseWriter, r *http.Request) {})
	srv.Close()

	response := g.GenerateResponse("hello", "")

	assert.True(t, strings.HasPrefix(response, ErrorPrefix))
}

func TestGenerateResponseNoExtractableText(t *testing.T) {
	g, _ := testGemini(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(GenerateResponse{Candidates: []Candidate{}})
	})

	response := g.GenerateResponse("hello", "")

	// raw body rendering, not an error
	assert.False(t, strings.HasPrefix(response, ErrorPrefix))
	assert.Contains(t, response, "candidates")
}
