package ai

import (
	"Vibella/core"
	"Vibella/lib/sl"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

const defaultEndpoint = "https://generativelanguage.googleapis.com/v1beta"

// ErrorPrefix marks a response produced from a failed model call instead
// of real generated content.
const ErrorPrefix = "Error: "

type Gemini struct {
	conf     *core.Config
	log      *slog.Logger
	client   *http.Client
	endpoint string
}

func NewGemini(conf *core.Config, log *slog.Logger) *Gemini {
	return &Gemini{
		conf: conf,
		log:  log.With(sl.Module("gemini")),
		client: &http.Client{
			// image generation requests can run long, but never forever
			Timeout: 90 * time.Second,
		},
		endpoint: defaultEndpoint,
	}
}

// GenerateResponse returns the model's reply for a user message and an
// optional data-URI image. Any failure is folded into the returned text
// with ErrorPrefix so the caller always has something to persist and show.
func (g *Gemini) GenerateResponse(message string, imageData string) string {
	response, err := g.generate(message, imageData)
	if err != nil {
		g.log.Error("generating response", sl.Err(err))
		return ErrorPrefix + err.Error()
	}
	return response
}

func (g *Gemini) generate(message string, imageData string) (string, error) {
	prompt := ComposePrompt(message)

	var request *GenerateRequest
	if imageData != "" {
		mimeType, payload := ParseDataURI(imageData)
		request = NewImageRequest(prompt, mimeType, payload)
	} else {
		request = NewTextRequest(prompt)
	}

	jsonBytes, err := json.Marshal(request)
	if err != nil {
		return "", fmt.Errorf("marshalling request: %v", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", g.endpoint, g.conf.Model)
	req, err := http.NewRequest("POST", url, strings.NewReader(string(jsonBytes)))
	if err != nil {
		return "", fmt.Errorf("making request: %v", err)
	}
	req.Header.Set("x-goog-api-key", g.conf.GeminiApiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("getting response: %v", err)
	}
	defer func(Body io.ReadCloser) {
		err = Body.Close()
		if err != nil {
			g.log.Error("closing response body", sl.Err(err))
		}
	}(resp.Body)

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading response body: %v", err)
	}

	var generated GenerateResponse
	err = json.Unmarshal(body, &generated)
	if err != nil {
		return "", fmt.Errorf("decoding response: %v", err)
	}
	if generated.Error != nil {
		return "", fmt.Errorf("model error %d: %s", generated.Error.Code, generated.Error.Message)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status: %s", resp.Status)
	}

	g.log.With(
		slog.String("model", g.conf.Model),
		slog.Int("candidates", len(generated.Candidates)),
	).Info("generate content")

	text := extractText(&generated)
	if text == "" {
		// nothing extractable, hand back the raw result
		return string(body), nil
	}

	logText := text
	if len(logText) > 50 {
		logText = logText[:50] + "..."
	}
	g.log.With(
		slog.String("text", logText),
	).Info("outgoing response")

	return text, nil
}

func extractText(generated *GenerateResponse) string {
	if len(generated.Candidates) == 0 {
		return ""
	}
	var b strings.Builder
	for _, part := range generated.Candidates[0].Content.Parts {
		b.WriteString(part.Text)
	}
	return b.String()
}
