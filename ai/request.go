package ai

// Wire types for the Gemini generateContent API.

type GenerateRequest struct {
	Contents         []Content         `json:"contents"`
	GenerationConfig *GenerationConfig `json:"generationConfig,omitempty"`
}

type Content struct {
	Role  string `json:"role,omitempty"`
	Parts []Part `json:"parts"`
}

type Part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *InlineData `json:"inlineData,omitempty"`
}

type InlineData struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"`
}

type GenerationConfig struct {
	Temperature float64 `json:"temperature"`
}

type GenerateResponse struct {
	Candidates []Candidate `json:"candidates"`
	Error      *APIError   `json:"error,omitempty"`
}

type Candidate struct {
	Content      Content `json:"content"`
	FinishReason string  `json:"finishReason,omitempty"`
}

type APIError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Status  string `json:"status"`
}

// NewTextRequest builds a single-turn text request.
func NewTextRequest(prompt string) *GenerateRequest {
	return &GenerateRequest{
		Contents: []Content{{
			Role:  "user",
			Parts: []Part{{Text: prompt}},
		}},
		GenerationConfig: &GenerationConfig{Temperature: 0.7},
	}
}

// NewImageRequest builds a single-turn request pairing the prompt with an
// inline image.
func NewImageRequest(prompt, mimeType, data string) *GenerateRequest {
	return &GenerateRequest{
		Contents: []Content{{
			Role: "user",
			Parts: []Part{
				{Text: prompt},
				{InlineData: &InlineData{MimeType: mimeType, Data: data}},
			},
		}},
		GenerationConfig: &GenerationConfig{Temperature: 0.7},
	}
}
