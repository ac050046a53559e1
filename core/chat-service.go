package core

// ChatService produces an assistant reply for a user message, optionally
// grounded on an attached image supplied as a base64 data URI. Failures of
// the underlying model are folded into the returned text, so the call
// always yields something to show the user.
type ChatService interface {
	GenerateResponse(message string, imageData string) string
}
