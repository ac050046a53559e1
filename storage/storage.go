package storage

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Exchange is one persisted user-message/assistant-response pair.
// Records are immutable once saved; there is no update path.
type Exchange struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserMessage string             `bson:"user_message" json:"user_message"`
	AiResponse  string             `bson:"ai_response" json:"ai_response"`
	Timestamp   time.Time          `bson:"timestamp" json:"timestamp"`
	HasImage    bool               `bson:"has_image" json:"has_image"`
	ImageData   string             `bson:"image_data,omitempty" json:"image_data,omitempty"`
}

type ConversationStorage interface {
	// SaveExchange appends one exchange with the current time as its
	// timestamp and returns the assigned id. imageData may be empty.
	SaveExchange(userMessage, aiResponse, imageData string) (string, error)
	// RecentExchanges returns up to limit exchanges, most recent first.
	// Image payloads are stripped unless includeImages is set.
	RecentExchanges(limit int, includeImages bool) ([]Exchange, error)
	CountExchanges() (int64, error)
	// Name identifies the backing store for the stats endpoint.
	Name() string
	Close() error
}
