package storage

import (
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemoryStorage keeps exchanges in process memory. It backs the service
// when MongoDB is disabled or unreachable at startup.
type MemoryStorage struct {
	exchanges []Exchange
	mutex     sync.RWMutex
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		exchanges: make([]Exchange, 0),
	}
}

func (m *MemoryStorage) SaveExchange(userMessage, aiResponse, imageData string) (string, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	exchange := Exchange{
		ID:          primitive.NewObjectID(),
		UserMessage: userMessage,
		AiResponse:  aiResponse,
		Timestamp:   time.Now().UTC(),
		HasImage:    imageData != "",
		ImageData:   imageData,
	}
	m.exchanges = append(m.exchanges, exchange)

	return exchange.ID.Hex(), nil
}

func (m *MemoryStorage) RecentExchanges(limit int, includeImages bool) ([]Exchange, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	result := make([]Exchange, 0, limit)
	// appended in insertion order, so walk backwards for most recent first
	for i := len(m.exchanges) - 1; i >= 0 && len(result) < limit; i-- {
		exchange := m.exchanges[i]
		if !includeImages {
			exchange.ImageData = ""
		}
		result = append(result, exchange)
	}
	return result, nil
}

func (m *MemoryStorage) CountExchanges() (int64, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return int64(len(m.exchanges)), nil
}

func (m *MemoryStorage) Name() string {
	return "memory"
}

func (m *MemoryStorage) Close() error {
	return nil
}
