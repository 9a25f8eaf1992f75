package amqp

import (
	"encoding/json"
	"fmt"
	"time"

	"finview/internal/core"
)

// ConversationLoggedMessage carries one chat exchange to the worker. The
// whole log travels in the message because the server and worker do not
// necessarily share a database.
type ConversationLoggedMessage struct {
	Log       core.ConversationLog `json:"log"`
	Timestamp time.Time            `json:"timestamp"`
}

func NewConversationLoggedMessage(l core.ConversationLog) *ConversationLoggedMessage {
	return &ConversationLoggedMessage{
		Log:       l,
		Timestamp: time.Now(),
	}
}

func (m *ConversationLoggedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// ConversationLoggedMessageFromJSON decodes a message and rejects ones
// without a log id.
func ConversationLoggedMessageFromJSON(data []byte) (*ConversationLoggedMessage, error) {
	var msg ConversationLoggedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	if msg.Log.ID == "" {
		return nil, fmt.Errorf("message has no conversation id")
	}
	return &msg, nil
}
