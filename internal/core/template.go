package core

import "time"

// ResponseTemplate is the structured answer produced for one chat message.
type ResponseTemplate struct {
	Summary           string   `json:"summary"`
	Details           string   `json:"details"`
	ActionableInsight []string `json:"actionableInsight"`
}

// Clone returns a copy whose insight slice is not shared.
func (t ResponseTemplate) Clone() ResponseTemplate {
	t.ActionableInsight = append([]string(nil), t.ActionableInsight...)
	return t
}

// ConversationLog records one exchange for the conversation logger.
type ConversationLog struct {
	ID                 string    `json:"id"`
	UserID             string    `json:"user_id"`
	Message            string    `json:"message"`
	Reply              string    `json:"reply"`
	Rule               string    `json:"rule"`
	TrainingSystemUsed bool      `json:"training_system_used"`
	CreatedAt          time.Time `json:"created_at"`
}
