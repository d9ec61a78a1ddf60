// Package dataset models fine-tuning training records and writes them as
// JSON lines in the conversation schema expected by chat fine-tuning APIs.
package dataset

// Message is a single role-tagged conversation turn.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Record is one training example: a three-turn conversation pairing the
// persona, the synthesized user query, and the original response text.
type Record struct {
	Messages []Message `json:"messages"`
}

// Conversation roles, in the order a record carries them.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// NewRecord assembles a training record from the run's persona, the
// synthesized query, and the verbatim response text.
func NewRecord(persona, query, response string) Record {
	return Record{
		Messages: []Message{
			{Role: RoleSystem, Content: persona},
			{Role: RoleUser, Content: query},
			{Role: RoleAssistant, Content: response},
		},
	}
}
