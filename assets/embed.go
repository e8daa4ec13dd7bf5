package assets

import (
	"embed"
	"encoding/json"
)

//go:embed questions.json
var FS embed.FS

// BankEntry is one offline mission theme: a fact plus its questions.
type BankEntry struct {
	Destination string         `json:"destination"`
	Topic       string         `json:"topic"`
	Fact        string         `json:"fact"`
	Questions   []BankQuestion `json:"questions"`
}

// BankQuestion mirrors the provider question wire shape.
type BankQuestion struct {
	Question           string   `json:"question"`
	Options            []string `json:"options"`
	CorrectAnswerIndex int      `json:"correctAnswerIndex"`
	Explanation        string   `json:"explanation"`
}

// QuestionBank decodes the embedded offline question bank.
func QuestionBank() ([]BankEntry, error) {
	b, err := FS.ReadFile("questions.json")
	if err != nil {
		return nil, err
	}
	var out []BankEntry
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, err
	}
	return out, nil
}
