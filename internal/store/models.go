package store

import "time"

// Project is the server-side record of a generated PID: the source RFP
// text plus the current document. PIDText is always the literal output
// of the most recent successful generation or refinement.
type Project struct {
	ID           string    `json:"id"` // UUID
	FileID       string    `json:"fileId"`
	OriginalName string    `json:"originalName"`
	RFPText      string    `json:"rfpText"`
	PIDText      string    `json:"pid"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Message is one entry of a project's refinement transcript. The
// transcript exists for display only; it is never fed back into prompts.
type Message struct {
	ID        string    `json:"id"` // UUID
	ProjectID string    `json:"projectId"`
	Sender    string    `json:"sender"` // "user" or "model"
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}
