package models

import "time"

// Share kinds.
const (
	ShareDoc    = "doc"
	ShareFolder = "folder"
)

// DocFolder is a node in the per-tenant folder tree. A nil ParentID means
// the folder sits at the root.
type DocFolder struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	ParentID *string `json:"parent_id"`
}

// DocNote is a line-anchored annotation. The line range is inclusive.
type DocNote struct {
	ID        string    `json:"id"`
	StartLine int       `json:"start_line"`
	EndLine   int       `json:"end_line"`
	Text      string    `json:"text"`
	Author    string    `json:"author"`
	CreatedAt time.Time `json:"created_at"`
}

type Document struct {
	ID        string              `json:"id"`
	Name      string              `json:"name"`
	ParentID  *string             `json:"parent_id"`
	Content   string              `json:"content"`
	Notes     map[string]*DocNote `json:"notes"`
	UpdatedAt time.Time           `json:"updated_at"`
}

func NewDocument(id, name string, parentID *string, content string) *Document {
	return &Document{
		ID:        id,
		Name:      name,
		ParentID:  parentID,
		Content:   content,
		Notes:     make(map[string]*DocNote),
		UpdatedAt: time.Now().UTC(),
	}
}

// DocShare is a long-lived capability: the ID doubles as the token, and
// possession of the token grants access to the target. There is no expiry
// and no revocation beyond never exposing the token.
type DocShare struct {
	ID        string    `json:"id"`
	Pin       string    `json:"pin"`
	Kind      string    `json:"kind"` // "doc" | "folder"
	TargetID  string    `json:"target_id"`
	CreatedAt time.Time `json:"created_at"`
}
