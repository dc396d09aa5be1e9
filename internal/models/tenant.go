package models

import (
	"encoding/json"
	"time"
)

// Reserved keys in the per-PIN record. Database entries and the document
// tree share one flat record, so loaders must recognize these and skip
// them when collecting databases.
const (
	RecordKeyFolders   = "doc_folders"
	RecordKeyDocuments = "documents"
)

// TenantState is the aggregate root for one PIN. It is created lazily on
// first write and persists as an empty container once all entities are
// deleted.
type TenantState struct {
	Databases map[string]*Database
	Folders   map[string]*DocFolder
	Documents map[string]*Document
}

func NewTenantState() *TenantState {
	return &TenantState{
		Databases: make(map[string]*Database),
		Folders:   make(map[string]*DocFolder),
		Documents: make(map[string]*Document),
	}
}

// MarshalJSON writes the flat record shape: every database keyed by its
// id, plus the two reserved document-tree keys when non-empty.
func (s *TenantState) MarshalJSON() ([]byte, error) {
	record := make(map[string]any, len(s.Databases)+2)
	for id, db := range s.Databases {
		record[id] = db
	}
	if len(s.Folders) > 0 {
		record[RecordKeyFolders] = s.Folders
	}
	if len(s.Documents) > 0 {
		record[RecordKeyDocuments] = s.Documents
	}
	return json.Marshal(record)
}

// UnmarshalJSON re-hydrates a record tolerantly: entries that are not
// well-formed databases are skipped rather than failing the load. Only a
// record that is not a JSON object at all is an error; the store layer
// treats that as an empty state.
func (s *TenantState) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	s.Databases = make(map[string]*Database)
	s.Folders = make(map[string]*DocFolder)
	s.Documents = make(map[string]*Document)
	for key, val := range raw {
		switch key {
		case RecordKeyFolders:
			var folders map[string]*DocFolder
			if err := json.Unmarshal(val, &folders); err != nil {
				continue
			}
			for id, f := range folders {
				if f != nil {
					s.Folders[id] = f
				}
			}
		case RecordKeyDocuments:
			var docs map[string]*Document
			if err := json.Unmarshal(val, &docs); err != nil {
				continue
			}
			for id, d := range docs {
				if d != nil {
					s.Documents[id] = d
				}
			}
		default:
			if db, ok := decodeDatabase(val); ok {
				s.Databases[key] = db
			}
		}
	}
	return nil
}

// decodeDatabase accepts an entry only when it carries id, name and
// tables; anything else in the record is not a database.
func decodeDatabase(raw json.RawMessage) (*Database, bool) {
	var probe struct {
		ID     *string                    `json:"id"`
		Name   *string                    `json:"name"`
		Tables map[string]json.RawMessage `json:"tables"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil {
		return nil, false
	}
	if probe.ID == nil || probe.Name == nil || probe.Tables == nil {
		return nil, false
	}
	var db Database
	if err := json.Unmarshal(raw, &db); err != nil {
		return nil, false
	}
	if db.Tables == nil {
		db.Tables = make(map[string]*Table)
	}
	for _, t := range db.Tables {
		if t != nil && t.Columns == nil {
			t.Columns = make(map[string]*Column)
		}
	}
	if db.Links == nil {
		db.Links = make(map[string]*Link)
	}
	if db.Diagram == nil {
		db.Diagram = make(map[string]any)
	}
	return &db, true
}

// UnmarshalJSON drops malformed notes instead of failing the document,
// and defaults a missing end_line to start_line.
func (d *Document) UnmarshalJSON(data []byte) error {
	type document Document
	aux := struct {
		*document
		Notes map[string]json.RawMessage `json:"notes"`
	}{document: (*document)(d)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	d.Notes = make(map[string]*DocNote, len(aux.Notes))
	for id, rawNote := range aux.Notes {
		var n DocNote
		if err := json.Unmarshal(rawNote, &n); err != nil {
			continue
		}
		d.Notes[id] = &n
	}
	return nil
}

func (n *DocNote) UnmarshalJSON(data []byte) error {
	type docNote DocNote
	aux := struct {
		*docNote
		EndLine *int `json:"end_line"`
	}{docNote: (*docNote)(n)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if aux.EndLine != nil {
		n.EndLine = *aux.EndLine
	} else {
		n.EndLine = n.StartLine
	}
	return nil
}

// FolderSummary and DocumentSummary are the minimal shapes used for
// sidebar listings; document content is deliberately omitted.
type FolderSummary struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	ParentID *string `json:"parent_id"`
}

type DocumentSummary struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	ParentID  *string   `json:"parent_id"`
	UpdatedAt time.Time `json:"updated_at"`
}
