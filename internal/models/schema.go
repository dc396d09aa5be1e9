package models

// Endpoint types for links.
const (
	NodeTable  = "table"
	NodeColumn = "column"
)

// Link is a free-form annotated edge between two schema nodes, drawn as a
// relationship line in the diagram. It is independent of ForeignRef.
type Link struct {
	ID       string `json:"id"`
	FromType string `json:"from_type"` // "table" | "column"
	FromID   string `json:"from_id"`
	ToType   string `json:"to_type"`
	ToID     string `json:"to_id"`
	Note     string `json:"note"`
}

// ForeignRef points a column at another column in the same database.
// Referenced IDs are not continuously re-validated; deletes scrub them.
type ForeignRef struct {
	TableID  string `json:"table_id"`
	ColumnID string `json:"column_id"`
	Note     string `json:"note"`
}

type Column struct {
	ID         string      `json:"id"`
	Name       string      `json:"name"`
	Datatype   string      `json:"datatype"`
	IsPrimary  bool        `json:"is_primary"`
	IsNullable bool        `json:"is_nullable"`
	Default    *string     `json:"default"`
	Note       string      `json:"note"`
	ForeignRef *ForeignRef `json:"foreign_ref"`
	// Order is the authoritative display order; clients re-sort on it.
	Order int `json:"order"`
}

type Table struct {
	ID      string             `json:"id"`
	Name    string             `json:"name"`
	Note    string             `json:"note"`
	Columns map[string]*Column `json:"columns"`
}

func NewTable(id, name string) *Table {
	return &Table{ID: id, Name: name, Columns: make(map[string]*Column)}
}

// Database owns its tables and links exclusively. Diagram is an opaque
// layout blob owned by the UI; it is passed through unvalidated.
type Database struct {
	ID      string            `json:"id"`
	Name    string            `json:"name"`
	Note    string            `json:"note"`
	Tables  map[string]*Table `json:"tables"`
	Links   map[string]*Link  `json:"links"`
	Diagram map[string]any    `json:"diagram"`
}

func NewDatabase(id, name string) *Database {
	return &Database{
		ID:      id,
		Name:    name,
		Tables:  make(map[string]*Table),
		Links:   make(map[string]*Link),
		Diagram: make(map[string]any),
	}
}
