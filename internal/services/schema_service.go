package services

import (
	"encoding/json"
	"fmt"
	"strings"

	"vibespace/internal/apperrors"
	"vibespace/internal/models"
	"vibespace/internal/utils"
)

// SchemaService is the schema graph engine. It is stateless: every
// operation mutates the aggregate it is handed and performs no I/O.
type SchemaService struct{}

func NewSchemaService() *SchemaService {
	return &SchemaService{}
}

// FindDatabase resolves a database id within a tenant's set.
func (s *SchemaService) FindDatabase(dbs map[string]*models.Database, dbID string) (*models.Database, error) {
	db, ok := dbs[dbID]
	if !ok {
		return nil, fmt.Errorf("%w: database %s", apperrors.ErrNotFound, dbID)
	}
	return db, nil
}

// --------- Databases ----------

type CreateDatabaseRequest struct {
	Name string `json:"name"`
}

func (s *SchemaService) CreateDatabase(dbs map[string]*models.Database, req CreateDatabaseRequest) *models.Database {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		name = "New Database"
	}
	db := models.NewDatabase(utils.NewID(), name)
	dbs[db.ID] = db
	return db
}

// DatabasePatch is a partial update: nil fields keep their prior value.
// A whitespace-only name falls back to the existing name instead of
// erroring.
type DatabasePatch struct {
	Name    *string        `json:"name"`
	Note    *string        `json:"note"`
	Diagram map[string]any `json:"diagram"`
}

func (s *SchemaService) UpdateDatabase(db *models.Database, patch DatabasePatch) {
	if patch.Name != nil {
		if name := strings.TrimSpace(*patch.Name); name != "" {
			db.Name = name
		}
	}
	if patch.Note != nil {
		db.Note = *patch.Note
	}
	if patch.Diagram != nil {
		db.Diagram = patch.Diagram
	}
}

func (s *SchemaService) DeleteDatabase(dbs map[string]*models.Database, dbID string) error {
	if _, ok := dbs[dbID]; !ok {
		return fmt.Errorf("%w: database %s", apperrors.ErrNotFound, dbID)
	}
	delete(dbs, dbID)
	return nil
}

// --------- Tables ----------

type CreateTableRequest struct {
	Name string `json:"name"`
}

func (s *SchemaService) CreateTable(db *models.Database, req CreateTableRequest) *models.Table {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		name = "New Table"
	}
	t := models.NewTable(utils.NewID(), name)
	db.Tables[t.ID] = t
	return t
}

type TablePatch struct {
	Name *string `json:"name"`
	Note *string `json:"note"`
}

func (s *SchemaService) UpdateTable(db *models.Database, tableID string, patch TablePatch) (*models.Table, error) {
	t, ok := db.Tables[tableID]
	if !ok {
		return nil, fmt.Errorf("%w: table %s", apperrors.ErrNotFound, tableID)
	}
	if patch.Name != nil {
		if name := strings.TrimSpace(*patch.Name); name != "" {
			t.Name = name
		}
	}
	if patch.Note != nil {
		t.Note = *patch.Note
	}
	return t, nil
}

// DeleteTable removes the table and scrubs everything that referenced it:
// links with the table as an endpoint, links anchored on any of its
// columns, and foreign refs in other tables pointing at it or its
// columns. No dangling reference survives the delete.
func (s *SchemaService) DeleteTable(db *models.Database, tableID string) error {
	t, ok := db.Tables[tableID]
	if !ok {
		return fmt.Errorf("%w: table %s", apperrors.ErrNotFound, tableID)
	}
	for id, l := range db.Links {
		if (l.FromType == models.NodeTable && l.FromID == tableID) ||
			(l.ToType == models.NodeTable && l.ToID == tableID) {
			delete(db.Links, id)
		}
	}
	ownedColumns := make(map[string]bool, len(t.Columns))
	for cID := range t.Columns {
		ownedColumns[cID] = true
	}
	for id, l := range db.Links {
		if (l.FromType == models.NodeColumn && ownedColumns[l.FromID]) ||
			(l.ToType == models.NodeColumn && ownedColumns[l.ToID]) {
			delete(db.Links, id)
		}
	}
	for _, other := range db.Tables {
		for _, c := range other.Columns {
			if c.ForeignRef == nil {
				continue
			}
			if c.ForeignRef.TableID == tableID || ownedColumns[c.ForeignRef.ColumnID] {
				c.ForeignRef = nil
			}
		}
	}
	delete(db.Tables, tableID)
	return nil
}

// --------- Columns ----------

type ForeignRefInput struct {
	TableID  string `json:"table_id"`
	ColumnID string `json:"column_id"`
	Note     string `json:"note"`
}

type CreateColumnRequest struct {
	Name       string           `json:"name"`
	Datatype   string           `json:"datatype"`
	IsPrimary  bool             `json:"is_primary"`
	IsNullable *bool            `json:"is_nullable"`
	Default    *string          `json:"default"`
	Note       string           `json:"note"`
	ForeignRef *ForeignRefInput `json:"foreign_ref"`
}

// CreateColumn appends a column. Order is max existing order + 1 (0 for
// the first column) so newly created columns always sort last. A
// foreign_ref is accepted only when it carries both ids; the targets are
// not validated against existence, matching the tool's permissiveness.
func (s *SchemaService) CreateColumn(db *models.Database, tableID string, req CreateColumnRequest) (*models.Column, error) {
	t, ok := db.Tables[tableID]
	if !ok {
		return nil, fmt.Errorf("%w: table %s", apperrors.ErrNotFound, tableID)
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		name = "column"
	}
	datatype := req.Datatype
	if datatype == "" {
		datatype = "TEXT"
	}
	nullable := true
	if req.IsNullable != nil {
		nullable = *req.IsNullable
	}
	var fr *models.ForeignRef
	if req.ForeignRef != nil && req.ForeignRef.TableID != "" && req.ForeignRef.ColumnID != "" {
		fr = &models.ForeignRef{
			TableID:  req.ForeignRef.TableID,
			ColumnID: req.ForeignRef.ColumnID,
			Note:     req.ForeignRef.Note,
		}
	}
	order := 0
	if len(t.Columns) > 0 {
		maxOrder := 0
		seeded := false
		for _, c := range t.Columns {
			if !seeded || c.Order > maxOrder {
				maxOrder = c.Order
				seeded = true
			}
		}
		order = maxOrder + 1
	}
	col := &models.Column{
		ID:         utils.NewID(),
		Name:       name,
		Datatype:   datatype,
		IsPrimary:  req.IsPrimary,
		IsNullable: nullable,
		Default:    req.Default,
		Note:       req.Note,
		ForeignRef: fr,
		Order:      order,
	}
	t.Columns[col.ID] = col
	return col, nil
}

// ColumnPatch uses raw messages where "absent", "null" and "value" mean
// three different things (foreign_ref: keep / clear / replace).
type ColumnPatch struct {
	Name       *string         `json:"name"`
	Datatype   *string         `json:"datatype"`
	IsPrimary  *bool           `json:"is_primary"`
	IsNullable *bool           `json:"is_nullable"`
	Default    json.RawMessage `json:"default"`
	Note       *string         `json:"note"`
	ForeignRef json.RawMessage `json:"foreign_ref"`
	Order      *int            `json:"order"`
}

func (s *SchemaService) UpdateColumn(db *models.Database, tableID, columnID string, patch ColumnPatch) (*models.Column, error) {
	t, ok := db.Tables[tableID]
	if !ok {
		return nil, fmt.Errorf("%w: table %s", apperrors.ErrNotFound, tableID)
	}
	col, ok := t.Columns[columnID]
	if !ok {
		return nil, fmt.Errorf("%w: column %s", apperrors.ErrNotFound, columnID)
	}
	if patch.Name != nil {
		if name := strings.TrimSpace(*patch.Name); name != "" {
			col.Name = name
		}
	}
	if patch.Datatype != nil {
		col.Datatype = *patch.Datatype
	}
	if patch.IsPrimary != nil {
		col.IsPrimary = *patch.IsPrimary
	}
	if patch.IsNullable != nil {
		col.IsNullable = *patch.IsNullable
	}
	if len(patch.Default) > 0 {
		var def *string
		if err := json.Unmarshal(patch.Default, &def); err == nil {
			col.Default = def
		}
	}
	if patch.Note != nil {
		col.Note = *patch.Note
	}
	if len(patch.ForeignRef) > 0 {
		if string(patch.ForeignRef) == "null" {
			col.ForeignRef = nil
		} else {
			var fr ForeignRefInput
			if err := json.Unmarshal(patch.ForeignRef, &fr); err == nil && fr.TableID != "" && fr.ColumnID != "" {
				col.ForeignRef = &models.ForeignRef{TableID: fr.TableID, ColumnID: fr.ColumnID, Note: fr.Note}
			}
		}
	}
	if patch.Order != nil {
		col.Order = *patch.Order
	}
	return col, nil
}

// DeleteColumn removes links anchored on the column and scrubs foreign
// refs elsewhere that point at it, then removes the column.
func (s *SchemaService) DeleteColumn(db *models.Database, tableID, columnID string) error {
	t, ok := db.Tables[tableID]
	if !ok {
		return fmt.Errorf("%w: table %s", apperrors.ErrNotFound, tableID)
	}
	if _, ok := t.Columns[columnID]; !ok {
		return fmt.Errorf("%w: column %s", apperrors.ErrNotFound, columnID)
	}
	for id, l := range db.Links {
		if (l.FromType == models.NodeColumn && l.FromID == columnID) ||
			(l.ToType == models.NodeColumn && l.ToID == columnID) {
			delete(db.Links, id)
		}
	}
	for _, other := range db.Tables {
		for _, c := range other.Columns {
			if c.ForeignRef != nil && c.ForeignRef.ColumnID == columnID {
				c.ForeignRef = nil
			}
		}
	}
	delete(t.Columns, columnID)
	return nil
}

// --------- Links ----------

type CreateLinkRequest struct {
	FromType string `json:"from_type"`
	FromID   string `json:"from_id"`
	ToType   string `json:"to_type"`
	ToID     string `json:"to_id"`
	Note     string `json:"note"`
}

// CreateLink requires both endpoints but does not validate that they
// exist; a link is a free-form diagram edge.
func (s *SchemaService) CreateLink(db *models.Database, req CreateLinkRequest) (*models.Link, error) {
	if req.FromID == "" || req.ToID == "" {
		return nil, fmt.Errorf("%w: missing link endpoints", apperrors.ErrInvalidInput)
	}
	fromType := req.FromType
	if fromType == "" {
		fromType = models.NodeTable
	}
	toType := req.ToType
	if toType == "" {
		toType = models.NodeTable
	}
	link := &models.Link{
		ID:       utils.NewID(),
		FromType: fromType,
		FromID:   req.FromID,
		ToType:   toType,
		ToID:     req.ToID,
		Note:     req.Note,
	}
	db.Links[link.ID] = link
	return link, nil
}

type LinkPatch struct {
	Note *string `json:"note"`
}

func (s *SchemaService) UpdateLink(db *models.Database, linkID string, patch LinkPatch) (*models.Link, error) {
	link, ok := db.Links[linkID]
	if !ok {
		return nil, fmt.Errorf("%w: link %s", apperrors.ErrNotFound, linkID)
	}
	if patch.Note != nil {
		link.Note = *patch.Note
	}
	return link, nil
}

func (s *SchemaService) DeleteLink(db *models.Database, linkID string) error {
	if _, ok := db.Links[linkID]; !ok {
		return fmt.Errorf("%w: link %s", apperrors.ErrNotFound, linkID)
	}
	delete(db.Links, linkID)
	return nil
}
