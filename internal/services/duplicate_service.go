package services

import (
	"vibespace/internal/models"
	"vibespace/internal/utils"
)

// DuplicateService deep-copies a database under a fresh identity space.
// The copy is structurally isomorphic to the source and never references
// a source id.
type DuplicateService struct{}

func NewDuplicateService() *DuplicateService {
	return &DuplicateService{}
}

type pendingRef struct {
	tableID  string
	columnID string
	ref      *models.ForeignRef
}

// Duplicate copies src in two passes: first tables and columns get new
// ids (recorded in old-to-new maps, foreign refs deferred), then the
// deferred refs and all links are remapped through those maps. A ref
// whose either side fails to map was dangling in the source and is
// dropped; a link endpoint that fails to map passes through unchanged.
// Duplication never fails on bad data.
func (s *DuplicateService) Duplicate(src *models.Database) *models.Database {
	dst := models.NewDatabase(utils.NewID(), src.Name+" (copy)")
	dst.Note = src.Note

	tableIDMap := make(map[string]string, len(src.Tables))
	columnIDMap := make(map[string]string)
	var pending []pendingRef

	for oldTableID, t := range src.Tables {
		newTable := models.NewTable(utils.NewID(), t.Name)
		newTable.Note = t.Note
		tableIDMap[oldTableID] = newTable.ID
		dst.Tables[newTable.ID] = newTable
		for oldColumnID, c := range t.Columns {
			newCol := &models.Column{
				ID:         utils.NewID(),
				Name:       c.Name,
				Datatype:   c.Datatype,
				IsPrimary:  c.IsPrimary,
				IsNullable: c.IsNullable,
				Default:    c.Default,
				Note:       c.Note,
				Order:      c.Order,
			}
			columnIDMap[oldColumnID] = newCol.ID
			newTable.Columns[newCol.ID] = newCol
			if c.ForeignRef != nil {
				pending = append(pending, pendingRef{tableID: newTable.ID, columnID: newCol.ID, ref: c.ForeignRef})
			}
		}
	}

	for _, p := range pending {
		mappedTable, okT := tableIDMap[p.ref.TableID]
		mappedColumn, okC := columnIDMap[p.ref.ColumnID]
		if okT && okC {
			dst.Tables[p.tableID].Columns[p.columnID].ForeignRef = &models.ForeignRef{
				TableID:  mappedTable,
				ColumnID: mappedColumn,
				Note:     p.ref.Note,
			}
		}
	}

	for _, l := range src.Links {
		newLink := &models.Link{
			ID:       utils.NewID(),
			FromType: l.FromType,
			FromID:   remapEndpoint(l.FromType, l.FromID, tableIDMap, columnIDMap),
			ToType:   l.ToType,
			ToID:     remapEndpoint(l.ToType, l.ToID, tableIDMap, columnIDMap),
			Note:     l.Note,
		}
		dst.Links[newLink.ID] = newLink
	}

	return dst
}

func remapEndpoint(nodeType, id string, tables, columns map[string]string) string {
	switch nodeType {
	case models.NodeTable:
		if mapped, ok := tables[id]; ok {
			return mapped
		}
	case models.NodeColumn:
		if mapped, ok := columns[id]; ok {
			return mapped
		}
	}
	return id
}
