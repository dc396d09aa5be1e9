package services

import (
	"strings"

	"vibespace/internal/models"
	"vibespace/internal/utils"
)

const maxSearchResults = 50

// SearchService is a linear scan across documents, markdown headings and
// slugified schema names. No ranking; first matches win, capped at 50.
type SearchService struct{}

func NewSearchService() *SearchService {
	return &SearchService{}
}

// SearchResult is one match. Type is one of "doc", "heading",
// "database", "table", "column"; the other fields are populated per
// type.
type SearchResult struct {
	Type     string  `json:"type"`
	ID       string  `json:"id,omitempty"`
	Name     string  `json:"name,omitempty"`
	ParentID *string `json:"parent_id,omitempty"`
	DocID    string  `json:"doc_id,omitempty"`
	DocName  string  `json:"doc_name,omitempty"`
	Heading  string  `json:"heading,omitempty"`
	DBID     string  `json:"db_id,omitempty"`
	TableID  string  `json:"table_id,omitempty"`
	ColumnID string  `json:"column_id,omitempty"`
	Slug     string  `json:"slug,omitempty"`
	Label    string  `json:"label,omitempty"`
}

func (s *SearchService) Search(state *models.TenantState, query string) []SearchResult {
	q := strings.ToLower(strings.TrimSpace(query))
	var results []SearchResult

	for _, d := range state.Documents {
		if strings.Contains(strings.ToLower(d.Name), q) ||
			(q != "" && strings.Contains(strings.ToLower(d.Content), q)) {
			results = append(results, SearchResult{Type: "doc", ID: d.ID, Name: d.Name, ParentID: d.ParentID})
		}
		for _, line := range strings.Split(d.Content, "\n") {
			if !strings.HasPrefix(line, "#") {
				continue
			}
			heading := strings.TrimSpace(strings.TrimLeft(line, "#"))
			if heading != "" && strings.Contains(strings.ToLower(heading), q) {
				results = append(results, SearchResult{
					Type:     "heading",
					DocID:    d.ID,
					DocName:  d.Name,
					Heading:  heading,
					ParentID: d.ParentID,
				})
			}
		}
	}

	for dbID, db := range state.Databases {
		dbSlug := utils.Slugify(db.Name)
		if strings.Contains(dbSlug, q) {
			results = append(results, SearchResult{Type: "database", DBID: dbID, Name: db.Name, Slug: dbSlug})
		}
		for tID, t := range db.Tables {
			tableSlug := utils.Slugify(t.Name)
			if strings.Contains(tableSlug, q) {
				results = append(results, SearchResult{Type: "table", DBID: dbID, TableID: tID, Name: t.Name, Slug: tableSlug})
			}
			for cID, c := range t.Columns {
				columnSlug := utils.Slugify(c.Name)
				label := tableSlug + "." + columnSlug
				if strings.Contains(columnSlug, q) || strings.Contains(label, q) {
					results = append(results, SearchResult{
						Type:     "column",
						DBID:     dbID,
						TableID:  tID,
						ColumnID: cID,
						Name:     c.Name,
						Slug:     columnSlug,
						Label:    label,
					})
				}
			}
		}
	}

	if len(results) > maxSearchResults {
		results = results[:maxSearchResults]
	}
	return results
}
