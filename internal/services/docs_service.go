package services

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"vibespace/internal/apperrors"
	"vibespace/internal/models"
	"vibespace/internal/utils"
)

// DocsService owns the folder/document/note tree for a tenant. Like the
// schema engine it is pure: the caller hands in the loaded maps and
// persists them afterwards.
type DocsService struct{}

func NewDocsService() *DocsService {
	return &DocsService{}
}

// --------- Folders ----------

type CreateFolderRequest struct {
	Name     string  `json:"name"`
	ParentID *string `json:"parent_id"`
}

func (s *DocsService) CreateFolder(folders map[string]*models.DocFolder, req CreateFolderRequest) (*models.DocFolder, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		name = "New Folder"
	}
	parentID, err := normalizeParent(folders, req.ParentID)
	if err != nil {
		return nil, err
	}
	f := &models.DocFolder{ID: utils.NewID(), Name: name, ParentID: parentID}
	folders[f.ID] = f
	return f, nil
}

// FolderPatch carries parent_id as a raw message so that absent (keep),
// null (move to root) and a folder id (move) stay distinguishable.
type FolderPatch struct {
	Name     *string         `json:"name"`
	ParentID json.RawMessage `json:"parent_id"`
}

func (s *DocsService) UpdateFolder(folders map[string]*models.DocFolder, folderID string, patch FolderPatch) (*models.DocFolder, error) {
	f, ok := folders[folderID]
	if !ok {
		return nil, fmt.Errorf("%w: folder %s", apperrors.ErrNotFound, folderID)
	}
	if patch.Name != nil {
		if name := strings.TrimSpace(*patch.Name); name != "" {
			f.Name = name
		}
	}
	if len(patch.ParentID) > 0 {
		parentID, err := decodeParentPatch(folders, patch.ParentID)
		if err != nil {
			return nil, err
		}
		if parentID != nil && wouldCycle(folders, folderID, *parentID) {
			return nil, fmt.Errorf("%w: move would create a folder cycle", apperrors.ErrInvalidInput)
		}
		f.ParentID = parentID
	}
	return f, nil
}

// DeleteFolder refuses to delete a folder that still contains folders or
// documents.
func (s *DocsService) DeleteFolder(folders map[string]*models.DocFolder, documents map[string]*models.Document, folderID string) error {
	if _, ok := folders[folderID]; !ok {
		return fmt.Errorf("%w: folder %s", apperrors.ErrNotFound, folderID)
	}
	for id, f := range folders {
		if id != folderID && f.ParentID != nil && *f.ParentID == folderID {
			return fmt.Errorf("%w: folder not empty", apperrors.ErrInvalidInput)
		}
	}
	for _, d := range documents {
		if d.ParentID != nil && *d.ParentID == folderID {
			return fmt.Errorf("%w: folder not empty", apperrors.ErrInvalidInput)
		}
	}
	delete(folders, folderID)
	return nil
}

// normalizeParent maps empty to nil and requires an existing folder
// otherwise.
func normalizeParent(folders map[string]*models.DocFolder, parentID *string) (*string, error) {
	if parentID == nil || *parentID == "" {
		return nil, nil
	}
	if _, ok := folders[*parentID]; !ok {
		return nil, fmt.Errorf("%w: parent folder %s does not exist", apperrors.ErrInvalidInput, *parentID)
	}
	return parentID, nil
}

func decodeParentPatch(folders map[string]*models.DocFolder, raw json.RawMessage) (*string, error) {
	var parentID *string
	if err := json.Unmarshal(raw, &parentID); err != nil {
		return nil, fmt.Errorf("%w: parent_id must be a folder id or null", apperrors.ErrInvalidInput)
	}
	return normalizeParent(folders, parentID)
}

// wouldCycle reports whether parenting folderID under newParentID would
// close a loop. The walk carries a visited set so a corrupt chain in
// stored data cannot hang it.
func wouldCycle(folders map[string]*models.DocFolder, folderID, newParentID string) bool {
	visited := make(map[string]bool)
	current := newParentID
	for current != "" && !visited[current] {
		if current == folderID {
			return true
		}
		visited[current] = true
		f, ok := folders[current]
		if !ok || f.ParentID == nil {
			return false
		}
		current = *f.ParentID
	}
	return false
}

// --------- Documents ----------

type CreateDocumentRequest struct {
	Name     string  `json:"name"`
	ParentID *string `json:"parent_id"`
	Content  string  `json:"content"`
}

func (s *DocsService) CreateDocument(folders map[string]*models.DocFolder, documents map[string]*models.Document, req CreateDocumentRequest) (*models.Document, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		name = "Untitled"
	}
	parentID, err := normalizeParent(folders, req.ParentID)
	if err != nil {
		return nil, err
	}
	content := req.Content
	if content == "" {
		content = fmt.Sprintf("# %s\n\nStart writing...\n", name)
	}
	d := models.NewDocument(utils.NewID(), name, parentID, content)
	documents[d.ID] = d
	return d, nil
}

func (s *DocsService) GetDocument(documents map[string]*models.Document, docID string) (*models.Document, error) {
	d, ok := documents[docID]
	if !ok {
		return nil, fmt.Errorf("%w: document %s", apperrors.ErrNotFound, docID)
	}
	return d, nil
}

type DocumentPatch struct {
	Name     *string         `json:"name"`
	ParentID json.RawMessage `json:"parent_id"`
	Content  *string         `json:"content"`
}

// UpdateDocument applies a partial patch and refreshes updated_at only
// when something actually changed.
func (s *DocsService) UpdateDocument(folders map[string]*models.DocFolder, documents map[string]*models.Document, docID string, patch DocumentPatch) (*models.Document, error) {
	d, ok := documents[docID]
	if !ok {
		return nil, fmt.Errorf("%w: document %s", apperrors.ErrNotFound, docID)
	}
	touched := false
	if patch.Name != nil {
		if name := strings.TrimSpace(*patch.Name); name != "" {
			d.Name = name
		}
		touched = true
	}
	if len(patch.ParentID) > 0 {
		parentID, err := decodeParentPatch(folders, patch.ParentID)
		if err != nil {
			return nil, err
		}
		d.ParentID = parentID
		touched = true
	}
	if patch.Content != nil {
		d.Content = *patch.Content
		touched = true
	}
	if touched {
		d.UpdatedAt = time.Now().UTC()
	}
	return d, nil
}

func (s *DocsService) DeleteDocument(documents map[string]*models.Document, docID string) error {
	if _, ok := documents[docID]; !ok {
		return fmt.Errorf("%w: document %s", apperrors.ErrNotFound, docID)
	}
	delete(documents, docID)
	return nil
}

// --------- Notes ----------

type AddNoteRequest struct {
	StartLine int    `json:"start_line"`
	EndLine   *int   `json:"end_line"`
	Text      string `json:"text"`
	Author    string `json:"author"`
}

// AddNote anchors an annotation to an inclusive line range. Text must be
// non-empty after trimming; end_line defaults to start_line.
func (s *DocsService) AddNote(d *models.Document, req AddNoteRequest) (*models.DocNote, error) {
	text := strings.TrimSpace(req.Text)
	if text == "" {
		return nil, fmt.Errorf("%w: note text is required", apperrors.ErrInvalidInput)
	}
	startLine := req.StartLine
	if startLine == 0 {
		startLine = 1
	}
	endLine := startLine
	if req.EndLine != nil {
		endLine = *req.EndLine
	}
	n := &models.DocNote{
		ID:        utils.NewID(),
		StartLine: startLine,
		EndLine:   endLine,
		Text:      text,
		Author:    strings.TrimSpace(req.Author),
		CreatedAt: time.Now().UTC(),
	}
	d.Notes[n.ID] = n
	d.UpdatedAt = time.Now().UTC()
	return n, nil
}

func (s *DocsService) DeleteNote(d *models.Document, noteID string) error {
	if _, ok := d.Notes[noteID]; !ok {
		return fmt.Errorf("%w: note %s", apperrors.ErrNotFound, noteID)
	}
	delete(d.Notes, noteID)
	d.UpdatedAt = time.Now().UTC()
	return nil
}

// --------- Listings ----------

// Summaries produces the minimal sidebar listing: folders and documents
// without content.
func (s *DocsService) Summaries(folders map[string]*models.DocFolder, documents map[string]*models.Document) (map[string]models.FolderSummary, map[string]models.DocumentSummary) {
	mf := make(map[string]models.FolderSummary, len(folders))
	for id, f := range folders {
		mf[id] = models.FolderSummary{ID: f.ID, Name: f.Name, ParentID: f.ParentID}
	}
	md := make(map[string]models.DocumentSummary, len(documents))
	for id, d := range documents {
		md[id] = models.DocumentSummary{ID: d.ID, Name: d.Name, ParentID: d.ParentID, UpdatedAt: d.UpdatedAt}
	}
	return mf, md
}
