package services

import (
	"fmt"
	"time"

	"vibespace/internal/models"
	"vibespace/internal/utils"
)

// ShareService resolves capability tokens: which documents and folders a
// token holder may see, and whether the requester may edit.
type ShareService struct{}

func NewShareService() *ShareService {
	return &ShareService{}
}

// NewShare mints a capability. The generated id is the token.
func (s *ShareService) NewShare(pin, kind, targetID string) *models.DocShare {
	return &models.DocShare{
		ID:        utils.NewID(),
		Pin:       pin,
		Kind:      kind,
		TargetID:  targetID,
		CreatedAt: time.Now().UTC(),
	}
}

// ResolveSubtree collects rootID and every folder whose ancestor chain
// reaches it. The visited set makes the walk safe against corrupt cyclic
// parent chains in stored data.
func (s *ShareService) ResolveSubtree(folders map[string]*models.DocFolder, rootID string) map[string]bool {
	subtree := map[string]bool{rootID: true}
	pending := []string{rootID}
	for len(pending) > 0 {
		current := pending[len(pending)-1]
		pending = pending[:len(pending)-1]
		for id, f := range folders {
			if f.ParentID != nil && *f.ParentID == current && !subtree[id] {
				subtree[id] = true
				pending = append(pending, id)
			}
		}
	}
	return subtree
}

// AuthorizeDocument reports whether the share grants access to doc. A
// doc share authorizes exactly its target; a folder share authorizes any
// document whose parent folder lies in the resolved subtree.
func (s *ShareService) AuthorizeDocument(share *models.DocShare, folders map[string]*models.DocFolder, doc *models.Document) bool {
	switch share.Kind {
	case models.ShareDoc:
		return share.TargetID == doc.ID
	case models.ShareFolder:
		if doc.ParentID == nil {
			return false
		}
		return s.ResolveSubtree(folders, share.TargetID)[*doc.ParentID]
	}
	return false
}

// AuthorizeFolder applies the identical rule to a sub-folder.
func (s *ShareService) AuthorizeFolder(share *models.DocShare, folders map[string]*models.DocFolder, folderID string) bool {
	if share.Kind != models.ShareFolder {
		return false
	}
	return s.ResolveSubtree(folders, share.TargetID)[folderID]
}

// CanEdit is orthogonal to authorization: only the owning tenant viewing
// their own share link may edit. Every other token holder is read-only,
// except for note adding which is intentionally open to share holders.
func (s *ShareService) CanEdit(share *models.DocShare, pin string) bool {
	return pin != "" && pin == share.Pin
}

// Canonical navigable paths for share targets.

func (s *ShareService) SharedDocPath(token string) string {
	return fmt.Sprintf("/s/d/%s", token)
}

func (s *ShareService) SharedFolderPath(token string) string {
	return fmt.Sprintf("/s/f/%s", token)
}

func (s *ShareService) SharedFolderDocPath(token, docID string) string {
	return fmt.Sprintf("/s/f/%s/d/%s", token, docID)
}

func (s *ShareService) SharedFolderSubPath(token, folderID string) string {
	return fmt.Sprintf("/s/f/%s/f/%s", token, folderID)
}

// SharedSummaries is the minimal listing scoped to an authorized
// subtree: folders inside it and documents parented under it.
func (s *ShareService) SharedSummaries(share *models.DocShare, folders map[string]*models.DocFolder, documents map[string]*models.Document) (map[string]models.FolderSummary, map[string]models.DocumentSummary) {
	subtree := s.ResolveSubtree(folders, share.TargetID)
	mf := make(map[string]models.FolderSummary)
	for id := range subtree {
		if f, ok := folders[id]; ok {
			mf[id] = models.FolderSummary{ID: f.ID, Name: f.Name, ParentID: f.ParentID}
		}
	}
	md := make(map[string]models.DocumentSummary)
	for id, d := range documents {
		if d.ParentID != nil && subtree[*d.ParentID] {
			md[id] = models.DocumentSummary{ID: d.ID, Name: d.Name, ParentID: d.ParentID, UpdatedAt: d.UpdatedAt}
		}
	}
	return mf, md
}
