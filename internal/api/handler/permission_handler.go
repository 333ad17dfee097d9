package handler

import (
	"encoding/json"
	"net/http"

	"github.com/dorfportal/reminder-service/internal/permissions"
)

// PermissionHandler previews a permission-set edit: the admin UI posts the
// currently selected set plus one checkbox change, and receives the set
// after dependency resolution (implied views added, dependents cascaded
// away). The resolver is pure; persistence of the final set is a separate
// concern of the user-admin screens.
type PermissionHandler struct{}

func NewPermissionHandler() *PermissionHandler { return &PermissionHandler{} }

type permissionPreviewRequest struct {
	Selected   []string `json:"selected"`
	Op         string   `json:"op"` // "select" or "deselect"
	Permission string   `json:"permission"`
}

type permissionPreviewResponse struct {
	Selected []string `json:"selected"`
}

// Preview handles POST /api/v1/permissions/preview
func (h *PermissionHandler) Preview(w http.ResponseWriter, r *http.Request) {
	var req permissionPreviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	set := permissions.Normalize(permissions.NewSet(req.Selected...))

	var (
		result permissions.Set
		err    error
	)
	switch req.Op {
	case "select":
		result, err = permissions.Select(set, req.Permission)
	case "deselect":
		result, err = permissions.Deselect(set, req.Permission)
	default:
		respondError(w, http.StatusBadRequest, "op must be select or deselect")
		return
	}
	if err != nil {
		mapError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, permissionPreviewResponse{Selected: result.Slice()})
}
