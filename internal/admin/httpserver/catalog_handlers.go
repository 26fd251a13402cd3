package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"akvapump.com/site-admin/internal/admin/catalog"
	custommw "akvapump.com/site-admin/internal/admin/httpserver/middleware"
	"akvapump.com/site-admin/internal/admin/overview"
	"akvapump.com/site-admin/internal/platform/httpx"
)

const maxUploadBytes = 32 << 20

type catalogHandlers struct {
	store    *catalog.Store
	workflow *catalog.ChildWorkflow
	svc      catalog.Service
}

func (h *catalogHandlers) overview(w http.ResponseWriter, r *http.Request) {
	entries, err := h.store.LoadList(r.Context(), requestToken(r))
	if err != nil {
		writeCatalogError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, overview.BuildReport(entries))
}

func (h *catalogHandlers) list(w http.ResponseWriter, r *http.Request) {
	entries, err := h.store.LoadList(r.Context(), requestToken(r))
	if err != nil {
		writeCatalogError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, entries)
}

func (h *catalogHandlers) detail(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	entry, err := h.store.LoadDetail(r.Context(), requestToken(r), id)
	if err != nil {
		writeCatalogError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, entry)
}

func (h *catalogHandlers) draft(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Lang     string `json:"lang"`
		ParentID *int64 `json:"parentId"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	httpx.WriteJSON(w, http.StatusOK, h.store.NewDraft(req.Lang, req.ParentID))
}

func (h *catalogHandlers) save(w http.ResponseWriter, r *http.Request) {
	var live catalog.Entry
	if !decodeJSON(w, r, &live) {
		return
	}
	saved, err := h.store.Save(r.Context(), requestToken(r), live)
	if err != nil {
		writeCatalogError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, saved)
}

func (h *catalogHandlers) remove(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	if err := h.store.Remove(r.Context(), requestToken(r), id); err != nil {
		writeCatalogError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, h.store.Entries())
}

func (h *catalogHandlers) toggle(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	active, err := h.store.ToggleActive(r.Context(), requestToken(r), id)
	if err != nil {
		writeCatalogError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{"id": id, "active": active})
}

func (h *catalogHandlers) move(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	var req struct {
		Direction string `json:"direction"`
		Lang      string `json:"lang"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	dir, err := parseDirection(req.Direction)
	if err != nil {
		httpx.WriteError(r.Context(), w, httpx.NewError("invalid_direction", err.Error(), http.StatusBadRequest))
		return
	}
	if err := h.store.Move(r.Context(), requestToken(r), id, dir, req.Lang); err != nil {
		writeCatalogError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, h.store.Entries())
}

func (h *catalogHandlers) preview(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	entry, err := h.store.LoadDetail(r.Context(), requestToken(r), id)
	if err != nil {
		writeCatalogError(w, r, err)
		return
	}
	lang := r.URL.Query().Get("lang")
	p, ok := overview.BuildPreview(entry, lang)
	if !ok {
		httpx.WriteError(r.Context(), w,
			httpx.NewError("translation_missing", "entry has no translation for "+lang, http.StatusNotFound))
		return
	}
	httpx.WriteJSON(w, http.StatusOK, p)
}

// featureGroups reports the frequency grouping of an entry's features for one
// language: the selectable group options plus the features visible in the
// requested group.
func (h *catalogHandlers) featureGroups(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	entry, err := h.store.LoadDetail(r.Context(), requestToken(r), id)
	if err != nil {
		writeCatalogError(w, r, err)
		return
	}

	groups := catalog.NewFeatureGroups(r.URL.Query().Get("lang"))
	if freq := strings.TrimSpace(r.URL.Query().Get("freq")); freq != "" {
		parsed, err := strconv.Atoi(freq)
		if err != nil {
			httpx.WriteError(r.Context(), w, httpx.NewError("invalid_frequency", "freq must be an integer", http.StatusBadRequest))
			return
		}
		groups.Select(&parsed)
	}

	httpx.WriteJSON(w, http.StatusOK, map[string]any{
		"lang":     groups.Lang(),
		"options":  groups.Options(entry.Features),
		"features": groups.Visible(entry.Features),
	})
}

func (h *catalogHandlers) beginChild(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Lang string `json:"lang"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	child, err := h.workflow.Begin(r.Context(), requestToken(r), req.Lang)
	if err != nil {
		writeCatalogError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, child)
}

func (h *catalogHandlers) openChild(w http.ResponseWriter, r *http.Request) {
	parentID, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	childID, ok := idParam(w, r, "childID")
	if !ok {
		return
	}
	child, err := h.workflow.Open(r.Context(), requestToken(r), parentID, childID)
	if err != nil {
		writeCatalogError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, child)
}

func (h *catalogHandlers) saveChild(w http.ResponseWriter, r *http.Request) {
	var child catalog.Entry
	if !decodeJSON(w, r, &child) {
		return
	}
	saved, err := h.workflow.Save(r.Context(), requestToken(r), child)
	if err != nil {
		writeCatalogError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, saved)
}

func (h *catalogHandlers) removeChild(w http.ResponseWriter, r *http.Request) {
	parentID, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	childID, ok := idParam(w, r, "childID")
	if !ok {
		return
	}
	if err := h.workflow.Delete(r.Context(), requestToken(r), parentID, childID); err != nil {
		writeCatalogError(w, r, err)
		return
	}
	parent, _ := h.store.Live()
	httpx.WriteJSON(w, http.StatusOK, parent)
}

func (h *catalogHandlers) toggleChild(w http.ResponseWriter, r *http.Request) {
	parentID, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	childID, ok := idParam(w, r, "childID")
	if !ok {
		return
	}
	active, err := h.workflow.Toggle(r.Context(), requestToken(r), parentID, childID)
	if err != nil {
		writeCatalogError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{"id": childID, "active": active})
}

func (h *catalogHandlers) upload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		httpx.WriteError(r.Context(), w, httpx.NewError("invalid_upload", "malformed multipart body", http.StatusBadRequest))
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		httpx.WriteError(r.Context(), w, httpx.NewError("invalid_upload", "missing file field", http.StatusBadRequest))
		return
	}
	defer file.Close()

	url, err := h.svc.Upload(r.Context(), requestToken(r), header.Filename, file)
	if err != nil {
		writeCatalogError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]string{"url": url})
}

func requestToken(r *http.Request) string {
	if user, ok := custommw.UserFromContext(r.Context()); ok && user != nil {
		return user.Token
	}
	return ""
}

func idParam(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		httpx.WriteError(r.Context(), w,
			httpx.NewError("invalid_id", "path parameter "+name+" must be a positive integer", http.StatusBadRequest))
		return 0, false
	}
	return id, true
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		httpx.WriteError(r.Context(), w,
			httpx.NewError("invalid_body", "malformed JSON request body", http.StatusBadRequest))
		return false
	}
	return true
}

func parseDirection(raw string) (catalog.Direction, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "up":
		return catalog.DirectionUp, nil
	case "down":
		return catalog.DirectionDown, nil
	default:
		return "", errors.New("direction must be up or down")
	}
}

func writeCatalogError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, catalog.ErrEntryNotFound):
		httpx.WriteError(r.Context(), w, httpx.NewError("not_found", err.Error(), http.StatusNotFound))
	case errors.Is(err, catalog.ErrNoTitle):
		httpx.WriteError(r.Context(), w, httpx.NewError("validation_failed", err.Error(), http.StatusUnprocessableEntity))
	case errors.Is(err, catalog.ErrNoEntryLoaded), errors.Is(err, catalog.ErrParentNotPersisted):
		httpx.WriteError(r.Context(), w, httpx.NewError("conflict", err.Error(), http.StatusConflict))
	case errors.Is(err, catalog.ErrLoadFailed), errors.Is(err, catalog.ErrSaveFailed):
		httpx.WriteError(r.Context(), w, httpx.NewError("backend_error", err.Error(), http.StatusBadGateway))
	default:
		httpx.WriteError(r.Context(), w, httpx.NewError("internal_error", err.Error(), http.StatusInternalServerError))
	}
}
