package api

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/safar/makeup-inventory/internal/catalog"
	"github.com/safar/makeup-inventory/internal/inventory"
	"github.com/safar/makeup-inventory/internal/models"
	"github.com/safar/makeup-inventory/internal/validation"
)

// maxImportSize bounds an uploaded CSV body.
var maxImportSize int64 = 10 << 20

type ProductHandler struct {
	service    *inventory.Service
	workspaces *inventory.Workspaces
}

func (h *ProductHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Put("/{id}", h.update)
	r.Delete("/{id}", h.delete)
	r.Post("/undo", h.undo)

	r.Post("/export/csv", h.exportCSV)
	r.Post("/import/csv", h.importCSV)
	r.Post("/export/log", h.exportLog)
	r.With(adminOnly).Post("/export/backup", h.exportBackup)
}

type searchErrorResponse struct {
	Error string `json:"error"`
	catalog.Result
}

type mutationResponse struct {
	Product *models.Product `json:"product"`
	CanUndo bool            `json:"can_undo"`
}

type exportResponse struct {
	Path  string `json:"path"`
	Count int64  `json:"count"`
}

type importResponse struct {
	*inventory.ImportReport
	Skipped []string `json:"skipped"`
}

func (h *ProductHandler) workspace(r *http.Request) *inventory.Workspace {
	claims, _ := claimsFromContext(r.Context())
	return h.workspaces.Get(claims.SessionID)
}

// list applies the filter from the query string. A rejected filter answers
// 400 and carries the previous result unchanged.
func (h *ProductHandler) list(w http.ResponseWriter, r *http.Request) {
	ws := h.workspace(r)
	q := r.URL.Query()

	if refresh, _ := strconv.ParseBool(q.Get("refresh")); refresh {
		if _, err := ws.Refresh(r.Context()); err != nil {
			respondErr(w, r, err)
			return
		}
	}

	result, err := ws.Search(r.Context(), q.Get("q"), q.Get("category"), q.Get("min_price"), q.Get("max_price"))
	if err != nil {
		if statusFromError(err) == http.StatusBadRequest {
			respondJSON(w, http.StatusBadRequest, searchErrorResponse{Error: err.Error(), Result: result})
			return
		}
		respondErr(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}

func (h *ProductHandler) create(w http.ResponseWriter, r *http.Request) {
	var form validation.ProductForm
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	ws := h.workspace(r)
	product, err := ws.Add(r.Context(), form)
	if err != nil {
		respondErr(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, mutationResponse{Product: product, CanUndo: ws.CanUndo()})
}

func (h *ProductHandler) update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid product ID")
		return
	}

	var form validation.ProductForm
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	ws := h.workspace(r)
	product, err := ws.Update(r.Context(), id, form)
	if err != nil {
		respondErr(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, mutationResponse{Product: product, CanUndo: ws.CanUndo()})
}

func (h *ProductHandler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid product ID")
		return
	}

	ws := h.workspace(r)
	product, err := ws.Delete(r.Context(), id)
	if err != nil {
		respondErr(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, mutationResponse{Product: product, CanUndo: ws.CanUndo()})
}

func (h *ProductHandler) undo(w http.ResponseWriter, r *http.Request) {
	ws := h.workspace(r)
	product, err := ws.Undo(r.Context())
	if err != nil {
		respondErr(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, mutationResponse{Product: product, CanUndo: ws.CanUndo()})
}

func (h *ProductHandler) exportCSV(w http.ResponseWriter, r *http.Request) {
	n, err := h.service.ExportCSV(r.Context())
	if err != nil {
		respondErr(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, exportResponse{Path: h.service.Files().CSVPath, Count: int64(n)})
}

// importCSV reads the request body when one is sent and the inventory CSV
// file otherwise.
func (h *ProductHandler) importCSV(w http.ResponseWriter, r *http.Request) {
	var body io.Reader
	if r.ContentLength != 0 {
		body = http.MaxBytesReader(w, r.Body, maxImportSize)
	}

	report, err := h.workspace(r).ImportCSV(r.Context(), body)
	if err != nil {
		respondErr(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, importResponse{ImportReport: report, Skipped: report.SkippedLines()})
}

func (h *ProductHandler) exportLog(w http.ResponseWriter, r *http.Request) {
	n, err := h.service.ExportLog(r.Context())
	if err != nil {
		respondErr(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, exportResponse{Path: h.service.Files().BackupPath, Count: n})
}

func (h *ProductHandler) exportBackup(w http.ResponseWriter, r *http.Request) {
	n, err := h.service.ExportBackup(r.Context())
	if err != nil {
		respondErr(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, exportResponse{Path: h.service.Files().BackupPath, Count: int64(n)})
}
