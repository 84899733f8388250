package httpapi

import (
	"errors"
	"net/http"
	"time"

	"vigia-data/internal/checklist"
	"vigia-data/internal/service"

	"go.uber.org/zap"
)

const maxBodyBytes = 64 * 1024

// ChecklistHandler 检查表 API
type ChecklistHandler struct {
	tracker *checklist.Tracker
	svc     service.ResidenceService
	logger  *zap.Logger
}

func NewChecklistHandler(tracker *checklist.Tracker, svc service.ResidenceService, logger *zap.Logger) *ChecklistHandler {
	return &ChecklistHandler{tracker: tracker, svc: svc, logger: logger}
}

type checklistItemRequest struct {
	ItemID string `json:"item_id"`
	Notes  string `json:"notes"`
}

type checklistClearRequest struct {
	Confirm bool `json:"confirm"`
}

// resolve 校验住宅编号，未知编号统一返回 404
func (h *ChecklistHandler) resolve(w http.ResponseWriter, r *http.Request, id string) (string, bool) {
	res, err := h.svc.GetResidence(r.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrResidenceNotFound) {
			writeJSON(w, http.StatusNotFound, Fail("residence not found"))
			return "", false
		}
		h.logger.Error("resolve residence failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, Fail("internal error"))
		return "", false
	}
	return res.Name, true
}

func (h *ChecklistHandler) writeChecklist(w http.ResponseWriter, c *checklist.Checklist, err error) {
	if err != nil {
		if errors.Is(err, checklist.ErrItemNotFound) {
			writeJSON(w, http.StatusNotFound, Fail("checklist item not found"))
			return
		}
		h.logger.Error("checklist operation failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, Fail("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, Ok(c))
}

// GET /vigia/api/v1/checklist/{id}
func (h *ChecklistHandler) Get(w http.ResponseWriter, r *http.Request, id string) {
	if _, ok := h.resolve(w, r, id); !ok {
		return
	}
	c, err := h.tracker.Load(r.Context(), id)
	h.writeChecklist(w, c, err)
}

// POST /vigia/api/v1/checklist/{id}/toggle  body: {"item_id": "..."}
func (h *ChecklistHandler) Toggle(w http.ResponseWriter, r *http.Request, id string) {
	if _, ok := h.resolve(w, r, id); !ok {
		return
	}
	var req checklistItemRequest
	if err := readBodyJSON(r, maxBodyBytes, &req); err != nil || req.ItemID == "" {
		writeJSON(w, http.StatusBadRequest, Fail("item_id is required"))
		return
	}
	c, err := h.tracker.Toggle(r.Context(), id, req.ItemID)
	h.writeChecklist(w, c, err)
}

// POST /vigia/api/v1/checklist/{id}/notes  body: {"item_id": "...", "notes": "..."}
func (h *ChecklistHandler) Notes(w http.ResponseWriter, r *http.Request, id string) {
	if _, ok := h.resolve(w, r, id); !ok {
		return
	}
	var req checklistItemRequest
	if err := readBodyJSON(r, maxBodyBytes, &req); err != nil || req.ItemID == "" {
		writeJSON(w, http.StatusBadRequest, Fail("item_id is required"))
		return
	}
	c, err := h.tracker.UpdateNotes(r.Context(), id, req.ItemID, req.Notes)
	h.writeChecklist(w, c, err)
}

// POST /vigia/api/v1/checklist/{id}/save
func (h *ChecklistHandler) Save(w http.ResponseWriter, r *http.Request, id string) {
	if _, ok := h.resolve(w, r, id); !ok {
		return
	}
	c, err := h.tracker.Save(r.Context(), id)
	h.writeChecklist(w, c, err)
}

// POST /vigia/api/v1/checklist/{id}/clear  body: {"confirm": true}
// 清空是破坏性操作，必须显式确认
func (h *ChecklistHandler) Clear(w http.ResponseWriter, r *http.Request, id string) {
	if _, ok := h.resolve(w, r, id); !ok {
		return
	}
	var req checklistClearRequest
	if err := readBodyJSON(r, maxBodyBytes, &req); err != nil || !req.Confirm {
		writeJSON(w, http.StatusBadRequest, Fail("confirmation required"))
		return
	}
	c, err := h.tracker.Clear(r.Context(), id)
	h.writeChecklist(w, c, err)
}

// GET /vigia/api/v1/checklist/{id}/export
func (h *ChecklistHandler) Export(w http.ResponseWriter, r *http.Request, id string) {
	name, ok := h.resolve(w, r, id)
	if !ok {
		return
	}
	text, err := h.tracker.ExportText(r.Context(), id, name)
	if err != nil {
		h.logger.Error("checklist export failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, Fail("internal error"))
		return
	}
	filename := "checklist_" + id + "_" + time.Now().Format("2006-01-02") + ".txt"
	writeDownload(w, filename, "text/plain; charset=utf-8", []byte(text))
}
