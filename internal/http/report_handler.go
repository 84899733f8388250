package httpapi

import (
	"errors"
	"net/http"

	"vigia-data/internal/ranking"
	"vigia-data/internal/service"

	"go.uber.org/zap"
)

// ReportHandler 报告导出 API
type ReportHandler struct {
	reports service.ReportService
	logger  *zap.Logger
}

func NewReportHandler(reports service.ReportService, logger *zap.Logger) *ReportHandler {
	return &ReportHandler{reports: reports, logger: logger}
}

// GET /vigia/api/v1/report/{id}?format=txt|xlsx (默认 txt)
func (h *ReportHandler) Get(w http.ResponseWriter, r *http.Request, id string) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = "txt"
	}

	var doc *service.Document
	var err error
	switch format {
	case "txt":
		doc, err = h.reports.GenerateText(r.Context(), id)
	case "xlsx":
		doc, err = h.reports.GenerateWorkbook(r.Context(), id)
	default:
		writeJSON(w, http.StatusBadRequest, Fail("unknown report format"))
		return
	}
	if err != nil {
		if errors.Is(err, service.ErrResidenceNotFound) {
			writeJSON(w, http.StatusNotFound, Fail("residence not found"))
			return
		}
		h.logger.Error("report generation failed",
			zap.String("residence_id", id), zap.String("format", format), zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, Fail("report generation failed"))
		return
	}
	writeDownload(w, doc.Filename, doc.ContentType, doc.Content)
}

// GET /vigia/api/v1/report/comparison
// 导出当前视图（过滤 + 排序参数与列表接口一致）的对比 xlsx
func (h *ReportHandler) Comparison(w http.ResponseWriter, r *http.Request) {
	field, err := ranking.ParseField(r.URL.Query().Get("field"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, Fail(err.Error()))
		return
	}
	order, err := ranking.ParseOrder(r.URL.Query().Get("order"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, Fail(err.Error()))
		return
	}

	doc, err := h.reports.GenerateComparison(r.Context(), filtersFromQuery(r), field, order)
	if err != nil {
		h.logger.Error("comparison export failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, Fail("report generation failed"))
		return
	}
	writeDownload(w, doc.Filename, doc.ContentType, doc.Content)
}
