package httpapi

import (
	"errors"
	"net/http"

	"vigia-data/internal/eta"
	"vigia-data/internal/ranking"
	"vigia-data/internal/search"
	"vigia-data/internal/service"

	"go.uber.org/zap"
)

// ResidenceHandler 住宅目录查询 API
type ResidenceHandler struct {
	svc    service.ResidenceService
	logger *zap.Logger
}

func NewResidenceHandler(svc service.ResidenceService, logger *zap.Logger) *ResidenceHandler {
	return &ResidenceHandler{svc: svc, logger: logger}
}

// filtersFromQuery 查询参数 → 过滤条件
// q? string, distrito? string, risk_level? string, score_min/score_max? int (默认 0/100)
func filtersFromQuery(r *http.Request) search.Filters {
	f := search.DefaultFilters()
	q := r.URL.Query()
	f.SearchTerm = q.Get("q")
	f.Distrito = q.Get("distrito")
	f.RiskLevel = q.Get("risk_level")
	f.RiskScoreMin = parseInt(q.Get("score_min"), 0)
	f.RiskScoreMax = parseInt(q.Get("score_max"), 100)
	return f
}

// GET /vigia/api/v1/residences
func (h *ResidenceHandler) Search(w http.ResponseWriter, r *http.Request) {
	resp, err := h.svc.SearchResidences(r.Context(), service.SearchRequest{Filters: filtersFromQuery(r)})
	if err != nil {
		h.logger.Error("search residences failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, Fail("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, Ok(resp))
}

// GET /vigia/api/v1/residences/rank
// params: field? (riskScore|threatLevel|vulnerabilityLevel), order? (asc|desc) + 过滤参数
func (h *ResidenceHandler) Rank(w http.ResponseWriter, r *http.Request) {
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

	resp, err := h.svc.RankResidences(r.Context(), service.RankRequest{
		Filters: filtersFromQuery(r),
		Field:   field,
		Order:   order,
	})
	if err != nil {
		h.logger.Error("rank residences failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, Fail("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, Ok(resp))
}

// GET /vigia/api/v1/residences/{id}
func (h *ResidenceHandler) GetByID(w http.ResponseWriter, r *http.Request, id string) {
	res, err := h.svc.GetResidence(r.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrResidenceNotFound) {
			writeJSON(w, http.StatusNotFound, Fail("residence not found"))
			return
		}
		h.logger.Error("get residence failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, Fail("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, Ok(res))
}

// GET /vigia/api/v1/districts
func (h *ResidenceHandler) Districts(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, Ok(h.svc.ListDistricts(r.Context())))
}

// GET /vigia/api/v1/stats
func (h *ResidenceHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	resp, err := h.svc.GetDashboard(r.Context())
	if err != nil {
		h.logger.Error("dashboard stats failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, Fail("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, Ok(resp))
}

// GET /vigia/api/v1/map/markers
func (h *ResidenceHandler) MapMarkers(w http.ResponseWriter, r *http.Request) {
	resp, err := h.svc.GetMapMarkers(r.Context())
	if err != nil {
		h.logger.Error("map markers failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, Fail("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, Ok(resp))
}

// GET /vigia/api/v1/eta/{id}
// params: service? (all|policia|bomberos|ambulancia，默认 all)
func (h *ResidenceHandler) EstimateETA(w http.ResponseWriter, r *http.Request, id string) {
	svcType := r.URL.Query().Get("service")
	if svcType == "" {
		svcType = string(eta.ServiceAll)
	}
	if !eta.ValidServiceType(svcType) {
		writeJSON(w, http.StatusBadRequest, Fail("unknown service type"))
		return
	}

	resp, err := h.svc.EstimateETA(r.Context(), service.ETARequest{
		ResidenceID: id,
		ServiceType: eta.ServiceType(svcType),
	})
	if err != nil {
		if errors.Is(err, service.ErrResidenceNotFound) {
			writeJSON(w, http.StatusNotFound, Fail("residence not found"))
			return
		}
		h.logger.Error("eta estimate failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, Fail("internal error"))
		return
	}
	// 空结果不是错误：前端渲染 "no hay servicios disponibles"
	writeJSON(w, http.StatusOK, Ok(resp))
}
