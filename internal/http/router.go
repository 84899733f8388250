package httpapi

import (
	"net/http"
	"strings"

	"go.uber.org/zap"
)

// Router 使用标准库 http.ServeMux（避免引入第三方路由依赖）
type Router struct {
	mux    *http.ServeMux
	logger *zap.Logger
}

func NewRouter(logger *zap.Logger) *Router {
	return &Router{
		mux:    http.NewServeMux(),
		logger: logger,
	}
}

func (r *Router) Handle(pattern string, h http.HandlerFunc) {
	r.mux.HandleFunc(pattern, h)
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}

func requireMethod(method string, h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		if req.Method != method {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		h(w, req)
	}
}

// pathID 取前缀之后的单段路径参数，多段或为空时视为无效
func pathID(path, prefix string) (string, bool) {
	id := strings.TrimPrefix(path, prefix)
	if id == "" || strings.Contains(id, "/") {
		return "", false
	}
	return id, true
}

type idHandlerFunc func(w http.ResponseWriter, req *http.Request, id string)

func handleByID(prefix string, method string, h idHandlerFunc) http.HandlerFunc {
	return requireMethod(method, func(w http.ResponseWriter, req *http.Request) {
		id, ok := pathID(req.URL.Path, prefix)
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		h(w, req, id)
	})
}

// RegisterResidenceRoutes 注册与 vigiaFront 对齐的目录/统计/地图路由
func (r *Router) RegisterResidenceRoutes(h *ResidenceHandler) {
	r.Handle("/vigia/api/v1/residences", requireMethod(http.MethodGet, h.Search))
	r.Handle("/vigia/api/v1/residences/rank", requireMethod(http.MethodGet, h.Rank))

	// residences/{id}（rank 由上面的精确匹配优先接管）
	r.Handle("/vigia/api/v1/residences/", handleByID("/vigia/api/v1/residences/", http.MethodGet, h.GetByID))

	r.Handle("/vigia/api/v1/districts", requireMethod(http.MethodGet, h.Districts))
	r.Handle("/vigia/api/v1/stats", requireMethod(http.MethodGet, h.Dashboard))
	r.Handle("/vigia/api/v1/map/markers", requireMethod(http.MethodGet, h.MapMarkers))

	r.Handle("/vigia/api/v1/eta/", handleByID("/vigia/api/v1/eta/", http.MethodGet, h.EstimateETA))
}

// RegisterChecklistRoutes 注册检查表路由
// GET  checklist/{id}          当前状态
// POST checklist/{id}/toggle   勾选/取消一项
// POST checklist/{id}/notes    更新单项备注
// POST checklist/{id}/save     刷新保存时间
// POST checklist/{id}/clear    清空（需确认）
// GET  checklist/{id}/export   导出纯文本
func (r *Router) RegisterChecklistRoutes(h *ChecklistHandler) {
	const prefix = "/vigia/api/v1/checklist/"

	r.Handle(prefix, func(w http.ResponseWriter, req *http.Request) {
		rest := strings.TrimPrefix(req.URL.Path, prefix)
		id, action, _ := strings.Cut(rest, "/")
		if id == "" || strings.Contains(action, "/") {
			w.WriteHeader(http.StatusNotFound)
			return
		}

		switch action {
		case "":
			requireMethod(http.MethodGet, func(w http.ResponseWriter, req *http.Request) {
				h.Get(w, req, id)
			})(w, req)
		case "toggle":
			requireMethod(http.MethodPost, func(w http.ResponseWriter, req *http.Request) {
				h.Toggle(w, req, id)
			})(w, req)
		case "notes":
			requireMethod(http.MethodPost, func(w http.ResponseWriter, req *http.Request) {
				h.Notes(w, req, id)
			})(w, req)
		case "save":
			requireMethod(http.MethodPost, func(w http.ResponseWriter, req *http.Request) {
				h.Save(w, req, id)
			})(w, req)
		case "clear":
			requireMethod(http.MethodPost, func(w http.ResponseWriter, req *http.Request) {
				h.Clear(w, req, id)
			})(w, req)
		case "export":
			requireMethod(http.MethodGet, func(w http.ResponseWriter, req *http.Request) {
				h.Export(w, req, id)
			})(w, req)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})
}

// RegisterReportRoutes 注册报告导出路由
func (r *Router) RegisterReportRoutes(h *ReportHandler) {
	r.Handle("/vigia/api/v1/report/comparison", requireMethod(http.MethodGet, h.Comparison))
	r.Handle("/vigia/api/v1/report/", handleByID("/vigia/api/v1/report/", http.MethodGet, h.Get))
}
