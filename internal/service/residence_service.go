package service

import (
	"context"
	"errors"

	"vigia-data/internal/catalog"
	"vigia-data/internal/domain"
	"vigia-data/internal/eta"
	"vigia-data/internal/mapview"
	"vigia-data/internal/ranking"
	"vigia-data/internal/search"

	"go.uber.org/zap"
)

// ErrResidenceNotFound 住宅编号不存在
var ErrResidenceNotFound = errors.New("residence not found")

// 高管视图的列表上限
const (
	topRiskLimit = 3
	alertsLimit  = 6
)

// ResidenceService 住宅目录查询服务接口
type ResidenceService interface {
	// 查询
	SearchResidences(ctx context.Context, req SearchRequest) (*SearchResponse, error)
	RankResidences(ctx context.Context, req RankRequest) (*RankResponse, error)
	GetResidence(ctx context.Context, residenceID string) (*domain.Residence, error)
	ListDistricts(ctx context.Context) []string

	// 汇总
	GetDashboard(ctx context.Context) (*DashboardResponse, error)
	GetMapMarkers(ctx context.Context) (*MapMarkersResponse, error)

	// 到达时间估算
	EstimateETA(ctx context.Context, req ETARequest) (*ETAResponse, error)
}

// residenceService 实现
type residenceService struct {
	catalog *catalog.Catalog
	logger  *zap.Logger
}

// NewResidenceService 创建 ResidenceService 实例
func NewResidenceService(cat *catalog.Catalog, logger *zap.Logger) ResidenceService {
	return &residenceService{catalog: cat, logger: logger}
}

// ============================================
// Request/Response DTOs
// ============================================

// SearchRequest 过滤查询请求
type SearchRequest struct {
	Filters search.Filters
}

// SearchResponse 过滤查询结果：命中列表 + 当前视图统计
type SearchResponse struct {
	Residences []domain.Residence `json:"residences"`
	Stats      ranking.ViewStats  `json:"stats"`
	TotalCount int                `json:"totalCount"` // 目录总数（未过滤）
}

// RankRequest 排序请求（可叠加过滤条件）
type RankRequest struct {
	Filters search.Filters
	Field   ranking.Field
	Order   ranking.Order
}

// RankResponse 排序结果
type RankResponse struct {
	Residences []domain.Residence `json:"residences"`
	Stats      ranking.ViewStats  `json:"stats"`
}

// DashboardResponse 全局统计（高管视图）
type DashboardResponse struct {
	Stats           ranking.ViewStats      `json:"stats"`
	DistrictSummary []ranking.DistrictStat `json:"districtSummary"`
	TopRisk         []domain.Residence     `json:"topRisk"`
	Alerts          []ranking.Alert        `json:"alerts"`
}

// MapMarkersResponse 地图标记集合
type MapMarkersResponse struct {
	Residences []mapview.Marker `json:"residences"`
	Services   []mapview.Marker `json:"services"`
}

// ETARequest 到达时间估算请求
type ETARequest struct {
	ResidenceID string
	ServiceType eta.ServiceType
}

// ETAResponse 到达时间估算结果
type ETAResponse struct {
	ResidenceID string       `json:"residenceId"`
	Distrito    string       `json:"distrito"`
	Results     []eta.Result `json:"results"`
	Stats       eta.Stats    `json:"stats"`
}

// ============================================
// 实现
// ============================================

func (s *residenceService) SearchResidences(ctx context.Context, req SearchRequest) (*SearchResponse, error) {
	view := search.Filter(s.catalog.All(), req.Filters)
	return &SearchResponse{
		Residences: view,
		Stats:      ranking.Compute(view),
		TotalCount: s.catalog.Count(),
	}, nil
}

func (s *residenceService) RankResidences(ctx context.Context, req RankRequest) (*RankResponse, error) {
	view := search.Filter(s.catalog.All(), req.Filters)
	ranked := ranking.Rank(view, req.Field, req.Order)
	return &RankResponse{
		Residences: ranked,
		Stats:      ranking.Compute(ranked),
	}, nil
}

func (s *residenceService) GetResidence(ctx context.Context, residenceID string) (*domain.Residence, error) {
	r, ok := s.catalog.ByID(residenceID)
	if !ok {
		return nil, ErrResidenceNotFound
	}
	return &r, nil
}

func (s *residenceService) ListDistricts(ctx context.Context) []string {
	return s.catalog.Districts()
}

func (s *residenceService) GetDashboard(ctx context.Context) (*DashboardResponse, error) {
	all := s.catalog.All()
	return &DashboardResponse{
		Stats:           ranking.Compute(all),
		DistrictSummary: ranking.DistrictSummary(all),
		TopRisk:         ranking.TopRisk(all, topRiskLimit),
		Alerts:          ranking.Alerts(all, alertsLimit),
	}, nil
}

func (s *residenceService) GetMapMarkers(ctx context.Context) (*MapMarkersResponse, error) {
	return &MapMarkersResponse{
		Residences: mapview.ResidenceMarkers(s.catalog.All(), s.catalog.LocationOf),
		Services:   mapview.ServiceMarkers(s.catalog.ServiceCoords()),
	}, nil
}

func (s *residenceService) EstimateETA(ctx context.Context, req ETARequest) (*ETAResponse, error) {
	r, ok := s.catalog.ByID(req.ResidenceID)
	if !ok {
		return nil, ErrResidenceNotFound
	}
	results := eta.Estimate(r, s.catalog.ServicesFor, req.ServiceType)
	return &ETAResponse{
		ResidenceID: r.ID,
		Distrito:    domain.DistrictOf(r.Address),
		Results:     results,
		Stats:       eta.ComputeStats(results),
	}, nil
}
