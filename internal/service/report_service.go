package service

import (
	"context"
	"time"

	"vigia-data/internal/catalog"
	"vigia-data/internal/ranking"
	"vigia-data/internal/report"
	"vigia-data/internal/search"

	"go.uber.org/zap"
)

// ReportService 报告导出服务接口
type ReportService interface {
	// GenerateText 纯文本报告
	GenerateText(ctx context.Context, residenceID string) (*Document, error)
	// GenerateWorkbook xlsx 报告（含住宅照片，照片拉取失败时降级）
	GenerateWorkbook(ctx context.Context, residenceID string) (*Document, error)
	// GenerateComparison 当前视图的对比 xlsx
	GenerateComparison(ctx context.Context, filters search.Filters, field ranking.Field, order ranking.Order) (*Document, error)
}

// Document 生成的下载文档
type Document struct {
	Filename    string
	ContentType string
	Content     []byte
}

type reportService struct {
	catalog *catalog.Catalog
	images  *report.ImageFetcher
	logger  *zap.Logger
	now     func() time.Time
}

// NewReportService 创建 ReportService 实例
// images 可以为 nil（禁用照片嵌入）
func NewReportService(cat *catalog.Catalog, images *report.ImageFetcher, logger *zap.Logger) ReportService {
	return &reportService{catalog: cat, images: images, logger: logger, now: time.Now}
}

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func (s *reportService) GenerateText(ctx context.Context, residenceID string) (*Document, error) {
	r, ok := s.catalog.ByID(residenceID)
	if !ok {
		return nil, ErrResidenceNotFound
	}
	now := s.now()
	return &Document{
		Filename:    report.Filename(r.ID, "txt", now),
		ContentType: "text/plain; charset=utf-8",
		Content:     []byte(report.BuildText(r, now)),
	}, nil
}

func (s *reportService) GenerateWorkbook(ctx context.Context, residenceID string) (*Document, error) {
	r, ok := s.catalog.ByID(residenceID)
	if !ok {
		return nil, ErrResidenceNotFound
	}

	var image []byte
	if s.images != nil {
		fetched, err := s.images.Fetch(ctx, r.Image)
		if err != nil {
			// degrade to a report without the photo
			s.logger.Warn("residence image fetch failed",
				zap.String("residence_id", r.ID), zap.Error(err))
		} else {
			image = fetched
		}
	}

	now := s.now()
	content, err := report.GenerateWorkbook(r, image, now)
	if err != nil {
		return nil, err
	}
	return &Document{
		Filename:    report.Filename(r.ID, "xlsx", now),
		ContentType: xlsxContentType,
		Content:     content,
	}, nil
}

func (s *reportService) GenerateComparison(ctx context.Context, filters search.Filters, field ranking.Field, order ranking.Order) (*Document, error) {
	view := ranking.Rank(search.Filter(s.catalog.All(), filters), field, order)
	now := s.now()
	content, err := report.GenerateComparison(view, now)
	if err != nil {
		return nil, err
	}
	return &Document{
		Filename:    report.Filename("comparativa", "xlsx", now),
		ContentType: xlsxContentType,
		Content:     content,
	}, nil
}
