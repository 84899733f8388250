package report

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// ImageFetcher 住宅照片拉取客户端（报告嵌图用）。
// Fetch failures are expected (assets host may be unreachable from the
// service); callers degrade to a report without the photo.
type ImageFetcher struct {
	httpClient *resty.Client
	logger     *zap.Logger
}

// NewImageFetcher 创建照片拉取客户端
// baseURL 为空时按数据集中的绝对 URL 拉取
func NewImageFetcher(baseURL string, timeout time.Duration, logger *zap.Logger) *ImageFetcher {
	client := resty.New().
		SetTimeout(timeout).
		SetRetryCount(2).
		SetRetryWaitTime(500 * time.Millisecond).
		SetHeader("Accept", "image/jpeg, image/png")
	if baseURL != "" {
		client.SetBaseURL(baseURL)
	}
	return &ImageFetcher{httpClient: client, logger: logger}
}

// Fetch 拉取住宅照片；非 http(s) 引用直接跳过（返回 nil, nil）
func (f *ImageFetcher) Fetch(ctx context.Context, ref string) ([]byte, error) {
	if ref == "" {
		return nil, nil
	}
	if f.httpClient.BaseURL == "" && !strings.HasPrefix(ref, "http://") && !strings.HasPrefix(ref, "https://") {
		// local asset path rendered by the front end, nothing to fetch here
		return nil, nil
	}

	resp, err := f.httpClient.R().SetContext(ctx).Get(ref)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("asset fetch returned status %d", resp.StatusCode())
	}
	return resp.Body(), nil
}
