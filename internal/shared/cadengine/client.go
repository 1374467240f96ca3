package cadengine

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// =============================================================================
// Client — CAD几何服务客户端
// 负责STEP模型的转换与几何分析：提交文件、轮询结果、健康检查
// =============================================================================

// Client CAD几何服务客户端
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient 创建CAD几何服务客户端实例
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// JobStatus 分析任务状态
const (
	JobStatusPending    = "pending"
	JobStatusProcessing = "processing"
	JobStatusDone       = "done"
	JobStatusFailed     = "failed"
)

// SubmitResult 提交分析任务的响应
type SubmitResult struct {
	JobID  string `json:"job_id"`
	Status string `json:"status"`
}

// AnalysisResult 几何分析结果
type AnalysisResult struct {
	JobID        string   `json:"job_id"`
	Status       string   `json:"status"`
	VolumeMM3    *float64 `json:"volume_mm3,omitempty"`
	SurfaceMM2   *float64 `json:"surface_mm2,omitempty"`
	ThumbnailURL string   `json:"thumbnail_url,omitempty"`
	Error        string   `json:"error,omitempty"`
}

// Health 健康检查
func (c *Client) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return fmt.Errorf("create health request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("cad engine unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("cad engine unhealthy: status %d", resp.StatusCode)
	}
	return nil
}

// SubmitSTEP 提交STEP文件做转换与几何分析
func (c *Client) SubmitSTEP(ctx context.Context, fileName string, file io.Reader) (*SubmitResult, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", fileName)
	if err != nil {
		return nil, fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, fmt.Errorf("copy file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("close multipart writer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/v1/jobs", &buf)
	if err != nil {
		return nil, fmt.Errorf("create submit request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("submit step file: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusAccepted {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("cad engine rejected job: status %d: %s", resp.StatusCode, body)
	}

	var result SubmitResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode submit response: %w", err)
	}
	return &result, nil
}

// GetResult 查询分析任务结果
func (c *Client) GetResult(ctx context.Context, jobID string) (*AnalysisResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/api/v1/jobs/"+jobID, nil)
	if err != nil {
		return nil, fmt.Errorf("create result request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get job result: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("cad engine result failed: status %d", resp.StatusCode)
	}

	var result AnalysisResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode result response: %w", err)
	}

	if result.Status == JobStatusFailed {
		zap.L().Warn("cad engine job failed",
			zap.String("job_id", jobID), zap.String("error", result.Error))
	}
	return &result, nil
}

// WaitForResult 轮询直到任务完成或超时
func (c *Client) WaitForResult(ctx context.Context, jobID string, interval time.Duration) (*AnalysisResult, error) {
	if interval <= 0 {
		interval = 2 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		result, err := c.GetResult(ctx, jobID)
		if err != nil {
			return nil, err
		}
		if result.Status == JobStatusDone || result.Status == JobStatusFailed {
			return result, nil
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}
