// Package openai 提供 OpenAI 兼容的 chat completions 客户端
// 只封装本项目需要的一次性（非流式）补全调用
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// DefaultTimeout 单次补全调用的默认超时时间
const DefaultTimeout = 30 * time.Second

// Message 补全请求中的一条消息
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatCompletionRequest 补全请求体
// Temperature 使用指针：为 nil 时整个字段从请求中省略，
// 用于不接受温度参数的推理型模型
type ChatCompletionRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature *float64  `json:"temperature,omitempty"`
}

// ChatCompletionResponse 补全响应体
type ChatCompletionResponse struct {
	ID      string    `json:"id"`
	Model   string    `json:"model"`
	Choices []Choice  `json:"choices"`
	Error   *APIError `json:"error,omitempty"`
}

// Choice 补全响应中的一个候选
type Choice struct {
	Index        int     `json:"index"`
	Message      Message `json:"message"`
	FinishReason string  `json:"finish_reason"`
}

// APIError OpenAI 风格的错误体
type APIError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
	Code    string `json:"code"`
}

// Client OpenAI 兼容 API 的 HTTP 客户端
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient 创建 Client 实例
// 参数:
//   - baseURL: API 基础地址，如 https://api.openai.com/v1
//   - apiKey: API Key，可以为空（本地部署的兼容端点通常不校验）
//   - timeout: 单次调用超时时间，<=0 时使用 DefaultTimeout
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// CreateChatCompletion 发起一次同步补全调用
// 返回首个候选的文本内容；模型返回空内容时返回空字符串
// 参数:
//   - ctx: 上下文，随请求取消
//   - req: 补全请求
//
// 返回:
//   - string: 生成的回复文本
//   - error: 网络错误、非 2xx 响应或响应体无法解析
func (c *Client) CreateChatCompletion(ctx context.Context, req *ChatCompletionRequest) (string, error) {
	if len(req.Messages) == 0 {
		return "", errors.New("completion request has no messages")
	}

	jsonData, err := json.Marshal(req)
	if err != nil {
		return "", err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/chat/completions", bytes.NewBuffer(jsonData))
	if err != nil {
		return "", err
	}

	httpReq.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("failed to call completion service: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		// 尽量提取 OpenAI 风格的错误信息
		var errResp ChatCompletionResponse
		if json.Unmarshal(bodyBytes, &errResp) == nil && errResp.Error != nil && errResp.Error.Message != "" {
			return "", fmt.Errorf("completion service returned status %d: %s", resp.StatusCode, errResp.Error.Message)
		}
		return "", fmt.Errorf("completion service returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(bodyBytes)))
	}

	var completion ChatCompletionResponse
	if err := json.Unmarshal(bodyBytes, &completion); err != nil {
		return "", fmt.Errorf("failed to parse completion response: %w", err)
	}

	if completion.Error != nil && completion.Error.Message != "" {
		return "", fmt.Errorf("completion service error: %s", completion.Error.Message)
	}

	if len(completion.Choices) == 0 {
		return "", errors.New("completion service returned no choices")
	}

	return completion.Choices[0].Message.Content, nil
}
