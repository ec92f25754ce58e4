package ai

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

	"wealthee/internal/config"
)

// Client 外部文本生成服务客户端（chat completions 协议）
// 服务不可用是常态而非异常：调用方必须准备好本地降级路径
type Client struct {
	apiURL  string
	apiKey  string
	model   string
	httpCli *http.Client
}

var ErrUnavailable = errors.New("文本生成服务未配置")

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
	Stream   bool          `json:"stream"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func NewClient(cfg *config.AIConfig) *Client {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		apiURL: cfg.APIURL,
		apiKey: cfg.APIKey,
		model:  cfg.Model,
		httpCli: &http.Client{
			Timeout: timeout,
		},
	}
}

// Available 未配置 API Key 时直接走本地降级，不发请求
func (c *Client) Available() bool {
	return c.apiKey != ""
}

// Complete 发送单轮对话，返回模型生成的纯文本
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	if !c.Available() {
		return "", ErrUnavailable
	}

	body, err := json.Marshal(chatRequest{
		Model:    c.model,
		Messages: []chatMessage{{Role: "user", Content: prompt}},
		Stream:   false,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpCli.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("文本生成服务返回 %d: %s", resp.StatusCode, string(raw))
	}

	var parsed chatResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", fmt.Errorf("响应解析失败: %w", err)
	}
	if len(parsed.Choices) == 0 || parsed.Choices[0].Message.Content == "" {
		return "", errors.New("响应结构异常")
	}

	return parsed.Choices[0].Message.Content, nil
}

// CompleteJSON 发送对话并从回复里抠出 JSON 对象解析到 out
// 模型经常在 JSON 前后夹带解释文字，这里取首个 '{' 到末尾 '}' 之间的片段
func (c *Client) CompleteJSON(ctx context.Context, prompt string, out interface{}) error {
	text, err := c.Complete(ctx, prompt)
	if err != nil {
		return err
	}

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return errors.New("回复中没有 JSON 对象")
	}

	return json.Unmarshal([]byte(text[start:end+1]), out)
}
