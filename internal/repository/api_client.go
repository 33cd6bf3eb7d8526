package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"

	"skill_console/internal/config"
	"skill_console/internal/model"
	"skill_console/internal/util"
	"skill_console/pkg/monitoring"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
)

// APIClient 访问后端 REST API 的唯一入口，统一基础地址和 Authorization 头
type APIClient struct {
	BaseURL string
	HTTP    *http.Client
}

func NewAPIClient(cfg config.BackendConfig) *APIClient {
	return &APIClient{
		BaseURL: strings.TrimRight(cfg.BaseURL, "/"),
		HTTP:    &http.Client{Timeout: cfg.Timeout},
	}
}

func (c *APIClient) url(path string, query url.Values) string {
	u := c.BaseURL + "/" + strings.TrimLeft(path, "/")
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

func (c *APIClient) newRequest(ctx context.Context, method, path, token string, query url.Values, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.url(path, query), body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))
	return req, nil
}

// Do 发送 JSON 请求；非 2xx 返回 *util.RequestError，2xx 时剥掉 {data: ...} 包装
func (c *APIClient) Do(ctx context.Context, method, path, token string, query url.Values, payload any) (json.RawMessage, error) {
	var body io.Reader
	if payload != nil {
		buf, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		body = bytes.NewReader(buf)
	}

	req, err := c.newRequest(ctx, method, path, token, query, body)
	if err != nil {
		return nil, err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.send(req)
}

func (c *APIClient) Get(ctx context.Context, path, token string, query url.Values) (json.RawMessage, error) {
	return c.Do(ctx, http.MethodGet, path, token, query, nil)
}

func (c *APIClient) Post(ctx context.Context, path, token string, payload any) (json.RawMessage, error) {
	return c.Do(ctx, http.MethodPost, path, token, nil, payload)
}

func (c *APIClient) Put(ctx context.Context, path, token string, payload any) (json.RawMessage, error) {
	return c.Do(ctx, http.MethodPut, path, token, nil, payload)
}

func (c *APIClient) Delete(ctx context.Context, path, token string) (json.RawMessage, error) {
	return c.Do(ctx, http.MethodDelete, path, token, nil, nil)
}

// Upload 以 multipart/form-data 上传单个文件
func (c *APIClient) Upload(ctx context.Context, path, token, field, filename string, content []byte, fields map[string]string) (json.RawMessage, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			return nil, err
		}
	}
	part, err := w.CreateFormFile(field, filename)
	if err != nil {
		return nil, err
	}
	if _, err := part.Write(content); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}

	req, err := c.newRequest(ctx, http.MethodPost, path, token, nil, &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	return c.send(req)
}

// Stream 返回原始响应供下载透传，调用方负责关闭 Body
func (c *APIClient) Stream(ctx context.Context, path, token string, query url.Values) (*http.Response, error) {
	req, err := c.newRequest(ctx, http.MethodGet, path, token, query, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "*/*")
	resp, err := c.do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		raw, _ := io.ReadAll(resp.Body)
		return nil, requestError(resp.StatusCode, raw)
	}
	return resp, nil
}

func (c *APIClient) do(req *http.Request) (*http.Response, error) {
	resp, err := c.HTTP.Do(req)
	if err != nil {
		monitoring.BackendRequests.WithLabelValues(req.Method, monitoring.StatusClass(0)).Inc()
		return nil, fmt.Errorf("backend request %s %s: %w", req.Method, req.URL.Path, err)
	}
	monitoring.BackendRequests.WithLabelValues(req.Method, monitoring.StatusClass(resp.StatusCode)).Inc()
	return resp, nil
}

func (c *APIClient) send(req *http.Request) (json.RawMessage, error) {
	resp, err := c.do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, requestError(resp.StatusCode, raw)
	}
	return unwrapData(raw), nil
}

func requestError(status int, raw []byte) *util.RequestError {
	var body struct {
		Message string `json:"message"`
		Error   string `json:"error"`
		Msg     string `json:"msg"`
	}
	_ = json.Unmarshal(raw, &body)
	msg := body.Message
	if msg == "" {
		msg = body.Error
	}
	if msg == "" {
		msg = body.Msg
	}
	return &util.RequestError{Status: status, Message: msg}
}

func unwrapData(raw []byte) json.RawMessage {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return json.RawMessage("null")
	}
	if trimmed[0] != '{' {
		return trimmed
	}
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &envelope); err != nil {
		return trimmed
	}
	if data, ok := envelope["data"]; ok {
		return data
	}
	return trimmed
}

// DecodeObject 解码单个对象，null 返回空对象
func DecodeObject(raw json.RawMessage) (model.Raw, error) {
	obj := model.Raw{}
	if len(raw) == 0 || string(raw) == "null" {
		return obj, nil
	}
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil, &util.ParseError{Source: "backend object", Err: err}
	}
	return obj, nil
}

// DecodeList 接受数组，或把数组放在 items / rows / list / records 下的分页对象
func DecodeList(raw json.RawMessage) ([]model.Raw, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || string(trimmed) == "null" {
		return []model.Raw{}, nil
	}
	if trimmed[0] == '{' {
		var page map[string]json.RawMessage
		if err := json.Unmarshal(trimmed, &page); err != nil {
			return nil, &util.ParseError{Source: "backend list", Err: err}
		}
		for _, key := range []string{"items", "rows", "list", "records", "results"} {
			if inner, ok := page[key]; ok {
				return DecodeList(inner)
			}
		}
		return nil, &util.ParseError{Source: "backend list", Err: fmt.Errorf("object without list field")}
	}

	var items []model.Raw
	if err := json.Unmarshal(trimmed, &items); err != nil {
		return nil, &util.ParseError{Source: "backend list", Err: err}
	}
	if items == nil {
		items = []model.Raw{}
	}
	return items, nil
}
