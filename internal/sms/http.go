package sms

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// HTTPSender habla con un gateway estilo sms.ru:
//
//	POST {BaseURL}/sms/send  api_id, to, msg, from, json=1
//	-> {"status":"OK","status_code":100,...}
type HTTPSender struct {
	BaseURL string
	APIKey  string
	From    string
	Client  *http.Client
}

func NewHTTPSender(baseURL, apiKey, from string, timeout time.Duration) *HTTPSender {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &HTTPSender{
		BaseURL: strings.TrimRight(baseURL, "/"),
		APIKey:  apiKey,
		From:    from,
		Client:  &http.Client{Timeout: timeout},
	}
}

type gatewayResponse struct {
	Status     string `json:"status"`
	StatusCode int    `json:"status_code"`
	StatusText string `json:"status_text"`
}

func (s *HTTPSender) Send(ctx context.Context, phone, text string) error {
	form := url.Values{}
	form.Set("api_id", s.APIKey)
	form.Set("to", strings.TrimPrefix(phone, "+"))
	form.Set("msg", text)
	form.Set("json", "1")
	if s.From != "" {
		form.Set("from", s.From)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.BaseURL+"/sms/send", strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("sms: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := s.Client.Do(req)
	if err != nil {
		return fmt.Errorf("sms: post: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return fmt.Errorf("sms: read body: %w", err)
	}
	if resp.StatusCode >= 500 {
		return fmt.Errorf("sms: gateway status %d", resp.StatusCode)
	}
	if resp.StatusCode >= 300 {
		return fmt.Errorf("%w: http %d", ErrRejected, resp.StatusCode)
	}

	var gr gatewayResponse
	if err := json.Unmarshal(body, &gr); err != nil {
		return fmt.Errorf("sms: decode response: %w", err)
	}
	if !strings.EqualFold(gr.Status, "OK") {
		return fmt.Errorf("%w: code=%d %s", ErrRejected, gr.StatusCode, gr.StatusText)
	}
	return nil
}
