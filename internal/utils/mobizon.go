package utils

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultMobizonURL = "https://api.mobizon.kz"

// Тексты шаблонов SMS по template_id.
var smsTemplates = map[int]string{
	1: "Verification code: %s. Do not share it with anyone.",
	2: "Login code: %s",
}

type Client struct {
	ApiKey  string
	Sender  string // опционально
	BaseURL string
	DryRun  bool // dry-run режим

	HTTP *http.Client
}

type SendSMSResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    struct {
		MessageID string `json:"messageId"`
	} `json:"data"`
}

func NewClientWithOptions(apiKey, sender, baseURL string, dryRun bool) *Client {
	if baseURL == "" {
		baseURL = defaultMobizonURL
	}
	return &Client{
		ApiKey:  apiKey,
		Sender:  sender,
		BaseURL: strings.TrimRight(baseURL, "/"),
		DryRun:  dryRun,
		HTTP:    &http.Client{Timeout: 10 * time.Second},
	}
}

// SendCode renders templateID with code and delivers it to phone.
func (c *Client) SendCode(ctx context.Context, phone, code string, templateID int) error {
	tpl, ok := smsTemplates[templateID]
	if !ok {
		return fmt.Errorf("unknown sms template %d", templateID)
	}
	_, err := c.SendSMS(ctx, phone, fmt.Sprintf(tpl, code))
	return err
}

// SendSMS — отправка SMS через Mobizon (или имитация в dry-run)
func (c *Client) SendSMS(ctx context.Context, to, text string) (*SendSMSResponse, error) {
	if c.DryRun || c.ApiKey == "" || c.ApiKey == "dry-run" {
		// текст может содержать код, в лог его не пишем
		log.Printf("[mobizon][dry-run] to=%s sender=%q len=%d", MaskPhone(to), c.Sender, len(text))
		return &SendSMSResponse{Code: 0}, nil
	}

	form := url.Values{
		"apiKey":    {c.ApiKey},
		"recipient": {to},
		"text":      {text},
	}
	if c.Sender != "" {
		form.Set("from", c.Sender)
	}

	endpoint := c.BaseURL + "/service/message/sendsmsmessage"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("build SMS request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	hc := c.HTTP
	if hc == nil {
		hc = http.DefaultClient
	}
	resp, err := hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send SMS request: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("mobizon http status %d", resp.StatusCode)
	}

	var result SendSMSResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}
	if result.Code != 0 {
		return nil, fmt.Errorf("mobizon returned error code: %d (%s)", result.Code, result.Message)
	}
	log.Printf("[mobizon][send] to=%s message_id=%s", MaskPhone(to), result.Data.MessageID)
	return &result, nil
}

// MaskPhone hides the middle of a phone number for logs.
func MaskPhone(phone string) string {
	if len(phone) < 7 {
		return "****"
	}
	return phone[:3] + "****" + phone[len(phone)-4:]
}
