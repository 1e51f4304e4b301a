package mailsender

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// SendRequest запрос на отправку письма. Шаблонизация и адресация
// выполняются на стороне внешнего сервиса по taskId и типу уведомления.
type SendRequest struct {
	TaskID           string `json:"taskId"`
	BookingID        string `json:"bookingId"`
	RecipientID      int64  `json:"recipientId"`
	NotificationType string `json:"notificationType"`
}

// Client клиент внешнего сервиса отправки email
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента отправки email
func NewClient(baseURL string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// SendEmail делегирует отправку письма внешнему сервису
func (c *Client) SendEmail(ctx context.Context, req SendRequest) error {
	url := fmt.Sprintf("%s/internal/email/send", c.baseURL)

	payload, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("%w: failed to marshal request: %v", ErrInternal, err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusAccepted:
		return nil
	default:
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%w: status code %d: %s", ErrSendRejected, resp.StatusCode, string(body))
	}
}
