package mail

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const mailjetSendURL = "https://api.mailjet.com/v3.1/send"

type Mailjet struct {
	apiKey      string
	secretKey   string
	senderEmail string
	senderName  string
	httpClient  *http.Client
}

func NewMailjet(apiKey, secretKey, senderEmail, senderName string) *Mailjet {
	return &Mailjet{
		apiKey:      apiKey,
		secretKey:   secretKey,
		senderEmail: senderEmail,
		senderName:  senderName,
		httpClient:  &http.Client{Timeout: 15 * time.Second},
	}
}

func (m *Mailjet) Send(ctx context.Context, msg Message) error {
	payload := map[string]any{
		"Messages": []map[string]any{
			{
				"From":     map[string]string{"Email": m.senderEmail, "Name": m.senderName},
				"To":       []map[string]string{{"Email": msg.ToEmail, "Name": msg.ToName}},
				"Subject":  msg.Subject,
				"TextPart": msg.TextBody,
				"HTMLPart": msg.HTMLBody,
			},
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, mailjetSendURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.SetBasicAuth(m.apiKey, m.secretKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return fmt.Errorf("mailjet: status %d: %s", resp.StatusCode, string(b))
	}
	return nil
}
