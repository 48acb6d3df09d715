package notify

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/su413/storefront-golang/internal/models"
)

// TelegramChannel posts the order summary to a chat via the Telegram
// bot API.
type TelegramChannel struct {
	Token  string
	ChatID string
	Client *http.Client

	// BaseURL is overridable for tests; defaults to the bot API.
	BaseURL string
}

func NewTelegramChannel(token, chatID string) *TelegramChannel {
	return &TelegramChannel{
		Token:   token,
		ChatID:  chatID,
		Client:  &http.Client{Timeout: 5 * time.Second},
		BaseURL: "https://api.telegram.org",
	}
}

func (t *TelegramChannel) Name() string { return "telegram" }

// Send posts the invoice as an HTML-formatted bot message.
func (t *TelegramChannel) Send(order *models.Order) error {
	if t.Token == "" || t.ChatID == "" {
		return fmt.Errorf("telegram channel is not configured")
	}

	text := fmt.Sprintf("<strong>New Order %s</strong>\n%s\n<pre>%s</pre>",
		order.OrderNumber, customerLines(order), RenderInvoiceTable(order))

	payload, err := json.Marshal(map[string]string{
		"chat_id":    t.ChatID,
		"text":       text,
		"parse_mode": "HTML",
	})
	if err != nil {
		return err
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", t.BaseURL, t.Token)
	resp, err := t.Client.Post(url, "application/json", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("sending telegram message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("telegram API returned status %d", resp.StatusCode)
	}
	return nil
}
