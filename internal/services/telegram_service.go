package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"
)

// TelegramService pushes order notifications to the farm's admin chat.
// Unconfigured instances silently drop messages so local development does
// not require a bot token.
type TelegramService struct {
	botToken    string
	adminChatID string
}

// NewTelegramService creates a new TelegramService.
func NewTelegramService(botToken, adminChatID string) *TelegramService {
	return &TelegramService{
		botToken:    botToken,
		adminChatID: adminChatID,
	}
}

type telegramMessage struct {
	ChatID    string `json:"chat_id"`
	Text      string `json:"text"`
	ParseMode string `json:"parse_mode"`
}

// SendToAdmin sends a message to the admin chat.
func (s *TelegramService) SendToAdmin(text string) error {
	if s.botToken == "" || s.adminChatID == "" {
		log.Debug().Msg("telegram not configured, dropping notification")
		return nil
	}

	url := fmt.Sprintf("https://api.telegram.org/bot%s/sendMessage", s.botToken)

	msg := telegramMessage{
		ChatID:    s.adminChatID,
		Text:      text,
		ParseMode: "HTML",
	}

	body, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	resp, err := http.Post(url, "application/json", bytes.NewReader(body))
	if err != nil {
		log.Warn().Err(err).Msg("telegram send failed")
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Warn().Int("status", resp.StatusCode).Msg("telegram unexpected status")
		return fmt.Errorf("telegram returned status %d", resp.StatusCode)
	}

	return nil
}

// OrderNotification contains the order data sent to the admin chat.
type OrderNotification struct {
	OrderNumber string
	UserName    string
	Items       []OrderItemNotification
	TotalAmount float64
	Currency    string
	Status      string
}

// OrderItemNotification is one line of the notification.
type OrderItemNotification struct {
	Name     string
	Quantity int
	Price    float64
}

// NotifyNewOrder sends a new-order notification to the admin chat.
func (s *TelegramService) NotifyNewOrder(order OrderNotification) error {
	var b strings.Builder

	fmt.Fprintf(&b, "<b>New order %s</b>\n", order.OrderNumber)
	fmt.Fprintf(&b, "Customer: %s\n\n", order.UserName)
	for _, item := range order.Items {
		fmt.Fprintf(&b, "%s x%d at %.2f %s\n", item.Name, item.Quantity, item.Price, order.Currency)
	}
	fmt.Fprintf(&b, "\nTotal: %.2f %s\nStatus: %s", order.TotalAmount, order.Currency, order.Status)

	return s.SendToAdmin(b.String())
}
