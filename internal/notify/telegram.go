// Package notify tells the study operators about noteworthy events.
package notify

import (
	"fmt"
	"log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// TelegramNotifier sends one-line study updates to the admin chat.
// A nil notifier is valid and drops every message, so callers don't
// need to care whether notifications are configured.
type TelegramNotifier struct {
	api    *tgbotapi.BotAPI
	chatID int64
}

// NewTelegram creates a notifier for the given bot token and chat.
// Returns (nil, nil) when the token is empty: notifications disabled.
func NewTelegram(token string, chatID int64) (*TelegramNotifier, error) {
	if token == "" || chatID == 0 {
		return nil, nil
	}
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %v", err)
	}
	return &TelegramNotifier{api: api, chatID: chatID}, nil
}

// SessionCompleted reports that a participant finished rating their group.
func (n *TelegramNotifier) SessionCompleted(participantID, group string, total int) {
	if n == nil {
		return
	}
	text := fmt.Sprintf("Participant %s completed %s (%d images rated)", participantID, group, total)
	if _, err := n.api.Send(tgbotapi.NewMessage(n.chatID, text)); err != nil {
		log.Printf("Failed to send completion notice: %v", err)
	}
}
