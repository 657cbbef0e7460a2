// Package telegram posts finance notifications to a Telegram chat.
package telegram

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	portssvc "github.com/SscSPs/cims_finance/internal/core/ports/services"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// sendTimeout bounds a single Bot API call.
const sendTimeout = 10 * time.Second

type messageSender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Notifier sends a message for transfers, donation resets and recorded rates.
// Other event types are ignored.
type Notifier struct {
	sender messageSender
	chatID int64
}

var _ portssvc.EventPublisher = (*Notifier)(nil)

// NewNotifier logs in with token and posts to chatID.
func NewNotifier(token string, chatID int64) (*Notifier, error) {
	client := &http.Client{Timeout: sendTimeout}
	bot, err := tgbotapi.NewBotAPIWithClient(token, tgbotapi.APIEndpoint, client)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}
	return &Notifier{sender: bot, chatID: chatID}, nil
}

func newNotifierWithSender(s messageSender, chatID int64) *Notifier {
	return &Notifier{sender: s, chatID: chatID}
}

// Publish implements portssvc.EventPublisher. It returns when ctx is done
// even if the send is still in flight; the send itself is bounded by the
// bot's HTTP client timeout.
func (n *Notifier) Publish(ctx context.Context, event portssvc.LedgerEvent) error {
	text, ok := formatEvent(event)
	if !ok {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("telegram notification not sent: %w", err)
	}

	done := make(chan error, 1)
	go func() {
		_, err := n.sender.Send(tgbotapi.NewMessage(n.chatID, text))
		done <- err
	}()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("failed to send telegram notification: %w", err)
		}
		return nil
	case <-ctx.Done():
		return fmt.Errorf("telegram notification abandoned: %w", ctx.Err())
	}
}

func formatEvent(event portssvc.LedgerEvent) (string, bool) {
	var b strings.Builder
	switch event.Type {
	case portssvc.EventTransfer:
		fmt.Fprintf(&b, "Transfer: %s %s from %s to %s", event.Amount.StringFixed(2), event.Currency, event.Account, event.ToAccount)
	case portssvc.EventDonationReset:
		b.WriteString("Donation total has been reset to 0")
	case portssvc.EventRateRecorded:
		fmt.Fprintf(&b, "New USD/UZS rate: %s", event.Amount.StringFixed(2))
	default:
		return "", false
	}
	if event.ActorID != "" {
		fmt.Fprintf(&b, " (by %s)", event.ActorID)
	}
	return b.String(), true
}
