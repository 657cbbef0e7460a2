package telegram

import (
	"context"
	"errors"
	"testing"
	"time"

	portssvc "github.com/SscSPs/cims_finance/internal/core/ports/services"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockSender struct {
	mock.Mock
}

func (m *mockSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	args := m.Called(c)
	return tgbotapi.Message{}, args.Error(0)
}

// blockingSender never answers until release is closed.
type blockingSender struct {
	release chan struct{}
}

func (b *blockingSender) Send(tgbotapi.Chattable) (tgbotapi.Message, error) {
	<-b.release
	return tgbotapi.Message{}, nil
}

func TestPublish_Transfer(t *testing.T) {
	sender := new(mockSender)
	n := newNotifierWithSender(sender, 42)
	sender.On("Send", mock.MatchedBy(func(c tgbotapi.Chattable) bool {
		msg, ok := c.(tgbotapi.MessageConfig)
		return ok && msg.ChatID == 42 &&
			msg.Text == "Transfer: 127000.00 UZS from ACCOUNT_1 to ACCOUNT_3 (by user-1)"
	})).Return(nil).Once()

	err := n.Publish(context.Background(), portssvc.LedgerEvent{
		Type:      portssvc.EventTransfer,
		Account:   "ACCOUNT_1",
		ToAccount: "ACCOUNT_3",
		Amount:    decimal.NewFromInt(127000),
		Currency:  "UZS",
		ActorID:   "user-1",
	})

	require.NoError(t, err)
	sender.AssertExpectations(t)
}

func TestPublish_IgnoresEntryEvents(t *testing.T) {
	sender := new(mockSender)
	n := newNotifierWithSender(sender, 42)

	err := n.Publish(context.Background(), portssvc.LedgerEvent{Type: portssvc.EventEntryCreated})

	require.NoError(t, err)
	sender.AssertNotCalled(t, "Send", mock.Anything)
}

func TestPublish_SendError(t *testing.T) {
	sender := new(mockSender)
	n := newNotifierWithSender(sender, 42)
	sender.On("Send", mock.Anything).Return(errors.New("network")).Once()

	err := n.Publish(context.Background(), portssvc.LedgerEvent{Type: portssvc.EventDonationReset})

	assert.ErrorContains(t, err, "telegram")
}

func TestPublish_ReturnsWhenContextExpires(t *testing.T) {
	sender := &blockingSender{release: make(chan struct{})}
	defer close(sender.release)
	n := newNotifierWithSender(sender, 42)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	start := time.Now()
	err := n.Publish(ctx, portssvc.LedgerEvent{Type: portssvc.EventDonationReset})

	require.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), time.Second)
}

func TestPublish_CancelledContextSkipsSend(t *testing.T) {
	sender := new(mockSender)
	n := newNotifierWithSender(sender, 42)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := n.Publish(ctx, portssvc.LedgerEvent{Type: portssvc.EventDonationReset})

	require.ErrorIs(t, err, context.Canceled)
	sender.AssertNotCalled(t, "Send", mock.Anything)
}
