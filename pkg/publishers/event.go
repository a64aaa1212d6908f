package publishers

import (
	"time"

	"github.com/google/uuid"

	"github.com/samvad-hq/rakuten-affiliate/pkg/rakuten"
)

// TransactionEvent is the payload published downstream for one collected transaction.
type TransactionEvent struct {
	MessageID   string        `json:"message_id"`
	AccountID   string        `json:"account_id"`
	AccountName string        `json:"account_name"`
	Event       rakuten.Event `json:"event"`
	CollectedAt time.Time     `json:"collected_at"`
}

// NewTransactionEvent wraps evt for the given account with a fresh message id.
func NewTransactionEvent(accountID, accountName string, evt rakuten.Event) TransactionEvent {
	return TransactionEvent{
		MessageID:   uuid.NewString(),
		AccountID:   accountID,
		AccountName: accountName,
		Event:       evt,
		CollectedAt: time.Now().UTC(),
	}
}

// attributes are attached to broker messages so consumers can route without decoding the body.
func (e TransactionEvent) attributes() map[string]string {
	return map[string]string{
		"message_id":      e.MessageID,
		"account_id":      e.AccountID,
		"etransaction_id": e.Event.ETransactionID,
	}
}
