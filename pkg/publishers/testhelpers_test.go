package publishers

import (
	"time"

	"github.com/samvad-hq/rakuten-affiliate/pkg/rakuten"
)

func sampleEvent() TransactionEvent {
	return TransactionEvent{
		MessageID:   "msg-1",
		AccountID:   "acct-1",
		AccountName: "Main",
		Event: rakuten.Event{
			ETransactionID: "etx-1",
			AdvertiserID:   "2025",
			SaleAmount:     19.99,
		},
		CollectedAt: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}
}
