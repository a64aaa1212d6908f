package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/samvad-hq/rakuten-affiliate/pkg/rakuten"
)

func newEventsCmd(c *cli) *cobra.Command {
	var (
		since            time.Duration
		start, end       string
		limit, page      int
		currency, txType string
	)

	cmd := &cobra.Command{
		Use:   "events",
		Short: "List transaction events processed in a date window",
		Long:  "events lists transactions whose process and transaction dates fall in [start, end]. Without --start the window is the last --since.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			endAt, err := parseDate("end", end)
			if err != nil {
				return err
			}
			if endAt.IsZero() {
				endAt = time.Now().UTC()
			}
			startAt, err := parseDate("start", start)
			if err != nil {
				return err
			}
			if startAt.IsZero() {
				startAt = endAt.Add(-since)
			}

			client, err := c.newClient(cmd.Context())
			if err != nil {
				return err
			}
			events, err := client.GetEvents(cmd.Context(), rakuten.EventsQuery{
				ProcessDateStart:     startAt,
				ProcessDateEnd:       endAt,
				TransactionDateStart: startAt,
				TransactionDateEnd:   endAt,
				Limit:                limit,
				Page:                 page,
				Currency:             currency,
				TransactionType:      txType,
			})
			if err != nil {
				return err
			}
			return c.print(events)
		},
	}

	f := cmd.Flags()
	f.DurationVar(&since, "since", 24*time.Hour, "window length when --start is not set")
	f.StringVar(&start, "start", "", "window start (RFC3339 or YYYY-MM-DD)")
	f.StringVar(&end, "end", "", "window end (default now)")
	f.IntVar(&limit, "limit", 0, "results per page")
	f.IntVar(&page, "page", 0, "page number")
	f.StringVar(&currency, "currency", "", "convert amounts to this ISO currency")
	f.StringVar(&txType, "type", "", "transaction type filter, e.g. realtime or batch")
	return cmd
}
