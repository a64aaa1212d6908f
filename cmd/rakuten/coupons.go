package main

import (
	"github.com/spf13/cobra"

	"github.com/samvad-hq/rakuten-affiliate/pkg/rakuten"
)

func newCouponsCmd(c *cli) *cobra.Command {
	var q rakuten.CouponsQuery

	cmd := &cobra.Command{
		Use:   "coupons",
		Short: "Fetch the coupon feed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := c.newClient(cmd.Context())
			if err != nil {
				return err
			}
			feed, err := client.GetCoupons(cmd.Context(), q)
			if err != nil {
				return err
			}
			return c.print(feed)
		},
	}

	f := cmd.Flags()
	f.IntSliceVar(&q.CategoryIDs, "category", nil, "category ids")
	f.IntSliceVar(&q.PromotionTypeIDs, "promotion-type", nil, "promotion type ids")
	f.Int64Var(&q.NetworkID, "network-id", 0, "network id")
	f.Int64Var(&q.AdvertiserID, "advertiser-id", 0, "advertiser MID")
	f.IntVar(&q.ResultsPerPage, "per-page", 0, "results per page")
	f.IntVar(&q.PageNumber, "page", 0, "page number")
	return cmd
}
