package main

import (
	"github.com/spf13/cobra"

	"github.com/samvad-hq/rakuten-affiliate/pkg/rakuten"
)

func newAdvertisersCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "advertisers",
		Short: "Look up advertisers",
	}
	cmd.AddCommand(newAdvertisersSearchCmd(c), newAdvertisersListCmd(c))
	return cmd
}

func newAdvertisersSearchCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "search <name>",
		Short: "Find advertisers and their MIDs by name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := c.newClient(cmd.Context())
			if err != nil {
				return err
			}
			advertisers, err := client.SearchAdvertisersV1(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return c.print(advertisers)
		},
	}
}

func newAdvertisersListCmd(c *cli) *cobra.Command {
	q := rakuten.DefaultAdvertisersQuery()

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List advertisers through the v2 API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := c.newClient(cmd.Context())
			if err != nil {
				return err
			}
			advertisers, err := client.SearchAdvertisersV2(cmd.Context(), q)
			if err != nil {
				return err
			}
			return c.print(advertisers)
		},
	}

	f := cmd.Flags()
	f.IntVar(&q.Page, "page", q.Page, "page number")
	f.IntVar(&q.Limit, "limit", q.Limit, "results per page")
	f.StringVar(&q.ShipsTo, "ships-to", q.ShipsTo, "destination country code")
	f.BoolVar(&q.DeepLinks, "deep-links", q.DeepLinks, "only advertisers supporting deep links")
	f.IntVar(&q.Network, "network", q.Network, "network id")
	return cmd
}
