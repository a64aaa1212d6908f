package main

import (
	"github.com/spf13/cobra"

	"github.com/samvad-hq/rakuten-affiliate/pkg/rakuten"
)

func newProductsCmd(c *cli) *cobra.Command {
	q := rakuten.DefaultProductsQuery()

	cmd := &cobra.Command{
		Use:   "products",
		Short: "Search advertiser product catalogs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := c.newClient(cmd.Context())
			if err != nil {
				return err
			}
			products, err := client.SearchProducts(cmd.Context(), q)
			if err != nil {
				return err
			}
			return c.print(products)
		},
	}

	f := cmd.Flags()
	f.StringVar(&q.Keyword, "keyword", "", "match any of these words")
	f.StringVar(&q.Exact, "exact", "", "match this exact phrase")
	f.StringVar(&q.One, "one", "", "match at least one of these words")
	f.StringVar(&q.Category, "category", "", "product category")
	f.StringVar(&q.Language, "language", q.Language, "catalog language")
	f.IntVar(&q.Max, "max", q.Max, "results per page")
	f.IntVar(&q.PageNumber, "page", q.PageNumber, "page number")
	f.Int64Var(&q.AdvertiserID, "advertiser-id", 0, "restrict to one advertiser (MID)")
	f.StringVar(&q.Sort, "sort", "", "sort field, e.g. retailprice")
	f.StringVar(&q.SortType, "sort-type", "", "asc or dsc")
	return cmd
}
