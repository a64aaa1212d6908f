package main

import (
	"github.com/spf13/cobra"

	"github.com/samvad-hq/rakuten-affiliate/pkg/preview"
	"github.com/samvad-hq/rakuten-affiliate/pkg/rakuten"
)

type deepLinkOutput struct {
	DeepLink string        `json:"deep_link" yaml:"deep_link"`
	Preview  *preview.Page `json:"preview,omitempty" yaml:"preview,omitempty"`
}

func newDeepLinkCmd(c *cli) *cobra.Command {
	var (
		req         rakuten.DeepLinkRequest
		withPreview bool
	)

	cmd := &cobra.Command{
		Use:   "deeplink <url>",
		Short: "Create a tracked link to an advertiser page",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req.URL = args[0]

			client, err := c.newClient(cmd.Context())
			if err != nil {
				return err
			}
			link, err := client.GenerateDeepLink(cmd.Context(), req)
			if err != nil {
				return err
			}

			out := deepLinkOutput{DeepLink: link}
			if withPreview {
				page, err := preview.NewScraper(nil, c.log).Fetch(cmd.Context(), link)
				if err != nil {
					// Preview is best effort; the link is still printed.
					c.log.WarnObj("deep link preview failed", "preview_error", map[string]any{
						"url":   link,
						"error": err.Error(),
					})
				} else {
					out.Preview = &page
				}
			}
			return c.print(out)
		},
	}

	f := cmd.Flags()
	f.Int64Var(&req.AdvertiserID, "advertiser-id", 0, "advertiser MID (required)")
	f.StringVar(&req.U1, "u1", "", "member id echoed back in reports")
	f.BoolVar(&withPreview, "preview", false, "fetch the landing page title, description and image")
	return cmd
}
