package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/samvad-hq/rakuten-affiliate/pkg/archive"
	"github.com/samvad-hq/rakuten-affiliate/pkg/rakuten"
)

func newPaymentsCmd(c *cli) *cobra.Command {
	var (
		q             rakuten.PaymentsQuery
		reportType    string
		start, end    string
		parse, upload bool
	)

	cmd := &cobra.Command{
		Use:   "payments",
		Short: "Download a payment report",
		Long:  "payments downloads a payment report as CSV. --parse prints the rows keyed by column; --archive also uploads the raw report to the configured bucket.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			q.ReportType = rakuten.ReportType(reportType)
			if q.StartDate, err = parseDate("start", start); err != nil {
				return err
			}
			if q.EndDate, err = parseDate("end", end); err != nil {
				return err
			}
			if q.SecurityToken == "" {
				q.SecurityToken = c.v.GetString("rakuten_security_token")
			}

			var archiver *archive.Archiver
			if upload {
				if archiver, err = c.newArchiver(); err != nil {
					return err
				}
			}

			client, err := c.newClient(cmd.Context())
			if err != nil {
				return err
			}
			body, err := client.GetPayments(cmd.Context(), q)
			if err != nil {
				return err
			}

			if archiver != nil {
				name := archiveReportName(q)
				obj, err := archiver.Put(cmd.Context(), name, body)
				if err != nil {
					return fmt.Errorf("archive report: %w", err)
				}
				c.log.InfoObj("payment report archived", "archive_object", obj)
				fmt.Fprintf(cmd.ErrOrStderr(), "archived s3://%s/%s (%d bytes)\n", obj.Bucket, obj.Key, obj.Size)
			}

			if parse {
				report, err := rakuten.ParseReport(body)
				if err != nil {
					return err
				}
				return c.print(report.Records())
			}
			_, err = io.WriteString(c.out, body)
			return err
		},
	}

	f := cmd.Flags()
	f.StringVar(&reportType, "type", string(rakuten.ReportAllHistory), "all_history, advertisers_history or details")
	f.StringVar(&q.SecurityToken, "security-token", "", "web services token (default $RAKUTEN_SECURITY_TOKEN)")
	f.StringVar(&start, "start", "", "report start date")
	f.StringVar(&end, "end", "", "report end date")
	f.Int64Var(&q.PaymentID, "payment-id", 0, "payment id (details report)")
	f.Int64Var(&q.InvoiceID, "invoice-id", 0, "invoice id (details report)")
	f.Int64Var(&q.NetworkID, "network-id", 0, "network id")
	f.Int64Var(&q.AdvertiserID, "advertiser-id", 0, "advertiser MID")
	f.BoolVar(&parse, "parse", false, "print rows keyed by column instead of raw CSV")
	f.BoolVar(&upload, "archive", false, "upload the raw report to the archive bucket")
	return cmd
}

func (c *cli) newArchiver() (*archive.Archiver, error) {
	if !c.cfg.ArchiveEnabled() {
		return nil, fmt.Errorf("--archive needs ARCHIVE_ENDPOINT and ARCHIVE_BUCKET")
	}
	return archive.New(archive.Config{
		Endpoint:  c.cfg.ArchiveEndpoint,
		AccessKey: c.cfg.ArchiveAccessKey,
		SecretKey: c.cfg.ArchiveSecretKey,
		Bucket:    c.cfg.ArchiveBucket,
		UseSSL:    c.cfg.ArchiveUseSSL,
		Prefix:    "payments",
	})
}

func archiveReportName(q rakuten.PaymentsQuery) string {
	name := archive.ReportName(string(q.ReportType), q.StartDate, q.EndDate)
	if q.PaymentID != 0 {
		name = strings.TrimSuffix(name, ".csv") + fmt.Sprintf("_pay%d.csv", q.PaymentID)
	}
	return name
}
