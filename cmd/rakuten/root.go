package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cast"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/samvad-hq/rakuten-affiliate/internal/config"
	"github.com/samvad-hq/rakuten-affiliate/internal/logger"
	"github.com/samvad-hq/rakuten-affiliate/pkg/rakuten"
)

// cli carries state shared by every subcommand once the persistent pre-run has loaded config.
type cli struct {
	v      *viper.Viper
	out    io.Writer
	errOut io.Writer
	cfg    *config.Config
	log    logger.Logger
	output string
}

func newRootCmd(v *viper.Viper, out, errOut io.Writer) *cobra.Command {
	c := &cli{v: v, out: out, errOut: errOut, log: &logger.NopLogger{}}

	root := &cobra.Command{
		Use:           "rakuten",
		Short:         "Rakuten Advertising publisher API client",
		Long:          "rakuten calls the LinkSynergy publisher APIs: events, advertisers, products, deep links, payments and coupons.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return c.setup()
		},
	}
	root.SetOut(out)
	root.SetErr(errOut)

	flags := root.PersistentFlags()
	flags.String("host", rakuten.DefaultHost, "API host")
	flags.String("client-id", "", "OAuth client id")
	flags.String("client-secret", "", "OAuth client secret")
	flags.Int64("account-id", 0, "publisher account id (token scope)")
	flags.String("token", "", "bearer token to use instead of authenticating")
	flags.Int64("timeout", 30, "HTTP timeout in seconds")
	flags.String("log-level", "info", "log level written to stderr")
	flags.StringVarP(&c.output, "output", "o", "json", "output format: json or yaml")

	_ = v.BindPFlag("rakuten_host", flags.Lookup("host"))
	_ = v.BindPFlag("rakuten_client_id", flags.Lookup("client-id"))
	_ = v.BindPFlag("rakuten_client_secret", flags.Lookup("client-secret"))
	_ = v.BindPFlag("rakuten_account_id", flags.Lookup("account-id"))
	_ = v.BindPFlag("rakuten_token", flags.Lookup("token"))
	_ = v.BindPFlag("http_timeout_seconds", flags.Lookup("timeout"))
	_ = v.BindPFlag("log_level", flags.Lookup("log-level"))

	root.AddCommand(
		newAuthCmd(c),
		newEventsCmd(c),
		newAdvertisersCmd(c),
		newProductsCmd(c),
		newDeepLinkCmd(c),
		newPaymentsCmd(c),
		newCouponsCmd(c),
		newRawCmd(c),
	)
	return root
}

func (c *cli) setup() error {
	switch c.output {
	case "json", "yaml":
	default:
		return fmt.Errorf("unsupported output %q (want json or yaml)", c.output)
	}

	cfg, err := config.LoadFrom(c.v)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log, err := logger.InitWithWriter(cfg.LogLevel, c.errOut)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	c.cfg = cfg
	c.log = log
	return nil
}

// newClient builds a client from config. It authenticates unless a token was supplied.
func (c *cli) newClient(ctx context.Context) (*rakuten.Client, error) {
	client, err := rakuten.New(c.cfg.ClientID, c.cfg.ClientSecret, c.cfg.AccountID,
		rakuten.WithHost(c.cfg.RakutenHost),
		rakuten.WithTimeout(c.cfg.HTTPTimeout),
		rakuten.WithLogger(c.log),
	)
	if err != nil {
		return nil, err
	}
	if token := strings.TrimSpace(c.v.GetString("rakuten_token")); token != "" {
		client.Adapter().SetToken(token)
		return client, nil
	}
	if _, err := client.Auth(ctx); err != nil {
		return nil, err
	}
	return client, nil
}

func (c *cli) print(v any) error {
	if c.output == "yaml" {
		enc := yaml.NewEncoder(c.out)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	}
	enc := json.NewEncoder(c.out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return nil
}

func newAuthCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "auth",
		Short: "Exchange the client credentials for a bearer token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := rakuten.New(c.cfg.ClientID, c.cfg.ClientSecret, c.cfg.AccountID,
				rakuten.WithHost(c.cfg.RakutenHost),
				rakuten.WithTimeout(c.cfg.HTTPTimeout),
				rakuten.WithLogger(c.log),
			)
			if err != nil {
				return err
			}
			res, err := client.Auth(cmd.Context())
			if err != nil {
				return err
			}
			return c.print(res.Data)
		},
	}
}

// parseDate accepts the formats cast understands (RFC3339, 2006-01-02, ...). Empty input yields
// the zero time.
func parseDate(flag, raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, nil
	}
	t, err := cast.ToTimeE(raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("--%s: %w", flag, err)
	}
	return t.UTC(), nil
}
