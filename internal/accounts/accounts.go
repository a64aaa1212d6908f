// Package accounts loads the affiliate accounts the syncer collects transactions for.
package accounts

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cast"
	"gopkg.in/yaml.v3"

	"github.com/samvad-hq/rakuten-affiliate/internal/config"
)

// Account is one set of LinkSynergy credentials.
type Account struct {
	ID           string
	Name         string
	ClientID     string
	ClientSecret string
	AccountID    int64
	// Lookback overrides the configured sync window when positive.
	Lookback time.Duration
	Enabled  bool
}

// entry is the on-disk shape. Secrets and the account id may reference ${ENV} variables.
type entry struct {
	ID              string `json:"id" yaml:"id"`
	Name            string `json:"name" yaml:"name"`
	ClientID        string `json:"client_id" yaml:"client_id"`
	ClientSecret    string `json:"client_secret" yaml:"client_secret"`
	AccountID       any    `json:"account_id" yaml:"account_id"`
	LookbackSeconds int64  `json:"lookback_seconds" yaml:"lookback_seconds"`
	Enabled         *bool  `json:"enabled" yaml:"enabled"`
}

type file struct {
	Accounts []entry `json:"accounts" yaml:"accounts"`
}

// Registry holds validated accounts in file order.
type Registry struct {
	accounts []Account
	idx      map[string]Account
}

// Load returns the accounts from cfg.AccountsFile, or the single account described by the
// rakuten_* settings when no file is configured.
func Load(cfg *config.Config) (*Registry, error) {
	if cfg == nil {
		return nil, errors.New("config must not be nil")
	}
	if strings.TrimSpace(cfg.AccountsFile) != "" {
		return LoadFile(cfg.AccountsFile)
	}
	return newRegistry([]entry{{
		ID:           "default",
		Name:         cfg.AppName,
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		AccountID:    cfg.AccountID,
	}})
}

// LoadFile reads a YAML or JSON accounts file.
func LoadFile(path string) (*Registry, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("accounts file path is empty")
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read accounts file: %w", err)
	}

	var f file
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		err = json.Unmarshal(raw, &f)
	case ".yaml", ".yml", "":
		err = yaml.Unmarshal(raw, &f)
	default:
		return nil, fmt.Errorf("accounts file format %q not recognized (expected YAML or JSON)", filepath.Ext(path))
	}
	if err != nil {
		return nil, fmt.Errorf("decode accounts file: %w", err)
	}
	if len(f.Accounts) == 0 {
		return nil, errors.New("accounts file contains no accounts entries")
	}
	return newRegistry(f.Accounts)
}

func newRegistry(entries []entry) (*Registry, error) {
	reg := &Registry{
		accounts: make([]Account, 0, len(entries)),
		idx:      make(map[string]Account, len(entries)),
	}
	for i, e := range entries {
		acct, err := sanitize(e)
		if err != nil {
			return nil, fmt.Errorf("accounts[%d]: %w", i, err)
		}
		if err := validate(acct); err != nil {
			return nil, fmt.Errorf("accounts[%d]: %w", i, err)
		}
		if _, exists := reg.idx[acct.ID]; exists {
			return nil, fmt.Errorf("duplicate account id %q", acct.ID)
		}
		reg.accounts = append(reg.accounts, acct)
		reg.idx[acct.ID] = acct
	}
	return reg, nil
}

func sanitize(e entry) (Account, error) {
	acct := Account{
		ID:           strings.TrimSpace(e.ID),
		Name:         strings.TrimSpace(e.Name),
		ClientID:     strings.TrimSpace(os.ExpandEnv(e.ClientID)),
		ClientSecret: strings.TrimSpace(os.ExpandEnv(e.ClientSecret)),
		Enabled:      e.Enabled == nil || *e.Enabled,
	}
	if acct.Name == "" {
		acct.Name = acct.ID
	}
	if e.LookbackSeconds > 0 {
		acct.Lookback = time.Duration(e.LookbackSeconds) * time.Second
	}

	if e.AccountID != nil {
		raw := strings.TrimSpace(os.ExpandEnv(cast.ToString(e.AccountID)))
		if raw != "" {
			id, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				return Account{}, fmt.Errorf("account_id %q is not a number", raw)
			}
			acct.AccountID = id
		}
	}
	return acct, nil
}

func validate(a Account) error {
	if a.ID == "" {
		return errors.New("id is required")
	}
	if a.ClientID == "" {
		return fmt.Errorf("client_id is required for account %q", a.ID)
	}
	if a.ClientSecret == "" {
		return fmt.Errorf("client_secret is required for account %q", a.ID)
	}
	if a.AccountID <= 0 {
		return fmt.Errorf("account_id must be positive for account %q", a.ID)
	}
	return nil
}

// All returns every configured account.
func (r *Registry) All() []Account {
	if r == nil {
		return nil
	}
	out := make([]Account, len(r.accounts))
	copy(out, r.accounts)
	return out
}

// Enabled returns the accounts that should be collected.
func (r *Registry) Enabled() []Account {
	var out []Account
	for _, a := range r.All() {
		if a.Enabled {
			out = append(out, a)
		}
	}
	return out
}

// ByID looks up an account.
func (r *Registry) ByID(id string) (Account, bool) {
	if r == nil {
		return Account{}, false
	}
	a, ok := r.idx[strings.TrimSpace(id)]
	return a, ok
}

// IDs lists account ids for logging. Secrets are never included.
func (r *Registry) IDs() []string {
	all := r.All()
	ids := make([]string, 0, len(all))
	for _, a := range all {
		ids = append(ids, a.ID)
	}
	return ids
}
