package account

import (
	"fmt"
	"sort"

	"github.com/spf13/viper"
)

// Registry resolves seller account identifiers to display names. It is
// loaded once at startup and immutable afterwards.
type Registry interface {
	DisplayName(id string) (string, bool)
	List() []Account
}

// Account is one configured seller account.
type Account struct {
	ID          string
	DisplayName string
}

type registry struct {
	accounts map[string]string
}

// NewRegistry reads the accounts file, a flat id-to-display-name mapping
// under an "accounts" key.
func NewRegistry(path string) (Registry, error) {
	v := viper.New()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read accounts file: %w", err)
	}

	accounts := v.GetStringMapString("accounts")
	if len(accounts) == 0 {
		return nil, fmt.Errorf("accounts file %s defines no accounts", path)
	}
	return &registry{accounts: accounts}, nil
}

// NewStaticRegistry builds a registry from an in-memory mapping, for
// embedding and tests.
func NewStaticRegistry(accounts map[string]string) Registry {
	copied := make(map[string]string, len(accounts))
	for id, name := range accounts {
		copied[id] = name
	}
	return &registry{accounts: copied}
}

func (r *registry) DisplayName(id string) (string, bool) {
	name, ok := r.accounts[id]
	return name, ok
}

func (r *registry) List() []Account {
	out := make([]Account, 0, len(r.accounts))
	for id, name := range r.accounts {
		out = append(out, Account{ID: id, DisplayName: name})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
