package config

import (
	"context"
	"fmt"
	"os"
	"sync"

	"gopkg.in/yaml.v3"

	"feedsync/models"
	apperrors "feedsync/utils/errors"
)

// accountsDoc is the on-disk shape of the accounts file.
type accountsDoc struct {
	Accounts []*models.Account `yaml:"accounts"`
}

// AccountsFile is the YAML accounts file, loaded once and rewritten when
// an account's configuration changes at runtime (a feed added to or
// removed from a local account).
type AccountsFile struct {
	path string

	mu       sync.Mutex
	accounts []*models.Account
}

// LoadAccountsFile reads and validates the accounts file. A missing file
// is a configuration error, not an empty account set.
func LoadAccountsFile(path string) (*AccountsFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: read accounts file %s: %v", apperrors.ErrConfig, path, err)
	}
	var doc accountsDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: decode accounts file %s: %v", apperrors.ErrConfig, path, err)
	}
	if len(doc.Accounts) == 0 {
		return nil, fmt.Errorf("%w: accounts file %s defines no accounts", apperrors.ErrConfig, path)
	}
	seen := make(map[string]struct{}, len(doc.Accounts))
	for _, account := range doc.Accounts {
		if err := account.Validate(); err != nil {
			return nil, err
		}
		if _, dup := seen[account.Name]; dup {
			return nil, fmt.Errorf("%w: duplicate account %q in %s", apperrors.ErrConfig, account.Name, path)
		}
		seen[account.Name] = struct{}{}
	}
	return &AccountsFile{path: path, accounts: doc.Accounts}, nil
}

// Accounts returns the configured accounts. Collections hold these
// pointers for the process lifetime, so runtime mutations are visible
// here when the file is rewritten.
func (f *AccountsFile) Accounts() []*models.Account {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.accounts
}

// SaveAccount persists the current account set back to the file. The
// account argument is already one of the loaded pointers; it exists so
// callers state which account changed.
func (f *AccountsFile) SaveAccount(_ context.Context, account *models.Account) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	found := false
	for _, existing := range f.accounts {
		if existing.Name == account.Name {
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("%w: account %s", apperrors.ErrNotFound, account.Name)
	}

	data, err := yaml.Marshal(accountsDoc{Accounts: f.accounts})
	if err != nil {
		return fmt.Errorf("%w: encode accounts file: %v", apperrors.ErrConfig, err)
	}
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("%w: write accounts file: %v", apperrors.ErrStorage, err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		return fmt.Errorf("%w: replace accounts file: %v", apperrors.ErrStorage, err)
	}
	return nil
}
