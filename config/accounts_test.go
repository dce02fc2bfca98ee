package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"feedsync/models"
	apperrors "feedsync/utils/errors"
)

const accountsYAML = `accounts:
  - name: main
    type: local
    feeds:
      - name: News
        list:
          - feed: http://example.com/rss
  - name: office
    type: ttrss
    server: https://rss.example.com
    username: bob
    password: hunter2
`

func writeAccountsFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "accounts.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadAccountsFile(t *testing.T) {
	file, err := LoadAccountsFile(writeAccountsFile(t, accountsYAML))
	require.NoError(t, err)

	accounts := file.Accounts()
	require.Len(t, accounts, 2)
	assert.Equal(t, "main", accounts[0].Name)
	assert.Equal(t, models.AccountLocal, accounts[0].Type)
	require.Len(t, accounts[0].Feeds, 1)
	assert.Equal(t, "http://example.com/rss", accounts[0].Feeds[0].List[0].Feed)
	assert.Equal(t, models.AccountTTRSS, accounts[1].Type)
	assert.Equal(t, "bob", accounts[1].Username)
}

func TestLoadAccountsFileErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"empty", "accounts: []\n"},
		{"not yaml", "{{{"},
		{"duplicate names", "accounts:\n  - name: main\n    type: local\n  - name: main\n    type: local\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadAccountsFile(writeAccountsFile(t, tt.content))
			assert.ErrorIs(t, err, apperrors.ErrConfig)
		})
	}

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadAccountsFile(filepath.Join(t.TempDir(), "nope.yml"))
		assert.ErrorIs(t, err, apperrors.ErrConfig)
	})

	t.Run("invalid account", func(t *testing.T) {
		_, err := LoadAccountsFile(writeAccountsFile(t, "accounts:\n  - name: office\n    type: ttrss\n"))
		assert.Error(t, err)
	})
}

func TestSaveAccountRoundtrip(t *testing.T) {
	path := writeAccountsFile(t, accountsYAML)
	file, err := LoadAccountsFile(path)
	require.NoError(t, err)
	ctx := context.Background()

	account := file.Accounts()[0]
	account.Feeds = account.Feeds.Append("http://other.com/rss", "News")
	require.NoError(t, file.SaveAccount(ctx, account))

	reloaded, err := LoadAccountsFile(path)
	require.NoError(t, err)
	feeds := reloaded.Accounts()[0].Feeds
	assert.True(t, feeds.Contains("http://other.com/rss"))
	assert.True(t, feeds.Contains("http://example.com/rss"))
}

func TestSaveAccountUnknown(t *testing.T) {
	file, err := LoadAccountsFile(writeAccountsFile(t, accountsYAML))
	require.NoError(t, err)

	err = file.SaveAccount(context.Background(), &models.Account{Name: "ghost", Type: models.AccountLocal})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}
