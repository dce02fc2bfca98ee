package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"feedsync/models"
	apperrors "feedsync/utils/errors"
)

const tokenBlob = "auth_code"

// FileTokens persists the OAuth2 token blob of authorized accounts.
type FileTokens struct {
	fileStore
}

// Load reads the account's stored token. A missing blob means the account
// was never authorized and returns nil without error.
func (s *FileTokens) Load(ctx context.Context, account string) (*models.OAuth2Token, error) {
	data, err := s.read(s.path(account, tokenBlob))
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	var token models.OAuth2Token
	if err := json.Unmarshal(data, &token); err != nil {
		return nil, fmt.Errorf("%w: decode token for account %s: %v", apperrors.ErrStorage, account, err)
	}
	return &token, nil
}

// Save writes the account's token blob.
func (s *FileTokens) Save(ctx context.Context, account string, token *models.OAuth2Token) error {
	data, err := json.Marshal(token)
	if err != nil {
		return fmt.Errorf("%w: encode token for account %s: %v", apperrors.ErrStorage, account, err)
	}
	return s.write(s.path(account, tokenBlob), data)
}
