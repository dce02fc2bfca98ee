package driver

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"feedsync/models"
	apperrors "feedsync/utils/errors"
)

type memoryTokens struct {
	token *models.OAuth2Token
	saves int
}

func (m *memoryTokens) Load(context.Context) (*models.OAuth2Token, error) { return m.token, nil }
func (m *memoryTokens) Save(_ context.Context, token *models.OAuth2Token) error {
	m.token = token
	m.saves++
	return nil
}

type fakeAuthorizer struct {
	code  string
	calls int
}

func (f *fakeAuthorizer) Authorize(context.Context) (string, error) {
	f.calls++
	return f.code, nil
}

type readerFake struct {
	t           *testing.T
	validToken  string
	tokenGrants []string
	apiCalls    []string
	rejectOnce  bool
}

func (f *readerFake) handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		require.NoError(f.t, r.ParseForm())

		if r.URL.Path == "/oauth2/token" {
			grant := r.Form.Get("grant_type")
			f.tokenGrants = append(f.tokenGrants, grant)
			f.validToken = "token-" + grant
			_ = json.NewEncoder(w).Encode(models.TokenResponse{
				AccessToken:  f.validToken,
				RefreshToken: "refresh-1",
				ExpiresIn:    3600,
			})
			return
		}

		cmd := strings.TrimPrefix(r.URL.Path, "/reader/api/0/")
		f.apiCalls = append(f.apiCalls, cmd)
		if f.rejectOnce || r.Header.Get("Authorization") != "Bearer "+f.validToken {
			f.rejectOnce = false
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		switch {
		case cmd == "subscription/list":
			_ = json.NewEncoder(w).Encode(models.ReaderSubscriptionList{
				Subscriptions: []models.ReaderSubscription{{ID: "feed/http://a.test/rss", Title: "A"}},
			})
		case strings.HasPrefix(cmd, "stream/contents/"):
			_ = json.NewEncoder(w).Encode(models.ReaderStreamContents{
				Items: []models.ReaderItem{{
					ID:        "tag:google.com,2005:reader/item/00000000f8d2fca3",
					Title:     "one",
					Published: 1700000000,
				}},
			})
		case cmd == "subscription/quickadd":
			_ = json.NewEncoder(w).Encode(models.ReaderQuickAddResult{NumResults: 1, StreamID: "feed/" + r.Form.Get("quickadd")})
		default:
			_, _ = w.Write([]byte("OK"))
		}
	}
}

func newReaderTestClient(t *testing.T, fake *readerFake, tokens *memoryTokens, authorizer *fakeAuthorizer) *ReaderClient {
	server := httptest.NewServer(fake.handler())
	t.Cleanup(server.Close)
	return NewReaderClient(server.URL, "appid", "appkey", tokens, authorizer, 5*time.Second, nil)
}

func validStoredToken() *models.OAuth2Token {
	return &models.OAuth2Token{
		AccessToken:  "token-refresh_token",
		RefreshToken: "refresh-1",
		Expire:       time.Now().Add(time.Hour).UnixMilli(),
	}
}

func TestReaderClient_AuthorizesWhenNoStoredToken(t *testing.T) {
	fake := &readerFake{t: t}
	tokens := &memoryTokens{}
	authorizer := &fakeAuthorizer{code: "auth-code"}
	client := newReaderTestClient(t, fake, tokens, authorizer)

	list, err := client.ListSubscriptions(context.Background())
	require.NoError(t, err)
	require.Len(t, list.Subscriptions, 1)

	assert.Equal(t, 1, authorizer.calls)
	assert.Equal(t, []string{"authorization_code"}, fake.tokenGrants)
	require.NotNil(t, tokens.token)
	assert.Equal(t, "auth-code", tokens.token.AuthCode)
}

func TestReaderClient_RefreshesExpiredToken(t *testing.T) {
	fake := &readerFake{t: t}
	tokens := &memoryTokens{token: &models.OAuth2Token{
		AccessToken:  "stale",
		RefreshToken: "refresh-1",
		Expire:       time.Now().Add(-time.Minute).UnixMilli(),
	}}
	authorizer := &fakeAuthorizer{code: "unused"}
	client := newReaderTestClient(t, fake, tokens, authorizer)

	_, err := client.ListSubscriptions(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"refresh_token"}, fake.tokenGrants)
	assert.Zero(t, authorizer.calls)
}

func TestReaderClient_RetriesOnceOn401(t *testing.T) {
	fake := &readerFake{t: t, validToken: "token-refresh_token", rejectOnce: true}
	tokens := &memoryTokens{token: validStoredToken()}
	client := newReaderTestClient(t, fake, tokens, &fakeAuthorizer{})

	_, err := client.ListSubscriptions(context.Background())
	require.NoError(t, err)

	// One rejected call, a refresh grant, then the retried call.
	assert.Equal(t, []string{"subscription/list", "subscription/list"}, fake.apiCalls)
	assert.Equal(t, []string{"refresh_token"}, fake.tokenGrants)
}

func TestReaderClient_SecondRejectionSurfacesAuthError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/oauth2/token" {
			_ = json.NewEncoder(w).Encode(models.TokenResponse{AccessToken: "a", RefreshToken: "r", ExpiresIn: 3600})
			return
		}
		w.WriteHeader(http.StatusUnauthorized)
	}))
	t.Cleanup(server.Close)

	tokens := &memoryTokens{token: validStoredToken()}
	client := NewReaderClient(server.URL, "appid", "appkey", tokens, &fakeAuthorizer{}, 5*time.Second, nil)

	_, err := client.ListSubscriptions(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrAuth)
}

func TestReaderClient_QuickAdd(t *testing.T) {
	fake := &readerFake{t: t, validToken: "token-refresh_token"}
	tokens := &memoryTokens{token: validStoredToken()}
	client := newReaderTestClient(t, fake, tokens, &fakeAuthorizer{})

	result, err := client.QuickAdd(context.Background(), "http://b.test/rss")
	require.NoError(t, err)
	assert.Equal(t, "feed/http://b.test/rss", result.StreamID)
}

func TestReaderClient_StreamContentsShortID(t *testing.T) {
	fake := &readerFake{t: t, validToken: "token-refresh_token"}
	tokens := &memoryTokens{token: validStoredToken()}
	client := newReaderTestClient(t, fake, tokens, &fakeAuthorizer{})

	contents, err := client.StreamContents(context.Background(), "feed/http://a.test/rss", 10, false, "")
	require.NoError(t, err)
	require.Len(t, contents.Items, 1)
	assert.Equal(t, "00000000f8d2fca3", contents.Items[0].ShortID())
}
