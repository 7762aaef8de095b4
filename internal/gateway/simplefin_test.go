package gateway

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBridge struct {
	srv      *httptest.Server
	accounts atomic.Int32
}

func newFakeBridge(t *testing.T) *fakeBridge {
	t.Helper()
	b := &fakeBridge{}
	mux := http.NewServeMux()
	mux.HandleFunc("POST /claim/abc", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, "https://demo:s3cret@%s/simplefin", r.Host)
	})
	mux.HandleFunc("GET /simplefin/accounts", func(w http.ResponseWriter, r *http.Request) {
		b.accounts.Add(1)
		user, pw, ok := r.BasicAuth()
		if !ok || user != "demo" || pw != "s3cret" {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}
		q := r.URL.Query()
		assert.Equal(t, "1", q.Get("balances-only"))
		assert.NotEmpty(t, q.Get("start-date"))
		assert.NotEmpty(t, q.Get("end-date"))
		if q.Get("account") != "ACT-1" {
			fmt.Fprint(w, `{"errors":["unknown account"],"accounts":[]}`)
			return
		}
		fmt.Fprint(w, `{"errors":[],"accounts":[{"id":"ACT-1","name":"Visa","currency":"USD","balance":"-1234.56","balance-date":1715299200}]}`)
	})
	b.srv = httptest.NewServer(mux)
	t.Cleanup(b.srv.Close)
	return b
}

func (b *fakeBridge) setupToken() string {
	return base64.StdEncoding.EncodeToString([]byte(b.srv.URL + "/claim/abc"))
}

func TestSimpleFIN_ClaimAndFetch(t *testing.T) {
	bridge := newFakeBridge(t)
	dir := t.TempDir()
	sf := NewSimpleFIN(SimpleFINConfig{BaseURL: bridge.srv.URL + "/simplefin", CacheDir: dir, RetryInterval: time.Millisecond})
	ctx := context.Background()

	_, err := sf.Account(ctx, "ACT-1")
	require.ErrorIs(t, err, ErrNoCredentials)

	creds, err := sf.Claim(ctx, bridge.setupToken())
	require.NoError(t, err)
	assert.Equal(t, "demo:s3cret", creds)

	raw, err := os.ReadFile(filepath.Join(dir, credentialsFile))
	require.NoError(t, err)
	assert.Equal(t, "demo:s3cret", string(raw))

	// a fresh client picks the credentials up from the cache file
	sf = NewSimpleFIN(SimpleFINConfig{BaseURL: bridge.srv.URL + "/simplefin", CacheDir: dir, RetryInterval: time.Millisecond})
	got, err := sf.Account(ctx, "ACT-1")
	require.NoError(t, err)
	assert.Equal(t, "Visa", got.Name)
	assert.True(t, decimal.RequireFromString("-1234.56").Equal(got.Balance))
	assert.Equal(t, time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC), got.BalanceDate)

	_, err = sf.Account(ctx, "ACT-2")
	assert.ErrorContains(t, err, "unknown account")
}

func TestSimpleFIN_EncryptedCredentialCache(t *testing.T) {
	bridge := newFakeBridge(t)
	dir := t.TempDir()
	cfg := SimpleFINConfig{BaseURL: bridge.srv.URL + "/simplefin", CacheDir: dir, CacheKey: "cache-key", RetryInterval: time.Millisecond}
	ctx := context.Background()

	_, err := NewSimpleFIN(cfg).Claim(ctx, bridge.setupToken())
	require.NoError(t, err)

	raw, err := os.ReadFile(filepath.Join(dir, credentialsFile))
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "s3cret")

	_, err = NewSimpleFIN(cfg).Account(ctx, "ACT-1")
	require.NoError(t, err)

	cfg.CacheKey = "other-key"
	_, err = NewSimpleFIN(cfg).Account(ctx, "ACT-1")
	assert.ErrorContains(t, err, "could not open cached credentials")
}

func TestSimpleFIN_ConfiguredCredentialsWin(t *testing.T) {
	bridge := newFakeBridge(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, credentialsFile), []byte("stale:creds"), 0o600))

	sf := NewSimpleFIN(SimpleFINConfig{
		BaseURL: bridge.srv.URL + "/simplefin", Credentials: "demo:s3cret", CacheDir: dir, RetryInterval: time.Millisecond,
	})
	_, err := sf.Account(context.Background(), "ACT-1")
	assert.NoError(t, err)
}

func TestSimpleFIN_ResponseCacheTTL(t *testing.T) {
	bridge := newFakeBridge(t)
	now := time.Date(2024, 5, 10, 8, 0, 0, 0, time.UTC)
	cfg := SimpleFINConfig{
		BaseURL:       bridge.srv.URL + "/simplefin",
		Credentials:   "demo:s3cret",
		CacheDir:      t.TempDir(),
		CacheTTL:      time.Hour,
		RetryInterval: time.Millisecond,
		Now:           func() time.Time { return now },
	}
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := NewSimpleFIN(cfg).Account(ctx, "ACT-1")
		require.NoError(t, err)
	}
	assert.Equal(t, int32(1), bridge.accounts.Load())

	now = now.Add(61 * time.Minute)
	_, err := NewSimpleFIN(cfg).Account(ctx, "ACT-1")
	require.NoError(t, err)
	assert.Equal(t, int32(2), bridge.accounts.Load())
}

func TestSimpleFIN_BadSetupToken(t *testing.T) {
	_, err := NewSimpleFIN(SimpleFINConfig{}).Claim(context.Background(), "%%%not-base64")
	assert.ErrorContains(t, err, "could not decode setup token")
}

func TestSimpleFIN_MalformedResponseCache(t *testing.T) {
	for _, content := range []string{"null", "{not json", `{"ACT-1":null}`} {
		t.Run(content, func(t *testing.T) {
			bridge := newFakeBridge(t)
			dir := t.TempDir()
			require.NoError(t, os.WriteFile(filepath.Join(dir, accountsCacheFile), []byte(content), 0o600))

			sf := NewSimpleFIN(SimpleFINConfig{
				BaseURL: bridge.srv.URL + "/simplefin", Credentials: "demo:s3cret", CacheDir: dir,
				CacheTTL: time.Hour, RetryInterval: time.Millisecond,
			})
			got, err := sf.Account(context.Background(), "ACT-1")
			require.NoError(t, err)
			assert.Equal(t, "Visa", got.Name)

			raw, err := os.ReadFile(filepath.Join(dir, accountsCacheFile))
			require.NoError(t, err)
			assert.Contains(t, string(raw), `"ACT-1"`)
		})
	}
}
