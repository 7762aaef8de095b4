package gateway

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"budget-reconciler/internal/crypto"
	"budget-reconciler/internal/domain"
	"budget-reconciler/internal/usecase"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

var _ usecase.BankBalances = (*SimpleFIN)(nil)

// ErrNoCredentials is returned when no bridge credentials are configured,
// cached or claimed.
var ErrNoCredentials = errors.New("no simplefin credentials, run claim-simplefin first")

const (
	DefaultSimpleFINURL = "https://beta-bridge.simplefin.org/simplefin"
	credentialsFile     = "simplefin.credentials"
	accountsCacheFile   = "simplefin.accounts.json"
)

type SimpleFINConfig struct {
	BaseURL     string
	Credentials string
	CacheDir    string
	CacheKey    string
	CacheTTL    time.Duration
	Client      *http.Client

	RetryInterval time.Duration
	Now           func() time.Time
}

// SimpleFIN reads account balances from a SimpleFIN bridge.
type SimpleFIN struct {
	cfg SimpleFINConfig
	log logrus.FieldLogger

	mu    sync.Mutex
	creds string
}

func NewSimpleFIN(cfg SimpleFINConfig) *SimpleFIN {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultSimpleFINURL
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &SimpleFIN{cfg: cfg, log: logrus.WithField("gateway", "simplefin"), creds: strings.TrimSpace(cfg.Credentials)}
}

// Claim exchanges a base64 setup token for an access url and caches the
// credentials it carries. It returns them as "user:password".
func (s *SimpleFIN) Claim(ctx context.Context, setupToken string) (string, error) {
	claimURL, err := base64.StdEncoding.DecodeString(strings.TrimSpace(setupToken))
	if err != nil {
		return "", fmt.Errorf("could not decode setup token: %w", err)
	}

	client := newRESTClient(s.cfg.Client, nil, s.cfg.RetryInterval)
	body, err := client.do(ctx, http.MethodPost, string(claimURL), nil)
	if err != nil {
		return "", fmt.Errorf("could not claim setup token: %w", err)
	}

	access, err := url.Parse(strings.TrimSpace(string(body)))
	if err != nil || access.User == nil {
		return "", fmt.Errorf("claim returned an invalid access url")
	}
	pw, _ := access.User.Password()
	creds := access.User.Username() + ":" + pw

	if err := s.storeCredentials(creds); err != nil {
		return "", err
	}
	s.mu.Lock()
	s.creds = creds
	s.mu.Unlock()
	return creds, nil
}

func (s *SimpleFIN) storeCredentials(creds string) error {
	if s.cfg.CacheDir == "" {
		return nil
	}
	data := creds
	if s.cfg.CacheKey != "" {
		sealed, err := crypto.Seal([]byte(creds), s.cfg.CacheKey)
		if err != nil {
			return fmt.Errorf("could not seal credentials: %w", err)
		}
		data = sealed
	}
	if err := os.MkdirAll(s.cfg.CacheDir, 0o700); err != nil {
		return fmt.Errorf("could not create cache dir: %w", err)
	}
	if err := os.WriteFile(filepath.Join(s.cfg.CacheDir, credentialsFile), []byte(data), 0o600); err != nil {
		return fmt.Errorf("could not write credentials: %w", err)
	}
	return nil
}

// credentials prefers configured credentials over the cache file.
func (s *SimpleFIN) credentials() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.creds != "" {
		return s.creds, nil
	}
	if s.cfg.CacheDir == "" {
		return "", ErrNoCredentials
	}

	raw, err := os.ReadFile(filepath.Join(s.cfg.CacheDir, credentialsFile))
	if errors.Is(err, os.ErrNotExist) {
		return "", ErrNoCredentials
	}
	if err != nil {
		return "", fmt.Errorf("could not read credentials: %w", err)
	}
	creds := strings.TrimSpace(string(raw))
	if s.cfg.CacheKey != "" {
		plain, err := crypto.Open(creds, s.cfg.CacheKey)
		if err != nil {
			return "", fmt.Errorf("could not open cached credentials: %w", err)
		}
		creds = string(plain)
	}
	if !strings.Contains(creds, ":") {
		return "", fmt.Errorf("cached credentials are malformed")
	}
	s.creds = creds
	return creds, nil
}

type simpleFINAccount struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Currency    string `json:"currency"`
	Balance     string `json:"balance"`
	BalanceDate int64  `json:"balance-date"`
}

func (a simpleFINAccount) domain() (domain.ExternalBalance, error) {
	balance, err := decimal.NewFromString(a.Balance)
	if err != nil {
		return domain.ExternalBalance{}, fmt.Errorf("account %s balance %q: %w", a.ID, a.Balance, err)
	}
	return domain.ExternalBalance{
		ID:          a.ID,
		Name:        a.Name,
		Currency:    a.Currency,
		Balance:     balance,
		BalanceDate: time.Unix(a.BalanceDate, 0).UTC(),
	}, nil
}

type cachedAccount struct {
	FetchedAt time.Time        `json:"fetched_at"`
	Account   simpleFINAccount `json:"account"`
}

// Account returns the balance of one bridge account, served from the file
// cache while it is younger than CacheTTL.
func (s *SimpleFIN) Account(ctx context.Context, id string) (domain.ExternalBalance, error) {
	now := s.cfg.Now()
	cache := s.loadCache()
	if hit, ok := cache[id]; ok && s.cfg.CacheTTL > 0 && now.Sub(hit.FetchedAt) < s.cfg.CacheTTL {
		return hit.Account.domain()
	}

	account, err := s.fetch(ctx, id, now)
	if err != nil {
		return domain.ExternalBalance{}, err
	}
	if s.cfg.CacheTTL > 0 {
		cache[id] = cachedAccount{FetchedAt: now, Account: account}
		s.saveCache(cache)
	}
	return account.domain()
}

func (s *SimpleFIN) fetch(ctx context.Context, id string, now time.Time) (simpleFINAccount, error) {
	creds, err := s.credentials()
	if err != nil {
		return simpleFINAccount{}, err
	}

	query := url.Values{}
	query.Set("start-date", strconv.FormatInt(now.Unix(), 10))
	query.Set("end-date", strconv.FormatInt(now.Unix(), 10))
	query.Set("account", id)
	query.Set("balances-only", "1")

	headers := http.Header{}
	headers.Set("Authorization", "Basic "+base64.StdEncoding.EncodeToString([]byte(creds)))
	client := newRESTClient(s.cfg.Client, headers, s.cfg.RetryInterval)

	var resp struct {
		Errors   []string           `json:"errors"`
		Accounts []simpleFINAccount `json:"accounts"`
	}
	uri := strings.TrimRight(s.cfg.BaseURL, "/") + "/accounts?" + query.Encode()
	if err := client.doJSON(ctx, http.MethodGet, uri, nil, &resp); err != nil {
		return simpleFINAccount{}, fmt.Errorf("could not fetch simplefin account %s: %w", id, err)
	}
	for _, a := range resp.Accounts {
		if a.ID == id {
			return a, nil
		}
	}
	if len(resp.Errors) > 0 {
		return simpleFINAccount{}, fmt.Errorf("simplefin account %s: %s", id, strings.Join(resp.Errors, "; "))
	}
	return simpleFINAccount{}, fmt.Errorf("simplefin account %s: %w", id, ErrNotFound)
}

// loadCache treats unreadable or malformed cache files as empty; they are
// rewritten on the next fetch.
func (s *SimpleFIN) loadCache() map[string]cachedAccount {
	if s.cfg.CacheDir == "" {
		return map[string]cachedAccount{}
	}
	raw, err := os.ReadFile(filepath.Join(s.cfg.CacheDir, accountsCacheFile))
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			s.log.WithError(err).Warn("could not read account cache")
		}
		return map[string]cachedAccount{}
	}
	var cache map[string]cachedAccount
	if err := json.Unmarshal(raw, &cache); err != nil {
		s.log.WithError(err).Warn("discarding malformed account cache")
		return map[string]cachedAccount{}
	}
	if cache == nil {
		cache = map[string]cachedAccount{}
	}
	return cache
}

func (s *SimpleFIN) saveCache(cache map[string]cachedAccount) {
	if s.cfg.CacheDir == "" {
		return
	}
	raw, err := json.Marshal(cache)
	if err != nil {
		s.log.WithError(err).Warn("could not encode account cache")
		return
	}
	if err := os.MkdirAll(s.cfg.CacheDir, 0o700); err != nil {
		s.log.WithError(err).Warn("could not create cache dir")
		return
	}
	if err := os.WriteFile(filepath.Join(s.cfg.CacheDir, accountsCacheFile), raw, 0o600); err != nil {
		s.log.WithError(err).Warn("could not write account cache")
	}
}
