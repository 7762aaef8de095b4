package gateway

import (
	"context"
	"fmt"
	"math/big"
	"net/http"
	"net/url"
	"strings"
	"sync/atomic"
	"time"

	"budget-reconciler/internal/usecase"

	"github.com/shopspring/decimal"
)

var (
	_ usecase.ValidatorBalances = (*Beacon)(nil)
	_ usecase.WalletBalances    = (*Execution)(nil)
	_ usecase.PriceSource       = (*Kraken)(nil)
)

// Beacon reads validator balances from a consensus client's beacon API.
type Beacon struct {
	host   string
	client *restClient
}

func NewBeacon(host string, client *http.Client, retryInterval time.Duration) *Beacon {
	return &Beacon{host: strings.TrimRight(host, "/"), client: newRESTClient(client, nil, retryInterval)}
}

// ValidatorBalances returns finalized balances in gwei keyed by validator index.
func (b *Beacon) ValidatorBalances(ctx context.Context, indices []string) (map[string]decimal.Decimal, error) {
	if b.host == "" {
		return nil, fmt.Errorf("consensus host is not configured")
	}
	query := url.Values{}
	query.Set("id", strings.Join(indices, ","))

	var resp struct {
		Data []struct {
			Index   string `json:"index"`
			Balance string `json:"balance"`
		} `json:"data"`
	}
	uri := b.host + "/eth/v1/beacon/states/finalized/validator_balances?" + query.Encode()
	if err := b.client.doJSON(ctx, http.MethodGet, uri, nil, &resp); err != nil {
		return nil, fmt.Errorf("could not fetch validator balances: %w", err)
	}

	out := make(map[string]decimal.Decimal, len(resp.Data))
	for _, v := range resp.Data {
		gwei, err := decimal.NewFromString(v.Balance)
		if err != nil {
			return nil, fmt.Errorf("validator %s balance %q: %w", v.Index, v.Balance, err)
		}
		out[v.Index] = gwei
	}
	for _, idx := range indices {
		if _, ok := out[idx]; !ok {
			return nil, fmt.Errorf("validator %s: %w", idx, ErrNotFound)
		}
	}
	return out, nil
}

// Execution reads wallet balances over an execution client's JSON-RPC API.
type Execution struct {
	host   string
	client *restClient
	nextID atomic.Int64
}

func NewExecution(host string, client *http.Client, retryInterval time.Duration) *Execution {
	return &Execution{host: host, client: newRESTClient(client, nil, retryInterval)}
}

type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	Method  string `json:"method"`
	Params  []any  `json:"params"`
	ID      int64  `json:"id"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *rpcError) Error() string {
	return fmt.Sprintf("rpc error %d: %s", e.Code, e.Message)
}

// WalletBalance returns the latest balance of address in wei.
func (e *Execution) WalletBalance(ctx context.Context, address string) (decimal.Decimal, error) {
	if e.host == "" {
		return decimal.Decimal{}, fmt.Errorf("execution host is not configured")
	}
	req := rpcRequest{
		JSONRPC: "2.0",
		Method:  "eth_getBalance",
		Params:  []any{address, "latest"},
		ID:      e.nextID.Add(1),
	}
	var resp struct {
		Result string    `json:"result"`
		Error  *rpcError `json:"error"`
	}
	if err := e.client.doJSON(ctx, http.MethodPost, e.host, req, &resp); err != nil {
		return decimal.Decimal{}, fmt.Errorf("could not fetch balance of %s: %w", address, err)
	}
	if resp.Error != nil {
		return decimal.Decimal{}, fmt.Errorf("could not fetch balance of %s: %w", address, resp.Error)
	}

	wei, ok := new(big.Int).SetString(strings.TrimPrefix(resp.Result, "0x"), 16)
	if !ok {
		return decimal.Decimal{}, fmt.Errorf("balance of %s: invalid quantity %q", address, resp.Result)
	}
	return decimal.NewFromBigInt(wei, 0), nil
}

const DefaultKrakenURL = "https://api.kraken.com/0/public/Ticker"

// Kraken reads last trade prices from the Kraken public ticker.
type Kraken struct {
	url    string
	client *restClient
}

func NewKraken(tickerURL string, client *http.Client, retryInterval time.Duration) *Kraken {
	if tickerURL == "" {
		tickerURL = DefaultKrakenURL
	}
	return &Kraken{url: tickerURL, client: newRESTClient(client, nil, retryInterval)}
}

// USDPrice returns the last trade price of symbol in USD.
func (k *Kraken) USDPrice(ctx context.Context, symbol string) (decimal.Decimal, error) {
	query := url.Values{}
	query.Set("pair", strings.ToLower(symbol)+"usd")

	var resp struct {
		Error  []string `json:"error"`
		Result map[string]struct {
			Close []string `json:"c"`
		} `json:"result"`
	}
	if err := k.client.doJSON(ctx, http.MethodGet, k.url+"?"+query.Encode(), nil, &resp); err != nil {
		return decimal.Decimal{}, fmt.Errorf("could not fetch %s price: %w", symbol, err)
	}
	if len(resp.Error) > 0 {
		return decimal.Decimal{}, fmt.Errorf("kraken %s: %s", symbol, strings.Join(resp.Error, "; "))
	}

	pair := "X" + strings.ToUpper(symbol) + "ZUSD"
	ticker, ok := resp.Result[pair]
	if !ok || len(ticker.Close) == 0 {
		return decimal.Decimal{}, fmt.Errorf("kraken pair %s: %w", pair, ErrNotFound)
	}
	price, err := decimal.NewFromString(ticker.Close[0])
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("kraken pair %s price %q: %w", pair, ticker.Close[0], err)
	}
	return price, nil
}
