package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/sirupsen/logrus"
)

const defaultRetries = 5

// restClient issues JSON requests, retrying transport errors, 429 and 5xx with
// exponential backoff. Other non-2xx statuses fail immediately.
type restClient struct {
	http     *http.Client
	headers  http.Header
	retries  uint64
	interval time.Duration
	log      logrus.FieldLogger
}

func newRESTClient(client *http.Client, headers http.Header, interval time.Duration) *restClient {
	if client == nil {
		client = &http.Client{Timeout: 60 * time.Second}
	}
	if headers == nil {
		headers = http.Header{}
	}
	return &restClient{
		http:     client,
		headers:  headers,
		retries:  defaultRetries,
		interval: interval,
		log:      logrus.StandardLogger(),
	}
}

func (c *restClient) backOff(ctx context.Context) backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	if c.interval > 0 {
		b.InitialInterval = c.interval
	}
	return backoff.WithContext(backoff.WithMaxRetries(b, c.retries), ctx)
}

// do sends in (when non-nil) as the JSON body and returns the raw response body.
func (c *restClient) do(ctx context.Context, method, uri string, in any) ([]byte, error) {
	var payload []byte
	if in != nil {
		var err error
		if payload, err = json.Marshal(in); err != nil {
			return nil, fmt.Errorf("could not encode request: %w", err)
		}
	}

	var body []byte
	op := func() error {
		var rd io.Reader
		if payload != nil {
			rd = bytes.NewReader(payload)
		}
		req, err := http.NewRequestWithContext(ctx, method, uri, rd)
		if err != nil {
			return backoff.Permanent(err)
		}
		req.Header.Set("Accept", "application/json")
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		for k, vs := range c.headers {
			for _, v := range vs {
				req.Header.Add(k, v)
			}
		}

		resp, err := c.http.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return err
		}
		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			body = data
			return nil
		}

		serr := &StatusError{Method: method, URL: req.URL.Redacted(), Code: resp.StatusCode, Body: string(data)}
		if serr.Retryable() {
			c.log.WithField("status", resp.StatusCode).WithField("url", serr.URL).Debug("retrying request")
			return serr
		}
		return backoff.Permanent(serr)
	}

	if err := backoff.Retry(op, c.backOff(ctx)); err != nil {
		var serr *StatusError
		if errors.As(err, &serr) && serr.Code == http.StatusNotFound {
			return nil, fmt.Errorf("%w: %w", ErrNotFound, err)
		}
		return nil, err
	}
	return body, nil
}

// doJSON is do with the response decoded into out.
func (c *restClient) doJSON(ctx context.Context, method, uri string, in, out any) error {
	body, err := c.do(ctx, method, uri, in)
	if err != nil {
		return err
	}
	if out == nil || len(body) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("could not decode %s %s response: %w", method, uri, err)
	}
	return nil
}
