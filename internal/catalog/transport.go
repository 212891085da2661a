package catalog

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/kitsune-cli/kitsune/internal/cache"
	"go.uber.org/zap"
)

const (
	DefaultTimeout    = 15 * time.Second
	maxResponseBytes  = 4 << 20
	maxErrorBodyBytes = 512
	userAgent         = "kitsune (+https://github.com/kitsune-cli/kitsune)"
)

// ResponseCache is satisfied by *cache.Cache.
type ResponseCache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Put(ctx context.Context, key string, body []byte) error
}

// Options configure both catalog clients.
type Options struct {
	HTTPClient *http.Client
	Timeout    time.Duration
	Cache      ResponseCache
	Logger     *zap.Logger
}

type transport struct {
	client *http.Client
	cache  ResponseCache
	logger *zap.Logger
}

func newTransport(opts Options) *transport {
	client := opts.HTTPClient
	if client == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		client = &http.Client{Timeout: timeout}
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &transport{client: client, cache: opts.Cache, logger: logger}
}

// fetch performs one request and hands the body to decode. Bodies that decode
// cleanly are cached; cache failures are logged and otherwise ignored.
func (t *transport) fetch(ctx context.Context, op, method, url string, body []byte, decode func([]byte) error) error {
	key := cache.Key(method, url, body)
	if t.cache != nil {
		cached, ok, err := t.cache.Get(ctx, key)
		if err != nil {
			t.logger.Warn("catalog cache read failed", zap.String("op", op), zap.Error(err))
		} else if ok {
			if err := decode(cached); err == nil {
				t.logger.Debug("catalog cache hit", zap.String("op", op))
				return nil
			}
			t.logger.Debug("ignoring undecodable cache entry", zap.String("op", op))
		}
	}

	data, err := t.do(ctx, op, method, url, body)
	if err != nil {
		return err
	}
	if err := decode(data); err != nil {
		return err
	}

	if t.cache != nil {
		if err := t.cache.Put(ctx, key, data); err != nil {
			t.logger.Warn("catalog cache write failed", zap.String("op", op), zap.Error(err))
		}
	}
	return nil
}

func (t *transport) do(ctx context.Context, op, method, url string, body []byte) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, &Error{Op: op, Kind: KindNetwork, Err: fmt.Errorf("failed to create request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := t.client.Do(req)
	if err != nil {
		return nil, &Error{Op: op, Kind: KindNetwork, Err: err}
	}
	defer resp.Body.Close()
	t.logger.Debug("catalog request",
		zap.String("op", op),
		zap.String("method", method),
		zap.String("url", url),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)),
	)

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		return nil, &Error{
			Op:     op,
			Kind:   KindStatus,
			Status: resp.StatusCode,
			Err:    errors.New(strings.TrimSpace(string(snippet))),
		}
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, &Error{Op: op, Kind: KindNetwork, Err: err}
	}
	return data, nil
}
