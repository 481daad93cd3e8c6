package payments

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/Not-Another-Coach/nac-backend/internal/logger"
	"github.com/Not-Another-Coach/nac-backend/internal/utils"
)

// Client wraps the hosted payment provider's REST API. The backend only ever
// performs two calls against it: retrying the latest failed charge for a
// customer and reactivating a lapsed plan.
type Client interface {
	RetryCharge(ctx context.Context, customerRef string) (*ChargeResult, error)
	ReactivatePlan(ctx context.Context, customerRef, planID string) (*PlanResult, error)
}

type Config struct {
	BaseURL    string
	APIKey     string
	Timeout    time.Duration
	MaxRetries int
}

type ChargeResult struct {
	ChargeID string `json:"charge_id"`
	Status   string `json:"status"`
}

type PlanResult struct {
	PlanID string `json:"plan_id"`
	Status string `json:"status"`
}

type client struct {
	log  *logger.Logger
	cfg  Config
	http *http.Client
}

func ConfigFromEnv(log *logger.Logger) Config {
	timeoutSec := utils.GetEnvAsInt("PAYMENTS_TIMEOUT_SECONDS", 30, log)
	maxRetries := utils.GetEnvAsInt("PAYMENTS_MAX_RETRIES", 3, log)
	return Config{
		BaseURL:    strings.TrimSpace(os.Getenv("PAYMENTS_BASE_URL")),
		APIKey:     strings.TrimSpace(os.Getenv("PAYMENTS_API_KEY")),
		Timeout:    time.Duration(timeoutSec) * time.Second,
		MaxRetries: maxRetries,
	}
}

func NewFromEnv(log *logger.Logger) (Client, error) {
	return New(log, ConfigFromEnv(log))
}

func New(log *logger.Logger, cfg Config) (Client, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("missing PAYMENTS_API_KEY")
	}
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, fmt.Errorf("missing PAYMENTS_BASE_URL")
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &client{
		log:  log.With("service", "PaymentsClient"),
		cfg:  cfg,
		http: &http.Client{Timeout: cfg.Timeout},
	}, nil
}

func (c *client) RetryCharge(ctx context.Context, customerRef string) (*ChargeResult, error) {
	if strings.TrimSpace(customerRef) == "" {
		return nil, fmt.Errorf("customerRef required")
	}
	var out ChargeResult
	err := c.post(ctx, "/v1/charges/retry", map[string]string{"customer": customerRef}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *client) ReactivatePlan(ctx context.Context, customerRef, planID string) (*PlanResult, error) {
	if strings.TrimSpace(customerRef) == "" {
		return nil, fmt.Errorf("customerRef required")
	}
	if strings.TrimSpace(planID) == "" {
		return nil, fmt.Errorf("planID required")
	}
	var out PlanResult
	err := c.post(ctx, "/v1/plans/reactivate", map[string]string{"customer": customerRef, "plan": planID}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

type providerError struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// post retries transient failures (429 and 5xx) with linear backoff up to
// MaxRetries attempts. 4xx responses other than 429 are terminal.
func (c *client) post(ctx context.Context, path string, body any, out any) error {
	raw, err := json.Marshal(body)
	if err != nil {
		return err
	}

	attempts := c.cfg.MaxRetries
	if attempts < 1 {
		attempts = 1
	}
	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if attempt > 1 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(time.Duration(attempt) * time.Second):
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+path, bytes.NewReader(raw))
		if err != nil {
			return err
		}
		req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.http.Do(req)
		if err != nil {
			lastErr = err
			c.log.Warn("Payment provider request failed", "path", path, "attempt", attempt, "error", err)
			continue
		}
		respBody, readErr := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		if readErr != nil {
			lastErr = readErr
			continue
		}

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			if out == nil {
				return nil
			}
			return json.Unmarshal(respBody, out)
		}

		var pe providerError
		_ = json.Unmarshal(respBody, &pe)
		lastErr = fmt.Errorf("payment provider %s returned %d: %s", path, resp.StatusCode, pe.Error.Message)

		if resp.StatusCode != http.StatusTooManyRequests && resp.StatusCode < 500 {
			return lastErr
		}
		c.log.Warn("Payment provider transient error, retrying", "path", path, "status", resp.StatusCode, "attempt", attempt)
	}
	return lastErr
}
