// Package classifier calls the external sleep disorder prediction service.
package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/yusufkecer/nyenyak-backend/internal/apperr"
	"github.com/yusufkecer/nyenyak-backend/internal/domain"
	"github.com/yusufkecer/nyenyak-backend/internal/metrics"
)

type Config struct {
	URL     string
	Timeout time.Duration

	BreakerMaxRequests      uint32
	BreakerInterval         time.Duration
	BreakerTimeout          time.Duration
	BreakerFailureThreshold float64
	BreakerMinRequests      uint32
}

func DefaultConfig(url string) Config {
	return Config{
		URL:                     url,
		Timeout:                 30 * time.Second,
		BreakerMaxRequests:      1,
		BreakerInterval:         60 * time.Second,
		BreakerTimeout:          30 * time.Second,
		BreakerFailureThreshold: 0.6,
		BreakerMinRequests:      5,
	}
}

type Client struct {
	url        string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker
	logger     *zap.Logger
	metrics    *metrics.Metrics
}

func New(cfg Config, logger *zap.Logger, m *metrics.Metrics) *Client {
	c := &Client{
		url:        cfg.URL,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     logger,
		metrics:    m,
	}

	c.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "classifier",
		MaxRequests: cfg.BreakerMaxRequests,
		Interval:    cfg.BreakerInterval,
		Timeout:     cfg.BreakerTimeout,
		// A caller that gave up says nothing about the model's health.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.BreakerMinRequests {
				return false
			}
			ratio := float64(counts.TotalFailures) / float64(counts.Requests)
			return ratio >= cfg.BreakerFailureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})

	return c
}

// Predict posts the feature vector and returns the predicted disorder. Every
// failure comes back as a downstream error; nothing is retried.
func (c *Client) Predict(ctx context.Context, features domain.FeatureVector) (string, error) {
	start := time.Now()

	out, err := c.breaker.Execute(func() (interface{}, error) {
		return c.post(ctx, features)
	})
	if err != nil {
		c.metrics.ObserveClassifier("error", time.Since(start))
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return "", apperr.Downstream("prediction service temporarily unavailable", err)
		}
		c.logger.Error("prediction request failed", zap.String("url", c.url), zap.Error(err))
		return "", apperr.Downstream("prediction request failed", err)
	}

	c.metrics.ObserveClassifier("ok", time.Since(start))
	return out.(string), nil
}

func (c *Client) post(ctx context.Context, features domain.FeatureVector) (string, error) {
	body, err := json.Marshal(features)
	if err != nil {
		return "", fmt.Errorf("failed to marshal features: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("prediction http error: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<10))
		return "", fmt.Errorf("prediction api error %d: %s", resp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	var p domain.Prediction
	if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
		return "", fmt.Errorf("failed to decode prediction: %w", err)
	}
	if strings.TrimSpace(p.SleepDisorder) == "" {
		return "", errors.New("prediction response has no sleep_disorder")
	}
	return p.SleepDisorder, nil
}
