package aiimage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	defaultTimeout = 30 * time.Second
	maxRetries     = 3
	retryDelay     = time.Second

	// Generated images are fetched back for re-upload; cap the download.
	maxImageBytes = 10 * 1024 * 1024
)

var ErrEmptyPrompt = errors.New("empty prompt provided")

// Client talks to the OpenAI image generation API. Generation is a soft
// dependency: exhausted transient failures fall back to a placeholder image
// instead of surfacing a hard error.
type Client struct {
	http    *http.Client
	baseURL string
	apiKey  string
	model   string
	sleep   func(time.Duration)
}

// NewClient creates an image generation client.
func NewClient(baseURL, apiKey, model string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if model == "" {
		model = "dall-e-3"
	}

	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	}

	return &Client{
		http: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		model:   model,
		sleep:   time.Sleep,
	}
}

type generateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	N      int    `json:"n"`
	Size   string `json:"size"`
}

type generateResponse struct {
	Data []struct {
		URL string `json:"url"`
	} `json:"data"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Generate requests an image for the prompt and returns its URL. Transient
// failures (network, timeout, rate limit) are retried with exponential
// backoff; once retries are exhausted a category-appropriate placeholder URL
// is returned instead of an error.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", ErrEmptyPrompt
	}

	var lastErr error
	for attempt := 1; attempt <= maxRetries; attempt++ {
		log.Info().
			Int("prompt_length", len(prompt)).
			Int("attempt", attempt).
			Msg("Starting image generation")

		imageURL, err := c.generateOnce(ctx, prompt)
		if err == nil {
			log.Info().Msg("Image generated successfully")
			return imageURL, nil
		}
		lastErr = err

		if !isRetryable(err) || attempt == maxRetries {
			break
		}

		delay := retryDelay * time.Duration(1<<(attempt-1))
		log.Warn().
			Err(err).
			Dur("delay", delay).
			Int("retries_left", maxRetries-attempt).
			Msg("Retrying image generation after error")
		c.sleep(delay)
	}

	log.Error().Err(lastErr).Msg("Failed to generate image, falling back to placeholder")
	return placeholderURL(classifyError(lastErr)), nil
}

func (c *Client) generateOnce(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	payload, err := json.Marshal(generateRequest{
		Model:  c.model,
		Prompt: prompt,
		N:      1,
		Size:   "1024x1024",
	})
	if err != nil {
		return "", fmt.Errorf("image generation request error: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/images/generations", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("image generation request error: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", classifyRequestError(ctx, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return "", fmt.Errorf("image generation rate limited: status=429")
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("image generation http error: status=%d body=%s", resp.StatusCode, string(body))
	}

	var result generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("image generation response error: %w", err)
	}
	if result.Error != nil {
		return "", fmt.Errorf("image generation api error: %s", result.Error.Message)
	}
	if len(result.Data) == 0 || result.Data[0].URL == "" {
		return "", fmt.Errorf("no image URL returned")
	}
	return result.Data[0].URL, nil
}

// Image is a downloaded generated image ready for re-upload.
type Image struct {
	ContentType string
	Data        []byte
}

// Download fetches a generated (or placeholder) image so it can be persisted
// to the storage backend.
func (c *Client) Download(ctx context.Context, imageURL string) (*Image, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("image download request error: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, classifyRequestError(ctx, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("image download http error: status=%d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes+1))
	if err != nil {
		return nil, fmt.Errorf("image download read error: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("image download returned empty body")
	}
	if int64(len(data)) > maxImageBytes {
		return nil, fmt.Errorf("image download exceeds %d bytes", maxImageBytes)
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}

	return &Image{ContentType: contentType, Data: data}, nil
}

func classifyRequestError(ctx context.Context, err error) error {
	if isTimeoutError(ctx, err) {
		return fmt.Errorf("image generation timeout: %w", err)
	}
	if isNetworkError(err) {
		return fmt.Errorf("image generation network error: %w", err)
	}
	return fmt.Errorf("image generation request error: %w", err)
}

func isRetryable(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "timeout") ||
		strings.Contains(msg, "network") ||
		strings.Contains(msg, "429") ||
		strings.Contains(msg, "rate limit")
}

func isTimeoutError(ctx context.Context, err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return true
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, os.ErrDeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func isNetworkError(err error) bool {
	if err == nil {
		return false
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		err = urlErr.Err
	}
	var opErr *net.OpError
	return errors.As(err, &opErr)
}
