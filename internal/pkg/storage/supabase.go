package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
)

// SupabaseClient implements Client for Supabase Storage over its HTTP API.
type SupabaseClient struct {
	http       *http.Client
	baseURL    string
	bucket     string
	serviceKey string
	urls       URLBuilder
	backoff    Backoff
}

// NewSupabaseClient creates a Supabase Storage backend client. The service
// key is the fallback credential; per-request bearer credentials from the
// context take precedence.
func NewSupabaseClient(settings Settings, serviceKey string, backoff Backoff) (*SupabaseClient, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
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

	baseURL := trimBase(settings.BaseURL)

	log.Info().
		Str("bucket", settings.BucketName).
		Str("base_url", baseURL).
		Msg("Supabase storage client initialized")

	return &SupabaseClient{
		http: &http.Client{
			Timeout:   requestTimeout,
			Transport: transport,
		},
		baseURL:    baseURL,
		bucket:     settings.BucketName,
		serviceKey: serviceKey,
		urls:       NewSupabaseURLBuilder(baseURL, settings.BucketName),
		backoff:    backoff,
	}, nil
}

func (c *SupabaseClient) objectURL(key string) string {
	return fmt.Sprintf("%s/storage/v1/object/%s/%s", c.baseURL, c.bucket, key)
}

func (c *SupabaseClient) bearer(ctx context.Context) string {
	if token := CredentialFromContext(ctx); token != "" {
		return token
	}
	return c.serviceKey
}

func (c *SupabaseClient) do(ctx context.Context, method, url string, body []byte, contentType string) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, fmt.Errorf("supabase storage request error: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.bearer(ctx))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	return c.http.Do(req)
}

// Upload stores the file under key with retry. Upsert is enabled so a retry
// that overwrites a partial object is harmless.
func (c *SupabaseClient) Upload(ctx context.Context, file File, key string) (string, error) {
	if key == "" {
		return "", ErrEmptyKey
	}

	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	contentType := file.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	err := c.backoff.Retry(ctx, "supabase upload", func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.objectURL(key), bytes.NewReader(file.Data))
		if err != nil {
			return fmt.Errorf("supabase storage request error: %w", err)
		}
		req.Header.Set("Authorization", "Bearer "+c.bearer(ctx))
		req.Header.Set("Content-Type", contentType)
		req.Header.Set("Cache-Control", CacheControlImmutable)
		req.Header.Set("x-upsert", "true")

		resp, err := c.http.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
			return httpError("upload", resp)
		}
		return nil
	})
	if err != nil {
		return "", err
	}

	log.Info().
		Str("key", key).
		Str("bucket", c.bucket).
		Int("size", len(file.Data)).
		Msg("File uploaded to Supabase Storage")

	return key, nil
}

// Delete removes an object. Empty key is a no-op; a missing object is
// treated as already deleted. Attempted once, not retried.
func (c *SupabaseClient) Delete(ctx context.Context, key string) error {
	if key == "" {
		log.Warn().Msg("Attempted to delete object with empty key")
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	resp, err := c.do(ctx, http.MethodDelete, c.objectURL(key), nil, "")
	if err != nil {
		return fmt.Errorf("failed to delete from Supabase Storage: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusOK || resp.StatusCode == http.StatusNotFound {
		log.Info().Str("key", key).Msg("File deleted from Supabase Storage")
		return nil
	}
	return httpError("delete", resp)
}

// SignedURL delegates to Supabase-native signing. Attempted once.
func (c *SupabaseClient) SignedURL(ctx context.Context, key string, ttl time.Duration) (string, error) {
	if key == "" {
		return "", ErrEmptyKey
	}

	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	payload, err := json.Marshal(map[string]int64{"expiresIn": int64(ttl.Seconds())})
	if err != nil {
		return "", fmt.Errorf("failed to encode sign request: %w", err)
	}

	signURL := fmt.Sprintf("%s/storage/v1/object/sign/%s/%s", c.baseURL, c.bucket, key)
	resp, err := c.do(ctx, http.MethodPost, signURL, payload, "application/json")
	if err != nil {
		return "", fmt.Errorf("failed to sign Supabase URL: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", httpError("sign", resp)
	}

	var result struct {
		SignedURL string `json:"signedURL"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("failed to decode sign response: %w", err)
	}
	if result.SignedURL == "" {
		return "", fmt.Errorf("no signed URL returned")
	}

	return c.baseURL + "/storage/v1" + result.SignedURL, nil
}

// PublicURL delegates to the paired URL builder.
func (c *SupabaseClient) PublicURL(key string) string {
	return c.urls.PublicURL(key)
}

func httpError(operation string, resp *http.Response) error {
	body, readErr := io.ReadAll(io.LimitReader(resp.Body, 1024))
	if readErr != nil {
		return fmt.Errorf("supabase storage %s error: status=%d body=<failed to read body: %v>", operation, resp.StatusCode, readErr)
	}
	return fmt.Errorf("supabase storage %s error: status=%d body=%s", operation, resp.StatusCode, string(body))
}
