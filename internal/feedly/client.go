package feedly

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/warpzoneai/newsradar/internal/config"
)

const defaultTokenExpiry = 3600 * time.Second

// Credential is a bearer token for the streams API together with its
// estimated expiry. It lives for at most one pipeline run and is re-obtained
// whenever it expires or the server rejects it.
type Credential struct {
	AccessToken string
	ExpiresAt   time.Time
}

// Expired reports whether the credential's expiry estimate has passed.
func (c Credential) Expired(now time.Time) bool {
	return !now.Before(c.ExpiresAt)
}

// Client talks to the Feedly cloud API: token refresh plus cursor-paginated
// stream reads.
type Client struct {
	baseURL      string
	authURL      string
	streamID     string
	clientID     string
	clientSecret string
	refreshToken string
	pageSize     int
	httpClient   *http.Client
}

// NewClient builds a client from configuration and credentials.
func NewClient(cfg config.Feedly, creds config.Credentials) *Client {
	pageSize := cfg.PageSize
	if pageSize <= 0 {
		pageSize = 100
	}
	return &Client{
		baseURL:      strings.TrimRight(cfg.BaseURL, "/"),
		authURL:      cfg.AuthURL,
		streamID:     creds.StreamID,
		clientID:     creds.ClientID,
		clientSecret: creds.ClientSecret,
		refreshToken: creds.RefreshToken,
		pageSize:     pageSize,
		httpClient:   &http.Client{Timeout: 30 * time.Second},
	}
}

// Refresh exchanges the refresh token for a fresh access token. The expiry
// is computed from the provider's reported lifetime, defaulting to an hour
// when unspecified.
func (c *Client) Refresh(ctx context.Context) (Credential, error) {
	form := url.Values{
		"refresh_token": {c.refreshToken},
		"client_id":     {c.clientID},
		"client_secret": {c.clientSecret},
		"grant_type":    {"refresh_token"},
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.authURL, strings.NewReader(form.Encode()))
	if err != nil {
		return Credential{}, &AuthError{Err: fmt.Errorf("creating request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Credential{}, &AuthError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Credential{}, &AuthError{Err: fmt.Errorf("token endpoint returned %d", resp.StatusCode)}
	}

	var tokens struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int64  `json:"expires_in"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&tokens); err != nil {
		return Credential{}, &AuthError{Err: fmt.Errorf("decoding token response: %w", err)}
	}

	expiry := defaultTokenExpiry
	if tokens.ExpiresIn > 0 {
		expiry = time.Duration(tokens.ExpiresIn) * time.Second
	}

	log.Printf("Feedly token refreshed, valid for %s", expiry)
	return Credential{
		AccessToken: tokens.AccessToken,
		ExpiresAt:   time.Now().Add(expiry),
	}, nil
}

// Fetch pages through the stream and returns every item published within the
// last `days` days, in provider order. The credential is refreshed
// proactively when its expiry estimate has passed and reactively once per
// page on a 401; the reactive path retries the same page so the continuation
// cursor never skips. Any other failure aborts the fetch with no partial
// result.
func (c *Client) Fetch(ctx context.Context, cred *Credential, days int, progress func(string)) ([]RawItem, error) {
	if progress == nil {
		progress = func(string) {}
	}
	progress(fmt.Sprintf("Fetching articles from the last %d days...", days))

	cutoff := time.Now().Add(-time.Duration(days) * 24 * time.Hour).UnixMilli()

	var all []RawItem
	continuation := ""
	batch := 0
	retried := false

	for {
		if cred.Expired(time.Now()) {
			log.Println("Feedly token expired, refreshing...")
			fresh, err := c.Refresh(ctx)
			if err != nil {
				return nil, err
			}
			*cred = fresh
		}

		page, status, err := c.fetchPage(ctx, cred.AccessToken, cutoff, continuation)
		if err != nil {
			return nil, &FeedError{Err: err}
		}

		if status == http.StatusUnauthorized {
			// Local expiry estimate and server-side invalidation can
			// disagree (clock skew); refresh once and retry the same page.
			if retried {
				return nil, &AuthError{Err: fmt.Errorf("stream request unauthorized after refresh")}
			}
			log.Println("Feedly returned 401, refreshing token...")
			fresh, err := c.Refresh(ctx)
			if err != nil {
				return nil, err
			}
			*cred = fresh
			retried = true
			continue
		}
		retried = false

		if status != http.StatusOK {
			return nil, &FeedError{StatusCode: status}
		}

		all = append(all, page.Items...)
		batch++
		progress(fmt.Sprintf("Batch %d: retrieved %d articles", batch, len(page.Items)))

		continuation = page.Continuation
		if continuation == "" {
			break
		}
	}

	progress(fmt.Sprintf("Fetched %d articles in %d batches from the last %d days", len(all), batch, days))
	return all, nil
}

type streamPage struct {
	Items        []RawItem `json:"items"`
	Continuation string    `json:"continuation"`
}

func (c *Client) fetchPage(ctx context.Context, accessToken string, cutoff int64, continuation string) (*streamPage, int, error) {
	params := url.Values{
		"streamId":  {c.streamID},
		"newerThan": {strconv.FormatInt(cutoff, 10)},
		"count":     {strconv.Itoa(c.pageSize)},
	}
	if continuation != "" {
		params.Set("continuation", continuation)
	}

	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+"/streams/contents?"+params.Encode(), nil)
	if err != nil {
		return nil, 0, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, resp.StatusCode, nil
	}

	var page streamPage
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return nil, 0, fmt.Errorf("decoding stream page: %w", err)
	}
	return &page, resp.StatusCode, nil
}
