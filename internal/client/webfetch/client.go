// Package webfetch is the outbound HTTP capability used by widgets. Every
// request is time-bounded, responses are size-capped, and connections to
// loopback, private, or link-local addresses are refused so that widget
// configuration cannot be used to probe the internal network.
package webfetch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/netip"
	"net/url"
	"syscall"
	"time"

	"github.com/radek-zitek-cloud/hsh-alfa-sub000/internal/errs"
)

const (
	defaultTimeout   = 10 * time.Second
	maxBodyBytes     = 2 << 20 // 2 MiB
	maxRedirects     = 5
	errBodyPreview   = 200
	defaultUserAgent = "hsh-widgets/1.0"
)

// Fetcher is the interface widgets consume. Implemented by *Client; tests
// substitute fakes.
type Fetcher interface {
	GetJSON(ctx context.Context, rawurl string, params url.Values, headers map[string]string, v any) error
	GetText(ctx context.Context, rawurl string, params url.Values, headers map[string]string) (string, error)
}

type Client struct {
	http *http.Client
}

// New builds a Client with the given per-request timeout (0 means the default
// 10s). The underlying dialer rejects unsafe destination addresses after DNS
// resolution, so a hostname resolving to a private IP is blocked too.
func New(timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	dialer := &net.Dialer{
		Timeout: timeout,
		Control: guardAddress,
	}
	transport := &http.Transport{
		DialContext:           dialer.DialContext,
		TLSHandshakeTimeout:   timeout,
		ResponseHeaderTimeout: timeout,
		MaxIdleConns:          16,
		IdleConnTimeout:       90 * time.Second,
	}
	return &Client{
		http: &http.Client{
			Transport: transport,
			Timeout:   timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= maxRedirects {
					return fmt.Errorf("stopped after %d redirects", maxRedirects)
				}
				return checkScheme(req.URL)
			},
		},
	}
}

// GetJSON performs a GET and decodes a 2xx JSON body into v.
func (c *Client) GetJSON(ctx context.Context, rawurl string, params url.Values, headers map[string]string, v any) error {
	body, err := c.get(ctx, rawurl, params, headers)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, v); err != nil {
		return errs.NewExternalServiceError(hostOf(rawurl),
			fmt.Sprintf("malformed JSON response from %s: %v", hostOf(rawurl), err), false)
	}
	return nil
}

// GetText performs a GET and returns a 2xx body as a string.
func (c *Client) GetText(ctx context.Context, rawurl string, params url.Values, headers map[string]string) (string, error) {
	body, err := c.get(ctx, rawurl, params, headers)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

func (c *Client) get(ctx context.Context, rawurl string, params url.Values, headers map[string]string) ([]byte, error) {
	u, err := url.Parse(rawurl)
	if err != nil {
		return nil, errs.NewValidationError("malformed URL: " + rawurl)
	}
	if err := checkScheme(u); err != nil {
		return nil, err
	}
	if len(params) > 0 {
		q := u.Query()
		for k, vs := range params {
			for _, v := range vs {
				q.Add(k, v)
			}
		}
		u.RawQuery = q.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", defaultUserAgent)
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errs.NewExternalServiceError(u.Host, fmt.Sprintf("request to %s failed: %v", u.Host, err), true)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, errs.NewExternalServiceError(u.Host, fmt.Sprintf("reading response from %s failed: %v", u.Host, err), true)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		preview := string(body)
		if len(preview) > errBodyPreview {
			preview = preview[:errBodyPreview]
		}
		return nil, errs.NewExternalServiceError(u.Host,
			fmt.Sprintf("unexpected status %d from %s: %s", resp.StatusCode, u.Host, preview),
			resp.StatusCode >= 500)
	}
	return body, nil
}

// ---- Destination guards ----

func checkScheme(u *url.URL) error {
	if u.Scheme != "http" && u.Scheme != "https" {
		return errs.NewUnsafeDestinationError("scheme " + u.Scheme + " is not allowed")
	}
	return nil
}

// guardAddress runs after DNS resolution, immediately before the socket
// connects, so it also covers redirects and DNS rebinding.
func guardAddress(_, address string, _ syscall.RawConn) error {
	host, _, err := net.SplitHostPort(address)
	if err != nil {
		return errs.NewUnsafeDestinationError("malformed destination address " + address)
	}
	addr, err := netip.ParseAddr(host)
	if err != nil {
		return errs.NewUnsafeDestinationError("unresolvable destination address " + host)
	}
	if isBlockedAddr(addr) {
		return errs.NewUnsafeDestinationError("destination address " + host + " is not allowed")
	}
	return nil
}

func isBlockedAddr(addr netip.Addr) bool {
	addr = addr.Unmap()
	return addr.IsLoopback() ||
		addr.IsPrivate() ||
		addr.IsLinkLocalUnicast() ||
		addr.IsLinkLocalMulticast() ||
		addr.IsMulticast() ||
		addr.IsUnspecified()
}

func hostOf(rawurl string) string {
	if u, err := url.Parse(rawurl); err == nil && u.Host != "" {
		return u.Host
	}
	return rawurl
}
