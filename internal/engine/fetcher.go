package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/netip"
	"net/url"
	"syscall"
	"time"

	"github.com/tartampluch/go-birthday-web/internal/config"
)

// ErrAddressBlocked is returned when a remote import would connect to a
// loopback, private, link-local or otherwise non-public address.
var ErrAddressBlocked = errors.New(config.ErrAddrBlocked)

// sharedAddressSpace is the carrier-grade NAT range of RFC 6598.
var sharedAddressSpace = netip.MustParsePrefix("100.64.0.0/10")

// guardedClient serves fetchers built without a client.
var guardedClient = newImportClient(config.HTTPTimeout, false)

// VCardFetcher retrieves a remote vCard export.
type VCardFetcher interface {
	Fetch(ctx context.Context, url, user, pass string) (io.ReadCloser, error)
}

// HTTPFetcher downloads vCards over http(s) with optional basic auth.
type HTTPFetcher struct {
	Client *http.Client
}

// NewHTTPFetcher returns a fetcher whose requests give up after timeout.
// Unless allowPrivate is set, every connection, redirects included, is checked
// after DNS resolution and refused when the peer is not a public address.
func NewHTTPFetcher(timeout time.Duration, allowPrivate bool) *HTTPFetcher {
	return &HTTPFetcher{Client: newImportClient(timeout, allowPrivate)}
}

func newImportClient(timeout time.Duration, allowPrivate bool) *http.Client {
	dialer := &net.Dialer{Timeout: config.DialTimeout}
	if !allowPrivate {
		dialer.Control = refuseNonPublic
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	// No proxy: the dial guard has to see the real peer.
	transport.Proxy = nil
	transport.DialContext = dialer.DialContext

	return &http.Client{Timeout: timeout, Transport: transport}
}

// refuseNonPublic is a net.Dialer Control hook; address is already resolved.
func refuseNonPublic(_, address string, _ syscall.RawConn) error {
	host, _, err := net.SplitHostPort(address)
	if err != nil {
		return err
	}
	ip, err := netip.ParseAddr(host)
	if err != nil {
		return err
	}
	if !isPublic(ip) {
		return fmt.Errorf("%w: %s", ErrAddressBlocked, ip)
	}
	return nil
}

func isPublic(ip netip.Addr) bool {
	ip = ip.Unmap()
	switch {
	case ip.IsLoopback(), ip.IsPrivate(), ip.IsUnspecified(),
		ip.IsLinkLocalUnicast(), ip.IsLinkLocalMulticast(),
		ip.IsInterfaceLocalMulticast(), ip.IsMulticast(),
		sharedAddressSpace.Contains(ip):
		return false
	}
	return true
}

// Fetch opens targetURL. The returned body is capped at config.MaxHTTPResponseSize.
// Query strings are stripped from logged URLs since CardDAV shares often embed tokens there.
func (f *HTTPFetcher) Fetch(ctx context.Context, targetURL, user, pass string) (io.ReadCloser, error) {
	u, err := url.Parse(targetURL)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrInvalidURL, err)
	}
	if u.Scheme != config.SchemeHTTP && u.Scheme != config.SchemeHTTPS {
		return nil, fmt.Errorf("%s: %s", config.ErrProtocol, u.Scheme)
	}

	log := slog.With(
		slog.String(config.LogKeyComponent, config.CompFetcher),
		slog.String(config.LogKeyURL, u.Scheme+"://"+u.Host+u.Path),
	)
	log.DebugContext(ctx, config.MsgFetchStart)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, targetURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrFetchRequest, err)
	}
	req.Header.Set(config.HeaderUserAgent, config.UserAgent)
	if user != "" || pass != "" {
		req.SetBasicAuth(user, pass)
	}

	resp, err := f.client().Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrFetchNetwork, err)
	}

	if resp.StatusCode != http.StatusOK {
		_ = resp.Body.Close()
		log.WarnContext(ctx, config.MsgFetchStatus, slog.Int(config.LogKeyStatus, resp.StatusCode))
		return nil, fmt.Errorf("%s: %d %s", config.ErrFetchStatus, resp.StatusCode, http.StatusText(resp.StatusCode))
	}

	log.InfoContext(ctx, config.MsgFetchOK, slog.Int64(config.LogKeyLength, resp.ContentLength))

	return &limitedReadCloser{
		Reader: io.LimitReader(resp.Body, config.MaxHTTPResponseSize),
		Closer: resp.Body,
	}, nil
}

func (f *HTTPFetcher) client() *http.Client {
	if f.Client == nil {
		return guardedClient
	}
	return f.Client
}

// limitedReadCloser reads through the limit but closes the real body.
type limitedReadCloser struct {
	io.Reader
	io.Closer
}
