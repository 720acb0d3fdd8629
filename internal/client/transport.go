package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"time"

	"homedepot/scraper/internal/config"
	"homedepot/scraper/internal/proxy"

	log "github.com/sirupsen/logrus"
	"go.uber.org/ratelimit"
	"resty.dev/v3"
)

// FailureReason classifies why a request produced no usable payload.
type FailureReason string

const (
	ReasonTimeout    FailureReason = "timeout"
	ReasonConnection FailureReason = "connection"
	ReasonStatus     FailureReason = "status"
	ReasonDecode     FailureReason = "decode"
)

// FetchError is returned by every transport call that did not yield a payload.
type FetchError struct {
	Method     string
	URL        string
	Reason     FailureReason
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.Reason == ReasonStatus {
		return fmt.Sprintf("%s %s: HTTP error: %d", e.Method, e.URL, e.StatusCode)
	}
	return fmt.Sprintf("%s %s: %s error: %v", e.Method, e.URL, e.Reason, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// IsReason reports whether err is a FetchError with the given reason.
func IsReason(err error, reason FailureReason) bool {
	var fetchErr *FetchError
	return errors.As(err, &fetchErr) && fetchErr.Reason == reason
}

// transport issues GETs with retries and a timeout, and POSTs with neither.
type transport struct {
	getClient     *resty.Client
	postClient    *resty.Client
	rl            ratelimit.Limiter
	postTimeout   time.Duration
	proxySupplier proxy.ProxySupplier
}

func newTransport(httpCfg config.HTTPConfig, site config.SiteConfig, proxySupplier proxy.ProxySupplier) *transport {
	getClient := resty.New().
		SetTimeout(time.Duration(httpCfg.Timeout)*time.Second).
		SetRetryCount(httpCfg.MaxRetries).
		SetRetryWaitTime(500*time.Millisecond).
		SetRetryMaxWaitTime(5*time.Second).
		SetRetryDefaultConditions(false).
		AddRetryConditions(retryOnConnectionError).
		SetHeader("User-Agent", site.UserAgent).
		SetHeader("Accept", site.Accept)

	postClient := resty.New().
		SetRetryCount(0).
		SetHeader("User-Agent", site.UserAgent)

	if proxySupplier != nil {
		if proxyURL := proxySupplier.Get(); proxyURL != "" {
			getClient.SetProxy(proxyURL)
			postClient.SetProxy(proxyURL)
			log.Infof("🔗 Using initial proxy: %s", proxyURL)
		}
	}

	rl := ratelimit.NewUnlimited()
	if httpCfg.MaxRequestsPerSecond > 0 {
		rl = ratelimit.New(httpCfg.MaxRequestsPerSecond)
	}

	return &transport{
		getClient:     getClient,
		postClient:    postClient,
		rl:            rl,
		postTimeout:   time.Duration(httpCfg.PostTimeout) * time.Second,
		proxySupplier: proxySupplier,
	}
}

func (t *transport) getHTML(ctx context.Context, url string) (string, error) {
	t.rl.Take()

	resp, err := t.getClient.R().
		SetContext(ctx).
		Get(url)
	if err != nil {
		return "", t.failed("GET", url, err)
	}
	if resp.IsError() {
		return "", &FetchError{Method: "GET", URL: url, Reason: ReasonStatus, StatusCode: resp.StatusCode()}
	}

	return resp.String(), nil
}

func (t *transport) getJSON(ctx context.Context, url string, out any) error {
	t.rl.Take()

	resp, err := t.getClient.R().
		SetContext(ctx).
		SetHeader("Accept", "application/json").
		Get(url)
	if err != nil {
		return t.failed("GET", url, err)
	}
	if resp.IsError() {
		return &FetchError{Method: "GET", URL: url, Reason: ReasonStatus, StatusCode: resp.StatusCode()}
	}

	if err := json.Unmarshal(resp.Bytes(), out); err != nil {
		return &FetchError{Method: "GET", URL: url, Reason: ReasonDecode, StatusCode: resp.StatusCode(), Err: err}
	}
	return nil
}

func (t *transport) postJSON(ctx context.Context, url string, query, headers map[string]string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to encode request body: %w", err)
	}

	if t.postTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.postTimeout)
		defer cancel()
	}

	t.rl.Take()

	resp, err := t.postClient.R().
		SetContext(ctx).
		SetQueryParams(query).
		SetHeaders(headers).
		SetHeader("Content-Type", "application/json").
		SetBody(payload).
		Post(url)
	if err != nil {
		return t.failed("POST", url, err)
	}
	if resp.IsError() {
		return &FetchError{Method: "POST", URL: url, Reason: ReasonStatus, StatusCode: resp.StatusCode()}
	}

	if err := json.Unmarshal(resp.Bytes(), out); err != nil {
		return &FetchError{Method: "POST", URL: url, Reason: ReasonDecode, StatusCode: resp.StatusCode(), Err: err}
	}
	return nil
}

// retryOnConnectionError retries transport failures other than timeouts. Error statuses are
// returned to the caller as they are.
func retryOnConnectionError(_ *resty.Response, err error) bool {
	return err != nil && !isTimeout(err)
}

func isTimeout(err error) bool {
	var netErr net.Error
	return errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout())
}

// failed classifies a transport error and moves to the next proxy after connection failures.
func (t *transport) failed(method, url string, err error) *FetchError {
	reason := ReasonConnection
	if isTimeout(err) {
		reason = ReasonTimeout
	}

	log.Warnf("⚠️ %s %s failed (%s): %v", method, url, reason, err)

	if reason == ReasonConnection && t.proxySupplier != nil {
		if next := t.proxySupplier.Get(); next != "" {
			log.Infof("🔄 Switching to new proxy: %s", next)
			t.getClient.SetProxy(next)
			t.postClient.SetProxy(next)
		}
	}

	return &FetchError{Method: method, URL: url, Reason: reason, Err: err}
}

func (t *transport) close() error {
	return errors.Join(t.getClient.Close(), t.postClient.Close())
}
