// Package httpclient builds the HTTP client used for every forge API and
// asset-download request, with retries and per-forge bearer auth baked in.
package httpclient

import (
	"net/http"
	"time"

	"github.com/apex/log"
	"github.com/hashicorp/go-retryablehttp"

	"github.com/binary-install/ubi/pkg/forge"
)

// Version is the program version reported in the User-Agent header. main
// overrides it at build time via -ldflags.
var Version = "dev"

// New builds an *http.Client that retries transient failures (connection
// resets, 5xx, 429) with exponential backoff, tags every request with a
// ubi User-Agent, and attaches token as a Bearer credential when set.
func New(token string) *http.Client {
	rc := retryablehttp.NewClient()
	rc.RetryMax = 3
	rc.RetryWaitMin = 500 * time.Millisecond
	rc.RetryWaitMax = 5 * time.Second
	rc.Logger = nil
	rc.RequestLogHook = func(_ retryablehttp.Logger, req *http.Request, attempt int) {
		if attempt > 0 {
			log.Debugf("retrying %s %s (attempt %d)", req.Method, req.URL, attempt+1)
		}
	}

	client := rc.StandardClient()
	client.Transport = &authTransport{
		base:  client.Transport,
		token: token,
	}
	return client
}

// TokenFor resolves the effective bearer token for a forge request: the
// explicitly configured token if any, else the forge's conventional
// environment variables.
func TokenFor(forgeType forge.Type, explicit string) string {
	return forge.Token(forgeType, explicit)
}

type authTransport struct {
	base  http.RoundTripper
	token string
}

func (t *authTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req2 := req.Clone(req.Context())
	req2.Header.Set("User-Agent", "ubi version "+Version)
	if t.token != "" {
		req2.Header.Set("Authorization", "Bearer "+t.token)
	}
	return t.base.RoundTrip(req2)
}
