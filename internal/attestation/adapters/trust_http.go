package adapters

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	id "trustledger/pkg/domain"
	"trustledger/pkg/platform/circuit"
)

// probeInterval is how long an open circuit waits before letting one request
// through to test whether the remote recovered.
const probeInterval = 10 * time.Second

// HTTPTrustOracle consults a remote trust registry instance over its public
// read endpoint. Used when the owner repoints the ledger at another registry.
// A circuit breaker fails lookups fast while the remote is down.
type HTTPTrustOracle struct {
	baseURL string
	client  *http.Client
	breaker *circuit.Breaker

	mu        sync.Mutex
	nextProbe time.Time
}

func NewHTTPTrustOracle(baseURL string) *HTTPTrustOracle {
	return &HTTPTrustOracle{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 5 * time.Second},
		breaker: circuit.New("trust-oracle", circuit.WithFailureThreshold(3)),
	}
}

// allowAttempt reports whether a call may go out. With the circuit open, only
// one probe per interval is allowed through.
func (a *HTTPTrustOracle) allowAttempt() bool {
	if !a.breaker.IsOpen() {
		return true
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if time.Now().Before(a.nextProbe) {
		return false
	}
	a.nextProbe = time.Now().Add(probeInterval)
	return true
}

func (a *HTTPTrustOracle) IsTrusted(ctx context.Context, reporter id.Address) (bool, error) {
	if !a.allowAttempt() {
		return false, fmt.Errorf("remote trust lookup: circuit open for %s", a.baseURL)
	}

	trusted, err := a.lookup(ctx, reporter)
	if err != nil {
		a.breaker.RecordFailure()
		return false, err
	}
	a.breaker.RecordSuccess()
	return trusted, nil
}

func (a *HTTPTrustOracle) lookup(ctx context.Context, reporter id.Address) (bool, error) {
	url := fmt.Sprintf("%s/trust/banks/%s", a.baseURL, reporter.String())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return false, fmt.Errorf("build trust lookup request: %w", err)
	}
	resp, err := a.client.Do(req)
	if err != nil {
		return false, fmt.Errorf("remote trust lookup: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("remote trust lookup: unexpected status %d", resp.StatusCode)
	}

	var body struct {
		Trusted bool `json:"trusted"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return false, fmt.Errorf("decode trust lookup response: %w", err)
	}
	return body.Trusted, nil
}
