package adapters

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	attmodels "trustledger/internal/attestation/models"
	id "trustledger/pkg/domain"
	"trustledger/pkg/platform/circuit"
)

// probeInterval is how long an open circuit waits before letting one request
// through to test whether the remote recovered.
const probeInterval = 10 * time.Second

// HTTPAttestationSource reads a user's attestations from a remote ledger
// instance. Used when the owner repoints the calculator at another ledger.
// A circuit breaker fails reads fast while the remote is down.
type HTTPAttestationSource struct {
	baseURL string
	client  *http.Client
	breaker *circuit.Breaker

	mu        sync.Mutex
	nextProbe time.Time
}

func NewHTTPAttestationSource(baseURL string) *HTTPAttestationSource {
	return &HTTPAttestationSource{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 5 * time.Second},
		breaker: circuit.New("attestation-source", circuit.WithFailureThreshold(3)),
	}
}

func (a *HTTPAttestationSource) allowAttempt() bool {
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

func (a *HTTPAttestationSource) ListByUser(ctx context.Context, user id.Address) ([]attmodels.Attestation, error) {
	if !a.allowAttempt() {
		return nil, fmt.Errorf("remote attestation lookup: circuit open for %s", a.baseURL)
	}

	list, err := a.lookup(ctx, user)
	if err != nil {
		a.breaker.RecordFailure()
		return nil, err
	}
	a.breaker.RecordSuccess()
	return list, nil
}

func (a *HTTPAttestationSource) lookup(ctx context.Context, user id.Address) ([]attmodels.Attestation, error) {
	url := fmt.Sprintf("%s/attestations/%s", a.baseURL, user.String())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build attestation lookup request: %w", err)
	}
	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("remote attestation lookup: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("remote attestation lookup: unexpected status %d", resp.StatusCode)
	}

	var list []attmodels.Attestation
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		return nil, fmt.Errorf("decode attestation lookup response: %w", err)
	}
	return list, nil
}
