package handler

import (
	"context"
	"log/slog"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"

	trustservice "trustledger/internal/trust/service"
	truststore "trustledger/internal/trust/store"
	id "trustledger/pkg/domain"
	"trustledger/pkg/testutil"
)

// =============================================================================
// Trust Registry Handler Tests
// =============================================================================
// Exercises the full decode -> service -> error-envelope path against a real
// service and in-memory store, with caller identity injected the way the auth
// middleware would.

const (
	ownerAddr    = "0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"
	strangerAddr = "0xbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb"
	bankAddr     = "0xcccccccccccccccccccccccccccccccccccccccc"
)

type TrustHandlerSuite struct {
	suite.Suite
	router chi.Router
}

func TestTrustHandlerSuite(t *testing.T) {
	suite.Run(t, new(TrustHandlerSuite))
}

func (s *TrustHandlerSuite) SetupTest() {
	store := truststore.NewInMemoryStore()
	s.Require().NoError(store.SetOwner(context.Background(), id.MustParseAddress(ownerAddr)))

	svc, err := trustservice.New(store, slog.Default(), nil, nil)
	s.Require().NoError(err)

	h := New(svc, slog.Default())
	s.router = chi.NewRouter()
	h.Register(s.router)
	h.RegisterPublic(s.router)
}

func (s *TrustHandlerSuite) TestSetTrust() {
	s.Run("owner grants trust", func() {
		req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/trust/banks",
			map[string]any{"address": bankAddr, "trusted": true})
		req = testutil.WithCaller(req, ownerAddr)

		rr := testutil.DoRequest(s.router, req)
		testutil.AssertStatusOK(s.T(), rr)
		testutil.AssertJSONContains(s.T(), rr, "trusted", true)

		check := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/trust/banks/"+bankAddr))
		testutil.AssertStatusOK(s.T(), check)
		testutil.AssertJSONContains(s.T(), check, "trusted", true)
	})

	s.Run("non-owner gets forbidden", func() {
		req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/trust/banks",
			map[string]any{"address": bankAddr, "trusted": true})
		req = testutil.WithCaller(req, strangerAddr)

		rr := testutil.DoRequest(s.router, req)
		testutil.AssertStatusAndError(s.T(), rr, http.StatusForbidden, "unauthorized")
	})

	s.Run("missing caller identity is unauthenticated", func() {
		req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/trust/banks",
			map[string]any{"address": bankAddr, "trusted": true})

		rr := testutil.DoRequest(s.router, req)
		testutil.AssertStatusAndError(s.T(), rr, http.StatusUnauthorized, "unauthenticated")
	})

	s.Run("malformed bank address is a bad request", func() {
		req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/trust/banks",
			map[string]any{"address": "nope", "trusted": true})
		req = testutil.WithCaller(req, ownerAddr)

		rr := testutil.DoRequest(s.router, req)
		testutil.AssertStatus(s.T(), rr, http.StatusBadRequest)
	})

	s.Run("unknown JSON fields are rejected", func() {
		req := testutil.NewRequestWithBody(s.T(), http.MethodPost, "/trust/banks",
			`{"address":"`+bankAddr+`","trusted":true,"extra":1}`)
		req = testutil.WithCaller(req, ownerAddr)

		rr := testutil.DoRequest(s.router, req)
		testutil.AssertStatus(s.T(), rr, http.StatusBadRequest)
	})
}

func (s *TrustHandlerSuite) TestIsTrusted() {
	s.Run("unknown bank reads as untrusted", func() {
		rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/trust/banks/"+bankAddr))
		testutil.AssertStatusOK(s.T(), rr)
		testutil.AssertJSONContains(s.T(), rr, "trusted", false)
	})

	s.Run("malformed address is a bad request", func() {
		rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/trust/banks/zzz"))
		testutil.AssertStatus(s.T(), rr, http.StatusBadRequest)
	})
}

func (s *TrustHandlerSuite) TestTransferOwnership() {
	s.Run("owner hands off", func() {
		req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/trust/owner",
			map[string]any{"new_owner": strangerAddr})
		req = testutil.WithCaller(req, ownerAddr)

		rr := testutil.DoRequest(s.router, req)
		testutil.AssertStatusOK(s.T(), rr)
		testutil.AssertJSONContains(s.T(), rr, "owner", strangerAddr)
	})

	s.Run("previous owner is locked out after the handoff", func() {
		req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/trust/owner",
			map[string]any{"new_owner": ownerAddr})
		req = testutil.WithCaller(req, ownerAddr)

		rr := testutil.DoRequest(s.router, req)
		testutil.AssertStatusAndError(s.T(), rr, http.StatusForbidden, "unauthorized")
	})
}
