package httpapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/drm/internal/program"
	"github.com/mesh-intelligence/drm/internal/sqlite"
	"github.com/mesh-intelligence/drm/pkg/types"
)

const testDecimals = 9

type envelope struct {
	Status  string          `json:"status"`
	Code    string          `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type testServer struct {
	handler http.Handler
	auth    *Authenticator
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	b := sqlite.NewBackend()
	require.NoError(t, b.Attach(types.Config{Backend: types.BackendSQLite, DataDir: t.TempDir()}))
	t.Cleanup(func() { b.Detach() })

	a, err := NewAuthenticator("test-secret")
	require.NoError(t, err)
	h := NewHandler(program.New(b), a, nil, testDecimals)
	return &testServer{handler: NewRouter(h), auth: a}
}

func (s *testServer) token(t *testing.T, identity string) string {
	t.Helper()
	raw, err := s.auth.Issue(identity, time.Hour)
	require.NoError(t, err)
	return raw
}

// do sends a request as identity; an empty identity sends no token.
func (s *testServer) do(t *testing.T, method, path, identity string, body any) (int, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if identity != "" {
		req.Header.Set("Authorization", "Bearer "+s.token(t, identity))
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return rec.Code, env
}

func decodeData(t *testing.T, env envelope, dst any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(env.Data, dst))
}

func TestHealthz(t *testing.T) {
	s := newTestServer(t)
	status, env := s.do(t, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ok", env.Message)
}

func TestRequestIDEchoed(t *testing.T) {
	s := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Request-Id", "req-1")
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	assert.Equal(t, "req-1", rec.Header().Get("X-Request-Id"))

	rec = httptest.NewRecorder()
	s.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))
}

func TestInstructionsRequireToken(t *testing.T) {
	s := newTestServer(t)

	status, env := s.do(t, http.MethodPost, "/v1/registry", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "UNAUTHORIZED", env.Code)

	req := httptest.NewRequest(http.MethodPost, "/v1/registry", nil)
	req.Header.Set("Authorization", "Bearer forged")
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLicensingOverHTTP(t *testing.T) {
	s := newTestServer(t)

	status, env := s.do(t, http.MethodPost, "/v1/registry", "Auth", nil)
	require.Equal(t, http.StatusCreated, status, env.Message)

	status, env = s.do(t, http.MethodPost, "/v1/registry", "Auth", nil)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "ALREADY_INITIALIZED", env.Code)

	status, env = s.do(t, http.MethodPost, "/v1/tokens", "Auth", map[string]any{"owner": "Buyer", "amount": "1"})
	require.Equal(t, http.StatusOK, status, env.Message)
	var bal balanceView
	decodeData(t, env, &bal)
	assert.Equal(t, uint64(1_000_000_000), bal.Balance)

	status, env = s.do(t, http.MethodPost, "/v1/contents", "Auth", map[string]any{
		"content_id":   "c1",
		"content_hash": "hashQm1",
		"price":        "0.1",
		"max_licenses": 100,
	})
	require.Equal(t, http.StatusCreated, status, env.Message)
	var content types.Content
	decodeData(t, env, &content)
	assert.Equal(t, uint64(100_000_000), content.Price)
	assert.Equal(t, uint32(100), content.MaxLicenses)
	assert.True(t, content.IsActive)

	status, env = s.do(t, http.MethodPost, "/v1/licenses", "Buyer", map[string]any{"content_id": "c1", "license_id": "lic1"})
	require.Equal(t, http.StatusCreated, status, env.Message)
	var lic types.License
	decodeData(t, env, &lic)
	assert.Equal(t, "Buyer", lic.Owner)
	assert.Equal(t, "Auth", lic.Authority)

	status, env = s.do(t, http.MethodGet, "/v1/tokens/Auth", "", nil)
	require.Equal(t, http.StatusOK, status)
	decodeData(t, env, &bal)
	assert.Equal(t, "0.1", bal.Amount)

	status, env = s.do(t, http.MethodGet, "/v1/tokens", "", nil)
	require.Equal(t, http.StatusOK, status)
	var balances []balanceView
	decodeData(t, env, &balances)
	require.Len(t, balances, 2)
	assert.Equal(t, "Auth", balances[0].Owner)
	assert.Equal(t, "0.9", balances[1].Amount)

	status, _ = s.do(t, http.MethodPost, "/v1/licenses/lic1/verify", "Buyer", nil)
	assert.Equal(t, http.StatusOK, status)

	status, env = s.do(t, http.MethodPost, "/v1/licenses/lic1/verify", "Mallory", nil)
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "UNAUTHORIZED_SIGNER", env.Code)

	status, env = s.do(t, http.MethodPost, "/v1/licenses/lic1/revoke", "Mallory", nil)
	assert.Equal(t, http.StatusForbidden, status)

	status, _ = s.do(t, http.MethodPost, "/v1/licenses/lic1/revoke", "Auth", nil)
	require.Equal(t, http.StatusOK, status)

	status, env = s.do(t, http.MethodPost, "/v1/licenses/lic1/revoke", "Auth", nil)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "ALREADY_REVOKED", env.Code)

	status, env = s.do(t, http.MethodPost, "/v1/licenses/lic1/verify", "Buyer", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Equal(t, "LICENSE_INACTIVE", env.Code)

	status, env = s.do(t, http.MethodGet, "/v1/contents/c1", "", nil)
	require.Equal(t, http.StatusOK, status)
	decodeData(t, env, &content)
	assert.Equal(t, uint32(0), content.CurrentLicenses)

	status, env = s.do(t, http.MethodGet, "/v1/registry", "", nil)
	require.Equal(t, http.StatusOK, status)
	var reg types.Registry
	decodeData(t, env, &reg)
	assert.Equal(t, uint64(1), reg.TotalContent)
	assert.Equal(t, uint64(1), reg.TotalLicenses)
}

func TestUpdateContentOverHTTP(t *testing.T) {
	s := newTestServer(t)
	s.do(t, http.MethodPost, "/v1/registry", "Auth", nil)
	s.do(t, http.MethodPost, "/v1/contents", "Auth", map[string]any{
		"content_id": "c1", "content_hash": "h", "price": "0", "max_licenses": 1,
	})

	status, env := s.do(t, http.MethodPatch, "/v1/contents/c1", "Auth", map[string]any{"price": "2.5", "is_active": false})
	require.Equal(t, http.StatusOK, status, env.Message)
	var content types.Content
	decodeData(t, env, &content)
	assert.Equal(t, uint64(2_500_000_000), content.Price)
	assert.False(t, content.IsActive)

	status, env = s.do(t, http.MethodPost, "/v1/licenses", "Buyer", map[string]any{"content_id": "c1", "license_id": "lic1"})
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Equal(t, "CONTENT_INACTIVE", env.Code)

	status, env = s.do(t, http.MethodPatch, "/v1/contents/c1", "Mallory", map[string]any{"is_active": true})
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "UNAUTHORIZED_SIGNER", env.Code)
}

func TestRequestValidation(t *testing.T) {
	s := newTestServer(t)
	s.do(t, http.MethodPost, "/v1/registry", "Auth", nil)

	tests := []struct {
		name string
		body any
	}{
		{"missing hash", map[string]any{"content_id": "c1", "price": "1", "max_licenses": 1}},
		{"negative price", map[string]any{"content_id": "c1", "content_hash": "h", "price": "-1", "max_licenses": 1}},
		{"bad price", map[string]any{"content_id": "c1", "content_hash": "h", "price": "abc", "max_licenses": 1}},
		{"missing capacity", map[string]any{"content_id": "c1", "content_hash": "h", "price": "1"}},
		{"long id", map[string]any{"content_id": "0123456789abcdef0123456789abcdef0", "content_hash": "h", "price": "1", "max_licenses": 1}},
		{"unknown field", map[string]any{"content_id": "c1", "content_hash": "h", "price": "1", "max_licenses": 1, "extra": true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, env := s.do(t, http.MethodPost, "/v1/contents", "Auth", tt.body)
			assert.Equal(t, http.StatusBadRequest, status)
			assert.Equal(t, "VALIDATION_ERROR", env.Code)
		})
	}

	status, env := s.do(t, http.MethodGet, "/v1/contents", "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `[]`, string(env.Data))
}

func TestListFilters(t *testing.T) {
	s := newTestServer(t)
	s.do(t, http.MethodPost, "/v1/registry", "Auth", nil)
	for _, id := range []string{"c1", "c2"} {
		status, env := s.do(t, http.MethodPost, "/v1/contents", "Auth", map[string]any{
			"content_id": id, "content_hash": "h-" + id, "price": "0", "max_licenses": 5,
		})
		require.Equal(t, http.StatusCreated, status, env.Message)
	}
	s.do(t, http.MethodPatch, "/v1/contents/c2", "Auth", map[string]any{"is_active": false})
	s.do(t, http.MethodPost, "/v1/licenses", "Buyer", map[string]any{"content_id": "c1", "license_id": "lic1"})

	status, env := s.do(t, http.MethodGet, "/v1/contents?active=true", "", nil)
	require.Equal(t, http.StatusOK, status)
	var contents []contentView
	decodeData(t, env, &contents)
	require.Len(t, contents, 1)
	assert.Equal(t, "c1", contents[0].ContentID)

	status, env = s.do(t, http.MethodGet, "/v1/licenses?owner=Buyer&content_id=c1", "", nil)
	require.Equal(t, http.StatusOK, status)
	var licenses []types.License
	decodeData(t, env, &licenses)
	require.Len(t, licenses, 1)
	assert.Equal(t, "lic1", licenses[0].LicenseID)

	status, env = s.do(t, http.MethodGet, "/v1/contents?active=maybe", "", nil)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "INVALID_FILTER", env.Code)
}

func TestPackagesOverHTTP(t *testing.T) {
	s := newTestServer(t)
	s.do(t, http.MethodPost, "/v1/registry", "Auth", nil)

	status, env := s.do(t, http.MethodPost, "/v1/packages", "Auth", map[string]any{
		"package_name":       "com.example.app",
		"drm_type":           "nft",
		"nft_mint_addresses": []string{"Mint1"},
	})
	require.Equal(t, http.StatusCreated, status, env.Message)

	status, env = s.do(t, http.MethodPost, "/v1/packages", "Auth", map[string]any{
		"package_name": "com.example.app",
		"drm_type":     "nft",
	})
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "DUPLICATE_PACKAGE", env.Code)

	status, env = s.do(t, http.MethodPost, "/v1/packages", "Auth", map[string]any{
		"package_name": "other",
		"drm_type":     "paper",
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION_ERROR", env.Code)

	status, env = s.do(t, http.MethodPatch, "/v1/packages/com.example.app", "Auth", map[string]any{"drm_type": "mixed"})
	require.Equal(t, http.StatusOK, status, env.Message)
	var pkg types.Package
	decodeData(t, env, &pkg)
	assert.Equal(t, types.DRMTypeMixed, pkg.DRMType)
	assert.Equal(t, []string{"Mint1"}, pkg.NFTMintAddresses)

	status, env = s.do(t, http.MethodPatch, "/v1/packages/com.example.app", "Auth", map[string]any{
		"token_mint_address": "TokenMint",
		"min_token_amount":   5,
	})
	require.Equal(t, http.StatusOK, status, env.Message)
	var gated types.Package
	decodeData(t, env, &gated)
	require.NotNil(t, gated.TokenMintAddress)
	assert.Equal(t, "TokenMint", *gated.TokenMintAddress)

	status, env = s.do(t, http.MethodPatch, "/v1/packages/com.example.app", "Auth", map[string]any{
		"token_mint_address": "Other",
		"clear_token_mint":   true,
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "INVALID_PARAMETERS", env.Code)

	status, env = s.do(t, http.MethodPatch, "/v1/packages/com.example.app", "Auth", map[string]any{
		"clear_token_mint":       true,
		"clear_min_token_amount": true,
	})
	require.Equal(t, http.StatusOK, status, env.Message)
	var cleared types.Package
	decodeData(t, env, &cleared)
	assert.Nil(t, cleared.TokenMintAddress)
	assert.Nil(t, cleared.MinTokenAmount)

	status, _ = s.do(t, http.MethodGet, "/v1/packages/missing", "", nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestMintRequiresRegistryAuthority(t *testing.T) {
	s := newTestServer(t)
	s.do(t, http.MethodPost, "/v1/registry", "Auth", nil)

	status, env := s.do(t, http.MethodPost, "/v1/tokens", "Mallory", map[string]any{"owner": "Mallory", "amount": "5"})
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "UNAUTHORIZED_SIGNER", env.Code)

	status, env = s.do(t, http.MethodGet, "/v1/tokens/Mallory", "", nil)
	require.Equal(t, http.StatusOK, status)
	var bal balanceView
	decodeData(t, env, &bal)
	assert.Zero(t, bal.Balance)
}
