package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	intconfig "beercatalog/internal/config"
	"beercatalog/internal/auth"
	"beercatalog/internal/http/middleware"
	"beercatalog/internal/services"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testTokens = auth.Tokens{Secret: []byte("router-test"), TTL: time.Hour}

func newTestRouter(t *testing.T) (*gin.Engine, sqlmock.Sqlmock) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	r := NewRouter(intconfig.Env{}, Deps{
		DB:     db,
		Hasher: auth.BcryptHasher{Cost: 4},
		Tokens: testTokens,
		Cache:  services.NewReadCache(time.Minute),
	})
	return r, mock
}

func bearer(t *testing.T, p auth.Principal) string {
	t.Helper()
	raw, _, err := testTokens.Issue(p)
	require.NoError(t, err)
	return "Bearer " + raw
}

var accountColumns = []string{"id", "name", "password_hash", "roles", "enabled", "mid", "created_at", "updated_at"}

// expectAccount serves the account lookup that writes with a bearer token make.
func expectAccount(mock sqlmock.Sqlmock, p auth.Principal) {
	now := time.Now()
	var mid any
	if p.ScopeID != nil {
		mid = *p.ScopeID
	}
	mock.ExpectQuery(`FROM users u\s+LEFT JOIN manufacturers m ON m.user_id = u.id WHERE u.id = \? AND u.enabled = 1`).
		WithArgs(p.UserID).
		WillReturnRows(sqlmock.NewRows(accountColumns).
			AddRow(p.UserID, p.Name, "hash", auth.FormatRoles(p.Roles...), true, mid, now, now))
}

func do(r *gin.Engine, method, path, authz, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if authz != "" {
		req.Header.Set("Authorization", authz)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) middleware.ErrorDetail {
	t.Helper()
	var body middleware.ErrorBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body.Error
}

var (
	adminP   = auth.NewPrincipal(1, "root", "ADMIN", nil)
	breweryP = auth.NewPrincipal(2, "brewery", "MANUFACTURER", func() *int64 { v := int64(5); return &v }())
)

func TestListRejectsNegativePage(t *testing.T) {
	r, mock := newTestRouter(t)

	w := do(r, http.MethodGet, "/api/manufacturer?page=-1&size=10", "", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Page index must not be less than zero", decodeError(t, w).Description)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListRejectsMalformedFilter(t *testing.T) {
	r, _ := newTestRouter(t)
	w := do(r, http.MethodGet, "/api/beer?minAbv=strong", "", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBeerListPage(t *testing.T) {
	r, mock := newTestRouter(t)
	mock.MatchExpectationsInOrder(false)
	now := time.Now()
	mock.ExpectQuery(`FROM beers WHERE 1=1 AND manufacturer_id = \? ORDER BY name ASC, id ASC LIMIT \? OFFSET \?`).
		WithArgs(int64(5), 1, 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "abv", "style", "description", "manufacturer_id", "created_at", "updated_at"}).
			AddRow(int64(8), "Dubbel", 7.0, "Belgian", "Dark", int64(5), now, now))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM beers`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(2)))

	w := do(r, http.MethodGet, "/api/beer?manufacturerId=5&page=1&size=1", "", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var body struct {
		Content []map[string]any `json:"content"`
		Page    map[string]any   `json:"page"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Content, 1)
	assert.Equal(t, float64(5), body.Content[0]["manufacturerId"])
	assert.Equal(t, float64(2), body.Page["totalElements"])
	assert.Equal(t, float64(2), body.Page["totalPages"])
	assert.Equal(t, float64(1), body.Page["number"])
}

func TestWriteRoutesNeedAuthentication(t *testing.T) {
	r, mock := newTestRouter(t)

	w := do(r, http.MethodPost, "/api/manufacturer", "", `{"name":"Acme"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Authentication required", decodeError(t, w).Description)

	expectAccount(mock, breweryP)
	w = do(r, http.MethodPost, "/api/manufacturer", bearer(t, breweryP), `{"name":"Acme"}`)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInvalidTokenIsRejected(t *testing.T) {
	r, _ := newTestRouter(t)
	w := do(r, http.MethodGet, "/api/beer/1", "Bearer not-a-jwt", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.NotEmpty(t, w.Header().Get("WWW-Authenticate"))
}

func TestBasicAuthResolvesAccount(t *testing.T) {
	r, mock := newTestRouter(t)
	hash, err := auth.BcryptHasher{Cost: 4}.Hash("pw")
	require.NoError(t, err)
	now := time.Now()
	mock.ExpectQuery(`FROM users u`).WithArgs("brewery").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "password_hash", "roles", "enabled", "mid", "created_at", "updated_at"}).
			AddRow(int64(2), "brewery", hash, "MANUFACTURER", true, int64(5), now, now))

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req.SetBasicAuth("brewery", "pw")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var me map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &me))
	assert.Equal(t, "brewery", me["name"])
	assert.Equal(t, float64(5), me["manufacturerId"])
}

func TestMeAnonymous(t *testing.T) {
	r, _ := newTestRouter(t)
	w := do(r, http.MethodGet, "/auth/me", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"anonymous":true`)
}

func TestBeerReadNotFound(t *testing.T) {
	r, mock := newTestRouter(t)
	mock.ExpectQuery(`FROM beers WHERE id = \?`).WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	w := do(r, http.MethodGet, "/api/beer/7", "", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	detail := decodeError(t, w)
	assert.Equal(t, "Beer with ID 7 not found", detail.Description)
	assert.Equal(t, "not_found", detail.Code)
}

func TestBeerReadBadID(t *testing.T) {
	r, _ := newTestRouter(t)
	w := do(r, http.MethodGet, "/api/beer/abc", "", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBeerDeleteByOwner(t *testing.T) {
	r, mock := newTestRouter(t)
	expectAccount(mock, breweryP)
	mock.ExpectQuery(`SELECT manufacturer_id FROM beers`).WithArgs(int64(30)).
		WillReturnRows(sqlmock.NewRows([]string{"manufacturer_id"}).AddRow(int64(5)))
	mock.ExpectExec(`DELETE FROM beers`).WithArgs(int64(30)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	w := do(r, http.MethodDelete, "/api/beer/30", bearer(t, breweryP), "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBeerDeleteOtherOwnerIsForbidden(t *testing.T) {
	r, mock := newTestRouter(t)
	expectAccount(mock, breweryP)
	mock.ExpectQuery(`SELECT manufacturer_id FROM beers`).WithArgs(int64(31)).
		WillReturnRows(sqlmock.NewRows([]string{"manufacturer_id"}).AddRow(int64(6)))

	w := do(r, http.MethodDelete, "/api/beer/31", bearer(t, breweryP), "")
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestManufacturerCreateEmptyBody(t *testing.T) {
	r, mock := newTestRouter(t)
	expectAccount(mock, adminP)
	w := do(r, http.MethodPost, "/api/manufacturer", bearer(t, adminP), "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDisabledAccountTokenCannotWrite(t *testing.T) {
	r, mock := newTestRouter(t)
	mock.ExpectQuery(`WHERE u.id = \? AND u.enabled = 1`).WithArgs(int64(2)).
		WillReturnRows(sqlmock.NewRows(accountColumns))

	w := do(r, http.MethodDelete, "/api/beer/30", bearer(t, breweryP), "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Account is disabled or no longer exists", decodeError(t, w).Description)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTokenReadsSkipAccountLookup(t *testing.T) {
	r, mock := newTestRouter(t)
	w := do(r, http.MethodGet, "/auth/me", bearer(t, breweryP), "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"name":"brewery"`)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStorageErrorsAreHidden(t *testing.T) {
	r, mock := newTestRouter(t)
	mock.ExpectQuery(`FROM manufacturers WHERE id = \?`).WillReturnError(sqlmock.ErrCancelled)

	w := do(r, http.MethodGet, "/api/manufacturer/3", "", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.NotContains(t, w.Body.String(), "canceling")
}

func TestUnknownRoute(t *testing.T) {
	r, _ := newTestRouter(t)
	w := do(r, http.MethodGet, "/api/hops", "", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "route_not_found", decodeError(t, w).Code)
}

func TestMetricsEndpoint(t *testing.T) {
	r, _ := newTestRouter(t)
	do(r, http.MethodGet, "/auth/me", "", "")

	w := do(r, http.MethodGet, "/metrics", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "http_requests_total")
}
