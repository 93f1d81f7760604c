package gateway

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recordedRequest struct {
	Method   string
	Path     string
	Query    string
	SharerID string
	Body     string
}

// newTestStack wires the gateway against a stub backend that records what
// reached it and answers 200 {"ok":true}.
func newTestStack(t *testing.T) (*gin.Engine, *recordedRequest) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	var last recordedRequest
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		last = recordedRequest{
			Method:   r.Method,
			Path:     r.URL.Path,
			Query:    r.URL.RawQuery,
			SharerID: r.Header.Get("X-Sharer-User-Id"),
			Body:     string(body),
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	t.Cleanup(backend.Close)

	handler := NewHandler(NewClient(backend.URL), zap.NewNop())
	router := gin.New()
	handler.RegisterRoutes(router)
	return router, &last
}

func doJSON(router *gin.Engine, method, target, sharerID string, payload interface{}) *httptest.ResponseRecorder {
	var body *strings.Reader
	if payload != nil {
		raw, _ := json.Marshal(payload)
		body = strings.NewReader(string(raw))
	} else {
		body = strings.NewReader("")
	}
	req := httptest.NewRequest(method, target, body)
	req.Header.Set("Content-Type", "application/json")
	if sharerID != "" {
		req.Header.Set("X-Sharer-User-Id", sharerID)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestRelay_PassesThroughValidRequests(t *testing.T) {
	router, last := newTestStack(t)
	sharer := uuid.New().String()

	rec := doJSON(router, http.MethodPost, "/items", sharer, map[string]interface{}{
		"name":        "drill",
		"description": "cordless drill",
		"available":   true,
	})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"ok":true}`, rec.Body.String())

	assert.Equal(t, http.MethodPost, last.Method)
	assert.Equal(t, "/items", last.Path)
	assert.Equal(t, sharer, last.SharerID)
	assert.Contains(t, last.Body, "cordless drill")
}

func TestRelay_PreservesQueryString(t *testing.T) {
	router, last := newTestStack(t)
	sharer := uuid.New().String()

	rec := doJSON(router, http.MethodGet, "/bookings?state=WAITING&from=0&size=10", sharer, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, last.Query, "state=WAITING")
	assert.Contains(t, last.Query, "from=0")
}

func TestIdentityHeader_RequiredAndValidated(t *testing.T) {
	router, last := newTestStack(t)

	rec := doJSON(router, http.MethodGet, "/bookings", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "X-Sharer-User-Id")

	rec = doJSON(router, http.MethodGet, "/bookings", "not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	assert.Empty(t, last.Method, "nothing crossed the wire")
}

func TestCreateUser_Validation(t *testing.T) {
	router, last := newTestStack(t)

	rec := doJSON(router, http.MethodPost, "/users", "", map[string]interface{}{
		"name":  "",
		"email": "alice@example.com",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(router, http.MethodPost, "/users", "", map[string]interface{}{
		"name":  "Alice",
		"email": "no-at-sign",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, last.Method)

	rec = doJSON(router, http.MethodPost, "/users", "", map[string]interface{}{
		"name":  "Alice",
		"email": "alice@example.com",
	})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "/users", last.Path)
}

func TestCreateItem_Validation(t *testing.T) {
	router, last := newTestStack(t)
	sharer := uuid.New().String()

	rec := doJSON(router, http.MethodPost, "/items", sharer, map[string]interface{}{
		"name":        "drill",
		"description": "cordless drill",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code, "available must be present")

	rec = doJSON(router, http.MethodPost, "/items", sharer, map[string]interface{}{
		"name":        "",
		"description": "cordless drill",
		"available":   true,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, last.Method)
}

func TestCreateBooking_Validation(t *testing.T) {
	router, last := newTestStack(t)
	sharer := uuid.New().String()
	start := time.Now().UTC().Add(time.Hour)
	end := start.Add(2 * time.Hour)

	rec := doJSON(router, http.MethodPost, "/bookings", sharer, map[string]interface{}{
		"item_id": uuid.New(),
		"start":   start,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code, "end is required")

	rec = doJSON(router, http.MethodPost, "/bookings", sharer, map[string]interface{}{
		"item_id": uuid.New(),
		"start":   end,
		"end":     start,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code, "end must be after start")

	rec = doJSON(router, http.MethodPost, "/bookings", sharer, map[string]interface{}{
		"start": start,
		"end":   end,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code, "item_id is required")
	assert.Empty(t, last.Method)

	rec = doJSON(router, http.MethodPost, "/bookings", sharer, map[string]interface{}{
		"item_id": uuid.New(),
		"start":   start,
		"end":     end,
	})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "/bookings", last.Path)
}

func TestDecideBooking_ApprovedFlag(t *testing.T) {
	router, last := newTestStack(t)
	sharer := uuid.New().String()
	id := uuid.New().String()

	rec := doJSON(router, http.MethodPatch, "/bookings/"+id, sharer, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code, "approved is required")

	rec = doJSON(router, http.MethodPatch, "/bookings/"+id+"?approved=maybe", sharer, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, last.Method)

	rec = doJSON(router, http.MethodPatch, "/bookings/"+id+"?approved=true", sharer, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, last.Query, "approved=true")
}

func TestListBookings_StateAndPagingValidation(t *testing.T) {
	router, last := newTestStack(t)
	sharer := uuid.New().String()

	rec := doJSON(router, http.MethodGet, "/bookings?state=SOMEDAY", sharer, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(router, http.MethodGet, "/bookings/owner?from=-1&size=5", sharer, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(router, http.MethodGet, "/bookings?from=0&size=0", sharer, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(router, http.MethodGet, "/bookings?from=abc&size=5", sharer, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, last.Method)

	// Lower-case state tokens pass; the backend normalizes them.
	rec = doJSON(router, http.MethodGet, "/bookings?state=past", sharer, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAddComment_Validation(t *testing.T) {
	router, last := newTestStack(t)
	sharer := uuid.New().String()
	id := uuid.New().String()

	rec := doJSON(router, http.MethodPost, "/items/"+id+"/comment", sharer, map[string]interface{}{
		"text": "  ",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, last.Method)

	rec = doJSON(router, http.MethodPost, "/items/"+id+"/comment", sharer, map[string]interface{}{
		"text": "works great",
	})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestDeleteItem_Relay(t *testing.T) {
	router, last := newTestStack(t)
	sharer := uuid.New().String()
	id := uuid.New().String()

	rec := doJSON(router, http.MethodDelete, "/items/"+id, sharer, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, http.MethodDelete, last.Method)
	assert.Equal(t, "/items/"+id, last.Path)
	assert.Equal(t, sharer, last.SharerID)
}

func TestInvalidPathID(t *testing.T) {
	router, last := newTestStack(t)
	sharer := uuid.New().String()

	rec := doJSON(router, http.MethodGet, "/items/not-a-uuid", sharer, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, last.Method)
}

func TestRelay_BackendDown(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewHandler(NewClient("http://127.0.0.1:1"), zap.NewNop())
	router := gin.New()
	handler.RegisterRoutes(router)

	rec := doJSON(router, http.MethodGet, "/users", "", nil)
	require.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), "unavailable")
}
