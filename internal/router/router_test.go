package router_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/kanadp40-ctrl/NotifyHealth/internal/handlers"
	"github.com/kanadp40-ctrl/NotifyHealth/internal/models"
	"github.com/kanadp40-ctrl/NotifyHealth/internal/router"
	"github.com/kanadp40-ctrl/NotifyHealth/internal/store"
	"github.com/kanadp40-ctrl/NotifyHealth/internal/utils"
)

const (
	adminUser     = "admin@nh.com"
	adminPassword = "correct horse battery"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testServer struct {
	engine *gin.Engine
	tokens *utils.TokenService
}

func newTestServer(t *testing.T, opts router.Options) *testServer {
	t.Helper()
	tokens, err := utils.NewTokenService("router-secret", time.Hour)
	require.NoError(t, err)
	hash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.MinCost)
	require.NoError(t, err)
	admin, err := utils.NewAdminCredentials(adminUser, string(hash), "")
	require.NoError(t, err)

	h := handlers.NewHandler(store.NewMemoryStore(), tokens, admin)
	engine, err := router.New(h, opts)
	require.NoError(t, err)
	return &testServer{engine: engine, tokens: tokens}
}

func (s *testServer) token(t *testing.T, subject string, role models.Role, name string) string {
	t.Helper()
	token, err := s.tokens.Issue(subject, role, name)
	require.NoError(t, err)
	return token
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		switch b := body.(type) {
		case string:
			buf.WriteString(b)
		default:
			require.NoError(t, json.NewEncoder(&buf).Encode(b))
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

type messageResponse struct {
	Message string `json:"message"`
}

type campResponse struct {
	Message string      `json:"message"`
	Camp    models.Camp `json:"camp"`
}

type bookingResponse struct {
	Message string         `json:"message"`
	Booking models.Booking `json:"booking"`
}

func TestStatus(t *testing.T) {
	s := newTestServer(t, router.Options{})

	w := s.do(t, http.MethodGet, "/api", "", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "NotifyHealth API Status: Operational", decode[messageResponse](t, w).Message)
}

func TestAdminLogin(t *testing.T) {
	s := newTestServer(t, router.Options{})

	w := s.do(t, http.MethodPost, "/api/auth/admin/login", "", map[string]string{"username": adminUser, "password": adminPassword})
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode[map[string]any](t, w)
	assert.Equal(t, true, resp["success"])
	assert.Equal(t, "admin", resp["role"])
	assert.Equal(t, "Admin", resp["name"])

	identity, err := s.tokens.Verify(resp["token"].(string))
	require.NoError(t, err)
	assert.Equal(t, adminUser, identity.SubjectID)
	assert.Equal(t, models.RoleAdmin, identity.Role)

	w = s.do(t, http.MethodPost, "/api/auth/admin/login", "", map[string]string{"username": adminUser, "password": "nope"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Invalid Admin Credentials", decode[messageResponse](t, w).Message)

	w = s.do(t, http.MethodPost, "/api/auth/admin/login", "", "{")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUserLogin(t *testing.T) {
	s := newTestServer(t, router.Options{})

	w := s.do(t, http.MethodPost, "/api/auth/user/login", "", map[string]string{"uid": "firebase-uid-1", "userName": "Meera"})
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode[map[string]any](t, w)
	assert.Equal(t, "user", resp["role"])
	assert.Equal(t, "Meera", resp["name"])
	assert.Equal(t, "firebase-uid-1", resp["userId"])

	identity, err := s.tokens.Verify(resp["token"].(string))
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, identity.Role)
	assert.Equal(t, "Meera", identity.DisplayName)

	w = s.do(t, http.MethodPost, "/api/auth/user/login", "", map[string]string{"uid": "firebase-uid-2"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Verified User", decode[map[string]any](t, w)["name"])

	w = s.do(t, http.MethodPost, "/api/auth/user/login", "", map[string]string{"userName": "NoUID"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	s := newTestServer(t, router.Options{})
	routes := []struct{ method, path string }{
		{http.MethodGet, "/api/camps"},
		{http.MethodPost, "/api/camps"},
		{http.MethodPut, "/api/camps/mock-1"},
		{http.MethodDelete, "/api/camps/mock-1"},
		{http.MethodPost, "/api/camps/mock-1/book"},
		{http.MethodGet, "/api/bookings/my"},
		{http.MethodGet, "/api/bookings/admin"},
		{http.MethodPost, "/api/feedback"},
		{http.MethodGet, "/api/feedback"},
	}
	for _, rt := range routes {
		w := s.do(t, rt.method, rt.path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code, rt.method+" "+rt.path)
		assert.NotEmpty(t, decode[messageResponse](t, w).Message)
	}
}

func TestAdminRoutesForbidUsers(t *testing.T) {
	s := newTestServer(t, router.Options{})
	user := s.token(t, "uid-1", models.RoleUser, "Meera")

	for _, rt := range []struct{ method, path string }{
		{http.MethodPost, "/api/camps"},
		{http.MethodPut, "/api/camps/mock-1"},
		{http.MethodDelete, "/api/camps/mock-1"},
		{http.MethodGet, "/api/bookings/admin"},
	} {
		w := s.do(t, rt.method, rt.path, user, map[string]string{"name": "x"})
		assert.Equal(t, http.StatusForbidden, w.Code, rt.method+" "+rt.path)
		assert.Equal(t, "Forbidden: Admin access required.", decode[messageResponse](t, w).Message)
	}
}

func TestCampLifecycle(t *testing.T) {
	s := newTestServer(t, router.Options{})
	admin := s.token(t, adminUser, models.RoleAdmin, "Admin")
	user := s.token(t, "uid-1", models.RoleUser, "Meera")

	w := s.do(t, http.MethodPost, "/api/camps", admin, map[string]string{
		"name": "Flu Drive", "date": "2025-12-01", "location": "Hall A",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode[campResponse](t, w).Camp
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, adminUser, created.CreatedBy)
	assert.Equal(t, "N/A", created.Time)
	assert.NotNil(t, created.Doctors)

	w = s.do(t, http.MethodGet, "/api/camps", user, nil)
	require.Equal(t, http.StatusOK, w.Code)
	camps := decode[[]models.Camp](t, w)
	require.Len(t, camps, 1)
	assert.Equal(t, created.ID, camps[0].ID)

	w = s.do(t, http.MethodPut, "/api/camps/"+created.ID, admin, map[string]any{
		"location": "Hall B",
		"_id":      "rewritten",
		"doctors":  []map[string]string{{"name": "Dr. Jane Smith", "specialty": "Pediatrics"}},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	updated := decode[campResponse](t, w).Camp
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "Flu Drive", updated.Name)
	assert.Equal(t, "Hall B", updated.Location)
	require.Len(t, updated.Doctors, 1)
	assert.Equal(t, "Pediatrics", updated.Doctors[0].Specialty)

	w = s.do(t, http.MethodPut, "/api/camps/missing", admin, map[string]string{"name": "x"})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Camp not found.", decode[messageResponse](t, w).Message)

	w = s.do(t, http.MethodDelete, "/api/camps/"+created.ID, admin, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodDelete, "/api/camps/"+created.ID, admin, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(t, http.MethodGet, "/api/camps", user, nil)
	assert.JSONEq(t, "[]", w.Body.String())
}

func TestCreateCampValidation(t *testing.T) {
	s := newTestServer(t, router.Options{})
	admin := s.token(t, adminUser, models.RoleAdmin, "Admin")

	w := s.do(t, http.MethodPost, "/api/camps", admin, map[string]string{"date": "2025-12-01"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBookingFlow(t *testing.T) {
	s := newTestServer(t, router.Options{})
	user := s.token(t, "uid-1", models.RoleUser, "Meera")
	other := s.token(t, "uid-2", models.RoleUser, "Arjun")
	admin := s.token(t, adminUser, models.RoleAdmin, "Admin")

	w := s.do(t, http.MethodPost, "/api/camps/campx1/book", user, map[string]string{"campName": "Flu Drive"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	first := decode[bookingResponse](t, w).Booking
	assert.Equal(t, "campx1", first.CampID)
	assert.Equal(t, "uid-1", first.UserID)
	assert.Equal(t, "Meera", first.UserName)
	assert.Equal(t, "Flu Drive", first.CampName)
	assert.Regexp(t, `^NH-\d{4}-CAM-[0-9A-Z]{6}$`, first.BookingNumber)

	w = s.do(t, http.MethodPost, "/api/camps/campx1/book", user, map[string]string{"campName": "Flu Drive"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	dup := decode[bookingResponse](t, w)
	assert.Equal(t, "You have already booked a slot for this camp.", dup.Message)
	assert.Equal(t, first.ID, dup.Booking.ID)
	assert.Equal(t, first.BookingNumber, dup.Booking.BookingNumber)

	w = s.do(t, http.MethodPost, "/api/camps/campx1/book", other, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, "Unknown Camp", decode[bookingResponse](t, w).Booking.CampName)

	w = s.do(t, http.MethodGet, "/api/bookings/my", user, nil)
	require.Equal(t, http.StatusOK, w.Code)
	mine := decode[[]models.Booking](t, w)
	require.Len(t, mine, 1)
	assert.Equal(t, first.ID, mine[0].ID)

	w = s.do(t, http.MethodGet, "/api/bookings/admin", user, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(t, http.MethodGet, "/api/bookings/admin", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	all := decode[[]models.Booking](t, w)
	require.Len(t, all, 2)
	assert.False(t, all[0].BookedAt.Before(all[1].BookedAt))
}

func TestMyBookingsEmptyList(t *testing.T) {
	s := newTestServer(t, router.Options{})
	user := s.token(t, "uid-1", models.RoleUser, "Meera")

	w := s.do(t, http.MethodGet, "/api/bookings/my", user, nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, "[]", w.Body.String())
}

func TestFeedback(t *testing.T) {
	s := newTestServer(t, router.Options{})
	user := s.token(t, "uid-1", models.RoleUser, "Meera")

	w := s.do(t, http.MethodPost, "/api/feedback", user, map[string]any{"rating": 6, "comment": "ok"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Rating must be a number between 1 and 5.", decode[messageResponse](t, w).Message)

	w = s.do(t, http.MethodPost, "/api/feedback", user, map[string]any{"rating": "5", "comment": "string ratings are not numbers"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodPost, "/api/feedback", user, map[string]any{"rating": 3.5, "comment": "half stars are not allowed"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodPost, "/api/feedback", user, map[string]any{"rating": 4, "comment": "too short"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Comment must be at least 10 characters long.", decode[messageResponse](t, w).Message)

	w = s.do(t, http.MethodPost, "/api/feedback", user, map[string]any{"rating": 5, "comment": "Well organised camp!"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created struct {
		Feedback models.Feedback `json:"feedback"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, 5, created.Feedback.Rating)
	assert.Equal(t, "uid-1", created.Feedback.UserID)
	assert.Equal(t, "Meera", created.Feedback.UserName)

	w = s.do(t, http.MethodGet, "/api/feedback", user, nil)
	require.Equal(t, http.StatusOK, w.Code)
	list := decode[[]models.Feedback](t, w)
	require.Len(t, list, 1)
	assert.Equal(t, "Well organised camp!", list[0].Comment)
}

func TestUnknownAPIRoute(t *testing.T) {
	s := newTestServer(t, router.Options{})

	w := s.do(t, http.MethodGet, "/api/nope", "", nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestStaticFrontend(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<h1>NotifyHealth</h1>"), 0o644))
	s := newTestServer(t, router.Options{StaticDir: dir})

	w := s.do(t, http.MethodGet, "/", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "NotifyHealth")

	w = s.do(t, http.MethodGet, "/api/unknown", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestInvalidTrustedProxies(t *testing.T) {
	tokens, err := utils.NewTokenService("router-secret", time.Hour)
	require.NoError(t, err)
	h := handlers.NewHandler(store.NewMemoryStore(), tokens, utils.AdminCredentials{})

	_, err = router.New(h, router.Options{TrustedProxies: []string{"not-an-address"}})
	assert.Error(t, err)
}

func TestClientIPIgnoresForwardedForByDefault(t *testing.T) {
	s := newTestServer(t, router.Options{})
	var seen string
	s.engine.GET("/client-ip", func(c *gin.Context) { seen = c.ClientIP() })

	req := httptest.NewRequest(http.MethodGet, "/client-ip", nil)
	req.RemoteAddr = "203.0.113.9:4000"
	req.Header.Set("X-Forwarded-For", "10.1.2.3")
	s.engine.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, "203.0.113.9", seen)
}

func TestCORSPreflight(t *testing.T) {
	s := newTestServer(t, router.Options{AllowedOrigins: []string{"https://notifyhealth.example"}})

	req := httptest.NewRequest(http.MethodOptions, "/api/camps", nil)
	req.Header.Set("Origin", "https://notifyhealth.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://notifyhealth.example", w.Header().Get("Access-Control-Allow-Origin"))
}
