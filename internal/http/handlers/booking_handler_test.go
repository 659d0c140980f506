// README: Handler tests for auth rejection and request validation.
package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"carelink/internal/http/handlers"
	httpmiddleware "carelink/internal/http/middleware"
	"carelink/internal/modules/booking"
)

const testSecret = "test-secret"

// buildTestRouter wires a minimal engine with the auth middleware and the
// booking handler. booking.NewService(nil, nil, nil, nil) is safe here
// because every exercised path fails on auth or request validation before
// any service dependency is touched.
func buildTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	svc := booking.NewService(nil, nil, nil, nil)
	h := handlers.NewBookingHandler(svc)

	r := gin.New()
	api := r.Group("/api")
	api.Use(httpmiddleware.Auth(testSecret))
	api.POST("/bookings", h.Submit)
	api.POST("/bookings/:id/rate", h.Rate)
	return r
}

func patientToken(t *testing.T) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": "patient_1",
		"role":    "patient",
	}).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return "Bearer " + token
}

func doRequest(r *gin.Engine, method, path string, body interface{}, authHeader string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestSubmit_Unauthenticated(t *testing.T) {
	r := buildTestRouter()
	w := doRequest(r, http.MethodPost, "/api/bookings", map[string]any{
		"patient_name": "Jane",
	}, "")
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
}

func TestSubmit_InvalidJSON(t *testing.T) {
	r := buildTestRouter()
	req := httptest.NewRequest(http.MethodPost, "/api/bookings", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", patientToken(t))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestSubmit_MissingField(t *testing.T) {
	r := buildTestRouter()
	w := doRequest(r, http.MethodPost, "/api/bookings", map[string]any{
		"patient_name":    "Jane",
		"patient_contact": "555-0100",
		// issue_description absent
	}, patientToken(t))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	var body struct {
		Error string `json:"error"`
		Field string `json:"field"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Field != "issue_description" {
		t.Errorf("field = %q, want issue_description", body.Field)
	}
}

func TestRate_OutOfRange(t *testing.T) {
	r := buildTestRouter()
	w := doRequest(r, http.MethodPost, "/api/bookings/123456/rate", map[string]any{
		"rating": 6,
	}, patientToken(t))
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}
