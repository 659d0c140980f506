// README: Tests for bearer auth and the role guard.
package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"carelink/internal/http/middleware"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.Auth(testSecret))
	r.GET("/test", func(c *gin.Context) {
		role, _ := c.Get(middleware.ContextRole)
		c.JSON(http.StatusOK, gin.H{"user_id": middleware.CallerID(c), "role": role})
	})
	admin := r.Group("/admin")
	admin.Use(middleware.RequireRoles("admin"))
	admin.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return r
}

func doGet(r *gin.Engine, path, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuth_MissingHeader(t *testing.T) {
	w := doGet(newTestRouter(), "/test", "")
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
}

func TestAuth_InvalidBearerPrefix(t *testing.T) {
	w := doGet(newTestRouter(), "/test", "Token sometoken")
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
}

func TestAuth_WrongSecret(t *testing.T) {
	token := signToken(t, "another-secret", jwt.MapClaims{"user_id": "u1"})
	w := doGet(newTestRouter(), "/test", "Bearer "+token)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
}

func TestAuth_MissingUserIDClaim(t *testing.T) {
	token := signToken(t, testSecret, jwt.MapClaims{"role": "patient"})
	w := doGet(newTestRouter(), "/test", "Bearer "+token)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
}

func TestAuth_ValidToken_IdentityPopulated(t *testing.T) {
	token := signToken(t, testSecret, jwt.MapClaims{"user_id": "patient_42", "role": "patient"})
	w := doGet(newTestRouter(), "/test", "Bearer "+token)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	body := w.Body.String()
	if !strings.Contains(body, "patient_42") {
		t.Errorf("expected user_id patient_42 in body, got %s", body)
	}
	if !strings.Contains(body, "patient") {
		t.Errorf("expected role patient in body, got %s", body)
	}
}

func TestRequireRoles_DeniesNonAdmin(t *testing.T) {
	token := signToken(t, testSecret, jwt.MapClaims{"user_id": "patient_42", "role": "patient"})
	w := doGet(newTestRouter(), "/admin/test", "Bearer "+token)
	if w.Code != http.StatusForbidden {
		t.Errorf("expected 403, got %d", w.Code)
	}
}

func TestRequireRoles_AllowsAdmin(t *testing.T) {
	token := signToken(t, testSecret, jwt.MapClaims{"user_id": "admin_1", "role": "admin"})
	w := doGet(newTestRouter(), "/admin/test", "Bearer "+token)
	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
}
