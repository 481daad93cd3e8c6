package middleware

import (
  "net/http"
  "net/http/httptest"
  "testing"
  "github.com/gin-gonic/gin"
  "github.com/google/uuid"
  "github.com/Not-Another-Coach/nac-backend/internal/logger"
  "github.com/Not-Another-Coach/nac-backend/internal/requestdata"
)

func testLogger(t *testing.T) *logger.Logger {
  t.Helper()
  log, err := logger.New("development")
  if err != nil {
    t.Fatalf("logger: %v", err)
  }
  return log
}

func okHandler(c *gin.Context) {
  c.JSON(http.StatusOK, gin.H{"success": true})
}

// withRequestData injects authenticated request data the way RequireAuth
// would, so role checks can be exercised in isolation.
func withRequestData(role string) gin.HandlerFunc {
  return func(c *gin.Context) {
    rd := &requestdata.RequestData{UserID: uuid.New(), Role: role}
    c.Request = c.Request.WithContext(requestdata.WithRequestData(c.Request.Context(), rd))
    c.Next()
  }
}

func TestRequireRole(t *testing.T) {
  gin.SetMode(gin.TestMode)

  tests := []struct {
    name       string
    middleware []gin.HandlerFunc
    wantStatus int
  }{
    {"allowed role", []gin.HandlerFunc{withRequestData("client"), RequireRole("client")}, http.StatusOK},
    {"one of several", []gin.HandlerFunc{withRequestData("trainer"), RequireRole("client", "trainer")}, http.StatusOK},
    {"wrong role", []gin.HandlerFunc{withRequestData("client"), RequireRole("admin")}, http.StatusForbidden},
    {"not authenticated", []gin.HandlerFunc{RequireRole("client")}, http.StatusUnauthorized},
  }
  for _, tt := range tests {
    router := gin.New()
    handlers := append(tt.middleware, okHandler)
    router.GET("/probe", handlers...)

    w := httptest.NewRecorder()
    req := httptest.NewRequest(http.MethodGet, "/probe", nil)
    router.ServeHTTP(w, req)

    if w.Code != tt.wantStatus {
      t.Errorf("%s: status = %d, want %d", tt.name, w.Code, tt.wantStatus)
    }
  }
}

func TestRequireOpsSecret(t *testing.T) {
  gin.SetMode(gin.TestMode)
  log := testLogger(t)

  t.Setenv("OPS_SHARED_SECRET", "sweep-secret")
  router := gin.New()
  router.POST("/ops/probe", RequireOpsSecret(log), okHandler)

  w := httptest.NewRecorder()
  req := httptest.NewRequest(http.MethodPost, "/ops/probe", nil)
  req.Header.Set("X-Ops-Secret", "sweep-secret")
  router.ServeHTTP(w, req)
  if w.Code != http.StatusOK {
    t.Errorf("correct secret: status = %d, want 200", w.Code)
  }

  w = httptest.NewRecorder()
  req = httptest.NewRequest(http.MethodPost, "/ops/probe", nil)
  req.Header.Set("X-Ops-Secret", "wrong")
  router.ServeHTTP(w, req)
  if w.Code != http.StatusUnauthorized {
    t.Errorf("wrong secret: status = %d, want 401", w.Code)
  }

  w = httptest.NewRecorder()
  req = httptest.NewRequest(http.MethodPost, "/ops/probe", nil)
  router.ServeHTTP(w, req)
  if w.Code != http.StatusUnauthorized {
    t.Errorf("missing secret: status = %d, want 401", w.Code)
  }
}

func TestRequireOpsSecretUnconfigured(t *testing.T) {
  gin.SetMode(gin.TestMode)
  log := testLogger(t)

  t.Setenv("OPS_SHARED_SECRET", "")
  router := gin.New()
  router.POST("/ops/probe", RequireOpsSecret(log), okHandler)

  w := httptest.NewRecorder()
  req := httptest.NewRequest(http.MethodPost, "/ops/probe", nil)
  req.Header.Set("X-Ops-Secret", "anything")
  router.ServeHTTP(w, req)
  if w.Code != http.StatusServiceUnavailable {
    t.Errorf("unconfigured: status = %d, want 503", w.Code)
  }
}

func TestRequireAuthRejectsMalformedHeader(t *testing.T) {
  gin.SetMode(gin.TestMode)

  router := gin.New()
  router.GET("/probe", RequireAuth(nil, testLogger(t)), okHandler)

  for _, header := range []string{"", "Token abc", "Bearer"} {
    w := httptest.NewRecorder()
    req := httptest.NewRequest(http.MethodGet, "/probe", nil)
    if header != "" {
      req.Header.Set("Authorization", header)
    }
    router.ServeHTTP(w, req)
    if w.Code != http.StatusUnauthorized {
      t.Errorf("header %q: status = %d, want 401", header, w.Code)
    }
  }
}
