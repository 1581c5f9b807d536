package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/KasumiMercury/patient-window-scheduler/internal/observability/logging"
)

func newRouter(handler gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Gin(GinConfig{
		SkipPaths:  []string{"/health"},
		Module:     logging.Module("test"),
		TracerName: "middleware-test",
	}))
	r.Use(PanicRecoveryGin())
	r.GET("/work", handler)
	r.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })
	return r
}

func TestGinPropagatesRequestID(t *testing.T) {
	var seen string
	r := newRouter(func(c *gin.Context) {
		seen = logging.RequestIDFromContext(c.Request.Context())
		c.Status(http.StatusOK)
	})

	id := uuid.NewString()
	req := httptest.NewRequest(http.MethodGet, "/work", nil)
	req.Header.Set(RequestIDHeader, id)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if seen != id {
		t.Errorf("request ID in context = %q, want %q", seen, id)
	}
	if got := w.Header().Get(RequestIDHeader); got != id {
		t.Errorf("response header = %q, want %q", got, id)
	}
}

func TestGinGeneratesRequestIDWhenInvalid(t *testing.T) {
	r := newRouter(func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/work", nil)
	req.Header.Set(RequestIDHeader, "bogus")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if _, err := uuid.Parse(w.Header().Get(RequestIDHeader)); err != nil {
		t.Errorf("response header %q is not a UUID", w.Header().Get(RequestIDHeader))
	}
}

func TestGinSkipsConfiguredPaths(t *testing.T) {
	r := newRouter(func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	if got := w.Header().Get(RequestIDHeader); got != "" {
		t.Errorf("skipped path got request ID header %q", got)
	}
}

func TestPanicRecoveryGin(t *testing.T) {
	r := newRouter(func(c *gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/work", nil))

	if w.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", w.Code)
	}
}
