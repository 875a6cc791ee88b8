// Package router 路由单元测试
package router

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/linzhiyi/taskpilot/internal/handler"
	"github.com/linzhiyi/taskpilot/internal/service"
)

// fakeHealthChecker 可编程的健康检查依赖
type fakeHealthChecker struct {
	err error
}

func (f *fakeHealthChecker) Ping(ctx context.Context) error {
	return f.err
}

func newTestRouter(db HealthChecker) *gin.Engine {
	gin.SetMode(gin.TestMode)
	return SetupRouter(handler.NewHandlers(&service.Services{}), db, zap.NewNop())
}

// ========== /health 测试 ==========

func TestHealth_DatabaseUp(t *testing.T) {
	r := newTestRouter(&fakeHealthChecker{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
	}
}

func TestHealth_DatabaseDown(t *testing.T) {
	r := newTestRouter(&fakeHealthChecker{err: errors.New("connection refused")})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want %d", w.Code, http.StatusServiceUnavailable)
	}
}
