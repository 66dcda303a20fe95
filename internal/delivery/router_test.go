package delivery

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/samueldmelo/logfoto/internal/domain"
	"github.com/samueldmelo/logfoto/internal/repository"
	"github.com/samueldmelo/logfoto/internal/usecase"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

type testApp struct {
	router *gin.Engine
	store  domain.ProductStore
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	clock := time.Date(2025, 1, 10, 12, 0, 0, 0, time.UTC)
	store := repository.NewMemoryProductRepository(time.UTC, quietLogger(), repository.WithClock(func() time.Time {
		clock = clock.Add(time.Minute)
		return clock
	}))
	return newTestAppWithStore(t, store)
}

func newTestAppWithStore(t *testing.T, store domain.ProductStore) *testApp {
	t.Helper()
	uc := usecase.NewProductUseCase(store, time.Second, quietLogger())
	router, err := NewRouter(uc, time.UTC, quietLogger())
	require.NoError(t, err)
	return &testApp{router: router, store: store}
}

func (a *testApp) do(method, target string, body io.Reader, contentType string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func (a *testApp) get(target string) *httptest.ResponseRecorder {
	return a.do(http.MethodGet, target, nil, "")
}

func (a *testApp) postForm(target string, form url.Values) *httptest.ResponseRecorder {
	return a.do(http.MethodPost, target, strings.NewReader(form.Encode()), "application/x-www-form-urlencoded")
}

func (a *testApp) sendJSON(method, target, body string) *httptest.ResponseRecorder {
	return a.do(method, target, strings.NewReader(body), "application/json")
}
