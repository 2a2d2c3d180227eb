package testutil

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/nhle/insyd/internal/backend"
	"github.com/nhle/insyd/internal/mockserver"
)

// NewTestBackend starts an in-memory backend behind an httptest server and
// returns it together with a client pointed at it. The server is shut down
// when the test completes.
func NewTestBackend(t *testing.T) (*mockserver.Server, *backend.Client) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	srv := mockserver.New(nil)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	return srv, backend.New(backend.Config{BaseURL: ts.URL})
}
