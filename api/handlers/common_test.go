package handlers

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/meghashyamc/whichpackage/config"
	"github.com/meghashyamc/whichpackage/db/kvdb"
	"github.com/meghashyamc/whichpackage/db/searchdb"
	"github.com/meghashyamc/whichpackage/logger"
	"github.com/meghashyamc/whichpackage/validation"
	"github.com/stretchr/testify/require"
)

type testServer struct {
	router   *gin.Engine
	searchDB *searchdb.SQLiteDB
}

func setupTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dir := t.TempDir()
	t.Setenv("ENV", "test")
	t.Setenv("DB_PATH", filepath.Join(dir, "search.db"))
	t.Setenv("KVDB_PATH", filepath.Join(dir, "kv.db"))
	t.Setenv("REFRESH_INTERVAL", "1h")

	log := logger.New()
	cfg, err := config.Load()
	require.NoError(t, err)

	searchDB, err := searchdb.New(log, cfg)
	require.NoError(t, err)
	t.Cleanup(func() { searchDB.Close() })

	kvDB, err := kvdb.New(log, cfg)
	require.NoError(t, err)
	t.Cleanup(func() { kvDB.Close() })

	validator, err := validation.New(log)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	router := gin.New()
	SetupSearch(router, log, searchDB, validator)
	SetupRefresh(ctx, router, log, cfg, searchDB, kvDB, validator)

	return &testServer{router: router, searchDB: searchDB}
}

func (s *testServer) seedPackages(t *testing.T, packages []searchdb.Package) {
	t.Helper()
	ctx := context.Background()
	for _, pkg := range packages {
		require.NoError(t, s.searchDB.InsertPackage(ctx, pkg))
	}
	require.NoError(t, s.searchDB.RefreshSearchView(ctx))
}

type testResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []string        `json:"errors"`
}

func makeTestHTTPRequest(t *testing.T, router *gin.Engine, method, target string) (int, testResponse) {
	t.Helper()

	request := httptest.NewRequest(method, target, nil)
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, request)

	decoded := testResponse{}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &decoded))

	return recorder.Code, decoded
}
