package controller

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"tarkovapi/auth"
	"tarkovapi/client"
	"tarkovapi/repository"
	"tarkovapi/service"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var secret = []byte("test-secret")

type stubItems struct {
	lastQuery repository.ItemQuery
}

func (s *stubItems) QueryItems(ctx context.Context, q repository.ItemQuery) ([]*repository.Item, error) {
	s.lastQuery = q
	return []*repository.Item{{Id: "a", Name: "A"}}, nil
}

func (s *stubItems) GetItemsByIds(ctx context.Context, ids []string) ([]*repository.Item, error) {
	items := make([]*repository.Item, 0)
	for _, id := range ids {
		if id != "unknown" {
			items = append(items, &repository.Item{Id: id})
		}
	}
	return items, nil
}

func (s *stubItems) GetItemHistory(ctx context.Context, itemId string) ([]*repository.HistoricalPricePoint, error) {
	return nil, nil
}

func (s *stubItems) CountItems(ctx context.Context) (int64, error) {
	return 2, nil
}

type stubTasks struct{}

func (stubTasks) QueryTasks(ctx context.Context, q repository.TaskQuery) ([]*repository.Task, error) {
	return []*repository.Task{}, nil
}

func (stubTasks) GetTasksByIds(ctx context.Context, ids []string) ([]*repository.Task, error) {
	return []*repository.Task{}, nil
}

func (stubTasks) GetTaskById(ctx context.Context, id string) (*repository.Task, error) {
	if id != "A" {
		return nil, gorm.ErrRecordNotFound
	}
	return &repository.Task{Id: "A", Name: "Debut", Trader: "Prapor"}, nil
}

func (stubTasks) GetAllRequirements(ctx context.Context) ([]*repository.TaskRequirement, error) {
	return []*repository.TaskRequirement{
		{TaskId: "B", ReqTaskId: "A", Status: "complete"},
		{TaskId: "C", ReqTaskId: "B", Status: "complete"},
	}, nil
}

func (stubTasks) CountTasks(ctx context.Context) (*repository.TaskCounts, error) {
	return &repository.TaskCounts{Total: 3}, nil
}

type stubFetcher struct{}

func (stubFetcher) Fetch(ctx context.Context, collection string) ([]byte, error) {
	return []byte(`{"data":{"items":[{"id":"a","name":"A","shortName":"A","types":[],"basePrice":1,"width":1,"height":1,"sellFor":[]}]}}`), nil
}

type stubIngestionStore struct{}

func (stubIngestionStore) ReconcileItems(ctx context.Context, origin repository.Origin, records []*client.ItemRecord) (*repository.IngestionRecord, error) {
	return &repository.IngestionRecord{Id: 7, Source: repository.CollectionItems, Origin: origin, Timestamp: time.Now(), EntityCount: len(records)}, nil
}

func (stubIngestionStore) ReconcileTasks(ctx context.Context, origin repository.Origin, records []*client.TaskRecord, rawBatch json.RawMessage) (*repository.IngestionRecord, error) {
	return &repository.IngestionRecord{Id: 8, Source: repository.CollectionTasks, Origin: origin, Timestamp: time.Now(), EntityCount: len(records)}, nil
}

func (stubIngestionStore) GetRecentRecords(ctx context.Context, count int) ([]*repository.IngestionRecord, error) {
	return []*repository.IngestionRecord{{Id: 1, Source: repository.CollectionItems, Origin: repository.OriginFile}}, nil
}

func (stubIngestionStore) GetLatestRecord(ctx context.Context, collection repository.Collection) (*repository.IngestionRecord, error) {
	return nil, gorm.ErrRecordNotFound
}

type stubPinger struct {
	err error
}

func (p stubPinger) PingContext(ctx context.Context) error {
	return p.err
}

func setupRouter(items *stubItems, debug bool, pingErr error) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	SetRoutes(r, &Services{
		Items:     service.NewItemService(items, nil, nil, 100),
		Tasks:     service.NewTaskService(stubTasks{}, nil, nil, 100),
		Ingestion: service.NewIngestionService(stubFetcher{}, stubIngestionStore{}, nil, nil),
		Health:    service.NewHealthService(stubPinger{err: pingErr}),
		JWTSecret: secret,
		Debug:     debug,
	})
	return r
}

func serve(r *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func token(t *testing.T, permissions ...string) string {
	t.Helper()
	token, err := auth.CreateToken(secret, "ops", permissions, time.Hour)
	require.NoError(t, err)
	return token
}

func TestItemsClampsLimitAndServesJSON(t *testing.T) {
	items := &stubItems{}
	r := setupRouter(items, false, nil)

	w := serve(r, httptest.NewRequest("GET", "/api/items?limit=100000&sortBy=bogus&type=Barter", nil))
	assert.Equal(t, 200, w.Code)
	assert.Equal(t, "application/json; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Equal(t, 100, items.lastQuery.Limit)
	assert.Equal(t, repository.SortBestFleaPrice, items.lastQuery.SortBy)
	assert.Equal(t, "barter", items.lastQuery.Type)

	var body []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body, 1)
	assert.Equal(t, "a", body[0]["id"])
}

func TestItemIdsOmitsUnknownIds(t *testing.T) {
	r := setupRouter(&stubItems{}, false, nil)

	w := serve(r, httptest.NewRequest("GET", "/api/item_ids?ids=b&ids=unknown&ids=a", nil))
	assert.Equal(t, 200, w.Code)
	var body []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body, 2)
	assert.Equal(t, "a", body[0]["id"])
	assert.Equal(t, "b", body[1]["id"])
}

func TestItemHistoryIsNeverNull(t *testing.T) {
	r := setupRouter(&stubItems{}, false, nil)

	w := serve(r, httptest.NewRequest("GET", "/api/item_history", nil))
	assert.Equal(t, 200, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestItemStats(t *testing.T) {
	r := setupRouter(&stubItems{}, false, nil)

	w := serve(r, httptest.NewRequest("GET", "/api/item_stats", nil))
	assert.Equal(t, 200, w.Code)
	assert.JSONEq(t, `{"itemsCount":2,"timeTillItemsRefreshSecs":0}`, w.Body.String())
}

func TestTaskById(t *testing.T) {
	r := setupRouter(&stubItems{}, false, nil)

	w := serve(r, httptest.NewRequest("GET", "/api/task/A", nil))
	assert.Equal(t, 200, w.Code)
	assert.Contains(t, w.Body.String(), `"name":"Debut"`)

	w = serve(r, httptest.NewRequest("GET", "/api/task/missing", nil))
	assert.Equal(t, 404, w.Code)
}

func TestTaskPrerequisitesAreTransitive(t *testing.T) {
	r := setupRouter(&stubItems{}, false, nil)

	w := serve(r, httptest.NewRequest("GET", "/api/task_prerequisites/C", nil))
	assert.Equal(t, 200, w.Code)
	assert.JSONEq(t, `["A","B"]`, w.Body.String())
}

func TestAdjacencyList(t *testing.T) {
	r := setupRouter(&stubItems{}, false, nil)

	w := serve(r, httptest.NewRequest("GET", "/api/adj_list", nil))
	assert.Equal(t, 200, w.Code)
	var adj map[string][]service.Edge
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &adj))
	assert.Contains(t, adj["B"], service.Edge{TaskId: "A", Kind: service.EdgePrerequisite})
	assert.Contains(t, adj["A"], service.Edge{TaskId: "B", Kind: service.EdgeUnlocks})
}

func TestIngestRequiresAdminToken(t *testing.T) {
	r := setupRouter(&stubItems{}, false, nil)

	w := serve(r, httptest.NewRequest("POST", "/api/ingest/items", nil))
	assert.Equal(t, 401, w.Code)

	req := httptest.NewRequest("POST", "/api/ingest/items", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	assert.Equal(t, 401, serve(r, req).Code)

	req = httptest.NewRequest("POST", "/api/ingest/items", nil)
	req.Header.Set("Authorization", "Bearer "+token(t))
	assert.Equal(t, 403, serve(r, req).Code)
}

func TestIngestWithCookieToken(t *testing.T) {
	r := setupRouter(&stubItems{}, false, nil)

	req := httptest.NewRequest("POST", "/api/ingest/items", nil)
	req.AddCookie(&http.Cookie{Name: "auth", Value: token(t, auth.PermissionAdmin)})
	w := serve(r, req)
	assert.Equal(t, 201, w.Code)

	var record map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &record))
	assert.Equal(t, "items", record["collection"])
	assert.Equal(t, "api", record["origin"])
	assert.EqualValues(t, 1, record["entityCount"])
}

func TestIngestUnknownCollection(t *testing.T) {
	r := setupRouter(&stubItems{}, false, nil)

	req := httptest.NewRequest("POST", "/api/ingest/weapons", nil)
	req.Header.Set("Authorization", "Bearer "+token(t, auth.PermissionAdmin))
	w := serve(r, req)
	assert.Equal(t, 404, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), "unknown collection"))
}

func TestIngestionLogOnlyInDebug(t *testing.T) {
	w := serve(setupRouter(&stubItems{}, false, nil), httptest.NewRequest("GET", "/api/ingestion_log", nil))
	assert.Equal(t, 404, w.Code)

	w = serve(setupRouter(&stubItems{}, true, nil), httptest.NewRequest("GET", "/api/ingestion_log?count=abc", nil))
	assert.Equal(t, 200, w.Code)
	var records []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &records))
	require.Len(t, records, 1)
	assert.Equal(t, "file", records[0]["origin"])
}

func TestHealth(t *testing.T) {
	w := serve(setupRouter(&stubItems{}, false, nil), httptest.NewRequest("GET", "/api/health", nil))
	assert.Equal(t, 200, w.Code)
	assert.JSONEq(t, `{"status":"ok","database":"ok"}`, w.Body.String())

	w = serve(setupRouter(&stubItems{}, false, errors.New("connection refused")), httptest.NewRequest("GET", "/api/health", nil))
	assert.Equal(t, 503, w.Code)
}
