package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/marco0antonio0/back-makeapi/internal/apierrors"
	"github.com/marco0antonio0/back-makeapi/internal/models"
	"github.com/marco0antonio0/back-makeapi/internal/query"
	"github.com/marco0antonio0/back-makeapi/internal/services"
	"github.com/marco0antonio0/back-makeapi/internal/storage"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// memEndpoints implements services.EndpointStore in memory.
type memEndpoints struct {
	byID   map[string]*models.Endpoint
	nextID int
}

func (m *memEndpoints) Create(_ context.Context, title string, fields []models.Field) (*models.Endpoint, error) {
	m.nextID++
	e := &models.Endpoint{ID: fmt.Sprintf("ep-%d", m.nextID), Title: title, Fields: fields}
	m.byID[e.ID] = e
	return e, nil
}

func (m *memEndpoints) List(_ context.Context) ([]*models.Endpoint, error) {
	var out []*models.Endpoint
	for _, e := range m.byID {
		out = append(out, e)
	}
	return out, nil
}

func (m *memEndpoints) Get(_ context.Context, id string) (*models.Endpoint, error) {
	e, ok := m.byID[id]
	if !ok {
		return nil, apierrors.NotFound("endpoint not found")
	}
	return e, nil
}

func (m *memEndpoints) Update(_ context.Context, id string, patch models.EndpointPatch) (*models.Endpoint, error) {
	e, ok := m.byID[id]
	if !ok {
		return nil, apierrors.NotFound("endpoint not found")
	}
	if patch.Title != nil {
		e.Title = *patch.Title
	}
	if patch.Fields != nil {
		e.Fields = patch.Fields
	}
	return e, nil
}

func (m *memEndpoints) Delete(_ context.Context, id string) error {
	if _, ok := m.byID[id]; !ok {
		return apierrors.NotFound("endpoint not found")
	}
	delete(m.byID, id)
	return nil
}

func (m *memEndpoints) Query(_ context.Context, req query.Request) ([]*models.Endpoint, error) {
	plan := query.Compile(req)
	var out []*models.Endpoint
	for _, e := range m.byID {
		if query.MatchesAll(map[string]any{"title": e.Title}, plan.Post) {
			out = append(out, e)
		}
	}
	return out, nil
}

// memItems implements services.ItemStore in memory.
type memItems struct {
	byID   map[string]*models.Item
	nextID int
}

func (m *memItems) Create(_ context.Context, endpointID string, values map[string]any) (*models.Item, error) {
	m.nextID++
	i := &models.Item{ID: fmt.Sprintf("item-%d", m.nextID), EndpointID: endpointID, Data: values}
	m.byID[i.ID] = i
	return i, nil
}

func (m *memItems) List(_ context.Context, endpointID string, limit int) ([]*models.Item, error) {
	var out []*models.Item
	for _, i := range m.byID {
		if endpointID != "" && i.EndpointID != endpointID {
			continue
		}
		out = append(out, i)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func (m *memItems) ListPage(ctx context.Context, endpointID string, page, limit int) ([]*models.Item, error) {
	return m.List(ctx, endpointID, limit)
}

func (m *memItems) Get(_ context.Context, id string) (*models.Item, error) {
	i, ok := m.byID[id]
	if !ok {
		return nil, apierrors.NotFound("item not found")
	}
	return i, nil
}

func (m *memItems) Update(_ context.Context, id string, values map[string]any) (*models.Item, error) {
	i, ok := m.byID[id]
	if !ok {
		return nil, apierrors.NotFound("item not found")
	}
	i.Data = values
	return i, nil
}

func (m *memItems) Delete(_ context.Context, id string) error {
	if _, ok := m.byID[id]; !ok {
		return apierrors.NotFound("item not found")
	}
	delete(m.byID, id)
	return nil
}

func (m *memItems) Query(_ context.Context, req query.Request) ([]*models.Item, error) {
	plan := query.Compile(req)
	var out []*models.Item
	for _, i := range m.byID {
		data := map[string]any{"endpointId": i.EndpointID, "data": i.Data}
		if query.MatchesAll(data, plan.Post) {
			out = append(out, i)
		}
	}
	if req.Limit > 0 && len(out) > req.Limit {
		out = out[:req.Limit]
	}
	return out, nil
}

// memUsers implements services.UserStore in memory.
type memUsers struct {
	byID   map[string]*models.User
	nextID int
}

func (m *memUsers) FindByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range m.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (m *memUsers) FindByUsername(_ context.Context, username string) (*models.User, error) {
	for _, u := range m.byID {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, nil
}

func (m *memUsers) GetByID(_ context.Context, id string) (*models.User, error) {
	u, ok := m.byID[id]
	if !ok {
		return nil, apierrors.NotFound("user not found")
	}
	return u, nil
}

func (m *memUsers) Create(_ context.Context, username, email, passwordHash string) (*models.User, error) {
	m.nextID++
	u := &models.User{ID: fmt.Sprintf("user-%d", m.nextID), Username: username, Email: email, PasswordHash: passwordHash}
	m.byID[u.ID] = u
	return u, nil
}

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	storageClient, err := storage.NewClient(storage.Config{})
	if err != nil {
		t.Fatalf("storage client: %v", err)
	}
	auth := services.NewAuthService(&memUsers{byID: map[string]*models.User{}}, "test-secret")
	router := NewRouter(Deps{
		Endpoints:  services.NewEndpointService(&memEndpoints{byID: map[string]*models.Endpoint{}}),
		Items:      services.NewItemService(&memItems{byID: map[string]*models.Item{}}),
		Auth:       auth,
		Storage:    storageClient,
		CORSOrigin: "*",
	})
	return router
}

func do(router *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func registerUser(t *testing.T, router *gin.Engine) string {
	t.Helper()
	w := do(router, http.MethodPost, "/auth/register", "", map[string]string{
		"username": "ana",
		"email":    "ana@example.com",
		"password": "supersecret",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("register: %d %s", w.Code, w.Body.String())
	}
	var out struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil || out.Token == "" {
		t.Fatalf("register response: %v %s", err, w.Body.String())
	}
	return out.Token
}

func TestHealth(t *testing.T) {
	router := newTestRouter(t)
	w := do(router, http.MethodGet, "/health", "", nil)
	if w.Code != http.StatusOK {
		t.Errorf("health: %d", w.Code)
	}
}

func TestEndpointCRUDOverHTTP(t *testing.T) {
	router := newTestRouter(t)
	token := registerUser(t, router)

	w := do(router, http.MethodPost, "/endpoint", token, map[string]any{
		"title": "Minha API",
		"fields": []map[string]any{
			{"title": "Nome", "type": "text"},
		},
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create: %d %s", w.Code, w.Body.String())
	}
	var created models.Endpoint
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode: %v", err)
	}

	w = do(router, http.MethodGet, "/endpoint/"+created.ID, "", nil)
	if w.Code != http.StatusOK {
		t.Errorf("get: %d %s", w.Code, w.Body.String())
	}

	w = do(router, http.MethodPatch, "/endpoint/"+created.ID, token, map[string]any{
		"title": "Renomeada",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("patch: %d %s", w.Code, w.Body.String())
	}
	var updated models.Endpoint
	if err := json.Unmarshal(w.Body.Bytes(), &updated); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if updated.Title != "Renomeada" || len(updated.Fields) != 1 {
		t.Errorf("patch result: %+v", updated)
	}

	w = do(router, http.MethodDelete, "/endpoint/"+created.ID, token, nil)
	if w.Code != http.StatusOK {
		t.Errorf("delete: %d %s", w.Code, w.Body.String())
	}

	w = do(router, http.MethodGet, "/endpoint/"+created.ID, "", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("get after delete: %d", w.Code)
	}
}

func TestWritesRequireAuth(t *testing.T) {
	router := newTestRouter(t)

	for _, tc := range []struct{ method, path string }{
		{http.MethodPost, "/endpoint"},
		{http.MethodPatch, "/endpoint/x"},
		{http.MethodDelete, "/endpoint/x"},
		{http.MethodPost, "/itens"},
		{http.MethodPatch, "/itens/x"},
		{http.MethodDelete, "/itens/x"},
	} {
		w := do(router, tc.method, tc.path, "", map[string]any{})
		if w.Code != http.StatusUnauthorized {
			t.Errorf("%s %s: expected 401, got %d", tc.method, tc.path, w.Code)
		}
	}
}

func TestReadsArePublic(t *testing.T) {
	router := newTestRouter(t)
	for _, path := range []string{"/endpoint", "/itens"} {
		w := do(router, http.MethodGet, path, "", nil)
		if w.Code != http.StatusOK {
			t.Errorf("GET %s: expected 200, got %d", path, w.Code)
		}
		if !strings.HasPrefix(strings.TrimSpace(w.Body.String()), "[") {
			t.Errorf("GET %s: empty collections should render as [], got %s", path, w.Body.String())
		}
	}
}

func TestItemQueryOverHTTP(t *testing.T) {
	router := newTestRouter(t)
	token := registerUser(t, router)

	for _, name := range []string{"Ana Clara", "Bruno"} {
		w := do(router, http.MethodPost, "/itens", token, map[string]any{
			"endpointId": "ep-1",
			"values":     map[string]any{"Nome": name},
		})
		if w.Code != http.StatusCreated {
			t.Fatalf("create item: %d %s", w.Code, w.Body.String())
		}
	}

	w := do(router, http.MethodPost, "/itens/query", "", map[string]any{
		"filters": []map[string]any{
			{"field": "data.Nome", "op": "==", "value": "ANA CLARA"},
		},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("query: %d %s", w.Code, w.Body.String())
	}
	var items []models.Item
	if err := json.Unmarshal(w.Body.Bytes(), &items); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(items) != 1 || items[0].Data["Nome"] != "Ana Clara" {
		t.Errorf("expected the case-folded match, got %+v", items)
	}
}

func TestQueryValidationOverHTTP(t *testing.T) {
	router := newTestRouter(t)

	w := do(router, http.MethodPost, "/itens/query", "", map[string]any{})
	if w.Code != http.StatusBadRequest {
		t.Errorf("missing filters: expected 400, got %d %s", w.Code, w.Body.String())
	}

	w = do(router, http.MethodPost, "/itens/query", "", map[string]any{
		"filters": []map[string]any{{"field": "x", "op": "~", "value": 1}},
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("unknown op: expected 400, got %d", w.Code)
	}
}

func TestAuthMe(t *testing.T) {
	router := newTestRouter(t)
	token := registerUser(t, router)

	w := do(router, http.MethodGet, "/auth/me", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("me: %d %s", w.Code, w.Body.String())
	}
	var user models.User
	if err := json.Unmarshal(w.Body.Bytes(), &user); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if user.Email != "ana@example.com" {
		t.Errorf("unexpected user: %+v", user)
	}
	if strings.Contains(w.Body.String(), "supersecret") || strings.Contains(w.Body.String(), "passwordHash") {
		t.Error("password material must never be serialized")
	}

	w = do(router, http.MethodGet, "/auth/me", "garbage", nil)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("garbage token: expected 401, got %d", w.Code)
	}
}

func TestStorageDisabled(t *testing.T) {
	router := newTestRouter(t)
	w := do(router, http.MethodGet, "/storage/ep-1", "", nil)
	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("disabled storage: expected 503, got %d %s", w.Code, w.Body.String())
	}
}

func TestItemListBadPageParam(t *testing.T) {
	router := newTestRouter(t)
	w := do(router, http.MethodGet, "/itens?page=abc", "", nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for non-integer page, got %d", w.Code)
	}
}
