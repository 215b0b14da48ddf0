package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/carebridge/hospital-api/internal/http/handlers"
	"github.com/carebridge/hospital-api/internal/models"
	"github.com/carebridge/hospital-api/internal/store"
)

type fakeDepartmentStore struct {
	createFn func(ctx context.Context, doc models.Department) (models.Department, error)
	listFn   func(ctx context.Context) ([]models.Department, error)
	getFn    func(ctx context.Context, id primitive.ObjectID) (models.Department, error)
	updateFn func(ctx context.Context, id primitive.ObjectID, doc models.Department) (models.Department, error)
	deleteFn func(ctx context.Context, id primitive.ObjectID) error
}

func (f *fakeDepartmentStore) Create(ctx context.Context, doc models.Department) (models.Department, error) {
	return f.createFn(ctx, doc)
}

func (f *fakeDepartmentStore) List(ctx context.Context) ([]models.Department, error) {
	return f.listFn(ctx)
}

func (f *fakeDepartmentStore) GetByID(ctx context.Context, id primitive.ObjectID) (models.Department, error) {
	return f.getFn(ctx, id)
}

func (f *fakeDepartmentStore) Update(ctx context.Context, id primitive.ObjectID, doc models.Department) (models.Department, error) {
	return f.updateFn(ctx, id, doc)
}

func (f *fakeDepartmentStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	return f.deleteFn(ctx, id)
}

func departmentRouter(repo handlers.ResourceStore[models.Department]) *gin.Engine {
	h := handlers.NewResource("department", repo, models.DepartmentRequest.Model)

	r := gin.New()
	h.Mount(r.Group("/api/departments"))
	return r
}

func TestResourceCreate(t *testing.T) {
	repo := &fakeDepartmentStore{
		createFn: func(_ context.Context, doc models.Department) (models.Department, error) {
			doc.ID = primitive.NewObjectID()
			return doc, nil
		},
	}

	body, _ := json.Marshal(gin.H{"name": "Cardiology", "location": "Wing B"})
	req := httptest.NewRequest(http.MethodPost, "/api/departments", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	departmentRouter(repo).ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("got status %d, want 201, body=%s", w.Code, w.Body.String())
	}

	var got models.Department
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if got.Name != "Cardiology" {
		t.Errorf("name = %q, want Cardiology", got.Name)
	}
	if got.ID.IsZero() {
		t.Error("expected assigned id in response")
	}
}

func TestResourceCreateValidation(t *testing.T) {
	repo := &fakeDepartmentStore{
		createFn: func(context.Context, models.Department) (models.Department, error) {
			return models.Department{}, errors.New("store must not be reached")
		},
	}

	// name is required
	body, _ := json.Marshal(gin.H{"location": "Wing B"})
	req := httptest.NewRequest(http.MethodPost, "/api/departments", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	departmentRouter(repo).ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("got status %d, want 400, body=%s", w.Code, w.Body.String())
	}
}

func TestResourceList(t *testing.T) {
	repo := &fakeDepartmentStore{
		listFn: func(context.Context) ([]models.Department, error) {
			return []models.Department{
				{Name: "Cardiology"},
				{Name: "Oncology"},
			}, nil
		},
	}

	w := httptest.NewRecorder()
	departmentRouter(repo).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/departments", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("got status %d, want 200, body=%s", w.Code, w.Body.String())
	}

	var resp struct {
		Items []models.Department `json:"items"`
		Count int                 `json:"count"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if resp.Count != 2 || len(resp.Items) != 2 {
		t.Errorf("count = %d items = %d, want 2/2", resp.Count, len(resp.Items))
	}
	if w.Header().Get("ETag") == "" {
		t.Error("expected an ETag header on list responses")
	}
}

func TestResourceGet(t *testing.T) {
	id := primitive.NewObjectID()

	repo := &fakeDepartmentStore{
		getFn: func(_ context.Context, gotID primitive.ObjectID) (models.Department, error) {
			if gotID != id {
				return models.Department{}, store.ErrNotFound
			}
			d := models.Department{Name: "Cardiology"}
			d.ID = id
			return d, nil
		},
	}
	r := departmentRouter(repo)

	tests := []struct {
		name           string
		path           string
		wantStatusCode int
	}{
		{
			name:           "found",
			path:           "/api/departments/" + id.Hex(),
			wantStatusCode: http.StatusOK,
		},
		{
			name:           "unknown_id",
			path:           "/api/departments/" + primitive.NewObjectID().Hex(),
			wantStatusCode: http.StatusNotFound,
		},
		{
			name:           "malformed_id",
			path:           "/api/departments/not-hex",
			wantStatusCode: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tt.path, nil))

			if w.Code != tt.wantStatusCode {
				t.Fatalf("got status %d, want %d, body=%s", w.Code, tt.wantStatusCode, w.Body.String())
			}
		})
	}
}

func TestResourceUpdateNotFound(t *testing.T) {
	repo := &fakeDepartmentStore{
		updateFn: func(context.Context, primitive.ObjectID, models.Department) (models.Department, error) {
			return models.Department{}, store.ErrNotFound
		},
	}

	body, _ := json.Marshal(gin.H{"name": "Renamed"})
	req := httptest.NewRequest(http.MethodPut, "/api/departments/"+primitive.NewObjectID().Hex(), bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	departmentRouter(repo).ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("got status %d, want 404, body=%s", w.Code, w.Body.String())
	}

	var resp struct {
		Error handlers.APIError `json:"error"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if resp.Error.Code != "not_found" {
		t.Errorf("error code = %q, want not_found", resp.Error.Code)
	}
}

func TestResourceDelete(t *testing.T) {
	id := primitive.NewObjectID()

	repo := &fakeDepartmentStore{
		deleteFn: func(_ context.Context, gotID primitive.ObjectID) error {
			if gotID != id {
				return store.ErrNotFound
			}
			return nil
		},
	}
	r := departmentRouter(repo)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/api/departments/"+id.Hex(), nil))

	if w.Code != http.StatusNoContent {
		t.Fatalf("got status %d, want 204, body=%s", w.Code, w.Body.String())
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/api/departments/"+primitive.NewObjectID().Hex(), nil))

	if w.Code != http.StatusNotFound {
		t.Fatalf("delete of unknown id: got status %d, want 404", w.Code)
	}
}

func TestResourceStoreFailure(t *testing.T) {
	repo := &fakeDepartmentStore{
		listFn: func(context.Context) ([]models.Department, error) {
			return nil, errors.New("connection reset")
		},
	}

	w := httptest.NewRecorder()
	departmentRouter(repo).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/departments", nil))

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("got status %d, want 500, body=%s", w.Code, w.Body.String())
	}
}
