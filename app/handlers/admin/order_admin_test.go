package admin

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/devrodri-com/mutter-games-dev/app/models"
	"github.com/devrodri-com/mutter-games-dev/app/utils/renderer"
	"github.com/gorilla/mux"
	"gorm.io/gorm"
)

type memOrderAdminRepo struct {
	orders map[string]*models.Order
}

func newMemOrderAdminRepo() *memOrderAdminRepo {
	return &memOrderAdminRepo{orders: make(map[string]*models.Order)}
}

func (m *memOrderAdminRepo) Create(ctx context.Context, order *models.Order) error {
	m.orders[order.ID] = order
	return nil
}

func (m *memOrderAdminRepo) GetAll(ctx context.Context) ([]models.Order, error) {
	var out []models.Order
	for _, o := range m.orders {
		out = append(out, *o)
	}
	return out, nil
}

func (m *memOrderAdminRepo) GetByID(ctx context.Context, id string) (*models.Order, error) {
	if o, ok := m.orders[id]; ok {
		copied := *o
		return &copied, nil
	}
	return nil, nil
}

func (m *memOrderAdminRepo) GetByUID(ctx context.Context, uid string) ([]models.Order, error) {
	return nil, nil
}

func (m *memOrderAdminRepo) UpdateEstado(ctx context.Context, id, estado string) error {
	o, ok := m.orders[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	o.Estado = estado
	return nil
}

func orderRouter(h *OrderAdminHandler) *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/orders/{id}", h.Get).Methods(http.MethodGet)
	r.HandleFunc("/orders/{id}/estado", h.UpdateEstado).Methods(http.MethodPatch)
	return r
}

func TestUpdateEstadoTransitions(t *testing.T) {
	repo := newMemOrderAdminRepo()
	repo.orders["o1"] = &models.Order{ID: "o1", Estado: models.OrderEstadoProcessing}
	h := NewOrderAdminHandler(renderer.New(), repo)

	body := `{"estado": "Confirmado"}`
	rec := httptest.NewRecorder()
	orderRouter(h).ServeHTTP(rec, httptest.NewRequest(http.MethodPatch, "/orders/o1/estado", strings.NewReader(body)))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if repo.orders["o1"].Estado != models.OrderEstadoConfirmed {
		t.Fatalf("estado not updated, got %q", repo.orders["o1"].Estado)
	}
}

func TestUpdateEstadoRejectsUnknownValue(t *testing.T) {
	repo := newMemOrderAdminRepo()
	repo.orders["o1"] = &models.Order{ID: "o1", Estado: models.OrderEstadoProcessing}
	h := NewOrderAdminHandler(renderer.New(), repo)

	rec := httptest.NewRecorder()
	orderRouter(h).ServeHTTP(rec, httptest.NewRequest(http.MethodPatch, "/orders/o1/estado", strings.NewReader(`{"estado": "Perdido"}`)))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if repo.orders["o1"].Estado != models.OrderEstadoProcessing {
		t.Fatal("estado must not change on rejection")
	}
}

func TestUpdateEstadoUnknownOrderIs404(t *testing.T) {
	h := NewOrderAdminHandler(renderer.New(), newMemOrderAdminRepo())

	rec := httptest.NewRecorder()
	orderRouter(h).ServeHTTP(rec, httptest.NewRequest(http.MethodPatch, "/orders/nope/estado", strings.NewReader(`{"estado": "Confirmado"}`)))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestGetOrderNotFound(t *testing.T) {
	h := NewOrderAdminHandler(renderer.New(), newMemOrderAdminRepo())

	rec := httptest.NewRecorder()
	orderRouter(h).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/orders/nope", nil))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}
