package delivery

import (
	"context"
	"errors"
	"net/http"
	"testing"

	jsoniter "github.com/json-iterator/go"
	"github.com/samueldmelo/logfoto/internal/domain"
	"github.com/samueldmelo/logfoto/internal/usecase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type envelope struct {
	Status  string              `json:"Status"`
	Message string              `json:"Message"`
	Data    jsoniter.RawMessage `json:"Data"`
}

func decode(t *testing.T, body []byte, data interface{}) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(body, &env))
	if data != nil {
		require.NoError(t, json.Unmarshal(env.Data, data))
	}
	return env
}

// brokenStore fails every call the way an unreachable backend would.
type brokenStore struct{}

var errBackend = errors.New("connection refused")

func (brokenStore) Create(context.Context, domain.NewProduct) (*domain.Product, error) {
	return nil, domain.NewStoreError("create", errBackend)
}
func (brokenStore) GetByID(context.Context, string) (*domain.Product, error) {
	return nil, domain.NewStoreError("get", errBackend)
}
func (brokenStore) ListAll(context.Context) ([]domain.Product, error) {
	return nil, domain.NewStoreError("list", errBackend)
}
func (brokenStore) ListFiltered(context.Context, domain.ProductFilter) ([]domain.Product, error) {
	return nil, domain.NewStoreError("list", errBackend)
}
func (brokenStore) Update(context.Context, string, domain.ProductPatch) (*domain.Product, error) {
	return nil, domain.NewStoreError("update", errBackend)
}
func (brokenStore) Delete(context.Context, string) error {
	return domain.NewStoreError("delete", errBackend)
}

func TestAPICreateProduct(t *testing.T) {
	app := newTestApp(t)

	w := app.sendJSON(http.MethodPost, "/api/products", `{"sku":"ABC123","categoria":"Bolsa","tamanho":"M","cor":"azul"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	var p domain.Product
	env := decode(t, w.Body.Bytes(), &p)
	assert.Equal(t, "Success", env.Status)
	assert.Equal(t, "AZUL", p.Cor)
	assert.NotEmpty(t, p.ID)
	assert.NotEmpty(t, w.Header().Get(requestIDHeader))
}

func TestAPICreateValidation(t *testing.T) {
	app := newTestApp(t)

	w := app.sendJSON(http.MethodPost, "/api/products", `{"sku":"  ","categoria":"Sapato","tamanho":"M","cor":""}`)
	require.Equal(t, http.StatusBadRequest, w.Code)

	var fields map[string]string
	env := decode(t, w.Body.Bytes(), &fields)
	assert.Equal(t, "Fail", env.Status)
	assert.Equal(t, map[string]string{
		"sku":       "SKU é obrigatório",
		"categoria": "Categoria inválida",
		"cor":       "Cor é obrigatória",
	}, fields)

	w = app.sendJSON(http.MethodPost, "/api/products", `{"sku":`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAPIListAndGroups(t *testing.T) {
	app := newTestApp(t)
	for _, body := range []string{
		`{"sku":"ABC123","categoria":"Bolsa","tamanho":"M","cor":"azul"}`,
		`{"sku":"ABC123","categoria":"Bolsa","tamanho":"G","cor":"azul"}`,
		`{"sku":"XYZ","categoria":"Cinto","tamanho":"U","cor":"preto"}`,
	} {
		require.Equal(t, http.StatusCreated, app.sendJSON(http.MethodPost, "/api/products", body).Code)
	}

	w := app.get("/api/products")
	require.Equal(t, http.StatusOK, w.Code)
	var listing usecase.Listing
	env := decode(t, w.Body.Bytes(), &listing)
	assert.Equal(t, "2 SKUs (3 produtos)", env.Message)
	assert.Equal(t, usecase.ViewGrouped, listing.Mode)
	assert.Len(t, listing.Products, 3)
	assert.Equal(t, "XYZ", listing.Products[0].SKU, "newest first")

	w = app.get("/api/products?view=individual&cor=Azul&unknown=1")
	require.Equal(t, http.StatusOK, w.Code)
	listing = usecase.Listing{}
	env = decode(t, w.Body.Bytes(), &listing)
	assert.Equal(t, "2 produtos", env.Message)
	assert.Equal(t, "AZUL", listing.Filter.Cor)
	assert.Empty(t, listing.Groups)

	w = app.get("/api/products/groups?sku=abc")
	require.Equal(t, http.StatusOK, w.Code)
	var groups []domain.ProductGroup
	decode(t, w.Body.Bytes(), &groups)
	require.Len(t, groups, 1)
	assert.Equal(t, "ABC123", groups[0].SKU)
	assert.Equal(t, 2, groups[0].TotalVariations)
}

func TestAPIUpdateAndDelete(t *testing.T) {
	app := newTestApp(t)
	w := app.sendJSON(http.MethodPost, "/api/products", `{"sku":"ABC123","categoria":"Bolsa","tamanho":"M","cor":"azul"}`)
	var created domain.Product
	decode(t, w.Body.Bytes(), &created)

	w = app.sendJSON(http.MethodPatch, "/api/products/"+created.ID, `{"cor":""}`)
	require.Equal(t, http.StatusOK, w.Code)
	var updated domain.Product
	decode(t, w.Body.Bytes(), &updated)
	assert.Equal(t, "AZUL", updated.Cor, "an empty color is not an update")

	w = app.sendJSON(http.MethodPatch, "/api/products/"+created.ID, `{"tamanho":"XG","cor":"verde"}`)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w.Body.Bytes(), &updated)
	assert.Equal(t, "XG", updated.Tamanho)
	assert.Equal(t, "VERDE", updated.Cor)

	w = app.sendJSON(http.MethodPatch, "/api/products/"+created.ID, `{"tamanho":"XXL"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = app.sendJSON(http.MethodPatch, "/api/products/missing", `{"sku":"X"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = app.do(http.MethodDelete, "/api/products/"+created.ID, nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
	w = app.do(http.MethodDelete, "/api/products/"+created.ID, nil, "")
	assert.Equal(t, http.StatusOK, w.Code, "deleting a missing id succeeds")

	w = app.get("/api/products/" + created.ID)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAPIStoreFailure(t *testing.T) {
	app := newTestAppWithStore(t, brokenStore{})

	w := app.get("/api/products")
	assert.Equal(t, http.StatusBadGateway, w.Code)
	env := decode(t, w.Body.Bytes(), nil)
	assert.Contains(t, env.Message, "connection refused")

	w = app.sendJSON(http.MethodPost, "/api/products", `{"sku":"A","categoria":"Bolsa","tamanho":"M","cor":"azul"}`)
	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestMapErrorToStatus(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, mapErrorToStatus(&domain.ValidationError{}))
	assert.Equal(t, http.StatusNotFound, mapErrorToStatus(domain.NewStoreError("get", domain.ErrNotFound)))
	assert.Equal(t, http.StatusGatewayTimeout, mapErrorToStatus(domain.NewStoreError("list", context.DeadlineExceeded)))
	assert.Equal(t, http.StatusBadGateway, mapErrorToStatus(domain.NewStoreError("list", errBackend)))
	assert.Equal(t, http.StatusInternalServerError, mapErrorToStatus(errBackend))
}

func TestHealthAndRequestID(t *testing.T) {
	app := newTestApp(t)

	first := app.get("/health")
	assert.Equal(t, http.StatusOK, first.Code)

	second := app.get("/health")
	assert.NotEqual(t, first.Header().Get(requestIDHeader), second.Header().Get(requestIDHeader))
}
