package repository

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/samueldmelo/logfoto/internal/domain"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func newRestTestStore(t *testing.T, h http.HandlerFunc) domain.ProductStore {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewRestProductRepository(RestConfig{
		BaseURL:  srv.URL + "/",
		APIKey:   "anon-key",
		Client:   srv.Client(),
		Location: time.UTC,
	}, quietLogger())
}

func TestRestCreate(t *testing.T) {
	store := newRestTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/rest/v1/products", r.URL.Path)
		assert.Equal(t, "anon-key", r.Header.Get("apikey"))
		assert.Equal(t, "Bearer anon-key", r.Header.Get("Authorization"))
		assert.Equal(t, "return=representation", r.Header.Get("Prefer"))

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, map[string]string{
			"sku": "ABC123", "categoria": "Bolsa", "tamanho": "M", "cor": "AZUL",
		}, body)

		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `[{"id":"p-1","sku":"ABC123","categoria":"Bolsa","tamanho":"M","cor":"AZUL","data_hora_cadastro":"2025-01-10T12:00:00+00:00","created_at":"2025-01-10T12:00:00+00:00"}]`)
	})

	p, err := store.Create(context.Background(), domain.NewProduct{SKU: "ABC123", Categoria: "Bolsa", Tamanho: "M", Cor: "azul"})
	require.NoError(t, err)
	assert.Equal(t, "p-1", p.ID)
	assert.Equal(t, "AZUL", p.Cor)
	assert.True(t, p.DataHoraCadastro.Equal(time.Date(2025, 1, 10, 12, 0, 0, 0, time.UTC)))
}

func TestRestListFilteredQuery(t *testing.T) {
	store := newRestTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "data_hora_cadastro.desc", q.Get("order"))
		assert.Equal(t, "ilike.*abc*", q.Get("sku"))
		assert.Equal(t, "ilike.*AZUL*", q.Get("cor"))
		assert.Equal(t, "eq.Bolsa", q.Get("categoria"))
		assert.Equal(t, "eq.M", q.Get("tamanho"))
		assert.Equal(t, []string{"gte.2025-01-10T00:00:00", "lte.2025-01-10T23:59:59"}, q["data_hora_cadastro"])
		assert.Empty(t, r.Header.Get("Prefer"))

		_, _ = io.WriteString(w, `[{"id":"p-2","sku":"ABC123","categoria":"Bolsa","tamanho":"M","cor":"AZUL","data_hora_cadastro":"2025-01-10T09:30:00"}]`)
	})

	got, err := store.ListFiltered(context.Background(), domain.ProductFilter{
		SKU: "abc", Cor: "azul", Categoria: "Bolsa", Tamanho: "M",
		DataInicio: "2025-01-10", DataFim: "2025-01-10",
	})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.True(t, got[0].DataHoraCadastro.Equal(time.Date(2025, 1, 10, 9, 30, 0, 0, time.UTC)))
}

func TestRestTextFiltersAreLiteral(t *testing.T) {
	t.Run("LikeWildcardsAreEscaped", func(t *testing.T) {
		store := newRestTestStore(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, `ilike.*a\_c\%*`, r.URL.Query().Get("sku"))
			_, _ = io.WriteString(w, `[]`)
		})

		_, err := store.ListFiltered(context.Background(), domain.ProductFilter{SKU: "a_c%"})
		require.NoError(t, err)
	})

	t.Run("StarMatchesOnlyItself", func(t *testing.T) {
		store := newRestTestStore(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "ilike.*a_b*", r.URL.Query().Get("sku"))
			_, _ = io.WriteString(w, `[
				{"id":"p-1","sku":"A*B1","categoria":"Bolsa","tamanho":"M","cor":"AZUL","data_hora_cadastro":"2025-01-10T12:00:00Z"},
				{"id":"p-2","sku":"AXB2","categoria":"Bolsa","tamanho":"M","cor":"AZUL","data_hora_cadastro":"2025-01-10T11:00:00Z"}
			]`)
		})

		got, err := store.ListFiltered(context.Background(), domain.ProductFilter{SKU: "a*b"})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "p-1", got[0].ID)
	})
}

func TestRestListAllSendsNoConditions(t *testing.T) {
	store := newRestTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Len(t, q, 2, "only select and order")
		_, _ = io.WriteString(w, `[]`)
	})

	got, err := store.ListAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestRestUpdate(t *testing.T) {
	t.Run("SendsOnlySetColumns", func(t *testing.T) {
		store := newRestTestStore(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPatch, r.Method)
			assert.Equal(t, "eq.p-1", r.URL.Query().Get("id"))

			var body map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, map[string]string{"cor": "VERDE"}, body)

			_, _ = io.WriteString(w, `[{"id":"p-1","sku":"ABC123","categoria":"Bolsa","tamanho":"M","cor":"VERDE","data_hora_cadastro":"2025-01-10T12:00:00Z"}]`)
		})

		p, err := store.Update(context.Background(), "p-1", domain.PatchFromForm("", "", "", "verde"))
		require.NoError(t, err)
		assert.Equal(t, "VERDE", p.Cor)
	})

	t.Run("BlankSlotIsNotSent", func(t *testing.T) {
		store := newRestTestStore(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPatch, r.Method)

			var body map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, map[string]string{"tamanho": "G"}, body)

			_, _ = io.WriteString(w, `[{"id":"p-1","sku":"ABC123","categoria":"Bolsa","tamanho":"G","cor":"AZUL","data_hora_cadastro":"2025-01-10T12:00:00Z"}]`)
		})

		blank, size := "", "G"
		p, err := store.Update(context.Background(), "p-1", domain.ProductPatch{Cor: &blank, Tamanho: &size})
		require.NoError(t, err)
		assert.Equal(t, "AZUL", p.Cor)
	})

	t.Run("EmptyPatchReadsCurrent", func(t *testing.T) {
		store := newRestTestStore(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodGet, r.Method)
			_, _ = io.WriteString(w, `[{"id":"p-1","sku":"ABC123","categoria":"Bolsa","tamanho":"M","cor":"AZUL","data_hora_cadastro":"2025-01-10T12:00:00Z"}]`)
		})

		p, err := store.Update(context.Background(), "p-1", domain.PatchFromForm("", "", "", ""))
		require.NoError(t, err)
		assert.Equal(t, "AZUL", p.Cor)
	})

	t.Run("NoMatch", func(t *testing.T) {
		store := newRestTestStore(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.WriteString(w, `[]`)
		})

		_, err := store.Update(context.Background(), "missing", domain.PatchFromForm("X", "", "", ""))
		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrNotFound))
		assert.True(t, domain.IsStore(err))
	})
}

func TestRestDelete(t *testing.T) {
	store := newRestTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "eq.p-9", r.URL.Query().Get("id"))
		w.WriteHeader(http.StatusNoContent)
	})

	assert.NoError(t, store.Delete(context.Background(), "p-9"))
}

func TestRestErrorsBecomeStoreErrors(t *testing.T) {
	store := newRestTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"code":"22007","message":"invalid input syntax for type timestamp","details":null,"hint":null}`)
	})

	_, err := store.ListFiltered(context.Background(), domain.ProductFilter{DataInicio: "2025-13"})
	require.Error(t, err)

	var se *domain.StoreError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, "list", se.Op)
	assert.Contains(t, err.Error(), "invalid input syntax for type timestamp")
	assert.Contains(t, err.Error(), "status 400")
}

func TestRestUnreachableStore(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	store := NewRestProductRepository(RestConfig{BaseURL: srv.URL, APIKey: "k"}, quietLogger())
	_, err := store.ListAll(context.Background())
	require.Error(t, err)
	assert.True(t, domain.IsStore(err))
}
