package repository

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	jsoniter "github.com/json-iterator/go"
	"github.com/samueldmelo/logfoto/internal/domain"
	"github.com/sirupsen/logrus"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type RestConfig struct {
	BaseURL  string
	APIKey   string
	Client   *http.Client
	Location *time.Location
}

// restProductRepository talks to the products table through its REST
// gateway (PostgREST dialect).
type restProductRepository struct {
	endpoint string
	apiKey   string
	client   *http.Client
	loc      *time.Location
	log      *logrus.Logger
}

type restRow struct {
	ID               string `json:"id"`
	SKU              string `json:"sku"`
	Categoria        string `json:"categoria"`
	Tamanho          string `json:"tamanho"`
	Cor              string `json:"cor"`
	DataHoraCadastro string `json:"data_hora_cadastro"`
}

type restError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details"`
	Hint    string `json:"hint"`
}

func NewRestProductRepository(cfg RestConfig, logger *logrus.Logger) domain.ProductStore {
	client := cfg.Client
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	loc := cfg.Location
	if loc == nil {
		loc = time.UTC
	}
	return &restProductRepository{
		endpoint: strings.TrimRight(cfg.BaseURL, "/") + "/rest/v1/" + productsTable,
		apiKey:   cfg.APIKey,
		client:   client,
		loc:      loc,
		log:      logger,
	}
}

func (r *restProductRepository) Create(ctx context.Context, p domain.NewProduct) (*domain.Product, error) {
	body, err := json.Marshal(columnsMap(insertColumns(p)))
	if err != nil {
		return nil, domain.NewStoreError("create", fmt.Errorf("encode product: %w", err))
	}

	rows, err := r.do(ctx, http.MethodPost, url.Values{"select": {"*"}}, body)
	if err != nil {
		r.log.Errorf("RestStore: Failed to create product '%s': %v", p.SKU, err)
		return nil, domain.NewStoreError("create", err)
	}
	if len(rows) == 0 {
		return nil, domain.NewStoreError("create", fmt.Errorf("insert returned no row"))
	}

	r.log.Infof("RestStore: Product created with ID %s, SKU %s", rows[0].ID, rows[0].SKU)
	return &rows[0], nil
}

func (r *restProductRepository) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	q := url.Values{"select": {"*"}, colID: {"eq." + id}}
	rows, err := r.do(ctx, http.MethodGet, q, nil)
	if err != nil {
		r.log.Errorf("RestStore: Failed to get product %s: %v", id, err)
		return nil, domain.NewStoreError("get", err)
	}
	if len(rows) == 0 {
		r.log.Warnf("RestStore: Product %s not found", id)
		return nil, domain.NewStoreError("get", fmt.Errorf("id %s: %w", id, domain.ErrNotFound))
	}
	return &rows[0], nil
}

func (r *restProductRepository) ListAll(ctx context.Context) ([]domain.Product, error) {
	return r.ListFiltered(ctx, domain.ProductFilter{})
}

func (r *restProductRepository) ListFiltered(ctx context.Context, f domain.ProductFilter) ([]domain.Product, error) {
	q := filterQuery(f)
	rows, err := r.do(ctx, http.MethodGet, q, nil)
	if err != nil {
		r.log.Errorf("RestStore: Failed to list products (%s): %v", q.Encode(), err)
		return nil, domain.NewStoreError("list", err)
	}
	rows = refineStars(rows, f)
	r.log.Debugf("RestStore: Retrieved %d products", len(rows))
	return rows, nil
}

// filterQuery translates a filter into REST query parameters. Every set field
// adds one condition; the gateway ANDs them.
func filterQuery(f domain.ProductFilter) url.Values {
	q := url.Values{}
	q.Set("select", "*")
	q.Set("order", colDataHoraCadastro+".desc")

	if f.SKU != "" {
		q.Add(colSKU, ilikePattern(f.SKU))
	}
	if f.Cor != "" {
		q.Add(colCor, ilikePattern(domain.NormalizeColor(f.Cor)))
	}
	if f.Categoria != "" {
		q.Add(colCategoria, "eq."+f.Categoria)
	}
	if f.Tamanho != "" {
		q.Add(colTamanho, "eq."+f.Tamanho)
	}
	if f.DataInicio != "" {
		q.Add(colDataHoraCadastro, "gte."+f.StartBound())
	}
	if f.DataFim != "" {
		q.Add(colDataHoraCadastro, "lte."+f.EndBound())
	}
	return q
}

// ilikePattern builds a substring match for v. The gateway turns every "*"
// into "%", so a literal "*" cannot be sent; it goes out as the one-character
// wildcard and refineStars drops the extra matches.
func ilikePattern(v string) string {
	return "ilike.*" + strings.ReplaceAll(likeLiteral(v), "*", "_") + "*"
}

func refineStars(rows []domain.Product, f domain.ProductFilter) []domain.Product {
	cor := domain.NormalizeColor(f.Cor)
	if !strings.Contains(f.SKU, "*") && !strings.Contains(cor, "*") {
		return rows
	}
	out := rows[:0]
	for _, p := range rows {
		if containsFold(p.SKU, f.SKU) && containsFold(p.Cor, cor) {
			out = append(out, p)
		}
	}
	return out
}

func (r *restProductRepository) Update(ctx context.Context, id string, patch domain.ProductPatch) (*domain.Product, error) {
	cols := updateColumns(patch)
	if len(cols) == 0 {
		r.log.Infof("RestStore: No fields provided for product %s update. Returning current product.", id)
		return r.GetByID(ctx, id)
	}

	body, err := json.Marshal(columnsMap(cols))
	if err != nil {
		return nil, domain.NewStoreError("update", fmt.Errorf("encode patch: %w", err))
	}

	q := url.Values{"select": {"*"}, colID: {"eq." + id}}
	rows, err := r.do(ctx, http.MethodPatch, q, body)
	if err != nil {
		r.log.Errorf("RestStore: Failed to update product %s: %v", id, err)
		return nil, domain.NewStoreError("update", err)
	}
	if len(rows) == 0 {
		r.log.Warnf("RestStore: Product %s not found for update", id)
		return nil, domain.NewStoreError("update", fmt.Errorf("id %s: %w", id, domain.ErrNotFound))
	}

	r.log.Infof("RestStore: Product %s updated (%d fields)", id, len(cols))
	return &rows[0], nil
}

// Delete succeeds when no row matches id.
func (r *restProductRepository) Delete(ctx context.Context, id string) error {
	q := url.Values{colID: {"eq." + id}}
	if _, err := r.do(ctx, http.MethodDelete, q, nil); err != nil {
		r.log.Errorf("RestStore: Failed to delete product %s: %v", id, err)
		return domain.NewStoreError("delete", err)
	}
	r.log.Infof("RestStore: Product %s deleted", id)
	return nil
}

func (r *restProductRepository) do(ctx context.Context, method string, q url.Values, body []byte) ([]domain.Product, error) {
	target := r.endpoint + "?" + q.Encode()

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("apikey", r.apiKey)
	req.Header.Set("Authorization", "Bearer "+r.apiKey)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if method != http.MethodGet && method != http.MethodDelete {
		req.Header.Set("Prefer", "return=representation")
	}

	r.log.Debugf("RestStore: %s %s", method, target)
	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to communicate with store: %w", err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read store response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, decodeRestError(resp.StatusCode, payload)
	}
	if len(bytes.TrimSpace(payload)) == 0 {
		return nil, nil
	}

	var rows []restRow
	if err := json.Unmarshal(payload, &rows); err != nil {
		return nil, fmt.Errorf("failed to decode store response: %w", err)
	}
	return r.toDomain(rows)
}

func (r *restProductRepository) toDomain(rows []restRow) ([]domain.Product, error) {
	products := make([]domain.Product, 0, len(rows))
	for _, row := range rows {
		ts, err := dateparse.ParseIn(row.DataHoraCadastro, r.loc)
		if err != nil {
			return nil, fmt.Errorf("invalid %s %q for product %s: %w", colDataHoraCadastro, row.DataHoraCadastro, row.ID, err)
		}
		products = append(products, productRow{
			ID:               row.ID,
			SKU:              row.SKU,
			Categoria:        row.Categoria,
			Tamanho:          row.Tamanho,
			Cor:              row.Cor,
			DataHoraCadastro: ts,
		}.toDomain())
	}
	return products, nil
}

func decodeRestError(status int, payload []byte) error {
	var re restError
	if err := json.Unmarshal(payload, &re); err != nil || re.Message == "" {
		return fmt.Errorf("store returned status %d: %s", status, strings.TrimSpace(string(payload)))
	}
	if re.Details != "" {
		return fmt.Errorf("%s (%s, status %d, code %s)", re.Message, re.Details, status, re.Code)
	}
	return fmt.Errorf("%s (status %d, code %s)", re.Message, status, re.Code)
}
