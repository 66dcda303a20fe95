package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"
	"github.com/samueldmelo/logfoto/internal/domain"
	"github.com/sirupsen/logrus"
)

const selectColumns = colID + ", " + colSKU + ", " + colCategoria + ", " + colTamanho + ", " + colCor + ", " + colDataHoraCadastro

type postgresProductRepository struct {
	db  *sql.DB
	log *logrus.Logger
}

func NewPostgresProductRepository(db *sql.DB, logger *logrus.Logger) domain.ProductStore {
	return &postgresProductRepository{
		db:  db,
		log: logger,
	}
}

func (r *postgresProductRepository) Create(ctx context.Context, p domain.NewProduct) (*domain.Product, error) {
	cols := insertColumns(p)
	names := make([]string, 0, len(cols))
	holders := make([]string, 0, len(cols))
	args := make([]interface{}, 0, len(cols))
	for i, c := range cols {
		names = append(names, c.name)
		holders = append(holders, fmt.Sprintf("$%d", i+1))
		args = append(args, c.value)
	}

	query := fmt.Sprintf(`INSERT INTO %s (%s) VALUES (%s) RETURNING %s`,
		productsTable, strings.Join(names, ", "), strings.Join(holders, ", "), selectColumns)

	row, err := scanProduct(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		r.log.Errorf("Repository: Failed to create product '%s': %v", p.SKU, err)
		return nil, domain.NewStoreError("create", describePQError(err))
	}

	r.log.Infof("Repository: Product created successfully with ID: %s, SKU: %s", row.ID, row.SKU)
	product := row.toDomain()
	return &product, nil
}

func (r *postgresProductRepository) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`, selectColumns, productsTable, colID)

	row, err := scanProduct(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if isMissingRow(err) {
			r.log.Warnf("Repository: Product with ID %s not found", id)
			return nil, domain.NewStoreError("get", fmt.Errorf("id %s: %w", id, domain.ErrNotFound))
		}
		r.log.Errorf("Repository: Failed to get product by ID %s: %v", id, err)
		return nil, domain.NewStoreError("get", describePQError(err))
	}

	product := row.toDomain()
	return &product, nil
}

func (r *postgresProductRepository) ListAll(ctx context.Context) ([]domain.Product, error) {
	return r.ListFiltered(ctx, domain.ProductFilter{})
}

func (r *postgresProductRepository) ListFiltered(ctx context.Context, f domain.ProductFilter) ([]domain.Product, error) {
	where, args := whereClause(f)
	query := fmt.Sprintf(`SELECT %s FROM %s%s ORDER BY %s DESC`, selectColumns, productsTable, where, colDataHoraCadastro)

	r.log.Debugf("Repository: Executing list query: %s with args: %v", query, args)
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		r.log.Errorf("Repository: Failed to list products: %v", err)
		return nil, domain.NewStoreError("list", describePQError(err))
	}
	defer rows.Close()

	result := []productRow{}
	for rows.Next() {
		row, err := scanProduct(rows)
		if err != nil {
			r.log.Errorf("Repository: Failed to scan product row: %v", err)
			return nil, domain.NewStoreError("list", fmt.Errorf("error scanning product data: %w", err))
		}
		result = append(result, row)
	}
	if err = rows.Err(); err != nil {
		r.log.Errorf("Repository: Error during products list iteration: %v", err)
		return nil, domain.NewStoreError("list", describePQError(err))
	}

	r.log.Infof("Repository: Retrieved %d products", len(result))
	return toDomainList(result), nil
}

// whereClause builds the AND-ed conditions of a filter with positional
// parameters. It returns an empty clause for an empty filter. Text filters
// are matched literally.
func whereClause(f domain.ProductFilter) (string, []interface{}) {
	var conds []string
	var args []interface{}
	add := func(expr string, value interface{}) {
		args = append(args, value)
		conds = append(conds, fmt.Sprintf(expr, len(args)))
	}

	if f.SKU != "" {
		add(colSKU+" ILIKE '%%' || $%d || '%%'", likeLiteral(f.SKU))
	}
	if f.Cor != "" {
		add(colCor+" ILIKE '%%' || $%d || '%%'", likeLiteral(domain.NormalizeColor(f.Cor)))
	}
	if f.Categoria != "" {
		add(colCategoria+" = $%d", f.Categoria)
	}
	if f.Tamanho != "" {
		add(colTamanho+" = $%d", f.Tamanho)
	}
	if f.DataInicio != "" {
		add(colDataHoraCadastro+" >= $%d", f.StartBound())
	}
	if f.DataFim != "" {
		add(colDataHoraCadastro+" <= $%d", f.EndBound())
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func (r *postgresProductRepository) Update(ctx context.Context, id string, patch domain.ProductPatch) (*domain.Product, error) {
	cols := updateColumns(patch)
	if len(cols) == 0 {
		r.log.Infof("Repository: No fields provided for product update ID %s. Returning current product.", id)
		return r.GetByID(ctx, id)
	}

	setClauses := make([]string, 0, len(cols)+1)
	args := make([]interface{}, 0, len(cols)+1)
	for i, c := range cols {
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", c.name, i+1))
		args = append(args, c.value)
	}
	setClauses = append(setClauses, colUpdatedAt+" = now()")
	args = append(args, id)

	query := fmt.Sprintf(`UPDATE %s SET %s WHERE %s = $%d RETURNING %s`,
		productsTable, strings.Join(setClauses, ", "), colID, len(args), selectColumns)

	r.log.Debugf("Repository: Executing partial update query for ID %s: %s with args: %v", id, query, args)
	row, err := scanProduct(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if isMissingRow(err) {
			r.log.Warnf("Repository: Product with ID %s not found for update", id)
			return nil, domain.NewStoreError("update", fmt.Errorf("id %s: %w", id, domain.ErrNotFound))
		}
		r.log.Errorf("Repository: Failed to update product ID %s: %v", id, err)
		return nil, domain.NewStoreError("update", describePQError(err))
	}

	r.log.Infof("Repository: Partial update successful for product ID %s", id)
	product := row.toDomain()
	return &product, nil
}

// Delete does not check the affected row count: removing a missing id is not
// an error.
func (r *postgresProductRepository) Delete(ctx context.Context, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, productsTable, colID)
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		if isInvalidID(err) {
			r.log.Warnf("Repository: Ignoring delete of malformed ID %s", id)
			return nil
		}
		r.log.Errorf("Repository: Failed to delete product ID %s: %v", id, err)
		return domain.NewStoreError("delete", describePQError(err))
	}

	if n, err := result.RowsAffected(); err == nil && n == 0 {
		r.log.Warnf("Repository: Delete of product ID %s matched no rows", id)
		return nil
	}
	r.log.Infof("Repository: Product deleted successfully with ID: %s", id)
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanProduct(s rowScanner) (productRow, error) {
	var row productRow
	err := s.Scan(&row.ID, &row.SKU, &row.Categoria, &row.Tamanho, &row.Cor, &row.DataHoraCadastro)
	return row, err
}

// isMissingRow treats a malformed id the same as an unknown one.
func isMissingRow(err error) bool {
	return errors.Is(err, sql.ErrNoRows) || isInvalidID(err)
}

func isInvalidID(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "22P02"
}

// describePQError turns known postgres error codes into readable messages and
// keeps the pq error wrapped.
func describePQError(err error) error {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return err
	}
	switch pqErr.Code {
	case "23514":
		return fmt.Errorf("product data constraint violation: %s: %w", pqErr.Message, err)
	case "23502":
		return fmt.Errorf("missing required column %s: %w", pqErr.Column, err)
	case "22007", "22008":
		return fmt.Errorf("invalid date in filter: %s: %w", pqErr.Message, err)
	case "42P01":
		return fmt.Errorf("table %s does not exist: %w", productsTable, err)
	}
	return fmt.Errorf("%s (code %s): %w", pqErr.Message, pqErr.Code, err)
}
