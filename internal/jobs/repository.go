package jobs

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/huntboard/huntboard/internal/platform/httpx"
)

// Repository defines persistence operations for jobs. Every method takes the
// owner id and scopes the query to it.
type Repository interface {
	Create(ctx context.Context, job Job) (*Job, error)
	Get(ctx context.Context, id, ownerID int64) (*Job, error)
	List(ctx context.Context, ownerID int64, req ListJobsRequest) ([]Job, error)
	Update(ctx context.Context, id, ownerID int64, updates map[string]any) (*Job, error)
	Delete(ctx context.Context, id, ownerID int64) error
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

// sortColumns whitelists the sortable JSON field names.
var sortColumns = map[string]string{
	"id":        "id",
	"company":   "company",
	"position":  "position",
	"status":    "status",
	"salary":    "salary",
	"createdAt": "created_at",
	"updatedAt": "updated_at",
}

const jobColumns = `id, company, position, status, salary, created_by, created_at, updated_at`

func scanJob(row pgx.Row) (*Job, error) {
	var j Job
	err := row.Scan(&j.ID, &j.Company, &j.Position, &j.Status, &j.Salary, &j.CreatedBy, &j.CreatedAt, &j.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, httpx.ErrNotFound
		}
		return nil, err
	}
	return &j, nil
}

func (r *repository) Create(ctx context.Context, job Job) (*Job, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO jobs (company, position, status, salary, created_by)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+jobColumns,
		job.Company, job.Position, job.Status, job.Salary, job.CreatedBy)
	created, err := scanJob(row)
	if err != nil {
		return nil, fmt.Errorf("jobs: create: %w", err)
	}
	return created, nil
}

func (r *repository) Get(ctx context.Context, id, ownerID int64) (*Job, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+jobColumns+` FROM jobs WHERE id = $1 AND created_by = $2`, id, ownerID)
	return scanJob(row)
}

func (r *repository) List(ctx context.Context, ownerID int64, req ListJobsRequest) ([]Job, error) {
	conditions := []string{"created_by = $1"}
	args := []any{ownerID}
	argPos := 2

	if req.Company != nil {
		conditions = append(conditions, fmt.Sprintf("company = $%d", argPos))
		args = append(args, *req.Company)
		argPos++
	}
	if req.Position != nil {
		conditions = append(conditions, fmt.Sprintf("position = $%d", argPos))
		args = append(args, *req.Position)
		argPos++
	}
	if req.Status != nil {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argPos))
		args = append(args, *req.Status)
		argPos++
	}

	orderBy := buildOrderBy(req.Sort)

	page := req.Page
	if page <= 0 {
		page = 1
	}
	limit := req.Limit
	if limit <= 0 {
		limit = 10
	}
	offset := (page - 1) * limit

	query := fmt.Sprintf(`SELECT %s FROM jobs WHERE %s %s LIMIT $%d OFFSET $%d`,
		jobColumns, strings.Join(conditions, " AND "), orderBy, argPos, argPos+1)
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("jobs: list: %w", err)
	}
	defer rows.Close()

	var result []Job
	for rows.Next() {
		var j Job
		if err := rows.Scan(&j.ID, &j.Company, &j.Position, &j.Status, &j.Salary, &j.CreatedBy, &j.CreatedAt, &j.UpdatedAt); err != nil {
			return nil, fmt.Errorf("jobs: scan: %w", err)
		}
		result = append(result, j)
	}
	return result, rows.Err()
}

func (r *repository) Update(ctx context.Context, id, ownerID int64, updates map[string]any) (*Job, error) {
	query := "UPDATE jobs SET updated_at = NOW()"
	var args []any
	argPos := 1

	for _, column := range []string{"company", "position", "status", "salary"} {
		if v, ok := updates[column]; ok {
			query += fmt.Sprintf(", %s = $%d", column, argPos)
			args = append(args, v)
			argPos++
		}
	}

	query += fmt.Sprintf(" WHERE id = $%d AND created_by = $%d RETURNING %s", argPos, argPos+1, jobColumns)
	args = append(args, id, ownerID)

	return scanJob(r.pool.QueryRow(ctx, query, args...))
}

func (r *repository) Delete(ctx context.Context, id, ownerID int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM jobs WHERE id = $1 AND created_by = $2`, id, ownerID)
	if err != nil {
		return fmt.Errorf("jobs: delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

func buildOrderBy(sort []string) string {
	var parts []string
	for _, field := range sort {
		field = strings.TrimSpace(field)
		desc := strings.HasPrefix(field, "-")
		field = strings.TrimPrefix(field, "-")
		column, ok := sortColumns[field]
		if !ok {
			continue
		}
		if desc {
			column += " DESC"
		}
		parts = append(parts, column)
	}
	if len(parts) == 0 {
		return "ORDER BY id"
	}
	return "ORDER BY " + strings.Join(parts, ", ")
}
