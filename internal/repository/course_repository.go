package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/qslabs/sms-service/internal/domain"
)

// CourseRepository handles persistence for courses.
type CourseRepository interface {
	Create(ctx context.Context, course *domain.Course) error
	Update(ctx context.Context, course *domain.Course) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Course, error)
	List(ctx context.Context, page Page) ([]domain.Course, error)
	Count(ctx context.Context) (int64, error)
}

type courseRepository struct {
	pool *pgxpool.Pool
}

// NewCourseRepository instantiates the repository.
func NewCourseRepository(pool *pgxpool.Pool) CourseRepository {
	return &courseRepository{pool: pool}
}

const courseColumns = `id, code, name, credits, duration, description, created_at, updated_at`

func scanCourse(row pgx.Row) (*domain.Course, error) {
	var c domain.Course
	if err := row.Scan(
		&c.ID,
		&c.Code,
		&c.Name,
		&c.Credits,
		&c.Duration,
		&c.Description,
		&c.CreatedAt,
		&c.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *courseRepository) Create(ctx context.Context, c *domain.Course) error {
	const query = `
        INSERT INTO courses (code, name, credits, duration, description)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id, created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		c.Code,
		c.Name,
		c.Credits,
		c.Duration,
		c.Description,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
}

func (r *courseRepository) Update(ctx context.Context, c *domain.Course) error {
	const query = `
        UPDATE courses SET code=$1, name=$2, credits=$3, duration=$4, description=$5, updated_at=NOW()
        WHERE id=$6
        RETURNING updated_at`

	return r.pool.QueryRow(ctx, query,
		c.Code,
		c.Name,
		c.Credits,
		c.Duration,
		c.Description,
		c.ID,
	).Scan(&c.UpdatedAt)
}

func (r *courseRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM courses WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *courseRepository) GetByID(ctx context.Context, id string) (*domain.Course, error) {
	return scanCourse(r.pool.QueryRow(ctx, `SELECT `+courseColumns+` FROM courses WHERE id=$1`, id))
}

func (r *courseRepository) List(ctx context.Context, page Page) ([]domain.Course, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+courseColumns+` FROM courses ORDER BY code LIMIT $1 OFFSET $2`,
		page.limit(), page.offset())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	courses := []domain.Course{}
	for rows.Next() {
		c, err := scanCourse(rows)
		if err != nil {
			return nil, err
		}
		courses = append(courses, *c)
	}
	return courses, rows.Err()
}

func (r *courseRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM courses`).Scan(&n)
	return n, err
}
