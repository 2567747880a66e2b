package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/qslabs/sms-service/internal/domain"
)

// CourseAssignmentRepository handles persistence for course assignments.
type CourseAssignmentRepository interface {
	Create(ctx context.Context, assignment *domain.CourseAssignment) error
	Update(ctx context.Context, assignment *domain.CourseAssignment) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.CourseAssignment, error)
	List(ctx context.Context, page Page) ([]domain.CourseAssignment, error)
	ListByUser(ctx context.Context, userID string) ([]domain.CourseAssignment, error)
	ListByCourse(ctx context.Context, courseID string) ([]domain.CourseAssignment, error)
}

type courseAssignmentRepository struct {
	pool *pgxpool.Pool
}

// NewCourseAssignmentRepository instantiates the repository.
func NewCourseAssignmentRepository(pool *pgxpool.Pool) CourseAssignmentRepository {
	return &courseAssignmentRepository{pool: pool}
}

const courseAssignmentColumns = `id, course_id, user_id, role, created_at, updated_at`

func scanCourseAssignment(row pgx.Row) (*domain.CourseAssignment, error) {
	var a domain.CourseAssignment
	var role string
	if err := row.Scan(
		&a.ID,
		&a.CourseID,
		&a.UserID,
		&role,
		&a.CreatedAt,
		&a.UpdatedAt,
	); err != nil {
		return nil, err
	}
	a.Role = domain.Role(role)
	return &a, nil
}

func (r *courseAssignmentRepository) Create(ctx context.Context, a *domain.CourseAssignment) error {
	const query = `
        INSERT INTO course_assigns (course_id, user_id, role)
        VALUES ($1,$2,$3)
        RETURNING id, created_at, updated_at`

	return r.pool.QueryRow(ctx, query, a.CourseID, a.UserID, string(a.Role)).
		Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
}

func (r *courseAssignmentRepository) Update(ctx context.Context, a *domain.CourseAssignment) error {
	const query = `
        UPDATE course_assigns SET course_id=$1, user_id=$2, role=$3, updated_at=NOW()
        WHERE id=$4
        RETURNING updated_at`

	return r.pool.QueryRow(ctx, query, a.CourseID, a.UserID, string(a.Role), a.ID).Scan(&a.UpdatedAt)
}

func (r *courseAssignmentRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM course_assigns WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *courseAssignmentRepository) GetByID(ctx context.Context, id string) (*domain.CourseAssignment, error) {
	return scanCourseAssignment(r.pool.QueryRow(ctx,
		`SELECT `+courseAssignmentColumns+` FROM course_assigns WHERE id=$1`, id))
}

func (r *courseAssignmentRepository) List(ctx context.Context, page Page) ([]domain.CourseAssignment, error) {
	return r.query(ctx,
		`SELECT `+courseAssignmentColumns+` FROM course_assigns ORDER BY created_at LIMIT $1 OFFSET $2`,
		page.limit(), page.offset())
}

func (r *courseAssignmentRepository) ListByUser(ctx context.Context, userID string) ([]domain.CourseAssignment, error) {
	return r.query(ctx,
		`SELECT `+courseAssignmentColumns+` FROM course_assigns WHERE user_id=$1 ORDER BY created_at`, userID)
}

func (r *courseAssignmentRepository) ListByCourse(ctx context.Context, courseID string) ([]domain.CourseAssignment, error) {
	return r.query(ctx,
		`SELECT `+courseAssignmentColumns+` FROM course_assigns WHERE course_id=$1 ORDER BY created_at`, courseID)
}

func (r *courseAssignmentRepository) query(ctx context.Context, sql string, args ...any) ([]domain.CourseAssignment, error) {
	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	assignments := []domain.CourseAssignment{}
	for rows.Next() {
		a, err := scanCourseAssignment(rows)
		if err != nil {
			return nil, err
		}
		assignments = append(assignments, *a)
	}
	return assignments, rows.Err()
}
