package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/qslabs/sms-service/internal/domain"
)

// StudentRepository handles persistence for students.
type StudentRepository interface {
	Create(ctx context.Context, student *domain.Student) error
	Update(ctx context.Context, student *domain.Student) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Student, error)
	List(ctx context.Context, page Page) ([]domain.Student, error)
	Count(ctx context.Context) (int64, error)
}

type studentRepository struct {
	pool *pgxpool.Pool
}

// NewStudentRepository instantiates the repository.
func NewStudentRepository(pool *pgxpool.Pool) StudentRepository {
	return &studentRepository{pool: pool}
}

const studentColumns = `id, user_id, first_name, last_name, date_of_birth, gender, address, contact_number, nationality, created_at, updated_at`

func scanStudent(row pgx.Row) (*domain.Student, error) {
	var s domain.Student
	if err := row.Scan(
		&s.ID,
		&s.UserID,
		&s.FirstName,
		&s.LastName,
		&s.DateOfBirth,
		&s.Gender,
		&s.Address,
		&s.ContactNumber,
		&s.Nationality,
		&s.CreatedAt,
		&s.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *studentRepository) Create(ctx context.Context, s *domain.Student) error {
	const query = `
        INSERT INTO students (user_id, first_name, last_name, date_of_birth, gender, address, contact_number, nationality)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
        RETURNING id, created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		s.UserID,
		s.FirstName,
		s.LastName,
		s.DateOfBirth,
		s.Gender,
		s.Address,
		s.ContactNumber,
		s.Nationality,
	).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
}

func (r *studentRepository) Update(ctx context.Context, s *domain.Student) error {
	const query = `
        UPDATE students
        SET user_id=$1, first_name=$2, last_name=$3, date_of_birth=$4, gender=$5, address=$6,
            contact_number=$7, nationality=$8, updated_at=NOW()
        WHERE id=$9
        RETURNING updated_at`

	return r.pool.QueryRow(ctx, query,
		s.UserID,
		s.FirstName,
		s.LastName,
		s.DateOfBirth,
		s.Gender,
		s.Address,
		s.ContactNumber,
		s.Nationality,
		s.ID,
	).Scan(&s.UpdatedAt)
}

func (r *studentRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM students WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *studentRepository) GetByID(ctx context.Context, id string) (*domain.Student, error) {
	return scanStudent(r.pool.QueryRow(ctx, `SELECT `+studentColumns+` FROM students WHERE id=$1`, id))
}

func (r *studentRepository) List(ctx context.Context, page Page) ([]domain.Student, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+studentColumns+` FROM students ORDER BY last_name, first_name LIMIT $1 OFFSET $2`,
		page.limit(), page.offset())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	students := []domain.Student{}
	for rows.Next() {
		s, err := scanStudent(rows)
		if err != nil {
			return nil, err
		}
		students = append(students, *s)
	}
	return students, rows.Err()
}

func (r *studentRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM students`).Scan(&n)
	return n, err
}
