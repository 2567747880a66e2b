package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/qslabs/sms-service/internal/domain"
)

// TeacherRepository handles persistence for teaching staff.
type TeacherRepository interface {
	Create(ctx context.Context, teacher *domain.Teacher) error
	Update(ctx context.Context, teacher *domain.Teacher) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Teacher, error)
	GetByUserID(ctx context.Context, userID string) (*domain.Teacher, error)
	List(ctx context.Context, page Page) ([]domain.Teacher, error)
}

type teacherRepository struct {
	pool *pgxpool.Pool
}

// NewTeacherRepository instantiates the repository.
func NewTeacherRepository(pool *pgxpool.Pool) TeacherRepository {
	return &teacherRepository{pool: pool}
}

const teacherColumns = `id, user_id, name, phone, date_of_birth, gender, address, joining_date, status, created_at, updated_at`

func scanTeacher(row pgx.Row) (*domain.Teacher, error) {
	var t domain.Teacher
	if err := row.Scan(
		&t.ID,
		&t.UserID,
		&t.Name,
		&t.Phone,
		&t.DateOfBirth,
		&t.Gender,
		&t.Address,
		&t.JoiningDate,
		&t.Status,
		&t.CreatedAt,
		&t.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *teacherRepository) Create(ctx context.Context, t *domain.Teacher) error {
	const query = `
        INSERT INTO teachers (user_id, name, phone, date_of_birth, gender, address, joining_date, status)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
        RETURNING id, created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		t.UserID,
		t.Name,
		t.Phone,
		t.DateOfBirth,
		t.Gender,
		t.Address,
		t.JoiningDate,
		t.Status,
	).Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)
}

func (r *teacherRepository) Update(ctx context.Context, t *domain.Teacher) error {
	const query = `
        UPDATE teachers
        SET user_id=$1, name=$2, phone=$3, date_of_birth=$4, gender=$5, address=$6,
            joining_date=$7, status=$8, updated_at=NOW()
        WHERE id=$9
        RETURNING updated_at`

	return r.pool.QueryRow(ctx, query,
		t.UserID,
		t.Name,
		t.Phone,
		t.DateOfBirth,
		t.Gender,
		t.Address,
		t.JoiningDate,
		t.Status,
		t.ID,
	).Scan(&t.UpdatedAt)
}

func (r *teacherRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM teachers WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *teacherRepository) GetByID(ctx context.Context, id string) (*domain.Teacher, error) {
	return scanTeacher(r.pool.QueryRow(ctx, `SELECT `+teacherColumns+` FROM teachers WHERE id=$1`, id))
}

func (r *teacherRepository) GetByUserID(ctx context.Context, userID string) (*domain.Teacher, error) {
	return scanTeacher(r.pool.QueryRow(ctx, `SELECT `+teacherColumns+` FROM teachers WHERE user_id=$1`, userID))
}

func (r *teacherRepository) List(ctx context.Context, page Page) ([]domain.Teacher, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+teacherColumns+` FROM teachers ORDER BY name LIMIT $1 OFFSET $2`,
		page.limit(), page.offset())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	teachers := []domain.Teacher{}
	for rows.Next() {
		t, err := scanTeacher(rows)
		if err != nil {
			return nil, err
		}
		teachers = append(teachers, *t)
	}
	return teachers, rows.Err()
}
