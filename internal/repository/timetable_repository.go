package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/qslabs/sms-service/internal/domain"
)

// TimetableRepository handles persistence for scheduled classes.
type TimetableRepository interface {
	Create(ctx context.Context, entry *domain.TimetableEntry) error
	Update(ctx context.Context, entry *domain.TimetableEntry) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.TimetableEntry, error)
	List(ctx context.Context, page Page) ([]domain.TimetableEntry, error)
	CountOn(ctx context.Context, day time.Time) (int64, error)
}

type timetableRepository struct {
	pool *pgxpool.Pool
}

// NewTimetableRepository instantiates the repository.
func NewTimetableRepository(pool *pgxpool.Pool) TimetableRepository {
	return &timetableRepository{pool: pool}
}

// times are read back as text so the domain keeps its HH:MM form
const timetableColumns = `id, date, to_char(start_time, 'HH24:MI'), to_char(end_time, 'HH24:MI'),
        teacher_id, course_id, classroom, created_at, updated_at`

func scanTimetable(row pgx.Row) (*domain.TimetableEntry, error) {
	var e domain.TimetableEntry
	if err := row.Scan(
		&e.ID,
		&e.Date,
		&e.StartTime,
		&e.EndTime,
		&e.TeacherID,
		&e.CourseID,
		&e.Classroom,
		&e.CreatedAt,
		&e.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *timetableRepository) Create(ctx context.Context, e *domain.TimetableEntry) error {
	const query = `
        INSERT INTO timetables (date, start_time, end_time, teacher_id, course_id, classroom)
        VALUES ($1,$2::time,$3::time,$4,$5,$6)
        RETURNING id, created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		e.Date,
		e.StartTime,
		e.EndTime,
		e.TeacherID,
		e.CourseID,
		e.Classroom,
	).Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt)
}

func (r *timetableRepository) Update(ctx context.Context, e *domain.TimetableEntry) error {
	const query = `
        UPDATE timetables SET date=$1, start_time=$2::time, end_time=$3::time, teacher_id=$4,
            course_id=$5, classroom=$6, updated_at=NOW()
        WHERE id=$7
        RETURNING updated_at`

	return r.pool.QueryRow(ctx, query,
		e.Date,
		e.StartTime,
		e.EndTime,
		e.TeacherID,
		e.CourseID,
		e.Classroom,
		e.ID,
	).Scan(&e.UpdatedAt)
}

func (r *timetableRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM timetables WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *timetableRepository) GetByID(ctx context.Context, id string) (*domain.TimetableEntry, error) {
	return scanTimetable(r.pool.QueryRow(ctx, `SELECT `+timetableColumns+` FROM timetables WHERE id=$1`, id))
}

func (r *timetableRepository) List(ctx context.Context, page Page) ([]domain.TimetableEntry, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+timetableColumns+` FROM timetables ORDER BY date, start_time LIMIT $1 OFFSET $2`,
		page.limit(), page.offset())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := []domain.TimetableEntry{}
	for rows.Next() {
		e, err := scanTimetable(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *e)
	}
	return entries, rows.Err()
}

func (r *timetableRepository) CountOn(ctx context.Context, day time.Time) (int64, error) {
	var n int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM timetables WHERE date=$1`, day).Scan(&n)
	return n, err
}
