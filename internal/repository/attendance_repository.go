package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/qslabs/sms-service/internal/domain"
)

// AttendanceFilter narrows attendance listings. Nil fields are ignored.
type AttendanceFilter struct {
	UserID   *string
	CourseID *string
	Role     *domain.Role
	From     *time.Time
	To       *time.Time
	Limit    int
	Offset   int
}

// SummaryFilter scopes the attendance aggregation.
type SummaryFilter struct {
	From     time.Time
	To       time.Time
	CourseID *string
	Role     *domain.Role
}

// SummaryRow is one (user, role, course) group.
type SummaryRow struct {
	UserID       string
	Role         domain.Role
	CourseID     string
	TotalCount   int64
	PresentCount int64
}

// AttendanceRepository handles persistence for attendance records.
type AttendanceRepository interface {
	Create(ctx context.Context, attendance *domain.Attendance) error
	Update(ctx context.Context, attendance *domain.Attendance) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Attendance, error)
	List(ctx context.Context, filter AttendanceFilter) ([]domain.Attendance, error)
	Summary(ctx context.Context, filter SummaryFilter) ([]SummaryRow, error)
}

type attendanceRepository struct {
	pool *pgxpool.Pool
}

// NewAttendanceRepository instantiates the repository.
func NewAttendanceRepository(pool *pgxpool.Pool) AttendanceRepository {
	return &attendanceRepository{pool: pool}
}

const attendanceColumns = `id, user_id, role, course_id, date, status, created_at, updated_at`

func scanAttendance(row pgx.Row) (*domain.Attendance, error) {
	var a domain.Attendance
	if err := row.Scan(
		&a.ID,
		&a.UserID,
		&a.Role,
		&a.CourseID,
		&a.Date,
		&a.Status,
		&a.CreatedAt,
		&a.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *attendanceRepository) Create(ctx context.Context, a *domain.Attendance) error {
	const query = `
        INSERT INTO attendances (user_id, role, course_id, date, status)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id, created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		a.UserID,
		a.Role,
		a.CourseID,
		a.Date,
		a.Status,
	).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
}

func (r *attendanceRepository) Update(ctx context.Context, a *domain.Attendance) error {
	const query = `
        UPDATE attendances SET user_id=$1, role=$2, course_id=$3, date=$4, status=$5, updated_at=NOW()
        WHERE id=$6
        RETURNING updated_at`

	return r.pool.QueryRow(ctx, query,
		a.UserID,
		a.Role,
		a.CourseID,
		a.Date,
		a.Status,
		a.ID,
	).Scan(&a.UpdatedAt)
}

func (r *attendanceRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM attendances WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *attendanceRepository) GetByID(ctx context.Context, id string) (*domain.Attendance, error) {
	return scanAttendance(r.pool.QueryRow(ctx, `SELECT `+attendanceColumns+` FROM attendances WHERE id=$1`, id))
}

func (r *attendanceRepository) List(ctx context.Context, filter AttendanceFilter) ([]domain.Attendance, error) {
	query, args := buildAttendanceListQuery(filter)
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []domain.Attendance{}
	for rows.Next() {
		a, err := scanAttendance(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *a)
	}
	return result, rows.Err()
}

func (r *attendanceRepository) Summary(ctx context.Context, filter SummaryFilter) ([]SummaryRow, error) {
	query, args := buildSummaryQuery(filter)
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []SummaryRow{}
	for rows.Next() {
		var row SummaryRow
		if err := rows.Scan(&row.UserID, &row.Role, &row.CourseID, &row.TotalCount, &row.PresentCount); err != nil {
			return nil, err
		}
		result = append(result, row)
	}
	return result, rows.Err()
}

func buildAttendanceListQuery(filter AttendanceFilter) (string, []any) {
	query := `SELECT ` + attendanceColumns + ` FROM attendances`
	args := []any{}
	clauses := []string{}

	if filter.UserID != nil {
		args = append(args, *filter.UserID)
		clauses = append(clauses, fmt.Sprintf("user_id=$%d", len(args)))
	}
	if filter.CourseID != nil {
		args = append(args, *filter.CourseID)
		clauses = append(clauses, fmt.Sprintf("course_id=$%d", len(args)))
	}
	if filter.Role != nil {
		args = append(args, *filter.Role)
		clauses = append(clauses, fmt.Sprintf("role=$%d", len(args)))
	}
	if filter.From != nil {
		args = append(args, *filter.From)
		clauses = append(clauses, fmt.Sprintf("date >= $%d", len(args)))
	}
	if filter.To != nil {
		args = append(args, *filter.To)
		clauses = append(clauses, fmt.Sprintf("date <= $%d", len(args)))
	}
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}

	query += " ORDER BY date DESC, created_at DESC"
	page := Page{Limit: filter.Limit, Offset: filter.Offset}
	query += fmt.Sprintf(" LIMIT %d OFFSET %d", page.limit(), page.offset())
	return query, args
}

func buildSummaryQuery(filter SummaryFilter) (string, []any) {
	args := []any{filter.From, filter.To}
	clauses := []string{"date BETWEEN $1 AND $2"}

	if filter.CourseID != nil {
		args = append(args, *filter.CourseID)
		clauses = append(clauses, fmt.Sprintf("course_id=$%d", len(args)))
	}
	if filter.Role != nil {
		args = append(args, *filter.Role)
		clauses = append(clauses, fmt.Sprintf("role=$%d", len(args)))
	}

	query := `
        SELECT user_id, role, course_id,
               COUNT(*) AS total_count,
               COUNT(*) FILTER (WHERE status = 'PRESENT') AS present_count
        FROM attendances
        WHERE ` + strings.Join(clauses, " AND ") + `
        GROUP BY user_id, role, course_id
        ORDER BY course_id, user_id`
	return query, args
}
