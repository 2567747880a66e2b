package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/qslabs/sms-service/internal/domain"
	"github.com/qslabs/sms-service/internal/events"
	"github.com/qslabs/sms-service/internal/repository"
)

var errUnique = &pgconn.PgError{Code: "23505"}

type fakeUserRepo struct {
	mu    sync.Mutex
	seq   int
	users map[string]domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]domain.User{}}
}

func (r *fakeUserRepo) Create(_ context.Context, u *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Username == u.Username {
			return errUnique
		}
	}
	r.seq++
	u.ID = fmt.Sprintf("user-%d", r.seq)
	r.users[u.ID] = *u
	return nil
}

func (r *fakeUserRepo) Update(_ context.Context, u *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[u.ID]; !ok {
		return pgx.ErrNoRows
	}
	for id, existing := range r.users {
		if id != u.ID && existing.Username == u.Username {
			return errUnique
		}
	}
	r.users[u.ID] = *u
	return nil
}

func (r *fakeUserRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.users, id)
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &u, nil
}

func (r *fakeUserRepo) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == username {
			return &u, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeUserRepo) List(_ context.Context, _ repository.Page) ([]domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, u)
	}
	return out, nil
}

func (r *fakeUserRepo) Count(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.users)), nil
}

type fakeStudentRepo struct {
	students map[string]domain.Student
}

func (r *fakeStudentRepo) Create(_ context.Context, s *domain.Student) error {
	s.ID = fmt.Sprintf("student-%d", len(r.students)+1)
	r.students[s.ID] = *s
	return nil
}

func (r *fakeStudentRepo) Update(_ context.Context, s *domain.Student) error {
	if _, ok := r.students[s.ID]; !ok {
		return pgx.ErrNoRows
	}
	r.students[s.ID] = *s
	return nil
}

func (r *fakeStudentRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.students[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.students, id)
	return nil
}

func (r *fakeStudentRepo) GetByID(_ context.Context, id string) (*domain.Student, error) {
	s, ok := r.students[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &s, nil
}

func (r *fakeStudentRepo) List(_ context.Context, _ repository.Page) ([]domain.Student, error) {
	out := []domain.Student{}
	for _, s := range r.students {
		out = append(out, s)
	}
	return out, nil
}

func (r *fakeStudentRepo) Count(_ context.Context) (int64, error) {
	return int64(len(r.students)), nil
}

type fakeTeacherRepo struct {
	teachers map[string]domain.Teacher
}

func (r *fakeTeacherRepo) Create(_ context.Context, t *domain.Teacher) error {
	t.ID = fmt.Sprintf("teacher-%d", len(r.teachers)+1)
	r.teachers[t.ID] = *t
	return nil
}

func (r *fakeTeacherRepo) Update(_ context.Context, t *domain.Teacher) error {
	if _, ok := r.teachers[t.ID]; !ok {
		return pgx.ErrNoRows
	}
	r.teachers[t.ID] = *t
	return nil
}

func (r *fakeTeacherRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.teachers[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.teachers, id)
	return nil
}

func (r *fakeTeacherRepo) GetByID(_ context.Context, id string) (*domain.Teacher, error) {
	t, ok := r.teachers[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &t, nil
}

func (r *fakeTeacherRepo) GetByUserID(_ context.Context, userID string) (*domain.Teacher, error) {
	for _, t := range r.teachers {
		if t.UserID != nil && *t.UserID == userID {
			return &t, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeTeacherRepo) List(_ context.Context, _ repository.Page) ([]domain.Teacher, error) {
	out := []domain.Teacher{}
	for _, t := range r.teachers {
		out = append(out, t)
	}
	return out, nil
}

type fakeCourseRepo struct {
	courses map[string]domain.Course
}

func (r *fakeCourseRepo) Create(_ context.Context, c *domain.Course) error {
	for _, existing := range r.courses {
		if existing.Code == c.Code {
			return errUnique
		}
	}
	c.ID = fmt.Sprintf("course-%d", len(r.courses)+1)
	r.courses[c.ID] = *c
	return nil
}

func (r *fakeCourseRepo) Update(_ context.Context, c *domain.Course) error {
	if _, ok := r.courses[c.ID]; !ok {
		return pgx.ErrNoRows
	}
	r.courses[c.ID] = *c
	return nil
}

func (r *fakeCourseRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.courses[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.courses, id)
	return nil
}

func (r *fakeCourseRepo) GetByID(_ context.Context, id string) (*domain.Course, error) {
	c, ok := r.courses[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &c, nil
}

func (r *fakeCourseRepo) List(_ context.Context, _ repository.Page) ([]domain.Course, error) {
	out := []domain.Course{}
	for _, c := range r.courses {
		out = append(out, c)
	}
	return out, nil
}

func (r *fakeCourseRepo) Count(_ context.Context) (int64, error) {
	return int64(len(r.courses)), nil
}

type fakeTimetableRepo struct {
	entries map[string]domain.TimetableEntry
	seq     int
	countOn time.Time
}

func (r *fakeTimetableRepo) Create(_ context.Context, e *domain.TimetableEntry) error {
	r.seq++
	e.ID = fmt.Sprintf("slot-%d", r.seq)
	r.entries[e.ID] = *e
	return nil
}

func (r *fakeTimetableRepo) Update(_ context.Context, e *domain.TimetableEntry) error {
	if _, ok := r.entries[e.ID]; !ok {
		return pgx.ErrNoRows
	}
	r.entries[e.ID] = *e
	return nil
}

func (r *fakeTimetableRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.entries[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.entries, id)
	return nil
}

func (r *fakeTimetableRepo) GetByID(_ context.Context, id string) (*domain.TimetableEntry, error) {
	e, ok := r.entries[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &e, nil
}

func (r *fakeTimetableRepo) List(_ context.Context, _ repository.Page) ([]domain.TimetableEntry, error) {
	out := []domain.TimetableEntry{}
	for _, e := range r.entries {
		out = append(out, e)
	}
	return out, nil
}

func (r *fakeTimetableRepo) CountOn(_ context.Context, day time.Time) (int64, error) {
	r.countOn = day
	var n int64
	for _, e := range r.entries {
		if e.Date.Equal(day) {
			n++
		}
	}
	return n, nil
}

type fakeAssignmentRepo struct {
	assignments map[string]domain.CourseAssignment
	seq         int
}

func (r *fakeAssignmentRepo) conflicts(a *domain.CourseAssignment) bool {
	for _, existing := range r.assignments {
		if existing.ID != a.ID && existing.CourseID == a.CourseID && existing.UserID == a.UserID {
			return true
		}
	}
	return false
}

func (r *fakeAssignmentRepo) Create(_ context.Context, a *domain.CourseAssignment) error {
	if r.conflicts(a) {
		return errUnique
	}
	r.seq++
	a.ID = fmt.Sprintf("assign-%d", r.seq)
	r.assignments[a.ID] = *a
	return nil
}

func (r *fakeAssignmentRepo) Update(_ context.Context, a *domain.CourseAssignment) error {
	if _, ok := r.assignments[a.ID]; !ok {
		return pgx.ErrNoRows
	}
	if r.conflicts(a) {
		return errUnique
	}
	r.assignments[a.ID] = *a
	return nil
}

func (r *fakeAssignmentRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.assignments[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.assignments, id)
	return nil
}

func (r *fakeAssignmentRepo) GetByID(_ context.Context, id string) (*domain.CourseAssignment, error) {
	a, ok := r.assignments[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &a, nil
}

func (r *fakeAssignmentRepo) List(_ context.Context, _ repository.Page) ([]domain.CourseAssignment, error) {
	return r.filter(func(domain.CourseAssignment) bool { return true }), nil
}

func (r *fakeAssignmentRepo) ListByUser(_ context.Context, userID string) ([]domain.CourseAssignment, error) {
	return r.filter(func(a domain.CourseAssignment) bool { return a.UserID == userID }), nil
}

func (r *fakeAssignmentRepo) ListByCourse(_ context.Context, courseID string) ([]domain.CourseAssignment, error) {
	return r.filter(func(a domain.CourseAssignment) bool { return a.CourseID == courseID }), nil
}

func (r *fakeAssignmentRepo) filter(keep func(domain.CourseAssignment) bool) []domain.CourseAssignment {
	out := []domain.CourseAssignment{}
	for _, a := range r.assignments {
		if keep(a) {
			out = append(out, a)
		}
	}
	return out
}

type fakeAttendanceRepo struct {
	records     map[string]domain.Attendance
	rows        []repository.SummaryRow
	lastFilter  repository.AttendanceFilter
	lastSummary repository.SummaryFilter
}

func (r *fakeAttendanceRepo) Create(_ context.Context, a *domain.Attendance) error {
	for _, existing := range r.records {
		if existing.UserID == a.UserID && existing.CourseID == a.CourseID && existing.Date.Equal(a.Date) {
			return errUnique
		}
	}
	a.ID = fmt.Sprintf("att-%d", len(r.records)+1)
	r.records[a.ID] = *a
	return nil
}

func (r *fakeAttendanceRepo) Update(_ context.Context, a *domain.Attendance) error {
	if _, ok := r.records[a.ID]; !ok {
		return pgx.ErrNoRows
	}
	r.records[a.ID] = *a
	return nil
}

func (r *fakeAttendanceRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.records[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.records, id)
	return nil
}

func (r *fakeAttendanceRepo) GetByID(_ context.Context, id string) (*domain.Attendance, error) {
	a, ok := r.records[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &a, nil
}

func (r *fakeAttendanceRepo) List(_ context.Context, filter repository.AttendanceFilter) ([]domain.Attendance, error) {
	r.lastFilter = filter
	out := []domain.Attendance{}
	for _, a := range r.records {
		if filter.UserID != nil && a.UserID != *filter.UserID {
			continue
		}
		if filter.CourseID != nil && a.CourseID != *filter.CourseID {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

func (r *fakeAttendanceRepo) Summary(_ context.Context, filter repository.SummaryFilter) ([]repository.SummaryRow, error) {
	r.lastSummary = filter
	return r.rows, nil
}

// recordingDispatcher collects published events.
type recordingDispatcher struct {
	mu     sync.Mutex
	events []events.Event
	inner  events.Dispatcher
}

func newRecordingDispatcher() *recordingDispatcher {
	return &recordingDispatcher{inner: events.NewInMemoryDispatcher()}
}

func (d *recordingDispatcher) Publish(ctx context.Context, event events.Event) error {
	d.mu.Lock()
	d.events = append(d.events, event)
	d.mu.Unlock()
	return d.inner.Publish(ctx, event)
}

func (d *recordingDispatcher) Subscribe(eventType events.EventType, handler events.EventHandler) {
	d.inner.Subscribe(eventType, handler)
}

func (d *recordingDispatcher) types() []events.EventType {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]events.EventType, 0, len(d.events))
	for _, e := range d.events {
		out = append(out, e.Type)
	}
	return out
}

func (d *recordingDispatcher) last() events.Event {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.events[len(d.events)-1]
}
