package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/course-service/internal/domain"
)

var (
	// ErrCourseFull is returned when a course has reached its capacity.
	ErrCourseFull = errors.New("course is full")
	// ErrAlreadyEnrolled is returned when the (student, course) pair exists.
	ErrAlreadyEnrolled = errors.New("already enrolled")
)

const pgUniqueViolation = "23505"

// StudentCourse is a read projection of an enrolled course with the owning
// teacher's display name.
type StudentCourse struct {
	Course      domain.Course
	TeacherName string
}

// EnrollmentRepository encapsulates the registration ledger.
type EnrollmentRepository interface {
	// Enroll atomically checks capacity and inserts a ledger row inside a
	// single transaction holding a row lock on the course.
	Enroll(ctx context.Context, studentID, courseID string) (*domain.Enrollment, error)
	Delete(ctx context.Context, studentID, courseID string) error
	Exists(ctx context.Context, studentID, courseID string) (bool, error)
	CountByCourse(ctx context.Context, courseID string) (int, error)
	ListCoursesByStudent(ctx context.Context, studentID string) ([]StudentCourse, error)
	ListStudentsByCourse(ctx context.Context, courseID string) ([]domain.Account, error)
}

type enrollmentRepository struct {
	pool *pgxpool.Pool
}

// NewEnrollmentRepository instantiates repository.
func NewEnrollmentRepository(pool *pgxpool.Pool) EnrollmentRepository {
	return &enrollmentRepository{pool: pool}
}

func (r *enrollmentRepository) Enroll(ctx context.Context, studentID, courseID string) (*domain.Enrollment, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	// Lock the course row so concurrent enrolls near the capacity boundary
	// serialize on the count check.
	var capacity int
	if err := tx.QueryRow(ctx,
		`SELECT capacity FROM courses WHERE id=$1 FOR UPDATE`, courseID,
	).Scan(&capacity); err != nil {
		return nil, err
	}

	var enrolled int
	if err := tx.QueryRow(ctx,
		`SELECT COUNT(*) FROM enrollments WHERE course_id=$1`, courseID,
	).Scan(&enrolled); err != nil {
		return nil, err
	}
	if enrolled >= capacity {
		return nil, ErrCourseFull
	}

	enrollment := &domain.Enrollment{StudentID: studentID, CourseID: courseID}
	if err := tx.QueryRow(ctx,
		`INSERT INTO enrollments (student_id, course_id) VALUES ($1, $2)
         RETURNING id, created_at`, studentID, courseID,
	).Scan(&enrollment.ID, &enrollment.CreatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return nil, ErrAlreadyEnrolled
		}
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return enrollment, nil
}

func (r *enrollmentRepository) Delete(ctx context.Context, studentID, courseID string) error {
	cmd, err := r.pool.Exec(ctx,
		`DELETE FROM enrollments WHERE student_id=$1 AND course_id=$2`, studentID, courseID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *enrollmentRepository) Exists(ctx context.Context, studentID, courseID string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM enrollments WHERE student_id=$1 AND course_id=$2)`,
		studentID, courseID,
	).Scan(&exists)
	return exists, err
}

func (r *enrollmentRepository) CountByCourse(ctx context.Context, courseID string) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM enrollments WHERE course_id=$1`, courseID,
	).Scan(&count)
	return count, err
}

func (r *enrollmentRepository) ListCoursesByStudent(ctx context.Context, studentID string) ([]StudentCourse, error) {
	const query = `
        SELECT c.id, c.title, c.description, c.capacity, c.teacher_id, c.created_at, c.updated_at,
               a.name
        FROM enrollments e
        JOIN courses c ON c.id = e.course_id
        JOIN accounts a ON a.id = c.teacher_id
        WHERE e.student_id=$1
        ORDER BY e.created_at`

	rows, err := r.pool.Query(ctx, query, studentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []StudentCourse
	for rows.Next() {
		var sc StudentCourse
		if err := rows.Scan(
			&sc.Course.ID,
			&sc.Course.Title,
			&sc.Course.Description,
			&sc.Course.Capacity,
			&sc.Course.TeacherID,
			&sc.Course.CreatedAt,
			&sc.Course.UpdatedAt,
			&sc.TeacherName,
		); err != nil {
			return nil, err
		}
		result = append(result, sc)
	}
	return result, rows.Err()
}

func (r *enrollmentRepository) ListStudentsByCourse(ctx context.Context, courseID string) ([]domain.Account, error) {
	const query = `
        SELECT a.id, a.name, a.email, a.password_hash, a.role, a.created_at, a.updated_at
        FROM enrollments e
        JOIN accounts a ON a.id = e.student_id
        WHERE e.course_id=$1
        ORDER BY e.created_at`

	rows, err := r.pool.Query(ctx, query, courseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Account
	for rows.Next() {
		var account domain.Account
		if err := rows.Scan(
			&account.ID,
			&account.Name,
			&account.Email,
			&account.PasswordHash,
			&account.Role,
			&account.CreatedAt,
			&account.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, account)
	}
	return result, rows.Err()
}
