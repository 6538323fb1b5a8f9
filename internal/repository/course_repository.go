package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/course-service/internal/domain"
)

// CourseListing is a read projection of a course joined with its teacher's
// display name and the current enrollment count.
type CourseListing struct {
	Course        domain.Course
	TeacherName   string
	EnrolledCount int
}

// CourseRepository encapsulates course persistence.
type CourseRepository interface {
	Create(ctx context.Context, course *domain.Course) error
	Update(ctx context.Context, course *domain.Course) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Course, error)
	// ListAll returns the catalog; a non-empty search term filters on title
	// or description, case-insensitively.
	ListAll(ctx context.Context, search string) ([]CourseListing, error)
	ListByTeacher(ctx context.Context, teacherID string) ([]CourseListing, error)
}

type courseRepository struct {
	pool *pgxpool.Pool
}

// NewCourseRepository instantiates repository.
func NewCourseRepository(pool *pgxpool.Pool) CourseRepository {
	return &courseRepository{pool: pool}
}

func (r *courseRepository) Create(ctx context.Context, course *domain.Course) error {
	const query = `
        INSERT INTO courses (title, description, capacity, teacher_id)
        VALUES ($1, $2, $3, $4)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		course.Title,
		course.Description,
		course.Capacity,
		course.TeacherID,
	).Scan(&course.ID, &course.CreatedAt, &course.UpdatedAt)
}

func (r *courseRepository) Update(ctx context.Context, course *domain.Course) error {
	const query = `
        UPDATE courses SET title=$1, description=$2, capacity=$3, updated_at=NOW()
        WHERE id=$4`
	cmd, err := r.pool.Exec(ctx, query,
		course.Title,
		course.Description,
		course.Capacity,
		course.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// Delete removes the course; enrollment rows cascade at the database level.
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
	const query = `
        SELECT id, title, description, capacity, teacher_id, created_at, updated_at
        FROM courses WHERE id=$1`

	var course domain.Course
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&course.ID,
		&course.Title,
		&course.Description,
		&course.Capacity,
		&course.TeacherID,
		&course.CreatedAt,
		&course.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &course, nil
}

const listingQuery = `
        SELECT c.id, c.title, c.description, c.capacity, c.teacher_id, c.created_at, c.updated_at,
               a.name,
               (SELECT COUNT(*) FROM enrollments e WHERE e.course_id = c.id)
        FROM courses c
        JOIN accounts a ON a.id = c.teacher_id`

func (r *courseRepository) ListAll(ctx context.Context, search string) ([]CourseListing, error) {
	query := listingQuery + ` ORDER BY c.created_at`
	args := []any{}
	if search != "" {
		query = listingQuery +
			` WHERE c.title ILIKE '%' || $1 || '%' OR c.description ILIKE '%' || $1 || '%'` +
			` ORDER BY c.created_at`
		args = append(args, search)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanListings(rows)
}

func (r *courseRepository) ListByTeacher(ctx context.Context, teacherID string) ([]CourseListing, error) {
	rows, err := r.pool.Query(ctx, listingQuery+` WHERE c.teacher_id=$1 ORDER BY c.created_at`, teacherID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanListings(rows)
}

func scanListings(rows pgx.Rows) ([]CourseListing, error) {
	var result []CourseListing
	for rows.Next() {
		var listing CourseListing
		if err := rows.Scan(
			&listing.Course.ID,
			&listing.Course.Title,
			&listing.Course.Description,
			&listing.Course.Capacity,
			&listing.Course.TeacherID,
			&listing.Course.CreatedAt,
			&listing.Course.UpdatedAt,
			&listing.TeacherName,
			&listing.EnrolledCount,
		); err != nil {
			return nil, err
		}
		result = append(result, listing)
	}
	return result, rows.Err()
}
