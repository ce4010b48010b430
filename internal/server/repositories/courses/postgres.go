// Package courses provides a PostgreSQL-backed repository for the imported
// course catalog.
package courses

import (
	"context"
	"fmt"

	"github.com/planwise/planwise/internal/dbx"
	"github.com/planwise/planwise/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Upsert(ctx context.Context, course *models.Course) error {
	query := `
		INSERT INTO courses (course_id, subject, course_number, title, exam_type, exam_time)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (course_id, exam_type)
		DO UPDATE SET
			subject = EXCLUDED.subject,
			course_number = EXCLUDED.course_number,
			title = EXCLUDED.title,
			exam_time = EXCLUDED.exam_time
		RETURNING id
	`
	err := r.db.QueryRowContext(ctx, query,
		course.CourseID, course.Subject, course.Number, course.Title,
		course.ExamType, course.ExamTime).Scan(&course.ID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) ListAll(ctx context.Context) ([]*models.Course, error) {
	query := `
		SELECT id, course_id, subject, course_number, title, exam_type, exam_time
		FROM courses
		ORDER BY subject, course_number
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Course
	for rows.Next() {
		course := &models.Course{}
		if err := rows.Scan(
			&course.ID, &course.CourseID, &course.Subject, &course.Number,
			&course.Title, &course.ExamType, &course.ExamTime,
		); err != nil {
			return nil, err
		}
		result = append(result, course)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
