package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/planwise/planwise/internal/common"
	"github.com/planwise/planwise/internal/dbx"
	"github.com/planwise/planwise/internal/server/models"
	"github.com/planwise/planwise/internal/server/repositories/repomanager"
)

// CourseService imports course-catalog JSON into the database.
type CourseService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewCourseService(db *sql.DB, m repomanager.RepositoryManager) *CourseService {
	return &CourseService{db: db, repomanager: m}
}

type courseRow struct {
	CourseID int        `json:"courseId"`
	Subject  string     `json:"subject"`
	Number   string     `json:"courseNumber"`
	Title    string     `json:"title"`
	ExamType string     `json:"examType"`
	ExamTime *time.Time `json:"examTime"`
}

type courseKey struct {
	courseID int
	examType string
}

// Import reads a JSON array of catalog rows and upserts them, merged by
// (courseId, examType): when the input repeats a key, the last row with an
// exam time wins. The whole import is one transaction. Returns the number of
// distinct courses written.
func (s *CourseService) Import(ctx context.Context, r io.Reader) (int, error) {
	var rows []courseRow
	if err := json.NewDecoder(r).Decode(&rows); err != nil {
		return 0, common.ErrInvalidArgument
	}

	merged := make(map[courseKey]courseRow)
	order := make([]courseKey, 0, len(rows))

	for _, row := range rows {
		if row.CourseID == 0 || row.Subject == "" {
			continue
		}
		key := courseKey{courseID: row.CourseID, examType: row.ExamType}
		prev, seen := merged[key]
		if !seen {
			order = append(order, key)
			merged[key] = row
			continue
		}
		if row.ExamTime != nil || prev.ExamTime == nil {
			merged[key] = row
		}
	}

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Courses(tx)

		for _, key := range order {
			row := merged[key]
			err := repo.Upsert(ctx, &models.Course{
				CourseID: row.CourseID,
				Subject:  row.Subject,
				Number:   row.Number,
				Title:    row.Title,
				ExamType: row.ExamType,
				ExamTime: row.ExamTime,
			})
			if err != nil {
				return fmt.Errorf("error upserting course %d/%s: %w", row.CourseID, row.ExamType, err)
			}
		}
		return nil
	})

	if err != nil {
		return 0, common.ErrInternal
	}

	return len(order), nil
}
