package poseRepository

import (
	"PoseBackend/internal/entity"
	contextPkg "PoseBackend/pkg/context"
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
)

type judgmentRepository struct {
	q   SQLExecutor
	log *logrus.Logger
}

type JudgmentDB struct {
	ID          sql.NullString  `db:"id"`
	ImageDigest sql.NullString  `db:"image_digest"`
	ClosestHand sql.NullString  `db:"closest_hand"`
	Distance    sql.NullFloat64 `db:"distance"`
	Accepted    sql.NullBool    `db:"accepted"`
	ArchiveURL  sql.NullString  `db:"archive_url"`
	CreatedAt   time.Time       `db:"created_at"`
}

func (r *judgmentRepository) CreateJudgment(c context.Context, record entity.JudgmentRecord) error {
	requestID := contextPkg.GetRequestID(c)
	argsKV := map[string]interface{}{
		"id":           record.ID,
		"image_digest": record.ImageDigest,
		"closest_hand": record.ClosestHand,
		"distance":     record.Distance,
		"accepted":     record.Accepted,
		"archive_url":  record.ArchiveURL,
		"created_at":   time.Now(),
	}

	query, args, err := sqlx.Named(queryCreateJudgment, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to build SQL query for CreateJudgment")
		return err
	}
	query = r.q.Rebind(query)

	_, err = r.q.ExecContext(c, query, args...)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Database error when creating judgment")

		return err
	}

	return nil
}

func (r *judgmentRepository) GetRecentJudgments(c context.Context, limit int) ([]entity.JudgmentRecord, error) {
	requestID := contextPkg.GetRequestID(c)
	var rows []JudgmentDB

	argsKV := map[string]interface{}{
		"limit": limit,
	}

	query, args, err := sqlx.Named(queryGetRecentJudgments, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetRecentJudgments named query preparation err")
		return nil, err
	}
	query = r.q.Rebind(query)

	if err := r.q.SelectContext(c, &rows, query, args...); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Database error when listing judgments")
		return nil, err
	}

	records := make([]entity.JudgmentRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, entity.JudgmentRecord{
			ID:          row.ID.String,
			ImageDigest: row.ImageDigest.String,
			ClosestHand: row.ClosestHand.String,
			Distance:    row.Distance.Float64,
			Accepted:    row.Accepted.Bool,
			ArchiveURL:  row.ArchiveURL.String,
			CreatedAt:   row.CreatedAt,
		})
	}

	return records, nil
}
