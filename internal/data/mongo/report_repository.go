// Package mongo persists reconciliation reports as documents. Reports are
// diagnostic history, not transactional state, so the document store fits and
// losing a write never affects ledger correctness.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/fintrack-ledger/internal/engine"
)

const (
	// ReportCollectionName is the name of the reconciliation report collection
	ReportCollectionName = "reconciliation_reports"
)

// ReportRepository archives reconciliation reports
type ReportRepository struct {
	db     *mongo.Database
	logger *slog.Logger
}

// NewReportRepository creates a new MongoDB reconciliation report repository
func NewReportRepository(logger *slog.Logger, db *mongo.Database) *ReportRepository {
	return &ReportRepository{
		db:     db,
		logger: logger,
	}
}

// Save stores one auditor run
func (r *ReportRepository) Save(ctx context.Context, report *engine.Report) error {
	collection := r.db.Collection(ReportCollectionName)

	if _, err := collection.InsertOne(ctx, report); err != nil {
		r.logger.Error("Failed to archive reconciliation report",
			"user_id", report.UserID.String(),
			"error", err)
		return fmt.Errorf("failed to archive reconciliation report: %w", err)
	}

	return nil
}

// Latest returns the most recent archived report for the user, or nil when
// the auditor has never run
func (r *ReportRepository) Latest(ctx context.Context, userID uuid.UUID) (*engine.Report, error) {
	collection := r.db.Collection(ReportCollectionName)

	filter := bson.M{"user_id": userID}
	opts := options.FindOne().SetSort(bson.D{{Key: "ran_at", Value: -1}})

	var report engine.Report
	err := collection.FindOne(ctx, filter, opts).Decode(&report)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		r.logger.Error("Failed to load latest reconciliation report",
			"user_id", userID.String(),
			"error", err)
		return nil, fmt.Errorf("failed to load latest reconciliation report: %w", err)
	}

	return &report, nil
}

// ListByUser returns archived reports newest first, paginated
func (r *ReportRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*engine.Report, error) {
	collection := r.db.Collection(ReportCollectionName)

	filter := bson.M{"user_id": userID}
	opts := options.Find().
		SetSort(bson.D{{Key: "ran_at", Value: -1}}).
		SetLimit(int64(limit)).
		SetSkip(int64(offset))

	cursor, err := collection.Find(ctx, filter, opts)
	if err != nil {
		r.logger.Error("Failed to list reconciliation reports",
			"user_id", userID.String(),
			"error", err)
		return nil, fmt.Errorf("failed to list reconciliation reports: %w", err)
	}
	defer cursor.Close(ctx)

	var reports []*engine.Report
	if err := cursor.All(ctx, &reports); err != nil {
		return nil, fmt.Errorf("failed to decode reconciliation reports: %w", err)
	}

	return reports, nil
}
