package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/laritechfarms/farms-api/internal/core/domain"
)

const collectionAudit = "audit_events"

// AuditRepository implements ports.AuditRepository on a MongoDB collection.
type AuditRepository struct {
	col *mongo.Collection
}

func NewAuditRepository(db *mongo.Database) *AuditRepository {
	return &AuditRepository{col: db.Collection(collectionAudit)}
}

// Record inserts one audit event.
func (r *AuditRepository) Record(ctx context.Context, event domain.AuditEvent) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	if _, err := r.col.InsertOne(ctx, event); err != nil {
		return fmt.Errorf("insert audit event: %w", err)
	}
	return nil
}

// List returns the tenant's events, newest first.
func (r *AuditRepository) List(ctx context.Context, tenantID int64, filter domain.AuditFilter, page domain.Page) ([]domain.AuditEvent, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	query := bson.M{"tenant_id": tenantID}
	if filter.Entity != "" {
		query["entity"] = filter.Entity
	}

	total, err := r.col.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("count audit events: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "at", Value: -1}}).
		SetSkip(int64(page.Offset())).
		SetLimit(int64(page.Limit))

	cur, err := r.col.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("find audit events: %w", err)
	}
	defer cur.Close(ctx)

	events := make([]domain.AuditEvent, 0, page.Limit)
	if err := cur.All(ctx, &events); err != nil {
		return nil, 0, fmt.Errorf("decode audit events: %w", err)
	}
	return events, total, nil
}

// EnsureIndexes creates the indexes List relies on.
func (r *AuditRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "tenant_id", Value: 1}, {Key: "at", Value: -1}}},
		{Keys: bson.D{{Key: "tenant_id", Value: 1}, {Key: "entity", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
