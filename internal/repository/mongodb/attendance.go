package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/phototrack/attendance-backend-go/internal/domain/attendance"
	"github.com/phototrack/attendance-backend-go/internal/pkg/database"
)

type attendanceRepository struct {
	db *database.Mongo
}

func NewAttendanceRepository(db *database.Mongo) attendance.Repository {
	return &attendanceRepository{db: db}
}

// attendanceDocument is the persisted shape of a record. The field names are
// part of the stored data contract and must not change.
type attendanceDocument struct {
	ID              primitive.ObjectID `bson:"_id,omitempty"`
	Name            string             `bson:"name"`
	Email           string             `bson:"email"`
	Image           string             `bson:"image"`
	ImagePath       string             `bson:"imagePath"`
	Kind            string             `bson:"type"`
	Timestamp       time.Time          `bson:"timestamp"`
	DurationSeconds *int64             `bson:"duration,omitempty"`
	CreatedAt       time.Time          `bson:"createdAt"`
	UpdatedAt       time.Time          `bson:"updatedAt"`
}

func (d attendanceDocument) toRecord() attendance.Record {
	return attendance.Record{
		ID:              d.ID.Hex(),
		Name:            d.Name,
		Email:           d.Email,
		Image:           d.Image,
		ImagePath:       d.ImagePath,
		Kind:            attendance.Kind(d.Kind),
		Timestamp:       d.Timestamp,
		DurationSeconds: d.DurationSeconds,
		CreatedAt:       d.CreatedAt,
		UpdatedAt:       d.UpdatedAt,
	}
}

// Create implements attendance.Repository.
func (a *attendanceRepository) Create(ctx context.Context, rec attendance.Record) (attendance.Record, error) {
	now := time.Now().UTC()
	doc := attendanceDocument{
		Name:            rec.Name,
		Email:           rec.Email,
		Image:           rec.Image,
		ImagePath:       rec.ImagePath,
		Kind:            string(rec.Kind),
		Timestamp:       rec.Timestamp,
		DurationSeconds: rec.DurationSeconds,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	result, err := a.db.Attendances().InsertOne(ctx, doc)
	if err != nil {
		return attendance.Record{}, fmt.Errorf("failed to insert attendance record: %w", err)
	}

	oid, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return attendance.Record{}, fmt.Errorf("unexpected inserted id type %T", result.InsertedID)
	}

	doc.ID = oid
	return doc.toRecord(), nil
}

// FindLastEntry implements attendance.Repository.
func (a *attendanceRepository) FindLastEntry(ctx context.Context, email string) (*attendance.Record, error) {
	filter := bson.M{
		"email": email,
		"type":  string(attendance.KindEntry),
	}
	opts := options.FindOne().SetSort(bson.D{{Key: "timestamp", Value: -1}})

	var doc attendanceDocument
	err := a.db.Attendances().FindOne(ctx, filter, opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find last entry: %w", err)
	}

	rec := doc.toRecord()
	return &rec, nil
}

// List implements attendance.Repository.
func (a *attendanceRepository) List(ctx context.Context, f attendance.HistoryFilter, limit int64) ([]attendance.Record, error) {
	filter := bson.M{}
	if f.Email != nil {
		filter["email"] = *f.Email
	}
	if f.Kind != nil {
		filter["type"] = string(*f.Kind)
	}
	if start, end, ok := f.Range(); ok {
		filter["timestamp"] = bson.M{"$gte": start, "$lte": end}
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "timestamp", Value: -1}}).
		SetLimit(limit)

	return a.find(ctx, filter, opts)
}

// ListAll implements attendance.Repository.
func (a *attendanceRepository) ListAll(ctx context.Context, email *string) ([]attendance.Record, error) {
	filter := bson.M{}
	if email != nil {
		filter["email"] = *email
	}

	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}})
	return a.find(ctx, filter, opts)
}

func (a *attendanceRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]attendance.Record, error) {
	cursor, err := a.db.Attendances().Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query attendance records: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []attendanceDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode attendance records: %w", err)
	}

	records := make([]attendance.Record, 0, len(docs))
	for _, doc := range docs {
		records = append(records, doc.toRecord())
	}
	return records, nil
}

// CountByKind implements attendance.Repository.
func (a *attendanceRepository) CountByKind(ctx context.Context, kind attendance.Kind) (int64, error) {
	n, err := a.db.Attendances().CountDocuments(ctx, bson.M{"type": string(kind)})
	if err != nil {
		return 0, fmt.Errorf("failed to count %s records: %w", kind, err)
	}
	return n, nil
}

// DistinctSubjects implements attendance.Repository.
func (a *attendanceRepository) DistinctSubjects(ctx context.Context) (int64, error) {
	emails, err := a.db.Attendances().Distinct(ctx, "email", bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to collect distinct subjects: %w", err)
	}
	return int64(len(emails)), nil
}

// CompletedDurations implements attendance.Repository.
func (a *attendanceRepository) CompletedDurations(ctx context.Context) ([]int64, error) {
	filter := bson.M{"duration": bson.M{"$exists": true, "$ne": nil}}
	opts := options.Find().SetProjection(bson.M{"duration": 1})

	cursor, err := a.db.Attendances().Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query durations: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []struct {
		DurationSeconds *int64 `bson:"duration"`
	}
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode durations: %w", err)
	}

	durations := make([]int64, 0, len(docs))
	for _, doc := range docs {
		if doc.DurationSeconds != nil {
			durations = append(durations, *doc.DurationSeconds)
		}
	}
	return durations, nil
}
