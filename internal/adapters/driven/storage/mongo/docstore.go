// Package mongo stores document records in MongoDB.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/custodia-labs/lexrag/internal/core/domain"
	"github.com/custodia-labs/lexrag/internal/core/ports/driven"
)

// Ensure DocumentStore implements the interface.
var _ driven.DocumentStore = (*DocumentStore)(nil)

// Collection holds one document per uploaded file.
const Collection = "documents"

// documentModel is the stored shape of a record.
// Summaries are top-level fields so each can be set without rewriting the record.
type documentModel struct {
	ID              string    `bson:"_id"`
	Filename        string    `bson:"filename"`
	SourcePath      string    `bson:"file_path"`
	CaseID          string    `bson:"case_id,omitempty"`
	UploadedAt      time.Time `bson:"upload_date"`
	SummaryBrief    string    `bson:"summary_brief,omitempty"`
	SummaryDetailed string    `bson:"summary_detailed,omitempty"`
	SummaryKeyPts   string    `bson:"summary_key_points,omitempty"`
}

// DocumentStore implements driven.DocumentStore on a MongoDB collection.
type DocumentStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// Connect opens a client for uri and verifies it with a ping.
func Connect(ctx context.Context, uri, database string) (*DocumentStore, error) {
	if uri == "" || database == "" {
		return nil, fmt.Errorf("%w: mongo uri and database are required", domain.ErrInvalidInput)
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connecting to mongo: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping failed: %w", err)
	}

	return &DocumentStore{
		client: client,
		coll:   client.Database(database).Collection(Collection),
	}, nil
}

// Close disconnects the client.
func (s *DocumentStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// Save stores or replaces a record.
func (s *DocumentStore) Save(ctx context.Context, record *domain.DocumentRecord) error {
	if record == nil || record.ID == "" {
		return fmt.Errorf("%w: document record requires an id", domain.ErrInvalidInput)
	}

	_, err := s.coll.ReplaceOne(ctx,
		bson.M{"_id": record.ID},
		toModel(record),
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("saving document: %w", err)
	}
	return nil
}

// Get retrieves a record by ID.
func (s *DocumentStore) Get(ctx context.Context, id string) (*domain.DocumentRecord, error) {
	var m documentModel
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&m)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting document: %w", err)
	}
	return fromModel(m), nil
}

// List returns records newest first, filtered by case when caseID is non-empty.
func (s *DocumentStore) List(ctx context.Context, caseID string) ([]domain.DocumentRecord, error) {
	cur, err := s.coll.Find(ctx, listFilter(caseID),
		options.Find().SetSort(bson.D{{Key: "upload_date", Value: -1}, {Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("listing documents: %w", err)
	}
	defer cur.Close(ctx)

	var models []documentModel
	if err := cur.All(ctx, &models); err != nil {
		return nil, fmt.Errorf("decoding documents: %w", err)
	}

	records := make([]domain.DocumentRecord, 0, len(models))
	for _, m := range models {
		records = append(records, *fromModel(m))
	}
	return records, nil
}

// Delete removes a record.
func (s *DocumentStore) Delete(ctx context.Context, id string) error {
	if _, err := s.coll.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return fmt.Errorf("deleting document: %w", err)
	}
	return nil
}

// SetSummary caches a summary on the record.
func (s *DocumentStore) SetSummary(ctx context.Context, id string, summaryType domain.SummaryType, summary string) error {
	if !summaryType.IsValid() {
		return fmt.Errorf("%w: %q", domain.ErrInvalidSummaryType, summaryType)
	}

	res, err := s.coll.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{summaryType.CacheField(): summary}},
	)
	if err != nil {
		return fmt.Errorf("caching summary: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ClearSummaries drops every cached summary of the record.
func (s *DocumentStore) ClearSummaries(ctx context.Context, id string) error {
	_, err := s.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$unset": summaryFields()})
	if err != nil {
		return fmt.Errorf("clearing summaries: %w", err)
	}
	return nil
}

func listFilter(caseID string) bson.M {
	if caseID == "" {
		return bson.M{}
	}
	return bson.M{"case_id": caseID}
}

func summaryFields() bson.M {
	fields := bson.M{}
	for _, t := range domain.SummaryTypes() {
		fields[t.CacheField()] = ""
	}
	return fields
}

func toModel(r *domain.DocumentRecord) documentModel {
	m := documentModel{
		ID:         r.ID,
		Filename:   r.Filename,
		SourcePath: r.SourcePath,
		CaseID:     r.CaseID,
		UploadedAt: r.UploadedAt.UTC(),
	}
	m.SummaryBrief, _ = r.Summary(domain.SummaryBrief)
	m.SummaryDetailed, _ = r.Summary(domain.SummaryDetailed)
	m.SummaryKeyPts, _ = r.Summary(domain.SummaryKeyPoints)
	return m
}

func fromModel(m documentModel) *domain.DocumentRecord {
	r := &domain.DocumentRecord{
		ID:         m.ID,
		Filename:   m.Filename,
		SourcePath: m.SourcePath,
		CaseID:     m.CaseID,
		UploadedAt: m.UploadedAt,
	}
	for t, s := range map[domain.SummaryType]string{
		domain.SummaryBrief:     m.SummaryBrief,
		domain.SummaryDetailed:  m.SummaryDetailed,
		domain.SummaryKeyPoints: m.SummaryKeyPts,
	} {
		if s == "" {
			continue
		}
		if r.Summaries == nil {
			r.Summaries = make(map[domain.SummaryType]string)
		}
		r.Summaries[t] = s
	}
	return r
}
