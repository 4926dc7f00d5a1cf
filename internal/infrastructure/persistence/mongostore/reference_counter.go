package mongostore

import (
	"context"
	"strings"

	"github.com/erp/ledger/internal/domain/shared"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// ReferenceCounter counts dependent documents, one query per rule. Rules
// on embedded lines ("items.unit_id") count the matching lines, so the
// numbers agree with the relational line tables.
type ReferenceCounter struct {
	store *Store
}

// NewReferenceCounter creates a new ReferenceCounter
func NewReferenceCounter(s *Store) *ReferenceCounter {
	return &ReferenceCounter{store: s}
}

// CountReferences returns a Reference for each rule with matching documents
func (c *ReferenceCounter) CountReferences(ctx context.Context, id uuid.UUID, rules []shared.ReferenceRule) ([]shared.Reference, error) {
	var refs []shared.Reference
	for _, rule := range rules {
		coll := c.store.db.Collection(rule.DocumentCollection())
		field := rule.DocumentField()

		var (
			count int64
			err   error
		)
		if array, _, embedded := strings.Cut(field, "."); embedded {
			count, err = countEmbedded(ctx, coll, array, field, id.String())
		} else {
			count, err = coll.CountDocuments(ctx, bson.M{field: id.String()})
		}
		if err != nil {
			return nil, err
		}
		if count > 0 {
			refs = append(refs, shared.Reference{Resource: rule.Table, Label: rule.Label, Count: count})
		}
	}
	return refs, nil
}

// countEmbedded counts the elements of array whose field equals value
func countEmbedded(ctx context.Context, coll *mongo.Collection, array, field, value string) (int64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{field: value}}},
		{{Key: "$unwind", Value: "$" + array}},
		{{Key: "$match", Value: bson.M{field: value}}},
		{{Key: "$count", Value: "n"}},
	}
	cur, err := coll.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, err
	}
	var rows []struct {
		N int64 `bson:"n"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 0, nil
	}
	return rows[0].N, nil
}

var _ shared.ReferenceCounter = (*ReferenceCounter)(nil)
