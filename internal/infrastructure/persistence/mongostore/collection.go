package mongostore

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"github.com/erp/ledger/internal/domain/shared"
	"github.com/erp/ledger/internal/infrastructure/persistence"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// collectionOptions configures listing for one collection. Field names
// equal the relational column names.
type collectionOptions struct {
	resource     string
	searchFields []string
	filterFields map[string]bool
	sortFields   map[string]bool
	defaultSort  string
}

// tenantCollection implements shared.TenantRepository for any
// company-scoped document
type tenantCollection[D any, T any, PT document[D, T]] struct {
	coll *mongo.Collection
	opts collectionOptions
}

func newTenantCollection[D any, T any, PT document[D, T]](coll *mongo.Collection, opts collectionOptions) tenantCollection[D, T, PT] {
	if opts.sortFields == nil {
		opts.sortFields = persistence.CodeSortFields
	}
	if opts.defaultSort == "" {
		opts.defaultSort = "code"
	}
	return tenantCollection[D, T, PT]{coll: coll, opts: opts}
}

func byID(id uuid.UUID) bson.M {
	return bson.M{"_id": id.String()}
}

func byCompany(companyID uuid.UUID) bson.M {
	return bson.M{"company_id": companyID.String()}
}

// FindByID finds a document by its ID
func (c *tenantCollection[D, T, PT]) FindByID(ctx context.Context, id uuid.UUID) (*D, error) {
	var doc T
	if err := c.coll.FindOne(ctx, byID(id)).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, shared.NotFound(c.opts.resource)
		}
		return nil, err
	}
	return PT(&doc).toDomain(), nil
}

// FindAllForCompany returns one page of a company's documents and the total
func (c *tenantCollection[D, T, PT]) FindAllForCompany(ctx context.Context, companyID uuid.UUID, filter shared.Filter) ([]D, int64, error) {
	return c.page(ctx, byCompany(companyID), filter)
}

func (c *tenantCollection[D, T, PT]) page(ctx context.Context, base bson.M, filter shared.Filter) ([]D, int64, error) {
	filter = filter.Normalize()
	query := listFilter(base, filter, c.opts.searchFields, c.opts.filterFields)

	total, err := c.coll.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, err
	}

	findOpts := options.Find().
		SetSort(sortSpec(filter, c.opts.sortFields, c.opts.defaultSort)).
		SetSkip(int64(filter.Offset())).
		SetLimit(int64(filter.PageSize))
	cur, err := c.coll.Find(ctx, query, findOpts)
	if err != nil {
		return nil, 0, err
	}
	var docs []T
	if err := cur.All(ctx, &docs); err != nil {
		return nil, 0, err
	}

	out := make([]D, len(docs))
	for i := range docs {
		out[i] = *PT(&docs[i]).toDomain()
	}
	return out, total, nil
}

// listFilter adds the search and the whitelisted equality filters to base
func listFilter(base bson.M, filter shared.Filter, searchFields []string, filterFields map[string]bool) bson.M {
	query := bson.M{}
	for k, v := range base {
		query[k] = v
	}
	if search := strings.TrimSpace(filter.Search); search != "" && len(searchFields) > 0 {
		pattern := primitive.Regex{Pattern: regexp.QuoteMeta(search), Options: "i"}
		or := make(bson.A, len(searchFields))
		for i, field := range searchFields {
			or[i] = bson.M{field: pattern}
		}
		query["$or"] = or
	}
	for key, value := range filter.Filters {
		if !filterFields[key] {
			continue
		}
		switch v := value.(type) {
		case uuid.UUID:
			query[key] = v.String()
		case *uuid.UUID:
			if v != nil {
				query[key] = v.String()
			}
		default:
			query[key] = v
		}
	}
	return query
}

// sortSpec orders by the whitelisted field, then by _id for stable pages
func sortSpec(filter shared.Filter, allowed map[string]bool, defaultField string) bson.D {
	field := persistence.ValidateSortField(filter.OrderBy, allowed, defaultField)
	if field == "id" {
		field = "_id"
	}
	dir := 1
	if persistence.ValidateSortOrder(filter.OrderDir) == "DESC" {
		dir = -1
	}
	if field == "_id" {
		return bson.D{{Key: "_id", Value: dir}}
	}
	return bson.D{{Key: field, Value: dir}, {Key: "_id", Value: 1}}
}

// Create inserts a new document. Duplicates surface as ALREADY_EXISTS.
func (c *tenantCollection[D, T, PT]) Create(ctx context.Context, entity *D) error {
	doc := PT(new(T))
	doc.fromDomain(entity)
	_, err := c.coll.InsertOne(ctx, doc)
	return translateWriteError(err, c.opts.resource)
}

// Update replaces the document when the stored version is one behind
func (c *tenantCollection[D, T, PT]) Update(ctx context.Context, entity *D) error {
	doc := PT(new(T))
	doc.fromDomain(entity)
	return replaceWithLock(ctx, c.coll, doc, c.opts.resource)
}

// Delete removes a document by ID
func (c *tenantCollection[D, T, PT]) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := c.coll.DeleteOne(ctx, byID(id))
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return shared.NotFound(c.opts.resource)
	}
	return nil
}

type lockable interface {
	lockKey() (string, int)
}

// replaceWithLock swaps the document only while its version is unchanged
func replaceWithLock(ctx context.Context, coll *mongo.Collection, doc lockable, resource string) error {
	id, version := doc.lockKey()
	res, err := coll.ReplaceOne(ctx, bson.M{"_id": id, "version": version - 1}, doc)
	if err != nil {
		return translateWriteError(err, resource)
	}
	if res.MatchedCount == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// translateWriteError maps a duplicate key to ALREADY_EXISTS
func translateWriteError(err error, resource string) error {
	if err == nil {
		return nil
	}
	if mongo.IsDuplicateKeyError(err) {
		return shared.AlreadyExists(resource)
	}
	return err
}
