package store

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/carebridge/hospital-api/internal/observability"
)

// document constrains a repo's entity to something carrying the shared
// store-assigned fields (models.Base).
type document[T any] interface {
	*T
	SetID(primitive.ObjectID)
	Stamp(now time.Time)
}

// Repo is the one CRUD service shared by every plain resource collection.
// Resources that resolve reference fields on read pass their $lookup stages
// as a populate pipeline; everything else passes nil.
type Repo[T any, PT document[T]] struct {
	coll     *mongo.Collection
	populate mongo.Pipeline
	prom     *observability.Prom
}

func NewRepo[T any, PT document[T]](db *mongo.Database, collection string, populate mongo.Pipeline, prom *observability.Prom) *Repo[T, PT] {
	return &Repo[T, PT]{
		coll:     db.Collection(collection),
		populate: populate,
		prom:     prom,
	}
}

func (r *Repo[T, PT]) observe(op string, fn func() error) error {
	if r.prom == nil {
		return fn()
	}
	return r.prom.ObserveStore(r.coll.Name()+"."+op, fn)
}

func (r *Repo[T, PT]) Create(ctx context.Context, doc T) (T, error) {
	PT(&doc).Stamp(time.Now().UTC())

	err := r.observe("insert", func() error {
		res, err := r.coll.InsertOne(ctx, doc)

		if err != nil {
			return err
		}

		if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
			PT(&doc).SetID(oid)
		}
		return nil
	})

	if err != nil {
		var zero T
		return zero, err
	}

	return doc, nil
}

// List returns every record, newest first.
func (r *Repo[T, PT]) List(ctx context.Context) ([]T, error) {
	out := []T{}

	err := r.observe("list", func() error {
		sort := bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}

		var (
			cur *mongo.Cursor
			err error
		)

		if len(r.populate) > 0 {
			pipeline := append(mongo.Pipeline{bson.D{{Key: "$sort", Value: sort}}}, r.populate...)
			cur, err = r.coll.Aggregate(ctx, pipeline)
		} else {
			cur, err = r.coll.Find(ctx, bson.M{}, options.Find().SetSort(sort))
		}

		if err != nil {
			return err
		}

		return cur.All(ctx, &out)
	})

	if err != nil {
		return nil, err
	}

	return out, nil
}

func (r *Repo[T, PT]) GetByID(ctx context.Context, id primitive.ObjectID) (T, error) {
	var doc T

	err := r.observe("get", func() error {
		if len(r.populate) > 0 {
			pipeline := append(mongo.Pipeline{bson.D{{Key: "$match", Value: bson.M{"_id": id}}}}, r.populate...)

			cur, err := r.coll.Aggregate(ctx, pipeline)

			if err != nil {
				return err
			}

			var docs []T
			if err := cur.All(ctx, &docs); err != nil {
				return err
			}

			if len(docs) == 0 {
				return ErrNotFound
			}

			doc = docs[0]
			return nil
		}

		err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)

		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrNotFound
		}

		return err
	})

	if err != nil {
		var zero T
		return zero, err
	}

	return doc, nil
}

// Update replaces the record's fields with the incoming document, keeping the
// store-assigned id and createdAt. Optional fields the incoming document
// omits are cleared, not left at their old values. Last write wins; there is
// no concurrency check.
func (r *Repo[T, PT]) Update(ctx context.Context, id primitive.ObjectID, doc T) (T, error) {
	var updated T

	err := r.observe("update", func() error {
		pipeline, err := replacementPipeline(doc)

		if err != nil {
			return err
		}

		res := r.coll.FindOneAndUpdate(
			ctx,
			bson.M{"_id": id},
			pipeline,
			options.FindOneAndUpdate().SetReturnDocument(options.After),
		)

		err = res.Decode(&updated)

		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrNotFound
		}

		return err
	})

	if err != nil {
		var zero T
		return zero, err
	}

	return updated, nil
}

func (r *Repo[T, PT]) Delete(ctx context.Context, id primitive.ObjectID) error {
	return r.observe("delete", func() error {
		res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})

		if err != nil {
			return err
		}

		if res.DeletedCount == 0 {
			return ErrNotFound
		}

		return nil
	})
}

// replacementPipeline builds the update pipeline rebuilding the stored record
// from the incoming document. $replaceWith discards every stored field except
// the carried-over _id and createdAt, so a field absent from the incoming
// document ends up absent in the record.
func replacementPipeline(doc any) (mongo.Pipeline, error) {
	raw, err := bson.Marshal(doc)

	if err != nil {
		return nil, err
	}

	var fields bson.M

	if err := bson.Unmarshal(raw, &fields); err != nil {
		return nil, err
	}

	delete(fields, "_id")
	delete(fields, "createdAt")
	fields["updatedAt"] = time.Now().UTC()

	return mongo.Pipeline{
		bson.D{{Key: "$replaceWith", Value: bson.D{{Key: "$mergeObjects", Value: bson.A{
			bson.D{{Key: "_id", Value: "$_id"}, {Key: "createdAt", Value: "$createdAt"}},
			fields,
		}}}}},
	}, nil
}

// Lookup builds the populate stages resolving a stored reference id into an
// embedded snapshot of the referenced record. A reference to a missing record
// leaves the snapshot field null rather than dropping the document.
func Lookup(from, localField, as string) mongo.Pipeline {
	return mongo.Pipeline{
		bson.D{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: from},
			{Key: "localField", Value: localField},
			{Key: "foreignField", Value: "_id"},
			{Key: "as", Value: as},
		}}},
		bson.D{{Key: "$unwind", Value: bson.D{
			{Key: "path", Value: "$" + as},
			{Key: "preserveNullAndEmptyArrays", Value: true},
		}}},
	}
}

// Join concatenates populate pipelines for resources with more than one
// reference field.
func Join(pipelines ...mongo.Pipeline) mongo.Pipeline {
	var out mongo.Pipeline
	for _, p := range pipelines {
		out = append(out, p...)
	}
	return out
}
