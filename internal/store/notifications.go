package store

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/carebridge/hospital-api/internal/models"
	"github.com/carebridge/hospital-api/internal/observability"
)

// NotificationsRepo scopes every operation to the owning user; a caller can
// never read or mutate another user's notifications.
type NotificationsRepo struct {
	coll *mongo.Collection
	prom *observability.Prom
}

func NewNotificationsRepo(db *mongo.Database, prom *observability.Prom) *NotificationsRepo {
	return &NotificationsRepo{
		coll: db.Collection("notifications"),
		prom: prom,
	}
}

func (r *NotificationsRepo) observe(op string, fn func() error) error {
	if r.prom == nil {
		return fn()
	}
	return r.prom.ObserveStore("notifications."+op, fn)
}

func (r *NotificationsRepo) ListForUser(ctx context.Context, userID primitive.ObjectID) ([]models.Notification, error) {
	out := []models.Notification{}

	err := r.observe("list", func() error {
		cur, err := r.coll.Find(
			ctx,
			bson.M{"userId": userID},
			options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}),
		)

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

func (r *NotificationsRepo) Create(ctx context.Context, n models.Notification) (models.Notification, error) {
	n.Stamp(time.Now().UTC())

	err := r.observe("insert", func() error {
		res, err := r.coll.InsertOne(ctx, n)

		if err != nil {
			return err
		}

		if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
			n.SetID(oid)
		}
		return nil
	})

	if err != nil {
		return models.Notification{}, err
	}

	return n, nil
}

func (r *NotificationsRepo) MarkRead(ctx context.Context, id, userID primitive.ObjectID) (models.Notification, error) {
	var n models.Notification

	err := r.observe("mark_read", func() error {
		res := r.coll.FindOneAndUpdate(
			ctx,
			bson.M{"_id": id, "userId": userID},
			bson.M{"$set": bson.M{"read": true, "updatedAt": time.Now().UTC()}},
			options.FindOneAndUpdate().SetReturnDocument(options.After),
		)

		err := res.Decode(&n)

		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrNotFound
		}
		return err
	})

	if err != nil {
		return models.Notification{}, err
	}

	return n, nil
}
