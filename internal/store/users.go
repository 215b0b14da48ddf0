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

// UsersRepo is the credential store. Email uniqueness is enforced by the
// collection's unique index (see db.EnsureIndexes).
type UsersRepo struct {
	coll *mongo.Collection
	prom *observability.Prom
}

func NewUsersRepo(db *mongo.Database, prom *observability.Prom) *UsersRepo {
	return &UsersRepo{
		coll: db.Collection("users"),
		prom: prom,
	}
}

func (r *UsersRepo) observe(op string, fn func() error) error {
	if r.prom == nil {
		return fn()
	}
	return r.prom.ObserveStore("users."+op, fn)
}

func (r *UsersRepo) Create(ctx context.Context, u models.User) (models.User, error) {
	u.Stamp(time.Now().UTC())

	err := r.observe("insert", func() error {
		res, err := r.coll.InsertOne(ctx, u)

		if err != nil {
			if mongo.IsDuplicateKeyError(err) {
				return ErrEmailTaken
			}
			return err
		}

		if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
			u.SetID(oid)
		}
		return nil
	})

	if err != nil {
		return models.User{}, err
	}

	return u, nil
}

func (r *UsersRepo) GetByEmail(ctx context.Context, email string) (models.User, error) {
	var u models.User

	err := r.observe("get_by_email", func() error {
		err := r.coll.FindOne(ctx, bson.M{"email": email}).Decode(&u)

		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrNotFound
		}
		return err
	})

	if err != nil {
		return models.User{}, err
	}

	return u, nil
}

func (r *UsersRepo) GetByID(ctx context.Context, id primitive.ObjectID) (models.User, error) {
	var u models.User

	err := r.observe("get", func() error {
		err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&u)

		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrNotFound
		}
		return err
	})

	if err != nil {
		return models.User{}, err
	}

	return u, nil
}

func (r *UsersRepo) UpdateProfile(ctx context.Context, id primitive.ObjectID, req models.UpdateProfileRequest) (models.User, error) {
	var u models.User

	err := r.observe("update_profile", func() error {
		res := r.coll.FindOneAndUpdate(
			ctx,
			bson.M{"_id": id},
			bson.M{"$set": bson.M{
				"name":      req.Name,
				"email":     req.Email,
				"phone":     req.Phone,
				"updatedAt": time.Now().UTC(),
			}},
			options.FindOneAndUpdate().SetReturnDocument(options.After),
		)

		err := res.Decode(&u)

		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrNotFound
		}
		if err != nil && mongo.IsDuplicateKeyError(err) {
			return ErrEmailTaken
		}
		return err
	})

	if err != nil {
		return models.User{}, err
	}

	return u, nil
}

func (r *UsersRepo) SetAvatar(ctx context.Context, id primitive.ObjectID, path string) (models.User, error) {
	var u models.User

	err := r.observe("set_avatar", func() error {
		res := r.coll.FindOneAndUpdate(
			ctx,
			bson.M{"_id": id},
			bson.M{"$set": bson.M{
				"avatar":    path,
				"updatedAt": time.Now().UTC(),
			}},
			options.FindOneAndUpdate().SetReturnDocument(options.After),
		)

		err := res.Decode(&u)

		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrNotFound
		}
		return err
	})

	if err != nil {
		return models.User{}, err
	}

	return u, nil
}
