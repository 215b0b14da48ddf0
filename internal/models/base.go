package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Base carries the store-assigned fields shared by every persisted entity.
type Base struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

func (b *Base) SetID(id primitive.ObjectID) {
	b.ID = id
}

func (b *Base) Stamp(now time.Time) {
	if b.CreatedAt.IsZero() {
		b.CreatedAt = now
	}
	b.UpdatedAt = now
}
