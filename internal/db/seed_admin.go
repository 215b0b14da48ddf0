package db

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/carebridge/hospital-api/internal/config"
	"github.com/carebridge/hospital-api/internal/models"
	"github.com/carebridge/hospital-api/internal/security"
)

// EnsureAdminUser seeds the one admin account from env on boot. Admin is not
// a self-serve role, so this is the only way a fresh deployment gets one.
func EnsureAdminUser(ctx context.Context, database *mongo.Database, cfg config.Config) error {
	if cfg.AdminEmail == "" || cfg.AdminPassword == "" {
		return nil
	}

	users := database.Collection("users")

	err := users.FindOne(ctx, bson.M{"email": cfg.AdminEmail}).Err()

	if err == nil {
		return nil
	}

	if !errors.Is(err, mongo.ErrNoDocuments) {
		return err
	}

	hash, err := security.HashPassword(cfg.AdminPassword)

	if err != nil {
		return err
	}

	u := models.User{
		Name:         cfg.AdminName,
		Email:        cfg.AdminEmail,
		PasswordHash: hash,
		Role:         models.RoleAdmin,
	}
	u.Stamp(time.Now().UTC())

	_, err = users.InsertOne(ctx, u)

	return err
}
