package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/phototrack/attendance-backend-go/internal/domain/admin"
	"github.com/phototrack/attendance-backend-go/internal/pkg/database"
)

type adminRepository struct {
	db *database.Mongo
}

func NewAdminRepository(db *database.Mongo) admin.Repository {
	return &adminRepository{db: db}
}

type adminDocument struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Username     string             `bson:"username"`
	PasswordHash string             `bson:"password"`
	Email        string             `bson:"email"`
	Role         string             `bson:"role"`
	CreatedAt    time.Time          `bson:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt"`
}

func (d adminDocument) toAdmin() admin.Admin {
	return admin.Admin{
		ID:           d.ID.Hex(),
		Username:     d.Username,
		PasswordHash: d.PasswordHash,
		Email:        d.Email,
		Role:         d.Role,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
}

// FindByUsername implements admin.Repository.
func (a *adminRepository) FindByUsername(ctx context.Context, username string) (admin.Admin, error) {
	var doc adminDocument
	err := a.db.Admins().FindOne(ctx, bson.M{"username": username}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return admin.Admin{}, admin.ErrAdminNotFound
		}
		return admin.Admin{}, fmt.Errorf("failed to find admin: %w", err)
	}
	return doc.toAdmin(), nil
}

// Create implements admin.Repository.
func (a *adminRepository) Create(ctx context.Context, adm admin.Admin) (admin.Admin, error) {
	now := time.Now().UTC()
	doc := adminDocument{
		Username:     adm.Username,
		PasswordHash: adm.PasswordHash,
		Email:        adm.Email,
		Role:         adm.Role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	result, err := a.db.Admins().InsertOne(ctx, doc)
	if err != nil {
		return admin.Admin{}, fmt.Errorf("failed to insert admin: %w", err)
	}

	oid, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return admin.Admin{}, fmt.Errorf("unexpected inserted id type %T", result.InsertedID)
	}

	doc.ID = oid
	return doc.toAdmin(), nil
}
