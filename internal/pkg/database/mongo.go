package database

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	AttendanceCollection = "attendances"
	AdminCollection      = "admins"
)

type Mongo struct {
	Client *mongo.Client
	DB     *mongo.Database
}

func NewMongo(ctx context.Context, uri string, dbName string) (*Mongo, error) {
	connectCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	clientOpts := options.Client().ApplyURI(uri)
	clientOpts.SetMinPoolSize(5)
	clientOpts.SetMaxPoolSize(25)

	client, err := mongo.Connect(connectCtx, clientOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	if err := client.Ping(connectCtx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	m := &Mongo{
		Client: client,
		DB:     client.Database(dbName),
	}

	if err := m.ensureIndexes(connectCtx); err != nil {
		return nil, fmt.Errorf("failed to set up indexes: %w", err)
	}

	return m, nil
}

func (m *Mongo) Attendances() *mongo.Collection {
	return m.DB.Collection(AttendanceCollection)
}

func (m *Mongo) Admins() *mongo.Collection {
	return m.DB.Collection(AdminCollection)
}

func (m *Mongo) Ping(ctx context.Context) error {
	return m.Client.Ping(ctx, nil)
}

func (m *Mongo) Close(ctx context.Context) error {
	return m.Client.Disconnect(ctx)
}

// ensureIndexes creates the query indexes the read paths depend on: last
// ENTRY lookups and newest-first scans per subject.
func (m *Mongo) ensureIndexes(ctx context.Context) error {
	_, err := m.Attendances().Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}, {Key: "timestamp", Value: -1}}},
		{Keys: bson.D{{Key: "type", Value: 1}, {Key: "timestamp", Value: -1}}},
		{Keys: bson.D{{Key: "email", Value: 1}, {Key: "type", Value: 1}, {Key: "timestamp", Value: -1}}},
	})
	if err != nil {
		return err
	}

	_, err = m.Admins().Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "username", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}
