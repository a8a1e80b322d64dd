package database

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"storefront-backend/logger"
	"storefront-backend/models"
)

var DB *mongo.Database

// ConnectDB opens the Mongo connection and pings it. The database
// handle is process-wide; the driver owns pooling.
func ConnectDB(uri, dbName string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return err
	}

	if err := client.Ping(ctx, nil); err != nil {
		return err
	}

	DB = client.Database(dbName)
	logger.L.Info("connected to mongodb", zap.String("database", dbName))
	return nil
}

func Users() *mongo.Collection    { return DB.Collection("users") }
func Products() *mongo.Collection { return DB.Collection("products") }
func Orders() *mongo.Collection   { return DB.Collection("orders") }

// ProductsByID batch-fetches products for a set of ids and returns them
// keyed by id. This is the read-side join step: callers fetch the
// primary document, collect its references, and merge display fields
// from the map.
func ProductsByID(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.Product, error) {
	out := make(map[primitive.ObjectID]models.Product, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	cursor, err := Products().Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	for cursor.Next(ctx) {
		var p models.Product
		if err := cursor.Decode(&p); err != nil {
			return nil, err
		}
		out[p.ID] = p
	}
	return out, cursor.Err()
}

// UsersByID batch-fetches users keyed by id, passwords excluded.
func UsersByID(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.User, error) {
	out := make(map[primitive.ObjectID]models.User, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	opts := options.Find().SetProjection(bson.M{"password": 0})
	cursor, err := Users().Find(ctx, bson.M{"_id": bson.M{"$in": ids}}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	for cursor.Next(ctx) {
		var u models.User
		if err := cursor.Decode(&u); err != nil {
			return nil, err
		}
		out[u.ID] = u
	}
	return out, cursor.Err()
}
