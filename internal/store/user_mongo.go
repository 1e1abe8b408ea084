package store

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/exercise-tracker/apiserver/types"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	usersCollection    = "users"
	countersCollection = "counters"
	userCounterID      = "users"
)

// userDocument is the stored shape of a user. Seq mirrors the numeric id so
// listings can sort numerically.
type userDocument struct {
	ID       string           `bson:"_id"`
	Seq      int64            `bson:"seq"`
	Username string           `bson:"username"`
	Count    int              `bson:"count"`
	Log      []types.Exercise `bson:"log"`
}

type counterDocument struct {
	ID  string `bson:"_id"`
	Seq int64  `bson:"seq"`
}

// MongoUserRepository handles persistence for users in MongoDB, one
// document per user with the log embedded.
type MongoUserRepository struct {
	client   *mongo.Client
	users    *mongo.Collection
	counters *mongo.Collection
}

func NewMongoUserRepository(client *mongo.Client, database string) *MongoUserRepository {
	db := client.Database(database)
	return &MongoUserRepository{
		client:   client,
		users:    db.Collection(usersCollection),
		counters: db.Collection(countersCollection),
	}
}

func (r *MongoUserRepository) Count(ctx context.Context) (int, error) {
	total, err := r.users.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return int(total), nil
}

func (r *MongoUserRepository) List(ctx context.Context) ([]types.User, error) {
	cursor, err := r.users.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "seq", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []userDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	users := make([]types.User, 0, len(docs))
	for _, doc := range docs {
		users = append(users, doc.toUser())
	}
	return users, nil
}

func (r *MongoUserRepository) GetByID(ctx context.Context, id string) (types.User, error) {
	var doc userDocument
	err := r.users.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return types.User{}, ErrNotFound
		}
		return types.User{}, fmt.Errorf("get user: %w", err)
	}
	return doc.toUser(), nil
}

// Create takes the next value of the users counter with an atomic $inc and
// inserts the user under it.
func (r *MongoUserRepository) Create(ctx context.Context, user types.User) (types.User, error) {
	seq, err := r.nextSeq(ctx)
	if err != nil {
		return types.User{}, err
	}

	doc := userDocument{
		ID:       strconv.FormatInt(seq, 10),
		Seq:      seq,
		Username: user.Username,
		Count:    0,
		Log:      []types.Exercise{},
	}
	if _, err := r.users.InsertOne(ctx, doc); err != nil {
		return types.User{}, fmt.Errorf("create user: %w", err)
	}
	return doc.toUser(), nil
}

// AppendExercise pushes the entry and bumps count in one update.
func (r *MongoUserRepository) AppendExercise(ctx context.Context, id string, exercise types.Exercise) (types.User, error) {
	update := bson.M{
		"$push": bson.M{"log": exercise},
		"$inc":  bson.M{"count": 1},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc userDocument
	err := r.users.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return types.User{}, ErrNotFound
		}
		return types.User{}, fmt.Errorf("append exercise: %w", err)
	}
	return doc.toUser(), nil
}

// Close disconnects the client.
func (r *MongoUserRepository) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}

// nextSeq returns 0 for the first user, like a document count would.
func (r *MongoUserRepository) nextSeq(ctx context.Context) (int64, error) {
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var counter counterDocument
	err := r.counters.FindOneAndUpdate(
		ctx,
		bson.M{"_id": userCounterID},
		bson.M{"$inc": bson.M{"seq": int64(1)}},
		opts,
	).Decode(&counter)
	if err != nil {
		return 0, fmt.Errorf("next user id: %w", err)
	}
	return counter.Seq - 1, nil
}

func (d userDocument) toUser() types.User {
	log := d.Log
	if log == nil {
		log = []types.Exercise{}
	}
	return types.User{
		ID:       d.ID,
		Username: d.Username,
		Count:    d.Count,
		Log:      log,
	}
}
