package repository

import (
	"context"
	"errors"

	"github.com/AsemAbuOthman/Forsah-sub000/internal/message/domain"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type mongoMessageRepository struct {
	coll *mongo.Collection
}

// NewMongoMessageRepository mongo MessageRepository, collection messages
func NewMongoMessageRepository(db *mongo.Database) MessageRepository {
	return &mongoMessageRepository{
		coll: db.Collection("messages"),
	}
}

// AutoMigrate 建立查詢用 index
func (r *mongoMessageRepository) AutoMigrate(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "sender_id", Value: 1}, {Key: "receiver_id", Value: 1}, {Key: "timestamp", Value: 1}}},
		{Keys: bson.D{{Key: "receiver_id", Value: 1}, {Key: "status", Value: 1}}},
	})
	return err
}

func (r *mongoMessageRepository) Create(ctx context.Context, msg *domain.Message) error {
	_, err := r.coll.InsertOne(ctx, msg)
	return err
}

func (r *mongoMessageRepository) CreateReply(ctx context.Context, reply *domain.Message, originalID string) error {
	n, err := r.coll.CountDocuments(ctx, bson.M{"_id": originalID})
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrReplyTargetNotFound
	}

	reply.ReplyTo = originalID
	_, err = r.coll.InsertOne(ctx, reply)
	return err
}

func (r *mongoMessageRepository) Delete(ctx context.Context, messageID, senderID string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": messageID, "sender_id": senderID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *mongoMessageRepository) UpdateStatus(ctx context.Context, messageID, actorID, expectSenderID string, status domain.MessageStatus) (bool, error) {
	filter := bson.M{
		"_id":         messageID,
		"receiver_id": actorID,
		"status":      bson.M{"$in": status.Before()},
	}
	if expectSenderID != "" {
		filter["sender_id"] = expectSenderID
	}

	res, err := r.coll.UpdateOne(ctx, filter, bson.M{"$set": bson.M{"status": status}})
	if err != nil {
		return false, err
	}
	if res.ModifiedCount > 0 {
		return true, nil
	}

	n, err := r.coll.CountDocuments(ctx, bson.M{"_id": messageID})
	if err != nil {
		return false, err
	}
	if n == 0 {
		return false, domain.ErrNotFound
	}
	return false, nil
}

func (r *mongoMessageRepository) History(ctx context.Context, a, b string, limit int) ([]domain.Message, error) {
	filter := bson.M{"$or": bson.A{
		bson.M{"sender_id": a, "receiver_id": b},
		bson.M{"sender_id": b, "receiver_id": a},
	}}
	opts := options.Find().SetSort(bson.M{"timestamp": 1}).SetLimit(int64(historyLimit(limit)))

	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	msgs := []domain.Message{}
	if err := cur.All(ctx, &msgs); err != nil {
		return nil, err
	}
	return msgs, nil
}

// Contacts 以對方 id 分組: 最後訊息時間與未讀數
func (r *mongoMessageRepository) Contacts(ctx context.Context, userID string) ([]domain.Contact, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"$or": bson.A{bson.M{"sender_id": userID}, bson.M{"receiver_id": userID}}}}},
		{{Key: "$project", Value: bson.M{
			"contact": bson.M{"$cond": bson.A{bson.M{"$eq": bson.A{"$sender_id", userID}}, "$receiver_id", "$sender_id"}},
			"timestamp": 1,
			"unread": bson.M{"$cond": bson.A{
				bson.M{"$and": bson.A{
					bson.M{"$eq": bson.A{"$receiver_id", userID}},
					bson.M{"$ne": bson.A{"$status", domain.StatusRead}},
				}}, 1, 0,
			}},
		}}},
		{{Key: "$group", Value: bson.M{
			"_id":             "$contact",
			"last_message_at": bson.M{"$max": "$timestamp"},
			"unread_count":    bson.M{"$sum": "$unread"},
		}}},
		{{Key: "$sort", Value: bson.M{"last_message_at": -1}}},
	}

	cur, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	contacts := []domain.Contact{}
	if err := cur.All(ctx, &contacts); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return contacts, nil
		}
		return nil, err
	}
	return contacts, nil
}
