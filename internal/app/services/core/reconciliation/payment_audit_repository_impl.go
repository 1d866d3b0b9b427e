package reconciliation

import (
	"context"
	"healthcard-service/internal/app/config"
	"healthcard-service/internal/app/contracts"
	"healthcard-service/internal/pkg/exceptions"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type paymentAuditRepository struct {
	collection *mongo.Collection
}

// NewPaymentAuditRepository writes one document per confirmed transition.
// Documents are never updated or deleted; disputes are resolved by reading
// the trail back.
func NewPaymentAuditRepository(client *mongo.Client, internalConfig *config.InternalConfig) contracts.PaymentAuditRepository {
	collection := client.
		Database(internalConfig.MongoDB.AuditDBName).
		Collection(internalConfig.MongoDB.AuditCollectionName)
	return &paymentAuditRepository{collection: collection}
}

func (r *paymentAuditRepository) InsertTransition(ctx context.Context, doc *contracts.PaymentAuditDocument) error {
	_, err := r.collection.InsertOne(ctx, doc)
	if err != nil {
		return exceptions.ErrMongoDBInsertDocument(err)
	}
	return nil
}

func (r *paymentAuditRepository) FindByPaymentID(ctx context.Context, paymentID string) ([]contracts.PaymentAuditDocument, error) {
	filter := bson.M{"payment_id": paymentID}
	opts := options.Find().SetSort(bson.M{"recorded_at": 1})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, exceptions.ErrMongoDBFindDocument(err)
	}
	defer cursor.Close(ctx)

	var docs []contracts.PaymentAuditDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, exceptions.ErrMongoDBFindDocument(err)
	}
	return docs, nil
}
