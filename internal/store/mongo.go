package store

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"invoiceflow/internal/domain"
)

// Collection names
const (
	userCollection    = "user"
	invoiceCollection = "invoice"
)

// MongoStore implements Store on top of a MongoDB database.
type MongoStore struct {
	client *mongo.Client
	db     *mongo.Database
}

// Connect opens a client, verifies the connection, and returns the store.
// The caller owns the lifecycle and must Close on shutdown.
func Connect(ctx context.Context, uri, dbName string) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	return &MongoStore{client: client, db: client.Database(dbName)}, nil
}

// Close disconnects the underlying client.
func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// insert adds a document to a named collection and returns the assigned id.
func (s *MongoStore) insert(ctx context.Context, collection string, doc any) (string, error) {
	res, err := s.db.Collection(collection).InsertOne(ctx, doc)
	if err != nil {
		return "", fmt.Errorf("insert into %s: %w", collection, err)
	}
	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return fmt.Sprintf("%v", res.InsertedID), nil
	}
	return oid.Hex(), nil
}

// find fetches all documents matching filter into out (a slice pointer).
func (s *MongoStore) find(ctx context.Context, collection string, filter bson.M, out any) error {
	cur, err := s.db.Collection(collection).Find(ctx, filter)
	if err != nil {
		return fmt.Errorf("find in %s: %w", collection, err)
	}
	defer cur.Close(ctx)
	if err := cur.All(ctx, out); err != nil {
		return fmt.Errorf("decode %s documents: %w", collection, err)
	}
	return nil
}

// updateOne applies a $set patch to the first document matching filter
// and returns the matched count.
func (s *MongoStore) updateOne(ctx context.Context, collection string, filter, set bson.M) (int64, error) {
	res, err := s.db.Collection(collection).UpdateOne(ctx, filter, bson.M{"$set": set})
	if err != nil {
		return 0, fmt.Errorf("update in %s: %w", collection, err)
	}
	return res.MatchedCount, nil
}

func (s *MongoStore) CreateUser(ctx context.Context, u *domain.User) (string, error) {
	return s.insert(ctx, userCollection, u)
}

func (s *MongoStore) ListUsers(ctx context.Context) ([]domain.User, error) {
	users := []domain.User{}
	if err := s.find(ctx, userCollection, bson.M{}, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (s *MongoStore) CreateInvoice(ctx context.Context, inv *domain.Invoice) (string, error) {
	return s.insert(ctx, invoiceCollection, inv)
}

func (s *MongoStore) ListInvoices(ctx context.Context, userID string) ([]domain.Invoice, error) {
	invoices := []domain.Invoice{}
	if err := s.find(ctx, invoiceCollection, bson.M{"user_id": userID}, &invoices); err != nil {
		return nil, err
	}
	return invoices, nil
}

func (s *MongoStore) PatchInvoice(ctx context.Context, invoiceID string, patch domain.InvoicePatch) (int64, error) {
	oid, err := primitive.ObjectIDFromHex(invoiceID)
	if err != nil {
		return 0, ErrInvalidID
	}
	return s.updateOne(ctx, invoiceCollection, bson.M{"_id": oid}, patchSet(patch))
}

func (s *MongoStore) UpdateInvoice(ctx context.Context, invoiceID, userID string, patch domain.InvoicePatch) (int64, error) {
	oid, err := primitive.ObjectIDFromHex(invoiceID)
	if err != nil {
		return 0, ErrInvalidID
	}
	return s.updateOne(ctx, invoiceCollection, bson.M{"_id": oid, "user_id": userID}, patchSet(patch))
}

func (s *MongoStore) CountInvoices(ctx context.Context) (int64, error) {
	n, err := s.db.Collection(invoiceCollection).CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("count invoices: %w", err)
	}
	return n, nil
}

func (s *MongoStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

func (s *MongoStore) Collections(ctx context.Context) ([]string, error) {
	names, err := s.db.ListCollectionNames(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("list collections: %w", err)
	}
	return names, nil
}

// patchSet converts the non-nil patch fields into a $set document.
// Callers reject empty patches before reaching the store.
func patchSet(p domain.InvoicePatch) bson.M {
	set := bson.M{}
	if p.InvoiceNumber != nil {
		set["invoice_number"] = *p.InvoiceNumber
	}
	if p.VendorName != nil {
		set["vendor_name"] = *p.VendorName
	}
	if p.Date != nil {
		set["date"] = *p.Date
	}
	if p.TotalAmount != nil {
		set["total_amount"] = *p.TotalAmount
	}
	if p.Status != nil {
		set["status"] = *p.Status
	}
	return set
}
