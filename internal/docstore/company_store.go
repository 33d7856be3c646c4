package docstore

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrCompanyExists is returned when the in-transaction pre-check finds a
// company with the same NIT. The unique index on nit remains the source of
// truth; the pre-check only lets us abort before writing.
var ErrCompanyExists = errors.New("company with this nit already exists in document store")

const (
	companiesCollection = "companies"
	storesCollection    = "stores"
)

// CompanyStore is the document-store side of provisioning: the atomic
// company+store insert, the NIT lookup, and the compensating deletes.
type CompanyStore interface {
	// CreateCompanyWithStore inserts both documents inside one transaction.
	// Either both documents exist afterwards or neither does.
	CreateCompanyWithStore(ctx context.Context, company *CompanyDocument, store *StoreDocument) (companyID, storeID primitive.ObjectID, err error)
	FindByNIT(ctx context.Context, nit string) (*CompanyDocument, error)
	DeleteCompany(ctx context.Context, id primitive.ObjectID) error
	DeleteStore(ctx context.Context, id primitive.ObjectID) error
	EnsureIndexes(ctx context.Context) error
}

type mongoCompanyStore struct {
	client *mongo.Client
	db     *mongo.Database
}

func NewCompanyStore(client *mongo.Client, database string) CompanyStore {
	return &mongoCompanyStore{
		client: client,
		db:     client.Database(database),
	}
}

func (s *mongoCompanyStore) companies() *mongo.Collection {
	return s.db.Collection(companiesCollection)
}

func (s *mongoCompanyStore) stores() *mongo.Collection {
	return s.db.Collection(storesCollection)
}

func (s *mongoCompanyStore) CreateCompanyWithStore(ctx context.Context, company *CompanyDocument, store *StoreDocument) (primitive.ObjectID, primitive.ObjectID, error) {
	session, err := s.client.StartSession()
	if err != nil {
		return primitive.NilObjectID, primitive.NilObjectID, err
	}
	// The session is released on every exit path, commit or abort.
	defer session.EndSession(ctx)

	var companyID, storeID primitive.ObjectID
	err = mongo.WithSession(ctx, session, func(sc mongo.SessionContext) error {
		if err := session.StartTransaction(); err != nil {
			return err
		}

		// Best-effort re-check inside the transaction. A concurrent insert
		// that committed after validation is caught here; one that has not
		// committed yet is caught by the unique index on nit.
		var existing CompanyDocument
		findErr := s.companies().FindOne(sc, bson.M{"nit": company.NIT}).Decode(&existing)
		if findErr == nil {
			_ = session.AbortTransaction(sc)
			return ErrCompanyExists
		}
		if !errors.Is(findErr, mongo.ErrNoDocuments) {
			_ = session.AbortTransaction(sc)
			return findErr
		}

		companyRes, insErr := s.companies().InsertOne(sc, company)
		if insErr != nil {
			_ = session.AbortTransaction(sc)
			return insErr
		}
		companyID = companyRes.InsertedID.(primitive.ObjectID)

		store.CompanyID = companyID
		storeRes, insErr := s.stores().InsertOne(sc, store)
		if insErr != nil {
			_ = session.AbortTransaction(sc)
			return insErr
		}
		storeID = storeRes.InsertedID.(primitive.ObjectID)

		return session.CommitTransaction(sc)
	})
	if err != nil {
		return primitive.NilObjectID, primitive.NilObjectID, err
	}
	return companyID, storeID, nil
}

func (s *mongoCompanyStore) FindByNIT(ctx context.Context, nit string) (*CompanyDocument, error) {
	var company CompanyDocument
	err := s.companies().FindOne(ctx, bson.M{"nit": nit}).Decode(&company)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &company, nil
}

func (s *mongoCompanyStore) DeleteCompany(ctx context.Context, id primitive.ObjectID) error {
	_, err := s.companies().DeleteOne(ctx, bson.M{"_id": id})
	return err
}

func (s *mongoCompanyStore) DeleteStore(ctx context.Context, id primitive.ObjectID) error {
	_, err := s.stores().DeleteOne(ctx, bson.M{"_id": id})
	return err
}

// EnsureIndexes creates the unique index that closes the TOCTOU gap between
// the validator's advisory check and the insert.
func (s *mongoCompanyStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.companies().Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "nit", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}
