package provisioning

import (
	"context"
	"errors"
	"time"

	"comercia/internal/apperr"
	"comercia/internal/docstore"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DocumentIDs are the ids minted by the document-store transaction.
type DocumentIDs struct {
	CompanyDocID primitive.ObjectID
	StoreDocID   primitive.ObjectID
}

// DocumentWriter runs the only step of the saga with an atomicity guarantee:
// the company and store documents are written in one document-store
// transaction, so either both exist or neither does.
type DocumentWriter interface {
	CreateDocuments(ctx context.Context, req *Request, companyID uuid.UUID, securityCode string) (*DocumentIDs, error)
}

type documentWriter struct {
	docs docstore.CompanyStore
}

func NewDocumentWriter(docs docstore.CompanyStore) DocumentWriter {
	return &documentWriter{docs: docs}
}

func (w *documentWriter) CreateDocuments(ctx context.Context, req *Request, companyID uuid.UUID, securityCode string) (*DocumentIDs, error) {
	now := time.Now().UTC()

	company := &docstore.CompanyDocument{
		Name:         req.CompanyName,
		NIT:          req.NIT,
		Address:      req.CompanyAddress,
		Phone:        req.CompanyPhone,
		Email:        req.CompanyEmail,
		SecurityCode: securityCode,
		Metadata: docstore.CompanyMetadata{
			RelationalID:         companyID.String(),
			SecurityCode:         securityCode,
			Status:               "active",
			ExternalRegistration: false,
		},
		CreatedAt: now,
		UpdatedAt: now,
	}

	storeName := req.StoreName
	if storeName == "" {
		storeName = req.CompanyName
	}
	storeAddress := req.StoreAddress
	if storeAddress == "" {
		storeAddress = req.CompanyAddress
	}
	store := &docstore.StoreDocument{
		Name:      storeName,
		Address:   storeAddress,
		CreatedAt: now,
		UpdatedAt: now,
	}

	companyDocID, storeDocID, err := w.docs.CreateCompanyWithStore(ctx, company, store)
	if err != nil {
		if errors.Is(err, docstore.ErrCompanyExists) {
			return nil, apperr.Conflict("company already exists",
				apperr.FieldError{Field: "nit", Message: "a company with this nit is already registered"})
		}
		return nil, apperr.Infrastructure("document-store transaction failed", err)
	}

	return &DocumentIDs{CompanyDocID: companyDocID, StoreDocID: storeDocID}, nil
}
