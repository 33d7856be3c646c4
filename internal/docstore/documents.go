package docstore

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CompanyMetadata is the metadata block embedded in the company document.
// RelationalID points at the row projected into the relational store.
type CompanyMetadata struct {
	RelationalID         string `bson:"relational_id"`
	SecurityCode         string `bson:"security_code"`
	Status               string `bson:"status"`
	ExternalRegistration bool   `bson:"external_registration"`
}

type CompanyDocument struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Name         string             `bson:"name"`
	NIT          string             `bson:"nit"`
	Address      string             `bson:"address"`
	Phone        string             `bson:"phone"`
	Email        string             `bson:"email"`
	SecurityCode string             `bson:"security_code"`
	Metadata     CompanyMetadata    `bson:"metadata"`
	CreatedAt    time.Time          `bson:"created_at"`
	UpdatedAt    time.Time          `bson:"updated_at"`
}

type StoreDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	CompanyID primitive.ObjectID `bson:"company_id"`
	Name      string             `bson:"name"`
	Address   string             `bson:"address"`
	CreatedAt time.Time          `bson:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at"`
}
