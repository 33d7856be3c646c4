package provisioning

import "strings"

// Request is the canonical shape of a provisioning request after alias
// normalization. Validation tags are enforced by the validator component;
// the nit rule is registered in validator.go.
type Request struct {
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Phone     string `json:"phone" validate:"required"`
	BirthDate string `json:"birthDate" validate:"omitempty,datetime=2006-01-02"`

	NIT            string `json:"nit" validate:"required,nit"`
	CompanyName    string `json:"companyName" validate:"required"`
	CompanyAddress string `json:"companyAddress" validate:"required"`
	CompanyPhone   string `json:"companyPhone" validate:"required"`
	CompanyEmail   string `json:"companyEmail" validate:"required,email"`

	StoreName    string `json:"storeName"`
	StoreAddress string `json:"storeAddress"`
}

// canonicalFields fixes the order fields are normalized and reported in.
var canonicalFields = []string{
	"firstName", "lastName", "email", "phone", "birthDate",
	"nit", "companyName", "companyAddress", "companyPhone", "companyEmail",
	"storeName", "storeAddress",
}

// fieldAliases maps each canonical field to the accepted input names,
// English and Spanish. The first alias found with a non-empty value wins.
var fieldAliases = map[string][]string{
	"firstName":      {"firstName", "first_name", "name", "nombre"},
	"lastName":       {"lastName", "last_name", "apellido"},
	"email":          {"email", "correo"},
	"phone":          {"phone", "telefono", "celular"},
	"birthDate":      {"birthDate", "birth_date", "fecha_nacimiento"},
	"nit":            {"nit", "taxId", "tax_id"},
	"companyName":    {"companyName", "company_name", "razon_social", "empresa", "nombre_empresa"},
	"companyAddress": {"companyAddress", "company_address", "direccion", "direccion_empresa"},
	"companyPhone":   {"companyPhone", "company_phone", "telefono_empresa"},
	"companyEmail":   {"companyEmail", "company_email", "correo_empresa"},
	"storeName":      {"storeName", "store_name", "nombre_tienda"},
	"storeAddress":   {"storeAddress", "store_address", "direccion_tienda"},
}

// Normalize maps an aliased, possibly bilingual payload onto the canonical
// request shape. Unknown keys are ignored; values are trimmed.
func Normalize(payload map[string]any) *Request {
	values := make(map[string]string, len(canonicalFields))
	for _, field := range canonicalFields {
		for _, alias := range fieldAliases[field] {
			raw, ok := payload[alias]
			if !ok {
				continue
			}
			s, ok := raw.(string)
			if !ok {
				continue
			}
			if s = strings.TrimSpace(s); s != "" {
				values[field] = s
				break
			}
		}
	}

	return &Request{
		FirstName:      values["firstName"],
		LastName:       values["lastName"],
		Email:          values["email"],
		Phone:          values["phone"],
		BirthDate:      values["birthDate"],
		NIT:            values["nit"],
		CompanyName:    values["companyName"],
		CompanyAddress: values["companyAddress"],
		CompanyPhone:   values["companyPhone"],
		CompanyEmail:   values["companyEmail"],
		StoreName:      values["storeName"],
		StoreAddress:   values["storeAddress"],
	}
}
