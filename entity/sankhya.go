package entity

import (
	"encoding/json"
	"strings"
)

// Record is the named-field projection of one remote entity instance.
// Values are kept as strings exactly as the ERP delivers them; adapters
// convert to typed fields.
type Record map[string]string

// LoginResponse is the body of a successful credential exchange. The
// gateway accepts either field; sandbox and production environments
// disagree on the name.
type LoginResponse struct {
	BearerToken string `json:"bearerToken"`
	Token       string `json:"token"`
}

// ServiceResponse is the outer envelope of every service.sbr call.
type ServiceResponse struct {
	Status       string        `json:"status,omitempty"`
	ResponseBody *ResponseBody `json:"responseBody,omitempty"`
}

type ResponseBody struct {
	Entities *Entities `json:"entities,omitempty"`
}

// Entities carries the schema (metadata) and the instances. The entity
// member is an object for single-row results and an array otherwise.
type Entities struct {
	Total    string          `json:"total,omitempty"`
	Metadata *Metadata       `json:"metadata,omitempty"`
	Entity   json.RawMessage `json:"entity,omitempty"`
}

type Metadata struct {
	Fields Fields `json:"fields"`
}

type Fields struct {
	Field FieldList `json:"field"`
}

// FieldDescriptor declares one positional field of the result schema.
type FieldDescriptor struct {
	Name string `json:"name"`
}

// FieldList tolerates the single-field case, where the ERP emits an
// object instead of a one-element array.
type FieldList []FieldDescriptor

func (fl *FieldList) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, "{") {
		var single FieldDescriptor
		if err := json.Unmarshal(data, &single); err != nil {
			return err
		}
		*fl = FieldList{single}
		return nil
	}
	var many []FieldDescriptor
	if err := json.Unmarshal(data, &many); err != nil {
		return err
	}
	*fl = FieldList(many)
	return nil
}

// QueryRequest is the CRUDServiceProvider.loadRecords request body.
type QueryRequest struct {
	RequestBody QueryRequestBody `json:"requestBody"`
}

type QueryRequestBody struct {
	DataSet DataSet `json:"dataSet"`
}

type DataSet struct {
	RootEntity                string         `json:"rootEntity"`
	IncludePresentationFields string         `json:"includePresentationFields"`
	OffsetPage                string         `json:"offsetPage"`
	Entity                    FieldsetEntity `json:"entity"`
	Criteria                  *Criteria      `json:"criteria,omitempty"`
}

type FieldsetEntity struct {
	Fieldset Fieldset `json:"fieldset"`
}

type Fieldset struct {
	List string `json:"list"`
}

type Criteria struct {
	Expression Expression `json:"expression"`
}

type Expression struct {
	Value string `json:"$"`
}

// NewQuery builds a loadRecords request over the given entity, field
// order and optional filter expression.
func NewQuery(rootEntity string, fieldOrder []string, expression string) QueryRequest {
	ds := DataSet{
		RootEntity:                rootEntity,
		IncludePresentationFields: "S",
		OffsetPage:                "0",
		Entity: FieldsetEntity{
			Fieldset: Fieldset{List: strings.Join(fieldOrder, ", ")},
		},
	}
	if expression != "" {
		ds.Criteria = &Criteria{Expression: Expression{Value: expression}}
	}
	return QueryRequest{RequestBody: QueryRequestBody{DataSet: ds}}
}

// SaveRequest is the DatasetSP.save request body, shared by insert,
// update and soft delete.
type SaveRequest struct {
	ServiceName string          `json:"serviceName"`
	RequestBody SaveRequestBody `json:"requestBody"`
}

type SaveRequestBody struct {
	EntityName string       `json:"entityName"`
	StandAlone bool         `json:"standAlone"`
	Fields     []string     `json:"fields"`
	Records    []SaveRecord `json:"records"`
}

// SaveRecord holds one record of a save request. A present PK map
// switches the write from insert to update semantics.
type SaveRecord struct {
	PK     map[string]string `json:"pk,omitempty"`
	Values map[string]string `json:"values"`
}
