package services

import (
	"encoding/json"
	"fmt"
	"strings"

	"sankhyacrm/entity"
)

// DecodeEntities converts a raw loadRecords response into one Record per
// entity instance, in response order. Pure: no network, no side effects.
//
// Field names come from the response metadata; instance values sit in
// positional slots f0, f1, … shaped {"$": value}. The primary key is
// read from the instance's "$" attribute block when present, otherwise
// the pk field decodes empty (transient record). Empty or absent result
// sets yield an empty slice, never an error.
func DecodeEntities(raw []byte, pkField string) ([]entity.Record, error) {
	var resp entity.ServiceResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, &DecodeError{Reason: "unparseable service response", Err: err}
	}

	if resp.ResponseBody == nil || resp.ResponseBody.Entities == nil {
		return []entity.Record{}, nil
	}

	entities := resp.ResponseBody.Entities
	if len(entities.Entity) == 0 || entities.Metadata == nil {
		return []entity.Record{}, nil
	}

	fieldNames := make([]string, 0, len(entities.Metadata.Fields.Field))
	for _, f := range entities.Metadata.Fields.Field {
		fieldNames = append(fieldNames, f.Name)
	}
	if len(fieldNames) == 0 {
		return nil, &DecodeError{Reason: "metadata carries no field names"}
	}

	instances, err := entityInstances(entities.Entity)
	if err != nil {
		return nil, err
	}

	records := make([]entity.Record, 0, len(instances))
	for _, instance := range instances {
		rec := entity.Record{}

		rec[pkField] = primaryKey(instance, pkField)

		for i, name := range fieldNames {
			slot := fmt.Sprintf("f%d", i)
			value, ok := instance[slot]
			if !ok {
				// The ERP omits unset fields; decode to the zero value.
				rec[name] = ""
				continue
			}
			rec[name] = slotValue(value)
		}

		records = append(records, rec)
	}

	return records, nil
}

// entityInstances tolerates the single-row case, where the ERP emits an
// object instead of a one-element array.
func entityInstances(raw json.RawMessage) ([]map[string]json.RawMessage, error) {
	trimmed := strings.TrimSpace(string(raw))
	if strings.HasPrefix(trimmed, "{") {
		var single map[string]json.RawMessage
		if err := json.Unmarshal(raw, &single); err != nil {
			return nil, &DecodeError{Reason: "unparseable entity instance", Err: err}
		}
		return []map[string]json.RawMessage{single}, nil
	}

	var many []map[string]json.RawMessage
	if err := json.Unmarshal(raw, &many); err != nil {
		return nil, &DecodeError{Reason: "unparseable entity list", Err: err}
	}
	return many, nil
}

// primaryKey reads pkField from the instance's "$" attribute block.
func primaryKey(instance map[string]json.RawMessage, pkField string) string {
	attrs, ok := instance["$"]
	if !ok {
		return ""
	}
	var block map[string]json.RawMessage
	if err := json.Unmarshal(attrs, &block); err != nil {
		return ""
	}
	value, ok := block[pkField]
	if !ok {
		return ""
	}
	return scalarString(value)
}

// slotValue unwraps a positional {"$": value} slot.
func slotValue(raw json.RawMessage) string {
	var slot struct {
		Value json.RawMessage `json:"$"`
	}
	if err := json.Unmarshal(raw, &slot); err != nil {
		return ""
	}
	return scalarString(slot.Value)
}

// scalarString renders a JSON scalar as the string the ERP means by it:
// strings unquoted, numbers verbatim, null empty.
func scalarString(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	text := strings.TrimSpace(string(raw))
	if text == "null" {
		return ""
	}
	return text
}
