package services

import (
	"strconv"
	"time"

	"sankhyacrm/entity"
	"sankhyacrm/internal/lib/clock"
)

const (
	isoDateLayout     = "2006-01-02"
	sankhyaDateLayout = "02/01/2006"
)

// FormatSankhyaDate transcodes a calendar-order date (YYYY-MM-DD) to the
// ERP's display order (DD/MM/YYYY). Empty input stays empty.
func FormatSankhyaDate(iso string) (string, error) {
	if iso == "" {
		return "", nil
	}
	t, err := time.Parse(isoDateLayout, iso)
	if err != nil {
		return "", err
	}
	return t.Format(sankhyaDateLayout), nil
}

// ParseSankhyaDate transcodes a DD/MM/YYYY value back to calendar order.
// Values that are not display-order dates pass through untouched, so
// non-date strings survive a round trip.
func ParseSankhyaDate(value string) string {
	if value == "" {
		return ""
	}
	t, err := time.Parse(sankhyaDateLayout, value)
	if err != nil {
		return value
	}
	return t.Format(isoDateLayout)
}

// TodaySankhya is the current date in wire format, used for the
// DATA_CRIACAO / DATA_ATUALIZACAO audit fields.
func TodaySankhya() string {
	out, _ := FormatSankhyaDate(clock.Today())
	return out
}

// SaveBuilder assembles a DatasetSP.save request from (field, value)
// pairs, deriving each value's positional index internally so the field
// list and the value map cannot drift apart.
type SaveBuilder struct {
	entityName string
	pk         map[string]string
	fields     []string
	values     map[string]string
	dateErrs   []error
}

func NewSaveBuilder(entityName string) *SaveBuilder {
	return &SaveBuilder{
		entityName: entityName,
		values:     make(map[string]string),
	}
}

// WithKey sets the primary key, switching the write from insert to
// update semantics.
func (b *SaveBuilder) WithKey(field, value string) *SaveBuilder {
	if b.pk == nil {
		b.pk = make(map[string]string)
	}
	b.pk[field] = value
	return b
}

// Add appends a field with its string value. Unset optionals are written
// as empty strings, never omitted.
func (b *SaveBuilder) Add(field, value string) *SaveBuilder {
	index := strconv.Itoa(len(b.fields))
	b.fields = append(b.fields, field)
	b.values[index] = value
	return b
}

// AddNumber appends a numeric field, stringified.
func (b *SaveBuilder) AddNumber(field string, value float64) *SaveBuilder {
	return b.Add(field, strconv.FormatFloat(value, 'f', -1, 64))
}

// AddInt appends an integer field, stringified.
func (b *SaveBuilder) AddInt(field string, value int) *SaveBuilder {
	return b.Add(field, strconv.Itoa(value))
}

// AddDate appends a date field, transcoding calendar order to wire
// order. A malformed date is recorded and written empty; the save
// continues.
func (b *SaveBuilder) AddDate(field, isoDate string) *SaveBuilder {
	out, err := FormatSankhyaDate(isoDate)
	if err != nil {
		b.dateErrs = append(b.dateErrs, &DateFormatError{Field: field, Value: isoDate})
		out = ""
	}
	return b.Add(field, out)
}

// DateErrors reports dates that failed transcoding during Add calls.
func (b *SaveBuilder) DateErrors() []error {
	return b.dateErrs
}

// Build produces the save request. Insert or update semantics follow
// from whether WithKey was called.
func (b *SaveBuilder) Build() entity.SaveRequest {
	record := entity.SaveRecord{Values: b.values}
	if len(b.pk) > 0 {
		record.PK = b.pk
	}
	return entity.SaveRequest{
		ServiceName: "DatasetSP.save",
		RequestBody: entity.SaveRequestBody{
			EntityName: b.entityName,
			StandAlone: false,
			Fields:     b.fields,
			Records:    []entity.SaveRecord{record},
		},
	}
}
