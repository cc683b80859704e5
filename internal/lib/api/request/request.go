package request

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
)

// Common errors
var (
	ErrEmptyBody = errors.New("request body is empty")
)

// Binder is an interface for entities that can validate themselves
type Binder interface {
	Bind(*http.Request) error
}

// Decode decodes a JSON request body into target.
func Decode(r *http.Request, target interface{}) error {
	err := json.NewDecoder(r.Body).Decode(target)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return ErrEmptyBody
		}
		return err
	}
	return nil
}

// DecodeAndValidate decodes the body and, when the target implements
// Binder, runs its validation.
func DecodeAndValidate[T any](r *http.Request, target *T) error {
	if err := Decode(r, target); err != nil {
		return err
	}
	if binder, ok := any(target).(Binder); ok {
		if err := binder.Bind(r); err != nil {
			return err
		}
	}
	return nil
}
