// Package registry holds model-definition families: named model
// configurations that launches resolve against. The supervisor treats the
// store as a collaborator with a fixed surface; how definitions are
// persisted is up to the implementation.
package registry

import (
	"encoding/json"
	"errors"
	"fmt"

	"fleetd/pkg/types"
)

// Family is one named model definition of a given kind.
type Family struct {
	// Name uniquely identifies the family within its kind.
	Name string `json:"model_name"`
	// Kind of models this family describes.
	Kind types.ModelKind `json:"model_type"`
	// Builtin families ship with the deployment and cannot be unregistered.
	Builtin bool `json:"is_builtin"`
	// Spec is the raw definition payload, forwarded to workers verbatim.
	Spec json.RawMessage `json:"spec,omitempty"`
}

// ParseFamily decodes a raw definition document into a Family and
// validates it.
func ParseFamily(kind types.ModelKind, raw []byte) (Family, error) {
	var f Family
	if err := json.Unmarshal(raw, &f); err != nil {
		return Family{}, fmt.Errorf("decode model definition: %w", err)
	}
	if f.Name == "" {
		return Family{}, errors.New("model definition: empty model_name")
	}
	f.Kind = kind
	if f.Spec == nil {
		f.Spec = append(json.RawMessage(nil), raw...)
	}
	return f, nil
}

// FamilyStore is the model-definition registry surface the supervisor
// consumes. Implementations must be safe for concurrent use.
type FamilyStore interface {
	// List returns every family of a kind, sorted by lowercased name.
	List(kind types.ModelKind) ([]Family, error)
	// Get looks a family up by name.
	Get(kind types.ModelKind, name string) (Family, error)
	// Register adds a user-defined family. persist asks the store to
	// retain the definition across restarts, where it can.
	Register(kind types.ModelKind, f Family, persist bool) error
	// Unregister removes a user-defined family. Builtin families are
	// not removable.
	Unregister(kind types.ModelKind, name string) error
}

// familyNotFoundError signals a missing family name.
type familyNotFoundError struct{ name string }

func (e familyNotFoundError) Error() string { return "model family not found: " + e.name }

func ErrFamilyNotFound(name string) error { return familyNotFoundError{name: name} }

// IsFamilyNotFound reports whether err indicates a missing family.
func IsFamilyNotFound(err error) bool {
	var e familyNotFoundError
	return errors.As(err, &e)
}

// familyExistsError signals a duplicate family name.
type familyExistsError struct{ name string }

func (e familyExistsError) Error() string { return "model family already registered: " + e.name }

func ErrFamilyExists(name string) error { return familyExistsError{name: name} }

// IsFamilyExists reports whether err indicates a duplicate family.
func IsFamilyExists(err error) bool {
	var e familyExistsError
	return errors.As(err, &e)
}
