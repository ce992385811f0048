package types

import "fmt"

// ModelKind is the closed set of model families the supervisor can place.
// Only LLM exists today; new kinds are added here, not as free-form strings.
type ModelKind string

const (
	KindLLM ModelKind = "LLM"
)

// ParseModelKind validates a caller-supplied kind string. An empty string
// maps to KindLLM for compatibility with older clients.
func ParseModelKind(s string) (ModelKind, error) {
	switch ModelKind(s) {
	case KindLLM:
		return KindLLM, nil
	case "":
		return KindLLM, nil
	}
	return "", fmt.Errorf("unsupported model type: %s", s)
}

func (k ModelKind) String() string { return string(k) }

// ModelSpec describes the model a worker should load for one replica.
type ModelSpec struct {
	// Name of the model family, e.g. "llama-2-chat".
	Name string `json:"model_name"`
	// Kind of model; empty means KindLLM.
	Kind ModelKind `json:"model_type,omitempty"`
	// SizeInBillions is the parameter count, 0 when not applicable.
	SizeInBillions int `json:"model_size_in_billions,omitempty"`
	// Format of the weights, e.g. "ggmlv3", "pytorch".
	Format string `json:"model_format,omitempty"`
	// Quantization variant, e.g. "q4_0".
	Quantization string `json:"quantization,omitempty"`
	// GPUs requested per replica; 0 lets the worker decide.
	GPUs int `json:"n_gpu,omitempty"`
	// Options carries backend-specific launch options verbatim.
	Options map[string]any `json:"options,omitempty"`
}

// Normalize validates the spec and fills defaults, returning the result.
func (s ModelSpec) Normalize() (ModelSpec, error) {
	if s.Name == "" {
		return s, fmt.Errorf("model spec: empty model name")
	}
	kind, err := ParseModelKind(string(s.Kind))
	if err != nil {
		return s, err
	}
	s.Kind = kind
	if s.SizeInBillions < 0 {
		return s, fmt.Errorf("model spec: negative model size")
	}
	if s.GPUs < 0 {
		return s, fmt.Errorf("model spec: negative gpu count")
	}
	return s, nil
}
