package supervisor

import (
	"context"

	"fleetd/internal/logx"
	"fleetd/internal/registry"
	"fleetd/pkg/types"
)

// The model-definition operations are thin delegation to the family store
// plus, when the deployment is not a single local node, best-effort fan-out
// of mutations to every worker so their local views stay consistent.
// Fan-out failures are logged per worker and never rolled back.

// ListModelRegistrations lists every known family of a kind, sorted by
// lowercased name.
func (s *Supervisor) ListModelRegistrations(kind types.ModelKind) ([]registry.Family, error) {
	return s.families.List(kind)
}

// GetModelRegistration looks one family up by name.
func (s *Supervisor) GetModelRegistration(kind types.ModelKind, name string) (registry.Family, error) {
	f, err := s.families.Get(kind, name)
	if err != nil {
		if registry.IsFamilyNotFound(err) {
			return registry.Family{}, ErrNotFound(name)
		}
		return registry.Family{}, err
	}
	return f, nil
}

// RegisterModel adds a user-defined family and mirrors it to the fleet.
func (s *Supervisor) RegisterModel(ctx context.Context, kind types.ModelKind, f registry.Family, persist bool) error {
	if err := s.families.Register(kind, f, persist); err != nil {
		if registry.IsFamilyExists(err) {
			return ErrAlreadyExists(f.Name)
		}
		return err
	}
	if s.IsLocalDeployment() {
		return nil
	}
	for _, w := range s.workers.Clients() {
		if err := w.RegisterFamily(ctx, kind, f, persist); err != nil {
			logx.Log.Warn().Str("worker", w.Address()).Str("family", f.Name).Err(err).
				Msg("family registration fan-out failed")
		}
	}
	return nil
}

// UnregisterModel removes a user-defined family and mirrors the removal.
func (s *Supervisor) UnregisterModel(ctx context.Context, kind types.ModelKind, name string) error {
	if err := s.families.Unregister(kind, name); err != nil {
		if registry.IsFamilyNotFound(err) {
			return ErrNotFound(name)
		}
		return err
	}
	if s.IsLocalDeployment() {
		return nil
	}
	for _, w := range s.workers.Clients() {
		if err := w.UnregisterFamily(ctx, kind, name); err != nil {
			logx.Log.Warn().Str("worker", w.Address()).Str("family", name).Err(err).
				Msg("family removal fan-out failed")
		}
	}
	return nil
}
