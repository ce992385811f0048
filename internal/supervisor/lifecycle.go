package supervisor

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"fleetd/internal/logx"
	"fleetd/internal/worker"
	"fleetd/pkg/types"
)

// LaunchModel deploys a logical model as replica copies across the fleet
// and returns its uid (generated when empty). Either every replica lands
// or none does: any placement or load failure unwinds the replicas bound
// so far and surfaces the original error.
func (s *Supervisor) LaunchModel(ctx context.Context, modelUID string, spec types.ModelSpec, replica int) (string, error) {
	if modelUID == "" {
		modelUID = uuid.NewString()
	}
	if replica < 1 {
		return "", fmt.Errorf("launch %s: replica count must be >= 1, got %d", modelUID, replica)
	}
	spec, err := spec.Normalize()
	if err != nil {
		return "", err
	}

	s.locks.Lock(modelUID)
	defer s.locks.Unlock(modelUID)

	// Group creation is the commit point: it happens before any remote
	// work so rollback always knows the intended scope.
	if err := s.scheduler.CreateGroup(modelUID, replica); err != nil {
		return "", err
	}
	logx.Log.Info().
		Str("model", modelUID).
		Str("name", spec.Name).
		Int("replica", replica).
		Msg("launching model")
	s.publisher.Publish(Event{Name: "launch_started", ModelUID: modelUID, Fields: map[string]any{
		"model_name": spec.Name, "replica": replica,
	}})

	if err := s.launchReplicas(ctx, modelUID, spec, replica); err != nil {
		logx.Log.Warn().Str("model", modelUID).Err(err).Msg("launch failed, rolling back")
		// Unwind whatever was bound; replicas that never launched show up
		// as per-replica not-found and are suppressed here.
		_ = s.terminateLocked(ctx, modelUID, true)
		s.publisher.Publish(Event{Name: "launch_rolled_back", ModelUID: modelUID, Fields: map[string]any{
			"error": err.Error(),
		}})
		launchesTotal.WithLabelValues("error").Inc()
		return "", err
	}

	s.publisher.Publish(Event{Name: "launch_ready", ModelUID: modelUID, Fields: map[string]any{}})
	launchesTotal.WithLabelValues("ok").Inc()
	return modelUID, nil
}

func (s *Supervisor) launchReplicas(ctx context.Context, modelUID string, spec types.ModelSpec, replica int) error {
	for idx, rid := range types.ReplicaModelIDs(modelUID, replica) {
		// Defensive: replica ids are injective per uid, so a hit here
		// means the uid collides with another deployment's replicas.
		if s.bindings.Has(rid) {
			return ErrAlreadyExists(rid)
		}
		w, err := s.workers.Choose(ctx)
		if err != nil {
			return err
		}
		if err := w.LoadModel(ctx, rid, spec); err != nil {
			return ErrRemote(w.Address(), err)
		}
		s.bindings.Put(rid, w)
		logx.Log.Info().
			Str("model", modelUID).
			Str("replica_id", rid).
			Str("worker", w.Address()).
			Msg("replica placed")
		s.publisher.Publish(Event{Name: "replica_placed", ModelUID: modelUID, Fields: map[string]any{
			"replica_id": rid, "index": idx, "worker": w.Address(),
		}})
	}
	return nil
}

// TerminateModel tears a logical model down. Per-replica unload failures
// are collected and the first one surfaces after every replica has been
// attempted; suppressErrors swallows them (rollback). The replica group is
// deleted regardless, so the model is gone from the supervisor's books
// even when a worker kept stale state.
func (s *Supervisor) TerminateModel(ctx context.Context, modelUID string, suppressErrors bool) error {
	s.locks.Lock(modelUID)
	defer s.locks.Unlock(modelUID)
	return s.terminateLocked(ctx, modelUID, suppressErrors)
}

// terminateLocked is TerminateModel without taking the per-model lock;
// rollback inside LaunchModel already holds it.
func (s *Supervisor) terminateLocked(ctx context.Context, modelUID string, suppressErrors bool) error {
	replica, ok := s.scheduler.Replica(modelUID)
	if !ok {
		return ErrNotFound(modelUID)
	}
	s.publisher.Publish(Event{Name: "terminate_started", ModelUID: modelUID, Fields: map[string]any{}})

	var firstErr error
	for _, rid := range types.ReplicaModelIDs(modelUID, replica) {
		err := s.terminateReplica(ctx, rid)
		if err == nil {
			continue
		}
		logx.Log.Warn().Str("model", modelUID).Str("replica_id", rid).Err(err).Msg("replica teardown failed")
		if firstErr == nil {
			firstErr = err
		}
	}

	s.scheduler.DeleteGroup(modelUID)
	s.publisher.Publish(Event{Name: "terminate_done", ModelUID: modelUID, Fields: map[string]any{}})
	if firstErr != nil && !suppressErrors {
		terminationsTotal.WithLabelValues("error").Inc()
		return firstErr
	}
	terminationsTotal.WithLabelValues("ok").Inc()
	return nil
}

func (s *Supervisor) terminateReplica(ctx context.Context, rid string) error {
	w, ok := s.bindings.Get(rid)
	if !ok {
		return ErrNotFound(rid)
	}
	if err := w.UnloadModel(ctx, rid); err != nil {
		// The binding stays; the worker may still host the replica and a
		// retry or its own GC has to reconcile it.
		return ErrRemote(w.Address(), err)
	}
	s.bindings.Delete(rid)
	return nil
}

// GetModel routes one live request: it advances the round-robin cursor,
// resolves the chosen replica's worker, and returns a handle to it.
func (s *Supervisor) GetModel(ctx context.Context, modelUID string) (worker.ModelHandle, error) {
	rid, err := s.scheduler.Next(modelUID)
	if err != nil {
		return worker.ModelHandle{}, err
	}
	w, ok := s.bindings.Get(rid)
	if !ok {
		return worker.ModelHandle{}, ErrNotFound(rid)
	}
	h, err := w.GetModelHandle(ctx, rid)
	if err != nil {
		return worker.ModelHandle{}, ErrRemote(w.Address(), err)
	}
	return h, nil
}

// DescribeModel reports a logical model without consuming routing state:
// it always asks replica 0 and augments the answer with the replica count.
func (s *Supervisor) DescribeModel(ctx context.Context, modelUID string) (map[string]any, error) {
	rid, err := s.scheduler.Stable(modelUID)
	if err != nil {
		return nil, err
	}
	replica, _ := s.scheduler.Replica(modelUID)
	w, ok := s.bindings.Get(rid)
	if !ok {
		return nil, ErrNotFound(rid)
	}
	info, err := w.DescribeModel(ctx, rid)
	if err != nil {
		return nil, ErrRemote(w.Address(), err)
	}
	if info == nil {
		info = make(map[string]any)
	}
	info["replica"] = replica
	return info, nil
}

// ListModels aggregates every worker's replica listing and folds replica
// ids back to their logical model uid, so each deployment shows up once.
func (s *Supervisor) ListModels(ctx context.Context) (map[string]map[string]any, error) {
	out := make(map[string]map[string]any)
	for _, w := range s.workers.Clients() {
		models, err := w.ListModels(ctx)
		if err != nil {
			return nil, ErrRemote(w.Address(), err)
		}
		for rid, info := range models {
			uid, _, _, err := types.ParseReplicaModelID(rid)
			if err != nil {
				logx.Log.Warn().Str("replica_id", rid).Str("worker", w.Address()).
					Msg("unparseable replica id in worker listing")
				continue
			}
			out[uid] = info
		}
	}
	return out, nil
}
