package types

import (
	"fmt"
	"strconv"
	"strings"
)

// Replica model ids are the wire-level convention shared with workers:
// "{model_uid}-{replica_count}-{replica_index}". The model uid may itself
// contain dashes, so parsing always works from the right.

// BuildReplicaModelID derives the id of one replica of a logical model.
func BuildReplicaModelID(modelUID string, replica, index int) string {
	return fmt.Sprintf("%s-%d-%d", modelUID, replica, index)
}

// ParseReplicaModelID splits a replica model id back into its parts.
func ParseReplicaModelID(id string) (modelUID string, replica, index int, err error) {
	last := strings.LastIndexByte(id, '-')
	if last <= 0 {
		return "", 0, 0, fmt.Errorf("malformed replica model id: %q", id)
	}
	second := strings.LastIndexByte(id[:last], '-')
	if second <= 0 {
		return "", 0, 0, fmt.Errorf("malformed replica model id: %q", id)
	}
	replica, err = strconv.Atoi(id[second+1 : last])
	if err != nil {
		return "", 0, 0, fmt.Errorf("malformed replica model id: %q", id)
	}
	index, err = strconv.Atoi(id[last+1:])
	if err != nil {
		return "", 0, 0, fmt.Errorf("malformed replica model id: %q", id)
	}
	if replica < 1 || index < 0 || index >= replica {
		return "", 0, 0, fmt.Errorf("replica model id out of range: %q", id)
	}
	return id[:second], replica, index, nil
}

// ReplicaModelIDs lists the ids of every replica of a logical model,
// in replica-index order.
func ReplicaModelIDs(modelUID string, replica int) []string {
	ids := make([]string, 0, replica)
	for i := 0; i < replica; i++ {
		ids = append(ids, BuildReplicaModelID(modelUID, replica, i))
	}
	return ids
}
