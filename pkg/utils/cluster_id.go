package utils

import (
	"github.com/google/uuid"
)

// ClusterIDPrefix marks identifiers minted for clusters.
const ClusterIDPrefix = "cluster-"

// NewClusterID returns a fresh cluster identifier built on a UUID v4.
//
// Go Learning Note — "github.com/google/uuid":
// uuid.NewString() is uuid.New().String(). Random IDs need no coordination,
// so two controllers never hand out the same cluster ID.
func NewClusterID() string {
	return ClusterIDPrefix + uuid.NewString()
}
