package graph

import (
	"encoding/hex"
	"strings"

	"golang.org/x/crypto/sha3"

	"github.com/profilescan/profilescan/internal/model"
)

// UserNodeID is the fixed identifier of the root user node.
const UserNodeID = "target_user"

// idHashLen is the number of hash bytes kept in a node id. Eight bytes is
// plenty for collision resistance at graph scale while keeping ids short
// enough to read in exports.
const idHashLen = 8

// NodeID derives a stable node identifier from the node type and entity
// value. The value is normalized (trimmed, lowercased) before hashing so
// that cosmetic differences in collector output do not split entities.
//
// Design decision: We hash with SHA3-256 rather than numbering nodes
// because ids must survive rebuilds. A counter would assign different ids
// depending on insertion order, breaking graph diffing and cached exports.
func NodeID(t model.NodeType, value string) string {
	normalized := strings.ToLower(strings.TrimSpace(value))
	sum := sha3.Sum256([]byte(string(t) + "\x00" + normalized))
	return string(t) + "_" + hex.EncodeToString(sum[:idHashLen])
}
