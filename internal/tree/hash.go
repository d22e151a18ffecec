package tree

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// moveHash digests a node's ply, move squares and resulting placement.
func moveHash(n *Node) string {
	key := fmt.Sprintf("%d%d%d%d%d%s",
		n.Ply, n.From.Row, n.From.Col, n.To.Row, n.To.Col, n.Board.Placement())
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:])
}

// MoveHash returns the content hash of the node: a hex SHA-256 digest of
// its ply, origin, destination and board. It is the node's external identity.
func (t *Tree) MoveHash(id NodeID) string {
	return t.node(id).hash
}
