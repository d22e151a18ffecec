// Package tree implements the repertoire game tree: an append-only arena of
// positions linked by moves, with the history-dependent queries the rules
// need (castling rights, en passant context) and the per-node derived data
// (SAN, content hash) used by storage and presentation.
//
// A Tree has no internal locking. It assumes a single writer; readers are
// safe against concurrent appends only when the caller serialises them.
package tree

import (
	"github.com/lgbarn/repertoire-go/internal/chess"
	"github.com/lgbarn/repertoire-go/internal/engine"
)

// NodeID addresses a node within its tree. IDs are assigned in creation
// order and never reused.
type NodeID int

// RootID is the id of every tree's root node.
const RootID NodeID = 0

// Node is a position reached by a move. The root is a sentinel with an empty
// piece whose parent is itself.
type Node struct {
	ID       NodeID
	Piece    chess.Piece // piece that moved, as it stood before the move
	From     chess.Position
	To       chess.Position
	Board    chess.Board // position after the move
	Ply      int         // full-move number of the move
	Side     chess.Side  // side that made the move
	Parent   NodeID
	Children []NodeID

	notation    string
	hasNotation bool
	hash        string
}

// IsRoot reports whether the node is the tree's root sentinel.
func (n *Node) IsRoot() bool {
	return n.Parent == n.ID
}

// Tree is an append-only tree of moves rooted at a starting position.
type Tree struct {
	nodes     []*Node
	byHash    map[string]NodeID
	rootState engine.State
	notation  notationOptions
}

// Option configures a Tree.
type Option func(*Tree)

// WithCastleLetters makes the notation encoder write castles as "O-O" and
// "O-O-O" instead of the default "0-0" and "0-0-0".
func WithCastleLetters() Option {
	return func(t *Tree) {
		t.notation.castleLetters = true
	}
}

// New returns a tree rooted at the standard starting position, white to move.
func New(opts ...Option) *Tree {
	return NewFromPosition(chess.InitialBoard(), chess.White, opts...)
}

// NewFromPosition returns a tree rooted at an arbitrary board with the given
// side to move. Both sides start with full castling rights; castling still
// requires the king and rook on their home squares.
func NewFromPosition(b chess.Board, sideToMove chess.Side, opts ...Option) *Tree {
	return newTree(b, engine.NewState(sideToMove), opts...)
}

// NewFromFEN returns a tree rooted at the position described by a FEN
// string, honouring its castling and en passant fields.
func NewFromFEN(fen string, opts ...Option) (*Tree, error) {
	b, st, err := engine.ParseFEN(fen)
	if err != nil {
		return nil, err
	}
	return newTree(b, st, opts...), nil
}

func newTree(b chess.Board, st engine.State, opts ...Option) *Tree {
	t := &Tree{
		byHash:    make(map[string]NodeID),
		rootState: st,
	}
	for _, opt := range opts {
		opt(t)
	}

	root := &Node{
		ID:     RootID,
		Board:  b,
		Side:   st.SideToMove.Opposite(),
		Parent: RootID,
	}
	t.insert(root)
	return t
}

func (t *Tree) insert(n *Node) {
	n.hash = moveHash(n)
	t.nodes = append(t.nodes, n)
	if _, ok := t.byHash[n.hash]; !ok {
		t.byHash[n.hash] = n.ID
	}
}

// Root returns the id of the root node.
func (t *Tree) Root() NodeID {
	return RootID
}

// Len returns the number of nodes in the tree, including the root.
func (t *Tree) Len() int {
	return len(t.nodes)
}

// Has reports whether id names a node of the tree.
func (t *Tree) Has(id NodeID) bool {
	return id >= 0 && int(id) < len(t.nodes)
}

// Node returns the node with the given id. The returned node must not be
// modified.
func (t *Tree) Node(id NodeID) (*Node, bool) {
	if !t.Has(id) {
		return nil, false
	}
	return t.nodes[id], true
}

// node returns the node with the given id, panicking on an unknown id.
func (t *Tree) node(id NodeID) *Node {
	return t.nodes[id]
}

// Parent returns the parent of id. The root is its own parent.
func (t *Tree) Parent(id NodeID) NodeID {
	return t.node(id).Parent
}

// Children returns the ids of the moves played from id, in insertion order.
func (t *Tree) Children(id NodeID) []NodeID {
	return append([]NodeID(nil), t.node(id).Children...)
}

// SideToMove returns the side to move in the position at id.
func (t *Tree) SideToMove(id NodeID) chess.Side {
	return t.node(id).Side.Opposite()
}

// Lookup returns the node whose content hash is hash.
func (t *Tree) Lookup(hash string) (NodeID, bool) {
	id, ok := t.byHash[hash]
	return id, ok
}

// AddMove records a move from parent. If parent already has a child with the
// same piece, origin and destination, that child is returned with isNew
// false and board is ignored. Otherwise a new child holding board is
// appended. AddMove does not check legality; Play does.
//
// parent must be a node of t.
func (t *Tree) AddMove(parent NodeID, piece chess.Piece, from, to chess.Position, board chess.Board) (NodeID, bool) {
	p := t.node(parent)
	for _, childID := range p.Children {
		c := t.nodes[childID]
		if c.Piece == piece && c.From == from && c.To == to {
			return childID, false
		}
	}

	ply := p.Ply
	if p.Side == chess.Black {
		ply++
	}
	child := &Node{
		ID:     NodeID(len(t.nodes)),
		Piece:  piece,
		From:   from,
		To:     to,
		Board:  board,
		Ply:    ply,
		Side:   p.Side.Opposite(),
		Parent: parent,
	}
	t.insert(child)
	p.Children = append(p.Children, child.ID)
	return child.ID, true
}

// AllMoves returns the moves leading from the root to id, in play order.
// The root itself is excluded.
func (t *Tree) AllMoves(id NodeID) []NodeID {
	var path []NodeID
	for cur := t.node(id); !cur.IsRoot(); cur = t.nodes[cur.Parent] {
		path = append(path, cur.ID)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

// Leaves returns the ids of all nodes without children, in creation order.
func (t *Tree) Leaves() []NodeID {
	var leaves []NodeID
	for _, n := range t.nodes {
		if len(n.Children) == 0 {
			leaves = append(leaves, n.ID)
		}
	}
	return leaves
}
