package ast

type (
	// NodeID addresses one node in the arena.
	NodeID uint32
	// PayloadID addresses the kind-specific payload of a node.
	PayloadID uint32
)

const (
	NoNodeID    NodeID    = 0
	NoPayloadID PayloadID = 0
)

func (id NodeID) IsValid() bool    { return id != NoNodeID }
func (id PayloadID) IsValid() bool { return id != NoPayloadID }
