package vdom

import "fmt"

// PatchOp is the type of a journaled DOM operation.
type PatchOp uint8

const (
	PatchSetText    PatchOp = 0x01 // Update text or comment content
	PatchSetAttr    PatchOp = 0x02 // Set/update attribute
	PatchRemoveAttr PatchOp = 0x03 // Remove attribute
	PatchInsertNode PatchOp = 0x04 // Insert a detached node
	PatchRemoveNode PatchOp = 0x05 // Remove node
	PatchMoveNode   PatchOp = 0x06 // Move an attached node to a new position
)

// String returns the string representation of the PatchOp.
func (op PatchOp) String() string {
	switch op {
	case PatchSetText:
		return "SetText"
	case PatchSetAttr:
		return "SetAttr"
	case PatchRemoveAttr:
		return "RemoveAttr"
	case PatchInsertNode:
		return "InsertNode"
	case PatchRemoveNode:
		return "RemoveNode"
	case PatchMoveNode:
		return "MoveNode"
	default:
		return "Unknown"
	}
}

// Patch is a single DOM operation recorded by a Document.
type Patch struct {
	Op       PatchOp
	NodeID   uint64 // Target node
	ParentID uint64 // Parent for InsertNode/MoveNode
	BeforeID uint64 // Reference sibling for InsertNode/MoveNode, 0 to append
	Key      string // Attribute name (for SetAttr/RemoveAttr)
	Value    string // New text or attribute value
}

func (p Patch) String() string {
	switch p.Op {
	case PatchSetText:
		return fmt.Sprintf("%s #%d %q", p.Op, p.NodeID, p.Value)
	case PatchSetAttr:
		return fmt.Sprintf("%s #%d %s=%q", p.Op, p.NodeID, p.Key, p.Value)
	case PatchRemoveAttr:
		return fmt.Sprintf("%s #%d %s", p.Op, p.NodeID, p.Key)
	case PatchInsertNode, PatchMoveNode:
		return fmt.Sprintf("%s #%d into #%d before #%d", p.Op, p.NodeID, p.ParentID, p.BeforeID)
	default:
		return fmt.Sprintf("%s #%d", p.Op, p.NodeID)
	}
}
