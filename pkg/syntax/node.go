package syntax

// NodeKind classifies the type of a syntax node.
type NodeKind uint16

// Node kinds for the supported CoffeeScript constructs.
const (
	NodeProgram NodeKind = iota
	NodeBlock

	// Declarations and class bodies.
	NodeClass
	NodeClassProtoAssignOp
	NodeObjectInitialiser
	NodeObjectInitialiserMember
	NodeComputedKey

	// Assignment.
	NodeAssignOp
	NodeCompoundAssignOp

	// References.
	NodeIdentifier
	NodeThis
	NodeSuper
	NodeMemberAccessOp
	NodeProtoMemberAccessOp
	NodeDynamicMemberAccessOp

	// Functions and calls.
	NodeFunction
	NodeBoundFunction
	NodeDefaultParam
	NodeFunctionApplication
	NodeNewOp

	// Literals.
	NodeString
	NodeNumber
	NodeBool
	NodeNull
	NodeUndefined
	NodeArrayInitialiser

	// Operators.
	NodeBinaryOp
	NodeUnaryOp

	// Control flow.
	NodeConditional
	NodeWhile
	NodeReturn
	NodeThrow
)

var nodeKindNames = [...]string{
	NodeProgram:                 "Program",
	NodeBlock:                   "Block",
	NodeClass:                   "Class",
	NodeClassProtoAssignOp:      "ClassProtoAssignOp",
	NodeObjectInitialiser:       "ObjectInitialiser",
	NodeObjectInitialiserMember: "ObjectInitialiserMember",
	NodeComputedKey:             "ComputedKey",
	NodeAssignOp:                "AssignOp",
	NodeCompoundAssignOp:        "CompoundAssignOp",
	NodeIdentifier:              "Identifier",
	NodeThis:                    "This",
	NodeSuper:                   "Super",
	NodeMemberAccessOp:          "MemberAccessOp",
	NodeProtoMemberAccessOp:     "ProtoMemberAccessOp",
	NodeDynamicMemberAccessOp:   "DynamicMemberAccessOp",
	NodeFunction:                "Function",
	NodeBoundFunction:           "BoundFunction",
	NodeDefaultParam:            "DefaultParam",
	NodeFunctionApplication:     "FunctionApplication",
	NodeNewOp:                   "NewOp",
	NodeString:                  "String",
	NodeNumber:                  "Number",
	NodeBool:                    "Bool",
	NodeNull:                    "Null",
	NodeUndefined:               "Undefined",
	NodeArrayInitialiser:        "ArrayInitialiser",
	NodeBinaryOp:                "BinaryOp",
	NodeUnaryOp:                 "UnaryOp",
	NodeConditional:             "Conditional",
	NodeWhile:                   "While",
	NodeReturn:                  "Return",
	NodeThrow:                   "Throw",
}

func (k NodeKind) String() string {
	if int(k) < len(nodeKindNames) {
		return nodeKindNames[k]
	}
	return "Unknown"
}

// IsFunction reports whether the kind is one of the function forms.
func (k NodeKind) IsFunction() bool {
	return k == NodeFunction || k == NodeBoundFunction
}

// Slot names the structural property a child occupies in its parent.
type Slot uint8

// Child slots.
const (
	SlotNone Slot = iota
	SlotBody
	SlotStatement
	SlotName
	SlotSuperclass
	SlotKey
	SlotExpression
	SlotAssignee
	SlotParameter
	SlotDefault
	SlotArgument
	SlotFunction
	SlotCondition
	SlotConsequent
	SlotAlternate
	SlotLeft
	SlotRight
	SlotOperand
	SlotIndex
	SlotMember
	SlotElement
	SlotInterpolation
)

var slotNames = [...]string{
	SlotNone:          "none",
	SlotBody:          "body",
	SlotStatement:     "statement",
	SlotName:          "name",
	SlotSuperclass:    "superclass",
	SlotKey:           "key",
	SlotExpression:    "expression",
	SlotAssignee:      "assignee",
	SlotParameter:     "parameter",
	SlotDefault:       "default",
	SlotArgument:      "argument",
	SlotFunction:      "function",
	SlotCondition:     "condition",
	SlotConsequent:    "consequent",
	SlotAlternate:     "alternate",
	SlotLeft:          "left",
	SlotRight:         "right",
	SlotOperand:       "operand",
	SlotIndex:         "index",
	SlotMember:        "member",
	SlotElement:       "element",
	SlotInterpolation: "interpolation",
}

func (s Slot) String() string {
	if int(s) < len(slotNames) {
		return slotNames[s]
	}
	return "unknown"
}

// Node is an immutable syntax tree node.
type Node struct {
	// ID is unique within a file and dense from zero.
	ID int

	// Kind identifies what type of node this is.
	Kind NodeKind

	// Range is the node's byte span in the source.
	Range SourceRange

	// Data carries kind-specific text: identifier names, member names,
	// operator spellings, literal text, the quote character of strings.
	Data string

	// Slot is the property this node occupies in its parent.
	Slot Slot

	// Shorthand marks '@' forms of This and member access, and inline
	// (same-line) function bodies.
	Shorthand bool

	// Parenthesized marks nodes written inside grouping parentheses; Range
	// then includes the parentheses.
	Parenthesized bool

	// Parent is a non-owning back-reference; nil for the root.
	Parent *Node

	// Children are ordered by source position.
	Children []*Node
}

// Child returns the first child occupying slot, or nil.
func (n *Node) Child(slot Slot) *Node {
	if n == nil {
		return nil
	}
	for _, child := range n.Children {
		if child.Slot == slot {
			return child
		}
	}
	return nil
}

// ChildrenIn returns all children occupying slot, in order.
func (n *Node) ChildrenIn(slot Slot) []*Node {
	if n == nil {
		return nil
	}
	var out []*Node
	for _, child := range n.Children {
		if child.Slot == slot {
			out = append(out, child)
		}
	}
	return out
}

// Is reports whether n is non-nil and of the given kind.
func (n *Node) Is(kind NodeKind) bool {
	return n != nil && n.Kind == kind
}

// HasChildren returns true if this node has any children.
func (n *Node) HasChildren() bool {
	return len(n.Children) > 0
}

// Start returns the first byte offset of the node.
func (n *Node) Start() int {
	return n.Range.StartOffset
}

// End returns the byte offset just after the node.
func (n *Node) End() int {
	return n.Range.EndOffset
}
