package syntax_test

import (
	"testing"

	"github.com/yaklabco/decaf/pkg/syntax"
)

// buildTestTree builds:
//
//	Program
//	  Block
//	    AssignOp
//	      Identifier
//	      Number
func buildTestTree() *syntax.Node {
	var b syntax.Builder
	program := b.NewNode(syntax.NodeProgram, 0, 5)
	block := b.NewNode(syntax.NodeBlock, 0, 5)
	assign := b.NewNode(syntax.NodeAssignOp, 0, 5)
	ident := b.NewNode(syntax.NodeIdentifier, 0, 1)
	num := b.NewNode(syntax.NodeNumber, 4, 5)

	syntax.AppendChild(assign, syntax.SlotAssignee, ident)
	syntax.AppendChild(assign, syntax.SlotExpression, num)
	syntax.AppendChild(block, syntax.SlotStatement, assign)
	syntax.AppendChild(program, syntax.SlotBody, block)
	return program
}

func TestWalk(t *testing.T) {
	t.Parallel()

	var visited []syntax.NodeKind
	err := syntax.Walk(buildTestTree(), func(n *syntax.Node) error {
		visited = append(visited, n.Kind)
		return nil
	})
	if err != nil {
		t.Fatalf("Walk returned error: %v", err)
	}

	expected := []syntax.NodeKind{
		syntax.NodeProgram,
		syntax.NodeBlock,
		syntax.NodeAssignOp,
		syntax.NodeIdentifier,
		syntax.NodeNumber,
	}
	if len(visited) != len(expected) {
		t.Fatalf("expected %d nodes, got %d", len(expected), len(visited))
	}
	for i, kind := range expected {
		if visited[i] != kind {
			t.Errorf("node %d: expected %s, got %s", i, kind, visited[i])
		}
	}
}

func TestWalkWithContext_LeaveIsPostOrder(t *testing.T) {
	t.Parallel()

	var left []syntax.NodeKind
	err := syntax.WalkWithContext(buildTestTree(), nil, func(n *syntax.Node) error {
		left = append(left, n.Kind)
		return nil
	})
	if err != nil {
		t.Fatalf("WalkWithContext returned error: %v", err)
	}
	if left[0] != syntax.NodeIdentifier || left[len(left)-1] != syntax.NodeProgram {
		t.Errorf("unexpected leave order: %v", left)
	}
}

func TestNode_Child(t *testing.T) {
	t.Parallel()

	root := buildTestTree()
	assign := root.Child(syntax.SlotBody).Child(syntax.SlotStatement)

	if got := assign.Child(syntax.SlotAssignee); !got.Is(syntax.NodeIdentifier) {
		t.Errorf("assignee = %v, want Identifier", got)
	}
	if got := assign.Child(syntax.SlotKey); got != nil {
		t.Errorf("expected no key child, got %v", got)
	}
	if assign.Parent.Kind != syntax.NodeBlock {
		t.Errorf("parent = %s, want Block", assign.Parent.Kind)
	}
}

func TestFindByKind(t *testing.T) {
	t.Parallel()

	found := syntax.FindByKind(buildTestTree(), syntax.NodeNumber)
	if len(found) != 1 || found[0].Range.StartOffset != 4 {
		t.Errorf("FindByKind(Number) = %v", found)
	}
}

func TestInnermost(t *testing.T) {
	t.Parallel()

	got := syntax.Innermost(buildTestTree(), 4)
	if !got.Is(syntax.NodeNumber) {
		t.Errorf("Innermost(4) = %v, want Number", got)
	}
}

func TestNodeKind_String(t *testing.T) {
	t.Parallel()

	if got := syntax.NodeClassProtoAssignOp.String(); got != "ClassProtoAssignOp" {
		t.Errorf("String() = %q", got)
	}
	if got := syntax.NodeKind(999).String(); got != "Unknown" {
		t.Errorf("String() = %q, want Unknown", got)
	}
}
