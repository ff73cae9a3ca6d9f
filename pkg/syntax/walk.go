package syntax

// WalkFunc is the function signature for Walk callbacks.
// Return a non-nil error to stop the walk.
type WalkFunc func(n *Node) error

// Walk performs a pre-order traversal of the tree starting at root.
// If walkFunc returns a non-nil error, the walk stops and returns it.
func Walk(root *Node, walkFunc WalkFunc) error {
	if root == nil {
		return nil
	}
	if err := walkFunc(root); err != nil {
		return err
	}
	for _, child := range root.Children {
		if err := Walk(child, walkFunc); err != nil {
			return err
		}
	}
	return nil
}

// WalkWithContext performs a traversal with enter and leave callbacks.
// Enter is called before visiting children, leave is called after.
// Either callback may be nil.
func WalkWithContext(root *Node, enter, leave WalkFunc) error {
	if root == nil {
		return nil
	}
	if enter != nil {
		if err := enter(root); err != nil {
			return err
		}
	}
	for _, child := range root.Children {
		if err := WalkWithContext(child, enter, leave); err != nil {
			return err
		}
	}
	if leave != nil {
		if err := leave(root); err != nil {
			return err
		}
	}
	return nil
}

// FindAll returns all nodes matching the predicate.
func FindAll(root *Node, predicate func(n *Node) bool) []*Node {
	var result []*Node

	//nolint:errcheck,revive // Walk only returns nil errors in this usage
	Walk(root, func(node *Node) error {
		if predicate(node) {
			result = append(result, node)
		}
		return nil
	})

	return result
}

// FindFirst returns the first node matching the predicate, or nil if none found.
func FindFirst(root *Node, predicate func(n *Node) bool) *Node {
	var found *Node

	//nolint:errcheck,revive // errStopWalk is expected and intentionally ignored
	Walk(root, func(node *Node) error {
		if predicate(node) {
			found = node
			return errStopWalk
		}
		return nil
	})

	return found
}

// FindByKind returns all nodes of the specified kind.
func FindByKind(root *Node, kind NodeKind) []*Node {
	return FindAll(root, func(n *Node) bool {
		return n.Kind == kind
	})
}

// Innermost returns the deepest node under root whose range contains offset.
func Innermost(root *Node, offset int) *Node {
	if root == nil || !root.Range.Contains(offset) {
		return nil
	}
	for _, child := range root.Children {
		if found := Innermost(child, offset); found != nil {
			return found
		}
	}
	return root
}

// errStopWalk is a sentinel error used to stop walking early.
var errStopWalk = &stopWalkError{}

type stopWalkError struct{}

func (e *stopWalkError) Error() string {
	return "stop walk"
}
