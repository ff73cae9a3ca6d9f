// Package patch implements the patcher framework: a tree of node-wrapping
// patchers that mirrors a parsed syntax tree, a registry that selects the
// patcher variant for each node from its structural context, and the
// single-pass lifecycle that lets every patcher record position-anchored
// edits into a shared ledger.
//
// # Lifecycle
//
// Build creates exactly one patcher per node, stored in an arena indexed
// by node ID. Tree.Patch invokes the root patcher, which patches its
// unclaimed children first and then runs its own Rewrite. A patcher moves
// through StateUnpatched, StatePatching and StatePatched; patching it a
// second time is a LifecycleError.
//
// # Ownership
//
// A patcher edits only its own node's range or its immediate boundary.
// A parent may claim a child in ClaimChildren, taking over the child's
// range instead of delegating to it; claimed children are never patched
// generically. The ledger rejects any edit that partially overlaps, or
// lands inside, an edit committed earlier.
//
// # Hooks
//
// Variants opt into the generic protocol by implementing the small hook
// interfaces (ComputedHook, TerminatorHook, MethodHook and friends).
// Containers query them through IsComputed, StatementNeedsSemicolon and
// the other package functions without knowing the concrete variant.
package patch
