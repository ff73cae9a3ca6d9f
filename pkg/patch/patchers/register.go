package patchers

import (
	"github.com/yaklabco/decaf/pkg/patch"
	"github.com/yaklabco/decaf/pkg/syntax"
)

// Variant names reported by 'decaf patchers'.
const (
	VariantProgram                  = "Program"
	VariantBlock                    = "Block"
	VariantClass                    = "Class"
	VariantClassAssignOp            = "ClassAssignOp"
	VariantClassBoundMethodFunction = "ClassBoundMethodFunction"
	VariantObjectInitialiser        = "ObjectInitialiser"
	VariantObjectInitialiserMember  = "ObjectInitialiserMember"
	VariantFunction                 = "Function"
	VariantBoundFunction            = "BoundFunction"
	VariantFunctionApplication      = "FunctionApplication"
	VariantNewOp                    = "NewOp"
	VariantThis                     = "This"
	VariantSuper                    = "Super"
	VariantMemberAccessOp           = "MemberAccessOp"
	VariantProtoMemberAccessOp      = "ProtoMemberAccessOp"
	VariantString                   = "String"
	VariantBool                     = "Bool"
	VariantArrayInitialiser         = "ArrayInitialiser"
	VariantBinaryOp                 = "BinaryOp"
	VariantUnaryOp                  = "UnaryOp"
	VariantCompoundAssignOp         = "CompoundAssignOp"
	VariantConditional              = "Conditional"
	VariantWhile                    = "While"
	VariantPassthrough              = "Passthrough"
)

// passthroughKinds are constructs whose CoffeeScript text is valid
// JavaScript once their children are patched.
//
//nolint:gochecknoglobals // read-only list
var passthroughKinds = []syntax.NodeKind{
	syntax.NodeComputedKey,
	syntax.NodeAssignOp,
	syntax.NodeIdentifier,
	syntax.NodeDynamicMemberAccessOp,
	syntax.NodeDefaultParam,
	syntax.NodeNumber,
	syntax.NodeNull,
	syntax.NodeUndefined,
	syntax.NodeReturn,
	syntax.NodeThrow,
}

// RegisterAll registers every built-in variant with the given registry.
func RegisterAll(registry *patch.Registry) {
	// Structure
	registry.Register(syntax.NodeProgram, patch.Entry{Variant: VariantProgram, New: func(b *patch.NodePatcher) patch.Patcher {
		return &ProgramPatcher{b}
	}})
	registry.Register(syntax.NodeBlock, patch.Entry{Variant: VariantBlock, New: func(b *patch.NodePatcher) patch.Patcher {
		return &BlockPatcher{b}
	}})

	// Classes and object bodies
	registry.Register(syntax.NodeClass, patch.Entry{Variant: VariantClass, New: func(b *patch.NodePatcher) patch.Patcher {
		return &ClassPatcher{b}
	}})
	registry.Register(syntax.NodeClassProtoAssignOp, patch.Entry{Variant: VariantClassAssignOp, New: func(b *patch.NodePatcher) patch.Patcher {
		return &ClassAssignOpPatcher{ObjectBodyMember{b}}
	}})
	registry.Register(syntax.NodeObjectInitialiser, patch.Entry{Variant: VariantObjectInitialiser, New: func(b *patch.NodePatcher) patch.Patcher {
		return &ObjectInitialiserPatcher{b}
	}})
	registry.Register(syntax.NodeObjectInitialiserMember, patch.Entry{Variant: VariantObjectInitialiserMember, New: func(b *patch.NodePatcher) patch.Patcher {
		return &ObjectInitialiserMemberPatcher{ObjectBodyMember{b}}
	}})

	// Functions and calls
	registry.Register(syntax.NodeFunction, patch.Entry{Variant: VariantFunction, New: func(b *patch.NodePatcher) patch.Patcher {
		return &FunctionPatcher{b}
	}})
	registry.Register(syntax.NodeBoundFunction, patch.Entry{Variant: VariantBoundFunction, New: func(b *patch.NodePatcher) patch.Patcher {
		return &BoundFunctionPatcher{FunctionPatcher{b}}
	}})
	registry.RegisterChildOverride(syntax.NodeClassProtoAssignOp, syntax.SlotExpression, syntax.NodeBoundFunction,
		patch.Entry{Variant: VariantClassBoundMethodFunction, New: func(b *patch.NodePatcher) patch.Patcher {
			return &ClassBoundMethodFunctionPatcher{FunctionPatcher{b}}
		}})
	registry.Register(syntax.NodeFunctionApplication, patch.Entry{Variant: VariantFunctionApplication, New: func(b *patch.NodePatcher) patch.Patcher {
		return &FunctionApplicationPatcher{b}
	}})
	registry.Register(syntax.NodeNewOp, patch.Entry{Variant: VariantNewOp, New: func(b *patch.NodePatcher) patch.Patcher {
		return &NewOpPatcher{b}
	}})

	// References
	registry.Register(syntax.NodeThis, patch.Entry{Variant: VariantThis, New: func(b *patch.NodePatcher) patch.Patcher {
		return &ThisPatcher{b}
	}})
	registry.Register(syntax.NodeSuper, patch.Entry{Variant: VariantSuper, New: func(b *patch.NodePatcher) patch.Patcher {
		return &SuperPatcher{b}
	}})
	registry.Register(syntax.NodeMemberAccessOp, patch.Entry{Variant: VariantMemberAccessOp, New: func(b *patch.NodePatcher) patch.Patcher {
		return &MemberAccessOpPatcher{b}
	}})
	registry.Register(syntax.NodeProtoMemberAccessOp, patch.Entry{Variant: VariantProtoMemberAccessOp, New: func(b *patch.NodePatcher) patch.Patcher {
		return &ProtoMemberAccessOpPatcher{b}
	}})

	// Literals
	registry.Register(syntax.NodeString, patch.Entry{Variant: VariantString, New: func(b *patch.NodePatcher) patch.Patcher {
		return &StringPatcher{b}
	}})
	registry.Register(syntax.NodeBool, patch.Entry{Variant: VariantBool, New: func(b *patch.NodePatcher) patch.Patcher {
		return &BoolPatcher{b}
	}})
	registry.Register(syntax.NodeArrayInitialiser, patch.Entry{Variant: VariantArrayInitialiser, New: func(b *patch.NodePatcher) patch.Patcher {
		return &ArrayInitialiserPatcher{b}
	}})

	// Operators
	registry.Register(syntax.NodeBinaryOp, patch.Entry{Variant: VariantBinaryOp, New: func(b *patch.NodePatcher) patch.Patcher {
		return &BinaryOpPatcher{b}
	}})
	registry.Register(syntax.NodeUnaryOp, patch.Entry{Variant: VariantUnaryOp, New: func(b *patch.NodePatcher) patch.Patcher {
		return &UnaryOpPatcher{b}
	}})
	registry.Register(syntax.NodeCompoundAssignOp, patch.Entry{Variant: VariantCompoundAssignOp, New: func(b *patch.NodePatcher) patch.Patcher {
		return &CompoundAssignOpPatcher{b}
	}})

	// Control flow
	registry.Register(syntax.NodeConditional, patch.Entry{Variant: VariantConditional, New: func(b *patch.NodePatcher) patch.Patcher {
		return &ConditionalPatcher{b}
	}})
	registry.Register(syntax.NodeWhile, patch.Entry{Variant: VariantWhile, New: func(b *patch.NodePatcher) patch.Patcher {
		return &WhilePatcher{b}
	}})

	passthrough := patch.Entry{Variant: VariantPassthrough, New: func(b *patch.NodePatcher) patch.Patcher {
		return &PassthroughPatcher{b}
	}}
	for _, kind := range passthroughKinds {
		registry.Register(kind, passthrough)
	}
}

// init registers all built-in variants with the default registry.
//
//nolint:gochecknoinits // Init is intentional for automatic variant registration
func init() {
	RegisterAll(patch.DefaultRegistry)
}
