package patchers_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/decaf/pkg/parser/coffee"
	"github.com/yaklabco/decaf/pkg/patch"
	"github.com/yaklabco/decaf/pkg/patch/patchers"
	"github.com/yaklabco/decaf/pkg/syntax"
)

func newRegistry() *patch.Registry {
	reg := patch.NewRegistry()
	patchers.RegisterAll(reg)
	return reg
}

func buildTree(t *testing.T, src string) *patch.Tree {
	t.Helper()

	snap, err := coffee.New().Parse(context.Background(), "test.coffee", []byte(src))
	require.NoError(t, err)

	tree, err := patch.Build(snap, newRegistry())
	require.NoError(t, err)
	return tree
}

func convert(t *testing.T, src string) string {
	t.Helper()

	tree := buildTree(t, src)
	require.NoError(t, tree.Patch())

	out, err := tree.Output()
	require.NoError(t, err)
	return string(out)
}

// classMembers returns the member patchers of the first class in tree.
func classMembers(t *testing.T, tree *patch.Tree) []*patchers.ClassAssignOpPatcher {
	t.Helper()

	var out []*patchers.ClassAssignOpPatcher
	nodes := syntax.FindAll(tree.Snapshot().Root, func(n *syntax.Node) bool {
		return n.Kind == syntax.NodeClassProtoAssignOp
	})
	for _, n := range nodes {
		member, ok := tree.PatcherFor(n).(*patchers.ClassAssignOpPatcher)
		require.True(t, ok, "class member should use the ClassAssignOp variant")
		out = append(out, member)
	}
	return out
}

func TestClassAssignOp_Classification(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		src       string
		static    bool
		method    bool
		computed  bool
		bound     bool
		semicolon bool
	}{
		{
			name:   "this qualifier is static",
			src:    "class A\n  this.a: -> 1\n",
			static: true,
			method: true,
		},
		{
			name:   "at qualifier is static",
			src:    "class A\n  @a: -> 1\n",
			static: true,
			method: true,
		},
		{
			name:   "class name qualifier is static",
			src:    "class A\n  A.b: -> 1\n",
			static: true,
			method: true,
		},
		{
			name:      "other qualifier is a computed property",
			src:       "class A\n  foo.c: -> 1\n",
			computed:  true,
			semicolon: true,
		},
		{
			name:      "plain key with a value is a property",
			src:       "class A\n  name: null\n",
			semicolon: true,
		},
		{
			name:   "plain key with a function is a method",
			src:    "class A\n  run: (x) -> x\n",
			method: true,
		},
		{
			name:   "bound function value is a bound instance method",
			src:    "class A\n  b: => 1\n",
			method: true,
			bound:  true,
		},
		{
			name:   "static bound function is not bound",
			src:    "class A\n  @d: => 1\n",
			static: true,
			method: true,
		},
		{
			name:     "bracketed key is computed",
			src:      "class A\n  [key]: -> 1\n",
			method:   true,
			computed: true,
		},
		{
			name:   "string key is not computed",
			src:    "class A\n  'a-b': -> 1\n",
			method: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			members := classMembers(t, buildTree(t, tt.src))
			require.Len(t, members, 1)
			member := members[0]

			assert.Equal(t, tt.static, member.IsStaticMethod(), "static")
			assert.Equal(t, tt.method, member.IsMethod(), "method")
			assert.Equal(t, tt.computed, member.IsComputed(), "computed")
			assert.Equal(t, tt.bound, member.IsBoundInstanceMethod(), "bound")
			assert.Equal(t, tt.semicolon, member.StatementNeedsSemicolon(), "semicolon")

			assert.Equal(t, tt.static, patch.IsStaticMethod(member))
			assert.Equal(t, tt.method, patch.IsMethod(member))
			assert.Equal(t, tt.computed, patch.IsComputed(member))
		})
	}
}

func TestClassAssignOp_StaticNeverComputed(t *testing.T) {
	t.Parallel()

	members := classMembers(t, buildTree(t, "class A\n  @a: -> 1\n  A.b: -> 2\n  this.c: 3\n"))
	require.Len(t, members, 3)
	for _, member := range members {
		assert.True(t, member.IsStaticMethod())
		assert.False(t, member.IsComputed())
	}
}

func TestRegistry_BoundFunctionOverride(t *testing.T) {
	t.Parallel()

	tree := buildTree(t, "class A\n  b: => 1\n  @d: => 2\nf = => 3\n")
	bound := syntax.FindAll(tree.Snapshot().Root, func(n *syntax.Node) bool {
		return n.Kind == syntax.NodeBoundFunction
	})
	require.Len(t, bound, 3)

	assert.Equal(t, patchers.VariantClassBoundMethodFunction, tree.PatcherFor(bound[0]).Base().Variant())
	assert.Equal(t, patchers.VariantClassBoundMethodFunction, tree.PatcherFor(bound[1]).Base().Variant())
	assert.Equal(t, patchers.VariantBoundFunction, tree.PatcherFor(bound[2]).Base().Variant())

	instance, ok := tree.PatcherFor(bound[0]).(patch.Binder)
	require.True(t, ok)
	assert.Equal(t, "this.b = this.b.bind(this)", instance.BindingStatement())

	static, ok := tree.PatcherFor(bound[1]).(patch.Binder)
	require.True(t, ok)
	assert.Empty(t, static.BindingStatement())
}

func TestClassPatcher_Bindings(t *testing.T) {
	t.Parallel()

	tree := buildTree(t, "class A\n  a: => 1\n  'b': => 2\n  c: -> 3\n  @d: => 4\n  e: 5\n")
	classes := syntax.FindAll(tree.Snapshot().Root, func(n *syntax.Node) bool {
		return n.Kind == syntax.NodeClass
	})
	require.Len(t, classes, 1)

	class, ok := tree.PatcherFor(classes[0]).(*patchers.ClassPatcher)
	require.True(t, ok)
	assert.False(t, class.IsDerived())
	assert.Equal(t, []string{
		"this.a = this.a.bind(this)",
		"this['b'] = this['b'].bind(this)",
	}, class.Bindings())
}

func TestConvert_ClassMembers(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		src  string
		want string
	}{
		{
			name: "this qualified static method",
			src:  "class A\n  this.a: -> 1\n",
			want: "class A {\n  static a() { return 1; }\n}\n",
		},
		{
			name: "at qualified static method",
			src:  "class A\n  @a: -> 1\n",
			want: "class A {\n  static a() { return 1; }\n}\n",
		},
		{
			name: "class name qualified static method",
			src:  "class A\n  A.b: -> 1\n",
			want: "class A {\n  static b() { return 1; }\n}\n",
		},
		{
			name: "mismatched qualifier becomes a property",
			src:  "class A\n  foo.c: -> 1\n",
			want: "class A {\n  foo.c = function() { return 1; };\n}\n",
		},
		{
			name: "mismatched qualifier keeps its key text",
			src:  "class A\n  B.c: 2\n",
			want: "class A {\n  B.c = 2;\n}\n",
		},
		{
			name: "plain property",
			src:  "class A\n  name: null\n",
			want: "class A {\n  name = null;\n}\n",
		},
		{
			name: "bound method gets a synthesized constructor",
			src:  "class A\n  b: => 1\n",
			want: "class A {\n  constructor() {\n    this.b = this.b.bind(this);\n  }\n\n  b() { return 1; }\n}\n",
		},
		{
			name: "empty class",
			src:  "class A\n",
			want: "class A {}\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, convert(t, tt.src))
		})
	}
}

func TestConvert_DerivedConstructorBindsAfterSuper(t *testing.T) {
	t.Parallel()

	src := "class B extends A\n" +
		"  constructor: (x) ->\n" +
		"    super x\n" +
		"  m: => @x\n"
	want := "class B extends A {\n" +
		"  constructor(x) {\n" +
		"    super(x);\n" +
		"    this.m = this.m.bind(this);\n" +
		"  }\n" +
		"  m() { return this.x; }\n" +
		"}\n"

	assert.Equal(t, want, convert(t, src))
}

func TestConvert_SuperInMethod(t *testing.T) {
	t.Parallel()

	assert.Equal(t,
		"class B extends A {\n  m() { return super.m(...arguments); }\n}\n",
		convert(t, "class B extends A\n  m: -> super\n"))
}

func TestConvert_Statements(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		src  string
		want string
	}{
		{
			name: "first assignment declares",
			src:  "a = 1\n",
			want: "let a = 1;\n",
		},
		{
			name: "reassignment does not redeclare",
			src:  "a = 1\na = 2\n",
			want: "let a = 1;\na = 2;\n",
		},
		{
			name: "function expression",
			src:  "square = (x) -> x * x\n",
			want: "let square = function(x) { return x * x; };\n",
		},
		{
			name: "function body declares its own variables",
			src:  "f = ->\n  x = 1\n  x\n",
			want: "let f = function() {\n  let x = 1;\n  return x;\n};\n",
		},
		{
			name: "bound function",
			src:  "g = (a) => a\n",
			want: "let g = (a) => { return a; };\n",
		},
		{
			name: "this shorthand",
			src:  "f = -> @x\n",
			want: "let f = function() { return this.x; };\n",
		},
		{
			name: "implicit call",
			src:  "console.log a, b\n",
			want: "console.log(a, b);\n",
		},
		{
			name: "word operators",
			src:  "x = a is b and not c\n",
			want: "let x = a === b && !c;\n",
		},
		{
			name: "interpolated string",
			src:  "\"a#{b}c\"\n",
			want: "`a${b}c`;\n",
		},
		{
			name: "object method",
			src:  "o = {a: 1, b: -> 2}\n",
			want: "let o = {a: 1, b() { return 2; }};\n",
		},
		{
			name: "comments",
			src:  "# hi\nx = 1 # one\n",
			want: "// hi\nlet x = 1; // one\n",
		},
		{
			name: "existing semicolon is kept",
			src:  "a = 1;\n",
			want: "let a = 1;\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, convert(t, tt.src))
		})
	}
}

func TestConvert_ControlFlow(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		src  string
		want string
	}{
		{
			name: "if else",
			src:  "if a\n  b()\nelse\n  c()\n",
			want: "if (a) {\n  b();\n} else {\n  c();\n}\n",
		},
		{
			name: "unless then",
			src:  "unless a then b()\n",
			want: "if (!(a)) { b(); }\n",
		},
		{
			name: "conditional expression",
			src:  "x = if a then b else c\n",
			want: "let x = (a ? b : c);\n",
		},
		{
			name: "while loop",
			src:  "while a\n  b()\n",
			want: "while (a) {\n  b();\n}\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, convert(t, tt.src))
		})
	}
}

func TestConvert_CRLFLineEndings(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		src  string
		want string
	}{
		{
			name: "class body",
			src:  "class A\n  @a: -> 1\n  b: 2\n",
			want: "class A {\n  static a() { return 1; }\n  b = 2;\n}\n",
		},
		{
			name: "synthesized constructor",
			src:  "class A\n  b: => 1\n",
			want: "class A {\n  constructor() {\n    this.b = this.b.bind(this);\n  }\n\n  b() { return 1; }\n}\n",
		},
		{
			name: "bindings after super",
			src:  "class B extends A\n  constructor: (x) ->\n    super x\n  m: => @x\n",
			want: "class B extends A {\n  constructor(x) {\n    super(x);\n    this.m = this.m.bind(this);\n  }\n  m() { return this.x; }\n}\n",
		},
		{
			name: "function body",
			src:  "f = ->\n  x = 1\n  x\n",
			want: "let f = function() {\n  let x = 1;\n  return x;\n};\n",
		},
		{
			name: "if else",
			src:  "if a\n  b()\nelse\n  c()\n",
			want: "if (a) {\n  b();\n} else {\n  c();\n}\n",
		},
		{
			name: "trailing comment",
			src:  "while a\n  b() # go\n",
			want: "while (a) {\n  b(); // go\n}\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			src := strings.ReplaceAll(tt.src, "\n", "\r\n")
			want := strings.ReplaceAll(tt.want, "\n", "\r\n")
			assert.Equal(t, want, convert(t, src))
		})
	}
}

func TestConvert_MultiLineConditionalExpressionIsMalformed(t *testing.T) {
	t.Parallel()

	tree := buildTree(t, "x = if a\n  b\n")
	err := tree.Patch()
	require.Error(t, err)
	assert.True(t, errors.Is(err, patch.ErrMalformedContext))

	var malformed *patch.MalformedContextError
	require.True(t, errors.As(err, &malformed))
	assert.Equal(t, syntax.NodeConditional, malformed.Kind)
}

func TestConvert_Deterministic(t *testing.T) {
	t.Parallel()

	src := "class A extends B\n  @make: -> new A\n  run: => @go 1\n  size: 3\n"
	first := convert(t, src)
	for range 5 {
		assert.Equal(t, first, convert(t, src))
	}
}

func TestRegisterAll_CoversParserKinds(t *testing.T) {
	t.Parallel()

	reg := newRegistry()
	kinds := []syntax.NodeKind{
		syntax.NodeProgram, syntax.NodeBlock, syntax.NodeClass, syntax.NodeClassProtoAssignOp,
		syntax.NodeFunction, syntax.NodeBoundFunction, syntax.NodeIdentifier, syntax.NodeNumber,
		syntax.NodeString, syntax.NodeBool, syntax.NodeNull, syntax.NodeUndefined,
		syntax.NodeThis, syntax.NodeSuper, syntax.NodeMemberAccessOp, syntax.NodeProtoMemberAccessOp,
		syntax.NodeDynamicMemberAccessOp, syntax.NodeFunctionApplication, syntax.NodeNewOp,
		syntax.NodeAssignOp, syntax.NodeCompoundAssignOp, syntax.NodeBinaryOp, syntax.NodeUnaryOp,
		syntax.NodeConditional, syntax.NodeWhile, syntax.NodeReturn, syntax.NodeThrow,
		syntax.NodeObjectInitialiser, syntax.NodeObjectInitialiserMember, syntax.NodeArrayInitialiser,
		syntax.NodeComputedKey, syntax.NodeDefaultParam,
	}
	for _, kind := range kinds {
		_, err := reg.Resolve(syntax.NodeBlock, syntax.SlotStatement, kind)
		assert.NoError(t, err, kind.String())
	}
}
