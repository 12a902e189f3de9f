package template

// Template is an uncompiled statement tree.
type Template struct {
	Name string
	Body []Stmt
}

// New returns a named template.
func New(name string, body ...Stmt) *Template {
	return &Template{Name: name, Body: body}
}

// Stmt is a template statement.
type Stmt interface{ stmt() }

// Expr is a template expression.
type Expr interface{ expr() }

// Named is a named expression, as in name=value.
type Named struct {
	Name  string
	Value Expr
}

// N builds a Named.
func N(name string, value Expr) Named {
	return Named{Name: name, Value: value}
}

// Block is a nested statement list with its block parameters.
type Block struct {
	Params []string
	Body   []Stmt

	// Symbols holds the symbol of each param after compilation.
	Symbols []int
}

// TextStmt is static text.
type TextStmt struct{ Text string }

// CommentStmt is a static comment.
type CommentStmt struct{ Text string }

// AttrSpec is an element attribute. A single part is the attribute value;
// several parts are concatenated as strings.
type AttrSpec struct {
	Name  string
	Parts []Expr
}

// ModifierCall invokes an element modifier.
type ModifierCall struct {
	Name       string
	Positional []Expr
	Named      []Named
}

// ElementStmt is an element with attributes, modifiers and children.
type ElementStmt struct {
	Tag       string
	Attrs     []AttrSpec
	Splat     bool
	Modifiers []ModifierCall
	Children  []Stmt
}

// AppendStmt renders a value: a component definition renders the
// component, anything else renders as text.
type AppendStmt struct{ Value Expr }

// IfStmt renders Then when Cond is truthy, otherwise Inverse.
type IfStmt struct {
	Cond    Expr
	Unless  bool
	Then    []Stmt
	Inverse []Stmt
}

// EachStmt renders Body once per list item, keyed by Key.
type EachStmt struct {
	List    Expr
	Key     string
	Body    *Block
	Inverse []Stmt
}

// WithStmt binds a truthy value for Body, otherwise renders Inverse.
type WithStmt struct {
	Value   Expr
	Body    *Block
	Inverse []Stmt
}

// LetStmt binds values for Body unconditionally.
type LetStmt struct {
	Values []Expr
	Body   *Block
}

// InvokeStmt invokes a component, either by static Name or through a
// Dynamic expression producing a name, definition or curried definition.
type InvokeStmt struct {
	Name       string
	Dynamic    Expr
	Positional []Expr
	Named      []Named
	Attrs      []AttrSpec
	Modifiers  []ModifierCall
	Block      *Block
	Inverse    *Block
}

// YieldStmt renders the caller's block (or its inverse) with the given
// block arguments.
type YieldStmt struct {
	To         string
	Positional []Expr
}

// DynamicVarsStmt binds dynamic scope variables for Body.
type DynamicVarsStmt struct {
	Named []Named
	Body  []Stmt
}

func (*TextStmt) stmt()        {}
func (*CommentStmt) stmt()     {}
func (*ElementStmt) stmt()     {}
func (*AppendStmt) stmt()      {}
func (*IfStmt) stmt()          {}
func (*EachStmt) stmt()        {}
func (*WithStmt) stmt()        {}
func (*LetStmt) stmt()         {}
func (*InvokeStmt) stmt()      {}
func (*YieldStmt) stmt()       {}
func (*DynamicVarsStmt) stmt() {}

// LitExpr is a literal value.
type LitExpr struct{ Value any }

// PathExpr is an unresolved dotted path.
type PathExpr struct{ Path string }

// HelperExpr calls a helper: component, hash, concat, array or a
// registered one.
type HelperExpr struct {
	Name       string
	Positional []Expr
	Named      []Named
}

// HasBlockExpr is true when the component was invoked with the block.
type HasBlockExpr struct{ Block string }

// RootKind is where a resolved path starts.
type RootKind uint8

const (
	RootSelf RootKind = iota
	RootArg
	RootLocal
)

// String returns the string representation of the RootKind.
func (k RootKind) String() string {
	switch k {
	case RootSelf:
		return "self"
	case RootArg:
		return "arg"
	case RootLocal:
		return "local"
	default:
		return "unknown"
	}
}

// RefExpr is a resolved path. Compile replaces every PathExpr with one.
type RefExpr struct {
	Root   RootKind
	Name   string // argument or local name
	Symbol int    // local symbol
	Tail   []string
}

func (*LitExpr) expr()      {}
func (*PathExpr) expr()     {}
func (*HelperExpr) expr()   {}
func (*HasBlockExpr) expr() {}
func (*RefExpr) expr()      {}
