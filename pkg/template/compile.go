package template

import (
	"fmt"
	"strings"

	"github.com/vango-dev/vtree/internal/errors"
)

// List key modes. Any other non-empty key names a field of each item.
const (
	KeyPrimitive = "@primitive"
	KeyIdentity  = "@identity"
	KeyIndex     = "@index"
)

var (
	// ErrStructuralCompile matches structurally invalid templates.
	ErrStructuralCompile = errors.New(errors.CodeStructuralCompile)

	// ErrInvalidTemplate matches statements or expressions the compiler
	// does not understand.
	ErrInvalidTemplate = errors.New(errors.CodeInvalidTemplate)
)

// Layout is a compiled template.
type Layout struct {
	Name string
	Body []Stmt

	// Symbols names every local by symbol.
	Symbols []string

	// Yields reports whether the layout yields to a block.
	Yields bool
}

type compiler struct {
	name    string
	symbols []string
	scopes  []map[string]int
	yields  bool
}

// Compile resolves t into a Layout. t itself is not modified.
func Compile(t *Template) (*Layout, error) {
	c := &compiler{name: t.Name}
	body, err := c.stmts(t.Body)
	if err != nil {
		return nil, err
	}
	return &Layout{Name: t.Name, Body: body, Symbols: c.symbols, Yields: c.yields}, nil
}

// MustCompile is like Compile but panics on error.
func MustCompile(t *Template) *Layout {
	l, err := Compile(t)
	if err != nil {
		panic(err)
	}
	return l
}

func (c *compiler) structural(slot, detail string) error {
	return errors.New(errors.CodeStructuralCompile).WithSite(c.name, slot).WithDetail(detail)
}

func (c *compiler) invalid(format string, args ...any) error {
	return errors.New(errors.CodeInvalidTemplate).WithSite(c.name, "").WithDetailf(format, args...)
}

func (c *compiler) push(params []string) []int {
	scope := make(map[string]int, len(params))
	syms := make([]int, len(params))
	for i, p := range params {
		sym := len(c.symbols)
		c.symbols = append(c.symbols, p)
		scope[p] = sym
		syms[i] = sym
	}
	c.scopes = append(c.scopes, scope)
	return syms
}

func (c *compiler) pop() {
	c.scopes = c.scopes[:len(c.scopes)-1]
}

func (c *compiler) lookup(name string) (int, bool) {
	for i := len(c.scopes) - 1; i >= 0; i-- {
		if sym, ok := c.scopes[i][name]; ok {
			return sym, true
		}
	}
	return 0, false
}

func (c *compiler) block(b *Block) (*Block, error) {
	if b == nil {
		return nil, nil
	}
	syms := c.push(b.Params)
	defer c.pop()
	body, err := c.stmts(b.Body)
	if err != nil {
		return nil, err
	}
	return &Block{Params: b.Params, Body: body, Symbols: syms}, nil
}

func (c *compiler) stmts(in []Stmt) ([]Stmt, error) {
	out := make([]Stmt, 0, len(in))
	for _, s := range in {
		cs, err := c.stmt(s)
		if err != nil {
			return nil, err
		}
		out = append(out, cs)
	}
	return out, nil
}

func (c *compiler) stmt(s Stmt) (Stmt, error) {
	switch s := s.(type) {
	case *TextStmt:
		return s, nil
	case *CommentStmt:
		return s, nil

	case *ElementStmt:
		if s.Tag == "" {
			return nil, c.invalid("element without a tag name")
		}
		attrs, err := c.attrs(s.Attrs)
		if err != nil {
			return nil, err
		}
		mods, err := c.modifiers(s.Modifiers)
		if err != nil {
			return nil, err
		}
		children, err := c.stmts(s.Children)
		if err != nil {
			return nil, err
		}
		return &ElementStmt{Tag: s.Tag, Attrs: attrs, Splat: s.Splat, Modifiers: mods, Children: children}, nil

	case *AppendStmt:
		v, err := c.expr(s.Value)
		if err != nil {
			return nil, err
		}
		return &AppendStmt{Value: v}, nil

	case *IfStmt:
		cond, err := c.expr(s.Cond)
		if err != nil {
			return nil, err
		}
		then, err := c.stmts(s.Then)
		if err != nil {
			return nil, err
		}
		inv, err := c.stmts(s.Inverse)
		if err != nil {
			return nil, err
		}
		return &IfStmt{Cond: cond, Unless: s.Unless, Then: then, Inverse: inv}, nil

	case *EachStmt:
		if err := c.checkKey(s.Key); err != nil {
			return nil, err
		}
		list, err := c.expr(s.List)
		if err != nil {
			return nil, err
		}
		if s.Body == nil || len(s.Body.Params) == 0 || len(s.Body.Params) > 2 {
			return nil, c.invalid("each needs an item name and an optional index name")
		}
		body, err := c.block(s.Body)
		if err != nil {
			return nil, err
		}
		inv, err := c.stmts(s.Inverse)
		if err != nil {
			return nil, err
		}
		return &EachStmt{List: list, Key: s.Key, Body: body, Inverse: inv}, nil

	case *WithStmt:
		v, err := c.expr(s.Value)
		if err != nil {
			return nil, err
		}
		if s.Body == nil || len(s.Body.Params) != 1 {
			return nil, c.invalid("with binds exactly one name")
		}
		body, err := c.block(s.Body)
		if err != nil {
			return nil, err
		}
		inv, err := c.stmts(s.Inverse)
		if err != nil {
			return nil, err
		}
		return &WithStmt{Value: v, Body: body, Inverse: inv}, nil

	case *LetStmt:
		values, err := c.exprs(s.Values)
		if err != nil {
			return nil, err
		}
		if s.Body == nil {
			return nil, c.invalid("let without a body")
		}
		if len(s.Body.Params) != len(values) {
			return nil, c.invalid("let binds %d values to %d names", len(values), len(s.Body.Params))
		}
		body, err := c.block(s.Body)
		if err != nil {
			return nil, err
		}
		return &LetStmt{Values: values, Body: body}, nil

	case *InvokeStmt:
		return c.invoke(s)

	case *YieldStmt:
		if s.To != "default" && s.To != "inverse" {
			return nil, c.invalid("cannot yield to block %q", s.To)
		}
		pos, err := c.exprs(s.Positional)
		if err != nil {
			return nil, err
		}
		c.yields = true
		return &YieldStmt{To: s.To, Positional: pos}, nil

	case *DynamicVarsStmt:
		named, err := c.named(s.Named)
		if err != nil {
			return nil, err
		}
		body, err := c.stmts(s.Body)
		if err != nil {
			return nil, err
		}
		return &DynamicVarsStmt{Named: named, Body: body}, nil

	case nil:
		return nil, c.invalid("nil statement")
	}
	return nil, c.invalid("unknown statement %T", s)
}

func (c *compiler) invoke(s *InvokeStmt) (Stmt, error) {
	target := s.Name
	if target == "" {
		target = "component"
	}
	if len(s.Modifiers) > 0 {
		return nil, c.structural(target, "Element modifiers are not allowed in components")
	}
	if s.Name == "" && s.Dynamic == nil {
		return nil, c.invalid("component invocation without a name")
	}
	out := &InvokeStmt{Name: s.Name}
	var err error
	if s.Dynamic != nil {
		if out.Dynamic, err = c.expr(s.Dynamic); err != nil {
			return nil, err
		}
	}
	if out.Positional, err = c.exprs(s.Positional); err != nil {
		return nil, err
	}
	if out.Named, err = c.named(s.Named); err != nil {
		return nil, err
	}
	if out.Attrs, err = c.attrs(s.Attrs); err != nil {
		return nil, err
	}
	if out.Block, err = c.block(s.Block); err != nil {
		return nil, err
	}
	if out.Inverse, err = c.block(s.Inverse); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *compiler) checkKey(key string) error {
	switch {
	case key == KeyPrimitive, key == KeyIdentity, key == KeyIndex:
		return nil
	case key == "":
		return errors.New(errors.CodeUnknownKeyMode).WithSite(c.name, "key").
			WithDetail("each requires a key")
	case strings.HasPrefix(key, "@"):
		return errors.New(errors.CodeUnknownKeyMode).WithSite(c.name, "key").
			WithDetailf("unknown key mode %q", key)
	}
	return nil
}

func (c *compiler) attrs(in []AttrSpec) ([]AttrSpec, error) {
	out := make([]AttrSpec, 0, len(in))
	for _, a := range in {
		if a.Name == "" {
			return nil, c.invalid("attribute without a name")
		}
		parts, err := c.exprs(a.Parts)
		if err != nil {
			return nil, err
		}
		out = append(out, AttrSpec{Name: a.Name, Parts: parts})
	}
	return out, nil
}

func (c *compiler) modifiers(in []ModifierCall) ([]ModifierCall, error) {
	out := make([]ModifierCall, 0, len(in))
	for _, m := range in {
		pos, err := c.exprs(m.Positional)
		if err != nil {
			return nil, err
		}
		named, err := c.named(m.Named)
		if err != nil {
			return nil, err
		}
		out = append(out, ModifierCall{Name: m.Name, Positional: pos, Named: named})
	}
	return out, nil
}

func (c *compiler) named(in []Named) ([]Named, error) {
	out := make([]Named, 0, len(in))
	for _, n := range in {
		v, err := c.expr(n.Value)
		if err != nil {
			return nil, err
		}
		out = append(out, Named{Name: n.Name, Value: v})
	}
	return out, nil
}

func (c *compiler) exprs(in []Expr) ([]Expr, error) {
	out := make([]Expr, 0, len(in))
	for _, e := range in {
		ce, err := c.expr(e)
		if err != nil {
			return nil, err
		}
		out = append(out, ce)
	}
	return out, nil
}

func (c *compiler) expr(e Expr) (Expr, error) {
	switch e := e.(type) {
	case *LitExpr:
		return e, nil
	case *HasBlockExpr:
		if e.Block != "default" && e.Block != "inverse" {
			return nil, c.invalid("unknown block %q", e.Block)
		}
		return e, nil
	case *RefExpr:
		return e, nil
	case *PathExpr:
		return c.resolve(e.Path)
	case *HelperExpr:
		if e.Name == "" {
			return nil, c.invalid("helper call without a name")
		}
		if e.Name == "component" && len(e.Positional) == 0 {
			return nil, c.invalid("component helper needs a target")
		}
		pos, err := c.exprs(e.Positional)
		if err != nil {
			return nil, err
		}
		named, err := c.named(e.Named)
		if err != nil {
			return nil, err
		}
		return &HelperExpr{Name: e.Name, Positional: pos, Named: named}, nil
	case nil:
		return nil, c.invalid("nil expression")
	}
	return nil, c.invalid("unknown expression %T", e)
}

func (c *compiler) resolve(path string) (Expr, error) {
	if path == "" {
		return nil, c.invalid("empty path")
	}
	parts := strings.Split(path, ".")
	for _, p := range parts {
		if p == "" {
			return nil, c.invalid("malformed path %q", path)
		}
	}
	head, tail := parts[0], parts[1:]
	switch {
	case strings.HasPrefix(head, "@"):
		if len(head) == 1 {
			return nil, c.invalid("malformed argument path %q", path)
		}
		return &RefExpr{Root: RootArg, Name: head[1:], Tail: tail}, nil
	case head == "this":
		return &RefExpr{Root: RootSelf, Tail: tail}, nil
	}
	if sym, ok := c.lookup(head); ok {
		return &RefExpr{Root: RootLocal, Name: head, Symbol: sym, Tail: tail}, nil
	}
	return &RefExpr{Root: RootSelf, Tail: parts}, nil
}

// String renders a resolved path for diagnostics.
func (r *RefExpr) String() string {
	var b strings.Builder
	switch r.Root {
	case RootArg:
		b.WriteString("@" + r.Name)
	case RootLocal:
		fmt.Fprintf(&b, "%s#%d", r.Name, r.Symbol)
	default:
		b.WriteString("this")
	}
	for _, t := range r.Tail {
		b.WriteString("." + t)
	}
	return b.String()
}
