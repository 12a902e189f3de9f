package template

// Text builds static text.
func Text(s string) *TextStmt { return &TextStmt{Text: s} }

// Comment builds a static comment.
func Comment(s string) *CommentStmt { return &CommentStmt{Text: s} }

// El builds an element.
func El(tag string, children ...Stmt) *ElementStmt {
	return &ElementStmt{Tag: tag, Children: children}
}

// Attr adds an attribute.
func (e *ElementStmt) Attr(name string, parts ...Expr) *ElementStmt {
	e.Attrs = append(e.Attrs, AttrSpec{Name: name, Parts: parts})
	return e
}

// SplatAttributes applies the invocation's attributes after the element's own.
func (e *ElementStmt) SplatAttributes() *ElementStmt {
	e.Splat = true
	return e
}

// Modifier adds an element modifier.
func (e *ElementStmt) Modifier(name string, positional []Expr, named ...Named) *ElementStmt {
	e.Modifiers = append(e.Modifiers, ModifierCall{Name: name, Positional: positional, Named: named})
	return e
}

// Append renders a value.
func Append(v Expr) *AppendStmt { return &AppendStmt{Value: v} }

// If renders then when cond is truthy.
func If(cond Expr, then ...Stmt) *IfStmt { return &IfStmt{Cond: cond, Then: then} }

// Unless renders then when cond is falsy.
func Unless(cond Expr, then ...Stmt) *IfStmt {
	return &IfStmt{Cond: cond, Unless: true, Then: then}
}

// Else sets the inverse branch.
func (s *IfStmt) Else(body ...Stmt) *IfStmt {
	s.Inverse = body
	return s
}

// Each renders body for every item of list, binding the item to as.
func Each(list Expr, key, as string, body ...Stmt) *EachStmt {
	return &EachStmt{List: list, Key: key, Body: &Block{Params: []string{as}, Body: body}}
}

// WithIndex also binds the item index.
func (s *EachStmt) WithIndex(name string) *EachStmt {
	s.Body.Params = append(s.Body.Params, name)
	return s
}

// Else sets what renders for an empty list.
func (s *EachStmt) Else(body ...Stmt) *EachStmt {
	s.Inverse = body
	return s
}

// With binds value to as when it is truthy.
func With(value Expr, as string, body ...Stmt) *WithStmt {
	return &WithStmt{Value: value, Body: &Block{Params: []string{as}, Body: body}}
}

// Else sets what renders for a falsy value.
func (s *WithStmt) Else(body ...Stmt) *WithStmt {
	s.Inverse = body
	return s
}

// Let binds values to names.
func Let(values []Expr, names []string, body ...Stmt) *LetStmt {
	return &LetStmt{Values: values, Body: &Block{Params: names, Body: body}}
}

// Invoke invokes the component registered as name.
func Invoke(name string) *InvokeStmt { return &InvokeStmt{Name: name} }

// InvokeDynamic invokes whatever component v resolves to.
func InvokeDynamic(v Expr) *InvokeStmt { return &InvokeStmt{Dynamic: v} }

// Pos adds positional arguments.
func (s *InvokeStmt) Pos(exprs ...Expr) *InvokeStmt {
	s.Positional = append(s.Positional, exprs...)
	return s
}

// Arg adds a named argument.
func (s *InvokeStmt) Arg(name string, v Expr) *InvokeStmt {
	s.Named = append(s.Named, Named{Name: name, Value: v})
	return s
}

// Attr adds an attribute forwarded to the component's ...attributes.
func (s *InvokeStmt) Attr(name string, parts ...Expr) *InvokeStmt {
	s.Attrs = append(s.Attrs, AttrSpec{Name: name, Parts: parts})
	return s
}

// Modifier adds an element modifier. Components do not accept modifiers;
// Compile reports it.
func (s *InvokeStmt) Modifier(name string, positional []Expr, named ...Named) *InvokeStmt {
	s.Modifiers = append(s.Modifiers, ModifierCall{Name: name, Positional: positional, Named: named})
	return s
}

// WithBlock sets the default block and its parameters.
func (s *InvokeStmt) WithBlock(params []string, body ...Stmt) *InvokeStmt {
	s.Block = &Block{Params: params, Body: body}
	return s
}

// WithInverse sets the inverse block.
func (s *InvokeStmt) WithInverse(body ...Stmt) *InvokeStmt {
	s.Inverse = &Block{Body: body}
	return s
}

// Yield renders the caller's default block.
func Yield(positional ...Expr) *YieldStmt {
	return &YieldStmt{To: "default", Positional: positional}
}

// YieldInverse renders the caller's inverse block.
func YieldInverse(positional ...Expr) *YieldStmt {
	return &YieldStmt{To: "inverse", Positional: positional}
}

// WithDynamicVars binds dynamic scope variables for body.
func WithDynamicVars(named []Named, body ...Stmt) *DynamicVarsStmt {
	return &DynamicVarsStmt{Named: named, Body: body}
}

// Lit is a literal.
func Lit(v any) *LitExpr { return &LitExpr{Value: v} }

// Get is a path such as "@arg.name", "this.title", "item.id" or "title".
func Get(path string) *PathExpr { return &PathExpr{Path: path} }

// Call calls a helper.
func Call(name string, positional ...Expr) *HelperExpr {
	return &HelperExpr{Name: name, Positional: positional}
}

// With adds a named argument to the helper call.
func (h *HelperExpr) With(name string, v Expr) *HelperExpr {
	h.Named = append(h.Named, Named{Name: name, Value: v})
	return h
}

// Component curries a component: (component target positional... named...).
func Component(target Expr, positional ...Expr) *HelperExpr {
	return Call("component", append([]Expr{target}, positional...)...)
}

// Hash builds a map from named expressions.
func Hash(named ...Named) *HelperExpr {
	return &HelperExpr{Name: "hash", Named: named}
}

// Concat joins the string forms of parts.
func Concat(parts ...Expr) *HelperExpr {
	return Call("concat", parts...)
}

// Array builds a list.
func Array(items ...Expr) *HelperExpr {
	return Call("array", items...)
}

// HasBlock is true when the default block was supplied.
func HasBlock() *HasBlockExpr { return &HasBlockExpr{Block: "default"} }

// HasInverse is true when the inverse block was supplied.
func HasInverse() *HasBlockExpr { return &HasBlockExpr{Block: "inverse"} }
