// Package template defines vtree's template trees and compiles them into
// layouts the runtime can render.
//
// Templates are built with Go constructors rather than parsed from markup:
//
//	tmpl := template.New("item-list",
//	    template.El("ul",
//	        template.Each(template.Get("@items"), "id", "item",
//	            template.El("li",
//	                template.Append(template.Get("item.id")),
//	                template.Text(": "),
//	                template.Yield(template.Get("item")),
//	            ),
//	        ),
//	    ),
//	)
//
//	layout, err := template.Compile(tmpl)
//
// Compile resolves every path against the block parameters in scope,
// assigning each local a symbol, and rejects structurally invalid trees
// such as element modifiers on component invocations.
//
// Path roots:
//
//	@name      a named argument of the component being rendered
//	this.name  a property of self
//	local      a block parameter (each/with/let/yield "as" names)
//	name       a property of self when no local of that name is in scope
package template
