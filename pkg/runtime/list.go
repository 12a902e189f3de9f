package runtime

import (
	"fmt"
	"reflect"
	"sort"

	"github.com/vango-dev/vtree/internal/errors"
	"github.com/vango-dev/vtree/pkg/reactive"
	"github.com/vango-dev/vtree/pkg/template"
	"github.com/vango-dev/vtree/pkg/vdom"
)

// itemKey identifies a list item. n counts earlier items with the same
// key, so duplicates stay distinct.
type itemKey struct {
	k any
	n int
}

// identity keys reference values by address.
type identity struct {
	t reflect.Type
	p uintptr
}

type eachItem struct {
	key   itemKey
	seq   int
	item  *reactive.UpdatableReference
	index *reactive.UpdatableReference
	block renderNode
}

// eachNode renders a block per list item. Items are matched across
// rerenders by key: retained items are moved and updated in place, never
// rebuilt.
type eachNode struct {
	stmt     *template.EachStmt
	scope    *scope
	parent   *vdom.Node
	list     reactive.Reference
	snapshot reactive.Revision
	items    []*eachItem
	empty    renderNode
	seq      int
}

func (n *eachNode) firstNode() *vdom.Node {
	if len(n.items) == 0 {
		return n.empty.firstNode()
	}
	return n.items[0].block.firstNode()
}

func (n *eachNode) lastNode() *vdom.Node {
	if len(n.items) == 0 {
		return n.empty.lastNode()
	}
	return n.items[len(n.items)-1].block.lastNode()
}

func (p *pass) buildEach(s *template.EachStmt, sc *scope, parent, before *vdom.Node) (*eachNode, error) {
	list, err := p.ref(sc, s.List)
	if err != nil {
		return nil, err
	}
	n := &eachNode{stmt: s, scope: sc, parent: parent, list: list}
	values, keys, err := n.read(p)
	if err != nil {
		return nil, err
	}
	if len(values) == 0 {
		if n.empty, err = p.buildBlock(s.Inverse, sc, parent, before); err != nil {
			return nil, err
		}
		return n, nil
	}
	for i, v := range values {
		it, err := n.buildItem(p, keys[i], i, v, before)
		if err != nil {
			for _, it := range n.items {
				p.remove(it.block)
			}
			return nil, err
		}
		n.items = append(n.items, it)
	}
	return n, nil
}

func (n *eachNode) read(p *pass) ([]any, []itemKey, error) {
	v, err := n.list.Value()
	if err != nil {
		return nil, nil, err
	}
	values, err := iterate(v)
	if err != nil {
		return nil, nil, err
	}
	keys, err := n.keys(values)
	if err != nil {
		return nil, nil, err
	}
	n.snapshot = p.stamp(n.list.Tag())
	return values, keys, nil
}

func (n *eachNode) buildItem(p *pass, key itemKey, i int, v any, before *vdom.Node) (*eachItem, error) {
	clock := p.env.clock
	n.seq++
	it := &eachItem{key: key, seq: n.seq, item: reactive.NewUpdatable(clock, v)}
	refs := []reactive.Reference{it.item}
	if len(n.stmt.Body.Symbols) > 1 {
		it.index = reactive.NewUpdatable(clock, i)
		refs = append(refs, it.index)
	}
	block, err := p.buildBlock(n.stmt.Body.Body, n.scope.bind(n.stmt.Body.Symbols, refs), n.parent, before)
	if err != nil {
		return nil, err
	}
	it.block = block
	return it, nil
}

func (n *eachNode) update(p *pass) {
	if !n.list.Tag().Validate(n.snapshot) {
		values, keys, err := n.read(p)
		if err != nil {
			p.fail(err)
		} else {
			n.reconcile(p, values, keys)
			return
		}
	}
	if len(n.items) == 0 {
		n.empty.update(p)
		return
	}
	for _, it := range n.items {
		it.block.update(p)
	}
}

// reconcile matches the current items against keys. Absent items are
// destroyed in the order they were created, retained items are moved into
// place and updated, and new items are built where they belong.
func (n *eachNode) reconcile(p *pass, values []any, keys []itemKey) {
	dom := p.env.dom
	after := n.lastNode().NextSibling()

	wanted := make(map[itemKey]bool, len(keys))
	for _, k := range keys {
		wanted[k] = true
	}
	kept := make(map[itemKey]*eachItem, len(n.items))
	var gone []*eachItem
	for _, it := range n.items {
		if wanted[it.key] {
			kept[it.key] = it
		} else {
			gone = append(gone, it)
		}
	}
	sort.Slice(gone, func(i, j int) bool { return gone[i].seq < gone[j].seq })
	for _, it := range gone {
		p.remove(it.block)
	}

	if len(keys) == 0 {
		n.items = nil
		if n.empty == nil {
			empty, err := p.buildBlock(n.stmt.Inverse, n.scope, n.parent, after)
			if err != nil {
				p.fail(err)
				empty = p.emptyBlock(n.parent, after)
			}
			n.empty = empty
		} else {
			n.empty.update(p)
		}
		p.env.logger.Debug("list emptied", "removed", len(gone))
		return
	}
	if n.empty != nil {
		p.remove(n.empty)
		n.empty = nil
	}

	// cursor is the first node of the earliest retained item not yet
	// placed; everything before it is in final order.
	cursor := after
	for _, it := range n.items {
		if kept[it.key] != nil {
			cursor = it.block.firstNode()
			break
		}
	}

	var created, moved int
	items := make([]*eachItem, 0, len(keys))
	for i, k := range keys {
		it, ok := kept[k]
		if !ok {
			built, err := n.buildItem(p, k, i, values[i], cursor)
			if err != nil {
				p.fail(err)
				continue
			}
			created++
			items = append(items, built)
			continue
		}
		if it.block.firstNode() == cursor {
			cursor = it.block.lastNode().NextSibling()
		} else {
			vdom.Move(dom, span(it.block), n.parent, cursor)
			moved++
		}
		it.item.Update(values[i])
		if it.index != nil {
			it.index.Update(i)
		}
		it.block.update(p)
		items = append(items, it)
	}
	n.items = items
	if len(n.items) == 0 {
		n.empty = p.emptyBlock(n.parent, after)
	}
	p.env.logger.Debug("list reconciled",
		"items", len(items),
		"created", created,
		"moved", moved,
		"removed", len(gone),
	)
}

func (n *eachNode) destroy(p *pass) {
	if len(n.items) == 0 {
		if n.empty != nil {
			n.empty.destroy(p)
		}
		return
	}
	for _, it := range n.items {
		it.block.destroy(p)
	}
}

func (n *eachNode) keys(values []any) ([]itemKey, error) {
	seen := make(map[any]int, len(values))
	out := make([]itemKey, len(values))
	for i, v := range values {
		k, err := n.keyFor(i, v)
		if err != nil {
			return nil, err
		}
		out[i] = itemKey{k: k, n: seen[k]}
		seen[k]++
	}
	return out, nil
}

func (n *eachNode) keyFor(i int, v any) (any, error) {
	switch n.stmt.Key {
	case template.KeyIndex:
		return i, nil
	case template.KeyPrimitive:
		return primitiveKey(v), nil
	case template.KeyIdentity:
		return identityKey(v), nil
	}
	field, err := reactive.Lookup(v, n.stmt.Key)
	if err != nil {
		return nil, err
	}
	return primitiveKey(field), nil
}

func primitiveKey(v any) any {
	if v == nil || reflect.ValueOf(v).Comparable() {
		return v
	}
	return fmt.Sprintf("%T:%v", v, v)
}

func identityKey(v any) any {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func, reflect.UnsafePointer:
		return identity{t: rv.Type(), p: rv.Pointer()}
	}
	return primitiveKey(v)
}

// iterate flattens a list value. nil iterates as empty.
func iterate(v any) ([]any, error) {
	switch t := v.(type) {
	case nil:
		return nil, nil
	case []any:
		return t, nil
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		out := make([]any, rv.Len())
		for i := range out {
			out[i] = rv.Index(i).Interface()
		}
		return out, nil
	}
	return nil, errors.New(errors.CodeInvalidTemplate).WithDetailf("cannot iterate over %T", v)
}
