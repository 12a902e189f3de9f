package component

import (
	"github.com/vango-dev/vtree/internal/errors"
	"github.com/vango-dev/vtree/pkg/args"
	"github.com/vango-dev/vtree/pkg/reactive"
	"github.com/vango-dev/vtree/pkg/schema"
	"github.com/vango-dev/vtree/pkg/template"
)

// CreateOptions carries what a manager needs from the invocation site.
type CreateOptions struct {
	ID    string
	Clock *reactive.Clock

	// Blocks names the blocks the invocation supplied.
	Blocks map[string]bool

	// Caller is the self of the invoking template, exposed to curly
	// components as targetObject.
	Caller *reactive.Object

	// DynamicScope reads a dynamic scope variable.
	DynamicScope func(name string) any
}

// Manager creates, updates and destroys instances of one kind.
type Manager interface {
	Kind() ManagerKind
	Capabilities() Capabilities

	// Create resolves a against the definition's params and builds the
	// instance. An argument conflict aborts before any state is built.
	Create(def *Definition, a args.Map, opts CreateOptions) (*Instance, error)

	// Layout returns the template the instance renders. A definition
	// without a template falls back to the instance's "layout" property.
	Layout(inst *Instance) *template.Template

	// Update pushes a's current values into the instance.
	Update(inst *Instance, a args.Map) error

	// Hook fires h if the kind supports hooks. Destroy hooks are handled
	// by Destroy.
	Hook(inst *Instance, h schema.Hook) error

	// Destroy tears the instance down. Destroying twice is a no-op.
	Destroy(inst *Instance) error
}

type manager struct {
	kind ManagerKind
	caps Capabilities
}

var managers = map[ManagerKind]*manager{
	KindCurly: {kind: KindCurly, caps: Capabilities{
		Wrapped: true, Hooks: true, ArgsAsProps: true, DynamicScope: true,
	}},
	KindGlimmer: {kind: KindGlimmer, caps: Capabilities{
		Hooks: true, Attributes: true, DynamicScope: true,
	}},
	KindBasic: {kind: KindBasic, caps: Capabilities{
		Attributes: true,
	}},
	KindTagless: {kind: KindTagless, caps: Capabilities{
		ArgsAsProps: true,
	}},
}

// ManagerFor returns the manager of kind k.
func ManagerFor(k ManagerKind) Manager {
	if m, ok := managers[k]; ok {
		return m
	}
	return managers[KindBasic]
}

func (m *manager) Kind() ManagerKind          { return m.kind }
func (m *manager) Capabilities() Capabilities { return m.caps }

func (m *manager) Create(def *Definition, a args.Map, opts CreateOptions) (*Instance, error) {
	resolved, err := args.Resolve(def.Params, a, def.Name)
	if err != nil {
		return nil, err
	}

	var values map[string]any
	opts.Clock.Untracked(func() {
		values, err = resolved.Values()
	})
	if err != nil {
		return nil, err
	}

	inst := newInstance(opts.ID, def, opts.Clock, resolved, opts.Blocks)
	inst.attrs = reactive.NewObject(opts.Clock, values)

	props := make(map[string]any, len(values)+2)
	if m.caps.ArgsAsProps {
		for k, v := range values {
			props[k] = v
		}
		props["attrs"] = inst.attrs
		props["targetObject"] = opts.Caller
	}
	if m.caps.DynamicScope && opts.DynamicScope != nil {
		for _, name := range def.FromDynamicScope {
			props[name] = opts.DynamicScope(name)
		}
	}
	inst.self = def.Schema().Instantiate(opts.Clock, props)

	if err := inst.Transition(StateCreated); err != nil {
		return nil, err
	}
	if err := m.Hook(inst, schema.HookInit); err != nil {
		return inst, err
	}
	return inst, nil
}

func (m *manager) Layout(inst *Instance) *template.Template {
	if inst.Def.Template != nil {
		return inst.Def.Template
	}
	if t, ok := inst.self.Peek("layout").(*template.Template); ok && t != nil {
		return t
	}
	return template.New(inst.Def.Name)
}

func (m *manager) Update(inst *Instance, a args.Map) error {
	resolved, err := args.Resolve(inst.Def.Params, a, inst.Def.Name)
	if err != nil {
		return err
	}
	var values map[string]any
	clock := inst.attrs.Clock()
	clock.Untracked(func() {
		values, err = resolved.Values()
	})
	if err != nil {
		return err
	}
	inst.args = resolved
	_ = clock.Tx(func() error {
		inst.attrs.SetProperties(values)
		if m.caps.ArgsAsProps {
			inst.self.SetProperties(values)
		}
		return nil
	})
	return nil
}

func (m *manager) Hook(inst *Instance, h schema.Hook) error {
	if !m.caps.Hooks || h == schema.HookDestroy {
		return nil
	}
	return m.run(inst, h)
}

func (m *manager) Destroy(inst *Instance) error {
	if inst.state == StateDestroying || inst.state == StateDestroyed {
		return nil
	}
	if err := inst.Transition(StateDestroying); err != nil {
		return err
	}
	err := m.run(inst, schema.HookDestroy)
	inst.state = StateDestroyed
	return err
}

func (m *manager) run(inst *Instance, h schema.Hook) error {
	if err := inst.Def.Schema().Run(h, inst); err != nil {
		return errors.New(errors.CodeHookFailure).WithSite(inst.Def.Name, string(h)).Wrap(err)
	}
	return nil
}
