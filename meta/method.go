package meta

import "fmt"

// Module is an opaque reference to a loaded module of managed code.
// Two methods belong to the same module iff they hold the same *Module.
type Module struct {
	Name string
}

// Method describes a managed method known to the engine.
type Method struct {
	Name        string
	Module      *Module
	Native      bool
	Static      bool
	Initializer bool

	// Body carries the method's managed code for the reference code
	// generator. Engine-backed registries may leave it nil.
	Body []byte
}

// Eligible reports whether the method qualifies for bootstrap warm-up:
// instance methods only, excluding native methods, static methods and
// initializers.
func (m *Method) Eligible() bool {
	return !m.Native && !m.Static && !m.Initializer
}

// FullName returns the method name qualified by its declaring module.
func (m *Method) FullName() string {
	if m.Module == nil {
		return m.Name
	}
	return fmt.Sprintf("%s.%s", m.Module.Name, m.Name)
}

// Registry resolves the method metadata the compiler core consumes.
type Registry interface {
	// BaseObjectMethods returns the instance and static methods declared on
	// the engine's universal base object type, in declaration order. Callers
	// filter for eligibility themselves.
	BaseObjectMethods() []*Method

	// ModuleOf resolves the declaring module of m.
	ModuleOf(m *Method) *Module
}

// StaticRegistry is a slice-backed Registry for tests and tooling.
type StaticRegistry struct {
	Methods []*Method
}

// NewStaticRegistry creates a registry over a fixed method set.
func NewStaticRegistry(methods ...*Method) *StaticRegistry {
	return &StaticRegistry{Methods: methods}
}

func (r *StaticRegistry) BaseObjectMethods() []*Method {
	return r.Methods
}

func (r *StaticRegistry) ModuleOf(m *Method) *Module {
	return m.Module
}
