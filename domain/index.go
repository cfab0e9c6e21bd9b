package domain

import (
	"errors"
	"fmt"
)

// FieldKind identifies how a field value is converted when a document is
// built. The set is closed: each kind maps to one typed setter in the
// document builder's table.
type FieldKind int

const (
	KindText FieldKind = iota
	KindString
	KindInt
	KindFloat
	KindDate
	KindBool
)

func (k FieldKind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindString:
		return "string"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindDate:
		return "date"
	case KindBool:
		return "bool"
	default:
		return "unknown"
	}
}

func ParseFieldKind(s string) (FieldKind, error) {
	switch s {
	case "text":
		return KindText, nil
	case "string":
		return KindString, nil
	case "int":
		return KindInt, nil
	case "float":
		return KindFloat, nil
	case "date":
		return KindDate, nil
	case "bool":
		return KindBool, nil
	default:
		return 0, fmt.Errorf("unknown field kind %q", s)
	}
}

// Field describes one indexed field. Boost is 0 when the field carries no
// query-time boost.
type Field struct {
	Name  string
	Kind  FieldKind
	Boost float64
}

// ClassRef binds one record class tree to an index. Name is the tree root,
// Subclasses lists every concrete class in the tree (including the root),
// and Hierarchy is the ancestor chain from the base class down to Name.
type ClassRef struct {
	Name       string
	Subclasses []string
	Hierarchy  []string
}

// Covers reports whether className belongs to this class tree.
func (c ClassRef) Covers(className string) bool {
	for _, s := range c.Subclasses {
		if s == className {
			return true
		}
	}
	return false
}

// FieldGroups carries the per-purpose field sets of an index definition.
type FieldGroups struct {
	Fulltext     []Field
	Filter       []Field
	Sort         []Field
	Stored       []Field
	Facet        []string
	Copy         map[string][]string
	DefaultField string
}

// IndexDefinition identifies one engine index: its name, the record classes
// it covers and its field groups. Immutable after construction.
type IndexDefinition struct {
	name    string
	classes []ClassRef
	fields  FieldGroups
}

func NewIndexDefinition(name string, classes []ClassRef, fields FieldGroups) (*IndexDefinition, error) {
	if name == "" {
		return nil, errors.New("index name cannot be empty")
	}
	if len(classes) == 0 {
		return nil, fmt.Errorf("index %q must cover at least one class", name)
	}
	for _, c := range classes {
		if c.Name == "" {
			return nil, fmt.Errorf("index %q has a class binding without a name", name)
		}
	}

	return &IndexDefinition{
		name:    name,
		classes: classes,
		fields:  fields,
	}, nil
}

func (d *IndexDefinition) Name() string {
	return d.name
}

func (d *IndexDefinition) Classes() []ClassRef {
	return d.classes
}

func (d *IndexDefinition) FulltextFields() []Field {
	return d.fields.Fulltext
}

func (d *IndexDefinition) FilterFields() []Field {
	return d.fields.Filter
}

func (d *IndexDefinition) SortFields() []Field {
	return d.fields.Sort
}

func (d *IndexDefinition) StoredFields() []Field {
	return d.fields.Stored
}

func (d *IndexDefinition) FacetFields() []string {
	return d.fields.Facet
}

func (d *IndexDefinition) CopyFields() map[string][]string {
	return d.fields.Copy
}

func (d *IndexDefinition) DefaultField() string {
	return d.fields.DefaultField
}

// ClassFor returns the class binding covering className.
func (d *IndexDefinition) ClassFor(className string) (ClassRef, bool) {
	for _, c := range d.classes {
		if c.Covers(className) {
			return c, true
		}
	}
	return ClassRef{}, false
}

// IndexRegistry is the process-wide set of index definitions, created once at
// startup and read-only thereafter.
type IndexRegistry struct {
	byName map[string]*IndexDefinition
	order  []string
}

func NewIndexRegistry() *IndexRegistry {
	return &IndexRegistry{
		byName: make(map[string]*IndexDefinition),
	}
}

func (r *IndexRegistry) Register(def *IndexDefinition) error {
	if _, exists := r.byName[def.Name()]; exists {
		return fmt.Errorf("index %q already registered", def.Name())
	}
	r.byName[def.Name()] = def
	r.order = append(r.order, def.Name())
	return nil
}

func (r *IndexRegistry) Get(name string) (*IndexDefinition, error) {
	def, ok := r.byName[name]
	if !ok {
		return nil, &InvalidInputError{
			Op:  "IndexRegistry.Get",
			Err: "unknown index " + name,
		}
	}
	return def, nil
}

// Names returns index names in registration order.
func (r *IndexRegistry) Names() []string {
	names := make([]string, len(r.order))
	copy(names, r.order)
	return names
}

// ResolveClass finds the index and class binding for a record class. An
// unresolvable binding is a precondition failure, never retried.
func (r *IndexRegistry) ResolveClass(className string) (*IndexDefinition, ClassRef, error) {
	for _, name := range r.order {
		def := r.byName[name]
		if ref, ok := def.ClassFor(className); ok {
			return def, ref, nil
		}
	}
	return nil, ClassRef{}, &InvalidInputError{
		Op:  "IndexRegistry.ResolveClass",
		Err: "no index bound to class " + className,
	}
}
