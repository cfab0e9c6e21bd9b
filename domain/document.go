package domain

import (
	"fmt"
	"strconv"
	"time"
)

// SearchDocument is the field-value representation of one record as stored in
// the search engine.
type SearchDocument map[string]any

// Key returns the document's engine-unique identifier.
func (d SearchDocument) Key() string {
	if id, ok := d["id"].(string); ok {
		return id
	}
	return ""
}

// fieldSetter converts one raw field value into its engine representation.
// The table below replaces runtime method dispatch by field-type name with a
// closed mapping resolved at compile time.
type fieldSetter func(doc SearchDocument, name string, value any) error

var fieldSetters = map[FieldKind]fieldSetter{
	KindText:   setString,
	KindString: setString,
	KindInt:    setInt,
	KindFloat:  setFloat,
	KindDate:   setDate,
	KindBool:   setBool,
}

func setString(doc SearchDocument, name string, value any) error {
	switch v := value.(type) {
	case string:
		doc[name] = v
	case []string:
		doc[name] = v
	case fmt.Stringer:
		doc[name] = v.String()
	default:
		doc[name] = fmt.Sprint(v)
	}
	return nil
}

func setInt(doc SearchDocument, name string, value any) error {
	switch v := value.(type) {
	case int:
		doc[name] = int64(v)
	case int64:
		doc[name] = v
	case string:
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("field %s: %w", name, err)
		}
		doc[name] = n
	default:
		return fmt.Errorf("field %s: cannot convert %T to int", name, value)
	}
	return nil
}

func setFloat(doc SearchDocument, name string, value any) error {
	switch v := value.(type) {
	case float64:
		doc[name] = v
	case int64:
		doc[name] = float64(v)
	case int:
		doc[name] = float64(v)
	default:
		return fmt.Errorf("field %s: cannot convert %T to float", name, value)
	}
	return nil
}

func setDate(doc SearchDocument, name string, value any) error {
	t, ok := value.(time.Time)
	if !ok {
		return fmt.Errorf("field %s: cannot convert %T to date", name, value)
	}
	doc[name] = t.UTC().Format(time.RFC3339)
	return nil
}

func setBool(doc SearchDocument, name string, value any) error {
	b, ok := value.(bool)
	if !ok {
		return fmt.Errorf("field %s: cannot convert %T to bool", name, value)
	}
	doc[name] = b
	return nil
}

// recordSources maps index field names to record accessors. Fields named in
// an index definition must appear here.
var recordSources = map[string]func(*Record) any{
	"title":       func(r *Record) any { return r.Title() },
	"content":     func(r *Record) any { return r.Content() },
	"keywords":    func(r *Record) any { return r.Keywords() },
	"last_edited": func(r *Record) any { return r.LastEdited() },
	"site_id":     func(r *Record) any { return r.SiteID() },
}

// DocumentBuilder converts records of one index into search documents.
type DocumentBuilder struct {
	index *IndexDefinition
}

func NewDocumentBuilder(index *IndexDefinition) *DocumentBuilder {
	return &DocumentBuilder{index: index}
}

// Build converts one record into its engine document. The document always
// carries id, class_name, class_hierarchy, site_id and last_edited; the
// remaining fields come from the index definition's field groups.
func (b *DocumentBuilder) Build(rec *Record) (SearchDocument, error) {
	ref, ok := b.index.ClassFor(rec.ClassName())
	if !ok {
		return nil, &InvalidInputError{
			Op:  "DocumentBuilder.Build",
			Err: fmt.Sprintf("class %s is not covered by index %s", rec.ClassName(), b.index.Name()),
		}
	}

	doc := SearchDocument{
		"id":              rec.DocumentKey(),
		"class_name":      rec.ClassName(),
		"class_hierarchy": ref.Hierarchy,
		"site_id":         rec.SiteID(),
		"last_edited":     rec.LastEdited().UTC().Format(time.RFC3339),
	}

	groups := [][]Field{
		b.index.FulltextFields(),
		b.index.FilterFields(),
		b.index.SortFields(),
		b.index.StoredFields(),
	}
	for _, fields := range groups {
		for _, f := range fields {
			if _, done := doc[f.Name]; done {
				continue
			}
			source, ok := recordSources[f.Name]
			if !ok {
				return nil, &InvalidInputError{
					Op:  "DocumentBuilder.Build",
					Err: fmt.Sprintf("index %s names unknown record field %s", b.index.Name(), f.Name),
				}
			}
			setter := fieldSetters[f.Kind]
			if err := setter(doc, f.Name, source(rec)); err != nil {
				return nil, &InvalidInputError{Op: "DocumentBuilder.Build", Err: err.Error()}
			}
		}
	}

	return doc, nil
}
