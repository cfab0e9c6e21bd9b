package config

import (
	"encoding/json"
	"fmt"
	"os"

	"solr-indexer/domain"
)

// indexesFile is the JSON shape of the index definitions file.
type indexesFile struct {
	Indexes []indexEntry `json:"indexes"`
}

type indexEntry struct {
	Name         string              `json:"name"`
	Classes      []classEntry        `json:"classes"`
	Fulltext     []fieldEntry        `json:"fulltext"`
	Filter       []fieldEntry        `json:"filter"`
	Sort         []fieldEntry        `json:"sort"`
	Stored       []fieldEntry        `json:"stored"`
	Facet        []string            `json:"facet"`
	Copy         map[string][]string `json:"copy"`
	DefaultField string              `json:"default_field"`
}

type classEntry struct {
	Name       string   `json:"name"`
	Subclasses []string `json:"subclasses"`
	Hierarchy  []string `json:"hierarchy"`
}

type fieldEntry struct {
	Name  string  `json:"name"`
	Kind  string  `json:"kind"`
	Boost float64 `json:"boost"`
}

// LoadIndexes builds the immutable index registry from the definitions file.
func LoadIndexes(path string) (*domain.IndexRegistry, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read index definitions: %w", err)
	}

	var file indexesFile
	if err := json.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parse index definitions: %w", err)
	}
	if len(file.Indexes) == 0 {
		return nil, fmt.Errorf("index definitions file %s declares no indexes", path)
	}

	registry := domain.NewIndexRegistry()
	for _, entry := range file.Indexes {
		def, err := convertIndex(entry)
		if err != nil {
			return nil, err
		}
		if err := registry.Register(def); err != nil {
			return nil, err
		}
	}
	return registry, nil
}

func convertIndex(entry indexEntry) (*domain.IndexDefinition, error) {
	classes := make([]domain.ClassRef, len(entry.Classes))
	for i, c := range entry.Classes {
		subclasses := c.Subclasses
		if len(subclasses) == 0 {
			subclasses = []string{c.Name}
		}
		hierarchy := c.Hierarchy
		if len(hierarchy) == 0 {
			hierarchy = []string{c.Name}
		}
		classes[i] = domain.ClassRef{
			Name:       c.Name,
			Subclasses: subclasses,
			Hierarchy:  hierarchy,
		}
	}

	groups := domain.FieldGroups{
		Facet:        entry.Facet,
		Copy:         entry.Copy,
		DefaultField: entry.DefaultField,
	}
	var err error
	if groups.Fulltext, err = convertFields(entry.Name, entry.Fulltext); err != nil {
		return nil, err
	}
	if groups.Filter, err = convertFields(entry.Name, entry.Filter); err != nil {
		return nil, err
	}
	if groups.Sort, err = convertFields(entry.Name, entry.Sort); err != nil {
		return nil, err
	}
	if groups.Stored, err = convertFields(entry.Name, entry.Stored); err != nil {
		return nil, err
	}

	return domain.NewIndexDefinition(entry.Name, classes, groups)
}

func convertFields(indexName string, entries []fieldEntry) ([]domain.Field, error) {
	fields := make([]domain.Field, len(entries))
	for i, e := range entries {
		kind, err := domain.ParseFieldKind(e.Kind)
		if err != nil {
			return nil, fmt.Errorf("index %s, field %s: %w", indexName, e.Name, err)
		}
		fields[i] = domain.Field{Name: e.Name, Kind: kind, Boost: e.Boost}
	}
	return fields, nil
}
