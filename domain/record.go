package domain

import (
	"errors"
	"fmt"
	"time"
)

// Record is one CMS content record drawn from the record store.
type Record struct {
	id           int64
	className    string
	title        string
	content      string
	keywords     []string
	lastEdited   time.Time
	showInSearch bool
	siteID       int64
}

func NewRecord(id int64, className, title, content string, keywords []string, lastEdited time.Time, showInSearch bool, siteID int64) (*Record, error) {
	if id <= 0 {
		return nil, errors.New("record ID must be positive")
	}
	if className == "" {
		return nil, errors.New("record class name cannot be empty")
	}

	return &Record{
		id:           id,
		className:    className,
		title:        title,
		content:      content,
		keywords:     keywords,
		lastEdited:   lastEdited,
		showInSearch: showInSearch,
		siteID:       siteID,
	}, nil
}

func (r *Record) ID() int64 {
	return r.id
}

func (r *Record) ClassName() string {
	return r.className
}

func (r *Record) Title() string {
	return r.title
}

func (r *Record) Content() string {
	return r.content
}

func (r *Record) Keywords() []string {
	return r.keywords
}

func (r *Record) LastEdited() time.Time {
	return r.lastEdited
}

func (r *Record) ShowInSearch() bool {
	return r.showInSearch
}

func (r *Record) SiteID() int64 {
	return r.siteID
}

// DocumentKey is the engine-unique identifier for this record's document.
func (r *Record) DocumentKey() string {
	return DocumentKeyFor(r.className, r.id)
}

// DocumentKeyFor builds the engine document key for a class/ID pair without
// needing the full record, e.g. when deleting by reference.
func DocumentKeyFor(className string, id int64) string {
	return fmt.Sprintf("%s-%d", className, id)
}
