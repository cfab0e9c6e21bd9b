package gateway

import (
	"context"
	"errors"
	"testing"
	"time"

	"solr-indexer/domain"
	"solr-indexer/driver"
)

type mockRecordDriver struct {
	rows []*driver.RecordRow
	err  error

	gotClassNames []string
	gotScope      domain.ReadScope
}

func (m *mockRecordDriver) CountRecords(ctx context.Context, classNames []string, scope domain.ReadScope) (int, error) {
	if m.err != nil {
		return 0, m.err
	}
	m.gotClassNames = classNames
	m.gotScope = scope
	return len(m.rows), nil
}

func (m *mockRecordDriver) GetRecordsPage(ctx context.Context, classNames []string, offset, limit int, scope domain.ReadScope) ([]*driver.RecordRow, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.gotClassNames = classNames
	m.gotScope = scope
	return m.rows, nil
}

func (m *mockRecordDriver) GetRecordByID(ctx context.Context, className string, id int64, scope domain.ReadScope) (*driver.RecordRow, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.gotScope = scope
	return m.rows[0], nil
}

func siteTreeRef() domain.ClassRef {
	return domain.ClassRef{
		Name:       "SiteTree",
		Subclasses: []string{"SiteTree", "Page", "NewsPage"},
		Hierarchy:  []string{"SiteTree"},
	}
}

func TestRecordRepositoryGateway_GetRecordsPage(t *testing.T) {
	d := &mockRecordDriver{rows: []*driver.RecordRow{
		{ID: 1, ClassName: "Page", Title: "One", LastEdited: time.Now(), ShowInSearch: true, SiteID: 1},
		{ID: 2, ClassName: "NewsPage", Title: "Two", LastEdited: time.Now(), ShowInSearch: true, SiteID: 1},
	}}
	g := NewRecordRepositoryGateway(d)

	records, err := g.GetRecordsPage(context.Background(), siteTreeRef(), 0, 10, domain.ReadDraft)
	if err != nil {
		t.Fatalf("GetRecordsPage() error = %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("records = %d, want 2", len(records))
	}
	if records[0].DocumentKey() != "Page-1" {
		t.Errorf("first record key = %q", records[0].DocumentKey())
	}
	// The driver receives the full subclass list, not just the tree root.
	if len(d.gotClassNames) != 3 {
		t.Errorf("class names = %v", d.gotClassNames)
	}
	if d.gotScope != domain.ReadDraft {
		t.Errorf("scope = %v, want draft", d.gotScope)
	}
}

func TestRecordRepositoryGateway_GetRecordsPage_InvalidRow(t *testing.T) {
	d := &mockRecordDriver{rows: []*driver.RecordRow{
		{ID: 0, ClassName: "Page"},
	}}
	g := NewRecordRepositoryGateway(d)

	_, err := g.GetRecordsPage(context.Background(), siteTreeRef(), 0, 10, domain.ReadLive)
	var repoErr *domain.RepositoryError
	if !errors.As(err, &repoErr) {
		t.Fatalf("error = %v, want RepositoryError", err)
	}
}

func TestRecordRepositoryGateway_WrapsDriverErrors(t *testing.T) {
	d := &mockRecordDriver{err: errors.New("connection reset")}
	g := NewRecordRepositoryGateway(d)

	var repoErr *domain.RepositoryError

	if _, err := g.CountRecords(context.Background(), siteTreeRef(), domain.ReadLive); !errors.As(err, &repoErr) {
		t.Errorf("CountRecords error = %v, want RepositoryError", err)
	}
	if _, err := g.GetRecordsPage(context.Background(), siteTreeRef(), 0, 10, domain.ReadLive); !errors.As(err, &repoErr) {
		t.Errorf("GetRecordsPage error = %v, want RepositoryError", err)
	}
	if _, err := g.GetRecordByID(context.Background(), "Page", 1, domain.ReadLive); !errors.As(err, &repoErr) {
		t.Errorf("GetRecordByID error = %v, want RepositoryError", err)
	}
}
