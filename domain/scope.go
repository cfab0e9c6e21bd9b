package domain

import "fmt"

// ReadScope selects which content stage the record store reads. It is an
// explicit value threaded through every record-store call for the duration of
// one indexing run, never a process-wide flag.
type ReadScope int

const (
	// ReadLive reads published content.
	ReadLive ReadScope = iota
	// ReadDraft reads draft content.
	ReadDraft
)

func (s ReadScope) String() string {
	switch s {
	case ReadLive:
		return "live"
	case ReadDraft:
		return "draft"
	default:
		return "unknown"
	}
}

func ParseReadScope(s string) (ReadScope, error) {
	switch s {
	case "live", "":
		return ReadLive, nil
	case "draft":
		return ReadDraft, nil
	default:
		return 0, fmt.Errorf("unknown read scope %q", s)
	}
}
