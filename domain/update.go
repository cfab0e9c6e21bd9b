package domain

// UpdateOp is the kind of update operation requested against the engine.
type UpdateOp int

const (
	UpdateOpCreate UpdateOp = iota
	UpdateOpUpdate
	UpdateOpDelete
	UpdateOpDeleteAll
)

func (o UpdateOp) String() string {
	switch o {
	case UpdateOpCreate:
		return "create"
	case UpdateOpUpdate:
		return "update"
	case UpdateOpDelete:
		return "delete"
	case UpdateOpDeleteAll:
		return "delete_all"
	default:
		return "unknown"
	}
}

// UpdateRequest accumulates engine update operations for one batch. It is
// created fresh per batch, submitted once and discarded. A request holding
// any operation always ends with a commit; an empty request issues nothing.
type UpdateRequest struct {
	adds          []SearchDocument
	deleteIDs     []string
	deleteQueries []string
	commit        bool
	debug         bool
}

func NewUpdateRequest() *UpdateRequest {
	return &UpdateRequest{}
}

// AddDocument queues an add-or-replace of doc by its unique identifier.
func (r *UpdateRequest) AddDocument(doc SearchDocument) *UpdateRequest {
	r.adds = append(r.adds, doc)
	return r
}

// DeleteByID queues deletion of the document with the given key.
func (r *UpdateRequest) DeleteByID(id string) *UpdateRequest {
	r.deleteIDs = append(r.deleteIDs, id)
	return r
}

// DeleteByQuery queues deletion of every document matching the engine query.
func (r *UpdateRequest) DeleteByQuery(query string) *UpdateRequest {
	r.deleteQueries = append(r.deleteQueries, query)
	return r
}

// WithCommit marks the request to commit after its operations.
func (r *UpdateRequest) WithCommit() *UpdateRequest {
	r.commit = true
	return r
}

func (r *UpdateRequest) SetDebug(debug bool) {
	r.debug = debug
}

func (r *UpdateRequest) Adds() []SearchDocument {
	return r.adds
}

func (r *UpdateRequest) DeleteIDs() []string {
	return r.deleteIDs
}

func (r *UpdateRequest) DeleteQueries() []string {
	return r.deleteQueries
}

func (r *UpdateRequest) HasCommit() bool {
	return r.commit
}

func (r *UpdateRequest) Debug() bool {
	return r.debug
}

// Empty reports whether the request carries no operations at all.
func (r *UpdateRequest) Empty() bool {
	return len(r.adds) == 0 && len(r.deleteIDs) == 0 && len(r.deleteQueries) == 0
}
