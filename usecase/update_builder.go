package usecase

import (
	"solr-indexer/domain"
)

// UpdateBuilder constructs engine update requests for a document set and an
// operation kind. All of its failures are precondition failures
// (InvalidInputError): they surface immediately and must never be retried.
type UpdateBuilder struct {
	registry *domain.IndexRegistry
}

func NewUpdateBuilder(registry *domain.IndexRegistry) *UpdateBuilder {
	return &UpdateBuilder{
		registry: registry,
	}
}

// Build resolves the index bound to className and assembles the update
// request for op. CREATE and UPDATE have the same effect: add-or-replace by
// unique identifier. DELETE removes each document by identifier. DELETE_ALL
// removes every document of the class tree with a single delete-by-query.
// Any request carrying operations ends with a commit.
func (b *UpdateBuilder) Build(className string, docs []domain.SearchDocument, op domain.UpdateOp) (*domain.UpdateRequest, string, error) {
	index, ref, err := b.registry.ResolveClass(className)
	if err != nil {
		return nil, "", err
	}

	req := domain.NewUpdateRequest()

	switch op {
	case domain.UpdateOpCreate, domain.UpdateOpUpdate:
		if len(docs) == 0 {
			return nil, "", &domain.InvalidInputError{
				Op:  "UpdateBuilder.Build",
				Err: "no documents supplied for " + op.String(),
			}
		}
		for _, doc := range docs {
			req.AddDocument(doc)
		}

	case domain.UpdateOpDelete:
		if len(docs) == 0 {
			return nil, "", &domain.InvalidInputError{
				Op:  "UpdateBuilder.Build",
				Err: "no documents supplied for delete",
			}
		}
		for _, doc := range docs {
			req.DeleteByID(doc.Key())
		}

	case domain.UpdateOpDeleteAll:
		req.DeleteByQuery("class_hierarchy:" + ref.Name)

	default:
		return nil, "", &domain.InvalidInputError{
			Op:  "UpdateBuilder.Build",
			Err: "unknown update operation",
		}
	}

	req.WithCommit()
	return req, index.Name(), nil
}
