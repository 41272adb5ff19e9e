package service

import (
	"context"
	"errors"
	"time"

	"github.com/fritterhq/fritter-services/internal/annotation"
	"github.com/fritterhq/fritter-services/internal/annotation/repository"
	"github.com/fritterhq/fritter-services/internal/apperr"
	"github.com/fritterhq/fritter-services/internal/freets"
	"github.com/fritterhq/fritter-services/pkg/metrics"
)

// Engine is the one annotation engine, instantiated once per kind. Toggle
// behavior (like, flag) and singleton-replace behavior (pin) both live here,
// switched by the kind's Policy.
//
// Engines are stateless: every call is a single logical store operation, safe
// to invoke from concurrent requests.
type Engine struct {
	kind  annotation.Kind
	store repository.Store
}

func NewEngine(kind annotation.Kind, store repository.Store) *Engine {
	return &Engine{kind: kind, store: store}
}

func (e *Engine) Kind() annotation.Kind { return e.kind }

// Exists is the existence gate: does an annotation of this kind already cover
// (freet, actor)? Absence is a false result, never an error.
func (e *Engine) Exists(ctx context.Context, freetID, actorID string) (bool, error) {
	ok, err := e.store.Exists(ctx, e.kind.Key(freetID, actorID))
	if err != nil {
		return false, apperr.Infrastructure("existence check", err)
	}
	return ok, nil
}

// Add creates the annotation for the given freet on behalf of actorID.
//
// For toggle kinds a second add of the same key is a conflict; the store's
// conditional insert reports it even when two adds race past the gate. For
// the singleton kind (pin) add is always legal and atomically retires any
// prior record in the same scope.
func (e *Engine) Add(ctx context.Context, actorID string, fr *freets.Freet) (*annotation.Annotation, error) {
	a := &annotation.Annotation{
		Kind:      e.kind,
		FreetID:   fr.ID,
		AuthorID:  actorID,
		UniqueKey: e.kind.Key(fr.ID, actorID),
		CreatedAt: time.Now().UTC(),
	}
	if e.kind.Policy().Singleton {
		// snapshot the freet so the pin survives later edits
		a.FreetAuthorID = fr.AuthorID
		a.Content = fr.Content
		replaced, err := e.store.ReplaceByKey(ctx, a)
		if err != nil {
			return nil, apperr.Infrastructure("replace "+string(e.kind), err)
		}
		if replaced {
			metrics.PinReplacements.Inc()
		}
		metrics.AnnotationsAdded.WithLabelValues(string(e.kind)).Inc()
		return a, nil
	}
	if err := e.store.Insert(ctx, a); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			metrics.AnnotationConflicts.WithLabelValues(string(e.kind)).Inc()
			return nil, apperr.Conflict("freet %q is already %s", fr.ID, pastTense(e.kind))
		}
		return nil, apperr.Infrastructure("add "+string(e.kind), err)
	}
	metrics.AnnotationsAdded.WithLabelValues(string(e.kind)).Inc()
	return a, nil
}

// Remove deletes the actor's annotation for the freet. For the singleton kind
// the freet ID is not part of the key; pass the empty string to unpin whatever
// is active in the actor's scope.
func (e *Engine) Remove(ctx context.Context, actorID, freetID string) error {
	err := e.store.DeleteByKey(ctx, e.kind.Key(freetID, actorID))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.NotFound(string(e.kind), freetID)
		}
		return apperr.Infrastructure("remove "+string(e.kind), err)
	}
	metrics.AnnotationsRemoved.WithLabelValues(string(e.kind)).Inc()
	return nil
}

// FindActive returns the current record for the actor's scope, or a typed
// not-found error. Only meaningful for the singleton kind.
func (e *Engine) FindActive(ctx context.Context, scopeID string) (*annotation.Annotation, error) {
	a, err := e.store.FindByKey(ctx, e.kind.Key("", scopeID))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.NotFound(string(e.kind), "")
		}
		return nil, apperr.Infrastructure("find "+string(e.kind), err)
	}
	return a, nil
}

// ListAll returns every record of the kind, newest first.
func (e *Engine) ListAll(ctx context.Context) ([]*annotation.Annotation, error) {
	out, err := e.store.ListAll(ctx, e.kind)
	if err != nil {
		return nil, apperr.Infrastructure("list "+string(e.kind), err)
	}
	return out, nil
}

// ListByAuthor returns the author's records of the kind, newest first.
func (e *Engine) ListByAuthor(ctx context.Context, authorID string) ([]*annotation.Annotation, error) {
	out, err := e.store.ListByAuthor(ctx, e.kind, authorID)
	if err != nil {
		return nil, apperr.Infrastructure("list "+string(e.kind), err)
	}
	return out, nil
}

func pastTense(k annotation.Kind) string {
	switch k {
	case annotation.KindLike:
		return "liked"
	case annotation.KindFlag:
		return "flagged"
	default:
		return "pinned"
	}
}
