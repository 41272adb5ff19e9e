package annotation

import "time"

// Kind tags the three annotation flavors. They share one record shape and one
// engine; behavior differences are captured entirely by the Policy.
type Kind string

const (
	KindLike Kind = "like"
	KindFlag Kind = "flag"
	KindPin  Kind = "pin"
)

// Policy describes how a kind enforces its uniqueness invariant.
type Policy struct {
	// ScopeByAuthor includes the acting user in the uniqueness key
	// ("my like" vs. the flag's content-level key).
	ScopeByAuthor bool
	// Singleton means at most one active record per scope; adding replaces
	// the previous record instead of conflicting.
	Singleton bool
}

func (k Kind) Policy() Policy {
	switch k {
	case KindLike:
		return Policy{ScopeByAuthor: true}
	case KindPin:
		return Policy{ScopeByAuthor: true, Singleton: true}
	default:
		// flag: one per freet, regardless of who raised it
		return Policy{}
	}
}

// Key derives the uniqueness key a record of this kind occupies in the store.
// The store holds a unique index on this key, so the insert (or keyed replace)
// itself enforces the invariant; no check-then-write sequence is trusted.
func (k Kind) Key(freetID, authorID string) string {
	p := k.Policy()
	if p.Singleton {
		// pins are keyed by scope alone: one active pin per author
		return string(k) + "/" + authorID
	}
	if p.ScopeByAuthor {
		return string(k) + "/" + freetID + "/" + authorID
	}
	return string(k) + "/" + freetID
}

// Annotation is the shared record for likes, flags and pins.
//
// For pins, FreetAuthorID and Content are a snapshot taken at pin time: the
// pinned entry survives later freet edits on purpose.
type Annotation struct {
	ID            string    `bson:"_id,omitempty" json:"id"`
	Kind          Kind      `bson:"kind" json:"kind"`
	UniqueKey     string    `bson:"uniqueKey" json:"-"`
	FreetID       string    `bson:"freetId" json:"freetId"`
	AuthorID      string    `bson:"authorId" json:"authorId"`
	FreetAuthorID string    `bson:"freetAuthorId,omitempty" json:"freetAuthorId,omitempty"`
	Content       string    `bson:"content,omitempty" json:"content,omitempty"`
	CreatedAt     time.Time `bson:"createdAt" json:"createdAt"`
}
