package freets

import "time"

// Freet is a user-authored post. The annotation engine treats it as an opaque
// referent: it reads the author and content (for the pin snapshot) and never
// writes back.
type Freet struct {
	ID           string    `bson:"_id,omitempty" json:"id"`
	AuthorID     string    `bson:"authorId" json:"authorId"`
	Content      string    `bson:"content" json:"content"`
	DateCreated  time.Time `bson:"dateCreated" json:"dateCreated"`
	DateModified time.Time `bson:"dateModified" json:"dateModified"`
}
