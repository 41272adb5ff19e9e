package handler

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/fritterhq/fritter-services/internal/annotation"
)

// View is the wire shape for an annotation, with the author denormalized to a
// display username and the timestamp in the long human-readable form the
// frontend renders directly.
type View struct {
	ID           string `json:"_id"`
	FreetID      string `json:"freetId"`
	Author       string `json:"author"`
	Content      string `json:"content,omitempty"`
	DateModified string `json:"dateModified"`
}

func ordinalSuffix(day int) string {
	if day >= 11 && day <= 13 {
		return "th"
	}
	switch day % 10 {
	case 1:
		return "st"
	case 2:
		return "nd"
	case 3:
		return "rd"
	}
	return "th"
}

// formatDate renders e.g. "November 2nd 2022, 3:04:05 pm".
func formatDate(t time.Time) string {
	day := t.Day()
	return fmt.Sprintf("%s %d%s %d, %s",
		t.Month().String(), day, ordinalSuffix(day), t.Year(),
		strings.ToLower(t.Format("3:04:05 PM")))
}

// usernameResolver memoizes userID→username lookups within one request.
type usernameResolver struct {
	lookup func(ctx context.Context, id string) (string, error)
	cache  map[string]string
}

func newUsernameResolver(lookup func(ctx context.Context, id string) (string, error)) *usernameResolver {
	return &usernameResolver{lookup: lookup, cache: map[string]string{}}
}

func (r *usernameResolver) name(ctx context.Context, id string) string {
	if n, ok := r.cache[id]; ok {
		return n
	}
	n, err := r.lookup(ctx, id)
	if err != nil {
		n = "unknown"
	}
	r.cache[id] = n
	return n
}

func (r *usernameResolver) view(ctx context.Context, a *annotation.Annotation) View {
	v := View{
		ID:           a.ID,
		FreetID:      a.FreetID,
		Author:       r.name(ctx, a.AuthorID),
		DateModified: formatDate(a.CreatedAt),
	}
	if a.Kind == annotation.KindPin {
		// the pin shows the snapshot: the freet's author and content
		v.Author = r.name(ctx, a.FreetAuthorID)
		v.Content = a.Content
	}
	return v
}

func (r *usernameResolver) views(ctx context.Context, list []*annotation.Annotation) []View {
	out := make([]View, 0, len(list))
	for _, a := range list {
		out = append(out, r.view(ctx, a))
	}
	return out
}
