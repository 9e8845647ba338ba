// Package classify assigns story categories and tags by matching free text
// against ordered keyword tables. Matching is first-match-wins, so table
// order is part of the contract.
package classify

import "strings"

// Rule binds one category (or tag) to the keywords that select it.
type Rule struct {
	ID       string
	Label    string
	Keywords []string
}

// Classifier resolves categories and tags for submitted text. It performs no
// I/O; both tables are fixed at construction.
type Classifier struct {
	categories []Rule
	tags       []Rule
	fallback   string
	maxTags    int
}

// DefaultCategories is checked in order; the earliest rule whose keyword
// appears in the text wins.
var DefaultCategories = []Rule{
	{ID: "wedding-day", Label: "Wedding Day", Keywords: []string{"wedding day", "ceremony", "reception", "vows", "first dance", "altar"}},
	{ID: "how-we-met", Label: "How We Met", Keywords: []string{"first met", "met the couple", "introduced", "blind date", "met at"}},
	{ID: "funny", Label: "Funny Moments", Keywords: []string{"laugh", "funny", "hilarious", "joke", "prank"}},
	{ID: "heartfelt", Label: "Heartfelt", Keywords: []string{"love", "beautiful", "tears", "moved", "blessing"}},
	{ID: "memories", Label: "Memories", Keywords: []string{"remember", "memory", "memories", "years ago", "back then"}},
}

// DefaultTags is a smaller table; up to three tags are collected in order.
var DefaultTags = []Rule{
	{ID: "dancing", Label: "Dancing", Keywords: []string{"dance", "dancing", "dance floor"}},
	{ID: "food", Label: "Food", Keywords: []string{"dinner", "cake", "food", "toast"}},
	{ID: "family", Label: "Family", Keywords: []string{"family", "parents", "grandma", "grandpa"}},
	{ID: "friendship", Label: "Friendship", Keywords: []string{"friend", "friends", "roommate"}},
	{ID: "travel", Label: "Travel", Keywords: []string{"travel", "trip", "flew", "drove"}},
}

// DefaultFallback is used when no category keyword matches.
const DefaultFallback = "memories"

const defaultMaxTags = 3

// New builds a Classifier from explicit tables so tests and alternate
// deployments can swap the mapping without touching match logic.
func New(categories, tags []Rule, fallback string) *Classifier {
	if fallback == "" {
		fallback = DefaultFallback
	}
	return &Classifier{
		categories: categories,
		tags:       tags,
		fallback:   fallback,
		maxTags:    defaultMaxTags,
	}
}

// Default returns a Classifier over the stock tables.
func Default() *Classifier {
	return New(DefaultCategories, DefaultTags, DefaultFallback)
}

// Category returns the first matching category id, or the fallback.
func (c *Classifier) Category(text string) string {
	lower := strings.ToLower(text)
	for _, rule := range c.categories {
		for _, kw := range rule.Keywords {
			if strings.Contains(lower, kw) {
				return rule.ID
			}
		}
	}
	return c.fallback
}

// Tags returns up to three tag ids in table order.
func (c *Classifier) Tags(text string) []string {
	lower := strings.ToLower(text)
	var out []string
	for _, rule := range c.tags {
		if len(out) >= c.maxTags {
			break
		}
		for _, kw := range rule.Keywords {
			if strings.Contains(lower, kw) {
				out = append(out, rule.ID)
				break
			}
		}
	}
	return out
}

// Label resolves the display label for a category id. Unknown ids echo back
// the id so facet output never drops a bucket.
func (c *Classifier) Label(id string) string {
	for _, rule := range c.categories {
		if rule.ID == id {
			return rule.Label
		}
	}
	return id
}

// KnownCategory reports whether id appears in the category table or is the
// fallback.
func (c *Classifier) KnownCategory(id string) bool {
	if id == c.fallback {
		return true
	}
	for _, rule := range c.categories {
		if rule.ID == id {
			return true
		}
	}
	return false
}
