package models

import (
	"encoding/json"
	"math"
)

// Document is one raw record of a remote collection, keyed by field name.
type Document map[string]any

// Post is one feed entry. Empty ImageURL / FileURL mean the post carries no
// image or attachment.
type Post struct {
	Text     string
	ImageURL string
	FileURL  string

	// Timestamp is the publication time in epoch milliseconds.
	Timestamp int64
}

// HasImage reports whether the post links an image.
func (p Post) HasImage() bool { return p.ImageURL != "" }

// HasFile reports whether the post links a downloadable file.
func (p Post) HasFile() bool { return p.FileURL != "" }

// PostFromDocument maps a raw record to a Post. Missing or mistyped fields
// fall back to their defaults: "" for text fields and 0 for the timestamp.
func PostFromDocument(d Document) Post {
	return Post{
		Text:      d.String("text"),
		ImageURL:  d.String("imageUrl"),
		FileURL:   d.String("fileUrl"),
		Timestamp: d.Int64("timestamp"),
	}
}

// PostsFromDocuments maps every record; the result has the same length and
// order as docs.
func PostsFromDocuments(docs []Document) []Post {
	posts := make([]Post, 0, len(docs))
	for _, d := range docs {
		posts = append(posts, PostFromDocument(d))
	}
	return posts
}

// String returns the field as text, or "" when absent or not a string.
func (d Document) String(field string) string {
	s, _ := d[field].(string)
	return s
}

// Int64 returns the field as an integer, or 0 when absent or not numeric.
// Wire formats carry numbers as float64, so whole floats are accepted.
func (d Document) Int64(field string) int64 {
	switch v := d[field].(type) {
	case int64:
		return v
	case int:
		return int64(v)
	case int32:
		return int64(v)
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) || v >= math.MaxInt64 || v < math.MinInt64 {
			return 0
		}
		return int64(v)
	case json.Number:
		n, err := v.Int64()
		if err != nil {
			return 0
		}
		return n
	default:
		return 0
	}
}
