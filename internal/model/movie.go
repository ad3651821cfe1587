package model

import "time"

// Movie is a locally known title, ingested from the metadata provider the
// first time any user reviews or favorites it.  ExternalID is the natural
// key and is unique in the `movies` table.
type Movie struct {
	ID         uint64    // movies.id
	ExternalID string    // movies.external_id (provider id, e.g. tt0111161)
	Title      string    // movies.title
	Year       int       // movies.year; zero when the provider omits it
	Cast       []string  // movies.cast, stored as a JSON array
	Kind       string    // movies.kind (movie, tvSeries, ...)
	Image      string    // movies.image
	CreatedAt  time.Time // movies.created_at
}

// MovieDescriptor is the normalized shape returned by the metadata
// provider.  It carries no local identity.
type MovieDescriptor struct {
	ExternalID string
	Title      string
	Year       int
	Cast       []string
	Kind       string
	Image      string
}
