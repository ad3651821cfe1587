// Package queue defines activity events exchanged over RabbitMQ, the
// publisher used by the services and the consumer that journals them.
package queue

// Event types published after a successful write.
const (
	ReviewCreated   = "review.created"
	ReviewUpdated   = "review.updated"
	ReviewDeleted   = "review.deleted"
	FavoriteAdded   = "favorite.added"
	FavoriteRemoved = "favorite.removed"
)

// ActivityQueue is the durable queue every event is routed to.
const ActivityQueue = "cinereview.activity"

// ActivityEvent carries enough context for downstream consumers to log,
// notify or feed analytics without querying the primary database.
type ActivityEvent struct {
	Type            string `json:"type"`
	UserID          uint64 `json:"user_id"`
	ReviewID        uint64 `json:"review_id,omitempty"`
	MovieID         uint64 `json:"movie_id"`
	MovieExternalID string `json:"movie_external_id"`
	MovieTitle      string `json:"movie_title"`
	ReviewTitle     string `json:"review_title,omitempty"`
	OccurredAt      string `json:"occurred_at"`
}
