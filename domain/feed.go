package domain

// FeedItem is the per-request view of one cheep, annotated with
// viewer-relative state. It is derived on every read and never persisted.
type FeedItem struct {
	CheepID     int    `json:"cheep_id"`
	AuthorName  string `json:"author_name"`
	AuthorEmail string `json:"author_email"`
	Text        string `json:"text"`
	Timestamp   string `json:"timestamp"`
	Followed    bool   `json:"followed"`
	Likes       int    `json:"likes"`
	Liked       bool   `json:"liked"`
	Likers      IDList `json:"likers"`
}

// AuthorView is the display projection of an author.
type AuthorView struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// FeedService assembles viewer-annotated feeds on top of the author and
// cheep services, and owns every workflow that touches more than one
// entity. Empty-string viewer parameters mean the viewer is anonymous.
type FeedService interface {
	// Feed is the global timeline. A viewer email that resolves to no
	// author is treated as anonymous. Follow annotation is only
	// computed when both viewer name and email are given.
	Feed(viewerName, viewerEmail string, page int) ([]FeedItem, error)
	// Timeline shows the target author's cheeps, unless the viewer is
	// the target, in which case it is the self-inclusive follow feed.
	Timeline(viewerEmail string, target *Author, page int) ([]FeedItem, error)
	MyCheeps(viewerEmail string, page int) ([]FeedItem, error)
	// LikedCheeps resolves the viewer's liked cheeps. Liked ids that no
	// longer resolve are removed from the viewer's list and skipped.
	LikedCheeps(viewerEmail string) ([]FeedItem, error)

	ToggleFollow(viewerEmail, targetEmail string) error
	ToggleLike(cheepID int, viewerEmail string) error
	CreateCheep(viewerEmail, text string) error
	DeleteAccount(viewerEmail string) error

	FollowedAuthors(email string) ([]AuthorView, error)
	Likers(cheepID int) (IDList, error)

	// EnsureAuthor creates an author row for the identity if none
	// exists for the email. Idempotent.
	EnsureAuthor(name, email string) error
}
