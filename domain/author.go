package domain

// Author is a registered poster. It is distinct from the login identity
// (User) but keyed to it by email. Follows holds the ids of the authors
// this author follows, in follow order. LikedCheeps holds the ids of the
// cheeps this author has liked and mirrors the LikedBy list stored on
// each of those cheeps.
type Author struct {
	AuthorID int    `json:"author_id" gorm:"primaryKey;column:author_id"`
	Name     string `json:"name" gorm:"index"`
	Email    string `json:"email" gorm:"index"`

	Follows     IDList `json:"follows" gorm:"type:text"`
	LikedCheeps IDList `json:"liked_cheeps" gorm:"type:text"`
}

// AuthorService is a set of methods to manipulate and work with the Author model.
type AuthorService interface {
	// NewAuthorID returns the smallest positive id that no author row
	// currently uses, scanning upward from count+1.
	NewAuthorID() (int, error)
	// IDAvailable reports whether no author row has the given id.
	IDAvailable(id int) (bool, error)
	CreateAuthor(name, email string) (*Author, error)

	// ByEmail returns the authors matching the email, name-descending,
	// paginated. In normal operation this is zero or one row.
	ByEmail(email string, page int) ([]Author, error)
	// ByName returns the first author of the name-descending page, or
	// ENOTFOUND if the page is empty.
	ByName(name string, page int) (*Author, error)
	// IDByEmail returns ENOTFOUND if no author has the email.
	IDByEmail(email string) (int, error)
	// FollowIDs and LikedCheepIDs degrade to an empty list when the
	// author does not exist, so read-side views keep working for
	// viewers that have no author row yet.
	FollowIDs(email string) (IDList, error)
	LikedCheepIDs(email string) (IDList, error)
	// ByIDList returns all matching authors in name-descending order,
	// not the order of the input ids. Missing ids yield fewer rows.
	ByIDList(ids IDList) ([]Author, error)

	AddFollow(author *Author, id int) error
	RemoveFollow(author *Author, id int) error
	AddLike(author *Author, cheepID int) error
	RemoveLike(author *Author, cheepID int) error

	// DeleteAuthor removes the author row and the linked credential
	// record. Policy: deletion requires exactly one author row for the
	// email; zero or multiple matches is a silent no-op.
	DeleteAuthor(email string) error
}
