package domain

import "time"

// MaxCheepLength is the maximum number of characters in a cheep.
const MaxCheepLength = 160

// PageSize is the fixed number of rows in every paginated read.
// Collaborators infer end-of-data from a short or empty page.
const PageSize = 32

// Cheep is a single post. LikedBy holds the ids of the authors that have
// liked it and mirrors the LikedCheeps list on each of those authors.
type Cheep struct {
	CheepID   int       `json:"cheep_id" gorm:"primaryKey;column:cheep_id"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp" gorm:"column:time_stamp"`
	AuthorID  int       `json:"author_id" gorm:"index"`
	Author    *Author   `json:"author,omitempty" gorm:"foreignKey:AuthorID;references:AuthorID"`

	LikedBy IDList `json:"liked_by" gorm:"type:text"`
}

// CheepService is a set of methods to manipulate and work with the Cheep model.
// Every paginated read orders newest-first by timestamp with the cheep id
// as a deterministic tie-break, so repeated calls over an unchanged set
// paginate identically.
type CheepService interface {
	// NextCheepID returns the current cheep count plus one.
	NextCheepID() (int, error)
	// Create inserts a new cheep for the author with the timestamp set
	// to now and an empty LikedBy list. The text is expected to have
	// been validated by the caller.
	Create(author *Author, text string) error

	Page(page int) ([]Cheep, error)
	PageByName(name string, page int) ([]Cheep, error)
	PageByAuthorIDs(ids IDList, page int) ([]Cheep, error)

	// Likers returns the LikedBy list of the cheep, or an empty list if
	// the cheep does not exist.
	Likers(cheepID int) (IDList, error)
	AddLiker(cheep *Cheep, authorID int) error
	RemoveLiker(cheep *Cheep, authorID int) error

	// ByID returns (nil, nil) when the cheep does not exist.
	ByID(cheepID int) (*Cheep, error)
	// ByAuthorID returns the full, unordered set for the author. Used
	// by deletion cascades.
	ByAuthorID(authorID int) ([]Cheep, error)
	Delete(cheep *Cheep) error
}
