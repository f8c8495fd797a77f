package crud

import (
	"strings"

	"gorm.io/gorm"

	"chirp/domain"
	"chirp/errs"
)

// AuthorService manages Authors and their denormalized follow / liked-cheep
// id lists. It implements the domain.AuthorService interface.
type AuthorService struct {
	authorValidator
}

// authorValidator runs validations on incoming Author data.
// On success, it passes the data on to authorGorm.
// Otherwise, it returns the error of the validation that has failed.
type authorValidator struct {
	authorGorm
}

// authorGorm runs CRUD operations on the database using incoming Author data.
// It assumes that data has been validated. On success, it returns nil.
// Otherwise, it returns the error of the operation that has failed.
type authorGorm struct {
	db *gorm.DB
}

// NewAuthorService returns an instance of AuthorService.
func NewAuthorService(db *gorm.DB) *AuthorService {
	return &AuthorService{
		authorValidator{
			authorGorm{
				db: db,
			},
		},
	}
}

// Ensure the AuthorService struct properly implements the domain.AuthorService
// interface. If it does not, then this expression becomes invalid and won't compile.
var _ domain.AuthorService = &AuthorService{}

// CreateAuthor runs validations needed for creating new Author database
// records, then inserts a row with freshly allocated id and empty id lists.
func (av *authorValidator) CreateAuthor(name, email string) (*domain.Author, error) {
	author := &domain.Author{
		Name:        name,
		Email:       email,
		Follows:     domain.IDList{},
		LikedCheeps: domain.IDList{},
	}
	err := runAuthorValFns(author,
		av.emailNormalize,
		av.emailRequired,
		av.nameRequired)
	if err != nil {
		return nil, err
	}
	if err := av.authorGorm.createAuthor(author); err != nil {
		return nil, err
	}
	return author, nil
}

// runAuthorValFns runs any number of functions of type authorValFn on the passed
// in Author object. If none of them returns an error, it returns nil. Otherwise,
// it returns the respective error.
func runAuthorValFns(author *domain.Author, fns ...authorValFn) error {
	for _, fn := range fns {
		if err := fn(author); err != nil {
			return err
		}
	}
	return nil
}

// An authorValFn is any function that takes in a pointer to a domain.Author
// object and returns an error.
type authorValFn func(author *domain.Author) error

// emailNormalize converts the email to all lowercase and trims its whitespaces.
func (av *authorValidator) emailNormalize(author *domain.Author) error {
	author.Email = strings.ToLower(author.Email)
	author.Email = strings.TrimSpace(author.Email)
	return nil
}

// emailRequired makes sure that the email is not the empty string.
func (av *authorValidator) emailRequired(author *domain.Author) error {
	if author.Email == "" {
		return errs.Errorf(errs.EINVALID, "An email address is required.")
	}
	return nil
}

// nameRequired makes sure that the name is not the empty string.
func (av *authorValidator) nameRequired(author *domain.Author) error {
	if strings.TrimSpace(author.Name) == "" {
		return errs.Errorf(errs.EINVALID, "A name is required.")
	}
	return nil
}

// NewAuthorID scans upward from count+1 and returns the first id no author
// row uses. The id is not reserved; creations should go through
// CreateAuthor, which repeats the probe inside its transaction.
func (ag *authorGorm) NewAuthorID() (int, error) {
	return newAuthorID(ag.db)
}

func newAuthorID(tx *gorm.DB) (int, error) {
	var count int64
	if err := tx.Model(&domain.Author{}).Count(&count).Error; err != nil {
		return 0, err
	}
	id := int(count) + 1
	for {
		avail, err := authorIDAvailable(tx, id)
		if err != nil {
			return 0, err
		}
		if avail {
			return id, nil
		}
		id++
	}
}

// IDAvailable reports whether no author row has the given id.
func (ag *authorGorm) IDAvailable(id int) (bool, error) {
	return authorIDAvailable(ag.db, id)
}

func authorIDAvailable(tx *gorm.DB, id int) (bool, error) {
	var count int64
	err := tx.Model(&domain.Author{}).Where("author_id = ?", id).Count(&count).Error
	if err != nil {
		return false, err
	}
	return count == 0, nil
}

// createAuthor allocates an id and inserts the row in one transaction, so
// the probed id cannot be taken by a concurrent creation in between.
func (ag *authorGorm) createAuthor(author *domain.Author) error {
	return ag.db.Transaction(func(tx *gorm.DB) error {
		id, err := newAuthorID(tx)
		if err != nil {
			return err
		}
		author.AuthorID = id
		return tx.Create(author).Error
	})
}

// ByEmail retrieves the authors matching the email, ordered by name
// descending, paginated. In normal operation this is zero or one row.
func (ag *authorGorm) ByEmail(email string, page int) ([]domain.Author, error) {
	var authors []domain.Author
	err := ag.db.
		Where("email = ?", email).
		Order("name DESC").
		Offset(page * domain.PageSize).
		Limit(domain.PageSize).
		Find(&authors).Error
	if err != nil {
		return nil, err
	}
	return authors, nil
}

// ByName retrieves the first author of the name-descending page matching
// the name. Names are not unique; lookups that need the authoritative
// identity should go through email instead.
func (ag *authorGorm) ByName(name string, page int) (*domain.Author, error) {
	var authors []domain.Author
	err := ag.db.
		Where("name = ?", name).
		Order("name DESC").
		Offset(page * domain.PageSize).
		Limit(domain.PageSize).
		Find(&authors).Error
	if err != nil {
		return nil, err
	}
	if len(authors) == 0 {
		return nil, errs.Errorf(errs.ENOTFOUND, "No author named %s.", name)
	}
	return &authors[0], nil
}

// IDByEmail retrieves the id of the author matching the email.
func (ag *authorGorm) IDByEmail(email string) (int, error) {
	var author domain.Author
	err := ag.db.Where("email = ?", email).First(&author).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return 0, errs.Errorf(errs.ENOTFOUND, "No author with that email.")
		}
		return 0, err
	}
	return author.AuthorID, nil
}

// FollowIDs returns the follow list of the author matching the email, or
// an empty list if there is no such author.
func (ag *authorGorm) FollowIDs(email string) (domain.IDList, error) {
	var authors []domain.Author
	if err := ag.db.Where("email = ?", email).Limit(1).Find(&authors).Error; err != nil {
		return nil, err
	}
	if len(authors) == 0 {
		return domain.IDList{}, nil
	}
	return authors[0].Follows, nil
}

// LikedCheepIDs returns the liked-cheep list of the author matching the
// email, or an empty list if there is no such author.
func (ag *authorGorm) LikedCheepIDs(email string) (domain.IDList, error) {
	var authors []domain.Author
	if err := ag.db.Where("email = ?", email).Limit(1).Find(&authors).Error; err != nil {
		return nil, err
	}
	if len(authors) == 0 {
		return domain.IDList{}, nil
	}
	return authors[0].LikedCheeps, nil
}

// ByIDList retrieves all authors whose id is in the given list, ordered by
// name descending. Ids that resolve to no author simply yield fewer rows,
// which is how dangling follow references are tolerated on the read side.
func (ag *authorGorm) ByIDList(ids domain.IDList) ([]domain.Author, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var authors []domain.Author
	err := ag.db.
		Where("author_id IN ?", []int(ids)).
		Order("name DESC").
		Find(&authors).Error
	if err != nil {
		return nil, err
	}
	return authors, nil
}

// AddFollow appends the id to the author's follow list and persists immediately.
func (ag *authorGorm) AddFollow(author *domain.Author, id int) error {
	author.Follows.Add(id)
	return ag.db.Save(author).Error
}

// RemoveFollow removes the id from the author's follow list and persists
// immediately. Removing an absent id is a no-op.
func (ag *authorGorm) RemoveFollow(author *domain.Author, id int) error {
	author.Follows.Remove(id)
	return ag.db.Save(author).Error
}

// AddLike appends the cheep id to the author's liked-cheep list and persists immediately.
func (ag *authorGorm) AddLike(author *domain.Author, cheepID int) error {
	author.LikedCheeps.Add(cheepID)
	return ag.db.Save(author).Error
}

// RemoveLike removes the cheep id from the author's liked-cheep list and
// persists immediately. Removing an absent id is a no-op.
func (ag *authorGorm) RemoveLike(author *domain.Author, cheepID int) error {
	author.LikedCheeps.Remove(cheepID)
	return ag.db.Save(author).Error
}

// DeleteAuthor removes the author row and the linked credential record.
// Policy: deletion requires exactly one author row for the email; zero or
// multiple matches is a silent no-op.
func (ag *authorGorm) DeleteAuthor(email string) error {
	var authors []domain.Author
	if err := ag.db.Where("email = ?", email).Find(&authors).Error; err != nil {
		return err
	}
	if len(authors) != 1 {
		return nil
	}
	return ag.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&authors[0]).Error; err != nil {
			return err
		}
		return tx.Where("email = ?", email).Delete(&domain.User{}).Error
	})
}
