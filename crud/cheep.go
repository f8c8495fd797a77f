package crud

import (
	"time"

	"gorm.io/gorm"

	"chirp/domain"
	"chirp/errs"
)

// feedOrder is the ordering rule shared by every paginated cheep read:
// newest first, with the cheep id as a deterministic tie-break so repeated
// reads over an unchanged set paginate identically.
const feedOrder = "time_stamp DESC, cheep_id ASC"

// CheepService manages Cheeps.
// It implements the domain.CheepService interface.
type CheepService struct {
	cheepValidator
}

// cheepValidator runs validations on incoming Cheep data.
// On success, it passes the data on to cheepGorm.
// Otherwise, it returns the error of the validation that has failed.
type cheepValidator struct {
	cheepGorm
}

// cheepGorm runs CRUD operations on the database using incoming Cheep data.
// It assumes that data has been validated. On success, it returns nil.
// Otherwise, it returns the error of the operation that has failed.
type cheepGorm struct {
	db *gorm.DB
}

// NewCheepService returns an instance of CheepService.
func NewCheepService(db *gorm.DB) *CheepService {
	return &CheepService{
		cheepValidator{
			cheepGorm{
				db: db,
			},
		},
	}
}

// Ensure the CheepService struct properly implements the domain.CheepService
// interface. If it does not, then this expression becomes invalid and won't compile.
var _ domain.CheepService = &CheepService{}

// Create runs validations needed for creating new Cheep database records.
// Text validation is the caller's responsibility (the feed service checks
// length before it gets here); the store only checks referential sanity.
func (cv *cheepValidator) Create(author *domain.Author, text string) error {
	if author == nil || author.AuthorID <= 0 {
		return errs.Errorf(errs.EINVALID, "A cheep needs an author.")
	}
	return cv.cheepGorm.Create(author, text)
}

// NextCheepID returns the current cheep count plus one. Like author ids,
// the value is not reserved; Create repeats the allocation inside its
// transaction, probing past ids still in use.
func (cg *cheepGorm) NextCheepID() (int, error) {
	var count int64
	if err := cg.db.Model(&domain.Cheep{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return int(count) + 1, nil
}

// allocateCheepID probes upward from count+1 for an unused id. After
// deletions count+1 can collide with a surviving row, so the probe is not
// optional.
func allocateCheepID(tx *gorm.DB) (int, error) {
	var count int64
	if err := tx.Model(&domain.Cheep{}).Count(&count).Error; err != nil {
		return 0, err
	}
	id := int(count) + 1
	for {
		var taken int64
		if err := tx.Model(&domain.Cheep{}).Where("cheep_id = ?", id).Count(&taken).Error; err != nil {
			return 0, err
		}
		if taken == 0 {
			return id, nil
		}
		id++
	}
}

// Create inserts a new cheep for the author, allocating the id inside the
// insert transaction. The timestamp is set here and never changes.
func (cg *cheepGorm) Create(author *domain.Author, text string) error {
	return cg.db.Transaction(func(tx *gorm.DB) error {
		id, err := allocateCheepID(tx)
		if err != nil {
			return err
		}
		cheep := &domain.Cheep{
			CheepID:   id,
			Text:      text,
			Timestamp: time.Now(),
			AuthorID:  author.AuthorID,
			LikedBy:   domain.IDList{},
		}
		return tx.Create(cheep).Error
	})
}

// Page retrieves one page of all cheeps, newest first, with each cheep's
// author eager-loaded for the view layer.
func (cg *cheepGorm) Page(page int) ([]domain.Cheep, error) {
	var cheeps []domain.Cheep
	err := cg.db.
		Preload("Author").
		Order(feedOrder).
		Offset(page * domain.PageSize).
		Limit(domain.PageSize).
		Find(&cheeps).Error
	if err != nil {
		return nil, err
	}
	return cheeps, nil
}

// PageByName retrieves one page of cheeps written by authors with the
// given name.
func (cg *cheepGorm) PageByName(name string, page int) ([]domain.Cheep, error) {
	var cheeps []domain.Cheep
	err := cg.db.
		Joins("JOIN authors ON authors.author_id = cheeps.author_id").
		Where("authors.name = ?", name).
		Preload("Author").
		Order(feedOrder).
		Offset(page * domain.PageSize).
		Limit(domain.PageSize).
		Find(&cheeps).Error
	if err != nil {
		return nil, err
	}
	return cheeps, nil
}

// PageByAuthorIDs retrieves one page of cheeps written by any author in
// the given id set.
func (cg *cheepGorm) PageByAuthorIDs(ids domain.IDList, page int) ([]domain.Cheep, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var cheeps []domain.Cheep
	err := cg.db.
		Where("author_id IN ?", []int(ids)).
		Preload("Author").
		Order(feedOrder).
		Offset(page * domain.PageSize).
		Limit(domain.PageSize).
		Find(&cheeps).Error
	if err != nil {
		return nil, err
	}
	return cheeps, nil
}

// Likers returns the LikedBy list of the cheep, or an empty list if the
// cheep does not exist.
func (cg *cheepGorm) Likers(cheepID int) (domain.IDList, error) {
	var cheeps []domain.Cheep
	if err := cg.db.Where("cheep_id = ?", cheepID).Limit(1).Find(&cheeps).Error; err != nil {
		return nil, err
	}
	if len(cheeps) == 0 {
		return domain.IDList{}, nil
	}
	return cheeps[0].LikedBy, nil
}

// AddLiker appends the author id to the cheep's LikedBy list and persists immediately.
func (cg *cheepGorm) AddLiker(cheep *domain.Cheep, authorID int) error {
	cheep.LikedBy.Add(authorID)
	return cg.db.Save(cheep).Error
}

// RemoveLiker removes the author id from the cheep's LikedBy list and
// persists immediately. Removing an absent id is a no-op.
func (cg *cheepGorm) RemoveLiker(cheep *domain.Cheep, authorID int) error {
	cheep.LikedBy.Remove(authorID)
	return cg.db.Save(cheep).Error
}

// ByID retrieves a single cheep with its author. A missing cheep returns
// (nil, nil), not an error, so read-side views can degrade gracefully.
func (cg *cheepGorm) ByID(cheepID int) (*domain.Cheep, error) {
	var cheep domain.Cheep
	err := cg.db.Preload("Author").First(&cheep, "cheep_id = ?", cheepID).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &cheep, nil
}

// ByAuthorID retrieves the full, unordered cheep set of one author.
// Used by the account deletion cascade.
func (cg *cheepGorm) ByAuthorID(authorID int) ([]domain.Cheep, error) {
	var cheeps []domain.Cheep
	err := cg.db.Where("author_id = ?", authorID).Find(&cheeps).Error
	if err != nil {
		return nil, err
	}
	return cheeps, nil
}

// Delete permanently removes the cheep row.
func (cg *cheepGorm) Delete(cheep *domain.Cheep) error {
	return cg.db.Delete(cheep).Error
}
