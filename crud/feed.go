package crud

import (
	"strings"
	"unicode/utf8"

	"gorm.io/gorm"

	"chirp/domain"
	"chirp/errs"
	"chirp/metrics"
)

// timestampLayout renders cheep timestamps for display.
const timestampLayout = "02/01/2006 15:04:05"

// FeedService assembles viewer-annotated timelines on top of the author
// and cheep services. It owns every workflow that touches both sides of
// the mirrored follow / like id lists, and runs each of those workflows
// in a single transaction so the two sides cannot drift apart under
// concurrent toggles. It implements the domain.FeedService interface.
type FeedService struct {
	db      *gorm.DB
	authors *AuthorService
	cheeps  *CheepService
}

// NewFeedService returns an instance of FeedService sharing the given
// database connection with the author and cheep services it orchestrates.
func NewFeedService(db *gorm.DB, authors *AuthorService, cheeps *CheepService) *FeedService {
	return &FeedService{
		db:      db,
		authors: authors,
		cheeps:  cheeps,
	}
}

// Ensure the FeedService struct properly implements the domain.FeedService
// interface. If it does not, then this expression becomes invalid and won't compile.
var _ domain.FeedService = &FeedService{}

// Feed builds the global timeline page. A viewer email that resolves to
// no author row downgrades the viewer to anonymous instead of failing.
// The follow annotation is only computed when both the viewer's name and
// email are given, matching the read contract of the public page.
func (fs *FeedService) Feed(viewerName, viewerEmail string, page int) ([]domain.FeedItem, error) {
	cheeps, err := fs.cheeps.Page(page)
	if err != nil {
		return nil, err
	}

	viewerID := 0
	if viewerEmail != "" {
		id, err := fs.authors.IDByEmail(viewerEmail)
		if err != nil && errs.ErrorCode(err) != errs.ENOTFOUND {
			return nil, err
		}
		if err == nil {
			viewerID = id
		}
	}

	var follows domain.IDList
	if viewerName != "" && viewerEmail != "" {
		follows, err = fs.authors.FollowIDs(viewerEmail)
		if err != nil {
			return nil, err
		}
	}

	items := make([]domain.FeedItem, 0, len(cheeps))
	for i := range cheeps {
		items = append(items, buildFeedItem(&cheeps[i], viewerID, follows))
	}
	return items, nil
}

// Timeline builds the page for one author's timeline. If the viewer IS
// the target author, the page becomes "my timeline": cheeps from the
// viewer's follow set plus the viewer themselves. Otherwise it is exactly
// the target's own cheeps, still annotated for the viewer.
func (fs *FeedService) Timeline(viewerEmail string, target *domain.Author, page int) ([]domain.FeedItem, error) {
	viewerID := 0
	var follows domain.IDList
	if viewerEmail != "" {
		id, err := fs.authors.IDByEmail(viewerEmail)
		if err != nil {
			return nil, err
		}
		viewerID = id
		follows, err = fs.authors.FollowIDs(viewerEmail)
		if err != nil {
			return nil, err
		}
	}

	var cheeps []domain.Cheep
	var err error
	annotate := follows
	if viewerEmail != "" && target.Email == viewerEmail {
		// Self-inclusive follow feed. The same list doubles as the
		// follow-annotation set, so the viewer's own cheeps carry the
		// followed flag here, like the follow feed always has.
		filter := append(domain.IDList{}, follows...)
		filter.Add(viewerID)
		cheeps, err = fs.cheeps.PageByAuthorIDs(filter, page)
		annotate = filter
	} else {
		cheeps, err = fs.cheeps.PageByAuthorIDs(domain.IDList{target.AuthorID}, page)
	}
	if err != nil {
		return nil, err
	}

	items := make([]domain.FeedItem, 0, len(cheeps))
	for i := range cheeps {
		items = append(items, buildFeedItem(&cheeps[i], viewerID, annotate))
	}
	return items, nil
}

// MyCheeps builds the page of cheeps the viewer wrote themselves.
func (fs *FeedService) MyCheeps(viewerEmail string, page int) ([]domain.FeedItem, error) {
	author, err := fs.singleAuthor(viewerEmail)
	if err != nil {
		return nil, err
	}
	cheeps, err := fs.cheeps.PageByAuthorIDs(domain.IDList{author.AuthorID}, page)
	if err != nil {
		return nil, err
	}
	items := make([]domain.FeedItem, 0, len(cheeps))
	for i := range cheeps {
		items = append(items, buildFeedItem(&cheeps[i], author.AuthorID, nil))
	}
	return items, nil
}

// LikedCheeps resolves each cheep the viewer has liked, in like order.
// A liked id whose cheep no longer exists is removed from the viewer's
// list and skipped, healing the dangling reference in place.
func (fs *FeedService) LikedCheeps(viewerEmail string) ([]domain.FeedItem, error) {
	author, err := fs.singleAuthor(viewerEmail)
	if err != nil {
		return nil, err
	}
	follows, err := fs.authors.FollowIDs(viewerEmail)
	if err != nil {
		return nil, err
	}

	// Iterate over a copy; the self-heal below mutates the list.
	liked := append(domain.IDList{}, author.LikedCheeps...)
	items := make([]domain.FeedItem, 0, len(liked))
	for _, cheepID := range liked {
		cheep, err := fs.cheeps.ByID(cheepID)
		if err != nil {
			return nil, err
		}
		if cheep == nil {
			if err := fs.authors.RemoveLike(author, cheepID); err != nil {
				return nil, err
			}
			continue
		}
		items = append(items, buildFeedItem(cheep, author.AuthorID, follows))
	}
	return items, nil
}

// ToggleFollow adds the target to the viewer's follow list, or removes
// them if already present. Calling it twice restores the original state.
// The read and the flip run in one transaction so concurrent toggles
// serialize instead of interleaving.
func (fs *FeedService) ToggleFollow(viewerEmail, targetEmail string) error {
	return fs.db.Transaction(func(tx *gorm.DB) error {
		var target domain.Author
		err := tx.Where("email = ?", targetEmail).First(&target).Error
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return errs.Errorf(errs.ENOTFOUND, "No author with that email.")
			}
			return err
		}

		var viewers []domain.Author
		if err := tx.Where("email = ?", viewerEmail).Limit(1).Find(&viewers).Error; err != nil {
			return err
		}
		if len(viewers) == 0 {
			// Viewer has no author row yet; nothing to toggle.
			return nil
		}
		viewer := &viewers[0]

		if viewer.Follows.Contains(target.AuthorID) {
			viewer.Follows.Remove(target.AuthorID)
		} else {
			viewer.Follows.Add(target.AuthorID)
		}
		if err := tx.Save(viewer).Error; err != nil {
			return err
		}
		metrics.FollowToggles.Inc()
		return nil
	})
}

// ToggleLike likes the cheep on behalf of the viewer, or unlikes it if
// already liked, updating both sides of the mirrored lists in one
// transaction. If either the cheep or the viewer's author row cannot be
// resolved, nothing happens.
func (fs *FeedService) ToggleLike(cheepID int, viewerEmail string) error {
	return fs.db.Transaction(func(tx *gorm.DB) error {
		var cheeps []domain.Cheep
		if err := tx.Where("cheep_id = ?", cheepID).Limit(1).Find(&cheeps).Error; err != nil {
			return err
		}
		var viewers []domain.Author
		if err := tx.Where("email = ?", viewerEmail).Limit(1).Find(&viewers).Error; err != nil {
			return err
		}
		if len(cheeps) == 0 || len(viewers) == 0 {
			return nil
		}
		cheep, viewer := &cheeps[0], &viewers[0]

		if cheep.LikedBy.Contains(viewer.AuthorID) {
			cheep.LikedBy.Remove(viewer.AuthorID)
			viewer.LikedCheeps.Remove(cheep.CheepID)
		} else {
			cheep.LikedBy.Add(viewer.AuthorID)
			viewer.LikedCheeps.Add(cheep.CheepID)
		}
		if err := tx.Save(cheep).Error; err != nil {
			return err
		}
		if err := tx.Save(viewer).Error; err != nil {
			return err
		}
		metrics.LikeToggles.Inc()
		return nil
	})
}

// CreateCheep validates the text and creates the cheep under the author
// matching the email. Policy: if the email does not resolve to exactly
// one author row, nothing happens.
func (fs *FeedService) CreateCheep(viewerEmail, text string) error {
	if strings.TrimSpace(text) == "" {
		return errs.Errorf(errs.EINVALID, "Cheep text must not be empty.")
	}
	if utf8.RuneCountInString(text) > domain.MaxCheepLength {
		return errs.Errorf(errs.EINVALID, "Cheep text max length is %d characters.", domain.MaxCheepLength)
	}
	authors, err := fs.authors.ByEmail(viewerEmail, 0)
	if err != nil {
		return err
	}
	if len(authors) != 1 {
		return nil
	}
	if err := fs.cheeps.Create(&authors[0], text); err != nil {
		return err
	}
	metrics.CheepsCreated.Inc()
	return nil
}

// DeleteAccount removes the author's like-marks from every cheep they
// liked, deletes all of the author's own cheeps, and finally deletes the
// author row together with the linked credential record. Step order
// matters: both cascades need the author's id, so the row goes last. The
// whole cascade runs in one transaction. Follow lists on other authors
// are left alone; readers tolerate follow ids that resolve to no author.
func (fs *FeedService) DeleteAccount(viewerEmail string) error {
	return fs.db.Transaction(func(tx *gorm.DB) error {
		var authors []domain.Author
		if err := tx.Where("email = ?", viewerEmail).Find(&authors).Error; err != nil {
			return err
		}
		if len(authors) == 0 {
			return errs.Errorf(errs.ENOTFOUND, "No author with that email.")
		}
		author := &authors[0]

		// Unmark every cheep this author liked.
		for _, cheepID := range author.LikedCheeps {
			var cheeps []domain.Cheep
			if err := tx.Where("cheep_id = ?", cheepID).Limit(1).Find(&cheeps).Error; err != nil {
				return err
			}
			if len(cheeps) == 0 {
				continue
			}
			cheep := &cheeps[0]
			cheep.LikedBy.Remove(author.AuthorID)
			if err := tx.Save(cheep).Error; err != nil {
				return err
			}
		}

		// Delete the author's own cheeps. Likes pointing at them heal
		// lazily the next time their owner opens the liked-cheeps view.
		if err := tx.Where("author_id = ?", author.AuthorID).Delete(&domain.Cheep{}).Error; err != nil {
			return err
		}

		// The row and credential go only on an exact single match.
		if len(authors) == 1 {
			if err := tx.Delete(author).Error; err != nil {
				return err
			}
			if err := tx.Where("email = ?", viewerEmail).Delete(&domain.User{}).Error; err != nil {
				return err
			}
		}
		metrics.AccountsDeleted.Inc()
		return nil
	})
}

// FollowedAuthors projects the viewer's follow list into display views,
// ordered by name descending like every author list read.
func (fs *FeedService) FollowedAuthors(email string) ([]domain.AuthorView, error) {
	follows, err := fs.authors.FollowIDs(email)
	if err != nil {
		return nil, err
	}
	authors, err := fs.authors.ByIDList(follows)
	if err != nil {
		return nil, err
	}
	views := make([]domain.AuthorView, 0, len(authors))
	for _, a := range authors {
		views = append(views, domain.AuthorView{Name: a.Name, Email: a.Email})
	}
	return views, nil
}

// Likers returns the ids of the authors that like the cheep.
func (fs *FeedService) Likers(cheepID int) (domain.IDList, error) {
	return fs.cheeps.Likers(cheepID)
}

// EnsureAuthor makes sure an author row exists for the given identity.
// Idempotent: an existing row for the email is left untouched, so the
// credential lifecycle stays decoupled from the social-graph lifecycle.
func (fs *FeedService) EnsureAuthor(name, email string) error {
	authors, err := fs.authors.ByEmail(email, 0)
	if err != nil {
		return err
	}
	if len(authors) > 0 {
		return nil
	}
	_, err = fs.authors.CreateAuthor(name, email)
	return err
}

// singleAuthor resolves the email to exactly one author row.
func (fs *FeedService) singleAuthor(email string) (*domain.Author, error) {
	authors, err := fs.authors.ByEmail(email, 0)
	if err != nil {
		return nil, err
	}
	if len(authors) == 0 {
		return nil, errs.Errorf(errs.ENOTFOUND, "No author with that email.")
	}
	return &authors[0], nil
}

// buildFeedItem derives the viewer-relative view of one cheep. The
// follows list doubles as the annotation set: an author id present in it
// marks the item as followed.
func buildFeedItem(cheep *domain.Cheep, viewerID int, follows domain.IDList) domain.FeedItem {
	item := domain.FeedItem{
		CheepID:   cheep.CheepID,
		Text:      cheep.Text,
		Timestamp: cheep.Timestamp.Format(timestampLayout),
		Followed:  follows.Contains(cheep.AuthorID),
		Likes:     len(cheep.LikedBy),
		Liked:     viewerID != 0 && cheep.LikedBy.Contains(viewerID),
		Likers:    cheep.LikedBy,
	}
	if cheep.Author != nil {
		item.AuthorName = cheep.Author.Name
		item.AuthorEmail = cheep.Author.Email
	}
	return item
}
