package crud

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chirp/domain"
	"chirp/errs"
)

func TestAuthorNewAuthorID(t *testing.T) {
	s := newTestServices(t)
	seedChirpData(t, s.db)

	id, err := s.Author.NewAuthorID()
	require.NoError(t, err)
	assert.Equal(t, 3, id)

	author, err := s.Author.CreateAuthor("Quintin", "quintin@itu.dk")
	require.NoError(t, err)
	assert.Equal(t, 3, author.AuthorID)

	id, err = s.Author.NewAuthorID()
	require.NoError(t, err)
	assert.Equal(t, 4, id)
}

func TestAuthorIDAvailable(t *testing.T) {
	s := newTestServices(t)
	seedChirpData(t, s.db)

	avail, err := s.Author.IDAvailable(1)
	require.NoError(t, err)
	assert.False(t, avail)

	avail, err = s.Author.IDAvailable(3)
	require.NoError(t, err)
	assert.True(t, avail)
}

func TestAuthorCreateValidation(t *testing.T) {
	s := newTestServices(t)

	_, err := s.Author.CreateAuthor("Nameless", "")
	assert.Equal(t, errs.EINVALID, errs.ErrorCode(err))

	_, err = s.Author.CreateAuthor("  ", "blank@itu.dk")
	assert.Equal(t, errs.EINVALID, errs.ErrorCode(err))

	author, err := s.Author.CreateAuthor("Casing", "  Casing@ITU.dk ")
	require.NoError(t, err)
	assert.Equal(t, "casing@itu.dk", author.Email)
	assert.Equal(t, domain.IDList{}, author.Follows)
	assert.Equal(t, domain.IDList{}, author.LikedCheeps)
}

func TestAuthorByName(t *testing.T) {
	s := newTestServices(t)
	seedChirpData(t, s.db)

	author, err := s.Author.ByName("Helge", 0)
	require.NoError(t, err)
	assert.Equal(t, 1, author.AuthorID)
	assert.Equal(t, "ropf@itu.dk", author.Email)

	_, err = s.Author.ByName("Nobody", 0)
	assert.Equal(t, errs.ENOTFOUND, errs.ErrorCode(err))
}

func TestAuthorByEmail(t *testing.T) {
	s := newTestServices(t)
	seedChirpData(t, s.db)

	authors, err := s.Author.ByEmail("adho@itu.dk", 0)
	require.NoError(t, err)
	require.Len(t, authors, 1)
	assert.Equal(t, "Adrian", authors[0].Name)

	authors, err = s.Author.ByEmail("nobody@itu.dk", 0)
	require.NoError(t, err)
	assert.Empty(t, authors)
}

func TestAuthorIDByEmail(t *testing.T) {
	s := newTestServices(t)
	seedChirpData(t, s.db)

	id, err := s.Author.IDByEmail("ropf@itu.dk")
	require.NoError(t, err)
	assert.Equal(t, 1, id)

	_, err = s.Author.IDByEmail("nobody@itu.dk")
	assert.Equal(t, errs.ENOTFOUND, errs.ErrorCode(err))
}

func TestAuthorFollowAndLikeLists(t *testing.T) {
	s := newTestServices(t)
	seedChirpData(t, s.db)

	follows, err := s.Author.FollowIDs("ropf@itu.dk")
	require.NoError(t, err)
	assert.Equal(t, domain.IDList{2}, follows)

	// Unknown viewers degrade to an empty list, not an error.
	follows, err = s.Author.FollowIDs("nobody@itu.dk")
	require.NoError(t, err)
	assert.Equal(t, domain.IDList{}, follows)

	liked, err := s.Author.LikedCheepIDs("ropf@itu.dk")
	require.NoError(t, err)
	assert.Equal(t, domain.IDList{4, 1, 3}, liked)

	author, err := s.Author.ByName("Adrian", 0)
	require.NoError(t, err)
	require.NoError(t, s.Author.AddFollow(author, 1))
	follows, err = s.Author.FollowIDs("adho@itu.dk")
	require.NoError(t, err)
	assert.Equal(t, domain.IDList{1}, follows)

	require.NoError(t, s.Author.RemoveFollow(author, 1))
	follows, err = s.Author.FollowIDs("adho@itu.dk")
	require.NoError(t, err)
	assert.Equal(t, domain.IDList{}, follows)
}

func TestAuthorByIDList(t *testing.T) {
	s := newTestServices(t)
	seedChirpData(t, s.db)

	authors, err := s.Author.ByIDList(nil)
	require.NoError(t, err)
	assert.Nil(t, authors)

	// Name descending, missing ids yield fewer rows.
	authors, err = s.Author.ByIDList(domain.IDList{2, 1, 99})
	require.NoError(t, err)
	require.Len(t, authors, 2)
	assert.Equal(t, "Helge", authors[0].Name)
	assert.Equal(t, "Adrian", authors[1].Name)
}

func TestAuthorDelete(t *testing.T) {
	s := newTestServices(t)
	seedChirpData(t, s.db)
	require.NoError(t, s.User.Create(&domain.User{
		Email:    "adho@itu.dk",
		Password: "password123",
	}))

	require.NoError(t, s.Author.DeleteAuthor("adho@itu.dk"))

	authors, err := s.Author.ByEmail("adho@itu.dk", 0)
	require.NoError(t, err)
	assert.Empty(t, authors)

	var count int64
	require.NoError(t, s.db.Model(&domain.User{}).Where("email = ?", "adho@itu.dk").Count(&count).Error)
	assert.Zero(t, count)
}

func TestAuthorDeleteNoSingleMatch(t *testing.T) {
	s := newTestServices(t)
	seedChirpData(t, s.db)

	// Unknown email is a silent no-op.
	require.NoError(t, s.Author.DeleteAuthor("nobody@itu.dk"))

	// So is an email shared by two rows.
	require.NoError(t, s.db.Create(&domain.Author{
		AuthorID: 3, Name: "Helge II", Email: "ropf@itu.dk",
		Follows: domain.IDList{}, LikedCheeps: domain.IDList{},
	}).Error)
	require.NoError(t, s.Author.DeleteAuthor("ropf@itu.dk"))

	authors, err := s.Author.ByEmail("ropf@itu.dk", 0)
	require.NoError(t, err)
	assert.Len(t, authors, 2)
}

func TestAuthorCreateAfterDeleteReusesID(t *testing.T) {
	s := newTestServices(t)
	seedChirpData(t, s.db)
	require.NoError(t, s.Author.DeleteAuthor("adho@itu.dk"))

	// Count is back to one; count+1 lands on the freed id.
	author, err := s.Author.CreateAuthor("Rasmus", "rnie@itu.dk")
	require.NoError(t, err)
	assert.Equal(t, 2, author.AuthorID)

	// The next creation probes past both taken ids.
	author, err = s.Author.CreateAuthor("Mellie", "mellie@itu.dk")
	require.NoError(t, err)
	assert.Equal(t, 3, author.AuthorID)
}
