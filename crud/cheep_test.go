package crud

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chirp/domain"
	"chirp/errs"
)

func TestCheepNextCheepID(t *testing.T) {
	s := newTestServices(t)
	seedChirpData(t, s.db)

	id, err := s.Cheep.NextCheepID()
	require.NoError(t, err)
	assert.Equal(t, 5, id)
}

func TestCheepPageOrder(t *testing.T) {
	s := newTestServices(t)
	seedChirpData(t, s.db)

	cheeps, err := s.Cheep.Page(0)
	require.NoError(t, err)
	assert.Equal(t, []int{4, 3, 2, 1}, cheepIDs(cheeps))

	// Authors come eager-loaded for the view layer.
	require.NotNil(t, cheeps[0].Author)
	assert.Equal(t, "Helge", cheeps[0].Author.Name)
	require.NotNil(t, cheeps[2].Author)
	assert.Equal(t, "Adrian", cheeps[2].Author.Name)
}

func TestCheepPaginationDeterministic(t *testing.T) {
	s := newTestServices(t)
	seedChirpData(t, s.db)

	// 35 extra cheeps sharing one timestamp newer than the seed set. With
	// the tie broken by cheep id ascending, page boundaries are stable.
	stamp := seedBase.Add(time.Hour)
	for id := 5; id <= 39; id++ {
		require.NoError(t, s.db.Create(&domain.Cheep{
			CheepID:   id,
			Text:      fmt.Sprintf("cheep number %d", id),
			Timestamp: stamp,
			AuthorID:  2,
			LikedBy:   domain.IDList{},
		}).Error)
	}

	first, err := s.Cheep.Page(0)
	require.NoError(t, err)
	second, err := s.Cheep.Page(1)
	require.NoError(t, err)

	want := make([]int, 0, domain.PageSize)
	for id := 5; id <= 36; id++ {
		want = append(want, id)
	}
	assert.Equal(t, want, cheepIDs(first))
	assert.Equal(t, []int{37, 38, 39, 4, 3, 2, 1}, cheepIDs(second))

	// Re-reading an unchanged set paginates identically.
	again, err := s.Cheep.Page(0)
	require.NoError(t, err)
	assert.Equal(t, cheepIDs(first), cheepIDs(again))
}

func TestCheepPageByName(t *testing.T) {
	s := newTestServices(t)
	seedChirpData(t, s.db)

	cheeps, err := s.Cheep.PageByName("Helge", 0)
	require.NoError(t, err)
	assert.Equal(t, []int{4, 3, 1}, cheepIDs(cheeps))

	cheeps, err = s.Cheep.PageByName("Nobody", 0)
	require.NoError(t, err)
	assert.Empty(t, cheeps)
}

func TestCheepPageByAuthorIDs(t *testing.T) {
	s := newTestServices(t)
	seedChirpData(t, s.db)

	cheeps, err := s.Cheep.PageByAuthorIDs(domain.IDList{1, 2}, 0)
	require.NoError(t, err)
	assert.Equal(t, []int{4, 3, 2, 1}, cheepIDs(cheeps))

	cheeps, err = s.Cheep.PageByAuthorIDs(domain.IDList{}, 0)
	require.NoError(t, err)
	assert.Empty(t, cheeps)
}

func TestCheepLikers(t *testing.T) {
	s := newTestServices(t)
	seedChirpData(t, s.db)

	likers, err := s.Cheep.Likers(1)
	require.NoError(t, err)
	assert.Equal(t, domain.IDList{1, 2}, likers)

	// Missing cheeps degrade to an empty list.
	likers, err = s.Cheep.Likers(99)
	require.NoError(t, err)
	assert.Equal(t, domain.IDList{}, likers)
}

func TestCheepByID(t *testing.T) {
	s := newTestServices(t)
	seedChirpData(t, s.db)

	cheep, err := s.Cheep.ByID(2)
	require.NoError(t, err)
	require.NotNil(t, cheep)
	assert.Equal(t, "They are with a bow and rammed", cheep.Text)
	require.NotNil(t, cheep.Author)
	assert.Equal(t, "Adrian", cheep.Author.Name)

	cheep, err = s.Cheep.ByID(99)
	require.NoError(t, err)
	assert.Nil(t, cheep)
}

func TestCheepAddRemoveLiker(t *testing.T) {
	s := newTestServices(t)
	seedChirpData(t, s.db)

	cheep, err := s.Cheep.ByID(2)
	require.NoError(t, err)
	require.NoError(t, s.Cheep.AddLiker(cheep, 1))

	likers, err := s.Cheep.Likers(2)
	require.NoError(t, err)
	assert.Equal(t, domain.IDList{1}, likers)

	require.NoError(t, s.Cheep.RemoveLiker(cheep, 1))
	likers, err = s.Cheep.Likers(2)
	require.NoError(t, err)
	assert.Equal(t, domain.IDList{}, likers)
}

func TestCheepCreateValidation(t *testing.T) {
	s := newTestServices(t)

	err := s.Cheep.Create(nil, "orphan cheep")
	assert.Equal(t, errs.EINVALID, errs.ErrorCode(err))

	err = s.Cheep.Create(&domain.Author{}, "orphan cheep")
	assert.Equal(t, errs.EINVALID, errs.ErrorCode(err))
}

func TestCheepCreateProbesPastGaps(t *testing.T) {
	s := newTestServices(t)
	seedChirpData(t, s.db)

	// Deleting cheep 2 drops the count to three; count+1 collides with the
	// surviving cheep 4, so the allocation probes on to 5.
	cheep, err := s.Cheep.ByID(2)
	require.NoError(t, err)
	require.NoError(t, s.Cheep.Delete(cheep))

	author, err := s.Author.ByName("Adrian", 0)
	require.NoError(t, err)
	require.NoError(t, s.Cheep.Create(author, "back again"))

	created, err := s.Cheep.ByID(5)
	require.NoError(t, err)
	require.NotNil(t, created)
	assert.Equal(t, "back again", created.Text)
	assert.Equal(t, 2, created.AuthorID)
	assert.Equal(t, domain.IDList{}, created.LikedBy)
}
