package crud

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"chirp/domain"
)

// seedBase anchors the seed cheep timestamps. Each cheep is created one
// minute apart, so the newest-first ordering over the seed set is
// [4, 3, 2, 1].
var seedBase = time.Date(2023, 8, 1, 12, 0, 0, 0, time.UTC)

// newTestDB opens an in-memory sqlite database that is private to the
// calling test and runs the migrations on it.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(domain.User{}, domain.Author{}, domain.Cheep{}))
	return db
}

// newTestServices assembles the full services container against a fresh
// test database.
func newTestServices(t *testing.T) *Services {
	t.Helper()
	services, err := NewServices(
		newTestDB(t),
		WithUser("test-hmac-key", "test-pepper"),
		WithAuthor(),
		WithCheep(),
		WithFeed(),
	)
	require.NoError(t, err)
	return services
}

// seedChirpData inserts two authors and four cheeps with mirrored
// follow / like lists:
//
//	Helge  (id 1) follows Adrian, likes cheeps 4, 1, 3
//	Adrian (id 2) follows nobody, likes cheep 1
//
// Cheeps 1, 3 and 4 belong to Helge, cheep 2 to Adrian.
func seedChirpData(t *testing.T, db *gorm.DB) {
	t.Helper()
	authors := []domain.Author{
		{AuthorID: 1, Name: "Helge", Email: "ropf@itu.dk", Follows: domain.IDList{2}, LikedCheeps: domain.IDList{4, 1, 3}},
		{AuthorID: 2, Name: "Adrian", Email: "adho@itu.dk", Follows: domain.IDList{}, LikedCheeps: domain.IDList{1}},
	}
	for i := range authors {
		require.NoError(t, db.Create(&authors[i]).Error)
	}
	cheeps := []domain.Cheep{
		{CheepID: 1, Text: "Join itu lan party now", AuthorID: 1, LikedBy: domain.IDList{1, 2}},
		{CheepID: 2, Text: "They are with a bow and rammed", AuthorID: 2, LikedBy: domain.IDList{}},
		{CheepID: 3, Text: "Madeleine was enamoured of the deck", AuthorID: 1, LikedBy: domain.IDList{1}},
		{CheepID: 4, Text: "Vee wanted to hear about the whale", AuthorID: 1, LikedBy: domain.IDList{1}},
	}
	for i := range cheeps {
		cheeps[i].Timestamp = seedBase.Add(time.Duration(cheeps[i].CheepID) * time.Minute)
		require.NoError(t, db.Create(&cheeps[i]).Error)
	}
}

// cheepIDs projects a cheep slice onto its ids, preserving order.
func cheepIDs(cheeps []domain.Cheep) []int {
	ids := make([]int, 0, len(cheeps))
	for _, c := range cheeps {
		ids = append(ids, c.CheepID)
	}
	return ids
}

// itemIDs projects a feed item slice onto its cheep ids, preserving order.
func itemIDs(items []domain.FeedItem) []int {
	ids := make([]int, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.CheepID)
	}
	return ids
}
