package memory

import (
	"sync"

	"blogserver/internal/domain"
)

type favoriteKey struct {
	userID int64
	postID int64
}

type favoriteEntry struct {
	domain.Favorite
	seq int64 // insertion order, breaks created_at ties when listing
}

// Store holds all in-memory state shared by the repositories built on it. Every
// mutation runs under one mutex; entities are stored and returned by value so a
// caller can never alias map contents. There is no durability between snapshots.
type Store struct {
	mu         sync.RWMutex
	users      map[int64]domain.User
	posts      map[int64]domain.Post
	favorites  map[favoriteKey]favoriteEntry
	nextUserID int64
	nextPostID int64
	nextFavSeq int64
	path       string
}

// NewStore creates an empty store. path is where snapshots are written; it may be
// empty when snapshot persistence is not wanted (tests).
func NewStore(path string) *Store {
	return &Store{
		users:      make(map[int64]domain.User),
		posts:      make(map[int64]domain.Post),
		favorites:  make(map[favoriteKey]favoriteEntry),
		nextUserID: 1,
		nextPostID: 1,
		nextFavSeq: 1,
		path:       path,
	}
}
