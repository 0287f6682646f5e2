package storage

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	bolt "go.etcd.io/bbolt"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
)

var (
	bktFavorites    = []byte("favorites")
	bktProgress     = []byte("progress")
	bktSessions     = []byte("sessions")
	bktAchievements = []byte("achievements")
	bktAuth         = []byte("auth")
)

// userDataBuckets are the namespaces cleared together by a full data reset.
var userDataBuckets = [][]byte{bktFavorites, bktProgress, bktSessions, bktAchievements}

// Storage is a wrapper around bolt.DB
type Storage struct {
	db        *bolt.DB
	closeFunc func() error
}

// NewStorage creates a new storage
func NewStorage(path string) (*Storage, error) {
	db, err := bolt.Open(path, 0600, nil)
	if err != nil {
		return nil, err
	}
	return &Storage{
		db:        db,
		closeFunc: db.Close,
	}, nil
}

func NewTempStorage() (*Storage, error) {
	path := filepath.Join(os.TempDir(), fmt.Sprintf("bible-companion-%s.db", uuid.New().String()))
	storage, err := NewStorage(path)
	if err != nil {
		return nil, err
	}
	originalCloseFunc := storage.closeFunc
	storage.closeFunc = func() error {
		if err := originalCloseFunc(); err != nil {
			return err
		}
		return os.Remove(path)
	}
	return storage, nil
}

// Close closes the storage
func (s *Storage) Close() error {
	return s.closeFunc()
}

func (s *Storage) GetFavorites(userID int64) ([]Favorite, error) {
	favorites := []Favorite{}
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bktFavorites)
		if b == nil {
			return nil
		}
		var err error
		favorites, err = getFavorites(b, userKey(userID))
		return err
	})
	return favorites, err
}

type UpdateFavoritesFunc func(*[]Favorite) error

func (s *Storage) UpdateFavorites(userID int64, updFunc UpdateFavoritesFunc) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(bktFavorites)
		if err != nil {
			return err
		}
		id := userKey(userID)
		favorites, err := getFavorites(b, id)
		if err != nil {
			return err
		}
		if err = updFunc(&favorites); err != nil {
			return err
		}
		return putFavorites(b, id, favorites)
	})
}

func (s *Storage) GetProgress(userID int64) (Progress, error) {
	progress := defaultProgress()
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bktProgress)
		if b == nil {
			return nil
		}
		var err error
		progress, err = getProgress(b, userKey(userID))
		return err
	})
	return progress, err
}

type UpdateProgressFunc func(*Progress) error

func (s *Storage) UpdateProgress(userID int64, updFunc UpdateProgressFunc) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(bktProgress)
		if err != nil {
			return err
		}
		id := userKey(userID)
		progress, err := getProgress(b, id)
		if err != nil {
			return err
		}
		if err = updFunc(&progress); err != nil {
			return err
		}
		return putProgress(b, id, progress)
	})
}

// AddSession appends one record to the user's session log. The log is
// append-only for the lifetime of the account.
func (s *Storage) AddSession(userID int64, session ReadingSession) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(bktSessions)
		if err != nil {
			return err
		}
		id := userKey(userID)
		sessions, err := getSessions(b, id)
		if err != nil {
			return err
		}
		sessions = append(sessions, session)
		return putSessions(b, id, sessions)
	})
}

func (s *Storage) GetSessions(userID int64) ([]ReadingSession, error) {
	sessions := []ReadingSession{}
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bktSessions)
		if b == nil {
			return nil
		}
		var err error
		sessions, err = getSessions(b, userKey(userID))
		return err
	})
	return sessions, err
}

func (s *Storage) GetUnlockedAchievements(userID int64) ([]string, error) {
	unlocked := []string{}
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bktAchievements)
		if b == nil {
			return nil
		}
		var err error
		unlocked, err = getUnlocked(b, userKey(userID))
		return err
	})
	return unlocked, err
}

type UpdateUnlockedFunc func(*[]string) error

func (s *Storage) UpdateUnlockedAchievements(userID int64, updFunc UpdateUnlockedFunc) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(bktAchievements)
		if err != nil {
			return err
		}
		id := userKey(userID)
		unlocked, err := getUnlocked(b, id)
		if err != nil {
			return err
		}
		if err = updFunc(&unlocked); err != nil {
			return err
		}
		return putUnlocked(b, id, unlocked)
	})
}

// RegisterUser allocates a new user id and its device token.
func (s *Storage) RegisterUser() (int64, string, error) {
	var userID int64
	token := uuid.NewString()
	err := s.db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(bktAuth)
		if err != nil {
			return err
		}
		seq, err := b.NextSequence()
		if err != nil {
			return err
		}
		userID = int64(seq)
		byteUserID := userKey(userID)
		byteToken := []byte(token)
		if dbUserID := b.Get(byteToken); dbUserID != nil && !bytes.Equal(dbUserID, byteUserID) {
			return ErrAlreadyExists
		}
		if err = b.Put(byteToken, byteUserID); err != nil {
			return errors.Wrap(err, "failed to put user id by token")
		}
		if err = b.Put(byteUserID, byteToken); err != nil {
			return errors.Wrap(err, "failed to put token by user id")
		}
		return nil
	})
	return userID, token, err
}

func (s *Storage) GetUserIDByAuthToken(token string) (int64, error) {
	var userID int64
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bktAuth)
		if b == nil {
			return ErrNotFound
		}
		byteUserID := b.Get([]byte(token))
		if byteUserID == nil {
			return ErrNotFound
		}
		userID = bytesToInt64(byteUserID)
		return nil
	})
	return userID, err
}

// ResetAll clears every user-data namespace for the user in one
// transaction. Auth tokens survive a reset.
func (s *Storage) ResetAll(userID int64) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		id := userKey(userID)
		for _, name := range userDataBuckets {
			b := tx.Bucket(name)
			if b == nil {
				continue
			}
			if err := b.Delete(id); err != nil {
				return errors.Wrapf(err, "failed to clear %s", name)
			}
		}
		return nil
	})
}

// helper functions

func getFavorites(b *bolt.Bucket, id []byte) ([]Favorite, error) {
	v := b.Get(id)
	if v == nil {
		return []Favorite{}, nil
	}
	var favorites []Favorite
	if err := json.Unmarshal(v, &favorites); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal favorites")
	}
	return favorites, nil
}

func putFavorites(b *bolt.Bucket, id []byte, favorites []Favorite) error {
	encoded, err := json.Marshal(favorites)
	if err != nil {
		return err
	}
	return b.Put(id, encoded)
}

func getProgress(b *bolt.Bucket, id []byte) (Progress, error) {
	v := b.Get(id)
	if v == nil {
		return defaultProgress(), nil
	}
	var progress Progress
	if err := json.Unmarshal(v, &progress); err != nil {
		return defaultProgress(), errors.Wrap(err, "failed to unmarshal progress")
	}
	if progress.ReadChapters == nil {
		progress.ReadChapters = []string{}
	}
	return progress, nil
}

func putProgress(b *bolt.Bucket, id []byte, progress Progress) error {
	encoded, err := json.Marshal(progress)
	if err != nil {
		return err
	}
	return b.Put(id, encoded)
}

func getSessions(b *bolt.Bucket, id []byte) ([]ReadingSession, error) {
	v := b.Get(id)
	if v == nil {
		return []ReadingSession{}, nil
	}
	var sessions []ReadingSession
	if err := json.Unmarshal(v, &sessions); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal sessions")
	}
	return sessions, nil
}

func putSessions(b *bolt.Bucket, id []byte, sessions []ReadingSession) error {
	encoded, err := json.Marshal(sessions)
	if err != nil {
		return err
	}
	return b.Put(id, encoded)
}

func getUnlocked(b *bolt.Bucket, id []byte) ([]string, error) {
	v := b.Get(id)
	if v == nil {
		return []string{}, nil
	}
	var unlocked []string
	if err := json.Unmarshal(v, &unlocked); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal unlocked achievements")
	}
	return unlocked, nil
}

func putUnlocked(b *bolt.Bucket, id []byte, unlocked []string) error {
	encoded, err := json.Marshal(unlocked)
	if err != nil {
		return err
	}
	return b.Put(id, encoded)
}

func userKey(id int64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, uint64(id))
	return b
}

func bytesToInt64(b []byte) int64 {
	return int64(binary.BigEndian.Uint64(b))
}

func defaultProgress() Progress {
	return Progress{
		ReadChapters: []string{},
	}
}
