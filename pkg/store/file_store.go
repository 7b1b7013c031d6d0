package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"foodlog/pkg/domain"
)

// fileDocument is the on-disk shape: one JSON document with two collections.
// Field names match the legacy db.json layout, so existing data files load
// unchanged.
type fileDocument struct {
	Users   []storedUser   `json:"users"`
	Records []storedRecord `json:"records"`
}

type storedUser struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Password  string    `json:"password"`
	CreatedAt time.Time `json:"createdAt"`
}

type storedRecord struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"userId"`
	ShopName    string    `json:"shopName"`
	Address     string    `json:"address"`
	DishName    string    `json:"dishName"`
	CuisineTags string    `json:"cuisineTags"`
	RegionTags  string    `json:"regionTags"`
	CreatedAt   time.Time `json:"createdAt"`
}

// FileStore implements Store on a single flat JSON file. The whole document
// is held in memory; every mutation rewrites the file atomically
// (temp file + rename) before the new state becomes visible, so a crash
// mid-write never exposes a partial record on restart.
//
// One mutex serializes read-modify-write sequences. There is one store
// instance per process, which is what makes the in-process lock sufficient.
type FileStore struct {
	path string

	mu           sync.RWMutex
	doc          fileDocument
	nextUserID   int64
	nextRecordID int64
}

// NewFileStore loads the document at path, creating an empty one if the file
// does not exist. Id counters are seeded once from the highest stored ids;
// after that, ids are assigned from the counters under the write lock rather
// than re-scanned per insert.
func NewFileStore(path string) (*FileStore, error) {
	if path == "" {
		return nil, errors.New("file store path is required")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create data dir: %w", err)
		}
	}

	s := &FileStore{path: path}
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		s.doc = fileDocument{Users: []storedUser{}, Records: []storedRecord{}}
		if err := s.persist(s.doc); err != nil {
			return nil, err
		}
	case err != nil:
		return nil, fmt.Errorf("read data file: %w", err)
	default:
		if err := json.Unmarshal(data, &s.doc); err != nil {
			return nil, fmt.Errorf("parse data file: %w", err)
		}
	}

	s.nextUserID = 1
	for _, u := range s.doc.Users {
		if u.ID >= s.nextUserID {
			s.nextUserID = u.ID + 1
		}
	}
	s.nextRecordID = 1
	for _, r := range s.doc.Records {
		if r.ID >= s.nextRecordID {
			s.nextRecordID = r.ID + 1
		}
	}
	return s, nil
}

// CreateUser registers a user, assigning the next id.
func (s *FileStore) CreateUser(username, passwordHash string) (domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.doc.Users {
		if u.Username == username {
			return domain.User{}, ErrDuplicateUsername
		}
	}
	user := storedUser{
		ID:        s.nextUserID,
		Username:  username,
		Password:  passwordHash,
		CreatedAt: time.Now().UTC(),
	}
	next := s.doc
	next.Users = append(append([]storedUser{}, s.doc.Users...), user)
	if err := s.persist(next); err != nil {
		return domain.User{}, err
	}
	s.doc = next
	s.nextUserID++
	return userFromStored(user), nil
}

// GetUserByUsername looks up a user by exact username.
func (s *FileStore) GetUserByUsername(username string) (domain.User, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.doc.Users {
		if u.Username == username {
			return userFromStored(u), true, nil
		}
	}
	return domain.User{}, false, nil
}

// GetUserByID returns a user by id.
func (s *FileStore) GetUserByID(id int64) (domain.User, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.doc.Users {
		if u.ID == id {
			return userFromStored(u), true, nil
		}
	}
	return domain.User{}, false, nil
}

// ListRecordsByOwner returns the owner's records, most recent first. The
// stable sort keeps insertion order for records sharing a timestamp.
func (s *FileStore) ListRecordsByOwner(ownerID int64) ([]domain.FoodRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	res := make([]domain.FoodRecord, 0)
	for _, r := range s.doc.Records {
		if r.UserID == ownerID {
			res = append(res, recordFromStored(r))
		}
	}
	sort.SliceStable(res, func(i, j int) bool {
		return res[i].CreatedAt.After(res[j].CreatedAt)
	})
	return res, nil
}

// GetRecordByIDAndOwner retrieves a record only when both id and owner match.
func (s *FileStore) GetRecordByIDAndOwner(id, ownerID int64) (domain.FoodRecord, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, r := range s.doc.Records {
		if r.ID == id && r.UserID == ownerID {
			return recordFromStored(r), true, nil
		}
	}
	return domain.FoodRecord{}, false, nil
}

// CreateRecord persists a record for the owner and returns the stored shape.
func (s *FileStore) CreateRecord(ownerID int64, fields domain.RecordFields) (domain.FoodRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record := storedRecord{
		ID:          s.nextRecordID,
		UserID:      ownerID,
		ShopName:    fields.ShopName,
		Address:     fields.Address,
		DishName:    fields.DishName,
		CuisineTags: fields.CuisineTags,
		RegionTags:  fields.RegionTags,
		CreatedAt:   time.Now().UTC(),
	}
	next := s.doc
	next.Records = append(append([]storedRecord{}, s.doc.Records...), record)
	if err := s.persist(next); err != nil {
		return domain.FoodRecord{}, err
	}
	s.doc = next
	s.nextRecordID++
	return recordFromStored(record), nil
}

// UpdateRecordByIDAndOwner replaces the mutable fields of a matching owned
// record. ID, owner and creation time are never touched.
func (s *FileStore) UpdateRecordByIDAndOwner(id, ownerID int64, fields domain.RecordFields) (domain.FoodRecord, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i, r := range s.doc.Records {
		if r.ID == id && r.UserID == ownerID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return domain.FoodRecord{}, false, nil
	}

	next := s.doc
	next.Records = append([]storedRecord{}, s.doc.Records...)
	updated := next.Records[idx]
	updated.ShopName = fields.ShopName
	updated.Address = fields.Address
	updated.DishName = fields.DishName
	updated.CuisineTags = fields.CuisineTags
	updated.RegionTags = fields.RegionTags
	next.Records[idx] = updated
	if err := s.persist(next); err != nil {
		return domain.FoodRecord{}, false, err
	}
	s.doc = next
	return recordFromStored(updated), true, nil
}

// DeleteRecordByIDAndOwner removes a matching owned record and reports
// whether one was actually removed.
func (s *FileStore) DeleteRecordByIDAndOwner(id, ownerID int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i, r := range s.doc.Records {
		if r.ID == id && r.UserID == ownerID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return false, nil
	}

	next := s.doc
	next.Records = append([]storedRecord{}, s.doc.Records[:idx]...)
	next.Records = append(next.Records, s.doc.Records[idx+1:]...)
	if err := s.persist(next); err != nil {
		return false, err
	}
	s.doc = next
	return true, nil
}

// Close is a no-op; every mutation already left the file in a complete state.
func (s *FileStore) Close() error {
	return nil
}

// persist writes the document to a temp file in the same directory and
// renames it over the target. Rename is atomic on POSIX filesystems.
func (s *FileStore) persist(doc fileDocument) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode data file: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace data file: %w", err)
	}
	return nil
}

func userFromStored(u storedUser) domain.User {
	return domain.User{
		ID:           u.ID,
		Username:     u.Username,
		PasswordHash: u.Password,
		CreatedAt:    u.CreatedAt,
	}
}

func recordFromStored(r storedRecord) domain.FoodRecord {
	return domain.FoodRecord{
		ID:          r.ID,
		OwnerID:     r.UserID,
		ShopName:    r.ShopName,
		Address:     r.Address,
		DishName:    r.DishName,
		CuisineTags: r.CuisineTags,
		RegionTags:  r.RegionTags,
		CreatedAt:   r.CreatedAt,
	}
}
