// Package memory is an in-process metadata store. It enforces the same unique
// constraints as the postgres schema and rolls a transaction back by restoring
// the snapshot taken when it began. It backs METADATA_STORE=memory and the
// service tests.
package memory

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"orgdrive/internal/domain/models"
	"orgdrive/internal/domain/repositories"
)

type favoriteKey struct {
	userID string
	fileID string
}

// dataset is everything the store holds. Slices record insertion order where
// listings depend on it.
type dataset struct {
	users         map[string]models.User
	folders       map[string]models.Folder
	organizations map[string]models.Organization
	orgOrder      []string
	memberships   map[string]models.Membership
	memberOrder   []string
	files         map[string]models.File
	favorites     map[favoriteKey]models.FavoriteFile
	audit         []models.AuditLogEntry
}

func newDataset() *dataset {
	return &dataset{
		users:         make(map[string]models.User),
		folders:       make(map[string]models.Folder),
		organizations: make(map[string]models.Organization),
		memberships:   make(map[string]models.Membership),
		files:         make(map[string]models.File),
		favorites:     make(map[favoriteKey]models.FavoriteFile),
	}
}

func (d *dataset) clone() *dataset {
	c := newDataset()
	for k, v := range d.users {
		c.users[k] = v
	}
	for k, v := range d.folders {
		c.folders[k] = v
	}
	for k, v := range d.organizations {
		c.organizations[k] = v
	}
	for k, v := range d.memberships {
		c.memberships[k] = v
	}
	for k, v := range d.files {
		c.files[k] = v
	}
	for k, v := range d.favorites {
		c.favorites[k] = v
	}
	c.orgOrder = append([]string(nil), d.orgOrder...)
	c.memberOrder = append([]string(nil), d.memberOrder...)
	c.audit = append([]models.AuditLogEntry(nil), d.audit...)
	return c
}

// FaultFunc is consulted before every repository operation. A non-nil return
// fails the operation with that error. Operation names look like
// "audit.append" or "folders.create".
type FaultFunc func(op string) error

// Store is the in-memory metadata store
type Store struct {
	txMu   sync.Mutex // serializes transactions
	mu     sync.RWMutex
	data   *dataset
	fault  FaultFunc
	now    func() time.Time
	logger *slog.Logger
}

// NewStore creates an empty store
func NewStore(logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		data:   newDataset(),
		now:    func() time.Time { return time.Now().UTC() },
		logger: logger,
	}
}

// SetFault installs a fault injector. Pass nil to clear it.
func (s *Store) SetFault(fn FaultFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fault = fn
}

// Registry returns every repository backed by this store
func (s *Store) Registry() *repositories.Registry {
	return &repositories.Registry{
		Organizations: &organizationRepository{store: s},
		Memberships:   &membershipRepository{store: s},
		Folders:       &folderRepository{store: s},
		Files:         &fileRepository{store: s},
		Favorites:     &favoriteRepository{store: s},
		Users:         &userRepository{store: s},
		AuditLogs:     &auditLogRepository{store: s},
		Tx:            &transactionManager{store: s},
	}
}

// Counts reports row counts per table, used by tests to assert that a failed
// operation left nothing behind
type Counts struct {
	Users         int
	Folders       int
	Organizations int
	Memberships   int
	Files         int
	Favorites     int
	AuditLogs     int
}

// Counts snapshots the current row counts
func (s *Store) Counts() Counts {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Counts{
		Users:         len(s.data.users),
		Folders:       len(s.data.folders),
		Organizations: len(s.data.organizations),
		Memberships:   len(s.data.memberships),
		Files:         len(s.data.files),
		Favorites:     len(s.data.favorites),
		AuditLogs:     len(s.data.audit),
	}
}

// read runs fn under the read lock after consulting the fault injector
func (s *Store) read(_ context.Context, op string, fn func(d *dataset) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.fault != nil {
		if err := s.fault(op); err != nil {
			return err
		}
	}
	return fn(s.data)
}

// write runs fn under the write lock after consulting the fault injector.
// Writes outside a transaction wait for the running one so a rollback cannot
// discard them.
func (s *Store) write(ctx context.Context, op string, fn func(d *dataset) error) error {
	if !s.inTx(ctx) {
		s.txMu.Lock()
		defer s.txMu.Unlock()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fault != nil {
		if err := s.fault(op); err != nil {
			return err
		}
	}
	return fn(s.data)
}

func newID() string {
	return uuid.NewString()
}

type txContextKey struct{}

func (s *Store) inTx(ctx context.Context) bool {
	owner, _ := ctx.Value(txContextKey{}).(*Store)
	return owner == s
}

type transactionManager struct {
	store *Store
}

// ExecTx runs fn with exclusive access to the store. On error every write made
// by fn is discarded.
func (tm *transactionManager) ExecTx(ctx context.Context, fn repositories.TxFn) error {
	s := tm.store
	if s.inTx(ctx) {
		return fn(ctx)
	}

	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.Lock()
	snapshot := s.data.clone()
	s.mu.Unlock()

	txCtx := repositories.MarkTransaction(context.WithValue(ctx, txContextKey{}, s))
	if err := fn(txCtx); err != nil {
		s.mu.Lock()
		s.data = snapshot
		s.mu.Unlock()
		s.logger.Debug("memory transaction rolled back", "error", err)
		return err
	}

	return nil
}

func sortFoldersByName(folders []models.Folder) {
	sort.Slice(folders, func(i, j int) bool { return folders[i].Name < folders[j].Name })
}
