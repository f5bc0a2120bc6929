package service

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"orgdrive/internal/domain"
	"orgdrive/internal/domain/models"
	"orgdrive/internal/domain/repositories"
	"orgdrive/internal/domain/services"
)

const racers = 16

// barrier releases every caller once n of them have arrived
type barrier struct {
	wg sync.WaitGroup
}

func newBarrier(n int) *barrier {
	b := &barrier{}
	b.wg.Add(n)
	return b
}

func (b *barrier) arrive() {
	b.wg.Done()
	b.wg.Wait()
}

// racingFolders lets every caller pass the sibling-name pre-check before any
// of them inserts, so only the store's uniqueness check can pick the winner
type racingFolders struct {
	repositories.FolderRepository
	gate *barrier
}

func (r *racingFolders) FindChildByName(ctx context.Context, parentID, name string) (*models.Folder, error) {
	existing, err := r.FolderRepository.FindChildByName(ctx, parentID, name)
	r.gate.arrive()
	return existing, err
}

type racingFiles struct {
	repositories.FileRepository
	gate *barrier
}

func (r *racingFiles) FindInFolderByName(ctx context.Context, folderID, name string) (*models.File, error) {
	existing, err := r.FileRepository.FindInFolderByName(ctx, folderID, name)
	r.gate.arrive()
	return existing, err
}

// race runs fn concurrently and tallies successes and conflicts
func race(t *testing.T, fn func() error) (ok, conflicts int) {
	t.Helper()
	var (
		mu   sync.Mutex
		wg   sync.WaitGroup
		errs []error
	)
	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := fn()
			mu.Lock()
			defer mu.Unlock()
			errs = append(errs, err)
		}()
	}
	wg.Wait()

	for _, err := range errs {
		if err == nil {
			ok++
			continue
		}
		if assert.ErrorIs(t, err, domain.ErrConflict) {
			conflicts++
		}
	}
	return ok, conflicts
}

func TestCreateFolder_ConcurrentSameNameHasOneWinner(t *testing.T) {
	h := newHarness(t)
	org := h.createOrganization(t, u1, "Acme")
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	folders := NewFolderService(
		&racingFolders{FolderRepository: h.repos.Folders, gate: newBarrier(racers)},
		h.repos.Files, h.repos.Organizations, h.repos.Tx, h.faulty, h.gate, h.audit, logger,
	)
	before := h.store.Counts()

	ok, conflicts := race(t, func() error {
		_, err := folders.CreateFolder(context.Background(), &services.CreateFolderRequest{
			UserID:         u1,
			ParentFolderID: org.RootFolderID,
			Name:           "Reports",
			OrganizationID: org.ID,
		})
		return err
	})

	assert.Equal(t, 1, ok)
	assert.Equal(t, racers-1, conflicts)

	after := h.store.Counts()
	assert.Equal(t, before.Folders+1, after.Folders)
	assert.Equal(t, before.AuditLogs+1, after.AuditLogs, "losers must not leave audit entries")

	contents, err := h.folders.GetFolderContents(context.Background(), &services.GetFolderContentsRequest{
		UserID: u1, FolderID: org.RootFolderID, OrganizationID: org.ID,
	})
	require.NoError(t, err)
	require.Len(t, contents.Folders, 1)
	assert.Equal(t, "root-Acme/Reports", contents.Folders[0].Key)
}

func TestCreateFile_ConcurrentSameNameHasOneWinner(t *testing.T) {
	h := newHarness(t)
	org := h.createOrganization(t, u1, "Acme")
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	files := NewFileService(
		&racingFiles{FileRepository: h.repos.Files, gate: newBarrier(racers)},
		h.repos.Folders, h.repos.Organizations, h.repos.Users, h.repos.Tx,
		h.faulty, h.gate, h.audit, logger,
	)
	before := h.store.Counts()

	ok, conflicts := race(t, func() error {
		_, err := files.CreateFile(context.Background(), &services.CreateFileRequest{
			UploaderID:     u1,
			FolderID:       org.RootFolderID,
			OrganizationID: org.ID,
			Name:           "q1.pdf",
			Size:           100,
			ContentType:    "application/pdf",
		})
		return err
	})

	assert.Equal(t, 1, ok)
	assert.Equal(t, racers-1, conflicts)

	after := h.store.Counts()
	assert.Equal(t, before.Files+1, after.Files)
	assert.Equal(t, before.AuditLogs+1, after.AuditLogs)

	user, err := h.repos.Users.GetByID(context.Background(), u1)
	require.NoError(t, err)
	assert.Equal(t, int64(100), user.StorageUsed, "only the winner's size is counted")
}
