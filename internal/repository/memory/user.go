package memory

import (
	"context"
	"fmt"

	"orgdrive/internal/domain"
	"orgdrive/internal/domain/models"
)

type userRepository struct {
	store *Store
}

func (r *userRepository) IncrementStorageUsed(ctx context.Context, userID string, delta int64) error {
	return r.store.write(ctx, "users.increment_storage", func(d *dataset) error {
		user, ok := d.users[userID]
		if !ok {
			user = models.User{ID: userID, CreatedAt: r.store.now()}
		}
		if user.StorageUsed+delta < 0 {
			return fmt.Errorf("storage used for user %s would go negative", userID)
		}
		user.StorageUsed += delta
		d.users[userID] = user
		return nil
	})
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	err := r.store.read(ctx, "users.get", func(d *dataset) error {
		u, ok := d.users[id]
		if !ok {
			return fmt.Errorf("user %s: %w", id, domain.ErrNotFound)
		}
		user = u
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

type auditLogRepository struct {
	store *Store
}

func (r *auditLogRepository) Append(ctx context.Context, entry *models.AuditLogEntry) error {
	return r.store.write(ctx, "audit.append", func(d *dataset) error {
		entry.ID = newID()
		entry.CreatedAt = r.store.now()
		d.audit = append(d.audit, *entry)
		return nil
	})
}

func (r *auditLogRepository) ListByEntity(ctx context.Context, entityType models.AuditEntity, entityID string) ([]models.AuditLogEntry, error) {
	entries := make([]models.AuditLogEntry, 0)
	err := r.store.read(ctx, "audit.list", func(d *dataset) error {
		for _, e := range d.audit {
			if e.EntityType == entityType && e.EntityID == entityID {
				entries = append(entries, e)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// AuditLogs returns every entry in append order
func (s *Store) AuditLogs() []models.AuditLogEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.AuditLogEntry(nil), s.data.audit...)
}
