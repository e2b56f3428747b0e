package postgres

import (
	"context"
	"fmt"

	"wallet-ledger/internal/core/domain"
)

// AuditRepo implements ports.AuditRepository.
type AuditRepo struct {
	pool Pool
}

// NewAuditRepo creates a PostgreSQL-backed audit repository.
func NewAuditRepo(pool Pool) *AuditRepo {
	return &AuditRepo{pool: pool}
}

func (r *AuditRepo) Create(ctx context.Context, log *domain.AuditLog) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO audit_logs (id, user_id, action, resource_type, resource_id, details, ip_address, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		log.ID, log.UserID, string(log.Action), log.ResourceType,
		log.ResourceID, log.Details, log.IPAddress, log.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert audit log: %w", err)
	}
	return nil
}
