package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"wallet-ledger/internal/core/domain"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
)

func TestAuditRepo_Create(t *testing.T) {
	mock := newMockPool(t)
	repo := NewAuditRepo(mock)
	userID := uuid.New()
	entry := &domain.AuditLog{
		ID:           uuid.New(),
		UserID:       &userID,
		Action:       domain.AuditActionPostTransaction,
		ResourceType: "wallet",
		ResourceID:   uuid.NewString(),
		IPAddress:    "10.0.0.1",
		CreatedAt:    time.Now().UTC(),
	}

	mock.ExpectExec("INSERT INTO audit_logs").
		WithArgs(entry.ID, entry.UserID, "POST_TRANSACTION", "wallet", entry.ResourceID, "", "10.0.0.1", entry.CreatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	assert.NoError(t, repo.Create(context.Background(), entry))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAuditRepo_Create_Error(t *testing.T) {
	mock := newMockPool(t)
	repo := NewAuditRepo(mock)

	mock.ExpectExec("INSERT INTO audit_logs").WillReturnError(errors.New("disk full"))

	err := repo.Create(context.Background(), &domain.AuditLog{ID: uuid.New()})
	assert.ErrorContains(t, err, "insert audit log")
}
