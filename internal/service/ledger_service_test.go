package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"wallet-ledger/internal/core/domain"
	"wallet-ledger/internal/core/ports"
	"wallet-ledger/internal/core/ports/mocks"
	"wallet-ledger/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type ledgerTestDeps struct {
	svc        *LedgerServiceImpl
	wallets    *mocks.MockWalletRepository
	idempCache *mocks.MockIdempotencyCache
	publisher  *mocks.MockBalancePublisher
	ctrl       *gomock.Controller
	caller     domain.Identity
	now        time.Time
}

func setupLedgerService(t *testing.T) *ledgerTestDeps {
	ctrl := gomock.NewController(t)
	d := &ledgerTestDeps{
		wallets:    mocks.NewMockWalletRepository(ctrl),
		idempCache: mocks.NewMockIdempotencyCache(ctrl),
		publisher:  mocks.NewMockBalancePublisher(ctrl),
		ctrl:       ctrl,
		caller:     domain.Identity{UserID: uuid.New(), Email: "jane@example.com"},
		now:        time.Date(2024, 5, 20, 10, 0, 0, 0, time.UTC),
	}
	d.svc = NewLedgerService(d.wallets, d.idempCache, d.publisher, zerolog.Nop())
	d.svc.now = func() time.Time { return d.now }
	return d
}

func (d *ledgerTestDeps) wallet(balance string) *domain.Wallet {
	w := domain.NewWallet(d.caller.OwnerRef(), "Cash", "PHP", nil, d.now)
	w.Balance = decimal.RequireFromString(balance)
	return w
}

func amount(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// ==================== CreateWallet Tests ====================

func TestLedgerService_CreateWallet_Success(t *testing.T) {
	d := setupLedgerService(t)
	ctx := context.Background()
	ref := "TOK_a1b2c3_6789"

	d.wallets.EXPECT().Create(ctx, gomock.Any()).DoAndReturn(func(_ context.Context, w *domain.Wallet) error {
		assert.Equal(t, d.caller.OwnerRef(), w.OwnerID)
		assert.True(t, w.Balance.IsZero())
		assert.Empty(t, w.Transactions)
		return nil
	})

	w, err := d.svc.CreateWallet(ctx, d.caller, ports.CreateWalletRequest{
		Name:          " Cash ",
		Currency:      "php",
		AccountNumber: &ref,
	})
	require.NoError(t, err)
	assert.Equal(t, "Cash", w.Name)
	assert.Equal(t, "PHP", w.Currency)
	assert.Equal(t, "0.00", w.Balance.StringFixed(2))
	require.NotNil(t, w.AccountNumber)
	assert.Equal(t, ref, *w.AccountNumber)
}

func TestLedgerService_CreateWallet_OwnerByEmail(t *testing.T) {
	d := setupLedgerService(t)
	d.wallets.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)

	w, err := d.svc.CreateWallet(context.Background(), d.caller, ports.CreateWalletRequest{
		OwnerID:  "Jane@Example.com",
		Name:     "Savings",
		Currency: "USD",
	})
	require.NoError(t, err)
	assert.Equal(t, d.caller.OwnerRef(), w.OwnerID)
}

func TestLedgerService_CreateWallet_EmptyAccountIsAbsent(t *testing.T) {
	d := setupLedgerService(t)
	d.wallets.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)
	empty := "  "

	w, err := d.svc.CreateWallet(context.Background(), d.caller, ports.CreateWalletRequest{
		Name: "Cash", Currency: "PHP", AccountNumber: &empty,
	})
	require.NoError(t, err)
	assert.Nil(t, w.AccountNumber)
}

func TestLedgerService_CreateWallet_Rejected(t *testing.T) {
	bad := "TOK_abc_12"
	tests := []struct {
		name string
		req  func(d *ledgerTestDeps) ports.CreateWalletRequest
		code string
	}{
		{"missing name", func(*ledgerTestDeps) ports.CreateWalletRequest {
			return ports.CreateWalletRequest{Currency: "PHP"}
		}, "VAL_001"},
		{"missing currency", func(*ledgerTestDeps) ports.CreateWalletRequest {
			return ports.CreateWalletRequest{Name: "Cash", Currency: " "}
		}, "VAL_001"},
		{"long currency", func(*ledgerTestDeps) ports.CreateWalletRequest {
			return ports.CreateWalletRequest{Name: "Cash", Currency: "DOGECOINXYZ"}
		}, "VAL_001"},
		{"malformed account reference", func(*ledgerTestDeps) ports.CreateWalletRequest {
			return ports.CreateWalletRequest{Name: "Cash", Currency: "PHP", AccountNumber: &bad}
		}, "WAL_002"},
		{"other owner", func(*ledgerTestDeps) ports.CreateWalletRequest {
			return ports.CreateWalletRequest{OwnerID: uuid.NewString(), Name: "Cash", Currency: "PHP"}
		}, "AUTH_005"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := setupLedgerService(t)
			_, err := d.svc.CreateWallet(context.Background(), d.caller, tt.req(d))
			assertAppError(t, err, tt.code)
		})
	}
}

func TestLedgerService_CreateWallet_StoreError(t *testing.T) {
	d := setupLedgerService(t)
	d.wallets.EXPECT().Create(gomock.Any(), gomock.Any()).Return(errors.New("connection reset"))

	_, err := d.svc.CreateWallet(context.Background(), d.caller, ports.CreateWalletRequest{Name: "Cash", Currency: "PHP"})
	assertAppError(t, err, "SYS_001")
}

// ==================== Retrieval Tests ====================

func TestLedgerService_ListWallets_NormalizesBalances(t *testing.T) {
	d := setupLedgerService(t)
	ctx := context.Background()

	w := d.wallet("10.5")
	d.wallets.EXPECT().ListByOwner(ctx, d.caller.OwnerRef()).Return([]domain.Wallet{*w}, nil)

	wallets, err := d.svc.ListWallets(ctx, d.caller, d.caller.OwnerRef())
	require.NoError(t, err)
	require.Len(t, wallets, 1)
	assert.Equal(t, "10.50", wallets[0].Balance.StringFixed(2))
}

func TestLedgerService_ListWallets_OtherUserForbidden(t *testing.T) {
	d := setupLedgerService(t)

	_, err := d.svc.ListWallets(context.Background(), d.caller, uuid.NewString())
	assertAppError(t, err, "AUTH_005")
}

func TestLedgerService_GetWallet_NotFound(t *testing.T) {
	d := setupLedgerService(t)
	id := uuid.New()
	d.wallets.EXPECT().GetByID(gomock.Any(), id).Return(nil, nil)

	_, err := d.svc.GetWallet(context.Background(), d.caller, id)
	assertAppError(t, err, "WAL_001")
}

func TestLedgerService_GetWallet_NotOwnerLooksMissing(t *testing.T) {
	d := setupLedgerService(t)
	w := d.wallet("5")
	w.OwnerID = uuid.NewString()
	d.wallets.EXPECT().GetByID(gomock.Any(), w.ID).Return(w, nil)

	_, err := d.svc.GetWallet(context.Background(), d.caller, w.ID)
	assertAppError(t, err, "WAL_001")
}

// ==================== Update / Delete Tests ====================

func TestLedgerService_UpdateWallet_Success(t *testing.T) {
	d := setupLedgerService(t)
	ctx := context.Background()
	w := d.wallet("0")
	updated := *w
	updated.Name = "Travel"
	updated.Currency = "EUR"

	d.wallets.EXPECT().GetByID(ctx, w.ID).Return(w, nil)
	d.wallets.EXPECT().UpdateMetadata(ctx, w.ID, "Travel", "EUR").Return(&updated, nil)

	got, err := d.svc.UpdateWallet(ctx, d.caller, w.ID, ports.UpdateWalletRequest{Name: "Travel", Currency: "eur"})
	require.NoError(t, err)
	assert.Equal(t, "Travel", got.Name)
}

func TestLedgerService_UpdateWallet_Validation(t *testing.T) {
	d := setupLedgerService(t)

	_, err := d.svc.UpdateWallet(context.Background(), d.caller, uuid.New(), ports.UpdateWalletRequest{Name: "", Currency: "EUR"})
	assertAppError(t, err, "VAL_001")
}

func TestLedgerService_DeleteWallet(t *testing.T) {
	d := setupLedgerService(t)
	ctx := context.Background()
	w := d.wallet("0")

	d.wallets.EXPECT().GetByID(ctx, w.ID).Return(w, nil)
	d.wallets.EXPECT().Delete(ctx, w.ID).Return(true, nil)

	require.NoError(t, d.svc.DeleteWallet(ctx, d.caller, w.ID))
}

func TestLedgerService_DeleteWallet_RaceLost(t *testing.T) {
	d := setupLedgerService(t)
	ctx := context.Background()
	w := d.wallet("0")

	d.wallets.EXPECT().GetByID(ctx, w.ID).Return(w, nil)
	d.wallets.EXPECT().Delete(ctx, w.ID).Return(false, nil)

	assertAppError(t, d.svc.DeleteWallet(ctx, d.caller, w.ID), "WAL_001")
}

// ==================== PostTransaction Tests ====================

func TestLedgerService_PostTransaction_Income(t *testing.T) {
	d := setupLedgerService(t)
	ctx := context.Background()
	w := d.wallet("0")

	d.wallets.EXPECT().GetByID(ctx, w.ID).Return(w, nil)
	d.wallets.EXPECT().AppendTransaction(ctx, w.ID, gomock.Any()).DoAndReturn(
		func(_ context.Context, _ uuid.UUID, tx domain.Transaction) (*domain.Wallet, error) {
			assert.Equal(t, domain.TransactionTypeIncome, tx.Type)
			assert.Equal(t, "100.00", tx.Amount.StringFixed(2))
			assert.Equal(t, d.now, tx.Date)
			assert.NotEqual(t, uuid.Nil, tx.ID)
			out := *w
			require.NoError(t, out.Apply(tx))
			return &out, nil
		})
	d.publisher.EXPECT().PublishBalance(d.caller.OwnerRef(), gomock.Any()).Do(func(_ string, u ports.BalanceUpdate) {
		assert.Equal(t, w.ID, u.WalletID)
		assert.Equal(t, 1, u.TransactionCount)
	})

	got, err := d.svc.PostTransaction(ctx, d.caller, w.ID, ports.PostTransactionRequest{
		Type: domain.TransactionTypeIncome, Amount: "100", Description: "Salary", Category: "Pay",
	})
	require.NoError(t, err)
	assert.Equal(t, "100.00", got.Balance.StringFixed(2))
	assert.Len(t, got.Transactions, 1)
}

func TestLedgerService_PostTransaction_Overdraft(t *testing.T) {
	d := setupLedgerService(t)
	ctx := context.Background()
	w := d.wallet("100")

	d.wallets.EXPECT().GetByID(ctx, w.ID).Return(w, nil)
	// AppendTransaction must not be called

	_, err := d.svc.PostTransaction(ctx, d.caller, w.ID, ports.PostTransactionRequest{
		Type: domain.TransactionTypeExpense, Amount: "150", Description: "Rent", Category: "Housing",
	})
	assertAppError(t, err, "WAL_003")
	assert.Equal(t, "100.00", w.Balance.StringFixed(2))
}

func TestLedgerService_PostTransaction_ConcurrentOverdraftRejectedByStore(t *testing.T) {
	d := setupLedgerService(t)
	ctx := context.Background()
	w := d.wallet("100")

	d.wallets.EXPECT().GetByID(ctx, w.ID).Return(w, nil)
	d.wallets.EXPECT().AppendTransaction(ctx, w.ID, gomock.Any()).Return(nil, domain.ErrInsufficientBalance)

	_, err := d.svc.PostTransaction(ctx, d.caller, w.ID, ports.PostTransactionRequest{
		Type: domain.TransactionTypeExpense, Amount: "100", Description: "Rent", Category: "Housing",
	})
	assertAppError(t, err, "WAL_003")
}

func TestLedgerService_PostTransaction_WalletDeletedMidway(t *testing.T) {
	d := setupLedgerService(t)
	ctx := context.Background()
	w := d.wallet("0")

	d.wallets.EXPECT().GetByID(ctx, w.ID).Return(w, nil)
	d.wallets.EXPECT().AppendTransaction(ctx, w.ID, gomock.Any()).Return(nil, nil)

	_, err := d.svc.PostTransaction(ctx, d.caller, w.ID, ports.PostTransactionRequest{
		Type: domain.TransactionTypeIncome, Amount: "1", Description: "x", Category: "y",
	})
	assertAppError(t, err, "WAL_001")
}

func TestLedgerService_PostTransaction_Validation(t *testing.T) {
	tests := []struct {
		name string
		req  ports.PostTransactionRequest
		code string
	}{
		{"bad type", ports.PostTransactionRequest{Type: "transfer", Amount: "1", Description: "d", Category: "c"}, "VAL_001"},
		{"zero amount", ports.PostTransactionRequest{Type: "income", Amount: "0", Description: "d", Category: "c"}, "VAL_002"},
		{"negative amount", ports.PostTransactionRequest{Type: "income", Amount: "-3", Description: "d", Category: "c"}, "VAL_002"},
		{"rounds to zero", ports.PostTransactionRequest{Type: "income", Amount: "0.001", Description: "d", Category: "c"}, "VAL_002"},
		{"missing amount", ports.PostTransactionRequest{Type: "income"}, "VAL_002"},
		{"huge exponent", ports.PostTransactionRequest{Type: "income", Amount: "1e100000000"}, "VAL_002"},
		{"too many digits", ports.PostTransactionRequest{Type: "income", Amount: "1000000000000000000"}, "VAL_002"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := setupLedgerService(t)
			w := d.wallet("0")
			d.wallets.EXPECT().GetByID(gomock.Any(), w.ID).Return(w, nil)
			// AppendTransaction must not be called

			_, err := d.svc.PostTransaction(context.Background(), d.caller, w.ID, tt.req)
			assertAppError(t, err, tt.code)
		})
	}
}

func TestLedgerService_PostTransaction_UnknownWalletBeforeValidation(t *testing.T) {
	d := setupLedgerService(t)
	id := uuid.New()
	d.wallets.EXPECT().GetByID(gomock.Any(), id).Return(nil, nil)

	_, err := d.svc.PostTransaction(context.Background(), d.caller, id, ports.PostTransactionRequest{
		Type: "transfer", Amount: "-1",
	})
	assertAppError(t, err, "WAL_001")
}

func TestLedgerService_PostTransaction_BalanceLimit(t *testing.T) {
	d := setupLedgerService(t)
	ctx := context.Background()
	w := d.wallet("999999999999999999.99")

	d.wallets.EXPECT().GetByID(ctx, w.ID).Return(w, nil)

	_, err := d.svc.PostTransaction(ctx, d.caller, w.ID, ports.PostTransactionRequest{
		Type: domain.TransactionTypeIncome, Amount: "0.01",
	})
	assertAppError(t, err, "VAL_002")
}

func TestLedgerService_PostTransaction_BalanceLimitRejectedByStore(t *testing.T) {
	d := setupLedgerService(t)
	ctx := context.Background()
	w := d.wallet("10")

	d.wallets.EXPECT().GetByID(ctx, w.ID).Return(w, nil)
	d.wallets.EXPECT().AppendTransaction(ctx, w.ID, gomock.Any()).Return(nil, domain.ErrBalanceLimit)

	_, err := d.svc.PostTransaction(ctx, d.caller, w.ID, ports.PostTransactionRequest{
		Type: domain.TransactionTypeIncome, Amount: "5",
	})
	assertAppError(t, err, "VAL_002")
}

func TestLedgerService_PostTransaction_TextFieldsOptional(t *testing.T) {
	d := setupLedgerService(t)
	ctx := context.Background()
	w := d.wallet("100")

	d.wallets.EXPECT().GetByID(ctx, w.ID).Return(w, nil)
	d.wallets.EXPECT().AppendTransaction(ctx, w.ID, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ uuid.UUID, tx domain.Transaction) (*domain.Wallet, error) {
			assert.Empty(t, tx.Description)
			assert.Equal(t, "Food", tx.Category)
			out := *w
			require.NoError(t, out.Apply(tx))
			return &out, nil
		})
	d.publisher.EXPECT().PublishBalance(gomock.Any(), gomock.Any())

	got, err := d.svc.PostTransaction(ctx, d.caller, w.ID, ports.PostTransactionRequest{
		Type: domain.TransactionTypeExpense, Amount: "100", Description: "  ", Category: " Food ",
	})
	require.NoError(t, err)
	assert.True(t, got.Balance.IsZero())
}

func TestLedgerService_PostTransaction_IdempotentReplay(t *testing.T) {
	d := setupLedgerService(t)
	ctx := context.Background()
	w := d.wallet("42")
	cached, err := json.Marshal(w)
	require.NoError(t, err)

	key := buildIdempotencyKey(d.caller, w.ID, "req-1")
	d.wallets.EXPECT().GetByID(ctx, w.ID).Return(w, nil)
	d.idempCache.EXPECT().Get(ctx, key).Return(cached, nil)
	// No claim and no append on replay

	got, err := d.svc.PostTransaction(ctx, d.caller, w.ID, ports.PostTransactionRequest{
		Type: domain.TransactionTypeIncome, Amount: "1", Description: "d", Category: "c", IdempotencyKey: "req-1",
	})
	require.NoError(t, err)
	assert.Equal(t, "42.00", got.Balance.StringFixed(2))
}

func TestLedgerService_PostTransaction_CachesResponse(t *testing.T) {
	d := setupLedgerService(t)
	ctx := context.Background()
	w := d.wallet("0")
	key := buildIdempotencyKey(d.caller, w.ID, "req-2")

	d.wallets.EXPECT().GetByID(ctx, w.ID).Return(w, nil)
	d.idempCache.EXPECT().Get(ctx, key).Return(nil, errors.New("redis blip"))
	d.idempCache.EXPECT().Claim(ctx, key, idempotencyClaimTTL).Return(true, nil)
	d.wallets.EXPECT().AppendTransaction(ctx, w.ID, gomock.Any()).Return(w, nil)
	d.idempCache.EXPECT().Set(ctx, key, gomock.Any(), idempotencyTTL).Return(nil)
	d.publisher.EXPECT().PublishBalance(gomock.Any(), gomock.Any())
	// Release is not called: the claim expires on its own

	_, err := d.svc.PostTransaction(ctx, d.caller, w.ID, ports.PostTransactionRequest{
		Type: domain.TransactionTypeIncome, Amount: "5", Description: "d", Category: "c", IdempotencyKey: "req-2",
	})
	require.NoError(t, err)
}

func TestLedgerService_PostTransaction_KeyInFlight(t *testing.T) {
	d := setupLedgerService(t)
	ctx := context.Background()
	w := d.wallet("0")
	key := buildIdempotencyKey(d.caller, w.ID, "req-3")

	d.wallets.EXPECT().GetByID(ctx, w.ID).Return(w, nil)
	d.idempCache.EXPECT().Get(ctx, key).Return(nil, nil).Times(2)
	d.idempCache.EXPECT().Claim(ctx, key, idempotencyClaimTTL).Return(false, nil)
	// AppendTransaction must not be called

	_, err := d.svc.PostTransaction(ctx, d.caller, w.ID, ports.PostTransactionRequest{
		Type: domain.TransactionTypeIncome, Amount: "5", IdempotencyKey: "req-3",
	})
	assertAppError(t, err, "WAL_004")
}

func TestLedgerService_PostTransaction_LostClaimReplaysLandedResponse(t *testing.T) {
	d := setupLedgerService(t)
	ctx := context.Background()
	w := d.wallet("5")
	cached, err := json.Marshal(w)
	require.NoError(t, err)
	key := buildIdempotencyKey(d.caller, w.ID, "req-4")

	d.wallets.EXPECT().GetByID(ctx, w.ID).Return(w, nil)
	first := d.idempCache.EXPECT().Get(ctx, key).Return(nil, nil)
	claim := d.idempCache.EXPECT().Claim(ctx, key, idempotencyClaimTTL).Return(false, nil).After(first)
	d.idempCache.EXPECT().Get(ctx, key).Return(cached, nil).After(claim)

	got, err := d.svc.PostTransaction(ctx, d.caller, w.ID, ports.PostTransactionRequest{
		Type: domain.TransactionTypeIncome, Amount: "5", IdempotencyKey: "req-4",
	})
	require.NoError(t, err)
	assert.Equal(t, "5.00", got.Balance.StringFixed(2))
}

func TestLedgerService_PostTransaction_FailedPostingReleasesClaim(t *testing.T) {
	d := setupLedgerService(t)
	ctx := context.Background()
	w := d.wallet("0")
	key := buildIdempotencyKey(d.caller, w.ID, "req-5")

	d.wallets.EXPECT().GetByID(ctx, w.ID).Return(w, nil)
	d.idempCache.EXPECT().Get(ctx, key).Return(nil, nil)
	d.idempCache.EXPECT().Claim(ctx, key, idempotencyClaimTTL).Return(true, nil)
	d.idempCache.EXPECT().Release(ctx, key).Return(nil)

	_, err := d.svc.PostTransaction(ctx, d.caller, w.ID, ports.PostTransactionRequest{
		Type: domain.TransactionTypeExpense, Amount: "5", IdempotencyKey: "req-5",
	})
	assertAppError(t, err, "WAL_003")
}

func TestLedgerService_PostTransaction_ClaimErrorPostsUnclaimed(t *testing.T) {
	d := setupLedgerService(t)
	ctx := context.Background()
	w := d.wallet("0")
	key := buildIdempotencyKey(d.caller, w.ID, "req-6")

	d.wallets.EXPECT().GetByID(ctx, w.ID).Return(w, nil)
	d.idempCache.EXPECT().Get(ctx, key).Return(nil, errors.New("redis down"))
	d.idempCache.EXPECT().Claim(ctx, key, idempotencyClaimTTL).Return(false, errors.New("redis down"))
	d.wallets.EXPECT().AppendTransaction(ctx, w.ID, gomock.Any()).Return(w, nil)
	d.publisher.EXPECT().PublishBalance(gomock.Any(), gomock.Any())
	// Nothing is cached without a claim

	_, err := d.svc.PostTransaction(ctx, d.caller, w.ID, ports.PostTransactionRequest{
		Type: domain.TransactionTypeIncome, Amount: "5", IdempotencyKey: "req-6",
	})
	require.NoError(t, err)
}

func TestLedgerService_PostTransaction_NoOptionalCollaborators(t *testing.T) {
	ctrl := gomock.NewController(t)
	wallets := mocks.NewMockWalletRepository(ctrl)
	svc := NewLedgerService(wallets, nil, nil, zerolog.Nop())
	caller := domain.Identity{UserID: uuid.New()}
	w := domain.NewWallet(caller.OwnerRef(), "Cash", "PHP", nil, time.Now())

	wallets.EXPECT().GetByID(gomock.Any(), w.ID).Return(w, nil)
	wallets.EXPECT().AppendTransaction(gomock.Any(), w.ID, gomock.Any()).Return(w, nil)

	_, err := svc.PostTransaction(context.Background(), caller, w.ID, ports.PostTransactionRequest{
		Type: domain.TransactionTypeIncome, Amount: "5", Description: "d", Category: "c", IdempotencyKey: "ignored",
	})
	require.NoError(t, err)
}

// ==================== Summarize Tests ====================

func TestLedgerService_Summarize_Week(t *testing.T) {
	d := setupLedgerService(t)
	ctx := context.Background()
	w := d.wallet("0")
	w.Transactions = []domain.Transaction{
		{ID: uuid.New(), Type: domain.TransactionTypeIncome, Amount: amount("80"), Date: d.now.AddDate(0, 0, -10)},
		{ID: uuid.New(), Type: domain.TransactionTypeIncome, Amount: amount("100"), Date: d.now.AddDate(0, 0, -1)},
		{ID: uuid.New(), Type: domain.TransactionTypeExpense, Amount: amount("40"), Date: d.now.Add(-time.Hour)},
	}
	d.wallets.EXPECT().GetByID(ctx, w.ID).Return(w, nil)

	s, err := d.svc.Summarize(ctx, d.caller, w.ID, "week")
	require.NoError(t, err)
	assert.Equal(t, domain.PeriodWeek, s.Period)
	assert.Len(t, s.Transactions, 2)
	assert.Equal(t, "100.00", s.TotalIncome.StringFixed(2))
	assert.Equal(t, "40.00", s.TotalExpenses.StringFixed(2))
}

func TestLedgerService_Summarize_DefaultsToAll(t *testing.T) {
	d := setupLedgerService(t)
	w := d.wallet("0")
	w.Transactions = []domain.Transaction{
		{Type: domain.TransactionTypeIncome, Amount: amount("1"), Date: d.now.AddDate(-3, 0, 0)},
	}
	d.wallets.EXPECT().GetByID(gomock.Any(), w.ID).Return(w, nil)

	s, err := d.svc.Summarize(context.Background(), d.caller, w.ID, "")
	require.NoError(t, err)
	assert.Equal(t, domain.PeriodAll, s.Period)
	assert.Nil(t, s.StartDate)
	assert.Len(t, s.Transactions, 1)
}

func TestLedgerService_Summarize_UnknownPeriod(t *testing.T) {
	d := setupLedgerService(t)

	_, err := d.svc.Summarize(context.Background(), d.caller, uuid.New(), "decade")
	assertAppError(t, err, "VAL_001")
}

// assertAppError checks that err is an *apperror.AppError with the expected code.
func assertAppError(t *testing.T, err error, expectedCode string) {
	t.Helper()
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, expectedCode, appErr.Code)
}
