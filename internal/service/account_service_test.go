package service

import (
	"context"
	"testing"

	"github.com/kiwiiwik/snackshack-nz/internal/dto"
	"github.com/kiwiiwik/snackshack-nz/internal/model"
	"github.com/kiwiiwik/snackshack-nz/internal/repository"
	"github.com/kiwiiwik/snackshack-nz/internal/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type accountFixture struct {
	users        *stubUserRepo
	transactions *stubTransactionRepo
	svc          AccountService
}

func newAccountFixture() *accountFixture {
	f := &accountFixture{
		users:        newStubUserRepo(),
		transactions: newStubTransactionRepo(),
	}
	f.svc = NewAccountService(f.users, f.transactions, nil, testPepper)
	return f
}

func TestRecordPaymentCreditsBalanceAndWritesNegativeRow(t *testing.T) {
	f := newAccountFixture()
	u := f.users.add(model.User{FirstName: "Tama", CardID: "CARD1", Balance: money("5.00")})

	resp, err := f.svc.RecordPayment(context.Background(), u.ID, money("20.00"))
	require.NoError(t, err)
	assert.True(t, resp.Balance.Equal(money("25.00")))
	assert.True(t, f.users.users[u.ID].Balance.Equal(money("25.00")))

	require.Len(t, f.transactions.rows, 1)
	row := f.transactions.rows[0]
	assert.True(t, row.Amount.Equal(money("-20.00")))
	assert.Nil(t, row.UPCCode)
	require.NotNil(t, row.UserID)
	assert.Equal(t, u.ID, *row.UserID)
}

func TestUndoPaymentClawsBackWithoutTouchingStock(t *testing.T) {
	users := newStubUserRepo()
	products := newStubProductRepo()
	transactions := newStubTransactionRepo()
	accounts := NewAccountService(users, transactions, nil, testPepper)
	kiosk := NewKioskService(users, products, transactions,
		newStubQuickItemRepo(), newStubWallpaperRepo(), nil, testPepper)

	u := users.add(model.User{FirstName: "Mere", CardID: "CARD2", Balance: money("5.00")})
	products.add(model.Product{UPCCode: "111", Description: "Choc Fish", Price: money("2.50"), StockLevel: intp(3)})

	_, err := accounts.RecordPayment(context.Background(), u.ID, money("20.00"))
	require.NoError(t, err)

	sess := &session.Session{}
	sess.Login(u.ID)
	undo, err := kiosk.Undo(context.Background(), sess)
	require.NoError(t, err)
	require.NotNil(t, undo)
	assert.True(t, undo.WasPayment)
	assert.True(t, undo.Amount.Equal(money("-20.00")))
	assert.True(t, undo.Balance.Equal(money("5.00")))

	assert.True(t, users.users[u.ID].Balance.Equal(money("5.00")))
	assert.Equal(t, 3, *products.stock("111")) // payments never fabricate stock
	assert.Empty(t, transactions.rows)
}

func TestRecordPaymentRejectsNonPositiveAmounts(t *testing.T) {
	f := newAccountFixture()
	u := f.users.add(model.User{FirstName: "Tama", CardID: "CARD1", Balance: money("5.00")})

	_, err := f.svc.RecordPayment(context.Background(), u.ID, money("0"))
	assert.ErrorIs(t, err, ErrInvalidAmount)
	_, err = f.svc.RecordPayment(context.Background(), u.ID, money("-3.00"))
	assert.ErrorIs(t, err, ErrInvalidAmount)
	assert.Empty(t, f.transactions.rows)
}

func TestSetPINStoresPepperedHashNeverPlaintext(t *testing.T) {
	f := newAccountFixture()
	u := f.users.add(model.User{FirstName: "Aroha", CardID: "CARD3"})

	require.NoError(t, f.svc.SetPIN(context.Background(), u.ID, "4321"))

	stored := f.users.users[u.ID].PINHash
	require.NotNil(t, stored)
	assert.NotContains(t, *stored, "4321")
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(*stored), []byte("4321"+testPepper)))
	assert.Error(t, bcrypt.CompareHashAndPassword([]byte(*stored), []byte("4321")))
}

func TestSetPINValidatesFormat(t *testing.T) {
	f := newAccountFixture()
	u := f.users.add(model.User{FirstName: "Aroha", CardID: "CARD3"})

	for _, pin := range []string{"123", "12345", "12a4", ""} {
		assert.ErrorIs(t, f.svc.SetPIN(context.Background(), u.ID, pin), ErrInvalidPIN)
	}
}

func TestClearPINOnAdminRequiresSuperAdmin(t *testing.T) {
	f := newAccountFixture()
	plainAdmin := f.users.add(model.User{FirstName: "Admin", CardID: "A1", IsAdmin: true, PINHash: strp("x")})
	otherAdmin := f.users.add(model.User{FirstName: "Other", CardID: "A2", IsAdmin: true, PINHash: strp("y")})
	superAdmin := f.users.add(model.User{FirstName: "Super", CardID: "S1", IsSuperAdmin: true})

	// Admin clearing another admin's PIN is refused
	err := f.svc.ClearPIN(context.Background(), plainAdmin.ID, otherAdmin.ID)
	assert.ErrorIs(t, err, ErrForbidden)
	assert.NotNil(t, f.users.users[otherAdmin.ID].PINHash)

	// Super admin may
	require.NoError(t, f.svc.ClearPIN(context.Background(), superAdmin.ID, otherAdmin.ID))
	assert.Nil(t, f.users.users[otherAdmin.ID].PINHash)

	// Anyone may clear their own
	require.NoError(t, f.svc.ClearPIN(context.Background(), plainAdmin.ID, plainAdmin.ID))
	assert.Nil(t, f.users.users[plainAdmin.ID].PINHash)
}

func TestDeleteUserSurfacesLedgerGuard(t *testing.T) {
	f := newAccountFixture()
	u := f.users.add(model.User{FirstName: "Tama", CardID: "CARD1"})
	f.users.deleteErr = repository.ErrHasTransactions

	err := f.svc.DeleteUser(context.Background(), u.ID)
	assert.ErrorIs(t, err, repository.ErrHasTransactions)
}

func TestUpdateUserPatchesOnlySuppliedFields(t *testing.T) {
	f := newAccountFixture()
	u := f.users.add(model.User{FirstName: "Tama", LastName: "Ngata", CardID: "CARD1", Email: strp("t@example.com")})

	resp, err := f.svc.UpdateUser(context.Background(), u.ID, dto.UpdateUserRequest{
		FirstName: "Tamati",
		IsAdmin:   func() *bool { b := true; return &b }(),
	})
	require.NoError(t, err)
	assert.Equal(t, "Tamati", resp.FirstName)
	assert.Equal(t, "Ngata", resp.LastName)
	assert.Equal(t, "CARD1", resp.CardID)
	require.NotNil(t, resp.Email)
	assert.Equal(t, "t@example.com", *resp.Email)
	assert.True(t, resp.IsAdmin)
}

func TestPurgeTransactionsEmptiesLedgerOnly(t *testing.T) {
	f := newAccountFixture()
	u := f.users.add(model.User{FirstName: "Tama", CardID: "CARD1", Balance: money("5.00")})
	_, err := f.svc.RecordPayment(context.Background(), u.ID, money("10.00"))
	require.NoError(t, err)

	deleted, err := f.svc.PurgeTransactions(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)
	assert.Empty(t, f.transactions.rows)
	// Balance survives the purge
	assert.True(t, f.users.users[u.ID].Balance.Equal(money("15.00")))
}
