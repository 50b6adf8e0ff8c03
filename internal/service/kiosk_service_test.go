package service

import (
	"context"
	"testing"

	"github.com/kiwiiwik/snackshack-nz/internal/dto"
	"github.com/kiwiiwik/snackshack-nz/internal/model"
	"github.com/kiwiiwik/snackshack-nz/internal/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testPepper = "unit-test-pepper"

func pinHash(t *testing.T, pin string) *string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(pin+testPepper), bcrypt.MinCost)
	require.NoError(t, err)
	s := string(h)
	return &s
}

type kioskFixture struct {
	users        *stubUserRepo
	products     *stubProductRepo
	transactions *stubTransactionRepo
	svc          KioskService
}

func newKioskFixture() *kioskFixture {
	f := &kioskFixture{
		users:        newStubUserRepo(),
		products:     newStubProductRepo(),
		transactions: newStubTransactionRepo(),
	}
	f.svc = NewKioskService(f.users, f.products, f.transactions,
		newStubQuickItemRepo(), newStubWallpaperRepo(), nil, testPepper)
	return f
}

func TestScanCardLogsInAndPurchaseMovesAllThree(t *testing.T) {
	f := newKioskFixture()
	f.users.add(model.User{FirstName: "Tama", CardID: "CARD1", Balance: money("10.00")})
	f.products.add(model.Product{UPCCode: "111", Description: "Choc Fish", Price: money("2.50"), StockLevel: intp(3)})
	sess := &session.Session{}

	res, err := f.svc.ProcessCode(context.Background(), sess, "CARD1")
	require.NoError(t, err)
	assert.Equal(t, dto.ScanLoggedIn, res.Kind)
	assert.Equal(t, "Tama", res.DisplayName)
	require.NotNil(t, res.Balance)
	assert.True(t, res.Balance.Equal(money("10.00")))
	require.NotNil(t, sess.UserID)
	assert.NotNil(t, f.users.users[*sess.UserID].LastSeen)

	res, err = f.svc.ProcessCode(context.Background(), sess, "111")
	require.NoError(t, err)
	assert.Equal(t, dto.ScanPurchased, res.Kind)
	assert.Equal(t, "Choc Fish", res.Description)
	require.NotNil(t, res.Balance)
	assert.True(t, res.Balance.Equal(money("7.50")))

	// All three mutations landed
	assert.True(t, f.users.users[*sess.UserID].Balance.Equal(money("7.50")))
	assert.Equal(t, 2, *f.products.stock("111"))
	require.Len(t, f.transactions.rows, 1)
	row := f.transactions.rows[0]
	assert.True(t, row.Amount.Equal(money("2.50")))
	require.NotNil(t, row.UPCCode)
	assert.Equal(t, "111", *row.UPCCode)
}

func TestUndoPurchaseRestoresBalanceStockAndDeletesRow(t *testing.T) {
	f := newKioskFixture()
	f.users.add(model.User{FirstName: "Tama", CardID: "CARD1", Balance: money("10.00")})
	f.products.add(model.Product{UPCCode: "111", Description: "Choc Fish", Price: money("2.50"), StockLevel: intp(3)})
	sess := &session.Session{}

	_, err := f.svc.ProcessCode(context.Background(), sess, "CARD1")
	require.NoError(t, err)
	_, err = f.svc.ProcessCode(context.Background(), sess, "111")
	require.NoError(t, err)

	undo, err := f.svc.Undo(context.Background(), sess)
	require.NoError(t, err)
	require.NotNil(t, undo)
	assert.True(t, undo.Amount.Equal(money("2.50")))
	assert.False(t, undo.WasPayment)
	assert.True(t, undo.Balance.Equal(money("10.00")))

	assert.True(t, f.users.users[*sess.UserID].Balance.Equal(money("10.00")))
	assert.Equal(t, 3, *f.products.stock("111"))
	assert.Empty(t, f.transactions.rows)
}

func TestOutOfStockPurchaseMutatesNothing(t *testing.T) {
	f := newKioskFixture()
	f.users.add(model.User{FirstName: "Mere", CardID: "CARD2", Balance: money("5.00")})
	f.products.add(model.Product{UPCCode: "222", Description: "L&P Can", Price: money("3.00"), StockLevel: intp(0)})
	sess := &session.Session{}

	_, err := f.svc.ProcessCode(context.Background(), sess, "CARD2")
	require.NoError(t, err)

	res, err := f.svc.ProcessCode(context.Background(), sess, "222")
	require.NoError(t, err)
	assert.Equal(t, dto.ScanOutOfStock, res.Kind)
	assert.Equal(t, "L&P Can", res.Description)

	assert.True(t, f.users.users[*sess.UserID].Balance.Equal(money("5.00")))
	assert.Equal(t, 0, *f.products.stock("222"))
	assert.Empty(t, f.transactions.rows)
}

func TestPINChallengeRejectsWrongThenAcceptsRight(t *testing.T) {
	f := newKioskFixture()
	u := f.users.add(model.User{FirstName: "Aroha", CardID: "CARD3", Balance: money("1.00"), PINHash: pinHash(t, "4321")})
	sess := &session.Session{}

	res, err := f.svc.ProcessCode(context.Background(), sess, "CARD3")
	require.NoError(t, err)
	assert.Equal(t, dto.ScanNeedsPIN, res.Kind)
	assert.Equal(t, "Aroha", res.DisplayName)
	assert.Nil(t, sess.UserID)
	require.NotNil(t, sess.PendingUserID)
	assert.Equal(t, u.ID, *sess.PendingUserID)

	res, err = f.svc.VerifyPIN(context.Background(), sess, "1234")
	require.NoError(t, err)
	assert.Equal(t, dto.ScanPINRejected, res.Kind)
	assert.Nil(t, sess.UserID)
	assert.NotNil(t, sess.PendingUserID) // candidate stays parked for a re-prompt

	res, err = f.svc.VerifyPIN(context.Background(), sess, "4321")
	require.NoError(t, err)
	assert.Equal(t, dto.ScanLoggedIn, res.Kind)
	require.NotNil(t, sess.UserID)
	assert.Equal(t, u.ID, *sess.UserID)
	assert.Nil(t, sess.PendingUserID)
}

func TestVerifyPINWithoutPendingChallenge(t *testing.T) {
	f := newKioskFixture()
	sess := &session.Session{}

	res, err := f.svc.VerifyPIN(context.Background(), sess, "0000")
	require.NoError(t, err)
	assert.Equal(t, dto.ScanNotFound, res.Kind)
}

func TestUnknownCodeWithoutIdentityIsNotFound(t *testing.T) {
	f := newKioskFixture()
	f.products.add(model.Product{UPCCode: "111", Description: "Choc Fish", Price: money("2.50")})
	sess := &session.Session{}

	// Nobody logged in: even a valid product code cannot sell.
	res, err := f.svc.ProcessCode(context.Background(), sess, "111")
	require.NoError(t, err)
	assert.Equal(t, dto.ScanNotFound, res.Kind)
	assert.Empty(t, f.transactions.rows)
}

func TestUntrackedProductSellsWithoutStockBookkeeping(t *testing.T) {
	f := newKioskFixture()
	f.users.add(model.User{FirstName: "Nikau", CardID: "CARD4", Balance: money("2.00")})
	f.products.add(model.Product{UPCCode: "333", Description: "Mystery Snack", Price: money("1.00"), StockLevel: nil})
	sess := &session.Session{}

	_, err := f.svc.ProcessCode(context.Background(), sess, "CARD4")
	require.NoError(t, err)
	res, err := f.svc.ProcessCode(context.Background(), sess, "333")
	require.NoError(t, err)
	assert.Equal(t, dto.ScanPurchased, res.Kind)
	assert.Nil(t, f.products.stock("333"))
	assert.True(t, f.users.users[*sess.UserID].Balance.Equal(money("1.00")))
}

func TestMissingPriceSellsAsZero(t *testing.T) {
	f := newKioskFixture()
	f.users.add(model.User{FirstName: "Kiri", CardID: "CARD5", Balance: money("3.00")})
	f.products.add(model.Product{UPCCode: "444", Description: "Sample Bar", StockLevel: intp(1)})
	sess := &session.Session{}

	_, err := f.svc.ProcessCode(context.Background(), sess, "CARD5")
	require.NoError(t, err)
	res, err := f.svc.ProcessCode(context.Background(), sess, "444")
	require.NoError(t, err)
	assert.Equal(t, dto.ScanPurchased, res.Kind)
	assert.True(t, f.users.users[*sess.UserID].Balance.Equal(money("3.00")))
	assert.Equal(t, 0, *f.products.stock("444"))
	require.Len(t, f.transactions.rows, 1)
	assert.True(t, f.transactions.rows[0].Amount.IsZero())
}

func TestUndoZeroPricePurchaseRestoresStock(t *testing.T) {
	f := newKioskFixture()
	f.users.add(model.User{FirstName: "Kiri", CardID: "CARD5", Balance: money("3.00")})
	f.products.add(model.Product{UPCCode: "444", Description: "Sample Bar", StockLevel: intp(1)})
	sess := &session.Session{}

	_, err := f.svc.ProcessCode(context.Background(), sess, "CARD5")
	require.NoError(t, err)
	_, err = f.svc.ProcessCode(context.Background(), sess, "444")
	require.NoError(t, err)
	require.Equal(t, 0, *f.products.stock("444"))

	undo, err := f.svc.Undo(context.Background(), sess)
	require.NoError(t, err)
	require.NotNil(t, undo)
	assert.True(t, undo.Amount.IsZero())
	assert.False(t, undo.WasPayment)

	// Round-trip: the zero-amount row still consumed a unit, so undo
	// must hand it back along with deleting the row.
	assert.Equal(t, 1, *f.products.stock("444"))
	assert.True(t, f.users.users[*sess.UserID].Balance.Equal(money("3.00")))
	assert.Empty(t, f.transactions.rows)
}

func TestOverdraftIsAllowed(t *testing.T) {
	f := newKioskFixture()
	f.users.add(model.User{FirstName: "Rewi", CardID: "CARD6", Balance: money("0.50")})
	f.products.add(model.Product{UPCCode: "555", Description: "Pie", Price: money("4.00"), StockLevel: intp(2)})
	sess := &session.Session{}

	_, err := f.svc.ProcessCode(context.Background(), sess, "CARD6")
	require.NoError(t, err)
	res, err := f.svc.ProcessCode(context.Background(), sess, "555")
	require.NoError(t, err)
	assert.Equal(t, dto.ScanPurchased, res.Kind)
	assert.True(t, f.users.users[*sess.UserID].Balance.Equal(money("-3.50")))
}

func TestUndoWithNoHistoryIsANoOp(t *testing.T) {
	f := newKioskFixture()
	f.users.add(model.User{FirstName: "Hemi", CardID: "CARD7", Balance: money("1.00")})
	sess := &session.Session{}

	_, err := f.svc.ProcessCode(context.Background(), sess, "CARD7")
	require.NoError(t, err)

	undo, err := f.svc.Undo(context.Background(), sess)
	require.NoError(t, err)
	assert.Nil(t, undo)
	assert.True(t, f.users.users[*sess.UserID].Balance.Equal(money("1.00")))
}

func TestScanningAnotherCardSwitchesIdentity(t *testing.T) {
	f := newKioskFixture()
	a := f.users.add(model.User{FirstName: "Ana", CardID: "A", Balance: money("1.00")})
	b := f.users.add(model.User{FirstName: "Ben", CardID: "B", Balance: money("2.00")})
	sess := &session.Session{}

	_, err := f.svc.ProcessCode(context.Background(), sess, "A")
	require.NoError(t, err)
	require.NotNil(t, sess.UserID)
	assert.Equal(t, a.ID, *sess.UserID)

	res, err := f.svc.ProcessCode(context.Background(), sess, "B")
	require.NoError(t, err)
	assert.Equal(t, dto.ScanLoggedIn, res.Kind)
	assert.Equal(t, b.ID, *sess.UserID)
}

func TestStateAssemblesScreen(t *testing.T) {
	f := newKioskFixture()
	quick := newStubQuickItemRepo()
	walls := newStubWallpaperRepo()
	f.svc = NewKioskService(f.users, f.products, f.transactions, quick, walls, nil, testPepper)

	f.users.add(model.User{FirstName: "Tama", CardID: "CARD1", Balance: money("10.00")})
	f.products.add(model.Product{UPCCode: "111", Description: "Choc Fish", Price: money("2.50"), StockLevel: intp(3)})
	require.NoError(t, quick.Create(context.Background(), &model.QuickItem{Label: "Coke", BarcodeValue: "111"}))
	require.NoError(t, walls.Create(context.Background(), &model.Wallpaper{Name: "Beach", ImageURL: "/img/beach.jpg", Active: true}))

	sess := &session.Session{}
	_, err := f.svc.ProcessCode(context.Background(), sess, "CARD1")
	require.NoError(t, err)
	_, err = f.svc.ProcessCode(context.Background(), sess, "111")
	require.NoError(t, err)

	state, err := f.svc.State(context.Background(), sess)
	require.NoError(t, err)
	require.NotNil(t, state.User)
	assert.Equal(t, "Tama", state.User.FirstName)
	assert.Equal(t, "Choc Fish", state.LastItem)
	assert.Len(t, state.Users, 1)
	assert.Len(t, state.QuickItems, 1)
	assert.Equal(t, "/img/beach.jpg", state.WallpaperURL)
}
