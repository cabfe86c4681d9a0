package sqlite

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/receipts/internal/models"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err, "failed to create store")
	t.Cleanup(func() { store.Close() })
	return store
}

func createUser(t *testing.T, store *SQLiteStore, login string) *models.User {
	t.Helper()
	user := models.NewUser("User "+login, login, "hash")
	require.NoError(t, store.CreateUser(context.Background(), user))
	return user
}

func newReceipt(owner *models.User, total string, typ models.PaymentType, createdAt time.Time) *models.Receipt {
	id := uuid.Must(uuid.NewV7()).String()
	price := decimal.RequireFromString(total)
	return &models.Receipt{
		ID:        id,
		UserID:    owner.ID,
		Type:      typ,
		Amount:    price.Add(decimal.NewFromInt(10)),
		Total:     price,
		Rest:      decimal.NewFromInt(10),
		CreatedAt: createdAt.UTC().Truncate(time.Microsecond),
		Items: []models.LineItem{
			{ID: uuid.NewString(), ReceiptID: id, Name: "Thing", Price: price, Quantity: 1, Total: price, Position: 0},
		},
	}
}

func TestUsers(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	t.Run("GetUserByLogin returns created user", func(t *testing.T) {
		user := createUser(t, store, "alice")

		got, err := store.GetUserByLogin(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, user, got)
	})

	t.Run("duplicate login maps to ErrLoginExists", func(t *testing.T) {
		createUser(t, store, "bob")
		err := store.CreateUser(ctx, models.NewUser("Bob Again", "bob", "hash"))
		assert.ErrorIs(t, err, models.ErrLoginExists)
	})

	t.Run("unknown login returns ErrNotFound", func(t *testing.T) {
		_, err := store.GetUserByLogin(ctx, "nobody")
		assert.ErrorIs(t, err, models.ErrNotFound)
	})

	t.Run("concurrent registrations of one login: exactly one wins", func(t *testing.T) {
		const attempts = 10
		var (
			wg        sync.WaitGroup
			mu        sync.Mutex
			successes int
			conflicts int
		)
		for i := 0; i < attempts; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				err := store.CreateUser(ctx, models.NewUser(fmt.Sprintf("Racer %d", i), "racer", "hash"))
				mu.Lock()
				defer mu.Unlock()
				switch {
				case err == nil:
					successes++
				case assert.ErrorIs(t, err, models.ErrLoginExists):
					conflicts++
				}
			}(i)
		}
		wg.Wait()

		assert.Equal(t, 1, successes)
		assert.Equal(t, attempts-1, conflicts)
	})
}

func TestReceipts(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	alice := createUser(t, store, "alice")
	bob := createUser(t, store, "bob")

	t.Run("CreateReceipt then GetReceipt returns complete receipt", func(t *testing.T) {
		id := uuid.Must(uuid.NewV7()).String()
		original := &models.Receipt{
			ID:        id,
			UserID:    alice.ID,
			Type:      models.PaymentCash,
			Amount:    decimal.RequireFromString("200"),
			Total:     decimal.RequireFromString("21.0"),
			Rest:      decimal.RequireFromString("179.0"),
			CreatedAt: time.Date(2024, 5, 1, 12, 30, 0, 123000, time.UTC),
			Items: []models.LineItem{
				{ID: uuid.NewString(), ReceiptID: id, Position: 0, Name: "Apple",
					Price: decimal.RequireFromString("1.5"), Quantity: 10, Total: decimal.RequireFromString("15.0")},
				{ID: uuid.NewString(), ReceiptID: id, Position: 1, Name: "Banana",
					Price: decimal.RequireFromString("1.2"), Quantity: 5, Total: decimal.RequireFromString("6.0")},
			},
		}
		require.NoError(t, store.CreateReceipt(ctx, original))

		got, err := store.GetReceipt(ctx, id)
		require.NoError(t, err)

		assert.Equal(t, id, got.ID)
		assert.Equal(t, alice.ID, got.UserID)
		assert.Equal(t, alice.Username, got.Username)
		assert.Equal(t, models.PaymentCash, got.Type)
		assert.True(t, got.Amount.Equal(original.Amount))
		assert.True(t, got.Total.Equal(original.Total))
		assert.True(t, got.Rest.Equal(original.Rest))
		assert.True(t, got.CreatedAt.Equal(original.CreatedAt), "created_at %v, want %v", got.CreatedAt, original.CreatedAt)

		require.Len(t, got.Items, 2)
		assert.Equal(t, "Apple", got.Items[0].Name)
		assert.Equal(t, "Banana", got.Items[1].Name)
		assert.Equal(t, int64(10), got.Items[0].Quantity)
		assert.True(t, got.Items[1].Price.Equal(decimal.RequireFromString("1.2")))
	})

	t.Run("receipt with no items", func(t *testing.T) {
		r := newReceipt(alice, "0", models.PaymentCashless, time.Now())
		r.Items = nil
		require.NoError(t, store.CreateReceipt(ctx, r))

		got, err := store.GetReceipt(ctx, r.ID)
		require.NoError(t, err)
		assert.Empty(t, got.Items)
	})

	t.Run("failed item insert leaves nothing behind", func(t *testing.T) {
		r := newReceipt(alice, "5", models.PaymentCash, time.Now())
		// Reusing an item ID violates the primary key on the second insert.
		dup := r.Items[0]
		r.Items = append(r.Items, dup)

		require.Error(t, store.CreateReceipt(ctx, r))

		_, err := store.GetReceipt(ctx, r.ID)
		assert.ErrorIs(t, err, models.ErrNotFound)
	})

	t.Run("GetReceipt unknown id", func(t *testing.T) {
		_, err := store.GetReceipt(ctx, "nonexistent-id")
		assert.ErrorIs(t, err, models.ErrNotFound)
	})

	t.Run("GetOwnedReceipt is scoped to owner", func(t *testing.T) {
		r := newReceipt(alice, "12.34", models.PaymentCash, time.Now())
		require.NoError(t, store.CreateReceipt(ctx, r))

		got, err := store.GetOwnedReceipt(ctx, alice.ID, r.ID)
		require.NoError(t, err)
		assert.Equal(t, r.ID, got.ID)

		_, err = store.GetOwnedReceipt(ctx, bob.ID, r.ID)
		assert.ErrorIs(t, err, models.ErrNotFound)
	})
}

func TestListReceipts(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	owner := createUser(t, store, "owner")
	other := createUser(t, store, "other")

	base := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	r50 := newReceipt(owner, "50", models.PaymentCash, base)
	r150 := newReceipt(owner, "150", models.PaymentCashless, base.Add(24*time.Hour))
	r250 := newReceipt(owner, "250", models.PaymentCash, base.Add(48*time.Hour))
	foreign := newReceipt(other, "150", models.PaymentCash, base)
	for _, r := range []*models.Receipt{r50, r150, r250, foreign} {
		require.NoError(t, store.CreateReceipt(ctx, r))
	}

	ids := func(receipts []*models.Receipt) []string {
		out := make([]string, len(receipts))
		for i, r := range receipts {
			out[i] = r.ID
		}
		return out
	}
	dec := func(s string) *decimal.Decimal {
		d := decimal.RequireFromString(s)
		return &d
	}
	at := func(t time.Time) *time.Time { return &t }
	cash := models.PaymentCash

	tests := []struct {
		name   string
		filter models.ReceiptFilter
		page   models.Page
		want   []string
	}{
		{"all of owner's receipts", models.ReceiptFilter{}, models.DefaultPage(), []string{r50.ID, r150.ID, r250.ID}},
		{"total greater than", models.ReceiptFilter{TotalGT: dec("100")}, models.DefaultPage(), []string{r150.ID, r250.ID}},
		{"total range", models.ReceiptFilter{TotalGT: dec("100"), TotalLT: dec("200")}, models.DefaultPage(), []string{r150.ID}},
		{"bounds are strict", models.ReceiptFilter{TotalGT: dec("50"), TotalLT: dec("250")}, models.DefaultPage(), []string{r150.ID}},
		{"type", models.ReceiptFilter{Type: &cash}, models.DefaultPage(), []string{r50.ID, r250.ID}},
		{"created after", models.ReceiptFilter{CreatedAtGT: at(base.Add(time.Hour))}, models.DefaultPage(), []string{r150.ID, r250.ID}},
		{"created before", models.ReceiptFilter{CreatedAtLT: at(base.Add(time.Hour))}, models.DefaultPage(), []string{r50.ID}},
		{"second page of one", models.ReceiptFilter{}, models.Page{Limit: 1, Offset: 1}, []string{r150.ID}},
		{"limit zero", models.ReceiptFilter{}, models.Page{Limit: 0, Offset: 0}, []string{}},
		{"offset past end", models.ReceiptFilter{}, models.Page{Limit: 10, Offset: 10}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := store.ListReceipts(ctx, owner.ID, tt.filter, tt.page)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ids(got))
			for _, r := range got {
				assert.Len(t, r.Items, 1, "items loaded for %s", r.ID)
			}
		})
	}

	t.Run("order is stable across calls", func(t *testing.T) {
		first, err := store.ListReceipts(ctx, owner.ID, models.ReceiptFilter{}, models.DefaultPage())
		require.NoError(t, err)
		second, err := store.ListReceipts(ctx, owner.ID, models.ReceiptFilter{}, models.DefaultPage())
		require.NoError(t, err)
		assert.Equal(t, ids(first), ids(second))
	})
}
