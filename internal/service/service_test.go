package service

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/mmynk/receipts/internal/auth"
	"github.com/mmynk/receipts/internal/storage/sqlite"
	"github.com/mmynk/receipts/pkg/logging"
)

type testEnv struct {
	store    *sqlite.SQLiteStore
	auth     *AuthService
	receipts *ReceiptService
	jwt      *auth.JWTManager
}

// setupTestEnv wires both services over a temporary SQLite database.
func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err, "failed to create store")
	t.Cleanup(func() { store.Close() })

	logger := logging.Discard()
	jwtManager := auth.NewJWTManager("test-secret", time.Hour)
	authenticator := auth.NewPasswordAuthenticator(store).WithCost(bcrypt.MinCost)

	return &testEnv{
		store:    store,
		auth:     NewAuthService(authenticator, jwtManager, store, logger),
		receipts: NewReceiptService(store, logger),
		jwt:      jwtManager,
	}
}
