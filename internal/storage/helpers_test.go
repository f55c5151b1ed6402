package storage

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"golang.org/x/crypto/bcrypt"

	"github.com/magabrotheeeer/auth-api/internal/lib/password"
	"github.com/magabrotheeeer/auth-api/internal/migrations"
	"github.com/magabrotheeeer/auth-api/internal/models"
)

// countingHasher считает вызовы хеширования поверх настоящего bcrypt.
type countingHasher struct {
	inner *password.Hasher
	calls atomic.Int32
}

func newCountingHasher(t *testing.T) *countingHasher {
	h, err := password.NewHasher(bcrypt.MinCost)
	require.NoError(t, err)
	return &countingHasher{inner: h}
}

func (h *countingHasher) Hash(plain string) (string, error) {
	h.calls.Add(1)
	return h.inner.Hash(plain)
}

// TestDataFactory содержит методы для создания тестовых данных
type TestDataFactory struct {
	storage *Storage
}

// NewTestDataFactory создает новую фабрику тестовых данных
func NewTestDataFactory(storage *Storage) *TestDataFactory {
	return &TestDataFactory{storage: storage}
}

// CreateUser создает тестового пользователя через SaveUser
func (f *TestDataFactory) CreateUser(t *testing.T, email, plainPassword string) *models.User {
	u := models.NewUser(email, plainPassword, "Test", "User")
	require.NoError(t, f.storage.SaveUser(context.Background(), u))
	return u
}

// TestVerification содержит общие функции для проверки результатов тестов
type TestVerification struct {
	storage *Storage
}

// NewTestVerification создает новый объект для проверки результатов
func NewTestVerification(storage *Storage) *TestVerification {
	return &TestVerification{storage: storage}
}

// VerifyUserExists проверяет существование пользователя в БД
func (v *TestVerification) VerifyUserExists(t *testing.T, userUID string) {
	db, err := v.storage.DB(context.Background())
	require.NoError(t, err)

	var count int
	err = db.QueryRow("SELECT COUNT(*) FROM users WHERE uid = $1", userUID).Scan(&count)
	require.NoError(t, err)
	require.Equal(t, 1, count)
}

// StoredPasswordHash читает хэш пароля напрямую из БД
func (v *TestVerification) StoredPasswordHash(t *testing.T, userUID string) string {
	db, err := v.storage.DB(context.Background())
	require.NoError(t, err)

	var hash string
	err = db.QueryRow("SELECT password_hash FROM users WHERE uid = $1", userUID).Scan(&hash)
	require.NoError(t, err)
	return hash
}

// setupTestDatabase создает тестовую БД с контейнером PostgreSQL и применяет миграции
func setupTestDatabase(t *testing.T) (*Storage, *countingHasher, func()) {
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(time.Minute),
		),
	)
	require.NoError(t, err, "failed to start container")

	host, err := pgContainer.Host(ctx)
	require.NoError(t, err)
	port, err := pgContainer.MappedPort(ctx, nat.Port("5432/tcp"))
	require.NoError(t, err, "Failed to get port")

	connStr := fmt.Sprintf("postgres://testuser:testpass@%s:%s/testdb?sslmode=disable", host, port.Port())

	hasher := newCountingHasher(t)
	storage := New(connStr, 30*time.Second, hasher)
	require.NoError(t, storage.Connect(ctx), "Failed to connect storage")

	db, err := storage.DB(ctx)
	require.NoError(t, err)
	require.NoError(t, migrations.Run(db), "Failed to apply migrations")

	cleanup := func() {
		_ = storage.Close()
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	}

	return storage, hasher, cleanup
}
