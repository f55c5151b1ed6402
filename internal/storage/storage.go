// Package storage реализует хранилище пользователей на основе PostgreSQL.
//
// Storage создаётся явно и подключается к базе не более одного раза:
// первое обращение устанавливает соединение, конкурентные обращения ждут
// его результата. Неудачная попытка не запоминается, следующий запрос
// попробует подключиться снова.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	// Регистрация драйвера pgx для использования с database/sql.
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/magabrotheeeer/auth-api/internal/models"
)

// DefaultConnectTimeout время ожидания подключения по умолчанию.
const DefaultConnectTimeout = 10 * time.Second

// PasswordHasher хеширует пароль перед сохранением пользователя.
type PasswordHasher interface {
	Hash(plain string) (string, error)
}

type openFunc func(ctx context.Context, dsn string) (*sql.DB, error)

// ConnectHook выполняется на свежем соединении до того, как оно станет доступно
// запросам. Ошибка хука закрывает соединение, следующая попытка повторит всё заново.
type ConnectHook func(ctx context.Context, db *sql.DB) error

// Storage инкапсулирует соединение с базой данных PostgreSQL
// и реализует методы работы с пользователями.
type Storage struct {
	dsn            string
	connectTimeout time.Duration
	hasher         PasswordHasher
	open           openFunc
	onConnect      ConnectHook

	mu sync.Mutex
	db atomic.Pointer[sql.DB]
}

// New создаёт хранилище. Подключение не устанавливается до вызова Connect
// или первого запроса.
func New(dsn string, connectTimeout time.Duration, hasher PasswordHasher) *Storage {
	if connectTimeout <= 0 {
		connectTimeout = DefaultConnectTimeout
	}
	return &Storage{
		dsn:            dsn,
		connectTimeout: connectTimeout,
		hasher:         hasher,
		open:           openPostgres,
	}
}

func openPostgres(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	if err = db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// OnConnect задаёт хук первого подключения. Вызывается до Connect.
func (s *Storage) OnConnect(hook ConnectHook) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onConnect = hook
}

// Connect устанавливает соединение, если оно ещё не установлено.
// Безопасен для конкурентного вызова: открытие выполняется ровно один раз.
func (s *Storage) Connect(ctx context.Context) error {
	const op = "storage.Connect"
	if s.db.Load() != nil {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db.Load() != nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, s.connectTimeout)
	defer cancel()

	db, err := s.open(ctx, s.dsn)
	if err != nil {
		return fmt.Errorf("%s: %w: %w", op, models.ErrStorageUnavailable, err)
	}
	if s.onConnect != nil {
		if err = s.onConnect(ctx, db); err != nil {
			_ = db.Close()
			return fmt.Errorf("%s: %w", op, err)
		}
	}
	s.db.Store(db)
	return nil
}

// DB возвращает пул соединений, подключаясь при первом обращении.
func (s *Storage) DB(ctx context.Context) (*sql.DB, error) {
	if db := s.db.Load(); db != nil {
		return db, nil
	}
	if err := s.Connect(ctx); err != nil {
		return nil, err
	}
	return s.db.Load(), nil
}

// Connected сообщает, установлено ли соединение.
func (s *Storage) Connected() bool {
	return s.db.Load() != nil
}

// Ping проверяет живость установленного соединения, не пытаясь подключиться.
func (s *Storage) Ping(ctx context.Context) error {
	const op = "storage.Ping"
	db := s.db.Load()
	if db == nil {
		return fmt.Errorf("%s: %w", op, models.ErrStorageUnavailable)
	}
	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Close закрывает соединение. Повторный вызов ничего не делает.
func (s *Storage) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	db := s.db.Swap(nil)
	if db == nil {
		return nil
	}
	return db.Close()
}
