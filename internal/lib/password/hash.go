// Package password реализует безопасное хеширование и проверку паролей.
//
// Hasher создаёт bcrypt-хеш пароля с настраиваемой стоимостью (work factor)
// и сравнивает сохранённый хеш с введённым паролем.
package password

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/magabrotheeeer/auth-api/internal/models"
)

// DefaultCost стоимость bcrypt по умолчанию.
const DefaultCost = 12

// Hasher хеширует и проверяет пароли с помощью bcrypt.
type Hasher struct {
	cost int
}

// NewHasher создаёт Hasher с заданной стоимостью.
// Стоимость должна лежать в пределах [bcrypt.MinCost, bcrypt.MaxCost].
func NewHasher(cost int) (*Hasher, error) {
	const op = "password.NewHasher"
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return nil, fmt.Errorf("%s: cost %d out of range [%d, %d]", op, cost, bcrypt.MinCost, bcrypt.MaxCost)
	}
	return &Hasher{cost: cost}, nil
}

// Cost возвращает текущую стоимость хеширования.
func (h *Hasher) Cost() int {
	return h.cost
}

// Hash принимает пароль пользователя и возвращает его bcrypt‑хэш.
//
// Любая ошибка bcrypt оборачивается в models.ErrHashingFailed.
func (h *Hasher) Hash(plain string) (string, error) {
	const op = "password.Hash"
	hashed, err := bcrypt.GenerateFromPassword([]byte(plain), h.cost)
	if err != nil {
		return "", fmt.Errorf("%s: %w: %w", op, models.ErrHashingFailed, err)
	}
	return string(hashed), nil
}

// Verify сравнивает bcrypt‑хэш с введённым паролем.
func (h *Hasher) Verify(plain, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
