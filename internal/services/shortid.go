package services

import (
	"crypto/rand"

	"github.com/pkg/errors"
)

// ShortTokenLength длина автосгенерированного токена.
const ShortTokenLength = 7

// maxGenerationAttempts бюджет попыток на случай коллизий. Исторически
// генератор ретраил рекурсивно без ограничения (и терял результат
// внутреннего вызова) — теперь это ограниченный цикл с явной ошибкой.
const maxGenerationAttempts = 20

const tokenAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// generateShortToken возвращает случайный URL-безопасный токен.
// Уникальность в рамках домена обеспечивает вызывающая сторона:
// вставка с ретраем по ошибке дубликата.
func generateShortToken(length int) (string, error) {
	buf := make([]byte, length)
	if _, err := rand.Read(buf); err != nil {
		return "", errors.Wrap(err, "read random bytes")
	}
	for i, b := range buf {
		buf[i] = tokenAlphabet[int(b)%len(tokenAlphabet)]
	}
	return string(buf), nil
}
