package tokens

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
)

// VisitorClaims представляет данные JWT токена посетителя.
type VisitorClaims struct {
	jwt.RegisteredClaims
	UUID string
}

// UserClaims представляет данные JWT токена залогиненного пользователя.
// Выпуском таких токенов занимается внешний сервис аутентификации,
// здесь мы их только проверяем.
type UserClaims struct {
	jwt.RegisteredClaims
	UserID uint
}

// GenerateVisitorJWT создает JWT токен для посетителя.
func GenerateVisitorJWT(uuid string, expire time.Duration, key []byte) (string, error) {
	visitorClaims := VisitorClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expire)),
		},
		UUID: uuid,
	}
	token, err := generateJWT(visitorClaims, key)
	if err != nil {
		return "", fmt.Errorf("generating visitor jwt token: %w", err)
	}
	return token, nil
}

// ValidateVisitorJWT проверяет JWT токен посетителя.
// Возвращает ErrTokenExpired если истек срок действия.
func ValidateVisitorJWT(tokenString string, key []byte) (*jwt.Token, error) {
	token, err := validateJWT(tokenString, new(VisitorClaims), key)
	if err != nil {
		return nil, fmt.Errorf("validating visitor jwt token: %w", err)
	}

	_, ok := token.Claims.(*VisitorClaims)
	if !ok {
		return nil, errors.New("invalid claims")
	}
	return token, nil
}

// GenerateUserJWT создает JWT токен пользователя. В боевом контуре этим
// занимается сервис аутентификации, функция нужна тестам и утилитам.
func GenerateUserJWT(userID uint, expire time.Duration, key []byte) (string, error) {
	userClaims := UserClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expire)),
		},
		UserID: userID,
	}
	token, err := generateJWT(userClaims, key)
	if err != nil {
		return "", fmt.Errorf("generating user jwt token: %w", err)
	}
	return token, nil
}

// ValidateUserJWT проверяет JWT токен пользователя.
func ValidateUserJWT(tokenString string, key []byte) (*jwt.Token, error) {
	token, err := validateJWT(tokenString, new(UserClaims), key)
	if err != nil {
		return nil, fmt.Errorf("validating user jwt token: %w", err)
	}

	_, ok := token.Claims.(*UserClaims)
	if !ok {
		return nil, errors.New("invalid claims")
	}
	return token, nil
}

// generateJWT создает JWT токен с указанными данными.
func generateJWT(claims jwt.Claims, key []byte) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(key)
	if err != nil {
		return "", fmt.Errorf("generating jwt token: %w", err)
	}

	return tokenString, nil
}

// validateJWT проверяет JWT токен.
func validateJWT(tokenString string, claims jwt.Claims, key []byte) (*jwt.Token, error) {
	token, err := jwt.ParseWithClaims(tokenString, claims, func(_ *jwt.Token) (any, error) {
		return key, nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, fmt.Errorf("parsing jwt token: %w", err)
	}

	if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, errors.New("unexpected signing method")
	}

	return token, nil
}
