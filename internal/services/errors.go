package services

import "errors"

var (
	ErrUnknown        = errors.New("[service]: unknown error")
	ErrRecordNotFound = errors.New("[service]: record not found")
	ErrDuplicateKey   = errors.New("[service]: duplicate key")
	ErrValidation     = errors.New("[service]: validation error")
	// ErrGenerationExhausted бюджет попыток генерации токена исчерпан.
	// Либо пространство токенов забито, либо хранилище лежит — в обоих
	// случаях это громкая серверная ошибка.
	ErrGenerationExhausted = errors.New("[service]: short token generation exhausted")
)
