// Package sql содержит реализацию репозиториев поверх gorm.
package sql
