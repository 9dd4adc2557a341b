// Package cache хранит результаты расчетов по хэшу нормализованного запроса.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/cespare/xxhash/v2"
)

// Repository хранилище готовых результатов расчета
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
}

// Key строит ключ кэша из вида расчета и его входных данных
func Key(kind string, input any) (string, error) {
	raw, err := json.Marshal(input)
	if err != nil {
		return "", fmt.Errorf("cache key: %w", err)
	}
	return kind + ":" + strconv.FormatUint(xxhash.Sum64(raw), 16), nil
}
