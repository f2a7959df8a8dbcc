package utils

import (
	"net/url"
	"strconv"
)

const (
	DefaultLimit = 10
	MaxLimit     = 500
)

// ParseLimitFromQuery читает limit из query-параметров.
// Отсутствующее или некорректное значение заменяется дефолтом,
// слишком большое — обрезается до MaxLimit.
func ParseLimitFromQuery(values url.Values) int {
	limit := DefaultLimit
	if limitStr := values.Get("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 {
			if l > MaxLimit {
				return MaxLimit
			}
			limit = l
		}
	}
	return limit
}
