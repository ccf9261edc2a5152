package server

import (
	"fmt"
	"strconv"
	"strings"
)

func queryInt(value string, def int) (int, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return def, nil
	}
	parsed, err := strconv.Atoi(trimmed)
	if err != nil {
		return 0, fmt.Errorf("%w: not a whole number", ErrInvalidRequest)
	}
	return parsed, nil
}

func queryFloat(value string, def float64) (float64, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return def, nil
	}
	parsed, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: not a number", ErrInvalidRequest)
	}
	return parsed, nil
}

func queryBool(value string) bool {
	return strings.EqualFold(strings.TrimSpace(value), "true")
}

func queryOptionalFloat(value string) (*float64, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil, nil
	}
	parsed, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: not a number", ErrInvalidRequest)
	}
	return &parsed, nil
}

func queryOptionalInt(value string) (*int, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil, nil
	}
	parsed, err := strconv.Atoi(trimmed)
	if err != nil {
		return nil, fmt.Errorf("%w: not a whole number", ErrInvalidRequest)
	}
	return &parsed, nil
}
