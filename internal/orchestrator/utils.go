package orchestrator

import (
	"fmt"
	"strconv"
	"strings"
)

// NovelName derives the knowledge base name from an uploaded file name by
// dropping a trailing .txt, the same normalization the backend applies.
func NovelName(fileName string) string {
	name := strings.TrimSpace(fileName)

	// Strip any directory part
	if i := strings.LastIndexAny(name, `/\`); i >= 0 {
		name = name[i+1:]
	}

	if len(name) > 4 && strings.EqualFold(name[len(name)-4:], ".txt") {
		name = name[:len(name)-4]
	}
	return name
}

// ParseFilter turns key=value pairs into a metadata filter. Values that look
// like integers, floats or booleans are converted; everything else stays a string.
func ParseFilter(pairs []string) (map[string]any, error) {
	filter := make(map[string]any, len(pairs))

	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("%w: %q", ErrInvalidFilter, pair)
		}
		filter[key] = coerce(strings.TrimSpace(value))
	}

	return filter, nil
}

func coerce(value string) any {
	if i, err := strconv.ParseInt(value, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(value, 64); err == nil {
		return f
	}
	switch strings.ToLower(value) {
	case "true":
		return true
	case "false":
		return false
	}
	return value
}
