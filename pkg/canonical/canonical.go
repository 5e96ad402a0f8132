package canonical

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// Canonicalize renders a JSON-safe value as a deterministic string. Object keys
// are sorted lexicographically at every nesting level, array order is preserved
// and primitives use their standard JSON form. Two values that are deeply equal
// modulo key order always canonicalize to the same string.
func Canonicalize(value interface{}) (string, error) {
	raw, err := json.Marshal(value)
	if err != nil {
		return "", fmt.Errorf("failed to encode value: %w", err)
	}

	decoder := json.NewDecoder(bytes.NewReader(raw))
	decoder.UseNumber()

	var decoded interface{}
	if err := decoder.Decode(&decoded); err != nil {
		return "", fmt.Errorf("failed to decode value: %w", err)
	}

	var builder strings.Builder
	if err := writeCanonical(&builder, decoded); err != nil {
		return "", err
	}

	return builder.String(), nil
}

// Hash returns the lowercase hex SHA-256 digest of the canonical form of value.
// Issuance and verification both call this function; they must never diverge.
func Hash(value interface{}) (string, error) {
	canonicalForm, err := Canonicalize(value)
	if err != nil {
		return "", err
	}

	sum := sha256.Sum256([]byte(canonicalForm))

	return hex.EncodeToString(sum[:]), nil
}

func writeCanonical(builder *strings.Builder, value interface{}) error {
	switch typed := value.(type) {
	case nil:
		builder.WriteString("null")
	case bool:
		if typed {
			builder.WriteString("true")
		} else {
			builder.WriteString("false")
		}
	case json.Number:
		builder.WriteString(typed.String())
	case string:
		encoded, err := json.Marshal(typed)
		if err != nil {
			return fmt.Errorf("failed to encode string: %w", err)
		}
		builder.Write(encoded)
	case []interface{}:
		builder.WriteByte('[')
		for i, element := range typed {
			if i > 0 {
				builder.WriteByte(',')
			}
			if err := writeCanonical(builder, element); err != nil {
				return err
			}
		}
		builder.WriteByte(']')
	case map[string]interface{}:
		keys := make([]string, 0, len(typed))
		for key := range typed {
			keys = append(keys, key)
		}
		sort.Strings(keys)

		builder.WriteByte('{')
		for i, key := range keys {
			if i > 0 {
				builder.WriteByte(',')
			}
			encodedKey, err := json.Marshal(key)
			if err != nil {
				return fmt.Errorf("failed to encode key: %w", err)
			}
			builder.Write(encodedKey)
			builder.WriteByte(':')
			if err := writeCanonical(builder, typed[key]); err != nil {
				return err
			}
		}
		builder.WriteByte('}')
	default:
		return fmt.Errorf("unsupported value type %T", value)
	}

	return nil
}
