package character

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"

	apperrors "github.com/louisbranch/kisheet/internal/platform/errors"
	"github.com/louisbranch/kisheet/internal/sheet/numeric"
)

// Normalize decodes raw JSON and merges it over Default. Only fields present
// in the default schema survive; missing or null fields keep their default;
// numeric fields accept numbers or numeric strings and otherwise keep their
// default. A JSON document that is not an object yields Default. Only
// syntactically invalid JSON is an error.
func Normalize(raw []byte) (State, error) {
	var value any
	if err := json.Unmarshal(raw, &value); err != nil {
		return Default(), fmt.Errorf("decode state: %w", err)
	}
	return NormalizeValue(value), nil
}

// NormalizeValue merges a decoded JSON value over Default.
func NormalizeValue(value any) State {
	base := defaultTree()
	override, ok := value.(map[string]any)
	if !ok {
		return Default()
	}
	merged := merge(base, override)
	state, err := fromTree(merged)
	if err != nil {
		return Default()
	}
	return state
}

// Sanitize replaces non-finite numeric fields with their default value.
func Sanitize(s State) State {
	def := Default()
	sanitizeValue(reflect.ValueOf(&s).Elem(), reflect.ValueOf(def))
	return s
}

// CoerceFinite replaces non-finite numeric fields with 0. Level and max hp
// become 1 instead.
func CoerceFinite(s State) State {
	floor := State{Meta: Meta{Level: 1}, Resources: Resources{MaxHP: 1}}
	sanitizeValue(reflect.ValueOf(&s).Elem(), reflect.ValueOf(floor))
	return s
}

func sanitizeValue(v, def reflect.Value) {
	switch v.Kind() {
	case reflect.Struct:
		for i := 0; i < v.NumField(); i++ {
			sanitizeValue(v.Field(i), def.Field(i))
		}
	case reflect.Float64:
		v.SetFloat(numeric.Finite(v.Float(), def.Float()))
	}
}

// Export renders s as indented JSON.
func Export(s State) ([]byte, error) {
	data, err := json.MarshalIndent(Sanitize(s), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode state: %w", err)
	}
	return data, nil
}

// Import parses an exported document. source names the input in the error.
func Import(data []byte, source string) (State, error) {
	state, err := Normalize(data)
	if err != nil {
		return Default(), apperrors.WrapWithMetadata(
			apperrors.CodeStateImportInvalid,
			"import state",
			map[string]string{"Source": source},
			err,
		)
	}
	return state, nil
}

// SetPath assigns value to the dotted field path, e.g. "resources.currentHp".
// Numeric fields coerce value with 0 as fallback; string fields take it
// verbatim. Unknown paths and object paths are rejected.
func SetPath(s State, path, value string) (State, error) {
	invalid := apperrors.WithMetadata(
		apperrors.CodeFieldPathInvalid,
		"set field path",
		map[string]string{"Path": path},
	)
	parts := strings.Split(strings.TrimSpace(path), ".")
	tree, err := toTree(Sanitize(s))
	if err != nil {
		return s, err
	}

	node := tree
	for _, part := range parts[:len(parts)-1] {
		child, ok := node[part].(map[string]any)
		if !ok {
			return s, invalid
		}
		node = child
	}
	leaf := parts[len(parts)-1]
	switch node[leaf].(type) {
	case float64:
		node[leaf] = numeric.Coerce(value, 0)
	case string:
		node[leaf] = value
	default:
		return s, invalid
	}
	return NormalizeValue(tree), nil
}

// merge walks base and takes override values where the shapes agree.
func merge(base, override any) any {
	switch b := base.(type) {
	case map[string]any:
		o, _ := override.(map[string]any)
		out := make(map[string]any, len(b))
		for key, value := range b {
			var child any
			if o != nil {
				child = o[key]
			}
			out[key] = merge(value, child)
		}
		return out
	case []any:
		if o, ok := override.([]any); ok {
			return o
		}
		return b
	case float64:
		if override == nil {
			return b
		}
		return numeric.Coerce(override, b)
	case string:
		if o, ok := override.(string); ok {
			return o
		}
		return b
	default:
		if override == nil {
			return b
		}
		return override
	}
}

func defaultTree() map[string]any {
	tree, err := toTree(Default())
	if err != nil {
		panic(fmt.Sprintf("encode default state: %v", err))
	}
	return tree
}

func toTree(s State) (map[string]any, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("encode state: %w", err)
	}
	var tree map[string]any
	if err := json.Unmarshal(data, &tree); err != nil {
		return nil, fmt.Errorf("decode state tree: %w", err)
	}
	return tree, nil
}

func fromTree(tree any) (State, error) {
	data, err := json.Marshal(tree)
	if err != nil {
		return State{}, fmt.Errorf("encode state tree: %w", err)
	}
	var s State
	if err := json.Unmarshal(data, &s); err != nil {
		return State{}, fmt.Errorf("decode state: %w", err)
	}
	return s, nil
}
