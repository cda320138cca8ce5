package tracing

import (
	"fmt"
	"sort"

	"go.opentelemetry.io/otel/attribute"
)

// attributesFromMap converts user-supplied span attributes to OTel
// key-values. Keys are sorted so attribute order is deterministic.
func attributesFromMap(attrs map[string]any) []attribute.KeyValue {
	if len(attrs) == 0 {
		return nil
	}

	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	kv := make([]attribute.KeyValue, 0, len(attrs))
	for _, k := range keys {
		kv = append(kv, convertAttr(k, attrs[k]))
	}
	return kv
}

func convertAttr(key string, value any) attribute.KeyValue {
	switch v := value.(type) {
	case string:
		return attribute.String(key, v)
	case bool:
		return attribute.Bool(key, v)
	case int:
		return attribute.Int(key, v)
	case int64:
		return attribute.Int64(key, v)
	case int32:
		return attribute.Int64(key, int64(v))
	case float64:
		return attribute.Float64(key, v)
	case float32:
		return attribute.Float64(key, float64(v))
	case []string:
		return attribute.StringSlice(key, v)
	case []int:
		return attribute.IntSlice(key, v)
	case []int64:
		return attribute.Int64Slice(key, v)
	case []float64:
		return attribute.Float64Slice(key, v)
	case []bool:
		return attribute.BoolSlice(key, v)
	case fmt.Stringer:
		return attribute.String(key, v.String())
	case error:
		return attribute.String(key, v.Error())
	case nil:
		return attribute.String(key, "<nil>")
	default:
		return attribute.String(key, fmt.Sprintf("%v", v))
	}
}
