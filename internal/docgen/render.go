package docgen

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// Render merges data into the template. Scalar placeholders resolve
// against top-level keys, {{#if}} bodies render when the key is
// truthy, and {{#each}} bodies render once per sequence item with the
// item's fields taking precedence over outer data. No escaping is
// applied; the caller owns safe presentation.
func Render(template string, data map[string]interface{}) string {
	nodes, _ := parse(lex(template), 0, "")
	var b strings.Builder
	renderNodes(&b, nodes, data, nil)
	return b.String()
}

func renderNodes(b *strings.Builder, nodes []node, data, item map[string]interface{}) {
	for _, n := range nodes {
		switch n.kind {
		case nodeLiteral:
			b.WriteString(n.text)
		case nodePlaceholder:
			b.WriteString(stringify(lookup(n.key, data, item)))
		case nodeIf:
			if truthy(lookup(n.key, data, item)) {
				renderNodes(b, n.children, data, item)
			}
		case nodeEach:
			for _, it := range sequence(lookup(n.key, data, item)) {
				renderNodes(b, n.children, data, it)
			}
		}
	}
}

// lookup resolves a key against the current loop item first, then the
// top-level data. Missing keys yield nil.
func lookup(key string, data, item map[string]interface{}) interface{} {
	if item != nil {
		if v, ok := item[key]; ok {
			return v
		}
	}
	if v, ok := data[key]; ok {
		return v
	}
	return nil
}

// sequence coerces a data value into loop items. Items that are not
// maps render with only outer data available.
func sequence(v interface{}) []map[string]interface{} {
	if v == nil {
		return nil
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil
	}
	out := make([]map[string]interface{}, 0, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		if m, ok := rv.Index(i).Interface().(map[string]interface{}); ok {
			out = append(out, m)
		} else {
			out = append(out, nil)
		}
	}
	return out
}

func truthy(v interface{}) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	case float64:
		return t != 0
	case float32:
		return t != 0
	case int:
		return t != 0
	case int64:
		return t != 0
	default:
		rv := reflect.ValueOf(v)
		if rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array || rv.Kind() == reflect.Map {
			return rv.Len() > 0
		}
		return true
	}
}

func stringify(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	default:
		return fmt.Sprint(t)
	}
}
