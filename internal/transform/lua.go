// SPDX-License-Identifier: MPL-2.0

package transform

import (
	"fmt"
	"math"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"time"
)

var luaIdent = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

var luaKeywords = map[string]bool{
	"and": true, "break": true, "do": true, "else": true, "elseif": true, "end": true,
	"false": true, "for": true, "function": true, "goto": true, "if": true, "in": true,
	"local": true, "nil": true, "not": true, "or": true, "repeat": true, "return": true,
	"then": true, "true": true, "until": true, "while": true,
}

// EncodeLua renders v as a Lua expression. Maps become tables with sorted
// keys, slices become array tables.
func EncodeLua(v any) (string, error) {
	var b strings.Builder
	if err := encodeLua(&b, v, 0); err != nil {
		return "", err
	}
	return b.String(), nil
}

func encodeLua(b *strings.Builder, v any, depth int) error {
	switch x := v.(type) {
	case nil:
		b.WriteString("nil")
	case bool:
		b.WriteString(strconv.FormatBool(x))
	case string:
		writeLuaString(b, x)
	case int:
		b.WriteString(strconv.Itoa(x))
	case int64:
		b.WriteString(strconv.FormatInt(x, 10))
	case uint64:
		b.WriteString(strconv.FormatUint(x, 10))
	case float64:
		writeLuaNumber(b, x)
	case time.Time:
		writeLuaString(b, x.Format(time.RFC3339Nano))
	case fmt.Stringer:
		// TOML local dates and times.
		writeLuaString(b, x.String())
	case []any:
		return encodeArray(b, x, depth)
	case map[string]any:
		return encodeTable(b, x, depth)
	case map[any]any:
		m := make(map[string]any, len(x))
		for k, item := range x {
			m[fmt.Sprint(k)] = item
		}
		return encodeTable(b, m, depth)
	default:
		return fmt.Errorf("no Lua representation for %T", v)
	}
	return nil
}

func encodeArray(b *strings.Builder, items []any, depth int) error {
	if len(items) == 0 {
		b.WriteString("{}")
		return nil
	}
	b.WriteString("{\n")
	for _, item := range items {
		indent(b, depth+1)
		if err := encodeLua(b, item, depth+1); err != nil {
			return err
		}
		b.WriteString(",\n")
	}
	indent(b, depth)
	b.WriteString("}")
	return nil
}

func encodeTable(b *strings.Builder, m map[string]any, depth int) error {
	if len(m) == 0 {
		b.WriteString("{}")
		return nil
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	b.WriteString("{\n")
	for _, k := range keys {
		indent(b, depth+1)
		if luaIdent.MatchString(k) && !luaKeywords[k] {
			b.WriteString(k)
		} else {
			b.WriteString("[")
			writeLuaString(b, k)
			b.WriteString("]")
		}
		b.WriteString(" = ")
		if err := encodeLua(b, m[k], depth+1); err != nil {
			return fmt.Errorf("%s: %w", k, err)
		}
		b.WriteString(",\n")
	}
	indent(b, depth)
	b.WriteString("}")
	return nil
}

func writeLuaNumber(b *strings.Builder, f float64) {
	switch {
	case math.IsNaN(f):
		b.WriteString("(0/0)")
	case math.IsInf(f, 1):
		b.WriteString("math.huge")
	case math.IsInf(f, -1):
		b.WriteString("-math.huge")
	default:
		b.WriteString(strconv.FormatFloat(f, 'g', -1, 64))
	}
}

func writeLuaString(b *strings.Builder, s string) {
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			if r < 0x20 || r == 0x7f {
				fmt.Fprintf(b, `\%03d`, r)
				continue
			}
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
}

func indent(b *strings.Builder, depth int) {
	for range depth {
		b.WriteByte('\t')
	}
}
