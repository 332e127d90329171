// SPDX-FileCopyrightText: 2025 The Libgallery Authors
// SPDX-License-Identifier: EUPL-1.2

package convert

import (
	"bytes"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

// writeValue serialises a parsed value the way a browser's JSON.stringify
// does: compact, object keys in first-seen order with the last duplicate
// winning, numbers in their shortest form and strings with minimal escapes.
func writeValue(buf *bytes.Buffer, value gjson.Result) {
	switch value.Type {
	case gjson.Null:
		buf.WriteString("null")
	case gjson.False:
		buf.WriteString("false")
	case gjson.True:
		buf.WriteString("true")
	case gjson.Number:
		buf.WriteString(formatNumber(value.Num))
	case gjson.String:
		writeString(buf, value.Str)
	case gjson.JSON:
		if value.IsArray() {
			writeArray(buf, value)
		} else {
			writeObject(buf, value)
		}
	}
}

func writeArray(buf *bytes.Buffer, value gjson.Result) {
	buf.WriteByte('[')

	first := true

	value.ForEach(func(_, element gjson.Result) bool {
		if !first {
			buf.WriteByte(',')
		}

		first = false

		writeValue(buf, element)

		return true
	})

	buf.WriteByte(']')
}

func writeObject(buf *bytes.Buffer, value gjson.Result) {
	var (
		keys   []string
		values = make(map[string]gjson.Result)
	)

	value.ForEach(func(key, field gjson.Result) bool {
		if _, seen := values[key.Str]; !seen {
			keys = append(keys, key.Str)
		}

		values[key.Str] = field

		return true
	})

	buf.WriteByte('{')

	for i, key := range keys {
		if i > 0 {
			buf.WriteByte(',')
		}

		writeString(buf, key)
		buf.WriteByte(':')
		writeValue(buf, values[key])
	}

	buf.WriteByte('}')
}

// formatNumber follows the JavaScript number-to-string rules: plain
// notation between 1e-6 and 1e21, exponent notation outside, and null for
// values that overflow a float64.
func formatNumber(f float64) string {
	switch {
	case math.IsInf(f, 0) || math.IsNaN(f):
		return "null"
	case f == 0:
		return "0"
	}

	if abs := math.Abs(f); abs >= 1e-6 && abs < 1e21 {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}

	mantissa, exponent, _ := strings.Cut(strconv.FormatFloat(f, 'e', -1, 64), "e")

	return mantissa + "e" + exponent[:1] + strings.TrimLeft(exponent[1:], "0")
}

func writeString(buf *bytes.Buffer, s string) {
	buf.WriteByte('"')

	for _, r := range s {
		switch r {
		case '"':
			buf.WriteString(`\"`)
		case '\\':
			buf.WriteString(`\\`)
		case '\b':
			buf.WriteString(`\b`)
		case '\f':
			buf.WriteString(`\f`)
		case '\n':
			buf.WriteString(`\n`)
		case '\r':
			buf.WriteString(`\r`)
		case '\t':
			buf.WriteString(`\t`)
		default:
			if r < 0x20 {
				fmt.Fprintf(buf, `\u%04x`, r)
			} else {
				buf.WriteRune(r)
			}
		}
	}

	buf.WriteByte('"')
}
