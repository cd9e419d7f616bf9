package notify

import (
	"strconv"
	"strings"
)

// Render merges a resolved template text with a notification's ordered option values.
//
// Slot 0 is reserved and always expands to the empty string; option i fills slot i+1.
// "{N}" selects slot N, "{}" takes the next automatic slot starting at 0, and "{{" / "}}"
// produce literal braces. Without values the text is returned untouched.
//
// Mismatches never fail: a placeholder whose slot has no value is copied verbatim, surplus
// values are ignored, and anything that is not a valid placeholder (e.g. "{name}" or an
// unterminated "{1") is kept as written.
func Render(text string, values []string) string {
	if len(values) == 0 {
		return text
	}

	slots := make([]string, len(values)+1)
	copy(slots[1:], values)

	var b strings.Builder
	b.Grow(len(text))

	auto := 0
	for i := 0; i < len(text); {
		switch text[i] {
		case '{':
			if i+1 < len(text) && text[i+1] == '{' {
				b.WriteByte('{')
				i += 2
				continue
			}
			end := strings.IndexByte(text[i+1:], '}')
			if end < 0 {
				b.WriteString(text[i:])
				return b.String()
			}
			token := text[i : i+end+2]
			if idx, ok := slotIndex(text[i+1:i+1+end], &auto); ok && idx < len(slots) {
				b.WriteString(slots[idx])
			} else {
				b.WriteString(token)
			}
			i += end + 2
		case '}':
			b.WriteByte('}')
			if i+1 < len(text) && text[i+1] == '}' {
				i += 2
				continue
			}
			i++
		default:
			b.WriteByte(text[i])
			i++
		}
	}
	return b.String()
}

// Slots reports the highest slot index referenced by text, or -1 when it has no placeholders.
// Callers use it to detect option/placeholder count mismatches before rendering.
func Slots(text string) int {
	highest := -1
	auto := 0
	for i := 0; i < len(text); i++ {
		if text[i] != '{' {
			continue
		}
		if i+1 < len(text) && text[i+1] == '{' {
			i++
			continue
		}
		end := strings.IndexByte(text[i+1:], '}')
		if end < 0 {
			break
		}
		if idx, ok := slotIndex(text[i+1:i+1+end], &auto); ok && idx > highest {
			highest = idx
		}
		i += end + 1
	}
	return highest
}

func slotIndex(field string, auto *int) (int, bool) {
	if field == "" {
		idx := *auto
		*auto++
		return idx, true
	}
	for i := 0; i < len(field); i++ {
		if field[i] < '0' || field[i] > '9' {
			return 0, false
		}
	}
	idx, err := strconv.Atoi(field)
	if err != nil {
		return 0, false
	}
	return idx, true
}
