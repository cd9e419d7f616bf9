package handlers

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/charlesng35/notifyhub/internal/models"
)

// intField accepts a JSON number or a numeric string.
type intField int64

func (f *intField) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if unquoted, err := strconv.Unquote(raw); err == nil {
		raw = strings.TrimSpace(unquoted)
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return fmt.Errorf("expected an integer, got %s", data)
	}
	*f = intField(n)
	return nil
}

// small narrows the value to int16; out of range values map to -1, which no
// channel or status accepts.
func (f intField) small() int16 {
	if f < math.MinInt16 || f > math.MaxInt16 {
		return -1
	}
	return int16(f)
}

func (f intField) id() uint {
	if f <= 0 {
		return 0
	}
	return uint(f)
}

func (f intField) channel() models.Channel { return models.Channel(f.small()) }

func (f intField) status() models.Status { return models.Status(f.small()) }

// flagField accepts true/false, 1/0 and their string forms.
type flagField bool

func (f *flagField) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if unquoted, err := strconv.Unquote(raw); err == nil {
		raw = strings.ToLower(strings.TrimSpace(unquoted))
	}
	switch raw {
	case "true", "1":
		*f = true
	case "false", "0":
		*f = false
	default:
		return fmt.Errorf("expected a boolean flag, got %s", data)
	}
	return nil
}
