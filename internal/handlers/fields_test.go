package handlers

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/charlesng35/notifyhub/internal/models"
)

func TestFlagFieldForms(t *testing.T) {
	for raw, want := range map[string]bool{
		`true`: true, `false`: false, `1`: true, `0`: false,
		`"1"`: true, `"0"`: false, `"TRUE"`: true,
	} {
		var f flagField
		require.NoError(t, json.Unmarshal([]byte(raw), &f), raw)
		require.Equal(t, want, bool(f), raw)
	}

	var f flagField
	require.Error(t, json.Unmarshal([]byte(`2`), &f))
	require.Error(t, json.Unmarshal([]byte(`"yes"`), &f))
}

func TestIntFieldNarrowing(t *testing.T) {
	var f intField
	require.NoError(t, json.Unmarshal([]byte(`" 2 "`), &f))
	require.Equal(t, models.ChannelPush, f.channel())

	require.Equal(t, int16(-1), intField(1<<20).small())
	require.False(t, intField(65537).channel().Valid())
	require.Zero(t, intField(-4).id())
	require.Error(t, json.Unmarshal([]byte(`1.5`), &f))
}
