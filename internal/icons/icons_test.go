package icons

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInit(t *testing.T) {
	t.Cleanup(func() { Init("none") })

	tests := []struct {
		style string
		want  Icons
	}{
		{"nerd", nerdIcons},
		{"unicode", unicodeIcons},
		{"none", noneIcons},
		{"bogus", noneIcons},
		{"", noneIcons},
	}
	for _, tt := range tests {
		t.Run(tt.style, func(t *testing.T) {
			Init(tt.style)
			assert.Equal(t, tt.want, Current())
		})
	}
}

func TestFormat_NoneStyleIsPlain(t *testing.T) {
	Init("none")

	assert.Equal(t, "FIP", FormatStation("FIP"))
	assert.Equal(t, "So What", FormatTrack("So What"))
}

func TestFormat_UnicodePrefixes(t *testing.T) {
	t.Cleanup(func() { Init("none") })
	Init("unicode")

	assert.Equal(t, "📻 FIP", FormatStation("FIP"))
	assert.Equal(t, "🎵 So What", FormatTrack("So What"))
}

func TestSignalIcon(t *testing.T) {
	Init("none")

	assert.Equal(t, "ok", SignalIcon(0))
	assert.Equal(t, "weak", SignalIcon(1))
	assert.Equal(t, "err", SignalIcon(2))
	assert.Empty(t, SignalIcon(-1))
	assert.Empty(t, SignalIcon(3))
}

func TestAllStylesHaveControls(t *testing.T) {
	for _, set := range []Icons{nerdIcons, unicodeIcons, noneIcons} {
		assert.NotEmpty(t, set.Play)
		assert.NotEmpty(t, set.Pause)
		assert.NotEmpty(t, set.Stop)
		assert.NotEmpty(t, set.Shuffle)
		for _, s := range set.Signal {
			assert.NotEmpty(t, s)
		}
	}
}
