package bot

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/poiesic/mingle/core"
)

func TestFormatCard_EscapesHTML(t *testing.T) {
	p := &core.Profile{
		Id:     1,
		Name:   "Alice <script>",
		Branch: "R&D",
		Role:   "Designer",
		About:  "Loves <b>bold</b> statements",
	}

	card := formatCard(p)
	assert.Contains(t, card, "Alice &lt;script&gt;")
	assert.Contains(t, card, "R&amp;D")
	assert.Contains(t, card, "Loves &lt;b&gt;bold&lt;/b&gt; statements")
	assert.NotContains(t, card, "<script>")
}

func TestMention_LinksToUser(t *testing.T) {
	p := &core.Profile{Id: 99, Name: "Bob"}

	m := mention(p)
	assert.Contains(t, m, `tg://user?id=99`)
	assert.Contains(t, m, ">Bob<")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 50))
	assert.Equal(t, "abcde...", truncate("abcdefgh", 5))
	// Rune-safe, not byte-safe.
	assert.Equal(t, "привет...", truncate("привет мир", 6))
}

func TestFormatViewedList_TruncatesAbout(t *testing.T) {
	long := make([]rune, 80)
	for i := range long {
		long[i] = 'a'
	}
	profiles := []*core.Profile{
		{Id: 1, Name: "Alice", Branch: "Berlin", Role: "Designer", About: string(long)},
	}

	out := formatViewedList(profiles)
	assert.Contains(t, out, "(1)")
	assert.Contains(t, out, "Alice")
	assert.Contains(t, out, "...")
	assert.NotContains(t, out, string(long))
}
