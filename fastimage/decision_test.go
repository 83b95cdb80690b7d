package fastimage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The full failed x local x fallback table. A failure always wins, and what
// it paints depends only on whether a fallback is configured.
func TestDecideTable(t *testing.T) {
	remote := Remote(uriA)
	local := Local(Asset{Name: "icon", Data: []byte{1}})
	fallback := Asset{Name: "fallback", Data: []byte{2}}

	cases := []struct {
		name     string
		src      Source
		failed   bool
		fallback Asset
		want     Visual
	}{
		{"ok remote no fallback", remote, false, Asset{}, VisualRemote{Request: Request{URI: uriA}}},
		{"ok remote with fallback", remote, false, fallback, VisualRemote{Request: Request{URI: uriA}}},
		{"ok local no fallback", local, false, Asset{}, VisualLocal{Asset: Asset{Name: "icon", Data: []byte{1}}}},
		{"ok local with fallback", local, false, fallback, VisualLocal{Asset: Asset{Name: "icon", Data: []byte{1}}}},
		{"failed remote no fallback", remote, true, Asset{}, VisualPlaceholder{}},
		{"failed remote with fallback", remote, true, fallback, VisualFallback{Asset: fallback}},
		{"failed local no fallback", local, true, Asset{}, VisualPlaceholder{}},
		{"failed local with fallback", local, true, fallback, VisualFallback{Asset: fallback}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Decide(tc.src, tc.failed, tc.fallback))
		})
	}
}

func TestDecideInvalidSource(t *testing.T) {
	assert.Nil(t, Decide(Source{}, false, Asset{}))
	assert.Nil(t, Decide(Remote(""), false, Asset{}))
}

func TestDecideRemoteCarriesRequest(t *testing.T) {
	src := Remote(uriA, WithHeader("X-Trace", "42"), WithSkipMemoryCache())

	visual := Decide(src, false, Asset{})
	remote, ok := visual.(VisualRemote)
	require.True(t, ok)
	assert.Equal(t, "42", remote.Request.Headers["X-Trace"])
	assert.True(t, remote.Request.SkipMemoryCache)
}

func TestPlaceholderAssetIsUsable(t *testing.T) {
	ph := Placeholder()
	assert.False(t, ph.isZero())
	assert.NotEmpty(t, ph.Data, "built-in placeholder ships with the binary")
	assert.Equal(t, "asset:builtin/placeholder", ph.Key())
}
