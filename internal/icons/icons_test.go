package icons

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookupIcon(t *testing.T) {
	t.Parallel()

	l, err := NewLookup(16)
	require.NoError(t, err)

	tests := []struct {
		tech string
		want string
	}{
		{tech: "React", want: baseURL + "react.svg"},
		{tech: "Vue.js", want: baseURL + "vuedotjs.svg"},
		{tech: "Next.JS", want: baseURL + "nextdotjs.svg"},
		{tech: " Three JS ", want: baseURL + "threedotjs.svg"},
		{tech: "Framer Motion", want: baseURL + "framer.svg"},
		{tech: "TailwindCSS v3", want: baseURL + "tailwindcss.svg"},
		{tech: "Go", want: baseURL + "go.svg"},
		{tech: "Django", want: ""},
		{tech: "Elixir", want: ""},
		{tech: "Swift", want: ""},
		{tech: "++", want: ""},
		{tech: "", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.tech, func(t *testing.T) {
			assert.Equal(t, tt.want, l.Icon(tt.tech))
			// Memoized result is the same.
			assert.Equal(t, tt.want, l.Icon(tt.tech))
		})
	}
}

func TestNewLookupInvalidSize(t *testing.T) {
	t.Parallel()

	_, err := NewLookup(0)
	assert.Error(t, err)
}

func TestNormalize(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "nextjs", normalize(" Next.js "))
	assert.Equal(t, "framermotion", normalize("framer-motion"))
	assert.Equal(t, "", normalize("#!"))
}
