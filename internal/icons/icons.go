// Package icons maps technology names to Simple Icons urls.
package icons

import (
	"errors"
	"fmt"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
)

const baseURL = "https://cdn.jsdelivr.net/npm/simple-icons@v9/icons/"

type entry struct {
	name string
	slug string
}

// Order matters for the substring fallback, first hit wins.
var entries = []entry{
	{"javascript", "javascript"},
	{"js", "javascript"},
	{"typescript", "typescript"},
	{"ts", "typescript"},

	{"react", "react"},
	{"vue", "vuedotjs"},
	{"vue.js", "vuedotjs"},
	{"angular", "angular"},
	{"svelte", "svelte"},

	{"next.js", "nextdotjs"},
	{"nextjs", "nextdotjs"},
	{"nuxt", "nuxtdotjs"},
	{"nuxt.js", "nuxtdotjs"},
	{"astro", "astro"},
	{"remix", "remix"},
	{"gatsby", "gatsby"},

	{"tailwind", "tailwindcss"},
	{"tailwindcss", "tailwindcss"},
	{"bootstrap", "bootstrap"},
	{"sass", "sass"},
	{"scss", "sass"},
	{"css3", "css3"},
	{"css", "css3"},
	{"html5", "html5"},
	{"html", "html5"},

	{"gsap", "greensock"},
	{"framer", "framer"},
	{"framer-motion", "framer"},
	{"lenis", "lenis"},

	{"three.js", "threedotjs"},
	{"threejs", "threedotjs"},
	{"blender", "blender"},

	{"node.js", "nodedotjs"},
	{"nodejs", "nodedotjs"},
	{"node", "nodedotjs"},
	{"express", "express"},
	{"python", "python"},
	{"php", "php"},
	{"golang", "go"},
	{"rust", "rust"},
	{"kotlin", "kotlin"},
	{"postgresql", "postgresql"},
	{"mysql", "mysql"},
	{"mongodb", "mongodb"},
	{"firebase", "firebase"},
	{"supabase", "supabase"},

	{"vercel", "vercel"},
	{"netlify", "netlify"},
	{"aws", "amazonaws"},
	{"docker", "docker"},

	{"git", "git"},
	{"github", "github"},
	{"gitlab", "gitlab"},
	{"figma", "figma"},
	{"adobe", "adobe"},
	{"photoshop", "adobephotoshop"},
	{"illustrator", "adobeillustrator"},
	{"xd", "adobexd"},

	{"webpack", "webpack"},
	{"vite", "vite"},
	{"npm", "npm"},
	{"yarn", "yarn"},
	{"redux", "redux"},
	{"zustand", "zustand"},
	{"prisma", "prisma"},
	{"graphql", "graphql"},
	{"rest", "rest"},
	{"jest", "jest"},
	{"cypress", "cypress"},
}

// Names too short for substring matching. Only exact and normalized lookups use them.
var exactOnly = map[string]string{
	"go": "go",
}

// Lookup resolves icon urls. Results are memoized.
// It's safe for concurrent use.
type Lookup struct {
	byName map[string]string
	cache  *lru.Cache[string, string]
}

// NewLookup creates new Lookup instance. cacheSize limits number of memoized names.
func NewLookup(cacheSize int) (*Lookup, error) {
	if cacheSize <= 0 {
		return nil, errors.New("cache size must be greater than 0")
	}
	cache, err := lru.New[string, string](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("creating lru cache: %w", err)
	}

	byName := make(map[string]string, len(entries)+len(exactOnly))
	for _, e := range entries {
		byName[e.name] = baseURL + e.slug + ".svg"
	}
	for name, slug := range exactOnly {
		byName[name] = baseURL + slug + ".svg"
	}

	return &Lookup{
		byName: byName,
		cache:  cache,
	}, nil
}

// Icon returns icon url for given technology name, or empty string if there's none.
//
// Name is tried as is (lowercased), then normalized to ascii letters and digits,
// then matched as a substring of a known name or the other way round.
func (l *Lookup) Icon(tech string) string {
	if tech == "" {
		return ""
	}
	if icon, ok := l.cache.Get(tech); ok {
		return icon
	}

	icon := l.resolve(tech)
	l.cache.Add(tech, icon)

	return icon
}

func (l *Lookup) resolve(tech string) string {
	if icon, ok := l.byName[strings.ToLower(tech)]; ok {
		return icon
	}

	normalized := normalize(tech)
	if normalized == "" {
		return ""
	}
	if icon, ok := l.byName[normalized]; ok {
		return icon
	}

	for _, e := range entries {
		if strings.Contains(e.name, normalized) || strings.Contains(normalized, e.name) {
			return baseURL + e.slug + ".svg"
		}
	}

	return ""
}

func normalize(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}
