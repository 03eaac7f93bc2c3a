package pokedex

import (
	"strconv"
	"strings"
)

// Default asset URL templates. "{index}" is replaced by the 1-based index.
const (
	DefaultIconURL   = "icons/{index}.png"
	DefaultSpriteURL = "sprites/{index}.png"
)

const indexPlaceholder = "{index}"

// AssetURL expands tmpl for p.
func AssetURL(tmpl string, p Pokemon) string {
	return strings.ReplaceAll(tmpl, indexPlaceholder, strconv.Itoa(p.Index))
}
