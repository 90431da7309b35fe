package shadow

import "github.com/Faultbox/midgard-csm/internal/engine/command"

// Shader keywords selecting the PCF kernel. PCF2x2 enables none.
var directionalFilterKeywords = []string{
	"_DIRECTIONAL_PCF3",
	"_DIRECTIONAL_PCF5",
	"_DIRECTIONAL_PCF7",
}

// Shader keywords selecting cascade blending. BlendHard enables none.
var cascadeBlendKeywords = []string{
	"_CASCADE_BLEND_SOFT",
	"_CASCADE_BLEND_DITHER",
}

// FilterKeywords returns the filter keyword set in mode order.
func FilterKeywords() []string {
	return append([]string(nil), directionalFilterKeywords...)
}

// BlendKeywords returns the cascade blend keyword set in mode order.
func BlendKeywords() []string {
	return append([]string(nil), cascadeBlendKeywords...)
}

// EnabledKeywords returns the keywords a settings combination turns on.
func EnabledKeywords(filter FilterMode, blend CascadeBlendMode) []string {
	var out []string
	if i := int(filter) - 1; i >= 0 && i < len(directionalFilterKeywords) {
		out = append(out, directionalFilterKeywords[i])
	}
	if i := int(blend) - 1; i >= 0 && i < len(cascadeBlendKeywords) {
		out = append(out, cascadeBlendKeywords[i])
	}
	return out
}

// setKeywords enables keywords[enabled] and disables every other keyword of
// the set. An out-of-range index disables the whole set.
func setKeywords(b *command.Buffer, keywords []string, enabled int) {
	for i, k := range keywords {
		if i == enabled {
			b.EnableShaderKeyword(k)
		} else {
			b.DisableShaderKeyword(k)
		}
	}
}
