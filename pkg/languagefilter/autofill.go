package languagefilter

import "strings"

// preBaseVowelSigns lists vowel signs of Brahmic scripts that render before
// the consonant they follow, e.g. ക + െ is drawn as കെ.
const preBaseVowelSigns = "െേൈൊോൌெேைொோௌେୈୋୌિਿिিেৈোৌෙේෛොෝෞ"

// IsVisualPrefix reports whether prefix still looks like the start of s once
// rendered: the character right after prefix must not be a pre-base vowel sign.
func IsVisualPrefix(prefix, s string) bool {
	runes := []rune(s)
	n := len([]rune(prefix))
	if n >= len(runes) {
		return true
	}
	return !strings.ContainsRune(preBaseVowelSigns, runes[n])
}

// Autofill returns the completion to show for input when code is the top
// result. label, if set, replaces the display name (remote searches supply
// their own). Only name and autonym matches complete; code and script
// matches give "".
func (f *Filter) Autofill(input, code, label string) string {
	if input == "" {
		return ""
	}
	if label == "" {
		label, _ = f.langs.Name(code)
	}
	if label == "" {
		return ""
	}

	suggestion := extend(input, label)
	if !strings.EqualFold(suggestion, label) {
		autonym := f.data.Autonym(code)
		suggestion = extend(input, autonym)
		if autonym == "" || !strings.EqualFold(suggestion, autonym) {
			suggestion = ""
		}
	}

	if !IsVisualPrefix(input, suggestion) {
		return ""
	}
	return suggestion
}

// extend keeps what the user typed and appends the rest of full beyond it.
func extend(input, full string) string {
	in := []rune(input)
	rest := []rune(full)
	if len(rest) <= len(in) {
		return input
	}
	return input + string(rest[len(in):])
}
