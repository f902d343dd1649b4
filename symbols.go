package morse

import "sort"

// WordSeparator is the token standing for a space between words.
const WordSeparator = "/"

var morseTable = map[rune]string{
	'a': ".-", 'b': "-...", 'c': "-.-.", 'd': "-..", 'e': ".",
	'f': "..-.", 'g': "--.", 'h': "....", 'i': "..", 'j': ".---",
	'k': "-.-", 'l': ".-..", 'm': "--", 'n': "-.", 'o': "---",
	'p': ".--.", 'q': "--.-", 'r': ".-.", 's': "...", 't': "-",
	'u': "..-", 'v': "...-", 'w': ".--", 'x': "-..-", 'y': "-.--",
	'z': "--..",
	'0': "-----", '1': ".----", '2': "..---", '3': "...--", '4': "....-",
	'5': ".....", '6': "-....", '7': "--...", '8': "---..", '9': "----.",
	'.': ".-.-.-", ',': "--..--", '?': "..--..", '\'': ".----.",
	'!': "-.-.--", '/': "-..-.", '(': "-.--.", ')': "-.--.-",
	'&': ".-...", ':': "---...", ';': "-.-.-.", '=': "-...-",
	'+': ".-.-.", '-': "-....-", '_': "..--.-", '"': ".-..-.",
	'$': "...-..-", '@': ".--.-.",
	' ': WordSeparator,
}

// morseMap is the inverse of morseTable.
var morseMap map[string]rune

func init() {
	morseMap = make(map[string]rune, len(morseTable))
	for r, pattern := range morseTable {
		morseMap[pattern] = r
	}
}

// Pattern returns the Morse pattern for a lowercase character.
func Pattern(r rune) (string, bool) {
	p, ok := morseTable[r]
	return p, ok
}

// Char returns the character encoded by pattern.
func Char(pattern string) (rune, bool) {
	r, ok := morseMap[pattern]
	return r, ok
}

// Charset lists every supported character in ascending order.
func Charset() []rune {
	out := make([]rune, 0, len(morseTable))
	for r := range morseTable {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
