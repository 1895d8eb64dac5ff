package reviews

import "strings"

// Block-list applied to review comments before they are persisted. Matching
// is case-insensitive and includes partial tokens; every hit is replaced by
// an equal-length run of mask characters, so masking is idempotent.
var blockList = []string{
	"damn",
	"hell",
	"crap",
	"bastard",
	"bloody",
	"idiot",
	"stupid",
	"scam",
	"fraud",
}

const maskRune = '*'

// MaskBadWords returns the comment with every block-list occurrence masked.
func MaskBadWords(comment string) string {
	if comment == "" {
		return comment
	}

	// Byte offsets are safe here: the block-list is ASCII, so matching is
	// done against an ASCII-lowercased copy with identical byte layout.
	masked := []byte(comment)
	lower := asciiLower(comment)

	for _, word := range blockList {
		from := 0
		for {
			idx := strings.Index(lower[from:], word)
			if idx < 0 {
				break
			}
			start := from + idx
			for i := start; i < start+len(word); i++ {
				masked[i] = maskRune
			}
			from = start + len(word)
		}
	}
	return string(masked)
}

func asciiLower(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + ('a' - 'A')
		}
	}
	return string(b)
}
