package tokenize

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// abbreviations lists lowercase English abbreviations, with their
// trailing dot, that never end a sentence.
var abbreviations = map[string]bool{
	"mr.": true, "mrs.": true, "ms.": true, "dr.": true, "prof.": true,
	"sr.": true, "jr.": true, "st.": true, "mt.": true, "rev.": true,
	"gen.": true, "col.": true, "capt.": true, "lt.": true, "sgt.": true,
	"vs.": true, "etc.": true, "e.g.": true, "i.e.": true, "cf.": true,
	"al.": true, "approx.": true, "dept.": true, "est.": true, "fig.": true,
	"inc.": true, "ltd.": true, "co.": true, "corp.": true, "no.": true,
	"vol.": true, "u.s.": true, "u.k.": true, "a.m.": true, "p.m.": true,
	"jan.": true, "feb.": true, "mar.": true, "apr.": true, "jun.": true,
	"jul.": true, "aug.": true, "sep.": true, "sept.": true, "oct.": true,
	"nov.": true, "dec.": true,
}

// Sentences splits text into trimmed, non-empty sentences. A break
// happens after a run of terminal punctuation (or an ellipsis) that is
// followed by whitespace and a sentence opener, and always at a blank
// line. Known abbreviations suppress the break.
func Sentences(text string) []string {
	out := []string{}
	emit := func(s string) {
		s = strings.TrimSpace(s)
		if s != "" {
			out = append(out, s)
		}
	}

	start := 0
	i := 0
	for i < len(text) {
		r, size := utf8.DecodeRuneInString(text[i:])

		if r == '\n' && blankLineAt(text, i+size) {
			j := i + size
			for j < len(text) {
				nr, ns := utf8.DecodeRuneInString(text[j:])
				if !unicode.IsSpace(nr) {
					break
				}
				j += ns
			}
			emit(text[start:j])
			start = j
			i = j
			continue
		}

		if r == '.' || r == '?' || r == '!' || r == '…' {
			if r == '.' && !strings.HasPrefix(text[i:], "..") && isAbbreviation(text, i) {
				i += size
				continue
			}
			j := i + size
			for j < len(text) {
				nr, ns := utf8.DecodeRuneInString(text[j:])
				if nr != '.' && nr != '?' && nr != '!' && nr != '…' {
					break
				}
				j += ns
			}
			// closing quotes and brackets stay with the sentence they end
			for j < len(text) {
				nr, ns := utf8.DecodeRuneInString(text[j:])
				if !isCloser(nr) {
					break
				}
				j += ns
			}
			if followedByOpener(text, j) {
				emit(text[start:j])
				start = j
			}
			i = j
			continue
		}

		i += size
	}
	if start < len(text) {
		emit(text[start:])
	}
	return out
}

// blankLineAt reports whether only horizontal whitespace separates pos
// from the next newline.
func blankLineAt(s string, pos int) bool {
	for i := pos; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		if r == '\n' {
			return true
		}
		if !unicode.IsSpace(r) {
			return false
		}
		i += size
	}
	return false
}

func followedByOpener(s string, pos int) bool {
	i := pos
	foundSpace := false
	for i < len(s) {
		r, size := utf8.DecodeRuneInString(s[i:])
		if unicode.IsSpace(r) {
			foundSpace = true
			i += size
			continue
		}
		return foundSpace && (unicode.IsUpper(r) || unicode.IsDigit(r) || isOpener(r))
	}
	return false
}

func isOpener(r rune) bool {
	switch r {
	case '"', '\'', '(', '[', '“', '‘':
		return true
	}
	return false
}

func isCloser(r rune) bool {
	switch r {
	case '"', '\'', ')', ']', '”', '’':
		return true
	}
	return false
}

// isAbbreviation checks the letters-and-dots token ending at dotPos.
func isAbbreviation(s string, dotPos int) bool {
	i := dotPos
	for i > 0 {
		r, size := utf8.DecodeLastRuneInString(s[:i])
		if !unicode.IsLetter(r) && r != '.' {
			break
		}
		i -= size
	}
	if i == dotPos {
		return false
	}
	word := strings.ToLower(s[i:dotPos]) + "."
	if abbreviations[word] {
		return true
	}
	// single capital initials such as "J. R. R. Tolkien"
	if utf8.RuneCountInString(s[i:dotPos]) == 1 {
		r, _ := utf8.DecodeRuneInString(s[i:dotPos])
		return unicode.IsUpper(r)
	}
	return false
}
