// Package cp437 decodes text written in the IBM PC code page used by BBS software.
//
// The table differs from golang.org/x/text/encoding/charmap.CodePage437 in the
// control range: bytes 0x01-0x1F decode to their display glyphs (☺, ♥, ...) the way
// a DOS screen shows them, and 0xFF decodes to a plain space.
package cp437

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/transform"
)

var table = [256]rune{
	'\u0000', '☺', '☻', '♥', '♦', '♣', '♠', '•', '◘', '○', '◙', '♂', '♀', '♪', '♫', '☼',
	'►', '◄', '↕', '‼', '¶', '§', '▬', '↨', '↑', '↓', '→', '←', '∟', '↔', '▲', '▼',
	' ', '!', '"', '#', '$', '%', '&', '\'', '(', ')', '*', '+', ',', '-', '.', '/',
	'0', '1', '2', '3', '4', '5', '6', '7', '8', '9', ':', ';', '<', '=', '>', '?',
	'@', 'A', 'B', 'C', 'D', 'E', 'F', 'G', 'H', 'I', 'J', 'K', 'L', 'M', 'N', 'O',
	'P', 'Q', 'R', 'S', 'T', 'U', 'V', 'W', 'X', 'Y', 'Z', '[', '\\', ']', '^', '_',
	'`', 'a', 'b', 'c', 'd', 'e', 'f', 'g', 'h', 'i', 'j', 'k', 'l', 'm', 'n', 'o',
	'p', 'q', 'r', 's', 't', 'u', 'v', 'w', 'x', 'y', 'z', '{', '|', '}', '~', '⌂',
	'Ç', 'ü', 'é', 'â', 'ä', 'à', 'å', 'ç', 'ê', 'ë', 'è', 'ï', 'î', 'ì', 'Ä', 'Å',
	'É', 'æ', 'Æ', 'ô', 'ö', 'ò', 'û', 'ù', 'ÿ', 'Ö', 'Ü', '¢', '£', '¥', '₧', 'ƒ',
	'á', 'í', 'ó', 'ú', 'ñ', 'Ñ', 'ª', 'º', '¿', '⌐', '¬', '½', '¼', '¡', '«', '»',
	'░', '▒', '▓', '│', '┤', '╡', '╢', '╖', '╕', '╣', '║', '╗', '╝', '╜', '╛', '┐',
	'└', '┴', '┬', '├', '─', '┼', '╞', '╟', '╚', '╔', '╩', '╦', '╠', '═', '╬', '╧',
	'╨', '╤', '╥', '╙', '╘', '╒', '╓', '╫', '╪', '┘', '┌', '█', '▄', '▌', '▐', '▀',
	'α', 'ß', 'Γ', 'π', 'Σ', 'σ', 'µ', 'τ', 'Φ', 'Θ', 'Ω', 'δ', '∞', 'φ', 'ε', '∩',
	'≡', '±', '≥', '≤', '⌠', '⌡', '÷', '≈', '°', '∙', '·', '√', 'ⁿ', '²', '■', ' ',
}

// LineBreak is the glyph produced for byte 0xE3, which QWK message bodies use as
// their line separator.
const LineBreak = 'π'

// Rune returns the code point for a single byte.
func Rune(b byte) rune {
	return table[b]
}

// Decode converts a byte slice to a string, one rune per byte.
func Decode(data []byte) string {
	var sb strings.Builder
	sb.Grow(len(data))
	for _, b := range data {
		sb.WriteRune(table[b])
	}
	return sb.String()
}

// Decoder is a transform.Transformer from CP437 bytes to UTF-8.
type Decoder struct {
	transform.NopResetter

	// text keeps bytes below 0x80 as they are, so line endings, tabs and
	// escape sequences in text files survive decoding.
	text bool
}

// NewDecoder returns a Decoder that maps every byte through the glyph table,
// matching Decode.
func NewDecoder() *Decoder {
	return &Decoder{}
}

// NewTextDecoder returns a Decoder for text files: ASCII bytes, including
// control characters, pass through and only the upper half is translated.
func NewTextDecoder() *Decoder {
	return &Decoder{text: true}
}

// Transform implements transform.Transformer.
func (d *Decoder) Transform(dst, src []byte, atEOF bool) (nDst, nSrc int, err error) {
	for nSrc < len(src) {
		b := src[nSrc]
		r := table[b]
		if d.text && b < 0x80 {
			r = rune(b)
		}
		if nDst+utf8.RuneLen(r) > len(dst) {
			return nDst, nSrc, transform.ErrShortDst
		}
		nDst += utf8.EncodeRune(dst[nDst:], r)
		nSrc++
	}
	return nDst, nSrc, nil
}
