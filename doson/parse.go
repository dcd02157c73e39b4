package doson

import (
	"math"
	"strconv"
	"strings"
	"unicode/utf16"
	"unicode/utf8"

	"go.uber.org/zap"
)

// Parse parses DOSON text into a Value. A b:<base64>: envelope around the
// whole input is unwrapped first. Text after the first complete value is
// ignored.
//
// Parse never fails: any problem yields None. Use ParseStrict for
// diagnostics.
func Parse(text string) Value {
	if inner, ok := unwrapEnvelope(text); ok {
		decoded, err := decodeEnvelope(inner)
		if err != nil {
			Logger().Debug("envelope rejected, parsing empty document", zap.Error(err))
		}
		text = decoded
	}

	p := newParser(text)
	v, ok := p.parseValue()
	if !ok {
		Logger().Debug("parse failed, returning none", zap.Error(p.syntaxError()))
		return None()
	}
	return v
}

// ParseStrict parses DOSON text like Parse but reports failures: an
// undecodable envelope yields an *Error, text that does not match the
// grammar or has trailing content yields a *SyntaxError.
func ParseStrict(text string) (Value, error) {
	if inner, ok := unwrapEnvelope(text); ok {
		decoded, err := decodeEnvelope(inner)
		if err != nil {
			return None(), err
		}
		text = decoded
	}

	p := newParser(text)
	v, ok := p.parseValue()
	if !ok {
		return None(), p.syntaxError()
	}
	if !p.atEnd() {
		return None(), &SyntaxError{
			Expected: []string{"end of input"},
			Found:    p.foundAt(p.pos),
			Pos:      p.position(p.pos),
		}
	}
	return v, nil
}

// ParsePrefix parses one value from the start of text, without envelope
// handling, and returns the unconsumed remainder.
func ParsePrefix(text string) (v Value, rest string, ok bool) {
	p := newParser(text)
	v, ok = p.parseValue()
	if !ok {
		return None(), text, false
	}
	return v, text[p.pos:], true
}

// parser implements the DOSON grammar as ordered choice over alternatives.
type parser struct {
	scanner
}

func newParser(input string) *parser {
	return &parser{scanner: newScanner(input)}
}

// alternative tries one production at the current position. On failure the
// position is unspecified; parseValue restores it.
type alternative func(p *parser) (Value, bool)

// parseValue parses: WS alternative WS
//
// Alternatives are tried in priority order, so a literal that is a valid
// number is always a Number.
func (p *parser) parseValue() (Value, bool) {
	p.skipWhitespace()
	start := p.pos

	alternatives := [...]alternative{
		(*parser).parseNumber,
		(*parser).parseBoolean,
		(*parser).parseString,
		(*parser).parseList,
		(*parser).parseDict,
		(*parser).parseTuple,
		(*parser).parseBinary,
	}
	for _, alt := range alternatives {
		if v, ok := alt(p); ok {
			p.skipWhitespace()
			return v, true
		}
		p.pos = start
	}
	return Value{}, false
}

// parseNumber parses a decimal float literal: sign, integer part, fraction,
// exponent. Either the integer part or the fraction must have digits, and an
// exponent marker must be followed by digits.
func (p *parser) parseNumber() (Value, bool) {
	start := p.pos

	if ch := p.peek(); ch == '+' || ch == '-' {
		p.pos++
	}

	intDigits := p.digits()
	fracDigits := 0
	if p.peek() == '.' {
		p.pos++
		fracDigits = p.digits()
	}
	if intDigits == 0 && fracDigits == 0 {
		return Value{}, p.fail("number")
	}

	if ch := p.peek(); ch == 'e' || ch == 'E' {
		p.pos++
		if ch := p.peek(); ch == '+' || ch == '-' {
			p.pos++
		}
		if p.digits() == 0 {
			return Value{}, p.fail("exponent digits")
		}
	}

	n, err := strconv.ParseFloat(p.input[start:p.pos], 64)
	if err != nil || math.IsInf(n, 0) {
		p.pos = start
		return Value{}, p.fail("finite number")
	}
	return Number(n), true
}

// parseBoolean parses true or false in any letter case.
func (p *parser) parseBoolean() (Value, bool) {
	switch {
	case p.consumeFold("true"):
		return Boolean(true), true
	case p.consumeFold("false"):
		return Boolean(false), true
	default:
		return Value{}, p.fail("boolean")
	}
}

func (p *parser) parseString() (Value, bool) {
	s, ok := p.parseStringLiteral()
	if !ok {
		return Value{}, false
	}
	return String(s), true
}

// parseStringLiteral parses a quoted string and decodes its escapes.
func (p *parser) parseStringLiteral() (string, bool) {
	if !p.consumeByte('"') {
		return "", p.fail("string")
	}

	var sb strings.Builder
	for {
		// Copy the run of plain characters in one step.
		runStart := p.pos
		for p.pos < len(p.input) {
			ch := p.input[p.pos]
			if ch == '"' || ch == '\\' || isASCIIControl(ch) {
				break
			}
			p.pos++
		}
		sb.WriteString(p.input[runStart:p.pos])

		if p.atEnd() {
			return "", p.fail(`closing '"'`)
		}

		switch ch := p.input[p.pos]; {
		case ch == '"':
			p.pos++
			return sb.String(), true
		case ch == '\\':
			p.pos++
			if !p.parseEscape(&sb) {
				return "", false
			}
		default:
			return "", p.fail("printable character")
		}
	}
}

// parseEscape decodes one escape sequence after the backslash.
func (p *parser) parseEscape(sb *strings.Builder) bool {
	if p.atEnd() {
		return p.fail("escape sequence")
	}

	ch := p.input[p.pos]
	switch ch {
	case '"', '\\', '/':
		sb.WriteByte(ch)
	case 'b':
		sb.WriteByte('\b')
	case 'f':
		sb.WriteByte('\f')
	case 'n':
		sb.WriteByte('\n')
	case 'r':
		sb.WriteByte('\r')
	case 't':
		sb.WriteByte('\t')
	case 'u':
		p.pos++
		r, ok := p.parseHex4()
		if !ok {
			return false
		}
		if utf16.IsSurrogate(r) {
			r = p.parseLowSurrogate(r)
		}
		sb.WriteRune(r)
		return true
	default:
		return p.fail("escape sequence")
	}
	p.pos++
	return true
}

// parseHex4 parses the four hex digits of a \u escape.
func (p *parser) parseHex4() (rune, bool) {
	if p.pos+4 > len(p.input) {
		return 0, p.fail("4 hex digits")
	}
	var r rune
	for i := 0; i < 4; i++ {
		ch := p.input[p.pos+i]
		if !isHexDigit(ch) {
			return 0, p.fail("4 hex digits")
		}
		r = r<<4 | hexValue(ch)
	}
	p.pos += 4
	return r, true
}

// parseLowSurrogate combines a high surrogate with a following \uXXXX low
// surrogate. Unpaired surrogates decode to U+FFFD.
func (p *parser) parseLowSurrogate(high rune) rune {
	save := p.pos
	if high < 0xDC00 && p.consume(`\u`) {
		if low, ok := p.parseHex4(); ok {
			if r := utf16.DecodeRune(high, low); r != utf8.RuneError {
				return r
			}
		}
	}
	p.pos = save
	return utf8.RuneError
}

// parseList parses: '[' ( value (',' value)* )? ']'
func (p *parser) parseList() (Value, bool) {
	if !p.consumeByte('[') {
		return Value{}, p.fail("'['")
	}

	p.skipWhitespace()
	if p.consumeByte(']') {
		return List(), true
	}

	var elements []Value
	for {
		elem, ok := p.parseValue()
		if !ok {
			return Value{}, false
		}
		elements = append(elements, elem)

		if p.consumeByte(',') {
			continue
		}
		if p.consumeByte(']') {
			return Value{kind: KindList, listVal: elements}, true
		}
		return Value{}, p.fail("',' or ']'")
	}
}

// parseDict parses: '{' ( string ':' value (',' string ':' value)* )? '}'
// Later duplicate keys overwrite earlier ones.
func (p *parser) parseDict() (Value, bool) {
	if !p.consumeByte('{') {
		return Value{}, p.fail("'{'")
	}

	p.skipWhitespace()
	if p.consumeByte('}') {
		return Dict(nil), true
	}

	entries := make(map[string]Value)
	for {
		p.skipWhitespace()
		key, ok := p.parseStringLiteral()
		if !ok {
			return Value{}, false
		}
		p.skipWhitespace()
		if !p.consumeByte(':') {
			return Value{}, p.fail("':'")
		}

		val, ok := p.parseValue()
		if !ok {
			return Value{}, false
		}
		entries[key] = val

		if p.consumeByte(',') {
			continue
		}
		if p.consumeByte('}') {
			return Value{kind: KindDict, dictVal: entries}, true
		}
		return Value{}, p.fail("',' or '}'")
	}
}

// parseTuple parses: '(' value ',' value ')'
func (p *parser) parseTuple() (Value, bool) {
	if !p.consumeByte('(') {
		return Value{}, p.fail("'('")
	}

	first, ok := p.parseValue()
	if !ok {
		return Value{}, false
	}
	if !p.consumeByte(',') {
		return Value{}, p.fail("','")
	}
	second, ok := p.parseValue()
	if !ok {
		return Value{}, false
	}
	if !p.consumeByte(')') {
		return Value{}, p.fail("')'")
	}
	return Tuple(first, second), true
}

// parseBinary parses: 'binary!(' base64-chars ')'
// A body that is not valid padded base64 yields an empty blob.
func (p *parser) parseBinary() (Value, bool) {
	if !p.consume(binaryOpen) {
		return Value{}, p.fail("'" + binaryOpen + "'")
	}

	start := p.pos
	for p.pos < len(p.input) && isBase64Char(p.input[p.pos]) {
		p.pos++
	}
	body := p.input[start:p.pos]

	if !p.consumeByte(')') {
		return Value{}, p.fail("base64 or ')'")
	}

	blob, ok := decodeBinaryBody(body)
	if !ok {
		Logger().Debug("invalid binary body, using empty blob",
			zap.String("body", preview(body)),
			zap.Int("offset", start))
	}
	return Binary(blob), true
}
