// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package jsonv

import (
	"fmt"
	"strconv"
)

// parser is a recursive-descent JSON parser over an in-memory byte slice.
type parser struct {
	data []byte
	pos  int
}

func (p *parser) skipSpace() {
	for p.pos < len(p.data) {
		switch p.data[p.pos] {
		case ' ', '\t', '\n', '\r':
			p.pos++
		default:
			return
		}
	}
}

func (p *parser) peek() (byte, bool) {
	if p.pos >= len(p.data) {
		return 0, false
	}
	return p.data[p.pos], true
}

func (p *parser) parseValue() (*Value, error) {
	p.skipSpace()
	c, ok := p.peek()
	if !ok {
		return nil, fmt.Errorf("jsonv: unexpected end of input")
	}
	switch {
	case c == '{':
		return p.parseObject()
	case c == '[':
		return p.parseArray()
	case c == '"':
		s, err := p.parseStringLiteral()
		if err != nil {
			return nil, err
		}
		return &Value{Kind: String, Str: s}, nil
	case c == 't':
		return p.parseLiteral("true", &Value{Kind: Bool, Bool: true})
	case c == 'f':
		return p.parseLiteral("false", &Value{Kind: Bool, Bool: false})
	case c == 'n':
		return p.parseLiteral("null", &Value{Kind: Null})
	case c == '-' || (c >= '0' && c <= '9'):
		return p.parseNumber()
	default:
		return nil, fmt.Errorf("jsonv: unexpected character %q at offset %d", c, p.pos)
	}
}

func (p *parser) parseLiteral(lit string, v *Value) (*Value, error) {
	if p.pos+len(lit) > len(p.data) || string(p.data[p.pos:p.pos+len(lit)]) != lit {
		return nil, fmt.Errorf("jsonv: invalid literal at offset %d", p.pos)
	}
	p.pos += len(lit)
	return v, nil
}

func (p *parser) parseNumber() (*Value, error) {
	start := p.pos
	if b, ok := p.peek(); ok && b == '-' {
		p.pos++
	}
	for p.pos < len(p.data) {
		b := p.data[p.pos]
		if (b >= '0' && b <= '9') || b == '.' || b == 'e' || b == 'E' || b == '+' || b == '-' {
			p.pos++
			continue
		}
		break
	}
	n, err := strconv.ParseFloat(string(p.data[start:p.pos]), 64)
	if err != nil {
		return nil, fmt.Errorf("jsonv: bad number at offset %d: %w", start, err)
	}
	return &Value{Kind: Number, Num: n}, nil
}

func (p *parser) parseStringLiteral() (string, error) {
	if b, ok := p.peek(); !ok || b != '"' {
		return "", fmt.Errorf("jsonv: expected '\"' at offset %d", p.pos)
	}
	p.pos++
	var out []byte
	for {
		if p.pos >= len(p.data) {
			return "", fmt.Errorf("jsonv: unterminated string")
		}
		c := p.data[p.pos]
		switch c {
		case '"':
			p.pos++
			return string(out), nil
		case '\\':
			p.pos++
			if p.pos >= len(p.data) {
				return "", fmt.Errorf("jsonv: unterminated escape")
			}
			esc := p.data[p.pos]
			switch esc {
			case '"', '\\', '/':
				out = append(out, esc)
			case 'n':
				out = append(out, '\n')
			case 't':
				out = append(out, '\t')
			case 'r':
				out = append(out, '\r')
			case 'b':
				out = append(out, '\b')
			case 'f':
				out = append(out, '\f')
			case 'u':
				if p.pos+4 >= len(p.data) {
					return "", fmt.Errorf("jsonv: bad unicode escape")
				}
				n, err := strconv.ParseUint(string(p.data[p.pos+1:p.pos+5]), 16, 32)
				if err != nil {
					return "", fmt.Errorf("jsonv: bad unicode escape: %w", err)
				}
				out = append(out, []byte(string(rune(n)))...)
				p.pos += 4
			default:
				out = append(out, esc)
			}
			p.pos++
		default:
			out = append(out, c)
			p.pos++
		}
	}
}

func (p *parser) parseArray() (*Value, error) {
	p.pos++ // consume '['
	v := &Value{Kind: Array}
	p.skipSpace()
	if b, ok := p.peek(); ok && b == ']' {
		p.pos++
		return v, nil
	}
	for {
		elem, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		v.Arr = append(v.Arr, elem)
		p.skipSpace()
		b, ok := p.peek()
		if !ok {
			return nil, fmt.Errorf("jsonv: unterminated array")
		}
		if b == ',' {
			p.pos++
			p.skipSpace()
			continue
		}
		if b == ']' {
			p.pos++
			return v, nil
		}
		return nil, fmt.Errorf("jsonv: expected ',' or ']' at offset %d", p.pos)
	}
}

func (p *parser) parseObject() (*Value, error) {
	p.pos++ // consume '{'
	v := &Value{Kind: Object}
	p.skipSpace()
	if b, ok := p.peek(); ok && b == '}' {
		p.pos++
		return v, nil
	}
	for {
		p.skipSpace()
		key, err := p.parseStringLiteral()
		if err != nil {
			return nil, err
		}
		p.skipSpace()
		if b, ok := p.peek(); !ok || b != ':' {
			return nil, fmt.Errorf("jsonv: expected ':' at offset %d", p.pos)
		}
		p.pos++
		val, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		v.Obj = append(v.Obj, Member{Key: key, Val: val})
		p.skipSpace()
		b, ok := p.peek()
		if !ok {
			return nil, fmt.Errorf("jsonv: unterminated object")
		}
		if b == ',' {
			p.pos++
			continue
		}
		if b == '}' {
			p.pos++
			return v, nil
		}
		return nil, fmt.Errorf("jsonv: expected ',' or '}' at offset %d", p.pos)
	}
}
