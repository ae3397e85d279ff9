// Package charset converts text between a database encoding and a client
// encoding. Characters that cannot be represented in the target encoding are
// dropped; conversion never fails.
package charset

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/unicode"
)

// Transcoder converts text between the database and the client encodings.
// A nil *Transcoder is valid and leaves text unchanged.
type Transcoder struct {
	dbName, clientName string
	db, client         encoding.Encoding
}

// New returns a Transcoder for the given encoding names. It returns nil and
// no error when either name is empty, meaning no transcoding.
func New(dbCharset, clientCharset string) (*Transcoder, error) {
	if dbCharset == "" || clientCharset == "" {
		return nil, nil
	}
	db, err := Lookup(dbCharset)
	if err != nil {
		return nil, err
	}
	client, err := Lookup(clientCharset)
	if err != nil {
		return nil, err
	}
	return &Transcoder{dbName: dbCharset, clientName: clientCharset, db: db, client: client}, nil
}

// Lookup returns the encoding registered under an IANA name or a WHATWG
// label, case-insensitively.
func Lookup(name string) (encoding.Encoding, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	if n == "utf-8" || n == "utf8" {
		return unicode.UTF8, nil
	}
	if enc, err := ianaindex.IANA.Encoding(n); err == nil && enc != nil {
		return enc, nil
	}
	if enc, err := htmlindex.Get(n); err == nil && enc != nil {
		return enc, nil
	}
	return nil, fmt.Errorf("charset: unsupported encoding %q", name)
}

// DBCharset returns the database encoding name.
func (t *Transcoder) DBCharset() string {
	if t == nil {
		return ""
	}
	return t.dbName
}

// Charset returns the client encoding name.
func (t *Transcoder) Charset() string {
	if t == nil {
		return ""
	}
	return t.clientName
}

// ToDB converts client text to the database encoding.
func (t *Transcoder) ToDB(s string) string {
	if t == nil {
		return s
	}
	return convert(s, t.client, t.db)
}

// ToClient converts database text to the client encoding.
func (t *Transcoder) ToClient(s string) string {
	if t == nil {
		return s
	}
	return convert(s, t.db, t.client)
}

// convert decodes s from src and encodes the result into dst, dropping
// undecodable bytes and unencodable runes.
func convert(s string, src, dst encoding.Encoding) string {
	if s == "" {
		return s
	}
	return encode(dst, decode(src, s))
}

// decode returns s as valid UTF-8.
func decode(src encoding.Encoding, s string) string {
	if src == unicode.UTF8 {
		if utf8.ValidString(s) {
			return s
		}
		return strings.ToValidUTF8(s, "")
	}
	out, err := src.NewDecoder().String(s)
	if err != nil {
		return ""
	}
	// Bytes without a mapping decode to U+FFFD.
	return strings.ReplaceAll(out, string(utf8.RuneError), "")
}

// encode encodes UTF-8 text into dst.
func encode(dst encoding.Encoding, s string) string {
	if dst == unicode.UTF8 {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	if cm, ok := dst.(*charmap.Charmap); ok {
		for _, r := range s {
			if c, ok := cm.EncodeRune(r); ok {
				b.WriteByte(c)
			}
		}
		return b.String()
	}
	enc := dst.NewEncoder()
	for _, r := range s {
		out, err := enc.String(string(r))
		if err != nil {
			continue
		}
		b.WriteString(out)
	}
	return b.String()
}
