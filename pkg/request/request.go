// Package request reads the single execution request a sandbox process
// receives on its input stream.
package request

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/evalbox/evalbox/pkg/rlimit"
)

// ErrMalformed is wrapped by every error that prevents a complete request
// from being decoded
var ErrMalformed = errors.New("malformed request")

// Language selects the embedded interpreter that runs the code
type Language string

// Supported languages
const (
	JavaScript Language = "javascript"
	Lua        Language = "lua"
)

// ParseLanguage resolves a language name or alias. Empty selects JavaScript.
func ParseLanguage(s string) (Language, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "js", "javascript", "node":
		return JavaScript, nil
	case "lua":
		return Lua, nil
	default:
		return "", fmt.Errorf("unknown language %q", s)
	}
}

// Request is a fully decoded execution request. It is immutable.
type Request struct {
	code         string
	processLimit int64
	memoryLimit  int64
	language     Language
}

// wire is the JSON shape on the input stream; pointers detect missing fields.
// language is advisory, so it is kept raw and never fails the decode.
type wire struct {
	Code     *string         `json:"code"`
	NProc    *int64          `json:"nproc"`
	Memory   *int64          `json:"memory"`
	Language json.RawMessage `json:"language,omitempty"`
}

// New builds a request for a launcher to send
func New(code string, processLimit, memoryLimit int64, lang Language) Request {
	if lang == "" {
		lang = JavaScript
	}
	return Request{
		code:         code,
		processLimit: processLimit,
		memoryLimit:  memoryLimit,
		language:     lang,
	}
}

// Code returns the untrusted program
func (r Request) Code() string { return r.code }

// ProcessLimit returns the requested process-count ceiling
func (r Request) ProcessLimit() int64 { return r.processLimit }

// MemoryLimit returns the requested address-space ceiling in bytes
func (r Request) MemoryLimit() int64 { return r.memoryLimit }

// Language returns the interpreter the code is written for
func (r Request) Language() Language { return r.language }

// RLimits translates the request budget into resource limits
func (r Request) RLimits() rlimit.RLimits {
	return rlimit.RLimits{
		AddressSpace: r.memoryLimit,
		Process:      r.processLimit,
	}
}

func (r Request) String() string {
	return fmt.Sprintf("Request[%s, %d bytes, %v]", r.language, len(r.code), r.RLimits())
}

// MarshalJSON renders the wire form read by Decode
func (r Request) MarshalJSON() ([]byte, error) {
	w := wire{
		Code:   &r.code,
		NProc:  &r.processLimit,
		Memory: &r.memoryLimit,
	}
	if r.language != JavaScript {
		lang, err := json.Marshal(string(r.language))
		if err != nil {
			return nil, err
		}
		w.Language = lang
	}
	return json.Marshal(w)
}

// Read accumulates r until EOF and decodes the whole payload as one request.
// Nothing is decoded before the peer closes the stream.
func Read(r io.Reader) (Request, error) {
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(r); err != nil {
		return Request{}, fmt.Errorf("%w: read input: %v", ErrMalformed, err)
	}
	return Decode(buf.Bytes())
}

// Decode parses exactly one JSON object. Unknown fields are ignored, and so
// is a language that is not a known name.
func Decode(b []byte) (Request, error) {
	if len(bytes.TrimSpace(b)) == 0 {
		return Request{}, fmt.Errorf("%w: empty input", ErrMalformed)
	}
	var w wire
	if err := json.Unmarshal(b, &w); err != nil {
		return Request{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	switch {
	case w.Code == nil:
		return Request{}, fmt.Errorf("%w: missing field %q", ErrMalformed, "code")
	case w.NProc == nil:
		return Request{}, fmt.Errorf("%w: missing field %q", ErrMalformed, "nproc")
	case w.Memory == nil:
		return Request{}, fmt.Errorf("%w: missing field %q", ErrMalformed, "memory")
	}
	return Request{
		code:         *w.Code,
		processLimit: *w.NProc,
		memoryLimit:  *w.Memory,
		language:     languageOf(w.Language),
	}, nil
}

// languageOf selects JavaScript unless raw names a known language
func languageOf(raw json.RawMessage) Language {
	var name string
	if len(raw) == 0 || json.Unmarshal(raw, &name) != nil {
		return JavaScript
	}
	lang, err := ParseLanguage(name)
	if err != nil {
		return JavaScript
	}
	return lang
}
