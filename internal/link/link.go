// Package link parses action strings embedded in contract-rendered markup.
//
// An action string carries one of three custom protocols:
//
//	render:[@alias:|<56-char-id>:](/path | name/path | )
//	tx:[@alias:|<56-char-id>:]method [{"json":"args"}] [.send=<digits>]
//	form:[@alias:|<56-char-id>:]method
//
// Anything else is a standard URL and is left for default navigation.
// Parsing is total: malformed input degrades to a standard link or to
// partial fields, never to an error.
package link

import (
	"bytes"
	"encoding/json"
	"io"
	"regexp"
	"strings"

	"renderview/internal/logging"
	"renderview/internal/stellar"

	"go.uber.org/zap"
)

// Protocol classifies an action string.
type Protocol string

const (
	ProtocolRender   Protocol = "render"
	ProtocolTx       Protocol = "tx"
	ProtocolForm     Protocol = "form"
	ProtocolStandard Protocol = "standard"
)

// Target identifies the contract an action addresses. At most one of
// Alias and ContractID is set; both empty means the current contract.
type Target struct {
	Alias      string
	ContractID string
}

// IsSet reports whether the action named an explicit contract.
func (t Target) IsSet() bool { return t.Alias != "" || t.ContractID != "" }

// Ref returns the form the target had in the source string, for URL
// round-tripping: "@alias" for aliases, the bare ID otherwise.
func (t Target) Ref() string {
	if t.Alias != "" {
		return "@" + t.Alias
	}
	return t.ContractID
}

// Render describes a render: navigation.
type Render struct {
	Target
	// Path is the render path, "" when the action named none.
	Path string
	// FunctionName is a named render entry point distinct from the path
	// ("render:settings/x" -> FunctionName "settings", Path "/x").
	FunctionName string
}

// Tx describes a tx: invocation.
type Tx struct {
	Target
	Method     string
	Args       stellar.Args
	SendAmount string // digits from a trailing .send= suffix, "" when absent
	// UserSettableParams lists, in encounter order, the argument names
	// whose payload value was exactly "". Nil when none need prompting.
	UserSettableParams []string
}

// Form describes a form: submission. Field values come from the live
// form at dispatch time, so only the method travels in the link.
type Form struct {
	Target
	Method string
}

// Link is the parsed form of one action string. Exactly one of the
// protocol-specific fields is non-nil for the custom protocols; all
// three are nil for ProtocolStandard.
type Link struct {
	Protocol Protocol
	Href     string
	Render   *Render
	Tx       *Tx
	Form     *Form
}

var (
	aliasPrefix = regexp.MustCompile(`^@([A-Za-z0-9_-]+):`)
	sendSuffix  = regexp.MustCompile(`\s+\.send=(\d+)\s*$`)
)

// stripTarget removes a leading "@alias:" or "<contract-id>:" prefix.
func stripTarget(s string) (Target, string) {
	if m := aliasPrefix.FindStringSubmatch(s); m != nil {
		return Target{Alias: m[1]}, s[len(m[0]):]
	}
	if idx := strings.IndexByte(s, ':'); idx == stellar.ContractIDLength && stellar.IsContractID(s[:idx]) {
		return Target{ContractID: s[:idx]}, s[idx+1:]
	}
	return Target{}, s
}

// Parse classifies and decodes one action string. It never fails:
// unrecognized prefixes come back as ProtocolStandard.
func Parse(raw string) *Link {
	switch {
	case strings.HasPrefix(raw, "render:"):
		return &Link{Protocol: ProtocolRender, Href: raw, Render: parseRender(raw[len("render:"):])}
	case strings.HasPrefix(raw, "tx:"):
		return &Link{Protocol: ProtocolTx, Href: raw, Tx: parseTx(raw[len("tx:"):])}
	case strings.HasPrefix(raw, "form:"):
		return &Link{Protocol: ProtocolForm, Href: raw, Form: parseForm(raw[len("form:"):])}
	default:
		return &Link{Protocol: ProtocolStandard, Href: raw}
	}
}

func parseRender(rest string) *Render {
	target, r := stripTarget(rest)
	out := &Render{Target: target}

	if target.IsSet() {
		// Cross-contract navigation always lands on a path.
		if r == "" {
			out.Path = "/"
		} else {
			out.Path = r
		}
		return out
	}

	switch {
	case r == "":
		// Bare "render:" re-renders the current document; no path.
	case r[0] == '/' || r[0] == '?':
		out.Path = r
	default:
		// Leading segment names a render function; the rest is its path.
		if idx := strings.IndexAny(r, "/?"); idx >= 0 {
			out.FunctionName = r[:idx]
			out.Path = r[idx:]
		} else {
			out.FunctionName = r
		}
	}
	return out
}

func parseTx(rest string) *Tx {
	target, r := stripTarget(strings.TrimSpace(rest))
	out := &Tx{Target: target}

	if m := sendSuffix.FindStringSubmatchIndex(r); m != nil {
		out.SendAmount = r[m[2]:m[3]]
		r = r[:m[0]]
	}

	if idx := strings.IndexByte(r, ' '); idx >= 0 {
		out.Method = strings.TrimSpace(r[:idx])
		payload := strings.TrimSpace(r[idx+1:])
		if payload != "" {
			out.Args, out.UserSettableParams = decodeArgs(payload)
		}
	} else {
		out.Method = strings.TrimSpace(r)
	}
	if out.Args == nil {
		out.Args = stellar.Args{}
	}
	return out
}

func parseForm(rest string) *Form {
	target, r := stripTarget(strings.TrimSpace(rest))
	return &Form{Target: target, Method: strings.TrimSpace(r)}
}

// decodeArgs parses a JSON object payload preserving key encounter
// order, which a plain map unmarshal would destroy. Values that are
// exactly the empty string are collected as user-settable parameters.
// Malformed payloads yield empty args rather than a failed parse.
func decodeArgs(payload string) (stellar.Args, []string) {
	dec := json.NewDecoder(bytes.NewReader([]byte(payload)))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		logging.L(logging.CategoryLink).Warn("malformed tx args payload, ignoring",
			zap.String("payload", payload), zap.Error(err))
		return stellar.Args{}, nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		logging.L(logging.CategoryLink).Warn("tx args payload is not a JSON object, ignoring",
			zap.String("payload", payload))
		return stellar.Args{}, nil
	}

	args := stellar.Args{}
	var settable []string
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			logging.L(logging.CategoryLink).Warn("malformed tx args payload, ignoring",
				zap.String("payload", payload), zap.Error(err))
			return stellar.Args{}, nil
		}
		key, _ := keyTok.(string)

		var value any
		if err := dec.Decode(&value); err != nil {
			logging.L(logging.CategoryLink).Warn("malformed tx args payload, ignoring",
				zap.String("payload", payload), zap.Error(err))
			return stellar.Args{}, nil
		}
		value = normalizeNumbers(value)
		args = append(args, stellar.Arg{Name: key, Value: value})
		if s, ok := value.(string); ok && s == "" {
			settable = append(settable, key)
		}
	}
	// Consume the closing brace and require EOF; trailing garbage
	// invalidates the whole payload.
	if _, err := dec.Token(); err != nil {
		logging.L(logging.CategoryLink).Warn("malformed tx args payload, ignoring",
			zap.String("payload", payload), zap.Error(err))
		return stellar.Args{}, nil
	}
	if _, err := dec.Token(); err != io.EOF {
		logging.L(logging.CategoryLink).Warn("trailing data after tx args payload, ignoring",
			zap.String("payload", payload))
		return stellar.Args{}, nil
	}
	return args, settable
}

// normalizeNumbers rewrites json.Number values to float64 (or int64 when
// exact) so argument values compare naturally in hosts and tests.
func normalizeNumbers(v any) any {
	switch t := v.(type) {
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return i
		}
		if f, err := t.Float64(); err == nil {
			return f
		}
		return t.String()
	case []any:
		for i := range t {
			t[i] = normalizeNumbers(t[i])
		}
		return t
	case map[string]any:
		for k := range t {
			t[k] = normalizeNumbers(t[k])
		}
		return t
	default:
		return v
	}
}
