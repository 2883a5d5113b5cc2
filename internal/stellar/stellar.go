// Package stellar defines the contract-facing collaborator interfaces the
// dispatch engine consumes: the wallet session, the transaction submitter,
// and the alias-to-contract resolver. It also holds the small amount of
// Stellar-specific knowledge the parsing core needs (contract ID shape,
// render capability metadata, call argument conventions).
package stellar

import (
	"context"
	"strings"
)

// ContractIDLength is the length of a strkey-encoded contract identifier.
const ContractIDLength = 56

// IsContractID reports whether s has the shape of a strkey contract ID:
// 56 base32 characters. It deliberately does not verify the checksum;
// the RPC layer rejects invalid IDs with a better error than we could
// produce here.
func IsContractID(s string) bool {
	if len(s) != ContractIDLength {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < 'A' || c > 'Z') && (c < '2' || c > '7') {
			return false
		}
	}
	return true
}

// Arg is one named contract call argument. Argument order is preserved
// end to end because contract calls are positional under the hood: the
// caller identity must arrive last.
type Arg struct {
	Name  string
	Value any
}

// Args is an ordered argument list.
type Args []Arg

// Get returns the value for name and whether it was present.
func (a Args) Get(name string) (any, bool) {
	for _, arg := range a {
		if arg.Name == name {
			return arg.Value, true
		}
	}
	return nil, false
}

// Set replaces the value for name in place, or appends when absent.
func (a Args) Set(name string, value any) Args {
	for i, arg := range a {
		if arg.Name == name {
			a[i].Value = value
			return a
		}
	}
	return append(a, Arg{Name: name, Value: value})
}

// Map flattens the list into a name-keyed map, losing order.
func (a Args) Map() map[string]any {
	m := make(map[string]any, len(a))
	for _, arg := range a {
		m[arg.Name] = arg.Value
	}
	return m
}

// Names returns the argument names in order.
func (a Args) Names() []string {
	names := make([]string, len(a))
	for i, arg := range a {
		names[i] = arg.Name
	}
	return names
}

// Invocation is one contract call the engine wants submitted.
type Invocation struct {
	ContractID string
	Method     string
	Args       Args
	SendAmount string // integer string in stroops; "" when the call sends nothing
}

// TxResult is what the submitter reports back.
//
// Confirmed distinguishes "the network accepted and we saw it land" from
// "we submitted it but polling could not confirm the result shape". The
// engine treats submitted-but-unconfirmed as success when the configured
// policy allows it; see config.TxConfig.OptimisticConfirm.
type TxResult struct {
	Success   bool
	Confirmed bool
	Hash      string
	Error     string
	Code      string // contract error code, used for caller-supplied message lookup
}

// Submitter signs and submits a contract invocation on behalf of caller.
// Implementations own all RPC and signing concerns.
type Submitter interface {
	Submit(ctx context.Context, inv Invocation, caller string) (*TxResult, error)
}

// Resolver maps an alias or literal contract ID to the contract that
// should receive a call. Empty alias and contractID resolve to
// defaultContract. A "" result with nil error means the alias is unknown.
type Resolver interface {
	Resolve(ctx context.Context, alias, contractID, defaultContract string) (string, error)
}

// Session supplies the active wallet identity. A nil Session, or one
// reporting Connected() == false, means no wallet.
type Session interface {
	Connected() bool
	Address() string
}

// RenderCapabilities describes what a contract declared via its
// render/render_formats metadata entries.
type RenderCapabilities struct {
	Version string
	Formats []string
}

// ParseRenderCapabilities interprets the contractmeta values
// (render="v1", render_formats="markdown,json").
func ParseRenderCapabilities(version, formats string) RenderCapabilities {
	caps := RenderCapabilities{Version: version}
	for _, f := range strings.Split(formats, ",") {
		f = strings.TrimSpace(f)
		if f != "" {
			caps.Formats = append(caps.Formats, f)
		}
	}
	return caps
}

// Supports reports whether the contract declared the given render format.
func (c RenderCapabilities) Supports(format string) bool {
	for _, f := range c.Formats {
		if strings.EqualFold(f, format) {
			return true
		}
	}
	return false
}
