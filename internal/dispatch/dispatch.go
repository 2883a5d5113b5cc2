// Package dispatch implements the click-to-transaction state machine.
//
// A host view layer delivers click events on action-bearing elements;
// the engine classifies the action string, resolves the target
// contract, gathers arguments, optionally suspends for user-supplied
// parameters, invokes the transaction collaborator, and routes results
// back through host callbacks. Default navigation is suppressed the
// moment an action classifies as a custom protocol, before any
// asynchronous work, and is never re-enabled as an error recovery.
// Every application-visible failure flows through the single Error
// hook; HandleClick itself never returns an error and never panics
// outward.
package dispatch

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/net/html"

	"renderview/internal/dom"
	"renderview/internal/link"
	"renderview/internal/logging"
	"renderview/internal/stellar"
)

// State names a position in the dispatch state machine.
type State int

const (
	StateIdle State = iota
	StateClassifying
	StateNavigating
	StateAwaitingUserParams
	StateSubmitting
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateClassifying:
		return "classifying"
	case StateNavigating:
		return "navigating"
	case StateAwaitingUserParams:
		return "awaiting_user_params"
	case StateSubmitting:
		return "submitting"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// User-facing error strings. These are the exact messages hosts display.
const (
	MsgWalletNotConnected = "Wallet not connected"
	MsgInvalidTxLink      = "Invalid transaction link"
	MsgInvalidFormLink    = "Invalid form link"
	MsgEmptyForm          = "Please fill in the form fields"
	MsgUnexpected         = "Something went wrong. Please try again."
)

// CallerField is the argument name carrying the caller identity. It is
// always appended after every other argument, matching the convention
// that contract entry points take the caller address last.
const CallerField = "caller"

// RedirectField is the reserved form field naming a path to navigate to
// after a successful submission. Reserved fields (leading underscore)
// never count toward form validation and are stripped before submit.
const RedirectField = "_redirect"

// Hooks are the host callbacks the engine routes effects through. Any
// hook may be nil; a nil Error hook still leaves failures in the log.
type Hooks struct {
	// Navigate performs same-document path navigation.
	Navigate func(path string)
	// NavigateContract switches rendering to another contract. Ref is
	// the original alias/ID reference for URL round-tripping.
	NavigateContract func(contractID, path, ref string)
	// TxStart fires just before an invocation is submitted.
	TxStart func(inv stellar.Invocation)
	// TxComplete fires with the submitter's result, success or not.
	TxComplete func(res *stellar.TxResult)
	// Error receives every application-visible failure message.
	Error func(msg string)
}

// ParamPrompter collects values for user-settable parameters. Submitted
// is false when the user cancelled. A non-nil error counts as a cancel
// with a logged cause.
type ParamPrompter interface {
	Prompt(ctx context.Context, method string, params []string) (values map[string]string, submitted bool, err error)
}

// Click is one activation of an action-bearing element, as delivered by
// the host.
type Click struct {
	// Action is the explicit action attribute; it wins over Href.
	Action string
	// Href is the element's plain link target.
	Href string
	// Root is the DOM subtree scanned for form fields on form: actions.
	Root *html.Node
	// Element is the clicked node itself; form collection stops at it.
	Element *html.Node
}

// Outcome reports what HandleClick decided. PreventDefault true means
// the host must stop the browser-default navigation for this event; it
// is set before any asynchronous work and never unset.
type Outcome struct {
	ID             string
	Handled        bool
	PreventDefault bool
	// AwaitingParams is non-nil when the engine suspended for user
	// input and no prompter is configured; the host resolves the
	// suspension through SubmitParams or CancelParams.
	AwaitingParams []string
}

// Options configures an Engine.
type Options struct {
	Session         stellar.Session
	Submitter       stellar.Submitter
	Resolver        stellar.Resolver
	DefaultContract string
	Prompter        ParamPrompter
	Hooks           Hooks
	// ErrorMappings maps contract error codes to human messages,
	// harvested from {{errors}} tags in the rendered content.
	ErrorMappings map[string]string
	// OptimisticConfirm treats a submitted-but-unconfirmable
	// transaction as success. This trades certainty for availability;
	// see config.TxConfig.
	OptimisticConfirm bool
}

// pendingParams is the transient suspension state between "link needs
// user input" and "modal resolved". Exactly one writer (the engine);
// cleared atomically on both submit and cancel.
type pendingParams struct {
	link   *link.Link
	params []string
}

// Engine is the interaction dispatch state machine. One engine serves
// one rendered document at a time.
type Engine struct {
	mu       sync.Mutex
	state    State
	pending  *pendingParams
	opts     Options
	mappings map[string]string
	log      *zap.Logger
}

// New builds an engine. Collaborators may be nil; tx and form dispatch
// then fail with the wallet precondition message.
func New(opts Options) *Engine {
	return &Engine{
		state:    StateIdle,
		opts:     opts,
		mappings: opts.ErrorMappings,
		log:      logging.L(logging.CategoryDispatch),
	}
}

// State returns the machine's current state.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// PendingParams returns the parameter names awaiting user values, nil
// when the engine is not suspended.
func (e *Engine) PendingParams() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.pending == nil {
		return nil
	}
	out := make([]string, len(e.pending.params))
	copy(out, e.pending.params)
	return out
}

// SetSession installs or clears the active wallet session.
func (e *Engine) SetSession(s stellar.Session) {
	e.mu.Lock()
	e.opts.Session = s
	e.mu.Unlock()
}

// SetErrorMappings replaces the contract error-code message map,
// typically after each render extracts fresh {{errors}} tags.
func (e *Engine) SetErrorMappings(m map[string]string) {
	e.mu.Lock()
	e.mappings = m
	e.mu.Unlock()
}

// HandleClick runs one click through the machine. It never returns an
// error: failures surface through the Error hook, and a panic anywhere
// in the dispatch chain is caught, logged, and converted to a generic
// surfaced failure while PreventDefault stays as already decided.
func (e *Engine) HandleClick(ctx context.Context, click Click) (out Outcome) {
	out.ID = uuid.NewString()
	log := e.log.With(zap.String("dispatch_id", out.ID))

	defer func() {
		if r := recover(); r != nil {
			log.Error("panic during dispatch", zap.Any("panic", r))
			e.reportError(MsgUnexpected)
			e.setState(StateIdle)
		}
	}()

	action := click.Action
	if action == "" {
		action = click.Href
	}
	if action == "" {
		// Not an action-bearing element; the click is not ours.
		return out
	}

	e.setState(StateClassifying)
	parsed := link.Parse(action)
	log.Debug("classified action",
		zap.String("action", action),
		zap.String("protocol", string(parsed.Protocol)))

	if parsed.Protocol == link.ProtocolStandard {
		// Standard URLs keep their default behavior.
		e.setState(StateIdle)
		return out
	}

	// Custom protocol: from here on the browser default must not fire,
	// whatever happens below.
	out.Handled = true
	out.PreventDefault = true

	switch parsed.Protocol {
	case link.ProtocolRender:
		e.dispatchRender(ctx, parsed, log)
	case link.ProtocolTx:
		out.AwaitingParams = e.dispatchTx(ctx, parsed, log)
	case link.ProtocolForm:
		e.dispatchForm(ctx, parsed, click, log)
	}
	return out
}

// dispatchRender routes a render: action to the navigation hooks.
func (e *Engine) dispatchRender(ctx context.Context, parsed *link.Link, log *zap.Logger) {
	e.setState(StateNavigating)
	defer e.setState(StateIdle)
	r := parsed.Render

	if r.IsSet() && e.opts.Hooks.NavigateContract != nil {
		contractID, err := e.resolveTarget(ctx, r.Target)
		if err != nil || contractID == "" {
			log.Warn("contract target did not resolve",
				zap.String("ref", r.Ref()), zap.Error(err))
			e.reportError(fmt.Sprintf("Unknown contract: %s", r.Ref()))
			return
		}
		e.opts.Hooks.NavigateContract(contractID, r.Path, r.Ref())
		return
	}

	path := r.Path
	if path == "" {
		path = "/"
	}
	if e.opts.Hooks.Navigate != nil {
		e.opts.Hooks.Navigate(path)
	}
}

// dispatchTx routes a tx: action: wallet check, method check, optional
// suspension for user parameters, then submission.
func (e *Engine) dispatchTx(ctx context.Context, parsed *link.Link, log *zap.Logger) []string {
	tx := parsed.Tx
	if !e.walletReady() {
		e.failIdle(MsgWalletNotConnected)
		return nil
	}
	if tx.Method == "" {
		e.failIdle(MsgInvalidTxLink)
		return nil
	}

	if len(tx.UserSettableParams) > 0 {
		params := append([]string(nil), tx.UserSettableParams...)
		e.mu.Lock()
		e.pending = &pendingParams{link: parsed, params: params}
		e.state = StateAwaitingUserParams
		e.mu.Unlock()
		log.Debug("awaiting user parameters", zap.Strings("params", params))

		if e.opts.Prompter == nil {
			// The host drives SubmitParams/CancelParams.
			return params
		}
		values, submitted, err := e.opts.Prompter.Prompt(ctx, tx.Method, params)
		if err != nil {
			log.Warn("parameter prompt failed", zap.Error(err))
			e.CancelParams()
			return nil
		}
		if !submitted {
			e.CancelParams()
			return nil
		}
		e.SubmitParams(ctx, values)
		return nil
	}

	e.submit(ctx, parsed, cloneArgs(tx.Args), log)
	return nil
}

// dispatchForm routes a form: action: wallet check, field collection
// scoped to elements before the clicked link, validation, submission,
// and the optional post-success redirect.
func (e *Engine) dispatchForm(ctx context.Context, parsed *link.Link, click Click, log *zap.Logger) {
	form := parsed.Form
	if !e.walletReady() {
		e.failIdle(MsgWalletNotConnected)
		return
	}
	if form.Method == "" {
		e.failIdle(MsgInvalidFormLink)
		return
	}

	var fields dom.Fields
	if click.Root != nil {
		fields = dom.CollectFormInputs(click.Root, click.Element)
	}

	redirect, _ := fields.Get(RedirectField)
	args := stellar.Args{}
	filled := false
	for _, f := range fields {
		if strings.HasPrefix(f.Name, "_") {
			continue
		}
		args = append(args, stellar.Arg{Name: f.Name, Value: f.Value})
		if strings.TrimSpace(f.Value) != "" {
			filled = true
		}
	}
	if !filled {
		e.failIdle(MsgEmptyForm)
		return
	}

	res := e.submitInvocation(ctx, form.Target, form.Method, args, "", log)
	if res != nil && res.ok && redirect != "" && e.opts.Hooks.Navigate != nil {
		e.opts.Hooks.Navigate(redirect)
	}
	e.setState(StateIdle)
}

// SubmitParams resolves a pending user-parameter suspension with the
// collected values and proceeds to submission. Values override the
// empty-string placeholders in the original link; the caller identity
// still goes last. Every flagged parameter must be non-blank.
func (e *Engine) SubmitParams(ctx context.Context, values map[string]string) {
	e.mu.Lock()
	pending := e.pending
	e.pending = nil
	e.mu.Unlock()
	if pending == nil {
		return
	}

	for _, name := range pending.params {
		if strings.TrimSpace(values[name]) == "" {
			e.failIdle(fmt.Sprintf("Missing value for %s", name))
			return
		}
	}

	args := cloneArgs(pending.link.Tx.Args)
	for _, name := range pending.params {
		args = args.Set(name, values[name])
	}
	e.submit(ctx, pending.link, args, e.log)
}

// CancelParams discards a pending suspension without submitting.
func (e *Engine) CancelParams() {
	e.mu.Lock()
	e.pending = nil
	e.state = StateIdle
	e.mu.Unlock()
}

// submit resolves the target and pushes the invocation to the
// submitter, routing start/complete/error signals.
func (e *Engine) submit(ctx context.Context, parsed *link.Link, args stellar.Args, log *zap.Logger) {
	tx := parsed.Tx
	e.submitInvocation(ctx, tx.Target, tx.Method, args, tx.SendAmount, log)
	e.setState(StateIdle)
}

type submitResult struct{ ok bool }

// submitInvocation is the shared tail of tx and form dispatch: resolve
// the contract, append the caller identity last, signal start, submit,
// signal complete, and surface failures through the error channel with
// any caller-supplied code-to-message enrichment. Returns nil when the
// submission could not start.
func (e *Engine) submitInvocation(ctx context.Context, target link.Target, method string, args stellar.Args, sendAmount string, log *zap.Logger) *submitResult {
	e.setState(StateSubmitting)

	contractID, err := e.resolveTarget(ctx, target)
	if err != nil || contractID == "" {
		ref := target.Ref()
		if ref == "" {
			ref = e.opts.DefaultContract
		}
		log.Warn("contract target did not resolve", zap.String("ref", ref), zap.Error(err))
		e.reportError(fmt.Sprintf("Unknown contract: %s", ref))
		return nil
	}

	e.mu.Lock()
	session := e.opts.Session
	e.mu.Unlock()
	if session == nil || !session.Connected() || session.Address() == "" || e.opts.Submitter == nil {
		// The wallet can disconnect between suspension and resolution.
		e.reportError(MsgWalletNotConnected)
		return nil
	}

	caller := session.Address()
	inv := stellar.Invocation{
		ContractID: contractID,
		Method:     method,
		Args:       append(args, stellar.Arg{Name: CallerField, Value: caller}),
		SendAmount: sendAmount,
	}

	if e.opts.Hooks.TxStart != nil {
		e.opts.Hooks.TxStart(inv)
	}
	res, err := e.opts.Submitter.Submit(ctx, inv, caller)
	if err != nil {
		log.Warn("submission failed", zap.String("method", method), zap.Error(err))
		e.reportError("Transaction failed: " + err.Error())
		return &submitResult{ok: false}
	}
	if e.opts.Hooks.TxComplete != nil {
		e.opts.Hooks.TxComplete(res)
	}
	if !res.Success {
		e.reportError(e.describeFailure(res))
		return &submitResult{ok: false}
	}
	if !res.Confirmed && !e.opts.OptimisticConfirm {
		e.reportError("Transaction submitted but not confirmed")
		return &submitResult{ok: false}
	}
	log.Info("transaction complete",
		zap.String("method", method),
		zap.String("hash", res.Hash),
		zap.Bool("confirmed", res.Confirmed))
	return &submitResult{ok: true}
}

// describeFailure enriches a submitter failure with the caller-supplied
// error-code mapping when one matches.
func (e *Engine) describeFailure(res *stellar.TxResult) string {
	e.mu.Lock()
	mappings := e.mappings
	e.mu.Unlock()
	if res.Code != "" {
		if msg, ok := mappings[res.Code]; ok {
			return msg
		}
	}
	if res.Error != "" {
		return "Transaction failed: " + res.Error
	}
	return "Transaction failed"
}

func (e *Engine) resolveTarget(ctx context.Context, target link.Target) (string, error) {
	if e.opts.Resolver == nil {
		if target.ContractID != "" {
			return target.ContractID, nil
		}
		if target.Alias != "" {
			return "", fmt.Errorf("no resolver for alias %q", target.Alias)
		}
		return e.opts.DefaultContract, nil
	}
	return e.opts.Resolver.Resolve(ctx, target.Alias, target.ContractID, e.opts.DefaultContract)
}

// walletReady checks the tx/form precondition: an active session with an
// address, a submitter, and a default contract context.
func (e *Engine) walletReady() bool {
	e.mu.Lock()
	session := e.opts.Session
	e.mu.Unlock()
	return session != nil && session.Connected() && session.Address() != "" &&
		e.opts.Submitter != nil && e.opts.DefaultContract != ""
}

// failIdle surfaces a precondition failure and returns to Idle.
func (e *Engine) failIdle(msg string) {
	e.reportError(msg)
	e.setState(StateIdle)
}

// reportError routes a failure through the single error channel. The
// message is always logged even when no hook is installed.
func (e *Engine) reportError(msg string) {
	e.log.Warn("dispatch error", zap.String("message", msg))
	if e.opts.Hooks.Error != nil {
		e.opts.Hooks.Error(msg)
	}
}

func (e *Engine) setState(s State) {
	e.mu.Lock()
	if e.state != s {
		e.log.Debug("state transition",
			zap.String("from", e.state.String()),
			zap.String("to", s.String()))
		e.state = s
	}
	e.mu.Unlock()
}

func cloneArgs(args stellar.Args) stellar.Args {
	out := make(stellar.Args, len(args))
	copy(out, args)
	return out
}
