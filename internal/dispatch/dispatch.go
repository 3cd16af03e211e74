// Package dispatch implements the dispatcher: tokenizing a raw input
// line against the command tree, ranking the candidate leaves that
// consume it completely, and running the matched leaf through
// conditions, permission, validators, and hooks before invoking its
// handler. It also implements the suggestion engine that powers
// completion for a partial line.
package dispatch

import (
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"lamp/internal/cooldown"
	"lamp/internal/hooks"
	"lamp/internal/registry"
	"lamp/internal/stream"
	"lamp/internal/tree"
	"lamp/pkg/lamperr"
	"lamp/pkg/lamptypes"
)

// OutcomeKind classifies how a Dispatch call ended.
type OutcomeKind int

const (
	// Executed means a command was matched and its handler ran and
	// returned without an error.
	Executed OutcomeKind = iota
	// Cancelled means a pre-dispatch or pre-execution hook vetoed the
	// action before it happened.
	Cancelled
	// Failed means no command matched, the matched command was rejected
	// before its handler ran (permission, condition, validator,
	// cooldown, context parameter resolution), or its handler returned
	// an error.
	Failed
)

func (k OutcomeKind) String() string {
	switch k {
	case Executed:
		return "executed"
	case Cancelled:
		return "cancelled"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Outcome reports the result of one Dispatch call.
type Outcome struct {
	Kind    OutcomeKind
	Command *tree.ExecutableCommand
	Result  interface{}
	Err     error
}

// Dispatcher matches raw input against a command tree and runs the
// matched leaf's handler through the full execution pipeline.
type Dispatcher struct {
	tree              *tree.Tree
	regs              *registry.Bundle
	hooks             *hooks.Registry
	cooldowns         *cooldown.Store
	guard             *hooks.Guard
	maxFailedAttempts int
	log               *log.Logger
}

// New creates a Dispatcher over t, resolving strategy objects through
// regs and firing hooks through hookReg. logger may be nil, in which
// case log.Default() is used.
func New(t *tree.Tree, regs *registry.Bundle, hookReg *hooks.Registry, cooldowns *cooldown.Store, logger *log.Logger) *Dispatcher {
	if logger == nil {
		logger = log.Default()
	}
	return &Dispatcher{
		tree:              t,
		regs:              regs,
		hooks:             hookReg,
		cooldowns:         cooldowns,
		guard:             hooks.NewGuard(),
		maxFailedAttempts: 256,
		log:               logger,
	}
}

// SetMaxFailedAttempts overrides the per-dispatch candidate-exploration
// budget. n <= 0 is ignored.
func (d *Dispatcher) SetMaxFailedAttempts(n int) {
	if n > 0 {
		d.maxFailedAttempts = n
	}
}

// candidate is one leaf reached with the entire input consumed.
type candidate struct {
	cmd            *tree.ExecutableCommand
	args           map[string]interface{}
	literalCount   int
	priorityWeight int
	defaultsFilled int
}

// failureRecord is one rejected branch of the walk, kept around so the
// dispatcher can report the most informative failure when nothing
// matched.
type failureRecord struct {
	err     error
	pos     int
	attempt int
}

type walkState struct {
	args           map[string]interface{}
	literalCount   int
	priorityWeight int
	defaultsFilled int
}

func cloneArgs(m map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(m)+1)
	for k, v := range m {
		out[k] = v
	}
	return out
}

// peekToken reads the next whitespace-delimited token without
// disturbing s's real cursor. It ranks which branch to try next, so it
// reads through an Immutable snapshot rather than forking a mutable
// Stream the walk would otherwise have to remember to discard.
func peekToken(s *stream.Stream) string {
	snap := stream.FromStream(s).SkipWhitespace()
	tok, _, _ := snap.ReadUnquotedString()
	return tok
}

// walk recursively descends the tree from node, trying a literal match
// before falling back to every parameter child, and records a
// candidate at any node reached with no input left to consume.
func (d *Dispatcher) walk(
	ctx *lamptypes.ExecutionContext,
	node *tree.Node,
	s *stream.Stream,
	st walkState,
	budget *int,
	attempt *int,
	candidates *[]candidate,
	failures *[]failureRecord,
) {
	if *budget <= 0 {
		return
	}
	*budget--

	probe := stream.FromStream(s).SkipWhitespace()
	if !probe.HasRemaining() {
		for _, leaf := range node.Leaves() {
			*candidates = append(*candidates, candidate{
				cmd:            leaf,
				args:           cloneArgs(st.args),
				literalCount:   st.literalCount,
				priorityWeight: st.priorityWeight,
				defaultsFilled: st.defaultsFilled,
			})
		}
	}

	tok := peekToken(s)
	if tok != "" {
		if child, ok := node.LiteralChild(tok); ok {
			next := s.Fork()
			next.SkipWhitespace()
			next.ReadUnquotedString()
			next1 := st
			next1.literalCount++
			d.walk(ctx, child, next, next1, budget, attempt, candidates, failures)
			return
		}
		if len(node.ParamChildren()) == 0 {
			*attempt++
			if len(node.LiteralChildren()) > 0 {
				*failures = append(*failures, failureRecord{err: lamperr.UnknownCommand(tok), pos: s.Position(), attempt: *attempt})
			} else {
				*failures = append(*failures, failureRecord{err: lamperr.ExtraArguments(strings.Fields(probe.Remaining())), pos: s.Position(), attempt: *attempt})
			}
			return
		}
	}

	for _, pc := range node.ParamChildren() {
		binding := pc.Binding()
		fork := s.Fork()
		fork.SkipWhitespace()
		if fork.HasRemaining() {
			startPos := fork.Position()
			val, err := binding.Parser.Parse(ctx, fork)
			if err != nil {
				*attempt++
				*failures = append(*failures, failureRecord{err: err, pos: startPos, attempt: *attempt})
				continue
			}
			next := st
			next.args = cloneArgs(st.args)
			next.args[binding.Descriptor.Name] = val
			next.priorityWeight += int(pc.Priority())
			d.walk(ctx, pc, fork, next, budget, attempt, candidates, failures)
			continue
		}
		if binding.Descriptor.Default.IsSet {
			defStream := stream.New(binding.Descriptor.Default.Raw)
			val, err := binding.Parser.Parse(ctx, defStream)
			if err != nil {
				continue
			}
			next := st
			next.args = cloneArgs(st.args)
			next.args[binding.Descriptor.Name] = val
			next.defaultsFilled++
			d.walk(ctx, pc, s, next, budget, attempt, candidates, failures)
			continue
		}
		*attempt++
		*failures = append(*failures, failureRecord{
			err:     lamperr.MissingArgument(binding.Descriptor.Name, binding.Descriptor.Type.String()),
			pos:     s.Position(),
			attempt: *attempt,
		})
	}
}

func sortCandidates(candidates []candidate) {
	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.literalCount != b.literalCount {
			return a.literalCount > b.literalCount
		}
		if a.priorityWeight != b.priorityWeight {
			return a.priorityWeight > b.priorityWeight
		}
		if a.defaultsFilled != b.defaultsFilled {
			return a.defaultsFilled < b.defaultsFilled
		}
		return a.cmd.RegisteredAt < b.cmd.RegisteredAt
	})
}

func failureWeightOf(err error) int {
	var de *lamperr.DispatchError
	if errors.As(err, &de) {
		return lamperr.Weight(de.Kind)
	}
	return 0
}

func sortFailures(failures []failureRecord) {
	sort.SliceStable(failures, func(i, j int) bool {
		a, b := failures[i], failures[j]
		if a.pos != b.pos {
			return a.pos > b.pos
		}
		aw, bw := failureWeightOf(a.err), failureWeightOf(b.err)
		if aw != bw {
			return aw > bw
		}
		return a.attempt < b.attempt
	})
}

// handleFailure routes err to the best-matching ExceptionHandler and
// wraps it in a Failed Outcome.
func (d *Dispatcher) handleFailure(ctx *lamptypes.ExecutionContext, cmd *tree.ExecutableCommand, err error) *Outcome {
	if handler := d.regs.ExceptionHandlers.Resolve(err); handler != nil {
		handler.Handle(ctx, err)
	}
	return &Outcome{Kind: Failed, Command: cmd, Err: err}
}

// Dispatch tokenizes raw against the command tree and, if at least one
// leaf's branch consumes it entirely, runs the top-ranked leaf's
// execution pipeline. Ambiguity is resolved by ranking: more literal tokens
// matched, then higher parser priority, then fewer defaults filled,
// then earliest registration.
func (d *Dispatcher) Dispatch(ctx *lamptypes.ExecutionContext, raw string) (*Outcome, error) {
	d.trace(phasePending, raw)

	cancel := d.hooks.FirePreDispatch(ctx, raw)
	if cancel.WasCancelled() {
		d.trace(phaseCancelled, raw)
		return &Outcome{Kind: Cancelled}, nil
	}

	exit, ok := d.guard.Enter(ctx.Actor.ID())
	if !ok {
		return nil, lamperr.CommandErrorf("dispatch depth exceeded for actor %s", ctx.Actor.ID())
	}
	defer exit()

	d.tree.RLock()
	budget := d.maxFailedAttempts
	attempt := 0
	var candidates []candidate
	var failures []failureRecord
	d.walk(ctx, d.tree.Root(), stream.New(raw), walkState{args: map[string]interface{}{}}, &budget, &attempt, &candidates, &failures)
	d.tree.RUnlock()

	if len(candidates) == 0 {
		d.trace(phaseNoCandidates, raw)
		sortFailures(failures)
		var err error
		if len(failures) > 0 {
			err = failures[0].err
		} else {
			err = lamperr.UnknownCommand(strings.TrimSpace(raw))
		}
		d.trace(phaseFailed, raw)
		return d.handleFailure(ctx, nil, err), nil
	}
	d.trace(phaseCandidatesFound, raw)

	sortCandidates(candidates)
	best := candidates[0]
	cmd := best.cmd
	d.trace(phaseSelected, cmd.Path.String())

	for _, cond := range cmd.Conditions {
		if err := cond.Test(ctx); err != nil {
			d.trace(phaseFailed, cmd.Path.String())
			return d.handleFailure(ctx, cmd, err), nil
		}
	}
	d.trace(phaseConditionsPassed, cmd.Path.String())

	if cmd.Permission != nil && !cmd.Permission.Test(ctx) {
		d.trace(phaseFailed, cmd.Path.String())
		return d.handleFailure(ctx, cmd, lamperr.NoPermission(cmd.Permission.Describe())), nil
	}
	d.trace(phasePermissionPassed, cmd.Path.String())

	now := time.Now()
	if d.cooldowns != nil && d.cooldowns.IsOnCooldown(cmd.ID, ctx.Actor.ID(), now) {
		remaining := d.cooldowns.Remaining(cmd.ID, ctx.Actor.ID(), now)
		d.log.Debug("command on cooldown", "command", cmd.Path.String(), "actor", ctx.Actor.ID(), "cooldown", remaining.String())
		d.trace(phaseFailed, cmd.Path.String())
		return d.handleFailure(ctx, cmd, lamperr.OnCooldown(remaining.String())), nil
	}
	d.trace(phaseCooldownPassed, cmd.Path.String())

	for name, validators := range cmd.Validators {
		val, ok := best.args[name]
		if !ok {
			continue
		}
		for _, v := range validators {
			if err := v.Validate(ctx, name, val); err != nil {
				d.trace(phaseFailed, cmd.Path.String())
				return d.handleFailure(ctx, cmd, err), nil
			}
		}
	}
	d.trace(phaseValidatorsPassed, cmd.Path.String())

	execCancel := d.hooks.FirePreExecution(ctx, cmd)
	if execCancel.WasCancelled() {
		d.trace(phaseCancelled, cmd.Path.String())
		return &Outcome{Kind: Cancelled, Command: cmd}, nil
	}
	d.trace(phasePreHookPassed, cmd.Path.String())

	if d.cooldowns != nil {
		cooldown.StashInvocationContext(ctx, cmd.ID, cmd.Cooldown)
	}
	for _, p := range cmd.AllParameters {
		if p.IsContext {
			val, err := p.Resolver.Resolve(ctx)
			if err != nil {
				return d.handleFailure(ctx, cmd, err), nil
			}
			ctx.SetArg(p.Descriptor.Name, val)
			continue
		}
		if val, ok := best.args[p.Descriptor.Name]; ok {
			ctx.SetArg(p.Descriptor.Name, val)
		}
	}

	result, err := cmd.Handler(ctx)
	if err != nil {
		d.trace(phaseFailed, cmd.Path.String())
		if handler := d.regs.ExceptionHandlers.Resolve(err); handler != nil {
			handler.Handle(ctx, err)
		}
		d.hooks.FireOnExecuted(ctx, cmd, nil, err)
		return &Outcome{Kind: Failed, Command: cmd, Err: err}, nil
	}
	d.trace(phaseExecuted, cmd.Path.String())

	if cmd.ResponseHandler != nil {
		if rerr := cmd.ResponseHandler.Handle(ctx, result, nil); rerr != nil {
			d.log.Warn("response handler failed", "command", cmd.Path.String(), "error", rerr)
		}
	}
	d.trace(phaseResponded, cmd.Path.String())

	if d.cooldowns != nil && cmd.Cooldown != nil && cmd.Cooldown.Bound {
		d.cooldowns.Set(cmd.ID, ctx.Actor.ID(), cmd.Cooldown.Duration, now)
	}

	d.hooks.FireOnExecuted(ctx, cmd, result, nil)
	return &Outcome{Kind: Executed, Command: cmd, Result: result}, nil
}

// trace logs a dispatch outcome phase transition at Debug level.
func (d *Dispatcher) trace(p phase, subject string) {
	d.log.Debug("dispatch phase", "phase", p.String(), "input", subject)
}

// Suggest returns completion candidates for a partial input line:
// literal spellings and alias spellings matching the final (possibly
// empty) token's prefix, plus whatever the matched position's
// parameter children's SuggestionProviders contribute.
func (d *Dispatcher) Suggest(ctx *lamptypes.ExecutionContext, raw string) []string {
	d.tree.RLock()
	defer d.tree.RUnlock()

	trailingSpace := strings.HasSuffix(raw, " ") || strings.HasSuffix(raw, "\t")
	tokens := strings.Fields(raw)

	consumeCount := len(tokens)
	partial := ""
	if !trailingSpace && consumeCount > 0 {
		consumeCount--
		partial = tokens[len(tokens)-1]
	}

	node := d.tree.Root()
	for i := 0; i < consumeCount; i++ {
		tok := tokens[i]
		if child, ok := node.LiteralChild(tok); ok {
			node = child
			continue
		}
		matched := false
		for _, pc := range node.ParamChildren() {
			probe := stream.New(tok)
			if _, err := pc.Binding().Parser.Parse(ctx, probe); err == nil {
				node = pc
				matched = true
				break
			}
		}
		if !matched {
			return nil
		}
	}

	lowerPartial := strings.ToLower(partial)
	var out []string
	for _, child := range node.LiteralChildren() {
		if strings.HasPrefix(strings.ToLower(child.Canonical()), lowerPartial) {
			out = append(out, child.Canonical())
		}
		for _, alias := range child.Aliases() {
			if strings.HasPrefix(strings.ToLower(alias), lowerPartial) {
				out = append(out, alias)
			}
		}
	}
	for _, pc := range node.ParamChildren() {
		binding := pc.Binding()
		if binding.Suggest == nil {
			continue
		}
		out = append(out, binding.Suggest.Suggestions(ctx, partial)...)
	}
	return out
}
