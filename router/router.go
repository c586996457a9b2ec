// Package router drives one conversation turn end to end: load the
// session's checkpoint, compact the transcript when it has grown long,
// append the user message, then alternate model calls and action
// executions until the model produces a terminal reply or the hop guard
// trips. State is saved after every mutation, so a crash mid-turn loses at
// most the step in flight.
package router

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"github.com/Blaqadonis/azaman/action"
	"github.com/Blaqadonis/azaman/checkpoint"
	"github.com/Blaqadonis/azaman/core"
	"github.com/Blaqadonis/azaman/logging"
	"github.com/Blaqadonis/azaman/model"
	"github.com/Blaqadonis/azaman/prompt"
	"github.com/Blaqadonis/azaman/summarizer"
)

// DefaultMaxHops bounds model generations per turn.
const DefaultMaxHops = 5

// ErrorReply is sent when a model call fails. The turn still commits, so
// the user can simply try again.
const ErrorReply = "Sorry, I'm having trouble responding right now. " +
	"Nothing was lost, please try again in a moment."

// loopGuardReply terminates a turn whose action chain never converged.
const loopGuardReply = "I had to stop before fully finishing that request. " +
	"Everything done so far has been saved. Could you rephrase or break it into smaller steps?"

// TurnResult is what the presentation layer gets back from one turn.
type TurnResult struct {
	// Reply is the assistant's terminal message for this turn.
	Reply string
	// State is the committed state after the turn.
	State *core.ConversationState
	// Hops is the number of model generations the turn used.
	Hops int
	// LoopGuardHit reports that the hop guard forced the terminal reply.
	LoopGuardHit bool
}

// Options configure a Router.
type Options struct {
	// MaxHops bounds model generations per turn.
	MaxHops int
	// ModelTimeout bounds each individual model call. Zero means no bound
	// beyond the caller's context.
	ModelTimeout time.Duration
	// Summarizer compacts long transcripts before generation. Nil disables
	// compaction.
	Summarizer *summarizer.Summarizer
	// Logger receives turn events.
	Logger logging.Logger
}

// Router is the turn state machine. It is safe for concurrent use across
// sessions; turns within one session are serialized by rejection (a second
// concurrent turn gets ErrSessionBusy rather than queueing).
type Router struct {
	store        checkpoint.Store
	model        model.Model
	registry     *action.Registry
	summarizer   *summarizer.Summarizer
	maxHops      int
	modelTimeout time.Duration
	logger       logging.Logger

	mu     sync.Mutex
	active map[string]struct{}
}

// New constructs a Router over a checkpoint store, a model and an action
// registry.
func New(store checkpoint.Store, m model.Model, registry *action.Registry, optFns ...func(o *Options)) *Router {
	opts := Options{
		MaxHops: DefaultMaxHops,
		Logger:  logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Router{
		store:        store,
		model:        m,
		registry:     registry,
		summarizer:   opts.Summarizer,
		maxHops:      opts.MaxHops,
		modelTimeout: opts.ModelTimeout,
		logger:       opts.Logger,
		active:       make(map[string]struct{}),
	}
}

// Turn processes one user message for the session and returns the
// assistant's reply with the committed state. A concurrent turn on the
// same session returns core.ErrSessionBusy. A *core.PersistenceError means
// the turn did not commit and may be retried; model failures never surface
// as errors, they become an apologetic committed reply instead.
func (r *Router) Turn(ctx context.Context, sessionID, userText string) (*TurnResult, error) {
	if !r.acquire(sessionID) {
		return nil, core.ErrSessionBusy
	}
	defer r.release(sessionID)

	start := time.Now()
	st, err := r.store.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if r.summarizer != nil {
		compacted, err := r.summarizer.Summarize(ctx, st)
		if err != nil {
			return nil, err
		}
		if compacted {
			if err := r.store.Save(ctx, sessionID, st); err != nil {
				return nil, err
			}
		}
	}

	st.AppendMessage(core.NewUserMessage(userText))
	if err := r.store.Save(ctx, sessionID, st); err != nil {
		return nil, err
	}

	result, err := r.drive(ctx, sessionID, st)
	if err != nil {
		return nil, err
	}

	r.logger.Info("turn.completed",
		"session_id", sessionID,
		"hops", result.Hops,
		"loop_guard", result.LoopGuardHit,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return result, nil
}

// drive runs the generate/act loop until a terminal reply or the hop guard.
func (r *Router) drive(ctx context.Context, sessionID string, st *core.ConversationState) (*TurnResult, error) {
	defs := r.registry.Definitions()

	for hops := 1; hops <= r.maxHops; hops++ {
		resp, err := r.generate(ctx, st, defs)
		if err != nil {
			if ctx.Err() != nil {
				return nil, err
			}
			r.logger.Warn("turn.model_failed", "session_id", sessionID, "error", err.Error())
			return r.commitReply(ctx, sessionID, st, ErrorReply, hops, false)
		}

		call := resp.ActionCall
		if call == nil {
			call = coerceInlineCall(resp.Text)
		}
		if call == nil {
			return r.commitReply(ctx, sessionID, st, resp.Text, hops, false)
		}
		if call.ID == "" {
			call.ID = core.NewID()
		}

		st.AppendMessage(core.NewActionCallMessage(call.ID, call.Name, call.Arguments))
		result, execErr := r.registry.Execute(st, call.Name, call.Arguments)
		st.AppendMessage(core.NewActionResultMessage(call.ID, call.Name, result, execErr))
		if err := r.store.Save(ctx, sessionID, st); err != nil {
			return nil, err
		}
	}

	r.logger.Warn("turn.loop_guard",
		"session_id", sessionID,
		"error", (&core.LoopGuardError{Hops: r.maxHops}).Error(),
	)
	return r.commitReply(ctx, sessionID, st, loopGuardReply, r.maxHops, true)
}

// generate performs one model call over the current state.
func (r *Router) generate(ctx context.Context, st *core.ConversationState, defs []model.Definition) (*model.Response, error) {
	if r.modelTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.modelTimeout)
		defer cancel()
	}
	return r.model.Generate(ctx, model.Request{
		Instructions: prompt.Render(st),
		Messages:     st.Messages,
		Actions:      defs,
	})
}

// commitReply appends the terminal assistant message and saves.
func (r *Router) commitReply(ctx context.Context, sessionID string, st *core.ConversationState, reply string, hops int, guard bool) (*TurnResult, error) {
	st.AppendMessage(core.NewAssistantMessage(reply))
	if err := r.store.Save(ctx, sessionID, st); err != nil {
		return nil, err
	}
	return &TurnResult{Reply: reply, State: st, Hops: hops, LoopGuardHit: guard}, nil
}

// inlineCall is the shape some models emit as plain text instead of a
// structured action request.
type inlineCall struct {
	Name       string          `json:"name"`
	Parameters json.RawMessage `json:"parameters"`
}

// coerceInlineCall recovers an action request from an assistant reply that
// is nothing but a {"name": ..., "parameters": ...} JSON object, optionally
// fenced. Anything else passes through as text.
func coerceInlineCall(text string) *model.ActionCall {
	s := strings.TrimSpace(text)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "{") {
		return nil
	}

	var call inlineCall
	if err := json.Unmarshal([]byte(s), &call); err != nil || call.Name == "" {
		return nil
	}

	args := "{}"
	if len(call.Parameters) > 0 {
		args = string(call.Parameters)
	}
	return &model.ActionCall{
		ID:        core.NewID(),
		Name:      call.Name,
		Arguments: args,
	}
}

func (r *Router) acquire(sessionID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, busy := r.active[sessionID]; busy {
		return false
	}
	r.active[sessionID] = struct{}{}
	return true
}

func (r *Router) release(sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.active, sessionID)
}
