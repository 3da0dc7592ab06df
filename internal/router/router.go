// Package router dispatches inbound messages through an ordered command
// table: exact phrases, prefixes, then the regex chat trigger. The table
// order is the dispatch order, so earlier entries shadow later ones.
package router

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"strings"
	"time"

	"github.com/grunthall/gruntbot/internal/bus"
	"github.com/grunthall/gruntbot/internal/inflect"
	"github.com/grunthall/gruntbot/internal/profile"
	"github.com/grunthall/gruntbot/internal/wordlist"
)

// ChatSession is the chat-provider capability the router consumes.
type ChatSession interface {
	Prompt(ctx context.Context, userKey, text string) (string, error)
}

const helpText = "🪓 GruntBot Command Guide 🪓\n\n" +
	"grunt — Get a random grunt.\n" +
	"grunt <message> — Talk to GruntBot.\n" +
	"grunt rank — See your standing in the warband.\n" +
	"train grunt: <phrase> — Teach GruntBot.\n" +
	"list grunts — See learned grunts.\n" +
	"grunt note: <fact> — Share something personal.\n" +
	"grunt help — You just did.\n"

const fallbackReply = "Me confused. Come back later."

var gruntTrigger = regexp.MustCompile(`(?i)\bgrunt\b`)

type command struct {
	name   string
	match  func(content string) (args string, ok bool)
	handle func(ctx context.Context, msg bus.InboundMessage, args string) string
}

func exact(phrase string) func(string) (string, bool) {
	return func(content string) (string, bool) {
		if strings.EqualFold(strings.TrimSpace(content), phrase) {
			return "", true
		}
		return "", false
	}
}

func prefix(p string) func(string) (string, bool) {
	return func(content string) (string, bool) {
		lower := strings.ToLower(content)
		idx := strings.Index(lower, p)
		if idx != 0 {
			return "", false
		}
		return strings.TrimSpace(content[len(p):]), true
	}
}

func trigger(re *regexp.Regexp) func(string) (string, bool) {
	return func(content string) (string, bool) {
		loc := re.FindStringIndex(content)
		if loc == nil {
			return "", false
		}
		return strings.TrimSpace(content[loc[1]:]), true
	}
}

type Router struct {
	store     *profile.Store
	chat      ChatSession
	grunts    *wordlist.List
	greetings *wordlist.List
	now       func() time.Time
	commands  []command
}

func New(store *profile.Store, chat ChatSession, grunts, greetings *wordlist.List) *Router {
	return NewWithClock(store, chat, grunts, greetings, time.Now)
}

// NewWithClock creates a Router with an injectable clock for tests.
func NewWithClock(store *profile.Store, chat ChatSession, grunts, greetings *wordlist.List, now func() time.Time) *Router {
	r := &Router{
		store:     store,
		chat:      chat,
		grunts:    grunts,
		greetings: greetings,
		now:       now,
	}
	r.commands = []command{
		{name: "help", match: exact("grunt help"), handle: r.handleHelp},
		{name: "rank", match: exact("grunt rank"), handle: r.handleRank},
		{name: "train", match: prefix("train grunt:"), handle: r.handleTrain},
		{name: "note", match: prefix("grunt note:"), handle: r.handleNote},
		{name: "list", match: exact("list grunts"), handle: r.handleList},
		{name: "chat", match: trigger(gruntTrigger), handle: r.handleChat},
	}
	return r
}

// Handle processes one inbound message and returns the reply text, or ""
// when the bot has nothing to say. Every message credits the author's word
// count before dispatch, whatever command it turns out to be.
func (r *Router) Handle(ctx context.Context, msg bus.InboundMessage) string {
	if msg.Event == bus.EventMemberJoin {
		return r.handleMemberJoin(msg)
	}

	if words := len(strings.Fields(msg.Content)); words > 0 {
		if err := r.store.AddWords(msg.SenderID, words); err != nil {
			log.Printf("[router] word count for %s: %v", msg.SenderID, err)
		}
	}

	for _, cmd := range r.commands {
		if args, ok := cmd.match(msg.Content); ok {
			return cmd.handle(ctx, msg, args)
		}
	}
	return ""
}

func (r *Router) handleHelp(ctx context.Context, msg bus.InboundMessage, args string) string {
	return helpText
}

func (r *Router) handleRank(ctx context.Context, msg bus.InboundMessage, args string) string {
	label, count := profile.Rank(r.store.Get(msg.SenderID).WordCount)
	return fmt.Sprintf("%syou are %s of the warband. (%d words grunted)", r.addressee(msg), label, count)
}

func (r *Router) handleTrain(ctx context.Context, msg bus.InboundMessage, args string) string {
	if args == "" {
		return "No grunt provided!"
	}
	if err := r.grunts.Append(args); err != nil {
		log.Printf("[router] train: %v", err)
		return "Training failed. Me tired."
	}
	return "GruntBot learns: \"" + args + "\" 🧠"
}

func (r *Router) handleNote(ctx context.Context, msg bus.InboundMessage, args string) string {
	if args == "" {
		return "You no teach me anything."
	}
	if _, err := r.store.AppendNote(msg.SenderID, msg.Content, r.now()); err != nil {
		log.Printf("[router] note for %s: %v", msg.SenderID, err)
	}
	return r.addressee(msg) + "fine. GruntBot remembers your nonsense."
}

func (r *Router) handleList(ctx context.Context, msg bus.InboundMessage, args string) string {
	lines, err := r.grunts.Lines()
	if err != nil {
		log.Printf("[router] list grunts: %v", err)
		return "Me can't find grunts..."
	}
	if len(lines) == 0 {
		return "Me forget all grunts 😢"
	}
	var sb strings.Builder
	sb.WriteString("Here be GruntBot's wisdom:\n")
	for _, g := range lines {
		sb.WriteString("- ")
		sb.WriteString(g)
		sb.WriteString("\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}

// handleChat is the free-text path: bare "grunt" gets a random grunt, text
// after the trigger goes to the chat session and comes back inflected.
func (r *Router) handleChat(ctx context.Context, msg bus.InboundMessage, args string) string {
	if args == "" {
		grunt, err := r.grunts.Random()
		if err != nil {
			log.Printf("[router] random grunt: %v", err)
			return "Me can't find grunts..."
		}
		return grunt
	}

	reply, err := r.chat.Prompt(ctx, msg.SessionKey(), args)
	if err != nil {
		log.Printf("[router] chat for %s: %v", msg.SenderID, err)
		return fallbackReply
	}

	// Learn before inflecting so this message's note feeds the signals.
	if _, err := r.store.AppendNote(msg.SenderID, msg.Content, r.now()); err != nil {
		log.Printf("[router] note for %s: %v", msg.SenderID, err)
	}

	p := r.store.Get(msg.SenderID)
	sig := inflect.Signals{
		Traits: profile.Traits(p.History),
		Drift:  profile.Drift(p.History),
	}
	return inflect.Inflect(reply, sig, r.now())
}

func (r *Router) handleMemberJoin(msg bus.InboundMessage) string {
	greeting, err := r.greetings.Random()
	if err != nil {
		log.Printf("[router] greeting: %v", err)
		return ""
	}
	return r.addressee(msg) + greeting
}

func (r *Router) addressee(msg bus.InboundMessage) string {
	name := msg.SenderName
	if name == "" {
		name = msg.SenderID
	}
	return name + ", "
}
