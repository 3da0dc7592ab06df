// Package gateway wires the bot together: channels feed the message bus,
// the process loop routes each inbound message, and replies flow back out
// through the channel that delivered them.
package gateway

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/cexll/agentsdk-go/pkg/api"
	"github.com/cexll/agentsdk-go/pkg/model"
	"github.com/grunthall/gruntbot/internal/bus"
	"github.com/grunthall/gruntbot/internal/channel"
	"github.com/grunthall/gruntbot/internal/config"
	"github.com/grunthall/gruntbot/internal/cron"
	"github.com/grunthall/gruntbot/internal/profile"
	"github.com/grunthall/gruntbot/internal/router"
	"github.com/grunthall/gruntbot/internal/session"
	"github.com/grunthall/gruntbot/internal/wordlist"
)

// Maintenance task names dispatched by the cron service.
const (
	taskSessionSweep    = "session-sweep"
	taskProfileSnapshot = "profile-snapshot"
)

// personaPrompt is GruntBot's character. Keep replies short and in voice;
// the profiling layer adds its own flavor on top.
const personaPrompt = `You are GruntBot, an orc grunt who hangs out in this chat.

You speak in short, blunt orcish sentences. Simple grammar, dropped articles,
the occasional "zug zug" or "me" instead of "I". You are loyal, a little
grumpy, and secretly fond of the humans you serve.

Rules:
- Keep replies to a few sentences. Grunts do not write essays.
- Stay in character. Never mention being a language model.
- You love food, gold and sleep, and respect those who speak of them.`

// RuntimeFactory creates the LLM runtime (allows injection in tests).
type RuntimeFactory func(cfg *config.Config) (session.Runtime, error)

// runtimeAdapter wraps api.Runtime to satisfy session.Runtime.
type runtimeAdapter struct {
	rt *api.Runtime
}

func (r *runtimeAdapter) Run(ctx context.Context, req api.Request) (*api.Response, error) {
	return r.rt.Run(ctx, req)
}

func (r *runtimeAdapter) Close() {
	_ = r.rt.Close()
}

// Options for creating a Gateway
type Options struct {
	RuntimeFactory RuntimeFactory
	SignalChan     chan os.Signal // for testing signal handling
}

// DefaultRuntimeFactory creates the default agentsdk-go runtime.
func DefaultRuntimeFactory(cfg *config.Config) (session.Runtime, error) {
	var provider api.ModelFactory
	switch cfg.Provider.Type {
	case "openai":
		provider = &model.OpenAIProvider{
			APIKey:    cfg.Provider.APIKey,
			BaseURL:   cfg.Provider.BaseURL,
			ModelName: cfg.Agent.Model,
			MaxTokens: cfg.Agent.MaxTokens,
		}
	default: // "anthropic" or empty
		provider = &model.AnthropicProvider{
			APIKey:    cfg.Provider.APIKey,
			BaseURL:   cfg.Provider.BaseURL,
			ModelName: cfg.Agent.Model,
			MaxTokens: cfg.Agent.MaxTokens,
		}
	}

	rt, err := api.New(context.Background(), api.Options{
		ModelFactory: provider,
		SystemPrompt: personaPrompt,
	})
	if err != nil {
		return nil, fmt.Errorf("create runtime: %w", err)
	}
	return &runtimeAdapter{rt: rt}, nil
}

type Gateway struct {
	cfg        *config.Config
	bus        *bus.MessageBus
	store      *profile.Store
	sessions   *session.Manager
	router     *router.Router
	channels   *channel.ChannelManager
	cron       *cron.Service
	signalChan chan os.Signal // for testing
}

// New creates a Gateway with default options
func New(cfg *config.Config) (*Gateway, error) {
	return NewWithOptions(cfg, Options{})
}

// NewWithOptions creates a Gateway with custom options for testing
func NewWithOptions(cfg *config.Config, opts Options) (*Gateway, error) {
	g := &Gateway{cfg: cfg}

	g.bus = bus.NewMessageBus(config.DefaultBufSize)
	g.store = profile.NewStore(cfg.Bot.ProfilePath)

	grunts := wordlist.New(filepath.Join(cfg.Bot.ResourceDir, "grunts.txt"))
	greetings := wordlist.New(filepath.Join(cfg.Bot.ResourceDir, "greetings.txt"))

	factory := opts.RuntimeFactory
	if factory == nil {
		factory = DefaultRuntimeFactory
	}
	rt, err := factory(cfg)
	if err != nil {
		return nil, err
	}
	g.sessions = session.NewManager(rt, time.Duration(cfg.Bot.SessionTimeoutSecs)*time.Second)

	g.router = router.New(g.store, g.sessions, grunts, greetings)

	cronStorePath := filepath.Join(config.ConfigDir(), "data", "cron", "jobs.json")
	g.cron = cron.NewService(cronStorePath)
	g.cron.OnJob = g.runMaintenance

	chMgr, err := channel.NewChannelManager(cfg.Channels, g.bus)
	if err != nil {
		return nil, fmt.Errorf("create channel manager: %w", err)
	}
	g.channels = chMgr

	g.signalChan = opts.SignalChan

	return g, nil
}

func (g *Gateway) runMaintenance(job cron.Job) (string, error) {
	switch job.Payload.Task {
	case taskSessionSweep:
		evicted := g.sessions.Sweep()
		return fmt.Sprintf("evicted %d idle sessions", evicted), nil
	case taskProfileSnapshot:
		dir := filepath.Join(filepath.Dir(g.store.Path()), "snapshots")
		path, err := g.store.Snapshot(dir, time.Now())
		if err != nil {
			return "", err
		}
		return "snapshot " + path, nil
	default:
		return "", fmt.Errorf("unknown maintenance task %q", job.Payload.Task)
	}
}

func (g *Gateway) ensureMaintenanceJobs() error {
	if !g.cron.HasTask(taskSessionSweep) {
		sweepMs := int64(g.cfg.Bot.SweepIntervalSecs) * 1000
		if _, err := g.cron.AddJob("session_sweep", cron.Schedule{Kind: "every", EveryMs: sweepMs}, cron.Payload{Task: taskSessionSweep}); err != nil {
			return err
		}
	}
	if !g.cron.HasTask(taskProfileSnapshot) {
		expr := g.cfg.Bot.SnapshotCron
		if expr == "" {
			expr = config.DefaultSnapshotCron
		}
		if _, err := g.cron.AddJob("profile_snapshot", cron.Schedule{Kind: "cron", Expr: expr}, cron.Payload{Task: taskProfileSnapshot}); err != nil {
			return err
		}
	}
	return nil
}

func (g *Gateway) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go g.bus.DispatchOutbound(ctx)

	if err := g.channels.StartAll(ctx); err != nil {
		return fmt.Errorf("start channels: %w", err)
	}
	log.Printf("[gateway] channels started: %v", g.channels.EnabledChannels())

	if err := g.cron.Start(ctx); err != nil {
		log.Printf("[gateway] cron start warning: %v", err)
	}
	if err := g.ensureMaintenanceJobs(); err != nil {
		log.Printf("[gateway] ensure maintenance jobs warning: %v", err)
	}

	go g.processLoop(ctx)

	log.Printf("[gateway] gruntbot is ready")

	sigCh := g.signalChan
	if sigCh == nil {
		sigCh = make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	}
	<-sigCh

	log.Printf("[gateway] shutting down...")
	return g.Shutdown()
}

// processLoop handles inbound messages one at a time, so no two mutations of
// the same user's profile can interleave.
func (g *Gateway) processLoop(ctx context.Context) {
	for {
		select {
		case msg := <-g.bus.Inbound:
			log.Printf("[gateway] inbound from %s/%s: %s", msg.Channel, msg.SenderID, truncate(msg.Content, 80))

			reply := g.router.Handle(ctx, msg)
			if reply != "" {
				g.bus.Outbound <- bus.OutboundMessage{
					Channel: msg.Channel,
					ChatID:  msg.ChatID,
					Content: reply,
				}
			}
		case <-ctx.Done():
			return
		}
	}
}

func (g *Gateway) Shutdown() error {
	g.cron.Stop()
	_ = g.channels.StopAll()
	if g.sessions != nil {
		g.sessions.Close()
	}
	log.Printf("[gateway] shutdown complete")
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
