package daemon

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"log/slog"

	"github.com/gofrs/flock"

	"marquee/internal/chat"
	"marquee/internal/concierge"
	"marquee/internal/config"
	"marquee/internal/gateway"
	"marquee/internal/logging"
	"marquee/internal/notify"
	"marquee/internal/ratelimit"
	"marquee/internal/request"
	"marquee/internal/services/plex"
	"marquee/internal/session"
)

// Daemon wires the gateway, concierge, and journal into a single lifecycle
// and enforces single-instance execution through a lock file.
type Daemon struct {
	cfg       *config.Config
	logger    *slog.Logger
	journal   *request.Journal
	sessions  *session.Manager
	concierge *concierge.Concierge
	gateway   *gateway.Server
	router    *notify.Router
	chat      chat.Client

	lockPath string
	lock     *flock.Flock

	running atomic.Bool
	ctx     context.Context
	cancel  context.CancelFunc
}

// Status represents daemon runtime information.
type Status struct {
	Running      bool
	GatewayAddr  string
	JournalPath  string
	LockFilePath string
	OpenSessions int
}

// New assembles a daemon from configuration. Directories are created, the
// journal is opened, and the full workflow stack is wired; nothing listens
// until Start.
func New(cfg *config.Config, logger *slog.Logger) (*Daemon, error) {
	if cfg == nil || logger == nil {
		return nil, errors.New("daemon requires config and logger")
	}
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, err
	}

	journal, err := request.OpenJournal(cfg.JournalPath())
	if err != nil {
		return nil, fmt.Errorf("open request journal: %w", err)
	}

	var client chat.Client = chat.NoopClient{}
	if cfg.Chat.WebhookURL != "" {
		client = chat.NewWebhookClient(cfg.Chat.WebhookURL, time.Duration(cfg.Chat.RequestTimeout)*time.Second)
	}

	router := notify.NewRouter(cfg, client, logger)
	dispatcher, err := request.NewDispatcher(router, journal, logger)
	if err != nil {
		_ = journal.Close()
		return nil, err
	}

	sessions := session.NewManager(time.Duration(cfg.Sessions.TimeoutSeconds)*time.Second, logger)

	c, err := concierge.New(cfg, concierge.Deps{
		Searcher:   plex.NewClient(cfg),
		Sessions:   sessions,
		Dispatcher: dispatcher,
		Router:     router,
		Limiter:    ratelimit.New(cfg.RateLimit),
		Logger:     logger,
	})
	if err != nil {
		sessions.Close()
		_ = journal.Close()
		return nil, err
	}

	srv, err := gateway.New(cfg, c, logger)
	if err != nil {
		sessions.Close()
		_ = journal.Close()
		return nil, err
	}

	d := &Daemon{
		cfg:       cfg,
		logger:    logger,
		journal:   journal,
		sessions:  sessions,
		concierge: c,
		gateway:   srv,
		router:    router,
		chat:      client,
		lockPath:  cfg.LockPath(),
		lock:      flock.New(cfg.LockPath()),
	}
	sessions.OnExpire(d.announceExpiry)
	return d, nil
}

// Start acquires the instance lock and brings the gateway up.
func (d *Daemon) Start(ctx context.Context) error {
	if d.running.Load() {
		return errors.New("daemon already running")
	}

	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another marquee instance is already running")
	}

	d.ctx, d.cancel = context.WithCancel(ctx)
	if err := d.gateway.Start(d.ctx); err != nil {
		_ = d.lock.Unlock()
		d.cancel()
		d.ctx = nil
		d.cancel = nil
		return fmt.Errorf("start gateway: %w", err)
	}

	d.running.Store(true)
	d.logger.Info("marquee daemon started",
		logging.String("gateway", d.gateway.Addr()),
		logging.String("lock", d.lockPath))
	return nil
}

// Stop shuts the gateway down and releases the instance lock.
func (d *Daemon) Stop() {
	if !d.running.Load() {
		return
	}

	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	d.gateway.Stop()
	d.sessions.Close()
	if err := d.lock.Unlock(); err != nil {
		d.logger.Warn("failed to release instance lock", logging.Error(err))
	}
	d.ctx = nil
	d.running.Store(false)
	d.logger.Info("marquee daemon stopped")
}

// Close releases resources held by the daemon.
func (d *Daemon) Close() error {
	d.Stop()
	return d.journal.Close()
}

// Status returns current runtime information.
func (d *Daemon) Status() Status {
	return Status{
		Running:      d.running.Load(),
		GatewayAddr:  d.gateway.Addr(),
		JournalPath:  d.journal.Path(),
		LockFilePath: d.lockPath,
		OpenSessions: d.sessions.OpenCount(),
	}
}

// Journal exposes the request journal for CLI inspection commands.
func (d *Daemon) Journal() *request.Journal {
	return d.journal
}

// TestNotification sends a probe through the notification router.
func (d *Daemon) TestNotification(ctx context.Context) error {
	return d.router.Test(ctx)
}

// announceExpiry tells the channel that a pending selection lapsed. Runs on
// the session manager's timer goroutine.
func (d *Daemon) announceExpiry(sess session.Session) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(d.cfg.Chat.RequestTimeout)*time.Second)
	defer cancel()
	text := "The movie selection timed out. Run /request again when you are ready."
	if err := d.chat.Respond(ctx, sess.Key.ChannelID, text); err != nil {
		d.logger.Debug("expiry announcement skipped", logging.Error(err))
	}
}
