package concierge

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"marquee/internal/config"
	"marquee/internal/library"
	"marquee/internal/logging"
	"marquee/internal/match"
	"marquee/internal/notify"
	"marquee/internal/ratelimit"
	"marquee/internal/request"
	"marquee/internal/services"
	"marquee/internal/session"
	"marquee/internal/title"
)

// ErrRateLimited is returned when a user exceeds their command budget.
var ErrRateLimited = errors.New("too many requests, slow down")

// Deps carries the collaborators the concierge orchestrates.
type Deps struct {
	Searcher   library.Searcher
	Sessions   *session.Manager
	Dispatcher *request.Dispatcher
	Router     *notify.Router
	Limiter    *ratelimit.Limiter
	Logger     *slog.Logger
}

// Concierge runs the request-resolution workflow: normalize, search, rank,
// disambiguate, dispatch, notify. Several workflows may be in flight for
// different users; the session manager is the only shared mutable state.
type Concierge struct {
	searcher         library.Searcher
	ranker           *match.Ranker
	sessions         *session.Manager
	dispatcher       *request.Dispatcher
	router           *notify.Router
	limiter          *ratelimit.Limiter
	logger           *slog.Logger
	forwardUnmatched bool
}

// New wires a concierge from config and dependencies.
func New(cfg *config.Config, deps Deps) (*Concierge, error) {
	if deps.Searcher == nil || deps.Sessions == nil || deps.Dispatcher == nil || deps.Router == nil {
		return nil, errors.New("concierge requires searcher, sessions, dispatcher, and router")
	}
	logger := deps.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Concierge{
		searcher: deps.Searcher,
		ranker: match.NewRanker(match.Thresholds{
			Floor:      cfg.Match.RelevanceFloor,
			Confidence: cfg.Match.ConfidenceThreshold,
			Margin:     cfg.Match.ClosenessMargin,
			MaxOffers:  cfg.Match.MaxOffers,
		}),
		sessions:         deps.Sessions,
		dispatcher:       deps.Dispatcher,
		router:           deps.Router,
		limiter:          deps.Limiter,
		logger:           logger,
		forwardUnmatched: cfg.Notifications.ForwardUnmatched,
	}, nil
}

// StartResult is the outcome of HandleRequestStart. Exactly one of the three
// paths is populated: an immediate Record for a single match, a Session to
// render as a choice prompt for an ambiguous field, or neither for NoMatch.
type StartResult struct {
	Query   title.Query
	Outcome match.Outcome
	Session session.Session
	Record  *request.Record
	// UnmatchedForwarded reports that the admin was told about a request
	// that matched nothing.
	UnmatchedForwarded bool
}

// HandleQuery answers the read-only availability check: normalize, search,
// rank. No session or request is ever created here.
func (c *Concierge) HandleQuery(ctx context.Context, rawText, userID, channelID string) (match.Outcome, error) {
	ctx = annotate(ctx, "query", userID, channelID)
	logger := logging.WithContext(ctx, c.logger)

	if !c.limiter.Allow(userID) {
		return match.Outcome{}, ErrRateLimited
	}

	query, err := title.Normalize(rawText)
	if err != nil {
		return match.Outcome{}, err
	}

	candidates, err := c.search(ctx, query)
	if err != nil {
		return match.Outcome{}, err
	}

	outcome := c.ranker.Rank(query, candidates)
	logger.Info("query ranked",
		logging.String("key", query.Key),
		logging.String("outcome", outcome.Kind.String()),
		logging.Int("candidates", len(candidates)))
	return outcome, nil
}

// HandleRequestStart begins a request workflow. A single match dispatches
// immediately; an ambiguous field opens a disambiguation session; no match
// optionally forwards the raw title to the admin.
func (c *Concierge) HandleRequestStart(ctx context.Context, rawText, userID, channelID string) (StartResult, error) {
	ctx = annotate(ctx, "request", userID, channelID)
	logger := logging.WithContext(ctx, c.logger)

	if !c.limiter.Allow(userID) {
		return StartResult{}, ErrRateLimited
	}

	query, err := title.Normalize(rawText)
	if err != nil {
		return StartResult{}, err
	}

	candidates, err := c.search(ctx, query)
	if err != nil {
		return StartResult{}, err
	}

	outcome := c.ranker.Rank(query, candidates)
	result := StartResult{Query: query, Outcome: outcome}

	switch outcome.Kind {
	case match.NoMatch:
		if c.forwardUnmatched {
			if err := c.router.DeliverUnmatched(ctx, userID, rawText); err == nil {
				result.UnmatchedForwarded = true
			}
		}
		logger.Info("request matched nothing",
			logging.String("key", query.Key),
			logging.Bool("forwarded", result.UnmatchedForwarded))
		return result, nil

	case match.SingleMatch:
		record := c.dispatcher.Dispatch(ctx, userID, outcome.Best.Candidate)
		result.Record = &record
		return result, nil

	default: // match.Ambiguous
		sess, err := c.sessions.Open(session.Key{OwnerUserID: userID, ChannelID: channelID}, outcome.Offers)
		if err != nil {
			return StartResult{}, err
		}
		result.Session = sess
		return result, nil
	}
}

// HandleChoice resolves a pending disambiguation session and dispatches the
// request for the chosen candidate. Session-lifecycle failures pass through
// untouched so callers can answer the user precisely.
func (c *Concierge) HandleChoice(ctx context.Context, sessionID, userID string, index int) (request.Record, error) {
	ctx = services.WithSessionID(annotate(ctx, "choose", userID, ""), sessionID)

	chosen, _, err := c.sessions.Choose(sessionID, userID, index)
	if err != nil {
		return request.Record{}, err
	}
	return c.dispatcher.Dispatch(ctx, userID, chosen.Candidate), nil
}

// HandleCancel abandons a pending disambiguation session.
func (c *Concierge) HandleCancel(ctx context.Context, sessionID, userID string) error {
	return c.sessions.Cancel(sessionID, userID)
}

// Sessions exposes the session manager so the serve layer can register expiry
// notifications.
func (c *Concierge) Sessions() *session.Manager {
	return c.sessions
}

func (c *Concierge) search(ctx context.Context, query title.Query) ([]library.Candidate, error) {
	started := time.Now()
	candidates, err := c.searcher.Search(ctx, query.Key)
	if err != nil {
		logging.WithContext(ctx, c.logger).Warn("library search failed",
			logging.String("key", query.Key),
			logging.Duration("elapsed", time.Since(started)),
			logging.Error(err))
		return nil, err
	}
	return candidates, nil
}

func annotate(ctx context.Context, command, userID, channelID string) context.Context {
	ctx = services.WithCommand(ctx, command)
	ctx = services.WithUserID(ctx, userID)
	if channelID != "" {
		ctx = services.WithChannelID(ctx, channelID)
	}
	return ctx
}
