package gateway

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"marquee/internal/chat"
	"marquee/internal/concierge"
	"marquee/internal/logging"
	"marquee/internal/match"
	"marquee/internal/request"
	"marquee/internal/services"
	"marquee/internal/session"
	"marquee/internal/title"
)

// CommandResponse is the reply to a slash-command invocation. Message is
// ready to post back to the invoking channel; the structured fields let
// richer bridges render buttons instead.
type CommandResponse struct {
	Outcome string       `json:"outcome"`
	Message string       `json:"message"`
	Offers  []OfferView  `json:"offers,omitempty"`
	Session *SessionView `json:"session,omitempty"`
	Request *RequestView `json:"request,omitempty"`
}

// OfferView is one selectable candidate in an ambiguous reply.
type OfferView struct {
	Index int    `json:"index"`
	Label string `json:"label"`
}

// SessionView identifies a pending disambiguation exchange.
type SessionView struct {
	ID        string    `json:"id"`
	ExpiresAt time.Time `json:"expires_at"`
}

// RequestView summarizes a dispatched request.
type RequestView struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Year      int    `json:"year"`
	Available bool   `json:"available"`
	Delivered bool   `json:"delivered"`
}

type errorResponse struct {
	Error string `json:"error"`
}

const maxBodyBytes = 16 << 10

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleCommand(w http.ResponseWriter, r *http.Request) {
	var cmd chat.Command
	if !s.decode(w, r, &cmd) {
		return
	}
	if strings.TrimSpace(cmd.UserID) == "" || strings.TrimSpace(cmd.ChannelID) == "" {
		s.writeError(w, http.StatusBadRequest, "user_id and channel_id are required")
		return
	}

	switch cmd.Name {
	case "query":
		outcome, err := s.concierge.HandleQuery(r.Context(), cmd.Text, cmd.UserID, cmd.ChannelID)
		if err != nil {
			s.writeWorkflowError(w, r, err)
			return
		}
		s.writeJSON(w, http.StatusOK, renderQuery(outcome))

	case "request":
		result, err := s.concierge.HandleRequestStart(r.Context(), cmd.Text, cmd.UserID, cmd.ChannelID)
		if err != nil {
			s.writeWorkflowError(w, r, err)
			return
		}
		s.writeJSON(w, http.StatusOK, renderStart(result))

	default:
		s.writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown command %q", cmd.Name))
	}
}

func (s *Server) handleInteraction(w http.ResponseWriter, r *http.Request) {
	var interaction chat.Interaction
	if !s.decode(w, r, &interaction) {
		return
	}
	if strings.TrimSpace(interaction.SessionID) == "" || strings.TrimSpace(interaction.UserID) == "" {
		s.writeError(w, http.StatusBadRequest, "session_id and user_id are required")
		return
	}

	if interaction.Cancel {
		if err := s.concierge.HandleCancel(r.Context(), interaction.SessionID, interaction.UserID); err != nil {
			s.writeWorkflowError(w, r, err)
			return
		}
		s.writeJSON(w, http.StatusOK, CommandResponse{
			Outcome: "cancelled",
			Message: "Selection dismissed. Nothing was requested.",
		})
		return
	}

	record, err := s.concierge.HandleChoice(r.Context(), interaction.SessionID, interaction.UserID, interaction.SelectedIndex)
	if err != nil {
		s.writeWorkflowError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, renderRecord(record))
}

func renderQuery(outcome match.Outcome) CommandResponse {
	switch outcome.Kind {
	case match.SingleMatch:
		label := outcome.Best.Label()
		message := fmt.Sprintf("**%s** is in the library.", label)
		if !outcome.Best.Available {
			message = fmt.Sprintf("**%s** is in the catalog but has no playable copy yet.", label)
		}
		if summary := strings.TrimSpace(outcome.Best.Summary); summary != "" {
			message += "\n" + summary
		}
		return CommandResponse{Outcome: outcome.Kind.String(), Message: message}

	case match.Ambiguous:
		return CommandResponse{
			Outcome: outcome.Kind.String(),
			Message: offerPrompt(outcome.Offers),
			Offers:  offerViews(outcome.Offers),
		}

	default:
		return CommandResponse{
			Outcome: outcome.Kind.String(),
			Message: "No title in the library matches that. Use /request to send it to the owner anyway.",
		}
	}
}

func renderStart(result concierge.StartResult) CommandResponse {
	switch result.Outcome.Kind {
	case match.SingleMatch:
		return renderRecord(*result.Record)

	case match.Ambiguous:
		return CommandResponse{
			Outcome: result.Outcome.Kind.String(),
			Message: offerPrompt(result.Outcome.Offers),
			Offers:  offerViews(result.Outcome.Offers),
			Session: &SessionView{ID: result.Session.ID, ExpiresAt: result.Session.ExpiresAt},
		}

	default:
		message := "No title in the library matches that."
		if result.UnmatchedForwarded {
			message += " The library owner has been told about your request."
		}
		return CommandResponse{Outcome: result.Outcome.Kind.String(), Message: message}
	}
}

func renderRecord(record request.Record) CommandResponse {
	candidate := record.Request.Candidate
	message := fmt.Sprintf("Request for **%s** sent to the library owner.", candidate.Label())
	if candidate.Available {
		message = fmt.Sprintf("**%s** is already in the library; the owner was notified anyway.", candidate.Label())
	}
	if !record.Delivered {
		message = fmt.Sprintf("Request for **%s** is recorded; the owner could not be reached right now.", candidate.Label())
	}
	return CommandResponse{
		Outcome: match.SingleMatch.String(),
		Message: message,
		Request: &RequestView{
			ID:        record.Request.ID,
			Title:     candidate.Title,
			Year:      candidate.Year,
			Available: candidate.Available,
			Delivered: record.Delivered,
		},
	}
}

func offerPrompt(offers []match.Ranked) string {
	var builder strings.Builder
	builder.WriteString("Did you mean:")
	for i, offer := range offers {
		fmt.Fprintf(&builder, "\n%d. %s", i+1, offer.Label())
	}
	return builder.String()
}

func offerViews(offers []match.Ranked) []OfferView {
	views := make([]OfferView, 0, len(offers))
	for i, offer := range offers {
		views = append(views, OfferView{Index: i, Label: offer.Label()})
	}
	return views
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return false
	}
	return true
}

// writeWorkflowError maps workflow failures onto HTTP statuses. User-correctable
// conditions keep their own message; internal failures get a generic apology
// with the detail logged.
func (s *Server) writeWorkflowError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, concierge.ErrRateLimited):
		s.writeError(w, http.StatusTooManyRequests, err.Error())
	case errors.Is(err, title.ErrEmptyQuery):
		s.writeError(w, http.StatusBadRequest, "tell me a movie title to look for")
	case errors.Is(err, session.ErrAlreadyOpen):
		s.writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, session.ErrNotFound), errors.Is(err, session.ErrExpired), errors.Is(err, session.ErrCancelled):
		s.writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, session.ErrNotOwner):
		s.writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, session.ErrInvalidSelection):
		s.writeError(w, http.StatusBadRequest, err.Error())
	default:
		switch services.ClassifyReply(err) {
		case services.ReplyUserError:
			s.writeError(w, http.StatusBadRequest, err.Error())
		case services.ReplyRetryLater:
			s.writeError(w, http.StatusBadGateway, "the library is unreachable right now, try again shortly")
		default:
			s.log().Error("command handling failed",
				logging.String("path", r.URL.Path),
				logging.Error(err))
			s.writeError(w, http.StatusInternalServerError, "something went wrong, try again")
		}
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.log().Error("failed to encode response", logging.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, errorResponse{Error: message})
}
