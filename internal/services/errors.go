package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrExternalService = errors.New("external service error")
	ErrValidation      = errors.New("validation error")
	ErrConfiguration   = errors.New("configuration error")
	ErrNotFound        = errors.New("not found")
	ErrTimeout         = errors.New("timeout")
	ErrTransient       = errors.New("transient failure")
)

// Wrap builds an error message that includes component context while tagging it
// with the provided marker for later reply classification. The marker should be
// one of the exported sentinel errors above.
func Wrap(marker error, component, operation, message string, err error) error {
	detail := buildDetail(component, operation, message)
	if marker == nil {
		marker = ErrTransient
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// ReplyClass describes how a workflow failure should be presented to the
// invoking chat user.
type ReplyClass string

const (
	// ReplyUserError covers failures the user can correct (bad input, invalid
	// selection). The message can be surfaced verbatim.
	ReplyUserError ReplyClass = "user_error"
	// ReplyRetryLater covers upstream outages and timeouts; the user should be
	// told to try again rather than shown transport detail.
	ReplyRetryLater ReplyClass = "retry_later"
	// ReplyInternal covers everything else; the user gets a generic apology
	// while the detail goes to the log.
	ReplyInternal ReplyClass = "internal"
)

// ClassifyReply maps a workflow error to the reply category handlers use when
// answering the invoking user.
func ClassifyReply(err error) ReplyClass {
	switch {
	case errors.Is(err, ErrValidation), errors.Is(err, ErrNotFound):
		return ReplyUserError
	case errors.Is(err, ErrTimeout), errors.Is(err, ErrExternalService), errors.Is(err, ErrTransient):
		return ReplyRetryLater
	default:
		return ReplyInternal
	}
}

func buildDetail(component, operation, message string) string {
	parts := make([]string, 0, 3)
	if component = strings.TrimSpace(component); component != "" {
		parts = append(parts, component)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
