package formatting

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"slashbind/internal/core/domain"
	"slashbind/pkg/options"
)

const (
	MsgAdminRequired  = "You need Administrator permissions to use this command."
	MsgPong           = "Pong!"
	MsgInternalError  = "Something went wrong while running this command."
	MsgUnknownCommand = "This command is not handled by the bot."
	MsgHistoryError   = "Failed to load the command history."
	MsgNoHistory      = "No commands have been used in this server yet."
	MsgDivisionByZero = "Cannot divide by zero."
	MsgUserNotFound   = "Could not find that user."
)

func MsgCurrentTime(now time.Time) string {
	return fmt.Sprintf("It is <t:%d:F> (%s UTC).", now.Unix(), now.UTC().Format(time.RFC3339))
}

func MsgWhois(username, id string, created time.Time, bot bool) string {
	kind := "User"
	if bot {
		kind = "Bot"
	}
	return fmt.Sprintf("%s **%s** (<@%s>), account created <t:%d:D>.", kind, username, id, created.Unix())
}

// MsgParseError turns a parse failure into a short explanation for the invoking user.
func MsgParseError(err error) string {
	var pe *options.ParseError
	if !errors.As(err, &pe) {
		return MsgInternalError
	}

	switch {
	case errors.Is(err, options.ErrMissingRequiredOption):
		return fmt.Sprintf("Missing required option `%s`.", pe.Name)
	case errors.Is(err, options.ErrTypeMismatch):
		return fmt.Sprintf("Option `%s` should be a %s.", pe.Name, pe.Expected)
	case errors.Is(err, options.ErrUnknownChoice):
		return fmt.Sprintf("`%s` is not one of the allowed values for `%s`.", pe.Actual, pe.Name)
	case errors.Is(err, options.ErrCustom):
		return fmt.Sprintf("Option `%s` is invalid: %v.", pe.Name, pe.Cause)
	case errors.Is(err, options.ErrUnknownVariant), errors.Is(err, options.ErrUnknownOption):
		return "This command is out of date. Please try again in a minute."
	}
	return "This command could not be understood."
}

func MsgHistory(entries []domain.Invocation) string {
	if len(entries) == 0 {
		return MsgNoHistory
	}

	var sb strings.Builder
	sb.WriteString("Recent commands:\n")
	for _, e := range entries {
		fmt.Fprintf(&sb, "- `/%s` by <@%s> <t:%d:R>", e.Command, e.UserID, e.CreatedAt.Unix())
		if e.Status != domain.StatusOK {
			fmt.Fprintf(&sb, " (%s)", e.Status)
		}
		sb.WriteString("\n")
	}
	return sb.String()
}
