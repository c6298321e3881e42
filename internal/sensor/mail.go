package sensor

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
)

// IconMail prefixes the unread mail count.
const IconMail = "📧"

// Mail returns an adapter that runs command and shows its output when it
// is a positive integer. Zero, errors and garbage all show nothing.
func Mail(runner Runner, command []string) Adapter {
	return func(ctx context.Context) string {
		if len(command) == 0 {
			return ""
		}
		out, err := runner.Output(ctx, command[0], command[1:]...)
		if err != nil {
			slog.Debug("mail count failed", "command", command[0], "error", err)
			return ""
		}
		count, err := strconv.Atoi(strings.TrimSpace(string(out)))
		if err != nil || count <= 0 {
			return ""
		}
		return fmt.Sprintf("%s %d", IconMail, count)
	}
}
