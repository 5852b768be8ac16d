package bot

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/example/revtrack/internal/tracker"
	"github.com/example/revtrack/pkg/models"
)

const helpText = `Commands:
/topics - list all topics
/due - topics due today
/overdue - topics not revised in time
/revised <row> - mark a topic revised
/notrevised <row> - reset a topic
/add subject | topic | notes | YYYY-MM-DD - add a topic`

// HandleCommand runs one chat command and returns the reply text
func (b *Bot) HandleCommand(ctx context.Context, command, args string) string {
	switch command {
	case "start", "help":
		return helpText
	case "topics":
		rows, err := b.svc.ListTopics(ctx)
		if err != nil {
			return b.failure("topics", err)
		}
		return formatRows("Topics", rows)
	case "due":
		rows, err := b.svc.ListDueToday(ctx, b.now())
		if err != nil {
			return b.failure("due", err)
		}
		return formatRows("Due today", rows)
	case "overdue":
		rows, err := b.svc.ListOverdue(ctx, b.now())
		if err != nil {
			return b.failure("overdue", err)
		}
		return formatRows("Overdue", rows)
	case "revised":
		return b.handleMark(ctx, args, models.StatusRevised)
	case "notrevised":
		return b.handleMark(ctx, args, models.StatusNotRevised)
	case "add":
		return b.handleAdd(ctx, args)
	default:
		return "Unknown command. Send /help for the list of commands."
	}
}

func (b *Bot) handleMark(ctx context.Context, args string, status models.Status) string {
	row, err := strconv.Atoi(strings.TrimSpace(args))
	if err != nil {
		return "Usage: /revised <row> or /notrevised <row>"
	}

	update, err := b.svc.MarkStatus(ctx, row, status, b.now())
	if errors.Is(err, tracker.ErrRowNotFound) {
		return fmt.Sprintf("Row %d not found.", row)
	}
	if err != nil {
		return b.failure("mark status", err)
	}

	if update.Status == models.StatusRevised {
		return fmt.Sprintf("Row %d revised on %s, next due %s.", row, update.LastRevisedDate, update.NextDueDate)
	}
	return fmt.Sprintf("Row %d marked %s.", row, update.Status)
}

func (b *Bot) handleAdd(ctx context.Context, args string) string {
	parts := strings.Split(args, "|")
	for len(parts) < 4 {
		parts = append(parts, "")
	}

	err := b.svc.AddTopic(ctx, parts[0], parts[1], parts[2], parts[3])
	if errors.Is(err, tracker.ErrMissingField) {
		return "Usage: /add subject | topic | notes | YYYY-MM-DD"
	}
	if err != nil {
		return b.failure("add", err)
	}
	return "Topic added."
}

func (b *Bot) failure(op string, err error) string {
	log.Printf("Error in /%s: %v", op, err)
	return "Something went wrong, please try again later."
}

// FormatDigest renders the daily digest as a chat message
func FormatDigest(d *tracker.Digest) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Revision plan for %s\n\n", d.Date)
	sb.WriteString(formatRows("Due today", d.DueToday))
	sb.WriteString("\n\n")
	sb.WriteString(formatRows("Overdue", d.Overdue))
	return sb.String()
}

func formatRows(title string, rows []models.TopicRow) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s (%d):", title, len(rows))
	if len(rows) == 0 {
		sb.WriteString("\nnothing")
	}
	for _, r := range rows {
		fmt.Fprintf(&sb, "\n#%d %s - %s [%s]", r.Index, r.Subject, r.Topic, r.Status)
		if r.NextDueDate != "" {
			fmt.Fprintf(&sb, ", next %s", r.NextDueDate)
		}
	}
	return sb.String()
}
