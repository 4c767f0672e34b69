package assistant

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"bizdesk/internal/core/apperror"
	"bizdesk/internal/core/types"
	"bizdesk/pkg/logger"
)

// FallbackReply is appended whenever the completion service fails.
const FallbackReply = "Sorry, I could not reach the assistant right now. Please try again later."

const systemPrompt = "You are a business assistant for a small company. " +
	"Answer questions using the dashboard summary below. Be concise.\n\n"

// Config holds assistant settings.
type Config struct {
	Model      string
	TopClients int
}

// Service builds context prompts and starts conversations.
type Service struct {
	completer Completer
	dashboard DashboardSource
	formatter *types.Formatter
	model     string
	topN      int
}

// NewService creates the assistant service.
func NewService(completer Completer, dashboard DashboardSource, formatter *types.Formatter, cfg Config) *Service {
	if cfg.TopClients <= 0 {
		cfg.TopClients = 5
	}
	return &Service{
		completer: completer,
		dashboard: dashboard,
		formatter: formatter,
		model:     cfg.Model,
		topN:      cfg.TopClients,
	}
}

// ContextPrompt renders the fixed-shape summary of the current figures.
func (s *Service) ContextPrompt(ctx context.Context) (string, error) {
	d, err := s.dashboard.Dashboard(ctx, s.topN)
	if err != nil {
		return "", fmt.Errorf("build dashboard: %w", err)
	}
	f := s.formatter

	var b strings.Builder
	fmt.Fprintf(&b, "Revenue: %s\n", f.FormatAmount(d.Revenue))
	fmt.Fprintf(&b, "Expenses: %s\n", f.FormatAmount(d.Expenses))
	fmt.Fprintf(&b, "Profit: %s\n", f.FormatAmount(d.Profit))
	fmt.Fprintf(&b, "Pending invoices: %d\n", d.PendingInvoices)

	b.WriteString("Top clients by spend:\n")
	if len(d.TopClients) == 0 {
		b.WriteString("- none\n")
	}
	for _, c := range d.TopClients {
		fmt.Fprintf(&b, "- %s: %s\n", c.Name, f.FormatAmount(c.Total))
	}

	b.WriteString("Low or out of stock products:\n")
	if len(d.StockAlerts) == 0 {
		b.WriteString("- none\n")
	}
	for _, p := range d.StockAlerts {
		fmt.Fprintf(&b, "- %s (%s): %d in stock, %s\n", p.Name, p.SKU, p.Stock, p.Status)
	}

	b.WriteString("Recent invoices:\n")
	if len(d.RecentInvoices) == 0 {
		b.WriteString("- none\n")
	}
	for _, inv := range d.RecentInvoices {
		fmt.Fprintf(&b, "- %s %s %s %s (%s)\n",
			inv.Number, inv.Date.Format(time.DateOnly), inv.Counterparty, f.FormatAmount(inv.Amount), inv.Status)
	}
	return b.String(), nil
}

// NewConversation starts an empty conversation.
func (s *Service) NewConversation() *Conversation {
	return &Conversation{svc: s}
}

// Conversation is one chat thread. Only one request may be in flight at a time.
type Conversation struct {
	svc *Service

	mu       sync.Mutex
	inFlight bool
	messages []Message
}

// Send appends the user message, asks the completion service and appends
// exactly one reply. Provider failures become the fallback reply; the only
// errors returned are for empty input or a request already in flight.
func (c *Conversation) Send(ctx context.Context, text string) (Message, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Message{}, apperror.NewValidation("message is empty").WithDetail("field", "text")
	}

	c.mu.Lock()
	if c.inFlight {
		c.mu.Unlock()
		return Message{}, apperror.NewBusy("a reply is still being generated")
	}
	c.inFlight = true
	history := append([]Message(nil), c.messages...)
	c.messages = append(c.messages, Message{Role: RoleUser, Text: text, At: time.Now().UTC()})
	c.mu.Unlock()

	var reply Message
	defer func() {
		// a panicking completer still leaves one reply and frees the conversation
		if reply.Role == "" {
			reply = fallbackMessage()
		}
		c.mu.Lock()
		c.messages = append(c.messages, reply)
		c.inFlight = false
		c.mu.Unlock()
	}()

	reply = c.ask(ctx, history, text)
	return reply, nil
}

func fallbackMessage() Message {
	return Message{Role: RoleAssistant, Text: FallbackReply, Fallback: true, At: time.Now().UTC()}
}

func (c *Conversation) ask(ctx context.Context, history []Message, text string) Message {
	fallback := fallbackMessage()

	summary, err := c.svc.ContextPrompt(ctx)
	if err != nil {
		logger.Warn(ctx, "assistant context unavailable", "error", err)
		return fallback
	}
	out, err := c.svc.completer.Complete(ctx, Request{
		Model:   c.svc.model,
		System:  systemPrompt + summary,
		History: history,
		Prompt:  text,
	})
	if err != nil {
		logger.Warn(ctx, "assistant completion failed", "error", err)
		return fallback
	}
	out = strings.TrimSpace(out)
	if out == "" {
		logger.Warn(ctx, "assistant returned an empty reply")
		return fallback
	}
	return Message{Role: RoleAssistant, Text: out, At: time.Now().UTC()}
}

// Messages returns a copy of the conversation so far.
func (c *Conversation) Messages() []Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Message(nil), c.messages...)
}

// Busy reports whether a request is in flight.
func (c *Conversation) Busy() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inFlight
}
