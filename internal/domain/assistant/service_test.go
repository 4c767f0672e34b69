package assistant_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"bizdesk/internal/core/apperror"
	"bizdesk/internal/core/types"
	"bizdesk/internal/domain/assistant"
	"bizdesk/internal/domain/reports"
)

func dashboard() *reports.Dashboard {
	eur := func(s string) types.Amount { return types.NewAmount(types.MustMoney(s), "EUR") }
	return &reports.Dashboard{
		Revenue:         eur("1200"),
		Expenses:        eur("200"),
		Profit:          eur("1000"),
		PendingInvoices: 2,
		TopClients:      []reports.ClientSpend{{Name: "Acme", Total: eur("900")}},
		StockAlerts:     []reports.StockAlert{{Name: "Widget", SKU: "W-1", Stock: 3, Status: "low_stock"}},
		RecentInvoices: []reports.InvoiceSummary{{
			Number: "INV-2026-00001", Counterparty: "Acme",
			Date: time.Date(2026, 4, 2, 0, 0, 0, 0, time.UTC), Amount: eur("25"), Status: "paid",
		}},
	}
}

func newService(t *testing.T, ctrl *gomock.Controller) (*assistant.Service, *assistant.MockCompleter, *assistant.MockDashboardSource) {
	t.Helper()
	completer := assistant.NewMockCompleter(ctrl)
	source := assistant.NewMockDashboardSource(ctrl)
	f, err := types.NewFormatter("en", "EUR")
	require.NoError(t, err)
	return assistant.NewService(completer, source, f, assistant.Config{Model: "test-model", TopClients: 3}), completer, source
}

func TestContextPrompt(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc, _, source := newService(t, ctrl)
	source.EXPECT().Dashboard(gomock.Any(), 3).Return(dashboard(), nil)

	prompt, err := svc.ContextPrompt(context.Background())
	require.NoError(t, err)
	assert.Regexp(t, `Revenue: \S+ 1,200\.00`, prompt)
	assert.Contains(t, prompt, "Pending invoices: 2")
	assert.Regexp(t, `- Acme: \S+ 900\.00`, prompt)
	assert.Contains(t, prompt, "- Widget (W-1): 3 in stock, low_stock")
	assert.Contains(t, prompt, "INV-2026-00001 2026-04-02 Acme")
}

func TestConversation_Send(t *testing.T) {
	tests := []struct {
		name         string
		setup        func(c *assistant.MockCompleter, s *assistant.MockDashboardSource)
		wantText     string
		wantFallback bool
	}{
		{
			name: "reply",
			setup: func(c *assistant.MockCompleter, s *assistant.MockDashboardSource) {
				s.EXPECT().Dashboard(gomock.Any(), gomock.Any()).Return(dashboard(), nil)
				c.EXPECT().Complete(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, req assistant.Request) (string, error) {
						assert.Equal(t, "test-model", req.Model)
						assert.Equal(t, "How are we doing?", req.Prompt)
						assert.Contains(t, req.System, "Profit:")
						return " Profit is healthy. ", nil
					})
			},
			wantText: "Profit is healthy.",
		},
		{
			name: "provider error",
			setup: func(c *assistant.MockCompleter, s *assistant.MockDashboardSource) {
				s.EXPECT().Dashboard(gomock.Any(), gomock.Any()).Return(dashboard(), nil)
				c.EXPECT().Complete(gomock.Any(), gomock.Any()).Return("", errors.New("503"))
			},
			wantText:     assistant.FallbackReply,
			wantFallback: true,
		},
		{
			name: "empty reply",
			setup: func(c *assistant.MockCompleter, s *assistant.MockDashboardSource) {
				s.EXPECT().Dashboard(gomock.Any(), gomock.Any()).Return(dashboard(), nil)
				c.EXPECT().Complete(gomock.Any(), gomock.Any()).Return("   ", nil)
			},
			wantText:     assistant.FallbackReply,
			wantFallback: true,
		},
		{
			name: "dashboard error",
			setup: func(c *assistant.MockCompleter, s *assistant.MockDashboardSource) {
				s.EXPECT().Dashboard(gomock.Any(), gomock.Any()).Return(nil, errors.New("boom"))
			},
			wantText:     assistant.FallbackReply,
			wantFallback: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			svc, completer, source := newService(t, ctrl)
			tt.setup(completer, source)

			conv := svc.NewConversation()
			reply, err := conv.Send(context.Background(), "How are we doing?")
			require.NoError(t, err)
			assert.Equal(t, tt.wantText, reply.Text)
			assert.Equal(t, tt.wantFallback, reply.Fallback)

			msgs := conv.Messages()
			require.Len(t, msgs, 2)
			assert.Equal(t, assistant.RoleUser, msgs[0].Role)
			assert.Equal(t, assistant.RoleAssistant, msgs[1].Role)
			assert.False(t, conv.Busy())
		})
	}
}

func TestConversation_RejectsWhileInFlight(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc, completer, source := newService(t, ctrl)
	conv := svc.NewConversation()

	release := make(chan struct{})
	started := make(chan struct{})
	source.EXPECT().Dashboard(gomock.Any(), gomock.Any()).Return(dashboard(), nil)
	completer.EXPECT().Complete(gomock.Any(), gomock.Any()).
		DoAndReturn(func(context.Context, assistant.Request) (string, error) {
			close(started)
			<-release
			return "done", nil
		})

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = conv.Send(context.Background(), "first")
	}()

	<-started
	_, err := conv.Send(context.Background(), "second")
	assert.True(t, apperror.IsCode(err, apperror.CodeBusy), "got %v", err)

	close(release)
	<-done
	assert.Len(t, conv.Messages(), 2)
}

func TestConversation_RejectsEmptyMessage(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc, _, _ := newService(t, ctrl)
	_, err := svc.NewConversation().Send(context.Background(), "  ")
	assert.True(t, apperror.IsCode(err, apperror.CodeValidation))
}

func TestConversation_RecoversAfterCompleterPanic(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc, completer, source := newService(t, ctrl)
	conv := svc.NewConversation()

	source.EXPECT().Dashboard(gomock.Any(), gomock.Any()).Return(dashboard(), nil).Times(2)
	gomock.InOrder(
		completer.EXPECT().Complete(gomock.Any(), gomock.Any()).
			DoAndReturn(func(context.Context, assistant.Request) (string, error) {
				panic("provider sdk bug")
			}),
		completer.EXPECT().Complete(gomock.Any(), gomock.Any()).Return("Back online.", nil),
	)

	assert.Panics(t, func() {
		_, _ = conv.Send(context.Background(), "first")
	})
	assert.False(t, conv.Busy())
	msgs := conv.Messages()
	require.Len(t, msgs, 2)
	assert.True(t, msgs[1].Fallback)

	reply, err := conv.Send(context.Background(), "second")
	require.NoError(t, err)
	assert.Equal(t, "Back online.", reply.Text)
	assert.Len(t, conv.Messages(), 4)
}
