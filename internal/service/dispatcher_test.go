package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"outreach/internal/models"
	"outreach/internal/provider"
)

func TestDispatcher_Dispatch(t *testing.T) {
	t.Run("routes to the channel's provider", func(t *testing.T) {
		var gotRecipient, gotContent string
		providers := map[models.Channel]provider.Provider{
			models.ChannelSMS: provider.Func(func(ctx context.Context, recipient, content string) (string, error) {
				gotRecipient, gotContent = recipient, content
				return "sms-123", nil
			}),
			models.ChannelEmail: provider.Func(func(ctx context.Context, recipient, content string) (string, error) {
				t.Error("email provider should not be called")
				return "", nil
			}),
		}
		d := NewDispatcher(providers, time.Second)

		outcome := d.Dispatch(context.Background(), models.ChannelSMS, "+254700000001", "Hi John")

		require.NoError(t, outcome.Err)
		assert.Equal(t, "sms-123", outcome.DeliveryID)
		assert.Equal(t, "+254700000001", gotRecipient)
		assert.Equal(t, "Hi John", gotContent)
	})

	t.Run("unknown channel", func(t *testing.T) {
		d := NewDispatcher(map[models.Channel]provider.Provider{}, time.Second)

		outcome := d.Dispatch(context.Background(), models.ChannelVoice, "+254700000001", "call me")

		require.Error(t, outcome.Err)
		assert.Contains(t, outcome.Err.Error(), "no provider configured")
	})

	t.Run("provider failure wraps into DispatchError", func(t *testing.T) {
		providers := map[models.Channel]provider.Provider{
			models.ChannelEmail: provider.Func(func(ctx context.Context, recipient, content string) (string, error) {
				return "", errors.New("mailbox full")
			}),
		}
		d := NewDispatcher(providers, time.Second)

		outcome := d.Dispatch(context.Background(), models.ChannelEmail, "a@example.com", "hello")

		var dispatchErr *DispatchError
		require.ErrorAs(t, outcome.Err, &dispatchErr)
		assert.Equal(t, "email", dispatchErr.Channel)
		assert.Contains(t, dispatchErr.Reason, "mailbox full")
		assert.False(t, dispatchErr.Timeout)
	})

	t.Run("slow provider times out", func(t *testing.T) {
		providers := map[models.Channel]provider.Provider{
			models.ChannelSMS: provider.Func(func(ctx context.Context, recipient, content string) (string, error) {
				select {
				case <-time.After(5 * time.Second):
					return "late", nil
				case <-ctx.Done():
					return "", ctx.Err()
				}
			}),
		}
		d := NewDispatcher(providers, 20*time.Millisecond)

		start := time.Now()
		outcome := d.Dispatch(context.Background(), models.ChannelSMS, "+254700000001", "hi")

		var dispatchErr *DispatchError
		require.ErrorAs(t, outcome.Err, &dispatchErr)
		assert.True(t, dispatchErr.Timeout)
		assert.Less(t, time.Since(start), time.Second)
	})

	t.Run("provider ignoring the context still times out", func(t *testing.T) {
		blocked := make(chan struct{})
		t.Cleanup(func() { close(blocked) })

		providers := map[models.Channel]provider.Provider{
			models.ChannelVoice: provider.Func(func(ctx context.Context, recipient, content string) (string, error) {
				<-blocked
				return "", nil
			}),
		}
		d := NewDispatcher(providers, 20*time.Millisecond)

		outcome := d.Dispatch(context.Background(), models.ChannelVoice, "+254700000001", "hi")

		var dispatchErr *DispatchError
		require.ErrorAs(t, outcome.Err, &dispatchErr)
		assert.True(t, dispatchErr.Timeout)
	})

	t.Run("cancelled parent context", func(t *testing.T) {
		providers := map[models.Channel]provider.Provider{
			models.ChannelSMS: provider.Func(func(ctx context.Context, recipient, content string) (string, error) {
				<-ctx.Done()
				return "", ctx.Err()
			}),
		}
		d := NewDispatcher(providers, time.Minute)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		outcome := d.Dispatch(ctx, models.ChannelSMS, "+254700000001", "hi")
		require.Error(t, outcome.Err)
	})
}
