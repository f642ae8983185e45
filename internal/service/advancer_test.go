package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"outreach/internal/models"
)

func TestAdvancer_Advance(t *testing.T) {
	adv := NewAdvancer(3, 15*time.Minute)
	now := at(10, 0)

	t.Run("mid-sequence schedules next step after its delay", func(t *testing.T) {
		e := &models.Enrollment{Status: models.EnrollmentStatusProcessing, CurrentStep: 0}
		step := &models.Step{Index: 1, Channel: models.ChannelSMS}
		next := &models.Step{Index: 2, Channel: models.ChannelEmail, DelayMinutes: 1440}

		adv.Advance(e, step, next, now)

		assert.Equal(t, models.EnrollmentStatusActive, e.Status)
		assert.Equal(t, 1, e.CurrentStep)
		require.NotNil(t, e.NextRunAt)
		assert.Equal(t, now.Add(24*time.Hour), *e.NextRunAt)
	})

	t.Run("final step completes the enrollment", func(t *testing.T) {
		e := &models.Enrollment{Status: models.EnrollmentStatusProcessing, CurrentStep: 2}
		step := &models.Step{Index: 3, Channel: models.ChannelVoice}

		adv.Advance(e, step, nil, now)

		assert.Equal(t, models.EnrollmentStatusDone, e.Status)
		assert.Equal(t, 3, e.CurrentStep)
		assert.Nil(t, e.NextRunAt)
	})

	t.Run("success clears retry bookkeeping", func(t *testing.T) {
		msg := "provider unavailable"
		e := &models.Enrollment{
			Status:       models.EnrollmentStatusProcessing,
			CurrentStep:  0,
			AttemptCount: 2,
			LastError:    &msg,
		}
		step := &models.Step{Index: 1, Channel: models.ChannelSMS}
		next := &models.Step{Index: 2, Channel: models.ChannelSMS, DelayMinutes: 5}

		adv.Advance(e, step, next, now)

		assert.Zero(t, e.AttemptCount)
		assert.Nil(t, e.LastError)
	})

	t.Run("zero delay is due immediately", func(t *testing.T) {
		e := &models.Enrollment{Status: models.EnrollmentStatusProcessing}
		step := &models.Step{Index: 1, Channel: models.ChannelSMS}
		next := &models.Step{Index: 2, Channel: models.ChannelSMS, DelayMinutes: 0}

		adv.Advance(e, step, next, now)

		require.NotNil(t, e.NextRunAt)
		assert.Equal(t, now, *e.NextRunAt)
	})
}

func TestAdvancer_Fail(t *testing.T) {
	adv := NewAdvancer(3, 15*time.Minute)
	now := at(10, 0)

	t.Run("backoff doubles per attempt and step never advances", func(t *testing.T) {
		e := &models.Enrollment{Status: models.EnrollmentStatusProcessing, CurrentStep: 1}

		adv.Fail(e, "timeout", now)
		assert.Equal(t, models.EnrollmentStatusActive, e.Status)
		assert.Equal(t, 1, e.CurrentStep)
		assert.Equal(t, 1, e.AttemptCount)
		require.NotNil(t, e.NextRunAt)
		assert.Equal(t, now.Add(15*time.Minute), *e.NextRunAt)
		require.NotNil(t, e.LastError)
		assert.Equal(t, "timeout", *e.LastError)

		adv.Fail(e, "timeout again", now)
		assert.Equal(t, models.EnrollmentStatusActive, e.Status)
		assert.Equal(t, 2, e.AttemptCount)
		assert.Equal(t, now.Add(30*time.Minute), *e.NextRunAt)
		assert.Equal(t, "timeout again", *e.LastError)
	})

	t.Run("attempt limit terminates in error", func(t *testing.T) {
		e := &models.Enrollment{
			Status:       models.EnrollmentStatusProcessing,
			CurrentStep:  1,
			AttemptCount: 2,
		}

		adv.Fail(e, "still down", now)

		assert.Equal(t, models.EnrollmentStatusError, e.Status)
		assert.Equal(t, 3, e.AttemptCount)
		assert.Equal(t, 1, e.CurrentStep)
		assert.Nil(t, e.NextRunAt)
		require.NotNil(t, e.LastError)
		assert.Equal(t, "still down", *e.LastError)
	})
}

func TestAdvancer_Defer(t *testing.T) {
	adv := NewAdvancer(3, 15*time.Minute)

	e := &models.Enrollment{
		Status:       models.EnrollmentStatusProcessing,
		CurrentStep:  1,
		AttemptCount: 1,
	}
	resume := at(7, 0)

	adv.Defer(e, resume)

	assert.Equal(t, models.EnrollmentStatusActive, e.Status)
	assert.Equal(t, 1, e.CurrentStep)
	// a deferral is not an attempt
	assert.Equal(t, 1, e.AttemptCount)
	require.NotNil(t, e.NextRunAt)
	assert.Equal(t, resume, *e.NextRunAt)
}

func TestAdvancer_Terminate(t *testing.T) {
	adv := NewAdvancer(3, 15*time.Minute)

	e := &models.Enrollment{Status: models.EnrollmentStatusProcessing, CurrentStep: 2}

	adv.Terminate(e, "campaign 7 has no step 3")

	assert.Equal(t, models.EnrollmentStatusError, e.Status)
	assert.Nil(t, e.NextRunAt)
	require.NotNil(t, e.LastError)
	assert.Equal(t, "campaign 7 has no step 3", *e.LastError)
	assert.True(t, e.Terminal())
}
