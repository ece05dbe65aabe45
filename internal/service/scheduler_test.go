package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSchedulerRejectsBadSpec(t *testing.T) {
	svc := newTestService(&fakeFetcher{}, &fakeRepo{})

	_, err := NewScheduler("not a cron spec", svc, time.Minute)
	assert.Error(t, err)
}

func TestNewSchedulerAcceptsStandardSpec(t *testing.T) {
	svc := newTestService(&fakeFetcher{}, &fakeRepo{})

	s, err := NewScheduler("*/5 * * * *", svc, time.Minute)
	require.NoError(t, err)
	require.NotNil(t, s)
}
