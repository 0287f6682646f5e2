package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotificationsShowOneAtATime(t *testing.T) {
	n := NewNotifications(time.Millisecond, time.Millisecond)
	userID := int64(1)

	_, ok := n.Current(userID)
	require.False(t, ok)

	n.Unlock(userID, achievements[0]) // first_chapter
	n.Unlock(userID, achievements[1]) // chapter_explorer

	require.Eventually(t, func() bool {
		_, ok := n.Current(userID)
		return ok
	}, time.Second, time.Millisecond)

	cur, ok := n.Current(userID)
	require.True(t, ok)
	assert.Equal(t, "first_chapter", cur.Achievement.ID)

	// second unlock stays queued until the first is dismissed
	time.Sleep(20 * time.Millisecond)
	cur, ok = n.Current(userID)
	require.True(t, ok)
	assert.Equal(t, "first_chapter", cur.Achievement.ID)

	n.HideCurrent(userID)
	require.Eventually(t, func() bool {
		cur, ok := n.Current(userID)
		return ok && cur.Achievement.ID == "chapter_explorer"
	}, time.Second, time.Millisecond)

	n.HideCurrent(userID)
	time.Sleep(20 * time.Millisecond)
	_, ok = n.Current(userID)
	assert.False(t, ok)
}

func TestNotificationsPerUserQueues(t *testing.T) {
	n := NewNotifications(time.Millisecond, time.Millisecond)

	n.Unlock(1, achievements[0])
	n.Unlock(2, achievements[1])

	require.Eventually(t, func() bool {
		_, ok1 := n.Current(1)
		_, ok2 := n.Current(2)
		return ok1 && ok2
	}, time.Second, time.Millisecond)

	cur1, _ := n.Current(1)
	cur2, _ := n.Current(2)
	assert.Equal(t, "first_chapter", cur1.Achievement.ID)
	assert.Equal(t, "chapter_explorer", cur2.Achievement.ID)
}

func TestNotificationsReset(t *testing.T) {
	n := NewNotifications(time.Millisecond, time.Millisecond)
	userID := int64(1)

	n.Unlock(userID, achievements[0])
	n.Unlock(userID, achievements[1])
	require.Eventually(t, func() bool {
		_, ok := n.Current(userID)
		return ok
	}, time.Second, time.Millisecond)

	n.Reset(userID)
	_, ok := n.Current(userID)
	require.False(t, ok)

	// nothing left queued to reappear
	time.Sleep(20 * time.Millisecond)
	_, ok = n.Current(userID)
	require.False(t, ok)
}

func TestNotificationsHideWithoutCurrent(t *testing.T) {
	n := NewNotifications(time.Millisecond, time.Millisecond)
	n.HideCurrent(1) // must not panic or show anything
	time.Sleep(10 * time.Millisecond)
	_, ok := n.Current(1)
	require.False(t, ok)
}
