package ui

import (
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ilint/internal/driver"
)

func update(t *testing.T, m tea.Model, msg tea.Msg) *progressModel {
	t.Helper()
	next, _ := m.Update(msg)
	pm, ok := next.(*progressModel)
	require.True(t, ok)
	return pm
}

func TestProgressModelFollowsEvents(t *testing.T) {
	files := []string{"a.xliff", "b.xliff", "c.js"}
	m := NewProgressModel("ilint", files, nil)

	pm := update(t, m, eventMsg(driver.Event{File: "a.xliff", Stage: driver.StageParse, Status: driver.StatusWorking}))
	assert.Equal(t, "parsing", pm.items[0].status)
	assert.InDelta(t, 0.2/3, pm.fraction(), 1e-9)

	pm = update(t, pm, eventMsg(driver.Event{File: "a.xliff", Stage: driver.StageFix, Status: driver.StatusWorking}))
	assert.Equal(t, "fixing", pm.items[0].status)

	pm = update(t, pm, eventMsg(driver.Event{File: "a.xliff", Status: driver.StatusDone, Results: 4}))
	pm = update(t, pm, eventMsg(driver.Event{File: "b.xliff", Status: driver.StatusError, Err: errors.New("bad xml")}))
	pm = update(t, pm, eventMsg(driver.Event{File: "unknown", Status: driver.StatusDone}))

	assert.Equal(t, "done", pm.items[0].status)
	assert.Equal(t, "error", pm.items[1].status)
	assert.Equal(t, "queued", pm.items[2].status)
	assert.Equal(t, 2, pm.settled())
	assert.InDelta(t, 2.0/3, pm.fraction(), 1e-9)

	view := pm.View()
	assert.Contains(t, view, "ilint (2/3)")
	assert.Contains(t, view, "a.xliff (4)")
	assert.Contains(t, view, "c.js")
}

func TestProgressModelQuitsWhenEventsClose(t *testing.T) {
	events := make(chan driver.Event)
	close(events)
	m := NewProgressModel("ilint", []string{"a"}, events)

	pm := m.(*progressModel)
	msg := pm.listenForEvent()()
	assert.Equal(t, doneMsg{}, msg)

	pm = update(t, pm, msg)
	assert.True(t, pm.done)
	assert.Contains(t, pm.View(), "done: ilint")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "a/very/...", truncate("a/very/long/path", 10))
	assert.Equal(t, "ab", truncate("abcdef", 2))
	assert.Equal(t, "abcdef", truncate("abcdef", 0))
}
