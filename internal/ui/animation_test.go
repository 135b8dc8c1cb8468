package ui

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tamatots/internal/pet"
)

func update(m Model, msg tea.Msg) Model {
	next, _ := m.Update(msg)
	return next.(Model)
}

func TestWashAnimatesOnEmptyField(t *testing.T) {
	m := startedModel(t)
	require.Empty(t, m.Engine.Messes())

	m = press(m, "w")

	assert.Equal(t, AnimWash, m.Animation.Type)
	assert.Contains(t, m.Message, "Already squeaky clean")
}

func TestAnimationRunsToCompletion(t *testing.T) {
	m := startedModel(t)
	m = press(m, "d")
	require.Equal(t, AnimWater, m.Animation.Type)
	started := m.Animation.StartTime

	for i := 0; i < AnimationTotalFrames(AnimWater); i++ {
		require.Equal(t, AnimWater, m.Animation.Type, "frame %d", i)
		m = update(m, animTickMsg{started: started})
	}

	assert.Equal(t, AnimNone, m.Animation.Type)

	m = press(m, "d")
	assert.Equal(t, AnimWater, m.Animation.Type, "input is accepted again once the animation ends")
}

func TestStaleAnimationTickIsDropped(t *testing.T) {
	clock := mockTimeNow(t)
	state := pet.NewState(pet.StockDefaults(), *clock)
	e := pet.NewEngine(state, nil, nil)
	_, err := e.Start(*clock)
	require.NoError(t, err)
	m := NewModel(e)

	m = press(m, "d")
	old := m.Animation.StartTime
	m.Animation = Animation{}

	*clock = clock.Add(time.Second)
	m = press(m, "h")
	require.Equal(t, AnimHeal, m.Animation.Type)
	require.False(t, m.Animation.StartTime.Equal(old))

	next, cmd := m.Update(animTickMsg{started: old})
	m = next.(Model)
	assert.Nil(t, cmd)
	assert.Zero(t, m.Animation.Frame, "tick from the earlier action must not advance the new one")

	m = update(m, animTickMsg{started: m.Animation.StartTime})
	assert.Equal(t, 1, m.Animation.Frame)
}

func TestKeysIgnoredWhileAnimating(t *testing.T) {
	m := startedModel(t)
	m = press(m, "d")
	energy := m.Engine.Stats()[pet.Energy]

	m = press(m, "d")
	m = press(m, "j")

	assert.Equal(t, energy, m.Engine.Stats()[pet.Energy])
	assert.Zero(t, m.Choice)
	assert.Equal(t, AnimWater, m.Animation.Type)
}

func TestRejectedEatDoesNotAnimate(t *testing.T) {
	m := startedModel(t)
	m = press(m, "e")
	m.Animation = Animation{}

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("e")})
	m = next.(Model)

	assert.Nil(t, cmd)
	assert.Equal(t, AnimNone, m.Animation.Type)
}

func TestAnimationFrameClampsToLast(t *testing.T) {
	frames := AnimationFrames[AnimHeal]
	require.NotEmpty(t, frames)

	assert.Equal(t, frames[len(frames)-1], GetAnimationFrame(Animation{Type: AnimHeal, Frame: 100}))
	assert.Empty(t, GetAnimationFrame(Animation{Type: AnimNone}))
	assert.True(t, IsAnimationComplete(Animation{Type: AnimNone}))
}
