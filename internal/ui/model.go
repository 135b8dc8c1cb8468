package ui

import (
	"errors"
	"log"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"tamatots/internal/pet"
)

// TickInterval is how often the model drives the engine's scheduler.
const TickInterval = time.Second

var menuChoices = []string{"Eat", "Wash", "Water", "Heal", "Quit"}

// Model is the presentation shell around a running engine.
type Model struct {
	Engine         *pet.Engine
	Choice         int
	Quitting       bool
	Message        string
	MessageExpires time.Time
	Animation      Animation
}

type tickMsg time.Time
type animTickMsg struct {
	started time.Time
}

// NewModel creates a model for a started engine.
func NewModel(e *pet.Engine) Model {
	return Model{Engine: e}
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(TickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func animTick(start time.Time) tea.Cmd {
	return tea.Tick(AnimationFrameDuration, func(t time.Time) tea.Msg {
		return animTickMsg{started: start}
	})
}

// Update implements tea.Model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		// While an animation is playing, ignore inputs except quit keys
		if m.Animation.Type != AnimNone {
			switch msg.String() {
			case "ctrl+c", "q":
				return m.quit()
			default:
				return m, nil
			}
		}

		switch key := msg.String(); key {
		case "ctrl+c", "q":
			return m.quit()
		case "e":
			return m.perform(0)
		case "w":
			return m.perform(1)
		case "d":
			return m.perform(2)
		case "h":
			return m.perform(3)
		case "+", "=":
			m.Engine.SetVolume(m.Engine.Snapshot().Volume + 10)
		case "-":
			m.Engine.SetVolume(m.Engine.Snapshot().Volume - 10)
		case "1", "2", "3", "4", "5", "6", "7", "8", "9":
			m.collect(int(key[0] - '1'))
		case "up", "k":
			if m.Choice > 0 {
				m.Choice--
			}
		case "down", "j":
			if m.Choice < len(menuChoices)-1 {
				m.Choice++
			}
		case "enter", " ":
			return m.perform(m.Choice)
		}

	case tickMsg:
		m.Engine.Advance(time.Time(msg))
		return m, tick()

	case animTickMsg:
		// Drop ticks that belong to an older animation (e.g., if a new action started)
		if m.Animation.Type == AnimNone || !m.Animation.StartTime.Equal(msg.started) {
			return m, nil
		}

		m.Animation.Frame++
		if IsAnimationComplete(m.Animation) {
			m.Animation = Animation{}
			return m, nil
		}

		return m, animTick(m.Animation.StartTime)
	}

	return m, nil
}

func (m Model) perform(choice int) (tea.Model, tea.Cmd) {
	var started bool
	switch choice {
	case 0:
		started = m.eat()
	case 1:
		started = m.wash()
	case 2:
		started = m.water()
	case 3:
		started = m.heal()
	case 4:
		return m.quit()
	}
	if started {
		return m, animTick(m.Animation.StartTime)
	}
	return m, nil
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	m.Quitting = true
	if err := m.Engine.Shutdown(pet.TimeNow()); err != nil {
		log.Printf("Error saving state on exit: %v", err)
	}
	return m, tea.Quit
}

func (m *Model) setMessage(msg string) {
	m.Message = msg
	m.MessageExpires = pet.TimeNow().Add(3 * time.Second)
}

func (m *Model) startAnimation(animType AnimationType) {
	m.Animation = Animation{
		Type:      animType,
		Frame:     0,
		StartTime: pet.TimeNow(),
	}
}

func (m *Model) eat() bool {
	if err := m.Engine.Eat(); err != nil {
		if errors.Is(err, pet.ErrCooldown) {
			m.setMessage("🍽️ Not hungry yet!")
			return false
		}
		m.setMessage(err.Error())
		return false
	}
	m.setMessage("🍙 Yum!")
	m.startAnimation(AnimEat)
	return true
}

func (m *Model) wash() bool {
	n := m.Engine.Wash()
	if n == 0 {
		m.setMessage("🫧 Already squeaky clean!")
	} else {
		m.setMessage("🫧 So fresh!")
	}
	m.startAnimation(AnimWash)
	return true
}

func (m *Model) water() bool {
	if err := m.Engine.Water(); err != nil {
		m.setMessage(err.Error())
		return false
	}
	m.setMessage("💧 Glug glug")
	m.startAnimation(AnimWater)
	return true
}

func (m *Model) heal() bool {
	if err := m.Engine.Heal(); err != nil {
		if errors.Is(err, pet.ErrCooldown) {
			m.setMessage("✚ Give the medicine a moment...")
			return false
		}
		m.setMessage(err.Error())
		return false
	}
	m.setMessage("✚ Feeling much better!")
	m.startAnimation(AnimHeal)
	return true
}

func (m *Model) collect(index int) {
	messes := m.Engine.Messes()
	if index < 0 || index >= len(messes) {
		return
	}
	if m.Engine.CollectMess(messes[index].ID) {
		m.setMessage("💩 Scooped!")
	}
}
