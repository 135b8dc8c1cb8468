package pet

import "strings"

// GetStatus returns the status emoji(s) for the pet
func GetStatus(s *State) string {
	// Icon 1: overall mood
	activity := StatusEmojiHappy
	if s.Stats.Mood() <= 2 {
		activity = StatusEmojiNeutral
	}

	// Icon 2: most critical need
	stat, value := s.Stats.Lowest()
	var feeling string
	if value < LowStatThreshold {
		switch stat {
		case Hunger:
			feeling = StatusEmojiHungry
		case Health:
			feeling = StatusEmojiSick
		case Energy:
			feeling = StatusEmojiTired
		case Fun:
			feeling = StatusEmojiBored
		}
	}
	if feeling == "" && s.Mess.Full() && s.Mess.Count() > 0 {
		feeling = StatusEmojiMessy
	}

	return activity + feeling
}

// GetStatusWithLabel returns status with text labels for the UI
func GetStatusWithLabel(s *State) string {
	status := GetStatus(s)

	switch {
	case strings.Contains(status, StatusEmojiHungry):
		return status + " Hungry"
	case strings.Contains(status, StatusEmojiSick):
		return status + " Sick"
	case strings.Contains(status, StatusEmojiTired):
		return status + " Tired"
	case strings.Contains(status, StatusEmojiBored):
		return status + " Bored"
	case strings.Contains(status, StatusEmojiMessy):
		return status + " Messy"
	case strings.HasPrefix(status, StatusEmojiNeutral):
		return status + " Okay"
	default:
		return status + " Happy"
	}
}

// Hearts renders a mood rating as filled and empty hearts.
func Hearts(rating int) string {
	if rating < 0 {
		rating = 0
	}
	if rating > MaxHearts {
		rating = MaxHearts
	}
	return strings.Repeat("♥", rating) + strings.Repeat("♡", MaxHearts-rating)
}
