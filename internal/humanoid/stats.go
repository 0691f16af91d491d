package humanoid

import "time"

// TypingStats accumulates what the engine has planned during a session.
type TypingStats struct {
	CharactersTyped int           `json:"characters_typed"`
	WordsTyped      int           `json:"words_typed"`
	ErrorsMade      int           `json:"errors_made"`
	CorrectionsMade int           `json:"corrections_made"`
	SessionStart    time.Time     `json:"session_start"`
	ActiveTime      time.Duration `json:"active_time"`
}

// Accuracy is the share of typed characters that were not mistakes, in
// percent. Nothing typed counts as perfect.
func (s TypingStats) Accuracy() float64 {
	if s.CharactersTyped <= 0 {
		return 100
	}
	return clamp(100*float64(s.CharactersTyped-s.ErrorsMade)/float64(s.CharactersTyped), 0, 100)
}

// CurrentWPM is the planned speed over the active time, in standard five
// character words per minute.
func (s TypingStats) CurrentWPM() float64 {
	minutes := s.ActiveTime.Minutes()
	if minutes <= 0 {
		return 0
	}
	return float64(s.CharactersTyped) / 5.0 / minutes
}

func (s *TypingStats) add(other TypingStats) {
	s.CharactersTyped += other.CharactersTyped
	s.WordsTyped += other.WordsTyped
	s.ErrorsMade += other.ErrorsMade
	s.CorrectionsMade += other.CorrectionsMade
	s.ActiveTime += other.ActiveTime
}
