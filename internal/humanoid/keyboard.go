package humanoid

import (
	"math"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"
)

// -- keyboardNeighbors maps characters to their adjacent keys on a QWERTY layout --
var keyboardNeighbors = map[rune]string{
	'1': "2q`", '2': "13wq", '3': "24we", '4': "35er", '5': "46rt", '6': "57ty",
	'7': "68yu", '8': "79ui", '9': "80io", '0': "9-op",
	'q': "wa1s", 'w': "qase23", 'e': "wsdr34", 'r': "edft45", 't': "rfgy56",
	'y': "tghu67", 'u': "yhji78", 'i': "ujko89", 'o': "iklp90", 'p': "ol;0-",
	'a': "qwsz", 's': "awedxz", 'd': "serfcx", 'f': "drtgvc", 'g': "ftyhbv",
	'h': "gyujnb", 'j': "huikmn", 'k': "jiol,m", 'l': "kop;.",
	'z': "asx", 'x': "zsdc", 'c': "xdfv", 'v': "cfgb", 'b': "vghn", 'n': "bhjm", 'm': "njk,",
}

// -- commonNgrams contains common letter combinations to simulate rhythmic typing --
var commonNgrams = map[string]bool{
	"th": true, "he": true, "in": true, "er": true, "an": true, "re": true,
	"es": true, "on": true, "st": true, "nt": true,
	"the": true, "and": true, "ing": true, "ion": true, "tio": true,
}

// shiftedSymbols need the shift key on a US layout.
const shiftedSymbols = "~!@#$%^&*()_+{}|:\"<>?"

// KeyAction is the kind of a planned keystroke.
type KeyAction string

const (
	KeyChar      KeyAction = "char"
	KeyBackspace KeyAction = "backspace"
	KeyPaste     KeyAction = "paste"
)

// Keystroke is one planned input event. Delay is the wait before the key
// goes down and Hold how long it stays down. Text is set only for pastes;
// char keystrokes carry their key in Char.
type Keystroke struct {
	Action     KeyAction     `json:"action"`
	Char       rune          `json:"-"`
	Text       string        `json:"text,omitempty"`
	Delay      time.Duration `json:"delay"`
	Hold       time.Duration `json:"hold"`
	Mistake    bool          `json:"mistake,omitempty"`
	Correction bool          `json:"correction,omitempty"`
	Thinking   bool          `json:"thinking,omitempty"`
}

// Keys returns the key sequence the keystroke produces.
func (k Keystroke) Keys() string {
	switch k.Action {
	case KeyBackspace:
		return "\b"
	case KeyPaste:
		return k.Text
	default:
		return string(k.Char)
	}
}

// MarshalJSON adds a "key" field carrying the character for char and
// backspace keystrokes.
func (k Keystroke) MarshalJSON() ([]byte, error) {
	type plain Keystroke
	out := struct {
		plain
		Key string `json:"key,omitempty"`
	}{plain: plain(k)}
	if k.Action != KeyPaste {
		out.Key = k.Keys()
	}
	return jsoniter.ConfigCompatibleWithStandardLibrary.Marshal(out)
}

// CorrectionEvent is a backspace-and-retype run inlined in a plan. Start
// indexes the first backspace in TypingPlan.Keystrokes.
type CorrectionEvent struct {
	Start       int    `json:"start"`
	Backspaces  int    `json:"backspaces"`
	Retyped     string `json:"retyped"`
	Spontaneous bool   `json:"spontaneous,omitempty"`
}

// TypingPlan is the full keystroke stream for one piece of text.
type TypingPlan struct {
	SessionID   uuid.UUID         `json:"session_id"`
	Text        string            `json:"text"`
	Tags        ContextTags       `json:"tags"`
	Modifiers   Modifiers         `json:"modifiers"`
	WPM         float64           `json:"wpm"`
	ErrorRate   float64           `json:"error_rate"`
	Fatigue     float64           `json:"fatigue"`
	Keystrokes  []Keystroke       `json:"keystrokes"`
	Corrections []CorrectionEvent `json:"corrections"`
	Stats       TypingStats       `json:"stats"`
}

// Duration is the planned wall time: every delay and hold.
func (p *TypingPlan) Duration() time.Duration {
	var total time.Duration
	for _, k := range p.Keystrokes {
		total += k.Delay + k.Hold
	}
	return total
}

// Result replays the keystrokes into the text a receiving field would hold.
func (p *TypingPlan) Result() string {
	var buf []rune
	for _, k := range p.Keystrokes {
		switch k.Action {
		case KeyChar:
			buf = append(buf, k.Char)
		case KeyBackspace:
			if len(buf) > 0 {
				buf = buf[:len(buf)-1]
			}
		case KeyPaste:
			buf = append(buf, []rune(k.Text)...)
		}
	}
	return string(buf)
}

// Type plans text with the configured base speed and error rate at the
// current fatigue level, which is refreshed from the session clock first.
func (h *Humanoid) Type(text string) (*TypingPlan, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.refreshFatigue()
	return h.planTyping(text, h.baseConfig.BaseWPM, h.baseConfig.BaseErrorRate, h.fatigue.Level)
}

// PlanTyping converts text into a timed keystroke stream, mistakes and
// corrections included, and adds the result to the session stats.
func (h *Humanoid) PlanTyping(text string, baseWPM, baseErrorRate, fatigue float64) (*TypingPlan, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.planTyping(text, baseWPM, baseErrorRate, fatigue)
}

// SpontaneousCorrection occasionally plans a backspace-and-retype over the
// tail of text that was already typed, the way people second-guess a
// finished word. It reports false when no correction happens.
func (h *Humanoid) SpontaneousCorrection(typed string) ([]Keystroke, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	p := h.newPlanner(h.baseConfig.BaseWPM, h.fatigue.Level)
	if !p.spontaneousCorrection([]rune(typed)) {
		return nil, false
	}
	p.plan.Stats.ActiveTime = p.plan.Duration()
	h.stats.add(p.plan.Stats)
	return p.plan.Keystrokes, true
}

// planTyping assumes the caller holds h.mu.
func (h *Humanoid) planTyping(text string, baseWPM, baseErrorRate, fatigue float64) (*TypingPlan, error) {
	if !(baseWPM > 0) || math.IsInf(baseWPM, 0) {
		return nil, configErrorf("base_wpm", "must be positive, got %v", baseWPM)
	}
	if !(baseErrorRate >= 0 && baseErrorRate <= 1) {
		return nil, configErrorf("base_error_rate", "must be within [0, 1], got %v", baseErrorRate)
	}
	if !(fatigue >= 0 && fatigue <= 1) {
		return nil, configErrorf("fatigue", "must be within [0, 1], got %v", fatigue)
	}

	cfg := h.baseConfig
	var tags ContextTags
	if cfg.ContextAware {
		tags = Classify(text)
	}
	mods := tags.Modifiers()

	p := h.newPlanner(baseWPM*mods.Speed, fatigue)
	p.plan.Text = text
	p.plan.Tags = tags
	p.plan.Modifiers = mods
	if cfg.SimulateErrors {
		p.errorRate = clamp(baseErrorRate*mods.ErrorRate*(1.0+fatigue), 0, 1)
	}
	p.plan.ErrorRate = p.errorRate
	if cfg.UsePasteShortcuts && mods.Pasteable {
		p.spans = PasteableSpans(text)
	}

	p.run([]rune(text))

	p.plan.Stats.WordsTyped = len(strings.Fields(text))
	p.plan.Stats.ActiveTime = p.plan.Duration()
	p.plan.Stats.SessionStart = h.stats.SessionStart
	h.stats.add(p.plan.Stats)

	h.logger.Debug("Humanoid: planned typing.",
		zap.String("session_id", h.sessionID.String()),
		zap.Int("chars", utf8.RuneCountInString(text)),
		zap.Int("keystrokes", len(p.plan.Keystrokes)),
		zap.Int("corrections", len(p.plan.Corrections)),
		zap.String("tags", tags.String()),
		zap.Duration("duration", p.plan.Stats.ActiveTime))
	return p.plan, nil
}

// typingPlanner builds one TypingPlan. It borrows the engine's sampler and
// pink noise stream, so it must only be used while h.mu is held.
type typingPlanner struct {
	cfg       Config
	s         *Sampler
	pink      *PinkNoiseGenerator
	baseDelay float64 // ms per keystroke before modifiers
	fatigueK  float64
	errorRate float64
	spans     []Span
	thinking  time.Duration
	plan      *TypingPlan
}

func (h *Humanoid) newPlanner(wpm, fatigue float64) *typingPlanner {
	cfg := h.baseConfig
	wpm *= cfg.SpeedMultiplier
	return &typingPlanner{
		cfg:       cfg,
		s:         h.sampler,
		pink:      h.pink,
		baseDelay: 60000.0 / (wpm * 5.0),
		fatigueK:  1.0 + fatigue*cfg.KeyPauseFatigueFactor,
		plan: &TypingPlan{
			SessionID:   h.sessionID,
			WPM:         wpm,
			Fatigue:     fatigue,
			Keystrokes:  []Keystroke{},
			Corrections: []CorrectionEvent{},
		},
	}
}

func (p *typingPlanner) run(runes []rune) {
	i := 0
	for si, sentence := range splitSentences(runes) {
		if si > 0 && p.cfg.AddThinkingPauses && p.s.Bool(p.cfg.ThinkingPauseProbability) {
			p.thinking = msDuration(p.s.uniform(p.cfg.ThinkingPauseMinMs, p.cfg.ThinkingPauseMaxMs))
		}
		if i < sentence.Start {
			i = sentence.Start
		}
		for i < sentence.End {
			if span, ok := p.spanAt(i); ok {
				p.emitPaste(string(runes[span.Start:span.End]))
				i = span.End
				continue
			}
			i += p.typeRune(runes, i)
		}
		trimmed := strings.TrimSpace(string(runes[sentence.Start:sentence.End]))
		if p.errorRate > 0 && utf8.RuneCountInString(trimmed) > 10 {
			p.spontaneousCorrection(runes[:i])
		}
	}
}

// typeRune plans runes[i], possibly with a mistake, and returns how many
// runes it consumed.
func (p *typingPlanner) typeRune(runes []rune, i int) int {
	if p.s.Bool(p.errorRate) {
		if n := p.mistake(runes, i); n > 0 {
			return n
		}
	}
	p.emitChar(runes[i], p.keyDelay(runes, i), false, false)
	return 1
}

type typoKind int

const (
	typoNeighbor typoKind = iota
	typoTranspose
	typoCase
)

var typoFallbacks = map[typoKind][]typoKind{
	typoNeighbor:  {typoNeighbor, typoCase},
	typoTranspose: {typoTranspose, typoNeighbor, typoCase},
	typoCase:      {typoCase, typoNeighbor},
}

// mistake plans a typo and its correction. It returns 0 when no typo kind
// applies to the character, which is then typed normally.
func (p *typingPlanner) mistake(runes []rune, i int) int {
	kind := typoCase
	switch r := p.s.Float64(); {
	case r < p.cfg.TypoNeighborRate:
		kind = typoNeighbor
	case r < p.cfg.TypoNeighborRate+p.cfg.TypoTransposeRate:
		kind = typoTranspose
	}

	char := runes[i]
	for _, k := range typoFallbacks[kind] {
		switch k {
		case typoNeighbor:
			neighbors, ok := keyboardNeighbors[unicode.ToLower(char)]
			if !ok || len(neighbors) == 0 {
				continue
			}
			wrong := rune(neighbors[p.s.Intn(len(neighbors))])
			if unicode.IsUpper(char) {
				wrong = unicode.ToUpper(wrong)
			}
			p.emitChar(wrong, p.keyDelay(runes, i), true, false)
			p.correct(1, []rune{char}, false)
			return 1
		case typoTranspose:
			if i+1 >= len(runes) {
				continue
			}
			next := runes[i+1]
			if unicode.IsSpace(char) || unicode.IsSpace(next) || next == char {
				continue
			}
			if _, pasted := p.spanAt(i + 1); pasted {
				continue
			}
			p.emitChar(next, p.keyDelay(runes, i), true, false)
			p.emitChar(char, p.keyDelay(runes, i+1), true, false)
			p.correct(2, []rune{char, next}, false)
			return 2
		case typoCase:
			swapped := swapCase(char)
			if swapped == char {
				continue
			}
			p.emitChar(swapped, p.keyDelay(runes, i), true, false)
			p.correct(1, []rune{char}, false)
			return 1
		}
	}
	return 0
}

// spontaneousCorrection backspaces over the last 1-8 runes of typed and
// types them again. It reports whether it did.
func (p *typingPlanner) spontaneousCorrection(typed []rune) bool {
	n := len(typed)
	if n <= 10 || !p.s.Bool(p.cfg.SpontaneousCorrectionProbability) {
		return false
	}
	k := 1 + p.s.Intn(min(8, n))
	p.correct(k, typed[n-k:], true)
	return true
}

// correct appends a correction event: a noticing pause, the backspaces, and
// the retyped runes at correction speed.
func (p *typingPlanner) correct(backspaces int, retype []rune, spontaneous bool) {
	ev := CorrectionEvent{
		Start:       len(p.plan.Keystrokes),
		Backspaces:  backspaces,
		Retyped:     string(retype),
		Spontaneous: spontaneous,
	}
	for b := 0; b < backspaces; b++ {
		scale := p.cfg.CorrectionSpeedScale
		if b == 0 {
			scale = p.cfg.TypoCorrectionPauseScale
		}
		p.emit(Keystroke{Action: KeyBackspace, Delay: p.scaledDelay(scale), Hold: p.hold(), Correction: true})
	}
	for _, r := range retype {
		p.emitChar(r, p.scaledDelay(p.cfg.CorrectionSpeedScale), false, true)
	}
	p.plan.Corrections = append(p.plan.Corrections, ev)
	p.plan.Stats.CorrectionsMade++
}

func (p *typingPlanner) emit(k Keystroke) {
	if p.thinking > 0 {
		k.Delay += p.thinking
		k.Thinking = true
		p.thinking = 0
	}
	p.plan.Keystrokes = append(p.plan.Keystrokes, k)
}

func (p *typingPlanner) emitChar(r rune, delay time.Duration, mistake, correction bool) {
	p.emit(Keystroke{
		Action:     KeyChar,
		Char:       r,
		Delay:      delay,
		Hold:       p.hold(),
		Mistake:    mistake,
		Correction: correction,
	})
	p.plan.Stats.CharactersTyped++
	if mistake {
		p.plan.Stats.ErrorsMade++
	}
}

func (p *typingPlanner) emitPaste(text string) {
	p.emit(Keystroke{
		Action: KeyPaste,
		Text:   text,
		Delay:  msDuration(p.s.uniform(p.cfg.PastePauseMinMs, p.cfg.PastePauseMaxMs)),
		Hold:   p.hold(),
	})
	p.plan.Stats.CharactersTyped += utf8.RuneCountInString(text)
}

func (p *typingPlanner) spanAt(i int) (Span, bool) {
	for _, s := range p.spans {
		if s.Start == i {
			return s, true
		}
	}
	return Span{}, false
}

// keyDelay is the inter-key delay before runes[i].
func (p *typingPlanner) keyDelay(runes []rune, i int) time.Duration {
	mean := p.baseDelay * p.fatigueK * ngramFactor(p.cfg, runes, i)
	char := runes[i]
	if unicode.IsPunct(char) {
		mean *= p.cfg.PunctuationFactor
	}
	if unicode.IsUpper(char) || strings.ContainsRune(shiftedSymbols, char) {
		mean *= p.cfg.ShiftFactor
	}
	return p.jitter(mean)
}

func (p *typingPlanner) scaledDelay(scale float64) time.Duration {
	return p.jitter(p.baseDelay * p.fatigueK * scale)
}

// jitter applies per-key gaussian variance and the correlated pink drift,
// then floors the result.
func (p *typingPlanner) jitter(mean float64) time.Duration {
	variance := clamp(p.s.gaussian(1.0, p.cfg.KeyPauseVariance), 0.4, 2.5)
	drift := 1.0 + p.cfg.PinkNoiseAmplitude*p.pink.Next()
	return msDuration(math.Max(p.cfg.KeyPauseMin, mean*variance*drift))
}

// hold calculates how long a key should be held down.
func (p *typingPlanner) hold() time.Duration {
	ms := p.s.gaussian(p.cfg.KeyHoldMean, p.cfg.KeyHoldStdDev)
	if ms < 20.0 { // Ensure a minimum realistic hold time.
		ms = 20.0
	}
	return msDuration(ms)
}

// ngramFactor speeds up keys that finish a common digraph or trigraph.
func ngramFactor(cfg Config, runes []rune, i int) float64 {
	if i >= 2 && commonNgrams[strings.ToLower(string(runes[i-2:i+1]))] {
		return cfg.KeyPauseNgramFactor3
	}
	if i >= 1 && commonNgrams[strings.ToLower(string(runes[i-1:i+1]))] {
		return cfg.KeyPauseNgramFactor2
	}
	return 1.0
}

// splitSentences cuts runes after '.', '!' or '?' when followed by
// whitespace or the end of text and the trimmed fragment is longer than
// three characters. Trailing whitespace stays with its sentence, so the
// spans cover runes exactly.
func splitSentences(runes []rune) []Span {
	var out []Span
	start := 0
	for i := 0; i < len(runes); i++ {
		switch runes[i] {
		case '.', '!', '?':
		default:
			continue
		}
		if i+1 < len(runes) && !unicode.IsSpace(runes[i+1]) {
			continue
		}
		if utf8.RuneCountInString(strings.TrimSpace(string(runes[start:i+1]))) <= 3 {
			continue
		}
		end := i + 1
		for end < len(runes) && unicode.IsSpace(runes[end]) {
			end++
		}
		out = append(out, Span{Start: start, End: end})
		start = end
		i = end - 1
	}
	if start < len(runes) {
		out = append(out, Span{Start: start, End: len(runes)})
	}
	return out
}

func swapCase(r rune) rune {
	switch {
	case unicode.IsUpper(r):
		return unicode.ToLower(r)
	case unicode.IsLower(r):
		return unicode.ToUpper(r)
	}
	return r
}

func msDuration(ms float64) time.Duration {
	return time.Duration(ms * float64(time.Millisecond))
}
