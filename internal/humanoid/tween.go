package humanoid

import "math"

// Tween identifies an easing function that maps normalized progress in
// [0, 1] to curve position in [0, 1]. Easing controls sample density: flat
// regions of the function put many samples close together (slow cursor),
// steep regions spread them out (fast transit).
type Tween string

const (
	TweenLinear         Tween = "linear"
	TweenEaseInOutSine  Tween = "easeInOutSine"
	TweenEaseInOutCubic Tween = "easeInOutCubic"
	TweenEaseInOutQuart Tween = "easeInOutQuart"
	TweenEaseInOutQuint Tween = "easeInOutQuint"
	TweenEaseInOutExpo  Tween = "easeInOutExpo"
	TweenEaseInOutCirc  Tween = "easeInOutCirc"
	TweenEaseOutSine    Tween = "easeOutSine"
	TweenEaseOutCubic   Tween = "easeOutCubic"
	TweenEaseOutQuart   Tween = "easeOutQuart"
	TweenEaseOutQuint   Tween = "easeOutQuint"
	TweenEaseOutExpo    Tween = "easeOutExpo"
	TweenEaseOutCirc    Tween = "easeOutCirc"
)

var tweenFuncs = map[Tween]func(float64) float64{
	TweenLinear:         func(t float64) float64 { return t },
	TweenEaseInOutSine:  easeInOutSine,
	TweenEaseInOutCubic: computeEaseInOutCubic,
	TweenEaseInOutQuart: easeInOutQuart,
	TweenEaseInOutQuint: easeInOutQuint,
	TweenEaseInOutExpo:  easeInOutExpo,
	TweenEaseInOutCirc:  easeInOutCirc,
	TweenEaseOutSine:    func(t float64) float64 { return math.Sin(t * math.Pi / 2) },
	TweenEaseOutCubic:   func(t float64) float64 { return 1 - math.Pow(1-t, 3) },
	TweenEaseOutQuart:   func(t float64) float64 { return 1 - math.Pow(1-t, 4) },
	TweenEaseOutQuint:   func(t float64) float64 { return 1 - math.Pow(1-t, 5) },
	TweenEaseOutExpo:    easeOutExpo,
	TweenEaseOutCirc:    func(t float64) float64 { return math.Sqrt(1 - math.Pow(t-1, 2)) },
}

// naturalTweens is the pool the selector draws from in natural mode.
var naturalTweens = []Tween{
	TweenEaseOutExpo, TweenEaseInOutQuint, TweenEaseInOutSine, TweenEaseInOutQuart,
	TweenEaseInOutExpo, TweenEaseInOutCubic, TweenEaseInOutCirc, TweenLinear,
	TweenEaseOutSine, TweenEaseOutQuart, TweenEaseOutQuint, TweenEaseOutCubic,
	TweenEaseOutCirc,
}

// steadyTweens keep deliberate moves slow at both ends.
var steadyTweens = []Tween{TweenEaseInOutSine, TweenEaseInOutCubic, TweenEaseInOutQuart}

// Valid reports whether the tween names a known easing function.
func (tw Tween) Valid() bool {
	_, ok := tweenFuncs[tw]
	return ok
}

// Apply evaluates the easing function. Input is clamped to [0, 1] and the
// endpoints map exactly to 0 and 1. Unknown tweens behave as linear.
func (tw Tween) Apply(t float64) float64 {
	if t <= 0 {
		return 0
	}
	if t >= 1 {
		return 1
	}
	fn, ok := tweenFuncs[tw]
	if !ok {
		return t
	}
	return clamp(fn(t), 0, 1)
}

// computeEaseInOutCubic provides a smooth acceleration and deceleration profile.
func computeEaseInOutCubic(t float64) float64 {
	if t < 0.5 {
		return 4 * t * t * t
	}
	return 1 - math.Pow(-2*t+2, 3)/2
}

func easeInOutSine(t float64) float64 {
	return -(math.Cos(math.Pi*t) - 1) / 2
}

func easeInOutQuart(t float64) float64 {
	if t < 0.5 {
		return 8 * t * t * t * t
	}
	return 1 - math.Pow(-2*t+2, 4)/2
}

func easeInOutQuint(t float64) float64 {
	if t < 0.5 {
		return 16 * t * t * t * t * t
	}
	return 1 - math.Pow(-2*t+2, 5)/2
}

func easeInOutExpo(t float64) float64 {
	if t < 0.5 {
		return math.Pow(2, 20*t-10) / 2
	}
	return (2 - math.Pow(2, -20*t+10)) / 2
}

func easeInOutCirc(t float64) float64 {
	if t < 0.5 {
		return (1 - math.Sqrt(1-math.Pow(2*t, 2))) / 2
	}
	return (math.Sqrt(1-math.Pow(-2*t+2, 2)) + 1) / 2
}

func easeOutExpo(t float64) float64 {
	return 1 - math.Pow(2, -10*t)
}
