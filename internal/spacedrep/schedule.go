package spacedrep

import "time"

// DefaultEaseFactor is the ease factor of a never-seen item.
const DefaultEaseFactor = 2.5

// MinEaseFactor is the floor applied after every update. There is no
// ceiling: well-known items keep receding.
const MinEaseFactor = 1.3

// EaseBonus is added to the ease factor on a correct answer.
const EaseBonus = 0.1

// EasePenalty is subtracted from the ease factor on an incorrect answer.
const EasePenalty = 0.2

// FirstIntervalDays is the interval after the first correct repetition.
const FirstIntervalDays = 1

// SecondIntervalDays is the interval after the second correct repetition.
const SecondIntervalDays = 6

// MaxIntervalDays caps the review interval. Ease has no ceiling, so a long
// run of correct answers saturates here instead of overflowing.
const MaxIntervalDays = 36500

// LapseIntervalDays is the interval after any incorrect answer.
const LapseIntervalDays = 1

// Day is the length of one scheduling day.
const Day = 24 * time.Hour
