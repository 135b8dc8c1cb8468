package pet

import "time"

// Game constants
const (
	DefaultPetName = "Tamatot"
	MaxStat        = 100.0
	MinStat        = 0.0
	DefaultStat    = 80.0

	LowStatThreshold = 30.0
	MaxHearts        = 5

	// Action effects
	EatHungerIncrease   = 20.0
	EatFunIncrease      = 2.0
	WaterEnergyIncrease = 10.0
	WaterHungerIncrease = 4.0
	HealHealthIncrease  = 25.0

	EatCooldown  = 8 * time.Second
	HealCooldown = 4 * time.Second

	// Session cadence defaults
	DefaultMinTickSecs  = 5
	DefaultAutosaveSecs = 30
	MessTickInterval    = time.Minute

	// Mess defaults
	DefaultSpawnMinSecs        = 45
	DefaultSpawnMaxSecs        = 120
	MaxSpawnSecs               = 24 * 60 * 60
	DefaultMaxOnField          = 5
	DefaultMessDecayPerMinute  = 0.5
	DefaultOfflineSpawnPerHour = 1.0
	DefaultOfflineSpawnCap     = 6
	DefaultMessReward          = 2.0

	// Play field, in scene pixels
	FieldWidth  = 640.0
	FieldHeight = 420.0
	FieldMargin = 24.0

	DefaultVolume = 70
	MaxVolume     = 100

	// Status emojis
	StatusEmojiHappy   = "😸"
	StatusEmojiNeutral = "🙂"
	StatusEmojiHungry  = "🙀"
	StatusEmojiSick    = "🤢"
	StatusEmojiTired   = "😾"
	StatusEmojiBored   = "😿"
	StatusEmojiMessy   = "💩"
)

// Task names registered with the session scheduler
const (
	TaskDecay    = "decay"
	TaskMessTick = "mess-minute"
	TaskSpawn    = "mess-spawn"
	TaskAutosave = "autosave"
)
