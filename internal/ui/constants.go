package ui

// UI-wide constants to avoid magic numbers/strings scattered across the codebase.

// Icons (emojis/symbols)
const (
	IconSettings = "⚙"
	IconFolder   = "📁"
	IconClear    = "🗑️"
	IconLanguage = "🌐"
)

// URLEntryRows is the visible height of the URL list in text rows
const URLEntryRows = 8

// Layout sizing
const (
	CounterEntryWidth     float32 = 96
	LogMinHeight          float32 = 240
	SettingsDialogWidth   float32 = 500
	SettingsDialogHeight  float32 = 420
	MobileButtonMinHeight float32 = 48
)

// DefaultStartIndex is shown in the counter entry on start
const DefaultStartIndex = "1"
