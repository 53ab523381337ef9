package data

// Gamemode names referenced by pricing and compatibility rules.
const (
	Easy                  = "easy"
	PrimaryOnly           = "primary_only"
	Deflation             = "deflation"
	Medium                = "medium"
	MilitaryOnly          = "military_only"
	Apopalypse            = "apopalypse"
	Reverse               = "reverse"
	Hard                  = "hard"
	MagicMonkeysOnly      = "magic_monkeys_only"
	DoubleHPMoabs         = "double_hp_moabs"
	HalfCash              = "half_cash"
	AlternateBloonsRounds = "alternate_bloons_rounds"
	Impoppable            = "impoppable"
	Chimps                = "chimps"

	EasySandbox   = "easy_sandbox"
	MediumSandbox = "medium_sandbox"
	HardSandbox   = "hard_sandbox"
)

// Tower groups.
const (
	GroupPrimary  = "primary"
	GroupMilitary = "military"
	GroupMagic    = "magic"
	GroupSupport  = "support"
)

// IsChimpsClass reports whether the gamemode disables Monkey Knowledge bonuses.
func IsChimpsClass(gamemode string) bool {
	return gamemode == Chimps
}

// IsImpoppableClass reports whether the gamemode prices at impoppable rates.
func IsImpoppableClass(gamemode string) bool {
	return gamemode == Impoppable || IsChimpsClass(gamemode)
}

// SandboxGamemodes lists the sandbox variants from the easiest unlock up.
var SandboxGamemodes = []string{EasySandbox, MediumSandbox, HardSandbox}

// IsSandbox reports whether the gamemode is one of the sandbox variants.
func IsSandbox(gamemode string) bool {
	switch gamemode {
	case EasySandbox, MediumSandbox, HardSandbox:
		return true
	}
	return false
}

// NeedsDialogConfirmation reports whether the gamemode greets the player with
// a dialog that must be dismissed before the first action.
func NeedsDialogConfirmation(gamemode string) bool {
	switch gamemode {
	case Deflation, HalfCash, Impoppable, Chimps:
		return true
	}
	return IsSandbox(gamemode)
}
