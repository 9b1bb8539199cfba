package props

import (
	"shaderlint/internal/gamever"
	"shaderlint/internal/logging"
)

// Flag names understood by stock shaderpack conditionals.
const (
	FlagEuphoriaPatchesIris   = "EUPHORIA_PATCHES_IRIS"
	FlagEuphoriaPatchesOculus = "EUPHORIA_PATCHES_OCULUS"
)

// Variable names understood by stock shaderpack conditionals.
const (
	VarMCVersion      = "MC_VERSION"
	VarOculusVersion  = "EUPHORIA_PATCHES_OCULUS_VERSION"
	VarIrisTagSupport = "IRIS_TAG_SUPPORT"
)

// IrisTagSupportLevel is the IRIS_TAG_SUPPORT value advertised when tag
// support is enabled (0 otherwise).
const IrisTagSupportLevel = 2

// Defines is the preprocessor environment for one parse: boolean feature
// flags for #ifdef/#ifndef/defined and integer variables for #if leaf
// comparisons. Both maps are treated as immutable once built.
type Defines struct {
	Flags     map[string]bool
	Variables map[string]int
}

// Flag looks up a feature flag. known reports whether the symbol belongs
// to the flag set at all; #ifdef on an unknown symbol pushes an
// unsupported context.
func (d Defines) Flag(symbol string) (defined, known bool) {
	defined, known = d.Flags[symbol]
	return defined, known
}

// Environment describes the host game setup that defines derive from.
// Empty version strings mean the mod is not installed.
type Environment struct {
	GameVersion            int    // comparable form, e.g. 12101 for 1.21.1
	IrisVersion            string
	OculusVersion          string
	EuphoriaPatchesVersion string
	TagSupport             bool // resolved tag support (detect already applied)

	// Extra symbols merged on top of the standard set, for shaderpacks
	// that condition on defines this tool does not model.
	ExtraFlags     map[string]bool
	ExtraVariables map[string]int
}

// BuildDefines derives the preprocessor environment from the host setup.
// The companion flags are only meaningful with Euphoria Patches 1.7.8+;
// without it they stay defined-as-false. Oculus takes precedence over
// Iris when both are present.
func BuildDefines(env Environment) Defines {
	flags := map[string]bool{
		FlagEuphoriaPatchesIris:   false,
		FlagEuphoriaPatchesOculus: false,
	}
	vars := map[string]int{
		VarMCVersion:      env.GameVersion,
		VarOculusVersion:  0,
		VarIrisTagSupport: 0,
	}

	if env.TagSupport {
		vars[VarIrisTagSupport] = IrisTagSupportLevel
	}

	if gamever.EuphoriaPatchesHasDefines(env.EuphoriaPatchesVersion) {
		oculusLoaded := env.OculusVersion != ""
		flags[FlagEuphoriaPatchesOculus] = oculusLoaded
		if !oculusLoaded {
			flags[FlagEuphoriaPatchesIris] = env.IrisVersion != ""
		}
		vars[VarOculusVersion] = gamever.LoaderVersionInt(env.OculusVersion)
		logging.Parser("Companion defines: EUPHORIA_PATCHES_IRIS=%v, EUPHORIA_PATCHES_OCULUS=%v, EUPHORIA_PATCHES_OCULUS_VERSION=%d",
			flags[FlagEuphoriaPatchesIris], oculusLoaded, vars[VarOculusVersion])
	} else {
		logging.Parser("Euphoria Patches not configured, companion defines disabled")
	}

	for k, v := range env.ExtraFlags {
		flags[k] = v
	}
	for k, v := range env.ExtraVariables {
		vars[k] = v
	}

	logging.Parser("IRIS_TAG_SUPPORT = %d", vars[VarIrisTagSupport])

	return Defines{Flags: flags, Variables: vars}
}
