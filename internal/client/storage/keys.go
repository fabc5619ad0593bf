package storage

import "strconv"

const (
	KeyToken         = "token"
	KeyTheme         = "theme"
	KeyColorScheme   = "colorScheme"
	KeyFontSize      = "fontSize"
	KeyAnimations    = "animations"
	KeySchemaVersion = "schemaVersion"
)

// SchemaVersion is the layout version of the owned keys.
const SchemaVersion = 1

// PreferenceKeys are the keys owned by the preference container.
var PreferenceKeys = []string{KeyTheme, KeyColorScheme, KeyFontSize, KeyAnimations}

// OwnedKeys are all container-owned keys covered by schema versioning.
var OwnedKeys = append([]string{KeyToken}, PreferenceKeys...)

func currentVersion() string {
	return strconv.Itoa(SchemaVersion)
}
