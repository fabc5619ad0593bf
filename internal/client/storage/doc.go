// Package storage is the client's persistent key/value store: the terminal
// equivalent of browser local storage.
//
// Values are plain strings kept in a single SQLite table created by embedded
// goose migrations. Each key is owned by exactly one state container:
//
//	token                           session container
//	theme, colorScheme,             preference container
//	fontSize, animations
//
// A schemaVersion key sits next to them. EnsureSchema discards every owned
// key when the stored version differs from SchemaVersion, so containers
// never hydrate from values written under an older layout.
package storage
