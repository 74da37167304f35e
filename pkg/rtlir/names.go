package rtlir

// IR identifiers carry a one-character prefix: "\" for names that came from
// the source design and "$" for autogenerated or builtin names.

// EscapeID prefixes a plain name with the user-identifier marker. Names that
// already carry a marker pass through unchanged.
func EscapeID(name string) string {
	if name == "" || name[0] == '\\' || name[0] == '$' {
		return name
	}
	return "\\" + name
}

// UnescapeID strips the user-identifier marker if present.
func UnescapeID(name string) string {
	if len(name) > 0 && name[0] == '\\' {
		return name[1:]
	}
	return name
}
