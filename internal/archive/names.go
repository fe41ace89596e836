package archive

import "strings"

// StripExt removes the final ".ext" suffix. Names whose only dot is the first
// character (".notes") are returned unchanged.
func StripExt(name string) string {
	if i := strings.LastIndex(name, "."); i > 0 {
		return name[:i]
	}
	return name
}

// matchesName reports whether typed names stored, either in full or without
// its extension, ignoring case.
func matchesName(stored, typed string) bool {
	return strings.EqualFold(stored, typed) || strings.EqualFold(StripExt(stored), typed)
}

// ResolveFileName maps a typed name to a stored child name of dir.
//
// A case-insensitive match on the full name wins over a match on the
// extension-stripped name. When several siblings strip to the same name the
// first one in listing order is returned.
func ResolveFileName(dir *Directory, typed string) (string, bool) {
	names := dir.Names()
	for _, name := range names {
		if strings.EqualFold(name, typed) {
			return name, true
		}
	}
	for _, name := range names {
		if strings.EqualFold(StripExt(name), typed) {
			return name, true
		}
	}
	return "", false
}

// FindFilePath searches the whole tree, pre-order, for the first node whose
// name matches typed the way ResolveFileName does. The result is only ever
// used as a hint; callers never act on it.
func FindFilePath(root *Directory, typed string) (string, bool) {
	var found string
	Walk(root, func(path string, n Node) bool {
		if matchesName(NameOf(n), typed) {
			found = path
			return false
		}
		return true
	})
	return found, found != ""
}
