package fileops

import "strings"

// Paths are plain slash-separated strings. A trailing "/" marks directory intent
// and is never added or dropped silently by these helpers.

func isDirPath(p string) bool {
	return strings.HasSuffix(p, "/")
}

// asDirPath returns p with exactly one trailing "/".
func asDirPath(p string) string {
	return strings.TrimRight(p, "/") + "/"
}

// entryPath drops the trailing "/" so Lstat and Remove see a symlink itself
// rather than the directory it points to. The root "/" is kept.
func entryPath(p string) string {
	if trimmed := strings.TrimRight(p, "/"); trimmed != "" {
		return trimmed
	}

	return p
}

// joinPath appends name to dir with a single separator.
func joinPath(dir, name string) string {
	if dir == "" {
		return name
	}

	if isDirPath(dir) {
		return dir + name
	}

	return dir + "/" + name
}

// parentDir returns p up to and including its last "/" ("" when p has none).
// A trailing "/" is part of p, so the parent of "a/b/" is "a/b/".
func parentDir(p string) string {
	idx := strings.LastIndex(p, "/")
	if idx < 0 {
		return ""
	}

	return p[:idx+1]
}

// nameFromPath returns the last component of p, ignoring one trailing "/".
func nameFromPath(p string) string {
	p = strings.TrimSuffix(p, "/")

	return p[strings.LastIndex(p, "/")+1:]
}
