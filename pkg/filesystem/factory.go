package filesystem

import (
	"fmt"
)

// CreateFileSystem creates a FileSystem for the given location.
// An empty location or a plain local path selects the local disk; an sftp:// URL
// opens a remote session.
// Returns (filesystem, basePath, closer, error).
// - basePath: the path part of the location (the remote path for SFTP URLs)
// - closer: a function to call when done (closes SFTP connections), or nil for local
func CreateFileSystem(location string) (FileSystem, string, func(), error) {
	if location == "" {
		return NewRealFileSystem(), "", nil, nil
	}

	parsed, err := ParsePath(location)
	if err != nil {
		return nil, "", nil, err
	}

	if !parsed.IsRemote {
		return NewRealFileSystem(), parsed.LocalPath, nil, nil
	}

	conn, err := Connect(parsed.Host, parsed.Port, parsed.User)
	if err != nil {
		return nil, "", nil, fmt.Errorf("failed to connect to %s@%s:%d: %w",
			parsed.User, parsed.Host, parsed.Port, err)
	}

	closer := func() {
		_ = conn.Close()
	}

	return NewSFTPFileSystem(conn), parsed.Path, closer, nil
}
