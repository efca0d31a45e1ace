package filesystem

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// DefaultSFTPPort is used when a remote URL names no port.
const DefaultSFTPPort = 22

// ErrInvalidRemoteURL is returned for sftp:// URLs that cannot be used.
var ErrInvalidRemoteURL = errors.New("invalid SFTP URL")

// ParsedPath represents either a local path or an SFTP location.
type ParsedPath struct {
	IsRemote bool

	// For local paths
	LocalPath string

	// For SFTP paths
	Host string
	Port int
	User string
	Path string // Remote path
}

// ParsePath tells a local path from an SFTP URL of the form
// sftp://user@host[:port]/path. Examples:
//   - sftp://joe@switch.local:5000//sdmc/switch (absolute remote path)
//   - sftp://joe@myserver.com/overlays (relative to the remote home)
//   - /local/path/to/files (local path)
func ParsePath(path string) (*ParsedPath, error) {
	if strings.HasPrefix(path, "sftp://") {
		return parseSFTPURL(path)
	}

	return &ParsedPath{
		IsRemote:  false,
		LocalPath: path,
	}, nil
}

func parseSFTPURL(sftpURL string) (*ParsedPath, error) {
	u, err := url.Parse(sftpURL) //nolint:varnamelen // u is idiomatic for URL
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRemoteURL, err)
	}

	if u.User == nil || u.User.Username() == "" {
		return nil, fmt.Errorf("%w: must include username (sftp://user@host/path)", ErrInvalidRemoteURL)
	}

	host := u.Hostname()
	if host == "" {
		return nil, fmt.Errorf("%w: must include host", ErrInvalidRemoteURL)
	}

	port := DefaultSFTPPort

	if portStr := u.Port(); portStr != "" {
		port, err = strconv.Atoi(portStr)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid port number: %w", ErrInvalidRemoteURL, err)
		}
	}

	return &ParsedPath{
		IsRemote: true,
		Host:     host,
		Port:     port,
		User:     u.User.Username(),
		Path:     remotePath(u.Path),
	}, nil
}

// remotePath maps the URL path onto the server:
//
//	sftp://user@host/path  → path, relative to the login directory
//	sftp://user@host//path → /path
//	sftp://user@host       → .
func remotePath(urlPath string) string {
	switch {
	case urlPath == "" || urlPath == "/":
		return "."
	case strings.HasPrefix(urlPath, "//"):
		return urlPath[1:]
	default:
		return strings.TrimPrefix(urlPath, "/")
	}
}

// String renders the location for log output.
func (p *ParsedPath) String() string {
	if !p.IsRemote {
		return p.LocalPath
	}

	return fmt.Sprintf("sftp://%s@%s:%d/%s", p.User, p.Host, p.Port, p.Path)
}
