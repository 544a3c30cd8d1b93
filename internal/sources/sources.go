// Package sources builds the resolvers of a run from its configuration.
// Every credential and the snapshot are loaded here, before any identifier
// is resolved.
package sources

import (
	"bufio"
	"errors"
	"io/fs"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/securego/cwelookup"
	"github.com/securego/cwelookup/ghsa"
	"github.com/securego/cwelookup/nvd"
	"github.com/securego/cwelookup/snapshot"
)

// ErrEmptyCredential is wrapped when a credential file holds no value
var ErrEmptyCredential = errors.New("credential file is empty")

// UserAgent is sent with every NVD request
var UserAgent = "cwelookup"

// FromConfig loads credentials and the snapshot named by config and returns
// the resolvers for its mode. Load failures are *cwelookup.CredentialLoadError
// or *cwelookup.SnapshotLoadError.
func FromConfig(config *cwelookup.Config, logger *zap.Logger) (cwelookup.Sources, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	var sources cwelookup.Sources

	token, err := GitHubToken(config.GitHubTokenFile)
	if err != nil {
		return sources, err
	}
	sources.Advisory = ghsa.NewClient(
		ghsa.WithEndpoint(config.GitHubURL),
		ghsa.WithToken(token),
		ghsa.WithTimeout(config.Timeout),
		ghsa.WithLogger(logger.Named(ghsa.SourceName)),
	)

	switch config.Mode {
	case cwelookup.ModeDirect:
		key, err := NVDAPIKey(config.NVDAPIKey)
		if err != nil {
			return sources, err
		}
		if key == "" {
			logger.Info("querying the NVD without an API key, requests are rate limited more strictly")
		}
		sources.Direct = nvd.NewClient(
			nvd.WithBaseURL(config.NVDURL),
			nvd.WithAPIKey(key),
			nvd.WithTimeout(config.Timeout),
			nvd.WithUserAgent(UserAgent),
			nvd.WithLogger(logger.Named(nvd.SourceName)),
		)
	default:
		snap, err := snapshot.Load(config.SnapshotPath)
		if err != nil {
			return sources, err
		}
		logger.Info("snapshot loaded",
			zap.String("path", config.SnapshotPath),
			zap.Int("records", len(snap)))
		sources.Snapshot = snapshot.NewResolver(snap, logger.Named(snapshot.SourceName))
	}
	return sources, nil
}

// GitHubToken reads the token from the first line of path. An empty path
// means no token.
func GitHubToken(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	token, err := firstLine(path)
	if err != nil {
		return "", &cwelookup.CredentialLoadError{Name: "GitHub token", Path: path, Err: err}
	}
	return token, nil
}

// NVDAPIKey returns the first line of value when it names an existing file,
// otherwise value itself.
func NVDAPIKey(value string) (string, error) {
	if value == "" {
		return "", nil
	}
	info, err := os.Stat(value)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return strings.TrimSpace(value), nil
	case err != nil:
		return "", &cwelookup.CredentialLoadError{Name: "NVD API key", Path: value, Err: err}
	case info.IsDir():
		return "", &cwelookup.CredentialLoadError{Name: "NVD API key", Path: value, Err: errors.New("is a directory")}
	}
	key, err := firstLine(value)
	if err != nil {
		return "", &cwelookup.CredentialLoadError{Name: "NVD API key", Path: value, Err: err}
	}
	return key, nil
}

func firstLine(path string) (string, error) {
	f, err := os.Open(path) // #nosec G304
	if err != nil {
		return "", err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return "", err
		}
		return "", ErrEmptyCredential
	}
	line := strings.TrimSpace(scanner.Text())
	if line == "" {
		return "", ErrEmptyCredential
	}
	return line, nil
}
