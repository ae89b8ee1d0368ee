package config

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// SourceKind identifies the provider a source group downloads from.
type SourceKind string

const (
	SourceYouTube     SourceKind = "youtube"
	SourceGoogleDrive SourceKind = "google_drive"
	SourceURL         SourceKind = "url"
	SourceLocal       SourceKind = "local"
	SourceSFTP        SourceKind = "sftp"
	SourceS3          SourceKind = "s3"
)

// SourceKinds lists every supported kind. Dispatchers iterate it in tests to
// make sure no kind is left unhandled.
var SourceKinds = []SourceKind{
	SourceYouTube,
	SourceGoogleDrive,
	SourceURL,
	SourceLocal,
	SourceSFTP,
	SourceS3,
}

// ParseSourceKind maps a configuration string onto a SourceKind.
func ParseSourceKind(s string) (SourceKind, error) {
	kind := SourceKind(strings.ToLower(strings.TrimSpace(s)))
	for _, k := range SourceKinds {
		if k == kind {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown source type %q (expected one of %s)", s, kindList())
}

// UnmarshalYAML rejects unknown kinds at decode time.
func (k *SourceKind) UnmarshalYAML(node *yaml.Node) error {
	var raw string
	if err := node.Decode(&raw); err != nil {
		return err
	}
	kind, err := ParseSourceKind(raw)
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	*k = kind
	return nil
}

// RequiresID reports whether lessons of this kind are addressed by a provider id.
func (k SourceKind) RequiresID() bool {
	return k == SourceYouTube || k == SourceGoogleDrive
}

func kindList() string {
	names := make([]string, len(SourceKinds))
	for i, k := range SourceKinds {
		names[i] = string(k)
	}
	return strings.Join(names, ", ")
}
