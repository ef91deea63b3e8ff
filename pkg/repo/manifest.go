package repo

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// ManifestFile is the repository index Kodi downloads first.
const ManifestFile = "addons.xml"

const xmlDeclaration = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>`

// RenderManifest builds the addons.xml body for addons.
func RenderManifest(addons []*Addon) string {
	var b strings.Builder
	b.WriteString(xmlDeclaration)
	b.WriteString("\n<addons>\n")
	for _, a := range addons {
		b.WriteString(a.XML)
		b.WriteString("\n")
	}
	b.WriteString("</addons>\n")
	return b.String()
}

// WriteManifest writes addons.xml and its .md5 sidecar into repoDir and
// returns the manifest path.
func WriteManifest(repoDir string, addons []*Addon) (string, error) {
	path := filepath.Join(repoDir, ManifestFile)
	if err := os.WriteFile(path, []byte(RenderManifest(addons)), 0644); err != nil {
		return "", errors.Wrapf(err, "failed to write %s", path)
	}
	if _, err := WriteChecksum(path); err != nil {
		return "", err
	}
	return path, nil
}
