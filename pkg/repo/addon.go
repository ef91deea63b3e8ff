// Package repo packages Kodi add-ons into a repository layout and verifies
// published repositories.
//
// A repository directory looks like:
//
//	addons.xml
//	addons.xml.md5
//	<id>/<id>-<version>.zip
//	<id>/<id>-<version>.zip.md5
//	<id>/resources/media/icon.png
package repo

import (
	"encoding/xml"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// AddonFile is the descriptor every add-on carries at its root.
const AddonFile = "addon.xml"

// ErrInvalidAddon is returned when an add-on descriptor is missing or lacks
// its id or version.
var ErrInvalidAddon = errors.New("invalid add-on")

// Addon describes one add-on source directory.
type Addon struct {
	ID      string
	Version string
	Name    string
	Dir     string

	// XML is the descriptor body without its XML declaration.
	XML string
}

type addonDescriptor struct {
	XMLName xml.Name `xml:"addon"`
	ID      string   `xml:"id,attr"`
	Version string   `xml:"version,attr"`
	Name    string   `xml:"name,attr"`
}

// ZipName returns the archive file name for the add-on.
func (a *Addon) ZipName() string {
	return a.ID + "-" + a.Version + ".zip"
}

// ReadAddon loads the add-on descriptor from dir.
func ReadAddon(dir string) (*Addon, error) {
	path := filepath.Join(dir, AddonFile)
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrapf(ErrInvalidAddon, "could not find %s at %s", AddonFile, path)
		}
		return nil, errors.Wrapf(err, "failed to read %s", path)
	}

	var desc addonDescriptor
	if err := xml.Unmarshal(raw, &desc); err != nil {
		return nil, errors.Wrapf(ErrInvalidAddon, "unable to parse %s: %v", path, err)
	}
	if desc.ID == "" || desc.Version == "" {
		return nil, errors.Wrapf(ErrInvalidAddon, "%s is missing the id or version attribute", path)
	}

	return &Addon{
		ID:      desc.ID,
		Version: desc.Version,
		Name:    desc.Name,
		Dir:     dir,
		XML:     stripDeclaration(string(raw)),
	}, nil
}

// stripDeclaration removes a leading <?xml ...?> declaration.
func stripDeclaration(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "<?xml") {
		if _, rest, ok := strings.Cut(raw, "?>"); ok {
			raw = strings.TrimSpace(rest)
		}
	}
	return raw
}
