package repo

import (
	"archive/zip"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"

	"github.com/pkg/errors"

	"kodi-localsubs-go/pkg/logging"
)

// iconPath is where Kodi looks for the add-on icon, relative to the add-on root.
var iconPath = filepath.Join("resources", "media", "icon.png")

// Package is the result of packaging one add-on.
type Package struct {
	Addon    *Addon
	ZipPath  string
	MD5      string
	IconPath string // empty when the add-on has no icon
}

// Packager writes add-on archives and the repository manifest into RepoDir.
type Packager struct {
	repoDir string
	log     *logging.Logger
}

// NewPackager creates a Packager writing into repoDir.
func NewPackager(repoDir string, log *logging.Logger) *Packager {
	return &Packager{
		repoDir: repoDir,
		log:     log.WithComponent("packager"),
	}
}

// Build packages every add-on directory and refreshes addons.xml.
func (p *Packager) Build(addonDirs []string) ([]*Package, error) {
	if len(addonDirs) == 0 {
		return nil, errors.Wrap(ErrInvalidAddon, "no add-on directories given")
	}

	addons := make([]*Addon, 0, len(addonDirs))
	for _, dir := range addonDirs {
		addon, err := ReadAddon(dir)
		if err != nil {
			return nil, err
		}
		addons = append(addons, addon)
	}

	if err := os.MkdirAll(p.repoDir, 0755); err != nil {
		return nil, errors.Wrapf(err, "failed to create repo dir %s", p.repoDir)
	}

	packages := make([]*Package, 0, len(addons))
	for _, addon := range addons {
		pkg, err := p.Package(addon)
		if err != nil {
			return nil, err
		}
		packages = append(packages, pkg)
	}

	manifest, err := WriteManifest(p.repoDir, addons)
	if err != nil {
		return nil, err
	}
	p.log.Info("updated repo manifest", "path", manifest)

	return packages, nil
}

// Package zips one add-on into <repo>/<id>/<id>-<version>.zip, replacing any
// previous archive, copies its icon alongside and writes the .md5 sidecar.
func (p *Packager) Package(addon *Addon) (*Package, error) {
	packageDir := filepath.Join(p.repoDir, addon.ID)
	if err := os.MkdirAll(packageDir, 0755); err != nil {
		return nil, errors.Wrapf(err, "failed to create %s", packageDir)
	}

	zipPath := filepath.Join(packageDir, addon.ZipName())
	if err := os.Remove(zipPath); err != nil && !os.IsNotExist(err) {
		return nil, errors.Wrapf(err, "failed to remove old archive %s", zipPath)
	}

	if err := writeArchive(zipPath, addon); err != nil {
		os.Remove(zipPath)
		return nil, err
	}

	pkg := &Package{Addon: addon, ZipPath: zipPath}

	iconSrc := filepath.Join(addon.Dir, iconPath)
	if _, err := os.Stat(iconSrc); err == nil {
		iconDest := filepath.Join(packageDir, iconPath)
		if err := copyFile(iconSrc, iconDest); err != nil {
			return nil, err
		}
		pkg.IconPath = iconDest
	}

	digest, err := WriteChecksum(zipPath)
	if err != nil {
		return nil, err
	}
	pkg.MD5 = digest

	p.log.Info("packaged add-on", "id", addon.ID, "version", addon.Version, "zip", zipPath)
	return pkg, nil
}

// writeArchive writes explicit directory entries first, so Kodi sees a root
// folder named after the add-on id, followed by every regular file.
func writeArchive(zipPath string, addon *Addon) error {
	out, err := os.Create(zipPath)
	if err != nil {
		return errors.Wrapf(err, "failed to create %s", zipPath)
	}
	defer out.Close()

	var dirs, files []string
	err = filepath.WalkDir(addon.Dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(addon.Dir, p)
		if err != nil {
			return err
		}
		switch {
		case d.IsDir():
			dirs = append(dirs, rel)
		case d.Type().IsRegular():
			files = append(files, rel)
		}
		return nil
	})
	if err != nil {
		return errors.Wrapf(err, "failed to walk %s", addon.Dir)
	}

	zw := zip.NewWriter(out)

	for _, rel := range dirs {
		hdr := &zip.FileHeader{
			Name:   archiveName(addon.ID, rel) + "/",
			Method: zip.Store,
		}
		hdr.SetMode(fs.ModeDir | 0775)
		if _, err := zw.CreateHeader(hdr); err != nil {
			return errors.Wrapf(err, "failed to add directory %s", rel)
		}
	}

	for _, rel := range files {
		if err := addFile(zw, filepath.Join(addon.Dir, rel), archiveName(addon.ID, rel)); err != nil {
			return err
		}
	}

	if err := zw.Close(); err != nil {
		return errors.Wrap(err, "failed to finish archive")
	}
	return out.Close()
}

func addFile(zw *zip.Writer, src, name string) error {
	f, err := os.Open(src)
	if err != nil {
		return errors.Wrapf(err, "failed to open %s", src)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return errors.Wrapf(err, "failed to stat %s", src)
	}

	hdr, err := zip.FileInfoHeader(info)
	if err != nil {
		return errors.Wrapf(err, "failed to build header for %s", src)
	}
	hdr.Name = name
	hdr.Method = zip.Deflate

	w, err := zw.CreateHeader(hdr)
	if err != nil {
		return errors.Wrapf(err, "failed to add %s", name)
	}
	if _, err := io.Copy(w, f); err != nil {
		return errors.Wrapf(err, "failed to compress %s", src)
	}
	return nil
}

// archiveName maps a path relative to the add-on root to its entry name.
func archiveName(id, rel string) string {
	if rel == "." {
		return id
	}
	return path.Join(id, filepath.ToSlash(rel))
}

func copyFile(src, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return errors.Wrapf(err, "failed to create %s", filepath.Dir(dst))
	}

	in, err := os.Open(src)
	if err != nil {
		return errors.Wrapf(err, "failed to open %s", src)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return errors.Wrapf(err, "failed to create %s", dst)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return errors.Wrapf(err, "failed to copy %s", src)
	}
	if err := out.Close(); err != nil {
		return err
	}

	if info, err := os.Stat(src); err == nil {
		os.Chtimes(dst, info.ModTime(), info.ModTime())
	}
	return nil
}
