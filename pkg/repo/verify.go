package repo

import (
	"context"
	"encoding/xml"

	"github.com/pkg/errors"

	"kodi-localsubs-go/pkg/interfaces"
	"kodi-localsubs-go/pkg/logging"
	"kodi-localsubs-go/pkg/urlutil"
)

// ErrChecksumMismatch is returned when a published file does not match its
// .md5 sidecar.
var ErrChecksumMismatch = errors.New("checksum mismatch")

// Check is the outcome of verifying one published file.
type Check struct {
	URL      string
	Expected string
	Actual   string
}

// OK reports whether the digests agree.
func (c Check) OK() bool {
	return c.Expected != "" && c.Expected == c.Actual
}

type manifestIndex struct {
	Addons []addonDescriptor `xml:"addon"`
}

// Verifier checks a published repository against its checksums.
type Verifier struct {
	client interfaces.Fetcher
	log    *logging.Logger
}

// NewVerifier creates a Verifier that downloads through client.
func NewVerifier(client interfaces.Fetcher, log *logging.Logger) *Verifier {
	return &Verifier{
		client: client,
		log:    log.WithComponent("verifier"),
	}
}

// Verify downloads addons.xml and every listed add-on archive from baseURL
// and compares each against its .md5 sidecar. All files are checked; the
// returned error wraps ErrChecksumMismatch if any of them failed.
func (v *Verifier) Verify(ctx context.Context, baseURL string) ([]Check, error) {
	base := urlutil.DirURL(baseURL)
	manifestURL := urlutil.ResolveURL(ManifestFile, base)

	manifest, check, err := v.verifyFile(ctx, manifestURL)
	if err != nil {
		return nil, err
	}
	checks := []Check{check}

	var index manifestIndex
	if err := xml.Unmarshal(manifest, &index); err != nil {
		return checks, errors.Wrapf(err, "failed to parse %s", manifestURL)
	}

	for _, desc := range index.Addons {
		addon := &Addon{ID: desc.ID, Version: desc.Version}
		zipURL := urlutil.ResolveURL(addon.ID+"/"+addon.ZipName(), base)

		_, check, err := v.verifyFile(ctx, zipURL)
		if err != nil {
			return checks, err
		}
		checks = append(checks, check)
	}

	failed := 0
	for _, c := range checks {
		if !c.OK() {
			failed++
			v.log.Warn("checksum mismatch", "url", c.URL, "expected", c.Expected, "actual", c.Actual)
		}
	}
	if failed > 0 {
		return checks, errors.Wrapf(ErrChecksumMismatch, "%d of %d files failed verification", failed, len(checks))
	}

	v.log.Info("repository verified", "base_url", base, "files", len(checks))
	return checks, nil
}

func (v *Verifier) verifyFile(ctx context.Context, fileURL string) ([]byte, Check, error) {
	body, err := v.client.Fetch(ctx, fileURL)
	if err != nil {
		return nil, Check{}, errors.Wrap(err, "download failed")
	}

	sidecar, err := v.client.Fetch(ctx, fileURL+ChecksumSuffix)
	if err != nil {
		return nil, Check{}, errors.Wrap(err, "checksum download failed")
	}

	check := Check{
		URL:      fileURL,
		Expected: parseChecksum(sidecar),
		Actual:   BytesMD5(body),
	}
	v.log.Debug("verified file", "url", fileURL, "ok", check.OK())
	return body, check, nil
}
