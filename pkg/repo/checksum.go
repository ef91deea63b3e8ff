package repo

import (
	"crypto/md5"
	"encoding/hex"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
)

// ChecksumSuffix is appended to a file name to form its checksum sidecar.
const ChecksumSuffix = ".md5"

// FileMD5 returns the hex MD5 digest of the file at path.
func FileMD5(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", errors.Wrap(err, "failed to open file for checksum")
	}
	defer f.Close()

	h := md5.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", errors.Wrapf(err, "failed to hash %s", path)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// BytesMD5 returns the hex MD5 digest of data.
func BytesMD5(data []byte) string {
	sum := md5.Sum(data)
	return hex.EncodeToString(sum[:])
}

// WriteChecksum writes the MD5 sidecar for path and returns the digest.
func WriteChecksum(path string) (string, error) {
	digest, err := FileMD5(path)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path+ChecksumSuffix, []byte(digest), 0644); err != nil {
		return "", errors.Wrapf(err, "failed to write %s%s", path, ChecksumSuffix)
	}
	return digest, nil
}

// parseChecksum extracts the digest from a sidecar body. md5sum-style
// "<digest>  <name>" lines are accepted too.
func parseChecksum(body []byte) string {
	fields := strings.Fields(string(body))
	if len(fields) == 0 {
		return ""
	}
	return strings.ToLower(fields[0])
}
