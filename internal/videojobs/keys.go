package videojobs

import (
	"path"
	"path/filepath"
	"strings"
)

const ManifestName = "master.m3u8"

// ArtifactKey maps an artifact path relative to the job output dir onto its
// blob key: <prefix>/<name>/<rel> with forward slashes.
func ArtifactKey(prefix, name, rel string) string {
	return path.Join(prefix, name, filepath.ToSlash(rel))
}

// CheckIdentity rejects names that are not a single path element, since they
// would resolve outside <prefix>/<name>/ once joined.
func CheckIdentity(name string) error {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) || path.Base(name) != name {
		return ErrInvalidIdentity
	}
	return nil
}

// InNamespace reports whether key lies strictly under <prefix>/<name>/.
func InNamespace(key, prefix, name string) bool {
	return strings.HasPrefix(key, path.Join(prefix, name)+"/")
}

// CleanArtifactPath rejects absolute paths and anything escaping the job
// namespace.
func CleanArtifactPath(rel string) (string, error) {
	rel = strings.TrimPrefix(filepath.ToSlash(rel), "/")
	if rel == "" {
		return "", ErrInvalidArtifactPath
	}
	cleaned := path.Clean(rel)
	if cleaned == "." || cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return "", ErrInvalidArtifactPath
	}
	return cleaned, nil
}
