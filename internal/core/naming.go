package core

import (
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/flytam/filenamify"
)

const archiveExt = ".zip"

// maxArchiveBaseLength keeps the full file name within the 255 byte limit
// shared by common file systems.
const maxArchiveBaseLength = 255 - len(archiveExt)

// minRevisionLength is the shortest suffix ParseArchiveFileName treats as
// a revision rather than part of the version.
const minRevisionLength = 6

// ArchiveFileName renders "{name}_{version}[-{revision}].zip" with every
// character a file system would reject replaced by "-".
func ArchiveFileName(name string, version string, revision string) (string, error) {
	name = strings.TrimSpace(name)
	version = strings.TrimSpace(version)
	if name == "" || version == "" {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("archive name requires package name and version")
	}
	base := name + "_" + version
	if revision = strings.TrimSpace(revision); revision != "" {
		base += "-" + revision
	}
	if len(base) > maxArchiveBaseLength {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("archive name %s is longer than %d bytes", base, maxArchiveBaseLength))
	}
	safe, err := filenamify.FilenamifyV2(base, func(o *filenamify.Options) {
		o.Replacement = "-"
		o.MaxLength = maxArchiveBaseLength
	})
	if err != nil {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("failed to sanitize archive name " + base).
			WithCause(err)
	}
	// Substitution is one for one; a shorter result had runs of "-"
	// collapsed or outer ones stripped.
	if utf8.RuneCountInString(safe) != utf8.RuneCountInString(base) {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("archive name %s cannot be sanitized without dropping characters (got %s)", base, safe))
	}
	return safe + archiveExt, nil
}

// ParseArchiveFileName splits a file name produced by ArchiveFileName back
// into package name, version and revision. A trailing "-<hex>" of at least
// minRevisionLength characters is read as the revision.
func ParseArchiveFileName(fileName string) (name string, version string, revision string, ok bool) {
	base := filepath.Base(fileName)
	if !strings.EqualFold(filepath.Ext(base), archiveExt) {
		return "", "", "", false
	}
	base = base[:len(base)-len(archiveExt)]
	idx := strings.LastIndex(base, "_")
	if idx <= 0 || idx == len(base)-1 {
		return "", "", "", false
	}
	name, version = base[:idx], base[idx+1:]
	if dash := strings.LastIndex(version, "-"); dash > 0 {
		suffix := version[dash+1:]
		if len(suffix) >= minRevisionLength && isHexString(suffix) {
			version, revision = version[:dash], suffix
		}
	}
	return name, version, revision, true
}

func isHexString(value string) bool {
	for _, r := range value {
		switch {
		case r >= '0' && r <= '9', r >= 'a' && r <= 'f', r >= 'A' && r <= 'F':
		default:
			return false
		}
	}
	return value != ""
}
