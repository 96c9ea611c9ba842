package remap

import (
	"path"
	"path/filepath"
	"strconv"
	"strings"
	"unicode/utf16"
)

// FilesDir is the canonical storage directory created next to an artifact.
// Its presence marks the artifact as already remapped.
const FilesDir = "files"

// BackupPrefix names the copy of an artifact taken before it is rewritten.
const BackupPrefix = "orig-"

// Category is the second segment of a canonical path.
type Category string

const (
	CategoryIndependent Category = "engineIndependent"
	CategoryDependent   Category = "engineDependent"
	CategoryLogs        Category = "logs"
)

// legacyDir is the source directory name whose references may repeat it
// as their first segment.
const legacyDir = "test"

// CanonicalPath returns the storage path of ref, relative to the artifact's
// directory and always slash-separated:
//
//	files/<category>/[<engineID>/]<shard>/<basename>
//
// The engine segment is omitted for engine-independent files.
func CanonicalPath(cat Category, engineID, featureID, ref string) string {
	parts := []string{FilesDir, string(cat)}
	if cat != CategoryIndependent && engineID != "" {
		parts = append(parts, engineID)
	}
	parts = append(parts, FeatureShard(featureID), path.Base(toSlash(ref)))
	return path.Join(parts...)
}

// FeatureShard returns the directory name that groups a feature's files.
// It is the 32-bit absolute value of a base-31 polynomial hash over the
// UTF-16 code units of featureID, so shard names stay stable with layouts
// produced by earlier runs. Negation wraps: the one hash equal to
// math.MinInt32 keeps its sign.
func FeatureShard(featureID string) string {
	var h int32
	for _, u := range utf16.Encode([]rune(featureID)) {
		h = 31*h + int32(u)
	}
	if h < 0 {
		h = -h
	}
	return strconv.FormatInt(int64(h), 10)
}

// NormalizeRef converts ref to slash form and, when the artifact lives in a
// directory named "test", drops a redundant leading "test/" segment.
func NormalizeRef(sourceDir, ref string) string {
	ref = toSlash(ref)
	if filepath.Base(sourceDir) == legacyDir {
		ref = strings.TrimPrefix(ref, legacyDir+"/")
	}
	return ref
}

func toSlash(p string) string {
	return strings.ReplaceAll(p, `\`, "/")
}
