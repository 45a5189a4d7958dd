package capture

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// File is a handle to the file the user chose: its name, size and declared
// media type, plus a way to read its content. The zero value means "no file".
type File struct {
	Name      string
	Path      string // empty for in-memory files
	Size      int64
	MediaType string

	open func() (io.ReadCloser, error)
}

// knownTypes mirrors the picker accept filter; anything else falls back to the
// platform mime table and then to content sniffing.
var knownTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".dcm":  "application/dicom",
}

// PickerTypes lists the extensions offered by the file picker.
var PickerTypes = []string{".jpg", ".jpeg", ".png", ".dcm"}

// FromPath builds a File for the given path. Tilde paths are expanded.
// Only existence is checked; size and type are never grounds for rejection.
func FromPath(path string) (File, error) {
	resolved, err := expandPath(path)
	if err != nil {
		return File{}, &InputError{Path: path, Err: err}
	}
	info, err := os.Stat(resolved)
	if err != nil {
		return File{}, &InputError{Path: resolved, Err: err}
	}
	if info.IsDir() {
		return File{}, &InputError{Path: resolved, Err: errors.New("is a directory")}
	}
	return File{
		Name:      filepath.Base(resolved),
		Path:      resolved,
		Size:      info.Size(),
		MediaType: detectFromPath(resolved),
		open: func() (io.ReadCloser, error) {
			return os.Open(resolved)
		},
	}, nil
}

// FromPaths converts paths in order, skipping the ones that cannot be used.
// The returned error is the first failure, if any.
func FromPaths(paths []string) ([]File, error) {
	var (
		files    []File
		firstErr error
	)
	for _, p := range paths {
		f, err := FromPath(p)
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		files = append(files, f)
	}
	return files, firstErr
}

// FromBytes wraps in-memory content. An empty mediaType is sniffed.
func FromBytes(name, mediaType string, data []byte) File {
	if strings.TrimSpace(mediaType) == "" {
		mediaType = baseType(mimetype.Detect(data).String())
	}
	content := append([]byte(nil), data...)
	return File{
		Name:      name,
		Size:      int64(len(content)),
		MediaType: mediaType,
		open: func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(content)), nil
		},
	}
}

// Open returns a reader over the file content.
func (f File) Open() (io.ReadCloser, error) {
	if f.open == nil {
		return nil, fmt.Errorf("file %q has no content", f.Name)
	}
	return f.open()
}

// IsImage reports whether the declared media type is a displayable image.
func (f File) IsImage() bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(f.MediaType)), "image/")
}

// SizeLabel renders the size in kilobytes with two decimals.
func (f File) SizeLabel() string {
	return fmt.Sprintf("%.2f KB", float64(f.Size)/1024)
}

func detectFromPath(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	if t, ok := knownTypes[ext]; ok {
		return t
	}
	if t := mime.TypeByExtension(ext); t != "" {
		return baseType(t)
	}
	mt, err := mimetype.DetectFile(path)
	if err != nil {
		return "application/octet-stream"
	}
	return baseType(mt.String())
}

func baseType(value string) string {
	mediaType, _, err := mime.ParseMediaType(value)
	if err != nil {
		return value
	}
	return mediaType
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
