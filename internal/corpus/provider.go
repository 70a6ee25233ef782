// Package corpus supplies the ordered image list for each study group.
// Two sourcing modes exist: a flat manifest file whose lines are
// "<GroupFolder>/<name>", or a directory tree with one folder per group.
// A deployment uses exactly one mode; both emit a deterministic base
// order so the per-participant shuffle is reproducible.
package corpus

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/example/aquascore/pkg/models"
)

// Provider yields the ordered image identifiers of one group's corpus
// partition. An existing but empty partition is not an error; a missing
// source is.
type Provider interface {
	Images(group string) ([]string, error)
}

// imageExtensions are the file types recognized in directory mode.
var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".bmp":  true,
}

// ManifestSource reads image names from a flat text file, one per line,
// each prefixed with its group folder. Line order is the canonical base
// order.
type ManifestSource struct {
	Path string
}

// NewManifestSource creates a manifest-backed provider
func NewManifestSource(path string) *ManifestSource {
	return &ManifestSource{Path: path}
}

// Images returns the manifest lines belonging to the group, in file order.
func (s *ManifestSource) Images(group string) ([]string, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image manifest: %v", err)
	}
	defer f.Close()

	prefix := models.GroupFolder(group) + "/"
	var images []string

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, prefix) {
			images = append(images, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read image manifest: %v", err)
	}
	return images, nil
}

// DirectorySource lists image files from <Root>/<GroupFolder>, sorted
// lexicographically into the canonical base order.
type DirectorySource struct {
	Root string
}

// NewDirectorySource creates a directory-backed provider
func NewDirectorySource(root string) *DirectorySource {
	return &DirectorySource{Root: root}
}

// Images returns the recognized image files of the group's folder,
// namespaced as "<GroupFolder>/<name>" so identifiers match manifest
// mode and stay unique across groups in the store.
func (s *DirectorySource) Images(group string) ([]string, error) {
	folder := models.GroupFolder(group)
	entries, err := os.ReadDir(filepath.Join(s.Root, folder))
	if err != nil {
		return nil, fmt.Errorf("failed to list group directory: %v", err)
	}

	var images []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if imageExtensions[ext] {
			images = append(images, folder+"/"+entry.Name())
		}
	}
	sort.Strings(images)
	return images, nil
}
