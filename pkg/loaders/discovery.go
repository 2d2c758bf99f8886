package loaders

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/golang/glog"
	"sigs.k8s.io/yaml"
)

// SceneFileInfo describes a scene file found on disk
type SceneFileInfo struct {
	Name        string // From the file's name field, or derived from the file name
	Description string
	FilePath    string
}

// sceneHeader is the part of a scene file read during discovery
type sceneHeader struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

var sceneFileExtensions = []string{".yaml", ".yml", ".json"}

// DiscoverSceneFiles lists the scene files in dir, sorted by name. Files whose header
// cannot be parsed are skipped with a warning.
func DiscoverSceneFiles(dir string) ([]SceneFileInfo, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("while scanning scene directory: %w", err)
	}

	var scenes []SceneFileInfo
	for _, entry := range entries {
		if entry.IsDir() || !isSceneFile(entry.Name()) {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		info, err := ReadSceneFileInfo(path)
		if err != nil {
			glog.Warningf("Skipping %s: %v", path, err)
			continue
		}
		scenes = append(scenes, info)
	}

	sort.Slice(scenes, func(i, j int) bool {
		return scenes[i].Name < scenes[j].Name
	})
	return scenes, nil
}

// ReadSceneFileInfo reads the name and description of a scene file
func ReadSceneFileInfo(path string) (SceneFileInfo, error) {
	base := filepath.Base(path)
	info := SceneFileInfo{
		Name:     titleCase(strings.TrimSuffix(base, filepath.Ext(base))),
		FilePath: path,
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return info, err
	}
	var header sceneHeader
	if err := yaml.Unmarshal(data, &header); err != nil {
		return info, fmt.Errorf("while parsing header: %w", err)
	}
	if header.Name != "" {
		info.Name = header.Name
	}
	info.Description = header.Description
	return info, nil
}

func isSceneFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range sceneFileExtensions {
		if ext == e {
			return true
		}
	}
	return false
}

// titleCase converts "three-spheres" or "three_spheres" to "Three Spheres"
func titleCase(s string) string {
	s = strings.ReplaceAll(s, "-", " ")
	s = strings.ReplaceAll(s, "_", " ")

	words := strings.Fields(s)
	for i, word := range words {
		words[i] = strings.ToUpper(word[:1]) + strings.ToLower(word[1:])
	}
	return strings.Join(words, " ")
}
