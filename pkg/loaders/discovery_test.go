package loaders

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestTitleCase(t *testing.T) {
	testCases := []struct {
		input    string
		expected string
	}{
		{"three-spheres", "Three Spheres"},
		{"glass_ball", "Glass Ball"},
		{"UPPER-case", "Upper Case"},
		{"simple", "Simple"},
		{"", ""},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			if result := titleCase(tc.input); result != tc.expected {
				t.Errorf("titleCase(%q) = %q, want %q", tc.input, result, tc.expected)
			}
		})
	}
}

func TestDiscoverSceneFiles(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"b-scene.yaml":   "name: Bravo\ndescription: Second\n",
		"alpha_one.json": `{"camera": {}}`,
		"notes.txt":      "not a scene",
		"broken.yml":     "name: [",
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "nested.yaml"), 0o755); err != nil {
		t.Fatal(err)
	}

	got, err := DiscoverSceneFiles(dir)
	if err != nil {
		t.Fatalf("DiscoverSceneFiles: %v", err)
	}

	want := []SceneFileInfo{
		{Name: "Alpha One", FilePath: filepath.Join(dir, "alpha_one.json")},
		{Name: "Bravo", Description: "Second", FilePath: filepath.Join(dir, "b-scene.yaml")},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("unexpected scenes (-want +got):\n%s", diff)
	}

	if _, err := DiscoverSceneFiles(filepath.Join(dir, "missing")); err == nil {
		t.Error("Expected error for missing directory")
	}
}
