package scene

import (
	"sort"

	"github.com/pkg/errors"
)

// ErrUnknownScene is returned by ByName for unregistered scene names
var ErrUnknownScene = errors.New("unknown scene")

// SceneInfo describes a built-in scene
type SceneInfo struct {
	ID          string `json:"id"`          // Unique identifier, as passed to ByName
	DisplayName string `json:"displayName"` // UI display name
	Description string `json:"description"`
}

type builtin struct {
	info  SceneInfo
	build func() (*Scene, error)
}

var builtins = map[string]builtin{
	"point-plane": {
		info:  SceneInfo{ID: "point-plane", DisplayName: "Point Plane", Description: "Point light above a white diffuse plane"},
		build: NewPointPlaneScene,
	},
	"cornell": {
		info:  SceneInfo{ID: "cornell", DisplayName: "Cornell Box", Description: "Cornell box with a mirror sphere and a diffuse sphere"},
		build: NewCornellScene,
	},
	"mirror-box": {
		info:  SceneInfo{ID: "mirror-box", DisplayName: "Mirror Box", Description: "Open box with a mirror wall, a point light and an area light"},
		build: NewMirrorBoxScene,
	},
}

// ByName builds the named scene
func ByName(name string) (*Scene, error) {
	b, ok := builtins[name]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownScene, "%q (known: %v)", name, Names())
	}
	return b.build()
}

// Names lists the built-in scene IDs in alphabetical order
func Names() []string {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ListScenes returns the built-in scenes sorted by ID
func ListScenes() []SceneInfo {
	scenes := make([]SceneInfo, 0, len(builtins))
	for _, name := range Names() {
		scenes = append(scenes, builtins[name].info)
	}
	return scenes
}
