package config

import (
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

// ManifestPath is the scene manifest read at startup, relative to the working directory.
const ManifestPath = "assets/scene.yaml"

// Step size bounds for the raycast march (in texture space)
const (
	MinStepSize = 0.001
	MaxStepSize = 0.05
)

// Settings is the read-only scene manifest. Every field has a default, so the
// manifest only needs to name what it overrides.
type Settings struct {
	LogLevel string          `yaml:"log_level"`
	Window   WindowSettings  `yaml:"window"`
	Volume   VolumeSettings  `yaml:"volume"`
	Camera   CameraSettings  `yaml:"camera"`
	Raycast  RaycastSettings `yaml:"raycast"`
	Shaders  ShaderSettings  `yaml:"shaders"`
}

type WindowSettings struct {
	Width    int    `yaml:"width"`
	Height   int    `yaml:"height"`
	Title    string `yaml:"title"`
	VSync    bool   `yaml:"vsync"`
	FPSLimit int    `yaml:"fps_limit"` // only used when vsync is off; 0 = unlimited
}

type VolumeSettings struct {
	Path     string `yaml:"path"`
	Width    int    `yaml:"width"`
	Height   int    `yaml:"height"`
	Depth    int    `yaml:"depth"`
	Transfer string `yaml:"transfer"` // optional transfer-function image

	// Procedural replaces the file with a generated noise volume of the
	// same dimensions.
	Procedural bool  `yaml:"procedural"`
	Seed       int64 `yaml:"seed"`
}

type CameraSettings struct {
	Position   [3]float32 `yaml:"position"`
	Yaw        float64    `yaml:"yaw"`
	Pitch      float64    `yaml:"pitch"`
	FOV        float32    `yaml:"fov"`
	Near       float32    `yaml:"near"`
	Far        float32    `yaml:"far"`
	Speed      float64    `yaml:"speed"`
	Boost      float64    `yaml:"boost"`
	MouseSpeed float64    `yaml:"mouse_speed"`
}

type RaycastSettings struct {
	StepSize   float32    `yaml:"step_size"`
	ClearColor [3]float32 `yaml:"clear_color"`
}

// ShaderPair names the stage sources of one program. Geometry is optional.
type ShaderPair struct {
	Vertex   string `yaml:"vertex"`
	Fragment string `yaml:"fragment"`
	Geometry string `yaml:"geometry,omitempty"`
}

type ShaderSettings struct {
	PositionMap      ShaderPair `yaml:"position_map"`
	Raycast          ShaderPair `yaml:"raycast"`
	DebugPositionMap ShaderPair `yaml:"debug_position_map"`
}

// Default returns the settings of the stock demo: an 800x600 window looking at
// the bonsai volume from (0,0,5).
func Default() Settings {
	return Settings{
		LogLevel: "info",
		Window: WindowSettings{
			Width:  800,
			Height: 600,
			Title:  "Basic Demo",
			VSync:  true,
		},
		Volume: VolumeSettings{
			Path:   "assets/volumes/bonsai_256x256x256_uint8.raw",
			Width:  256,
			Height: 256,
			Depth:  256,
			Seed:   1337,
		},
		Camera: CameraSettings{
			Position:   [3]float32{0, 0, 5},
			Yaw:        -math.Pi, // toward -Z
			Pitch:      0,
			FOV:        45,
			Near:       0.5,
			Far:        1000,
			Speed:      3,
			Boost:      4,
			MouseSpeed: 0.005,
		},
		Raycast: RaycastSettings{
			StepSize:   0.005,
			ClearColor: [3]float32{0.3, 0.3, 0.3},
		},
		Shaders: ShaderSettings{
			PositionMap: ShaderPair{
				Vertex:   "assets/shaders/posMap.vert",
				Fragment: "assets/shaders/posMap.frag",
			},
			Raycast: ShaderPair{
				Vertex:   "assets/shaders/raycast.vert",
				Fragment: "assets/shaders/raycast.frag",
			},
			DebugPositionMap: ShaderPair{
				Vertex:   "assets/shaders/debugPosMap.vert",
				Fragment: "assets/shaders/debugPosMap.frag",
			},
		},
	}
}

// Load reads the manifest at path on top of Default(). A missing file is not an
// error: the defaults are returned as-is.
func Load(path string) (Settings, error) {
	s := Default()

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return s, fmt.Errorf("could not read manifest %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &s); err != nil {
		return Default(), fmt.Errorf("could not parse manifest %s: %w", path, err)
	}

	if err := s.Validate(); err != nil {
		return Default(), fmt.Errorf("invalid manifest %s: %w", path, err)
	}
	return s, nil
}

// Validate rejects values the renderer cannot work with and clamps the step size.
func (s *Settings) Validate() error {
	if s.Window.Width <= 0 || s.Window.Height <= 0 {
		return fmt.Errorf("window size must be positive, got %dx%d", s.Window.Width, s.Window.Height)
	}
	if s.Volume.Width <= 0 || s.Volume.Height <= 0 || s.Volume.Depth <= 0 {
		return fmt.Errorf("volume dimensions must be positive, got %dx%dx%d",
			s.Volume.Width, s.Volume.Height, s.Volume.Depth)
	}
	if s.Window.FPSLimit < 0 {
		return fmt.Errorf("fps_limit must not be negative, got %d", s.Window.FPSLimit)
	}
	if s.Camera.Near <= 0 || s.Camera.Far <= s.Camera.Near {
		return fmt.Errorf("camera clip planes must satisfy 0 < near < far, got %v..%v", s.Camera.Near, s.Camera.Far)
	}

	// Clamp to reasonable values
	if s.Raycast.StepSize < MinStepSize {
		s.Raycast.StepSize = MinStepSize
	}
	if s.Raycast.StepSize > MaxStepSize {
		s.Raycast.StepSize = MaxStepSize
	}
	return nil
}

// VoxelCount is the number of bytes a volume file of these dimensions must hold.
func (v VolumeSettings) VoxelCount() int {
	return v.Width * v.Height * v.Depth
}
