package carousel

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Segments is the subdivision count of a slide plane along each axis.
// A plane has (X+1)*(Y+1) vertices.
type Segments struct {
	X int `yaml:"x"`
	Y int `yaml:"y"`
}

// Config holds every tunable of the carousel. Start from DefaultConfig and
// override fields, or overlay a YAML file with LoadConfig.
type Config struct {
	// Layout
	SlideCount  int      `yaml:"slideCount"`
	ImagesCount int      `yaml:"imagesCount"`
	SlideWidth  float64  `yaml:"slideWidth"`
	SlideHeight float64  `yaml:"slideHeight"`
	Gap         float64  `yaml:"gap"`
	Segments    Segments `yaml:"segments"`

	// Distortion
	MaxDistortion       float64 `yaml:"maxDistortion"`
	DistortionRadius    float64 `yaml:"distortionRadius"`
	DistortionSmoothing float64 `yaml:"distortionSmoothing"`
	DistortionDecay     float64 `yaml:"distortionDecay"`

	// Motion
	Smoothing          float64 `yaml:"smoothing"`
	SlideLerp          float64 `yaml:"slideLerp"`
	MomentumMultiplier float64 `yaml:"momentumMultiplier"`

	// Input
	WheelSensitivity      float64       `yaml:"wheelSensitivity"`
	TouchSensitivity      float64       `yaml:"touchSensitivity"`
	WheelLineHeight       float64       `yaml:"wheelLineHeight"`
	KeyDistortionBump     float64       `yaml:"keyDistortionBump"`
	WheelDebounce         time.Duration `yaml:"wheelDebounce"`
	TouchMomentumDuration time.Duration `yaml:"touchMomentumDuration"`
	MouseDrag             bool          `yaml:"mouseDrag"`

	// Assets
	AssetDir           string        `yaml:"assetDir"`
	ImagePaths         []string      `yaml:"imagePaths"`
	MaxConcurrentLoads int           `yaml:"maxConcurrentLoads"`
	FadeInDuration     time.Duration `yaml:"fadeInDuration"`

	// Camera
	FOV     float64 `yaml:"fov"` // vertical field of view in degrees
	CameraZ float64 `yaml:"cameraZ"`

	Debug bool `yaml:"debug"`
}

// DefaultConfig returns the stock carousel tuning: ten 3.0x1.5 slides cycling
// through five images.
func DefaultConfig() Config {
	return Config{
		SlideCount:  10,
		ImagesCount: 5,
		SlideWidth:  3.0,
		SlideHeight: 1.5,
		Gap:         0.1,
		Segments:    Segments{X: 32, Y: 16},

		MaxDistortion:       2.5,
		DistortionRadius:    2.0,
		DistortionSmoothing: 0.075,
		DistortionDecay:     0.95,

		Smoothing:          0.1,
		SlideLerp:          0.075,
		MomentumMultiplier: 2.0,

		WheelSensitivity:      0.01,
		TouchSensitivity:      0.01,
		WheelLineHeight:       100,
		KeyDistortionBump:     0.3,
		WheelDebounce:         150 * time.Millisecond,
		TouchMomentumDuration: 800 * time.Millisecond,
		MouseDrag:             true,

		AssetDir: "examples/_assets",
		ImagePaths: []string{
			"img1.jpg", "img2.jpg", "img3.jpg", "img4.jpg", "img5.jpg",
		},
		MaxConcurrentLoads: 2,
		FadeInDuration:     400 * time.Millisecond,

		FOV:     45,
		CameraZ: 5,
	}
}

// SlideUnit is the center-to-center spacing of adjacent slides.
func (c *Config) SlideUnit() float64 {
	return c.SlideWidth + c.Gap
}

// TotalWidth is the length of one full loop of the strip.
func (c *Config) TotalWidth() float64 {
	return float64(c.SlideCount) * c.SlideUnit()
}

// LoadConfig reads a YAML file and overlays it on DefaultConfig. Keys absent
// from the file keep their default values.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read carousel config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse carousel config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid carousel config: %w", err)
	}
	return cfg, nil
}

// Validate checks that the configuration describes a drawable carousel and
// that every smoothing factor lies in (0, 1].
func (c *Config) Validate() error {
	if c.SlideCount < 1 {
		return fmt.Errorf("slideCount must be positive, got %d", c.SlideCount)
	}
	if c.ImagesCount < 1 {
		return fmt.Errorf("imagesCount must be positive, got %d", c.ImagesCount)
	}
	if len(c.ImagePaths) < c.ImagesCount {
		return fmt.Errorf("imagePaths has %d entries, need %d", len(c.ImagePaths), c.ImagesCount)
	}
	if c.SlideWidth <= 0 || c.SlideHeight <= 0 {
		return fmt.Errorf("slide size must be positive, got %.2fx%.2f", c.SlideWidth, c.SlideHeight)
	}
	if c.Gap < 0 {
		return fmt.Errorf("gap must not be negative, got %.2f", c.Gap)
	}
	if c.Segments.X < 1 || c.Segments.Y < 1 {
		return fmt.Errorf("segments must be at least 1x1, got %dx%d", c.Segments.X, c.Segments.Y)
	}
	// uint16 indices
	if (c.Segments.X+1)*(c.Segments.Y+1) > 1<<16 {
		return fmt.Errorf("segments %dx%d exceed the vertex limit", c.Segments.X, c.Segments.Y)
	}
	if c.DistortionRadius <= 0 {
		return fmt.Errorf("distortionRadius must be positive, got %.2f", c.DistortionRadius)
	}
	for name, v := range map[string]float64{
		"smoothing":           c.Smoothing,
		"slideLerp":           c.SlideLerp,
		"distortionSmoothing": c.DistortionSmoothing,
		"distortionDecay":     c.DistortionDecay,
	} {
		if v <= 0 || v > 1 {
			return fmt.Errorf("%s must be in (0, 1], got %.3f", name, v)
		}
	}
	if c.FOV <= 0 || c.FOV >= 180 {
		return fmt.Errorf("fov must be in (0, 180), got %.1f", c.FOV)
	}
	if c.CameraZ <= 0 {
		return fmt.Errorf("cameraZ must be positive, got %.2f", c.CameraZ)
	}
	// A fully bent slide must stay in front of the eye.
	if c.MaxDistortion >= c.CameraZ {
		return fmt.Errorf("maxDistortion %.2f must be less than cameraZ %.2f", c.MaxDistortion, c.CameraZ)
	}
	if c.MaxConcurrentLoads < 1 {
		return fmt.Errorf("maxConcurrentLoads must be positive, got %d", c.MaxConcurrentLoads)
	}
	return nil
}
