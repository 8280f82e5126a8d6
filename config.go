package spotlight

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds every tunable of the gesture engine. The zero value is not
// usable; start from DefaultConfig and override fields, or load a YAML file
// with LoadConfigFile.
type Config struct {
	Zoom        ZoomConfig        `yaml:"zoom"`
	Wheel       WheelConfig       `yaml:"wheel"`
	Pointer     PointerConfig     `yaml:"pointer"`
	Close       CloseConfig       `yaml:"close"`
	Calibration CalibrationConfig `yaml:"calibration"`
	Render      RenderConfig      `yaml:"render"`
	UI          UIConfig          `yaml:"ui"`
	Logging     LoggingConfig     `yaml:"logging"`
}

// ZoomConfig bounds the target scale and sets the zoom drivers.
type ZoomConfig struct {
	Step                  float64 `yaml:"step"`                    // zoomBy factor for keyboard/buttons
	MinScale              float64 `yaml:"min_scale"`               // lower bound for user zoom
	MaxScale              float64 `yaml:"max_scale"`               // upper bound for user and fit scale
	MinFitScale           float64 `yaml:"min_fit_scale"`           // lower bound for the fit-to-viewport scale
	MinVisibleRatio       float64 `yaml:"min_visible_ratio"`       // fraction of the image kept on screen when panning
	TrackpadSensitivity   float64 `yaml:"trackpad_sensitivity"`    // ctrl+wheel scale change per delta unit
	PinchModeration       float64 `yaml:"pinch_moderation"`        // multiplier for mouse/pen and platform pinches
	TouchPinchSensitivity float64 `yaml:"touch_pinch_sensitivity"` // multiplier for touch pinches
}

// WheelConfig drives the wheel path of the disambiguator.
type WheelConfig struct {
	SwipeThreshold        float64 `yaml:"swipe_threshold"`
	NearBaseBand          float64 `yaml:"near_base_band"`
	NearBaseFactor        float64 `yaml:"near_base_factor"`
	RatioThreshold        float64 `yaml:"ratio_threshold"`
	YThreshold            float64 `yaml:"y_threshold"`
	AccelerationThreshold float64 `yaml:"acceleration_threshold"`
	SwipeDebounceMS       int     `yaml:"swipe_debounce_ms"`
	ResetDelayMS          int     `yaml:"reset_delay_ms"`
	UnlockGapMS           int     `yaml:"unlock_gap_ms"`
	MouseNavDebounceMS    int     `yaml:"mouse_nav_debounce_ms"`
	MouseNavThreshold     float64 `yaml:"mouse_nav_threshold"`
}

// PointerConfig drives the pointer and touch path.
type PointerConfig struct {
	TouchSuppressMS     int     `yaml:"touch_suppress_ms"`
	PanThreshold        float64 `yaml:"pan_threshold"`
	SwipeThresholdPX    float64 `yaml:"swipe_threshold_px"`
	SwipeTimeoutMS      int     `yaml:"swipe_timeout_ms"`
	SwipeScaleTolerance float64 `yaml:"swipe_scale_tolerance"`
}

// CloseConfig controls swipe-to-close.
type CloseConfig struct {
	Threshold    float64 `yaml:"threshold"`     // translateY past which release closes
	FadeDistance float64 `yaml:"fade_distance"` // translateY at which chrome is fully faded
}

// CalibrationConfig controls the trackpad direction measurement.
type CalibrationConfig struct {
	Target         float64 `yaml:"target"`
	StartupDelayMS int     `yaml:"startup_delay_ms"`
	CooldownMS     int     `yaml:"cooldown_ms"`
	CloseDelayMS   int     `yaml:"close_delay_ms"`
}

// RenderConfig controls the smoothing loop and the entry animation.
type RenderConfig struct {
	Decay                    float64 `yaml:"decay"`
	MaxDtMS                  int     `yaml:"max_dt_ms"`
	ScaleEpsilon             float64 `yaml:"scale_epsilon"`
	TranslateEpsilon         float64 `yaml:"translate_epsilon"`
	CursorScaleThreshold     float64 `yaml:"cursor_scale_threshold"`
	CursorTranslateThreshold float64 `yaml:"cursor_translate_threshold"`
	SlideOffset              float64 `yaml:"slide_offset"`
	SlideStartScale          float64 `yaml:"slide_start_scale"`
	SlideDurationMS          int     `yaml:"slide_duration_ms"`
	FadeInDurationMS         int     `yaml:"fade_in_duration_ms"`
}

// UIConfig covers chrome auto-hide, persistence and diagnostics.
type UIConfig struct {
	HideDelayMS   int    `yaml:"hide_delay_ms"`
	PreferenceKey string `yaml:"preference_key"`
	ErrorLogSize  int    `yaml:"error_log_size"`
	DebugOverlay  bool   `yaml:"debug_overlay"`
}

// LoggingConfig selects the slog level: error, warn, info or debug.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// DefaultConfig returns the tuned defaults.
func DefaultConfig() Config {
	return Config{
		Zoom: ZoomConfig{
			Step:                  1.2,
			MinScale:              0.2,
			MaxScale:              8,
			MinFitScale:           0.05,
			MinVisibleRatio:       0.05,
			TrackpadSensitivity:   0.01,
			PinchModeration:       1,
			TouchPinchSensitivity: 1.1,
		},
		Wheel: WheelConfig{
			SwipeThreshold:        20,
			NearBaseBand:          0.8,
			NearBaseFactor:        0.5,
			RatioThreshold:        0.65,
			YThreshold:            10,
			AccelerationThreshold: 5,
			SwipeDebounceMS:       500,
			ResetDelayMS:          80,
			UnlockGapMS:           150,
			MouseNavDebounceMS:    300,
			MouseNavThreshold:     2,
		},
		Pointer: PointerConfig{
			TouchSuppressMS:     400,
			PanThreshold:        0.1,
			SwipeThresholdPX:    20,
			SwipeTimeoutMS:      500,
			SwipeScaleTolerance: 0.25,
		},
		Close: CloseConfig{
			Threshold:    100,
			FadeDistance: 150,
		},
		Calibration: CalibrationConfig{
			Target:         80,
			StartupDelayMS: 400,
			CooldownMS:     800,
			CloseDelayMS:   300,
		},
		Render: RenderConfig{
			Decay:                    15,
			MaxDtMS:                  60,
			ScaleEpsilon:             0.001,
			TranslateEpsilon:         0.1,
			CursorScaleThreshold:     0.02,
			CursorTranslateThreshold: 1,
			SlideOffset:              60,
			SlideStartScale:          0.96,
			SlideDurationMS:          650,
			FadeInDurationMS:         400,
		},
		UI: UIConfig{
			HideDelayMS:   1500,
			PreferenceKey: "spotlight-natural-scrolling",
			ErrorLogSize:  64,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// LoadConfigFile reads a YAML config from path. Fields missing from the file
// keep their DefaultConfig values; unknown fields are an error.
func LoadConfigFile(path string) (Config, error) {
	if path == "" {
		return Config{}, errors.New("config path is empty")
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config file: %w", err)
	}
	return ParseConfig(b)
}

// ParseConfig decodes YAML bytes on top of DefaultConfig and validates the result.
func ParseConfig(b []byte) (Config, error) {
	cfg := DefaultConfig()

	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)

	if err := dec.Decode(&cfg); err != nil {
		if errors.Is(err, io.EOF) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("decode config yaml: %w", err)
	}

	// Only whitespace and comments may follow the document.
	var extra yaml.Node
	if err := dec.Decode(&extra); !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("decode config yaml: unexpected trailing document")
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports the first field that would make the engine misbehave.
func (c Config) Validate() error {
	switch {
	case c.Zoom.MinScale <= 0:
		return fmt.Errorf("zoom.min_scale must be > 0 (got %v)", c.Zoom.MinScale)
	case c.Zoom.MaxScale < c.Zoom.MinScale:
		return fmt.Errorf("zoom.max_scale must be >= zoom.min_scale (got %v < %v)", c.Zoom.MaxScale, c.Zoom.MinScale)
	case c.Zoom.MinFitScale <= 0 || c.Zoom.MinFitScale > c.Zoom.MaxScale:
		return fmt.Errorf("zoom.min_fit_scale must be in (0, max_scale] (got %v)", c.Zoom.MinFitScale)
	case c.Zoom.Step <= 1:
		return fmt.Errorf("zoom.step must be > 1 (got %v)", c.Zoom.Step)
	case c.Zoom.MinVisibleRatio < 0 || c.Zoom.MinVisibleRatio > 0.5:
		return fmt.Errorf("zoom.min_visible_ratio must be in [0, 0.5] (got %v)", c.Zoom.MinVisibleRatio)
	case c.Wheel.SwipeThreshold <= 0:
		return fmt.Errorf("wheel.swipe_threshold must be > 0 (got %v)", c.Wheel.SwipeThreshold)
	case c.Wheel.ResetDelayMS <= 0:
		return fmt.Errorf("wheel.reset_delay_ms must be > 0 (got %d)", c.Wheel.ResetDelayMS)
	case c.Calibration.Target <= 0:
		return fmt.Errorf("calibration.target must be > 0 (got %v)", c.Calibration.Target)
	case c.Close.FadeDistance <= 0:
		return fmt.Errorf("close.fade_distance must be > 0 (got %v)", c.Close.FadeDistance)
	case c.Render.Decay <= 0:
		return fmt.Errorf("render.decay must be > 0 (got %v)", c.Render.Decay)
	case c.Render.MaxDtMS <= 0:
		return fmt.Errorf("render.max_dt_ms must be > 0 (got %d)", c.Render.MaxDtMS)
	case c.Render.ScaleEpsilon <= 0 || c.Render.TranslateEpsilon <= 0:
		return errors.New("render epsilons must be > 0")
	case c.UI.PreferenceKey == "":
		return errors.New("ui.preference_key is empty")
	}
	if _, err := ParseLogLevel(c.Logging.Level); err != nil {
		return err
	}
	return nil
}

func ms(n int) time.Duration {
	return time.Duration(n) * time.Millisecond
}
