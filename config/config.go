// Package config reads the KEY=VALUE settings file shared by every host.
//
//	TILES=12,12
//	TILE_SIZE=64,64
//	BG_COLOR=0,0,0
//	SNAKE_COLOR=127,127,127
//	FOOD_COLOR=255,255,255
//	TEXT_COLOR=255,255,127
//	PADDING=8
//	TICK=0.15
//	EDGE=wrap
//
// Keys are case-insensitive and may appear in any order; missing keys keep
// their defaults.
package config

import (
	"bufio"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"gridsnake/game/types"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// DefaultPath is where hosts look when no -config flag is given.
const DefaultPath = "config.txt"

// Color is an 8-bit RGB triple.
type Color struct {
	R, G, B uint8
}

type Config struct {
	Columns    int           `validate:"gte=5"`
	Rows       int           `validate:"gte=4"`
	TileWidth  int           `validate:"gt=0"`
	TileHeight int           `validate:"gt=0"`
	Padding    int           `validate:"gte=0,ltfield=TileWidth,ltfield=TileHeight"`
	Tick       time.Duration `validate:"gt=0"`
	Edge       types.EdgePolicy

	Background Color
	Snake      Color
	Food       Color
	Text       Color
}

func Default() Config {
	return Config{
		Columns:    12,
		Rows:       12,
		TileWidth:  64,
		TileHeight: 64,
		Padding:    8,
		Tick:       150 * time.Millisecond,
		Edge:       types.EdgeWrap,
		Background: Color{0, 0, 0},
		Snake:      Color{127, 127, 127},
		Food:       Color{255, 255, 255},
		Text:       Color{255, 255, 127},
	}
}

// Grid is the slice of the config the game session needs.
func (c Config) Grid() types.GridConfig {
	return types.GridConfig{
		Width:  c.Columns,
		Height: c.Rows,
		Tick:   c.Tick,
		Edge:   c.Edge,
	}
}

// WindowSize is the pixel size of the board including the outer padding.
func (c Config) WindowSize() (width, height int) {
	return c.Columns*c.TileWidth + c.Padding, c.Rows*c.TileHeight + c.Padding
}

var validate = validator.New()

func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(err, "invalid config")
	}
	return c.Grid().Validate()
}

// Load reads path. A missing file is not an error: the defaults are used.
func Load(path string, log zerolog.Logger) (Config, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		log.Info().Str("path", path).Msg("no config file, using defaults")
		return Default(), nil
	}
	if err != nil {
		return Config{}, errors.Wrapf(err, "open config %s", path)
	}
	defer f.Close()

	cfg, err := Parse(f, log)
	if err != nil {
		return Config{}, errors.Wrap(err, path)
	}
	return cfg, nil
}

// Parse reads settings from r on top of the defaults. Unknown keys are
// logged and skipped; malformed lines and values are errors.
func Parse(r io.Reader, log zerolog.Logger) (Config, error) {
	cfg := Default()

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok || strings.Contains(value, "=") {
			return Config{}, errors.Errorf("line %d: expected KEY=VALUE, got %q", lineNo, line)
		}
		key = strings.ToUpper(strings.TrimSpace(key))
		value = strings.TrimSpace(value)

		known, err := cfg.set(key, value)
		if err != nil {
			return Config{}, errors.Wrapf(err, "line %d: %s", lineNo, key)
		}
		if !known {
			log.Warn().Int("line", lineNo).Str("key", key).Msg("unrecognized configuration key")
		}
	}
	if err := scanner.Err(); err != nil {
		return Config{}, errors.Wrap(err, "read config")
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) set(key, value string) (bool, error) {
	var err error
	switch key {
	case "TILES":
		c.Columns, c.Rows, err = parsePair(value)
	case "TILE_SIZE":
		c.TileWidth, c.TileHeight, err = parsePair(value)
	case "BG_COLOR":
		c.Background, err = parseColor(value)
	case "SNAKE_COLOR":
		c.Snake, err = parseColor(value)
	case "FOOD_COLOR":
		c.Food, err = parseColor(value)
	case "TEXT_COLOR":
		c.Text, err = parseColor(value)
	case "PADDING":
		c.Padding, err = strconv.Atoi(value)
	case "TICK":
		c.Tick, err = parseSeconds(value)
	case "EDGE":
		c.Edge, err = types.ParseEdgePolicy(value)
	default:
		return false, nil
	}
	return true, err
}

func parsePair(value string) (int, int, error) {
	parts := strings.Split(value, ",")
	if len(parts) != 2 {
		return 0, 0, errors.Errorf("expected two comma-separated numbers, got %q", value)
	}

	a, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, 0, err
	}
	b, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, 0, err
	}
	return a, b, nil
}

func parseColor(value string) (Color, error) {
	parts := strings.Split(value, ",")
	if len(parts) != 3 {
		return Color{}, errors.Errorf("expected R,G,B, got %q", value)
	}

	var rgb [3]uint8
	for i, p := range parts {
		v, err := strconv.ParseUint(strings.TrimSpace(p), 10, 8)
		if err != nil {
			return Color{}, err
		}
		rgb[i] = uint8(v)
	}
	return Color{R: rgb[0], G: rgb[1], B: rgb[2]}, nil
}

// parseSeconds reads a decimal number of seconds such as 0.15.
func parseSeconds(value string) (time.Duration, error) {
	secs, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, err
	}
	return time.Duration(math.Round(secs * float64(time.Second))), nil
}
