package fonts

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/adrg/sysfont"
	"github.com/golang/freetype/truetype"
	"github.com/handiism/nftposter/internal/model"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomedium"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
)

// ErrFontResolution is returned when a font family cannot be found or parsed.
// A missing font is never replaced by another one.
var ErrFontResolution = errors.New("font resolution failed")

// DefaultFamily is the embedded family used when settings do not name one.
const DefaultFamily = "gobold"

var embedded = map[string][]byte{
	"goregular": goregular.TTF,
	"gobold":    gobold.TTF,
	"gomedium":  gomedium.TTF,
	"goitalic":  goitalic.TTF,
	"gomono":    gomono.TTF,
}

// Embedded returns the names of the fonts compiled into the binary.
func Embedded() []string {
	return []string{"goregular", "gobold", "gomedium", "goitalic", "gomono"}
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithSystemFonts replaces the system font listing, mainly for tests.
func WithSystemFonts(list func() []*sysfont.Font) Option {
	return func(r *Resolver) {
		r.listSystem = list
	}
}

// Resolver turns font families into parsed TrueType fonts.
//
// A family is looked up in this order:
//  1. embedded Go fonts by name ("goregular", "gobold", ...)
//  2. a path to a .ttf file
//  3. an installed system family matched by exact name (case-insensitive)
//
// Parsed fonts are cached per family. Faces are created fresh for every
// call because font.Face values are not safe for concurrent use.
//
// Example:
//
//	r := fonts.NewResolver()
//	face, err := r.Face(model.FontSpec{Family: "gobold", Size: 80})
//	if errors.Is(err, fonts.ErrFontResolution) {
//	    // family missing, fail the request
//	}
type Resolver struct {
	mu         sync.Mutex
	cache      map[string]*truetype.Font
	listSystem func() []*sysfont.Font
	system     []*sysfont.Font
	scanned    bool
}

// NewResolver creates a Resolver. The system font directories are scanned
// lazily, on the first family that is neither embedded nor a file path.
func NewResolver(opts ...Option) *Resolver {
	r := &Resolver{
		cache: make(map[string]*truetype.Font),
		listSystem: func() []*sysfont.Font {
			return sysfont.NewFinder(nil).List()
		},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Font returns the parsed font for family.
func (r *Resolver) Font(family string) (*truetype.Font, error) {
	key := strings.ToLower(strings.TrimSpace(family))
	if key == "" {
		return nil, fmt.Errorf("%w: empty family", ErrFontResolution)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if f, ok := r.cache[key]; ok {
		return f, nil
	}

	data, err := r.load(family, key)
	if err != nil {
		return nil, err
	}

	f, err := truetype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%w: parse %q: %v", ErrFontResolution, family, err)
	}

	r.cache[key] = f
	return f, nil
}

// Face creates a face for spec at 72 DPI, so Size is in pixels.
func (r *Resolver) Face(spec model.FontSpec) (font.Face, error) {
	if err := spec.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFontResolution, err)
	}

	f, err := r.Font(spec.Family)
	if err != nil {
		return nil, err
	}

	return truetype.NewFace(f, &truetype.Options{
		Size:    float64(spec.Size),
		DPI:     72,
		Hinting: font.HintingFull,
	}), nil
}

// Faces creates one face per role of set.
func (r *Resolver) Faces(set model.FontSet) (map[model.Role]font.Face, error) {
	faces := make(map[model.Role]font.Face, 3)
	for _, role := range model.Roles() {
		spec, err := set.For(role)
		if err != nil {
			return nil, err
		}
		face, err := r.Face(spec)
		if err != nil {
			return nil, fmt.Errorf("%s font %s: %w", role, spec, err)
		}
		faces[role] = face
	}
	return faces, nil
}

// load must be called with r.mu held.
func (r *Resolver) load(family, key string) ([]byte, error) {
	if data, ok := embedded[key]; ok {
		return data, nil
	}

	if isFontPath(family) {
		data, err := os.ReadFile(family)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrFontResolution, err)
		}
		return data, nil
	}

	path := r.findSystem(key)
	if path == "" {
		return nil, fmt.Errorf("%w: family %q not installed", ErrFontResolution, family)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFontResolution, err)
	}
	return data, nil
}

// findSystem matches key against installed family and full names.
// Only exact matches count; sysfont's fuzzy Match would silently pick
// a different family.
func (r *Resolver) findSystem(key string) string {
	if !r.scanned {
		r.system = r.listSystem()
		r.scanned = true
	}

	for _, f := range r.system {
		if !strings.EqualFold(filepath.Ext(f.Filename), ".ttf") {
			continue
		}
		base := strings.TrimSuffix(filepath.Base(f.Filename), filepath.Ext(f.Filename))
		if strings.EqualFold(f.Family, key) || strings.EqualFold(f.Name, key) || strings.EqualFold(base, key) {
			return f.Filename
		}
	}
	return ""
}

func isFontPath(family string) bool {
	ext := strings.ToLower(filepath.Ext(family))
	return ext == ".ttf" || strings.ContainsRune(family, filepath.Separator)
}
