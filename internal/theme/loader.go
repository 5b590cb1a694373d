package theme

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultCacheSize is the number of resolved theme files kept in memory.
const DefaultCacheSize = 32

// themeExtensions are the file extensions recognised as theme documents,
// in lookup order.
var themeExtensions = []string{".json", ".jsonc", ".yaml", ".yml"}

// cachedTheme is a resolved theme file and the mod times of every file it
// was built from, the file itself and its includes.
type cachedTheme struct {
	modTimes map[string]time.Time
	theme    *Theme
}

// fresh reports whether none of the files behind the cached theme changed.
func (c cachedTheme) fresh() bool {
	for path, modTime := range c.modTimes {
		info, err := os.Stat(path)
		if err != nil || !info.ModTime().Equal(modTime) {
			return false
		}
	}
	return true
}

// Loader resolves theme references to themes.
type Loader struct {
	mu        sync.Mutex
	logger    *slog.Logger
	themesDir string
	cache     *lru.Cache[string, cachedTheme]
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithThemesDir overrides the user themes directory. An empty dir disables
// user themes.
func WithThemesDir(dir string) LoaderOption {
	return func(l *Loader) {
		l.themesDir = dir
	}
}

// NewLoader creates a new theme loader.
func NewLoader(logger *slog.Logger, opts ...LoaderOption) *Loader {
	if logger == nil {
		logger = slog.Default()
	}

	themesDir, err := ThemesDir()
	if err != nil {
		logger.Warn("failed to get themes directory", "error", err)
		themesDir = ""
	}

	// lru.New only fails for a non-positive size.
	cache, _ := lru.New[string, cachedTheme](DefaultCacheSize)

	l := &Loader{
		logger:    logger,
		themesDir: themesDir,
		cache:     cache,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// ThemesDir returns the path to the user's themes directory.
func ThemesDir() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "elara", "themes"), nil
}

// Source resolves a theme reference.
// Resolution order:
//  1. A path to a theme file (anything with a theme extension or a path separator)
//  2. User themes directory (~/.config/elara/themes/<ref>.json, .jsonc, .yaml, .yml)
//  3. Bundled themes
//  4. A chroma built-in style name, left unresolved as BuiltinNamed
//
// User themes may override bundled themes of the same name.
func (l *Loader) Source(ref string) (Source, error) {
	if ref == "" {
		ref = DefaultThemeName
	}

	if isThemePath(ref) {
		t, err := l.LoadFile(ref)
		if err != nil {
			return nil, err
		}
		return Custom{Theme: t}, nil
	}

	if path, ok := l.userThemePath(ref); ok {
		t, err := l.LoadFile(path)
		if err == nil {
			l.logger.Debug("loaded user theme", "name", ref, "path", path)
			return Custom{Theme: t}, nil
		}
		l.logger.Warn("failed to load user theme, trying bundled", "theme", ref, "error", err)
	}

	if data, found := GetEmbeddedTheme(ref); found {
		raw, err := ParseRaw(data, FormatJSON)
		if err != nil {
			return nil, fmt.Errorf("bundled theme %s: %w", ref, err)
		}
		l.logger.Debug("loaded bundled theme", "name", ref)
		return Custom{Theme: Resolve(raw)}, nil
	}

	return BuiltinNamed{Name: ref}, nil
}

// Load resolves a theme reference all the way to a Theme. Unknown
// references yield an error matching ErrThemeNotFound.
func (l *Loader) Load(ref string) (*Theme, error) {
	src, err := l.Source(ref)
	if err != nil {
		return nil, err
	}
	return FromSource(src)
}

// LoadFile reads and resolves a theme document from disk. Results are
// cached until the modification time of the file or of any file it
// includes changes.
func (l *Loader) LoadFile(path string) (*Theme, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	if _, err := os.Stat(abs); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, &NotFoundError{Name: path}
		}
		return nil, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if cached, ok := l.cache.Get(abs); ok && cached.fresh() {
		return cached.theme, nil
	}

	modTimes := make(map[string]time.Time)
	raw, err := l.loadRaw(abs, modTimes)
	if err != nil {
		return nil, err
	}
	t := Resolve(raw)
	if t.Name == "Unnamed Theme" {
		t.Name = strings.TrimSuffix(filepath.Base(abs), filepath.Ext(abs))
	}

	l.cache.Add(abs, cachedTheme{modTimes: modTimes, theme: t})
	return t, nil
}

// Invalidate drops a cached theme file, forcing the next load to re-read it.
func (l *Loader) Invalidate(path string) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return
	}
	l.mu.Lock()
	l.cache.Remove(abs)
	l.mu.Unlock()
}

// loadRaw reads a theme document and merges in the document named by its
// include field. Every file read is recorded in seen with its mod time,
// which also stops circular includes.
func (l *Loader) loadRaw(path string, seen map[string]time.Time) (*RawTheme, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	seen[path] = info.ModTime()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	raw, err := ParseRaw(data, FormatForPath(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if raw.Include == "" {
		return raw, nil
	}

	includePath := raw.Include
	if !filepath.IsAbs(includePath) {
		includePath = filepath.Join(filepath.Dir(path), includePath)
	}
	if _, ok := seen[includePath]; ok {
		l.logger.Warn("circular theme include ignored", "path", path, "include", raw.Include)
		return raw, nil
	}

	base, err := l.loadRaw(includePath, seen)
	if err != nil {
		l.logger.Warn("failed to load included theme", "path", path, "include", raw.Include, "error", err)
		return raw, nil
	}
	return mergeRaw(base, raw), nil
}

// mergeRaw layers over on top of base. Base rules come first so the
// including document's rules win.
func mergeRaw(base, over *RawTheme) *RawTheme {
	merged := &RawTheme{
		Name:   over.Name,
		Type:   over.Type,
		Colors: make(map[string]string, len(base.Colors)+len(over.Colors)),
	}
	if merged.Name == "" {
		merged.Name = base.Name
	}
	if merged.Type == "" {
		merged.Type = base.Type
	}
	for k, v := range base.Colors {
		merged.Colors[k] = v
	}
	for k, v := range over.Colors {
		merged.Colors[k] = v
	}
	merged.TokenColors = append(merged.TokenColors, base.TokenColors...)
	merged.TokenColors = append(merged.TokenColors, over.TokenColors...)
	return merged
}

func (l *Loader) userThemePath(name string) (string, bool) {
	if l.themesDir == "" {
		return "", false
	}
	for _, ext := range themeExtensions {
		path := filepath.Join(l.themesDir, name+ext)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path, true
		}
	}
	return "", false
}

func isThemePath(ref string) bool {
	if strings.ContainsRune(ref, filepath.Separator) || strings.ContainsRune(ref, '/') {
		return true
	}
	return isThemeFile(ref)
}

func isThemeFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range themeExtensions {
		if ext == e {
			return true
		}
	}
	return false
}

// ThemeInfo provides basic theme information for listing.
type ThemeInfo struct {
	Name      string `json:"name"`
	Path      string `json:"path,omitempty"`
	IsDefault bool   `json:"is_default,omitempty"`
	IsBundled bool   `json:"is_bundled,omitempty"` // True if this is a bundled/embedded theme
	IsBuiltin bool   `json:"is_builtin,omitempty"` // True if this is a chroma built-in style
}

// ListThemes lists bundled themes, user themes and built-in styles, with
// duplicates removed. Earlier sources shadow later ones.
func (l *Loader) ListThemes() []ThemeInfo {
	seen := make(map[string]bool)
	var themes []ThemeInfo

	// User themes first since they override bundled ones.
	if l.themesDir != "" {
		entries, err := os.ReadDir(l.themesDir)
		if err == nil {
			for _, entry := range entries {
				if entry.IsDir() || !isThemeFile(entry.Name()) {
					continue
				}
				name := strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name()))
				if !seen[name] {
					seen[name] = true
					themes = append(themes, ThemeInfo{
						Name: name,
						Path: filepath.Join(l.themesDir, entry.Name()),
					})
				}
			}
		} else if !errors.Is(err, os.ErrNotExist) {
			l.logger.Debug("failed to read themes directory", "error", err)
		}
	}

	for _, name := range ListEmbeddedThemes() {
		if !seen[name] {
			seen[name] = true
			themes = append(themes, ThemeInfo{Name: name, IsBundled: true})
		}
	}

	for _, name := range BuiltinStyleNames() {
		if !seen[name] {
			seen[name] = true
			themes = append(themes, ThemeInfo{
				Name:      name,
				IsDefault: name == DefaultThemeName,
				IsBuiltin: true,
			})
		}
	}

	return themes
}
