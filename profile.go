package proxydetect

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// prefsFileName is the preferences file inside a Firefox profile directory.
const prefsFileName = "prefs.js"

// DefaultProfileLocator resolves the default Firefox profile of the current
// user by reading profiles.ini under the per-OS Firefox configuration
// directory.
type DefaultProfileLocator struct {
	// BaseDir overrides the Firefox configuration directory. When empty the
	// per-OS default is used.
	BaseDir string
}

// ActiveProfile implements ProfileLocator. A missing Firefox installation or
// profiles.ini is an absent source, not an error.
func (l *DefaultProfileLocator) ActiveProfile() (string, string, error) {
	base := l.BaseDir
	if base == "" {
		var err error
		base, err = firefoxConfigDir()
		if err != nil {
			return "", "", fmt.Errorf("%w: no user configuration directory: %v", ErrSourceAbsent, err)
		}
	}
	iniPath := filepath.Join(base, "profiles.ini")
	f, err := os.Open(iniPath)
	if err != nil {
		if os.IsNotExist(err) {
			return "", "", fmt.Errorf("%w: no profiles.ini at %s", ErrSourceAbsent, iniPath)
		}
		return "", "", fmt.Errorf("%w: open %s: %v", ErrIOFailure, iniPath, err)
	}
	defer f.Close()

	name, dir, err := pickProfile(f)
	if err != nil {
		return "", "", fmt.Errorf("%w: %s: %v", ErrMalformedSource, iniPath, err)
	}
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(base, filepath.FromSlash(dir))
	}
	return name, filepath.Join(dir, prefsFileName), nil
}

// iniProfile accumulates the fields of one [ProfileN] section.
type iniProfile struct {
	name      string
	path      string
	isDefault bool
}

// pickProfile scans profiles.ini and selects the active profile directory.
// An [Install*] section's Default entry wins; otherwise the profile marked
// Default=1; otherwise the first profile listed.
func pickProfile(r io.Reader) (name, dir string, err error) {
	var (
		profiles    []iniProfile
		installPath string
		section     string
		cur         *iniProfile
	)
	flush := func() {
		if cur != nil && cur.path != "" {
			profiles = append(profiles, *cur)
		}
		cur = nil
	}
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		switch {
		case line == "" || strings.HasPrefix(line, ";") || strings.HasPrefix(line, "#"):
			continue
		case strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]"):
			flush()
			section = line[1 : len(line)-1]
			if strings.HasPrefix(section, "Profile") {
				cur = &iniProfile{}
			}
		default:
			key, value, ok := strings.Cut(line, "=")
			if !ok {
				continue
			}
			key, value = strings.TrimSpace(key), strings.TrimSpace(value)
			switch {
			case cur != nil && key == "Name":
				cur.name = value
			case cur != nil && key == "Path":
				cur.path = value
			case cur != nil && key == "Default":
				cur.isDefault = value == "1"
			case strings.HasPrefix(section, "Install") && key == "Default" && installPath == "":
				installPath = value
			}
		}
	}
	flush()
	if err := sc.Err(); err != nil {
		return "", "", err
	}

	if installPath != "" {
		for _, p := range profiles {
			if p.path == installPath {
				return p.name, p.path, nil
			}
		}
		return filepath.Base(installPath), installPath, nil
	}
	for _, p := range profiles {
		if p.isDefault {
			return p.name, p.path, nil
		}
	}
	if len(profiles) > 0 {
		return profiles[0].name, profiles[0].path, nil
	}
	return "", "", fmt.Errorf("no profiles declared")
}

// firefoxConfigDir returns the directory holding profiles.ini for this OS.
func firefoxConfigDir() (string, error) {
	switch runtime.GOOS {
	case "windows", "darwin":
		dir, err := os.UserConfigDir()
		if err != nil {
			return "", err
		}
		if runtime.GOOS == "windows" {
			return filepath.Join(dir, "Mozilla", "Firefox"), nil
		}
		return filepath.Join(dir, "Firefox"), nil
	default:
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, ".mozilla", "firefox"), nil
	}
}
