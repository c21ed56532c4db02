package loader

import (
	"fmt"
	"io/fs"
	"path"
	"sort"

	"github.com/goliatone/go-wiki/internal/markup"
	"github.com/goliatone/go-wiki/pkg/interfaces"
)

// selectLanguage picks the folder to load from: the active language, then
// the default language, then the first language folder found. An empty
// folder means no language exists and nothing should be loaded. Every
// fallback is reported.
func selectLanguage(fsys fs.FS, dir string, languages interfaces.LanguageProvider, packName string) (string, string, markup.Diagnostics) {
	var diags markup.Diagnostics
	warn := func(msg string) {
		diags = append(diags, markup.Diagnostic{
			Kind:     markup.KindLanguageFallback,
			Severity: markup.SeverityWarning,
			File:     dir,
			Message:  msg,
		})
	}

	active, fallback := "", ""
	if languages != nil {
		active, fallback = languages.ActiveLanguage(), languages.DefaultLanguage()
	}

	if active != "" && isDir(fsys, path.Join(dir, active)) {
		return active, path.Join(dir, active), nil
	}

	if active == fallback {
		warn(fmt.Sprintf("pack %s has a wiki folder but does not support language '%s'; falling back to first found", packName, active))
	} else {
		warn(fmt.Sprintf("pack %s has a wiki folder but does not support language '%s'; falling back to '%s', or first found", packName, active, fallback))
		if fallback != "" && isDir(fsys, path.Join(dir, fallback)) {
			warn(fmt.Sprintf("using %s", fallback))
			return fallback, path.Join(dir, fallback), diags
		}
	}

	folders := subfolders(fsys, dir)
	if len(folders) == 0 {
		warn(fmt.Sprintf("pack %s has a wiki folder but no languages; expected '<pack>/Wiki/<Language>/'", packName))
		return "", "", diags
	}
	warn(fmt.Sprintf("failed to find wiki in '%s', using first found: '%s'", fallback, folders[0]))
	return folders[0], path.Join(dir, folders[0]), diags
}

func isDir(fsys fs.FS, p string) bool {
	info, err := fs.Stat(fsys, p)
	return err == nil && info.IsDir()
}

func subfolders(fsys fs.FS, dir string) []string {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil
	}
	var out []string
	for _, entry := range entries {
		if entry.IsDir() {
			out = append(out, entry.Name())
		}
	}
	sort.Strings(out)
	return out
}
