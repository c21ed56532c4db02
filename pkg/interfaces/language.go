package interfaces

// LanguageProvider reports which language folders the directory loader should
// try. Folder names match the host's localisation folders (e.g. "English").
type LanguageProvider interface {
	ActiveLanguage() string
	DefaultLanguage() string
}

// StaticLanguages is a LanguageProvider backed by fixed values.
type StaticLanguages struct {
	Active  string
	Default string
}

func (s StaticLanguages) ActiveLanguage() string  { return s.Active }
func (s StaticLanguages) DefaultLanguage() string { return s.Default }

var _ LanguageProvider = StaticLanguages{}
