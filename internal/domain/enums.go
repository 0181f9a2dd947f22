package domain

// Language is the target language for summaries and quizzes.
type Language string

const (
	LanguageArabic  Language = "ar"
	LanguageEnglish Language = "en"
	LanguageFrench  Language = "fr"
)

// DefaultLanguage is used when no preference has been stored yet.
const DefaultLanguage = LanguageArabic

// ParseLanguage validates a language tag.
func ParseLanguage(s string) (Language, error) {
	switch l := Language(s); l {
	case LanguageArabic, LanguageEnglish, LanguageFrench:
		return l, nil
	default:
		return "", ErrInvalidLanguage
	}
}

// DisplayName returns the English name of the language used inside prompts.
// Unknown tags fall back to English.
func (l Language) DisplayName() string {
	switch l {
	case LanguageArabic:
		return "Arabic"
	case LanguageFrench:
		return "French"
	default:
		return "English"
	}
}

// Next returns the language that follows l in the ar -> en -> fr cycle.
func (l Language) Next() Language {
	switch l {
	case LanguageArabic:
		return LanguageEnglish
	case LanguageEnglish:
		return LanguageFrench
	default:
		return LanguageArabic
	}
}

// Theme is the UI colour scheme preference.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// DefaultTheme is used when no preference has been stored yet.
const DefaultTheme = ThemeLight

// ParseTheme validates a theme name.
func ParseTheme(s string) (Theme, error) {
	switch t := Theme(s); t {
	case ThemeLight, ThemeDark:
		return t, nil
	default:
		return "", ErrInvalidTheme
	}
}

// Toggle flips between light and dark.
func (t Theme) Toggle() Theme {
	if t == ThemeDark {
		return ThemeLight
	}
	return ThemeDark
}

// Preferences is the pair of user preferences persisted between sessions.
type Preferences struct {
	Theme    Theme    `json:"theme" yaml:"theme"`
	Language Language `json:"language" yaml:"language"`
}

// AllowedContentTypes lists the media types accepted for analysis: images and PDF.
var AllowedContentTypes = map[string]bool{
	"application/pdf": true,
	"image/jpeg":      true,
	"image/png":       true,
	"image/webp":      true,
	"image/gif":       true,
	"image/heic":      true,
	"image/heif":      true,
}

// ExtensionContentTypes maps lowercase file extensions (without dot) to media types.
var ExtensionContentTypes = map[string]string{
	"pdf":  "application/pdf",
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"png":  "image/png",
	"webp": "image/webp",
	"gif":  "image/gif",
	"heic": "image/heic",
	"heif": "image/heif",
}
