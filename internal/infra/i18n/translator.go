package i18n

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"strings"

	goi18n "github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

//go:embed locales/*.yaml
var LocalesFS embed.FS

// Translator resolves catalogue keys into user-visible text for one language.
// Positional arguments are exposed to the message templates as .Arg0, .Arg1, ...
type Translator struct {
	localizer *goi18n.Localizer
}

// NewTranslator loads every locales/*.yaml file of fsys and localizes into langCode,
// falling back to English.
func NewTranslator(fsys fs.FS, langCode string) (*Translator, error) {
	bundle := goi18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("yaml", yaml.Unmarshal)

	entries, err := fs.ReadDir(fsys, "locales")
	if err != nil {
		return nil, fmt.Errorf("read locales: %w", err)
	}
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".yaml") {
			continue
		}
		filePath := path.Join("locales", e.Name())
		data, err := fs.ReadFile(fsys, filePath)
		if err != nil {
			return nil, fmt.Errorf("failed to read translation file %s: %w", filePath, err)
		}
		if _, err := bundle.ParseMessageFileBytes(data, e.Name()); err != nil {
			return nil, fmt.Errorf("failed to parse translation file %s: %w", filePath, err)
		}
	}

	return &Translator{localizer: goi18n.NewLocalizer(bundle, langCode, language.English.String())}, nil
}

// T translates key. Unknown keys are returned unchanged.
func (t *Translator) T(key string, args ...any) string {
	var data map[string]any
	if len(args) > 0 {
		data = make(map[string]any, len(args))
		for i, a := range args {
			data[fmt.Sprintf("Arg%d", i)] = a
		}
	}
	msg, err := t.localizer.Localize(&goi18n.LocalizeConfig{MessageID: key, TemplateData: data})
	if err != nil {
		return key
	}
	return msg
}
