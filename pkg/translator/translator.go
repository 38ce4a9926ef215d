package translator

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/pelletier/go-toml/v2"
	"go.uber.org/zap"
	"golang.org/x/text/language"
)

var Translator *i18n.Bundle

type Config struct {
	TranslationFolder  string
	SupportedLanguages []string // Files named after other languages are skipped; empty loads everything
}

const (
	LanguageFr = "fr"
	LanguageEn = "en"
)

func InitTranslator(cfg Config) {
	Translator = i18n.NewBundle(language.English)
	Translator.RegisterUnmarshalFunc("toml", toml.Unmarshal)

	lstFiles, err := os.ReadDir(cfg.TranslationFolder)
	if err != nil {
		zap.L().Error("failed to list translation folder", zap.String("folder", cfg.TranslationFolder), zap.Error(err))
		return
	}

	for _, f := range lstFiles {
		if f.IsDir() {
			continue
		}
		if !isSupported(f.Name(), cfg.SupportedLanguages) {
			zap.L().Debug("skipping translation file", zap.String("file", f.Name()))
			continue
		}

		// Load the message file into the Translator bundle
		_, err := Translator.LoadMessageFile(filepath.Join(cfg.TranslationFolder, f.Name()))
		if err != nil {
			zap.L().Warn("failed to load translation file", zap.String("file", f.Name()), zap.Error(err))
		}
	}
}

// isSupported matches "en.toml" and "active.en.toml" style names.
func isSupported(fileName string, languages []string) bool {
	if len(languages) == 0 {
		return true
	}
	parts := strings.Split(fileName, ".")
	if len(parts) < 2 {
		return false
	}
	tag := parts[len(parts)-2]
	for _, lang := range languages {
		if strings.EqualFold(tag, lang) {
			return true
		}
	}
	return false
}
