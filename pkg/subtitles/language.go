package subtitles

import (
	"path/filepath"
	"strings"

	"github.com/biter777/countries"
)

// UnknownLanguage is the display name used when a file name carries no
// recognizable language tag.
const UnknownLanguage = "Unknown"

// Language is the language tag derived from a subtitle file name.
type Language struct {
	Code string // ISO 639-1, optionally with an ISO 3166 region ("pt-BR")
	Name string
}

type languageInfo struct {
	code string
	name string
}

// languages maps ISO 639-1 and 639-2 (T and B) codes to their 639-1 form.
var languages = map[string]languageInfo{}

func init() {
	for _, l := range []struct {
		code  string
		alias []string
		name  string
	}{
		{"ar", []string{"ara"}, "Arabic"},
		{"bg", []string{"bul"}, "Bulgarian"},
		{"ca", []string{"cat"}, "Catalan"},
		{"cs", []string{"ces", "cze"}, "Czech"},
		{"da", []string{"dan"}, "Danish"},
		{"de", []string{"deu", "ger"}, "German"},
		{"el", []string{"ell", "gre"}, "Greek"},
		{"en", []string{"eng"}, "English"},
		{"es", []string{"spa"}, "Spanish"},
		{"et", []string{"est"}, "Estonian"},
		{"fa", []string{"fas", "per"}, "Persian"},
		{"fi", []string{"fin"}, "Finnish"},
		{"fr", []string{"fra", "fre"}, "French"},
		{"he", []string{"heb"}, "Hebrew"},
		{"hi", []string{"hin"}, "Hindi"},
		{"hr", []string{"hrv"}, "Croatian"},
		{"hu", []string{"hun"}, "Hungarian"},
		{"id", []string{"ind"}, "Indonesian"},
		{"it", []string{"ita"}, "Italian"},
		{"ja", []string{"jpn"}, "Japanese"},
		{"ko", []string{"kor"}, "Korean"},
		{"lt", []string{"lit"}, "Lithuanian"},
		{"lv", []string{"lav"}, "Latvian"},
		{"ms", []string{"msa", "may"}, "Malay"},
		{"nl", []string{"nld", "dut"}, "Dutch"},
		{"no", []string{"nor", "nob", "nb"}, "Norwegian"},
		{"pl", []string{"pol"}, "Polish"},
		{"pt", []string{"por"}, "Portuguese"},
		{"ro", []string{"ron", "rum"}, "Romanian"},
		{"ru", []string{"rus"}, "Russian"},
		{"sk", []string{"slk", "slo"}, "Slovak"},
		{"sl", []string{"slv"}, "Slovenian"},
		{"sr", []string{"srp"}, "Serbian"},
		{"sv", []string{"swe"}, "Swedish"},
		{"th", []string{"tha"}, "Thai"},
		{"tr", []string{"tur"}, "Turkish"},
		{"uk", []string{"ukr"}, "Ukrainian"},
		{"vi", []string{"vie"}, "Vietnamese"},
		{"zh", []string{"zho", "chi"}, "Chinese"},
	} {
		info := languageInfo{code: l.code, name: l.name}
		languages[l.code] = info
		for _, a := range l.alias {
			languages[a] = info
		}
	}

	for _, c := range countries.All() {
		if alpha2 := c.Alpha2(); alpha2 != "" {
			regions[alpha2] = c.Info().Name
		}
	}
}

// regions maps ISO 3166-1 alpha-2 codes to country names.
var regions = map[string]string{}

// flagTokens are name tokens that qualify a subtitle rather than name its
// language ("movie.en.forced.srt").
var flagTokens = map[string]bool{
	"forced": true,
	"sdh":    true,
	"cc":     true,
	"full":   true,
}

// DetectLanguage inspects the dotted tokens before the extension of name and
// returns the first language tag found, reading from the end.
func DetectLanguage(name string) Language {
	base := filepath.Base(name)
	base = strings.TrimSuffix(base, filepath.Ext(base))

	tokens := strings.Split(base, ".")
	for i := len(tokens) - 1; i > 0; i-- {
		tok := strings.ToLower(strings.TrimSpace(tokens[i]))
		if flagTokens[tok] {
			continue
		}
		if lang, ok := parseTag(tok); ok {
			return lang
		}
		break
	}

	return Language{Name: UnknownLanguage}
}

// parseTag parses "en", "eng", "pt-br" or "pt_br".
func parseTag(tok string) (Language, bool) {
	code, region, hasRegion := strings.Cut(strings.ReplaceAll(tok, "_", "-"), "-")

	info, ok := languages[code]
	if !ok {
		return Language{}, false
	}
	if !hasRegion {
		return Language{Code: info.code, Name: info.name}, true
	}

	region = strings.ToUpper(region)
	country, ok := regions[region]
	if !ok {
		return Language{}, false
	}
	return Language{
		Code: info.code + "-" + region,
		Name: info.name + " (" + country + ")",
	}, true
}
