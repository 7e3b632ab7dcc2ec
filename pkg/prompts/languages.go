package prompts

import "strings"

// Language は画像内テキストの言語指定です。
type Language struct {
	Code          string
	Name          string
	Guidance      string   // 吹き出しやラベルの文字に関する指示
	Excitement    []string // 効果文字の例
	Encouragement []string // 励ましの言葉の例
}

// Upper は言語コードを大文字で返します。
func (l Language) Upper() string {
	return strings.ToUpper(l.Code)
}

var languages = map[string]Language{
	"en": {
		Code:          "en",
		Name:          "English",
		Guidance:      "English text in speech bubbles and labels",
		Excitement:    []string{"WOW!", "AMAZING!", "COOL!", "AWESOME!", "I GET IT!"},
		Encouragement: []string{"Let's learn together!", "So exciting!", "Learning is fun!", "Great job!"},
	},
	"es": {
		Code:          "es",
		Name:          "Spanish",
		Guidance:      "Texto en español en globos de diálogo y etiquetas",
		Excitement:    []string{"¡GUAU!", "¡INCREÍBLE!", "¡GENIAL!", "¡LO ENTIENDO!"},
		Encouragement: []string{"¡Aprendamos juntos!", "¡Qué emocionante!", "¡Aprender es divertido!"},
	},
	"fr": {
		Code:          "fr",
		Name:          "French",
		Guidance:      "Texte en français dans les bulles de dialogue et étiquettes",
		Excitement:    []string{"OUAH!", "INCROYABLE!", "GÉNIAL!", "JE COMPRENDS!"},
		Encouragement: []string{"Apprenons ensemble!", "C'est passionnant!", "Apprendre c'est amusant!"},
	},
	"de": {
		Code:          "de",
		Name:          "German",
		Guidance:      "Deutscher Text in Sprechblasen und Beschriftungen",
		Excitement:    []string{"WOW!", "ERSTAUNLICH!", "TOLL!", "ICH VERSTEHE!"},
		Encouragement: []string{"Lasst uns zusammen lernen!", "So aufregend!", "Lernen macht Spaß!"},
	},
	"ja": {
		Code:          "ja",
		Name:          "Japanese",
		Guidance:      "日本語のテキストを吹き出しやラベルに",
		Excitement:    []string{"すごい!", "わあ!", "やった!", "わかった!"},
		Encouragement: []string{"一緒に学ぼう!", "楽しい!", "学習は楽しい!"},
	},
	"ko": {
		Code:          "ko",
		Name:          "Korean",
		Guidance:      "한국어 텍스트를 말풍선과 라벨에",
		Excitement:    []string{"와!", "대단해!", "멋져!", "알겠다!"},
		Encouragement: []string{"함께 배우자!", "너무 신나!", "학습은 재미있어!"},
	},
	"zh-cn": {Code: "zh-cn", Name: "Chinese (Simplified)", Guidance: "中文文本在对话气泡和标签中"},
	"ar":    {Code: "ar", Name: "Arabic", Guidance: "النص العربي في فقاعات الحوار والتسميات"},
	"hi":    {Code: "hi", Name: "Hindi", Guidance: "बोलने के बुलबुले और लेबल में हिंदी पाठ"},
	"pt":    {Code: "pt", Name: "Portuguese", Guidance: "Texto em português em balões de fala e etiquetas"},
	"it":    {Code: "it", Name: "Italian", Guidance: "Testo italiano in fumetti e etichette"},
	"ru":    {Code: "ru", Name: "Russian", Guidance: "Русский текст в пузырях речи и этикетках"},
}

// LookupLanguage は言語コードから Language を返します。
// 空文字は「言語指定なし」として nil を返し、未対応のコードは英語にフォールバックするのだ。
func LookupLanguage(code string) *Language {
	code = strings.ToLower(strings.TrimSpace(code))
	if code == "" {
		return nil
	}
	lang, ok := languages[code]
	if !ok {
		lang = languages["en"]
	}
	return &lang
}

// SupportedLanguageCodes は対応している言語コードの一覧です。
func SupportedLanguageCodes() []string {
	return []string{"en", "es", "fr", "de", "it", "pt", "ja", "ko", "zh-cn", "ar", "hi", "ru"}
}
