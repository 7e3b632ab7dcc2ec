package prompts

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/template"
)

var templateFuncs = template.FuncMap{
	"join": strings.Join,
	"json": func(s string) string {
		b, _ := json.Marshal(s)
		return string(b)
	},
}

// PromptBuilder は埋め込みテンプレートからプロンプトを組み立てます。
// 入力が同じなら常に同じ文字列を返し、I/O は行いません。
type PromptBuilder struct {
	templates map[string]*template.Template
}

// NewPromptBuilder は PromptBuilder を初期化します。
func NewPromptBuilder() (*PromptBuilder, error) {
	parsedTemplates := make(map[string]*template.Template)
	for mode, content := range allTemplates {
		if content == "" {
			return nil, fmt.Errorf("プロンプトテンプレート '%s' (go:embed) の読み込みに失敗しました: 内容が空です", mode)
		}

		tmpl, err := template.New(mode).Funcs(templateFuncs).Parse(content)
		if err != nil {
			return nil, fmt.Errorf("プロンプト '%s' の解析に失敗: %w", mode, err)
		}
		parsedTemplates[mode] = tmpl
	}

	return &PromptBuilder{
		templates: parsedTemplates,
	}, nil
}

// execute は、要求されたモードに応じて適切なテンプレートを実行します。
func (b *PromptBuilder) execute(mode string, data any) (string, error) {
	tmpl, ok := b.templates[mode]
	if !ok {
		return "", fmt.Errorf("不明なモードです: '%s'", mode)
	}

	var sb strings.Builder
	if err := tmpl.Execute(&sb, data); err != nil {
		return "", fmt.Errorf("プロンプトテンプレートの実行に失敗しました: %w", err)
	}

	return sb.String(), nil
}

// sanitizeInline は文字列をプロンプトに埋め込む前の最低限の正規化を行います。
func sanitizeInline(s string) string {
	s = strings.ReplaceAll(s, "\n", " ")
	s = strings.ReplaceAll(s, "\r", " ")
	return strings.TrimSpace(s)
}

func joinNames(names []string) string {
	cleaned := make([]string, 0, len(names))
	for _, n := range names {
		if n = sanitizeInline(n); n != "" {
			cleaned = append(cleaned, n)
		}
	}
	return strings.Join(cleaned, ", ")
}
