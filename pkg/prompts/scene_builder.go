package prompts

// SceneInput はシーン画像プロンプトの入力です。
type SceneInput struct {
	VisualDescription string
	Characters        []string
	Style             string
	Language          string // 空なら言語・綴りの指示を含めない
	HasReferences     bool   // 参照画像がある場合は参照画像用テンプレートを使う
}

// Mode は入力に応じて使うテンプレートのモードを返します。
func (in SceneInput) Mode() string {
	if in.HasReferences {
		return ModeSceneReference
	}
	return ModeSceneText
}

// BuildScenePrompt は1パネル分の画像プロンプトを生成します。
func (b *PromptBuilder) BuildScenePrompt(in SceneInput) (string, error) {
	return b.execute(in.Mode(), SceneTemplateData{
		VisualDescription: sanitizeInline(in.VisualDescription),
		CharacterList:     joinNames(in.Characters),
		Style:             sanitizeInline(in.Style),
		Language:          LookupLanguage(in.Language),
	})
}
