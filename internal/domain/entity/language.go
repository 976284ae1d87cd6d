package entity

import "strings"

// Language 界面与生成语言
type Language string

const (
	LanguageVietnamese Language = "vietnamese"
	LanguageEnglish    Language = "english"
)

// ParseLanguage 解析语言，未知值回退为越南语
func ParseLanguage(s string) Language {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "english", "en":
		return LanguageEnglish
	default:
		return LanguageVietnamese
	}
}

// Stage 流水线阶段
type Stage string

const (
	StageScript Stage = "script"
	StagePrompt Stage = "prompt"
)
