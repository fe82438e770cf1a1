package i18n

import "strings"

// Language 是界面文字使用的语言代码（en、zh）。
type Language string

const (
	LanguageEnglish Language = "en"
	LanguageChinese Language = "zh"

	// DefaultLanguage 未配置时的默认语言。
	DefaultLanguage = LanguageEnglish
)

// Normalize 将用户输入的语言值转换为统一的语言代码。
// 空字符串回退到默认语言，未知值原样保留。
func Normalize(value string) Language {
	lang := strings.ToLower(strings.TrimSpace(value))
	switch lang {
	case "":
		return DefaultLanguage
	case "zh", "zh-cn", "zh_cn", "zh-hans", "cn", "chinese", "中文":
		return LanguageChinese
	case "en", "en-us", "en_us", "en-gb", "english":
		return LanguageEnglish
	default:
		return Language(lang)
	}
}

// Code 返回规范化后的语言代码，空值回退到默认语言。
func (l Language) Code() string {
	return string(Normalize(string(l)))
}

// DisplayName 返回适合展示的语言名称，未知语言直接返回原始代码。
func (l Language) DisplayName() string {
	switch Normalize(string(l)) {
	case LanguageChinese:
		return "中文"
	case LanguageEnglish:
		return "English"
	default:
		return strings.TrimSpace(string(l))
	}
}

// Strings 是界面上出现的全部固定文字。
type Strings struct {
	Title      string
	Submit     string
	Delete     string
	Quit       string
	Copy       string
	Copied     string
	CopyFailed string
	Empty      string
	Banner     string
}

var catalog = map[Language]Strings{
	LanguageEnglish: {
		Title:      "Rainbow Echo",
		Submit:     "submit",
		Delete:     "delete",
		Quit:       "quit",
		Copy:       "copy history",
		Copied:     "history copied to clipboard",
		CopyFailed: "copy failed",
		Empty:      "nothing to copy",
		Banner:     "Rainbow Echo (test mode): interactive session disabled.",
	},
	LanguageChinese: {
		Title:      "彩虹回声",
		Submit:     "提交",
		Delete:     "删除",
		Quit:       "退出",
		Copy:       "复制历史",
		Copied:     "历史已复制到剪贴板",
		CopyFailed: "复制失败",
		Empty:      "没有可复制的内容",
		Banner:     "彩虹回声（测试模式）：交互会话已禁用。",
	},
}

// Strings 返回该语言的文字表，不支持的语言回退到默认语言。
func (l Language) Strings() Strings {
	if s, ok := catalog[Normalize(string(l))]; ok {
		return s
	}
	return catalog[DefaultLanguage]
}
