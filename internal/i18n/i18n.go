// Package i18n 提供国际化支持
// 负责管理应用程序的语言包、翻译功能以及各语言的本地化短日期时间格式
package i18n

import (
	"sync"

	"github.com/go-playground/locales/en_US"
	"github.com/go-playground/locales/zh"
	ut "github.com/go-playground/universal-translator"

	"github.com/snapnote/snapnote/internal/logger"
)

// 支持的语言
const (
	LangZhCN = "zh-CN"
	LangEnUS = "en-US"
)

var (
	instance *I18n
	once     sync.Once

	// 语言包存储
	translations = map[string]map[string]string{
		LangZhCN: {
			"success":        "成功",
			"internal_error": "内部错误",
			"invalid_params": "参数错误",
			"not_found":      "资源未找到",

			"note_not_found":      "笔记未找到",
			"note_save_failed":    "笔记保存失败",
			"note_delete_failed":  "笔记删除失败",
			"note_query_failed":   "笔记查询失败",
			"folder_query_failed": "文件夹查询失败",

			"reminder_parse_failed":    "提醒时间解析失败",
			"reminder_schedule_failed": "提醒调度失败",
			"reminder_not_found":       "提醒任务未找到",
			"scheduler_stopped":        "调度器已停止",

			"database_connection": "数据库连接错误",
			"database_query":      "数据库查询错误",
			"database_insert":     "数据库插入错误",
			"database_update":     "数据库更新错误",
			"database_delete":     "数据库删除错误",
			"record_not_found":    "记录未找到",

			"preference_read_failed":  "偏好读取失败",
			"preference_write_failed": "偏好写入失败",

			"unknown_error": "未知错误",
		},
		LangEnUS: {
			"success":        "Success",
			"internal_error": "Internal Error",
			"invalid_params": "Invalid Parameters",
			"not_found":      "Resource Not Found",

			"note_not_found":      "Note Not Found",
			"note_save_failed":    "Note Save Failed",
			"note_delete_failed":  "Note Delete Failed",
			"note_query_failed":   "Note Query Failed",
			"folder_query_failed": "Folder Query Failed",

			"reminder_parse_failed":    "Reminder Time Parse Failed",
			"reminder_schedule_failed": "Reminder Schedule Failed",
			"reminder_not_found":       "Reminder Task Not Found",
			"scheduler_stopped":        "Scheduler Stopped",

			"database_connection": "Database Connection Error",
			"database_query":      "Database Query Error",
			"database_insert":     "Database Insert Error",
			"database_update":     "Database Update Error",
			"database_delete":     "Database Delete Error",
			"record_not_found":    "Record Not Found",

			"preference_read_failed":  "Preference Read Failed",
			"preference_write_failed": "Preference Write Failed",

			"unknown_error": "Unknown Error",
		},
	}

	// 各语言的本地化短日期/时间格式
	// 对应各locale下用户选择器产生的短格式字符串
	dateTimeLayouts = map[string]DateTimeLayout{
		LangEnUS: {Date: "1/2/06", Time: "3:04 PM"},
		LangZhCN: {Date: "2006/1/2", Time: "15:04"},
	}
)

// DateTimeLayout 某一语言下的短日期和短时间格式
type DateTimeLayout struct {
	// Date 短日期格式，如en-US下的 1/2/06
	Date string
	// Time 短时间格式，如en-US下的 3:04 PM
	Time string
}

// I18n 国际化管理器
type I18n struct {
	translators map[string]ut.Translator
	defaultLang string
}

// GetInstance 获取I18n单例
func GetInstance() *I18n {
	once.Do(func() {
		instance = &I18n{
			translators: make(map[string]ut.Translator),
			defaultLang: LangEnUS,
		}
		instance.initTranslators()
	})
	return instance
}

// initTranslators 初始化翻译器
func (i *I18n) initTranslators() {
	zhCN := zh.New()
	enUS := en_US.New()
	uni := ut.New(enUS, enUS, zhCN)

	// 注册支持的语言 - 使用locale库的标识符
	langMappings := map[string]string{
		LangZhCN: "zh",
		LangEnUS: "en_US",
	}

	for ourLang, localeLang := range langMappings {
		trans, found := uni.GetTranslator(localeLang)
		if !found {
			logger.Errorf("初始化翻译器失败 for language %s (locale: %s): translator not found", ourLang, localeLang)
			continue
		}
		i.translators[ourLang] = trans
	}

	logger.Info("国际化翻译器初始化完成")
}

// Translate 根据键和语言获取翻译
func (i *I18n) Translate(key, lang string) string {
	// 检查语言是否支持，否则使用默认语言
	if _, exists := i.translators[lang]; !exists {
		lang = i.defaultLang
	}

	if translation, found := translations[lang][key]; found {
		return translation
	}

	// 如果当前语言没有找到，尝试在默认语言中查找
	if lang != i.defaultLang {
		if translation, found := translations[i.defaultLang][key]; found {
			return translation
		}
	}

	logger.Warnf("未找到翻译: %s, 语言: %s", key, lang)
	return key
}

// Layout 获取指定语言的短日期时间格式
// 不支持的语言回退到默认语言的格式
func (i *I18n) Layout(lang string) DateTimeLayout {
	if layout, found := dateTimeLayouts[lang]; found {
		return layout
	}
	logger.Warnf("未找到日期时间格式: %s，使用默认语言格式", lang)
	return dateTimeLayouts[i.defaultLang]
}

// SetDefaultLanguage 设置默认语言
func (i *I18n) SetDefaultLanguage(lang string) {
	i.defaultLang = lang
	logger.Infof("设置默认语言为: %s", lang)
}

// GetDefaultLanguage 获取默认语言
func (i *I18n) GetDefaultLanguage() string {
	return i.defaultLang
}

// IsSupportedLanguage 检查语言是否支持
func (i *I18n) IsSupportedLanguage(lang string) bool {
	_, exists := i.translators[lang]
	return exists
}

// GetSupportedLanguages 获取支持的语言列表
func (i *I18n) GetSupportedLanguages() []string {
	langs := make([]string, 0, len(i.translators))
	for lang := range i.translators {
		langs = append(langs, lang)
	}
	return langs
}
