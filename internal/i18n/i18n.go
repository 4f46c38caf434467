// Package i18n resolves response message keys to localized strings.
// English is the fallback for unknown locales and unknown keys.
package i18n

var translations = map[string]map[string]string{
	"en": {
		"success":            "Success",
		"error":              "Internal error",
		"database":           "Database error",
		"user_not_found":     "User not found",
		"unauthorized":       "Unauthorized",
		"invalid_token":      "Token invalid",
		"forbidden":          "Forbidden",
		"frequency_limited":  "Frequency limited",
		"user_exists":        "User exists",
		"password_incorrect": "Password incorrect",
	},
	"zh": {
		"success":            "成功",
		"error":              "内部错误",
		"database":           "数据库错误",
		"user_not_found":     "用户不存在",
		"unauthorized":       "未授权",
		"invalid_token":      "令牌无效",
		"forbidden":          "禁止访问",
		"frequency_limited":  "请求过于频繁",
		"user_exists":        "用户已存在",
		"password_incorrect": "密码错误",
	},
}

// Message returns the localized text for a message key. Unrecognized
// locales fall back to English; an unknown key is returned verbatim.
func Message(key, lang string) string {
	table, ok := translations[lang]
	if !ok {
		table = translations["en"]
	}
	if msg, ok := table[key]; ok {
		return msg
	}
	if msg, ok := translations["en"][key]; ok {
		return msg
	}
	return key
}
