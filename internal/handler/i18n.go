package handler

import (
	"github.com/blogblog/internal/locale"
	"github.com/gin-gonic/gin"
)

// 响应消息以中文书写，英文请求时按此表翻译；未收录的原样返回。
var messageTranslations = map[string]string{
	"请先登录":           "Please sign in first",
	"页面不存在":          "Page not found",
	"服务器内部错误":        "Internal server error",
	"请检查输入内容":        "Please check the highlighted fields",
	"会话保存失败":         "Could not save the session",
	"会话清除失败":         "Could not clear the session",
	"注册成功":           "Signed up",
	"登录成功":           "Signed in",
	"已退出登录":          "Signed out",
	"资料已更新":          "Profile updated",
	"密码已修改":          "Password changed",
	"内容已创建":          "Content created",
	"内容已更新":          "Content updated",
	"内容已删除":          "Content deleted",
	"评论已发布":          "Comment posted",
	"评论已更新":          "Comment updated",
	"评论已删除":          "Comment deleted",
	"账号已创建":          "Account created",
	"作者已更新":          "Author updated",
	"作者已删除":          "Author deleted",
	"不能删除当前登录的账号":    "You cannot delete the account you are signed in with",
	"注册信息格式不正确":      "Invalid sign-up payload",
	"登录信息格式不正确":      "Invalid sign-in payload",
	"资料格式不正确":        "Invalid profile payload",
	"密码格式不正确":        "Invalid password payload",
	"内容格式不正确":        "Invalid content payload",
	"评论格式不正确":        "Invalid comment payload",
	"作者资料格式不正确":      "Invalid author payload",
	"请填写完整的账号信息":     "Please fill in all account fields",
	"无效的作者ID":        "Invalid author id",
	"无效的内容ID":        "Invalid content id",
	"无效的评论ID":        "Invalid comment id",
	"内容不存在":          "Content not found",
	"评论不存在":          "Comment not found",
	"作者不存在":          "Author not found",
	"账号不存在":          "Account not found",
	"同一时间已存在相同标题的内容": "Content with the same title was already created at the same second",
	"该邮箱已被注册":        "This email is already registered",
	"用户名已被占用":        "This username is already taken",
	"邮箱或密码错误":        "Incorrect email or password",
	"账号已停用":          "This account is disabled",
	"原密码不正确":         "The current password is incorrect",
}

func localizeMessage(language, message string) string {
	if locale.NormalizeLanguage(language) != locale.LanguageEnglish {
		return message
	}
	if translated, ok := messageTranslations[message]; ok {
		return translated
	}
	return message
}

// localized 按请求语言返回消息。
func localized(c *gin.Context, message string) string {
	return localizeMessage(requestLanguage(c), message)
}
