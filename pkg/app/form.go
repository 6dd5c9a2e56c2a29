package app

import (
	"strings"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/gin-gonic/gin"
)

// ValidatorInterface lets request structs add checks that tags cannot express
// ValidatorInterface 供请求结构体补充标签无法表达的校验
type ValidatorInterface interface {
	Validate() error
}

type ValidError struct {
	Key     string
	Message string
}

type ValidErrors []*ValidError

func (v *ValidError) Error() string {
	return v.Message
}

func (v ValidErrors) Error() string {
	return strings.Join(v.ErrorsToString(), ",")
}

// ErrorsToString 错误信息列表
func (v ValidErrors) ErrorsToString() []string {
	var errs []string
	for _, err := range v {
		errs = append(errs, err.Error())
	}
	return errs
}

// MapsToString 以字段名为键的错误信息
func (v ValidErrors) MapsToString() map[string]string {
	m := make(map[string]string, len(v))
	for _, err := range v {
		m[err.Key] = err.Message
	}
	return m
}

// BindAndValid binds the request into v and validates it with the translator set by the lang middleware
// BindAndValid 绑定请求参数并使用语言中间件设置的翻译器进行校验
func BindAndValid(c *gin.Context, v interface{}) (bool, ValidErrors) {
	var errs ValidErrors

	err := c.ShouldBind(v)
	if err == nil {
		if vi, ok := v.(ValidatorInterface); ok {
			if verr := vi.Validate(); verr != nil {
				errs = append(errs, &ValidError{Key: "params", Message: verr.Error()})
				return false, errs
			}
		}
		return true, nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		errs = append(errs, &ValidError{Key: "params", Message: err.Error()})
		return false, errs
	}

	trans, _ := c.Value("trans").(ut.Translator)
	if trans == nil {
		for _, fe := range verrs {
			errs = append(errs, &ValidError{Key: fe.Field(), Message: fe.Error()})
		}
		return false, errs
	}

	for key, value := range verrs.Translate(trans) {
		errs = append(errs, &ValidError{Key: key[strings.Index(key, ".")+1:], Message: value})
	}
	return false, errs
}
