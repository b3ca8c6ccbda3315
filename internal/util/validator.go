package util

import (
	"errors"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

var (
	classroomCodeRegex = regexp.MustCompile(`(?i)^CLS-\d{8}-[0-9A-F]{4}$`)
	clockRegex         = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d(:[0-5]\d)?$`)

	classroomCodeTag  = "classroom_code"
	classroomCodeText = "{0} must look like CLS-YYYYMMDD-XXXX"
	clockTag          = "hhmm"
	clockText         = "{0} must be a time of day as HH:MM or HH:MM:SS"

	translator   ut.Translator
	registerOnce sync.Once
)

// IsClassroomCode 匹配 CLS-YYYYMMDD-XXXX，不区分大小写
func IsClassroomCode(code string) bool {
	return classroomCodeRegex.MatchString(code)
}

// IsClock 匹配 24 小时制 HH:MM 或 HH:MM:SS
func IsClock(s string) bool {
	return clockRegex.MatchString(s)
}

// RegisterValidators 在 gin 的校验器上注册自定义规则和英文提示，
// 可重复调用
func RegisterValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}

		_en := en.New()
		uni := ut.New(_en, _en)
		translator, _ = uni.GetTranslator("en")
		_ = en_translations.RegisterDefaultTranslations(v, translator)

		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})

		_ = v.RegisterValidation(classroomCodeTag, func(fl validator.FieldLevel) bool {
			return IsClassroomCode(fl.Field().String())
		})
		_ = v.RegisterValidation(clockTag, func(fl validator.FieldLevel) bool {
			return IsClock(fl.Field().String())
		})
		registerTranslation(v, classroomCodeTag, classroomCodeText)
		registerTranslation(v, clockTag, clockText)
	})
}

func registerTranslation(v *validator.Validate, tag, text string) {
	_ = v.RegisterTranslation(
		tag, translator,
		func(t ut.Translator) error { return t.Add(tag, text, false) },
		func(t ut.Translator, fe validator.FieldError) string {
			s, _ := t.T(tag, fe.Field())
			return s
		},
	)
}

// ValidationMessage 把绑定错误转成一行可读信息
func ValidationMessage(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && translator != nil {
		msgs := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			msgs = append(msgs, fe.Translate(translator))
		}
		return strings.Join(msgs, "; ")
	}
	return err.Error()
}
