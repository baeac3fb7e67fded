package core

import (
	"reflect"
	"regexp"
	"strings"
	"unicode"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

var (
	Validate   *validator.Validate
	Translator ut.Translator

	// custom validation tags & texts
	objectIDTag  = "objectid"
	objectIDText = "must be a valid document Id"

	youtubeURLTag   = "youtube_url"
	youtubeURLText  = "must be a valid YouTube video url"
	youtubeURLRegex = regexp.MustCompile(`^https?://(www\.)?(youtube\.com/watch\?v=|youtu\.be/)[\w-]{6,}`)

	durationTag   = "duration"
	durationText  = "must be a duration in mm:ss format"
	durationRegex = regexp.MustCompile(`^\d{1,3}:[0-5]\d$`)

	phoneTag   = "phone_rw"
	phoneText  = "please enter a valid phone number"
	phoneRegex = regexp.MustCompile(`^(\+2507|07)\d{8}$`)

	strongPwdTag  = "strong_password"
	strongPwdText = "please enter a strong password"

	requiredTag  = "required"
	requiredText = "this field is required"
)

func init() {
	enLocale := en.New()
	uni := ut.New(enLocale, enLocale)
	Translator, _ = uni.GetTranslator("en")

	Validate = validator.New()
	InitValidators(Validate, Translator)
}

// InitValidators instantiates the validator for use.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = en_translations.RegisterDefaultTranslations(validate, translator)

	// Use JSON tag names for errors instead of Go struct names.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// register custom validators
	_ = validate.RegisterValidation(objectIDTag, objectIDValidation)
	RegisterCustomTranslation(validate, translator, objectIDTag, objectIDText)

	_ = validate.RegisterValidation(youtubeURLTag, youtubeURLValidation)
	RegisterCustomTranslation(validate, translator, youtubeURLTag, youtubeURLText)

	_ = validate.RegisterValidation(durationTag, durationValidation)
	RegisterCustomTranslation(validate, translator, durationTag, durationText)

	_ = validate.RegisterValidation(phoneTag, phoneValidation)
	RegisterCustomTranslation(validate, translator, phoneTag, phoneText)

	_ = validate.RegisterValidation(strongPwdTag, strongPasswordValidation)
	RegisterCustomTranslation(validate, translator, strongPwdTag, strongPwdText)

	RegisterCustomTranslation(validate, translator, requiredTag, requiredText, true)
}

// RegisterCustomTranslation registers a custom translation for the specified validation tag.
func RegisterCustomTranslation(validate *validator.Validate, translator ut.Translator, tag, text string, override ...bool) {
	var ovrd bool
	if len(override) > 0 {
		ovrd = override[0]
	}
	_ = validate.RegisterTranslation(
		tag, translator,
		func(t ut.Translator) error { return t.Add(tag, text, ovrd) },
		func(t ut.Translator, fe validator.FieldError) string {
			s, _ := t.T(tag, fe.Field())
			return s
		},
	)
}

// Custom Global Validators

func objectIDValidation(fl validator.FieldLevel) bool {
	return IsValidID(fl.Field().String())
}

func youtubeURLValidation(fl validator.FieldLevel) bool {
	return youtubeURLRegex.MatchString(fl.Field().String())
}

func durationValidation(fl validator.FieldLevel) bool {
	return durationRegex.MatchString(fl.Field().String())
}

func phoneValidation(fl validator.FieldLevel) bool {
	return phoneRegex.MatchString(fl.Field().String())
}

// strongPasswordValidation requires at least 8 characters with an upper,
// a lower, a digit and a symbol.
func strongPasswordValidation(fl validator.FieldLevel) bool {
	pwd := fl.Field().String()
	if len(pwd) < 8 {
		return false
	}
	var upper, lower, digit, symbol bool
	for _, r := range pwd {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			symbol = true
		}
	}
	return upper && lower && digit && symbol
}
