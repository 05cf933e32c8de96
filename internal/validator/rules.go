package validator

import (
	"regexp"

	"github.com/go-playground/validator/v10"

	"sermonforge_backend/internal/models"
)

// Six-digit hex only. The builtin hexcolor tag also accepts three-digit
// shorthand, which the export renderers do not handle.
var hexColorRe = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

var fontPreferences = map[string]bool{
	"serif":      true,
	"sans-serif": true,
}

var inputTypes = map[string]bool{
	string(models.InputTypeAudio):     true,
	string(models.InputTypeVideo):     true,
	string(models.InputTypePDF):       true,
	string(models.InputTypeYouTube):   true,
	string(models.InputTypeTextPaste): true,
}

func registerRules(v *validator.Validate) {
	v.RegisterValidation("is-hex-color", validateHexColor)
	v.RegisterValidation("is-font-preference", validateFontPreference)
	v.RegisterValidation("is-input-type", validateInputType)
	v.RegisterValidation("is-content-type", validateContentType)
}

func validateHexColor(fl validator.FieldLevel) bool {
	return hexColorRe.MatchString(fl.Field().String())
}

func validateFontPreference(fl validator.FieldLevel) bool {
	return fontPreferences[fl.Field().String()]
}

func validateInputType(fl validator.FieldLevel) bool {
	return inputTypes[fl.Field().String()]
}

func validateContentType(fl validator.FieldLevel) bool {
	return models.ValidContentType(fl.Field().String())
}
