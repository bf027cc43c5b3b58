package validation

import (
	"encoding/json"
	"errors"
	"reflect"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// ProfanityMessage is returned for fields tagged noprofanity.
const ProfanityMessage = "The use of profanity is prohibited"

// Letters on either side must not continue the word, including Cyrillic ones,
// which RE2's ASCII-only \b would miss.
var profanity = regexp.MustCompile(`(?i)(?:^|[^\p{L}\p{N}_])(asshole|fuck(?:ing?)?|shit(?:ting?)?|bitch(?:es)?|damn|hell|piss(?:ing?)?|cunt|cock|dick|pussy|ебу|блять|блядь|блядина|хуй|сука|пизда|пизды|їбати|єбать|ахуеть|говно|гондон|долбоёб|ебало|жопа|заебись|залупа|нахуй|охееть)(?:$|[^\p{L}\p{N}_])`)

// ContainsProfanity reports whether s contains a blocked word.
func ContainsProfanity(s string) bool {
	return profanity.MatchString(s)
}

// Init configures the global validator used by Gin's binding.
// - Uses JSON tag names in errors, falling back to form tags for multipart inputs.
// - Registers alias tags and the noprofanity rule.
func Init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		Register(v)
	}
}

// Register applies the project rules to v. Init calls it on Gin's engine.
func Register(v *validator.Validate) {
	v.RegisterTagNameFunc(fieldName)
	v.RegisterAlias("pwd", "min=2,max=72")
	v.RegisterAlias("phone", "e164")
	_ = v.RegisterValidation("noprofanity", func(fl validator.FieldLevel) bool {
		f := fl.Field()
		if f.Kind() != reflect.String {
			return true
		}
		return !ContainsProfanity(f.String())
	})
}

func fieldName(fld reflect.StructField) string {
	for _, tag := range []string{"json", "form"} {
		name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
	}
	return fld.Name
}

// ToDetails converts validation/binding errors into a map[field]message suitable for API error.details.
func ToDetails(err error) map[string]string {
	if err == nil {
		return nil
	}

	// Invalid JSON payloads
	var se *json.SyntaxError
	var ute *json.UnmarshalTypeError
	if errors.As(err, &se) || errors.As(err, &ute) {
		return map[string]string{"payload": "invalid json"}
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		out := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			out[fe.Field()] = formatFieldError(fe)
		}
		return out
	}

	return map[string]string{"payload": "invalid payload"}
}

// FirstMessage picks one human readable message, used where the API answers with a single string.
func FirstMessage(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		if fe.ActualTag() == "noprofanity" {
			return ProfanityMessage
		}
		return fe.Field() + " " + formatFieldError(fe)
	}
	return "invalid payload"
}

func formatFieldError(fe validator.FieldError) string {
	param := fe.Param()
	switch fe.ActualTag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email"
	case "url", "uri":
		return "must be a valid URL"
	case "uuid", "uuid4":
		return "must be a valid UUID"
	case "e164":
		return "must be a valid phone number in E.164 format"
	case "oneof":
		return "must be one of [" + param + "]"
	case "noprofanity":
		return ProfanityMessage
	case "numeric":
		return "must be numeric"
	case "len":
		if fe.Kind() == reflect.String {
			return "must be exactly " + param + " characters long"
		}
		return "must contain exactly " + param + " items"
	case "min":
		switch fe.Kind() {
		case reflect.String:
			return "must be at least " + param + " characters long"
		case reflect.Slice, reflect.Map, reflect.Array:
			return "must contain at least " + param + " items"
		default:
			return "must be at least " + param
		}
	case "max":
		switch fe.Kind() {
		case reflect.String:
			return "must be at most " + param + " characters long"
		case reflect.Slice, reflect.Map, reflect.Array:
			return "must contain at most " + param + " items"
		default:
			return "must be at most " + param
		}
	case "gt":
		return "must be greater than " + param
	case "gte":
		return "must be greater than or equal to " + param
	case "lt":
		return "must be less than " + param
	case "lte":
		return "must be less than or equal to " + param
	case "alpha":
		return "must contain only letters"
	case "alphanum":
		return "must contain only letters and numbers"
	case "dive":
		return "contains an invalid item"
	default:
		return "is invalid"
	}
}
