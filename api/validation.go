package api

import (
	"reflect"
	"strings"
	"sync"

	"github.com/Domenick1991/flightbooking/internal/domain"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var registerOnce sync.Once

// RegisterValidators adds the domain binding rules to gin's validator and
// reports fields by their JSON names. It is safe to call more than once.
func RegisterValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(jsonFieldName)
		_ = v.RegisterValidation("airport", func(fl validator.FieldLevel) bool {
			return domain.AirportCode(strings.ToUpper(fl.Field().String())).Valid()
		})
		_ = v.RegisterValidation("seatnumber", func(fl validator.FieldLevel) bool {
			return domain.ValidSeatNumber(fl.Field().String())
		})
		_ = v.RegisterValidation("gender", func(fl validator.FieldLevel) bool {
			return domain.Gender(fl.Field().String()).Valid()
		})
		_ = v.RegisterValidation("mealtype", func(fl validator.FieldLevel) bool {
			return domain.MealType(fl.Field().String()).Valid()
		})
		_ = v.RegisterValidation("flightstatus", func(fl validator.FieldLevel) bool {
			return domain.FlightStatus(fl.Field().String()).Valid()
		})
	})
}

func jsonFieldName(fld reflect.StructField) string {
	name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
	if name == "-" {
		return ""
	}
	if name == "" {
		return fld.Name
	}
	return name
}

// fieldErrors renders validation failures keyed by the JSON path of the
// field, e.g. "passengers[1].seatNumber".
func fieldErrors(errs validator.ValidationErrors) map[string]string {
	out := make(map[string]string, len(errs))
	for _, fe := range errs {
		path := fe.Namespace()
		if _, rest, ok := strings.Cut(path, "."); ok {
			path = rest
		}
		out[path] = fieldMessage(fe)
	}
	return out
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		if fe.Kind() == reflect.Slice {
			return "must contain at least " + fe.Param() + " item(s)"
		}
		return "must be >= " + fe.Param()
	case "max":
		if fe.Kind() == reflect.String {
			return "must be at most " + fe.Param() + " characters"
		}
		return "must be <= " + fe.Param()
	case "gt":
		return "must be greater than " + fe.Param()
	case "email":
		return "must be a valid email"
	case "datetime":
		return "must be a date formatted as " + fe.Param()
	case "airport":
		codes := domain.AirportCodes()
		names := make([]string, len(codes))
		for i, c := range codes {
			names[i] = string(c)
		}
		return "must be one of " + strings.Join(names, ", ")
	case "seatnumber":
		return "invalid seat format"
	case "gender":
		return "must be MALE, FEMALE or OTHER"
	case "mealtype":
		return "must be VEG or NON_VEG"
	case "flightstatus":
		return "must be SCHEDULED, DELAYED, DEPARTED or CANCELLED"
	default:
		return "failed on " + fe.Tag()
	}
}
