package utils

import (
	"errors"
	"reflect"
	"strings"

	"github.com/badoux/checkmail"
	"github.com/go-playground/validator/v10"
	"projecttracker/models"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()

	// Report fields by their wire names.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	must := func(tag string, fn validator.Func) {
		if err := v.RegisterValidation(tag, fn); err != nil {
			panic(err)
		}
	}
	must("month", func(fl validator.FieldLevel) bool {
		return models.MonthIndex(fl.Field().String()) >= 0
	})
	must("project_status", func(fl validator.FieldLevel) bool {
		return models.IsValidProjectStatus(fl.Field().String())
	})
	must("project_priority", func(fl validator.FieldLevel) bool {
		return models.IsValidProjectPriority(fl.Field().String())
	})
	must("member_status", func(fl validator.FieldLevel) bool {
		return models.IsValidMemberStatus(fl.Field().String())
	})
	must("admin_role", func(fl validator.FieldLevel) bool {
		return models.IsValidAdminRole(fl.Field().String())
	})
	// bcrypt only reads the first 72 bytes and rejects anything longer.
	must("password_bytes", func(fl validator.FieldLevel) bool {
		return len(fl.Field().String()) <= MaxPasswordBytes
	})
	must("email_format", func(fl validator.FieldLevel) bool {
		return checkmail.ValidateFormat(fl.Field().String()) == nil
	})
	return v
}

func ValidateStruct(s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	var msgs []string
	for _, fe := range verrs {
		field := fe.Field()
		param := fe.Param()

		switch fe.Tag() {
		case "required":
			msgs = append(msgs, field+" is required")
		case "min":
			if fe.Kind() == reflect.String {
				msgs = append(msgs, field+" must be at least "+param+" characters")
			} else {
				msgs = append(msgs, field+" must be at least "+param)
			}
		case "max":
			if fe.Kind() == reflect.String {
				msgs = append(msgs, field+" must be at most "+param+" characters")
			} else {
				msgs = append(msgs, field+" must be at most "+param)
			}
		case "email", "email_format":
			msgs = append(msgs, field+" must be a valid email")
		case "month":
			msgs = append(msgs, field+" must be a full English month name")
		case "project_status":
			msgs = append(msgs, field+" must be one of Planning, Active, On Hold, Completed, Cancelled")
		case "project_priority":
			msgs = append(msgs, field+" must be one of Low, Medium, High, Critical")
		case "member_status":
			msgs = append(msgs, field+" must be active or inactive")
		case "password_bytes":
			msgs = append(msgs, field+" must be at most 72 bytes")
		case "admin_role":
			msgs = append(msgs, field+" must be super_admin, admin or member")
		default:
			msgs = append(msgs, field+" is invalid")
		}
	}

	return errors.New(strings.Join(msgs, ", "))
}
