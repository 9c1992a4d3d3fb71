package api

import (
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/pageza/cookbook/backend/internal/models"
)

var registerOnce sync.Once

// RegisterValidators installs the cookbook's custom validations on gin's
// validator and makes field errors report json names.
func RegisterValidators() error {
	var err error
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			err = fmt.Errorf("unexpected validator engine %T", binding.Validator.Engine())
			return
		}

		v.RegisterTagNameFunc(jsonFieldName)
		err = v.RegisterValidation("tagname", validateTagName)
	})
	return err
}

func jsonFieldName(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	if name == "" {
		return fld.Name
	}
	return name
}

func validateTagName(fl validator.FieldLevel) bool {
	return models.TagName(fl.Field().String()).Valid()
}
