package operations

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	json "github.com/goccy/go-json"

	"momo-engine/internal/model"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

func decodeProps(op *model.Operation, v any) error {
	if len(op.Properties) == 0 {
		return errors.New("properties are required")
	}
	if err := json.Unmarshal(op.Properties, v); err != nil {
		return err
	}
	return validate.Struct(v)
}

func invalidProps(err error) model.Message {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make([]string, len(verrs))
		for i, fe := range verrs {
			fields[i] = fmt.Sprintf("%s (%s)", fe.Field(), fe.Tag())
		}
		return critical(model.CodeInvalidProperties, "Invalid properties: "+strings.Join(fields, ", "))
	}
	return critical(model.CodeInvalidProperties, "Invalid properties: "+err.Error())
}

func critical(code, msg string) model.Message {
	return model.Message{Level: model.LevelCritical, Code: code, Message: msg}
}

func warning(code, msg string) model.Message {
	return model.Message{Level: model.LevelWarning, Code: code, Message: msg}
}
