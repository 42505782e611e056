package service

import (
	"encoding/json"

	"hwbot/internal/homework/model"
	appErr "hwbot/pkg/errors"
)

// CheckResponse validates the API body and returns the homeworks array.
// An empty array is valid and means nothing changed since the cursor.
func CheckResponse(body interface{}) ([]interface{}, error) {
	payload, ok := body.(map[string]interface{})
	if !ok {
		return nil, appErr.TypeMismatchError("ответ API", "словарём")
	}
	raw, ok := payload[model.FieldHomeworks]
	if !ok {
		return nil, appErr.MissingKeyError(model.FieldHomeworks)
	}
	homeworks, ok := raw.([]interface{})
	if !ok {
		return nil, appErr.TypeMismatchError(model.FieldHomeworks, "списком")
	}
	return homeworks, nil
}

// DecodeHomework extracts name and status from one raw homeworks item.
func DecodeHomework(item interface{}) (model.Homework, error) {
	record, ok := item.(map[string]interface{})
	if !ok {
		return model.Homework{}, appErr.TypeMismatchError("homework", "словарём")
	}
	name, err := stringField(record, model.FieldHomeworkName)
	if err != nil {
		return model.Homework{}, err
	}
	status, err := stringField(record, model.FieldStatus)
	if err != nil {
		return model.Homework{}, err
	}
	return model.Homework{Name: name, Status: status}, nil
}

// ParseStatus translates one raw homeworks item into the chat message.
func ParseStatus(item interface{}) (string, error) {
	hw, err := DecodeHomework(item)
	if err != nil {
		return "", err
	}
	verdict, ok := model.Verdict(hw.Status)
	if !ok {
		return "", appErr.UnknownStatusError(hw.Status)
	}
	return model.StatusMessage(hw.Name, verdict), nil
}

// ExtractCursor reads current_date from the body. ok is false when the field
// is absent or not an integer.
func ExtractCursor(body interface{}) (int64, bool) {
	payload, ok := body.(map[string]interface{})
	if !ok {
		return 0, false
	}
	switch v := payload[model.FieldCurrentDate].(type) {
	case json.Number:
		n, err := v.Int64()
		if err != nil {
			return 0, false
		}
		return n, true
	case float64:
		if v != float64(int64(v)) {
			return 0, false
		}
		return int64(v), true
	default:
		return 0, false
	}
}

func stringField(record map[string]interface{}, key string) (string, error) {
	raw, ok := record[key]
	if !ok {
		return "", appErr.MissingKeyError(key)
	}
	value, ok := raw.(string)
	if !ok {
		return "", appErr.TypeMismatchError(key, "строкой")
	}
	return value, nil
}
