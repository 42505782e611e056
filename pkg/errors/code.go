package errors

// ErrorCode represents a unique error identifier
type ErrorCode int

// Error code ranges allocation:
// 10000-10999: System & Common errors
// 20000-20099: Homework API transport errors
// 20100-20199: Homework API response errors
// 20200-20299: Notification errors

const (
	// ========== System & Common Errors (10000-10999) ==========

	// Success
	Success ErrorCode = 10000

	// Generic errors (10000-10099)
	InternalServerError ErrorCode = 10001
	InvalidParams       ErrorCode = 10002
	NotFound            ErrorCode = 10003

	// Configuration errors (10400-10499)
	ConfigMissing ErrorCode = 10400
	ConfigInvalid ErrorCode = 10401

	// ========== Homework API Errors (20000-20199) ==========

	// Transport (20000-20099)
	RequestFailed ErrorCode = 20000
	ServerError   ErrorCode = 20001
	PropertyError ErrorCode = 20002

	// Response shape (20100-20199)
	TypeMismatch  ErrorCode = 20100
	MissingKey    ErrorCode = 20101
	UnknownStatus ErrorCode = 20102

	// ========== Notification Errors (20200-20299) ==========

	NotificationFailed ErrorCode = 20200
)

// errorMessages maps error codes to their default messages.
// Messages end up in the chat, so they are written for the chat's reader.
var errorMessages = map[ErrorCode]string{
	Success:             "Успешно",
	InternalServerError: "Внутренняя ошибка",
	InvalidParams:       "Неверные параметры",
	NotFound:            "Ресурс не найден",

	ConfigMissing: "Отсутствуют обязательные переменные окружения",
	ConfigInvalid: "Неверная конфигурация",

	RequestFailed: "Сбой при запросе к эндпоинту",
	ServerError:   "Сервер недоступен",
	PropertyError: "Ответ API не удалось разобрать как JSON",

	TypeMismatch:  "Неверный тип данных в ответе API",
	MissingKey:    "В ответе API отсутствует обязательный ключ",
	UnknownStatus: "Статус работы неизвестен",

	NotificationFailed: "Ошибка отправки сообщения в Telegram-чат",
}

// Message returns the default message for the error code
func (c ErrorCode) Message() string {
	if msg, ok := errorMessages[c]; ok {
		return msg
	}
	return "Неизвестная ошибка"
}

// String returns a stable identifier for logs and metric labels.
func (c ErrorCode) String() string {
	switch c {
	case Success:
		return "success"
	case InternalServerError:
		return "internal"
	case InvalidParams:
		return "invalid_params"
	case NotFound:
		return "not_found"
	case ConfigMissing:
		return "config_missing"
	case ConfigInvalid:
		return "config_invalid"
	case RequestFailed:
		return "request_failed"
	case ServerError:
		return "server_error"
	case PropertyError:
		return "property_error"
	case TypeMismatch:
		return "type_mismatch"
	case MissingKey:
		return "missing_key"
	case UnknownStatus:
		return "unknown_status"
	case NotificationFailed:
		return "notification_failed"
	default:
		return "unknown"
	}
}

// HTTPStatus returns the recommended HTTP status code for the error code
func (c ErrorCode) HTTPStatus() int {
	switch {
	case c == Success:
		return 200
	case c == InvalidParams:
		return 400
	case c == NotFound:
		return 404
	case c == RequestFailed, c == ServerError, c == PropertyError:
		return 502
	case c >= 20100 && c < 20200: // Upstream payload errors
		return 502
	default:
		return 500
	}
}
