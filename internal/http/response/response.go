// Package response содержит вспомогательные типы и функции для формирования
// унифицированных JSON‑ответов HTTP‑обработчиков.
//
// Все ответы имеют вид {"success": bool, "message"?: string, "data"?: any}.
// Клиент проверяет поле success, а не HTTP-статус.
package response

import (
	"github.com/go-playground/validator"
)

// MsgFieldsRequired — сообщение при отсутствии обязательных полей.
const MsgFieldsRequired = "All fields are required"

// Response описывает стандартную структуру JSON‑ответа сервера.
type Response struct {
	Success bool   `json:"success" example:"true"`
	Message string `json:"message,omitempty" example:"Logged out successfully"`
	Data    any    `json:"data,omitempty"`
}

// OK возвращает пустой успешный Response.
func OK() Response {
	return Response{Success: true}
}

// OKWithMessage возвращает успешный Response с сообщением.
func OKWithMessage(msg string) Response {
	return Response{
		Success: true,
		Message: msg,
	}
}

// OKWithData возвращает успешный Response с переданными данными.
func OKWithData(data any) Response {
	return Response{
		Success: true,
		Data:    data,
	}
}

// Error возвращает неуспешный Response с переданным сообщением.
func Error(msg string) Response {
	return Response{
		Success: false,
		Message: msg,
	}
}

// ValidationError формирует неуспешный Response на основе ошибок валидации.
func ValidationError(errs validator.ValidationErrors) Response {
	for _, err := range errs {
		if err.ActualTag() != "required" {
			return Error("invalid field " + err.Field())
		}
	}
	return Error(MsgFieldsRequired)
}
