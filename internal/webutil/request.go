package webutil

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"course_quest/internal/model"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// DecodeJSONBody はリクエストボディをデコードします。未知のフィールドはエラーにします。
func DecodeJSONBody(r *http.Request, dst interface{}) error {
	if r.Body == nil {
		return model.ErrInvalidInput
	}
	defer r.Body.Close()

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(dst); err != nil {
		return fmt.Errorf("%w: %v", model.ErrInvalidInput, err)
	}
	return nil
}

// DecodeAndValidate はデコードとバリデーションをまとめて行い、失敗時は AppError を返します。
func DecodeAndValidate(r *http.Request, dst interface{}) error {
	if err := DecodeJSONBody(r, dst); err != nil {
		return model.NewAppError("INVALID_REQUEST_BODY", "リクエストボディの形式が正しくありません。", "", err)
	}
	if err := Validator.Struct(dst); err != nil {
		return ValidationAppError(err)
	}
	return nil
}

// URLParamUUID はパスパラメータを UUID として取り出します。
func URLParamUUID(r *http.Request, name string) (uuid.UUID, error) {
	raw := chi.URLParam(r, name)
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, model.NewAppError("INVALID_ID", "IDの形式が正しくありません。", name, errors.Join(model.ErrInvalidInput, err))
	}
	return id, nil
}
