package webutil

import (
	"log"
	"reflect"
	"strings"

	"github.com/go-playground/locales/ja" // 日本語ロケール
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	ja_translations "github.com/go-playground/validator/v10/translations/ja" // 日本語翻訳
)

// Validator はアプリケーション全体で共有されるバリデータインスタンスです。
var Validator *validator.Validate

// Trans はエラーメッセージを翻訳するためのトランスレータです。
var Trans ut.Translator

var fieldNameTranslations = map[string]string{
	"name":               "名前",
	"email":              "メールアドレス",
	"password":           "パスワード",
	"role":               "役割",
	"title":              "タイトル",
	"content":            "本文",
	"total_hours":        "総時間",
	"question_text":      "問題文",
	"question_type":      "問題形式",
	"options":            "選択肢",
	"correct_options":    "正解の選択肢",
	"selected_option_id": "選択した回答",
	"time_spent_minutes": "学習時間(分)",
}

func translatedField(fe validator.FieldError) string {
	if name, ok := fieldNameTranslations[fe.Field()]; ok {
		return name
	}
	return fe.Field()
}

func init() {
	Validator = validator.New()

	// JSONタグからフィールド名を取得するように設定
	Validator.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	japanese := ja.New()
	uni := ut.New(japanese, japanese)
	var found bool
	Trans, found = uni.GetTranslator("ja")
	if !found {
		log.Fatal("translator not found")
	}

	if err := ja_translations.RegisterDefaultTranslations(Validator, Trans); err != nil {
		log.Fatal(err)
	}

	// 引数なしのタグ
	register := func(tag, msg string) {
		Validator.RegisterTranslation(tag, Trans, func(ut ut.Translator) error {
			return ut.Add(tag, msg, true)
		}, func(ut ut.Translator, fe validator.FieldError) string {
			t, _ := ut.T(tag, translatedField(fe))
			return t
		})
	}
	// パラメータ付きのタグ
	registerWithParam := func(tag, msg string) {
		Validator.RegisterTranslation(tag, Trans, func(ut ut.Translator) error {
			return ut.Add(tag, msg, true)
		}, func(ut ut.Translator, fe validator.FieldError) string {
			t, _ := ut.T(tag, translatedField(fe), fe.Param())
			return t
		})
	}

	register("required", "{0}は必須項目です。")
	register("email", "{0}は有効なメールアドレス形式ではありません。")
	registerWithParam("oneof", "{0}は[{1}]のいずれかを指定してください。")
	registerWithParam("gte", "{0}は{1}以上で入力してください。")

	// min / max は文字列・数値・配列で意味が変わる
	Validator.RegisterTranslation("min", Trans, func(ut ut.Translator) error {
		if err := ut.Add("min-string", "{0}は{1}文字以上で入力してください。", true); err != nil {
			return err
		}
		if err := ut.Add("min-items", "{0}は{1}件以上指定してください。", true); err != nil {
			return err
		}
		return ut.Add("min-number", "{0}は{1}以上で入力してください。", true)
	}, func(ut ut.Translator, fe validator.FieldError) string {
		key := "min-number"
		switch fe.Kind() {
		case reflect.String:
			key = "min-string"
		case reflect.Slice, reflect.Array, reflect.Map:
			key = "min-items"
		}
		t, _ := ut.T(key, translatedField(fe), fe.Param())
		return t
	})

	Validator.RegisterTranslation("max", Trans, func(ut ut.Translator) error {
		if err := ut.Add("max-string", "{0}は{1}文字以下で入力してください。", true); err != nil {
			return err
		}
		return ut.Add("max-number", "{0}は{1}以下で入力してください。", true)
	}, func(ut ut.Translator, fe validator.FieldError) string {
		key := "max-number"
		if fe.Kind() == reflect.String {
			key = "max-string"
		}
		t, _ := ut.T(key, translatedField(fe), fe.Param())
		return t
	})
}
